package tui

import (
	"livewatch-cli/internal/store"
)

type view int

const (
	viewAnchors view = iota
	viewRecordings
	viewSummaries
	viewStatus
)

var viewNames = map[view]string{
	viewAnchors:    store.ViewAnchors,
	viewRecordings: store.ViewRecordings,
	viewSummaries:  store.ViewSummaries,
	viewStatus:     store.ViewStatus,
}

func viewFromString(s string) view {
	for v, name := range viewNames {
		if name == s {
			return v
		}
	}
	return viewAnchors
}

func (v view) title() string {
	switch v {
	case viewRecordings:
		return "Recordings"
	case viewSummaries:
		return "Summaries"
	case viewStatus:
		return "Status"
	default:
		return "Anchors"
	}
}

type modalKind int

const (
	modalNone modalKind = iota
	modalAnchorForm
	modalConfirmDelete
)

type detailKind int

const (
	detailNone detailKind = iota
	detailRecording
	detailSummary
)

// Messages. Controller calls run inside tea.Cmds; their results come back as these.

type tickMsg struct{}

type statusTickMsg struct{}

// stateChangedMsg is sent by controller OnChange hooks while a call is in flight.
type stateChangedMsg struct{}

type listLoadedMsg struct {
	view view
	err  error
}

type mutationDoneMsg struct {
	op  string
	err error
}

type statusLoadedMsg struct{ err error }

type detailLoadedMsg struct {
	seq int
	err error
}
