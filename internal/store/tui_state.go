package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

const tuiStateFileName = "tui_state.json"

// Views the TUI can reopen on.
const (
	ViewAnchors    = "anchors"
	ViewRecordings = "recordings"
	ViewSummaries  = "summaries"
	ViewStatus     = "status"
)

// TUIState remembers where the operator left the TUI. It is best effort: callers get
// defaults for a missing or unreadable file.
type TUIState struct {
	Version int `json:"version"`

	// View is one of: anchors|recordings|summaries|status
	View string `json:"view,omitempty"`

	SelectedAnchorID    string `json:"selectedAnchorId,omitempty"`
	SelectedRecordingID string `json:"selectedRecordingId,omitempty"`
	SelectedSummaryID   string `json:"selectedSummaryId,omitempty"`

	// FollowedOnly narrows the anchors view to followed anchors.
	FollowedOnly bool `json:"followedOnly,omitempty"`
}

func defaultTUIState() *TUIState {
	return &TUIState{Version: 1, View: ViewAnchors}
}

func (s Store) tuiStatePath() string {
	return filepath.Join(s.Dir, tuiStateFileName)
}

func (s Store) LoadTUIState() (*TUIState, error) {
	if !s.enabled() {
		return defaultTUIState(), nil
	}
	b, err := os.ReadFile(s.tuiStatePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultTUIState(), nil
		}
		return nil, err
	}
	var st TUIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Corrupt state is treated as missing.
		return defaultTUIState(), nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	switch st.View {
	case ViewAnchors, ViewRecordings, ViewSummaries, ViewStatus:
	default:
		st.View = ViewAnchors
	}
	return &st, nil
}

func (s Store) SaveTUIState(st *TUIState) error {
	if st == nil || !s.enabled() {
		return nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(s.tuiStatePath(), b)
}
