package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"livewatch-cli/internal/format"
	"livewatch-cli/internal/model"
	"livewatch-cli/internal/publish"
)

func (m appModel) View() string {
	w := m.width
	if w <= 0 {
		w = 80
	}
	h := m.bodyHeight()

	var body string
	switch {
	case m.modal == modalAnchorForm:
		body = lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, renderModalBox(w, m.form.title(), m.form.view(w)))
	case m.modal == modalConfirmDelete:
		msg := "Delete anchor " + m.deleteTarget.Name + " (@" + m.deleteTarget.DouyinID + ")?\nIts recordings and summaries go with it."
		body = lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, renderConfirmModal(w, "Delete anchor", msg, "Delete", "Cancel", m.confirmFocus))
	case m.detail.kind != detailNone:
		body, _ = scrollWindow(m.detailContent(), m.detail.scroll, h)
	default:
		body = m.viewBody()
	}

	return strings.Join([]string{
		normalizePane(m.viewHeader(), w, 1),
		"",
		normalizePane(body, w, h),
		normalizePane(m.viewMinibuffer(), w, 1),
		normalizePane(styleMuted().Render(m.footerHelp()), w, 1),
	}, "\n")
}

func (m appModel) viewHeader() string {
	tabs := make([]string, 0, 4)
	for _, v := range []view{viewAnchors, viewRecordings, viewSummaries, viewStatus} {
		label := strconv.Itoa(int(v)+1) + " " + v.title()
		if v == m.view {
			tabs = append(tabs, tabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	var crumbs []string
	if m.view == viewAnchors && m.followedOnly {
		crumbs = append(crumbs, "followed only")
	}
	if m.view == viewRecordings && m.recordingsFor != "" {
		crumbs = append(crumbs, "anchor: "+m.recordingsForName)
	}
	if m.loading() {
		crumbs = append(crumbs, "loading…")
	}
	if len(crumbs) > 0 {
		header += "  " + styleMuted().Render(strings.Join(crumbs, " · "))
	}
	return header
}

func (m appModel) loading() bool {
	if m.detail.kind != detailNone {
		switch m.detail.kind {
		case detailRecording:
			return m.detail.recording.State().Loading
		case detailSummary:
			return m.detail.summary.State().Loading
		}
	}
	switch m.view {
	case viewAnchors:
		return m.anchors.State().Loading
	case viewRecordings:
		return m.recordings.State().Loading
	case viewSummaries:
		return m.summaries.State().Loading
	case viewStatus:
		return m.status.State().Loading
	}
	return false
}

func (m appModel) viewBody() string {
	if m.view == viewStatus {
		return m.viewStatus()
	}
	l := m.activeList()
	if len(l.Items()) == 0 {
		if m.loading() {
			return styleMuted().Render("Loading…")
		}
		return styleMuted().Render("No " + strings.ToLower(m.view.title()) + ".")
	}
	return l.View()
}

func (m appModel) viewStatus() string {
	st := m.status.State()
	if !st.Loaded {
		if st.Loading {
			return styleMuted().Render("Loading…")
		}
		return styleMuted().Render("Status not loaded. r: retry")
	}
	return strings.Join(statusLines(st.Value), "\n")
}

func statusLines(st model.SystemStatus) []string {
	row := func(label, value string) string { return labelStyle.Render(label) + value }
	return []string{
		titleStyle.Render("Storage"),
		row("Videos", format.HumanBytes(st.Storage.VideoSize)),
		row("Summaries", format.HumanBytes(st.Storage.SummarySize)),
		row("Total", format.HumanBytes(st.Storage.TotalSize)),
		"",
		titleStyle.Render("Database"),
		row("Anchors", strconv.FormatInt(st.Database.AnchorCount, 10)),
		row("Recordings", strconv.FormatInt(st.Database.RecordingCount, 10)),
		row("Summaries", strconv.FormatInt(st.Database.SummaryCount, 10)),
		"",
		row("As of", model.LocalTime(st.Timestamp)),
	}
}

// detailContent renders the open recording or summary through glamour.
func (m appModel) detailContent() string {
	w := m.width
	if w <= 0 {
		w = 80
	}
	var (
		md              string
		loaded, loading bool
	)
	switch m.detail.kind {
	case detailRecording:
		st := m.detail.recording.State()
		loaded, loading = st.Loaded, st.Loading
		if loaded {
			md = publish.RenderRecordingMarkdown(st.Value)
		}
	case detailSummary:
		st := m.detail.summary.State()
		loaded, loading = st.Loaded, st.Loading
		if loaded {
			md = publish.RenderSummaryMarkdown(st.Value)
		}
	default:
		return ""
	}
	if !loaded {
		if loading {
			return styleMuted().Render("Loading…")
		}
		return styleMuted().Render("Could not load. r: retry   esc: back")
	}
	return renderMarkdown(md, w-2)
}

func (m appModel) viewMinibuffer() string {
	if m.minibufferText == "" {
		return ""
	}
	if m.minibufferErr {
		return errorStyle.Render(m.minibufferText)
	}
	return infoStyle.Render(m.minibufferText)
}

func (m appModel) footerHelp() string {
	switch {
	case m.modal != modalNone:
		return ""
	case m.detail.kind != detailNone:
		return "j/k: scroll  r: reload  esc: back  q: quit"
	}
	switch m.view {
	case viewAnchors:
		return "1-4: view  r: refresh  a: add  e: edit  d: delete  f: followed  enter: recordings  /: filter  q: quit"
	case viewRecordings:
		if m.recordingsFor != "" {
			return "1-4: view  r: refresh  enter: detail  esc: all anchors  /: filter  q: quit"
		}
		return "1-4: view  r: refresh  enter: detail  /: filter  q: quit"
	case viewSummaries:
		return "1-4: view  r: refresh  enter: detail  /: filter  q: quit"
	default:
		return "1-4: view  r: refresh  q: quit"
	}
}
