package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"livewatch-cli/internal/console"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tickMsg:
		if m.minibufferText != "" && time.Since(m.minibufferSetAt) > minibufferAutoClearAfter {
			m.minibufferText = ""
			m.minibufferErr = false
		}
		return m, tickMinibuffer()

	case statusTickMsg:
		next := tickStatus(m.opts.StatusInterval)
		if m.view == viewStatus && !m.status.State().Loading {
			return m, tea.Batch(m.statusLoadCmd(), next)
		}
		return m, next

	case stateChangedMsg:
		m.syncLists()
		m.drainNotices()
		return m, nil

	case listLoadedMsg, statusLoadedMsg:
		m.syncLists()
		m.drainNotices()
		return m, nil

	case detailLoadedMsg:
		// A result for a detail that was closed or replaced still carries its notice.
		if msg.seq == m.detail.seq {
			m.detail.scroll = 0
		}
		m.drainNotices()
		return m, nil

	case mutationDoneMsg:
		m.submitting = false
		if msg.op != "delete" && m.anchorForm.Mode() == console.ModeClosed {
			m.modal = modalNone
		}
		m.syncLists()
		m.drainNotices()
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m appModel) updateKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if k.String() == "ctrl+c" {
		m.saveState()
		return m, tea.Quit
	}

	switch m.modal {
	case modalAnchorForm:
		return m.updateAnchorForm(k)
	case modalConfirmDelete:
		return m.updateConfirmDelete(k)
	}

	if m.detail.kind != detailNone {
		return m.updateDetail(k)
	}

	// While a list filter is being typed every key belongs to the list.
	if l := m.activeList(); l != nil && l.SettingFilter() {
		return m.forwardToList(k)
	}

	switch k.String() {
	case "q":
		m.saveState()
		return m, tea.Quit
	case "1", "2", "3", "4":
		next := view(k.String()[0] - '1')
		m.view = next
		m.saveState()
		return m, m.activateCmd(next)
	case "r":
		return m, m.refreshCmd(m.view)
	case "a":
		if m.view != viewAnchors {
			m.showMinibuffer(m.view.title()+" are read-only", true)
			return m, nil
		}
		if err := m.anchorForm.OpenCreate(); err != nil {
			return m, nil
		}
		m.form = newAnchorFormModel(console.ModeCreate, m.anchorForm.Values(), "")
		m.modal = modalAnchorForm
		return m, nil
	case "e":
		if m.view != viewAnchors {
			m.showMinibuffer(m.view.title()+" are read-only", true)
			return m, nil
		}
		a, ok := m.selectedAnchor()
		if !ok {
			return m, nil
		}
		if err := m.anchorForm.OpenEdit(a); err != nil {
			return m, nil
		}
		m.form = newAnchorFormModel(console.ModeEdit, m.anchorForm.Values(), a.DouyinID)
		m.modal = modalAnchorForm
		return m, nil
	case "d":
		if m.view != viewAnchors {
			m.showMinibuffer(m.view.title()+" are read-only", true)
			return m, nil
		}
		a, ok := m.selectedAnchor()
		if !ok {
			return m, nil
		}
		m.deleteTarget = a
		m.confirmFocus = confirmFocusCancel
		m.modal = modalConfirmDelete
		return m, nil
	case "f":
		if m.view == viewAnchors {
			return m, m.toggleFollowedOnly()
		}
	case "enter":
		switch m.view {
		case viewAnchors:
			if a, ok := m.selectedAnchor(); ok {
				return m, m.showRecordingsFor(a.ID, a.Name)
			}
			return m, nil
		case viewRecordings, viewSummaries:
			return m, m.openDetail()
		}
		return m, nil
	case "esc":
		if l := m.activeList(); l != nil && l.IsFiltered() {
			l.ResetFilter()
			return m, nil
		}
		if m.view == viewRecordings && m.recordingsFor != "" {
			return m, m.showRecordingsFor("", "")
		}
		return m, nil
	}
	return m.forwardToList(k)
}

func (m appModel) forwardToList(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := m.activeList()
	if l == nil {
		return m, nil
	}
	var cmd tea.Cmd
	*l, cmd = l.Update(k)
	return m, cmd
}

func (m appModel) updateAnchorForm(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "esc", "ctrl+g":
		m.anchorForm.Cancel()
		m.modal = modalNone
		return m, nil
	case "enter":
		if m.submitting {
			return m, nil
		}
		m.submitting = true
		return m, m.submitCmd(m.form.values())
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.update(k)
	return m, cmd
}

func (m appModel) updateConfirmDelete(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "esc", "ctrl+g", "n":
		m.modal = modalNone
		return m, nil
	case "tab", "shift+tab", "left", "right", "h", "l":
		m.confirmFocus = m.confirmFocus.toggle()
		return m, nil
	case "y":
		m.confirmFocus = confirmFocusConfirm
	case "enter":
	default:
		return m, nil
	}
	m.modal = modalNone
	if m.confirmFocus != confirmFocusConfirm {
		return m, nil
	}
	return m, m.removeCmd(m.deleteTarget.ID)
}

func (m appModel) updateDetail(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "q":
		m.saveState()
		return m, tea.Quit
	case "esc", "backspace":
		m.detail = detailState{}
		return m, nil
	case "r":
		return m, m.detailLoadCmd()
	case "j", "down", "ctrl+n":
		m.detail.scroll++
	case "k", "up", "ctrl+p":
		if m.detail.scroll > 0 {
			m.detail.scroll--
		}
	case "pgdown", " ":
		m.detail.scroll += m.bodyHeight()
	case "pgup":
		m.detail.scroll -= m.bodyHeight()
		if m.detail.scroll < 0 {
			m.detail.scroll = 0
		}
	case "g", "home":
		m.detail.scroll = 0
	}
	_, m.detail.scroll = scrollWindow(m.detailContent(), m.detail.scroll, m.bodyHeight())
	return m, nil
}

const chromeLines = 4

func (m appModel) bodyHeight() int {
	h := m.height - chromeLines
	if h < 5 {
		h = 5
	}
	return h
}

func (m *appModel) resizeLists() {
	w := m.width
	if w < 40 {
		w = 40
	}
	h := m.bodyHeight()
	for _, l := range []*list.Model{&m.anchorsList, &m.recordingsList, &m.summariesList} {
		l.SetSize(w, h)
	}
}
