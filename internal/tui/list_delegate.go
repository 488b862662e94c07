package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// row is what every resource list item renders as: one line of cells and whether the
// record is out of focus (an unfollowed anchor).
type row interface {
	Title() string
	dimmed() bool
}

// rowDelegate draws one record per line, padded to the list width.
type rowDelegate struct {
	normal   lipgloss.Style
	dim      lipgloss.Style
	selected lipgloss.Style
}

func newRowDelegate() rowDelegate {
	return rowDelegate{
		normal:   lipgloss.NewStyle(),
		dim:      lipgloss.NewStyle().Faint(true),
		selected: lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true),
	}
}

func (d rowDelegate) Height() int                         { return 1 }
func (d rowDelegate) Spacing() int                        { return 0 }
func (d rowDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	width := m.Width()
	if width < 4 {
		return
	}
	r, ok := item.(row)
	if !ok {
		fmt.Fprint(w, fitCell(fmt.Sprint(item), width))
		return
	}
	switch {
	case index == m.Index():
		fmt.Fprint(w, d.selected.Render(fitCell("▌ "+r.Title(), width)))
	case r.dimmed():
		fmt.Fprint(w, d.dim.Render(fitCell("  "+r.Title(), width)))
	default:
		fmt.Fprint(w, d.normal.Render(fitCell("  "+r.Title(), width)))
	}
}
