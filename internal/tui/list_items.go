package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"livewatch-cli/internal/model"
)

type anchorItem struct{ anchor model.Anchor }

func (i anchorItem) FilterValue() string {
	return i.anchor.Name + " " + i.anchor.DouyinID
}

func (i anchorItem) Title() string {
	mark := styleMuted().Render("·")
	if i.anchor.IsFollowed {
		mark = infoStyle.Render("★")
	}
	cols := []string{
		mark,
		fitCell(i.anchor.Name, 18),
		fitCell("@"+i.anchor.DouyinID, 18),
	}
	if i.anchor.RoomID != "" {
		cols = append(cols, styleMuted().Render("room "+i.anchor.RoomID))
	}
	return strings.Join(cols, " ")
}

func (i anchorItem) dimmed() bool { return !i.anchor.IsFollowed }

type recordingItem struct{ rec model.Recording }

func (i recordingItem) dimmed() bool { return false }

func (i recordingItem) FilterValue() string {
	return i.rec.AnchorName() + " " + string(i.rec.Status)
}

func (i recordingItem) Title() string {
	return strings.Join([]string{
		fitCell("#"+i.rec.ID.String(), 6),
		fitCell(i.rec.AnchorName(), 16),
		statusStyle(string(i.rec.Status)).Render(fitCell(string(i.rec.Status), 10)),
		fitCell(model.LocalTime(i.rec.StartTime), 16),
		styleMuted().Render(model.FormatDuration(i.rec.VideoDuration)),
	}, " ")
}

type summaryItem struct{ sum model.Summary }

func (i summaryItem) dimmed() bool { return false }

func (i summaryItem) FilterValue() string {
	return i.sum.AnchorName() + " " + strings.Join(i.sum.Keywords, " ")
}

func (i summaryItem) Title() string {
	return strings.Join([]string{
		fitCell("#"+i.sum.ID.String(), 6),
		fitCell(i.sum.AnchorName(), 16),
		statusStyle(string(i.sum.Status)).Render(fitCell(string(i.sum.Status), 10)),
		fitCell(model.LocalTime(i.sum.CreatedAt), 16),
		styleMuted().Render(strings.Join(i.sum.Keywords, ", ")),
	}, " ")
}

func anchorItems(xs []model.Anchor) []list.Item {
	out := make([]list.Item, 0, len(xs))
	for _, a := range xs {
		out = append(out, anchorItem{anchor: a})
	}
	return out
}

func recordingItems(xs []model.Recording) []list.Item {
	out := make([]list.Item, 0, len(xs))
	for _, r := range xs {
		out = append(out, recordingItem{rec: r})
	}
	return out
}

func summaryItems(xs []model.Summary) []list.Item {
	out := make([]list.Item, 0, len(xs))
	for _, s := range xs {
		out = append(out, summaryItem{sum: s})
	}
	return out
}

// itemID returns the record id behind a list row.
func itemID(it list.Item) model.ID {
	switch it := it.(type) {
	case anchorItem:
		return it.anchor.ID
	case recordingItem:
		return it.rec.ID
	case summaryItem:
		return it.sum.ID
	}
	return ""
}

func newList(title string) list.Model {
	l := list.New([]list.Item{}, newRowDelegate(), 0, 0)
	l.Title = title
	// The app renders its own header and footer.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	// ESC is back/cancel here, and q is handled by the app.
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	l.KeyMap.CursorUp.SetKeys(append(cursorUpKeys, "ctrl+p")...)
	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	l.KeyMap.CursorDown.SetKeys(append(cursorDownKeys, "ctrl+n")...)
	return l
}

// setItemsKeepSelection replaces the rows and keeps the cursor on the same record id when
// it is still present.
func setItemsKeepSelection(l *list.Model, items []list.Item, want model.ID) {
	if want == "" {
		if it := l.SelectedItem(); it != nil {
			want = itemID(it)
		}
	}
	l.SetItems(items)
	if want == "" {
		return
	}
	for i, it := range items {
		if itemID(it) == want {
			l.Select(i)
			return
		}
	}
}
