package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"livewatch-cli/internal/console"
)

type formField int

const (
	fieldName formField = iota
	fieldPlatformID
	fieldRoomID
	fieldAvatarURL
	fieldFollowed
)

var formLabels = map[formField]string{
	fieldName:       "Name",
	fieldPlatformID: "Douyin ID",
	fieldRoomID:     "Room ID",
	fieldAvatarURL:  "Avatar URL",
	fieldFollowed:   "Followed",
}

// anchorFormModel is the on-screen state of the add/edit anchor modal. The console
// ModalController owns the open/closed state; this only holds what is being typed.
type anchorFormModel struct {
	mode     console.Mode
	inputs   map[formField]*textinput.Model
	followed bool
	focus    formField
	// fixedPlatformID is shown read-only while editing.
	fixedPlatformID string
}

func newFormInput(placeholder string, limit int) *textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = 40
	in.Prompt = ""
	return &in
}

func newAnchorFormModel(mode console.Mode, v console.AnchorValues, platformID string) anchorFormModel {
	f := anchorFormModel{
		mode:     mode,
		followed: v.Followed,
		inputs: map[formField]*textinput.Model{
			fieldName:       newFormInput("张财经", 100),
			fieldPlatformID: newFormInput("zhangcaijing", 100),
			fieldRoomID:     newFormInput("optional", 100),
			fieldAvatarURL:  newFormInput("https://…", 255),
		},
		fixedPlatformID: platformID,
	}
	f.inputs[fieldName].SetValue(v.Name)
	f.inputs[fieldPlatformID].SetValue(v.PlatformID)
	f.inputs[fieldRoomID].SetValue(v.RoomID)
	f.inputs[fieldAvatarURL].SetValue(v.AvatarURL)
	f.setFocus(fieldName)
	return f
}

// fields lists the focusable fields in tab order. The platform id is immutable once the
// anchor exists.
func (f anchorFormModel) fields() []formField {
	if f.mode == console.ModeEdit {
		return []formField{fieldName, fieldRoomID, fieldAvatarURL, fieldFollowed}
	}
	return []formField{fieldName, fieldPlatformID, fieldRoomID, fieldAvatarURL, fieldFollowed}
}

func (f *anchorFormModel) setFocus(field formField) {
	f.focus = field
	for k, in := range f.inputs {
		if k == field {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (f *anchorFormModel) move(delta int) {
	fields := f.fields()
	idx := 0
	for i, k := range fields {
		if k == f.focus {
			idx = i
		}
	}
	idx = (idx + delta + len(fields)) % len(fields)
	f.setFocus(fields[idx])
}

func (f anchorFormModel) values() console.AnchorValues {
	v := console.AnchorValues{
		Name:      f.inputs[fieldName].Value(),
		RoomID:    f.inputs[fieldRoomID].Value(),
		AvatarURL: f.inputs[fieldAvatarURL].Value(),
		Followed:  f.followed,
	}
	if f.mode == console.ModeCreate {
		v.PlatformID = f.inputs[fieldPlatformID].Value()
	}
	return v
}

// update handles field navigation and typing. enter and esc are handled by the app.
func (f anchorFormModel) update(msg tea.KeyMsg) (anchorFormModel, tea.Cmd) {
	switch msg.String() {
	case "tab", "down", "ctrl+n":
		f.move(1)
		return f, nil
	case "shift+tab", "up", "ctrl+p":
		f.move(-1)
		return f, nil
	}
	if f.focus == fieldFollowed {
		switch msg.String() {
		case " ", "space", "x", "left", "right":
			f.followed = !f.followed
		}
		return f, nil
	}
	in := f.inputs[f.focus]
	next, cmd := in.Update(msg)
	*in = next
	return f, cmd
}

func (f anchorFormModel) view(width int) string {
	bodyW := modalBodyWidth(width)
	rows := make([]string, 0, 8)
	label := func(field formField) string {
		st := labelStyle
		if field == f.focus {
			st = st.Foreground(colorAccent).Bold(true)
		}
		return st.Render(formLabels[field])
	}
	inputW := bodyW - lipgloss.Width(labelStyle.Render("")) - 1
	for _, field := range []formField{fieldName, fieldPlatformID, fieldRoomID, fieldAvatarURL} {
		if field == fieldPlatformID && f.mode == console.ModeEdit {
			rows = append(rows, labelStyle.Render(formLabels[field])+" "+styleMuted().Render(emptyAsDash(f.fixedPlatformID)+" (fixed)"))
			continue
		}
		rows = append(rows, label(field)+" "+renderInputLine(inputW, f.inputs[field].View()))
	}
	check := "[ ]"
	if f.followed {
		check = "[x]"
	}
	rows = append(rows, label(fieldFollowed)+" "+check)
	rows = append(rows, "", styleMuted().Width(bodyW).Render("tab: next field   space: toggle   enter: save   esc: cancel"))
	return strings.Join(rows, "\n")
}

func (f anchorFormModel) title() string {
	if f.mode == console.ModeEdit {
		return "Edit anchor"
	}
	return "Add anchor"
}

func renderInputLine(bodyW int, inputView string) string {
	if bodyW < 10 {
		bodyW = 10
	}
	// Inputs render as one visual line; stray newlines would wrap inside the modal.
	inputView = strings.ReplaceAll(inputView, "\n", " ")
	inputView = strings.ReplaceAll(inputView, "\r", " ")
	return lipgloss.NewStyle().Background(colorInputBg).Render(fitCell(" "+inputView, bodyW))
}

func emptyAsDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
