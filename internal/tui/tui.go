package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive console and blocks until the operator quits.
func Run(opts Options) error {
	applyThemePreference()
	applyColorProfilePreference()

	m := newAppModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.hooks.send = p.Send
	_, err := p.Run()
	return err
}
