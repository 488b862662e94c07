package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"livewatch-cli/internal/statusutil"
)

// Theme/palette helpers.
//
// The console must stay readable on light and dark terminals, so colors are adaptive and
// "faint" is only applied on dark backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted       = ac("240", "243")
	colorChromeFg    = ac("240", "245")
	colorSelectedBg  = ac("#e9e9e9", "#262626")
	colorSelectedFg  = ac("235", "255")
	colorSurfaceFg   = ac("235", "252")
	colorControlBg   = ac("252", "235")
	colorInputBg     = ac("254", "234")
	colorAccent      = ac("27", "62")
	colorAccentFg    = ac("255", "235")
	colorModalBorder = ac("250", "243")

	colorError   = ac("160", "203")
	colorOK      = ac("28", "78")
	colorWarning = ac("130", "214")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

var (
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(colorChromeFg)
	tabActiveStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(colorAccentFg).Background(colorAccent)
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
	errorStyle     = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	infoStyle      = lipgloss.NewStyle().Foreground(colorOK)
	labelStyle     = lipgloss.NewStyle().Foreground(colorChromeFg).Width(11)
)

// statusStyle colors recording and summary statuses.
func statusStyle(status string) lipgloss.Style {
	switch statusutil.PhaseOf(status) {
	case statusutil.PhaseDone:
		return lipgloss.NewStyle().Foreground(colorOK)
	case statusutil.PhaseFailed:
		return lipgloss.NewStyle().Foreground(colorError)
	case statusutil.PhaseActive:
		return lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	default:
		return styleMuted()
	}
}

// applyColorProfilePreference sets Lip Gloss's color profile for the interactive TUI.
//
// termenv.EnvColorProfile honors CLICOLOR, which can disable colors in a TUI by accident, so
// only NO_COLOR is respected here and otherwise the terminal's capabilities win.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// Trust TERM/COLORTERM when they claim more than the detector reports.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") && (profile == termenv.Ascii || profile == termenv.ANSI) {
		profile = termenv.ANSI256
	}

	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures Lip Gloss's background detection.
//
// Priority:
// 1) LIVEWATCH_TUI_THEME=light|dark|auto
// 2) COLORFGBG heuristic ("fg;bg", last segment is the background)
func applyThemePreference() {
	switch themeOverride() {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}
	if bg, ok := colorFGBGBackground(); ok {
		lipgloss.SetHasDarkBackground(bg < 7)
	}
}

func themeOverride() string {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("LIVEWATCH_TUI_THEME")))
	if v == "light" || v == "dark" {
		return v
	}
	return ""
}

func colorFGBGBackground() (int, bool) {
	v := strings.TrimSpace(os.Getenv("COLORFGBG"))
	if v == "" {
		return 0, false
	}
	parts := strings.Split(v, ";")
	bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil || bg < 0 {
		return 0, false
	}
	return bg, true
}
