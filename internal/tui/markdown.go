package tui

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// detailRenderers holds one glamour renderer per (style, width). WithAutoStyle queries the
// terminal and can block inside the program loop, so styles are always explicit.
type detailRenderers struct {
	mu sync.Mutex
	m  map[rendererKey]*glamour.TermRenderer
}

type rendererKey struct {
	style string
	width int
}

var details = &detailRenderers{m: map[rendererKey]*glamour.TermRenderer{}}

func (d *detailRenderers) get(style string, width int) (*glamour.TermRenderer, error) {
	k := rendererKey{style: style, width: width}
	d.mu.Lock()
	defer d.mu.Unlock()
	if r, ok := d.m[k]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(markdownStyleConfig(style)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	d.m[k] = r
	return r, nil
}

// renderMarkdown renders a summary or recording detail for the detail pane. The raw
// markdown is returned when glamour fails.
func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	r, err := details.get(markdownStyle(), max(width, 10))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// markdownStyle picks "light" or "dark": LIVEWATCH_TUI_MD_STYLE, then the TUI theme
// override, then COLORFGBG, then lipgloss background detection.
func markdownStyle() string {
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("LIVEWATCH_TUI_MD_STYLE"))); v == "light" || v == "dark" {
		return v
	}
	if v := themeOverride(); v != "" {
		return v
	}
	if bg, ok := colorFGBGBackground(); ok {
		// xterm palette: 0-6 dark, 7-15 light.
		if bg >= 7 {
			return "light"
		}
		return "dark"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func markdownStyleConfig(style string) ansi.StyleConfig {
	cfg := styles.DarkStyleConfig
	if style == "light" {
		cfg = styles.LightStyleConfig
	}
	text := mdColor(colorSurfaceFg, style)

	cfg.Text.Color = text
	cfg.Heading.Color = text
	cfg.H1.Color = text
	// Section headings (core points, keywords, transcript) stand out from the prose.
	cfg.H2.Color = mdColor(colorAccent, style)
	cfg.H3.Color = text
	cfg.Strong.Color = nil
	cfg.Emph.Color = nil
	faint := false
	cfg.BlockQuote.Faint = &faint
	return cfg
}

func mdColor(c lipgloss.AdaptiveColor, style string) *string {
	v := c.Dark
	if style == "light" {
		v = c.Light
	}
	return &v
}
