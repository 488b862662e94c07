package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/glamour/styles"
	xansi "github.com/charmbracelet/x/ansi"
)

func TestMarkdownStyle_RespectsTUITheme(t *testing.T) {
	t.Setenv("LIVEWATCH_TUI_MD_STYLE", "")
	t.Setenv("COLORFGBG", "")

	t.Setenv("LIVEWATCH_TUI_THEME", "light")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected light; got %q", got)
	}

	t.Setenv("LIVEWATCH_TUI_THEME", "dark")
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("expected dark; got %q", got)
	}
}

func TestMarkdownStyle_MDStyleOverridesTheme(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("LIVEWATCH_TUI_THEME", "light")

	t.Setenv("LIVEWATCH_TUI_MD_STYLE", "dark")
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("expected dark; got %q", got)
	}
}

func TestMarkdownStyle_COLORFGBG(t *testing.T) {
	t.Setenv("LIVEWATCH_TUI_MD_STYLE", "")
	t.Setenv("LIVEWATCH_TUI_THEME", "")

	t.Setenv("COLORFGBG", "0;15")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected light for bg 15; got %q", got)
	}
	t.Setenv("COLORFGBG", "15;0")
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("expected dark for bg 0; got %q", got)
	}
}

func TestMarkdownStyleConfig_KeepsLinkStyles(t *testing.T) {
	got := markdownStyleConfig("light")
	want := styles.LightStyleConfig
	if strPtrValue(got.Link.Color) != strPtrValue(want.Link.Color) {
		t.Fatalf("Link color: got %q want %q", strPtrValue(got.Link.Color), strPtrValue(want.Link.Color))
	}
	if strPtrValue(got.Text.Color) != colorSurfaceFg.Light {
		t.Fatalf("Text color: got %q", strPtrValue(got.Text.Color))
	}
}

func strPtrValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func TestRenderMarkdown_WrapsToWidth(t *testing.T) {
	t.Setenv("LIVEWATCH_TUI_MD_STYLE", "dark")
	out := xansi.Strip(renderMarkdown("alpha beta gamma delta epsilon zeta eta theta iota kappa lambda", 20))
	if !strings.Contains(out, "alpha") || !strings.Contains(out, "lambda") {
		t.Fatalf("expected all words rendered, got:\n%s", out)
	}
	if strings.Count(out, "\n") < 2 {
		t.Fatalf("expected wrapped output, got:\n%s", out)
	}
	if renderMarkdown("   ", 40) != "" {
		t.Fatalf("expected empty input to render empty")
	}
}

func TestFitCell(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		w    int
		want string
	}{
		{"abc", 5, "abc  "},
		{"abcdef", 4, "abc…"},
		{"张财经", 4, "张… "},
		{"x", 0, ""},
	}
	for _, tt := range tests {
		if got := fitCell(tt.in, tt.w); got != tt.want {
			t.Fatalf("fitCell(%q, %d) = %q, want %q", tt.in, tt.w, got, tt.want)
		}
	}
}

func TestScrollWindowClamps(t *testing.T) {
	t.Parallel()

	s := "1\n2\n3\n4\n5"
	got, off := scrollWindow(s, 10, 2)
	if got != "4\n5" || off != 3 {
		t.Fatalf("got %q off=%d", got, off)
	}
	got, off = scrollWindow(s, 0, 10)
	if got != s || off != 0 {
		t.Fatalf("short content should not scroll, got %q off=%d", got, off)
	}
}

func TestMarkdownStyleConfig_SectionHeadingsUseAccent(t *testing.T) {
	if got := strPtrValue(markdownStyleConfig("dark").H2.Color); got != colorAccent.Dark {
		t.Fatalf("H2 color: got %q want %q", got, colorAccent.Dark)
	}
}
