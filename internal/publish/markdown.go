package publish

import (
	"fmt"
	"strings"

	"livewatch-cli/internal/model"
)

// RenderSummaryMarkdown renders a summary detail. Empty sections are left out.
func RenderSummaryMarkdown(s model.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s · summary %s\n\n", s.AnchorName(), s.ID)
	fmt.Fprintf(&b, "- **Status:** %s\n", s.Status)
	if s.Recording != nil {
		fmt.Fprintf(&b, "- **Recording:** %s, started %s\n", s.Recording.ID, model.LocalTime(s.Recording.StartTime))
	}
	if s.CreatedAt != "" {
		fmt.Fprintf(&b, "- **Created:** %s\n", model.LocalTime(s.CreatedAt))
	}
	if len(s.Keywords) > 0 {
		fmt.Fprintf(&b, "- **Keywords:** %s\n", strings.Join(s.Keywords, ", "))
	}
	if body := strings.TrimSpace(s.Content); body != "" {
		b.WriteString("\n" + body + "\n")
	}
	if len(s.CorePoints) > 0 {
		b.WriteString("\n## Core points\n\n")
		for _, p := range s.CorePoints {
			b.WriteString("- " + p + "\n")
		}
	}
	if v := strings.TrimSpace(s.MarketAnalysis); v != "" {
		b.WriteString("\n## Market analysis\n\n" + v + "\n")
	}
	if v := strings.TrimSpace(s.InvestmentAdvice); v != "" {
		b.WriteString("\n## Investment advice\n\n" + v + "\n")
	}
	return b.String()
}

// RenderRecordingMarkdown renders a recording detail with its summary, if any.
func RenderRecordingMarkdown(r model.Recording) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s · recording %s\n\n", r.AnchorName(), r.ID)
	fmt.Fprintf(&b, "- **Status:** %s\n", r.Status)
	fmt.Fprintf(&b, "- **Started:** %s\n", model.LocalTime(r.StartTime))
	if r.EndTime != "" {
		fmt.Fprintf(&b, "- **Ended:** %s\n", model.LocalTime(r.EndTime))
	}
	fmt.Fprintf(&b, "- **Duration:** %s\n", model.FormatDuration(r.VideoDuration))
	if r.VideoPath != "" {
		fmt.Fprintf(&b, "- **Video:** `%s`\n", r.VideoPath)
	}
	if r.Summary == nil {
		b.WriteString("\n_No summary yet._\n")
		return b.String()
	}
	b.WriteString("\n## Summary (" + string(r.Summary.Status) + ")\n\n")
	if body := strings.TrimSpace(r.Summary.Content); body != "" {
		b.WriteString(body + "\n")
	}
	for _, p := range r.Summary.CorePoints {
		b.WriteString("- " + p + "\n")
	}
	return b.String()
}

func renderIndex(summaries []model.Summary) string {
	var b strings.Builder
	b.WriteString("# Summaries\n\n")
	b.WriteString("| Anchor | Created | Status | File |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, s := range summaries {
		name := fileName(s)
		fmt.Fprintf(&b, "| %s | %s | %s | [%s](%s) |\n",
			escapeCell(s.AnchorName()), model.LocalTime(s.CreatedAt), s.Status, name, "summaries/"+name)
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
