// Package publish writes summaries as markdown files for sharing outside the console.
package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"livewatch-cli/internal/model"
	"livewatch-cli/internal/statusutil"
)

type WriteOptions struct {
	// IncludeUnfinished also writes summaries that are still pending or generating.
	IncludeUnfinished bool
	Overwrite         bool
}

type WriteResult struct {
	Written []string `json:"written"`
	Skipped []string `json:"skipped,omitempty"`
}

// WriteSummaries writes <toDir>/summaries/summary-<id>.md for each summary and an
// index.md linking them. It stops at the first write error.
func WriteSummaries(summaries []model.Summary, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	outDir := filepath.Join(toDir, "summaries")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	var (
		res      WriteResult
		exported []model.Summary
	)
	for _, s := range summaries {
		if !opt.IncludeUnfinished && !statusutil.IsEndState(string(s.Status)) {
			res.Skipped = append(res.Skipped, s.ID.String())
			continue
		}
		p := filepath.Join(outDir, fileName(s))
		if err := writeFile(p, []byte(RenderSummaryMarkdown(s)), opt.Overwrite); err != nil {
			return res, err
		}
		res.Written = append(res.Written, p)
		exported = append(exported, s)
	}

	indexPath := filepath.Join(toDir, "index.md")
	// The index always reflects the latest export.
	if err := writeFile(indexPath, []byte(renderIndex(exported)), true); err != nil {
		return res, err
	}
	res.Written = append([]string{indexPath}, res.Written...)
	return res, nil
}

func fileName(s model.Summary) string {
	return "summary-" + s.ID.String() + ".md"
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
