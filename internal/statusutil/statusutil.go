package statusutil

import (
	"fmt"
	"strings"

	"livewatch-cli/internal/model"
)

// Phase groups recording and summary statuses for display.
type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseActive
	PhaseDone
	PhaseFailed
)

// PhaseOf classifies a recording or summary status. Unknown values count as waiting.
func PhaseOf(status string) Phase {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case string(model.RecordingCompleted):
		return PhaseDone
	case string(model.RecordingFailed):
		return PhaseFailed
	case string(model.RecordingActive), string(model.SummaryProcessing), string(model.SummaryGenerating):
		return PhaseActive
	default:
		return PhaseWaiting
	}
}

// IsEndState reports whether a status will not change any more.
func IsEndState(status string) bool {
	p := PhaseOf(status)
	return p == PhaseDone || p == PhaseFailed
}

// ParseRecordingStatus normalizes a user-supplied filter. Empty means no filter.
func ParseRecordingStatus(s string) (model.RecordingStatus, error) {
	st := model.RecordingStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case "", model.RecordingPending, model.RecordingActive, model.RecordingCompleted, model.RecordingFailed:
		return st, nil
	default:
		return "", fmt.Errorf("invalid recording status %q (want pending, recording, completed or failed)", s)
	}
}
