package console

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"livewatch-cli/internal/logger"
	"livewatch-cli/internal/metrics"
	"livewatch-cli/internal/transport"
)

type Level int

const (
	LevelInfo Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "info"
}

// Notice is a transient operator message.
type Notice struct {
	Level   Level
	Message string
	Err     error
}

type Notifier interface {
	Notify(Notice)
}

type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// WriterNotifier prints notices as single lines, e.g. to stderr for CLI commands.
type WriterNotifier struct {
	mu sync.Mutex
	W  io.Writer
}

func (w *WriterNotifier) Notify(n Notice) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if n.Level == LevelError {
		fmt.Fprintf(w.W, "error: %s\n", n.Message)
		return
	}
	fmt.Fprintln(w.W, n.Message)
}

// Queue buffers notices until the presentation drains them.
type Queue struct {
	mu      sync.Mutex
	pending []Notice
}

func (q *Queue) Notify(n Notice) {
	q.mu.Lock()
	q.pending = append(q.pending, n)
	q.mu.Unlock()
}

// Drain returns and clears everything queued so far, oldest first.
func (q *Queue) Drain() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

// Env carries the collaborators every controller shares.
type Env struct {
	Notifier Notifier
	Log      *logrus.Logger
	Metrics  *metrics.Metrics
}

func (e Env) logger() *logrus.Logger {
	if e.Log == nil {
		return logger.Discard()
	}
	return e.Log
}

func (e Env) info(msg string) {
	e.Metrics.ObserveNotice(LevelInfo.String())
	e.logger().WithField("notice", "info").Debug(msg)
	if e.Notifier != nil {
		e.Notifier.Notify(Notice{Level: LevelInfo, Message: msg})
	}
}

func (e Env) fail(action string, err error) {
	msg := action + ": " + Describe(err)
	e.Metrics.ObserveNotice(LevelError.String())
	e.logger().WithField("notice", "error").Debug(msg)
	if e.Notifier != nil {
		e.Notifier.Notify(Notice{Level: LevelError, Message: msg, Err: err})
	}
}

// Describe renders err for an operator: backend text when there is one, a short
// transport summary otherwise.
func Describe(err error) string {
	var te *transport.Error
	if errors.As(err, &te) {
		return te.Summary()
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	return err.Error()
}
