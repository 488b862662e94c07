package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind classifies a failed request.
type Kind int

const (
	// KindTransport covers failures where no usable response arrived: network errors,
	// timeouts, throttle cancellation, or an undecodable success body.
	KindTransport Kind = iota + 1
	// KindBackend is a non-2xx response from the backend.
	KindBackend
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindBackend:
		return "backend"
	default:
		return "unknown"
	}
}

// Error is the single failure type the client returns.
type Error struct {
	Kind      Kind
	Method    string
	Path      string
	Status    int    // HTTP status for KindBackend
	Message   string // backend's {"error": ...} text, if any
	RequestID string
	Err       error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindBackend:
		msg := e.Message
		if msg == "" {
			msg = http.StatusText(e.Status)
		}
		return fmt.Sprintf("%s %s: backend returned %d: %s", e.Method, e.Path, e.Status, msg)
	default:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Timeout reports whether the request gave up waiting for the backend.
func (e *Error) Timeout() bool {
	if e.Kind != KindTransport || e.Err == nil {
		return false
	}
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// Summary is the short operator-facing description of the failure.
func (e *Error) Summary() string {
	switch {
	case e.Kind == KindBackend && e.Message != "":
		return e.Message
	case e.Kind == KindBackend:
		return fmt.Sprintf("backend returned %d", e.Status)
	case e.Timeout():
		return "request timed out"
	default:
		return "backend unreachable"
	}
}

// StatusOf returns the backend status carried by err, or 0.
func StatusOf(err error) int {
	var te *Error
	if errors.As(err, &te) && te.Kind == KindBackend {
		return te.Status
	}
	return 0
}

func IsNotFound(err error) bool { return StatusOf(err) == http.StatusNotFound }
