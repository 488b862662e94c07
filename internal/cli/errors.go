package cli

import (
	"errors"
	"fmt"

	"livewatch-cli/internal/console"
	"livewatch-cli/internal/transport"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// configError marks settings that failed validation before any request was made.
type configError struct {
	err error
}

func (e configError) Error() string { return "invalid configuration: " + e.err.Error() }
func (e configError) Unwrap() error { return e.err }

// usageError is a flag value the command itself rejects.
type usageError struct {
	msg string
}

func (e usageError) Error() string { return e.msg }

// reportedError has already been written to stderr.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil || IsReported(err) {
		return err
	}
	return reportedError{err: err}
}

// IsReported reports whether the command already printed err.
func IsReported(err error) bool {
	var re reportedError
	return errors.As(err, &re)
}

// Exit codes for scripts.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitUsage      = 2
	ExitTransport  = 3
	ExitBackend    = 4
	ExitNotFound   = 5
	ExitValidation = ExitUsage
)

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var (
		ve *console.ValidationError
		ce configError
		ue usageError
		nf notFoundError
		te *transport.Error
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &ce), errors.As(err, &ue):
		return ExitValidation
	case errors.As(err, &nf):
		return ExitNotFound
	case errors.As(err, &te):
		if te.Kind == transport.KindTransport {
			return ExitTransport
		}
		if transport.IsNotFound(err) {
			return ExitNotFound
		}
		return ExitBackend
	}
	return ExitFailure
}
