package console

import (
	"errors"
	"strings"
)

var (
	ErrReadOnly    = errors.New("collection is read-only")
	ErrModalOpen   = errors.New("form is already open")
	ErrModalClosed = errors.New("form is not open")
)

// ValidationError lists required fields that were left blank. It is raised before any
// request is made.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}
