// Package store keeps the console's local files: the TUI state and the operator journal.
// Neither is a cache of backend data.
package store

import (
	"os"
	"strings"
)

// Store is rooted at the console state directory (see config.ResolveStateDir).
type Store struct {
	Dir string
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) enabled() bool {
	return strings.TrimSpace(s.Dir) != ""
}
