package theme

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyAbsent means nothing has been stored under the preference key yet.
	ErrKeyAbsent = errors.New("key absent")
	// ErrUnparseable means the stored value is not a known preference.
	ErrUnparseable = errors.New("stored value unparseable")
)

// PersistenceError is the only failure the store produces. It is logged,
// never returned to callers of Initialize or SetTheme.
type PersistenceError struct {
	Op  string // "load" or "save"
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("theme %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
