package permanent

import (
	"errors"
	"fmt"
)

// Error marks failures that retrying cannot fix.
// Params: wrapped root cause.
// Returns: typed non-retryable marker.
type Error struct {
	Err error
}

// Error returns wrapped failure message.
// Params: none.
// Returns: string representation.
func (e Error) Error() string {
	if e.Err == nil {
		return "permanent error"
	}
	return e.Err.Error()
}

// Unwrap exposes wrapped cause for errors.Is/errors.As.
// Params: none.
// Returns: wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// Permanent tags error as non-retryable.
// Params: none.
// Returns: true.
func (Error) Permanent() bool {
	return true
}

// Mark wraps error with non-retryable marker.
// Params: source error.
// Returns: wrapped error or nil for nil input.
func Mark(err error) error {
	if err == nil {
		return nil
	}
	return Error{Err: err}
}

// Markf builds a formatted non-retryable error.
// Params: printf format and arguments.
// Returns: marked error.
func Markf(format string, args ...any) error {
	return Error{Err: fmt.Errorf(format, args...)}
}

// Is reports whether error carries the non-retryable marker.
// Params: candidate error.
// Returns: true when a wrapped Error is present.
func Is(err error) bool {
	if err == nil {
		return false
	}
	type marker interface {
		Permanent() bool
	}
	var tagged marker
	if !errors.As(err, &tagged) {
		return false
	}
	return tagged.Permanent()
}
