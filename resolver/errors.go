package resolver

import (
	"errors"
	"fmt"
)

// Terminal resolution failures. Every error returned by Resolve matches
// exactly one of these via errors.Is.
var (
	ErrFileNotFound       = errors.New("proto file not found")
	ErrCircularDependency = errors.New("circular dependency")
	ErrReadFailed         = errors.New("proto source read failed")
	ErrParseFailed        = errors.New("proto parse failed")
	ErrUnknownWellKnown   = errors.New("unknown google/protobuf import")
)

// FileError wraps a resolution failure with the import path it occurred on.
// Err is one of the sentinel errors above; Reason carries the underlying
// detail when there is one.
type FileError struct {
	Path   string
	Err    error
	Reason error
}

func (e *FileError) Error() string {
	if e.Reason != nil {
		return fmt.Sprintf("%s: %v: %v", e.Path, e.Err, e.Reason)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
