package registry

import (
	"errors"
	"fmt"
)

// Lookup and registration errors.
var (
	// ErrDuplicateMessage means two files define a message with the same
	// fully-qualified name.
	ErrDuplicateMessage = errors.New("duplicate message definition")

	// ErrDuplicateEnum means two files define an enum with the same
	// fully-qualified name.
	ErrDuplicateEnum = errors.New("duplicate enum definition")

	// ErrDuplicateService means two files define a service with the same
	// fully-qualified name.
	ErrDuplicateService = errors.New("duplicate service definition")

	// ErrUnknownType means a type reference resolved to nothing.
	ErrUnknownType = errors.New("unknown type")

	// ErrMessageNotFound means no registered message matches the name.
	ErrMessageNotFound = errors.New("message not found")

	// ErrEnumNotFound means no registered enum matches the name.
	ErrEnumNotFound = errors.New("enum not found")

	// ErrServiceNotFound means no registered service matches the name.
	ErrServiceNotFound = errors.New("service not found")
)

// DuplicateError reports a cross-file name collision. It names both the
// file attempting the registration and the file holding the earlier
// definition, and matches the ErrDuplicate* sentinels via errors.Is.
type DuplicateError struct {
	FQN  string
	File string
	Prev string
	Err  error
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%v: %s defined in both %s and %s", e.Err, e.FQN, e.Prev, e.File)
}

func (e *DuplicateError) Unwrap() error {
	return e.Err
}

// UnknownTypeError reports a reference that resolved to nothing in any of
// its candidate scopes.
type UnknownTypeError struct {
	Ref   string
	Scope string
}

func (e *UnknownTypeError) Error() string {
	if e.Scope == "" {
		return fmt.Sprintf("%v: %q", ErrUnknownType, e.Ref)
	}
	return fmt.Sprintf("%v: %q referenced from %q", ErrUnknownType, e.Ref, e.Scope)
}

func (e *UnknownTypeError) Unwrap() error {
	return ErrUnknownType
}
