package container

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrContainer matches every failure raised by the container.
	ErrContainer = errors.New("container: error")
	// ErrNotFound matches lookups of names with no registered entry.
	ErrNotFound = errors.New("container: service not found")
	// ErrBuild matches failures while producing a registered service.
	ErrBuild = errors.New("container: build failed")
)

// Error is a registration or storage failure.
type Error struct {
	Name  string
	Msg   string
	cause error
}

func newError(name, msg string) *Error {
	return &Error{Name: name, Msg: msg}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.cause }
func (e *Error) Cause() error  { return e.cause }

func (e *Error) Is(target error) bool { return target == ErrContainer }

// NotFoundError is returned by Build and Get when name has no entry.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("service '%s' is not registered", e.Name)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound || target == ErrContainer
}

// BuildError wraps whatever went wrong while producing a service.
type BuildError struct {
	Name  string
	cause error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("failed to build service '%s': %v", e.Name, e.cause)
}

func (e *BuildError) Unwrap() error { return e.cause }
func (e *BuildError) Cause() error  { return e.cause }

func (e *BuildError) Is(target error) bool {
	return target == ErrBuild || target == ErrContainer
}

func buildFailed(name string, cause error) *BuildError {
	return &BuildError{Name: name, cause: cause}
}

// IsNotFound reports whether err is a not-found failure for the name that
// was requested. A missing dependency looked up inside a factory surfaces as
// a BuildError and does not count.
func IsNotFound(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}
