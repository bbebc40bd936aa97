package adapter

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/km-arc/go-container/framework/container"
)

var (
	// ErrAdapter matches every error returned by an adapter.
	ErrAdapter = errors.New("adapter: error")
	// ErrNotFound matches adapter errors for unregistered services.
	ErrNotFound = errors.New("adapter: service not found")
)

// Error is the general adapter failure. The underlying container error is
// kept as the cause.
type Error struct {
	msg   string
	cause error
}

func (e *Error) Error() string { return e.msg }
func (e *Error) Unwrap() error { return e.cause }
func (e *Error) Cause() error  { return e.cause }

func (e *Error) Is(target error) bool { return target == ErrAdapter }

// NotFoundError reports a Build of a name with no registered service.
type NotFoundError struct {
	Name  string
	msg   string
	cause error
}

func (e *NotFoundError) Error() string { return e.msg }
func (e *NotFoundError) Unwrap() error { return e.cause }
func (e *NotFoundError) Cause() error  { return e.cause }

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound || target == ErrAdapter
}

// translate maps a container error for service name onto the adapter error
// taxonomy. format is applied to (name, cause) for general failures; an
// empty format keeps the cause's message.
func translate(name string, err error, format string) error {
	if err == nil {
		return nil
	}
	if container.IsNotFound(err) {
		return &NotFoundError{
			Name:  name,
			msg:   fmt.Sprintf("service '%s' could not be found: %v", name, err),
			cause: err,
		}
	}
	msg := err.Error()
	if format != "" {
		msg = fmt.Sprintf(format, name, err)
	}
	return &Error{msg: msg, cause: err}
}
