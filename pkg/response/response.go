package response

import (
	"errors"
	"fmt"
)

// Error is a domain error that carries the HTTP status it maps to.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Err.Error() == t.Err.Error()
}

func NewError(code int, err string) error {
	return &Error{code, errors.New(err)}
}

// Wrap extends the message of a domain error with detail, keeping its
// status code. The result still matches base under errors.Is.
func Wrap(base error, detail string) error {
	var b *Error
	if !errors.As(base, &b) {
		return fmt.Errorf("%w: %s", base, detail)
	}
	return &Error{Code: b.Code, Err: fmt.Errorf("%w: %s", base, detail)}
}
