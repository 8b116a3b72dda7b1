package core

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrPermissionDenied is returned for actions hidden from the current role.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNoSession is returned when an authenticated call is attempted without a token.
	ErrNoSession = errors.New("not logged in")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	msgs := make([]string, 0, len(err.Fields))
	for _, fld := range err.Fields {
		msgs = append(msgs, fld.Field+": "+fld.Error)
	}
	return strings.Join(msgs, "; ")
}

// APIError is a non-2xx answer of the backend.
// Message holds the server's `message` (or `error`) field, if any.
type APIError struct {
	Status  int
	Message string
}

func (err *APIError) Error() string {
	if err.Message != "" {
		return err.Message
	}
	return fmt.Sprintf("request failed with status %d", err.Status)
}

func IsUnauthenticated(err error) bool {
	if apiErr, ok := errors.Cause(err).(*APIError); ok {
		return apiErr.Status == http.StatusUnauthorized
	}
	return errors.Cause(err) == ErrNoSession
}

// Message returns the text to show the user for err:
// the server's message, the validation summary, or fallback.
func Message(err error, fallback string) string {
	switch e := errors.Cause(err).(type) {
	case *APIError:
		if e.Message != "" {
			return e.Message
		}
	case *ValidationError:
		if msg := e.Error(); msg != "" {
			return msg
		}
	}
	return fallback
}
