package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrSomethingWentWrong is the message shown when an error carries nothing
// presentable.
const ErrSomethingWentWrong = "Something went wrong"

// ValidationError is raised before any network call when user input fails a
// client-side rule. The form stays editable.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Invalid returns a ValidationError with the given message.
func Invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// Invalidf returns a ValidationError with a formatted message.
func Invalidf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// RemoteError is a non-2xx response or a transport failure.
type RemoteError struct {
	// StatusCode is 0 for transport failures.
	StatusCode int
	// Message is the server's envelope message, if any.
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	switch {
	case e.StatusCode == 0 && e.Err != nil:
		return fmt.Sprintf("remote call failed: %v", e.Err)
	case e.Message != "":
		return fmt.Sprintf("remote call failed (%d): %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("remote call failed (%d)", e.StatusCode)
	}
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Unauthorized reports whether the server rejected the session token.
func (e *RemoteError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// NotFoundError is returned when a fetched entity does not exist. Views
// report it and navigate back.
type NotFoundError struct {
	Resource string
	ID       string
	Message  string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// UserMessage extracts the text to show a user for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var (
		v  *ValidationError
		nf *NotFoundError
		re *RemoteError
	)
	switch {
	case errors.As(err, &v):
		return v.Message
	case errors.As(err, &nf):
		if nf.Message != "" {
			return nf.Message
		}
		return nf.Error()
	case errors.As(err, &re):
		if re.Message != "" {
			return re.Message
		}
	}
	return ErrSomethingWentWrong
}
