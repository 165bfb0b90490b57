package endpoint

import (
	"errors"
	"fmt"
)

var (
	ErrNilResponder    = errors.New("responder must not be nil")
	ErrPathFormat      = errors.New("path must begin with a slash")
	ErrMalformedURL    = errors.New("endpoint url is malformed")
	ErrDuplicatePath   = errors.New("path already registered")
	ErrUnknownPath     = errors.New("path not registered")
	ErrRequestTooLarge = errors.New("request body exceeds limit")
)

// RegistrationError reports a failed registry operation for a context path.
type RegistrationError struct {
	Path string
	Err  error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("path %q: %v", e.Path, e.Err)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}
