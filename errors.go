package soaper

import (
	"errors"
	"fmt"
)

var (
	ErrPortOutOfRange    = errors.New("must be between 0 and 65535")
	ErrMustBePositive    = errors.New("must be greater than zero")
	ErrMustNotBeNegative = errors.New("must not be negative")
	ErrMissingValue      = errors.New("must not be empty")
	ErrServerDestroyed   = errors.New("server already destroyed")
)

// ConfigError reports an invalid builder argument. The first violation
// wins; later setter calls cannot overwrite it.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ServerError reports a failed lifecycle transition, wrapping the
// underlying transport failure.
type ServerError struct {
	Op  string
	Err error
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server %s: %v", e.Op, e.Err)
}

func (e *ServerError) Unwrap() error {
	return e.Err
}
