package config

import (
	"errors"
	"fmt"
)

// ErrValidationFailed indicates a setting holds an unusable value.
var ErrValidationFailed = errors.New("validation failed")

// ParseError represents an error while parsing a configuration file or
// environment variable.
type ParseError struct {
	// Path is the file path or variable name that failed to parse.
	Path string
	// Message describes the parse error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports an invalid setting.
type ValidationError struct {
	Setting string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Setting, e.Message)
}

// Unwrap returns ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
