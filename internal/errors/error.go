package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryReconcile Category = "reconcile"
	CategoryHost      Category = "host"
	CategoryConfig    Category = "config"
	CategoryCLI       Category = "cli"
)

// TreeError is a structured error with a registered code, suggestions and documentation.
type TreeError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (reconcile, config, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of this occurrence.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *TreeError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *TreeError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target carries the same error code.
func (e *TreeError) Is(target error) bool {
	t, ok := target.(*TreeError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithSuggestion adds a fix suggestion to the error.
func (e *TreeError) WithSuggestion(s string) *TreeError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *TreeError) WithDetail(d string) *TreeError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detail to the error.
func (e *TreeError) WithDetailf(format string, args ...any) *TreeError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *TreeError) Wrap(err error) *TreeError {
	e.Wrapped = err
	return e
}

// New creates a TreeError from a registered error code.
func New(code string) *TreeError {
	template, ok := registry[code]
	if !ok {
		return &TreeError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &TreeError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new TreeError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *TreeError {
	return &TreeError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a TreeError.
// Errors that already are TreeErrors are returned unchanged.
func FromError(err error, code string) *TreeError {
	if err == nil {
		return nil
	}
	if te, ok := err.(*TreeError); ok {
		return te
	}
	return New(code).Wrap(err)
}

// Explain returns the registered long-form explanation for a code.
func Explain(code string) string {
	return registry[code].Detail
}
