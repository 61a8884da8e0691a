package errs

import (
	"errors"
	"fmt"
)

// Kind categorizes application errors for display and HTTP status mapping.
type Kind int

const (
	// Unknown represents an unclassified error.
	Unknown Kind = iota
	// InvalidInput indicates the user input was rejected locally (HTTP 400).
	InvalidInput
	// Request indicates the backend answered with a non-2xx status (HTTP 502).
	Request
	// Network indicates the backend could not be reached at all (HTTP 502).
	Network
	// Timeout indicates the backend took too long to respond (HTTP 504).
	Timeout
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "validation"
	case Request:
		return "request"
	case Network:
		return "network"
	case Timeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// AppError carries a category, user message, and original cause.
type AppError struct {
	Kind           Kind
	UpstreamStatus int // HTTP status code returned by the backend
	Message        string
	Cause          error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// KindOf reports the Kind of the first AppError in err's chain, or Unknown.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Unknown
}

// MessageOf returns the user-facing message of err. Errors that are not an
// AppError yield fallback so internal details never reach the user.
func MessageOf(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
