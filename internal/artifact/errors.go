package artifact

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrorCode categorizes artifact errors.
type ErrorCode string

const (
	// ErrCodeNotFound indicates the artifact file does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeFormat indicates a line that breaks the artifact's structure.
	ErrCodeFormat ErrorCode = "FORMAT"

	// ErrCodeIndex indicates a row too short for the requested field.
	ErrCodeIndex ErrorCode = "INDEX"
)

// Error is returned when an artifact is missing or malformed.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Path is the artifact file name.
	Path string

	// Line is the 1-based line number, or 0 when not tied to a line.
	Line int

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s:%d: %s", e.Code, e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Path, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if the artifact file did not exist.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == ErrCodeNotFound
	}
	return false
}

// IsFormatError returns true if the artifact had a malformed line.
func IsFormatError(err error) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == ErrCodeFormat
	}
	return false
}

// IsIndexError returns true if a requested field was out of range.
func IsIndexError(err error) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == ErrCodeIndex
	}
	return false
}

func newNotFoundError(path string) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Path:    path,
		Message: "artifact not found (did the replay run?)",
		Err:     fs.ErrNotExist,
	}
}

func newFormatError(path string, line int, fields []string) *Error {
	return &Error{
		Code:    ErrCodeFormat,
		Path:    path,
		Line:    line,
		Message: fmt.Sprintf("expected 2 fields (key value), got %d: %q", len(fields), fields),
	}
}

func newIndexError(path string, line, index int, fields []string) *Error {
	return &Error{
		Code:    ErrCodeIndex,
		Path:    path,
		Line:    line,
		Message: fmt.Sprintf("field %d out of range for row with %d field(s): %q", index, len(fields), fields),
	}
}
