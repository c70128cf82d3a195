package replay

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes replay errors.
type ErrorCode string

const (
	// ErrCodeLaunch indicates the engine could not be started
	// (missing executable, not executable, bad working directory).
	ErrCodeLaunch ErrorCode = "LAUNCH_FAILED"

	// ErrCodeBusy indicates another replay holds the working directory.
	ErrCodeBusy ErrorCode = "WORKDIR_BUSY"
)

// Error is returned when a replay cannot be carried out.
//
// A replay that runs but exits non-zero is not an Error; Runner.Run reports
// it through its boolean result.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Path is the engine executable or the locked directory.
	Path string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsLaunchError returns true if the engine could not be started.
// Uses errors.As to handle wrapped errors.
func IsLaunchError(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == ErrCodeLaunch
	}
	return false
}

// IsBusyError returns true if the working directory was locked by another replay.
func IsBusyError(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == ErrCodeBusy
	}
	return false
}

// NewLaunchError creates an Error for an engine that could not be started.
func NewLaunchError(path string, err error) *Error {
	return &Error{
		Code:    ErrCodeLaunch,
		Message: "engine could not be started",
		Path:    path,
		Err:     err,
	}
}

// NewBusyError creates an Error for a working directory already in use.
func NewBusyError(dir string) *Error {
	return &Error{
		Code:    ErrCodeBusy,
		Message: "another replay is running in this directory",
		Path:    dir,
	}
}
