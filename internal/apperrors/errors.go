// Package apperrors defines the failure classes of a query session. Every
// failure aborts the session; none are retried.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration   = errors.New("configuration error")
	ErrCorpusRead      = errors.New("corpus read error")
	ErrEmptyCollection = errors.New("empty collection")
	ErrInvalidArgument = errors.New("invalid argument")
)

// AppError attaches the pipeline stage and an optional underlying cause to
// one of the sentinel errors above.
type AppError struct {
	Err     error
	Stage   string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	msg := e.Err.Error()
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Stage != "" {
		msg = e.Stage + ": " + msg
	}
	return msg
}

func (e *AppError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func New(sentinel error, stage, message string) *AppError {
	return &AppError{Err: sentinel, Stage: stage, Message: message}
}

func Newf(sentinel error, stage, format string, args ...any) *AppError {
	return &AppError{Err: sentinel, Stage: stage, Message: fmt.Sprintf(format, args...)}
}

// Wrap records cause as the reason for sentinel.
func Wrap(sentinel error, stage string, cause error, message string) *AppError {
	return &AppError{Err: sentinel, Stage: stage, Message: message, Cause: cause}
}

// WithStage records stage on err if err is an AppError without one.
func WithStage(err error, stage string) error {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Stage == "" {
		cp := *appErr
		cp.Stage = stage
		return &cp
	}
	return err
}

// StageOf returns the stage recorded on err, or "" if there is none.
func StageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Stage
	}
	return ""
}

// ExitCode maps an error to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrConfiguration):
		return 2
	default:
		return 1
	}
}
