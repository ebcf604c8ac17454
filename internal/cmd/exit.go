package cmd

import (
	"errors"
	"strconv"

	"github.com/docflow-ai/docflow-go/internal/validation"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitBlocked = 2
)

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// NewExitError creates an ExitError with a message.
func NewExitError(code int, msg string) *ExitError {
	return &ExitError{Code: code, Message: msg}
}

func (e *ExitError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "exit status " + strconv.Itoa(e.Code)
	}
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// blocked wraps validation failures so they exit with ExitBlocked. Other
// errors pass through unchanged.
func blocked(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if errors.As(err, &errs) {
		return &ExitError{Code: ExitBlocked, Err: err}
	}
	return err
}
