package cli

import (
	"errors"
	"fmt"
)

// ExitError carries a process exit code out of a command. Err, when set, is
// printed by main; a nil Err exits silently with Code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by the root command to a process exit code:
// 0 for nil, the carried code for an ExitError, and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// ShouldPrint reports whether err carries a message worth showing the user.
func ShouldPrint(err error) bool {
	if err == nil {
		return false
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Err != nil
	}
	return true
}
