package cli

import (
	"errors"
	"fmt"
)

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
	exitCodeUsage   = 2
)

type exitCoder interface {
	ExitCode() int
}

// exitError is an error whose message is shown as-is and that picks its own
// exit code.
type exitError struct {
	code int
	msg  string
}

func (e exitError) Error() string { return e.msg }
func (e exitError) ExitCode() int { return e.code }

var (
	// ErrDeclined is returned when the user answers no at a confirmation prompt.
	ErrDeclined error = exitError{code: exitCodeError, msg: "Exiting."}
	// ErrEmptyName is returned when add is given a blank name.
	ErrEmptyName error = exitError{code: exitCodeError, msg: "add: empty name"}
)

// usageError marks bad invocations: wrong arity, unknown command, bad flag.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }
func (e usageError) ExitCode() int { return exitCodeUsage }

func usagef(format string, a ...any) error {
	return usageError{err: fmt.Errorf(format, a...)}
}

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return exitCodeSuccess
	}
	var ec exitCoder
	if errors.As(err, &ec) {
		if c := ec.ExitCode(); c != 0 {
			return c
		}
	}
	return exitCodeError
}

// IsUsage reports whether err came from a bad invocation.
func IsUsage(err error) bool {
	var ue usageError
	return errors.As(err, &ue)
}
