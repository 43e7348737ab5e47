package main

import (
	"errors"
	"io/fs"

	"github.com/simonhull/geometa"
	"github.com/simonhull/geometa/internal/config"
)

// Exit codes.
const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitUsageError    = 2
	ExitInvalidSource = 10
	ExitNotFound      = 11
)

// usageError marks bad arguments, flags or configuration.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// exitCodeForError returns the process exit code for an error.
func exitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var ue *usageError
	switch {
	case errors.As(err, &ue), errors.Is(err, config.ErrInvalidConfig), errors.Is(err, config.ErrConfigNotFound):
		return ExitUsageError
	case geometa.ErrorCode(err) == geometa.KindInvalid:
		return ExitInvalidSource
	case errors.Is(err, fs.ErrNotExist):
		return ExitNotFound
	}
	return ExitGeneralError
}
