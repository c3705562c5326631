// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Precondition errors. These abort a phase before anything is mutated.
	ErrSourceNotFound      = errors.New("source path does not exist")
	ErrSourceNotDirectory  = errors.New("source path is not a directory")
	ErrDestinationExists   = errors.New("destination already exists")
	ErrInterruptedCopy     = errors.New("an interrupted copy left a backup behind")
	ErrWorkingCopyMissing  = errors.New("working copy does not exist")
	ErrInventoryNotFound   = errors.New("inventory not found")
	ErrInventoryCorrupted  = errors.New("inventory file is corrupted")
	ErrPhaseNotRecorded    = errors.New("phase not recorded")
	ErrNoRunsRecorded      = errors.New("no pipeline runs recorded")
	ErrSpreadsheetNotReady = errors.New("spreadsheet export is not configured")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
