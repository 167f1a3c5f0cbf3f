package dvsa

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ValidationError reports missing or malformed request input; no browser is started
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// BlockedError carries the message of a block page, error banner or challenge
type BlockedError struct {
	Message string
}

func (e *BlockedError) Error() string {
	return e.Message
}

// TimeoutError reports a navigation or selector wait that exceeded its budget
type TimeoutError struct {
	Step    string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %v while %s", e.Timeout, e.Step)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// LaunchError reports that the browser could not start
type LaunchError struct {
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch browser: %v", e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// ErrSelectorNotFound is returned when none of a selector list matched
var ErrSelectorNotFound = errors.New("no selector matched")

// IsValidationError reports whether err is, or wraps, a ValidationError
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// asTimeout converts deadline errors into a TimeoutError for the given step
func asTimeout(err error, step string, timeout time.Duration) error {
	if err == nil {
		return nil
	}
	var te *TimeoutError
	if errors.As(err, &te) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Step: step, Timeout: timeout, Err: err}
	}
	return fmt.Errorf("%s: %w", step, err)
}
