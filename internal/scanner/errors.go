package scanner

import "errors"

// Controller errors. Validation errors come from the model package.
var (
	// ErrScanInProgress is returned by Submit while a scan is running.
	ErrScanInProgress = errors.New("a scan is already in progress")

	// ErrNotIdle is returned by Submit when a result or error is on display.
	// Reset or Retry first.
	ErrNotIdle = errors.New("scanner is not idle; reset before submitting")

	// ErrNotRetryable is returned by Retry outside the error state.
	ErrNotRetryable = errors.New("nothing to retry")
)
