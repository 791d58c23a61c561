package model

import "errors"

// Input validation errors.
// These are guards evaluated before a scan may be submitted; they never
// reach the scan state machine.
var (
	// ErrEmptyInput is returned when the input is empty after trimming whitespace.
	ErrEmptyInput = errors.New("empty input: enter text to analyze")

	// ErrInputOverLimit is returned when the input exceeds MaxInputChars characters.
	ErrInputOverLimit = errors.New("limit exceeded: shorten text to analyze")
)

// ErrInvalidResult is returned when a scan result violates the data contract
// (out-of-range numbers, multi-character heatmap entries, misaligned heatmap).
var ErrInvalidResult = errors.New("invalid scan result")
