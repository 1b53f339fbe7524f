package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoRunner is returned when a loop is constructed without a runner.
	ErrNoRunner = errors.New("tui: runner is required")
)
