package app

import "errors"

// ErrEmptySelection and related errors describe why an operation was a no-op.
// Store operations never fail; these are reported through Outcome.Reason.
var (
	ErrEmptySelection = errors.New("selection is empty")
	ErrEmptyClipboard = errors.New("clipboard is empty")
	ErrNoDrag         = errors.New("no pending drag")
	ErrNoEdit         = errors.New("no edit in progress")
	ErrUnknownTask    = errors.New("unknown task")
	ErrUnknownDay     = errors.New("unknown day")
	ErrUnknownField   = errors.New("unknown form field")
	ErrNotInBucket    = errors.New("task is not in any day")
	ErrNotInFolder    = errors.New("task is not in the folder")
)

// ErrUnknownOp and related errors describe script and seed failures.
var (
	ErrUnknownOp     = errors.New("unknown operation")
	ErrDuplicateSeed = errors.New("duplicate seed task id")
)
