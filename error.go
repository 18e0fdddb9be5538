package vmsim

import "fmt"

type constError string

const (
	// ErrInvalidConfig may be returned from [Config.Validate],
	// [New], [Run], and [Compare].
	ErrInvalidConfig = constError("invalid configuration")
	// ErrInvalidTrace may be returned from [ParseTrace]
	// and anything that accepts a trace.
	ErrInvalidTrace = constError("invalid reference trace")
	// ErrPageOutOfRange is wrapped by [BoundsError].
	ErrPageOutOfRange = constError("page out of range")
	// ErrUnknownProcess is returned when a process ID
	// is not present in the process table.
	ErrUnknownProcess = constError("unknown process")
	// ErrUnknownPolicy may be returned from [ParsePolicy].
	ErrUnknownPolicy = constError("unknown replacement policy")
	// ErrTraceExhausted is returned from [Simulation.Next]
	// after every reference has been processed.
	ErrTraceExhausted = constError("reference trace exhausted")
	// ErrInvalidAddress may be returned from [Translate].
	ErrInvalidAddress = constError("invalid address")
)

func (errStr constError) Error() string { return string(errStr) }

// BoundsError reports a reference to a page
// outside of a process's address space.
type BoundsError struct {
	Process   int // Process that issued the reference.
	Page      int // Offending page number.
	PageCount int // Valid pages are [0, PageCount).
	Position  int // Trace position of the reference.
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf(
		"%s: page %d at position %d is outside of process %d's range [0, %d)",
		ErrPageOutOfRange, e.Page, e.Position, e.Process, e.PageCount)
}

func (e *BoundsError) Unwrap() error { return ErrPageOutOfRange }

func rangeError(sentinel error, field string, got, low, high int) error {
	return fmt.Errorf(
		"%w: %s must be in [%d, %d] but %d was requested",
		sentinel, field, low, high, got)
}
