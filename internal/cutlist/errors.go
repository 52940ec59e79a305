package cutlist

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidModel is returned when a cut list violates an invariant.
	ErrInvalidModel = errors.New("invalid cut list")

	// ErrOutOfRange is returned when a proposed time lies outside the
	// recording, would invert a segment, or would leave a degenerate cut list.
	ErrOutOfRange = errors.New("out of range")

	// ErrWouldOrphanAllSegments is returned when an edit would remove the
	// last active segment.
	ErrWouldOrphanAllSegments = errors.New("would orphan all segments")

	// ErrUnparsableTimestamp is returned when a timestamp is not HH:MM:SS.mmm.
	ErrUnparsableTimestamp = errors.New("unparsable timestamp")

	// ErrUnknownOp is returned by Apply for an unrecognized edit.
	ErrUnknownOp = errors.New("unknown edit op")
)

// Op names an editor operation.
type Op string

const (
	OpToggle    Op = "toggle"
	OpMerge     Op = "merge"
	OpStartTime Op = "start"
	OpEndTime   Op = "end"
	OpSplit     Op = "split"
	OpSelect    Op = "select"
	OpReset     Op = "reset"
)

// RejectedEdit reports an edit that was not applied. The model passed to the
// editor is left untouched.
type RejectedEdit struct {
	Op     Op
	Index  int
	Reason error
}

func (e *RejectedEdit) Error() string {
	return fmt.Sprintf("%s on segment %d rejected: %v", e.Op, e.Index, e.Reason)
}

func (e *RejectedEdit) Unwrap() error {
	return e.Reason
}

func reject(op Op, index int, reason error) *RejectedEdit {
	return &RejectedEdit{Op: op, Index: index, Reason: reason}
}

// ReasonCode returns a short machine-readable name for a rejection reason.
func ReasonCode(err error) string {
	switch {
	case errors.Is(err, ErrWouldOrphanAllSegments):
		return "would_orphan_all_segments"
	case errors.Is(err, ErrUnparsableTimestamp):
		return "unparsable_timestamp"
	case errors.Is(err, ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, ErrInvalidModel):
		return "invalid_model"
	case errors.Is(err, ErrUnknownOp):
		return "unknown_op"
	default:
		return "unknown"
	}
}
