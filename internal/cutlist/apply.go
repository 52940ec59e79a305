package cutlist

import "fmt"

// Edit is a single user-initiated change, as received from a host.
// For time edits Timestamp takes precedence over Millis when set.
type Edit struct {
	Op        Op     `json:"op" yaml:"op"`
	Index     int    `json:"index" yaml:"index"`
	Millis    int64  `json:"ms,omitempty" yaml:"ms,omitempty"`
	Timestamp string `json:"time,omitempty" yaml:"time,omitempty"`
}

// time resolves the edit's target time in milliseconds.
func (e Edit) time() (int64, error) {
	if e.Timestamp != "" {
		return ParseTimestamp(e.Timestamp)
	}
	return e.Millis, nil
}

// Apply dispatches e to the matching editor operation.
func Apply(m Model, e Edit) (Model, []Event, error) {
	switch e.Op {
	case OpToggle:
		return ToggleDeleted(m, e.Index)
	case OpMerge:
		return MergeWithNeighbor(m, e.Index)
	case OpSelect:
		return Select(m, e.Index)
	case OpReset:
		return Reset(m)
	case OpStartTime, OpEndTime, OpSplit:
		t, err := e.time()
		if err != nil {
			return m, nil, reject(e.Op, e.Index, err)
		}
		switch e.Op {
		case OpStartTime:
			return UpdateStartTime(m, e.Index, t)
		case OpEndTime:
			return UpdateEndTime(m, e.Index, t)
		default:
			return Split(m, t)
		}
	default:
		return m, nil, fmt.Errorf("%w: %q", ErrUnknownOp, e.Op)
	}
}
