package cutlist

import (
	"fmt"
)

// Segment is one contiguous interval of a recording, kept or cut.
// Times are milliseconds from the start of the original recording.
type Segment struct {
	Start    int64 `json:"start" yaml:"start"`
	End      int64 `json:"end" yaml:"end"`
	Deleted  bool  `json:"deleted" yaml:"deleted"`
	Selected bool  `json:"selected,omitempty" yaml:"selected,omitempty"`
}

// Length returns End - Start.
func (s Segment) Length() int64 {
	return s.End - s.Start
}

// Contains reports whether position lies in [Start, End).
func (s Segment) Contains(position int64) bool {
	return position >= s.Start && position < s.End
}

// Model is an ordered cut list over a recording of fixed Duration.
// Values are treated as immutable by the editor: every operation returns a
// fresh copy.
type Model struct {
	Duration int64
	Segments []Segment
}

// NewModel builds a model from server-supplied records and validates it.
// The records slice is copied.
func NewModel(duration int64, records []Segment) (Model, error) {
	m := Model{Duration: duration, Segments: cloneSegments(records)}
	if err := m.Validate(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// SingleSegment returns a model holding one active segment over [0, duration].
func SingleSegment(duration int64) (Model, error) {
	return NewModel(duration, []Segment{{Start: 0, End: duration}})
}

// Len returns the number of segments.
func (m Model) Len() int {
	return len(m.Segments)
}

// Clone returns a deep copy.
func (m Model) Clone() Model {
	return Model{Duration: m.Duration, Segments: cloneSegments(m.Segments)}
}

// Records returns a copy of the segments for serialization.
func (m Model) Records() []Segment {
	return cloneSegments(m.Segments)
}

// ActiveCount returns the number of segments not marked deleted.
func (m Model) ActiveCount() int {
	n := 0
	for _, s := range m.Segments {
		if !s.Deleted {
			n++
		}
	}
	return n
}

// KeptDuration returns the total length of active segments.
func (m Model) KeptDuration() int64 {
	var total int64
	for _, s := range m.Segments {
		if !s.Deleted {
			total += s.Length()
		}
	}
	return total
}

// SegmentAt returns the index of the segment containing position, or -1.
// The recording's final instant belongs to the last segment.
func (m Model) SegmentAt(position int64) int {
	for i, s := range m.Segments {
		if s.Contains(position) {
			return i
		}
	}
	if n := len(m.Segments); n > 0 && position == m.Segments[n-1].End {
		return n - 1
	}
	return -1
}

// SelectedIndex returns the index of the selected segment, or -1.
func (m Model) SelectedIndex() int {
	for i, s := range m.Segments {
		if s.Selected {
			return i
		}
	}
	return -1
}

// Validate checks every cut-list invariant and returns an error wrapping
// ErrInvalidModel describing the first violation.
func (m Model) Validate() error {
	if m.Duration <= 0 {
		return fmt.Errorf("%w: duration %d must be positive", ErrInvalidModel, m.Duration)
	}
	n := len(m.Segments)
	if n == 0 {
		return fmt.Errorf("%w: no segments", ErrInvalidModel)
	}
	if m.Segments[0].Start != 0 {
		return fmt.Errorf("%w: first segment starts at %d", ErrInvalidModel, m.Segments[0].Start)
	}
	if m.Segments[n-1].End != m.Duration {
		return fmt.Errorf("%w: last segment ends at %d, duration is %d", ErrInvalidModel, m.Segments[n-1].End, m.Duration)
	}

	selected := 0
	for i, s := range m.Segments {
		if s.Start >= s.End {
			return fmt.Errorf("%w: segment %d is empty [%d, %d]", ErrInvalidModel, i, s.Start, s.End)
		}
		if i > 0 && m.Segments[i-1].End != s.Start {
			return fmt.Errorf("%w: gap or overlap between segments %d and %d", ErrInvalidModel, i-1, i)
		}
		if s.Selected {
			selected++
		}
	}
	if selected > 1 {
		return fmt.Errorf("%w: %d segments selected", ErrInvalidModel, selected)
	}
	if m.ActiveCount() == 0 {
		return fmt.Errorf("%w: every segment is deleted", ErrInvalidModel)
	}
	return nil
}

func cloneSegments(in []Segment) []Segment {
	if in == nil {
		return nil
	}
	out := make([]Segment, len(in))
	copy(out, in)
	return out
}
