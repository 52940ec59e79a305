package cutlist

import (
	"fmt"
)

// EventKind names a notification the host should raise after an edit.
type EventKind string

const (
	EventSegmentTimesUpdated EventKind = "segmentTimesUpdated"
	EventSegmentToggled      EventKind = "segmentToggled"
)

// Event is emitted by a successful edit. Index is the position of the edited
// segment in the resulting model.
type Event struct {
	Kind  EventKind `json:"kind"`
	Index int       `json:"index"`
}

// IsRemovalAllowed reports whether segment index may be removed or deleted
// without leaving the cut list without an active segment. Re-activating a
// deleted segment is always allowed.
func IsRemovalAllowed(m Model, index int) bool {
	return isRemovalAllowed(m.Segments, index)
}

func isRemovalAllowed(segs []Segment, index int) bool {
	if index < 0 || index >= len(segs) {
		return false
	}
	if segs[index].Deleted {
		return true
	}
	active := 0
	for _, s := range segs {
		if !s.Deleted {
			active++
		}
	}
	return active > 1
}

// ToggleDeleted flips the deleted flag of segment index.
func ToggleDeleted(m Model, index int) (Model, []Event, error) {
	if index < 0 || index >= m.Len() {
		return m, nil, reject(OpToggle, index, ErrOutOfRange)
	}
	if !isRemovalAllowed(m.Segments, index) {
		return m, nil, reject(OpToggle, index, ErrWouldOrphanAllSegments)
	}
	out := m.Clone()
	out.Segments[index].Deleted = !out.Segments[index].Deleted
	return finish(m, out, OpToggle, index, Event{Kind: EventSegmentToggled, Index: index})
}

// MergeWithNeighbor removes segment index by handing its interval to the
// previous segment, or to the next one when index is first.
func MergeWithNeighbor(m Model, index int) (Model, []Event, error) {
	if index < 0 || index >= m.Len() {
		return m, nil, reject(OpMerge, index, ErrOutOfRange)
	}
	if !isRemovalAllowed(m.Segments, index) {
		return m, nil, reject(OpMerge, index, ErrWouldOrphanAllSegments)
	}

	out := m.Clone()
	segs := out.Segments
	removed := segs[index]
	var kept int
	switch {
	case index > 0:
		segs[index-1].End = removed.End
		kept = index - 1
	case index+1 < len(segs):
		segs[index+1].Start = removed.Start
		kept = index
	default:
		return m.Clone(), nil, nil
	}
	out.Segments = append(segs[:index], segs[index+1:]...)
	return finish(m, out, OpMerge, index, Event{Kind: EventSegmentTimesUpdated, Index: kept})
}

// UpdateStartTime moves the start of segment index to newStart. Preceding
// segments that the new start swallows whole are absorbed, unless absorbing
// one would remove the last active segment; in that case the boundary is
// clamped so that segment survives with a non-zero length. A clamp that leaves
// the cut as it was is rejected with ErrWouldOrphanAllSegments.
func UpdateStartTime(m Model, index int, newStart int64) (Model, []Event, error) {
	if index < 0 || index >= m.Len() {
		return m, nil, reject(OpStartTime, index, ErrOutOfRange)
	}
	seg := m.Segments[index]
	if newStart < 0 || newStart > m.Duration || newStart >= seg.End {
		return m, nil, reject(OpStartTime, index, ErrOutOfRange)
	}
	if newStart == seg.Start {
		return m.Clone(), nil, nil
	}
	if index == 0 {
		return m, nil, reject(OpStartTime, index, ErrOutOfRange)
	}

	out := m.Clone()
	segs := out.Segments
	i := index
	blocked := false
	for i > 0 && segs[i-1].Start >= newStart {
		if !isRemovalAllowed(segs, i-1) {
			blocked = true
			break
		}
		segs = append(segs[:i-1], segs[i:]...)
		i--
	}

	switch {
	case i == 0:
		segs[0].Start = newStart
	case blocked:
		prev := &segs[i-1]
		if prev.Start > newStart {
			segs[i].Start = prev.End
		} else {
			boundary := max(newStart, prev.Start+1)
			prev.End = boundary
			segs[i].Start = boundary
		}
	default:
		segs[i-1].End = newStart
		segs[i].Start = newStart
	}
	if blocked && sameCut(segs, m.Segments) {
		return m, nil, reject(OpStartTime, index, ErrWouldOrphanAllSegments)
	}
	out.Segments = segs
	return finish(m, out, OpStartTime, index, Event{Kind: EventSegmentTimesUpdated, Index: i})
}

// UpdateEndTime moves the end of segment index to newEnd, absorbing following
// segments the same way UpdateStartTime absorbs preceding ones.
func UpdateEndTime(m Model, index int, newEnd int64) (Model, []Event, error) {
	if index < 0 || index >= m.Len() {
		return m, nil, reject(OpEndTime, index, ErrOutOfRange)
	}
	seg := m.Segments[index]
	if newEnd < 0 || newEnd > m.Duration || newEnd <= seg.Start {
		return m, nil, reject(OpEndTime, index, ErrOutOfRange)
	}
	if newEnd == seg.End {
		return m.Clone(), nil, nil
	}
	if index == m.Len()-1 {
		return m, nil, reject(OpEndTime, index, ErrOutOfRange)
	}

	out := m.Clone()
	segs := out.Segments
	blocked := false
	for index+1 < len(segs) && segs[index+1].End <= newEnd {
		if !isRemovalAllowed(segs, index+1) {
			blocked = true
			break
		}
		segs = append(segs[:index+1], segs[index+2:]...)
	}

	switch {
	case index == len(segs)-1:
		segs[index].End = newEnd
	case blocked:
		next := &segs[index+1]
		if next.End < newEnd {
			segs[index].End = next.Start
		} else {
			boundary := min(newEnd, next.End-1)
			segs[index].End = boundary
			next.Start = boundary
		}
	default:
		segs[index].End = newEnd
		segs[index+1].Start = newEnd
	}
	if blocked && sameCut(segs, m.Segments) {
		return m, nil, reject(OpEndTime, index, ErrWouldOrphanAllSegments)
	}
	out.Segments = segs
	return finish(m, out, OpEndTime, index, Event{Kind: EventSegmentTimesUpdated, Index: index})
}

// SetStartTimestamp parses an HH:MM:SS.mmm label and applies UpdateStartTime.
func SetStartTimestamp(m Model, index int, text string) (Model, []Event, error) {
	ms, err := ParseTimestamp(text)
	if err != nil {
		return m, nil, reject(OpStartTime, index, err)
	}
	return UpdateStartTime(m, index, ms)
}

// SetEndTimestamp parses an HH:MM:SS.mmm label and applies UpdateEndTime.
func SetEndTimestamp(m Model, index int, text string) (Model, []Event, error) {
	ms, err := ParseTimestamp(text)
	if err != nil {
		return m, nil, reject(OpEndTime, index, err)
	}
	return UpdateEndTime(m, index, ms)
}

// Split cuts the segment containing position in two. Both halves keep the
// deleted flag; only the first keeps the selection.
func Split(m Model, position int64) (Model, []Event, error) {
	if position <= 0 || position >= m.Duration {
		return m, nil, reject(OpSplit, -1, ErrOutOfRange)
	}
	index := m.SegmentAt(position)
	if index < 0 || m.Segments[index].Start == position {
		return m, nil, reject(OpSplit, index, ErrOutOfRange)
	}

	out := m.Clone()
	second := out.Segments[index]
	second.Start = position
	second.Selected = false
	out.Segments[index].End = position

	segs := make([]Segment, 0, len(out.Segments)+1)
	segs = append(segs, out.Segments[:index+1]...)
	segs = append(segs, second)
	segs = append(segs, out.Segments[index+1:]...)
	out.Segments = segs
	return finish(m, out, OpSplit, index, Event{Kind: EventSegmentTimesUpdated, Index: index})
}

// Select highlights segment index and clears any other selection. An index
// of -1 clears the selection.
func Select(m Model, index int) (Model, []Event, error) {
	if index < -1 || index >= m.Len() {
		return m, nil, reject(OpSelect, index, ErrOutOfRange)
	}
	out := m.Clone()
	for i := range out.Segments {
		out.Segments[i].Selected = i == index
	}
	return out, nil, nil
}

// Reset replaces the cut list with a single active segment spanning the
// whole recording.
func Reset(m Model) (Model, []Event, error) {
	out, err := SingleSegment(m.Duration)
	if err != nil {
		return m, nil, reject(OpReset, 0, fmt.Errorf("%w: %w", ErrOutOfRange, err))
	}
	return out, []Event{{Kind: EventSegmentTimesUpdated, Index: 0}}, nil
}

// finish validates the edited copy and returns it with ev, or rejects the
// edit and returns the original model.
func finish(orig, out Model, op Op, index int, ev Event) (Model, []Event, error) {
	if err := out.Validate(); err != nil {
		return orig, nil, reject(op, index, fmt.Errorf("%w: %w", ErrOutOfRange, err))
	}
	return out, []Event{ev}, nil
}
