// sim/event.go
package sim

import (
	"errors"
	"fmt"
	"slices"
)

// ErrDegenerateTrace is the common cause of every trace rejected before a search.
var ErrDegenerateTrace = errors.New("trace has no usable events")

var (
	// ErrEmptyTrace reports a trace without any events.
	ErrEmptyTrace = fmt.Errorf("%w: trace is empty", ErrDegenerateTrace)
	// ErrNoUsableEvents reports a trace whose I/O times sum to zero.
	ErrNoUsableEvents = fmt.Errorf("%w: total I/O time is zero", ErrDegenerateTrace)
)

// IOEvent is one observed I/O completion.
type IOEvent struct {
	IOTime    int64 // time the I/O took (ns, >= 0)
	Timestamp int64 // ordering key only; unit is whatever the recorder used
}

// Trace is a sequence of IOEvents in ascending Timestamp order.
// Events sharing a timestamp keep their recorded relative order.
type Trace []IOEvent

// NewTrace copies events and stable-sorts the copy by Timestamp.
func NewTrace(events ...IOEvent) Trace {
	t := make(Trace, len(events))
	copy(t, events)
	t.Sort()
	return t
}

// Sort orders the trace by Timestamp in place, preserving the order of ties.
func (t Trace) Sort() {
	slices.SortStableFunc(t, func(a, b IOEvent) int {
		switch {
		case a.Timestamp < b.Timestamp:
			return -1
		case a.Timestamp > b.Timestamp:
			return 1
		}
		return 0
	})
}

// TotalIOTime returns the sum of recorded I/O times in nanoseconds.
func (t Trace) TotalIOTime() int64 {
	var total int64
	for _, e := range t {
		total += e.IOTime
	}
	return total
}

// Validate rejects traces that cannot produce meaningful metrics: empty
// traces, traces containing negative I/O times, and traces whose I/O times
// are all zero.
func (t Trace) Validate() error {
	if len(t) == 0 {
		return ErrEmptyTrace
	}
	for i, e := range t {
		if e.IOTime < 0 {
			return fmt.Errorf("event %d: negative io time %d", i, e.IOTime)
		}
	}
	if t.TotalIOTime() == 0 {
		return ErrNoUsableEvents
	}
	return nil
}
