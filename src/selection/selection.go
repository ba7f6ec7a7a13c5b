package selection

import (
	"fmt"

	"region-clicker/src/region"
)

// Outcome is the terminal result of one drag gesture.
type Outcome int

const (
	// Pending means the gesture has not finished yet.
	Pending Outcome = iota
	Selected
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Selected:
		return "selected"
	case Cancelled:
		return "cancelled"
	default:
		return "pending"
	}
}

// Tracker follows a single drag gesture on the overlay. It is not safe for
// concurrent use; the overlay drives it from the UI goroutine.
type Tracker struct {
	minSpan   int
	selecting bool
	start     region.Point
	end       region.Point
	outcome   Outcome
	result    region.Region
}

func NewTracker(minSpan int) *Tracker {
	if minSpan <= 0 {
		minSpan = region.DefaultMinSpan
	}
	return &Tracker{minSpan: minSpan}
}

// Begin records the pointer-down position.
func (t *Tracker) Begin(p region.Point) {
	if t.outcome != Pending {
		return
	}
	t.selecting = true
	t.start = p
	t.end = p
}

// Move updates the live end point. It reports whether a redraw is needed.
func (t *Tracker) Move(p region.Point) bool {
	if !t.selecting {
		return false
	}
	if p == t.end {
		return false
	}
	t.end = p
	return true
}

// End finishes the gesture at p. A rectangle smaller than the minimum span
// in either direction ends the gesture as Cancelled.
func (t *Tracker) End(p region.Point) Outcome {
	if !t.selecting {
		return t.outcome
	}
	t.selecting = false
	t.end = p
	r := region.FromPoints(t.start, t.end)
	if r.Valid(t.minSpan) {
		t.result = r
		t.outcome = Selected
	} else {
		t.outcome = Cancelled
	}
	return t.outcome
}

// Cancel aborts the gesture (Escape).
func (t *Tracker) Cancel() {
	t.selecting = false
	if t.outcome == Pending {
		t.outcome = Cancelled
	}
}

func (t *Tracker) Selecting() bool  { return t.selecting }
func (t *Tracker) Outcome() Outcome { return t.outcome }

// Result returns the emitted region; ok is false unless the outcome is Selected.
func (t *Tracker) Result() (region.Region, bool) {
	return t.result, t.outcome == Selected
}

// Current returns the normalized rectangle under the cursor while dragging.
func (t *Tracker) Current() (region.Region, bool) {
	if !t.selecting {
		return region.Region{}, false
	}
	return region.FromPoints(t.start, t.end), true
}

// Label is the live size caption drawn next to the selection.
func (t *Tracker) Label() string {
	r, ok := t.Current()
	if !ok {
		return ""
	}
	return fmt.Sprintf("%d×%d px\nRelease to confirm | ESC to cancel", r.Width(), r.Height())
}
