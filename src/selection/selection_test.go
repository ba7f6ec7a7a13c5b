package selection

import (
	"testing"

	"region-clicker/src/region"
)

func TestTrackerEmitsNormalizedRegion(t *testing.T) {
	tr := NewTracker(region.DefaultMinSpan)
	tr.Begin(region.Point{X: 300, Y: 250})
	if !tr.Move(region.Point{X: 120, Y: 90}) {
		t.Fatal("expected redraw on move")
	}
	if got := tr.Label(); got == "" {
		t.Fatal("expected live size label while dragging")
	}

	if out := tr.End(region.Point{X: 100, Y: 80}); out != Selected {
		t.Fatalf("End() = %v, want selected", out)
	}
	r, ok := tr.Result()
	if !ok {
		t.Fatal("Result() not ok")
	}
	want := region.Region{X1: 100, Y1: 80, X2: 300, Y2: 250}
	if r != want {
		t.Fatalf("Result() = %+v, want %+v", r, want)
	}
}

func TestTrackerRejectsSmallSelections(t *testing.T) {
	tests := []struct {
		name       string
		start, end region.Point
		want       Outcome
	}{
		{"four wide", region.Point{X: 10, Y: 10}, region.Point{X: 14, Y: 100}, Cancelled},
		{"four tall reversed", region.Point{X: 100, Y: 14}, region.Point{X: 10, Y: 10}, Cancelled},
		{"click without drag", region.Point{X: 5, Y: 5}, region.Point{X: 5, Y: 5}, Cancelled},
		{"five by five", region.Point{X: 0, Y: 0}, region.Point{X: 5, Y: 5}, Selected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker(region.DefaultMinSpan)
			tr.Begin(tt.start)
			got := tr.End(tt.end)
			if got != tt.want {
				t.Fatalf("End() = %v, want %v", got, tt.want)
			}
			if _, ok := tr.Result(); ok != (tt.want == Selected) {
				t.Fatalf("Result() ok = %v", ok)
			}
		})
	}
}

func TestTrackerCancel(t *testing.T) {
	tr := NewTracker(0)
	tr.Begin(region.Point{X: 1, Y: 1})
	tr.Move(region.Point{X: 50, Y: 50})
	tr.Cancel()
	if tr.Outcome() != Cancelled {
		t.Fatalf("Outcome() = %v", tr.Outcome())
	}
	if tr.Selecting() {
		t.Fatal("still selecting after cancel")
	}
	// Releasing after cancel must not resurrect the gesture.
	if out := tr.End(region.Point{X: 80, Y: 80}); out != Cancelled {
		t.Fatalf("End() after cancel = %v", out)
	}
}

func TestMoveWithoutButtonIsIgnored(t *testing.T) {
	tr := NewTracker(0)
	if tr.Move(region.Point{X: 10, Y: 10}) {
		t.Fatal("move before Begin should not request a redraw")
	}
	if _, ok := tr.Current(); ok {
		t.Fatal("Current() ok before Begin")
	}
}

func TestDashSegmentsCoverOutline(t *testing.T) {
	r := region.Region{X1: 0, Y1: 0, X2: 20, Y2: 10}
	segs := DashSegments(r, 6, 4)
	if len(segs) == 0 {
		t.Fatal("no segments")
	}
	var drawn int
	for _, s := range segs {
		if s.From.X != s.To.X && s.From.Y != s.To.Y {
			t.Fatalf("segment %+v is not axis aligned", s)
		}
		for _, p := range []region.Point{s.From, s.To} {
			if !r.Contains(p) {
				t.Fatalf("segment point %+v outside %+v", p, r)
			}
		}
		drawn += abs(s.To.X-s.From.X) + abs(s.To.Y-s.From.Y)
	}
	perimeter := 2 * (r.Width() + r.Height())
	if drawn >= perimeter || drawn < perimeter/2 {
		t.Fatalf("drawn length %d for perimeter %d", drawn, perimeter)
	}
}
