package input

import (
	"errors"
	"image"
	"testing"
	"time"

	"region-clicker/src/clicker"
	"region-clicker/src/config"
)

type fakePointer struct {
	x, y   int
	path   [][2]int
	clicks []string
	// jumpAt moves the pointer into the corner after that many moves.
	jumpAt int
}

func (p *fakePointer) Location() (int, int) { return p.x, p.y }

func (p *fakePointer) Move(x, y int) {
	p.path = append(p.path, [2]int{x, y})
	p.x, p.y = x, y
	if p.jumpAt > 0 && len(p.path) == p.jumpAt {
		p.x, p.y = 0, 0
	}
}

func (p *fakePointer) Click(button string) { p.clicks = append(p.clicks, button) }

var screen = image.Rect(0, 0, 1920, 1080)

func testDevice(p *fakePointer, corner string) *Device {
	d := newDevice(p, FailSafe{Corner: corner, Size: 2, Bounds: screen})
	d.sleep = func(time.Duration) {}
	return d
}

func TestFailSafeCorners(t *testing.T) {
	tests := []struct {
		corner string
		x, y   int
		want   bool
	}{
		{config.CornerTopLeft, 0, 0, true},
		{config.CornerTopLeft, 1, 1, true},
		{config.CornerTopLeft, 2, 0, false},
		{config.CornerTopRight, 1919, 0, true},
		{config.CornerTopRight, 0, 0, false},
		{config.CornerBottomLeft, 0, 1079, true},
		{config.CornerBottomRight, 1918, 1078, true},
		{config.CornerBottomRight, 1917, 1079, false},
		{config.CornerOff, 0, 0, false},
	}
	for _, tt := range tests {
		fs := FailSafe{Corner: tt.corner, Size: 2, Bounds: screen}
		if got := fs.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("%s Contains(%d,%d) = %v, want %v", tt.corner, tt.x, tt.y, got, tt.want)
		}
	}
}

func TestMoveToGlidesToTarget(t *testing.T) {
	p := &fakePointer{x: 100, y: 100}
	d := testDevice(p, config.CornerTopLeft)

	if err := d.MoveTo(200, 150, 50*time.Millisecond); err != nil {
		t.Fatalf("MoveTo() error = %v", err)
	}
	if len(p.path) != 10 {
		t.Fatalf("steps = %d, want 10", len(p.path))
	}
	if last := p.path[len(p.path)-1]; last != [2]int{200, 150} {
		t.Fatalf("final position = %v", last)
	}
}

func TestMoveToInstantWhenDurationZero(t *testing.T) {
	p := &fakePointer{x: 10, y: 10}
	d := testDevice(p, config.CornerTopLeft)
	if err := d.MoveTo(40, 40, 0); err != nil {
		t.Fatal(err)
	}
	if len(p.path) != 1 || p.path[0] != [2]int{40, 40} {
		t.Fatalf("path = %v", p.path)
	}
}

func TestMoveToAbortsInCorner(t *testing.T) {
	p := &fakePointer{x: 500, y: 500, jumpAt: 3}
	d := testDevice(p, config.CornerTopLeft)

	err := d.MoveTo(800, 800, 50*time.Millisecond)
	if !errors.Is(err, clicker.ErrFailSafe) {
		t.Fatalf("MoveTo() error = %v, want ErrFailSafe", err)
	}
	if len(p.path) != 3 {
		t.Fatalf("pointer kept moving after the corner: %d steps", len(p.path))
	}
}

func TestClickMapsButtons(t *testing.T) {
	p := &fakePointer{}
	d := testDevice(p, config.CornerOff)
	for _, b := range []clicker.Button{clicker.ButtonLeft, clicker.ButtonRight, clicker.ButtonMiddle} {
		if err := d.Click(b); err != nil {
			t.Fatalf("Click(%s) error = %v", b, err)
		}
	}
	want := []string{"left", "right", "center"}
	for i := range want {
		if p.clicks[i] != want[i] {
			t.Fatalf("clicks = %v, want %v", p.clicks, want)
		}
	}
	if err := d.Click(clicker.Button(9)); err == nil {
		t.Fatal("expected error for unknown button")
	}
}
