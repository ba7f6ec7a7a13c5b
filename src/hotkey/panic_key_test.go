package hotkey

import (
	"context"
	"errors"
	"testing"
	"time"

	gohook "github.com/robotn/gohook"
)

func down(raw uint16) gohook.Event { return gohook.Event{Kind: gohook.KeyDown, Rawcode: raw} }
func up(raw uint16) gohook.Event   { return gohook.Event{Kind: gohook.KeyUp, Rawcode: raw} }

func TestComboRequiresAllKeysHeld(t *testing.T) {
	c, err := newCombo("Ctrl+Alt+S")
	if err != nil {
		t.Fatal(err)
	}
	steps := []struct {
		ev   gohook.Event
		want bool
	}{
		{down(162), false}, // left ctrl
		{down(83), false},  // s without alt
		{up(83), false},
		{down(165), false}, // right alt
		{down(83), true},
		{down(83), false}, // states reset after a match
	}
	for i, s := range steps {
		if got := c.feed(s.ev); got != s.want {
			t.Fatalf("step %d: feed() = %v, want %v", i, got, s.want)
		}
	}
}

func TestComboIgnoresMouseEvents(t *testing.T) {
	c, err := newCombo("Esc")
	if err != nil {
		t.Fatal(err)
	}
	if c.feed(gohook.Event{Kind: gohook.MouseDown, Rawcode: 27}) {
		t.Fatal("mouse event triggered the combination")
	}
	if !c.feed(down(27)) {
		t.Fatal("Esc did not trigger")
	}
}

func TestNewPanicKeyRejectsUnknownKeys(t *testing.T) {
	if _, err := NewPanicKey("Hyper+Nope"); !errors.Is(err, ErrNoKeys) {
		t.Fatalf("NewPanicKey() error = %v, want ErrNoKeys", err)
	}
}

func newTestHub() (*hub, chan gohook.Event) {
	src := make(chan gohook.Event, 8)
	return newHub(func() chan gohook.Event { return src }, func() { close(src) }), src
}

func TestWaitForPanicKeyReturnsOnCombo(t *testing.T) {
	h, src := newTestHub()
	defer h.shutdown()
	pk := &PanicKey{text: "Esc", hub: h}

	result := make(chan error, 1)
	go func() { result <- pk.WaitForPanicKey(context.Background()) }()

	// Keep sending until the subscriber is registered and sees it.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case err := <-result:
			if err != nil {
				t.Fatalf("WaitForPanicKey() error = %v", err)
			}
			return
		case src <- down(27):
			time.Sleep(5 * time.Millisecond)
			src <- up(27)
		case <-deadline:
			t.Fatal("panic key was not detected")
		}
	}
}

func TestWaitForPanicKeyHonoursContext(t *testing.T) {
	h, _ := newTestHub()
	defer h.shutdown()
	pk := &PanicKey{text: "Esc", hub: h}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := pk.WaitForPanicKey(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("WaitForPanicKey() error = %v", err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.subs) != 0 {
		t.Fatalf("subscriber leaked: %d remaining", len(h.subs))
	}
}
