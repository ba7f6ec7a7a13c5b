package hotkey

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"
)

var ErrNoKeys = errors.New("no valid keys in hotkey")

type keyState struct {
	name     string
	rawcodes []uint16
	keycodes []uint16
	pressed  bool
}

// combo tracks which keys of one hotkey combination are held down.
type combo struct {
	text string
	keys []keyState
}

func newCombo(hotkeyConfig string) (*combo, error) {
	c := &combo{text: hotkeyConfig}
	for _, name := range parseHotkey(hotkeyConfig) {
		ks := keyState{name: name, rawcodes: keyNameToRawcodes(name), keycodes: keyNameToKeycodes(name)}
		if len(ks.rawcodes) == 0 && len(ks.keycodes) == 0 {
			log.Printf("ERROR: Cannot map key '%s' to rawcodes, hotkey may not work correctly", name)
			continue
		}
		c.keys = append(c.keys, ks)
	}
	if len(c.keys) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoKeys, hotkeyConfig)
	}
	return c, nil
}

// feed applies one key event and reports whether the whole combination is
// now held. Key states reset after a match.
func (c *combo) feed(ev gohook.Event) bool {
	if ev.Kind != gohook.KeyDown && ev.Kind != gohook.KeyUp && ev.Kind != gohook.KeyHold {
		return false
	}
	down := ev.Kind != gohook.KeyUp
	for i := range c.keys {
		if c.keys[i].matches(ev) {
			c.keys[i].pressed = down
		}
	}
	if !down {
		return false
	}
	for i := range c.keys {
		if !c.keys[i].pressed {
			return false
		}
	}
	for i := range c.keys {
		c.keys[i].pressed = false
	}
	return true
}

func (k keyState) matches(ev gohook.Event) bool {
	for _, rc := range k.rawcodes {
		if ev.Rawcode == rc {
			return true
		}
	}
	for _, kc := range k.keycodes {
		if ev.Keycode == kc {
			return true
		}
	}
	return false
}

// hub starts the global hook once and fans key events out to subscribers.
type hub struct {
	source func() chan gohook.Event
	stop   func()

	once sync.Once
	mu   sync.Mutex
	subs map[int]chan gohook.Event
	next int
}

var global = newHub(gohook.Start, gohook.End)

func newHub(source func() chan gohook.Event, stop func()) *hub {
	return &hub{source: source, stop: stop, subs: make(map[int]chan gohook.Event)}
}

func (h *hub) subscribe() (<-chan gohook.Event, func()) {
	h.once.Do(h.run)

	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan gohook.Event, 32)
	h.subs[id] = ch
	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

func (h *hub) run() {
	log.Printf("Starting gohook event loop...")
	evChan := h.source()
	if evChan == nil {
		log.Printf("ERROR: gohook.Start() returned nil channel")
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in hotkey goroutine: %v", r)
			}
		}()
		for ev := range evChan {
			if ev.Kind != gohook.KeyDown && ev.Kind != gohook.KeyUp && ev.Kind != gohook.KeyHold {
				continue
			}
			h.mu.Lock()
			for _, ch := range h.subs {
				select {
				case ch <- ev:
				default:
					// Slow subscriber; dropping beats stalling the OS hook.
				}
			}
			h.mu.Unlock()
		}
		log.Printf("Event channel closed")
	}()
}

func (h *hub) shutdown() {
	if h.stop != nil {
		h.stop()
	}
}

// PanicKey waits for a global key combination. It satisfies the click
// worker's panic listener contract.
type PanicKey struct {
	text string
	hub  *hub
}

// NewPanicKey validates hotkeyConfig (for example "Esc" or "Ctrl+Alt+S").
func NewPanicKey(hotkeyConfig string) (*PanicKey, error) {
	if _, err := newCombo(hotkeyConfig); err != nil {
		return nil, err
	}
	log.Printf("Panic hotkey configured for: %s", hotkeyConfig)
	return &PanicKey{text: hotkeyConfig, hub: global}, nil
}

func (p *PanicKey) String() string { return p.text }

// WaitForPanicKey blocks until the combination is pressed (nil) or ctx is
// done (ctx.Err()).
func (p *PanicKey) WaitForPanicKey(ctx context.Context) error {
	c, err := newCombo(p.text)
	if err != nil {
		return err
	}
	events, unsubscribe := p.hub.subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if c.feed(ev) {
				log.Printf("Panic hotkey detected: %s", p.text)
				return nil
			}
		}
	}
}

// Shutdown unhooks the global keyboard hook. Call once on exit.
func Shutdown() {
	global.shutdown()
}

// parseHotkey converts a hotkey string like "Ctrl+Alt+q" to normalized key names
func parseHotkey(hotkeyConfig string) []string {
	var keys []string
	for _, part := range strings.Split(strings.ToLower(hotkeyConfig), "+") {
		part = strings.TrimSpace(part)
		switch part {
		case "":
			continue
		case "control":
			keys = append(keys, "ctrl")
		case "option":
			keys = append(keys, "alt")
		case "win", "cmd", "super":
			keys = append(keys, "cmd")
		case "escape":
			keys = append(keys, "esc")
		default:
			keys = append(keys, part)
		}
	}
	return keys
}

var specialRawcodes = map[string][]uint16{
	"ctrl":  {162, 163}, // VK_LCONTROL, VK_RCONTROL
	"alt":   {164, 165}, // VK_LMENU, VK_RMENU
	"shift": {160, 161}, // VK_LSHIFT, VK_RSHIFT
	"cmd":   {91, 92},   // VK_LWIN, VK_RWIN

	"space":     {32},
	"enter":     {13},
	"return":    {13},
	"esc":       {27},
	"tab":       {9},
	"backspace": {8},
	"delete":    {46},
	"del":       {46},
	"insert":    {45},
	"ins":       {45},
	"home":      {36},
	"end":       {35},
	"pageup":    {33},
	"pgup":      {33},
	"pagedown":  {34},
	"pgdn":      {34},
	"pause":     {19},

	"left":  {37},
	"up":    {38},
	"right": {39},
	"down":  {40},
}

// keyNameToRawcodes maps a key name to its Windows virtual key codes. Modifiers
// return both the left and right variants.
func keyNameToRawcodes(keyName string) []uint16 {
	keyName = strings.ToLower(strings.TrimSpace(keyName))
	if codes, ok := specialRawcodes[keyName]; ok {
		return codes
	}
	if len(keyName) == 1 {
		c := keyName[0]
		switch {
		case c >= 'a' && c <= 'z':
			return []uint16{uint16(c-'a') + 65}
		case c >= '0' && c <= '9':
			return []uint16{uint16(c-'0') + 48}
		}
	}
	var n int
	if _, err := fmt.Sscanf(keyName, "f%d", &n); err == nil && n >= 1 && n <= 24 && keyName == fmt.Sprintf("f%d", n) {
		return []uint16{uint16(111 + n)} // VK_F1 = 112
	}
	return nil
}

// keyNameToKeycodes looks the key up in gohook's portable keycode table so
// combinations also match where rawcodes are not Windows VK codes.
func keyNameToKeycodes(keyName string) []uint16 {
	if kc, ok := gohook.Keycode[keyName]; ok && kc != 0 {
		return []uint16{kc}
	}
	return nil
}
