package clicker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"region-clicker/src/region"
)

const (
	MinFrequencyHz = 1
	MaxFrequencyHz = 200

	DefaultMoveDuration = 50 * time.Millisecond
	DefaultPollInterval = 5 * time.Millisecond
	MaxPollInterval     = 5 * time.Millisecond

	// maxStatusErrorLen caps runtime error text shown to the user.
	maxStatusErrorLen = 50
)

var (
	// ErrFailSafe is returned (possibly wrapped) by a Device when the
	// pointer sits in the reserved abort corner.
	ErrFailSafe       = errors.New("fail-safe triggered")
	ErrAlreadyStarted = errors.New("worker already started")
	ErrInvalidConfig  = errors.New("invalid click configuration")
)

type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

var buttonNames = [...]string{"left", "right", "middle"}

func (b Button) String() string {
	if b < ButtonLeft || b > ButtonMiddle {
		return fmt.Sprintf("button(%d)", int(b))
	}
	return buttonNames[b]
}

func (b Button) Valid() bool { return b >= ButtonLeft && b <= ButtonMiddle }

// ParseButton accepts left/right/middle (center is an alias for middle).
func ParseButton(s string) (Button, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return ButtonLeft, nil
	case "right", "r":
		return ButtonRight, nil
	case "middle", "center", "m":
		return ButtonMiddle, nil
	}
	return ButtonLeft, fmt.Errorf("unknown mouse button %q (expected left|right|middle)", s)
}

type State int32

const (
	Idle State = iota
	Running
	StopRequested
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case StopRequested:
		return "stop-requested"
	case Stopped:
		return "stopped"
	default:
		return "idle"
	}
}

type StopReason int32

const (
	ReasonNone StopReason = iota
	UserRequested
	PanicHotkey
	FailSafeTriggered
	RuntimeError
)

func (r StopReason) String() string {
	switch r {
	case UserRequested:
		return "user-requested"
	case PanicHotkey:
		return "panic-hotkey"
	case FailSafeTriggered:
		return "fail-safe"
	case RuntimeError:
		return "runtime-error"
	default:
		return "none"
	}
}

// Failure reports whether the reason should be rendered as an error.
func (r StopReason) Failure() bool {
	return r == FailSafeTriggered || r == RuntimeError
}

// Config is immutable for the lifetime of one run.
type Config struct {
	Region      region.Region
	FrequencyHz int
	Button      Button

	// MoveDuration is the pointer transition time; zero uses the default.
	MoveDuration time.Duration
	// PollInterval bounds stop latency while sleeping; clamped to MaxPollInterval.
	PollInterval time.Duration
	// MinRandomSpan: both spans must exceed it for random-in-region clicks.
	MinRandomSpan int
}

func (c Config) Validate() error {
	if c.FrequencyHz < MinFrequencyHz || c.FrequencyHz > MaxFrequencyHz {
		return fmt.Errorf("%w: frequency %d Hz outside [%d, %d]", ErrInvalidConfig, c.FrequencyHz, MinFrequencyHz, MaxFrequencyHz)
	}
	if !c.Button.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, c.Button)
	}
	r := c.Region
	if r.X1 > r.X2 || r.Y1 > r.Y2 {
		return fmt.Errorf("%w: region %s is not normalized", ErrInvalidConfig, r)
	}
	return nil
}

// Interval is the time between two clicks.
func (c Config) Interval() time.Duration {
	if c.FrequencyHz <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(c.FrequencyHz)
}

// RandomMode reports whether clicks are spread over the region rather than
// issued at the current pointer position.
func (c Config) RandomMode() bool {
	return c.Region.Randomizable(c.minRandomSpan())
}

func (c Config) withDefaults() Config {
	if c.MoveDuration <= 0 {
		c.MoveDuration = DefaultMoveDuration
	}
	if c.PollInterval <= 0 || c.PollInterval > MaxPollInterval {
		c.PollInterval = DefaultPollInterval
	}
	return c
}

func (c Config) minRandomSpan() int {
	if c.MinRandomSpan <= 0 {
		return region.DefaultMinSpan
	}
	return c.MinRandomSpan
}

// Device is the platform pointer capability the worker drives.
type Device interface {
	MoveTo(x, y int, d time.Duration) error
	Click(b Button) error
	AbortCornerReached() bool
}

// PanicListener blocks until the panic key is pressed (nil) or ctx ends.
type PanicListener interface {
	WaitForPanicKey(ctx context.Context) error
}

// StatusFunc receives human readable status lines.
type StatusFunc func(text string)
