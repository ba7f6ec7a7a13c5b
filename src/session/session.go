package session

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"region-clicker/src/clicker"
	"region-clicker/src/region"
)

var (
	ErrInvalidRegion  = errors.New("select a region of at least 5×5 pixels first")
	ErrAlreadyRunning = errors.New("clicker is already running")
	ErrDeclined       = errors.New("start cancelled by user")
)

const (
	DefaultHighFrequencyWarnHz = 50
	DefaultShutdownTimeout     = 1500 * time.Millisecond
)

// Runner is the part of clicker.Worker the session drives.
type Runner interface {
	Start(cfg clicker.Config, onStatus clicker.StatusFunc, onDone func()) error
	Stop()
	Wait(timeout time.Duration) bool
	Reason() clicker.StopReason
	Err() error
	Clicks() int64
}

// ConfirmFunc asks the user whether to start at hz despite the
// high-frequency warning. It may block.
type ConfirmFunc func(hz int) bool

type Options struct {
	NewWorker func() Runner
	OnStatus  clicker.StatusFunc
	// OnDone runs once per finished run, after the session is idle again.
	OnDone func(reason clicker.StopReason, err error)

	DefaultFrequencyHz  int
	DefaultButton       clicker.Button
	MinSelectionSpan    int
	RandomModeSpan      int
	HighFrequencyWarnHz int
	MoveDuration        time.Duration
	PollInterval        time.Duration
}

// Snapshot is a point-in-time view used by status displays.
type Snapshot struct {
	Running     bool
	Region      region.Region
	HasRegion   bool
	FrequencyHz int
	Button      clicker.Button
	Mode        string
	LastStatus  string
	Clicks      int64
}

// Session holds the shell's configuration and owns at most one running
// worker.
type Session struct {
	opts Options

	mu        sync.Mutex
	region    region.Region
	hasRegion bool
	hz        int
	button    ButtonChoice
	worker    Runner

	statusMu   sync.Mutex
	lastStatus string
}

func New(opts Options) *Session {
	if opts.MinSelectionSpan <= 0 {
		opts.MinSelectionSpan = region.DefaultMinSpan
	}
	if opts.RandomModeSpan <= 0 {
		opts.RandomModeSpan = region.DefaultRandomModeSpan
	}
	if opts.HighFrequencyWarnHz <= 0 {
		opts.HighFrequencyWarnHz = DefaultHighFrequencyWarnHz
	}
	hz := opts.DefaultFrequencyHz
	if hz < clicker.MinFrequencyHz || hz > clicker.MaxFrequencyHz {
		hz = PresetMedium.Hz
	}
	s := &Session{opts: opts, hz: hz, lastStatus: "Idle"}
	if err := s.button.Select(opts.DefaultButton); err != nil {
		s.button = ButtonChoice{}
	}
	return s
}

// SetRegion stores r normalized. Validity is checked when clicking starts.
func (s *Session) SetRegion(r region.Region) {
	r = region.Normalize(r)
	s.mu.Lock()
	s.region = r
	s.hasRegion = true
	s.mu.Unlock()
	log.Printf("session: region set to %s", r)
}

func (s *Session) ClearRegion() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.region = region.Region{}
	s.hasRegion = false
}

func (s *Session) Region() (region.Region, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.region, s.hasRegion
}

func (s *Session) SetFrequency(hz int) error {
	if hz < clicker.MinFrequencyHz || hz > clicker.MaxFrequencyHz {
		return fmt.Errorf("frequency must be between %d and %d Hz", clicker.MinFrequencyHz, clicker.MaxFrequencyHz)
	}
	s.mu.Lock()
	s.hz = hz
	s.mu.Unlock()
	return nil
}

func (s *Session) Frequency() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hz
}

func (s *Session) SetButton(b clicker.Button) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.button.Select(b)
}

func (s *Session) Button() clicker.Button {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.button.Selected()
}

// HighFrequency reports whether starting now needs a confirmation.
func (s *Session) HighFrequency() bool {
	return s.Frequency() > s.opts.HighFrequencyWarnHz
}

// ModeLabel describes how the current region will be clicked.
func (s *Session) ModeLabel() string {
	r, ok := s.Region()
	if !ok {
		return ""
	}
	return modeLabel(r, s.opts.RandomModeSpan)
}

func modeLabel(r region.Region, span int) string {
	if r.Randomizable(span) {
		return "random in region"
	}
	return "fixed point"
}

func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.worker != nil
}

// StartClicking validates the configuration and starts a new worker.
// confirm is consulted only above the high-frequency threshold; a nil
// confirm declines.
func (s *Session) StartClicking(confirm ConfirmFunc) error {
	s.mu.Lock()
	if s.worker != nil {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	r, ok := s.region, s.hasRegion
	hz := s.hz
	button := s.button.Selected()
	s.mu.Unlock()

	if !ok || !r.Valid(s.opts.MinSelectionSpan) {
		log.Printf("session: start rejected, region=%s set=%v", r, ok)
		return ErrInvalidRegion
	}
	if hz > s.opts.HighFrequencyWarnHz {
		if confirm == nil || !confirm(hz) {
			log.Printf("session: high frequency start (%d Hz) declined", hz)
			return ErrDeclined
		}
	}

	cfg := clicker.Config{
		Region:        r,
		FrequencyHz:   hz,
		Button:        button,
		MoveDuration:  s.opts.MoveDuration,
		PollInterval:  s.opts.PollInterval,
		MinRandomSpan: s.opts.MinSelectionSpan,
	}

	w := s.opts.NewWorker()
	s.mu.Lock()
	if s.worker != nil {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.worker = w
	s.mu.Unlock()

	if err := w.Start(cfg, s.status, func() { s.finished(w) }); err != nil {
		s.mu.Lock()
		if s.worker == w {
			s.worker = nil
		}
		s.mu.Unlock()
		return fmt.Errorf("failed to start clicker: %w", err)
	}
	return nil
}

// StopClicking requests a user stop. It returns immediately.
func (s *Session) StopClicking() {
	s.mu.Lock()
	w := s.worker
	s.mu.Unlock()
	if w != nil {
		w.Stop()
	}
}

// Shutdown stops any running worker and waits up to timeout for it. It
// reports whether the worker finished in time.
func (s *Session) Shutdown(timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	s.mu.Lock()
	w := s.worker
	s.mu.Unlock()
	if w == nil {
		return true
	}
	w.Stop()
	if !w.Wait(timeout) {
		log.Printf("session: worker did not stop within %v", timeout)
		return false
	}
	return true
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		Running:     s.worker != nil,
		Region:      s.region,
		HasRegion:   s.hasRegion,
		FrequencyHz: s.hz,
		Button:      s.button.Selected(),
	}
	if s.worker != nil {
		snap.Clicks = s.worker.Clicks()
	}
	s.mu.Unlock()
	if snap.HasRegion {
		snap.Mode = modeLabel(snap.Region, s.opts.RandomModeSpan)
	}
	snap.LastStatus = s.LastStatus()
	return snap
}

func (s *Session) LastStatus() string {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	return s.lastStatus
}

func (s *Session) status(text string) {
	s.statusMu.Lock()
	s.lastStatus = text
	s.statusMu.Unlock()
	if s.opts.OnStatus != nil {
		s.opts.OnStatus(text)
	}
}

func (s *Session) finished(w Runner) {
	s.mu.Lock()
	if s.worker == w {
		s.worker = nil
	}
	s.mu.Unlock()
	if s.opts.OnDone != nil {
		s.opts.OnDone(w.Reason(), w.Err())
	}
}
