package clicker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"region-clicker/src/logutil"
)

// Worker runs one click session. It is single-use: create a new Worker for
// every run.
type Worker struct {
	device   Device
	panicKey PanicListener
	rng      *rand.Rand

	started  atomic.Bool
	state    atomic.Int32
	reason   atomic.Int32
	clicks   atomic.Int64
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	mu  sync.Mutex
	err error
}

type Option func(*Worker)

// WithRand fixes the random source used to pick click points.
func WithRand(rng *rand.Rand) Option {
	return func(w *Worker) { w.rng = rng }
}

// New returns an idle worker. panicKey may be nil when no hotkey is wanted.
func New(device Device, panicKey PanicListener, opts ...Option) *Worker {
	w := &Worker{
		device:   device,
		panicKey: panicKey,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.rng == nil {
		w.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return w
}

// Start validates cfg and launches the click loop and the panic listener.
// onDone is invoked exactly once after both have finished. Neither callback
// is invoked when Start returns an error.
func (w *Worker) Start(cfg Config, onStatus StatusFunc, onDone func()) error {
	if w.device == nil {
		return fmt.Errorf("%w: no input device", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	if onStatus == nil {
		onStatus = func(string) {}
	}
	cfg = cfg.withDefaults()

	w.state.Store(int32(Running))
	log.Printf("clicker: starting region=%s hz=%d button=%s random=%v", cfg.Region, cfg.FrequencyHz, cfg.Button, cfg.RandomMode())
	onStatus(runningStatus(cfg))

	ctx, cancel := context.WithCancel(context.Background())
	var listeners sync.WaitGroup
	if w.panicKey != nil {
		listeners.Add(1)
		go func() {
			defer listeners.Done()
			w.listenForPanic(ctx)
		}()
	}

	go func() {
		defer close(w.done)
		w.loop(cfg)

		cancel()
		listeners.Wait()

		reason := w.Reason()
		w.state.Store(int32(Stopped))
		log.Printf("clicker: stopped reason=%s clicks=%d", reason, w.Clicks())
		if text := terminalStatus(reason, w.Err()); text != "" {
			onStatus(text)
		}
		onStatus("Stopped safely")
		if onDone != nil {
			onDone()
		}
	}()
	return nil
}

// Stop requests a user stop. Safe to call at any time and more than once.
func (w *Worker) Stop() {
	if !w.started.Load() {
		return
	}
	w.requestStop(UserRequested)
}

// Wait blocks until the run finished or timeout elapsed; it reports whether
// the run finished. A worker that was never started counts as finished.
func (w *Worker) Wait(timeout time.Duration) bool {
	if !w.started.Load() {
		return true
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-w.done:
		return true
	case <-timer.C:
		return false
	}
}

// Done is closed after onDone returned.
func (w *Worker) Done() <-chan struct{} { return w.done }

func (w *Worker) State() State       { return State(w.state.Load()) }
func (w *Worker) Reason() StopReason { return StopReason(w.reason.Load()) }
func (w *Worker) Clicks() int64      { return w.clicks.Load() }

// Err is the fault that ended a RuntimeError or FailSafeTriggered run.
func (w *Worker) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// requestStop records the first terminal reason; later calls only make
// sure the stop signal is raised.
func (w *Worker) requestStop(reason StopReason) {
	if w.reason.CompareAndSwap(int32(ReasonNone), int32(reason)) {
		log.Printf("clicker: stop requested (%s)", reason)
	}
	w.state.CompareAndSwap(int32(Running), int32(StopRequested))
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *Worker) stopRequested() bool {
	select {
	case <-w.stopCh:
		return true
	default:
		return false
	}
}

func (w *Worker) listenForPanic(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC in panic-key listener: %v", r)
		}
	}()
	if err := w.panicKey.WaitForPanicKey(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Printf("clicker: panic-key listener ended: %v", err)
		}
		return
	}
	w.requestStop(PanicHotkey)
}

func (w *Worker) loop(cfg Config) {
	interval := cfg.Interval()
	next := time.Now()
	for !w.stopRequested() {
		if err := w.cycle(cfg); err != nil {
			w.fail(err)
			return
		}
		// Ticks are anchored to the schedule so timer slack does not drift
		// the rate; a slow device resets the anchor instead of bursting.
		next = next.Add(interval)
		if now := time.Now(); now.Sub(next) > interval {
			next = now
		}
		w.sleepUntil(next, cfg.PollInterval)
	}
}

// cycle moves (random mode only) and clicks once.
func (w *Worker) cycle(cfg Config) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("input device panic: %v", r)
		}
	}()

	if cfg.RandomMode() {
		p := cfg.Region.RandomPoint(w.rng)
		if err := w.device.MoveTo(p.X, p.Y, cfg.MoveDuration); err != nil {
			return err
		}
	}
	if w.device.AbortCornerReached() {
		return ErrFailSafe
	}
	if err := w.device.Click(cfg.Button); err != nil {
		return err
	}
	w.clicks.Add(1)
	return nil
}

func (w *Worker) fail(err error) {
	w.mu.Lock()
	w.err = err
	w.mu.Unlock()
	if errors.Is(err, ErrFailSafe) {
		w.requestStop(FailSafeTriggered)
		return
	}
	log.Printf("clicker: runtime error: %v", err)
	w.requestStop(RuntimeError)
}

// sleepUntil waits for deadline in steps of at most poll so that a stop
// request is honoured within one poll period.
func (w *Worker) sleepUntil(deadline time.Time, poll time.Duration) {
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return
		}
		if remaining > poll {
			remaining = poll
		}
		timer := time.NewTimer(remaining)
		select {
		case <-w.stopCh:
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func runningStatus(cfg Config) string {
	mode := "fixed point"
	if cfg.RandomMode() {
		mode = "random in region"
	}
	return fmt.Sprintf("Running | %s | %d Hz | %s button", mode, cfg.FrequencyHz, cfg.Button)
}

func terminalStatus(reason StopReason, err error) string {
	switch reason {
	case PanicHotkey:
		return "Emergency stop (panic hotkey)"
	case FailSafeTriggered:
		return "Emergency stop triggered (pointer in fail-safe corner)"
	case RuntimeError:
		msg := "unknown error"
		if err != nil {
			msg = err.Error()
		}
		return "Runtime error: " + logutil.Truncate(msg, maxStatusErrorLen)
	}
	return ""
}
