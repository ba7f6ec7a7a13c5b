package gui

import (
	"context"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"region-clicker/src/clicker"
	"region-clicker/src/config"
	"region-clicker/src/region"
	"region-clicker/src/session"
)

type idleRunner struct{}

func (idleRunner) Start(clicker.Config, clicker.StatusFunc, func()) error { return nil }
func (idleRunner) Stop()                                                  {}
func (idleRunner) Wait(time.Duration) bool                                { return true }
func (idleRunner) Reason() clicker.StopReason                             { return clicker.ReasonNone }
func (idleRunner) Err() error                                             { return nil }
func (idleRunner) Clicks() int64                                          { return 0 }

type fixedSelector struct{ r region.Region }

func (f fixedSelector) Select(context.Context) (region.Region, bool, error) { return f.r, false, nil }

func newTestPanel(t *testing.T) *Panel {
	t.Helper()
	return newTestPanelWith(t, func() session.Runner { return idleRunner{} })
}

func newTestPanelWith(t *testing.T, newWorker func() session.Runner) *Panel {
	t.Helper()
	cfg := &config.Config{
		PanicHotkey:         "Esc",
		FailSafeCorner:      config.CornerTopLeft,
		DefaultFrequencyHz:  10,
		DefaultButton:       "left",
		HighFrequencyWarnHz: 50,
		MinSelectionSpan:    5,
		RandomModeSpan:      10,
		ShutdownTimeout:     time.Second,
	}
	a := test.NewTempApp(t)
	return New(a, Options{
		Config:   cfg,
		Selector: fixedSelector{},
		NewSession: func(onStatus clicker.StatusFunc, onDone func(clicker.StopReason, error)) *session.Session {
			return session.New(session.Options{
				NewWorker:           newWorker,
				OnStatus:            onStatus,
				OnDone:              onDone,
				DefaultFrequencyHz:  cfg.DefaultFrequencyHz,
				HighFrequencyWarnHz: cfg.HighFrequencyWarnHz,
				MinSelectionSpan:    cfg.MinSelectionSpan,
				RandomModeSpan:      cfg.RandomModeSpan,
			})
		},
	})
}

func TestPanelInitialState(t *testing.T) {
	p := newTestPanel(t)
	if p.presetSelect.Selected != session.PresetMedium.Name {
		t.Errorf("preset = %q", p.presetSelect.Selected)
	}
	if p.buttonRadio.Selected != "Left" {
		t.Errorf("button = %q", p.buttonRadio.Selected)
	}
	if !p.stopBtn.Disabled() || p.startBtn.Disabled() {
		t.Error("expected Start enabled and Stop disabled while idle")
	}
	if !p.copyBtn.Disabled() {
		t.Error("copy should be disabled without a region")
	}
}

func TestPresetAndCustomFrequency(t *testing.T) {
	p := newTestPanel(t)

	p.presetSelect.SetSelected(session.PresetTurbo.Name)
	if got := p.sess.Frequency(); got != 50 {
		t.Fatalf("Turbo -> %d Hz", got)
	}
	if p.customEntry.Visible() {
		t.Error("custom entry visible for a preset")
	}

	p.presetSelect.SetSelected(session.CustomPresetName)
	if !p.customEntry.Visible() {
		t.Fatal("custom entry hidden for Custom")
	}
	p.customEntry.SetText("75")
	if got := p.sess.Frequency(); got != 75 {
		t.Fatalf("custom -> %d Hz", got)
	}
	if p.warnText.Text == "" {
		t.Error("expected high frequency warning above 50 Hz")
	}
	p.customEntry.SetText("999")
	if got := p.sess.Frequency(); got != 75 {
		t.Fatalf("out of range value applied: %d", got)
	}
}

func TestButtonRadioSelectsSessionButton(t *testing.T) {
	p := newTestPanel(t)
	p.buttonRadio.SetSelected("Middle")
	if p.sess.Button() != clicker.ButtonMiddle {
		t.Fatalf("button = %s", p.sess.Button())
	}
	p.buttonRadio.SetSelected("Right")
	if p.sess.Button() != clicker.ButtonRight {
		t.Fatalf("button = %s", p.sess.Button())
	}
}

func TestRefreshRegion(t *testing.T) {
	p := newTestPanel(t)
	p.sess.SetRegion(region.Region{X1: 40, Y1: 30, X2: 10, Y2: 10})
	p.refreshRegion()
	if p.regionLabel.Text != "(10, 10) → (40, 30)\nSize: 30×20 px" {
		t.Errorf("region label = %q", p.regionLabel.Text)
	}
	if p.modeLabel.Text != "Mode: random in region" {
		t.Errorf("mode label = %q", p.modeLabel.Text)
	}
	if p.copyBtn.Disabled() {
		t.Error("copy should be enabled once a region is set")
	}
}

func TestSetRunningTogglesControls(t *testing.T) {
	p := newTestPanel(t)
	p.setRunning(true)
	if !p.startBtn.Disabled() || p.stopBtn.Disabled() || !p.selectBtn.Disabled() || !p.buttonRadio.Disabled() {
		t.Fatal("running state not reflected")
	}
	p.setRunning(false)
	if p.startBtn.Disabled() || !p.stopBtn.Disabled() || p.presetSelect.Disabled() {
		t.Fatal("idle state not restored")
	}
}

func TestValidateFrequency(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"1", false},
		{" 200 ", false},
		{"0", true},
		{"201", true},
		{"fast", true},
	}
	for _, tt := range tests {
		if err := validateFrequency(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("validateFrequency(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestSafetyHint(t *testing.T) {
	cfg := &config.Config{PanicHotkey: "Ctrl+Shift+X", FailSafeCorner: config.CornerOff}
	if got := safetyHint(cfg); got != "Panic hotkey: Ctrl+Shift+X" {
		t.Errorf("hint = %q", got)
	}
	cfg.FailSafeCorner = config.CornerBottomRight
	if got := safetyHint(cfg); got != "Panic hotkey: Ctrl+Shift+X | Fail-safe: move the pointer into the bottom-right corner" {
		t.Errorf("hint = %q", got)
	}
}

// cornerDevice reports the pointer in the abort corner on every check.
type cornerDevice struct{}

func (cornerDevice) MoveTo(int, int, time.Duration) error { return nil }
func (cornerDevice) Click(clicker.Button) error           { return nil }
func (cornerDevice) AbortCornerReached() bool             { return true }

// finishedRunner returns from Start only after the run is over, so the
// session reports completion before StartClicking returns.
type finishedRunner struct{ *clicker.Worker }

func (r finishedRunner) Start(cfg clicker.Config, onStatus clicker.StatusFunc, onDone func()) error {
	if err := r.Worker.Start(cfg, onStatus, onDone); err != nil {
		return err
	}
	<-r.Worker.Done()
	return nil
}

func TestRunEndingBeforeStartReturnsLeavesPanelIdle(t *testing.T) {
	p := newTestPanelWith(t, func() session.Runner {
		return finishedRunner{clicker.New(cornerDevice{}, nil)}
	})
	p.sess.SetRegion(region.Region{X1: 100, Y1: 100, X2: 105, Y2: 105})

	p.startBtn.Disable()
	err := p.sess.StartClicking(nil)
	if err != nil {
		t.Fatalf("StartClicking: %v", err)
	}
	p.afterStart(err)

	if p.sess.Running() {
		t.Fatal("session still running after fail-safe")
	}
	if p.startBtn.Disabled() || p.selectBtn.Disabled() || !p.stopBtn.Disabled() {
		t.Fatalf("panel not idle: start=%v select=%v stop=%v",
			p.startBtn.Disabled(), p.selectBtn.Disabled(), p.stopBtn.Disabled())
	}
	if got := p.sess.LastStatus(); got != "Stopped safely" {
		t.Fatalf("LastStatus = %q", got)
	}

	if err := p.sess.StartClicking(nil); err != nil {
		t.Fatalf("restart after fail-safe: %v", err)
	}
}

func TestAfterStartWhileRunningShowsStop(t *testing.T) {
	release := make(chan struct{})
	p := newTestPanelWith(t, func() session.Runner { return &blockingRunner{release: release} })
	p.sess.SetRegion(region.Region{X1: 0, Y1: 0, X2: 50, Y2: 50})

	err := p.sess.StartClicking(nil)
	p.afterStart(err)
	if !p.startBtn.Disabled() || p.stopBtn.Disabled() {
		t.Fatal("expected running controls while the worker runs")
	}
	close(release)
	deadline := time.Now().Add(2 * time.Second)
	for p.sess.Running() {
		if time.Now().After(deadline) {
			t.Fatal("worker did not finish")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// blockingRunner stays running until release is closed.
type blockingRunner struct {
	release chan struct{}
}

func (b *blockingRunner) Start(_ clicker.Config, _ clicker.StatusFunc, onDone func()) error {
	go func() {
		<-b.release
		onDone()
	}()
	return nil
}
func (b *blockingRunner) Stop()                      {}
func (b *blockingRunner) Wait(time.Duration) bool    { return true }
func (b *blockingRunner) Reason() clicker.StopReason { return clicker.UserRequested }
func (b *blockingRunner) Err() error                 { return nil }
func (b *blockingRunner) Clicks() int64              { return 0 }
