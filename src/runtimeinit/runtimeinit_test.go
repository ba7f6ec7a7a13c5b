package runtimeinit

import (
	"testing"
	"time"

	"region-clicker/src/clicker"
	"region-clicker/src/config"
	"region-clicker/src/session"
)

func TestSessionOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{
		DefaultFrequencyHz:  25,
		DefaultButton:       "middle",
		MinSelectionSpan:    7,
		RandomModeSpan:      12,
		HighFrequencyWarnHz: 60,
		MoveDuration:        30 * time.Millisecond,
		PollInterval:        2 * time.Millisecond,
	}
	opts := SessionOptions(cfg, func() session.Runner { return nil }, nil, nil)

	if opts.DefaultFrequencyHz != 25 || opts.DefaultButton != clicker.ButtonMiddle {
		t.Fatalf("defaults = %d/%s", opts.DefaultFrequencyHz, opts.DefaultButton)
	}
	if opts.MinSelectionSpan != 7 || opts.RandomModeSpan != 12 || opts.HighFrequencyWarnHz != 60 {
		t.Fatalf("spans/threshold = %d/%d/%d", opts.MinSelectionSpan, opts.RandomModeSpan, opts.HighFrequencyWarnHz)
	}
	if opts.MoveDuration != 30*time.Millisecond || opts.PollInterval != 2*time.Millisecond {
		t.Fatalf("timings = %v/%v", opts.MoveDuration, opts.PollInterval)
	}
	if opts.NewWorker == nil {
		t.Fatal("NewWorker not forwarded")
	}
}

func TestSessionOptionsUnknownButtonFallsBackToLeft(t *testing.T) {
	opts := SessionOptions(&config.Config{DefaultButton: "thumb"}, nil, nil, nil)
	if opts.DefaultButton != clicker.ButtonLeft {
		t.Fatalf("DefaultButton = %s", opts.DefaultButton)
	}
}

func TestSessionUsesConfiguredDefaults(t *testing.T) {
	cfg := &config.Config{DefaultFrequencyHz: 20, DefaultButton: "right", MinSelectionSpan: 5, RandomModeSpan: 10}
	s := session.New(SessionOptions(cfg, nil, nil, nil))
	if s.Frequency() != 20 || s.Button() != clicker.ButtonRight {
		t.Fatalf("session defaults = %d/%s", s.Frequency(), s.Button())
	}
}
