package runtimeinit

import (
	"fmt"
	"log"

	"region-clicker/src/clicker"
	"region-clicker/src/clipboard"
	"region-clicker/src/config"
	"region-clicker/src/hotkey"
	"region-clicker/src/input"
	"region-clicker/src/session"
)

type Options struct {
	LoadOptions  config.LoadOptions
	SetupLogging func(bool)
	// OnStatus and OnDone are forwarded to the session.
	OnStatus clicker.StatusFunc
	OnDone   func(reason clicker.StopReason, err error)
}

// Runtime bundles the platform pieces every entry point needs.
type Runtime struct {
	Config   *config.Config
	Device   *input.Device
	PanicKey *hotkey.PanicKey
}

func Bootstrap(opts Options) (*Runtime, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.SetupLogging != nil {
		opts.SetupLogging(cfg.EnableFileLogging)
	}

	pk, err := hotkey.NewPanicKey(cfg.PanicHotkey)
	if err != nil {
		return nil, fmt.Errorf("invalid PANIC_HOTKEY %q: %w", cfg.PanicHotkey, err)
	}

	// Clipboard is optional: only the copy-region action needs it.
	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	}

	log.Printf("Config: panic=%s failsafe=%s/%dpx default=%dHz/%s",
		pk, cfg.FailSafeCorner, cfg.FailSafeCornerSize, cfg.DefaultFrequencyHz, cfg.DefaultButton)

	return &Runtime{
		Config:   cfg,
		Device:   input.NewDevice(cfg),
		PanicKey: pk,
	}, nil
}

// NewWorker builds a fresh single-use worker on the shared device.
func (rt *Runtime) NewWorker() session.Runner {
	return clicker.New(rt.Device, rt.PanicKey)
}

// NewSession wires a session to this runtime using the configured defaults.
func (rt *Runtime) NewSession(onStatus clicker.StatusFunc, onDone func(clicker.StopReason, error)) *session.Session {
	return session.New(SessionOptions(rt.Config, rt.NewWorker, onStatus, onDone))
}

// SessionOptions maps configuration onto session options.
func SessionOptions(cfg *config.Config, newWorker func() session.Runner, onStatus clicker.StatusFunc, onDone func(clicker.StopReason, error)) session.Options {
	button, err := clicker.ParseButton(cfg.DefaultButton)
	if err != nil {
		button = clicker.ButtonLeft
	}
	return session.Options{
		NewWorker:           newWorker,
		OnStatus:            onStatus,
		OnDone:              onDone,
		DefaultFrequencyHz:  cfg.DefaultFrequencyHz,
		DefaultButton:       button,
		MinSelectionSpan:    cfg.MinSelectionSpan,
		RandomModeSpan:      cfg.RandomModeSpan,
		HighFrequencyWarnHz: cfg.HighFrequencyWarnHz,
		MoveDuration:        cfg.MoveDuration,
		PollInterval:        cfg.PollInterval,
	}
}
