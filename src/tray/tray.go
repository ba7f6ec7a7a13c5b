package tray

import (
	"log"
	"sync"

	"github.com/getlantern/systray"
)

// Config describes the tray menu for a headless click session.
type Config struct {
	Title   string
	Tooltip string
	// OnStop runs when the user picks "Stop clicking".
	OnStop func()
	// OnExit runs once after the tray loop ended.
	OnExit func()
}

// Icon is a systray icon with a Stop item. Run blocks and must be called
// from the main goroutine.
type Icon struct {
	cfg Config

	mu    sync.Mutex
	ready bool
	stop  *systray.MenuItem
}

func New(cfg Config) *Icon {
	if cfg.Title == "" {
		cfg.Title = "Region Clicker"
	}
	return &Icon{cfg: cfg}
}

// Run shows the icon and blocks until Quit.
func (i *Icon) Run() {
	systray.Run(i.onReady, i.onExit)
}

func (i *Icon) onReady() {
	systray.SetIcon(iconBytes(true))
	systray.SetTitle(i.cfg.Title)
	systray.SetTooltip(i.cfg.Tooltip)

	stop := systray.AddMenuItem("Stop clicking", "Stop the running click session")
	systray.AddSeparator()
	quit := systray.AddMenuItem("Quit", "Stop clicking and exit")

	i.mu.Lock()
	i.ready = true
	i.stop = stop
	i.mu.Unlock()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in tray menu goroutine: %v", r)
			}
		}()
		for {
			select {
			case <-stop.ClickedCh:
				log.Printf("tray: stop requested")
				if i.cfg.OnStop != nil {
					i.cfg.OnStop()
				}
			case <-quit.ClickedCh:
				if i.cfg.OnStop != nil {
					i.cfg.OnStop()
				}
				systray.Quit()
				return
			}
		}
	}()
}

func (i *Icon) onExit() {
	if i.cfg.OnExit != nil {
		i.cfg.OnExit()
	}
}

// SetStopped greys out the Stop item and switches to the idle icon.
func (i *Icon) SetStopped(tooltip string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.ready {
		return
	}
	i.stop.Disable()
	systray.SetIcon(iconBytes(false))
	if tooltip != "" {
		systray.SetTooltip(tooltip)
	}
}

// Quit ends Run.
func (i *Icon) Quit() { systray.Quit() }
