package gui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"region-clicker/src/clicker"
	"region-clicker/src/clipboard"
	"region-clicker/src/config"
	"region-clicker/src/notification"
	"region-clicker/src/overlay"
	"region-clicker/src/region"
	"region-clicker/src/session"
)

const (
	windowTitle = "Region Clicker"

	// hideBeforeSelect gives the window manager time to unmap the panel
	// before the overlay screenshots the desktop.
	hideBeforeSelect = 200 * time.Millisecond
)

// SessionFactory builds the session the panel drives, hooking its callbacks.
type SessionFactory func(onStatus clicker.StatusFunc, onDone func(clicker.StopReason, error)) *session.Session

type Options struct {
	Config     *config.Config
	NewSession SessionFactory
	// Selector defaults to the full-screen fyne overlay.
	Selector overlay.Selector
}

// Panel is the main window. All widget access happens on the fyne thread.
type Panel struct {
	app  fyne.App
	win  fyne.Window
	cfg  *config.Config
	sess *session.Session
	sel  overlay.Selector

	regionLabel *widget.Label
	modeLabel   *widget.Label
	hzLabel     *widget.Label
	warnText    *canvas.Text
	statusLabel *widget.Label

	presetSelect *widget.Select
	customEntry  *widget.Entry
	buttonRadio  *widget.RadioGroup
	selectBtn    *widget.Button
	copyBtn      *widget.Button
	startBtn     *widget.Button
	stopBtn      *widget.Button

	closeOnce sync.Once
}

func New(a fyne.App, opts Options) *Panel {
	cfg := opts.Config
	if cfg == nil {
		cfg, _ = config.Load()
	}
	a.Settings().SetTheme(newClickerTheme())

	p := &Panel{app: a, cfg: cfg, sel: opts.Selector}
	if p.sel == nil {
		p.sel = overlay.NewSelector(a, cfg.MinSelectionSpan)
	}
	p.sess = opts.NewSession(p.onStatus, p.onDone)

	p.win = a.NewWindow(windowTitle)
	p.win.Resize(fyne.NewSize(460, 420))
	p.win.SetFixedSize(true)
	p.win.CenterOnScreen()
	p.build()
	p.win.SetCloseIntercept(p.quit)
	return p
}

func (p *Panel) Session() *session.Session { return p.sess }

func (p *Panel) Window() fyne.Window { return p.win }

// Show raises the window; safe from any goroutine.
func (p *Panel) Show() {
	fyne.Do(func() {
		p.win.Show()
		p.win.RequestFocus()
	})
}

// ShowAndRun blocks until the application quits. SIGINT and SIGTERM
// shut the session down the same way closing the window does.
func (p *Panel) ShowAndRun() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		if _, ok := <-sigCh; ok {
			fyne.Do(p.quit)
		}
	}()

	p.win.ShowAndRun()
	p.shutdownSession()
}

func (p *Panel) build() {
	title := canvas.NewText("REGION CLICKER", theme.Color(theme.ColorNamePrimary))
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.TextSize = 22

	p.regionLabel = widget.NewLabel(regionText(region.Region{}, false))
	p.modeLabel = widget.NewLabel("")
	p.selectBtn = widget.NewButtonWithIcon("Select Region", theme.ViewFullScreenIcon(), p.onSelectRegion)
	p.copyBtn = widget.NewButtonWithIcon("", theme.ContentCopyIcon(), p.onCopyRegion)
	p.copyBtn.Disable()
	regionCard := widget.NewCard("Region", "", container.NewVBox(
		container.NewBorder(nil, nil, nil, p.copyBtn, p.regionLabel),
		p.modeLabel,
		p.selectBtn,
	))

	p.hzLabel = widget.NewLabel("")
	p.hzLabel.TextStyle = fyne.TextStyle{Bold: true}
	p.warnText = canvas.NewText("", theme.Color(theme.ColorNameWarning))
	p.customEntry = widget.NewEntry()
	p.customEntry.SetPlaceHolder(fmt.Sprintf("%d-%d Hz", clicker.MinFrequencyHz, clicker.MaxFrequencyHz))
	p.customEntry.Validator = validateFrequency
	p.customEntry.OnChanged = p.onCustomFrequency
	p.customEntry.Hide()
	p.presetSelect = widget.NewSelect(session.PresetNames(), p.onPreset)
	p.presetSelect.SetSelected(session.PresetFor(p.sess.Frequency()))
	if session.PresetFor(p.sess.Frequency()) == session.CustomPresetName {
		p.customEntry.SetText(strconv.Itoa(p.sess.Frequency()))
	}
	rateCard := widget.NewCard("Frequency", "", container.NewVBox(
		container.NewBorder(nil, nil, nil, p.hzLabel, p.presetSelect),
		p.customEntry,
		p.warnText,
	))

	labels := make([]string, 0, 3)
	for _, b := range session.Buttons() {
		labels = append(labels, buttonLabel(b))
	}
	p.buttonRadio = widget.NewRadioGroup(labels, p.onButton)
	p.buttonRadio.Horizontal = true
	p.buttonRadio.Required = true
	p.buttonRadio.SetSelected(buttonLabel(p.sess.Button()))
	buttonCard := widget.NewCard("Mouse Button", "", p.buttonRadio)

	p.startBtn = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), p.onStart)
	p.startBtn.Importance = widget.HighImportance
	p.stopBtn = widget.NewButtonWithIcon("Stop", theme.MediaStopIcon(), p.onStop)
	p.stopBtn.Importance = widget.DangerImportance
	p.stopBtn.Disable()

	p.statusLabel = widget.NewLabel(p.sess.LastStatus())
	p.statusLabel.Wrapping = fyne.TextWrapWord
	hint := widget.NewLabel(safetyHint(p.cfg))
	hint.Importance = widget.LowImportance
	hint.Wrapping = fyne.TextWrapWord

	p.refreshFrequency()
	p.win.SetContent(container.NewPadded(container.NewVBox(
		title,
		regionCard,
		container.NewGridWithColumns(2, rateCard, buttonCard),
		container.NewGridWithColumns(2, p.startBtn, p.stopBtn),
		p.statusLabel,
		hint,
	)))
}

func (p *Panel) onSelectRegion() {
	msg := widget.NewLabel("Drag a rectangle over the area to click.\nPress Esc to cancel.")
	dialog.ShowCustomConfirm("Select Region", "Select", "Cancel", msg, func(ok bool) {
		if !ok {
			return
		}
		p.selectBtn.Disable()
		p.win.Hide()
		go p.runSelection()
	}, p.win)
}

func (p *Panel) runSelection() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC in region selection: %v", r)
		}
		p.Show()
		fyne.Do(p.selectBtn.Enable)
	}()

	time.Sleep(hideBeforeSelect)
	r, cancelled, err := p.sel.Select(context.Background())
	switch {
	case err != nil:
		log.Printf("region selection failed: %v", err)
		fyne.Do(func() { dialog.ShowError(err, p.win) })
	case cancelled:
		log.Printf("region selection cancelled")
	default:
		p.sess.SetRegion(r)
		fyne.Do(p.refreshRegion)
	}
}

func (p *Panel) onCopyRegion() {
	r, ok := p.sess.Region()
	if !ok {
		return
	}
	if err := clipboard.WriteRegion(r); err != nil {
		dialog.ShowError(err, p.win)
		return
	}
	p.statusLabel.SetText("Region copied: " + r.String())
}

func (p *Panel) onPreset(name string) {
	if hz, ok := session.PresetHz(name); ok {
		p.customEntry.Hide()
		if err := p.sess.SetFrequency(hz); err != nil {
			log.Printf("preset %s: %v", name, err)
		}
		p.refreshFrequency()
		return
	}
	p.customEntry.SetText(strconv.Itoa(p.sess.Frequency()))
	p.customEntry.Show()
}

func (p *Panel) onCustomFrequency(text string) {
	hz, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return
	}
	if err := p.sess.SetFrequency(hz); err != nil {
		return
	}
	p.refreshFrequency()
}

func (p *Panel) onButton(label string) {
	b, err := clicker.ParseButton(label)
	if err != nil {
		return
	}
	if err := p.sess.SetButton(b); err != nil {
		log.Printf("button %s: %v", label, err)
	}
}

func (p *Panel) onStart() {
	p.startBtn.Disable()
	go func() {
		err := p.sess.StartClicking(p.confirmHighFrequency)
		fyne.Do(func() { p.afterStart(err) })
	}()
}

func (p *Panel) afterStart(err error) {
	switch {
	case err == nil, errors.Is(err, session.ErrAlreadyRunning):
		// The run may already have finished and reported through onDone.
		p.setRunning(p.sess.Running())
		return
	case errors.Is(err, session.ErrInvalidRegion):
		dialog.ShowError(fmt.Errorf("select a region of at least %dx%d pixels first", p.cfg.MinSelectionSpan, p.cfg.MinSelectionSpan), p.win)
	case errors.Is(err, session.ErrDeclined):
		p.statusLabel.SetText("Start cancelled")
	default:
		dialog.ShowError(err, p.win)
	}
	p.setRunning(false)
}

// confirmHighFrequency runs on a worker goroutine and blocks on the dialog.
func (p *Panel) confirmHighFrequency(hz int) bool {
	answer := make(chan bool, 1)
	fyne.Do(func() {
		msg := fmt.Sprintf("Clicking at %d Hz can make the desktop hard to use.\nPanic hotkey: %s. Continue?", hz, p.cfg.PanicHotkey)
		dialog.ShowConfirm("High frequency", msg, func(ok bool) { answer <- ok }, p.win)
	})
	return <-answer
}

func (p *Panel) onStop() {
	p.stopBtn.Disable()
	p.sess.StopClicking()
}

func (p *Panel) onStatus(text string) {
	fyne.Do(func() { p.statusLabel.SetText(text) })
}

func (p *Panel) onDone(reason clicker.StopReason, err error) {
	log.Printf("gui: run finished reason=%s err=%v", reason, err)
	fyne.Do(func() { p.setRunning(false) })
	notification.ShowStopReason(p.app, reason, err)
}

func (p *Panel) setRunning(running bool) {
	controls := []fyne.Disableable{p.selectBtn, p.presetSelect, p.customEntry, p.buttonRadio}
	for _, c := range controls {
		if running {
			c.Disable()
		} else {
			c.Enable()
		}
	}
	if running {
		p.startBtn.Disable()
		p.stopBtn.Enable()
		return
	}
	p.startBtn.Enable()
	p.stopBtn.Disable()
}

func (p *Panel) refreshRegion() {
	r, ok := p.sess.Region()
	p.regionLabel.SetText(regionText(r, ok))
	if !ok {
		p.modeLabel.SetText("")
		p.copyBtn.Disable()
		return
	}
	p.modeLabel.SetText("Mode: " + p.sess.ModeLabel())
	p.copyBtn.Enable()
}

func (p *Panel) refreshFrequency() {
	p.hzLabel.SetText(fmt.Sprintf("%d Hz", p.sess.Frequency()))
	if p.sess.HighFrequency() {
		p.warnText.Text = fmt.Sprintf("Above %d Hz: confirmation required", p.cfg.HighFrequencyWarnHz)
	} else {
		p.warnText.Text = ""
	}
	p.warnText.Refresh()
}

func (p *Panel) quit() {
	p.closeOnce.Do(func() {
		p.shutdownSession()
		if a := fyne.CurrentApp(); a != nil {
			a.Quit()
			return
		}
		p.win.SetCloseIntercept(nil)
		p.win.Close()
	})
}

func (p *Panel) shutdownSession() {
	if !p.sess.Shutdown(p.cfg.ShutdownTimeout) {
		log.Printf("gui: clicker still running after %v, exiting anyway", p.cfg.ShutdownTimeout)
	}
}

func validateFrequency(text string) error {
	hz, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return errors.New("enter a whole number")
	}
	if hz < clicker.MinFrequencyHz || hz > clicker.MaxFrequencyHz {
		return fmt.Errorf("must be %d-%d", clicker.MinFrequencyHz, clicker.MaxFrequencyHz)
	}
	return nil
}

func buttonLabel(b clicker.Button) string {
	s := b.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

func safetyHint(cfg *config.Config) string {
	hint := "Panic hotkey: " + cfg.PanicHotkey
	if cfg.FailSafeCorner != config.CornerOff {
		hint += " | Fail-safe: move the pointer into the " + cfg.FailSafeCorner + " corner"
	}
	return hint
}

// regionText is what the region label shows for r.
func regionText(r region.Region, ok bool) string {
	if !ok {
		return "No region selected"
	}
	return r.Describe()
}
