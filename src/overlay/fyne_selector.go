package overlay

import (
	"context"
	"image"
	"log"
	"sync"

	"fyne.io/fyne/v2"

	"region-clicker/src/region"
	"region-clicker/src/screenshot"
	"region-clicker/src/selection"
)

const backdropAlpha = 110

type result struct {
	region    region.Region
	cancelled bool
}

// fyneSelector opens a borderless full-screen window over the primary
// display and lets the user drag a rectangle on it.
type fyneSelector struct {
	app     fyne.App
	minSpan int

	mu     sync.Mutex
	active bool
}

// NewSelector returns a selector drawing on app. Selections smaller than
// minSpan pixels in either direction count as cancelled.
func NewSelector(app fyne.App, minSpan int) Selector {
	return &fyneSelector{app: app, minSpan: minSpan}
}

func (s *fyneSelector) Select(ctx context.Context) (region.Region, bool, error) {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return region.Region{}, false, ErrBusy
	}
	s.active = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.active = false
		s.mu.Unlock()
	}()

	bounds, err := screenshot.GetDisplayBounds()
	if err != nil {
		return region.Region{}, false, err
	}
	var backdrop image.Image
	if shot, err := screenshot.CaptureRect(bounds); err == nil {
		backdrop = screenshot.Dim(shot, backdropAlpha)
	} else {
		log.Printf("overlay: screen capture failed, using plain backdrop: %v", err)
	}

	log.Printf("Starting interactive region selection on %v", bounds)
	done := make(chan result, 1)
	var win fyne.Window
	fyne.Do(func() {
		tracker := selection.NewTracker(s.minSpan)
		win = s.app.NewWindow("Select click region")
		win.SetPadded(false)

		finish := func(res result) {
			select {
			case done <- res:
			default:
			}
			win.Close()
		}
		surface := newSurface(tracker, bounds.Min, backdrop, func(out selection.Outcome) {
			r, ok := tracker.Result()
			finish(result{region: r, cancelled: !ok || out != selection.Selected})
		})
		win.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
			if ev.Name == fyne.KeyEscape {
				surface.cancel()
			}
		})
		win.SetCloseIntercept(surface.cancel)
		win.SetContent(surface)
		win.SetFullScreen(true)
		win.Show()
		win.RequestFocus()
		surface.setScale(win.Canvas().Scale())
	})

	select {
	case res := <-done:
		if res.cancelled {
			log.Printf("Region selection cancelled")
		} else {
			log.Printf("Region selected: %s", res.region)
		}
		return res.region, res.cancelled, nil
	case <-ctx.Done():
		fyne.Do(func() {
			if win != nil {
				win.Close()
			}
		})
		return region.Region{}, false, ctx.Err()
	}
}
