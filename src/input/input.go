// Package input drives the system pointer through robotgo.
package input

import (
	"fmt"
	"image"
	"log"
	"time"

	"github.com/go-vgo/robotgo"

	"region-clicker/src/clicker"
	"region-clicker/src/config"
	"region-clicker/src/screenshot"
)

const tweenStep = 5 * time.Millisecond

// pointer is the subset of robotgo the device needs.
type pointer interface {
	Location() (int, int)
	Move(x, y int)
	Click(button string)
}

type robotgoPointer struct{}

func (robotgoPointer) Location() (int, int) { return robotgo.Location() }
func (robotgoPointer) Move(x, y int)        { robotgo.Move(x, y) }
func (robotgoPointer) Click(button string)  { robotgo.Click(button, false) }

// FailSafe describes the reserved abort corner of the primary display.
type FailSafe struct {
	Corner string
	Size   int
	Bounds image.Rectangle
}

// Contains reports whether (x, y) lies in the abort corner.
func (f FailSafe) Contains(x, y int) bool {
	if f.Corner == config.CornerOff || f.Corner == "" || f.Bounds.Empty() {
		return false
	}
	size := f.Size
	if size <= 0 {
		size = 1
	}
	b := f.Bounds
	left := x < b.Min.X+size
	right := x >= b.Max.X-size
	top := y < b.Min.Y+size
	bottom := y >= b.Max.Y-size
	switch f.Corner {
	case config.CornerTopLeft:
		return left && top
	case config.CornerTopRight:
		return right && top
	case config.CornerBottomLeft:
		return left && bottom
	case config.CornerBottomRight:
		return right && bottom
	}
	return false
}

// Device implements clicker.Device on the real pointer.
type Device struct {
	ptr      pointer
	failSafe FailSafe
	sleep    func(time.Duration)
}

// NewDevice builds a device whose abort corner sits on the primary display.
func NewDevice(cfg *config.Config) *Device {
	bounds, err := screenshot.GetDisplayBounds()
	if err != nil {
		w, h := robotgo.GetScreenSize()
		bounds = image.Rect(0, 0, w, h)
		log.Printf("input: display bounds unavailable (%v), using %v", err, bounds)
	}
	return newDevice(robotgoPointer{}, FailSafe{
		Corner: cfg.FailSafeCorner,
		Size:   cfg.FailSafeCornerSize,
		Bounds: bounds,
	})
}

func newDevice(ptr pointer, fs FailSafe) *Device {
	return &Device{ptr: ptr, failSafe: fs, sleep: time.Sleep}
}

// MoveTo glides the pointer to (x, y) over d. The abort corner is checked
// before every step so a user reaching for it wins over the glide.
func (d *Device) MoveTo(x, y int, dur time.Duration) error {
	sx, sy := d.ptr.Location()
	steps := int(dur / tweenStep)
	for i := 1; i <= steps; i++ {
		if d.AbortCornerReached() {
			return fmt.Errorf("moving to (%d, %d): %w", x, y, clicker.ErrFailSafe)
		}
		d.ptr.Move(sx+(x-sx)*i/steps, sy+(y-sy)*i/steps)
		d.sleep(tweenStep)
	}
	if steps == 0 {
		if d.AbortCornerReached() {
			return fmt.Errorf("moving to (%d, %d): %w", x, y, clicker.ErrFailSafe)
		}
		d.ptr.Move(x, y)
	}
	return nil
}

func (d *Device) Click(b clicker.Button) error {
	name, err := buttonName(b)
	if err != nil {
		return err
	}
	d.ptr.Click(name)
	return nil
}

func (d *Device) AbortCornerReached() bool {
	x, y := d.ptr.Location()
	return d.failSafe.Contains(x, y)
}

// Position is the current pointer location.
func (d *Device) Position() (int, int) { return d.ptr.Location() }

func buttonName(b clicker.Button) (string, error) {
	switch b {
	case clicker.ButtonLeft:
		return "left", nil
	case clicker.ButtonRight:
		return "right", nil
	case clicker.ButtonMiddle:
		return "center", nil
	}
	return "", fmt.Errorf("unsupported mouse button %s", b)
}
