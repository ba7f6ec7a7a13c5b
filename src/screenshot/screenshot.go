package screenshot

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/kbinani/screenshot"

	"region-clicker/src/region"
)

// CaptureRect grabs the pixels of r in screen coordinates.
func CaptureRect(r image.Rectangle) (*image.RGBA, error) {
	if r.Empty() {
		return nil, fmt.Errorf("invalid capture bounds %v", r)
	}
	img, err := screenshot.CaptureRect(r)
	if err != nil {
		return nil, fmt.Errorf("failed to capture screen: %w", err)
	}
	return img, nil
}

// VirtualBounds is the union of all active display bounds.
func VirtualBounds() (image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return image.Rectangle{}, fmt.Errorf("no active displays found")
	}
	union := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		union = union.Union(screenshot.GetDisplayBounds(i))
	}
	return union, nil
}

// GetDisplayBounds returns the bounds of the primary display.
func GetDisplayBounds() (image.Rectangle, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return image.Rectangle{}, fmt.Errorf("no active displays found")
	}
	return screenshot.GetDisplayBounds(0), nil
}

// Dim returns a copy of img with a translucent black layer painted over
// it, used as the overlay backdrop.
func Dim(img image.Image, alpha uint8) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, img, b.Min, draw.Src)
	shade := image.NewUniform(color.NRGBA{A: alpha})
	draw.Draw(out, b, shade, image.Point{}, draw.Over)
	return out
}

// ToScreen converts a point relative to the virtual-screen image back to
// absolute screen coordinates.
func ToScreen(origin image.Rectangle, x, y int) region.Point {
	return region.Point{X: origin.Min.X + x, Y: origin.Min.Y + y}
}
