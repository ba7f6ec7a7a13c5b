package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"runtime"

	"region-clicker/src/region"
	"region-clicker/src/selection"
)

const iconSize = 32

// iconPNG draws the tray glyph: a dashed selection frame with a dot in the
// middle standing for the click point.
func iconPNG(active bool) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	frame := color.NRGBA{R: 0x00, G: 0x78, B: 0xd4, A: 0xff}
	dot := color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
	if active {
		dot = color.NRGBA{R: 0xe0, G: 0x30, B: 0x30, A: 0xff}
	}

	outline := region.Region{X1: 3, Y1: 3, X2: iconSize - 4, Y2: iconSize - 4}
	for _, seg := range selection.DashSegments(outline, 4, 2) {
		drawSegment(img, seg, frame)
	}
	c := outline.Center()
	for y := c.Y - 4; y <= c.Y+4; y++ {
		for x := c.X - 4; x <= c.X+4; x++ {
			if (x-c.X)*(x-c.X)+(y-c.Y)*(y-c.Y) <= 16 {
				img.SetNRGBA(x, y, dot)
			}
		}
	}

	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func drawSegment(img *image.NRGBA, seg selection.Segment, c color.NRGBA) {
	r := region.Normalize(region.Region{X1: seg.From.X, Y1: seg.From.Y, X2: seg.To.X, Y2: seg.To.Y})
	for y := r.Y1; y <= r.Y2; y++ {
		for x := r.X1; x <= r.X2; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

// iconBytes returns the icon in the format the platform tray expects:
// Windows loads .ico files, everything else takes PNG.
func iconBytes(active bool) []byte {
	data := iconPNG(active)
	if runtime.GOOS == "windows" {
		return wrapICO(data, iconSize)
	}
	return data
}

// wrapICO embeds a PNG image in a single-entry ICO container.
func wrapICO(pngData []byte, size int) []byte {
	var buf bytes.Buffer
	le := binary.LittleEndian
	_ = binary.Write(&buf, le, uint16(0)) // reserved
	_ = binary.Write(&buf, le, uint16(1)) // type: icon
	_ = binary.Write(&buf, le, uint16(1)) // image count
	buf.WriteByte(byte(size))
	buf.WriteByte(byte(size))
	buf.WriteByte(0)                       // palette
	buf.WriteByte(0)                       // reserved
	_ = binary.Write(&buf, le, uint16(1))  // color planes
	_ = binary.Write(&buf, le, uint16(32)) // bits per pixel
	_ = binary.Write(&buf, le, uint32(len(pngData)))
	_ = binary.Write(&buf, le, uint32(6+16)) // data offset
	buf.Write(pngData)
	return buf.Bytes()
}
