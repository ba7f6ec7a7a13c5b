package tray

import (
	"bytes"
	"encoding/binary"
	"image/png"
	"testing"
)

func TestIconPNGDecodes(t *testing.T) {
	for _, active := range []bool{true, false} {
		img, err := png.Decode(bytes.NewReader(iconPNG(active)))
		if err != nil {
			t.Fatalf("png.Decode: %v", err)
		}
		if b := img.Bounds(); b.Dx() != iconSize || b.Dy() != iconSize {
			t.Fatalf("icon bounds = %v", b)
		}
	}
	img, _ := png.Decode(bytes.NewReader(iconPNG(true)))
	if _, _, _, a := img.At(iconSize/2, iconSize/2).RGBA(); a == 0 {
		t.Fatal("center dot not drawn")
	}
}

func TestWrapICOHeader(t *testing.T) {
	data := iconPNG(true)
	ico := wrapICO(data, iconSize)
	le := binary.LittleEndian
	if le.Uint16(ico[2:4]) != 1 || le.Uint16(ico[4:6]) != 1 {
		t.Fatalf("bad ICO header % x", ico[:6])
	}
	if int(le.Uint32(ico[14:18])) != len(data) || le.Uint32(ico[18:22]) != 22 {
		t.Fatal("bad ICO directory entry")
	}
	if !bytes.Equal(ico[22:], data) {
		t.Fatal("PNG payload mismatch")
	}
}
