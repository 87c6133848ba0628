package emu

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"testing"
)

func TestEncodeGIF(t *testing.T) {
	frames := make([]*image.RGBA, 3)
	for i := range frames {
		img := image.NewRGBA(image.Rect(0, 0, 8, 8))
		c := color.RGBA{R: uint8(i * 80), A: 0xff}
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				img.SetRGBA(x, y, c)
			}
		}
		frames[i] = img
	}

	var buf bytes.Buffer
	if err := EncodeGIF(&buf, frames, 10, 2); err != nil {
		t.Fatal(err)
	}

	g, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Image) != 3 {
		t.Fatalf("decoded %d frames, want 3", len(g.Image))
	}
	if g.LoopCount != 0 {
		t.Fatalf("loop count %d, want 0", g.LoopCount)
	}
	for i, img := range g.Image {
		if got := img.Bounds().Dx(); got != 16 {
			t.Fatalf("frame %d width %d, want 16 after 2x scale", i, got)
		}
		if g.Delay[i] != 10 {
			t.Fatalf("frame %d delay %d, want 10", i, g.Delay[i])
		}
	}
}
