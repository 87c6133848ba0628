package emu

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"

	xdraw "golang.org/x/image/draw"
)

// gifScale is the integer upscale applied to captures before encoding.
// Native 160x144 renders as a thumbnail in most chat clients.
const gifScale = 2

// EncodeGIF writes frames as a looping animated GIF. delay is the
// per-frame delay in 100ths of a second, scale the integer upscale
// factor (1 leaves frames at native size).
func EncodeGIF(w io.Writer, frames []*image.RGBA, delay int, scale int) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	if scale < 1 {
		scale = 1
	}

	g := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(frames)),
		Delay:     make([]int, 0, len(frames)),
		LoopCount: 0, // loop forever
	}

	for _, frame := range frames {
		src := image.Image(frame)
		bounds := frame.Bounds()
		if scale > 1 {
			scaled := image.NewRGBA(image.Rect(0, 0, bounds.Dx()*scale, bounds.Dy()*scale))
			xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), frame, bounds, xdraw.Src, nil)
			src = scaled
			bounds = scaled.Bounds()
		}

		pal := image.NewPaletted(bounds, palette.Plan9)
		draw.FloydSteinberg.Draw(pal, bounds, src, bounds.Min)

		g.Image = append(g.Image, pal)
		g.Delay = append(g.Delay, delay)
	}

	if err := gif.EncodeAll(w, g); err != nil {
		return fmt.Errorf("gif encode: %w", err)
	}
	return nil
}
