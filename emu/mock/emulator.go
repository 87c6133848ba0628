package mock

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"

	"gbplay/emu"
)

const (
	screenWidth  = 160
	screenHeight = 144
)

// Emulator is a deterministic fake: the "game" is a frame counter, the
// screen a color pattern derived from it, and the save state the counter
// itself.
type Emulator struct {
	emu.Base

	frame uint64
	mask  uint32
}

func (e *Emulator) Boot(opts emu.StartOptions) error {
	e.frame = 0
	e.mask = 0
	return nil
}

func (e *Emulator) Shutdown() error {
	return nil
}

func (e *Emulator) StepFrame() {
	e.frame++
}

func (e *Emulator) SetButtons(mask uint32) {
	e.mask = mask
}

func (e *Emulator) Screenshot() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, screenWidth, screenHeight))
	c := color.RGBA{
		R: uint8(e.frame),
		G: uint8(e.frame >> 8),
		B: uint8(e.mask),
		A: 0xff,
	}
	for y := 0; y < screenHeight; y++ {
		for x := 0; x < screenWidth; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func (e *Emulator) Serialize() ([]byte, error) {
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, e.frame)
	return data, nil
}

func (e *Emulator) Deserialize(data []byte) error {
	if len(data) != 8 {
		return fmt.Errorf("mock: bad state size %d", len(data))
	}
	e.frame = binary.BigEndian.Uint64(data)
	return nil
}

func (e *Emulator) FPS() int {
	return 60
}

func (e *Emulator) Buttons() []emu.ButtonCode {
	return []emu.ButtonCode{
		{Name: "Up", Bit: 0},
		{Name: "Down", Bit: 1},
		{Name: "Left", Bit: 2},
		{Name: "Right", Bit: 3},
		{Name: "A", Bit: 4},
		{Name: "B", Bit: 5},
		{Name: "Select", Bit: 6},
		{Name: "Start", Bit: 7},
	}
}

// Frame exposes the counter for tests.
func (e *Emulator) Frame() uint64 {
	return e.frame
}
