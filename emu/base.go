package emu

import (
	"fmt"
	"image"
	"io"
	"log"
	"math"
	"os"
	"sort"
	"strings"
)

const (
	defaultFPS = 60

	// captureEvery is how many frames elapse between screenshot captures.
	// Capturing every frame at 60fps makes GIFs nobody can post; one in
	// six gives a 10fps capture that still reads as motion.
	captureEvery = 6

	// pressFrames is how long a tapped button stays held.
	pressFrames = 2

	// settleSeconds of play follow every press/hold so the capture shows
	// the game reacting to the input.
	settleSeconds = 1
)

// Backend is the hook surface a concrete adapter implements. The Base
// drives it strictly sequentially.
type Backend interface {
	// Boot starts the core. Only GameROM, BootROM and BatteryPath are
	// the backend's concern; state loading and warm-up belong to Base.
	Boot(opts StartOptions) error
	Shutdown() error

	StepFrame()
	Screenshot() *image.RGBA
	SetButtons(mask uint32)

	Serialize() ([]byte, error)
	Deserialize(data []byte) error

	FPS() int
	Buttons() []ButtonCode
}

// Base implements the shared Emulator lifecycle over a Backend.
// Derived types embed it and call BaseInit with themselves:
//
//	type Emulator struct {
//		emu.Base
//		...
//	}
//	e := &Emulator{...}
//	e.BaseInit("gameboy", e)
type Base struct {
	// driver name, for log prefixes
	name string

	backend Backend

	running bool
	fps     int

	buttons map[string]ButtonCode
	mask    uint32

	frames     []*image.RGBA
	frameCount int
}

func (b *Base) BaseInit(name string, backend Backend) {
	if backend == nil {
		panic("backend must not be nil")
	}
	b.name = name
	b.backend = backend
}

func (b *Base) IsRunning() bool { return b.running }

func (b *Base) assertRunning() error {
	if !b.running {
		log.Printf("%s: emulator is not running\n", b.name)
		return ErrNotRunning
	}
	return nil
}

func (b *Base) assertNotRunning() error {
	if b.running {
		log.Printf("%s: emulator is already running\n", b.name)
		return ErrAlreadyRunning
	}
	return nil
}

func (b *Base) Start(opts StartOptions) error {
	if opts.WarmupSeconds < 0 {
		return fmt.Errorf("%s: warmup seconds must be 0 or more", b.name)
	}
	if err := b.assertNotRunning(); err != nil {
		return err
	}

	if err := b.backend.Boot(opts); err != nil {
		return fmt.Errorf("%s: start: %w", b.name, err)
	}

	b.fps = b.backend.FPS()
	if b.fps <= 0 {
		b.fps = defaultFPS
	}

	b.buttons = make(map[string]ButtonCode)
	for _, bc := range b.backend.Buttons() {
		b.buttons[strings.ToLower(bc.Name)] = bc
	}

	b.mask = 0
	b.frames = nil
	b.frameCount = 0
	b.running = true

	if opts.SaveStatePath != "" {
		if err := b.LoadStateFrom(opts.SaveStatePath); err != nil {
			// a stale or missing state should not kill the boot:
			log.Printf("%s: start: %v\n", b.name, err)
		}
	}

	return b.RunSeconds(opts.WarmupSeconds)
}

func (b *Base) Stop(saveStatePath string) error {
	if err := b.assertRunning(); err != nil {
		return err
	}

	if saveStatePath != "" {
		if err := b.SaveStateTo(saveStatePath); err != nil {
			log.Printf("%s: stop: %v\n", b.name, err)
		}
	}

	err := b.backend.Shutdown()
	b.running = false
	b.frames = nil
	b.frameCount = 0
	if err != nil {
		return fmt.Errorf("%s: stop: %w", b.name, err)
	}
	return nil
}

func (b *Base) ButtonNames() []string {
	names := make([]string, 0, len(b.buttons))
	for name := range b.buttons {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (b *Base) button(name string) (ButtonCode, error) {
	bc, ok := b.buttons[strings.ToLower(name)]
	if !ok {
		log.Printf("%s: unrecognized button %q\n", b.name, name)
		return ButtonCode{}, &ButtonError{Name: name}
	}
	return bc, nil
}

func (b *Base) PressButton(name string) error {
	if err := b.assertRunning(); err != nil {
		return err
	}
	bc, err := b.button(name)
	if err != nil {
		return err
	}

	log.Printf("%s: pressing button %s\n", b.name, bc.Name)
	b.mask |= 1 << uint(bc.Bit)
	b.backend.SetButtons(b.mask)
	if err := b.RunFrames(pressFrames); err != nil {
		return err
	}

	log.Printf("%s: releasing button %s\n", b.name, bc.Name)
	b.mask &^= 1 << uint(bc.Bit)
	b.backend.SetButtons(b.mask)
	return b.RunSeconds(settleSeconds)
}

func (b *Base) HoldButton(name string, seconds float64) error {
	if err := b.assertRunning(); err != nil {
		return err
	}
	if seconds < 0 {
		return fmt.Errorf("%s: hold seconds must be 0 or more", b.name)
	}
	bc, err := b.button(name)
	if err != nil {
		return err
	}

	log.Printf("%s: holding button %s for %.2fs\n", b.name, bc.Name, seconds)
	b.mask |= 1 << uint(bc.Bit)
	b.backend.SetButtons(b.mask)
	if err := b.RunSeconds(seconds); err != nil {
		return err
	}

	log.Printf("%s: releasing button %s\n", b.name, bc.Name)
	b.mask &^= 1 << uint(bc.Bit)
	b.backend.SetButtons(b.mask)
	return b.RunSeconds(settleSeconds)
}

func (b *Base) RunFrames(n int) error {
	if n < 0 {
		return fmt.Errorf("%s: frame count must be 0 or more", b.name)
	}
	if err := b.assertRunning(); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		b.backend.StepFrame()
		b.frameCount++
		if b.frameCount%captureEvery == 0 {
			b.frames = append(b.frames, b.backend.Screenshot())
		}
	}
	return nil
}

func (b *Base) RunSeconds(seconds float64) error {
	if seconds < 0 {
		return fmt.Errorf("%s: seconds must be 0 or more", b.name)
	}
	if err := b.assertRunning(); err != nil {
		return err
	}
	return b.RunFrames(int(math.Ceil(seconds * float64(b.fps))))
}

func (b *Base) MakeGIF(w io.Writer) error {
	if err := b.assertRunning(); err != nil {
		return err
	}
	if len(b.frames) == 0 {
		return ErrNoFrames
	}

	// per-frame delay in 100ths of a second:
	delay := captureEvery * 100 / b.fps
	if delay < 2 {
		delay = 2
	}

	err := EncodeGIF(w, b.frames, delay, gifScale)
	b.frames = nil
	return err
}

func (b *Base) SaveStateTo(path string) error {
	if err := b.assertRunning(); err != nil {
		return err
	}
	data, err := b.backend.Serialize()
	if err != nil {
		return fmt.Errorf("%s: save state: %w", b.name, err)
	}
	if err = os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%s: save state: %w", b.name, err)
	}
	log.Printf("%s: saved state to '%s'\n", b.name, path)
	return nil
}

func (b *Base) LoadStateFrom(path string) error {
	if err := b.assertRunning(); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s: load state: %w", b.name, err)
	}
	if err = b.backend.Deserialize(data); err != nil {
		return fmt.Errorf("%s: load state: %w", b.name, err)
	}
	log.Printf("%s: loaded state from '%s'\n", b.name, path)
	return nil
}
