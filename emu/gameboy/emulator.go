package gameboy

import (
	"fmt"
	"image"
	"log"
	"os"

	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/eblitui/romloader"

	"gbplay/emu"
)

// BootROMLoader is probed by type assertion on the created core, the
// same way emucore models save states and battery saves as optional
// capability interfaces.
type BootROMLoader interface {
	SetBootROM(rom []byte)
}

// Emulator is the concrete Game Boy backend. emu.Base drives it through
// the emu.Backend hooks below.
type Emulator struct {
	emu.Base

	factory emucore.CoreFactory
	info    emucore.SystemInfo

	core emucore.Emulator

	batteryPath string
}

func (e *Emulator) Boot(opts emu.StartOptions) error {
	rom, name, err := romloader.Load(opts.GameROM, e.info.Extensions)
	if err != nil {
		return fmt.Errorf("load game ROM: %w", err)
	}
	log.Printf("gameboy: loaded ROM '%s' (%d bytes)\n", name, len(rom))

	region, _ := e.factory.DetectRegion(rom)
	core, err := e.factory.CreateEmulator(rom, region)
	if err != nil {
		return fmt.Errorf("create core: %w", err)
	}

	if opts.BootROM != "" {
		boot, err := os.ReadFile(opts.BootROM)
		if err != nil {
			core.Close()
			return fmt.Errorf("load boot ROM: %w", err)
		}
		loader, ok := core.(BootROMLoader)
		if !ok {
			core.Close()
			return fmt.Errorf("core %s does not support boot ROMs", e.info.CoreName)
		}
		loader.SetBootROM(boot)
	}

	e.core = core
	e.batteryPath = opts.BatteryPath
	e.loadBattery()
	return nil
}

func (e *Emulator) Shutdown() error {
	e.saveBattery()
	e.core.Close()
	e.core = nil
	return nil
}

func (e *Emulator) StepFrame() {
	e.core.RunFrame()
}

func (e *Emulator) SetButtons(mask uint32) {
	e.core.SetInput(0, mask)
}

// Screenshot copies the core framebuffer into a standalone RGBA image.
// The core reuses its buffer between frames, so the copy is required for
// GIF accumulation.
func (e *Emulator) Screenshot() *image.RGBA {
	fb := e.core.GetFramebuffer()
	stride := e.core.GetFramebufferStride()
	w := e.info.ScreenWidth
	h := e.core.GetActiveHeight()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+w*4], fb[y*stride:y*stride+w*4])
	}
	return img
}

func (e *Emulator) Serialize() ([]byte, error) {
	ss, ok := e.core.(emucore.SaveStater)
	if !ok {
		return nil, emu.ErrNoSaveStates
	}
	return ss.Serialize()
}

func (e *Emulator) Deserialize(data []byte) error {
	ss, ok := e.core.(emucore.SaveStater)
	if !ok {
		return emu.ErrNoSaveStates
	}
	return ss.Deserialize(data)
}

func (e *Emulator) FPS() int {
	return e.core.GetTiming().FPS
}

// Buttons merges the fixed d-pad bits with the core's button table.
func (e *Emulator) Buttons() []emu.ButtonCode {
	buttons := []emu.ButtonCode{
		{Name: "Up", Bit: emucore.ButtonUp},
		{Name: "Down", Bit: emucore.ButtonDown},
		{Name: "Left", Bit: emucore.ButtonLeft},
		{Name: "Right", Bit: emucore.ButtonRight},
	}
	for _, b := range e.info.Buttons {
		buttons = append(buttons, emu.ButtonCode{Name: b.Name, Bit: b.ID})
	}
	return buttons
}

func (e *Emulator) loadBattery() {
	if e.batteryPath == "" {
		return
	}
	bs, ok := e.core.(emucore.BatterySaver)
	if !ok || !bs.HasSRAM() {
		return
	}
	data, err := os.ReadFile(e.batteryPath)
	if err != nil {
		// first boot of a battery game has no file yet
		if !os.IsNotExist(err) {
			log.Printf("gameboy: load battery: %v\n", err)
		}
		return
	}
	bs.SetSRAM(data)
	log.Printf("gameboy: loaded battery save from '%s'\n", e.batteryPath)
}

func (e *Emulator) saveBattery() {
	if e.batteryPath == "" {
		return
	}
	bs, ok := e.core.(emucore.BatterySaver)
	if !ok || !bs.HasSRAM() {
		return
	}
	if err := os.WriteFile(e.batteryPath, bs.GetSRAM(), 0644); err != nil {
		log.Printf("gameboy: save battery: %v\n", err)
		return
	}
	log.Printf("gameboy: saved battery to '%s'\n", e.batteryPath)
}
