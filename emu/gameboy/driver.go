// Package gameboy adapts an external emucore Game Boy core to the emu
// contract. Everything behind emucore.Emulator - CPU, PPU, mappers,
// timing - belongs to the wrapped core.
package gameboy

import (
	"errors"

	emucore "github.com/user-none/eblitui/api"

	"gbplay/emu"
)

const driverName = "gameboy"

type Driver struct {
	factory emucore.CoreFactory
}

var drv = &Driver{}

// UseCore wires the concrete core factory. Binaries call this once at
// startup, before any Open.
func UseCore(factory emucore.CoreFactory) {
	drv.factory = factory
}

func (d *Driver) DisplayOrder() int {
	return 0
}

func (d *Driver) DisplayName() string {
	return "Game Boy"
}

func (d *Driver) DisplayDescription() string {
	return "Game Boy played through an emucore-compatible core"
}

func (d *Driver) Open() (emu.Emulator, error) {
	if d.factory == nil {
		return nil, errors.New("gameboy: no core factory wired; call gameboy.UseCore first")
	}

	e := &Emulator{
		factory: d.factory,
		info:    d.factory.SystemInfo(),
	}
	e.BaseInit(driverName, e)
	return e, nil
}

func init() {
	emu.Register(driverName, drv)
}
