// Package mock provides an in-process fake backend for tests and dry
// runs of the bot without a real core.
package mock

import "gbplay/emu"

const driverName = "mock"

type Driver struct{}

func (d *Driver) DisplayOrder() int {
	return 1000
}

func (d *Driver) DisplayName() string {
	return "Mock Core"
}

func (d *Driver) DisplayDescription() string {
	return "Deterministic fake core for testing"
}

func (d *Driver) Open() (emu.Emulator, error) {
	e := &Emulator{}
	e.BaseInit(driverName, e)
	return e, nil
}

func init() {
	emu.Register(driverName, &Driver{})
}
