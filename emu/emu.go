package emu

import (
	"fmt"
	"sort"
	"sync"
)

// Driver constructs emulator instances for one backend family.
// Concrete drivers register themselves from an init() so that binaries
// choose their backends with blank imports.
type Driver interface {
	// Open creates a stopped emulator instance. ROMs are supplied later
	// via Emulator.Start.
	Open() (Emulator, error)

	DisplayName() string
	DisplayDescription() string
	DisplayOrder() int
}

type NamedDriver struct {
	Name   string
	Driver Driver
}

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Driver)
)

// Register makes a driver available by the provided name.
// If Register is called twice with the same name or if driver is nil,
// it panics.
func Register(name string, driver Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if driver == nil {
		panic("emu: Register driver is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("emu: Register called twice for driver " + name)
	}
	drivers[name] = driver
}

func unregisterAllDrivers() {
	driversMu.Lock()
	defer driversMu.Unlock()
	// For tests.
	drivers = make(map[string]Driver)
}

// Drivers returns the registered drivers ordered by DisplayOrder then name.
func Drivers() []NamedDriver {
	driversMu.RLock()
	defer driversMu.RUnlock()
	list := make([]NamedDriver, 0, len(drivers))
	for name, d := range drivers {
		list = append(list, NamedDriver{Name: name, Driver: d})
	}
	sort.Slice(list, func(i, j int) bool {
		di, dj := list[i].Driver.DisplayOrder(), list[j].Driver.DisplayOrder()
		if di != dj {
			return di < dj
		}
		return list[i].Name < list[j].Name
	})
	return list
}

// Open creates an instance using the named driver.
func Open(driverName string) (Emulator, error) {
	driversMu.RLock()
	driveri, ok := drivers[driverName]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("emu: unknown driver %q (forgotten import?)", driverName)
	}

	return driveri.Open()
}
