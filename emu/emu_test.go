package emu

import (
	"strings"
	"testing"
)

type stubDriver struct {
	name  string
	order int
}

func (d *stubDriver) Open() (Emulator, error) { return &scriptEmulator{}, nil }
func (d *stubDriver) DisplayName() string        { return d.name }
func (d *stubDriver) DisplayDescription() string { return "stub" }
func (d *stubDriver) DisplayOrder() int          { return d.order }

func TestRegister(t *testing.T) {
	defer unregisterAllDrivers()
	unregisterAllDrivers()

	Register("one", &stubDriver{name: "One"})

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("duplicate Register did not panic")
			}
		}()
		Register("one", &stubDriver{name: "One"})
	}()

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("nil Register did not panic")
			}
		}()
		Register("nil", nil)
	}()
}

func TestDriversOrdering(t *testing.T) {
	defer unregisterAllDrivers()
	unregisterAllDrivers()

	Register("zz", &stubDriver{name: "ZZ", order: 0})
	Register("aa", &stubDriver{name: "AA", order: 10})
	Register("mm", &stubDriver{name: "MM", order: 10})

	var names []string
	for _, d := range Drivers() {
		names = append(names, d.Name)
	}
	if got := strings.Join(names, ","); got != "zz,aa,mm" {
		t.Fatalf("driver order %s, want zz,aa,mm", got)
	}
}

func TestOpenUnknown(t *testing.T) {
	defer unregisterAllDrivers()
	unregisterAllDrivers()

	if _, err := Open("nope"); err == nil {
		t.Fatal("unknown driver opened")
	}

	Register("stub", &stubDriver{name: "Stub"})
	if _, err := Open("stub"); err != nil {
		t.Fatal(err)
	}
}
