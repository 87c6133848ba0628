package emu

import "io"

// ButtonCode is a named button and its bit position in the backend's
// input bitmask.
type ButtonCode struct {
	Name string
	Bit  int
}

// StartOptions carries everything needed to boot one game.
type StartOptions struct {
	// GameROM is the path of the game ROM file. Required.
	GameROM string
	// BootROM is the path of a boot ROM file, or empty for none.
	BootROM string
	// BatteryPath is where backends that support battery-backed SRAM
	// load and persist it, or empty to skip.
	BatteryPath string
	// SaveStatePath is a save state to load right after boot, or empty.
	SaveStatePath string
	// WarmupSeconds is how many emulated seconds to run after boot so
	// the first capture shows gameplay rather than a boot screen.
	// Zero runs no warm-up; negative is an error.
	WarmupSeconds float64
}

// Emulator sequences a single game over an external emulator core.
// Implementations are not safe for concurrent use; callers serialize
// access through a Queue.
type Emulator interface {
	// Start boots the game and transitions to running.
	Start(opts StartOptions) error

	// Stop shuts the core down, saving a state to saveStatePath first
	// when non-empty, and transitions to not-running.
	Stop(saveStatePath string) error

	IsRunning() bool

	// ButtonNames returns the lower-cased, sorted button names.
	ButtonNames() []string

	// PressButton taps the named button: held for two frames, released,
	// then one second of play.
	PressButton(name string) error

	// HoldButton holds the named button for the given number of emulated
	// seconds, releases it, then runs one more second of play.
	HoldButton(name string, seconds float64) error

	// RunFrames steps n frames, capturing screenshots along the way.
	RunFrames(n int) error

	// RunSeconds runs ceil(seconds * fps) frames.
	RunSeconds(seconds float64) error

	// MakeGIF encodes every screenshot captured since the last call as
	// an animated GIF and resets the accumulator.
	MakeGIF(w io.Writer) error

	// SaveStateTo writes the core's serialized state to a file. The blob
	// is opaque to this package.
	SaveStateTo(path string) error

	// LoadStateFrom restores a state previously written by SaveStateTo.
	LoadStateFrom(path string) error
}
