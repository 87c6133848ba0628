package emu

import "bytes"

// Command is a unit of work executed against a running instance by its
// Queue, strictly in order of arrival.
type Command interface {
	Execute(e Emulator) error
}

type Completion func(Command, error)

type CommandWithCompletion struct {
	Command    Command
	Completion Completion
}

type NoOpCommand struct{}

func (c *NoOpCommand) Execute(e Emulator) error {
	return nil
}

// PressCommand taps a button.
type PressCommand struct {
	Button string
}

func (c *PressCommand) Execute(e Emulator) error {
	return e.PressButton(c.Button)
}

// HoldCommand holds a button for a number of emulated seconds.
type HoldCommand struct {
	Button  string
	Seconds float64
}

func (c *HoldCommand) Execute(e Emulator) error {
	return e.HoldButton(c.Button, c.Seconds)
}

// RunCommand plays the game forward without any input.
type RunCommand struct {
	Seconds float64
}

func (c *RunCommand) Execute(e Emulator) error {
	return e.RunSeconds(c.Seconds)
}

// MakeGIFCommand collects the accumulated captures into Buf.
type MakeGIFCommand struct {
	Buf bytes.Buffer
}

func (c *MakeGIFCommand) Execute(e Emulator) error {
	return e.MakeGIF(&c.Buf)
}

type SaveStateCommand struct {
	Path string
}

func (c *SaveStateCommand) Execute(e Emulator) error {
	return e.SaveStateTo(c.Path)
}

type LoadStateCommand struct {
	Path string
}

func (c *LoadStateCommand) Execute(e Emulator) error {
	return e.LoadStateFrom(c.Path)
}

// StopCommand shuts the instance down and terminates its queue. When
// SaveStatePath is non-empty a state is saved first.
type StopCommand struct {
	SaveStatePath string
}

func (c *StopCommand) Execute(e Emulator) error {
	return e.Stop(c.SaveStatePath)
}
