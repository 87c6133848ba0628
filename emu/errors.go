package emu

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyRunning = errors.New("emulator is already running")
	ErrNotRunning     = errors.New("emulator is not running")
	ErrNoFrames       = errors.New("no screenshot frames captured")
	ErrNoSaveStates   = errors.New("core does not support save states")
)

// ButtonError reports a button name the backend did not register.
type ButtonError struct {
	Name string
}

func (e *ButtonError) Error() string {
	return fmt.Sprintf("button %q not recognized", e.Name)
}
