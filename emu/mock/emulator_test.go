package mock

import (
	"bytes"
	"path/filepath"
	"testing"

	"gbplay/emu"
)

func openMock(t *testing.T) *Emulator {
	t.Helper()
	e, err := emu.Open("mock")
	if err != nil {
		t.Fatal(err)
	}
	return e.(*Emulator)
}

func TestLifecycle(t *testing.T) {
	e := openMock(t)

	if err := e.Start(emu.StartOptions{WarmupSeconds: 1}); err != nil {
		t.Fatal(err)
	}
	if e.Frame() != 60 {
		t.Fatalf("warmup left frame at %d, want 60", e.Frame())
	}

	names := e.ButtonNames()
	if len(names) != 8 {
		t.Fatalf("button names %v", names)
	}

	if err := e.PressButton("start"); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := e.MakeGIF(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 {
		t.Fatal("gif is empty")
	}

	if err := e.Stop(""); err != nil {
		t.Fatal(err)
	}
}

func TestStateRoundtrip(t *testing.T) {
	e := openMock(t)
	if err := e.Start(emu.StartOptions{}); err != nil {
		t.Fatal(err)
	}

	if err := e.RunFrames(42); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "mock.state")
	if err := e.SaveStateTo(path); err != nil {
		t.Fatal(err)
	}

	if err := e.RunFrames(100); err != nil {
		t.Fatal(err)
	}
	if err := e.LoadStateFrom(path); err != nil {
		t.Fatal(err)
	}
	if e.Frame() != 42 {
		t.Fatalf("restored frame %d, want 42", e.Frame())
	}

	if err := e.Deserialize([]byte{1, 2, 3}); err == nil {
		t.Fatal("short state accepted")
	}
}

func TestStateLoadedOnStart(t *testing.T) {
	e := openMock(t)
	if err := e.Start(emu.StartOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := e.RunFrames(7); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "auto.state")
	if err := e.Stop(path); err != nil {
		t.Fatal(err)
	}

	e2 := openMock(t)
	if err := e2.Start(emu.StartOptions{SaveStatePath: path}); err != nil {
		t.Fatal(err)
	}
	if e2.Frame() != 7 {
		t.Fatalf("restored frame %d, want 7", e2.Frame())
	}
}
