package bot

import (
	"bytes"
	"image/gif"
	"os"
	"testing"

	"gbplay/emu"
	_ "gbplay/emu/mock"
)

func newTestBot(t *testing.T) *Bot {
	t.Helper()
	b := &Bot{
		driver:        "mock",
		instances:     make(map[string]*Instance),
		lib:           Library{root: t.TempDir()},
		warmupSeconds: 0.5,
	}
	b.cfg.LibraryPath = b.lib.Root()
	return b
}

func TestStartStopInstance(t *testing.T) {
	b := newTestBot(t)
	def := GameDef{Name: "red", GameROM: "red.gb"}

	inst, err := b.startInstance(def)
	if err != nil {
		t.Fatal(err)
	}
	if !inst.Emu.IsRunning() {
		t.Fatal("instance not running after start")
	}
	if !inst.buttons["start"] {
		t.Fatalf("button set %v", inst.buttons)
	}

	if _, err = b.startInstance(def); err == nil {
		t.Fatal("second start of the same definition succeeded")
	}

	got, ok := b.instance("red")
	if !ok || got != inst {
		t.Fatal("instance lookup failed")
	}
	if len(b.runningInstances()) != 1 {
		t.Fatal("runningInstances wrong")
	}

	if err = b.stopInstance("red"); err != nil {
		t.Fatal(err)
	}
	if _, ok = b.instance("red"); ok {
		t.Fatal("instance still in table after stop")
	}

	// stop wrote an auto save:
	if b.lib.LatestAutoSave("red") == "" {
		t.Fatal("no auto save written on stop")
	}

	if err = b.stopInstance("red"); err == nil {
		t.Fatal("second stop succeeded")
	}
}

func TestEnqueueWait(t *testing.T) {
	b := newTestBot(t)
	inst, err := b.startInstance(GameDef{Name: "red", GameROM: "red.gb"})
	if err != nil {
		t.Fatal(err)
	}
	defer b.stopInstance("red")

	if err = b.enqueueWait(inst, &emu.PressCommand{Button: "a"}, &emu.PressCommand{Button: "start"}); err != nil {
		t.Fatal(err)
	}
}

func TestCaptureGIF(t *testing.T) {
	b := newTestBot(t)
	inst, err := b.startInstance(GameDef{Name: "red", GameROM: "red.gb"})
	if err != nil {
		t.Fatal(err)
	}
	defer b.stopInstance("red")

	data, err := b.captureGIF(inst, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = gif.DecodeAll(bytes.NewReader(data)); err != nil {
		t.Fatalf("capture is not a GIF: %v", err)
	}

	if got := inst.LastGIF(); !bytes.Equal(got, data) {
		t.Fatal("LastGIF does not match the capture")
	}

	// the capture also landed in screen_shots/:
	entries, err := os.ReadDir(b.lib.ScreenshotsDir("red"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("screenshots dir: %v, %v", entries, err)
	}
}

func TestAutoSaveAll(t *testing.T) {
	b := newTestBot(t)
	if _, err := b.startInstance(GameDef{Name: "red", GameROM: "red.gb"}); err != nil {
		t.Fatal(err)
	}
	defer b.stopInstance("red")

	b.autoSaveAll()
	if b.lib.LatestAutoSave("red") == "" {
		t.Fatal("no auto save written")
	}
}

func TestLatestScreenshot(t *testing.T) {
	b := newTestBot(t)
	inst, err := b.startInstance(GameDef{Name: "red", GameROM: "red.gb"})
	if err != nil {
		t.Fatal(err)
	}
	defer b.stopInstance("red")

	if _, ok := b.LatestScreenshot("red"); ok {
		t.Fatal("screenshot before any capture")
	}
	data, err := b.captureGIF(inst, 0)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := b.LatestScreenshot("red")
	if !ok || !bytes.Equal(got, data) {
		t.Fatal("LatestScreenshot does not match the capture")
	}
	if _, ok = b.LatestScreenshot("blue"); ok {
		t.Fatal("screenshot for a definition that is not running")
	}
}
