package bot

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"gbplay/emu"
)

// autoSaveKeep is how many timestamped auto saves survive pruning.
const autoSaveKeep = 20

// Instance is one running game: its emulator and the queue that
// serializes every operation against it.
type Instance struct {
	Def       GameDef
	Emu       emu.Emulator
	Queue     *emu.Queue
	StartedAt time.Time

	buttons map[string]bool

	gifLock sync.Mutex
	lastGIF []byte
}

func (inst *Instance) setLastGIF(data []byte) {
	inst.gifLock.Lock()
	inst.lastGIF = data
	inst.gifLock.Unlock()
}

// LastGIF returns the most recent capture, or nil.
func (inst *Instance) LastGIF() []byte {
	inst.gifLock.Lock()
	defer inst.gifLock.Unlock()
	return inst.lastGIF
}

// startInstance boots a definition: ensures its save tree, loads the
// newest auto save when present, runs the warm-up, and hands the
// emulator to a fresh queue.
func (b *Bot) startInstance(def GameDef) (*Instance, error) {
	b.instLock.Lock()
	defer b.instLock.Unlock()

	if _, ok := b.instances[def.Name]; ok {
		return nil, fmt.Errorf("%s already has an instance running", def.Name)
	}

	e, err := emu.Open(b.driver)
	if err != nil {
		return nil, err
	}

	if err = b.lib.EnsureDefDirs(def.Name); err != nil {
		return nil, err
	}

	opts := emu.StartOptions{
		GameROM:       b.lib.GameROMPath(def.GameROM),
		BatteryPath:   b.lib.BatteryPath(def.Name),
		SaveStatePath: b.lib.LatestAutoSave(def.Name),
		WarmupSeconds: b.warmupSeconds,
	}
	if def.BootROM != "" {
		opts.BootROM = b.lib.BootROMPath(def.BootROM)
	}

	if err = e.Start(opts); err != nil {
		return nil, err
	}

	buttons := make(map[string]bool)
	for _, name := range e.ButtonNames() {
		buttons[name] = true
	}

	inst := &Instance{
		Def:       def,
		Emu:       e,
		Queue:     emu.NewQueue(def.Name, e),
		StartedAt: time.Now(),
		buttons:   buttons,
	}
	b.instances[def.Name] = inst
	log.Printf("bot: started instance '%s'\n", def.Name)
	return inst, nil
}

// stopInstance saves an auto state, terminates the queue, and drops the
// instance from the table.
func (b *Bot) stopInstance(def string) error {
	b.instLock.Lock()
	inst, ok := b.instances[def]
	if ok {
		delete(b.instances, def)
	}
	b.instLock.Unlock()
	if !ok {
		return fmt.Errorf("%s has no instance running", def)
	}

	err := b.enqueueWait(inst, &emu.StopCommand{SaveStatePath: b.lib.NewAutoSavePath(def)})
	b.lib.PruneAutoSaves(def, autoSaveKeep)
	log.Printf("bot: stopped instance '%s'\n", def)
	return err
}

func (b *Bot) instance(def string) (*Instance, bool) {
	b.instLock.Lock()
	defer b.instLock.Unlock()
	inst, ok := b.instances[def]
	return inst, ok
}

func (b *Bot) runningInstances() []*Instance {
	b.instLock.Lock()
	defer b.instLock.Unlock()
	insts := make([]*Instance, 0, len(b.instances))
	for _, inst := range b.instances {
		insts = append(insts, inst)
	}
	return insts
}

// enqueueWait enqueues commands and blocks until the last completes.
func (b *Bot) enqueueWait(inst *Instance, cmds ...emu.Command) error {
	done := make(chan error, 1)
	err := inst.Queue.EnqueueMulti(cmds, func(_ emu.Command, err error) {
		done <- err
	})
	if err != nil {
		return err
	}
	return <-done
}

// captureGIF plays the game forward briefly and encodes everything
// captured since the last GIF. The result is also written to the
// definition's screen_shots directory and kept for the status panel.
func (b *Bot) captureGIF(inst *Instance, extraSeconds float64) ([]byte, error) {
	gifCmd := &emu.MakeGIFCommand{}
	cmds := []emu.Command{gifCmd}
	if extraSeconds > 0 {
		cmds = []emu.Command{&emu.RunCommand{Seconds: extraSeconds}, gifCmd}
	}
	if err := b.enqueueWait(inst, cmds...); err != nil {
		return nil, err
	}

	data := gifCmd.Buf.Bytes()
	inst.setLastGIF(data)

	path := b.lib.NewScreenshotPath(inst.Def.Name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("bot: could not write screenshot '%s': %v\n", path, err)
	}
	return data, nil
}

// autoSaveAll is run by the ticker; each running instance gets a fresh
// timestamped state.
func (b *Bot) autoSaveAll() {
	for _, inst := range b.runningInstances() {
		def := inst.Def.Name
		err := b.enqueueWait(inst, &emu.SaveStateCommand{Path: b.lib.NewAutoSavePath(def)})
		if err != nil {
			log.Printf("bot: auto save '%s': %v\n", def, err)
			continue
		}
		b.lib.PruneAutoSaves(def, autoSaveKeep)
	}
}
