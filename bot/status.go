package bot

import (
	"sort"
	"time"

	"gbplay/emu"
	"gbplay/interfaces"
)

// StatusViewModel is what the web panel renders.
type StatusViewModel struct {
	Definitions []DefinitionStatus `json:"definitions"`
	Channels    []ChannelStatus    `json:"channels"`
	Drivers     []DriverStatus     `json:"drivers"`
}

type DefinitionStatus struct {
	Name      string    `json:"name"`
	BootROM   string    `json:"bootRom,omitempty"`
	GameROM   string    `json:"gameRom"`
	AutoStart bool      `json:"autoStart"`
	Running   bool      `json:"running"`
	StartedAt time.Time `json:"startedAt,omitempty"`
}

type ChannelStatus struct {
	ChannelID  string `json:"channelId"`
	Definition string `json:"definition"`
}

type DriverStatus struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Selected    bool   `json:"selected"`
}

func (b *Bot) statusViewModel() StatusViewModel {
	b.cfgLock.Lock()
	defs := append([]GameDef(nil), b.cfg.GameDefs...)
	regs := append([]ChannelReg(nil), b.cfg.RegisteredChannels...)
	auto := make(map[string]bool, len(b.cfg.AutoStart))
	for _, name := range b.cfg.AutoStart {
		auto[name] = true
	}
	b.cfgLock.Unlock()

	vm := StatusViewModel{}
	for _, def := range defs {
		ds := DefinitionStatus{
			Name:      def.Name,
			BootROM:   def.BootROM,
			GameROM:   def.GameROM,
			AutoStart: auto[def.Name],
		}
		if inst, ok := b.instance(def.Name); ok {
			ds.Running = true
			ds.StartedAt = inst.StartedAt
		}
		vm.Definitions = append(vm.Definitions, ds)
	}
	sort.Slice(vm.Definitions, func(i, j int) bool {
		return vm.Definitions[i].Name < vm.Definitions[j].Name
	})

	for _, reg := range regs {
		vm.Channels = append(vm.Channels, ChannelStatus{
			ChannelID:  reg.ChannelID,
			Definition: reg.Definition,
		})
	}

	for _, d := range emu.Drivers() {
		vm.Drivers = append(vm.Drivers, DriverStatus{
			Name:        d.Name,
			DisplayName: d.Driver.DisplayName(),
			Selected:    d.Name == b.driver,
		})
	}

	return vm
}

// pushStatus publishes a fresh status view model to the attached
// notifier, if any.
func (b *Bot) pushStatus() {
	if b.notifier == nil {
		return
	}
	b.notifier.NotifyView("status", b.statusViewModel())
}

// NotifyViewTo replays current state to a single notifier, used when a
// web socket connects after the fact.
func (b *Bot) NotifyViewTo(viewNotifier interfaces.ViewNotifier) {
	viewNotifier.NotifyView("status", b.statusViewModel())
}

// LatestScreenshot returns the last GIF captured for a definition.
func (b *Bot) LatestScreenshot(definition string) ([]byte, bool) {
	inst, ok := b.instance(definition)
	if !ok {
		return nil, false
	}
	data := inst.LastGIF()
	return data, data != nil
}
