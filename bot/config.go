package bot

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
)

// GameDef pairs a name with the ROMs it boots. ROM fields are file names
// inside the library's boots/ and games/ directories, not paths.
type GameDef struct {
	Name    string `json:"name"`
	BootROM string `json:"boot_rom,omitempty"`
	GameROM string `json:"game_rom"`
}

// ChannelReg registers one channel to one game definition.
type ChannelReg struct {
	ChannelID  string `json:"channel_id"`
	Definition string `json:"definition"`
}

// Config is the bot's persisted state.
type Config struct {
	LibraryPath        string       `json:"library_path"`
	GameDefs           []GameDef    `json:"game_defs"`
	RegisteredChannels []ChannelReg `json:"registered_channels"`
	AutoStart          []string     `json:"auto_start"`
}

// LoadConfiguration reads the state file. A missing file is a fresh
// install, not an error.
func (b *Bot) LoadConfiguration() bool {
	b.cfgLock.Lock()
	defer b.cfgLock.Unlock()

	data, err := os.ReadFile(b.cfgPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("bot: loadConfiguration: could not read state file: %v\n", err)
		}
		return false
	}

	var cfg Config
	if err = json.Unmarshal(data, &cfg); err != nil {
		log.Printf("bot: loadConfiguration: could not unmarshal state file: %v\n", err)
		return false
	}

	b.cfg = cfg
	b.lib = Library{root: cfg.LibraryPath}
	log.Printf("bot: loadConfiguration: loaded state from '%s'\n", b.cfgPath)
	return true
}

func (b *Bot) SaveConfiguration() bool {
	b.cfgLock.Lock()
	defer b.cfgLock.Unlock()
	return b.saveConfigurationLocked()
}

func (b *Bot) saveConfigurationLocked() bool {
	data, err := json.MarshalIndent(&b.cfg, "", "  ")
	if err != nil {
		log.Printf("bot: saveConfiguration: could not marshal state: %v\n", err)
		return false
	}

	if err = os.MkdirAll(filepath.Dir(b.cfgPath), 0755); err != nil {
		log.Printf("bot: saveConfiguration: could not make directories along '%s': %v\n", b.cfgPath, err)
	}

	if err = os.WriteFile(b.cfgPath, data, 0644); err != nil {
		log.Printf("bot: saveConfiguration: could not write state file '%s': %v\n", b.cfgPath, err)
		return false
	}
	return true
}

// defaultLibraryRoot is where the library lives until setup localpath
// points it somewhere: a library/ directory next to the state file.
func (b *Bot) defaultLibraryRoot() string {
	return filepath.Join(filepath.Dir(b.cfgPath), "library")
}

// definition returns the GameDef for name, or false.
func (b *Bot) definition(name string) (GameDef, bool) {
	for _, def := range b.cfg.GameDefs {
		if def.Name == name {
			return def, true
		}
	}
	return GameDef{}, false
}

// channelDefinition returns the definition the channel is registered to.
func (b *Bot) channelDefinition(channelID string) (string, bool) {
	for _, reg := range b.cfg.RegisteredChannels {
		if reg.ChannelID == channelID {
			return reg.Definition, true
		}
	}
	return "", false
}

// registeredChannels returns the channel ids registered to a definition.
func (b *Bot) registeredChannels(definition string) []string {
	var ids []string
	for _, reg := range b.cfg.RegisteredChannels {
		if reg.Definition == definition {
			ids = append(ids, reg.ChannelID)
		}
	}
	return ids
}

func (b *Bot) isAutoStart(definition string) bool {
	for _, name := range b.cfg.AutoStart {
		if name == definition {
			return true
		}
	}
	return false
}
