package bot

import (
	"fmt"
	"os"
	"strings"

	"github.com/bwmarrin/discordgo"

	"gbplay/emu"
)

// defaultButtons lets the mini-language parser recognize input even when
// no instance is running, so the user gets "not running" rather than
// silence.
var defaultButtons = map[string]bool{
	"up": true, "down": true, "left": true, "right": true,
	"a": true, "b": true, "select": true, "start": true,
}

func (b *Bot) dispatchCommand(m *discordgo.MessageCreate, cmd string) {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		b.cmdHelp(m)
		return
	}

	group, args := fields[0], fields[1:]
	switch group {
	case "guild":
		b.cmdGuild(m, args)
	case "setup":
		if !b.isOwner(m) {
			return
		}
		b.cmdSetup(m, args)
	case "saves":
		if !b.isOwner(m) {
			return
		}
		b.cmdSaves(m, args)
	case "help":
		b.cmdHelp(m)
	default:
		b.replyEmbed(m.ChannelID, "Unknown Command",
			codeBlock(fmt.Sprintf("%q is not a command group; try %s help", group, b.prefix)), false)
	}
}

func (b *Bot) isOwner(m *discordgo.MessageCreate) bool {
	return b.ownerID != "" && m.Author.ID == b.ownerID
}

func (b *Bot) cmdHelp(m *discordgo.MessageCreate) {
	help := strings.Join([]string{
		"guild register <def> | unregister",
		"setup set <name> <bootROM|-> <gameROM>",
		"setup del <name> | defs | roms",
		"setup start <def> | stop <def>",
		"setup autostart [add|del <def>]",
		"setup localpath [path]",
		"saves list [def] | save <def> <name> | load <def> <name>",
		"",
		"in a registered channel: a | press a | hold b 1.5 | a, up, start",
	}, "\n")
	b.replyEmbed(m.ChannelID, "Commands", codeBlock(help), true)
}

// ---- guild ----

func (b *Bot) cmdGuild(m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		b.replyEmbed(m.ChannelID, "Guild Commands", codeBlock("register <def>\nunregister"), true)
		return
	}
	switch args[0] {
	case "register":
		if len(args) != 2 {
			b.replyEmbed(m.ChannelID, "Usage", codeBlock("guild register <def>"), false)
			return
		}
		b.guildRegister(m, args[1])
	case "unregister":
		b.guildUnregister(m)
	default:
		b.replyEmbed(m.ChannelID, "Unknown Guild Command", codeBlock(args[0]), false)
	}
}

func (b *Bot) guildRegister(m *discordgo.MessageCreate, defName string) {
	b.cfgLock.Lock()

	if _, ok := b.definition(defName); !ok {
		b.cfgLock.Unlock()
		b.replyEmbed(m.ChannelID, "Improper Definition Name",
			codeBlock(fmt.Sprintf("%s does not exist", defName)), false)
		return
	}

	// one definition per channel:
	if existing, ok := b.channelDefinition(m.ChannelID); ok {
		b.cfgLock.Unlock()
		b.replyEmbed(m.ChannelID, "Channel Already Registered",
			codeBlock(fmt.Sprintf("This channel is already registered to %q", existing)), false)
		return
	}

	b.cfg.RegisteredChannels = append(b.cfg.RegisteredChannels, ChannelReg{
		ChannelID:  m.ChannelID,
		Definition: defName,
	})
	b.saveConfigurationLocked()
	b.cfgLock.Unlock()

	b.pushStatus()
	b.replyEmbed(m.ChannelID, "Channel Registered",
		codeBlock(fmt.Sprintf("Registered this channel to %q", defName)), true)
}

func (b *Bot) guildUnregister(m *discordgo.MessageCreate) {
	b.cfgLock.Lock()

	defName, ok := b.channelDefinition(m.ChannelID)
	if !ok {
		b.cfgLock.Unlock()
		b.replyEmbed(m.ChannelID, "Channel Not Registered",
			codeBlock("This channel isn't registered to anything"), false)
		return
	}

	regs := b.cfg.RegisteredChannels[:0]
	for _, reg := range b.cfg.RegisteredChannels {
		if reg.ChannelID != m.ChannelID {
			regs = append(regs, reg)
		}
	}
	b.cfg.RegisteredChannels = regs
	b.saveConfigurationLocked()
	b.cfgLock.Unlock()

	b.pushStatus()
	b.replyEmbed(m.ChannelID, "Channel Unregistered",
		codeBlock(fmt.Sprintf("This channel has been unregistered from %q", defName)), true)
}

// ---- button input ----

func (b *Bot) handleButtonMessage(m *discordgo.MessageCreate) {
	b.cfgLock.Lock()
	defName, registered := b.channelDefinition(m.ChannelID)
	b.cfgLock.Unlock()
	if !registered {
		return
	}

	inst, running := b.instance(defName)
	buttons := defaultButtons
	if running {
		buttons = inst.buttons
	}

	inputs, ok := parseInputs(m.Content, buttons)
	if !ok {
		// ordinary chat; leave it alone
		return
	}

	if !running {
		b.replyEmbed(m.ChannelID, "Instance Not Running",
			codeBlock(fmt.Sprintf("%s has no instance running", defName)), false)
		return
	}

	cmds := make([]emu.Command, 0, len(inputs))
	for _, in := range inputs {
		if in.Hold {
			cmds = append(cmds, &emu.HoldCommand{Button: in.Button, Seconds: in.Seconds})
		} else {
			cmds = append(cmds, &emu.PressCommand{Button: in.Button})
		}
	}
	if err := b.enqueueWait(inst, cmds...); err != nil {
		b.replyEmbed(m.ChannelID, "Input Failed", codeBlock(err.Error()), false)
		return
	}

	gifData, err := b.captureGIF(inst, captureSeconds)
	if err != nil {
		b.replyEmbed(m.ChannelID, "Capture Failed", codeBlock(err.Error()), false)
		return
	}
	b.replyGIF(m.ChannelID, "", describeInputs(inputs), gifData)
}

func describeInputs(inputs []Input) string {
	parts := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if in.Hold {
			parts = append(parts, fmt.Sprintf("hold %s %.3gs", in.Button, in.Seconds))
		} else {
			parts = append(parts, in.Button)
		}
	}
	return strings.Join(parts, ", ")
}

// ---- setup ----

func (b *Bot) cmdSetup(m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		b.cmdHelp(m)
		return
	}
	switch args[0] {
	case "set":
		if len(args) != 4 {
			b.replyEmbed(m.ChannelID, "Usage", codeBlock("setup set <name> <bootROM|-> <gameROM>"), false)
			return
		}
		b.setupSet(m, args[1], args[2], args[3])
	case "del":
		if len(args) != 2 {
			b.replyEmbed(m.ChannelID, "Usage", codeBlock("setup del <name>"), false)
			return
		}
		b.setupDelete(m, args[1])
	case "defs", "definitions":
		b.setupDefinitions(m)
	case "roms":
		b.setupROMs(m)
	case "start":
		if len(args) != 2 {
			b.replyEmbed(m.ChannelID, "Usage", codeBlock("setup start <def>"), false)
			return
		}
		b.setupStart(m, args[1])
	case "stop":
		if len(args) != 2 {
			b.replyEmbed(m.ChannelID, "Usage", codeBlock("setup stop <def>"), false)
			return
		}
		b.setupStop(m, args[1])
	case "autostart":
		b.setupAutoStart(m, args[1:])
	case "localpath":
		switch len(args) {
		case 1:
			b.setupLocalPath(m, "")
		case 2:
			b.setupLocalPath(m, args[1])
		default:
			b.replyEmbed(m.ChannelID, "Usage", codeBlock("setup localpath [path]"), false)
		}
	default:
		b.replyEmbed(m.ChannelID, "Unknown Setup Command", codeBlock(args[0]), false)
	}
}

func (b *Bot) setupSet(m *discordgo.MessageCreate, name, bootROM, gameROM string) {
	b.cfgLock.Lock()

	if bootROM == "-" {
		bootROM = ""
	}

	if bootROM != "" {
		if _, err := os.Stat(b.lib.BootROMPath(bootROM)); err != nil {
			b.cfgLock.Unlock()
			b.replyEmbed(m.ChannelID, "Invalid Boot ROM",
				codeBlock(fmt.Sprintf("%s does not exist", bootROM)), false)
			return
		}
	}
	if _, err := os.Stat(b.lib.GameROMPath(gameROM)); err != nil {
		b.cfgLock.Unlock()
		b.replyEmbed(m.ChannelID, "Invalid Game ROM",
			codeBlock(fmt.Sprintf("%s does not exist", gameROM)), false)
		return
	}
	if _, ok := b.definition(name); ok {
		b.cfgLock.Unlock()
		b.replyEmbed(m.ChannelID, "Name Conflict",
			codeBlock(fmt.Sprintf("%s already exists as a name", name)), false)
		return
	}

	b.cfg.GameDefs = append(b.cfg.GameDefs, GameDef{Name: name, BootROM: bootROM, GameROM: gameROM})
	b.saveConfigurationLocked()
	b.cfgLock.Unlock()

	b.pushStatus()
	b.replyEmbed(m.ChannelID, "Saved Definition",
		codeBlock(fmt.Sprintf("%s was saved successfully", name)), true)
}

func (b *Bot) setupDelete(m *discordgo.MessageCreate, name string) {
	if _, running := b.instance(name); running {
		b.replyEmbed(m.ChannelID, "Instance Running",
			codeBlock(fmt.Sprintf("Stop %s before deleting it", name)), false)
		return
	}

	b.cfgLock.Lock()

	if _, ok := b.definition(name); !ok {
		b.cfgLock.Unlock()
		b.replyEmbed(m.ChannelID, "No Such Definition",
			codeBlock(fmt.Sprintf("%s does not exist", name)), false)
		return
	}

	defs := b.cfg.GameDefs[:0]
	for _, def := range b.cfg.GameDefs {
		if def.Name != name {
			defs = append(defs, def)
		}
	}
	b.cfg.GameDefs = defs
	// note: no files or folders are deleted
	b.saveConfigurationLocked()
	b.cfgLock.Unlock()

	b.pushStatus()
	b.replyEmbed(m.ChannelID, "Deletion Successful",
		codeBlock(fmt.Sprintf("%s has been deleted", name)), true)
}

func (b *Bot) setupDefinitions(m *discordgo.MessageCreate) {
	b.cfgLock.Lock()
	var sb strings.Builder
	for _, def := range b.cfg.GameDefs {
		fmt.Fprintf(&sb, "%s:\n", def.Name)
		boot := def.BootROM
		if boot == "" {
			boot = "<none>"
		}
		fmt.Fprintf(&sb, "\t|__ Boot ROM: %s\n", boot)
		fmt.Fprintf(&sb, "\t|__ Game ROM: %s\n", def.GameROM)
	}
	b.cfgLock.Unlock()

	list := sb.String()
	if list == "" {
		list = "NONE"
	}
	b.replyEmbed(m.ChannelID, "Defined Games", codeBlock(list), true)
}

func (b *Bot) setupROMs(m *discordgo.MessageCreate) {
	b.cfgLock.Lock()
	tree := b.lib.ROMsTree()
	b.cfgLock.Unlock()
	b.replyEmbed(m.ChannelID, "Available ROMs", codeBlock(tree), true)
}

func (b *Bot) setupStart(m *discordgo.MessageCreate, defName string) {
	b.cfgLock.Lock()
	def, ok := b.definition(defName)
	b.cfgLock.Unlock()
	if !ok {
		b.replyEmbed(m.ChannelID, "Improper Definition Name",
			codeBlock(fmt.Sprintf("%s does not exist", defName)), false)
		return
	}

	inst, err := b.startInstance(def)
	if err != nil {
		b.replyEmbed(m.ChannelID, "Could Not Start", codeBlock(err.Error()), false)
		return
	}
	b.pushStatus()

	gifData, err := b.captureGIF(inst, 0)
	if err != nil {
		b.replyEmbed(m.ChannelID, "Capture Failed", codeBlock(err.Error()), false)
		return
	}
	b.announce(defName, "Instance Started", fmt.Sprintf("Started %q", defName), gifData)
	b.replyEmbed(m.ChannelID, "Instance Started",
		codeBlock(fmt.Sprintf("%s is running", defName)), true)
}

func (b *Bot) setupStop(m *discordgo.MessageCreate, defName string) {
	if err := b.stopInstance(defName); err != nil {
		b.replyEmbed(m.ChannelID, "Instance Not Running", codeBlock(err.Error()), false)
		return
	}
	b.pushStatus()
	b.replyEmbed(m.ChannelID, "Instance Stopped",
		codeBlock(fmt.Sprintf("%s has been stopped", defName)), true)
}

func (b *Bot) setupAutoStart(m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		b.cfgLock.Lock()
		list := strings.Join(b.cfg.AutoStart, "\n")
		b.cfgLock.Unlock()
		if list == "" {
			list = "NONE"
		}
		b.replyEmbed(m.ChannelID, "Auto-Start Games", codeBlock(list), true)
		return
	}
	if len(args) != 2 {
		b.replyEmbed(m.ChannelID, "Usage", codeBlock("setup autostart [add|del <def>]"), false)
		return
	}

	name := args[1]
	switch args[0] {
	case "add":
		b.cfgLock.Lock()
		if _, ok := b.definition(name); !ok {
			b.cfgLock.Unlock()
			b.replyEmbed(m.ChannelID, "Improper Definition Name",
				codeBlock(fmt.Sprintf("%s does not exist", name)), false)
			return
		}
		if b.isAutoStart(name) {
			b.cfgLock.Unlock()
			b.replyEmbed(m.ChannelID, "Already Auto-Start",
				codeBlock(fmt.Sprintf("%s is already set to auto-start", name)), false)
			return
		}
		b.cfg.AutoStart = append(b.cfg.AutoStart, name)
		b.saveConfigurationLocked()
		b.cfgLock.Unlock()

		b.pushStatus()
		b.replyEmbed(m.ChannelID, "Auto-Start Added", codeBlock(name), true)
	case "del":
		b.cfgLock.Lock()
		names := b.cfg.AutoStart[:0]
		for _, n := range b.cfg.AutoStart {
			if n != name {
				names = append(names, n)
			}
		}
		b.cfg.AutoStart = names
		b.saveConfigurationLocked()
		b.cfgLock.Unlock()

		b.pushStatus()
		b.replyEmbed(m.ChannelID, "Auto-Start Removed", codeBlock(name), true)
	default:
		b.replyEmbed(m.ChannelID, "Usage", codeBlock("setup autostart [add|del <def>]"), false)
	}
}

// setupLocalPath points the library at a directory. Called bare it
// resets to the default library/ directory next to the state file,
// creating it if needed; an explicit path must already exist.
func (b *Bot) setupLocalPath(m *discordgo.MessageCreate, path string) {
	if path == "" {
		path = b.defaultLibraryRoot()
		if err := os.MkdirAll(path, 0755); err != nil {
			b.replyEmbed(m.ChannelID, "Invalid Environment", codeBlock(err.Error()), false)
			return
		}
	} else if info, err := os.Stat(path); err != nil || !info.IsDir() {
		b.replyEmbed(m.ChannelID, "Invalid Path",
			codeBlock(fmt.Sprintf("%s does not seem like a valid directory", path)), false)
		return
	}

	b.cfgLock.Lock()
	b.cfg.LibraryPath = path
	b.lib = Library{root: path}
	if err := b.lib.EnsureBaseDirs(); err != nil {
		b.cfgLock.Unlock()
		b.replyEmbed(m.ChannelID, "Invalid Environment", codeBlock(err.Error()), false)
		return
	}
	b.saveConfigurationLocked()
	b.cfgLock.Unlock()

	b.replyEmbed(m.ChannelID, "Setting Changed",
		codeBlock(fmt.Sprintf("The ROMs path location has been set to %s", path)), true)
}

// ---- saves ----

func (b *Bot) cmdSaves(m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		b.replyEmbed(m.ChannelID, "Saves Commands",
			codeBlock("list [def]\nsave <def> <name>\nload <def> <name>"), true)
		return
	}
	switch args[0] {
	case "list":
		only := ""
		if len(args) > 1 {
			only = args[1]
		}
		b.savesList(m, only)
	case "save":
		if len(args) != 3 {
			b.replyEmbed(m.ChannelID, "Usage", codeBlock("saves save <def> <name>"), false)
			return
		}
		b.savesSave(m, args[1], args[2])
	case "load":
		if len(args) != 3 {
			b.replyEmbed(m.ChannelID, "Usage", codeBlock("saves load <def> <name>"), false)
			return
		}
		b.savesLoad(m, args[1], args[2])
	default:
		b.replyEmbed(m.ChannelID, "Unknown Saves Command", codeBlock(args[0]), false)
	}
}

func (b *Bot) savesList(m *discordgo.MessageCreate, only string) {
	b.cfgLock.Lock()
	var defs []string
	for _, def := range b.cfg.GameDefs {
		if only == "" || def.Name == only {
			defs = append(defs, def.Name)
		}
	}
	tree := b.lib.SavesTree(defs)
	b.cfgLock.Unlock()

	b.replyEmbed(m.ChannelID, "Save Files", codeBlock(tree), true)
}

// validSaveName rejects anything that could escape the named/ directory.
func validSaveName(name string) bool {
	return name != "" && !strings.ContainsAny(name, `/\.`)
}

func (b *Bot) savesSave(m *discordgo.MessageCreate, defName, saveName string) {
	if !validSaveName(saveName) {
		b.replyEmbed(m.ChannelID, "Invalid Save Name", codeBlock(saveName), false)
		return
	}
	inst, ok := b.instance(defName)
	if !ok {
		b.replyEmbed(m.ChannelID, "Instance Not Running",
			codeBlock(fmt.Sprintf("%s has no instance running", defName)), false)
		return
	}

	path := b.lib.NamedSavePath(defName, saveName)
	if err := b.enqueueWait(inst, &emu.SaveStateCommand{Path: path}); err != nil {
		b.replyEmbed(m.ChannelID, "Save Failed", codeBlock(err.Error()), false)
		return
	}
	b.replyEmbed(m.ChannelID, "State Saved",
		codeBlock(fmt.Sprintf("Saved %s for %s", saveName, defName)), true)
}

func (b *Bot) savesLoad(m *discordgo.MessageCreate, defName, saveName string) {
	if !validSaveName(saveName) {
		b.replyEmbed(m.ChannelID, "Invalid Save Name", codeBlock(saveName), false)
		return
	}
	inst, ok := b.instance(defName)
	if !ok {
		b.replyEmbed(m.ChannelID, "Instance Not Running",
			codeBlock(fmt.Sprintf("%s has no instance running", defName)), false)
		return
	}

	path := b.lib.NamedSavePath(defName, saveName)
	if _, err := os.Stat(path); err != nil {
		b.replyEmbed(m.ChannelID, "No Such Save",
			codeBlock(fmt.Sprintf("%s does not exist for %s", saveName, defName)), false)
		return
	}

	if err := b.enqueueWait(inst, &emu.LoadStateCommand{Path: path}); err != nil {
		b.replyEmbed(m.ChannelID, "Load Failed", codeBlock(err.Error()), false)
		return
	}

	gifData, err := b.captureGIF(inst, captureSeconds)
	if err != nil {
		b.replyEmbed(m.ChannelID, "Capture Failed", codeBlock(err.Error()), false)
		return
	}
	b.replyGIF(m.ChannelID, "State Loaded",
		fmt.Sprintf("Loaded %s for %s", saveName, defName), gifData)
}
