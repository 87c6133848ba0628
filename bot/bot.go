// Package bot is the Discord surface: command parsing, channel
// registration, per-game instances, and persisted state. The heavy
// lifting happens in emu; Discord specifics stay a thin binding.
package bot

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"gbplay/emu"
	"gbplay/interfaces"
)

const (
	defaultPrefix        = "!gb"
	defaultWarmupSeconds = 60
	defaultAutosaveEvery = 10 * time.Minute

	// captureSeconds of play are appended after button input before the
	// reply GIF is cut.
	captureSeconds = 3
)

type Options struct {
	// Token is the Discord bot token.
	Token string
	// Prefix starts every command message. Defaults to "!gb".
	Prefix string
	// OwnerID is the Discord user allowed to run setup/saves commands.
	OwnerID string
	// Driver is the emu driver name. Defaults to "gameboy".
	Driver string
	// StatePath is the JSON state file location.
	StatePath string
	// WarmupSeconds overrides the emulated warm-up run after boot.
	WarmupSeconds float64
	// AutosaveEvery overrides the auto-save interval.
	AutosaveEvery time.Duration
}

type Bot struct {
	session *discordgo.Session
	// sender is how replies leave; the live session in production:
	sender channelSender

	prefix  string
	ownerID string
	driver  string

	cfgPath string
	cfgLock sync.Mutex
	cfg     Config
	lib     Library

	instLock  sync.Mutex
	instances map[string]*Instance

	warmupSeconds float64
	autosaveEvery time.Duration

	// pushes status view models to the web panel, when one is attached:
	notifier interfaces.ViewNotifier

	done chan struct{}
}

var _ interfaces.StatusProvider = (*Bot)(nil)

func New(opts Options) (*Bot, error) {
	if opts.Token == "" {
		return nil, errors.New("bot: token is required")
	}
	if opts.StatePath == "" {
		return nil, errors.New("bot: state path is required")
	}

	b := &Bot{
		prefix:        opts.Prefix,
		ownerID:       opts.OwnerID,
		driver:        opts.Driver,
		cfgPath:       opts.StatePath,
		instances:     make(map[string]*Instance),
		warmupSeconds: opts.WarmupSeconds,
		autosaveEvery: opts.AutosaveEvery,
		done:          make(chan struct{}),
	}
	if b.prefix == "" {
		b.prefix = defaultPrefix
	}
	if b.driver == "" {
		b.driver = "gameboy"
	}
	if b.warmupSeconds == 0 {
		b.warmupSeconds = defaultWarmupSeconds
	}
	if b.autosaveEvery == 0 {
		b.autosaveEvery = defaultAutosaveEvery
	}

	session, err := discordgo.New("Bot " + opts.Token)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	session.AddHandler(b.onMessage)
	b.session = session
	b.sender = session

	return b, nil
}

// ProvideViewNotifier attaches the status panel.
func (b *Bot) ProvideViewNotifier(notifier interfaces.ViewNotifier) {
	b.notifier = notifier
}

// verifyDriver opens and discards one instance so a misconfigured
// driver fails at startup instead of on the first chat command. The
// gameboy driver in particular refuses until a core factory is wired.
func (b *Bot) verifyDriver() error {
	if _, err := emu.Open(b.driver); err != nil {
		return fmt.Errorf("bot: driver '%s' is not usable: %w", b.driver, err)
	}
	return nil
}

// Start connects to Discord, boots the auto-start instances, and kicks
// off the auto-save ticker.
func (b *Bot) Start() error {
	if err := b.verifyDriver(); err != nil {
		return err
	}

	b.LoadConfiguration()

	if err := b.session.Open(); err != nil {
		return err
	}

	b.cfgLock.Lock()
	autoStart := append([]string(nil), b.cfg.AutoStart...)
	b.cfgLock.Unlock()

	for _, name := range autoStart {
		b.cfgLock.Lock()
		def, ok := b.definition(name)
		b.cfgLock.Unlock()
		if !ok {
			log.Printf("bot: auto-start: definition '%s' no longer exists\n", name)
			continue
		}
		if _, err := b.startInstance(def); err != nil {
			log.Printf("bot: auto-start '%s': %v\n", name, err)
		}
	}

	go b.autosaveLoop()
	b.pushStatus()
	return nil
}

// Stop saves every running instance, disconnects, and persists state.
func (b *Bot) Stop() error {
	close(b.done)

	for _, inst := range b.runningInstances() {
		if err := b.stopInstance(inst.Def.Name); err != nil {
			log.Printf("bot: stop '%s': %v\n", inst.Def.Name, err)
		}
	}

	err := b.session.Close()
	b.SaveConfiguration()
	return err
}

func (b *Bot) autosaveLoop() {
	t := time.NewTicker(b.autosaveEvery)
	defer t.Stop()
	for {
		select {
		case <-b.done:
			return
		case <-t.C:
			b.autoSaveAll()
		}
	}
}

// onMessage routes every guild message: commands by prefix, button input
// by channel registration, everything else ignored.
func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}
	if m.GuildID == "" {
		// DMs are not a place to play
		return
	}

	content := m.Content
	if cmd, ok := trimPrefix(content, b.prefix); ok {
		b.dispatchCommand(m, cmd)
		return
	}

	b.handleButtonMessage(m)
}

func trimPrefix(content, prefix string) (string, bool) {
	if len(content) <= len(prefix) || content[:len(prefix)] != prefix {
		return "", false
	}
	rest := content[len(prefix):]
	if rest[0] != ' ' {
		return "", false
	}
	return rest[1:], true
}
