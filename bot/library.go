package bot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Library maps the on-disk ROM and save layout:
//
//	<root>/gb/boots/<bootROM>
//	<root>/gb/games/<gameROM>
//	<root>/gb/saves/<def>/auto/<timestamp>.state
//	<root>/gb/saves/<def>/named/<name>.state
//	<root>/gb/saves/<def>/screen_shots/<timestamp>.gif
//	<root>/gb/saves/<def>/battery.sav
//
// Path helpers never check for existence; EnsureDefDirs creates the
// per-definition tree.
type Library struct {
	root string
}

const stateExt = ".state"

func (l Library) Root() string  { return l.root }
func (l Library) GBDir() string { return filepath.Join(l.root, "gb") }

func (l Library) BootsDir() string { return filepath.Join(l.GBDir(), "boots") }
func (l Library) GamesDir() string { return filepath.Join(l.GBDir(), "games") }
func (l Library) SavesDir() string { return filepath.Join(l.GBDir(), "saves") }

func (l Library) DefDir(def string) string { return filepath.Join(l.SavesDir(), def) }

func (l Library) BootROMPath(name string) string { return filepath.Join(l.BootsDir(), name) }
func (l Library) GameROMPath(name string) string { return filepath.Join(l.GamesDir(), name) }

func (l Library) AutoSaveDir(def string) string  { return filepath.Join(l.DefDir(def), "auto") }
func (l Library) NamedSaveDir(def string) string { return filepath.Join(l.DefDir(def), "named") }
func (l Library) BatteryPath(def string) string  { return filepath.Join(l.DefDir(def), "battery.sav") }

func (l Library) ScreenshotsDir(def string) string {
	return filepath.Join(l.DefDir(def), "screen_shots")
}

func (l Library) NamedSavePath(def, name string) string {
	return filepath.Join(l.NamedSaveDir(def), name+stateExt)
}

// NewAutoSavePath returns a fresh timestamped path in auto/. The
// timestamp format sorts lexically, which LatestAutoSave relies on.
func (l Library) NewAutoSavePath(def string) string {
	return filepath.Join(l.AutoSaveDir(def), time.Now().UTC().Format("20060102-150405")+stateExt)
}

func (l Library) NewScreenshotPath(def string) string {
	return filepath.Join(l.ScreenshotsDir(def), time.Now().UTC().Format("20060102-150405")+".gif")
}

// EnsureDefDirs creates the save tree for a definition.
func (l Library) EnsureDefDirs(def string) error {
	for _, dir := range []string{
		l.AutoSaveDir(def),
		l.NamedSaveDir(def),
		l.ScreenshotsDir(def),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("library: %w", err)
		}
	}
	return nil
}

// EnsureBaseDirs creates boots/, games/ and saves/ under a new root.
func (l Library) EnsureBaseDirs() error {
	for _, dir := range []string{l.BootsDir(), l.GamesDir(), l.SavesDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("library: %w", err)
		}
	}
	return nil
}

// LatestAutoSave returns the newest auto save for a definition, or ""
// when there is none yet.
func (l Library) LatestAutoSave(def string) string {
	names := stateFiles(l.AutoSaveDir(def))
	if len(names) == 0 {
		return ""
	}
	return filepath.Join(l.AutoSaveDir(def), names[len(names)-1])
}

// PruneAutoSaves deletes all but the newest keep auto saves.
func (l Library) PruneAutoSaves(def string, keep int) {
	names := stateFiles(l.AutoSaveDir(def))
	if len(names) <= keep {
		return
	}
	for _, name := range names[:len(names)-keep] {
		_ = os.Remove(filepath.Join(l.AutoSaveDir(def), name))
	}
}

func stateFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), stateExt) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// ROMsTree renders the boots/games listing shown by `setup roms`.
func (l Library) ROMsTree() string {
	var sb strings.Builder
	sb.WriteString("gb\n")
	writeDirBranch(&sb, "boots", l.BootsDir(), 1)
	writeDirBranch(&sb, "games", l.GamesDir(), 1)
	return sb.String()
}

// SavesTree renders the auto/named listing shown by `saves list`.
func (l Library) SavesTree(defs []string) string {
	var sb strings.Builder
	sb.WriteString("gb\n")
	for _, def := range defs {
		fmt.Fprintf(&sb, "|__ %s\n", def)
		writeDirBranch(&sb, "auto", l.AutoSaveDir(def), 2)
		writeDirBranch(&sb, "named", l.NamedSaveDir(def), 2)
	}
	return sb.String()
}

func writeDirBranch(sb *strings.Builder, label, dir string, depth int) {
	indent := strings.Repeat("\t", depth-1)
	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Fprintf(sb, "%s|__ %s (missing)\n", indent, label)
		return
	}
	fmt.Fprintf(sb, "%s|__ %s\n", indent, label)
	if len(entries) == 0 {
		fmt.Fprintf(sb, "%s\t|__ <NOTHING>\n", indent)
		return
	}
	for _, e := range entries {
		fmt.Fprintf(sb, "%s\t|__ %s\n", indent, e.Name())
	}
}
