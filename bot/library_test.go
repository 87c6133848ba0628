package bot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLibraryPaths(t *testing.T) {
	l := Library{root: "/r"}

	tests := []struct {
		got, want string
	}{
		{l.BootROMPath("dmg.bin"), "/r/gb/boots/dmg.bin"},
		{l.GameROMPath("red.gb"), "/r/gb/games/red.gb"},
		{l.BatteryPath("red"), "/r/gb/saves/red/battery.sav"},
		{l.NamedSavePath("red", "elite4"), "/r/gb/saves/red/named/elite4.state"},
		{l.AutoSaveDir("red"), "/r/gb/saves/red/auto"},
		{l.ScreenshotsDir("red"), "/r/gb/saves/red/screen_shots"},
	}
	for _, tt := range tests {
		if tt.got != filepath.FromSlash(tt.want) {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}

	auto := l.NewAutoSavePath("red")
	if !strings.HasPrefix(auto, filepath.FromSlash("/r/gb/saves/red/auto/")) || !strings.HasSuffix(auto, ".state") {
		t.Errorf("NewAutoSavePath = %q", auto)
	}
	shot := l.NewScreenshotPath("red")
	if !strings.HasSuffix(shot, ".gif") {
		t.Errorf("NewScreenshotPath = %q", shot)
	}
}

func TestLatestAutoSave(t *testing.T) {
	l := Library{root: t.TempDir()}
	if err := l.EnsureDefDirs("red"); err != nil {
		t.Fatal(err)
	}

	if got := l.LatestAutoSave("red"); got != "" {
		t.Fatalf("latest in empty dir = %q", got)
	}

	for _, name := range []string{
		"20240101-120000.state",
		"20240301-120000.state",
		"20240201-120000.state",
		"notes.txt",
	} {
		writeFile(t, filepath.Join(l.AutoSaveDir("red"), name), "x")
	}

	got := l.LatestAutoSave("red")
	if filepath.Base(got) != "20240301-120000.state" {
		t.Fatalf("latest = %q", got)
	}
}

func TestPruneAutoSaves(t *testing.T) {
	l := Library{root: t.TempDir()}
	if err := l.EnsureDefDirs("red"); err != nil {
		t.Fatal(err)
	}

	names := []string{
		"20240101-120000.state",
		"20240102-120000.state",
		"20240103-120000.state",
		"20240104-120000.state",
	}
	for _, name := range names {
		writeFile(t, filepath.Join(l.AutoSaveDir("red"), name), "x")
	}

	l.PruneAutoSaves("red", 2)

	left := stateFiles(l.AutoSaveDir("red"))
	if len(left) != 2 || left[0] != names[2] || left[1] != names[3] {
		t.Fatalf("after prune: %v", left)
	}

	// pruning below the limit is a no-op:
	l.PruneAutoSaves("red", 10)
	if len(stateFiles(l.AutoSaveDir("red"))) != 2 {
		t.Fatal("prune below limit removed files")
	}
}

func TestROMsTree(t *testing.T) {
	l := Library{root: t.TempDir()}
	if err := l.EnsureBaseDirs(); err != nil {
		t.Fatal(err)
	}
	writeFile(t, l.GameROMPath("red.gb"), "x")

	tree := l.ROMsTree()
	if !strings.Contains(tree, "red.gb") {
		t.Fatalf("tree missing game:\n%s", tree)
	}
	// boots/ is empty:
	if !strings.Contains(tree, "<NOTHING>") {
		t.Fatalf("tree missing empty marker:\n%s", tree)
	}
}

func TestSavesTree(t *testing.T) {
	l := Library{root: t.TempDir()}
	if err := l.EnsureDefDirs("red"); err != nil {
		t.Fatal(err)
	}
	writeFile(t, l.NamedSavePath("red", "elite4"), "x")

	tree := l.SavesTree([]string{"red", "blue"})
	if !strings.Contains(tree, "elite4.state") {
		t.Fatalf("tree missing named save:\n%s", tree)
	}
	// blue has no save tree on disk:
	if !strings.Contains(tree, "(missing)") {
		t.Fatalf("tree missing missing-marker:\n%s", tree)
	}
}
