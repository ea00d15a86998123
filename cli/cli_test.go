package cli

import (
	"os"
	"path/filepath"
	"testing"

	"go.creack.net/melee/engine"
	"go.creack.net/melee/op"
)

func write(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDirTeamsAndZombies(t *testing.T) {
	warriors := t.TempDir()
	zombies := t.TempDir()

	imp := []byte("mov $0, $1\n")
	write(t, warriors, "reds1.red", imp)
	write(t, warriors, "reds2.red", imp)
	write(t, warriors, "loner.red", imp)
	write(t, zombies, "shambler.red", imp)

	// One binary warrior alongside the sources.
	write(t, warriors, "binimp.cor", op.EncodeProgram([]op.Instruction{
		{Op: op.Mov, AMode: op.Direct, A: 0, BMode: op.Direct, B: 1},
	}))

	e := engine.New()
	loaded, err := LoadDir(e, warriors, zombies)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 5 {
		t.Fatalf("loaded %d warriors, want 5", len(loaded))
	}

	byName := map[string]struct {
		team   string
		zombie bool
	}{}
	for _, w := range e.Warriors() {
		byName[w.Name] = struct {
			team   string
			zombie bool
		}{w.Team, w.Zombie}
	}

	for name, want := range map[string]string{
		"reds1": "reds", "reds2": "reds", "loner": "", "binimp": "",
	} {
		got, ok := byName[name]
		if !ok {
			t.Errorf("warrior %q not loaded", name)
			continue
		}
		if got.team != want {
			t.Errorf("%s team = %q, want %q", name, got.team, want)
		}
		if got.zombie {
			t.Errorf("%s loaded as zombie", name)
		}
	}
	if got := byName["shambler"]; !got.zombie {
		t.Error("shambler not loaded as zombie")
	}
}

func TestLoadDirNoTeamForSingleDigitFile(t *testing.T) {
	warriors := t.TempDir()
	write(t, warriors, "solo1.red", []byte("mov $0, $1\n"))
	write(t, warriors, "other.red", []byte("mov $0, $1\n"))

	e := engine.New()
	if _, err := LoadDir(e, warriors, ""); err != nil {
		t.Fatal(err)
	}
	for _, w := range e.Warriors() {
		if w.Team != "" {
			t.Errorf("%s got team %q, want none", w.Name, w.Team)
		}
	}
}

func TestLoadDirErrors(t *testing.T) {
	e := engine.New()
	if _, err := LoadDir(e, filepath.Join(t.TempDir(), "missing"), ""); err == nil {
		t.Error("missing directory accepted")
	}

	dir := t.TempDir()
	write(t, dir, "broken.red", []byte("frob $1\n"))
	if _, err := LoadDir(e, dir, ""); err == nil {
		t.Error("broken source accepted")
	}
}
