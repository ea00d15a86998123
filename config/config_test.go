package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmbeddedDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ArenaSize != 8192 || cfg.MaxCycles != 80000 {
		t.Errorf("arena/cycles = %d/%d", cfg.ArenaSize, cfg.MaxCycles)
	}
	if cfg.Score.WinPoints != 100 || cfg.Score.DrawPoints != 5 {
		t.Errorf("score policy = %+v", cfg.Score)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := "arena_size: 512\ncombination_size: 3\nscore:\n  win_points: 7\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ArenaSize != 512 || cfg.CombinationSize != 3 || cfg.Score.WinPoints != 7 {
		t.Errorf("cfg = %+v", cfg)
	}

	ecfg := cfg.Engine()
	if ecfg.ArenaSize != 512 || ecfg.Policy.WinPoints != 7 {
		t.Errorf("engine cfg = %+v", ecfg)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing explicit config accepted")
	}
}
