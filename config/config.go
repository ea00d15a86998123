// Package config loads engine defaults from YAML. Search order:
// explicit path, then ~/.melee/config.yaml, then the embedded default.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"go.creack.net/melee/engine"
	"go.creack.net/melee/tournament"
)

//go:embed default.yaml
var defaultYAML []byte

// Config mirrors engine.Config plus the score policy, in file form.
type Config struct {
	ArenaSize             int   `yaml:"arena_size"`
	MaxCycles             int   `yaml:"max_cycles"`
	MinSeparation         int   `yaml:"min_separation"`
	BattlesPerCombination int   `yaml:"battles_per_combination"`
	CombinationSize       int   `yaml:"combination_size"`
	Parallelism           int   `yaml:"parallelism"`
	Seed                  int64 `yaml:"seed"`

	Score struct {
		WinPoints      float64 `yaml:"win_points"`
		SurvivalPoints float64 `yaml:"survival_points"`
		DrawPoints     float64 `yaml:"draw_points"`
		RankPoints     float64 `yaml:"rank_points"`
	} `yaml:"score"`
}

// Load reads the configuration. An empty path falls through the search
// order; a set path is required to exist.
func Load(path string) (Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		return cfg, nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		if data, err := os.ReadFile(filepath.Join(home, ".melee", "config.yaml")); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return cfg, fmt.Errorf("parse embedded default config: %w", err)
	}
	return cfg, nil
}

// Engine converts the file form into an engine configuration.
func (c Config) Engine() engine.Config {
	return engine.Config{
		BattlesPerCombination: c.BattlesPerCombination,
		CombinationSize:       c.CombinationSize,
		ArenaSize:             c.ArenaSize,
		MaxCycles:             c.MaxCycles,
		MinSeparation:         c.MinSeparation,
		Parallelism:           c.Parallelism,
		Seed:                  c.Seed,
		Policy: tournament.ScorePolicy{
			WinPoints:      c.Score.WinPoints,
			SurvivalPoints: c.Score.SurvivalPoints,
			DrawPoints:     c.Score.DrawPoints,
			RankPoints:     c.Score.RankPoints,
		},
	}
}
