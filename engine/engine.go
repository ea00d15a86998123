// Package engine is the outward face of the battle core: it owns the
// loaded warrior pool and exposes the four operations the surrounding
// tooling consumes: load, run a competition, read scores, reset.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.creack.net/melee/asm"
	"go.creack.net/melee/op"
	"go.creack.net/melee/tournament"
	"go.creack.net/melee/vm"
)

// Error taxonomy. Both are deterministic given their inputs and are
// reported before any battle runs; there is no fatal error path once a
// competition begins.
var (
	ErrInvalidProgram       = errors.New("invalid program")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// Option tweaks a warrior at load time.
type Option func(*vm.Warrior)

// WithTeam assigns the warrior to a named team.
func WithTeam(name string) Option {
	return func(w *vm.Warrior) { w.Team = name }
}

// AsZombie marks the warrior as a non-scoring combatant.
func AsZombie() Option {
	return func(w *vm.Warrior) { w.Zombie = true }
}

// Engine holds the loaded warrior pool. Stateless between competitions
// aside from that pool; safe for concurrent use.
type Engine struct {
	mu   sync.Mutex
	pool []*vm.Warrior
}

func New() *Engine { return &Engine{} }

// Load decodes, validates and registers an encoded warrior. Every
// instruction is validated here, never deferred to battle time.
func (e *Engine) Load(name string, code []byte, opts ...Option) (*vm.Warrior, error) {
	prog, err := op.DecodeProgram(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %s", ErrInvalidProgram, name, err)
	}
	return e.add(name, prog, opts...)
}

// LoadSource assembles and registers a warrior from source text.
// Directives in the source (.name, .team, .zombie) apply first,
// options second.
func (e *Engine) LoadSource(name, src string, opts ...Option) (*vm.Warrior, error) {
	prog, err := asm.Assemble(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %s", ErrInvalidProgram, name, err)
	}
	if prog.Name != "" {
		name = prog.Name
	}
	all := make([]Option, 0, len(opts)+2)
	if prog.Team != "" {
		all = append(all, WithTeam(prog.Team))
	}
	if prog.Zombie {
		all = append(all, AsZombie())
	}
	all = append(all, opts...)
	return e.add(name, prog.Code, all...)
}

func (e *Engine) add(name string, code []op.Instruction, opts ...Option) (*vm.Warrior, error) {
	w, err := vm.NewWarrior(name, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidProgram, err)
	}
	for _, opt := range opts {
		opt(w)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, elem := range e.pool {
		if elem.Name == w.Name {
			return nil, fmt.Errorf("%w: duplicate warrior name %q", ErrInvalidProgram, w.Name)
		}
	}
	e.pool = append(e.pool, w)
	return w, nil
}

// Warriors returns the loaded pool in load order.
func (e *Engine) Warriors() []*vm.Warrior {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*vm.Warrior(nil), e.pool...)
}

// Reset discards all loaded warriors, returning the engine to its
// initial empty condition.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pool = nil
}

// Config for one competition; zero values fall back to the op package
// defaults.
type Config struct {
	BattlesPerCombination int
	CombinationSize       int
	ArenaSize             int
	MaxCycles             int
	MinSeparation         int
	Parallelism           int
	Seed                  int64
	Policy                tournament.ScorePolicy
}

// Result wraps the final standings of one competition.
type Result struct {
	standings *tournament.Standings
}

// Scores returns per-warrior rows ordered by descending score, ties
// broken by name. Zombies never appear.
func (r *Result) Scores() []tournament.Row { return r.standings.Rows() }

// TeamScores returns per-team rows, member sum divided by team size.
func (r *Result) TeamScores() []tournament.TeamRow { return r.standings.Teams() }

// RunCompetition validates the configuration against the loaded pool
// and runs every combination the configured number of times.
func (e *Engine) RunCompetition(ctx context.Context, cfg Config) (*Result, error) {
	pool := e.Warriors()
	if err := validate(cfg, pool); err != nil {
		return nil, err
	}
	standings, err := tournament.Run(ctx, tournament.Config{
		BattlesPerCombination: cfg.BattlesPerCombination,
		CombinationSize:       cfg.CombinationSize,
		ArenaSize:             cfg.ArenaSize,
		MaxCycles:             cfg.MaxCycles,
		MinSeparation:         cfg.MinSeparation,
		Parallelism:           cfg.Parallelism,
		Seed:                  cfg.Seed,
		Policy:                cfg.Policy,
	}, pool)
	if err != nil {
		return nil, err
	}
	return &Result{standings: standings}, nil
}

// validate applies the pre-battle configuration checks: a satisfiable
// combination size and an arena big enough for the worst-case battle.
func validate(cfg Config, pool []*vm.Warrior) error {
	if len(pool) == 0 {
		return fmt.Errorf("%w: no warriors loaded", ErrInvalidConfiguration)
	}
	units := tournament.BuildUnits(pool)
	fighters := tournament.Fighters(units)
	zombies := tournament.Zombies(units)

	if cfg.CombinationSize <= 0 || cfg.CombinationSize > len(fighters) {
		return fmt.Errorf("%w: combination size %d with %d combinable units",
			ErrInvalidConfiguration, cfg.CombinationSize, len(fighters))
	}
	if cfg.BattlesPerCombination <= 0 {
		return fmt.Errorf("%w: battles per combination must be positive", ErrInvalidConfiguration)
	}

	arenaSize := cfg.ArenaSize
	if arenaSize == 0 {
		arenaSize = op.MemSize
	}
	minSep := cfg.MinSeparation
	if minSep == 0 {
		minSep = op.MinSeparation
	}

	// Worst case: the k largest units all in one battle, plus every
	// zombie, each padded by the separation.
	sizes := make([]int, 0, len(fighters))
	for _, u := range fighters {
		n := 0
		for _, w := range u.Members {
			n += len(w.Code) + minSep
		}
		sizes = append(sizes, n)
	}
	for i := range sizes {
		for j := i + 1; j < len(sizes); j++ {
			if sizes[j] > sizes[i] {
				sizes[i], sizes[j] = sizes[j], sizes[i]
			}
		}
	}
	need := 0
	for i := 0; i < cfg.CombinationSize; i++ {
		need += sizes[i]
	}
	for _, z := range zombies {
		need += len(z.Code) + minSep
	}
	if need > arenaSize {
		return fmt.Errorf("%w: arena size %d cannot hold the largest battle (need %d cells)",
			ErrInvalidConfiguration, arenaSize, need)
	}
	return nil
}
