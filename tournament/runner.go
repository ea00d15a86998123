package tournament

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"go.creack.net/melee/op"
	"go.creack.net/melee/vm"
)

// Config drives one competition.
type Config struct {
	BattlesPerCombination int
	CombinationSize       int
	ArenaSize             int
	MaxCycles             int
	MinSeparation         int
	Parallelism           int   // Worker-pool bound for concurrent battles.
	Seed                  int64 // Placement seed, same seed same competition.

	Policy ScorePolicy
	Logger *log.Logger // Optional progress logging.
}

func (c Config) withDefaults() Config {
	if c.ArenaSize == 0 {
		c.ArenaSize = op.MemSize
	}
	if c.MaxCycles == 0 {
		c.MaxCycles = op.MaxCycles
	}
	if c.MinSeparation == 0 {
		c.MinSeparation = op.MinSeparation
	}
	if c.Parallelism <= 0 {
		c.Parallelism = 1
	}
	if c.BattlesPerCombination <= 0 {
		c.BattlesPerCombination = 1
	}
	if c.Policy == (ScorePolicy{}) {
		c.Policy = DefaultScorePolicy
	}
	return c
}

// Run enumerates every combination of CombinationSize fighter units,
// runs BattlesPerCombination battles for each on a worker pool bounded
// by Parallelism and accumulates the outcomes.
//
// Workers never touch the standings: each finished battle emits its
// point delta to a single accumulator goroutine, so final scores are
// identical for any interleaving. On context cancellation the
// standings accumulated so far are returned along with the error;
// battles already applied stay intact, battles in flight finish.
func Run(ctx context.Context, cfg Config, pool []*vm.Warrior) (*Standings, error) {
	cfg = cfg.withDefaults()

	units := BuildUnits(pool)
	fighters := Fighters(units)
	zombies := Zombies(units)
	if cfg.CombinationSize <= 0 || cfg.CombinationSize > len(fighters) {
		return nil, fmt.Errorf("combination size %d with %d combinable units", cfg.CombinationSize, len(fighters))
	}
	combos := Combinations(len(fighters), cfg.CombinationSize)

	if cfg.Logger != nil {
		cfg.Logger.Info("starting competition",
			"units", len(fighters), "zombies", len(zombies),
			"combinations", len(combos), "battles", len(combos)*cfg.BattlesPerCombination,
			"parallelism", cfg.Parallelism)
	}

	standings := NewStandings()
	deltas := make(chan delta, cfg.Parallelism)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for d := range deltas {
			standings.apply(d)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallelism)
	battleIdx := 0
	for _, combo := range combos {
		participants := expand(fighters, combo, zombies)
		for range cfg.BattlesPerCombination {
			seed := cfg.Seed + int64(battleIdx)
			battleIdx++
			g.Go(func() error {
				// A competition is only abandoned between battles,
				// never mid-battle.
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				res, err := runBattle(cfg, seed, participants)
				if err != nil {
					return err
				}
				deltas <- battleDelta(cfg.Policy, res)
				return nil
			})
		}
	}
	err := g.Wait()
	close(deltas)
	<-done

	if err != nil {
		return standings, fmt.Errorf("competition aborted: %w", err)
	}
	if cfg.Logger != nil {
		cfg.Logger.Info("competition done", "warriors", len(standings.rows))
	}
	return standings, nil
}

// expand turns one combination of fighter unit indices into the
// battle's participant list: every teammate of each selected unit,
// then every zombie. Order is deterministic.
func expand(fighters []Unit, combo []int, zombies []*vm.Warrior) []*vm.Warrior {
	var out []*vm.Warrior
	for _, i := range combo {
		out = append(out, fighters[i].Members...)
	}
	return append(out, zombies...)
}

// runBattle places the participants with a seeded source and runs one
// battle on a fresh arena.
func runBattle(cfg Config, seed int64, participants []*vm.Warrior) (vm.Result, error) {
	rng := rand.New(rand.NewSource(seed))
	offsets := placementOffsets(rng, participants, cfg.ArenaSize, cfg.MinSeparation)
	placements := make([]vm.Placement, len(participants))
	for i, w := range participants {
		placements[i] = vm.Placement{Warrior: w, Offset: offsets[i]}
	}
	b, err := vm.NewBattle(vm.Config{
		ArenaSize:     cfg.ArenaSize,
		MaxCycles:     cfg.MaxCycles,
		MinSeparation: cfg.MinSeparation,
	}, placements)
	if err != nil {
		return vm.Result{}, fmt.Errorf("battle seed %d: %w", seed, err)
	}
	return b.Run(), nil
}

// placementOffsets draws random offsets until every padded program
// interval is separated, falling back to sequential packing after a
// bounded number of attempts. The fallback places each warrior right
// after the previous one's padded interval, so it fits any pool whose
// padded lengths sum to at most the arena size.
func placementOffsets(rng *rand.Rand, participants []*vm.Warrior, arenaSize, minSep int) []int {
	offsets := make([]int, len(participants))
	for range 128 {
		for i := range offsets {
			offsets[i] = rng.Intn(arenaSize)
		}
		if separated(offsets, participants, arenaSize, minSep) {
			return offsets
		}
	}
	next := 0
	for i, w := range participants {
		offsets[i] = next
		next += len(w.Code) + minSep
	}
	return offsets
}

func separated(offsets []int, participants []*vm.Warrior, arenaSize, minSep int) bool {
	type span struct{ start, length int }
	spans := make([]span, len(offsets))
	for i := range offsets {
		spans[i] = span{start: offsets[i], length: len(participants[i].Code)}
	}
	for i := range spans {
		for j := i + 1; j < len(spans); j++ {
			a, b := spans[i], spans[j]
			if a.start > b.start {
				a, b = b, a
			}
			if b.start-a.start < a.length+minSep ||
				a.start+arenaSize-b.start < b.length+minSep {
				return false
			}
		}
	}
	return true
}
