package vm

import (
	"fmt"
	"sort"
)

// Outcome enum type. Terminal state of one battle.
type Outcome int

// Outcome values.
const (
	OutcomeSingleSurvivor Outcome = iota // Exactly one warrior still has processes.
	OutcomeDraw                          // Everyone died, the last deaths in the same round.
	OutcomeCycleCap                      // Cap reached with two or more warriors live.
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSingleSurvivor:
		return "single survivor"
	case OutcomeDraw:
		return "draw"
	case OutcomeCycleCap:
		return "cycle cap reached"
	default:
		return "unknown outcome"
	}
}

// Config holds the per-battle parameters. Zero values fall back to the
// op package defaults.
type Config struct {
	ArenaSize     int // Size of the arena, in cells.
	MaxCycles     int // Scheduler-round cap.
	MinSeparation int // Minimum gap between two placements, in cells.
}

// Placement pins one warrior at one arena offset.
type Placement struct {
	Warrior *Warrior
	Offset  int
}

// slot is the battle-scoped state of one warrior: its FIFO process
// queue, oldest process first. The slot index doubles as the owner tag
// in the arena.
type slot struct {
	id      int
	warrior *Warrior
	procs   []*Process
	faults  int
}

// Battle runs the scheduler+interpreter loop over a fixed set of
// placed warriors. Strictly sequential: determinism requires a single
// total order over process steps.
type Battle struct {
	cfg   Config
	arena Arena
	slots []*slot

	round      int
	nextPID    int
	eliminated []*Warrior

	// Trace, when set, receives battle events. Called synchronously
	// from the battle loop, keep it cheap.
	Trace func(Event)
}

// NewBattle allocates a fresh arena, copies every participant in at
// its offset and creates one process per warrior.
func NewBattle(cfg Config, placements []Placement) (*Battle, error) {
	if cfg.ArenaSize <= 0 || cfg.MaxCycles <= 0 {
		return nil, fmt.Errorf("arena size and cycle cap must be positive, got %d/%d", cfg.ArenaSize, cfg.MaxCycles)
	}
	if len(placements) == 0 {
		return nil, fmt.Errorf("no participants")
	}
	if err := validatePlacements(cfg, placements); err != nil {
		return nil, err
	}

	b := &Battle{cfg: cfg, arena: NewArena(cfg.ArenaSize), nextPID: 1}
	for i, pl := range placements {
		b.arena.Place(pl.Warrior.Code, pl.Offset, i)
		s := &slot{id: i, warrior: pl.Warrior}
		s.procs = append(s.procs, &Process{ID: b.nextPID, PC: b.arena.Norm(pl.Offset)})
		b.nextPID++
		b.slots = append(b.slots, s)
	}
	return b, nil
}

// validatePlacements checks that every placement interval, padded by
// the minimum separation, fits the circular arena without overlap.
func validatePlacements(cfg Config, placements []Placement) error {
	total := 0
	for _, pl := range placements {
		total += len(pl.Warrior.Code) + cfg.MinSeparation
	}
	if total > cfg.ArenaSize {
		return fmt.Errorf("arena size %d cannot hold %d warriors with separation %d (need %d)",
			cfg.ArenaSize, len(placements), cfg.MinSeparation, total)
	}

	type span struct {
		start, length int
	}
	spans := make([]span, 0, len(placements))
	for _, pl := range placements {
		start := pl.Offset % cfg.ArenaSize
		if start < 0 {
			start += cfg.ArenaSize
		}
		spans = append(spans, span{start: start, length: len(pl.Warrior.Code)})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	for i, s := range spans {
		next := spans[(i+1)%len(spans)]
		gap := next.start - s.start
		if i == len(spans)-1 {
			gap += cfg.ArenaSize
		}
		if gap < s.length+cfg.MinSeparation {
			return fmt.Errorf("placements at %d and %d are %d cells apart, need %d",
				s.start, next.start, gap, s.length+cfg.MinSeparation)
		}
	}
	return nil
}

func (b *Battle) liveCount() int {
	n := 0
	for _, s := range b.slots {
		if len(s.procs) > 0 {
			n++
		}
	}
	return n
}

// Step runs one scheduling round: exactly one process per live
// warrior, visiting warriors in insertion order rotated by one
// position each round so nobody always moves first. Returns false once
// the battle is decided or the cycle cap is reached.
func (b *Battle) Step() bool {
	if b.round >= b.cfg.MaxCycles || b.liveCount() <= 1 {
		return false
	}

	n := len(b.slots)
	start := b.round % n
	for i := range n {
		s := b.slots[(start+i)%n]
		if len(s.procs) == 0 {
			continue
		}
		b.stepSlot(s)
	}
	b.round++

	return b.round < b.cfg.MaxCycles && b.liveCount() > 1
}

// stepSlot executes the oldest process of one warrior. A continuing
// process goes to the back of the queue; a spawned process goes behind
// it, so it only runs on a later round.
func (b *Battle) stepSlot(s *slot) {
	p := s.procs[0]
	s.procs = s.procs[1:]

	outcome, next, spawn := exec(b.arena, p, s.id)
	switch outcome {
	case outcomeContinue:
		p.PC = next
		s.procs = append(s.procs, p)

	case outcomeSpawn:
		p.PC = next
		s.procs = append(s.procs, p)
		np := &Process{ID: b.nextPID, PC: spawn}
		b.nextPID++
		s.procs = append(s.procs, np)
		b.emit(EventSpawn, s.warrior.Name, spawn, fmt.Sprintf("process %d spawned %d", p.ID, np.ID))

	case outcomeTerminate, outcomeFault:
		if outcome == outcomeFault {
			s.faults++
			b.emit(EventFault, s.warrior.Name, p.PC, fmt.Sprintf("process %d faulted", p.ID))
		} else {
			b.emit(EventDeath, s.warrior.Name, p.PC, fmt.Sprintf("process %d died", p.ID))
		}
		if len(s.procs) == 0 {
			b.eliminated = append(b.eliminated, s.warrior)
			b.emit(EventEliminated, s.warrior.Name, p.PC, fmt.Sprintf("warrior %q eliminated", s.warrior.Name))
		}
	}
}

// Result is the adjudicated outcome of a finished battle.
type Result struct {
	Outcome    Outcome
	Rounds     int
	Survivors  []*Warrior // Slot order. One for a win, several at the cap.
	Eliminated []*Warrior // Elimination order, earliest death first.
	Faults     int
	Checksum   uint64 // Final arena state hash, for reproducibility checks.
}

// Run drives the battle to its terminal state.
func (b *Battle) Run() Result {
	for b.Step() {
	}
	res := Result{
		Rounds:     b.round,
		Eliminated: append([]*Warrior(nil), b.eliminated...),
		Checksum:   b.arena.Checksum(),
	}
	for _, s := range b.slots {
		res.Faults += s.faults
		if len(s.procs) > 0 {
			res.Survivors = append(res.Survivors, s.warrior)
		}
	}
	switch len(res.Survivors) {
	case 0:
		res.Outcome = OutcomeDraw
	case 1:
		res.Outcome = OutcomeSingleSurvivor
	default:
		res.Outcome = OutcomeCycleCap
	}
	b.emit(EventBattleOver, "", 0, res.Outcome.String())
	return res
}

// Accessors for viewers.

func (b *Battle) Arena() Arena { return b.arena }

func (b *Battle) Round() int { return b.round }

// Warriors returns the participants in slot order; the index is the
// owner tag used in arena cells.
func (b *Battle) Warriors() []*Warrior {
	out := make([]*Warrior, len(b.slots))
	for i, s := range b.slots {
		out[i] = s.warrior
	}
	return out
}

// ProcessView is a read-only snapshot of one live process.
type ProcessView struct {
	Owner   int
	Warrior string
	PC      int
}

func (b *Battle) Processes() []ProcessView {
	var out []ProcessView
	for _, s := range b.slots {
		for _, p := range s.procs {
			out = append(out, ProcessView{Owner: s.id, Warrior: s.warrior.Name, PC: p.PC})
		}
	}
	return out
}
