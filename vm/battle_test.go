package vm

import (
	"testing"

	"go.creack.net/melee/op"
)

func mustWarrior(t *testing.T, name string, code ...op.Instruction) *Warrior {
	t.Helper()
	w, err := NewWarrior(name, code)
	if err != nil {
		t.Fatalf("NewWarrior(%q): %s", name, err)
	}
	return w
}

// imp copies itself one cell forward, forever.
func imp(t *testing.T, name string) *Warrior {
	return mustWarrior(t, name, ins(op.Mov, op.Direct, 0, op.Direct, 1))
}

// dwarf bombs every 4th cell with dat.
func dwarf(t *testing.T, name string) *Warrior {
	return mustWarrior(t, name,
		ins(op.Add, op.Immediate, 4, op.Direct, 3),
		ins(op.Mov, op.Direct, 2, op.Indirect, 2),
		ins(op.Jmp, op.Direct, -2, op.Immediate, 0),
		ins(op.Dat, op.Immediate, 0, op.Immediate, 0),
	)
}

func TestWarriorValidation(t *testing.T) {
	if _, err := NewWarrior("", []op.Instruction{{Op: op.Nop}}); err == nil {
		t.Error("nameless warrior accepted")
	}
	if _, err := NewWarrior("empty", nil); err == nil {
		t.Error("empty warrior accepted")
	}
	long := make([]op.Instruction, op.MaxProgramLen+1)
	if _, err := NewWarrior("long", long); err == nil {
		t.Error("oversized warrior accepted")
	}
	bad := []op.Instruction{{Op: op.Code(0xee)}}
	if _, err := NewWarrior("bad", bad); err == nil {
		t.Error("invalid opcode accepted")
	}
}

func TestPlacementValidation(t *testing.T) {
	cfg := Config{ArenaSize: 100, MaxCycles: 10, MinSeparation: 40}
	a, b := imp(t, "a"), imp(t, "b")

	if _, err := NewBattle(cfg, []Placement{{a, 0}, {b, 50}}); err != nil {
		t.Errorf("valid placement rejected: %s", err)
	}
	if _, err := NewBattle(cfg, []Placement{{a, 0}, {b, 20}}); err == nil {
		t.Error("placements 20 apart accepted with separation 40")
	}
	// Wrap gap too small: 90 -> 0 is only 10 cells.
	if _, err := NewBattle(cfg, []Placement{{a, 0}, {b, 90}}); err == nil {
		t.Error("wrapping overlap accepted")
	}
	// Arena too small for three padded programs.
	c := imp(t, "c")
	if _, err := NewBattle(cfg, []Placement{{a, 0}, {b, 33}, {c, 66}}); err == nil {
		t.Error("overfull arena accepted")
	}
}

func TestBattleDeterminism(t *testing.T) {
	run := func() Result {
		b, err := NewBattle(Config{ArenaSize: 800, MaxCycles: 5000, MinSeparation: 50},
			[]Placement{{imp(t, "imp"), 10}, {dwarf(t, "dwarf"), 410}})
		if err != nil {
			t.Fatal(err)
		}
		return b.Run()
	}
	r1, r2 := run(), run()
	if r1.Checksum != r2.Checksum {
		t.Errorf("arena checksums differ: %x vs %x", r1.Checksum, r2.Checksum)
	}
	if r1.Rounds != r2.Rounds || r1.Outcome != r2.Outcome {
		t.Errorf("outcomes differ: %d/%s vs %d/%s", r1.Rounds, r1.Outcome, r2.Rounds, r2.Outcome)
	}
	if len(r1.Eliminated) != len(r2.Eliminated) {
		t.Fatalf("elimination orders differ in length")
	}
	for i := range r1.Eliminated {
		if r1.Eliminated[i].Name != r2.Eliminated[i].Name {
			t.Errorf("elimination order differs at %d: %q vs %q",
				i, r1.Eliminated[i].Name, r2.Eliminated[i].Name)
		}
	}
}

// Two imps placed 50 apart in a 100-cell arena never catch each other:
// the battle runs to the cap with both as joint survivors.
func TestTwoImpsReachCycleCap(t *testing.T) {
	b, err := NewBattle(Config{ArenaSize: 100, MaxCycles: 1000, MinSeparation: 30},
		[]Placement{{imp(t, "left"), 0}, {imp(t, "right"), 50}})
	if err != nil {
		t.Fatal(err)
	}
	res := b.Run()
	if res.Outcome != OutcomeCycleCap {
		t.Fatalf("outcome = %s, want %s", res.Outcome, OutcomeCycleCap)
	}
	if res.Rounds != 1000 {
		t.Errorf("rounds = %d, want 1000", res.Rounds)
	}
	if len(res.Survivors) != 2 {
		t.Errorf("survivors = %d, want 2", len(res.Survivors))
	}
}

// A warrior that faults on its first instruction loses immediately to
// any opponent with a live process.
func TestImmediateFaultLoses(t *testing.T) {
	crasher := mustWarrior(t, "crasher", ins(op.Jmp, op.Immediate, 0, op.Immediate, 0))
	b, err := NewBattle(Config{ArenaSize: 200, MaxCycles: 1000, MinSeparation: 50},
		[]Placement{{crasher, 0}, {imp(t, "imp"), 100}})
	if err != nil {
		t.Fatal(err)
	}
	res := b.Run()
	if res.Outcome != OutcomeSingleSurvivor {
		t.Fatalf("outcome = %s, want %s", res.Outcome, OutcomeSingleSurvivor)
	}
	if res.Rounds != 1 {
		t.Errorf("rounds = %d, want 1", res.Rounds)
	}
	if len(res.Survivors) != 1 || res.Survivors[0].Name != "imp" {
		t.Fatalf("survivors = %v", res.Survivors)
	}
	if len(res.Eliminated) != 1 || res.Eliminated[0].Name != "crasher" {
		t.Errorf("eliminated = %v", res.Eliminated)
	}
	if res.Faults != 1 {
		t.Errorf("faults = %d, want 1", res.Faults)
	}
}

// Mutual elimination within the same round is the only way to a draw.
func TestDrawOnMutualElimination(t *testing.T) {
	die := mustWarrior(t, "a", ins(op.Dat, op.Immediate, 0, op.Immediate, 0))
	die2 := mustWarrior(t, "b", ins(op.Dat, op.Immediate, 0, op.Immediate, 0))
	b, err := NewBattle(Config{ArenaSize: 100, MaxCycles: 100, MinSeparation: 10},
		[]Placement{{die, 0}, {die2, 50}})
	if err != nil {
		t.Fatal(err)
	}
	res := b.Run()
	if res.Outcome != OutcomeDraw {
		t.Fatalf("outcome = %s, want %s", res.Outcome, OutcomeDraw)
	}
	if len(res.Survivors) != 0 || len(res.Eliminated) != 2 {
		t.Errorf("survivors=%d eliminated=%d", len(res.Survivors), len(res.Eliminated))
	}
}

// One warrior dying a round before the other is a win, not a draw.
func TestNoDrawAcrossRounds(t *testing.T) {
	fast := mustWarrior(t, "fast", ins(op.Dat, op.Immediate, 0, op.Immediate, 0))
	slow := mustWarrior(t, "slow",
		ins(op.Nop, op.Immediate, 0, op.Immediate, 0),
		ins(op.Dat, op.Immediate, 0, op.Immediate, 0),
	)
	b, err := NewBattle(Config{ArenaSize: 100, MaxCycles: 100, MinSeparation: 10},
		[]Placement{{fast, 0}, {slow, 50}})
	if err != nil {
		t.Fatal(err)
	}
	res := b.Run()
	if res.Outcome != OutcomeSingleSurvivor {
		t.Fatalf("outcome = %s, want %s", res.Outcome, OutcomeSingleSurvivor)
	}
	if res.Survivors[0].Name != "slow" {
		t.Errorf("survivor = %q, want slow", res.Survivors[0].Name)
	}
}

// Spawned processes join the back of their warrior's queue and only
// run on a later round; the queue is FIFO across rounds.
func TestSplQueueOrdering(t *testing.T) {
	splitter := mustWarrior(t, "splitter",
		ins(op.Spl, op.Direct, 2, op.Immediate, 0),
		ins(op.Jmp, op.Direct, 0, op.Immediate, 0),
		ins(op.Jmp, op.Direct, 0, op.Immediate, 0),
	)
	lone := imp(t, "imp")
	b, err := NewBattle(Config{ArenaSize: 100, MaxCycles: 100, MinSeparation: 10},
		[]Placement{{splitter, 0}, {lone, 50}})
	if err != nil {
		t.Fatal(err)
	}

	b.Step()
	procs := b.Processes()
	var split []ProcessView
	for _, pv := range procs {
		if pv.Warrior == "splitter" {
			split = append(split, pv)
		}
	}
	if len(split) != 2 {
		t.Fatalf("splitter has %d processes after round 1, want 2", len(split))
	}
	// Original first (now at 1), spawn behind it (still at 2).
	if split[0].PC != 1 || split[1].PC != 2 {
		t.Errorf("queue = [%d %d], want [1 2]", split[0].PC, split[1].PC)
	}

	// Round 2: only the original moves (jmp in place), spawn still unexecuted.
	b.Step()
	procs = b.Processes()
	split = split[:0]
	for _, pv := range procs {
		if pv.Warrior == "splitter" {
			split = append(split, pv)
		}
	}
	if split[0].PC != 2 || split[1].PC != 1 {
		t.Errorf("after round 2 queue = [%d %d], want [2 1]", split[0].PC, split[1].PC)
	}
}

func TestEventTrace(t *testing.T) {
	crasher := mustWarrior(t, "crasher", ins(op.Jmp, op.Immediate, 0, op.Immediate, 0))
	b, err := NewBattle(Config{ArenaSize: 100, MaxCycles: 10, MinSeparation: 10},
		[]Placement{{crasher, 0}, {imp(t, "imp"), 50}})
	if err != nil {
		t.Fatal(err)
	}
	var types []EventType
	b.Trace = func(e Event) { types = append(types, e.Type) }
	b.Run()

	want := []EventType{EventFault, EventEliminated, EventBattleOver}
	if len(types) != len(want) {
		t.Fatalf("events = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("events = %v, want %v", types, want)
		}
	}
}
