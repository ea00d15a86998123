package vm

import (
	"fmt"

	"go.creack.net/melee/op"
)

// Warrior is an immutable instruction template. Per-battle placement
// and live processes are battle-scoped state, never stored here, so a
// single Warrior can be reused across many concurrent battles.
type Warrior struct {
	Name   string
	Team   string // Optional team the warrior belongs to.
	Zombie bool   // Fights but never scores.
	Code   []op.Instruction
}

// NewWarrior validates the template against the program-size limit.
func NewWarrior(name string, code []op.Instruction) (*Warrior, error) {
	if name == "" {
		return nil, fmt.Errorf("warrior needs a name")
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("warrior %q has no instructions", name)
	}
	if len(code) > op.MaxProgramLen {
		return nil, fmt.Errorf("warrior %q has %d instructions, max is %d", name, len(code), op.MaxProgramLen)
	}
	for i, ins := range code {
		if err := ins.Validate(); err != nil {
			return nil, fmt.Errorf("warrior %q instruction %d: %w", name, i, err)
		}
	}
	return &Warrior{Name: name, Code: append([]op.Instruction(nil), code...)}, nil
}

// Process is one live instruction pointer. The instruction set is
// memory-to-memory, so the pointer is the whole per-process state.
type Process struct {
	ID int
	PC int
}
