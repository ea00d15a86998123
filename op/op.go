// Package op defines the arena instruction set: opcodes, addressing
// modes, program limits and the binary cell encoding.
package op

import (
	"fmt"
	"strings"
)

// Engine defaults. All of them are per-competition configuration,
// these are only the values used when the caller doesn't say otherwise.
const (
	MemSize       = 8 * 1024 // Default arena size, in cells.
	MaxProgramLen = 256      // Maximum instructions per warrior.
	MinSeparation = 100      // Default minimum gap between placements, in cells.
	MaxCycles     = 80_000   // Default scheduler-round cap per battle.
)

// Code enum type.
type Code byte

// Code values.
const (
	Dat Code = iota // Data cell, kills the process executing it.
	Mov
	Add
	Sub
	Mul
	Jmp
	Jmz
	Jmn
	Djn
	Seq
	Sne
	Slt
	Spl
	Nop

	codeCount
)

// OpCode is the definition of instructions.
type OpCode struct {
	Name    string
	Code    Code
	Params  int // Number of meaningful operands.
	Comment string
}

var OpCodeTable = []OpCode{
	{"dat", Dat, 1, "data, executing it is death"},
	{"mov", Mov, 2, "copy cell (or immediate into b-field)"},
	{"add", Add, 2, "add fields of a into b"},
	{"sub", Sub, 2, "subtract fields of a from b"},
	{"mul", Mul, 2, "multiply fields of a into b"},
	{"jmp", Jmp, 1, "jump to a"},
	{"jmz", Jmz, 2, "jump to a if b is zero"},
	{"jmn", Jmn, 2, "jump to a if b is not zero"},
	{"djn", Djn, 2, "decrement b, jump to a if not zero"},
	{"seq", Seq, 2, "skip next if a equals b"},
	{"sne", Sne, 2, "skip next if a differs from b"},
	{"slt", Slt, 2, "skip next if a is less than b"},
	{"spl", Spl, 1, "spawn a new process at a"},
	{"nop", Nop, 0, "do nothing"},
}

// Lookup returns the opcode definition for the given code.
func (c Code) Lookup() (OpCode, bool) {
	if int(c) >= len(OpCodeTable) {
		return OpCode{}, false
	}
	return OpCodeTable[c], true
}

func (c Code) String() string {
	oc, ok := c.Lookup()
	if !ok {
		return fmt.Sprintf("op(%d)", byte(c))
	}
	return oc.Name
}

// LookupName returns the opcode definition for the given mnemonic.
func LookupName(name string) (OpCode, bool) {
	name = strings.ToLower(name)
	for _, elem := range OpCodeTable {
		if elem.Name == name {
			return elem, true
		}
	}
	return OpCode{}, false
}

// Valid reports whether the code is part of the instruction set.
func (c Code) Valid() bool { return c < codeCount }

// Mode enum type. Addressing mode of one operand.
type Mode byte

// Mode values.
const (
	Immediate Mode = iota // '#': the operand value itself.
	Direct                // '$': address relative to the current cell.
	Indirect              // '@': the target's b-field is a second relative hop.
	PreDec                // '<': indirect, target's b-field decremented before use.
	PostInc               // '>': indirect, target's b-field incremented after use.

	modeCount
)

// Valid reports whether the mode is defined.
func (m Mode) Valid() bool { return m < modeCount }

// Prefix returns the source-form sigil for the mode.
func (m Mode) Prefix() byte {
	switch m {
	case Immediate:
		return '#'
	case Direct:
		return '$'
	case Indirect:
		return '@'
	case PreDec:
		return '<'
	case PostInc:
		return '>'
	default:
		return '?'
	}
}

func (m Mode) String() string {
	switch m {
	case Immediate:
		return "immediate"
	case Direct:
		return "direct"
	case Indirect:
		return "indirect"
	case PreDec:
		return "predec"
	case PostInc:
		return "postinc"
	default:
		return "unknown mode"
	}
}

// ParseMode maps a sigil back to its mode.
func ParseMode(b byte) (Mode, bool) {
	switch b {
	case '#':
		return Immediate, true
	case '$':
		return Direct, true
	case '@':
		return Indirect, true
	case '<':
		return PreDec, true
	case '>':
		return PostInc, true
	default:
		return 0, false
	}
}

// Instruction is one decoded arena cell.
type Instruction struct {
	Op    Code
	AMode Mode
	A     int32
	BMode Mode
	B     int32
}

func (ins Instruction) String() string {
	return fmt.Sprintf("%s %c%d, %c%d",
		ins.Op, ins.AMode.Prefix(), ins.A, ins.BMode.Prefix(), ins.B)
}

// Validate checks that the instruction is decodable by the interpreter.
func (ins Instruction) Validate() error {
	if !ins.Op.Valid() {
		return fmt.Errorf("invalid opcode 0x%02x", byte(ins.Op))
	}
	if !ins.AMode.Valid() {
		return fmt.Errorf("invalid a-mode 0x%02x for %q", byte(ins.AMode), ins.Op)
	}
	if !ins.BMode.Valid() {
		return fmt.Errorf("invalid b-mode 0x%02x for %q", byte(ins.BMode), ins.Op)
	}
	return nil
}
