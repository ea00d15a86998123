package asm

import (
	"strings"
	"testing"

	"go.creack.net/melee/op"
)

const dwarfSrc = `
; classic bomber
.name dwarf
.team diggers

loop:  add #4, bomb
       mov bomb, @bomb
       jmp loop
bomb:  dat #0, #0
`

func TestAssembleDwarf(t *testing.T) {
	prog, err := Assemble(dwarfSrc)
	if err != nil {
		t.Fatal(err)
	}
	if prog.Name != "dwarf" || prog.Team != "diggers" || prog.Zombie {
		t.Errorf("directives: name=%q team=%q zombie=%t", prog.Name, prog.Team, prog.Zombie)
	}
	want := []op.Instruction{
		{Op: op.Add, AMode: op.Immediate, A: 4, BMode: op.Direct, B: 3},
		{Op: op.Mov, AMode: op.Direct, A: 2, BMode: op.Indirect, B: 2},
		{Op: op.Jmp, AMode: op.Direct, A: -2, BMode: op.Immediate, B: 0},
		{Op: op.Dat, AMode: op.Immediate, A: 0, BMode: op.Immediate, B: 0},
	}
	if len(prog.Code) != len(want) {
		t.Fatalf("assembled %d instructions, want %d", len(prog.Code), len(want))
	}
	for i := range want {
		if prog.Code[i] != want[i] {
			t.Errorf("instruction %d: got %s, want %s", i, prog.Code[i], want[i])
		}
	}
}

func TestAssembleOperandForms(t *testing.T) {
	prog, err := Assemble(`
.name forms
start: mov <start+2, >start-0
       spl start
       dat 5
`)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := prog.Code[0], (op.Instruction{Op: op.Mov, AMode: op.PreDec, A: 2, BMode: op.PostInc, B: 0}); got != want {
		t.Errorf("mov: got %s, want %s", got, want)
	}
	// Single operand fills the a-field.
	if got, want := prog.Code[1], (op.Instruction{Op: op.Spl, AMode: op.Direct, A: -1, BMode: op.Immediate}); got != want {
		t.Errorf("spl: got %s, want %s", got, want)
	}
	// Except dat, where it fills b. Bare numbers are direct.
	if got, want := prog.Code[2], (op.Instruction{Op: op.Dat, AMode: op.Immediate, BMode: op.Direct, B: 5}); got != want {
		t.Errorf("dat: got %s, want %s", got, want)
	}
}

func TestAssembleZombieDirective(t *testing.T) {
	prog, err := Assemble(".name shambler\n.zombie\njmp $0")
	if err != nil {
		t.Fatal(err)
	}
	if !prog.Zombie {
		t.Error("zombie directive ignored")
	}
}

func TestAssembleErrors(t *testing.T) {
	cases := []struct {
		name, src, want string
	}{
		{"empty", "", "no instructions"},
		{"unknown mnemonic", "frob $1", "unknown mnemonic"},
		{"unknown label", "jmp nowhere", "unknown label"},
		{"duplicate label", "a: nop\na: nop", "duplicate label"},
		{"too many operands", "mov $1, $2, $3", "at most 2"},
		{"missing operand", "jmp", "needs an operand"},
		{"bad directive", ".frob x\nnop", "unknown directive"},
		{"bad label", "2a: nop", "invalid label"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Assemble(tc.src)
			if err == nil {
				t.Fatalf("no error for %q", tc.src)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not contain %q", err, tc.want)
			}
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	prog, err := Assemble(dwarfSrc)
	if err != nil {
		t.Fatal(err)
	}
	back, err := Assemble(Format(prog.Code))
	if err != nil {
		t.Fatalf("formatted output does not re-assemble: %s", err)
	}
	for i := range prog.Code {
		if back.Code[i] != prog.Code[i] {
			t.Errorf("instruction %d changed: %s vs %s", i, back.Code[i], prog.Code[i])
		}
	}
}
