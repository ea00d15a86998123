// Package asm assembles warrior source text into instruction
// sequences, and formats them back.
//
// The source form is line based:
//
//	; comment
//	.name  dwarf
//	.team  diggers
//	start: add #4, $3
//	       mov $2, @2
//	       jmp start
//	bomb:  dat #0, #0
//
// Operands take an optional addressing-mode sigil (# $ @ < >, direct
// by default) followed by a number or a label, with optional +/-
// offset. Labels resolve to addresses relative to the instruction
// using them.
package asm

import (
	"fmt"
	"strconv"
	"strings"

	"go.creack.net/melee/op"
)

// Program is the result of assembling one source file.
type Program struct {
	Name   string
	Team   string
	Zombie bool
	Code   []op.Instruction
}

type line struct {
	num      int // 1-based source line, for errors.
	mnemonic string
	operands []string
}

// Assemble runs the classic two passes: collect labels and directives
// first, then resolve operands.
func Assemble(src string) (*Program, error) {
	prog := &Program{}
	labels := map[string]int{}
	var lines []line

	// First pass: strip comments, record directives and labels,
	// keep the instruction lines.
	for i, raw := range strings.Split(src, "\n") {
		num := i + 1
		if idx := strings.IndexByte(raw, ';'); idx >= 0 {
			raw = raw[:idx]
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		if strings.HasPrefix(raw, ".") {
			if err := prog.directive(raw); err != nil {
				return nil, fmt.Errorf("line %d: %w", num, err)
			}
			continue
		}

		if idx := strings.IndexByte(raw, ':'); idx >= 0 {
			label := strings.TrimSpace(raw[:idx])
			if !validLabel(label) {
				return nil, fmt.Errorf("line %d: invalid label %q", num, label)
			}
			if _, ok := labels[label]; ok {
				return nil, fmt.Errorf("line %d: duplicate label %q", num, label)
			}
			labels[label] = len(lines)
			raw = strings.TrimSpace(raw[idx+1:])
			if raw == "" {
				continue // Label on its own line points at the next instruction.
			}
		}

		mnemonic, rest, _ := strings.Cut(raw, " ")
		l := line{num: num, mnemonic: strings.ToLower(mnemonic)}
		rest = strings.TrimSpace(rest)
		if rest != "" {
			for _, o := range strings.Split(rest, ",") {
				l.operands = append(l.operands, strings.TrimSpace(o))
			}
		}
		lines = append(lines, l)
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("no instructions")
	}

	// Second pass: parse operands now that every label is known.
	for cur, l := range lines {
		oc, ok := op.LookupName(l.mnemonic)
		if !ok {
			return nil, fmt.Errorf("line %d: unknown mnemonic %q", l.num, l.mnemonic)
		}
		if len(l.operands) > 2 {
			return nil, fmt.Errorf("line %d: %q takes at most 2 operands, got %d", l.num, oc.Name, len(l.operands))
		}

		ins := op.Instruction{Op: oc.Code, AMode: op.Immediate, BMode: op.Immediate}
		parseInto := func(text string, mode *op.Mode, val *int32) error {
			m, v, err := operand(text, cur, labels)
			if err != nil {
				return fmt.Errorf("line %d: %w", l.num, err)
			}
			*mode, *val = m, v
			return nil
		}

		switch len(l.operands) {
		case 0:
			if oc.Params > 0 {
				return nil, fmt.Errorf("line %d: %q needs an operand", l.num, oc.Name)
			}
		case 1:
			// A single operand fills the a-field, except for dat where
			// the meaningful field is b.
			target, targetVal := &ins.AMode, &ins.A
			if oc.Code == op.Dat {
				target, targetVal = &ins.BMode, &ins.B
			}
			if err := parseInto(l.operands[0], target, targetVal); err != nil {
				return nil, err
			}
		case 2:
			if err := parseInto(l.operands[0], &ins.AMode, &ins.A); err != nil {
				return nil, err
			}
			if err := parseInto(l.operands[1], &ins.BMode, &ins.B); err != nil {
				return nil, err
			}
		}
		prog.Code = append(prog.Code, ins)
	}

	if len(prog.Code) > op.MaxProgramLen {
		return nil, fmt.Errorf("program has %d instructions, max is %d", len(prog.Code), op.MaxProgramLen)
	}
	return prog, nil
}

func (p *Program) directive(raw string) error {
	cmd, rest, _ := strings.Cut(raw, " ")
	rest = strings.TrimSpace(rest)
	switch cmd {
	case ".name":
		if rest == "" {
			return fmt.Errorf(".name needs a value")
		}
		p.Name = rest
	case ".team":
		if rest == "" {
			return fmt.Errorf(".team needs a value")
		}
		p.Team = rest
	case ".zombie":
		p.Zombie = true
	default:
		return fmt.Errorf("unknown directive %q", cmd)
	}
	return nil
}

// operand parses one operand: optional mode sigil, then a literal or
// a label with optional +/- offset. Labels become values relative to
// the current instruction.
func operand(text string, cur int, labels map[string]int) (op.Mode, int32, error) {
	if text == "" {
		return 0, 0, fmt.Errorf("empty operand")
	}
	mode := op.Direct
	if m, ok := op.ParseMode(text[0]); ok {
		mode = m
		text = strings.TrimSpace(text[1:])
	}
	if text == "" {
		return 0, 0, fmt.Errorf("operand is only a mode sigil")
	}

	// Plain literal.
	if v, err := strconv.ParseInt(text, 10, 32); err == nil {
		return mode, int32(v), nil
	}

	// Label, with optional arithmetic: "bomb", "bomb+2", "bomb-1".
	label, offset := text, int64(0)
	if idx := strings.IndexAny(text[1:], "+-"); idx >= 0 {
		label = text[:idx+1]
		v, err := strconv.ParseInt(text[idx+1:], 10, 32)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid offset in operand %q", text)
		}
		offset = v
	}
	target, ok := labels[label]
	if !ok {
		return 0, 0, fmt.Errorf("unknown label %q", label)
	}
	return mode, int32(int64(target-cur) + offset), nil
}

func validLabel(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Format renders instructions back to canonical source, one per line.
func Format(code []op.Instruction) string {
	var sb strings.Builder
	for _, ins := range code {
		fmt.Fprintf(&sb, "%- 4s %c%d, %c%d\n",
			ins.Op, ins.AMode.Prefix(), ins.A, ins.BMode.Prefix(), ins.B)
	}
	return sb.String()
}
