package vm

import "go.creack.net/melee/op"

// stepOutcome is what executing one instruction did to the process.
type stepOutcome int

const (
	outcomeContinue stepOutcome = iota // Process advances to nextPC.
	outcomeSpawn                       // Process advances, a new one starts at spawnPC.
	outcomeTerminate                   // Process dies (dat).
	outcomeFault                       // Illegal operand/opcode, process dies.
)

// resolve computes the effective address of one operand. Pre-decrement
// applies before the address is used, post-increment right after, both
// are real writes and update the cell's owner tag. For immediate mode
// there is no effective address: the operand itself is the value, which
// resolve signals with imm.
func resolve(a Arena, pc int, mode op.Mode, val int32, owner int) (addr int, imm bool) {
	switch mode {
	case op.Immediate:
		return pc, true
	case op.Direct:
		return a.Norm(pc + int(val)), false
	case op.Indirect:
		ptr := a.Norm(pc + int(val))
		return a.Norm(ptr + int(a[ptr].Ins.B)), false
	case op.PreDec:
		ptr := a.Norm(pc + int(val))
		a[ptr].Ins.B = a.norm32(a[ptr].Ins.B - 1)
		a[ptr].Owner = owner
		return a.Norm(ptr + int(a[ptr].Ins.B)), false
	case op.PostInc:
		ptr := a.Norm(pc + int(val))
		addr = a.Norm(ptr + int(a[ptr].Ins.B))
		a[ptr].Ins.B = a.norm32(a[ptr].Ins.B + 1)
		a[ptr].Owner = owner
		return addr, false
	default:
		// Unreachable for validated programs, the caller faults on it.
		return pc, true
	}
}

func opAdd(a, b int64) int64 { return a + b }
func opSub(a, b int64) int64 { return a - b }
func opMul(a, b int64) int64 { return a * b }

// exec runs the single instruction under p's pointer against the arena.
// It returns the outcome, the next address for a continuing process and
// the start address of the new process when the outcome is a spawn.
// Everything it touches is the arena cells involved and p itself.
func exec(a Arena, p *Process, owner int) (outcome stepOutcome, nextPC, spawnPC int) {
	ins := a.Read(p.PC).Ins
	next := a.Norm(p.PC + 1)

	switch ins.Op {
	case op.Dat:
		return outcomeTerminate, 0, 0

	case op.Nop:
		return outcomeContinue, next, 0

	case op.Mov:
		src, simm := resolve(a, p.PC, ins.AMode, ins.A, owner)
		dst, dimm := resolve(a, p.PC, ins.BMode, ins.B, owner)
		if dimm {
			return outcomeFault, 0, 0
		}
		if simm {
			// mov #n copies the literal into the target's b-field.
			a[dst].Ins.B = a.norm32(ins.A)
		} else {
			// Whole-cell copy. Read after operand side effects so
			// self-modification is immediately visible.
			a[dst].Ins = a[src].Ins
		}
		a[dst].Owner = owner
		return outcomeContinue, next, 0

	case op.Add, op.Sub, op.Mul:
		var operation func(a, b int64) int64
		switch ins.Op {
		case op.Add:
			operation = opAdd
		case op.Sub:
			operation = opSub
		default:
			operation = opMul
		}
		src, simm := resolve(a, p.PC, ins.AMode, ins.A, owner)
		dst, dimm := resolve(a, p.PC, ins.BMode, ins.B, owner)
		if dimm {
			return outcomeFault, 0, 0
		}
		if simm {
			a[dst].Ins.B = a.norm32(int32(operation(int64(a[dst].Ins.B), int64(ins.A)) % int64(len(a))))
		} else {
			s := a[src].Ins
			a[dst].Ins.A = a.norm32(int32(operation(int64(a[dst].Ins.A), int64(s.A)) % int64(len(a))))
			a[dst].Ins.B = a.norm32(int32(operation(int64(a[dst].Ins.B), int64(s.B)) % int64(len(a))))
		}
		a[dst].Owner = owner
		return outcomeContinue, next, 0

	case op.Jmp:
		if ins.AMode == op.Immediate {
			return outcomeFault, 0, 0
		}
		dst, _ := resolve(a, p.PC, ins.AMode, ins.A, owner)
		return outcomeContinue, dst, 0

	case op.Spl:
		if ins.AMode == op.Immediate {
			return outcomeFault, 0, 0
		}
		dst, _ := resolve(a, p.PC, ins.AMode, ins.A, owner)
		return outcomeSpawn, next, dst

	case op.Jmz, op.Jmn:
		if ins.AMode == op.Immediate {
			return outcomeFault, 0, 0
		}
		target, _ := resolve(a, p.PC, ins.AMode, ins.A, owner)
		bdst, bimm := resolve(a, p.PC, ins.BMode, ins.B, owner)
		var test int32
		if bimm {
			test = a.norm32(ins.B)
		} else {
			test = a[bdst].Ins.B
		}
		jump := test == 0
		if ins.Op == op.Jmn {
			jump = !jump
		}
		if jump {
			return outcomeContinue, target, 0
		}
		return outcomeContinue, next, 0

	case op.Djn:
		if ins.AMode == op.Immediate || ins.BMode == op.Immediate {
			return outcomeFault, 0, 0
		}
		target, _ := resolve(a, p.PC, ins.AMode, ins.A, owner)
		bdst, _ := resolve(a, p.PC, ins.BMode, ins.B, owner)
		a[bdst].Ins.B = a.norm32(a[bdst].Ins.B - 1)
		a[bdst].Owner = owner
		if a[bdst].Ins.B != 0 {
			return outcomeContinue, target, 0
		}
		return outcomeContinue, next, 0

	case op.Seq, op.Sne, op.Slt:
		src, simm := resolve(a, p.PC, ins.AMode, ins.A, owner)
		dst, dimm := resolve(a, p.PC, ins.BMode, ins.B, owner)

		var match bool
		if ins.Op == op.Slt || simm || dimm {
			// Field comparison on b-fields (the literal for immediates).
			lhs, rhs := a[src].Ins.B, a[dst].Ins.B
			if simm {
				lhs = a.norm32(ins.A)
			}
			if dimm {
				rhs = a.norm32(ins.B)
			}
			if ins.Op == op.Slt {
				match = lhs < rhs
			} else {
				match = lhs == rhs
			}
		} else {
			// Whole-cell comparison.
			match = a[src].Ins == a[dst].Ins
		}
		if ins.Op == op.Sne {
			match = !match
		}
		if match {
			// Comparisons skip the following instruction, they never branch.
			return outcomeContinue, a.Norm(p.PC + 2), 0
		}
		return outcomeContinue, next, 0

	default:
		return outcomeFault, 0, 0
	}
}
