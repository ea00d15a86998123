// Package vm implements the battle core: the shared circular arena,
// per-warrior process queues, the instruction interpreter and the
// round-robin scheduler that runs one battle to completion.
package vm

import (
	"hash/fnv"

	"go.creack.net/melee/op"
)

// NoOwner marks a cell nobody has written yet.
const NoOwner = -1

// Cell is one arena slot: a decoded instruction plus the id of the
// warrior that last wrote it.
type Cell struct {
	Ins   op.Instruction
	Owner int
}

// Arena is the shared circular memory. Every access goes through Norm,
// so no address is ever out of range.
type Arena []Cell

func NewArena(size int) Arena {
	a := make(Arena, size)
	for i := range a {
		a[i].Owner = NoOwner
	}
	return a
}

// Norm folds any address, negative included, into [0, len).
func (a Arena) Norm(addr int) int {
	addr %= len(a)
	if addr < 0 {
		addr += len(a)
	}
	return addr
}

func (a Arena) Read(addr int) Cell { return a[a.Norm(addr)] }

func (a Arena) Write(addr int, c Cell) { a[a.Norm(addr)] = c }

// norm32 folds an operand value into [0, len) for storage.
func (a Arena) norm32(v int32) int32 {
	v %= int32(len(a))
	if v < 0 {
		v += int32(len(a))
	}
	return v
}

// Place copies a warrior's instruction template into the arena starting
// at offset, tagging each cell. Overlapping placements silently
// overwrite; separation is the caller's responsibility.
func (a Arena) Place(prog []op.Instruction, offset, owner int) {
	for i, ins := range prog {
		a[a.Norm(offset+i)] = Cell{Ins: ins, Owner: owner}
	}
}

// Checksum hashes the full arena state. Two runs of the same battle
// must produce the same checksum.
func (a Arena) Checksum() uint64 {
	h := fnv.New64a()
	buf := make([]byte, op.CellSize)
	for _, c := range a {
		c.Ins.Encode(buf)
		h.Write(buf)
		h.Write([]byte{byte(c.Owner), byte(c.Owner >> 8)})
	}
	return h.Sum64()
}
