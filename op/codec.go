package op

import (
	"encoding/binary"
	"fmt"
)

var Endian = binary.BigEndian

// CellSize is the encoded size of one instruction in bytes:
// opcode, a-mode, b-mode, one reserved byte, then both operands as int32.
const CellSize = 12

// Encode writes the instruction into buf, which must be at least
// CellSize bytes long.
func (ins Instruction) Encode(buf []byte) {
	buf[0] = byte(ins.Op)
	buf[1] = byte(ins.AMode)
	buf[2] = byte(ins.BMode)
	buf[3] = 0
	Endian.PutUint32(buf[4:], uint32(ins.A))
	Endian.PutUint32(buf[8:], uint32(ins.B))
}

// DecodeInstruction decodes one cell from buf.
func DecodeInstruction(buf []byte) (Instruction, error) {
	if len(buf) < CellSize {
		return Instruction{}, fmt.Errorf("short cell: %d bytes, need %d", len(buf), CellSize)
	}
	ins := Instruction{
		Op:    Code(buf[0]),
		AMode: Mode(buf[1]),
		BMode: Mode(buf[2]),
		A:     int32(Endian.Uint32(buf[4:])),
		B:     int32(Endian.Uint32(buf[8:])),
	}
	if err := ins.Validate(); err != nil {
		return Instruction{}, err
	}
	return ins, nil
}

// EncodeProgram serializes a whole instruction sequence.
func EncodeProgram(prog []Instruction) []byte {
	out := make([]byte, len(prog)*CellSize)
	for i, ins := range prog {
		ins.Encode(out[i*CellSize:])
	}
	return out
}

// DecodeProgram deserializes and validates a whole instruction sequence.
// Every instruction is checked up front so a bad program is rejected
// before it ever reaches an arena.
func DecodeProgram(data []byte) ([]Instruction, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty program")
	}
	if len(data)%CellSize != 0 {
		return nil, fmt.Errorf("program size %d is not a multiple of the cell size %d", len(data), CellSize)
	}
	out := make([]Instruction, 0, len(data)/CellSize)
	for i := 0; i < len(data); i += CellSize {
		ins, err := DecodeInstruction(data[i:])
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i/CellSize, err)
		}
		out = append(out, ins)
	}
	return out, nil
}
