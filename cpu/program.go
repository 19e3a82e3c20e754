package cpu

import (
	"iter"
)

// Opcode represents a line of assembled code with its source location
// and emitted bytes.
type Opcode struct {
	LineNo    int      // Source line number.
	Addr      int      // Memory address of the first emitted byte.
	Words     []string // Parsed source words.
	Bytes     []byte   // Emitted bytes.
	Data      bool     // Emitted by a data directive, not an instruction.
	LinkLabel string   // Label patched into the address field at link time.
}

// Program is an assembled listing ready to load.
type Program struct {
	Opcodes []Opcode
}

// Size returns the total emitted size in bytes.
func (prog *Program) Size() (size int) {
	for _, op := range prog.Opcodes {
		size += len(op.Bytes)
	}

	return
}

// Binary returns the raw program image, loadable at the program start
// address.
func (prog *Program) Binary() (bin []byte) {
	bin = make([]byte, 0, prog.Size())
	for _, op := range prog.Opcodes {
		bin = append(bin, op.Bytes...)
	}

	return
}

// Codes iterates the assembled instruction words with their addresses,
// skipping data directives.
func (prog *Program) Codes() iter.Seq2[uint16, OpCode] {
	return func(yield func(addr uint16, op OpCode) bool) {
		for _, op := range prog.Opcodes {
			if op.Data {
				continue
			}
			raw := uint16(op.Bytes[0])<<8 | uint16(op.Bytes[1])
			if !yield(uint16(op.Addr), Decode(raw)) {
				return
			}
		}
	}
}

// Debug finds the assembled line covering a memory address.
type Debug struct {
	*Opcode
}

func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(addr) >= op.Addr && int(addr) < op.Addr+len(op.Bytes) {
			dbg = Debug{Opcode: &prog.Opcodes[n]}
			break
		}
	}

	return
}
