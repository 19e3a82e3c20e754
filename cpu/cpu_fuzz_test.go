package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzDecode(f *testing.F) {
	f.Add(uint16(0x0000))
	f.Add(uint16(0x00E0))
	f.Add(uint16(0x1234))
	f.Add(uint16(0xDEAD))
	f.Add(uint16(0xFFFF))

	f.Fuzz(func(t *testing.T, raw uint16) {
		assert := assert.New(t)

		op := Decode(raw)
		assert.Equal(raw, op.Raw)
		assert.Equal(uint8(raw>>12), op.Class)
		assert.Equal(raw&0x0FFF, op.Addr)
		assert.Equal(uint8(op.Addr), op.Byte)

		recombined := uint16(op.RegX)<<8 | uint16(op.RegY)<<4 | uint16(op.Nibble)
		assert.Equal(op.Addr, recombined)

		assert.NotEmpty(op.String())
	})
}

// FuzzExecute checks the dispatcher and the disassembler agree on
// which words are valid: on a freshly reset machine, executing a word
// fails with the unknown-opcode error exactly when it renders as
// UNKNOWN.
func FuzzExecute(f *testing.F) {
	seeds := []uint16{
		0x0000, 0x00E0, 0x00EE, 0x1234, 0x2345, 0x5120, 0x5121,
		0x8124, 0x8128, 0x9121, 0xD125, 0xE19E, 0xE1AA, 0xF00A,
		0xF155, 0xF6FF, 0xFFFF,
	}
	for _, raw := range seeds {
		f.Add(raw)
	}

	f.Fuzz(func(t *testing.T, raw uint16) {
		assert := assert.New(t)

		cpu := NewCpu()
		cpu.Seed(1)

		op := Decode(raw)
		err := cpu.Execute(op)

		if strings.HasPrefix(op.String(), "UNKNOWN") {
			assert.ErrorIs(err, ErrUnknownOp{}, op.String())
		} else {
			assert.NoError(err, op.String())
		}

		// Skipping instead must never fail.
		cpu.Reset()
		cpu.SkipUnknown = true
		assert.NoError(cpu.Execute(op), op.String())
	})
}
