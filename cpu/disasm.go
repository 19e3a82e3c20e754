package cpu

import (
	"fmt"
	"io"
)

// Unknown returns the mnemonic used for instruction words the
// dispatcher rejects.
func (op OpCode) Unknown() string {
	return fmt.Sprintf("UNKNOWN: %04X", op.Raw)
}

// decode0xxx renders the 0xxx opcode class.
func (op OpCode) decode0xxx() string {
	switch op.Raw {
	case 0x00E0:
		return "CLS"
	case 0x00EE:
		return "RET"
	default:
		return fmt.Sprintf("SYS %03X", op.Addr)
	}
}

// decodeNNN renders the classes carrying a 12-bit address.
func (op OpCode) decodeNNN() string {
	switch op.Class {
	case 0x1:
		return fmt.Sprintf("JP %03X", op.Addr)
	case 0x2:
		return fmt.Sprintf("CALL %03X", op.Addr)
	case 0xA:
		return fmt.Sprintf("LD I, %03X", op.Addr)
	case 0xB:
		return fmt.Sprintf("JP V0, %03X", op.Addr)
	default:
		return op.Unknown()
	}
}

// decodeXKK renders the classes carrying a register and an 8-bit
// immediate.
func (op OpCode) decodeXKK() string {
	switch op.Class {
	case 0x3:
		return fmt.Sprintf("SE V%X, %02X", op.RegX, op.Byte)
	case 0x4:
		return fmt.Sprintf("SNE V%X, %02X", op.RegX, op.Byte)
	case 0x6:
		return fmt.Sprintf("LD V%X, %02X", op.RegX, op.Byte)
	case 0x7:
		return fmt.Sprintf("ADD V%X, %02X", op.RegX, op.Byte)
	case 0xC:
		return fmt.Sprintf("RND V%X, %02X", op.RegX, op.Byte)
	default:
		return op.Unknown()
	}
}

// decodeXY renders the classes carrying two register operands.
func (op OpCode) decodeXY() string {
	switch op.Class {
	case 0x5:
		if op.Nibble == 0x0 {
			return fmt.Sprintf("SE V%X, V%X", op.RegX, op.RegY)
		}
		return op.Unknown()
	case 0x8:
		switch op.Nibble {
		case 0x0:
			return fmt.Sprintf("LD V%X, V%X", op.RegX, op.RegY)
		case 0x1:
			return fmt.Sprintf("OR V%X, V%X", op.RegX, op.RegY)
		case 0x2:
			return fmt.Sprintf("AND V%X, V%X", op.RegX, op.RegY)
		case 0x3:
			return fmt.Sprintf("XOR V%X, V%X", op.RegX, op.RegY)
		case 0x4:
			return fmt.Sprintf("ADD V%X, V%X", op.RegX, op.RegY)
		case 0x5:
			return fmt.Sprintf("SUB V%X, V%X", op.RegX, op.RegY)
		case 0x6:
			return fmt.Sprintf("SHR V%X {, V%X}", op.RegX, op.RegY)
		case 0x7:
			return fmt.Sprintf("SUBN V%X, V%X", op.RegX, op.RegY)
		case 0xE:
			return fmt.Sprintf("SHL V%X {, V%X}", op.RegX, op.RegY)
		default:
			return op.Unknown()
		}
	case 0x9:
		if op.Nibble == 0x0 {
			return fmt.Sprintf("SNE V%X, V%X", op.RegX, op.RegY)
		}
		return op.Unknown()
	case 0xD:
		return fmt.Sprintf("DRW V%X, V%X, %02X", op.RegX, op.RegY, op.Nibble)
	default:
		return op.Unknown()
	}
}

// decodeEx renders the Ex opcode class.
func (op OpCode) decodeEx() string {
	switch op.Byte {
	case 0x9E:
		return fmt.Sprintf("SKP V%X", op.RegX)
	case 0xA1:
		return fmt.Sprintf("SKNP V%X", op.RegX)
	default:
		return op.Unknown()
	}
}

// decodeFx renders the Fx opcode class.
func (op OpCode) decodeFx() string {
	switch op.Byte {
	case 0x07:
		return fmt.Sprintf("LD V%X, DT", op.RegX)
	case 0x0A:
		return fmt.Sprintf("LD V%X, K", op.RegX)
	case 0x15:
		return fmt.Sprintf("LD DT, V%X", op.RegX)
	case 0x18:
		return fmt.Sprintf("LD ST, V%X", op.RegX)
	case 0x1E:
		return fmt.Sprintf("ADD I, V%X", op.RegX)
	case 0x29:
		return fmt.Sprintf("LD F, V%X", op.RegX)
	case 0x33:
		return fmt.Sprintf("LD B, V%X", op.RegX)
	case 0x55:
		return fmt.Sprintf("LD [I], V%X", op.RegX)
	case 0x65:
		return fmt.Sprintf("LD V%X, [I]", op.RegX)
	default:
		return op.Unknown()
	}
}

// String returns the canonical assembly mnemonic of the instruction.
// The routing mirrors Execute exactly: a word renders to a non-UNKNOWN
// mnemonic if and only if the dispatcher accepts it.
func (op OpCode) String() string {
	switch op.Class {
	case 0x0:
		return op.decode0xxx()
	case 0x1, 0x2, 0xA, 0xB:
		return op.decodeNNN()
	case 0x3, 0x4, 0x6, 0x7, 0xC:
		return op.decodeXKK()
	case 0x5, 0x8, 0x9, 0xD:
		return op.decodeXY()
	case 0xE:
		return op.decodeEx()
	default:
		return op.decodeFx()
	}
}

// Disassemble writes a listing of a raw program to w, one line per
// 16-bit word: address, raw opcode, mnemonic. Addresses start at the
// program load address and advance by 2. A trailing odd byte is
// ignored.
func Disassemble(program []byte, w io.Writer) (err error) {
	for n := 0; n+1 < len(program); n += 2 {
		raw := uint16(program[n])<<8 | uint16(program[n+1])

		_, err = fmt.Fprintf(w, "<0x%03X>  |%04X|  %v\n", START_ADDR+n, raw, Decode(raw))
		if err != nil {
			return
		}
	}

	return
}
