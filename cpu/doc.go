// Package cpu implements the CHIP-8 processor, disassembler and assembler.
//
// The CPU consists of 4 KB of memory, sixteen 8-bit general-purpose
// registers (V0-VF, where VF doubles as the carry/borrow/collision flag),
// a 12-bit index register (I), a 16-entry call stack, two 8-bit timers
// decremented at 60 Hz, a 64x32 monochrome display buffer, and a 16-key
// hex keypad. Programs load at 0x200; the area below holds the built-in
// font sprites.
//
// The disassembler shares its routing structure with the execution
// dispatcher: every word the dispatcher can execute renders to exactly
// one mnemonic, and anything it rejects renders as an UNKNOWN mnemonic.
//
// The assembler accepts the same mnemonic syntax the disassembler
// emits, plus labels, equates, compile-time expression evaluation, and
// data directives.
package cpu
