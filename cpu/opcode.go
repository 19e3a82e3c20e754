package cpu

// Architectural constants of the CHIP-8 machine.
const (
	MEMORY_SIZE = 4096  // Addressable memory in bytes.
	START_ADDR  = 0x200 // Load address of user programs.
	FONT_ADDR   = 0x000 // Load address of the built-in font sprites.
	ADDR_MASK   = 0xFFF // Significant bits of the index register.

	MAX_PROGRAM = MEMORY_SIZE - START_ADDR // Maximum program size in bytes.
)

// OpCode is a single decoded 16-bit CHIP-8 instruction word. All fields
// are derived from Raw by pure bit masking; which of them are meaningful
// depends on the opcode class, the rest are ignored by the handlers.
type OpCode struct {
	Raw    uint16 // Raw big-endian instruction word.
	Class  uint8  // Bits 15-12, the opcode class.
	Addr   uint16 // Bits 11-0, a memory address or 12-bit immediate.
	RegX   uint8  // Bits 11-8, first register operand.
	RegY   uint8  // Bits 7-4, second register operand.
	Byte   uint8  // Bits 7-0, 8-bit immediate.
	Nibble uint8  // Bits 3-0, 4-bit immediate (e.g. sprite height).
}

// Decode splits a raw instruction word into its structured fields.
// Every 16-bit value decodes to some structured form; validity is
// judged by the dispatcher, not here.
func Decode(raw uint16) OpCode {
	return OpCode{
		Raw:    raw,
		Class:  uint8(raw >> 12),
		Addr:   raw & 0x0FFF,
		RegX:   uint8((raw & 0x0F00) >> 8),
		RegY:   uint8((raw & 0x00F0) >> 4),
		Byte:   uint8(raw & 0x00FF),
		Nibble: uint8(raw & 0x000F),
	}
}
