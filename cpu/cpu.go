package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"math/rand"
	"time"
)

const (
	NUM_REGS = 16 // General purpose registers V0-VF.
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("%#x", MEMORY_SIZE),
	"START_ADDR":  fmt.Sprintf("%#x", START_ADDR),
	"FONT_ADDR":   fmt.Sprintf("%#x", FONT_ADDR),
	"FONT_HEIGHT": fmt.Sprintf("%#x", FONT_HEIGHT),
	"DISPLAY_W":   fmt.Sprintf("%#x", DISPLAY_W),
	"DISPLAY_H":   fmt.Sprintf("%#x", DISPLAY_H),
	"STACK_LIMIT": fmt.Sprintf("%#x", STACK_LIMIT),
}

// Cpu is the CHIP-8 machine state: memory, registers, stack, timers,
// display buffer and keypad. One loaded program per Cpu; execution is
// strictly sequential, one instruction fully completes before the next
// fetch.
type Cpu struct {
	Verbose     bool // Set to enable verbose logging.
	SkipUnknown bool // Skip unknown opcodes instead of failing the run.

	Memory [MEMORY_SIZE]uint8 // Font below 0x200, program from 0x200 up.
	V      [NUM_REGS]uint8    // Register bank. VF doubles as the flag register.
	I      uint16             // Index register, 12 significant bits.
	Pc     uint16             // Program counter, even-aligned.
	Stack  Stack              // Subroutine return stack.
	Delay  uint8              // Delay timer, decremented at 60 Hz.
	Sound  uint8              // Sound timer, decremented at 60 Hz.

	Display Display // 64x32 monochrome frame buffer.
	Keypad  Keypad  // 16-key hex keypad state.

	Ticks int // Executed instruction counter.

	rand *rand.Rand
}

// NewCpu creates a CPU initialized to its reset state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Seed reseeds the random source used by the RND opcode.
func (cpu *Cpu) Seed(seed int64) {
	cpu.rand = rand.New(rand.NewSource(seed))
}

// Reset the CPU state.
//   - Clears the registers, stack, timers, display, keypad and memory.
//   - Installs the font sprites below the program area.
//   - Sets the program counter to the program load address.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Memory[:])
	clear(cpu.V[:])
	cpu.Stack.Reset()
	cpu.Display.Clear()
	cpu.Keypad.Reset()
	cpu.I = 0
	cpu.Delay = 0
	cpu.Sound = 0
	cpu.Ticks = 0
	cpu.Pc = START_ADDR

	copy(cpu.Memory[FONT_ADDR:], fontSprites[:])
}

// Load copies a program into memory at the load address. The program
// must be a whole number of 16-bit words and fit below the end of
// memory. Nothing is copied on failure.
func (cpu *Cpu) Load(program []byte) (err error) {
	if len(program) > MAX_PROGRAM {
		return ErrProgramTooLarge
	}
	if len(program)%2 != 0 {
		return ErrProgramOddLength
	}

	copy(cpu.Memory[START_ADDR:], program)

	if cpu.Verbose {
		log.Printf("cpu: loaded %v byte program", len(program))
	}

	return
}

// FetchCode fetches and decodes the big-endian word at the program
// counter. done reports that the counter has walked off the end of
// memory, which ends execution.
func (cpu *Cpu) FetchCode() (op OpCode, done bool) {
	if int(cpu.Pc)+1 >= MEMORY_SIZE {
		done = true
		return
	}

	raw := uint16(cpu.Memory[cpu.Pc])<<8 | uint16(cpu.Memory[cpu.Pc+1])
	op = Decode(raw)

	return
}

// Step executes a single instruction cycle: fetch, decode, advance the
// program counter past the word, then dispatch. Control flow handlers
// overwrite the counter again after the generic advance, which is how
// jumps, calls, returns and skips take effect.
func (cpu *Cpu) Step() (done bool, err error) {
	op, done := cpu.FetchCode()
	if done {
		return
	}

	if cpu.Verbose {
		log.Printf("%03X: %v", cpu.Pc, op)
	}

	cpu.Pc += 2
	err = cpu.Execute(op)
	cpu.Ticks += 1

	return
}

// TickTimers decrements the delay and sound timers if nonzero. The
// host must invoke it at a fixed 60 Hz wall-clock cadence, independent
// of instruction throughput.
func (cpu *Cpu) TickTimers() {
	if cpu.Delay > 0 {
		cpu.Delay -= 1
	}
	if cpu.Sound > 0 {
		cpu.Sound -= 1
	}
}

// skip jumps over the next instruction.
func (cpu *Cpu) skip() {
	cpu.Pc += 2
}

// setFlag sets VF to 1 or 0.
func (cpu *Cpu) setFlag(on bool) {
	if on {
		cpu.V[0xF] = 1
	} else {
		cpu.V[0xF] = 0
	}
}

// checkBounds validates an I-indexed access of span bytes.
func (cpu *Cpu) checkBounds(span int) (err error) {
	if int(cpu.I)+span > MEMORY_SIZE {
		err = ErrMemoryBounds(int(cpu.I) + span - 1)
	}

	return
}

// unknown handles an instruction word no dispatch entry matches.
func (cpu *Cpu) unknown(op OpCode) (err error) {
	if cpu.SkipUnknown {
		log.Printf("cpu: skipping unknown opcode 0x%04X", op.Raw)
		return
	}

	return ErrUnknownOp(op)
}

// Execute executes a single decoded instruction. The routing mirrors
// OpCode.String exactly: a word executes if and only if it renders to
// a non-UNKNOWN mnemonic.
func (cpu *Cpu) Execute(op OpCode) (err error) {
	switch op.Class {
	case 0x0:
		cpu.execute0xxx(op)
	case 0x1: // JP addr
		cpu.Pc = op.Addr
	case 0x2: // CALL addr
		err = cpu.call(op.Addr)
	case 0x3: // SE Vx, byte
		if cpu.V[op.RegX] == op.Byte {
			cpu.skip()
		}
	case 0x4: // SNE Vx, byte
		if cpu.V[op.RegX] != op.Byte {
			cpu.skip()
		}
	case 0x5: // SE Vx, Vy
		if op.Nibble != 0x0 {
			return cpu.unknown(op)
		}
		if cpu.V[op.RegX] == cpu.V[op.RegY] {
			cpu.skip()
		}
	case 0x6: // LD Vx, byte
		cpu.V[op.RegX] = op.Byte
	case 0x7: // ADD Vx, byte (no flag)
		cpu.V[op.RegX] += op.Byte
	case 0x8:
		err = cpu.executeALU(op)
	case 0x9: // SNE Vx, Vy
		if op.Nibble != 0x0 {
			return cpu.unknown(op)
		}
		if cpu.V[op.RegX] != cpu.V[op.RegY] {
			cpu.skip()
		}
	case 0xA: // LD I, addr
		cpu.I = op.Addr & ADDR_MASK
	case 0xB: // JP V0, addr
		// A target past the end of memory is not wrapped; the next
		// fetch ends execution.
		cpu.Pc = op.Addr + uint16(cpu.V[0x0])
	case 0xC: // RND Vx, byte
		cpu.V[op.RegX] = uint8(cpu.rand.Intn(0x100)) & op.Byte
	case 0xD: // DRW Vx, Vy, nibble
		err = cpu.draw(op)
	case 0xE:
		err = cpu.executeEx(op)
	default:
		err = cpu.executeFx(op)
	}

	return
}

// execute0xxx handles the 0xxx class: CLS, RET and the legacy SYS
// call, which is ignored.
func (cpu *Cpu) execute0xxx(op OpCode) {
	switch op.Raw {
	case 0x00E0: // CLS
		cpu.Display.Clear()
	case 0x00EE: // RET; a no-op on an empty stack
		addr, ok := cpu.Stack.Pop()
		if ok {
			cpu.Pc = addr
		}
	}
}

// call pushes the return address and transfers control. Exceeding the
// nesting depth limit is fatal.
func (cpu *Cpu) call(addr uint16) (err error) {
	if cpu.Stack.Full() {
		return ErrStackOverflow
	}

	cpu.Stack.Push(cpu.Pc)
	cpu.Pc = addr

	return
}

// executeALU handles the 8xyN register-to-register operations. The
// flag register is written after the result, so VF arithmetic keeps
// the flag.
func (cpu *Cpu) executeALU(op OpCode) (err error) {
	x := op.RegX
	y := op.RegY

	switch op.Nibble {
	case 0x0: // LD Vx, Vy
		cpu.V[x] = cpu.V[y]
	case 0x1: // OR Vx, Vy
		cpu.V[x] |= cpu.V[y]
	case 0x2: // AND Vx, Vy
		cpu.V[x] &= cpu.V[y]
	case 0x3: // XOR Vx, Vy
		cpu.V[x] ^= cpu.V[y]
	case 0x4: // ADD Vx, Vy
		sum := uint16(cpu.V[x]) + uint16(cpu.V[y])
		cpu.V[x] = uint8(sum)
		cpu.setFlag(sum > 0xFF)
	case 0x5: // SUB Vx, Vy
		flag := cpu.V[x] >= cpu.V[y]
		cpu.V[x] -= cpu.V[y]
		cpu.setFlag(flag)
	case 0x6: // SHR Vx
		flag := cpu.V[x]&0x01 != 0
		cpu.V[x] >>= 1
		cpu.setFlag(flag)
	case 0x7: // SUBN Vx, Vy
		flag := cpu.V[y] >= cpu.V[x]
		cpu.V[x] = cpu.V[y] - cpu.V[x]
		cpu.setFlag(flag)
	case 0xE: // SHL Vx
		flag := cpu.V[x]&0x80 != 0
		cpu.V[x] <<= 1
		cpu.setFlag(flag)
	default:
		err = cpu.unknown(op)
	}

	return
}

// draw XORs an n-byte sprite read from memory at I onto the display.
// Coordinates and drawn pixels wrap modulo the screen size. VF is set
// when any pixel is unset by the draw.
func (cpu *Cpu) draw(op OpCode) (err error) {
	height := int(op.Nibble)

	err = cpu.checkBounds(height)
	if err != nil {
		return
	}

	x0 := int(cpu.V[op.RegX]) % DISPLAY_W
	y0 := int(cpu.V[op.RegY]) % DISPLAY_H

	cpu.V[0xF] = 0
	for row := range height {
		sprite := cpu.Memory[int(cpu.I)+row]
		for bit := range 8 {
			if sprite&(0x80>>bit) == 0 {
				continue
			}
			if cpu.Display.Flip(x0+bit, y0+row) {
				cpu.V[0xF] = 1
			}
		}
	}

	return
}

// executeEx handles the key skip operations.
func (cpu *Cpu) executeEx(op OpCode) (err error) {
	switch op.Byte {
	case 0x9E: // SKP Vx
		if cpu.Keypad.Pressed(cpu.V[op.RegX]) {
			cpu.skip()
		}
	case 0xA1: // SKNP Vx
		if !cpu.Keypad.Pressed(cpu.V[op.RegX]) {
			cpu.skip()
		}
	default:
		err = cpu.unknown(op)
	}

	return
}

// executeFx handles the Fx class: timers, keypad wait, index register
// arithmetic, font addressing, BCD, and register spill/fill.
func (cpu *Cpu) executeFx(op OpCode) (err error) {
	x := op.RegX

	switch op.Byte {
	case 0x07: // LD Vx, DT
		cpu.V[x] = cpu.Delay
	case 0x0A: // LD Vx, K
		// Rewind so the instruction re-executes until a key is down.
		// The host keeps feeding key state and timer ticks meanwhile.
		key, ok := cpu.Keypad.FirstPressed()
		if ok {
			cpu.V[x] = key
		} else {
			cpu.Pc -= 2
		}
	case 0x15: // LD DT, Vx
		cpu.Delay = cpu.V[x]
	case 0x18: // LD ST, Vx
		cpu.Sound = cpu.V[x]
	case 0x1E: // ADD I, Vx (no flag)
		cpu.I = (cpu.I + uint16(cpu.V[x])) & ADDR_MASK
	case 0x29: // LD F, Vx
		cpu.I = FONT_ADDR + uint16(cpu.V[x]&0xF)*FONT_HEIGHT
	case 0x33: // LD B, Vx
		err = cpu.checkBounds(3)
		if err != nil {
			return
		}
		cpu.Memory[cpu.I] = cpu.V[x] / 100
		cpu.Memory[cpu.I+1] = (cpu.V[x] / 10) % 10
		cpu.Memory[cpu.I+2] = cpu.V[x] % 10
	case 0x55: // LD [I], Vx
		err = cpu.checkBounds(int(x) + 1)
		if err != nil {
			return
		}
		copy(cpu.Memory[cpu.I:int(cpu.I)+int(x)+1], cpu.V[:x+1])
	case 0x65: // LD Vx, [I]
		err = cpu.checkBounds(int(x) + 1)
		if err != nil {
			return
		}
		copy(cpu.V[:x+1], cpu.Memory[cpu.I:int(cpu.I)+int(x)+1])
	default:
		err = cpu.unknown(op)
	}

	return
}
