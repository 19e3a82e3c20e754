package emulator

import (
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"os"
	"sync/atomic"
	"time"

	"github.com/alkuzin/chip8/cpu"
	"github.com/alkuzin/chip8/internal"
)

const (
	TIMER_HZ = 60 // Fixed decrement rate of the delay and sound timers.
)

var _emulator_defines = map[string]string{
	"TIMER_HZ": fmt.Sprintf("%#x", TIMER_HZ),
}

// Mode is the emulator operation mode.
type Mode int

const (
	ModeEmulator Mode = iota
	ModeDisassembler
	ModeAssembler
)

// Frontend is the presentation layer contract. The emulator calls it
// once per frame, from the run loop goroutine.
type Frontend interface {
	// Poll processes host events and feeds key state. It reports
	// false when the host asks to quit.
	Poll(keys *cpu.Keypad) bool
	// Render draws the frame buffer.
	Render(display *cpu.Display)
	// Sound turns the tone on or off; it is on while the sound timer
	// is nonzero.
	Sound(active bool)
}

// Emulator wires a CPU to a frontend and drives the two independent
// cadences of the machine: the instruction rate (a scheduling policy,
// Config.ClockHz) and the fixed 60 Hz timer rate.
type Emulator struct {
	Verbose bool // If set, enables verbose logging.
	*cpu.Cpu
	Config *Config

	// Front is the attached presentation layer. When nil the
	// emulator runs headless.
	Front Frontend

	stop atomic.Bool
}

// NewEmulator creates a new emulator.
func NewEmulator(cfg *Config) (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Config:  cfg,
		Verbose: cfg.Verbose,
	}

	emu.Cpu.Verbose = cfg.Verbose
	emu.Cpu.SkipUnknown = cfg.SkipUnknown

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// LoadFile loads a raw program file into the CPU.
func (emu *Emulator) LoadFile(path string) (err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	return emu.Cpu.Load(data)
}

// Stop asks the run loop to stop at the next instruction boundary. It
// is safe to call from another goroutine.
func (emu *Emulator) Stop() {
	emu.stop.Store(true)
}

// Step executes a single instruction, wrapping any fatal condition
// with the address of the offending instruction.
func (emu *Emulator) Step() (done bool, err error) {
	addr := emu.Cpu.Pc

	done, err = emu.Cpu.Step()
	if err != nil {
		err = &ErrRuntime{Addr: addr, Err: err}
	}

	return
}

// Run executes the loaded program until it halts, fails, the frontend
// quits, or Stop is called. Each 1/60 s frame runs ClockHz/60
// instructions and one timer tick, so the timers decrement on a
// wall-clock cadence decoupled from instruction throughput.
func (emu *Emulator) Run() (err error) {
	perFrame := emu.Config.ClockHz / TIMER_HZ
	if perFrame < 1 {
		perFrame = 1
	}
	frame := time.Second / TIMER_HZ

	if emu.Verbose {
		log.Printf("emulator: run at %v Hz, %v instructions per frame",
			emu.Config.ClockHz, perFrame)
	}

	for !emu.stop.Load() {
		start := time.Now()

		if emu.Front != nil && !emu.Front.Poll(&emu.Cpu.Keypad) {
			return
		}

		for range perFrame {
			var done bool
			done, err = emu.Step()
			if err != nil || done || emu.stop.Load() {
				if emu.Verbose {
					log.Printf("emulator: halt after %v instructions", emu.Cpu.Ticks)
				}
				return
			}
		}

		emu.Cpu.TickTimers()

		if emu.Front != nil {
			emu.Front.Render(&emu.Cpu.Display)
			emu.Front.Sound(emu.Cpu.Sound > 0)
		}

		elapsed := time.Since(start)
		if elapsed < frame {
			time.Sleep(frame - elapsed)
		}
	}

	return
}

// DisassembleFile writes the assembly listing of a raw program file
// to w.
func DisassembleFile(path string, w io.Writer) (err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	return cpu.Disassemble(data, w)
}
