package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alkuzin/chip8/cpu"
	"github.com/alkuzin/chip8/emulator"
	"github.com/alkuzin/chip8/front"
)

func main() {
	cfg := emulator.DefaultConfig()

	var disasm bool
	var emul bool
	var assem bool
	var help bool
	var version bool
	var output string

	fs := flag.NewFlagSet(cfg.Name, flag.ContinueOnError)
	fs.SetOutput(os.Stdout)
	fs.BoolVar(&emul, "e", false, "run in emulator mode")
	fs.BoolVar(&emul, "emulator", false, "run in emulator mode")
	fs.BoolVar(&disasm, "d", false, "run in disassembler mode")
	fs.BoolVar(&disasm, "disasm", false, "run in disassembler mode")
	fs.BoolVar(&assem, "c", false, "assemble a source file")
	fs.BoolVar(&assem, "asm", false, "assemble a source file")
	fs.StringVar(&output, "o", "", "output file of the assembler")
	fs.StringVar(&output, "output", "", "output file of the assembler")
	fs.BoolVar(&cfg.Verbose, "debug", false, "enable verbose logging")
	fs.BoolVar(&cfg.SkipUnknown, "skip-unknown", false, "skip unknown opcodes instead of failing")
	fs.IntVar(&cfg.ClockHz, "clock", cfg.ClockHz, "instruction rate in Hz")
	fs.IntVar(&cfg.Scale, "scale", cfg.Scale, "display scale factor")
	fs.BoolVar(&help, "h", false, "display options list")
	fs.BoolVar(&help, "help", false, "display options list")
	fs.BoolVar(&version, "v", false, "display version")
	fs.BoolVar(&version, "version", false, "display version")
	fs.Usage = func() {
		fmt.Printf("%v: Use '-h' or '--help' for usage.\n", cfg.Name)
	}

	if len(os.Args) < 2 {
		fs.Usage()
		os.Exit(1)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	switch {
	case help:
		fmt.Printf("%v%v", cfg.Title(), cfg.Help())
		return
	case version:
		fmt.Printf("%v\n%v (%v) - %v\n", cfg.Title(), cfg.Name, cfg.Version, cfg.Description)
		fmt.Printf("Repository: %v\nCreated by %v\n", cfg.Repository, cfg.Authors)
		fmt.Printf("Running under %v license.\n", cfg.License)
		return
	}

	filename := fs.Arg(0)
	if filename == "" {
		fail(&cfg, "filename is empty")
	}

	mode := emulator.ModeEmulator
	switch {
	case disasm:
		mode = emulator.ModeDisassembler
	case assem:
		mode = emulator.ModeAssembler
	}

	switch mode {
	case emulator.ModeDisassembler:
		if err := emulator.DisassembleFile(filename, os.Stdout); err != nil {
			fail(&cfg, "%v", err)
		}
	case emulator.ModeAssembler:
		assemble(&cfg, filename, output)
	default:
		run(&cfg, filename)
	}
}

// fail prints a one-line diagnostic and exits with a non-zero status.
func fail(cfg *emulator.Config, format string, args ...any) {
	fmt.Printf("%v: %v\n", cfg.Name, fmt.Sprintf(format, args...))
	os.Exit(1)
}

// assemble compiles a source file to a raw program image.
func assemble(cfg *emulator.Config, filename, output string) {
	inf, err := os.Open(filename)
	if err != nil {
		fail(cfg, "%v", err)
	}
	defer inf.Close()

	asm := &cpu.Assembler{Verbose: cfg.Verbose}

	emu := emulator.NewEmulator(cfg)
	for key, val := range emu.Defines() {
		asm.Predefine(key, val)
	}

	prog, err := asm.Parse(inf)
	if err != nil {
		fail(cfg, "%v: %v", filename, err)
	}

	if output == "" {
		ext := filepath.Ext(filename)
		output = strings.TrimSuffix(filename, ext) + ".ch8"
	}

	if err := os.WriteFile(output, prog.Binary(), 0o644); err != nil {
		fail(cfg, "%v", err)
	}
}

// run executes a program file under the SDL frontend.
func run(cfg *emulator.Config, filename string) {
	emu := emulator.NewEmulator(cfg)
	if err := emu.LoadFile(filename); err != nil {
		fail(cfg, "%v: %v", filename, err)
	}

	screen, err := front.NewScreen(cfg.Name+" - "+filepath.Base(filename), cfg.Scale)
	if err != nil {
		fail(cfg, "%v", err)
	}

	err = emu.Run()
	screen.Destroy()
	if err != nil {
		fail(cfg, "%v", err)
	}
}
