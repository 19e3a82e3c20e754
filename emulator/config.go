package emulator

// Version metadata baked into release builds.
const (
	NAME        = "chip8"
	VERSION     = "v0.1.0"
	DESCRIPTION = "CHIP-8 interpreted programming language emulator"
	LICENSE     = "GPL-3.0-or-later"
	REPOSITORY  = "https://github.com/alkuzin/chip8"
	AUTHORS     = "chip8 emulator project and contributors"
)

// Config is the immutable process-wide settings, constructed once at
// startup and passed by reference to whatever needs it.
type Config struct {
	Name        string // Program name used in diagnostics.
	Version     string
	Description string
	License     string
	Repository  string
	Authors     string

	ClockHz     int  // Instruction execution rate.
	Scale       int  // Display scale factor of the SDL frontend.
	SkipUnknown bool // Skip unknown opcodes instead of failing the run.
	Verbose     bool // Enable verbose logging.
}

// DefaultConfig returns the default settings. The 700 Hz clock
// approximates original hardware pacing; it is a scheduling policy,
// not an architectural constant.
func DefaultConfig() Config {
	return Config{
		Name:        NAME,
		Version:     VERSION,
		Description: DESCRIPTION,
		License:     LICENSE,
		Repository:  REPOSITORY,
		Authors:     AUTHORS,

		ClockHz: 700,
		Scale:   10,
	}
}

// Title returns the banner shown by help and version output.
func (cfg *Config) Title() string {
	return `
 ██████╗██╗  ██╗██╗██████╗  █████╗
██╔════╝██║  ██║██║██╔══██╗██╔══██╗
██║     ███████║██║██████╔╝╚█████╔╝
██║     ██╔══██║██║██╔═══╝ ██╔══██╗
╚██████╗██║  ██║██║██║     ╚█████╔╝
 ╚═════╝╚═╝  ╚═╝╚═╝╚═╝      ╚════╝
`
}

// Help returns the list of available commands.
func (cfg *Config) Help() string {
	return `
USAGE
       ` + cfg.Name + ` [options] <file>

DESCRIPTION

       ` + cfg.Name + ` - ` + cfg.Description + `

OPTIONS

        -d,    --disasm     run in disassembler mode
        -e,    --emulator   run in emulator mode
        -c,    --asm        assemble a source file
        -o,    --output     output file of the assembler
               --debug      enable verbose logging
        -h,    --help       display options list
        -v,    --version    display version of ` + cfg.Name + `
`
}
