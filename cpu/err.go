package cpu

import (
	"errors"

	"github.com/alkuzin/chip8/translate"
)

var f = translate.From

var (
	// Load errors
	ErrProgramTooLarge  = errors.New(f("program too large"))
	ErrProgramOddLength = errors.New(f("program has odd length"))

	// Execution errors
	ErrStackOverflow = errors.New(f("call stack overflow"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrOperandCount    = errors.New(f("wrong operand count"))
	ErrValueRange      = errors.New(f("value out of range"))
)

// ErrUnknownOp reports an instruction word that matches no dispatch
// entry. Continuing past one risks executing garbage as addresses, so
// it is fatal unless the CPU is configured to skip.
type ErrUnknownOp OpCode

func (eo ErrUnknownOp) Error() string {
	return f("unknown opcode 0x%04X", eo.Raw)
}

func (eo ErrUnknownOp) Is(err error) (ok bool) {
	_, ok = err.(ErrUnknownOp)
	return
}

// ErrMemoryBounds reports an index-register or sprite access that
// would touch an address outside the 4096-byte space. The value is the
// offending address.
type ErrMemoryBounds int

func (eb ErrMemoryBounds) Error() string {
	return f("memory access out of bounds at 0x%X", int(eb))
}

func (eb ErrMemoryBounds) Is(err error) (ok bool) {
	_, ok = err.(ErrMemoryBounds)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrBadMnemonic string

func (em ErrBadMnemonic) Error() string {
	return f("unknown mnemonic '%v'", string(em))
}

type ErrBadOperand string

func (eo ErrBadOperand) Error() string {
	return f("'%v' is not a valid operand", string(eo))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrSyntax indicates the location of an assembler error.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}
