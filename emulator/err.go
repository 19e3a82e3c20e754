package emulator

import (
	"github.com/alkuzin/chip8/translate"
)

var f = translate.From

// ErrRuntime indicates the memory address of a runtime error.
type ErrRuntime struct {
	Addr uint16
	Err  error
}

func (err *ErrRuntime) Error() string {
	return f("at 0x%03X: %v", err.Addr, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
