package emulator

import (
	"errors"

	"github.com/ezrec/hack/translate"
)

var f = translate.From

var (
	ErrCycleLimit = errors.New(f("cycle limit reached before the program finished"))
	ErrNoSources  = errors.New(f("no sources to compile"))
)

// ErrConfigValue indicates an invalid configuration key.
type ErrConfigValue string

func (err ErrConfigValue) Error() string {
	return f("configuration '%v' is invalid", string(err))
}

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Pc     uint16
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d (pc %04x) %v", err.LineNo, err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrFileType indicates a file that cannot be built.
type ErrFileType string

func (err ErrFileType) Error() string {
	return f("%v: expected .vm files, or one .asm or .hack file", string(err))
}
