package cpu

import (
	"errors"

	"github.com/ezrec/hack/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrPcRange      = errors.New(f("program counter out of range"))
	ErrAddressRange = errors.New(f("memory address out of range"))
	ErrRomOverflow  = errors.New(f("program exceeds instruction memory"))

	// Assembler errors
	ErrLabelDuplicate    = errors.New(f("label duplicated"))
	ErrLabelPredefined   = errors.New(f("label shadows a predefined symbol"))
	ErrLabelSyntax       = errors.New(f("label syntax"))
	ErrAddressMissing    = errors.New(f("address missing"))
	ErrAddressRangeAsm   = errors.New(f("address exceeds 15 bits"))
	ErrVariableExhausted = errors.New(f("variable space exhausted"))
	ErrComputeMissing    = errors.New(f("computation missing"))
	ErrComputeUseless    = errors.New(f("computation without destination or jump"))

	// Program image errors
	ErrHackSyntax = errors.New(f("machine word must be 16 binary digits"))
)

type ErrSymbolInvalid string

func (err ErrSymbolInvalid) Error() string {
	return f("'%v' is not a valid symbol", string(err))
}

type ErrCompInvalid string

func (err ErrCompInvalid) Error() string {
	return f("'%v' is not an ALU expression", string(err))
}

type ErrDestInvalid string

func (err ErrDestInvalid) Error() string {
	return f("'%v' is not a destination", string(err))
}

type ErrJumpInvalid string

func (err ErrJumpInvalid) Error() string {
	return f("'%v' is not a jump condition", string(err))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}
