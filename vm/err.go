package vm

import (
	"errors"

	"github.com/ezrec/hack/translate"
)

var f = translate.From

var (
	// Parser errors
	ErrSegmentMissing = errors.New(f("segment missing"))
	ErrIndexMissing   = errors.New(f("segment index missing"))
	ErrLabelMissing   = errors.New(f("label missing"))

	// Code generation errors
	ErrIndexRange    = errors.New(f("segment index out of range"))
	ErrConstantRange = errors.New(f("constant exceeds 16 bits"))
	ErrPopConstant   = errors.New(f("cannot pop to the constant segment"))
)

type ErrCommandInvalid string

func (err ErrCommandInvalid) Error() string {
	return f("'%v' is not a command", string(err))
}

type ErrOperandExtra string

func (err ErrOperandExtra) Error() string {
	return f("unexpected operand '%v'", string(err))
}

type ErrSegmentInvalid string

func (err ErrSegmentInvalid) Error() string {
	return f("'%v' is not a segment", string(err))
}

type ErrLabelInvalid string

func (err ErrLabelInvalid) Error() string {
	return f("'%v' is not a valid label", string(err))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrStemInvalid string

func (err ErrStemInvalid) Error() string {
	return f("'%v' cannot name static variables", string(err))
}

// ErrSyntax locates an error within a VM source file.
type ErrSyntax struct {
	File   string
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("%v:%d '%v' %v", err.File, err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}
