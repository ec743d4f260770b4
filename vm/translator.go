package vm

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"path/filepath"
	"strings"
)

// Base pointer symbols of the pointer based segments.
var segmentBase = map[Segment]string{
	SEGMENT_LOCAL:    "LCL",
	SEGMENT_ARGUMENT: "ARG",
	SEGMENT_THIS:     "THIS",
	SEGMENT_THAT:     "THAT",
}

// Jump condition and label prefix of the comparison commands.
var compareJump = map[Command]string{
	COMMAND_EQ: "JEQ",
	COMMAND_GT: "JGT",
	COMMAND_LT: "JLT",
}

var binaryComp = map[Command]string{
	COMMAND_ADD: "D+M",
	COMMAND_SUB: "M-D",
	COMMAND_AND: "D&M",
	COMMAND_OR:  "D|M",
}

const tempBase = 5

// Translator generates assembly from VM instructions. Output of all
// translated files accumulates in order, so a multi-file program shares
// one assembly text and one comparison label counter.
type Translator struct {
	Verbose bool // If set, logs each translated instruction.

	code  codeBuilder
	count int // Comparison labels emitted.
	errs  []error
}

// Stem returns the static variable prefix of a source file name.
func Stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Reset discards all generated output and errors.
func (tr *Translator) Reset() {
	tr.code.reset()
	tr.count = 0
	tr.errs = nil
}

// Loc returns the number of emitted instruction and label lines.
func (tr *Translator) Loc() int {
	return tr.code.loc
}

// Source returns the generated assembly, or the joined errors of every
// instruction that failed to parse or translate.
func (tr *Translator) Source() (text string, err error) {
	if len(tr.errs) != 0 {
		err = errors.Join(tr.errs...)
		return
	}

	text = tr.code.String()
	return
}

// Translate parses and translates a VM source file. Statics are prefixed
// with the stem of name. The first error is returned, and translation
// continues past it so that Source reports every error.
func (tr *Translator) Translate(name string, input io.Reader) (err error) {
	return tr.TranslateSeq(name, Parse(input))
}

// TranslateSeq translates a sequence of instructions from the file name.
func (tr *Translator) TranslateSeq(name string, insts iter.Seq2[Instruction, error]) (err error) {
	stem := Stem(name)
	if !reLabel.MatchString(stem) {
		err = &ErrSyntax{File: name, Err: ErrStemInvalid(stem)}
		tr.errs = append(tr.errs, err)
		return
	}

	for inst, perr := range insts {
		if perr == nil {
			perr = tr.Emit(stem, inst)
		}
		if perr != nil {
			var serr *ErrSyntax
			if errors.As(perr, &serr) {
				serr.File = name
			} else {
				perr = &ErrSyntax{File: name, LineNo: inst.LineNo, Err: perr}
			}
			tr.errs = append(tr.errs, perr)
			if err == nil {
				err = perr
			}
		}
	}

	return
}

// check validates the instruction operands.
func check(inst Instruction) (err error) {
	switch inst.Command {
	case COMMAND_PUSH, COMMAND_POP:
		if inst.Index < 0 {
			err = ErrIndexRange
			return
		}
		switch inst.Segment {
		case SEGMENT_CONSTANT:
			if inst.Command == COMMAND_POP {
				err = ErrPopConstant
			} else if inst.Index > CONSTANT_MAX {
				err = ErrConstantRange
			}
		case SEGMENT_TEMP:
			if inst.Index >= TEMP_SIZE {
				err = ErrIndexRange
			}
		case SEGMENT_POINTER:
			if inst.Index >= POINTER_SIZE {
				err = ErrIndexRange
			}
		case SEGMENT_STATIC, SEGMENT_LOCAL, SEGMENT_ARGUMENT, SEGMENT_THIS, SEGMENT_THAT:
			if inst.Index > INDEX_MAX {
				err = ErrIndexRange
			}
		default:
			err = ErrSegmentInvalid(inst.Segment.String())
		}
	case COMMAND_LABEL, COMMAND_GOTO, COMMAND_IF_GOTO:
		if !reLabel.MatchString(inst.Label) {
			err = ErrLabelInvalid(inst.Label)
		}
	default:
		if inst.Command < COMMAND_PUSH || inst.Command > COMMAND_IF_GOTO {
			err = ErrCommandInvalid(inst.Command.String())
		}
	}

	return
}

// Emit appends the assembly of one instruction. Static variables are
// named 'stem.index'.
func (tr *Translator) Emit(stem string, inst Instruction) (err error) {
	err = check(inst)
	if err != nil {
		err = &ErrSyntax{LineNo: inst.LineNo, Line: inst.String(), Err: err}
		return
	}

	if tr.Verbose {
		log.Printf("vm: %v:%v: %v", stem, inst.LineNo, inst)
	}

	cb := &tr.code
	cb.comment("%v", inst)

	switch inst.Command {
	case COMMAND_PUSH:
		tr.push(stem, inst.Segment, inst.Index)
	case COMMAND_POP:
		tr.pop(stem, inst.Segment, inst.Index)
	case COMMAND_ADD, COMMAND_SUB, COMMAND_AND, COMMAND_OR:
		tr.popD()
		cb.assign("A", "A-1")
		cb.assign("M", binaryComp[inst.Command])
	case COMMAND_NEG:
		cb.symbol("SP")
		cb.assign("A", "M-1")
		cb.assign("M", "-M")
	case COMMAND_NOT:
		cb.symbol("SP")
		cb.assign("A", "M-1")
		cb.assign("M", "!M")
	case COMMAND_EQ, COMMAND_GT, COMMAND_LT:
		tr.compare(inst.Command)
	case COMMAND_LABEL:
		cb.label(inst.Label)
	case COMMAND_GOTO:
		cb.symbol(inst.Label)
		cb.jump("0", "JMP")
	case COMMAND_IF_GOTO:
		tr.popD()
		cb.symbol(inst.Label)
		cb.jump("D", "JNE")
	}

	cb.newline()

	return
}

// popD pops the top of the stack into D, leaving A addressing the popped slot.
func (tr *Translator) popD() {
	cb := &tr.code
	cb.symbol("SP")
	cb.assign("AM", "M-1")
	cb.assign("D", "M")
}

// pushD pushes D onto the stack.
func (tr *Translator) pushD() {
	cb := &tr.code
	cb.symbol("SP")
	cb.assign("A", "M")
	cb.assign("M", "D")
	cb.symbol("SP")
	cb.assign("M", "M+1")
}

// direct returns the symbol of a segment word with a fixed address.
func direct(stem string, seg Segment, index int) (symbol string, ok bool) {
	switch seg {
	case SEGMENT_STATIC:
		return fmt.Sprintf("%s.%d", stem, index), true
	case SEGMENT_TEMP:
		return fmt.Sprintf("R%d", tempBase+index), true
	case SEGMENT_POINTER:
		if index == 0 {
			return "THIS", true
		}
		return "THAT", true
	}

	return
}

func (tr *Translator) push(stem string, seg Segment, index int) {
	cb := &tr.code

	if seg == SEGMENT_CONSTANT && index > INDEX_MAX {
		// Address instructions carry 15 bits; load the complement.
		cb.address(^index & INDEX_MAX)
		cb.assign("D", "!A")
	} else if seg == SEGMENT_CONSTANT {
		cb.address(index)
		cb.assign("D", "A")
	} else if symbol, ok := direct(stem, seg, index); ok {
		cb.symbol(symbol)
		cb.assign("D", "M")
	} else {
		cb.symbol(segmentBase[seg])
		cb.assign("D", "M")
		cb.address(index)
		cb.assign("A", "D+A")
		cb.assign("D", "M")
	}

	tr.pushD()
}

func (tr *Translator) pop(stem string, seg Segment, index int) {
	cb := &tr.code

	if symbol, ok := direct(stem, seg, index); ok {
		tr.popD()
		cb.symbol(symbol)
		cb.assign("M", "D")
		return
	}

	// D = value + address, then A = address and M = value, without a
	// scratch register.
	tr.popD()
	cb.symbol(segmentBase[seg])
	cb.assign("D", "D+M")
	cb.address(index)
	cb.assign("D", "D+A")
	cb.symbol("SP")
	cb.assign("A", "M")
	cb.assign("A", "M")
	cb.assign("A", "D-A")
	cb.assign("M", "D-A")
}

// compare replaces the top two stack words x, y with -1 if 'x cmd y' holds,
// and 0 otherwise.
func (tr *Translator) compare(cmd Command) {
	cb := &tr.code

	label := fmt.Sprintf("%s_label_%d", strings.ToUpper(cmd.String()), tr.count)
	tr.count++

	if cmd == COMMAND_EQ {
		// x - y is zero exactly when x == y, overflow or not.
		tr.popD()
		cb.assign("A", "A-1")
		cb.assign("D", "M-D")
		cb.assign("M", "-1")
		cb.symbol(label)
		cb.jump("D", "JEQ")
		cb.symbol("SP")
		cb.assign("A", "M-1")
		cb.assign("M", "0")
		cb.label(label)
		return
	}

	// Operands of opposite sign are ordered by sign alone, as x - y could
	// overflow. Operands of the same sign are ordered by x - y.
	xNeg := label + ".xneg"
	same := label + ".same"
	isTrue := label + ".true"
	isFalse := label + ".false"

	// Signs differ: gt holds iff x is the non-negative one.
	xPosYNeg, xNegYPos := isTrue, isFalse
	if cmd == COMMAND_LT {
		xPosYNeg, xNegYPos = isFalse, isTrue
	}

	tr.popD()
	cb.symbol("R13")
	cb.assign("M", "D")
	cb.symbol("SP")
	cb.assign("A", "M-1")
	cb.assign("D", "M")
	cb.symbol(xNeg)
	cb.jump("D", "JLT")

	cb.symbol("R13")
	cb.assign("D", "M")
	cb.symbol(same)
	cb.jump("D", "JGE")
	cb.symbol(xPosYNeg)
	cb.jump("0", "JMP")

	cb.label(xNeg)
	cb.symbol("R13")
	cb.assign("D", "M")
	cb.symbol(same)
	cb.jump("D", "JLT")
	cb.symbol(xNegYPos)
	cb.jump("0", "JMP")

	cb.label(same)
	cb.symbol("SP")
	cb.assign("A", "M-1")
	cb.assign("D", "M")
	cb.symbol("R13")
	cb.assign("D", "D-M")
	cb.symbol(isTrue)
	cb.jump("D", compareJump[cmd])

	cb.label(isFalse)
	cb.assign("D", "0")
	cb.symbol(label)
	cb.jump("0", "JMP")

	cb.label(isTrue)
	cb.assign("D", "-1")

	cb.label(label)
	cb.symbol("SP")
	cb.assign("A", "M-1")
	cb.assign("M", "D")
}
