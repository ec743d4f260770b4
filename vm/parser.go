package vm

import (
	"io"
	"iter"
	"strconv"
)

// parseInstruction parses the operands of the command in tok, which must
// all be on its line.
func parseInstruction(lx *Lexer, tok Token) (inst Instruction, err error) {
	cmd, ok := commandMap[tok.Text]
	if !ok {
		err = ErrCommandInvalid(tok.Text)
		return
	}

	inst = Instruction{LineNo: tok.LineNo, Command: cmd}

	switch cmd {
	case COMMAND_PUSH, COMMAND_POP:
		seg, ok := lx.Operand()
		if !ok {
			err = ErrSegmentMissing
			return
		}
		inst.Segment, ok = segmentMap[seg.Text]
		if !ok {
			err = ErrSegmentInvalid(seg.Text)
			return
		}
		index, ok := lx.Operand()
		if !ok {
			err = ErrIndexMissing
			return
		}
		if !reNumber.MatchString(index.Text) {
			err = ErrParseNumber(index.Text)
			return
		}
		inst.Index, err = strconv.Atoi(index.Text)
		if err != nil {
			err = ErrParseNumber(index.Text)
			return
		}
	case COMMAND_LABEL, COMMAND_GOTO, COMMAND_IF_GOTO:
		label, ok := lx.Operand()
		if !ok {
			err = ErrLabelMissing
			return
		}
		if !reLabel.MatchString(label.Text) {
			err = ErrLabelInvalid(label.Text)
			return
		}
		inst.Label = label.Text
	}

	if extra, ok := lx.Operand(); ok {
		err = ErrOperandExtra(extra.Text)
	}

	return
}

// Parse returns an iterator over the instructions of a VM source. Parsing
// is lazy and line oriented: a malformed line is yielded as a *ErrSyntax,
// and parsing continues with the next line.
func Parse(input io.Reader) iter.Seq2[Instruction, error] {
	return func(yield func(inst Instruction, err error) bool) {
		lx := NewLexer(input)
		for {
			tok, ok := lx.Next()
			if !ok {
				if err := lx.Err(); err != nil {
					yield(Instruction{LineNo: lx.LineNo()}, err)
				}
				return
			}

			inst, err := parseInstruction(lx, tok)
			if err != nil {
				err = &ErrSyntax{LineNo: tok.LineNo, Line: lx.Line(), Err: err}
				lx.Skip()
			}

			if !yield(inst, err) {
				return
			}
		}
	}
}
