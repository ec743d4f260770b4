package cpu

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
)

// Line is the assembly source line that produced a machine word.
type Line struct {
	LineNo int
	Text   string
}

// Program is an assembled instruction memory image.
type Program struct {
	Words [ROM_SIZE]Code // Instruction memory image.
	Count int            // Number of words used.
	Lines []Line         // Source line for each used word.
}

// Debug returns the source line of the word at pc.
func (prog *Program) Debug(pc uint16) (line Line, ok bool) {
	if int(pc) >= prog.Count || int(pc) >= len(prog.Lines) {
		return
	}

	return prog.Lines[pc], true
}

// Binary returns the used words of the program.
func (prog *Program) Binary() []Code {
	return prog.Words[:prog.Count:prog.Count]
}

// Codes iterates over the used words of the program.
func (prog *Program) Codes() iter.Seq2[uint16, Code] {
	return func(yield func(pc uint16, code Code) bool) {
		for n := range prog.Count {
			if !yield(uint16(n), prog.Words[n]) {
				return
			}
		}
	}
}

// append adds a word to the program.
func (prog *Program) append(code Code, line Line) (err error) {
	if prog.Count >= len(prog.Words) {
		err = ErrRomOverflow
		return
	}

	prog.Words[prog.Count] = code
	prog.Lines = append(prog.Lines, line)
	prog.Count++

	return
}

// Hack writes the program as text, one 16 digit binary word per line.
func (prog *Program) Hack(output io.Writer) (err error) {
	w := bufio.NewWriter(output)
	for _, code := range prog.Codes() {
		_, err = fmt.Fprintf(w, "%016b\n", uint16(code))
		if err != nil {
			return
		}
	}

	err = w.Flush()

	return
}

// ParseHack reads a program written by Hack.
func ParseHack(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			prog = nil
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	prog = &Program{}
	for scanner.Scan() {
		lineno++
		line = strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}

		if len(line) != 16 {
			err = ErrHackSyntax
			return
		}

		var value uint64
		value, err = strconv.ParseUint(line, 2, 16)
		if err != nil {
			err = ErrHackSyntax
			return
		}

		code := Code(value)
		err = prog.append(code, Line{LineNo: lineno, Text: code.String()})
		if err != nil {
			return
		}
	}

	err = scanner.Err()

	return
}
