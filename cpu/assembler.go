// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"io"
	"iter"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/hack/internal"
)

var (
	reSymbol   = regexp.MustCompile(`^[A-Za-z_.$:][A-Za-z0-9_.$:]*$`)
	reStarName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// source is a non-empty assembly line with comments removed.
type source struct {
	lineNo int
	text   string
}

// Assembler is a two pass assembler for the computer.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	predefine map[string]uint16 // Caller supplied predefines.

	Predefined map[string]uint16 // Predefined symbols of the last run.
	Label      map[string]uint16 // Map of labels to instruction addresses.
	Variable   map[string]uint16 // Map of variables to data addresses.

	nextVariable uint16
}

// Predefine defines a new symbol or redefines an existing one for all later runs.
func (asm *Assembler) Predefine(name string, value uint16) {
	if asm.predefine == nil {
		asm.predefine = map[string]uint16{name: value}
	} else {
		asm.predefine[name] = value
	}
}

// Symbols iterates over the symbol table of the last run: predefined
// symbols, then labels, then variables, each in name order.
func (asm *Assembler) Symbols() iter.Seq2[string, uint16] {
	return internal.IterSeq2Concat(
		internal.IterSeq2Sorted(asm.Predefined),
		internal.IterSeq2Sorted(asm.Label),
		internal.IterSeq2Sorted(asm.Variable),
	)
}

// lookup resolves a symbol without allocating.
func (asm *Assembler) lookup(name string) (value uint16, ok bool) {
	if value, ok = asm.Predefined[name]; ok {
		return
	}
	if value, ok = asm.Label[name]; ok {
		return
	}
	value, ok = asm.Variable[name]
	return
}

// valueOf resolves an address operand, allocating a variable for an unknown symbol.
func (asm *Assembler) valueOf(word string) (value uint16, err error) {
	if len(word) == 0 {
		err = ErrAddressMissing
		return
	}

	if strings.HasPrefix(word, "$(") && strings.HasSuffix(word, ")") {
		value, err = asm.parenEval(word[2 : len(word)-1])
		return
	}

	if word[0] >= '0' && word[0] <= '9' {
		var v64 uint64
		v64, err = strconv.ParseUint(word, 0, 16)
		if err != nil {
			err = ErrParseNumber(word)
			return
		}
		if v64 > code_ADDRESS {
			err = ErrAddressRangeAsm
			return
		}
		value = uint16(v64)
		return
	}

	if !reSymbol.MatchString(word) {
		err = ErrSymbolInvalid(word)
		return
	}

	value, ok := asm.lookup(word)
	if ok {
		return
	}

	if asm.nextVariable >= ADDR_SCREEN {
		err = ErrVariableExhausted
		return
	}

	value = asm.nextVariable
	asm.Variable[word] = value
	asm.nextVariable++

	if asm.Verbose {
		log.Printf("asm: variable %v = %v", word, value)
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint16, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, value := range asm.Symbols() {
		// Symbols such as 'Foo.3' cannot be starlark names.
		if !reStarName.MatchString(key) {
			continue
		}
		pred[key] = starlark.MakeInt(int(value))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	if st_int64 < 0 || st_int64 > code_ADDRESS {
		err = ErrAddressRangeAsm
		return
	}
	value = uint16(st_int64)
	return
}

// stripComment removes a '//' comment from a line. A '//' inside $(...)
// is the floor division operator, not a comment.
func stripComment(line string) string {
	depth := 0
	for n := 0; n < len(line); n++ {
		switch {
		case depth == 0 && strings.HasPrefix(line[n:], "$("):
			depth = 1
			n++
		case depth > 0 && line[n] == '(':
			depth++
		case depth > 0 && line[n] == ')':
			depth--
		case depth == 0 && strings.HasPrefix(line[n:], "//"):
			return line[:n]
		}
	}

	return line
}

// labelOf returns the label name if the line is a label declaration.
func labelOf(text string) (label string, ok bool) {
	if !strings.HasPrefix(text, "(") {
		return
	}

	label = strings.TrimSpace(strings.TrimSuffix(text[1:], ")"))
	ok = true
	return
}

// parseCompute parses a 'dest=comp;jump' instruction.
func (asm *Assembler) parseCompute(text string) (code Code, err error) {
	text = strings.Join(strings.Fields(text), "")

	expr, cond, has_jump := strings.Cut(text, ";")
	dst, expr, has_dest := strings.Cut(expr, "=")
	if !has_dest {
		expr = dst
		dst = ""
	}

	var dest CodeDest
	if has_dest {
		if len(dst) == 0 {
			err = ErrDestInvalid(dst)
			return
		}
		for _, reg := range dst {
			var bit CodeDest
			switch reg {
			case 'A':
				bit = DEST_A
			case 'D':
				bit = DEST_D
			case 'M':
				bit = DEST_M
			default:
				err = ErrDestInvalid(dst)
				return
			}
			if dest&bit != 0 {
				err = ErrDestInvalid(dst)
				return
			}
			dest |= bit
		}
	}

	if len(expr) == 0 {
		err = ErrComputeMissing
		return
	}

	comp, ok := compMap[expr]
	if !ok && len(expr) == 3 && strings.ContainsAny(expr[1:2], "+&|") {
		// Commutative operators may have their operands swapped.
		comp, ok = compMap[expr[2:3]+expr[1:2]+expr[0:1]]
	}
	if !ok {
		err = ErrCompInvalid(expr)
		return
	}

	jump := JUMP_NONE
	if has_jump {
		jump, ok = jumpMap[cond]
		if !ok {
			err = ErrJumpInvalid(cond)
			return
		}
	}

	if dest == 0 && jump == JUMP_NONE {
		err = ErrComputeUseless
		return
	}

	code = MakeCodeCompute(comp, dest, jump)

	return
}

// parseLine assembles a single non-label line.
func (asm *Assembler) parseLine(text string) (code Code, err error) {
	if word, ok := strings.CutPrefix(text, "@"); ok {
		var value uint16
		value, err = asm.valueOf(strings.TrimSpace(word))
		if err != nil {
			return
		}
		if value > code_ADDRESS {
			err = ErrAddressRangeAsm
			return
		}
		code = MakeCodeAddress(value)
		return
	}

	code, err = asm.parseCompute(text)

	return
}

// Parse parses an input stream into a Program of machine words.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			prog = nil
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Predefined = maps.Collect(Defines())
	maps.Copy(asm.Predefined, asm.predefine)
	asm.Label = make(map[string]uint16, 16)
	asm.Variable = make(map[string]uint16, 16)
	asm.nextVariable = ADDR_STATIC

	var lines []source
	for scanner.Scan() {
		lineno++
		line = scanner.Text()
		text := strings.TrimSpace(stripComment(line))
		if len(text) == 0 {
			continue
		}
		lines = append(lines, source{lineNo: lineno, text: text})
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	// Pass one: label addresses.
	pc := 0
	for _, src := range lines {
		lineno, line = src.lineNo, src.text
		label, ok := labelOf(src.text)
		if !ok {
			pc++
			continue
		}
		if !strings.HasSuffix(src.text, ")") || !reSymbol.MatchString(label) {
			err = ErrLabelSyntax
			return
		}
		if _, ok := asm.Predefined[label]; ok {
			err = ErrLabelPredefined
			return
		}
		if _, ok := asm.Label[label]; ok {
			err = ErrLabelDuplicate
			return
		}
		if pc > ROM_SIZE {
			err = ErrRomOverflow
			return
		}
		asm.Label[label] = uint16(pc)
	}

	// Pass two: code emission.
	prog = &Program{}
	for _, src := range lines {
		lineno, line = src.lineNo, src.text
		if _, ok := labelOf(src.text); ok {
			continue
		}

		var code Code
		code, err = asm.parseLine(src.text)
		if err != nil {
			return
		}

		if asm.Verbose {
			log.Printf("%04x: %v (line %v: %v)", prog.Count, code, lineno, line)
		}

		err = prog.append(code, Line{LineNo: lineno, Text: src.text})
		if err != nil {
			return
		}
	}

	return
}
