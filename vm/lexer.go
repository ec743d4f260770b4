package vm

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

var (
	reLabel  = regexp.MustCompile(`^[A-Za-z_.:$][A-Za-z0-9_.:$]*$`)
	reNumber = regexp.MustCompile(`^[0-9]+$`)
)

// Token is a whitespace delimited word of VM source.
type Token struct {
	LineNo int
	Text   string
}

// Lexer splits VM source into tokens, reading lines only as needed.
// Comments run from '//' to the end of the line. Only the tokens of the
// current line are ever pending.
type Lexer struct {
	scanner *bufio.Scanner
	lineNo  int
	line    string
	pending []Token
	err     error
}

// NewLexer returns a lexer reading from input.
func NewLexer(input io.Reader) *Lexer {
	return &Lexer{scanner: bufio.NewScanner(input)}
}

// fill reads lines until a token is pending or the input is exhausted.
func (lx *Lexer) fill() bool {
	for len(lx.pending) == 0 {
		if !lx.scanner.Scan() {
			lx.err = lx.scanner.Err()
			return false
		}
		lx.lineNo++
		text, _, _ := strings.Cut(lx.scanner.Text(), "//")
		lx.line = strings.TrimSpace(text)
		for _, word := range strings.Fields(text) {
			lx.pending = append(lx.pending, Token{LineNo: lx.lineNo, Text: word})
		}
	}

	return true
}

// Next consumes and returns the next token, reading further lines as needed.
func (lx *Lexer) Next() (tok Token, ok bool) {
	if !lx.fill() {
		return
	}

	tok, ok = lx.pending[0], true
	lx.pending = lx.pending[1:]
	return
}

// Operand consumes the next token of the current line only.
func (lx *Lexer) Operand() (tok Token, ok bool) {
	if len(lx.pending) == 0 {
		return
	}

	tok, ok = lx.pending[0], true
	lx.pending = lx.pending[1:]
	return
}

// Skip discards the rest of the current line.
func (lx *Lexer) Skip() {
	lx.pending = nil
}

// Line returns the text of the current line, without its comment.
func (lx *Lexer) Line() string {
	return lx.line
}

// LineNo returns the number of lines read so far.
func (lx *Lexer) LineNo() int {
	return lx.lineNo
}

// Err returns the first read error of the input, if any.
func (lx *Lexer) Err() error {
	return lx.err
}
