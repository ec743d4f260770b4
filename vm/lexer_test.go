package vm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexer(t *testing.T) {
	assert := assert.New(t)

	lx := NewLexer(strings.NewReader("// header\npush  constant 7 // seven\n\n\tif-goto END\n"))

	var tokens []Token
	for {
		tok, ok := lx.Next()
		if !ok {
			break
		}
		tokens = append(tokens, tok)
	}

	assert.NoError(lx.Err())
	assert.Equal([]Token{
		{LineNo: 2, Text: "push"},
		{LineNo: 2, Text: "constant"},
		{LineNo: 2, Text: "7"},
		{LineNo: 4, Text: "if-goto"},
		{LineNo: 4, Text: "END"},
	}, tokens)
	assert.Equal(4, lx.LineNo())
}

func TestLexerOperandSkip(t *testing.T) {
	assert := assert.New(t)

	lx := NewLexer(strings.NewReader("junk more words // note\n\npush\nadd"))

	tok, ok := lx.Next()
	assert.True(ok)
	assert.Equal("junk", tok.Text)
	assert.Equal("junk more words", lx.Line())

	tok, ok = lx.Operand()
	assert.True(ok)
	assert.Equal(Token{LineNo: 1, Text: "more"}, tok)

	lx.Skip()
	tok, ok = lx.Next()
	assert.True(ok)
	assert.Equal(Token{LineNo: 3, Text: "push"}, tok)
	assert.Equal("push", lx.Line())

	// Operands never come from the next line.
	_, ok = lx.Operand()
	assert.False(ok)

	tok, ok = lx.Next()
	assert.True(ok)
	assert.Equal(Token{LineNo: 4, Text: "add"}, tok)

	lx.Skip()
	_, ok = lx.Next()
	assert.False(ok)
	assert.NoError(lx.Err())
}
