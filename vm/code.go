package vm

import (
	"fmt"
	"strings"
)

// codeBuilder accumulates assembly text and counts the lines that occupy
// an instruction word or declare a label.
type codeBuilder struct {
	sb  strings.Builder
	loc int
}

func (cb *codeBuilder) comment(format string, args ...any) {
	cb.sb.WriteString("// ")
	fmt.Fprintf(&cb.sb, format, args...)
	cb.sb.WriteByte('\n')
}

func (cb *codeBuilder) address(value int) {
	fmt.Fprintf(&cb.sb, "\t@%d\n", value)
	cb.loc++
}

func (cb *codeBuilder) symbol(name string) {
	fmt.Fprintf(&cb.sb, "\t@%s\n", name)
	cb.loc++
}

func (cb *codeBuilder) assign(dest string, comp string) {
	fmt.Fprintf(&cb.sb, "\t%s=%s\n", dest, comp)
	cb.loc++
}

func (cb *codeBuilder) jump(comp string, cond string) {
	fmt.Fprintf(&cb.sb, "\t%s;%s\n", comp, cond)
	cb.loc++
}

func (cb *codeBuilder) label(name string) {
	fmt.Fprintf(&cb.sb, "(%s)\n", name)
	cb.loc++
}

func (cb *codeBuilder) newline() {
	cb.sb.WriteByte('\n')
}

func (cb *codeBuilder) String() string {
	return cb.sb.String()
}

func (cb *codeBuilder) reset() {
	cb.sb.Reset()
	cb.loc = 0
}
