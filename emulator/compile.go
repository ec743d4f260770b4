package emulator

import (
	"io"
	"iter"
	"strings"

	"github.com/ezrec/hack/cpu"
	"github.com/ezrec/hack/vm"
)

// Source is a named VM source. Name sets the prefix of its statics.
type Source struct {
	Name  string
	Input io.Reader
}

func compile(verbose bool, defines iter.Seq2[string, uint16], sources []Source) (prog *cpu.Program, text string, err error) {
	if len(sources) == 0 {
		err = ErrNoSources
		return
	}

	tr := &vm.Translator{Verbose: verbose}
	for _, src := range sources {
		// Errors are collected by the translator.
		_ = tr.Translate(src.Name, src.Input)
	}

	text, err = tr.Source()
	if err != nil {
		return
	}

	asm := &cpu.Assembler{Verbose: verbose}
	for name, value := range defines {
		asm.Predefine(name, value)
	}

	prog, err = asm.Parse(strings.NewReader(text))

	return
}

// Compile translates VM sources, in order, into one program. The program
// is not assembled if any source fails to translate. The generated
// assembly is also returned.
func Compile(sources ...Source) (prog *cpu.Program, text string, err error) {
	return compile(false, cpu.Defines(), sources)
}

// Compile translates VM sources with the device defines of the emulator.
func (emu *Emulator) Compile(sources ...Source) (prog *cpu.Program, text string, err error) {
	return compile(emu.Verbose, emu.Defines(), sources)
}
