package emulator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ezrec/hack/cpu"
)

// Build builds a program from files chosen by extension: one or more .vm
// files, or a single .asm or .hack file. The assembly text is returned for
// .vm and .asm files.
func (emu *Emulator) Build(paths ...string) (prog *cpu.Program, text string, err error) {
	if len(paths) == 0 {
		err = ErrNoSources
		return
	}

	ext := filepath.Ext(paths[0])
	for _, path := range paths[1:] {
		if ext != ".vm" || filepath.Ext(path) != ".vm" {
			err = ErrFileType(path)
			return
		}
	}

	switch ext {
	case ".vm":
		var sources []Source
		for _, path := range paths {
			var inf *os.File
			inf, err = os.Open(path)
			if err != nil {
				return
			}
			defer inf.Close()
			sources = append(sources, Source{Name: path, Input: inf})
		}
		prog, text, err = emu.Compile(sources...)
	case ".asm":
		var data []byte
		data, err = os.ReadFile(paths[0])
		if err != nil {
			return
		}
		text = string(data)
		prog, err = emu.Assemble(strings.NewReader(text))
		if err != nil {
			err = fmt.Errorf("%v: %w", paths[0], err)
		}
	case ".hack":
		var inf *os.File
		inf, err = os.Open(paths[0])
		if err != nil {
			return
		}
		defer inf.Close()
		prog, err = cpu.ParseHack(inf)
		if err != nil {
			err = fmt.Errorf("%v: %w", paths[0], err)
		}
	default:
		err = ErrFileType(paths[0])
	}

	return
}
