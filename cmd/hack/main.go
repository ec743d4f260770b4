// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/ezrec/hack/emulator"
)

// exitGuard runs cleanups, such as restoring the terminal, before a fatal exit.
type exitGuard struct {
	exit     func(format string, args ...any)
	cleanups []func()
}

// Defer adds a cleanup; cleanups run in reverse order.
func (guard *exitGuard) Defer(cleanup func()) {
	guard.cleanups = append(guard.cleanups, cleanup)
}

// Cleanup runs the pending cleanups once.
func (guard *exitGuard) Cleanup() {
	for n := len(guard.cleanups) - 1; n >= 0; n-- {
		guard.cleanups[n]()
	}
	guard.cleanups = nil
}

// Fatalf runs the cleanups, then exits.
func (guard *exitGuard) Fatalf(format string, args ...any) {
	guard.Cleanup()
	guard.exit(format, args...)
}

func writeFile(path string, write func(w io.Writer) error) (err error) {
	ouf, err := os.Create(path)
	if err != nil {
		return
	}

	err = write(ouf)
	if err == nil {
		err = ouf.Close()
	} else {
		ouf.Close()
	}

	return
}

func main() {
	var compile string
	var assemble string
	var hack string
	var listing bool
	var output string
	var cycles int
	var config string
	var screen string
	var save bool
	var keyboard bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".vm files to compile, comma separated")
	flag.StringVar(&assemble, "a", "", ".asm file to assemble")
	flag.StringVar(&hack, "x", "", ".hack file to load")
	flag.BoolVar(&listing, "S", false, "Print the generated assembly")
	flag.StringVar(&output, "o", "", ".hack file to write")
	flag.IntVar(&cycles, "n", -1, "Cycles to run (default: until the program ends, at most the configured cycles)")
	flag.StringVar(&config, "config", "", ".toml configuration file")
	flag.StringVar(&screen, "screen", "", ".png file to write the screen to")
	flag.BoolVar(&save, "s", false, "Build only, do not execute")
	flag.BoolVar(&keyboard, "k", false, "Feed the terminal keys to the keyboard")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	inputs := 0
	for _, input := range []string{compile, assemble, hack} {
		if len(input) != 0 {
			inputs++
		}
	}
	if inputs != 1 {
		log.Fatalf("%v: exactly one of -c, -a or -x is required", os.Args[0])
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	if len(config) != 0 {
		cfg, err := emulator.LoadConfig(config)
		if err != nil {
			log.Fatalf("%v: %v", config, err)
		}
		err = emu.Configure(cfg)
		if err != nil {
			log.Fatalf("%v: %v", config, err)
		}
	}

	var paths []string
	switch {
	case len(compile) != 0:
		paths = strings.Split(compile, ",")
	case len(assemble) != 0:
		paths = []string{assemble}
	default:
		paths = []string{hack}
	}

	guard := &exitGuard{exit: log.Fatalf}
	defer guard.Cleanup()

	prog, text, err := emu.Build(paths...)
	if err != nil {
		guard.Fatalf("%v: %v", os.Args[0], err)
	}

	if listing {
		fmt.Print(text)
	}

	if len(output) != 0 {
		err = writeFile(output, prog.Hack)
		if err != nil {
			guard.Fatalf("%v: %v", output, err)
		}
	}

	if save {
		return
	}

	err = emu.Load(prog)
	if err != nil {
		guard.Fatalf("%v: %v", os.Args[0], err)
	}

	if keyboard {
		restore, err := enterRawTerm()
		if err != nil {
			guard.Fatalf("%v: %v", os.Args[0], err)
		}
		guard.Defer(restore)
		emu.Keyboard.Input = os.Stdin
	}

	if cycles >= 0 {
		err = emu.Run(cycles)
	} else {
		_, err = emu.Settle(emu.Config.Cycles)
		if errors.Is(err, emulator.ErrCycleLimit) {
			if verbose {
				log.Printf("%v: %v", os.Args[0], err)
			}
			err = nil
		}
	}

	fmt.Print(emu.String())

	if len(screen) != 0 {
		werr := writeFile(screen, emu.WritePNG)
		if werr != nil {
			guard.Fatalf("%v: %v", screen, werr)
		}
	}

	if err != nil {
		guard.Fatalf("%v: %v", os.Args[0], err)
	}
}
