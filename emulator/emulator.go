// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"image"
	"io"
	"iter"
	"log"

	"github.com/ezrec/hack/cpu"
	"github.com/ezrec/hack/internal"
	hackio "github.com/ezrec/hack/io"
)

// Emulator state. CPU + memory mapped devices.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.
	Config   Config       // Boot and run configuration.

	Screen   hackio.Screen   // Screen device.
	Keyboard hackio.Keyboard // Keyboard device.
}

// NewEmulator creates a new emulator with the default configuration.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
		Config:  DefaultConfig(),
	}

	emu.Reset()

	return
}

// Configure replaces the configuration and resets the emulator.
func (emu *Emulator) Configure(cfg Config) (err error) {
	err = cfg.Validate()
	if err != nil {
		return
	}

	emu.Config = cfg
	emu.Reset()

	return
}

// Devices returns the memory mapped devices.
func (emu *Emulator) Devices() []hackio.Device {
	return []hackio.Device{&emu.Screen, &emu.Keyboard}
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, uint16] {
	return internal.IterSeq2Concat(
		cpu.Defines(),
		emu.Screen.Defines(),
		emu.Keyboard.Defines(),
	)
}

// Assembler returns an assembler with the device defines predefined.
func (emu *Emulator) Assembler() (asm *cpu.Assembler) {
	asm = &cpu.Assembler{Verbose: emu.Verbose}
	for name, value := range emu.Defines() {
		asm.Predefine(name, value)
	}

	return
}

// Assemble assembles a program with the device defines.
func (emu *Emulator) Assemble(input io.Reader) (prog *cpu.Program, err error) {
	return emu.Assembler().Parse(input)
}

// Load loads a program into instruction memory, clears data memory,
// and resets the emulator.
func (emu *Emulator) Load(prog *cpu.Program) (err error) {
	err = emu.Cpu.Load(prog.Binary())
	if err != nil {
		return
	}

	emu.Program = prog
	clear(emu.Cpu.Ram[:])
	emu.Reset()

	return
}

// Reset the program counter, the boot pointers, and the devices.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()

	boot := emu.Config.Boot
	emu.Cpu.Ram[cpu.ADDR_SP] = boot.SP
	emu.Cpu.Ram[cpu.ADDR_LCL] = boot.Local
	emu.Cpu.Ram[cpu.ADDR_ARG] = boot.Argument
	emu.Cpu.Ram[cpu.ADDR_THIS] = boot.This
	emu.Cpu.Ram[cpu.ADDR_THAT] = boot.That

	for _, dev := range emu.Devices() {
		dev.Rewind()
	}

	if emu.Verbose {
		log.Printf("emu: reset, sp=%v", boot.SP)
	}
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Done returns true once the program counter has left the program.
func (emu *Emulator) Done() bool {
	return int(emu.Cpu.Pc) >= emu.Program.Count
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	line, ok := emu.Program.Debug(emu.Cpu.Pc)
	if !ok {
		return 0
	}

	return line.LineNo
}

// Tick performs a single tick of the emulator. The keyboard is polled
// every Config.KeyboardPoll ticks.
func (emu *Emulator) Tick() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.Pc
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Pc: pc, Err: err}
		}
	}()

	poll := emu.Config.KeyboardPoll
	if poll > 0 && emu.Cpu.Ticks%poll == 0 {
		emu.Keyboard.Update(hackio.Window(&emu.Keyboard, emu.Cpu.Ram[:]))
	}

	err = emu.Cpu.Tick()

	return
}

// Run performs the given number of ticks, stopping at the first fault.
func (emu *Emulator) Run(cycles int) (err error) {
	for range cycles {
		err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Settle ticks until the program counter leaves the program, for at most
// limit ticks.
func (emu *Emulator) Settle(limit int) (cycles int, err error) {
	for !emu.Done() {
		if cycles >= limit {
			err = ErrCycleLimit
			return
		}
		err = emu.Tick()
		if err != nil {
			return
		}
		cycles++
	}

	return
}

// ScreenImage renders the screen memory.
func (emu *Emulator) ScreenImage() *image.Paletted {
	return emu.Screen.Image(hackio.Window(&emu.Screen, emu.Cpu.Ram[:]))
}

// WritePNG writes the screen memory as a PNG, at the configured scale.
func (emu *Emulator) WritePNG(w io.Writer) (err error) {
	return emu.Screen.WritePNG(w, hackio.Window(&emu.Screen, emu.Cpu.Ram[:]), emu.Config.Screen.Scale)
}
