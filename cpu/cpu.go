package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"
)

const (
	ROM_SIZE = 32768 // Instruction memory words.
	RAM_SIZE = 32768 // Data memory words.
)

// Memory map of the fixed RAM locations.
const (
	ADDR_SP     = 0     // Stack pointer.
	ADDR_LCL    = 1     // Base of the local segment.
	ADDR_ARG    = 2     // Base of the argument segment.
	ADDR_THIS   = 3     // Base of the this segment.
	ADDR_THAT   = 4     // Base of the that segment.
	ADDR_TEMP   = 5     // Temp segment, 8 words.
	ADDR_R13    = 13    // General purpose registers R13-R15.
	ADDR_STATIC = 16    // First variable or static.
	ADDR_STACK  = 256   // Conventional bottom of the stack.
	ADDR_SCREEN = 16384 // Screen memory map.
	ADDR_KBD    = 24576 // Keyboard memory map.
)

var _cpu_defines = map[string]uint16{
	"SP":     ADDR_SP,
	"LCL":    ADDR_LCL,
	"ARG":    ADDR_ARG,
	"THIS":   ADDR_THIS,
	"THAT":   ADDR_THAT,
	"SCREEN": ADDR_SCREEN,
	"KBD":    ADDR_KBD,
}

func init() {
	for n := range 16 {
		_cpu_defines[fmt.Sprintf("R%d", n)] = uint16(n)
	}
}

// Cpu is the simulation context for the computer.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Pc  uint16 // Program counter.
	A   uint16 // Address register.
	D   uint16 // Data register.
	Ram [RAM_SIZE]uint16
	Rom [ROM_SIZE]Code

	Ticks int   // Cycles executed since the last reset.
	Fault error // Latched fault, cleared by Reset.
}

// NewCpu creates a new CPU with zeroed memory.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}

	return
}

// Defines returns the predefined symbols of the architecture.
func Defines() iter.Seq2[string, uint16] {
	return maps.All(_cpu_defines)
}

// Load copies the machine words into instruction memory, zeroing the rest.
func (cpu *Cpu) Load(words []Code) (err error) {
	if len(words) > len(cpu.Rom) {
		err = ErrRomOverflow
		return
	}

	n := copy(cpu.Rom[:], words)
	clear(cpu.Rom[n:])

	return
}

// Reset sets the program counter to zero. Memory and registers are kept.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Pc = 0
	cpu.Ticks = 0
	cpu.Fault = nil
}

// Peek reads a data memory word.
func (cpu *Cpu) Peek(addr uint16) (value uint16, err error) {
	if int(addr) >= len(cpu.Ram) {
		err = ErrAddressRange
		return
	}

	value = cpu.Ram[addr]
	return
}

// Poke writes a data memory word.
func (cpu *Cpu) Poke(addr uint16, value uint16) (err error) {
	if int(addr) >= len(cpu.Ram) {
		err = ErrAddressRange
		return
	}

	cpu.Ram[addr] = value
	return
}

// Process executes the given number of cycles, stopping at the first fault.
func (cpu *Cpu) Process(cycles int) (err error) {
	for range cycles {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Tick executes a single fetch-decode-execute cycle.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Fault != nil {
		return cpu.Fault
	}

	defer func() {
		if err != nil {
			cpu.Fault = err
		}
	}()

	if int(cpu.Pc) >= len(cpu.Rom) {
		err = ErrPcRange
		return
	}

	code := cpu.Rom[cpu.Pc]

	if cpu.Verbose {
		log.Printf("%04x: %v", cpu.Pc, code)
	}

	err = cpu.Execute(code)

	return
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(code Code) (err error) {
	if code.IsAddress() {
		cpu.A = code.Address()
		cpu.Pc++
		cpu.Ticks++
		return
	}

	comp, dest, jump := code.ComputeDecode()

	y := cpu.A
	if comp&COMP_MEMORY != 0 {
		y, err = cpu.Peek(cpu.A)
		if err != nil {
			return
		}
	}

	res := Alu(cpu.D, y, comp.AluControl())

	// RAM[] is addressed by A as it was before this instruction.
	if dest&DEST_M != 0 {
		err = cpu.Poke(cpu.A, res.Out)
		if err != nil {
			return
		}
	}
	if dest&DEST_A != 0 {
		cpu.A = res.Out
	}
	if dest&DEST_D != 0 {
		cpu.D = res.Out
	}

	if res.Jump(jump) {
		cpu.Pc = cpu.A
	} else {
		cpu.Pc++
	}

	cpu.Ticks++

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "   pc: %d\n", cpu.Pc)
	fmt.Fprintf(&sb, "    a: %d\n", cpu.A)
	fmt.Fprintf(&sb, "    d: %d\n", cpu.D)

	regions := []struct {
		name  string
		base  int
		count int
	}{
		{"ram", 0, 8},
		{"stack", int(cpu.Ram[ADDR_SP]) - 8, 8},
		{"static", ADDR_STATIC, 5},
		{"local", int(cpu.Ram[ADDR_LCL]), 8},
	}

	for _, region := range regions {
		base := max(region.base, 0)
		for addr := base; addr < base+region.count && addr < len(cpu.Ram); addr++ {
			fmt.Fprintf(&sb, "% 6s[%5d]: %6d\n", region.name, addr, int16(cpu.Ram[addr]))
		}
	}

	if cpu.Fault != nil {
		fmt.Fprintf(&sb, "fault: %v\n", cpu.Fault)
	}

	return sb.String()
}
