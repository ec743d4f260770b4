package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func code(text string) Code {
	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(text))
	if err != nil {
		panic(err)
	}
	return prog.Words[0]
}

func TestCpuAddress(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.D = 0x1234
	cpu.Pc = 7

	err := cpu.Execute(MakeCodeAddress(0x7abc))
	assert.NoError(err)
	assert.Equal(uint16(0x7abc), cpu.A)
	assert.Equal(uint16(0x1234), cpu.D)
	assert.Equal(uint16(8), cpu.Pc)
}

func TestCpuJump(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		text string
		d    uint16
		pc   uint16
	}){
		{"D;JGT", 1, 100},
		{"D;JGT", 0, 1},
		{"D;JGT", 0xffff, 1},
		{"D;JEQ", 0, 100},
		{"D;JEQ", 1, 1},
		{"D;JGE", 0, 100},
		{"D;JGE", 0x8000, 1},
		{"D;JLT", 0x8000, 100},
		{"D;JLT", 0, 1},
		{"D;JNE", 0, 1},
		{"D;JNE", 0xffff, 100},
		{"D;JNE", 2, 100},
		{"D;JLE", 2, 1},
		{"D;JLE", 0, 100},
		{"0;JMP", 2, 100},
		{"D=D", 2, 1},
	}

	for _, entry := range table {
		cpu := NewCpu()
		cpu.A = 100
		cpu.D = entry.d
		err := cpu.Execute(code(entry.text))
		assert.NoError(err, entry.text)
		assert.Equal(entry.pc, cpu.Pc, "%v D=%v", entry.text, entry.d)
	}
}

func TestCpuProcess(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join([]string{
		"@7",
		"D=A",
		"@5",
		"M=D",
		"AM=M+1", // A = RAM[5] = 8
		"D=A",
		"M=-1", // RAM[8] = -1
	}, "\n")))
	assert.NoError(err)

	cpu := NewCpu()
	assert.NoError(cpu.Load(prog.Binary()))
	cpu.Reset()

	err = cpu.Process(4)
	assert.NoError(err)
	assert.Equal(uint16(7), cpu.Ram[5])
	assert.Equal(uint16(4), cpu.Pc)
	assert.Equal(4, cpu.Ticks)

	assert.NoError(cpu.Tick())
	assert.Equal(uint16(8), cpu.Ram[5])
	assert.Equal(uint16(8), cpu.A)

	assert.NoError(cpu.Process(2))
	assert.Equal(uint16(8), cpu.D)
	assert.Equal(uint16(0xffff), cpu.Ram[8])

	// Reset keeps memory.
	cpu.Reset()
	assert.Equal(uint16(0), cpu.Pc)
	assert.Equal(uint16(8), cpu.Ram[5])

	value, err := cpu.Peek(8)
	assert.NoError(err)
	assert.Equal(uint16(0xffff), value)

	assert.True(strings.Contains(cpu.String(), "pc: 0"))
}

func TestCpuFault(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.NoError(cpu.Load([]Code{
		code("A=-1"),
		code("D=M"),
	}))

	assert.NoError(cpu.Tick())
	assert.Equal(uint16(0xffff), cpu.A)

	err := cpu.Tick()
	assert.True(errors.Is(err, ErrAddressRange))
	assert.Equal(uint16(1), cpu.Pc)

	// The fault is latched.
	err = cpu.Tick()
	assert.True(errors.Is(err, ErrAddressRange))

	cpu.Reset()
	assert.NoError(cpu.Tick())

	cpu.Pc = ROM_SIZE
	err = cpu.Tick()
	assert.True(errors.Is(err, ErrPcRange))

	_, err = cpu.Peek(RAM_SIZE)
	assert.True(errors.Is(err, ErrAddressRange))
	assert.True(errors.Is(cpu.Poke(0xffff, 1), ErrAddressRange))

	err = cpu.Load(make([]Code, ROM_SIZE+1))
	assert.True(errors.Is(err, ErrRomOverflow))
}

func TestCpuWriteOrder(t *testing.T) {
	assert := assert.New(t)

	// M is addressed by A before A is updated.
	cpu := NewCpu()
	cpu.A = 10
	cpu.Ram[10] = 41
	assert.NoError(cpu.Execute(code("AM=M+1")))
	assert.Equal(uint16(42), cpu.Ram[10])
	assert.Equal(uint16(42), cpu.A)
	assert.Equal(uint16(0), cpu.Ram[42])
}
