package vm

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/hack/cpu"
)

type vmFile struct {
	name string
	text string
}

// run translates, assembles and runs the files with the stack at 256, LCL
// at 300, ARG at 400, THIS at 3000 and THAT at 3010.
func run(t *testing.T, files ...vmFile) *cpu.Cpu {
	tr := &Translator{}
	for _, file := range files {
		err := tr.Translate(file.name, strings.NewReader(file.text))
		if err != nil {
			t.Fatal(err)
		}
	}

	text, err := tr.Source()
	if err != nil {
		t.Fatal(err)
	}

	asm := &cpu.Assembler{}
	prog, err := asm.Parse(strings.NewReader(text))
	if err != nil {
		t.Fatal(err)
	}

	c := cpu.NewCpu()
	err = c.Load(prog.Binary())
	if err != nil {
		t.Fatal(err)
	}

	c.Ram[cpu.ADDR_SP] = 256
	c.Ram[cpu.ADDR_LCL] = 300
	c.Ram[cpu.ADDR_ARG] = 400
	c.Ram[cpu.ADDR_THIS] = 3000
	c.Ram[cpu.ADDR_THAT] = 3010

	for int(c.Pc) < prog.Count {
		err = c.Tick()
		if err != nil {
			t.Fatal(err)
		}
		if c.Ticks > 100000 {
			t.Fatal("program did not finish")
		}
	}

	return c
}

// top returns the word on the top of the stack.
func top(c *cpu.Cpu) uint16 {
	return c.Ram[c.Ram[cpu.ADDR_SP]-1]
}

func TestTranslatorPushConstant(t *testing.T) {
	assert := assert.New(t)

	tr := &Translator{}
	err := tr.Emit("Main", Instruction{Command: COMMAND_PUSH, Segment: SEGMENT_CONSTANT, Index: 7})
	assert.NoError(err)

	text, err := tr.Source()
	assert.NoError(err)
	assert.Equal("// push constant 7\n\t@7\n\tD=A\n\t@SP\n\tA=M\n\tM=D\n\t@SP\n\tM=M+1\n\n", text)
	assert.Equal(7, tr.Loc())

	tr.Reset()
	assert.Equal(0, tr.Loc())
	text, err = tr.Source()
	assert.NoError(err)
	assert.Equal("", text)
}

func TestTranslatorAdd(t *testing.T) {
	assert := assert.New(t)

	c := run(t, vmFile{"Main.vm", "push constant 7\npush constant 8\nadd\npop temp 0\n"})
	assert.Equal(uint16(15), c.Ram[5])
	assert.Equal(uint16(256), c.Ram[cpu.ADDR_SP])
}

func TestTranslatorArithmetic(t *testing.T) {
	table := []struct {
		source   string
		expected uint16
	}{
		{"push constant 32767\npush constant 32767\nadd", 0xfffe},
		{"push constant 32767\npush constant 2\nadd", 0x8001},
		{"push constant 65535\npush constant 1\nadd", 0},
		{"push constant 40000\npush constant 30000\nadd", 70000 % 65536},
		{"push constant 32768", 0x8000},
		{"push constant 65535", 0xffff},
		{"push constant 49152\nnot", 0x3fff},
		{"push constant 3\npush constant 5\nsub", 0xfffe},
		{"push constant 9\npush constant 5\nsub", 4},
		{"push constant 5\nneg", 0xfffb},
		{"push constant 0\nneg", 0},
		{"push constant 0\nnot", 0xffff},
		{"push constant 12\npush constant 10\nand", 8},
		{"push constant 12\npush constant 10\nor", 14},
		{"push constant 0\npush constant 3\nsub\nneg", 3},
	}

	for _, entry := range table {
		t.Run(entry.source, func(t *testing.T) {
			c := run(t, vmFile{"Main.vm", entry.source})
			assert.Equal(t, entry.expected, top(c))
			assert.Equal(t, uint16(257), c.Ram[cpu.ADDR_SP])
		})
	}
}

func TestTranslatorCompare(t *testing.T) {
	table := []struct {
		x, y     string
		cmd      string
		expected uint16
	}{
		{"push constant 5", "push constant 3", "lt", 0},
		{"push constant 3", "push constant 5", "lt", 0xffff},
		{"push constant 5", "push constant 5", "lt", 0},
		{"push constant 5", "push constant 3", "gt", 0xffff},
		{"push constant 3", "push constant 5", "gt", 0},
		{"push constant 5", "push constant 5", "gt", 0},
		{"push constant 5", "push constant 5", "eq", 0xffff},
		{"push constant 4", "push constant 5", "eq", 0},
		{"push constant 0\npush constant 3\nsub", "push constant 2", "lt", 0xffff},
		{"push constant 0\npush constant 3\nsub", "push constant 2", "gt", 0},
		{"push constant 0\npush constant 1\nsub", "push constant 0\npush constant 1\nsub", "eq", 0xffff},
		{"push constant 32767", "push constant 65534", "gt", 0xffff},
		{"push constant 65534", "push constant 32767", "lt", 0xffff},
		{"push constant 32767", "push constant 65534", "lt", 0},
		{"push constant 32768", "push constant 1", "lt", 0xffff},
		{"push constant 32768", "push constant 32767", "gt", 0},
		{"push constant 32768", "push constant 32768", "gt", 0},
		{"push constant 65535", "push constant 32768", "gt", 0xffff},
	}

	for _, entry := range table {
		source := strings.Join([]string{entry.x, entry.y, entry.cmd}, "\n")
		t.Run(source, func(t *testing.T) {
			c := run(t, vmFile{"Main.vm", source})
			assert.Equal(t, entry.expected, top(c))
			assert.Equal(t, uint16(257), c.Ram[cpu.ADDR_SP])
		})
	}
}

func TestTranslatorCompareLabels(t *testing.T) {
	assert := assert.New(t)

	tr := &Translator{}
	assert.NoError(tr.Translate("A.vm", strings.NewReader("push constant 1\npush constant 1\neq\npush constant 1\neq")))
	assert.NoError(tr.Translate("B.vm", strings.NewReader("push constant 1\npush constant 1\nlt")))

	text, err := tr.Source()
	assert.NoError(err)
	assert.Contains(text, "(EQ_label_0)")
	assert.Contains(text, "(EQ_label_1)")
	assert.Contains(text, "(LT_label_2)")

	c := run(t,
		vmFile{"A.vm", "push constant 1\npush constant 1\neq\npush constant 1\neq"},
		vmFile{"B.vm", "push constant 1\npush constant 1\nlt"},
	)
	assert.Equal(uint16(258), c.Ram[cpu.ADDR_SP])
	assert.Equal(uint16(0), c.Ram[256])
	assert.Equal(uint16(0), c.Ram[257])
}

func TestTranslatorSegments(t *testing.T) {
	assert := assert.New(t)

	source := `
push constant 10
pop local 2
push constant 21
pop argument 1
push constant 32
pop this 2
push constant 45
pop that 5
push constant 42
pop temp 3
push constant 7
pop temp 7
push local 2
push argument 1
add
push this 2
add
push that 5
add
push temp 3
add
`

	c := run(t, vmFile{"Main.vm", source})
	assert.Equal(uint16(10), c.Ram[302])
	assert.Equal(uint16(21), c.Ram[401])
	assert.Equal(uint16(32), c.Ram[3002])
	assert.Equal(uint16(45), c.Ram[3015])
	assert.Equal(uint16(42), c.Ram[8])
	assert.Equal(uint16(7), c.Ram[12])
	assert.Equal(uint16(10+21+32+45+42), top(c))
	assert.Equal(uint16(257), c.Ram[cpu.ADDR_SP])
}

func TestTranslatorPointer(t *testing.T) {
	assert := assert.New(t)

	source := `
push constant 4000
pop pointer 0
push constant 5000
pop pointer 1
push constant 17
pop this 1
push constant 18
pop that 2
push pointer 0
push pointer 1
`

	c := run(t, vmFile{"Main.vm", source})
	assert.Equal(uint16(4000), c.Ram[cpu.ADDR_THIS])
	assert.Equal(uint16(5000), c.Ram[cpu.ADDR_THAT])
	assert.Equal(uint16(17), c.Ram[4001])
	assert.Equal(uint16(18), c.Ram[5002])
	assert.Equal(uint16(4000), c.Ram[256])
	assert.Equal(uint16(5000), c.Ram[257])
}

func TestTranslatorStatics(t *testing.T) {
	assert := assert.New(t)

	c := run(t,
		vmFile{"dir/Foo.vm", "push constant 1\npop static 0\n"},
		vmFile{"Bar.vm", "push constant 2\npop static 0\npush static 0\n"},
	)

	assert.Equal(uint16(1), c.Ram[16])
	assert.Equal(uint16(2), c.Ram[17])
	assert.Equal(uint16(2), top(c))
}

func TestTranslatorBranch(t *testing.T) {
	assert := assert.New(t)

	source := `
push constant 0
pop local 0
push constant 5
pop local 1
label LOOP
push local 1
if-goto BODY
goto END
label BODY
push local 0
push local 1
add
pop local 0
push local 1
push constant 1
sub
pop local 1
goto LOOP
label END
push local 0
`

	c := run(t, vmFile{"Main.vm", source})
	assert.Equal(uint16(15), c.Ram[300])
	assert.Equal(uint16(0), c.Ram[301])
	assert.Equal(uint16(15), top(c))
	assert.Equal(uint16(257), c.Ram[cpu.ADDR_SP])
}

func TestTranslatorBranchTrue(t *testing.T) {
	table := []struct {
		cond  string
		taken bool
	}{
		{"push constant 1\npush constant 1\neq", true},
		{"push constant 1\npush constant 2\neq", false},
		{"push constant 0\npush constant 5\nsub", true},
		{"push constant 32768", true},
		{"push constant 1", true},
		{"push constant 0", false},
	}

	for _, entry := range table {
		source := entry.cond + "\nif-goto T\npush constant 9\nlabel T\n"
		t.Run(source, func(t *testing.T) {
			c := run(t, vmFile{"Main.vm", source})
			if entry.taken {
				assert.Equal(t, uint16(256), c.Ram[cpu.ADDR_SP])
			} else {
				assert.Equal(t, uint16(257), c.Ram[cpu.ADDR_SP])
				assert.Equal(t, uint16(9), c.Ram[256])
			}
		})
	}
}

func TestTranslatorStackDelta(t *testing.T) {
	assert := assert.New(t)

	source := "push constant 3\npush constant 4\npush constant 5\nlt\nadd\nnot\npush constant 1\nif-goto X\nlabel X\npush constant 9\npop temp 1\nneg"

	delta := 0
	for inst, err := range Parse(strings.NewReader(source)) {
		assert.NoError(err)
		delta += inst.Delta()
	}

	c := run(t, vmFile{"Main.vm", source})
	assert.Equal(256+delta, int(c.Ram[cpu.ADDR_SP]))
	assert.Equal(1, delta)
}

func TestTranslatorErrors(t *testing.T) {
	assert := assert.New(t)

	source := "push temp 8\npush pointer 2\npop constant 1\npush constant 65536\npush local x\nfoo\npush constant 1"

	tr := &Translator{}
	err := tr.Translate("Main.vm", strings.NewReader(source))
	assert.True(errors.Is(err, ErrIndexRange))

	var serr *ErrSyntax
	if assert.True(errors.As(err, &serr)) {
		assert.Equal("Main.vm", serr.File)
		assert.Equal(1, serr.LineNo)
		assert.Equal("push temp 8", serr.Line)
	}

	_, err = tr.Source()
	assert.Error(err)
	for _, expected := range []error{
		ErrIndexRange,
		ErrPopConstant,
		ErrConstantRange,
		ErrParseNumber("x"),
		ErrCommandInvalid("foo"),
	} {
		assert.True(errors.Is(err, expected), "%v", expected)
	}

	// Valid instructions are still translated.
	assert.Equal(7, tr.Loc())
}

func TestTranslatorEmitErrors(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		inst Instruction
		err  error
	}{
		{Instruction{Command: COMMAND_PUSH, Segment: SEGMENT_TEMP, Index: 8}, ErrIndexRange},
		{Instruction{Command: COMMAND_POP, Segment: SEGMENT_POINTER, Index: 2}, ErrIndexRange},
		{Instruction{Command: COMMAND_PUSH, Segment: SEGMENT_LOCAL, Index: -1}, ErrIndexRange},
		{Instruction{Command: COMMAND_POP, Segment: SEGMENT_CONSTANT, Index: 0}, ErrPopConstant},
		{Instruction{Command: COMMAND_PUSH, Segment: SEGMENT_CONSTANT, Index: 65536}, ErrConstantRange},
		{Instruction{Command: COMMAND_PUSH, Segment: SEGMENT_LOCAL, Index: 32768}, ErrIndexRange},
		{Instruction{Command: COMMAND_PUSH, Segment: Segment(12)}, ErrSegmentInvalid("Segment(12)")},
		{Instruction{Command: COMMAND_GOTO, Label: "no label"}, ErrLabelInvalid("no label")},
		{Instruction{Command: Command(99)}, ErrCommandInvalid("Command(99)")},
	}

	tr := &Translator{}
	for _, entry := range table {
		err := tr.Emit("Main", entry.inst)
		assert.True(errors.Is(err, entry.err), "%+v: %v", entry.inst, err)
	}

	// Rejected instructions emit nothing.
	assert.Equal(0, tr.Loc())

	err := tr.Emit("Main", Instruction{Command: COMMAND_PUSH, Segment: SEGMENT_CONSTANT, Index: 65535})
	assert.NoError(err)
}

func TestTranslatorStem(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("Foo", Stem("dir/sub/Foo.vm"))
	assert.Equal("Foo", Stem("Foo"))
	assert.Equal("a.b", Stem("a.b.vm"))

	tr := &Translator{}
	err := tr.Translate("7up.vm", strings.NewReader("push static 0"))
	assert.True(errors.Is(err, ErrStemInvalid("7up")))
	assert.Equal(0, tr.Loc())
}

func FuzzTranslatorArithmetic(f *testing.F) {
	f.Add(uint16(7), uint16(8))
	f.Add(uint16(65535), uint16(1))
	f.Add(uint16(40000), uint16(30000))
	f.Add(uint16(0), uint16(32768))

	f.Fuzz(func(t *testing.T, a, b uint16) {
		push := fmt.Sprintf("push constant %d\npush constant %d\n", a, b)
		source := push + "add\n" + push + "sub\n" + push + "and\n" + push + "or\n" +
			fmt.Sprintf("push constant %d\nneg\npush constant %d\nnot\n", a, b)

		c := run(t, vmFile{"Main.vm", source})
		if c.Ram[cpu.ADDR_SP] != 262 {
			t.Fatalf("sp %d", c.Ram[cpu.ADDR_SP])
		}

		expected := []uint16{a + b, a - b, a & b, a | b, -a, ^b}
		for n, value := range expected {
			if c.Ram[256+n] != value {
				t.Fatalf("%d, %d: result %d is %#04x, expected %#04x", a, b, n, c.Ram[256+n], value)
			}
		}
	})
}

func FuzzTranslatorCompare(f *testing.F) {
	f.Add(int16(5), int16(3))
	f.Add(int16(32767), int16(-2))
	f.Add(int16(-32768), int16(1))
	f.Add(int16(-1), int16(-1))

	f.Fuzz(func(t *testing.T, x, y int16) {
		push := fmt.Sprintf("push constant %d\npush constant %d\n", uint16(x), uint16(y))
		source := push + "eq\n" + push + "gt\n" + push + "lt\n"

		c := run(t, vmFile{"Main.vm", source})
		if c.Ram[cpu.ADDR_SP] != 259 {
			t.Fatalf("sp %d", c.Ram[cpu.ADDR_SP])
		}

		truth := func(cond bool) uint16 {
			if cond {
				return 0xffff
			}
			return 0
		}

		expected := []uint16{truth(x == y), truth(x > y), truth(x < y)}
		for n, value := range expected {
			if c.Ram[256+n] != value {
				t.Fatalf("%d, %d: result %d is %#04x, expected %#04x", x, y, n, c.Ram[256+n], value)
			}
		}
	})
}
