package vm

import (
	"fmt"
)

// Command is a VM command type.
type Command int

//go:generate go tool stringer -linecomment -type=Command
const (
	COMMAND_PUSH    = Command(0)  // push
	COMMAND_POP     = Command(1)  // pop
	COMMAND_ADD     = Command(2)  // add
	COMMAND_SUB     = Command(3)  // sub
	COMMAND_NEG     = Command(4)  // neg
	COMMAND_EQ      = Command(5)  // eq
	COMMAND_GT      = Command(6)  // gt
	COMMAND_LT      = Command(7)  // lt
	COMMAND_AND     = Command(8)  // and
	COMMAND_OR      = Command(9)  // or
	COMMAND_NOT     = Command(10) // not
	COMMAND_LABEL   = Command(11) // label
	COMMAND_GOTO    = Command(12) // goto
	COMMAND_IF_GOTO = Command(13) // if-goto
)

// Segment is a VM memory segment.
type Segment int

//go:generate go tool stringer -linecomment -type=Segment
const (
	SEGMENT_CONSTANT = Segment(0) // constant
	SEGMENT_STATIC   = Segment(1) // static
	SEGMENT_TEMP     = Segment(2) // temp
	SEGMENT_POINTER  = Segment(3) // pointer
	SEGMENT_LOCAL    = Segment(4) // local
	SEGMENT_ARGUMENT = Segment(5) // argument
	SEGMENT_THIS     = Segment(6) // this
	SEGMENT_THAT     = Segment(7) // that
)

const (
	TEMP_SIZE    = 8     // Words in the temp segment.
	POINTER_SIZE = 2     // Words in the pointer segment.
	INDEX_MAX    = 32767 // Largest segment index an address instruction can load.
	CONSTANT_MAX = 65535 // Largest constant word.
)

var commandMap = map[string]Command{}
var segmentMap = map[string]Segment{}

func init() {
	for cmd := COMMAND_PUSH; cmd <= COMMAND_IF_GOTO; cmd++ {
		commandMap[cmd.String()] = cmd
	}
	for seg := SEGMENT_CONSTANT; seg <= SEGMENT_THAT; seg++ {
		segmentMap[seg.String()] = seg
	}
}

// Instruction is a single parsed VM command.
type Instruction struct {
	LineNo  int     // Source line of the command.
	Command Command // Command type.
	Segment Segment // Segment, for push and pop.
	Index   int     // Segment index, for push and pop.
	Label   string  // Label, for label, goto and if-goto.
}

// String returns the VM source form of the instruction.
func (inst Instruction) String() string {
	switch inst.Command {
	case COMMAND_PUSH, COMMAND_POP:
		return fmt.Sprintf("%v %v %d", inst.Command, inst.Segment, inst.Index)
	case COMMAND_LABEL, COMMAND_GOTO, COMMAND_IF_GOTO:
		return fmt.Sprintf("%v %v", inst.Command, inst.Label)
	default:
		return inst.Command.String()
	}
}

// Delta returns the change in stack depth caused by the instruction.
func (inst Instruction) Delta() int {
	switch inst.Command {
	case COMMAND_PUSH:
		return 1
	case COMMAND_POP, COMMAND_ADD, COMMAND_SUB, COMMAND_AND, COMMAND_OR,
		COMMAND_EQ, COMMAND_GT, COMMAND_LT, COMMAND_IF_GOTO:
		return -1
	default:
		return 0
	}
}
