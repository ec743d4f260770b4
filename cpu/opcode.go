package cpu

import (
	"fmt"
	"strings"
)

// Code is a single 16-bit machine word.
type Code uint16

// CodeDest is the destination field of a compute instruction.
type CodeDest uint16

const (
	DEST_M = CodeDest(0b001) // Store to RAM[A].
	DEST_D = CodeDest(0b010) // Store to D.
	DEST_A = CodeDest(0b100) // Store to A.
)

// CodeJump is the jump field of a compute instruction.
type CodeJump uint16

const (
	JUMP_NONE = CodeJump(0b000)
	JUMP_GT   = CodeJump(0b001) // Jump if positive.
	JUMP_EQ   = CodeJump(0b010) // Jump if zero.
	JUMP_GE   = JUMP_GT | JUMP_EQ
	JUMP_LT   = CodeJump(0b100) // Jump if negative.
	JUMP_NE   = JUMP_LT | JUMP_GT
	JUMP_LE   = JUMP_LT | JUMP_EQ
	JUMP_MP   = JUMP_LT | JUMP_EQ | JUMP_GT
)

// CodeComp is the 7-bit computation field: the operand-y select bit
// followed by zx, nx, zy, ny, f, no.
type CodeComp uint16

const (
	COMP_MEMORY = CodeComp(1 << 6) // Operand y is RAM[A] instead of A.
)

const (
	code_COMPUTE = 0b111 << 13 // Compute instruction marker, including the two unused bits.
	code_ADDRESS = 0x7fff      // Address instruction literal mask.
)

// compMap is the assembler's table of legal ALU expressions.
var compMap = map[string]CodeComp{
	"0":   0b0101010,
	"1":   0b0111111,
	"-1":  0b0111010,
	"D":   0b0001100,
	"A":   0b0110000,
	"!D":  0b0001101,
	"!A":  0b0110001,
	"-D":  0b0001111,
	"-A":  0b0110011,
	"D+1": 0b0011111,
	"A+1": 0b0110111,
	"D-1": 0b0001110,
	"A-1": 0b0110010,
	"D+A": 0b0000010,
	"D-A": 0b0010011,
	"A-D": 0b0000111,
	"D&A": 0b0000000,
	"D|A": 0b0010101,
	"M":   0b1110000,
	"!M":  0b1110001,
	"-M":  0b1110011,
	"M+1": 0b1110111,
	"M-1": 0b1110010,
	"D+M": 0b1000010,
	"D-M": 0b1010011,
	"M-D": 0b1000111,
	"D&M": 0b1000000,
	"D|M": 0b1010101,
}

// compName is the reverse of compMap, for disassembly.
var compName = func() map[CodeComp]string {
	names := make(map[CodeComp]string, len(compMap))
	for name, comp := range compMap {
		names[comp] = name
	}
	return names
}()

// jumpMap maps jump mnemonics.
var jumpMap = map[string]CodeJump{
	"JGT": JUMP_GT,
	"JEQ": JUMP_EQ,
	"JGE": JUMP_GE,
	"JLT": JUMP_LT,
	"JNE": JUMP_NE,
	"JLE": JUMP_LE,
	"JMP": JUMP_MP,
}

// String returns the jump mnemonic, or an empty string for no jump.
func (jump CodeJump) String() string {
	for name, code := range jumpMap {
		if code == jump {
			return name
		}
	}
	return ""
}

// String returns the destination registers in A, M, D order.
func (dest CodeDest) String() (str string) {
	if dest&DEST_A != 0 {
		str += "A"
	}
	if dest&DEST_M != 0 {
		str += "M"
	}
	if dest&DEST_D != 0 {
		str += "D"
	}
	return
}

// String returns the ALU expression, or the raw bits if the combination has
// no assembler mnemonic.
func (comp CodeComp) String() string {
	name, ok := compName[comp]
	if !ok {
		return fmt.Sprintf("?%07b", uint16(comp))
	}
	return name
}

// AluControl returns the six ALU control bits.
func (comp CodeComp) AluControl() AluControl {
	return AluControl(comp & 0x3f)
}

// MakeCodeAddress creates an address instruction.
func MakeCodeAddress(value uint16) Code {
	return Code(value & code_ADDRESS)
}

// MakeCodeCompute creates a compute instruction.
func MakeCodeCompute(comp CodeComp, dest CodeDest, jump CodeJump) Code {
	return Code(code_COMPUTE | (uint16(comp&0x7f) << 6) | (uint16(dest&0x7) << 3) | uint16(jump&0x7))
}

// IsAddress returns true for an address instruction.
func (code Code) IsAddress() bool {
	return (code >> 15) == 0
}

// Address returns the literal of an address instruction.
func (code Code) Address() uint16 {
	return uint16(code) & code_ADDRESS
}

// ComputeDecode decodes a compute instruction.
func (code Code) ComputeDecode() (comp CodeComp, dest CodeDest, jump CodeJump) {
	word := uint16(code)
	comp = CodeComp((word >> 6) & 0x7f)
	dest = CodeDest((word >> 3) & 0x7)
	jump = CodeJump((word >> 0) & 0x7)
	return
}

// String returns the assembly language representation of this instruction.
func (code Code) String() string {
	if code.IsAddress() {
		return fmt.Sprintf("@%d", code.Address())
	}

	comp, dest, jump := code.ComputeDecode()

	var sb strings.Builder
	if dest != 0 {
		sb.WriteString(dest.String())
		sb.WriteByte('=')
	}
	sb.WriteString(comp.String())
	if jump != JUMP_NONE {
		sb.WriteByte(';')
		sb.WriteString(jump.String())
	}

	return sb.String()
}
