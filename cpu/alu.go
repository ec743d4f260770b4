package cpu

// AluControl is the six ALU control bits, zx nx zy ny f no from most to
// least significant.
type AluControl uint16

const (
	ALU_NO = AluControl(1 << iota) // Negate output.
	ALU_F                          // Add if set, bitwise and if clear.
	ALU_NY                         // Negate y.
	ALU_ZY                         // Zero y.
	ALU_NX                         // Negate x.
	ALU_ZX                         // Zero x.
)

// AluResult is the output of one ALU computation.
type AluResult struct {
	Out      uint16
	Zero     bool // Out == 0
	Negative bool // Bit 15 of Out is set.
}

// Alu computes one ALU operation. Negation is bitwise complement, and the
// addition wraps at 16 bits.
func Alu(x, y uint16, ctl AluControl) (res AluResult) {
	if ctl&ALU_ZX != 0 {
		x = 0
	}
	if ctl&ALU_NX != 0 {
		x = ^x
	}
	if ctl&ALU_ZY != 0 {
		y = 0
	}
	if ctl&ALU_NY != 0 {
		y = ^y
	}

	var out uint16
	if ctl&ALU_F != 0 {
		out = x + y
	} else {
		out = x & y
	}

	if ctl&ALU_NO != 0 {
		out = ^out
	}

	res = AluResult{
		Out:      out,
		Zero:     out == 0,
		Negative: (out >> 15) != 0,
	}

	return
}

// Jump returns true if the jump condition is satisfied by the result.
func (res AluResult) Jump(jump CodeJump) bool {
	return (jump&JUMP_EQ != 0 && res.Zero) ||
		(jump&JUMP_LT != 0 && res.Negative && !res.Zero) ||
		(jump&JUMP_GT != 0 && !res.Negative && !res.Zero)
}
