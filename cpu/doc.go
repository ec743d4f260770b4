// Package cpu implements the 16-bit computer and its assembler.
//
// The computer has two registers (A and D), a program counter, a 32K word
// instruction ROM and a 32K word data RAM. Every instruction word is either an
// address instruction, which loads a 15-bit constant into A, or a compute
// instruction, which feeds D and either A or RAM[A] through the ALU, stores the
// result in any of A, D and RAM[A], and optionally jumps to the address in A.
//
// The assembler is a two pass symbolic assembler: the first pass collects label
// addresses, the second resolves symbols (allocating variables from address 16)
// and emits one machine word per instruction line.
package cpu
