// Package vm translates the stack machine language into assembly.
//
// A program is a sequence of stack commands: push and pop between the stack
// and a memory segment, arithmetic and logic on the top of the stack, and
// label, goto and if-goto for control flow. The Translator emits, for each
// command, a fixed assembly template that keeps the stack pointer (RAM[0])
// addressing the next free stack slot.
package vm
