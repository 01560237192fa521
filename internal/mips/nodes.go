// Package mips implements the final lowering stage: CIL instructions
// and the class/virtual-table layout become a flat list of abstract
// MIPS instructions plus a data segment, following the activation
// record, register allocator, and runtime-error-stub discipline
// fixed by this module's Open Question resolutions (see DESIGN.md).
//
// The teacher has no assembly backend to ground this on directly; the
// closest idiom in the corpus is internal/vm's Chunk -- a flat
// instruction list plus a side constants table -- which this package
// mirrors at the "instruction list + data segment" shape level while
// the actual instruction semantics come from the original COOL
// reference implementation's register-machine discipline
// (_examples/original_source/src/code_gen/mips_builder.py).
package mips

import "fmt"

// Op identifies one MIPS mnemonic this emitter ever produces. The
// emitter only builds instructions from the constants below; the
// printer renders an Op's text as-is and does not validate it.
type Op string

const (
	OpLi     Op = "li"
	OpLa     Op = "la"
	OpMove   Op = "move"
	OpLw     Op = "lw"
	OpSw     Op = "sw"
	OpAdd    Op = "add"
	OpAddi   Op = "addi"
	OpSub    Op = "sub"
	OpMul    Op = "mul"
	OpDiv    Op = "div"
	OpMflo   Op = "mflo"
	OpSlt    Op = "slt"
	OpSle    Op = "sle" // pseudo-op: a <= b, expanded by real assemblers; kept abstract here
	OpSeq    Op = "seq" // pseudo-op: a == b
	OpXori   Op = "xori"
	OpBeq    Op = "beq"
	OpBne    Op = "bne"
	OpJ      Op = "j"
	OpJal    Op = "jal"
	OpJr     Op = "jr"
	OpJalr   Op = "jalr"
	OpSyscall Op = "syscall"
	OpLabel  Op = "label" // pseudo-op: emits "Name:" with no operands
)

// Reg names a MIPS register by its assembler mnemonic.
type Reg string

const (
	Zero Reg = "$zero"
	V0   Reg = "$v0"
	A0   Reg = "$a0"
	A1   Reg = "$a1"
	A2   Reg = "$a2"
	SP   Reg = "$sp"
	FP   Reg = "$fp"
	RA   Reg = "$ra"
)

// TempRegs is the fixed ten-register allocator pool (spec's Non-goal
// on register allocation beyond this one pool): $t0 through $t9.
var TempRegs = []Reg{"$t0", "$t1", "$t2", "$t3", "$t4", "$t5", "$t6", "$t7", "$t8", "$t9"}

// Instr is one abstract MIPS instruction or pseudo-instruction
// (label/directive). Args are pre-rendered operand strings (register
// names, immediates, or `offset(reg)` addressing forms) so the printer
// never has to re-derive addressing-mode syntax.
type Instr struct {
	Op   Op
	Args []string
}

func (i Instr) String() string {
	if i.Op == OpLabel {
		return fmt.Sprintf("%s:", i.Args[0])
	}
	if len(i.Args) == 0 {
		return string(i.Op)
	}
	out := string(i.Op)
	for idx, a := range i.Args {
		if idx == 0 {
			out += " " + a
		} else {
			out += ", " + a
		}
	}
	return out
}

func lbl(name string) Instr           { return Instr{Op: OpLabel, Args: []string{name}} }
func li(dst Reg, v int32) Instr       { return Instr{Op: OpLi, Args: []string{string(dst), fmt.Sprintf("%d", v)}} }
func la(dst Reg, label string) Instr  { return Instr{Op: OpLa, Args: []string{string(dst), label}} }
func move(dst, src Reg) Instr         { return Instr{Op: OpMove, Args: []string{string(dst), string(src)}} }
func lw(dst Reg, off int, base Reg) Instr {
	return Instr{Op: OpLw, Args: []string{string(dst), fmt.Sprintf("%d(%s)", off, base)}}
}
func sw(src Reg, off int, base Reg) Instr {
	return Instr{Op: OpSw, Args: []string{string(src), fmt.Sprintf("%d(%s)", off, base)}}
}
func addi(dst, src Reg, v int) Instr {
	return Instr{Op: OpAddi, Args: []string{string(dst), string(src), fmt.Sprintf("%d", v)}}
}
func add(dst, a, b Reg) Instr { return Instr{Op: OpAdd, Args: []string{string(dst), string(a), string(b)}} }
func sub(dst, a, b Reg) Instr { return Instr{Op: OpSub, Args: []string{string(dst), string(a), string(b)}} }
func mul(dst, a, b Reg) Instr { return Instr{Op: OpMul, Args: []string{string(dst), string(a), string(b)}} }
func divOp(a, b Reg) Instr    { return Instr{Op: OpDiv, Args: []string{string(a), string(b)}} }
func mflo(dst Reg) Instr      { return Instr{Op: OpMflo, Args: []string{string(dst)}} }
func slt(dst, a, b Reg) Instr { return Instr{Op: OpSlt, Args: []string{string(dst), string(a), string(b)}} }
func sle(dst, a, b Reg) Instr { return Instr{Op: OpSle, Args: []string{string(dst), string(a), string(b)}} }
func seq(dst, a, b Reg) Instr { return Instr{Op: OpSeq, Args: []string{string(dst), string(a), string(b)}} }
func xori(dst, src Reg, v int) Instr {
	return Instr{Op: OpXori, Args: []string{string(dst), string(src), fmt.Sprintf("%d", v)}}
}
func beq(a, b Reg, label string) Instr {
	return Instr{Op: OpBeq, Args: []string{string(a), string(b), label}}
}
func bne(a, b Reg, label string) Instr {
	return Instr{Op: OpBne, Args: []string{string(a), string(b), label}}
}
func j(label string) Instr    { return Instr{Op: OpJ, Args: []string{label}} }
func jal(label string) Instr  { return Instr{Op: OpJal, Args: []string{label}} }
func jr(r Reg) Instr          { return Instr{Op: OpJr, Args: []string{string(r)}} }
func jalr(r Reg) Instr        { return Instr{Op: OpJalr, Args: []string{string(r)}} }
func syscall() Instr          { return Instr{Op: OpSyscall} }

// DataWord is one `.word`-typed entry of the data segment: either a
// literal value or a reference to another label's address.
type DataWord struct {
	Label string
	// Exactly one of Value or Ref is meaningful, selected by IsRef.
	Value int32
	Ref   string
	IsRef bool
}

// DataString is one `.asciiz`-typed entry of the data segment.
type DataString struct {
	Label string
	Value string
}

// Program is the final assembled output: a data segment (type
// descriptors, vtables, strings) and a text segment (every compiled
// method plus the fixed runtime stubs and program entry point).
type Program struct {
	Words   []DataWord
	Strings []DataString
	Text    []Instr
}
