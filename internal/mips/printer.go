package mips

import (
	"strconv"
	"strings"
)

// Print renders p as MIPS assembly text: a .data segment (type
// descriptors and string constants, in the order the emitter produced
// them) followed by a .text segment (every instruction, in order).
// Printer never reorders or optimizes -- that is out of scope for this
// module, same as register allocation beyond the fixed ten-register
// pool.
func Print(p *Program) string {
	var b strings.Builder
	b.WriteString(".data\n")
	for _, w := range p.Words {
		writeWord(&b, w)
	}
	for _, s := range p.Strings {
		writeString(&b, s)
	}
	b.WriteString("\n.text\n")
	b.WriteString(".globl main\n")
	for _, ins := range p.Text {
		if ins.Op == OpLabel {
			b.WriteString(ins.String())
			b.WriteByte('\n')
			continue
		}
		b.WriteByte('\t')
		b.WriteString(ins.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func writeWord(b *strings.Builder, w DataWord) {
	if w.Label != "" {
		b.WriteString(w.Label)
		b.WriteString(":\t")
	} else {
		b.WriteByte('\t')
	}
	b.WriteString(".word ")
	if w.IsRef {
		b.WriteString(w.Ref)
	} else {
		b.WriteString(strconv.Itoa(int(w.Value)))
	}
	b.WriteByte('\n')
}

func writeString(b *strings.Builder, s DataString) {
	b.WriteString(s.Label)
	b.WriteString(":\t.asciiz ")
	b.WriteString(quote(s.Value))
	b.WriteByte('\n')
}

// quote escapes a Go string into a MIPS .asciiz literal. The assembler
// syntax only needs the same handful of escapes C strings do.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
