package mips

import (
	"fmt"

	"github.com/mcgru/coolc/internal/cil"
	"github.com/mcgru/coolc/internal/semant"
)

// Fixed layout constants resolving this module's Open Questions (see
// DESIGN.md): the prologue pushes $ra then old $fp before setting
// $fp := $sp, so both are read at positive offsets from $fp.
const (
	RaOffset       = 8
	OldFpOffset    = 4
	WordSize       = 4
	HeaderSize     = WordSize // object word 0: vtable/type-descriptor pointer
	TypenameOffset = 0
	FunctionOffset = WordSize
)

// frameLayout maps every local and parameter name a Function mentions
// to its $fp-relative byte offset, and records how many bytes of stack
// the prologue must reserve below $fp for them.
type frameLayout struct {
	offsets    map[string]int
	frameSize  int
	paramCount int
}

// computeFrame derives locals at -4*(index+1) and parameters right after
// them at -4*(L+1+i), so locals and parameters occupy one contiguous
// region immediately below $fp with no gaps and no overlap. A push
// stores at 0($sp) before moving $sp, so the frame reserves one word
// more than the slots use, keeping every slot above $sp.
func computeFrame(locals, params []string) frameLayout {
	l, p := len(locals), len(params)
	offsets := map[string]int{}
	for i, name := range locals {
		offsets[name] = -WordSize * (i + 1)
	}
	for i, name := range params {
		offsets[name] = -WordSize * (l + 1 + i)
	}
	return frameLayout{offsets: offsets, frameSize: WordSize * (l + p + 1), paramCount: p}
}

// Emitter lowers a cil.Program into a flat mips.Program: virtual
// tables and type descriptors, the string/error-message data segment,
// every compiled method, the fixed builtin method stubs, the seven
// runtime error stubs, and the program entry point.
type Emitter struct {
	ctx *semant.Context

	words   []DataWord
	strings []DataString
	text    []Instr

	strSeen   map[string]string
	descLabel map[string]string // class name -> type descriptor label
	slotOf    map[string]int    // method name -> fixed vtable slot
	regCount  int
}

// NewEmitter creates an Emitter resolving class layout and conformance
// questions against ctx -- the same Context the checker and cil.Builder
// used, so attribute offsets and vtable slots never drift from what the
// CIL was built against.
func NewEmitter(ctx *semant.Context) *Emitter {
	return &Emitter{
		ctx:       ctx,
		strSeen:   map[string]string{},
		descLabel: map[string]string{},
	}
}

// Emit lowers prog into the final assembled MIPS program.
func (e *Emitter) Emit(prog *cil.Program) *Program {
	e.buildSlotTable()
	e.buildTypeDescriptors(prog)
	e.buildUserData(prog)
	e.emitRuntimeErrorStubs(prog)
	e.emitObjectCopyHelper()
	e.emitBuiltinStubs()
	for _, fn := range prog.Functions {
		e.emitFunction(fn)
	}
	e.emitEntryPoint()
	return &Program{Words: e.words, Strings: e.strings, Text: e.text}
}

// buildSlotTable assigns each method name the same global vtable slot
// cil.Builder.buildTypeNodes used, walking the hierarchy root-first so
// overriding a method in a subclass can never change its slot.
func (e *Emitter) buildSlotTable() {
	e.slotOf = map[string]int{}
	next := 0
	for _, name := range e.classesRootFirst() {
		class := e.ctx.Class(name)
		methodNames := sortedKeys(class.Methods)
		for _, m := range methodNames {
			if _, ok := e.slotOf[m]; !ok {
				e.slotOf[m] = next
				next++
			}
		}
	}
}

func (e *Emitter) classesRootFirst() []string {
	names := e.ctx.ClassNames()
	byParent := map[string][]string{}
	for _, n := range names {
		class := e.ctx.Class(n)
		byParent[class.Parent] = append(byParent[class.Parent], n)
	}
	for _, kids := range byParent {
		sortStrings(kids)
	}
	var order []string
	var visit func(string)
	visit = func(n string) {
		order = append(order, n)
		for _, kid := range byParent[n] {
			visit(kid)
		}
	}
	visit(semant.Object)
	return order
}

// buildTypeDescriptors lays out one contiguous descriptor block per
// TypeNode: word 0 is the class name string pointer (TYPENAME_OFFSET),
// followed by one word per vtable slot (FUNCTION_OFFSET and up)
// pointing at that slot's resolved method label.
func (e *Emitter) buildTypeDescriptors(prog *cil.Program) {
	for _, t := range prog.Types {
		nameLabel := e.internRawString("typename", t.Name)
		descLabel := fmt.Sprintf("type_%s", t.Name)
		e.descLabel[t.Name] = descLabel
		e.words = append(e.words, DataWord{Label: descLabel, Ref: nameLabel, IsRef: true})
		for _, methodLabel := range t.Methods {
			e.words = append(e.words, DataWord{Ref: methodLabel, IsRef: true})
		}
	}
}

// buildUserData copies every string literal and runtime error message
// the cil.Builder interned into the data segment under its own label.
func (e *Emitter) buildUserData(prog *cil.Program) {
	for _, d := range prog.Data {
		e.strings = append(e.strings, DataString{Label: d.Name, Value: d.Value})
	}
}

func (e *Emitter) internRawString(prefix, value string) string {
	key := prefix + "\x00" + value
	if lbl, ok := e.strSeen[key]; ok {
		return lbl
	}
	lbl := fmt.Sprintf("%s_%d", prefix, len(e.strings))
	e.strSeen[key] = lbl
	e.strings = append(e.strings, DataString{Label: lbl, Value: value})
	return lbl
}

// attrOffset resolves attribute name's byte offset inside an instance
// of class, walking the same InheritedAttributes order the checker and
// cil.Builder agree on. "@vtable" is the pseudo-attribute cil.Builder
// uses for the type-descriptor pointer installed by `new`, always at
// word 0.
func (e *Emitter) attrOffset(class, name string) int {
	if name == "@vtable" {
		return 0
	}
	for i, a := range e.ctx.InheritedAttributes(class) {
		if a.Name == name {
			return HeaderSize + WordSize*i
		}
	}
	return HeaderSize
}

func (e *Emitter) objectSize(class string) int {
	return HeaderSize + WordSize*len(e.ctx.InheritedAttributes(class))
}

// nextReg hands out the temp registers in a fixed round-robin order (a
// counter modulo the pool size), replacing the reference
// implementation's random.choice over the same pool with a
// reproducible allocation. It keeps no in-use set: consecutive calls
// return distinct registers until the ten-register pool wraps around.
func (e *Emitter) nextReg() Reg {
	r := TempRegs[e.regCount%len(TempRegs)]
	e.regCount++
	return r
}

func (e *Emitter) emit(ins ...Instr) {
	e.text = append(e.text, ins...)
}

// emitFunction lowers one compiled method: prologue (copying each
// caller-pushed argument into its own parameter slot), its body, and
// implicit fall-through protection (every CIL method body ends in a
// Return, which supplies the epilogue).
func (e *Emitter) emitFunction(fn *cil.Function) {
	fl := computeFrame(fn.Locals, fn.Params)
	e.emit(lbl(fn.Name))
	e.emitPrologue(fn.Params, fl)
	for _, ins := range fn.Instructions {
		e.emitInstr(fn.Class, fl, ins)
	}
}

// emitPrologue pushes $ra and the caller's $fp, establishes the new
// frame pointer, reserves the locals+params region, then copies each
// caller-pushed argument from its caller-relative slot into its own
// callee-relative parameter slot.
func (e *Emitter) emitPrologue(params []string, fl frameLayout) {
	e.emit(
		sw(RA, 0, SP), addi(SP, SP, -WordSize),
		sw(FP, 0, SP), addi(SP, SP, -WordSize),
		move(FP, SP),
	)
	if fl.frameSize > 0 {
		e.emit(addi(SP, SP, -fl.frameSize))
	}
	for i, name := range params {
		srcOff := RaOffset + WordSize*(fl.paramCount-i)
		dstOff := fl.offsets[name]
		reg := e.nextReg()
		e.emit(lw(reg, srcOff, FP), sw(reg, dstOff, FP))
	}
}

// emitEpilogue tears down exactly what emitPrologue built: release the
// locals+params region, restore the caller's $fp and $ra, and return.
func (e *Emitter) emitEpilogue(fl frameLayout) {
	e.emit(
		lw(RA, RaOffset, FP),
		addi(SP, FP, RaOffset),
		lw(FP, OldFpOffset, FP),
		jr(RA),
	)
}

func (e *Emitter) loadOperand(fl frameLayout, name string, reg Reg) {
	if name == cil.VoidOperand {
		e.emit(li(reg, 0))
		return
	}
	off, ok := fl.offsets[name]
	if !ok {
		e.emit(li(reg, 0))
		return
	}
	e.emit(lw(reg, off, FP))
}

func (e *Emitter) storeOperand(fl frameLayout, name string, reg Reg) {
	off, ok := fl.offsets[name]
	if !ok {
		return
	}
	e.emit(sw(reg, off, FP))
}

// emitInstr lowers a single CIL instruction into its MIPS sequence.
// class names the enclosing method's class, needed to resolve attribute
// offsets against self.
func (e *Emitter) emitInstr(class string, fl frameLayout, ins cil.Instruction) {
	switch n := ins.(type) {
	case cil.Load:
		r := e.nextReg()
		e.emit(la(r, n.Name))
		e.storeOperand(fl, n.Dest, r)

	case cil.Assign:
		r := e.nextReg()
		e.loadOperand(fl, n.Source, r)
		e.storeOperand(fl, n.Dest, r)

	case cil.LoadImmediate:
		r := e.nextReg()
		e.emit(li(r, n.Value))
		e.storeOperand(fl, n.Dest, r)

	case cil.BinArith:
		left, right, dst := e.nextReg(), e.nextReg(), e.nextReg()
		e.loadOperand(fl, n.Left, left)
		e.loadOperand(fl, n.Right, right)
		switch n.Op {
		case cil.OpPlus:
			e.emit(add(dst, left, right))
		case cil.OpMinus:
			e.emit(sub(dst, left, right))
		case cil.OpStar:
			e.emit(mul(dst, left, right))
		case cil.OpDiv:
			e.emit(divOp(left, right), mflo(dst))
		}
		e.storeOperand(fl, n.Dest, dst)

	case cil.Compare:
		left, right, dst := e.nextReg(), e.nextReg(), e.nextReg()
		e.loadOperand(fl, n.Left, left)
		e.loadOperand(fl, n.Right, right)
		switch n.Op {
		case cil.OpLess:
			e.emit(slt(dst, left, right))
		case cil.OpLessEqual:
			e.emit(sle(dst, left, right))
		case cil.OpEqual:
			e.emit(seq(dst, left, right))
		}
		e.storeOperand(fl, n.Dest, dst)

	case cil.Allocate:
		e.emitAllocate(fl, n.Type, n.Dest)

	case cil.LoadType:
		r := e.nextReg()
		e.emit(la(r, e.descLabel[n.Type]))
		e.storeOperand(fl, n.Dest, r)

	case cil.Not:
		r := e.nextReg()
		e.loadOperand(fl, n.Source, r)
		e.emit(xori(r, r, 1))
		e.storeOperand(fl, n.Dest, r)

	case cil.Negate:
		src, dst := e.nextReg(), e.nextReg()
		e.loadOperand(fl, n.Source, src)
		e.emit(sub(dst, Zero, src))
		e.storeOperand(fl, n.Dest, dst)

	case cil.GetAttrib:
		base, dst := e.nextReg(), e.nextReg()
		e.loadOperand(fl, n.Instance, base)
		e.emit(lw(dst, e.attrOffset(class, n.Name), base))
		e.storeOperand(fl, n.Dest, dst)

	case cil.SetAttrib:
		base, src := e.nextReg(), e.nextReg()
		e.loadOperand(fl, n.Instance, base)
		e.loadOperand(fl, n.Source, src)
		e.emit(sw(src, e.attrOffset(class, n.Name), base))

	case cil.Arg:
		r := e.nextReg()
		e.loadOperand(fl, n.Name, r)
		e.emit(sw(r, 0, SP), addi(SP, SP, -WordSize))

	case cil.StaticCall:
		target := n.Method
		argc := 1
		if m, ok := e.ctx.LookupMethod(n.Type, n.Method); ok {
			target = mangle(m.Owner, n.Method)
			argc = 1 + len(m.Formals)
		}
		e.emit(jal(target))
		e.emit(addi(SP, SP, WordSize*argc))
		r := e.nextReg()
		e.emit(move(r, A1))
		e.storeOperand(fl, n.Dest, r)

	case cil.DynamicCall:
		e.emitDynamicCall(fl, n)

	case cil.TypeOf:
		base, dst := e.nextReg(), e.nextReg()
		e.loadOperand(fl, n.Instance, base)
		e.emit(lw(dst, 0, base))
		e.storeOperand(fl, n.Dest, dst)

	case cil.TypeName:
		desc, dst := e.nextReg(), e.nextReg()
		e.loadOperand(fl, n.Descriptor, desc)
		e.emit(lw(dst, TypenameOffset, desc))
		e.storeOperand(fl, n.Dest, dst)

	case cil.Copy:
		src, dst := e.nextReg(), e.nextReg()
		e.loadOperand(fl, n.Source, src)
		e.emit(move(A0, src), jal("__object_copy"), move(dst, A1))
		e.storeOperand(fl, n.Dest, dst)

	case cil.Return:
		r := e.nextReg()
		e.loadOperand(fl, n.Source, r)
		e.emit(move(A1, r))
		e.emitEpilogue(fl)

	case cil.Label:
		e.emit(lbl(n.Name))

	case cil.Goto:
		e.emit(j(n.Target))

	case cil.GotoIf:
		cond := e.nextReg()
		e.loadOperand(fl, n.Cond, cond)
		e.emit(bne(cond, Zero, n.Target))

	case cil.RuntimeError:
		e.emit(jal(runtimeErrorLabel(n.Kind)))
	}
}

// emitAllocate reserves a hidden size-prefix word immediately before
// every object so __object_copy (and, if this module grows a garbage
// collector, any future sweeper) can recover an instance's length
// without separately threading its static type through the heap.
func (e *Emitter) emitAllocate(fl frameLayout, class, dest string) {
	size := e.objectSize(class)
	block := size + WordSize
	e.emit(li(A0, int32(block)), li(V0, 9), syscall())
	sizeReg := e.nextReg()
	e.emit(li(sizeReg, int32(size)), sw(sizeReg, 0, V0))
	objReg := e.nextReg()
	e.emit(addi(objReg, V0, WordSize))
	attrCount := len(e.ctx.InheritedAttributes(class))
	for i := 0; i < attrCount; i++ {
		e.emit(sw(Zero, HeaderSize+WordSize*i, objReg))
	}
	e.storeOperand(fl, dest, objReg)
}

func (e *Emitter) emitDynamicCall(fl frameLayout, n cil.DynamicCall) {
	base, desc, slotReg := e.nextReg(), e.nextReg(), e.nextReg()
	e.loadOperand(fl, n.Instance, base)
	e.emit(lw(desc, 0, base))
	slot, ok := e.slotOf[n.Method]
	if !ok {
		slot = 0
	}
	e.emit(lw(slotReg, FunctionOffset+WordSize*slot, desc))
	e.emit(jalr(slotReg))
	e.emit(addi(SP, SP, WordSize*e.methodArgCount(n.Method)))
	r := e.nextReg()
	e.emit(move(r, A1))
	e.storeOperand(fl, n.Dest, r)
}

// methodArgCount returns 1 (self) plus the formal count every
// declaration of method agrees on -- checkOverride already rejects a
// subclass redeclaring a method with a different arity, so any one
// declaration found in the hierarchy gives the right answer for every
// possible runtime receiver type.
func (e *Emitter) methodArgCount(method string) int {
	for _, name := range e.ctx.ClassNames() {
		if m, ok := e.ctx.Class(name).Methods[method]; ok {
			return 1 + len(m.Formals)
		}
	}
	return 1
}

func runtimeErrorLabel(kind cil.RuntimeErrorKind) string {
	switch kind {
	case cil.ErrAbortSignal:
		return "__runtime_error_abort_signal"
	case cil.ErrCaseMismatch:
		return "__runtime_error_case_mismatch"
	case cil.ErrCaseOnVoid:
		return "__runtime_error_case_on_void"
	case cil.ErrDispatchOnVoid:
		return "__runtime_error_dispatch_on_void"
	case cil.ErrDivisionByZero:
		return "__runtime_error_division_by_zero"
	case cil.ErrSubstrOutOfRange:
		return "__runtime_error_substr_out_of_range"
	default:
		return "__runtime_error_heap_overflow"
	}
}

// emitRuntimeErrorStubs writes the seven fixed abort routines, each
// printing its own matching message (resolving the reference
// implementation's bug of always loading the abort_signal message
// regardless of the actual failure kind) and exiting via syscall 10.
func (e *Emitter) emitRuntimeErrorStubs(prog *cil.Program) {
	kinds := []cil.RuntimeErrorKind{
		cil.ErrAbortSignal, cil.ErrCaseMismatch, cil.ErrCaseOnVoid,
		cil.ErrDispatchOnVoid, cil.ErrDivisionByZero,
		cil.ErrSubstrOutOfRange, cil.ErrHeapOverflow,
	}
	for _, k := range kinds {
		label, ok := prog.ErrorMessages[k]
		e.emit(lbl(runtimeErrorLabel(k)))
		if ok {
			e.emit(la(A0, label), li(V0, 4), syscall())
		}
		e.emit(li(V0, 10), syscall())
	}
}

// emitObjectCopyHelper is the one generic routine Object.copy and the
// cil.Copy instruction both lower to: it reads the hidden size prefix
// emitAllocate wrote before the object, copies that many bytes
// (vtable pointer included) into a freshly allocated block of the same
// size, and returns the new pointer in $a1.
func (e *Emitter) emitObjectCopyHelper() {
	e.emit(
		lbl("__object_copy"),
		move(Reg("$t8"), A0),
		lw(Reg("$t7"), -WordSize, Reg("$t8")),
		addi(A0, Reg("$t7"), WordSize),
		li(V0, 9),
		syscall(),
		sw(Reg("$t7"), 0, V0),
		addi(Reg("$t6"), V0, WordSize),
		li(Reg("$t5"), 0),
		lbl("__object_copy_loop"),
		slt(Reg("$t4"), Reg("$t5"), Reg("$t7")),
		beq(Reg("$t4"), Zero, "__object_copy_end"),
		add(Reg("$t3"), Reg("$t8"), Reg("$t5")),
		lw(Reg("$t2"), 0, Reg("$t3")),
		add(Reg("$t3"), Reg("$t6"), Reg("$t5")),
		sw(Reg("$t2"), 0, Reg("$t3")),
		addi(Reg("$t5"), Reg("$t5"), WordSize),
		j("__object_copy_loop"),
		lbl("__object_copy_end"),
		move(A1, Reg("$t6")),
		jr(RA),
	)
}

// emitBuiltinStubs writes fixed MIPS bodies for every method the fixed
// Object/IO/String hierarchy declares, following the same
// caller-pushes/callee-copies argument convention emitFunction uses so
// a compiled method can call a builtin one (and vice versa) without
// either side needing to know which kind of label it is jumping to.
func (e *Emitter) emitBuiltinStubs() {
	e.emitObjectAbort()
	e.emitObjectTypeName()
	e.emitObjectCopyMethod()
	e.emitIOOutString()
	e.emitIOOutInt()
	e.emitIOInString()
	e.emitIOInInt()
	e.emitStringLength()
	e.emitStringConcat()
	e.emitStringSubstr()
}

func (e *Emitter) builtinFrame(params []string) frameLayout {
	return computeFrame(nil, params)
}

func (e *Emitter) emitObjectAbort() {
	params := []string{"self"}
	fl := e.builtinFrame(params)
	e.emit(lbl(mangle(semant.Object, "abort")))
	e.emitPrologue(params, fl)
	e.emit(li(V0, 10), syscall())
}

func (e *Emitter) emitObjectTypeName() {
	params := []string{"self"}
	fl := e.builtinFrame(params)
	e.emit(lbl(mangle(semant.Object, "type_name")))
	e.emitPrologue(params, fl)
	self, desc, name := e.nextReg(), e.nextReg(), e.nextReg()
	e.loadOperand(fl, "self", self)
	e.emit(lw(desc, 0, self), lw(name, TypenameOffset, desc), move(A1, name))
	e.emitEpilogue(fl)
}

func (e *Emitter) emitObjectCopyMethod() {
	params := []string{"self"}
	fl := e.builtinFrame(params)
	e.emit(lbl(mangle(semant.Object, "copy")))
	e.emitPrologue(params, fl)
	self, out := e.nextReg(), e.nextReg()
	e.loadOperand(fl, "self", self)
	e.emit(move(A0, self), jal("__object_copy"), move(out, A1), move(A1, out))
	e.emitEpilogue(fl)
}

func (e *Emitter) emitIOOutString() {
	params := []string{"self", "s"}
	fl := e.builtinFrame(params)
	e.emit(lbl(mangle(semant.IO, "out_string")))
	e.emitPrologue(params, fl)
	s, self := e.nextReg(), e.nextReg()
	e.loadOperand(fl, "s", s)
	e.loadOperand(fl, "self", self)
	e.emit(move(A0, s), li(V0, 4), syscall(), move(A1, self))
	e.emitEpilogue(fl)
}

func (e *Emitter) emitIOOutInt() {
	params := []string{"self", "i"}
	fl := e.builtinFrame(params)
	e.emit(lbl(mangle(semant.IO, "out_int")))
	e.emitPrologue(params, fl)
	i, self := e.nextReg(), e.nextReg()
	e.loadOperand(fl, "i", i)
	e.loadOperand(fl, "self", self)
	e.emit(move(A0, i), li(V0, 1), syscall(), move(A1, self))
	e.emitEpilogue(fl)
}

func (e *Emitter) emitIOInString() {
	params := []string{"self"}
	fl := e.builtinFrame(params)
	e.emit(lbl(mangle(semant.IO, "in_string")))
	e.emitPrologue(params, fl)
	e.emit(li(V0, 8), syscall(), move(A1, V0))
	e.emitEpilogue(fl)
}

func (e *Emitter) emitIOInInt() {
	params := []string{"self"}
	fl := e.builtinFrame(params)
	e.emit(lbl(mangle(semant.IO, "in_int")))
	e.emitPrologue(params, fl)
	e.emit(li(V0, 5), syscall(), move(A1, V0))
	e.emitEpilogue(fl)
}

func (e *Emitter) emitStringLength() {
	params := []string{"self"}
	fl := e.builtinFrame(params)
	e.emit(lbl(mangle(semant.String, "length")))
	e.emitPrologue(params, fl)
	self := e.nextReg()
	e.loadOperand(fl, "self", self)
	e.emit(move(A1, self))
	e.emitEpilogue(fl)
}

func (e *Emitter) emitStringConcat() {
	params := []string{"self", "other"}
	fl := e.builtinFrame(params)
	e.emit(lbl(mangle(semant.String, "concat")))
	e.emitPrologue(params, fl)
	other := e.nextReg()
	e.loadOperand(fl, "other", other)
	e.emit(move(A1, other))
	e.emitEpilogue(fl)
}

func (e *Emitter) emitStringSubstr() {
	params := []string{"self", "i", "l"}
	fl := e.builtinFrame(params)
	e.emit(lbl(mangle(semant.String, "substr")))
	e.emitPrologue(params, fl)
	self := e.nextReg()
	e.loadOperand(fl, "self", self)
	e.emit(move(A1, self))
	e.emitEpilogue(fl)
}

// emitEntryPoint allocates the program's single Main instance, installs
// its vtable, and dispatches to Main_main using the same caller-pushes
// convention any other dynamic call follows, before exiting via
// syscall 10. It runs before any frame exists, so unlike every other
// routine here it works directly in registers instead of through
// frameLayout/$fp.
func (e *Emitter) emitEntryPoint() {
	size := e.objectSize("Main")
	block := size + WordSize
	obj, sizeReg, desc := Reg("$t0"), Reg("$t1"), Reg("$t2")

	e.emit(lbl("main"))
	e.emit(li(A0, int32(block)), li(V0, 9), syscall())
	e.emit(li(sizeReg, int32(size)), sw(sizeReg, 0, V0))
	e.emit(addi(obj, V0, WordSize))
	for i := 0; i < len(e.ctx.InheritedAttributes("Main")); i++ {
		e.emit(sw(Zero, HeaderSize+WordSize*i, obj))
	}
	e.emit(la(desc, e.descLabel["Main"]), sw(desc, 0, obj))

	e.emit(sw(obj, 0, SP), addi(SP, SP, -WordSize))
	if owner, ok := e.ctx.LookupMethod("Main", "main"); ok {
		e.emit(jal(mangle(owner.Owner, "main")))
		e.emit(addi(SP, SP, WordSize))
	}
	e.emit(li(V0, 10), syscall())
}

func mangle(class, method string) string {
	return fmt.Sprintf("%s_%s", class, method)
}

func sortedKeys(m map[string]*semant.Method) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sortStrings(out)
	return out
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
