package wasm

import (
	"fmt"

	"github.com/pkg/errors"

	"watc/internal/types"
)

// Local is one declared function-local: its machine-mangled name, the
// source-level type it was declared with, and the machine type used for
// local.get/set/tee.
type Local struct {
	Name       string
	SourceType types.Type
	Machine    types.Machine
}

// Builder accumulates one function's body: its ordered instruction list,
// its declared locals (parameters first, then LocalVariableStmt locals,
// then any reserved temporaries), and its result machine type or, after
// SetVoid, the flag that it has no result. It is not safe for concurrent use by
// multiple goroutines; §5 calls for one Builder per function, with
// independent functions compiled on independent Builders.
type Builder struct {
	name    string
	locals  []Local
	byName  map[string]int
	instrs  []Instruction
	result  types.Machine
	isVoid  bool
	tempSeq map[types.Machine]string
}

// NewBuilder starts a builder for the named function.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:    name,
		byName:  make(map[string]int),
		tempSeq: make(map[types.Machine]string),
	}
}

// SetResult records the function's result machine type. Call SetVoid
// instead when the function has no result.
func (b *Builder) SetResult(m types.Machine) {
	b.result = m
	b.isVoid = false
}

// SetVoid marks the function as returning no value.
func (b *Builder) SetVoid() {
	b.isVoid = true
}

// IsVoid reports whether the function has no result.
func (b *Builder) IsVoid() bool { return b.isVoid }

// Result returns the function's result machine type; meaningless if
// IsVoid is true.
func (b *Builder) Result() types.Machine { return b.result }

// DeclareLocal registers a new local under its machine-mangled name. It
// is a fatal internal-invariant violation (§7) to declare the same
// mangled name twice: name collisions are caught earlier, at the
// source-level duplicate-param/duplicate-local check in §4.1.
func (b *Builder) DeclareLocal(name string, sourceType types.Type, machine types.Machine) *Local {
	if _, exists := b.byName[name]; exists {
		panic(errors.Errorf("wasm: local %q declared twice in function %q", name, b.name))
	}
	b.locals = append(b.locals, Local{Name: name, SourceType: sourceType, Machine: machine})
	b.byName[name] = len(b.locals) - 1
	return &b.locals[len(b.locals)-1]
}

// HasLocal reports whether name has already been declared.
func (b *Builder) HasLocal(name string) bool {
	_, ok := b.byName[name]
	return ok
}

// Lookup returns the declared local with the given machine name.
func (b *Builder) Lookup(name string) (*Local, bool) {
	i, ok := b.byName[name]
	if !ok {
		return nil, false
	}
	return &b.locals[i], true
}

// Locals returns the declared locals in declaration order.
func (b *Builder) Locals() []Local { return b.locals }

// FilterLocals drops every declared local for which keep returns false,
// preserving the relative order of the ones kept. Used by the peephole
// optimizer's local-usage sweep (§4.6) to remove locals left with no
// remaining reference after optimization.
func (b *Builder) FilterLocals(keep func(Local) bool) {
	kept := make([]Local, 0, len(b.locals))
	newByName := make(map[string]int, len(b.locals))
	for _, l := range b.locals {
		if keep(l) {
			newByName[l.Name] = len(kept)
			kept = append(kept, l)
		}
	}
	b.locals = kept
	b.byName = newByName
}

// TempLocal returns the reserved scratch local for a machine type,
// declaring it on first use. Per §3 there is at most one temp local per
// machine type per function, reused by every place that needs a
// throwaway; the integer abs builtin expansion is its only caller.
func (b *Builder) TempLocal(m types.Machine) string {
	if name, ok := b.tempSeq[m]; ok {
		return name
	}
	name := fmt.Sprintf("$tmp_%s", m)
	b.tempSeq[m] = name
	b.DeclareLocal(name, &types.IntrinsicType{Name: machineIntrinsic(m)}, m)
	return name
}

func machineIntrinsic(m types.Machine) types.Intrinsic {
	switch m {
	case types.I32:
		return types.I32Intrinsic
	case types.I64:
		return types.I64Intrinsic
	case types.F32:
		return types.F32Intrinsic
	default:
		return types.F64Intrinsic
	}
}

// Emit appends an instruction to the function body's top-level sequence.
func (b *Builder) Emit(i Instruction) {
	b.instrs = append(b.instrs, i)
}

// Instructions returns the accumulated top-level instruction sequence.
func (b *Builder) Instructions() []Instruction { return b.instrs }

// SetInstructions replaces the top-level instruction sequence, used by
// the peephole optimizer to install a rewritten list.
func (b *Builder) SetInstructions(is []Instruction) { b.instrs = is }

// Name returns the function name this builder is compiling.
func (b *Builder) Name() string { return b.name }
