// Package render implements a minimal WebAssembly text format printer over
// the instruction model of internal/wasm. It is deliberately small: it
// exists only so a compiled function has visible, readable output, not as
// a spec-complete WAT emitter (no module-level imports, exports or memory
// section, no custom name section).
package render

import (
	"fmt"
	"strings"

	"watc/internal/wasm"
)

// Function is everything the renderer needs to print one function: the
// builder's accumulated instructions and locals, split into the leading
// parameters and the rest, since wasm.Builder itself does not distinguish
// them once declared.
type Function struct {
	Name       string
	ParamCount int
	Builder    *wasm.Builder
}

// Printer accumulates WAT text with the teacher's indent-tracking
// strings.Builder style.
type Printer struct {
	indent int
	out    strings.Builder
}

// NewPrinter starts a fresh printer at zero indentation.
func NewPrinter() *Printer { return &Printer{} }

// Module renders a sequence of functions wrapped in a single `(module ...)`.
func Module(fns []Function) string {
	p := NewPrinter()
	p.writeLine("(module")
	p.indent++
	for _, fn := range fns {
		p.printFunction(fn)
	}
	p.indent--
	p.writeLine(")")
	return p.out.String()
}

// RenderFunction renders a single function as a standalone top-level form.
func RenderFunction(fn Function) string {
	p := NewPrinter()
	p.printFunction(fn)
	return p.out.String()
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.out.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.writeIndent()
	p.out.WriteString(fmt.Sprintf(format, args...))
	p.out.WriteString("\n")
}

func (p *Printer) printFunction(fn Function) {
	locals := fn.Builder.Locals()
	params := locals[:min(fn.ParamCount, len(locals))]
	rest := locals[len(params):]

	sig := fmt.Sprintf("(func $%s", fn.Name)
	for _, l := range params {
		sig += fmt.Sprintf(" (param %s %s)", l.Name, l.Machine)
	}
	if !fn.Builder.IsVoid() {
		sig += fmt.Sprintf(" (result %s)", fn.Builder.Result())
	}
	p.writeLine("%s", sig)
	p.indent++

	for _, l := range rest {
		p.writeLine("(local %s %s)", l.Name, l.Machine)
	}

	p.printBlock(fn.Builder.Instructions())

	p.indent--
	p.writeLine(")")
}

// printBlock prints a flat instruction sequence, recursing one extra level
// of indentation into If/Block/Loop bodies.
func (p *Printer) printBlock(instrs []wasm.Instruction) {
	for _, instr := range instrs {
		switch n := instr.(type) {
		case *wasm.If:
			p.writeLine("(if")
			p.indent++
			p.writeLine("(then")
			p.indent++
			p.printBlock(n.Then)
			p.indent--
			p.writeLine(")")
			if len(n.Else) > 0 {
				p.writeLine("(else")
				p.indent++
				p.printBlock(n.Else)
				p.indent--
				p.writeLine(")")
			}
			p.indent--
			p.writeLine(")")
		case *wasm.Block:
			p.writeLine("(block $%s", n.Label)
			p.indent++
			p.printBlock(n.Body)
			p.indent--
			p.writeLine(")")
		case *wasm.Loop:
			p.writeLine("(loop $%s", n.Label)
			p.indent++
			p.printBlock(n.Body)
			p.indent--
			p.writeLine(")")
		default:
			p.writeLine("%s", instrString(instr))
		}
	}
}

// instrString formats a leaf instruction, special-casing Tighten, which
// has no direct WAT mnemonic of its own and renders as its equivalent
// mask/extend comment form.
func instrString(instr wasm.Instruction) string {
	if t, ok := instr.(*wasm.Tighten); ok {
		if t.Signed {
			return fmt.Sprintf("i32.const 0x%x ; tighten.i%d_s", t.Mask(), t.Width)
		}
		return fmt.Sprintf("i32.and (i32.const 0x%x) ; tighten.i%d_u", t.Mask(), t.Width)
	}
	return instr.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
