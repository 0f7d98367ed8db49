// Package wasm implements the §3/§4 "Instruction model & builder": a typed
// representation of the WebAssembly instructions this core can emit, and a
// per-function Builder that accumulates them alongside a local-variable
// declaration list.
package wasm

import (
	"fmt"

	"watc/internal/types"
)

// Instruction is the closed set of WebAssembly instruction shapes this
// core emits or rewrites. It intentionally carries no operand/use-chain
// bookkeeping (unlike an SSA IR): the core emits a flat, ordered
// instruction list per function body, not a value graph.
type Instruction interface {
	instr()
	String() string
}

// Const pushes a constant of the given machine type.
type Const struct {
	Machine  types.Machine
	IntVal   int64   // valid for I32, I64
	FloatVal float64 // valid for F32, F64
}

func (*Const) instr() {}
func (c *Const) String() string {
	if c.Machine == types.F32 || c.Machine == types.F64 {
		return fmt.Sprintf("%s.const %g", c.Machine, c.FloatVal)
	}
	return fmt.Sprintf("%s.const %d", c.Machine, c.IntVal)
}

// UnaryOp is a machine-type-preserving unary operator.
type UnaryOp int

const (
	Eqz UnaryOp = iota
	Clz
	Ctz
	Popcnt
	Abs
	Neg
	Sqrt
	Ceil
	Floor
	Trunc
	Nearest
)

var unaryMnemonic = map[UnaryOp]string{
	Eqz: "eqz", Clz: "clz", Ctz: "ctz", Popcnt: "popcnt",
	Abs: "abs", Neg: "neg", Sqrt: "sqrt", Ceil: "ceil",
	Floor: "floor", Trunc: "trunc", Nearest: "nearest",
}

// Unary applies a machine-type-preserving unary operator. Eqz always
// produces an I32 result regardless of Machine.
type Unary struct {
	Machine types.Machine
	Op      UnaryOp
}

func (*Unary) instr() {}
func (u *Unary) String() string {
	return fmt.Sprintf("%s.%s", u.Machine, unaryMnemonic[u.Op])
}

// BinaryOp is a binary arithmetic, bitwise, or comparison operator.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Rem
	BAnd
	BOr
	BXor
	Shl
	Shr
	BEq
	BNe
	BLt
	BLe
	BGt
	BGe
	FMin
	FMax
	FCopysign
)

var binaryMnemonic = map[BinaryOp]string{
	Add: "add", Sub: "sub", Mul: "mul", Div: "div", Rem: "rem",
	BAnd: "and", BOr: "or", BXor: "xor", Shl: "shl", Shr: "shr",
	BEq: "eq", BNe: "ne", BLt: "lt", BLe: "le", BGt: "gt", BGe: "ge",
	FMin: "min", FMax: "max", FCopysign: "copysign",
}

// signedSuffixed is the set of operators whose mnemonic carries a _s/_u
// suffix for integer machine types.
var signedSuffixed = map[BinaryOp]bool{
	Div: true, Rem: true, Shr: true, BLt: true, BLe: true, BGt: true, BGe: true,
}

// Binary applies a binary operator to the top two stack values. Signed is
// meaningful only for the operators in signedSuffixed and only for
// integer machine types.
type Binary struct {
	Machine types.Machine
	Op      BinaryOp
	Signed  bool
}

func (*Binary) instr() {}
func (b *Binary) String() string {
	mnem := binaryMnemonic[b.Op]
	if signedSuffixed[b.Op] && b.Machine != types.F32 && b.Machine != types.F64 {
		if b.Signed {
			mnem += "_s"
		} else {
			mnem += "_u"
		}
	}
	return fmt.Sprintf("%s.%s", b.Machine, mnem)
}

// Convert covers every cross-machine-type conversion of §4.4: wrap64,
// extend32, integer<->float convert/trunc, and promote32/demote64. The
// concrete mnemonic is derived from (From, To, Signed).
type Convert struct {
	From   types.Machine
	To     types.Machine
	Signed bool
}

func (*Convert) instr() {}
func (c *Convert) String() string {
	suffix := ""
	isIntTo := c.To != types.F32 && c.To != types.F64
	isIntFrom := c.From != types.F32 && c.From != types.F64
	switch {
	case isIntFrom && isIntTo && c.To == types.I32 && c.From == types.I64:
		return "i32.wrap_i64"
	case isIntFrom && isIntTo && c.From == types.I32 && c.To == types.I64:
		if c.Signed {
			return "i64.extend_i32_s"
		}
		return "i64.extend_i32_u"
	case isIntFrom && !isIntTo:
		if c.Signed {
			suffix = "_s"
		} else {
			suffix = "_u"
		}
		return fmt.Sprintf("%s.convert_%s%s", c.To, c.From, suffix)
	case !isIntFrom && isIntTo:
		if c.Signed {
			suffix = "_s"
		} else {
			suffix = "_u"
		}
		return fmt.Sprintf("%s.trunc_%s%s", c.To, c.From, suffix)
	case c.From == types.F32 && c.To == types.F64:
		return "f64.promote_f32"
	case c.From == types.F64 && c.To == types.F32:
		return "f32.demote_f64"
	default:
		return fmt.Sprintf("%s.convert_%s", c.To, c.From)
	}
}

// Tighten narrows a 32-bit value to an 8- or 16-bit representation by
// masking and, for signed targets, sign-extending (§4.4 "tighten").
type Tighten struct {
	Width  int // 8 or 16
	Signed bool
}

func (*Tighten) instr() {}
func (t *Tighten) String() string {
	if t.Signed {
		return fmt.Sprintf("tighten.i%d_s", t.Width)
	}
	return fmt.Sprintf("tighten.i%d_u", t.Width)
}

// Mask returns the AND mask this Tighten rewrites to (0xff or 0xffff).
func (t *Tighten) Mask() int64 {
	if t.Width == 8 {
		return 0xff
	}
	return 0xffff
}

// Select consumes (value1, value2, condition) per §9's note on
// WebAssembly's select argument order.
type Select struct {
	Machine types.Machine
}

func (*Select) instr() {}
func (s *Select) String() string { return "select" }

// LocalGet, LocalSet, LocalTee, GlobalGet, GlobalSet reference the
// function's machine-name-mangled local/global namespace.
type LocalGet struct{ Name string }
type LocalSet struct{ Name string }
type LocalTee struct{ Name string }
type GlobalGet struct{ Name string }
type GlobalSet struct{ Name string }

func (*LocalGet) instr()   {}
func (*LocalSet) instr()   {}
func (*LocalTee) instr()   {}
func (*GlobalGet) instr()  {}
func (*GlobalSet) instr()  {}
func (l *LocalGet) String() string  { return "local.get " + l.Name }
func (l *LocalSet) String() string  { return "local.set " + l.Name }
func (l *LocalTee) String() string  { return "local.tee " + l.Name }
func (g *GlobalGet) String() string { return "global.get " + g.Name }
func (g *GlobalSet) String() string { return "global.set " + g.Name }

// Load reads Width bits (or the full machine width when Width==0) from
// memory at the top-of-stack address plus Offset.
type Load struct {
	Machine types.Machine
	Width   int // 0 (full machine width), 8, 16, or 32
	Signed  bool
	Offset  int
}

func (*Load) instr() {}
func (l *Load) String() string {
	if l.Width == 0 || l.Width == machineBits(l.Machine) {
		return fmt.Sprintf("%s.load offset=%d", l.Machine, l.Offset)
	}
	suffix := "u"
	if l.Signed {
		suffix = "s"
	}
	return fmt.Sprintf("%s.load%d_%s offset=%d", l.Machine, l.Width, suffix, l.Offset)
}

// Store writes Width bits (or the full machine width when Width==0) to
// memory at the top-of-stack address plus Offset.
type Store struct {
	Machine types.Machine
	Width   int
	Offset  int
}

func (*Store) instr() {}
func (s *Store) String() string {
	if s.Width == 0 || s.Width == machineBits(s.Machine) {
		return fmt.Sprintf("%s.store offset=%d", s.Machine, s.Offset)
	}
	return fmt.Sprintf("%s.store%d offset=%d", s.Machine, s.Width, s.Offset)
}

func machineBits(m types.Machine) int {
	switch m {
	case types.I32, types.F32:
		return 32
	default:
		return 64
	}
}

// If models `if (...) then Then else Else`; Else may be empty. It carries
// no label of its own: only Block/Loop are branch targets in this model.
type If struct {
	Then []Instruction
	Else []Instruction
}

func (*If) instr() {}
func (i *If) String() string { return "if" }

// Block and Loop are the two labeled control constructs this core emits.
type Block struct {
	Label string
	Body  []Instruction
}

func (*Block) instr() {}
func (b *Block) String() string { return "block " + b.Label }

type Loop struct {
	Label string
	Body  []Instruction
}

func (*Loop) instr() {}
func (l *Loop) String() string { return "loop " + l.Label }

// Br and BrIf transfer control to an enclosing Block or Loop's label.
type Br struct{ Label string }
type BrIf struct{ Label string }

func (*Br) instr()   {}
func (*BrIf) instr() {}
func (b *Br) String() string   { return "br " + b.Label }
func (b *BrIf) String() string { return "br_if " + b.Label }

// Return ends the function, consuming its result value if any.
type Return struct{}

func (*Return) instr()          {}
func (r *Return) String() string { return "return" }
