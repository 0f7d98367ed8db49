package ast

import (
	"fmt"
	"math/big"

	"watc/internal/types"
)

// Expr is the closed set of expression node variants from §3.
type Expr interface {
	Node
	isExpr()
}

// LiteralSource distinguishes how a literal value was produced, preserved
// through folding per §3 ("Invariants").
type LiteralSource int

const (
	SourceInt LiteralSource = iota
	SourceReal
	SourceBigInt
)

// Literal is a bounded integer, a floating value, or an arbitrary-precision
// integer (used when a decimal/binary/hex literal exceeds the safe integer
// range).
type Literal struct {
	Position Position
	Source   LiteralSource
	Int      int64    // valid when Source == SourceInt
	Real     float64  // valid when Source == SourceReal
	Big      *big.Int // valid when Source == SourceBigInt
}

func (l *Literal) isExpr()          {}
func (l *Literal) Pos() Position    { return l.Position }
func (l *Literal) EndPos() Position { return l.Position }
func (l *Literal) Type() NodeType   { return LiteralNode }
func (l *Literal) String() string {
	switch l.Source {
	case SourceInt:
		return fmt.Sprintf("%d", l.Int)
	case SourceReal:
		return fmt.Sprintf("%g", l.Real)
	case SourceBigInt:
		return l.Big.String()
	default:
		return "<bad literal>"
	}
}

// NewIntLiteral builds a bounded-integer literal.
func NewIntLiteral(pos Position, v int64) *Literal {
	return &Literal{Position: pos, Source: SourceInt, Int: v}
}

// NewRealLiteral builds a floating literal.
func NewRealLiteral(pos Position, v float64) *Literal {
	return &Literal{Position: pos, Source: SourceReal, Real: v}
}

// NewBigLiteral builds an arbitrary-precision integer literal.
func NewBigLiteral(pos Position, v *big.Int) *Literal {
	return &Literal{Position: pos, Source: SourceBigInt, Big: v}
}

// Identifier references a name visible at the point of use: a local,
// parameter, global, memory variable, or named constant.
type Identifier struct {
	Position Position
	Name     string
}

func (i *Identifier) isExpr()          {}
func (i *Identifier) Pos() Position    { return i.Position }
func (i *Identifier) EndPos() Position { return i.Position }
func (i *Identifier) Type() NodeType   { return IdentifierNode }
func (i *Identifier) String() string   { return i.Name }

// UnaryOp is one of the five unary operators of §4.3.
type UnaryOp string

const (
	UnaryPlus    UnaryOp = "+"
	UnaryMinus   UnaryOp = "-"
	UnaryNot     UnaryOp = "!"
	UnaryBitNot  UnaryOp = "~"
	UnaryAddress UnaryOp = "&"
)

// UnaryExpression applies a prefix operator to a single operand.
type UnaryExpression struct {
	Position Position
	Op       UnaryOp
	Operand  Expr
}

func (u *UnaryExpression) isExpr()          {}
func (u *UnaryExpression) Pos() Position    { return u.Position }
func (u *UnaryExpression) EndPos() Position { return u.Operand.EndPos() }
func (u *UnaryExpression) Type() NodeType   { return UnaryExprNode }
func (u *UnaryExpression) String() string   { return fmt.Sprintf("%s%s", u.Op, u.Operand) }

// BinaryOp is one of the binary operators the emitter and simplifier
// recognize (§4.2, §4.3).
type BinaryOp string

const (
	OpAdd    BinaryOp = "+"
	OpSub    BinaryOp = "-"
	OpMul    BinaryOp = "*"
	OpDiv    BinaryOp = "/"
	OpMod    BinaryOp = "%"
	OpAnd    BinaryOp = "&"
	OpOr     BinaryOp = "|"
	OpXor    BinaryOp = "^"
	OpShl    BinaryOp = "<<"
	OpShr    BinaryOp = ">>"  // signed/arithmetic shift-right
	OpUShr   BinaryOp = ">>>" // unsigned/logical shift-right
	OpEq     BinaryOp = "=="
	OpNe     BinaryOp = "!="
	OpLt     BinaryOp = "<"
	OpLe     BinaryOp = "<="
	OpGt     BinaryOp = ">"
	OpGe     BinaryOp = ">="
)

// Commutative is the set of commutative binary operators from §4.2 rule 2.
var Commutative = map[BinaryOp]bool{
	OpEq: true, OpNe: true, OpAnd: true, OpMul: true, OpAdd: true, OpXor: true, OpOr: true,
}

// Comparisons is the set of operators whose emitted result type is always i32.
var Comparisons = map[BinaryOp]bool{
	OpEq: true, OpNe: true, OpLt: true, OpLe: true, OpGt: true, OpGe: true,
}

// IntegerOnly is the set of operators rejected when the result type is a
// float (§4.3).
var IntegerOnly = map[BinaryOp]bool{
	OpMod: true, OpAnd: true, OpOr: true, OpXor: true, OpShl: true, OpShr: true, OpUShr: true,
}

// BinaryExpression combines two operands with an infix operator.
type BinaryExpression struct {
	Position Position
	Op       BinaryOp
	Left     Expr
	Right    Expr
}

func (b *BinaryExpression) isExpr()          {}
func (b *BinaryExpression) Pos() Position    { return b.Left.Pos() }
func (b *BinaryExpression) EndPos() Position { return b.Right.EndPos() }
func (b *BinaryExpression) Type() NodeType   { return BinaryExprNode }
func (b *BinaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// ConditionalExpression is `cond ? then : else`.
type ConditionalExpression struct {
	Position  Position
	Condition Expr
	Then      Expr
	Else      Expr
}

func (c *ConditionalExpression) isExpr()          {}
func (c *ConditionalExpression) Pos() Position    { return c.Position }
func (c *ConditionalExpression) EndPos() Position { return c.Else.EndPos() }
func (c *ConditionalExpression) Type() NodeType   { return ConditionalExprNode }
func (c *ConditionalExpression) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", c.Condition, c.Then, c.Else)
}

// TypeCast is `T(x)`.
type TypeCast struct {
	Position   Position
	TargetName types.Intrinsic
	Operand    Expr
}

func (t *TypeCast) isExpr()          {}
func (t *TypeCast) Pos() Position    { return t.Position }
func (t *TypeCast) EndPos() Position { return t.Operand.EndPos() }
func (t *TypeCast) Type() NodeType   { return TypeCastNode }
func (t *TypeCast) String() string   { return fmt.Sprintf("%s(%s)", t.TargetName, t.Operand) }

// MemberAccess is `object.memberName`.
type MemberAccess struct {
	Position   Position
	Object     Expr
	MemberName string
}

func (m *MemberAccess) isExpr()          {}
func (m *MemberAccess) Pos() Position    { return m.Object.Pos() }
func (m *MemberAccess) EndPos() Position { return m.Position }
func (m *MemberAccess) Type() NodeType   { return MemberAccessNode }
func (m *MemberAccess) String() string   { return fmt.Sprintf("%s.%s", m.Object, m.MemberName) }

// ItemAccess is `array[index]`.
type ItemAccess struct {
	Position Position
	Array    Expr
	Index    Expr
}

func (a *ItemAccess) isExpr()          {}
func (a *ItemAccess) Pos() Position    { return a.Array.Pos() }
func (a *ItemAccess) EndPos() Position { return a.Position }
func (a *ItemAccess) Type() NodeType   { return ItemAccessNode }
func (a *ItemAccess) String() string   { return fmt.Sprintf("%s[%s]", a.Array, a.Index) }

// DereferenceExpression is `*operand`.
type DereferenceExpression struct {
	Position Position
	Operand  Expr
}

func (d *DereferenceExpression) isExpr()          {}
func (d *DereferenceExpression) Pos() Position    { return d.Position }
func (d *DereferenceExpression) EndPos() Position { return d.Operand.EndPos() }
func (d *DereferenceExpression) Type() NodeType   { return DereferenceNode }
func (d *DereferenceExpression) String() string   { return fmt.Sprintf("*%s", d.Operand) }

// BuiltInName is one of the built-in functions recognized by §4.3/§4.2.
type BuiltInName string

const (
	BuiltInAbs      BuiltInName = "abs"
	BuiltInMin      BuiltInName = "min"
	BuiltInMax      BuiltInName = "max"
	BuiltInFloor    BuiltInName = "floor"
	BuiltInCeil     BuiltInName = "ceil"
	BuiltInTrunc    BuiltInName = "trunc"
	BuiltInNearest  BuiltInName = "nearest"
	BuiltInSqrt     BuiltInName = "sqrt"
	BuiltInClz      BuiltInName = "clz"
	BuiltInCtz      BuiltInName = "ctz"
	BuiltInPopcnt   BuiltInName = "popcnt"
	BuiltInNeg      BuiltInName = "neg"
	BuiltInCopysign BuiltInName = "copysign"
)

// FloatOnlyBuiltins reject integer argument types (§4.3).
var FloatOnlyBuiltins = map[BuiltInName]bool{
	BuiltInCeil: true, BuiltInFloor: true, BuiltInNearest: true,
	BuiltInSqrt: true, BuiltInNeg: true, BuiltInCopysign: true,
}

// IntegerOnlyBuiltins reject float argument types (§4.3).
var IntegerOnlyBuiltins = map[BuiltInName]bool{
	BuiltInClz: true, BuiltInCtz: true, BuiltInPopcnt: true,
}

// BuiltInFunctionInvocation calls one of the built-in functions.
type BuiltInFunctionInvocation struct {
	Position Position
	Name     BuiltInName
	Args     []Expr
}

func (c *BuiltInFunctionInvocation) isExpr()          {}
func (c *BuiltInFunctionInvocation) Pos() Position    { return c.Position }
func (c *BuiltInFunctionInvocation) EndPos() Position { return c.Position }
func (c *BuiltInFunctionInvocation) Type() NodeType   { return BuiltInCallNode }
func (c *BuiltInFunctionInvocation) String() string   { return fmt.Sprintf("%s(...)", c.Name) }

// FunctionInvocation calls a user-defined function. Lowering it is out of
// scope (§4.3); the shape is kept so the tree-dispatch switch stays
// exhaustive and so the simplifier can still recurse into its arguments.
type FunctionInvocation struct {
	Position Position
	Callee   Expr
	Args     []Expr
}

func (c *FunctionInvocation) isExpr()          {}
func (c *FunctionInvocation) Pos() Position    { return c.Position }
func (c *FunctionInvocation) EndPos() Position { return c.Position }
func (c *FunctionInvocation) Type() NodeType   { return FunctionInvocationNode }
func (c *FunctionInvocation) String() string   { return fmt.Sprintf("%s(...)", c.Callee) }

// SizeOfExpression is `sizeof(typeSpec)`.
type SizeOfExpression struct {
	Position Position
	TypeSpec types.Type
}

func (s *SizeOfExpression) isExpr()          {}
func (s *SizeOfExpression) Pos() Position    { return s.Position }
func (s *SizeOfExpression) EndPos() Position { return s.Position }
func (s *SizeOfExpression) Type() NodeType   { return SizeOfNode }
func (s *SizeOfExpression) String() string   { return fmt.Sprintf("sizeof(%s)", s.TypeSpec) }
