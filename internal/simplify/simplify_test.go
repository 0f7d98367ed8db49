package simplify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"watc/internal/ast"
	"watc/internal/decls"
	"watc/internal/types"
)

var pos = ast.Position{Filename: "t.src", Line: 1, Column: 1}

func lit(v int64) *ast.Literal { return ast.NewIntLiteral(pos, v) }

func ident(name string) *ast.Identifier { return &ast.Identifier{Position: pos, Name: name} }

func bin(op ast.BinaryOp, l, r ast.Expr) *ast.BinaryExpression {
	return &ast.BinaryExpression{Position: pos, Op: op, Left: l, Right: r}
}

func newSimplifier() *Simplifier {
	return New(decls.NewMemTable(), decls.NewOracle(), nil)
}

func TestThreePlusFourTimesTwo(t *testing.T) {
	// 3 + 4*2 -> 11
	e := bin(ast.OpAdd, lit(3), bin(ast.OpMul, lit(4), lit(2)))
	out := newSimplifier().Simplify(e)
	got, ok := out.(*ast.Literal)
	assert.True(t, ok)
	assert.Equal(t, int64(11), got.Int)
}

func TestXPlusZeroIsX(t *testing.T) {
	e := bin(ast.OpAdd, ident("x"), lit(0))
	out := newSimplifier().Simplify(e)
	id, ok := out.(*ast.Identifier)
	assert.True(t, ok)
	assert.Equal(t, "x", id.Name)
}

func TestAdditiveRefold(t *testing.T) {
	// (y - 5) + 8 -> y + 3
	e := bin(ast.OpAdd, bin(ast.OpSub, ident("y"), lit(5)), lit(8))
	out := newSimplifier().Simplify(e)
	b, ok := out.(*ast.BinaryExpression)
	assert.True(t, ok)
	assert.Equal(t, ast.OpAdd, b.Op)
	l, ok := isLiteral(b.Right)
	assert.True(t, ok)
	assert.Equal(t, int64(3), l.Int)
}

func TestConditionalFoldsOnLiteralCondition(t *testing.T) {
	e := &ast.ConditionalExpression{Position: pos, Condition: lit(0), Then: lit(1), Else: lit(2)}
	out := newSimplifier().Simplify(e)
	got, ok := out.(*ast.Literal)
	assert.True(t, ok)
	assert.Equal(t, int64(2), got.Int)
}

func TestConditionalDoesNotFoldWithNonLiteralBranch(t *testing.T) {
	e := &ast.ConditionalExpression{Position: pos, Condition: lit(0), Then: lit(1), Else: ident("z")}
	out := newSimplifier().Simplify(e)
	_, isCond := out.(*ast.ConditionalExpression)
	assert.True(t, isCond)
}

func TestSizeOfArrayResolves(t *testing.T) {
	spec := &types.ArrayType{Elem: &types.IntrinsicType{Name: types.I16}, Count: 4}
	e := &ast.SizeOfExpression{Position: pos, TypeSpec: spec}
	out := newSimplifier().Simplify(e)
	got, ok := out.(*ast.Literal)
	assert.True(t, ok)
	assert.Equal(t, int64(8), got.Int)
}

func TestNamedConstantResolves(t *testing.T) {
	tbl := decls.NewMemTable()
	tbl.Define("LIMIT", &decls.ConstDeclaration{Value: lit(42)})
	s := New(tbl, decls.NewOracle(), nil)
	out := s.Simplify(ident("LIMIT"))
	got, ok := out.(*ast.Literal)
	assert.True(t, ok)
	assert.Equal(t, int64(42), got.Int)
}

func TestSimplifyIsIdempotent(t *testing.T) {
	e := bin(ast.OpAdd, bin(ast.OpSub, ident("y"), lit(5)), lit(8))
	s := newSimplifier()
	once := s.Simplify(e)
	twice := s.Simplify(once)
	assert.Equal(t, once.String(), twice.String())
}

func TestCommutativeLiteralGoesRight(t *testing.T) {
	e := bin(ast.OpAdd, lit(5), ident("x"))
	out := newSimplifier().Simplify(e)
	b, ok := out.(*ast.BinaryExpression)
	assert.True(t, ok)
	_, leftLit := isLiteral(b.Left)
	_, rightLit := isLiteral(b.Right)
	assert.False(t, leftLit)
	assert.True(t, rightLit)
}

func TestAbsBuiltinFolds(t *testing.T) {
	e := &ast.BuiltInFunctionInvocation{Position: pos, Name: ast.BuiltInAbs, Args: []ast.Expr{lit(-7)}}
	out := newSimplifier().Simplify(e)
	got, ok := out.(*ast.Literal)
	assert.True(t, ok)
	assert.Equal(t, int64(7), got.Int)
}

func TestTypeCastOverflowLeavesNodeIntact(t *testing.T) {
	// trunc of an out-of-range f64 (1e300) -> i32 would trap, so it must not fold
	e := &ast.TypeCast{Position: pos, TargetName: types.I32Intrinsic, Operand: ast.NewRealLiteral(pos, 1e300)}
	out := newSimplifier().Simplify(e)
	_, stillLiteral := out.(*ast.Literal)
	assert.False(t, stillLiteral)
}

func TestTypeCastNarrowsToI8(t *testing.T) {
	e := &ast.TypeCast{Position: pos, TargetName: types.I8, Operand: lit(-1)}
	out := newSimplifier().Simplify(e)
	got, ok := out.(*ast.Literal)
	assert.True(t, ok)
	assert.Equal(t, int64(-1), got.Int)
}
