package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"watc/internal/ast"
	"watc/internal/config"
	"watc/internal/decls"
	"watc/internal/emit"
	"watc/internal/types"
)

func mustParse(t *testing.T, src string) []*ast.FunctionDecl {
	t.Helper()
	prog, err := Parse("t.src", src)
	assert.NoError(t, err)
	decls, err := ConvertProgram(prog)
	assert.NoError(t, err)
	return decls
}

func TestParseFunctionSignature(t *testing.T) {
	fns := mustParse(t, `fn add(a: i32, b: i32): i32 { a; }`)
	assert.Len(t, fns, 1)
	assert.Equal(t, "add", fns[0].Name)
	assert.Len(t, fns[0].Params, 2)
}

func TestParseSimpleFunctionWithLocalAndExpr(t *testing.T) {
	fns := mustParse(t, `
		fn example(x: i32): i32 {
			let y: i32 = x + 4 * 2;
			y;
		}
	`)
	assert.Len(t, fns, 1)
	fn := fns[0]
	assert.Equal(t, "example", fn.Name)
	assert.Len(t, fn.Params, 1)
	assert.Equal(t, "x", fn.Params[0].Name)
	assert.Len(t, fn.Body, 2)

	let, ok := fn.Body[0].(*ast.LocalVariableStmt)
	assert.True(t, ok)
	assert.Equal(t, "y", let.Name)
	bin, ok := let.Init.(*ast.BinaryExpression)
	assert.True(t, ok)
	assert.Equal(t, ast.OpAdd, bin.Op)
}

func TestParseTernaryAndCasts(t *testing.T) {
	fns := mustParse(t, `
		fn pick(cond: i32, a: i32, b: i32): i32 {
			cond ? u32(a) : u32(b);
		}
	`)
	assert.Len(t, fns, 1)
	stmt := fns[0].Body[0].(*ast.ExprStmt)
	cond, ok := stmt.Value.(*ast.ConditionalExpression)
	assert.True(t, ok)
	_, ok = cond.Then.(*ast.TypeCast)
	assert.True(t, ok)
}

func TestParseBuiltinAndSizeof(t *testing.T) {
	fns := mustParse(t, `
		fn f(x: f64): f64 {
			let n: i32 = sizeof(i64);
			abs(x);
		}
	`)
	assert.Len(t, fns, 1)
	let := fns[0].Body[0].(*ast.LocalVariableStmt)
	sz, ok := let.Init.(*ast.SizeOfExpression)
	assert.True(t, ok)
	assert.Equal(t, types.I64Intrinsic, sz.TypeSpec.(*types.IntrinsicType).Name)

	call := fns[0].Body[1].(*ast.ExprStmt).Value.(*ast.BuiltInFunctionInvocation)
	assert.Equal(t, ast.BuiltInAbs, call.Name)
}

func TestParseIndexAccess(t *testing.T) {
	fns := mustParse(t, `
		fn f(p: *i32): i32 {
			p[0];
		}
	`)
	item, ok := fns[0].Body[0].(*ast.ExprStmt).Value.(*ast.ItemAccess)
	assert.True(t, ok)
	_, ok = item.Array.(*ast.Identifier)
	assert.True(t, ok)
}

func TestParseRejectsMalformedSignature(t *testing.T) {
	_, err := Parse("t.src", `fn broken( {`)
	assert.Error(t, err)
}

func TestConvertIntLiteralUsesDefaultThresholdWhenNoConfigGiven(t *testing.T) {
	prog, err := Parse("t.src", `fn f(): i32 { 100; }`)
	assert.NoError(t, err)
	fns, err := ConvertProgram(prog)
	assert.NoError(t, err)

	lit, ok := fns[0].Body[0].(*ast.ExprStmt).Value.(*ast.Literal)
	assert.True(t, ok)
	assert.Equal(t, ast.SourceInt, lit.Source, "100 fits comfortably under the default 64-bit threshold")
}

func TestConvertIntLiteralPromotesToBigIntAboveThreshold(t *testing.T) {
	prog, err := Parse("t.src", `fn f(): i32 { 100; }`)
	assert.NoError(t, err)

	cfg := config.Default(config.WithBigIntThreshold(4))
	fns, err := ConvertProgram(prog, cfg)
	assert.NoError(t, err)

	lit, ok := fns[0].Body[0].(*ast.ExprStmt).Value.(*ast.Literal)
	assert.True(t, ok)
	assert.Equal(t, ast.SourceBigInt, lit.Source, "100 needs 7 bits, above the configured threshold of 4")
	assert.Equal(t, int64(100), lit.Big.Int64())
}

func TestConvertIntLiteralOverflowingInt64AlwaysPromotes(t *testing.T) {
	prog, err := Parse("t.src", `fn f(): i64 { 99999999999999999999; }`)
	assert.NoError(t, err)

	fns, err := ConvertProgram(prog, config.Default())
	assert.NoError(t, err)

	lit, ok := fns[0].Body[0].(*ast.ExprStmt).Value.(*ast.Literal)
	assert.True(t, ok)
	assert.Equal(t, ast.SourceBigInt, lit.Source)
}

func TestEndToEndParseAndCompile(t *testing.T) {
	fns := mustParse(t, `
		fn sum(a: i32, b: i32): i32 {
			a + b;
		}
	`)
	table := decls.NewMemTable()
	b := emit.CompileFunction(fns[0], table, decls.NewOracle(), nil, nil)
	assert.Equal(t, types.I32, b.Result())
}
