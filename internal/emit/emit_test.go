package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"watc/internal/ast"
	"watc/internal/decls"
	cerrors "watc/internal/errors"
	"watc/internal/simplify"
	"watc/internal/types"
	"watc/internal/wasm"
)

var pos = ast.Position{Filename: "t.src", Line: 1, Column: 1}

func newEmitter(d decls.Table) (*Emitter, *wasm.Builder) {
	b := wasm.NewBuilder("f")
	return New(d, decls.NewOracle(), nil, nil, b), b
}

func TestLiteralConstantEmitsI32Const(t *testing.T) {
	e, b := newEmitter(decls.NewMemTable())
	e.EmitExpr(ast.NewIntLiteral(pos, 11), true)
	assert.Len(t, b.Instructions(), 1)
	c, ok := b.Instructions()[0].(*wasm.Const)
	assert.True(t, ok)
	assert.Equal(t, int64(11), c.IntVal)
	assert.Equal(t, types.I32, c.Machine)
}

func TestIdentifierEmitsLocalGet(t *testing.T) {
	b := wasm.NewBuilder("f")
	b.DeclareLocal("$x", &types.IntrinsicType{Name: types.I32Intrinsic}, types.I32)
	e := New(decls.NewMemTable(), decls.NewOracle(), nil, nil, b)

	typ, ok := e.EmitExpr(&ast.Identifier{Position: pos, Name: "x"}, true)
	assert.True(t, ok)
	assert.Equal(t, "i32", typ.String())
	lg, ok := b.Instructions()[0].(*wasm.LocalGet)
	assert.True(t, ok)
	assert.Equal(t, "$x", lg.Name)
}

func TestStructFieldAccessEmitsBasePlusOffset(t *testing.T) {
	st := &types.StructType{Name: "S", Size: 16, Fields: []types.StructField{
		{Name: "a", Type: &types.IntrinsicType{Name: types.I32Intrinsic}, Offset: 0},
		{Name: "b", Type: &types.IntrinsicType{Name: types.I32Intrinsic}, Offset: 4},
		{Name: "c", Type: &types.IntrinsicType{Name: types.F64Intrinsic}, Offset: 8},
	}}
	tbl := decls.NewMemTable()
	tbl.Define("s", &decls.VariableDeclaration{Address: 100, Spec: st})
	e, b := newEmitter(tbl)

	expr := &ast.MemberAccess{Position: pos, Object: &ast.Identifier{Position: pos, Name: "s"}, MemberName: "c"}
	typ, ok := e.EmitExpr(expr, true)
	assert.True(t, ok)
	assert.Equal(t, "f64", typ.String())

	instrs := b.Instructions()
	assert.IsType(t, &wasm.Const{}, instrs[0])
	assert.Equal(t, int64(100), instrs[0].(*wasm.Const).IntVal)
	assert.IsType(t, &wasm.Const{}, instrs[1])
	assert.Equal(t, int64(8), instrs[1].(*wasm.Const).IntVal)
	assert.IsType(t, &wasm.Binary{}, instrs[2])
	assert.IsType(t, &wasm.Load{}, instrs[3])
}

func TestBinaryCastsToResultLattice(t *testing.T) {
	b := wasm.NewBuilder("f")
	b.DeclareLocal("$x", &types.IntrinsicType{Name: types.I64Intrinsic}, types.I64)
	e := New(decls.NewMemTable(), decls.NewOracle(), nil, nil, b)

	expr := &ast.BinaryExpression{
		Position: pos, Op: ast.OpAdd,
		Left:  &ast.Identifier{Position: pos, Name: "x"},
		Right: ast.NewIntLiteral(pos, 2),
	}
	typ, ok := e.EmitExpr(expr, true)
	assert.True(t, ok)
	assert.Equal(t, "i64", typ.String())

	var sawExtend bool
	for _, instr := range b.Instructions() {
		if _, ok := instr.(*wasm.Convert); ok {
			sawExtend = true
		}
	}
	assert.True(t, sawExtend, "right operand (i32 literal) must be widened to i64")
}

func TestConditionalOrderMatchesSelect(t *testing.T) {
	e, b := newEmitter(decls.NewMemTable())
	expr := &ast.ConditionalExpression{
		Position:  pos,
		Condition: ast.NewIntLiteral(pos, 1),
		Then:      ast.NewIntLiteral(pos, 10),
		Else:      ast.NewIntLiteral(pos, 20),
	}
	_, ok := e.EmitExpr(expr, true)
	assert.True(t, ok)

	instrs := b.Instructions()
	assert.Equal(t, int64(10), instrs[0].(*wasm.Const).IntVal)
	assert.Equal(t, int64(20), instrs[1].(*wasm.Const).IntVal)
	assert.Equal(t, int64(1), instrs[2].(*wasm.Const).IntVal)
	assert.IsType(t, &wasm.Select{}, instrs[3])
}

func TestSizeOfArrayLiteral(t *testing.T) {
	e, b := newEmitter(decls.NewMemTable())
	spec := &types.ArrayType{Elem: &types.IntrinsicType{Name: types.I16}, Count: 4}
	_, ok := e.EmitExpr(&ast.SizeOfExpression{Position: pos, TypeSpec: spec}, true)
	assert.True(t, ok)
	assert.Equal(t, int64(8), b.Instructions()[0].(*wasm.Const).IntVal)
}

func TestCompileFunctionDuplicateParamReported(t *testing.T) {
	rec := cerrors.NewRecorder()
	fn := &ast.FunctionDecl{
		Position: pos, Name: "f",
		Params: []ast.Param{
			{Name: "x", Type: &types.IntrinsicType{Name: types.I32Intrinsic}},
			{Name: "x", Type: &types.IntrinsicType{Name: types.I32Intrinsic}},
		},
	}
	CompileFunction(fn, decls.NewMemTable(), decls.NewOracle(), rec, nil)
	assert.True(t, rec.HasErrors())
	assert.Equal(t, cerrors.DuplicateLocal, rec.Entries[0].Code)
}

func TestCompileFunctionLocalVariableWithCastedInit(t *testing.T) {
	fn := &ast.FunctionDecl{
		Position: pos, Name: "f",
		Body: []ast.Stmt{
			&ast.LocalVariableStmt{
				Position:    pos,
				Name:        "y",
				StorageType: &types.IntrinsicType{Name: types.I64Intrinsic},
				Init:        ast.NewIntLiteral(pos, 5),
			},
		},
	}
	b := CompileFunction(fn, decls.NewMemTable(), decls.NewOracle(), nil, nil)
	assert.Len(t, b.Locals(), 1)

	var sawLocalSet bool
	for _, instr := range b.Instructions() {
		if ls, ok := instr.(*wasm.LocalSet); ok {
			sawLocalSet = true
			assert.Equal(t, "$y", ls.Name)
		}
	}
	assert.True(t, sawLocalSet)
}

func TestAbsOnIntegerExpandsToTeeIfLocalGet(t *testing.T) {
	e, b := newEmitter(decls.NewMemTable())
	expr := &ast.BuiltInFunctionInvocation{Position: pos, Name: ast.BuiltInAbs, Args: []ast.Expr{ast.NewIntLiteral(pos, -5)}}
	_, ok := e.EmitExpr(expr, true)
	assert.True(t, ok)

	instrs := b.Instructions()
	assert.IsType(t, &wasm.Const{}, instrs[0])
	assert.IsType(t, &wasm.LocalTee{}, instrs[1])
	assert.IsType(t, &wasm.If{}, instrs[len(instrs)-2])
	assert.IsType(t, &wasm.LocalGet{}, instrs[len(instrs)-1])
}

func TestUnaryAddressOfLocalProducesPointerType(t *testing.T) {
	b := wasm.NewBuilder("f")
	b.DeclareLocal("$x", &types.IntrinsicType{Name: types.I32Intrinsic}, types.I32)
	tbl := decls.NewMemTable()
	tbl.Define("x", &decls.VariableDeclaration{Address: 40, Spec: &types.IntrinsicType{Name: types.I32Intrinsic}})
	e := New(tbl, decls.NewOracle(), nil, nil, b)

	expr := &ast.UnaryExpression{Position: pos, Op: ast.UnaryAddress, Operand: &ast.Identifier{Position: pos, Name: "x"}}
	typ, ok := e.EmitExpr(expr, true)
	assert.True(t, ok)

	pt, ok := typ.(*types.PointerType)
	assert.True(t, ok, "&x must produce a *types.PointerType, got %T", typ)
	assert.Equal(t, "i32", pt.Elem.String())

	instrs := b.Instructions()
	assert.Len(t, instrs, 1, "&x emits the address only, not the value")
	c, ok := instrs[0].(*wasm.Const)
	assert.True(t, ok)
	assert.Equal(t, int64(40), c.IntVal)
}

func TestUnaryAddressOfNonIntrinsicOperandStillSucceeds(t *testing.T) {
	at := &types.ArrayType{Elem: &types.IntrinsicType{Name: types.I32Intrinsic}, Count: 4}
	tbl := decls.NewMemTable()
	tbl.Define("arr", &decls.VariableDeclaration{Address: 0, Spec: at})
	e, _ := newEmitter(tbl)

	expr := &ast.UnaryExpression{Position: pos, Op: ast.UnaryAddress, Operand: &ast.Identifier{Position: pos, Name: "arr"}}
	typ, ok := e.EmitExpr(expr, true)
	assert.True(t, ok, "&arr must not be rejected for having a non-intrinsic operand")

	pt, ok := typ.(*types.PointerType)
	assert.True(t, ok)
	assert.IsType(t, &types.ArrayType{}, pt.Elem)
}

func TestDereferenceOfAddressRoundTrips(t *testing.T) {
	tbl := decls.NewMemTable()
	tbl.Define("x", &decls.VariableDeclaration{Address: 24, Spec: &types.IntrinsicType{Name: types.I32Intrinsic}})
	e, b := newEmitter(tbl)

	address := &ast.UnaryExpression{Position: pos, Op: ast.UnaryAddress, Operand: &ast.Identifier{Position: pos, Name: "x"}}
	deref := &ast.DereferenceExpression{Position: pos, Operand: address}

	typ, ok := e.EmitExpr(deref, true)
	assert.True(t, ok, "*&(x) must succeed rather than reporting DereferenceOnNonPointer")
	assert.Equal(t, "i32", typ.String())

	instrs := b.Instructions()
	assert.IsType(t, &wasm.Const{}, instrs[0])
	assert.Equal(t, int64(24), instrs[0].(*wasm.Const).IntVal)
	assert.IsType(t, &wasm.Load{}, instrs[1])
}

func TestConditionalNonIntrinsicConditionReportsNonIntrinsicRequired(t *testing.T) {
	st := &types.StructType{Name: "S", Size: 4, Fields: []types.StructField{
		{Name: "a", Type: &types.IntrinsicType{Name: types.I32Intrinsic}, Offset: 0},
	}}
	tbl := decls.NewMemTable()
	tbl.Define("s", &decls.VariableDeclaration{Address: 0, Spec: st})
	rec := cerrors.NewRecorder()
	b := wasm.NewBuilder("f")
	e := New(tbl, decls.NewOracle(), rec, nil, b)

	expr := &ast.ConditionalExpression{
		Position:  pos,
		Condition: &ast.Identifier{Position: pos, Name: "s"},
		Then:      ast.NewIntLiteral(pos, 1),
		Else:      ast.NewIntLiteral(pos, 2),
	}
	_, ok := e.EmitExpr(expr, true)
	assert.False(t, ok)
	assert.Equal(t, cerrors.NonIntrinsicRequired, rec.Entries[0].Code)
}

func TestCompileFunctionAssignmentToLocalEmitsLocalSet(t *testing.T) {
	fn := &ast.FunctionDecl{
		Position: pos, Name: "f",
		Body: []ast.Stmt{
			&ast.LocalVariableStmt{Position: pos, Name: "y", StorageType: &types.IntrinsicType{Name: types.I32Intrinsic}, Init: ast.NewIntLiteral(pos, 1)},
			&ast.AssignmentStmt{
				Position: pos,
				Target:   &ast.Identifier{Position: pos, Name: "y"},
				Value:    ast.NewIntLiteral(pos, 9),
			},
		},
	}
	b := CompileFunction(fn, decls.NewMemTable(), decls.NewOracle(), nil, nil)

	var sets int
	for _, instr := range b.Instructions() {
		if ls, ok := instr.(*wasm.LocalSet); ok {
			sets++
			assert.Equal(t, "$y", ls.Name)
		}
	}
	assert.Equal(t, 2, sets, "one local.set for the initializer, one for the assignment")
}

func TestCompileFunctionAssignmentToMemoryVariableEmitsTypedStore(t *testing.T) {
	tbl := decls.NewMemTable()
	tbl.Define("v", &decls.VariableDeclaration{Address: 200, Spec: &types.IntrinsicType{Name: types.I64Intrinsic}})
	fn := &ast.FunctionDecl{
		Position: pos, Name: "f",
		Body: []ast.Stmt{
			&ast.AssignmentStmt{
				Position: pos,
				Target:   &ast.Identifier{Position: pos, Name: "v"},
				Value:    ast.NewIntLiteral(pos, 7),
			},
		},
	}
	b := CompileFunction(fn, tbl, decls.NewOracle(), nil, nil)

	instrs := b.Instructions()
	assert.IsType(t, &wasm.Const{}, instrs[0], "address pushed first")
	assert.Equal(t, int64(200), instrs[0].(*wasm.Const).IntVal)
	var sawStore bool
	for _, instr := range instrs {
		if st, ok := instr.(*wasm.Store); ok {
			sawStore = true
			assert.Equal(t, types.I64, st.Machine)
		}
	}
	assert.True(t, sawStore)
}

func TestCompileFunctionAssignmentToGlobalEmitsGlobalSet(t *testing.T) {
	tbl := decls.NewMemTable()
	tbl.Define("g", &decls.GlobalDeclaration{Underlying: types.I32Intrinsic})
	fn := &ast.FunctionDecl{
		Position: pos, Name: "f",
		Body: []ast.Stmt{
			&ast.AssignmentStmt{
				Position: pos,
				Target:   &ast.Identifier{Position: pos, Name: "g"},
				Value:    ast.NewIntLiteral(pos, 3),
			},
		},
	}
	b := CompileFunction(fn, tbl, decls.NewOracle(), nil, nil)

	var sawSet bool
	for _, instr := range b.Instructions() {
		if gs, ok := instr.(*wasm.GlobalSet); ok {
			sawSet = true
			assert.Equal(t, "$g", gs.Name)
		}
	}
	assert.True(t, sawSet)
}

func TestSimplifierThenEmitterPipeline(t *testing.T) {
	// 3 + 4*2 -> simplify to Literal(11) -> emit i32.const 11
	s := simplify.New(decls.NewMemTable(), decls.NewOracle(), nil)
	expr := &ast.BinaryExpression{
		Position: pos, Op: ast.OpAdd,
		Left: ast.NewIntLiteral(pos, 3),
		Right: &ast.BinaryExpression{
			Position: pos, Op: ast.OpMul,
			Left: ast.NewIntLiteral(pos, 4), Right: ast.NewIntLiteral(pos, 2),
		},
	}
	simplified := s.Simplify(expr)
	e, b := newEmitter(decls.NewMemTable())
	e.EmitExpr(simplified, true)
	assert.Len(t, b.Instructions(), 1)
	assert.Equal(t, int64(11), b.Instructions()[0].(*wasm.Const).IntVal)
}
