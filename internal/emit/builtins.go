package emit

import (
	"watc/internal/ast"
	cerrors "watc/internal/errors"
	"watc/internal/types"
	"watc/internal/wasm"
)

// emitBuiltin implements §4.3's "Built-in invocation".
func (e *Emitter) emitBuiltin(n *ast.BuiltInFunctionInvocation, emit bool) (types.Type, bool) {
	argTypes := make([]types.Type, len(n.Args))
	argIntrs := make([]types.Intrinsic, len(n.Args))
	for i, a := range n.Args {
		t, ok := e.EmitExpr(a, false)
		if !ok {
			return nil, false
		}
		intr, ok := asIntrinsic(t)
		if !ok {
			e.report(cerrors.NonIntrinsicOperand, n.Position, "built-in argument must be intrinsic")
			return nil, false
		}
		argTypes[i] = t
		argIntrs[i] = intr
	}

	switch n.Name {
	case ast.BuiltInMin, ast.BuiltInMax:
		return e.emitMinMax(n, argIntrs, emit)
	case ast.BuiltInCopysign:
		return e.emitCopysign(n, argIntrs, emit)
	case ast.BuiltInAbs:
		return e.emitAbs(n, argIntrs[0], emit)
	default:
		return e.emitUnaryBuiltin(n, argIntrs[0], emit)
	}
}

// emitMinMax promotes every argument to f32, or f64 if any argument is
// f64, then chain-reduces N arguments with N-1 binary ops.
func (e *Emitter) emitMinMax(n *ast.BuiltInFunctionInvocation, argIntrs []types.Intrinsic, emit bool) (types.Type, bool) {
	target := types.F32Intrinsic
	for _, a := range argIntrs {
		if a == types.F64Intrinsic {
			target = types.F64Intrinsic
		}
	}
	op := wasm.FMin
	if n.Name == ast.BuiltInMax {
		op = wasm.FMax
	}
	if !emit {
		return intrinsicType(target), true
	}
	if _, ok := e.EmitExpr(n.Args[0], true); !ok {
		return nil, false
	}
	e.castOperand(argIntrs[0], target)
	for i := 1; i < len(n.Args); i++ {
		if _, ok := e.EmitExpr(n.Args[i], true); !ok {
			return nil, false
		}
		e.castOperand(argIntrs[i], target)
		e.Builder.Emit(&wasm.Binary{Machine: types.MachineOf(target), Op: op})
	}
	return intrinsicType(target), true
}

func (e *Emitter) emitCopysign(n *ast.BuiltInFunctionInvocation, argIntrs []types.Intrinsic, emit bool) (types.Type, bool) {
	if !types.IsFloat(argIntrs[0]) || !types.IsFloat(argIntrs[1]) {
		e.report(cerrors.FloatOnlyBuiltinOnInteger, n.Position, "copysign requires float operands")
		return nil, false
	}
	result := resultLattice(argIntrs[0], argIntrs[1])
	if emit {
		if _, ok := e.EmitExpr(n.Args[0], true); !ok {
			return nil, false
		}
		e.castOperand(argIntrs[0], result)
		if _, ok := e.EmitExpr(n.Args[1], true); !ok {
			return nil, false
		}
		e.castOperand(argIntrs[1], result)
		e.Builder.Emit(&wasm.Binary{Machine: types.MachineOf(result), Op: wasm.FCopysign})
	}
	return intrinsicType(result), true
}

// emitAbs expands to `tee local; if local<0 then local*-1 else local` on
// integer types, or a plain `abs` instruction on float types.
func (e *Emitter) emitAbs(n *ast.BuiltInFunctionInvocation, intr types.Intrinsic, emit bool) (types.Type, bool) {
	m := types.MachineOf(intr)
	if types.IsFloat(intr) {
		if emit {
			if _, ok := e.EmitExpr(n.Args[0], true); !ok {
				return nil, false
			}
			e.Builder.Emit(&wasm.Unary{Machine: m, Op: wasm.Abs})
		}
		return intrinsicType(intr), true
	}

	if !emit {
		return intrinsicType(intr), true
	}
	if _, ok := e.EmitExpr(n.Args[0], true); !ok {
		return nil, false
	}
	tmp := e.Builder.TempLocal(m)
	e.Builder.Emit(&wasm.LocalTee{Name: tmp})
	e.Builder.Emit(&wasm.Const{Machine: m, IntVal: 0})
	e.Builder.Emit(&wasm.Binary{Machine: m, Op: wasm.BLt, Signed: true})
	thenBody := []wasm.Instruction{
		&wasm.LocalGet{Name: tmp},
		&wasm.Const{Machine: m, IntVal: -1},
		&wasm.Binary{Machine: m, Op: wasm.Mul},
		&wasm.LocalSet{Name: tmp},
	}
	e.Builder.Emit(&wasm.If{Then: thenBody})
	e.Builder.Emit(&wasm.LocalGet{Name: tmp})
	return intrinsicType(intr), true
}

func (e *Emitter) emitUnaryBuiltin(n *ast.BuiltInFunctionInvocation, intr types.Intrinsic, emit bool) (types.Type, bool) {
	isFloat := types.IsFloat(intr)
	if ast.FloatOnlyBuiltins[n.Name] && !isFloat {
		e.report(cerrors.FloatOnlyBuiltinOnInteger, n.Position, string(n.Name)+" requires a float operand")
		return nil, false
	}
	if ast.IntegerOnlyBuiltins[n.Name] && isFloat {
		e.report(cerrors.IntegerOnlyBuiltinOnFloat, n.Position, string(n.Name)+" requires an integer operand")
		return nil, false
	}

	op, ok := builtinUnaryOp[n.Name]
	if !ok {
		return nil, false
	}
	if emit {
		if _, ok := e.EmitExpr(n.Args[0], true); !ok {
			return nil, false
		}
		e.Builder.Emit(&wasm.Unary{Machine: types.MachineOf(intr), Op: op})
	}
	return intrinsicType(intr), true
}

var builtinUnaryOp = map[ast.BuiltInName]wasm.UnaryOp{
	ast.BuiltInFloor:   wasm.Floor,
	ast.BuiltInCeil:    wasm.Ceil,
	ast.BuiltInTrunc:   wasm.Trunc,
	ast.BuiltInNearest: wasm.Nearest,
	ast.BuiltInSqrt:    wasm.Sqrt,
	ast.BuiltInNeg:     wasm.Neg,
	ast.BuiltInClz:     wasm.Clz,
	ast.BuiltInCtz:     wasm.Ctz,
	ast.BuiltInPopcnt:  wasm.Popcnt,
}
