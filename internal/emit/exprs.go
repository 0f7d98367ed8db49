package emit

import (
	"watc/internal/ast"
	cerrors "watc/internal/errors"
	"watc/internal/types"
	"watc/internal/wasm"
)

func (e *Emitter) emitUnary(n *ast.UnaryExpression, emit bool) (types.Type, bool) {
	// UnaryAddress takes the operand's address, not its value, and the
	// operand need not be intrinsic (e.g. &arr, &p where p is itself a
	// pointer), so it's handled before the common intrinsic-operand gate
	// below rather than inside the switch.
	if n.Op == ast.UnaryAddress {
		st, ok := e.emitAddress(n.Operand, emit)
		if !ok {
			return nil, false
		}
		return &types.PointerType{Elem: st}, true
	}

	operandType, ok := e.EmitExpr(n.Operand, emit)
	if !ok {
		return nil, false
	}
	intr, ok := asIntrinsic(operandType)
	if !ok {
		e.report(cerrors.NonIntrinsicOperand, n.Position, "unary operand must be intrinsic")
		return nil, false
	}

	switch n.Op {
	case ast.UnaryPlus:
		if emit {
			e.castOperand(intr, types.I32Intrinsic)
		}
		return intrinsicType(types.I32Intrinsic), true

	case ast.UnaryMinus:
		m := types.MachineOf(intr)
		if emit {
			if m == types.F32 || m == types.F64 {
				e.Builder.Emit(&wasm.Const{Machine: m, FloatVal: -1})
			} else {
				e.Builder.Emit(&wasm.Const{Machine: m, IntVal: -1})
			}
			e.Builder.Emit(&wasm.Binary{Machine: m, Op: wasm.Mul})
		}
		return operandType, true

	case ast.UnaryNot:
		if types.IsFloat(intr) {
			e.report(cerrors.IntegerFloatMismatch, n.Position, "! requires an integer operand")
			return nil, false
		}
		if emit {
			e.Builder.Emit(&wasm.Unary{Machine: types.MachineOf(intr), Op: wasm.Eqz})
		}
		return intrinsicType(types.I32Intrinsic), true

	case ast.UnaryBitNot:
		if types.IsFloat(intr) {
			e.report(cerrors.IntegerFloatMismatch, n.Position, "~ requires an integer operand")
			return nil, false
		}
		if emit {
			m := types.MachineOf(intr)
			mask := allOnesMask(intr)
			e.Builder.Emit(&wasm.Const{Machine: m, IntVal: mask})
			e.Builder.Emit(&wasm.Binary{Machine: m, Op: wasm.BXor})
		}
		return operandType, true
	}
	return nil, false
}

// allOnesMask returns the all-ones bit pattern for an integer intrinsic's
// declared width (not its underlying I32/I64 machine width), per §4.3's
// "~" operand.
func allOnesMask(i types.Intrinsic) int64 {
	switch types.BitWidth(i) {
	case 8:
		return 0xff
	case 16:
		return 0xffff
	case 32:
		return -1 // 0xffffffff as int32 bit pattern
	default:
		return -1 // 0xffffffffffffffff as int64 bit pattern
	}
}

func (e *Emitter) emitBinary(n *ast.BinaryExpression, emit bool) (types.Type, bool) {
	leftType, lok := e.EmitExpr(n.Left, false)
	rightType, rok := e.EmitExpr(n.Right, false)
	if !lok || !rok {
		return nil, false
	}
	leftIntr, ok1 := asIntrinsic(leftType)
	rightIntr, ok2 := asIntrinsic(rightType)
	if !ok1 || !ok2 {
		e.report(cerrors.NonIntrinsicOperand, n.Position, "binary operands must be intrinsic")
		return nil, false
	}

	result := resultLattice(leftIntr, rightIntr)
	if types.IsFloat(result) && ast.IntegerOnly[n.Op] {
		e.report(cerrors.IntegerFloatMismatch, n.Position, "operator "+string(n.Op)+" requires integer operands")
		return nil, false
	}
	signed := types.IsSigned(leftIntr) || types.IsSigned(rightIntr)

	if emit {
		if _, ok := e.EmitExpr(n.Left, true); !ok {
			return nil, false
		}
		e.castOperand(leftIntr, result)
		if _, ok := e.EmitExpr(n.Right, true); !ok {
			return nil, false
		}
		e.castOperand(rightIntr, result)
		e.Builder.Emit(binaryInstr(n.Op, types.MachineOf(result), signed))
	}

	if ast.Comparisons[n.Op] {
		return intrinsicType(types.I32Intrinsic), true
	}
	return intrinsicType(result), true
}

func binaryInstr(op ast.BinaryOp, m types.Machine, signed bool) wasm.Instruction {
	switch op {
	case ast.OpAdd:
		return &wasm.Binary{Machine: m, Op: wasm.Add}
	case ast.OpSub:
		return &wasm.Binary{Machine: m, Op: wasm.Sub}
	case ast.OpMul:
		return &wasm.Binary{Machine: m, Op: wasm.Mul}
	case ast.OpDiv:
		return &wasm.Binary{Machine: m, Op: wasm.Div, Signed: signed}
	case ast.OpMod:
		return &wasm.Binary{Machine: m, Op: wasm.Rem, Signed: signed}
	case ast.OpAnd:
		return &wasm.Binary{Machine: m, Op: wasm.BAnd}
	case ast.OpOr:
		return &wasm.Binary{Machine: m, Op: wasm.BOr}
	case ast.OpXor:
		return &wasm.Binary{Machine: m, Op: wasm.BXor}
	case ast.OpShl:
		return &wasm.Binary{Machine: m, Op: wasm.Shl}
	case ast.OpShr:
		return &wasm.Binary{Machine: m, Op: wasm.Shr, Signed: true}
	case ast.OpUShr:
		return &wasm.Binary{Machine: m, Op: wasm.Shr, Signed: false}
	case ast.OpEq:
		return &wasm.Binary{Machine: m, Op: wasm.BEq}
	case ast.OpNe:
		return &wasm.Binary{Machine: m, Op: wasm.BNe}
	case ast.OpLt:
		return &wasm.Binary{Machine: m, Op: wasm.BLt, Signed: signed}
	case ast.OpLe:
		return &wasm.Binary{Machine: m, Op: wasm.BLe, Signed: signed}
	case ast.OpGt:
		return &wasm.Binary{Machine: m, Op: wasm.BGt, Signed: signed}
	case ast.OpGe:
		return &wasm.Binary{Machine: m, Op: wasm.BGe, Signed: signed}
	}
	return nil
}

// emitConditional implements §4.3's `c ? t : e`: push `then`, push
// `else`, push the condition cast to i32, then `select`. This matches
// WebAssembly's select operand order noted in §9.
func (e *Emitter) emitConditional(n *ast.ConditionalExpression, emit bool) (types.Type, bool) {
	thenType, tok := e.EmitExpr(n.Then, false)
	elseType, eok := e.EmitExpr(n.Else, false)
	condType, cok := e.EmitExpr(n.Condition, false)
	if !tok || !eok || !cok {
		return nil, false
	}
	condIntr, ok3 := asIntrinsic(condType)
	if !ok3 {
		e.report(cerrors.NonIntrinsicRequired, n.Position, "conditional expression condition must be intrinsic")
		return nil, false
	}
	thenIntr, ok1 := asIntrinsic(thenType)
	elseIntr, ok2 := asIntrinsic(elseType)
	if !ok1 || !ok2 {
		e.report(cerrors.NonIntrinsicOperand, n.Position, "conditional then/else operands must be intrinsic")
		return nil, false
	}
	result := resultLattice(thenIntr, elseIntr)

	if emit {
		if _, ok := e.EmitExpr(n.Then, true); !ok {
			return nil, false
		}
		e.castOperand(thenIntr, result)
		if _, ok := e.EmitExpr(n.Else, true); !ok {
			return nil, false
		}
		e.castOperand(elseIntr, result)
		if _, ok := e.EmitExpr(n.Condition, true); !ok {
			return nil, false
		}
		e.castOperand(condIntr, types.I32Intrinsic)
		e.Builder.Emit(&wasm.Select{Machine: types.MachineOf(result)})
	}
	return intrinsicType(result), true
}

func (e *Emitter) emitTypeCast(n *ast.TypeCast, emit bool) (types.Type, bool) {
	operandType, ok := e.EmitExpr(n.Operand, emit)
	if !ok {
		return nil, false
	}
	intr, ok := asIntrinsic(operandType)
	if !ok {
		e.report(cerrors.NonIntrinsicOperand, n.Position, "cast operand must be intrinsic")
		return nil, false
	}
	if emit {
		e.castOperand(intr, n.TargetName)
	}
	return intrinsicType(n.TargetName), true
}
