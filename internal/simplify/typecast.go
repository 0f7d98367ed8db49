package simplify

import (
	"math"
	"math/big"

	"watc/internal/ast"
	"watc/internal/cast"
	"watc/internal/types"
)

var two64 = new(big.Int).Lsh(big.NewInt(1), 64)

// sourceIntrinsicOf infers the intrinsic a literal's value was produced
// under, per §4.3's literal-emission rule: integer literals are i32,
// non-integer numeric literals are f64, big-integer literals are i64.
func sourceIntrinsicOf(l *ast.Literal) types.Intrinsic {
	switch l.Source {
	case ast.SourceReal:
		return types.F64Intrinsic
	case ast.SourceBigInt:
		return types.I64Intrinsic
	default:
		return types.I32Intrinsic
	}
}

// foldTypeCast implements the TypeCast arm of §4.2 rule 4. A float to
// integer truncation that would trap (NaN, infinity, or a value outside
// the target range) leaves the node unchanged, per the §3 invariant; an
// integer narrowed to 8 or 16 bits folds to its tightened value.
func foldTypeCast(n *ast.TypeCast) (ast.Expr, bool) {
	l, ok := isLiteral(n.Operand)
	if !ok {
		return nil, false
	}
	from := sourceIntrinsicOf(l)
	plan := cast.Classify(from, n.TargetName)

	// §3: a 64-bit bigint literal is narrowed by modular reduction before
	// anything else, so later steps can work uniformly on int64/float64.
	var ival int64
	var fval float64
	isFloatOperand := l.Source == ast.SourceReal

	if l.Source == ast.SourceBigInt {
		reduced := new(big.Int).Mod(l.Big, two64)
		if types.IsSigned(n.TargetName) && reduced.Cmp(new(big.Int).Lsh(big.NewInt(1), 63)) >= 0 {
			reduced.Sub(reduced, two64)
		}
		ival = reduced.Int64()
	} else if isFloatOperand {
		fval = l.Real
	} else {
		ival = l.Int
	}

	switch plan.Kind {
	case cast.NoOp:
		// value unchanged; ival/fval already hold it
	case cast.Wrap64:
		ival = int64(int32(ival))
	case cast.Extend32Signed:
		ival = int64(int32(ival))
	case cast.Extend32Unsigned:
		ival = int64(uint32(ival))
	case cast.ConvertSigned:
		fval = float64(ival)
		isFloatOperand = true
	case cast.ConvertUnsigned:
		fval = float64(uint64(ival))
		isFloatOperand = true
	case cast.TruncSigned:
		if math.IsNaN(fval) || math.IsInf(fval, 0) || !inMachineRange(fval, plan.ToMach, true) {
			return nil, false
		}
		ival = int64(fval)
		isFloatOperand = false
	case cast.TruncUnsigned:
		if math.IsNaN(fval) || math.IsInf(fval, 0) || fval < 0 || !inMachineRange(fval, plan.ToMach, false) {
			return nil, false
		}
		ival = int64(uint64(fval))
		isFloatOperand = false
	case cast.Promote32, cast.Demote64:
		if plan.Kind == cast.Demote64 {
			fval = float64(float32(fval))
		}
	}

	if plan.Tighten != nil && !isFloatOperand {
		tightened, ok := tighten(ival, plan.Tighten.Width, plan.Tighten.Signed)
		if !ok {
			return nil, false
		}
		ival = tightened
	}

	if isFloatOperand {
		return ast.NewRealLiteral(n.Position, fval), true
	}
	return ast.NewIntLiteral(n.Position, ival), true
}

// inMachineRange reports whether fval is within the representable range
// of a trunc to machine m under the given signedness; a value outside
// this range is a wasm trunc trap and must not be folded (§3 invariant).
func inMachineRange(fval float64, m types.Machine, signed bool) bool {
	switch m {
	case types.I32:
		if signed {
			return fval >= -2147483648 && fval <= 2147483647
		}
		return fval >= 0 && fval <= 4294967295
	default: // I64
		if signed {
			return fval >= -9223372036854775808 && fval < 9223372036854775808
		}
		return fval >= 0 && fval < 18446744073709551616
	}
}

// tighten masks a 32-bit value to width bits and, for a signed target,
// sign-extends it from bit width-1 as a 32-bit value. It accepts every
// input, so ok is always true.
func tighten(v int64, width int, signed bool) (int64, bool) {
	mask := int64(0xff)
	if width == 16 {
		mask = 0xffff
	}
	masked := v & mask
	if !signed {
		return masked, true
	}
	shift := uint(32 - width)
	return int64(int32(masked<<shift) >> shift), true
}
