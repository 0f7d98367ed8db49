package simplify

import (
	"math"

	"watc/internal/ast"
)

// foldBuiltin evaluates a BuiltInFunctionInvocation when every argument is
// a literal (§4.2 rule 4). clz/ctz/popcnt use the same width convention as
// litWidth: 32 bits unless the literal is a big-integer.
func foldBuiltin(n *ast.BuiltInFunctionInvocation) (ast.Expr, bool) {
	lits := make([]*ast.Literal, len(n.Args))
	for i, a := range n.Args {
		l, ok := isLiteral(a)
		if !ok {
			return nil, false
		}
		lits[i] = l
	}

	switch n.Name {
	case ast.BuiltInAbs:
		if len(lits) != 1 {
			return nil, false
		}
		l := lits[0]
		if isNegative(l) {
			return negateLit(l), true
		}
		return l, true

	case ast.BuiltInMin, ast.BuiltInMax:
		if len(lits) == 0 {
			return nil, false
		}
		best := lits[0]
		for _, l := range lits[1:] {
			cmp := compareLit(l, best)
			if (n.Name == ast.BuiltInMin && cmp < 0) || (n.Name == ast.BuiltInMax && cmp > 0) {
				best = l
			}
		}
		return best, true

	case ast.BuiltInFloor, ast.BuiltInCeil, ast.BuiltInTrunc, ast.BuiltInNearest, ast.BuiltInSqrt, ast.BuiltInNeg:
		if len(lits) != 1 {
			return nil, false
		}
		v := asFloat(lits[0])
		var out float64
		switch n.Name {
		case ast.BuiltInFloor:
			out = math.Floor(v)
		case ast.BuiltInCeil:
			out = math.Ceil(v)
		case ast.BuiltInTrunc:
			out = math.Trunc(v)
		case ast.BuiltInNearest:
			out = math.RoundToEven(v)
		case ast.BuiltInSqrt:
			out = math.Sqrt(v)
		case ast.BuiltInNeg:
			out = -v
		}
		return ast.NewRealLiteral(n.Position, out), true

	case ast.BuiltInCopysign:
		if len(lits) != 2 {
			return nil, false
		}
		return ast.NewRealLiteral(n.Position, math.Copysign(asFloat(lits[0]), asFloat(lits[1]))), true

	case ast.BuiltInClz, ast.BuiltInCtz, ast.BuiltInPopcnt:
		if len(lits) != 1 || lits[0].Source == ast.SourceReal {
			return nil, false
		}
		return foldBitCount(n, lits[0])
	}
	return nil, false
}

func compareLit(a, b *ast.Literal) int {
	af, bf := asFloat(a), asFloat(b)
	switch {
	case af < bf:
		return -1
	case af > bf:
		return 1
	default:
		return 0
	}
}

func foldBitCount(n *ast.BuiltInFunctionInvocation, l *ast.Literal) (ast.Expr, bool) {
	width := litWidth(l)
	var v uint64
	if l.Source == ast.SourceBigInt {
		v = l.Big.Uint64()
	} else {
		v = uint64(l.Int)
		if width == 32 {
			v &= 0xffffffff
		}
	}

	var out int64
	switch n.Name {
	case ast.BuiltInClz:
		out = int64(clz(v, width))
	case ast.BuiltInCtz:
		out = int64(ctz(v, width))
	case ast.BuiltInPopcnt:
		out = int64(popcount(v))
	}
	return ast.NewIntLiteral(n.Position, out), true
}

func clz(v uint64, width int) int {
	if v == 0 {
		return width
	}
	n := 0
	for i := width - 1; i >= 0; i-- {
		if v&(1<<uint(i)) != 0 {
			break
		}
		n++
	}
	return n
}

func ctz(v uint64, width int) int {
	if v == 0 {
		return width
	}
	n := 0
	for i := 0; i < width; i++ {
		if v&(1<<uint(i)) != 0 {
			break
		}
		n++
	}
	return n
}

func popcount(v uint64) int {
	n := 0
	for v != 0 {
		n += int(v & 1)
		v >>= 1
	}
	return n
}
