package simplify

import (
	"math/big"

	"watc/internal/ast"
)

// resultSource picks the literal kind of a folded two-operand result:
// big-integer wins over real wins over plain int.
func resultSource(a, b *ast.Literal) ast.LiteralSource {
	if a.Source == ast.SourceBigInt || b.Source == ast.SourceBigInt {
		return ast.SourceBigInt
	}
	if a.Source == ast.SourceReal || b.Source == ast.SourceReal {
		return ast.SourceReal
	}
	return ast.SourceInt
}

func addLit(a, b *ast.Literal) (*ast.Literal, bool) {
	return arithLit(a, b, func(x, y int64) int64 { return x + y }, func(x, y *big.Int) *big.Int { return new(big.Int).Add(x, y) }, func(x, y float64) float64 { return x + y })
}

func subLit(a, b *ast.Literal) (*ast.Literal, bool) {
	return arithLit(a, b, func(x, y int64) int64 { return x - y }, func(x, y *big.Int) *big.Int { return new(big.Int).Sub(x, y) }, func(x, y float64) float64 { return x - y })
}

func arithLit(a, b *ast.Literal, intOp func(int64, int64) int64, bigOp func(*big.Int, *big.Int) *big.Int, floatOp func(float64, float64) float64) (*ast.Literal, bool) {
	switch resultSource(a, b) {
	case ast.SourceBigInt:
		ab, _ := asBig(a)
		bb, _ := asBig(b)
		return ast.NewBigLiteral(a.Position, bigOp(ab, bb)), true
	case ast.SourceReal:
		return ast.NewRealLiteral(a.Position, floatOp(asFloat(a), asFloat(b))), true
	default:
		v := intOp(a.Int, b.Int)
		return ast.NewIntLiteral(a.Position, int64(int32(v))), true
	}
}

// foldBinary implements the arithmetic/comparison half of §4.2 rule 4:
// BinaryExpression nodes whose operands are both literals.
func foldBinary(n *ast.BinaryExpression) (ast.Expr, bool) {
	l, lok := isLiteral(n.Left)
	r, rok := isLiteral(n.Right)
	if !lok || !rok {
		return nil, false
	}

	switch n.Op {
	case ast.OpAdd:
		return wrap(addLit(l, r))
	case ast.OpSub:
		return wrap(subLit(l, r))
	case ast.OpMul:
		return wrap(arithLit(l, r, func(x, y int64) int64 { return x * y },
			func(x, y *big.Int) *big.Int { return new(big.Int).Mul(x, y) },
			func(x, y float64) float64 { return x * y }))
	case ast.OpDiv:
		if isZeroLit(r) {
			return nil, false
		}
		return wrap(arithLit(l, r, func(x, y int64) int64 { return x / y },
			func(x, y *big.Int) *big.Int { return new(big.Int).Quo(x, y) },
			func(x, y float64) float64 { return x / y }))
	case ast.OpMod:
		if isZeroLit(r) || resultSource(l, r) == ast.SourceReal {
			return nil, false
		}
		return wrap(arithLit(l, r, func(x, y int64) int64 { return x % y },
			func(x, y *big.Int) *big.Int { return new(big.Int).Rem(x, y) }, nil))
	case ast.OpAnd, ast.OpOr, ast.OpXor, ast.OpShl, ast.OpShr, ast.OpUShr:
		return foldIntegerOnly(n, l, r)
	case ast.OpEq, ast.OpNe, ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		return foldComparison(n.Op, n.Position, l, r)
	}
	return nil, false
}

func wrap(l *ast.Literal, ok bool) (ast.Expr, bool) { return l, ok }

func foldIntegerOnly(n *ast.BinaryExpression, l, r *ast.Literal) (ast.Expr, bool) {
	if l.Source == ast.SourceReal || r.Source == ast.SourceReal {
		return nil, false
	}
	width := litWidth(l)
	if litWidth(r) > width {
		width = litWidth(r)
	}

	if resultSource(l, r) == ast.SourceBigInt {
		lb, _ := asBig(l)
		rb, _ := asBig(r)
		var out *big.Int
		switch n.Op {
		case ast.OpAnd:
			out = new(big.Int).And(lb, rb)
		case ast.OpOr:
			out = new(big.Int).Or(lb, rb)
		case ast.OpXor:
			out = new(big.Int).Xor(lb, rb)
		case ast.OpShl:
			out = new(big.Int).Lsh(lb, uint(rb.Int64()))
		case ast.OpShr, ast.OpUShr:
			out = new(big.Int).Rsh(lb, uint(rb.Int64()))
		default:
			return nil, false
		}
		return ast.NewBigLiteral(n.Position, out), true
	}

	lv, rv := l.Int, r.Int
	var out int64
	switch n.Op {
	case ast.OpAnd:
		out = lv & rv
	case ast.OpOr:
		out = lv | rv
	case ast.OpXor:
		out = lv ^ rv
	case ast.OpShl:
		out = lv << uint(rv)
	case ast.OpShr:
		out = int64(int32(lv) >> uint(rv))
	case ast.OpUShr:
		out = int64(uint32(lv) >> uint(rv))
	default:
		return nil, false
	}
	if width == 32 {
		out = int64(int32(out))
	}
	return ast.NewIntLiteral(n.Position, out), true
}

func foldComparison(op ast.BinaryOp, pos ast.Position, l, r *ast.Literal) (ast.Expr, bool) {
	var cmp int
	if resultSource(l, r) == ast.SourceBigInt {
		lb, _ := asBig(l)
		rb, _ := asBig(r)
		cmp = lb.Cmp(rb)
	} else if resultSource(l, r) == ast.SourceReal {
		lf, rf := asFloat(l), asFloat(r)
		switch {
		case lf < rf:
			cmp = -1
		case lf > rf:
			cmp = 1
		default:
			cmp = 0
		}
	} else {
		switch {
		case l.Int < r.Int:
			cmp = -1
		case l.Int > r.Int:
			cmp = 1
		default:
			cmp = 0
		}
	}

	var result bool
	switch op {
	case ast.OpEq:
		result = cmp == 0
	case ast.OpNe:
		result = cmp != 0
	case ast.OpLt:
		result = cmp < 0
	case ast.OpLe:
		result = cmp <= 0
	case ast.OpGt:
		result = cmp > 0
	case ast.OpGe:
		result = cmp >= 0
	}
	return boolLit(pos, result), true
}

// foldUnary folds a UnaryExpression over a literal operand. "+" (cast to
// i32) and "&" (address-of) are left to the emitter: the former needs no
// constant evaluation, the latter is never foldable. "~" is left to the
// emitter too, since its all-ones mask is width-dependent in a way this
// tree-level pass does not yet know.
func foldUnary(n *ast.UnaryExpression) (ast.Expr, bool) {
	l, ok := isLiteral(n.Operand)
	if !ok {
		return nil, false
	}
	switch n.Op {
	case ast.UnaryMinus:
		return negateLit(l), true
	case ast.UnaryNot:
		return boolLit(n.Position, isZeroLit(l)), true
	}
	return nil, false
}

// foldConditional implements the ConditionalExpression arm of §4.2 rule
// 4: fold only in the strict form, when condition, then, and else are
// all literals (the Design Notes' corrected semantics).
func foldConditional(n *ast.ConditionalExpression) (ast.Expr, bool) {
	cond, ok := isLiteral(n.Condition)
	if !ok {
		return nil, false
	}
	if _, ok := isLiteral(n.Then); !ok {
		return nil, false
	}
	if _, ok := isLiteral(n.Else); !ok {
		return nil, false
	}
	if isZeroLit(cond) {
		return n.Else, true
	}
	return n.Then, true
}
