package simplify

import (
	"math/big"

	"watc/internal/ast"
)

// litWidth is the bit width host arithmetic should use when folding
// operations over this literal: 64 for a big-integer literal (per §4.3,
// big-integer literals emit I64), 32 otherwise (plain integer literals
// emit I32).
func litWidth(l *ast.Literal) int {
	if l.Source == ast.SourceBigInt {
		return 64
	}
	return 32
}

func isZeroLit(l *ast.Literal) bool {
	switch l.Source {
	case ast.SourceInt:
		return l.Int == 0
	case ast.SourceReal:
		return l.Real == 0
	case ast.SourceBigInt:
		return l.Big.Sign() == 0
	}
	return false
}

func isOneLit(l *ast.Literal) bool {
	switch l.Source {
	case ast.SourceInt:
		return l.Int == 1
	case ast.SourceReal:
		return l.Real == 1
	case ast.SourceBigInt:
		return l.Big.Cmp(big.NewInt(1)) == 0
	}
	return false
}

// asBig reports the literal's exact value as a big.Int; ok is false for
// a real (floating) literal.
func asBig(l *ast.Literal) (*big.Int, bool) {
	switch l.Source {
	case ast.SourceInt:
		return big.NewInt(l.Int), true
	case ast.SourceBigInt:
		return l.Big, true
	}
	return nil, false
}

func asFloat(l *ast.Literal) float64 {
	switch l.Source {
	case ast.SourceInt:
		return float64(l.Int)
	case ast.SourceReal:
		return l.Real
	case ast.SourceBigInt:
		f := new(big.Float).SetInt(l.Big)
		v, _ := f.Float64()
		return v
	}
	return 0
}

// negateLit returns the arithmetic negation of l, preserving its source
// kind.
func negateLit(l *ast.Literal) *ast.Literal {
	out := *l
	switch l.Source {
	case ast.SourceInt:
		out.Int = -l.Int
	case ast.SourceReal:
		out.Real = -l.Real
	case ast.SourceBigInt:
		out.Big = new(big.Int).Neg(l.Big)
	}
	return &out
}

func intLit(pos ast.Position, v int64) *ast.Literal  { return ast.NewIntLiteral(pos, v) }
func boolLit(pos ast.Position, v bool) *ast.Literal {
	if v {
		return ast.NewIntLiteral(pos, 1)
	}
	return ast.NewIntLiteral(pos, 0)
}
