package simplify

import "watc/internal/ast"

// applyIdentity implements §4.2 rule 1: remove trivial literals from
// binary ops per the identity table.
func applyIdentity(n *ast.BinaryExpression) (ast.Expr, bool) {
	leftLit, leftIsLit := isLiteral(n.Left)
	rightLit, rightIsLit := isLiteral(n.Right)

	switch n.Op {
	case ast.OpAdd, ast.OpOr, ast.OpXor:
		if rightIsLit && isZeroLit(rightLit) {
			return n.Left, true
		}
		if leftIsLit && isZeroLit(leftLit) {
			return n.Right, true
		}
	case ast.OpSub:
		if rightIsLit && isZeroLit(rightLit) {
			return n.Left, true
		}
		if leftIsLit && isZeroLit(leftLit) {
			return &ast.UnaryExpression{Position: n.Position, Op: ast.UnaryMinus, Operand: n.Right}, true
		}
	case ast.OpShl, ast.OpShr, ast.OpUShr:
		if rightIsLit && isZeroLit(rightLit) {
			return n.Left, true
		}
	case ast.OpMul:
		if rightIsLit && isOneLit(rightLit) {
			return n.Left, true
		}
		if leftIsLit && isOneLit(leftLit) {
			return n.Right, true
		}
	case ast.OpDiv:
		if rightIsLit && isOneLit(rightLit) {
			return n.Left, true
		}
	case ast.OpMod:
		if rightIsLit && isOneLit(rightLit) {
			return intLit(n.Position, 0), true
		}
	case ast.OpAnd:
		if leftIsLit && isZeroLit(leftLit) {
			return intLit(n.Position, 0), true
		}
		if rightIsLit && isZeroLit(rightLit) {
			return intLit(n.Position, 0), true
		}
	}
	return nil, false
}

// reorderCommutative implements §4.2 rule 2: for a commutative operator,
// if the left operand is a literal and the right is not, swap them.
func reorderCommutative(n *ast.BinaryExpression) bool {
	if !ast.Commutative[n.Op] {
		return false
	}
	_, leftIsLit := isLiteral(n.Left)
	_, rightIsLit := isLiteral(n.Right)
	if leftIsLit && !rightIsLit {
		n.Left, n.Right = n.Right, n.Left
		return true
	}
	return false
}

// refoldAdditiveChain implements §4.2 rule 3: in `(X op2 L2) op1 L1`
// with op1, op2 in {+, -} and both literals, fold into `X op2 L'`.
func refoldAdditiveChain(n *ast.BinaryExpression) (ast.Expr, bool) {
	if n.Op != ast.OpAdd && n.Op != ast.OpSub {
		return nil, false
	}
	l1, ok := isLiteral(n.Right)
	if !ok {
		return nil, false
	}
	inner, ok := n.Left.(*ast.BinaryExpression)
	if !ok || (inner.Op != ast.OpAdd && inner.Op != ast.OpSub) {
		return nil, false
	}
	l2, ok := isLiteral(inner.Right)
	if !ok {
		return nil, false
	}

	op1, op2 := n.Op, inner.Op
	resultOp := op2
	var combined *ast.Literal
	switch {
	case op1 == ast.OpAdd && op2 == ast.OpAdd:
		combined, ok = addLit(l2, l1)
	case op1 == ast.OpAdd && op2 == ast.OpSub:
		combined, ok = subLit(l2, l1)
	case op1 == ast.OpSub && op2 == ast.OpAdd:
		combined, ok = subLit(l2, l1)
	case op1 == ast.OpSub && op2 == ast.OpSub:
		combined, ok = addLit(l2, l1)
	}
	if !ok {
		return nil, false
	}

	// x - (-k)  ==  x + k: normalize so a negative literal under "-"
	// surfaces as a positive literal under "+".
	if resultOp == ast.OpSub && isNegative(combined) {
		resultOp = ast.OpAdd
		combined = negateLit(combined)
	}

	return &ast.BinaryExpression{Position: n.Position, Op: resultOp, Left: inner.Left, Right: combined}, true
}

func isNegative(l *ast.Literal) bool {
	switch l.Source {
	case ast.SourceInt:
		return l.Int < 0
	case ast.SourceReal:
		return l.Real < 0
	case ast.SourceBigInt:
		return l.Big.Sign() < 0
	}
	return false
}
