// Package simplify implements the §4.2 expression simplifier: a pure,
// idempotent tree rewriter applying identity elimination, literal
// reordering, additive re-association, and constant folding, in that
// order, until a pass produces no change.
package simplify

import (
	"watc/internal/ast"
	"watc/internal/decls"
	"watc/internal/trace"
	"watc/internal/types"
)

// Simplifier holds the read-only collaborators the simplifier consults:
// the declaration table (for named-constant resolution) and the size
// oracle (for sizeof resolution).
type Simplifier struct {
	Decls  decls.Table
	Sizes  types.SizeOracle
	Trace  trace.Sink
}

// New builds a Simplifier. decls/sizes/tr may be nil; a nil trace.Sink
// simply drops events.
func New(d decls.Table, sizes types.SizeOracle, tr trace.Sink) *Simplifier {
	return &Simplifier{Decls: d, Sizes: sizes, Trace: tr}
}

// maxPasses bounds the fixed-point loop; every rule strictly shrinks or
// folds the tree, so in practice this is never approached.
const maxPasses = 64

// Simplify runs the rewrite rules to a fixed point and returns the
// resulting tree (possibly the same node, possibly a new one).
func (s *Simplifier) Simplify(e ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	if s.Trace != nil {
		s.Trace.Emit(trace.PExpr, 0, "before: "+e.String())
	}
	for i := 0; i < maxPasses; i++ {
		next, changed := s.passOnce(e)
		e = next
		if !changed {
			break
		}
	}
	if s.Trace != nil {
		s.Trace.Emit(trace.PExpr, 0, "after: "+e.String())
	}
	return e
}

// passOnce recurses into children first (so folding can see already-
// simplified subtrees), then applies the node-level rules in the order
// specified by §4.2.
func (s *Simplifier) passOnce(e ast.Expr) (ast.Expr, bool) {
	changed := false

	switch n := e.(type) {
	case *ast.Literal:
		return n, false

	case *ast.Identifier:
		if lit, ok := s.resolveConst(n); ok {
			return lit, true
		}
		return n, false

	case *ast.UnaryExpression:
		newOperand, c := s.passOnce(n.Operand)
		if c {
			n.Operand = newOperand
			changed = true
		}
		if folded, ok := foldUnary(n); ok {
			return folded, true
		}
		return n, changed

	case *ast.BinaryExpression:
		newLeft, cl := s.passOnce(n.Left)
		newRight, cr := s.passOnce(n.Right)
		if cl {
			n.Left = newLeft
			changed = true
		}
		if cr {
			n.Right = newRight
			changed = true
		}

		if rewritten, ok := applyIdentity(n); ok {
			return rewritten, true
		}
		if reordered := reorderCommutative(n); reordered {
			changed = true
		}
		if refolded, ok := refoldAdditiveChain(n); ok {
			return refolded, true
		}
		if folded, ok := foldBinary(n); ok {
			return folded, true
		}
		return n, changed

	case *ast.ConditionalExpression:
		newCond, cc := s.passOnce(n.Condition)
		newThen, ct := s.passOnce(n.Then)
		newElse, ce := s.passOnce(n.Else)
		if cc {
			n.Condition = newCond
			changed = true
		}
		if ct {
			n.Then = newThen
			changed = true
		}
		if ce {
			n.Else = newElse
			changed = true
		}
		if folded, ok := foldConditional(n); ok {
			return folded, true
		}
		return n, changed

	case *ast.TypeCast:
		newOperand, c := s.passOnce(n.Operand)
		if c {
			n.Operand = newOperand
			changed = true
		}
		if folded, ok := foldTypeCast(n); ok {
			return folded, true
		}
		return n, changed

	case *ast.MemberAccess:
		newObj, c := s.passOnce(n.Object)
		if c {
			n.Object = newObj
			changed = true
		}
		return n, changed

	case *ast.ItemAccess:
		newArr, ca := s.passOnce(n.Array)
		newIdx, ci := s.passOnce(n.Index)
		if ca {
			n.Array = newArr
			changed = true
		}
		if ci {
			n.Index = newIdx
			changed = true
		}
		return n, changed

	case *ast.DereferenceExpression:
		newOperand, c := s.passOnce(n.Operand)
		if c {
			n.Operand = newOperand
			changed = true
		}
		return n, changed

	case *ast.BuiltInFunctionInvocation:
		for i, arg := range n.Args {
			newArg, c := s.passOnce(arg)
			if c {
				n.Args[i] = newArg
				changed = true
			}
		}
		if folded, ok := foldBuiltin(n); ok {
			return folded, true
		}
		return n, changed

	case *ast.FunctionInvocation:
		for i, arg := range n.Args {
			newArg, c := s.passOnce(arg)
			if c {
				n.Args[i] = newArg
				changed = true
			}
		}
		return n, changed

	case *ast.SizeOfExpression:
		if s.Sizes == nil {
			return n, false
		}
		size := s.Sizes.SizeOf(n.TypeSpec)
		return ast.NewIntLiteral(n.Position, int64(size)), true

	default:
		return e, false
	}
}

func (s *Simplifier) resolveConst(id *ast.Identifier) (*ast.Literal, bool) {
	if s.Decls == nil {
		return nil, false
	}
	decl, ok := s.Decls.Lookup(id.Name)
	if !ok {
		return nil, false
	}
	cd, ok := decl.(*decls.ConstDeclaration)
	if !ok || cd.Value == nil {
		return nil, false
	}
	clone := *cd.Value
	clone.Position = id.Position
	return &clone, true
}

func isLiteral(e ast.Expr) (*ast.Literal, bool) {
	l, ok := e.(*ast.Literal)
	return l, ok
}
