// Package emit implements the §4.3 type-directed expression emitter, the
// §4.4 cast tables wired to concrete wasm instructions, the §4.5 address
// calculator, and the §4.1 function body compiler that ties them
// together.
package emit

import (
	"github.com/iancoleman/strcase"
	"github.com/pkg/errors"

	"watc/internal/ast"
	"watc/internal/decls"
	cerrors "watc/internal/errors"
	"watc/internal/trace"
	"watc/internal/types"
	"watc/internal/wasm"
)

// Emitter holds the collaborators an expression compilation needs: the
// declaration table, the size oracle, the error sink, the trace sink,
// and the builder accumulating the current function's body.
type Emitter struct {
	Decls   decls.Table
	Sizes   types.SizeOracle
	Errors  cerrors.Sink
	Trace   trace.Sink
	Builder *wasm.Builder
}

// New builds an Emitter for a single function compilation.
func New(d decls.Table, sizes types.SizeOracle, errs cerrors.Sink, tr trace.Sink, b *wasm.Builder) *Emitter {
	return &Emitter{Decls: d, Sizes: sizes, Errors: errs, Trace: tr, Builder: b}
}

func (e *Emitter) report(code cerrors.Code, pos ast.Position, msg string) {
	if e.Errors != nil {
		e.Errors.Report(code, pos, msg, nil)
	}
}

// mangle derives a local's wasm-visible name from its source name.
func mangle(name string) string {
	return "$" + strcase.ToSnake(name)
}

func intrinsicType(i types.Intrinsic) *types.IntrinsicType { return &types.IntrinsicType{Name: i} }

// asIntrinsic extracts the intrinsic name from a scalar Type, or false
// when t is a composite (pointer/array/struct) type.
func asIntrinsic(t types.Type) (types.Intrinsic, bool) {
	it, ok := t.(*types.IntrinsicType)
	if !ok {
		return "", false
	}
	return it.Name, true
}

// resultLattice picks the §4.3 binary-op result intrinsic: f64 if either
// operand is a float, else i64 if either is 64-bit, else i32.
func resultLattice(a, b types.Intrinsic) types.Intrinsic {
	if types.IsFloat(a) || types.IsFloat(b) {
		return types.F64Intrinsic
	}
	if types.Is64(a) || types.Is64(b) {
		return types.I64Intrinsic
	}
	return types.I32Intrinsic
}

// EmitExpr walks the (already-simplified) expression tree, returning its
// result type. When emit is true, instructions are appended to e.Builder.
// A false ok return means a definition/type error was already reported
// and the caller must propagate failure without further emission (§7).
func (e *Emitter) EmitExpr(expr ast.Expr, emit bool) (types.Type, bool) {
	switch n := expr.(type) {
	case *ast.Literal:
		return e.emitLiteral(n, emit)
	case *ast.Identifier:
		return e.emitIdentifier(n, emit)
	case *ast.UnaryExpression:
		return e.emitUnary(n, emit)
	case *ast.BinaryExpression:
		return e.emitBinary(n, emit)
	case *ast.ConditionalExpression:
		return e.emitConditional(n, emit)
	case *ast.TypeCast:
		return e.emitTypeCast(n, emit)
	case *ast.MemberAccess, *ast.ItemAccess, *ast.DereferenceExpression:
		return e.emitIndirect(expr, emit)
	case *ast.BuiltInFunctionInvocation:
		return e.emitBuiltin(n, emit)
	case *ast.SizeOfExpression:
		if e.Sizes == nil {
			return nil, false
		}
		if emit {
			e.Builder.Emit(&wasm.Const{Machine: types.I32, IntVal: int64(e.Sizes.SizeOf(n.TypeSpec))})
		}
		return intrinsicType(types.I32Intrinsic), true
	case *ast.FunctionInvocation:
		// Out of scope (§4.3): recognized so the dispatch stays exhaustive.
		return nil, false
	default:
		panic(errors.Errorf("emit: unhandled expression node %T", expr))
	}
}

func (e *Emitter) emitLiteral(l *ast.Literal, emit bool) (types.Type, bool) {
	switch l.Source {
	case ast.SourceInt:
		if emit {
			e.Builder.Emit(&wasm.Const{Machine: types.I32, IntVal: l.Int})
		}
		return intrinsicType(types.I32Intrinsic), true
	case ast.SourceReal:
		if emit {
			e.Builder.Emit(&wasm.Const{Machine: types.F64, FloatVal: l.Real})
		}
		return intrinsicType(types.F64Intrinsic), true
	case ast.SourceBigInt:
		if emit {
			e.Builder.Emit(&wasm.Const{Machine: types.I64, IntVal: l.Big.Int64()})
		}
		return intrinsicType(types.I64Intrinsic), true
	}
	return nil, false
}

func (e *Emitter) emitIdentifier(id *ast.Identifier, emit bool) (types.Type, bool) {
	if local, ok := e.Builder.Lookup(mangle(id.Name)); ok {
		if emit {
			e.Builder.Emit(&wasm.LocalGet{Name: local.Name})
		}
		return local.SourceType, true
	}

	if e.Decls != nil {
		if decl, ok := e.Decls.Lookup(id.Name); ok {
			switch d := decl.(type) {
			case *decls.GlobalDeclaration:
				if emit {
					e.Builder.Emit(&wasm.GlobalGet{Name: "$" + id.Name})
				}
				return intrinsicType(d.Underlying), true
			case *decls.VariableDeclaration:
				return e.loadMemoryVariable(id.Position, d, emit)
			}
		}
	}

	e.report(cerrors.UnresolvedIdentifier, id.Position, "unknown identifier "+id.Name)
	return nil, false
}

// loadMemoryVariable pushes a memory variable's constant address and
// issues a typed load (§4.4 "Typed memory access"), or leaves the
// address on the stack for a composite type (for further indexing).
func (e *Emitter) loadMemoryVariable(pos ast.Position, v *decls.VariableDeclaration, emit bool) (types.Type, bool) {
	if emit {
		e.Builder.Emit(&wasm.Const{Machine: types.I32, IntVal: int64(v.Address)})
	}
	intr, ok := asIntrinsic(v.Spec)
	if !ok {
		return v.Spec, true
	}
	if emit {
		e.Builder.Emit(typedLoad(intr, 0))
	}
	return v.Spec, true
}
