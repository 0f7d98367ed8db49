package emit

import (
	"watc/internal/ast"
	"watc/internal/decls"
	cerrors "watc/internal/errors"
	"watc/internal/simplify"
	"watc/internal/trace"
	"watc/internal/types"
	"watc/internal/wasm"
)

// CompileFunction implements §4.1: header processing, then statement
// dispatch over the body. LocalVariableStmt, AssignmentStmt, and ExprStmt
// are lowered; the remaining statement forms are recognized and skipped,
// since statement codegen for control flow is an external collaborator
// (§6).
func CompileFunction(fn *ast.FunctionDecl, d decls.Table, sizes types.SizeOracle, errs cerrors.Sink, tr trace.Sink) *wasm.Builder {
	b := wasm.NewBuilder(fn.Name)
	e := New(d, sizes, errs, tr, b)

	for _, p := range fn.Params {
		mname := mangle(p.Name)
		if b.HasLocal(mname) {
			e.report(cerrors.DuplicateLocal, fn.Position, "duplicate local "+p.Name)
			continue
		}
		b.DeclareLocal(mname, p.Type, types.MachineOfType(p.Type))
	}

	if fn.ResultType != nil {
		b.SetResult(types.MachineOfType(fn.ResultType))
	} else {
		b.SetVoid()
	}

	s := simplify.New(d, sizes, tr)
	for _, stmt := range fn.Body {
		e.compileStmt(stmt, s)
	}
	return b
}

func (e *Emitter) compileStmt(stmt ast.Stmt, s *simplify.Simplifier) {
	switch n := stmt.(type) {
	case *ast.LocalVariableStmt:
		e.compileLocalVariable(n, s)
	case *ast.AssignmentStmt:
		e.compileAssignment(n, s)
	case *ast.ExprStmt:
		simplified := s.Simplify(n.Value)
		e.EmitExpr(simplified, true)
	default:
		if e.Trace != nil {
			e.Trace.Emit(trace.Local, 0, "skipped out-of-scope statement: "+stmt.String())
		}
	}
}

// compileLocalVariable implements §4.1's "Local variable declaration":
// reject duplicate names; if an initializer is present, simplify and
// emit it, cast to the declared storage type, then local_set into a
// freshly minted machine name.
func (e *Emitter) compileLocalVariable(n *ast.LocalVariableStmt, s *simplify.Simplifier) {
	mname := mangle(n.Name)
	if e.Builder.HasLocal(mname) {
		e.report(cerrors.DuplicateLocal, n.Position, "duplicate local "+n.Name)
		return
	}

	local := e.Builder.DeclareLocal(mname, n.StorageType, types.MachineOfType(n.StorageType))
	if e.Trace != nil {
		e.Trace.Emit(trace.Local, 0, "declared "+n.Name+": "+n.StorageType.String())
	}

	if n.Init == nil {
		return
	}
	simplified := s.Simplify(n.Init)
	initType, ok := e.EmitExpr(simplified, true)
	if !ok {
		return
	}
	if !e.emitStorageCast(initType, n.StorageType) {
		e.report(cerrors.InvalidStorageCast, n.Position, "cannot store "+initType.String()+" into "+n.StorageType.String())
		return
	}
	e.Builder.Emit(&wasm.LocalSet{Name: local.Name})
}

// compileAssignment implements the assignment statement named alongside
// LocalVariableStmt in §4.1: a wasm local is written with local.set, a
// module global with global.set, and any other addressable target (a
// memory variable, a struct field, an array item, or a dereference) goes
// through the §4.5 address calculator and a typed store, the write-side
// counterpart of loadMemoryVariable/emitIndirect's typed load.
func (e *Emitter) compileAssignment(n *ast.AssignmentStmt, s *simplify.Simplifier) {
	if id, ok := n.Target.(*ast.Identifier); ok {
		if local, ok := e.Builder.Lookup(mangle(id.Name)); ok {
			e.storeIntoLocal(n, local, s)
			return
		}
		if e.Decls != nil {
			if decl, ok := e.Decls.Lookup(id.Name); ok {
				if g, ok := decl.(*decls.GlobalDeclaration); ok {
					e.storeIntoGlobal(n, id, g, s)
					return
				}
			}
		}
	}
	e.storeIntoAddress(n, s)
}

func (e *Emitter) storeIntoLocal(n *ast.AssignmentStmt, local *wasm.Local, s *simplify.Simplifier) {
	simplified := s.Simplify(n.Value)
	valType, ok := e.EmitExpr(simplified, true)
	if !ok {
		return
	}
	if !e.emitStorageCast(valType, local.SourceType) {
		e.report(cerrors.InvalidStorageCast, n.Position, "cannot store "+valType.String()+" into "+local.SourceType.String())
		return
	}
	e.Builder.Emit(&wasm.LocalSet{Name: local.Name})
}

func (e *Emitter) storeIntoGlobal(n *ast.AssignmentStmt, id *ast.Identifier, g *decls.GlobalDeclaration, s *simplify.Simplifier) {
	simplified := s.Simplify(n.Value)
	valType, ok := e.EmitExpr(simplified, true)
	if !ok {
		return
	}
	if !e.emitStorageCast(valType, intrinsicType(g.Underlying)) {
		e.report(cerrors.InvalidStorageCast, n.Position, "cannot store "+valType.String()+" into global "+id.Name)
		return
	}
	e.Builder.Emit(&wasm.GlobalSet{Name: "$" + id.Name})
}

func (e *Emitter) storeIntoAddress(n *ast.AssignmentStmt, s *simplify.Simplifier) {
	storageType, ok := e.emitAddress(n.Target, true)
	if !ok {
		return
	}
	intr, ok := asIntrinsic(storageType)
	if !ok {
		e.report(cerrors.NonIntrinsicRequired, n.Position, "assignment target must be an intrinsic storage location")
		return
	}
	simplified := s.Simplify(n.Value)
	valType, ok := e.EmitExpr(simplified, true)
	if !ok {
		return
	}
	if !e.emitStorageCast(valType, storageType) {
		e.report(cerrors.InvalidStorageCast, n.Position, "cannot store "+valType.String()+" into "+storageType.String())
		return
	}
	e.Builder.Emit(typedStore(intr, 0))
}
