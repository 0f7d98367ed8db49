package emit

import (
	"watc/internal/ast"
	"watc/internal/decls"
	cerrors "watc/internal/errors"
	"watc/internal/types"
	"watc/internal/wasm"
)

// emitAddress computes the effective byte address of an lvalue
// expression (§4.5), returning the storage type the address points at.
// It recurses, emitting the arithmetic as it goes.
func (e *Emitter) emitAddress(expr ast.Expr, emit bool) (types.Type, bool) {
	switch n := expr.(type) {
	case *ast.Identifier:
		return e.addressOfIdentifier(n, emit)
	case *ast.MemberAccess:
		return e.addressOfMember(n, emit)
	case *ast.ItemAccess:
		return e.addressOfItem(n, emit)
	case *ast.DereferenceExpression:
		return e.addressOfDereference(n, emit)
	default:
		e.report(cerrors.AddressOfNonAddressable, expr.Pos(), "expression is not addressable")
		return nil, false
	}
}

func (e *Emitter) addressOfIdentifier(id *ast.Identifier, emit bool) (types.Type, bool) {
	if e.Decls == nil {
		e.report(cerrors.AddressOfNonAddressable, id.Position, "unknown identifier "+id.Name)
		return nil, false
	}
	decl, ok := e.Decls.Lookup(id.Name)
	if !ok {
		e.report(cerrors.UnresolvedIdentifier, id.Position, "unknown identifier "+id.Name)
		return nil, false
	}
	v, ok := decl.(*decls.VariableDeclaration)
	if !ok {
		e.report(cerrors.AddressOfNonAddressable, id.Position, id.Name+" is not a memory variable")
		return nil, false
	}
	if emit {
		e.Builder.Emit(&wasm.Const{Machine: types.I32, IntVal: int64(v.Address)})
	}
	return v.Spec, true
}

func (e *Emitter) addressOfMember(n *ast.MemberAccess, emit bool) (types.Type, bool) {
	baseType, ok := e.emitAddress(n.Object, emit)
	if !ok {
		return nil, false
	}
	st, ok := baseType.(*types.StructType)
	if !ok {
		e.report(cerrors.MemberAccessMisuse, n.Position, "member access on non-struct type")
		return nil, false
	}
	field, ok := st.Field(n.MemberName)
	if !ok {
		e.report(cerrors.MemberAccessMisuse, n.Position, "unknown field "+n.MemberName)
		return nil, false
	}
	if emit && field.Offset != 0 {
		e.Builder.Emit(&wasm.Const{Machine: types.I32, IntVal: int64(field.Offset)})
		e.Builder.Emit(&wasm.Binary{Machine: types.I32, Op: wasm.Add})
	}
	return field.Type, true
}

func (e *Emitter) addressOfItem(n *ast.ItemAccess, emit bool) (types.Type, bool) {
	baseType, ok := e.emitAddress(n.Array, emit)
	if !ok {
		return nil, false
	}
	at, ok := baseType.(*types.ArrayType)
	if !ok {
		e.report(cerrors.ItemAccessOnNonArray, n.Position, "item access on non-array type")
		return nil, false
	}
	if e.Sizes == nil {
		return nil, false
	}
	itemSize := e.Sizes.SizeOf(at.Elem)

	if lit, isLit := n.Index.(*ast.Literal); isLit && lit.Source != ast.SourceReal {
		offset := litAsInt(lit) * int64(itemSize)
		if emit && offset != 0 {
			e.Builder.Emit(&wasm.Const{Machine: types.I32, IntVal: offset})
			e.Builder.Emit(&wasm.Binary{Machine: types.I32, Op: wasm.Add})
		}
		return at.Elem, true
	}

	indexType, ok := e.EmitExpr(n.Index, emit)
	if !ok {
		return nil, false
	}
	indexIntr, ok := asIntrinsic(indexType)
	if !ok {
		e.report(cerrors.NonIntrinsicOperand, n.Position, "array index must be intrinsic")
		return nil, false
	}
	if emit {
		e.castOperand(indexIntr, types.I32Intrinsic)
		e.Builder.Emit(&wasm.Const{Machine: types.I32, IntVal: int64(itemSize)})
		e.Builder.Emit(&wasm.Binary{Machine: types.I32, Op: wasm.Mul})
		e.Builder.Emit(&wasm.Binary{Machine: types.I32, Op: wasm.Add})
	}
	return at.Elem, true
}

func litAsInt(l *ast.Literal) int64 {
	if l.Source == ast.SourceBigInt {
		return l.Big.Int64()
	}
	return l.Int
}

func (e *Emitter) addressOfDereference(n *ast.DereferenceExpression, emit bool) (types.Type, bool) {
	operandType, ok := e.EmitExpr(n.Operand, emit)
	if !ok {
		return nil, false
	}
	pt, ok := operandType.(*types.PointerType)
	if !ok {
		e.report(cerrors.DereferenceOnNonPointer, n.Position, "dereference of non-pointer type")
		return nil, false
	}
	return pt.Elem, true
}

// emitIndirect implements §4.3's "Indirect access": delegate to the
// address calculator; if the storage type is intrinsic, emit the typed
// load, otherwise leave the address on the stack for further indexing.
func (e *Emitter) emitIndirect(expr ast.Expr, emit bool) (types.Type, bool) {
	storageType, ok := e.emitAddress(expr, emit)
	if !ok {
		return nil, false
	}
	intr, ok := asIntrinsic(storageType)
	if !ok {
		return storageType, true
	}
	if emit {
		e.Builder.Emit(typedLoad(intr, 0))
	}
	return storageType, true
}
