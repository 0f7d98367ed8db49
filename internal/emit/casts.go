package emit

import (
	"watc/internal/cast"
	"watc/internal/types"
	"watc/internal/wasm"
)

// emitCast appends the instruction sequence for a cast.Plan.
func (e *Emitter) emitCast(plan cast.Plan) {
	switch plan.Kind {
	case cast.NoOp:
		// nothing to do: same machine representation
	case cast.Wrap64:
		e.Builder.Emit(&wasm.Convert{From: types.I64, To: types.I32})
	case cast.Extend32Signed:
		e.Builder.Emit(&wasm.Convert{From: types.I32, To: types.I64, Signed: true})
	case cast.Extend32Unsigned:
		e.Builder.Emit(&wasm.Convert{From: types.I32, To: types.I64, Signed: false})
	case cast.ConvertSigned:
		e.Builder.Emit(&wasm.Convert{From: plan.FromMach, To: plan.ToMach, Signed: true})
	case cast.ConvertUnsigned:
		e.Builder.Emit(&wasm.Convert{From: plan.FromMach, To: plan.ToMach, Signed: false})
	case cast.TruncSigned:
		e.Builder.Emit(&wasm.Convert{From: plan.FromMach, To: plan.ToMach, Signed: true})
	case cast.TruncUnsigned:
		e.Builder.Emit(&wasm.Convert{From: plan.FromMach, To: plan.ToMach, Signed: false})
	case cast.Promote32:
		e.Builder.Emit(&wasm.Convert{From: types.F32, To: types.F64})
	case cast.Demote64:
		e.Builder.Emit(&wasm.Convert{From: types.F64, To: types.F32})
	}

	if plan.Tighten != nil {
		e.Builder.Emit(&wasm.Tighten{Width: plan.Tighten.Width, Signed: plan.Tighten.Signed})
	}
}

// castOperand emits the conversion from `from` to `to` on whatever value
// is already on top of the stack.
func (e *Emitter) castOperand(from, to types.Intrinsic) {
	if from == to {
		return
	}
	e.emitCast(cast.Classify(from, to))
}

// emitStorageCast applies §4.4's storage cast when assigning/initializing
// a value of type `from` into storage of type `to`. ok is false when the
// combination is invalid (reported as InvalidStorageCast).
func (e *Emitter) emitStorageCast(from, to types.Type) bool {
	sp := cast.ClassifyStorage(from, to)
	if sp.Rejected {
		return false
	}
	if sp.IsNoop {
		return true
	}
	e.emitCast(sp.Plan)
	return true
}

// typedLoad builds the §4.4 "Typed memory access" load instruction for a
// memory-variable read of the given intrinsic.
func typedLoad(i types.Intrinsic, offset int) *wasm.Load {
	m := types.MachineOf(i)
	switch {
	case m == types.F32 || m == types.F64:
		return &wasm.Load{Machine: m, Offset: offset}
	case types.BitWidth(i) == 32 || types.BitWidth(i) == 64:
		return &wasm.Load{Machine: m, Offset: offset}
	default:
		return &wasm.Load{Machine: m, Width: types.BitWidth(i), Signed: types.IsSigned(i), Offset: offset}
	}
}

// typedStore builds the matching store instruction.
func typedStore(i types.Intrinsic, offset int) *wasm.Store {
	m := types.MachineOf(i)
	w := types.BitWidth(i)
	if m == types.F32 || m == types.F64 || w == 32 || w == 64 {
		return &wasm.Store{Machine: m, Offset: offset}
	}
	return &wasm.Store{Machine: m, Width: w, Offset: offset}
}
