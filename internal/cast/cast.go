// Package cast implements the canonical type-cast / storage-cast table of
// §4.4, shared by the expression simplifier (constant-folding a TypeCast
// over a literal operand) and the expression emitter (emitting the actual
// wasm conversion instructions).
package cast

import "watc/internal/types"

// Kind is the machine-level conversion step a cast requires, before any
// tightening.
type Kind int

const (
	NoOp Kind = iota
	Wrap64
	Extend32Signed
	Extend32Unsigned
	ConvertSigned
	ConvertUnsigned
	TruncSigned
	TruncUnsigned
	Promote32
	Demote64
)

// Tighten describes the post-conversion narrowing step for an 8- or
// 16-bit integer target (§4.4 "tighten").
type Tighten struct {
	Width  int // 8 or 16
	Signed bool
}

// Plan is the full cast recipe for a single source->target conversion.
type Plan struct {
	Kind       Kind
	Tighten    *Tighten // nil when the target is not 8/16-bit
	FromMach   types.Machine
	ToMach     types.Machine
}

// Classify builds the cast plan for source intrinsic `from` to target
// intrinsic `to`, per §4.4.
func Classify(from, to types.Intrinsic) Plan {
	fm, tm := types.MachineOf(from), types.MachineOf(to)
	plan := Plan{FromMach: fm, ToMach: tm}

	switch {
	case fm == tm:
		plan.Kind = NoOp
	case fm == types.I64 && tm == types.I32:
		plan.Kind = Wrap64
	case fm == types.I32 && tm == types.I64:
		if types.IsSigned(to) {
			plan.Kind = Extend32Signed
		} else {
			plan.Kind = Extend32Unsigned
		}
	case (fm == types.I32 || fm == types.I64) && (tm == types.F32 || tm == types.F64):
		if types.IsSigned(from) {
			plan.Kind = ConvertSigned
		} else {
			plan.Kind = ConvertUnsigned
		}
	case (fm == types.F32 || fm == types.F64) && (tm == types.I32 || tm == types.I64):
		if types.IsSigned(to) {
			plan.Kind = TruncSigned
		} else {
			plan.Kind = TruncUnsigned
		}
	case fm == types.F32 && tm == types.F64:
		plan.Kind = Promote32
	case fm == types.F64 && tm == types.F32:
		plan.Kind = Demote64
	default:
		plan.Kind = NoOp
	}

	if w := types.BitWidth(to); w == 8 || w == 16 {
		plan.Tighten = &Tighten{Width: w, Signed: types.IsSigned(to)}
	}
	return plan
}

// StoragePlan is the result of classifying an assignment/initializer
// cast, which additionally has to deal with pointer targets (§4.4
// "Storage cast").
type StoragePlan struct {
	Plan     Plan
	IsNoop   bool // true for pointer<-pointer: no instructions needed
	Rejected bool // true when the source/target combination is invalid
}

// ClassifyStorage builds the cast plan for assigning a value of type
// `from` to a storage location of type `to`. Assigning to a pointer
// accepts a pointer or any non-float intrinsic; 64-bit integers are
// narrowed via wrap64 before storage.
func ClassifyStorage(from, to types.Type) StoragePlan {
	_, toIsPtr := to.(*types.PointerType)
	_, fromIsPtr := from.(*types.PointerType)

	if toIsPtr {
		if fromIsPtr {
			return StoragePlan{IsNoop: true}
		}
		fromIntr, ok := from.(*types.IntrinsicType)
		if !ok || types.IsFloat(fromIntr.Name) {
			return StoragePlan{Rejected: true}
		}
		if types.MachineOf(fromIntr.Name) == types.I64 {
			return StoragePlan{Plan: Plan{Kind: Wrap64, FromMach: types.I64, ToMach: types.I32}}
		}
		return StoragePlan{IsNoop: true}
	}

	fromIntr, fromOk := from.(*types.IntrinsicType)
	toIntr, toOk := to.(*types.IntrinsicType)
	if !fromOk || !toOk {
		return StoragePlan{Rejected: true}
	}
	return StoragePlan{Plan: Classify(fromIntr.Name, toIntr.Name)}
}
