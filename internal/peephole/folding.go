package peephole

import (
	"watc/internal/types"
	"watc/internal/wasm"
)

// replaceRange swaps instrs[start:start+count] for replacement, which may
// have a different length (including zero, for pure removal).
func replaceRange(instrs []wasm.Instruction, start, count int, replacement ...wasm.Instruction) []wasm.Instruction {
	out := make([]wasm.Instruction, 0, len(instrs)-count+len(replacement))
	out = append(out, instrs[:start]...)
	out = append(out, replacement...)
	out = append(out, instrs[start+count:]...)
	return out
}

// ruleConstUnaryFold implements the "const a; <unary>" half of rule 5,
// restricted to the two recognized conversions: extend32 and demote64.
func ruleConstUnaryFold(instrs []wasm.Instruction) ([]wasm.Instruction, bool) {
	for i := 0; i+1 < len(instrs); i++ {
		c, ok := instrs[i].(*wasm.Const)
		if !ok {
			continue
		}
		conv, ok := instrs[i+1].(*wasm.Convert)
		if !ok {
			continue
		}
		switch {
		case conv.From == types.I32 && conv.To == types.I64:
			folded := c.IntVal
			if !conv.Signed {
				folded = int64(uint32(c.IntVal))
			}
			return replaceRange(instrs, i, 2, &wasm.Const{Machine: types.I64, IntVal: folded}), true
		case conv.From == types.F64 && conv.To == types.F32:
			folded := float64(float32(c.FloatVal))
			return replaceRange(instrs, i, 2, &wasm.Const{Machine: types.F32, FloatVal: folded}), true
		}
	}
	return instrs, false
}

// ruleConstBinaryFold implements the "const a; const b; <binary>" half of
// rule 5 for the recognized operators.
func ruleConstBinaryFold(instrs []wasm.Instruction) ([]wasm.Instruction, bool) {
	for i := 0; i+2 < len(instrs); i++ {
		a, ok1 := instrs[i].(*wasm.Const)
		b, ok2 := instrs[i+1].(*wasm.Const)
		bin, ok3 := instrs[i+2].(*wasm.Binary)
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		folded, ok := foldConstBinary(a, b, bin)
		if !ok {
			continue
		}
		return replaceRange(instrs, i, 3, folded), true
	}
	return instrs, false
}

func foldConstBinary(a, b *wasm.Const, bin *wasm.Binary) (*wasm.Const, bool) {
	m := bin.Machine
	if m == types.F32 || m == types.F64 {
		switch bin.Op {
		case wasm.Add:
			return &wasm.Const{Machine: m, FloatVal: a.FloatVal + b.FloatVal}, true
		case wasm.Mul:
			return &wasm.Const{Machine: m, FloatVal: a.FloatVal * b.FloatVal}, true
		default:
			return nil, false
		}
	}

	width := 32
	if m == types.I64 {
		width = 64
	}
	var result int64
	switch bin.Op {
	case wasm.Add:
		result = a.IntVal + b.IntVal
	case wasm.Mul:
		result = a.IntVal * b.IntVal
	case wasm.BAnd:
		result = a.IntVal & b.IntVal
	case wasm.BOr:
		result = a.IntVal | b.IntVal
	case wasm.BXor:
		result = a.IntVal ^ b.IntVal
	case wasm.Shl:
		result = wrapInt(a.IntVal<<uint(b.IntVal%int64(width)), width)
		return &wasm.Const{Machine: m, IntVal: result}, true
	case wasm.Shr:
		return &wasm.Const{Machine: m, IntVal: shiftRight(a.IntVal, b.IntVal, width, bin.Signed)}, true
	default:
		return nil, false
	}
	return &wasm.Const{Machine: m, IntVal: wrapInt(result, width)}, true
}

// wrapInt reduces v to its two's-complement representation at the given
// bit width, matching §9's note on signed 64<->32 modular reduction.
func wrapInt(v int64, width int) int64 {
	if width >= 64 {
		return v
	}
	mask := int64(1)<<uint(width) - 1
	v &= mask
	signBit := int64(1) << uint(width-1)
	if v&signBit != 0 {
		v -= mask + 1
	}
	return v
}

func shiftRight(a, b int64, width int, signed bool) int64 {
	shift := uint(b % int64(width))
	if signed {
		return wrapInt(a>>shift, width)
	}
	mask := int64(1)<<uint(width) - 1
	if width == 64 {
		mask = -1
	}
	uv := uint64(a) & uint64(mask)
	return wrapInt(int64(uv>>shift), width)
}

func isAdditive(op wasm.BinaryOp) bool { return op == wasm.Add || op == wasm.Sub }

// ruleAdditiveFuse implements the "const a; <binary>; const b; <binary>"
// half of rule 5: two consecutive additive constants fuse into one.
func ruleAdditiveFuse(instrs []wasm.Instruction) ([]wasm.Instruction, bool) {
	for i := 0; i+3 < len(instrs); i++ {
		a, ok1 := instrs[i].(*wasm.Const)
		op1, ok2 := instrs[i+1].(*wasm.Binary)
		b, ok3 := instrs[i+2].(*wasm.Const)
		op2, ok4 := instrs[i+3].(*wasm.Binary)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		if !isAdditive(op1.Op) || !isAdditive(op2.Op) || op1.Machine != op2.Machine {
			continue
		}
		deltaA, deltaB := a.IntVal, b.IntVal
		if op1.Op == wasm.Sub {
			deltaA = -deltaA
		}
		if op2.Op == wasm.Sub {
			deltaB = -deltaB
		}
		combined := deltaA + deltaB
		if combined < 0 {
			return replaceRange(instrs, i, 4,
				&wasm.Const{Machine: op2.Machine, IntVal: -combined},
				&wasm.Binary{Machine: op2.Machine, Op: wasm.Sub}), true
		}
		return replaceRange(instrs, i, 4,
			&wasm.Const{Machine: op2.Machine, IntVal: combined},
			&wasm.Binary{Machine: op2.Machine, Op: wasm.Add}), true
	}
	return instrs, false
}

// ruleIdentityRemoval implements rule 6.
func ruleIdentityRemoval(instrs []wasm.Instruction) ([]wasm.Instruction, bool) {
	for i := 0; i+1 < len(instrs); i++ {
		c, ok := instrs[i].(*wasm.Const)
		if !ok {
			continue
		}
		bin, ok := instrs[i+1].(*wasm.Binary)
		if !ok {
			continue
		}
		isZero := c.IntVal == 0 && c.FloatVal == 0
		if isZero && (bin.Op == wasm.Add || bin.Op == wasm.Sub) {
			return replaceRange(instrs, i, 2), true
		}
		isOne := c.IntVal == 1 || c.FloatVal == 1
		if isOne && (bin.Op == wasm.Mul || bin.Op == wasm.Div) {
			return replaceRange(instrs, i, 2), true
		}
	}
	return instrs, false
}

// ruleDoubleEqz implements rule 7.
func ruleDoubleEqz(instrs []wasm.Instruction) ([]wasm.Instruction, bool) {
	for i := 0; i+2 < len(instrs); i++ {
		c, ok := instrs[i].(*wasm.Const)
		if !ok {
			continue
		}
		u1, ok := instrs[i+1].(*wasm.Unary)
		if !ok || u1.Op != wasm.Eqz {
			continue
		}
		u2, ok := instrs[i+2].(*wasm.Unary)
		if !ok || u2.Op != wasm.Eqz {
			continue
		}
		val := int64(0)
		if c.IntVal != 0 {
			val = 1
		}
		return replaceRange(instrs, i, 3, &wasm.Const{Machine: types.I32, IntVal: val}), true
	}
	return instrs, false
}

// ruleIntegerCastAbsorption implements rule 8: a narrow store already
// truncates, so a preceding mask to the same width is redundant.
func ruleIntegerCastAbsorption(instrs []wasm.Instruction) ([]wasm.Instruction, bool) {
	for i := 0; i+2 < len(instrs); i++ {
		c, ok := instrs[i].(*wasm.Const)
		if !ok {
			continue
		}
		bin, ok := instrs[i+1].(*wasm.Binary)
		if !ok || bin.Op != wasm.BAnd {
			continue
		}
		st, ok := instrs[i+2].(*wasm.Store)
		if !ok {
			continue
		}
		if (c.IntVal == 0xff && st.Width == 8) || (c.IntVal == 0xffff && st.Width == 16) {
			return replaceRange(instrs, i, 2), true
		}
	}
	return instrs, false
}

// ruleConstantDuplication implements rule 12.
func ruleConstantDuplication(instrs []wasm.Instruction) ([]wasm.Instruction, bool) {
	for i := 0; i+2 < len(instrs); i++ {
		c, ok := instrs[i].(*wasm.Const)
		if !ok {
			continue
		}
		tee, ok := instrs[i+1].(*wasm.LocalTee)
		if !ok {
			continue
		}
		get, ok := instrs[i+2].(*wasm.LocalGet)
		if !ok || get.Name != tee.Name {
			continue
		}
		dup := *c
		return replaceRange(instrs, i, 3, c, &dup), true
	}
	return instrs, false
}
