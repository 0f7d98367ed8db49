package peephole

import "watc/internal/wasm"

// ruleLocalTeeFormation implements rule 9.
func ruleLocalTeeFormation(instrs []wasm.Instruction) ([]wasm.Instruction, bool) {
	for i := 0; i+1 < len(instrs); i++ {
		set, ok := instrs[i].(*wasm.LocalSet)
		if !ok {
			continue
		}
		get, ok := instrs[i+1].(*wasm.LocalGet)
		if !ok || get.Name != set.Name {
			continue
		}
		return replaceRange(instrs, i, 2, &wasm.LocalTee{Name: set.Name}), true
	}
	return instrs, false
}

// ruleAddressOffsetAbsorption implements rule 11: a trailing `const k;
// add` that feeds directly into a load, or into a store whose value is a
// single local.get/global.get, is folded into that instruction's offset
// field. Only non-negative constant offsets are absorbed (§9).
func ruleAddressOffsetAbsorption(instrs []wasm.Instruction) ([]wasm.Instruction, bool) {
	for i := 0; i+2 < len(instrs); i++ {
		c, ok := instrs[i].(*wasm.Const)
		if !ok || c.IntVal < 0 {
			continue
		}
		add, ok := instrs[i+1].(*wasm.Binary)
		if !ok || add.Op != wasm.Add {
			continue
		}

		if load, ok := instrs[i+2].(*wasm.Load); ok {
			merged := *load
			merged.Offset += int(c.IntVal)
			return replaceRange(instrs, i, 3, &merged), true
		}

		if i+3 < len(instrs) {
			if st, ok := instrs[i+3].(*wasm.Store); ok {
				switch instrs[i+2].(type) {
				case *wasm.LocalGet, *wasm.GlobalGet:
					merged := *st
					merged.Offset += int(c.IntVal)
					return replaceRange(instrs, i, 4, instrs[i+2], &merged), true
				}
			}
		}
	}
	return instrs, false
}

// removeSingleUseTees implements rule 10: a local_tee whose local is
// referenced nowhere else in the function leaves the operand's value on
// the stack unchanged, so the store side of the tee is dead and the
// instruction itself can simply be dropped.
func removeSingleUseTees(instrs []wasm.Instruction) ([]wasm.Instruction, bool) {
	counts := map[string]int{}
	countLocalRefs(instrs, counts)
	return stripSingleUseTees(instrs, counts)
}

func countLocalRefs(instrs []wasm.Instruction, counts map[string]int) {
	for _, instr := range instrs {
		switch v := instr.(type) {
		case *wasm.LocalGet:
			counts[v.Name]++
		case *wasm.LocalSet:
			counts[v.Name]++
		case *wasm.LocalTee:
			counts[v.Name]++
		case *wasm.If:
			countLocalRefs(v.Then, counts)
			countLocalRefs(v.Else, counts)
		case *wasm.Block:
			countLocalRefs(v.Body, counts)
		case *wasm.Loop:
			countLocalRefs(v.Body, counts)
		}
	}
}

func stripSingleUseTees(instrs []wasm.Instruction, counts map[string]int) ([]wasm.Instruction, bool) {
	changed := false
	out := make([]wasm.Instruction, 0, len(instrs))
	for _, instr := range instrs {
		switch v := instr.(type) {
		case *wasm.LocalTee:
			if counts[v.Name] == 1 {
				changed = true
				continue
			}
			out = append(out, instr)
		case *wasm.If:
			newThen, c1 := stripSingleUseTees(v.Then, counts)
			newElse, c2 := stripSingleUseTees(v.Else, counts)
			if c1 || c2 {
				changed = true
				out = append(out, &wasm.If{Then: newThen, Else: newElse})
			} else {
				out = append(out, instr)
			}
		case *wasm.Block:
			newBody, c := stripSingleUseTees(v.Body, counts)
			if c {
				changed = true
				out = append(out, &wasm.Block{Label: v.Label, Body: newBody})
			} else {
				out = append(out, instr)
			}
		case *wasm.Loop:
			newBody, c := stripSingleUseTees(v.Body, counts)
			if c {
				changed = true
				out = append(out, &wasm.Loop{Label: v.Label, Body: newBody})
			} else {
				out = append(out, instr)
			}
		default:
			out = append(out, instr)
		}
	}
	return out, changed
}

// sweepLocals drops any declared local with zero references left in the
// final instruction list, per §4.6's "local-usage sweep".
func sweepLocals(b *wasm.Builder) {
	counts := map[string]int{}
	countLocalRefs(b.Instructions(), counts)
	b.FilterLocals(func(l wasm.Local) bool { return counts[l.Name] > 0 })
}
