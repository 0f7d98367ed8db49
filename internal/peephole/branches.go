package peephole

import "watc/internal/wasm"

// ruleDeadCodeAfterTerminator implements rule 1: everything after a
// return or an unconditional branch within a body is unreachable.
func ruleDeadCodeAfterTerminator(instrs []wasm.Instruction) ([]wasm.Instruction, bool) {
	for i, instr := range instrs {
		switch instr.(type) {
		case *wasm.Return, *wasm.Br:
			if i < len(instrs)-1 {
				out := make([]wasm.Instruction, i+1)
				copy(out, instrs[:i+1])
				return out, true
			}
		}
	}
	return instrs, false
}

// ruleIfToBrIf implements rule 2: `if { br L } else nothing` becomes
// `br_if L`, since the If carries no condition of its own - the
// preceding instruction already pushed it, and br_if consumes the same
// stack value.
func ruleIfToBrIf(instrs []wasm.Instruction) ([]wasm.Instruction, bool) {
	for i, instr := range instrs {
		ifn, ok := instr.(*wasm.If)
		if !ok || len(ifn.Else) != 0 || len(ifn.Then) != 1 {
			continue
		}
		br, ok := ifn.Then[0].(*wasm.Br)
		if !ok {
			continue
		}
		out := make([]wasm.Instruction, len(instrs))
		copy(out, instrs)
		out[i] = &wasm.BrIf{Label: br.Label}
		return out, true
	}
	return instrs, false
}

// ruleConstantBrIf implements rule 3: a br_if guarded by a known
// constant condition either always or never branches.
func ruleConstantBrIf(instrs []wasm.Instruction) ([]wasm.Instruction, bool) {
	for i := 0; i+1 < len(instrs); i++ {
		c, ok := instrs[i].(*wasm.Const)
		if !ok {
			continue
		}
		brIf, ok := instrs[i+1].(*wasm.BrIf)
		if !ok {
			continue
		}
		out := make([]wasm.Instruction, 0, len(instrs)-1)
		out = append(out, instrs[:i]...)
		if c.IntVal != 0 {
			out = append(out, &wasm.Br{Label: brIf.Label})
		}
		out = append(out, instrs[i+2:]...)
		return out, true
	}
	return instrs, false
}

// ruleRedundantBranchPair implements rule 4: the second of two
// consecutive unconditional branches to the same label is unreachable.
func ruleRedundantBranchPair(instrs []wasm.Instruction) ([]wasm.Instruction, bool) {
	for i := 0; i+1 < len(instrs); i++ {
		b1, ok1 := instrs[i].(*wasm.Br)
		b2, ok2 := instrs[i+1].(*wasm.Br)
		if ok1 && ok2 && b1.Label == b2.Label {
			out := make([]wasm.Instruction, 0, len(instrs)-1)
			out = append(out, instrs[:i+1]...)
			out = append(out, instrs[i+2:]...)
			return out, true
		}
	}
	return instrs, false
}

// ruleEmptyBranchOnlyBlock implements rule 13.
func ruleEmptyBranchOnlyBlock(instrs []wasm.Instruction) ([]wasm.Instruction, bool) {
	for i, instr := range instrs {
		switch n := instr.(type) {
		case *wasm.Loop:
			if len(n.Body) == 0 {
				return splice(instrs, i, nil), true
			}
			if len(n.Body) == 1 {
				if br, ok := n.Body[0].(*wasm.Br); ok && br.Label != n.Label {
					return spliceOne(instrs, i, br), true
				}
				if bi, ok := n.Body[0].(*wasm.BrIf); ok && bi.Label != n.Label {
					return spliceOne(instrs, i, bi), true
				}
			}
		case *wasm.Block:
			if len(n.Body) == 0 {
				return splice(instrs, i, nil), true
			}
			if len(n.Body) == 1 {
				if br, ok := n.Body[0].(*wasm.Br); ok && br.Label == n.Label {
					return splice(instrs, i, nil), true
				}
				if bi, ok := n.Body[0].(*wasm.BrIf); ok && bi.Label == n.Label {
					return splice(instrs, i, nil), true
				}
			}
		}
	}
	return instrs, false
}

// ruleLoopPeel implements rule 14: a loop never branched back into is
// equivalent to running its body once.
func ruleLoopPeel(instrs []wasm.Instruction) ([]wasm.Instruction, bool) {
	for i, instr := range instrs {
		loop, ok := instr.(*wasm.Loop)
		if !ok {
			continue
		}
		if countBranchesTo(loop.Body, loop.Label) == 0 {
			return splice(instrs, i, loop.Body), true
		}
	}
	return instrs, false
}

// ruleBlockPeel implements rule 15: a block never targeted by any br_if,
// and targeted by br only (if at all) from its own trailing top-level
// instruction, is equivalent to its body with that trailing branch
// dropped (it was only ever jumping to the block's own exit).
func ruleBlockPeel(instrs []wasm.Instruction) ([]wasm.Instruction, bool) {
	for i, instr := range instrs {
		block, ok := instr.(*wasm.Block)
		if !ok {
			continue
		}
		body := block.Body
		trailingOwnBr := false
		countBody := body
		if n := len(body); n > 0 {
			if br, ok := body[n-1].(*wasm.Br); ok && br.Label == block.Label {
				trailingOwnBr = true
				countBody = body[:n-1]
			}
		}
		if countBranchesTo(countBody, block.Label) != 0 {
			continue
		}
		if countBrIfsTo(body, block.Label) != 0 {
			continue
		}
		replacement := body
		if trailingOwnBr {
			replacement = countBody
		}
		return splice(instrs, i, replacement), true
	}
	return instrs, false
}

// splice replaces instrs[i] with replacement (which may be empty/nil).
func splice(instrs []wasm.Instruction, i int, replacement []wasm.Instruction) []wasm.Instruction {
	out := make([]wasm.Instruction, 0, len(instrs)-1+len(replacement))
	out = append(out, instrs[:i]...)
	out = append(out, replacement...)
	out = append(out, instrs[i+1:]...)
	return out
}

func spliceOne(instrs []wasm.Instruction, i int, replacement wasm.Instruction) []wasm.Instruction {
	return splice(instrs, i, []wasm.Instruction{replacement})
}

// countBranchesTo recursively counts Br instructions targeting label,
// including inside nested If/Block/Loop bodies.
func countBranchesTo(instrs []wasm.Instruction, label string) int {
	n := 0
	for _, instr := range instrs {
		switch v := instr.(type) {
		case *wasm.Br:
			if v.Label == label {
				n++
			}
		case *wasm.If:
			n += countBranchesTo(v.Then, label)
			n += countBranchesTo(v.Else, label)
		case *wasm.Block:
			n += countBranchesTo(v.Body, label)
		case *wasm.Loop:
			n += countBranchesTo(v.Body, label)
		}
	}
	return n
}

func countBrIfsTo(instrs []wasm.Instruction, label string) int {
	n := 0
	for _, instr := range instrs {
		switch v := instr.(type) {
		case *wasm.BrIf:
			if v.Label == label {
				n++
			}
		case *wasm.If:
			n += countBrIfsTo(v.Then, label)
			n += countBrIfsTo(v.Else, label)
		case *wasm.Block:
			n += countBrIfsTo(v.Body, label)
		case *wasm.Loop:
			n += countBrIfsTo(v.Body, label)
		}
	}
	return n
}
