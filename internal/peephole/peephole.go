// Package peephole implements the §4.6 fixed-point instruction-list
// optimizer: fifteen independent local rewrites plus a final local-usage
// sweep, applied to the instruction list a wasm.Builder accumulated
// during emission.
package peephole

import "watc/internal/wasm"

// levelRule rewrites at most one occurrence per call, scanning instrs at
// a single nesting level (not recursing into If/Block/Loop bodies - the
// driver handles that). Returning changed=false means the rule found
// nothing to do.
type levelRule func(instrs []wasm.Instruction) ([]wasm.Instruction, bool)

// rules lists the §4.6 rules other than rule 10 (single-use tee removal,
// which Optimize applies separately), in numbered order except as noted
// below. Each fixed-point iteration applies them once, in order; the outer loop
// in Optimize reruns the whole list until a full pass changes nothing.
// ruleAddressOffsetAbsorption runs ahead of ruleConstBinaryFold: both match
// a "const k; add" window, and when a Load/Store immediately follows, the
// offset belongs on the memory instruction rather than folded away as a
// bare integer constant.
var rules = []levelRule{
	ruleDeadCodeAfterTerminator, // 1
	ruleIfToBrIf,                // 2
	ruleConstantBrIf,            // 3
	ruleRedundantBranchPair,     // 4
	ruleAddressOffsetAbsorption, // 11
	ruleConstUnaryFold,          // 5a
	ruleConstBinaryFold,         // 5b
	ruleAdditiveFuse,            // 5c
	ruleIdentityRemoval,         // 6
	ruleDoubleEqz,               // 7
	ruleIntegerCastAbsorption,   // 8
	ruleLocalTeeFormation,       // 9
	ruleConstantDuplication,     // 12
	ruleEmptyBranchOnlyBlock,    // 13
	ruleLoopPeel,                // 14
	ruleBlockPeel,               // 15
}

// Optimize runs the peephole optimizer to a fixed point and then removes
// any local left with no references (the "local-usage sweep").
func Optimize(b *wasm.Builder) {
	instrs := b.Instructions()
	for {
		next, changed := optimizePass(instrs)
		instrs = next
		if !changed {
			break
		}
	}
	// Rule 10 needs whole-function reference counts, recomputed after
	// every other rule converges; removing a tee can itself enable
	// another round of the other rules (e.g. a now-unreachable store).
	for {
		next, changed := removeSingleUseTees(instrs)
		if !changed {
			instrs = next
			break
		}
		for {
			next2, c2 := optimizePass(next)
			next = next2
			if !c2 {
				break
			}
		}
		instrs = next
	}
	b.SetInstructions(instrs)
	sweepLocals(b)
}

// optimizePass recurses into every nested If/Block/Loop body first, then
// applies every level rule once at this level.
func optimizePass(instrs []wasm.Instruction) ([]wasm.Instruction, bool) {
	changed := false
	out := make([]wasm.Instruction, len(instrs))
	copy(out, instrs)

	for i, instr := range out {
		switch n := instr.(type) {
		case *wasm.If:
			newThen, c1 := runChildToFixedPoint(n.Then)
			newElse, c2 := runChildToFixedPoint(n.Else)
			if c1 || c2 {
				out[i] = &wasm.If{Then: newThen, Else: newElse}
				changed = true
			}
		case *wasm.Block:
			newBody, c := runChildToFixedPoint(n.Body)
			if c {
				out[i] = &wasm.Block{Label: n.Label, Body: newBody}
				changed = true
			}
		case *wasm.Loop:
			newBody, c := runChildToFixedPoint(n.Body)
			if c {
				out[i] = &wasm.Loop{Label: n.Label, Body: newBody}
				changed = true
			}
		}
	}

	for _, rule := range rules {
		next, c := rule(out)
		if c {
			out = next
			changed = true
		}
	}
	return out, changed
}

func runChildToFixedPoint(instrs []wasm.Instruction) ([]wasm.Instruction, bool) {
	any := false
	for {
		next, c := optimizePass(instrs)
		instrs = next
		if !c {
			break
		}
		any = true
	}
	return instrs, any
}
