package wasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"watc/internal/types"
)

func TestBuilderDeclareAndEmit(t *testing.T) {
	b := NewBuilder("add")
	b.DeclareLocal("$a", &types.IntrinsicType{Name: types.I32Intrinsic}, types.I32)
	b.DeclareLocal("$b", &types.IntrinsicType{Name: types.I32Intrinsic}, types.I32)
	b.SetResult(types.I32)

	b.Emit(&LocalGet{Name: "$a"})
	b.Emit(&LocalGet{Name: "$b"})
	b.Emit(&Binary{Machine: types.I32, Op: Add})

	assert.Len(t, b.Locals(), 2)
	assert.Len(t, b.Instructions(), 3)
	assert.False(t, b.IsVoid())
	assert.Equal(t, types.I32, b.Result())
}

func TestBuilderDuplicateLocalPanics(t *testing.T) {
	b := NewBuilder("f")
	b.DeclareLocal("$x", &types.IntrinsicType{Name: types.I32Intrinsic}, types.I32)
	assert.Panics(t, func() {
		b.DeclareLocal("$x", &types.IntrinsicType{Name: types.I32Intrinsic}, types.I32)
	})
}

func TestTempLocalReusedPerMachine(t *testing.T) {
	b := NewBuilder("f")
	first := b.TempLocal(types.I32)
	second := b.TempLocal(types.I32)
	assert.Equal(t, first, second)
	assert.Len(t, b.Locals(), 1)

	other := b.TempLocal(types.F64)
	assert.NotEqual(t, first, other)
	assert.Len(t, b.Locals(), 2)
}

func TestVoidFunctionHasNoResult(t *testing.T) {
	b := NewBuilder("f")
	b.SetVoid()
	assert.True(t, b.IsVoid())
}
