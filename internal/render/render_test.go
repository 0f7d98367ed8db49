package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"watc/internal/types"
	"watc/internal/wasm"
)

func TestRenderFunctionSignatureAndBody(t *testing.T) {
	b := wasm.NewBuilder("add")
	b.DeclareLocal("$a", nil, types.I32)
	b.DeclareLocal("$b", nil, types.I32)
	b.SetResult(types.I32)
	b.Emit(&wasm.LocalGet{Name: "$a"})
	b.Emit(&wasm.LocalGet{Name: "$b"})
	b.Emit(&wasm.Binary{Machine: types.I32, Op: wasm.Add})

	out := RenderFunction(Function{Name: "add", ParamCount: 2, Builder: b})

	assert.True(t, strings.Contains(out, "(func $add (param $a i32) (param $b i32) (result i32)"))
	assert.True(t, strings.Contains(out, "local.get $a"))
	assert.True(t, strings.Contains(out, "i32.add"))
}

func TestRenderFunctionEmitsLocalsAfterParams(t *testing.T) {
	b := wasm.NewBuilder("f")
	b.DeclareLocal("$p", nil, types.I32)
	b.DeclareLocal("$tmp", nil, types.I64)
	b.SetVoid()

	out := RenderFunction(Function{Name: "f", ParamCount: 1, Builder: b})
	assert.True(t, strings.Contains(out, "(local $tmp i64)"))
	assert.False(t, strings.Contains(out, "(local $p i32)"))
}

func TestRenderModuleWrapsFunctions(t *testing.T) {
	b := wasm.NewBuilder("f")
	b.SetVoid()
	out := Module([]Function{{Name: "f", Builder: b}})
	assert.True(t, strings.HasPrefix(out, "(module\n"))
	assert.True(t, strings.Contains(out, "(func $f"))
	assert.True(t, strings.HasSuffix(strings.TrimRight(out, "\n"), ")"))
}

func TestRenderNestedBlockIndentation(t *testing.T) {
	b := wasm.NewBuilder("f")
	b.SetVoid()
	b.Emit(&wasm.Loop{Label: "L", Body: []wasm.Instruction{
		&wasm.Br{Label: "L"},
	}})
	out := RenderFunction(Function{Name: "f", Builder: b})
	assert.True(t, strings.Contains(out, "(loop $L"))
	assert.True(t, strings.Contains(out, "br L"))
}
