package decls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"watc/internal/types"
)

func TestMemTableDefineAndLookup(t *testing.T) {
	tbl := NewMemTable()
	tbl.Define("g", &GlobalDeclaration{Underlying: types.I32Intrinsic})
	tbl.Define("v", &VariableDeclaration{Address: 100, Spec: &types.IntrinsicType{Name: types.F64Intrinsic}})

	d, ok := tbl.Lookup("g")
	assert.True(t, ok)
	assert.IsType(t, &GlobalDeclaration{}, d)

	_, ok = tbl.Lookup("missing")
	assert.False(t, ok)
}

func TestOracleSizeOf(t *testing.T) {
	o := NewOracle()

	assert.Equal(t, 1, o.SizeOf(&types.IntrinsicType{Name: types.I8}))
	assert.Equal(t, 2, o.SizeOf(&types.IntrinsicType{Name: types.I16}))
	assert.Equal(t, 4, o.SizeOf(&types.IntrinsicType{Name: types.I32Intrinsic}))
	assert.Equal(t, 8, o.SizeOf(&types.IntrinsicType{Name: types.F64Intrinsic}))
	assert.Equal(t, 4, o.SizeOf(&types.PointerType{Elem: &types.IntrinsicType{Name: types.I32Intrinsic}}))

	arr := &types.ArrayType{Elem: &types.IntrinsicType{Name: types.I16}, Count: 4}
	assert.Equal(t, 8, o.SizeOf(arr))

	st := &types.StructType{Size: 16}
	assert.Equal(t, 16, o.SizeOf(st))
}
