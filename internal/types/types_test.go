package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMachineOfIntrinsics(t *testing.T) {
	cases := []struct {
		in   Intrinsic
		want Machine
	}{
		{I8, I32}, {U8, I32}, {I16, I32}, {U16, I32},
		{I32Intrinsic, I32}, {U32Intrinsic, I32},
		{I64Intrinsic, I64}, {U64Intrinsic, I64},
		{F32Intrinsic, F32}, {F64Intrinsic, F64},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MachineOf(c.in), "intrinsic %s", c.in)
	}
}

func TestIsSignedFloatAnd64(t *testing.T) {
	assert.True(t, IsSigned(I32Intrinsic))
	assert.False(t, IsSigned(U32Intrinsic))
	assert.False(t, IsSigned(F64Intrinsic))
	assert.True(t, IsFloat(F32Intrinsic))
	assert.False(t, IsFloat(I32Intrinsic))
	assert.True(t, Is64(I64Intrinsic))
	assert.True(t, Is64(U64Intrinsic))
	assert.False(t, Is64(I32Intrinsic))
}

func TestBitWidth(t *testing.T) {
	assert.Equal(t, 8, BitWidth(I8))
	assert.Equal(t, 16, BitWidth(U16))
	assert.Equal(t, 32, BitWidth(I32Intrinsic))
	assert.Equal(t, 64, BitWidth(U64Intrinsic))
	assert.Equal(t, 32, BitWidth(F32Intrinsic))
	assert.Equal(t, 64, BitWidth(F64Intrinsic))
}

func TestStructFieldLookup(t *testing.T) {
	st := &StructType{
		Name: "S",
		Fields: []StructField{
			{Name: "a", Type: &IntrinsicType{Name: I32Intrinsic}, Offset: 0},
			{Name: "b", Type: &IntrinsicType{Name: I32Intrinsic}, Offset: 4},
			{Name: "c", Type: &IntrinsicType{Name: F64Intrinsic}, Offset: 8},
		},
		Size: 16,
	}

	f, ok := st.Field("c")
	assert.True(t, ok)
	assert.Equal(t, 8, f.Offset)

	_, ok = st.Field("missing")
	assert.False(t, ok)
}

func TestMachineOfTypeComposite(t *testing.T) {
	ptr := &PointerType{Elem: &IntrinsicType{Name: I32Intrinsic}}
	arr := &ArrayType{Elem: &IntrinsicType{Name: I16}, Count: 4}
	assert.Equal(t, I32, MachineOfType(ptr))
	assert.Equal(t, I32, MachineOfType(arr))
	assert.Equal(t, F64, MachineOfType(&IntrinsicType{Name: F64Intrinsic}))
}
