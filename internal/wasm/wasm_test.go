package wasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"watc/internal/types"
)

func TestConvertMnemonics(t *testing.T) {
	assert.Equal(t, "i32.wrap_i64", (&Convert{From: types.I64, To: types.I32}).String())
	assert.Equal(t, "i64.extend_i32_s", (&Convert{From: types.I32, To: types.I64, Signed: true}).String())
	assert.Equal(t, "i64.extend_i32_u", (&Convert{From: types.I32, To: types.I64, Signed: false}).String())
	assert.Equal(t, "f64.promote_f32", (&Convert{From: types.F32, To: types.F64}).String())
	assert.Equal(t, "f32.demote_f64", (&Convert{From: types.F64, To: types.F32}).String())
	assert.Equal(t, "i32.trunc_f64_s", (&Convert{From: types.F64, To: types.I32, Signed: true}).String())
	assert.Equal(t, "f64.convert_i32_u", (&Convert{From: types.I32, To: types.F64, Signed: false}).String())
}

func TestBinarySignedSuffix(t *testing.T) {
	assert.Equal(t, "i32.div_s", (&Binary{Machine: types.I32, Op: Div, Signed: true}).String())
	assert.Equal(t, "i32.div_u", (&Binary{Machine: types.I32, Op: Div, Signed: false}).String())
	assert.Equal(t, "i32.add", (&Binary{Machine: types.I32, Op: Add}).String())
	assert.Equal(t, "f64.div", (&Binary{Machine: types.F64, Op: Div, Signed: true}).String())
}

func TestLoadStoreWidthSuffix(t *testing.T) {
	assert.Equal(t, "i32.load offset=0", (&Load{Machine: types.I32, Offset: 0}).String())
	assert.Equal(t, "i32.load8_s offset=4", (&Load{Machine: types.I32, Width: 8, Signed: true, Offset: 4}).String())
	assert.Equal(t, "i64.store32 offset=8", (&Store{Machine: types.I64, Width: 32, Offset: 8}).String())
}

func TestTightenMask(t *testing.T) {
	assert.Equal(t, int64(0xff), (&Tighten{Width: 8}).Mask())
	assert.Equal(t, int64(0xffff), (&Tighten{Width: 16}).Mask())
}
