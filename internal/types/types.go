// Package types implements the source language's type lattice: the ten
// scalar intrinsics, the four underlying WebAssembly machine types, and the
// three composite shapes (pointer, array, struct) built on top of them.
package types

import "fmt"

// Machine is one of the four numeric types WebAssembly validates stack
// effects against. 8/16-bit intrinsics ride on I32.
type Machine int

const (
	I32 Machine = iota
	I64
	F32
	F64
)

func (m Machine) String() string {
	switch m {
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return "?"
	}
}

// Intrinsic is one of the ten scalar source types.
type Intrinsic string

const (
	I8  Intrinsic = "i8"
	U8  Intrinsic = "u8"
	I16 Intrinsic = "i16"
	U16 Intrinsic = "u16"
	I32Intrinsic Intrinsic = "i32"
	U32Intrinsic Intrinsic = "u32"
	I64Intrinsic Intrinsic = "i64"
	U64Intrinsic Intrinsic = "u64"
	F32Intrinsic Intrinsic = "f32"
	F64Intrinsic Intrinsic = "f64"
)

var intrinsicWidths = map[Intrinsic]int{
	I8: 8, U8: 8,
	I16: 16, U16: 16,
	I32Intrinsic: 32, U32Intrinsic: 32,
	I64Intrinsic: 64, U64Intrinsic: 64,
	F32Intrinsic: 32, F64Intrinsic: 64, // BitWidth returns both float widths before reading this map
}

var intrinsicMachine = map[Intrinsic]Machine{
	I8: I32, U8: I32,
	I16: I32, U16: I32,
	I32Intrinsic: I32, U32Intrinsic: I32,
	I64Intrinsic: I64, U64Intrinsic: I64,
	F32Intrinsic: F32,
	F64Intrinsic: F64,
}

// IsIntrinsic reports whether name is one of the ten scalar intrinsics.
func IsIntrinsic(name Intrinsic) bool {
	_, ok := intrinsicMachine[name]
	return ok
}

// MachineOf returns the underlying machine type for an intrinsic.
func MachineOf(i Intrinsic) Machine {
	m, ok := intrinsicMachine[i]
	if !ok {
		panic(fmt.Sprintf("types: %q is not an intrinsic", i))
	}
	return m
}

// IsFloat reports whether the intrinsic is f32 or f64.
func IsFloat(i Intrinsic) bool {
	return i == F32Intrinsic || i == F64Intrinsic
}

// IsSigned reports whether the intrinsic's underlying name starts with
// "i" (i8, i16, i32, i64) as opposed to "u" or "f".
func IsSigned(i Intrinsic) bool {
	return len(i) > 0 && i[0] == 'i'
}

// Is64 reports whether the intrinsic occupies a 64-bit machine slot.
func Is64(i Intrinsic) bool {
	return i == I64Intrinsic || i == U64Intrinsic
}

// BitWidth returns the intrinsic's declared width: 8, 16, 32, or 64.
func BitWidth(i Intrinsic) int {
	switch i {
	case F32Intrinsic:
		return 32
	case F64Intrinsic:
		return 64
	}
	w, ok := intrinsicWidths[i]
	if !ok {
		panic(fmt.Sprintf("types: %q is not an intrinsic", i))
	}
	return w
}

// Type is the closed sum over the four type sorts of §3: Intrinsic,
// Pointer, Array, Struct.
type Type interface {
	String() string
	isType()
}

// IntrinsicType wraps one of the ten scalar intrinsics as a Type.
type IntrinsicType struct {
	Name Intrinsic
}

func (*IntrinsicType) isType()          {}
func (t *IntrinsicType) String() string { return string(t.Name) }

// PointerType represents Pointer(T); always I32 at the machine level.
type PointerType struct {
	Elem Type
}

func (*PointerType) isType()          {}
func (t *PointerType) String() string { return fmt.Sprintf("*%s", t.Elem) }

// ArrayType represents Array(T, size); Count is the resolved element count.
type ArrayType struct {
	Elem  Type
	Count int
}

func (*ArrayType) isType() {}
func (t *ArrayType) String() string {
	return fmt.Sprintf("%s[%d]", t.Elem, t.Count)
}

// StructField is one named, offset-assigned member of a StructType.
type StructField struct {
	Name   string
	Type   Type
	Offset int
}

// StructType is an ordered list of fields with precomputed byte offsets,
// supplied by the external semantic layer (§3, §6).
type StructType struct {
	Name   string
	Fields []StructField
	Size   int
}

func (*StructType) isType()          {}
func (t *StructType) String() string { return t.Name }

// Field looks up a field by name; ok is false if it does not exist.
func (t *StructType) Field(name string) (StructField, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return StructField{}, false
}

// MachineOfType returns the machine type a Type lowers to: I32 for pointers
// and struct/array addresses, the mapped machine type for intrinsics.
func MachineOfType(t Type) Machine {
	switch v := t.(type) {
	case *IntrinsicType:
		return MachineOf(v.Name)
	case *PointerType, *ArrayType, *StructType:
		return I32
	default:
		panic(fmt.Sprintf("types: unhandled Type %T", t))
	}
}

// SizeOracle resolves the byte size of a fully-resolved type spec, per the
// "Size oracle" external interface of §6.
type SizeOracle interface {
	SizeOf(t Type) int
}
