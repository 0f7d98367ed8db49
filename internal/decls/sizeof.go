package decls

import "watc/internal/types"

// Oracle is the default types.SizeOracle: pointers are always 4 bytes
// (I32 at the machine level), intrinsics are their declared bit width in
// bytes, arrays are item-size times count, and structs carry a
// precomputed size supplied by the external semantic layer (§3).
type Oracle struct{}

// NewOracle returns the default SizeOracle.
func NewOracle() *Oracle {
	return &Oracle{}
}

func (Oracle) SizeOf(t types.Type) int {
	switch v := t.(type) {
	case *types.IntrinsicType:
		return types.BitWidth(v.Name) / 8
	case *types.PointerType:
		return 4
	case *types.ArrayType:
		return Oracle{}.SizeOf(v.Elem) * v.Count
	case *types.StructType:
		return v.Size
	default:
		return 0
	}
}
