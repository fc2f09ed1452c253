// Package tensor provides the dense array primitive used by the lrtensor backends.
package tensor

import "unsafe"

// DType is a constraint for supported element types.
// Only real floating-point types are supported; the low-rank engine
// works in float64 and converts at the boundary.
type DType interface {
	~float32 | ~float64
}

// DataType represents runtime type information for dense arrays.
type DataType int

// Supported data types.
const (
	Float32 DataType = iota
	Float64
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32:
		return 4
	case Float64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// inferDataType infers DataType from a generic type T.
// Named types are classified by their underlying width.
func inferDataType[T DType](dummy T) DataType {
	if unsafe.Sizeof(dummy) == 4 {
		return Float32
	}
	return Float64
}
