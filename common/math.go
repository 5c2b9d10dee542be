package common

import (
	"math"
	"unsafe"
)

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// IdentityMatrix allocates a new column-major 4x4 identity matrix.
//
// Returns:
//   - []float32: a 16 element identity matrix
func IdentityMatrix() []float32 {
	m := make([]float32, 16)
	Identity(m)
	return m
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// SortableFloat32 maps an IEEE-754 float32 onto a uint32 whose unsigned order matches the
// float's numeric order. Negative values have every bit flipped, non-negative values only
// the sign bit. Negative zero is folded onto positive zero so equal keys stay equal.
//
// Parameters:
//   - f: the float to map
//
// Returns:
//   - uint32: the order-preserving key
func SortableFloat32(f float32) uint32 {
	if f == 0 {
		f = 0
	}
	bits := math.Float32bits(f)
	if bits&0x80000000 != 0 {
		return ^bits
	}
	return bits | 0x80000000
}
