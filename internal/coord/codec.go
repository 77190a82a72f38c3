package coord

import (
	"encoding/binary"
	"math"
)

// Encode writes v into dst (which must be exactly TagFor[T]().BytesPerElement()
// bytes) in the little-endian layout the packed buffer format uses for every
// coordinate primitive — matching the byte order JavaScript typed arrays use
// on every platform this ABI targets.
func Encode[T Numeric](dst []byte, v T) {
	switch x := any(v).(type) {
	case int8:
		dst[0] = byte(x)
	case uint8:
		dst[0] = x
	case int16:
		binary.LittleEndian.PutUint16(dst, uint16(x))
	case uint16:
		binary.LittleEndian.PutUint16(dst, x)
	case int32:
		binary.LittleEndian.PutUint32(dst, uint32(x))
	case uint32:
		binary.LittleEndian.PutUint32(dst, x)
	case float32:
		binary.LittleEndian.PutUint32(dst, math.Float32bits(x))
	case float64:
		binary.LittleEndian.PutUint64(dst, math.Float64bits(x))
	default:
		panic("coord: unsupported coordinate type")
	}
}

// Decode is the inverse of Encode.
func Decode[T Numeric](src []byte) T {
	var zero T
	switch any(zero).(type) {
	case int8:
		return T(int8(src[0]))
	case uint8:
		return T(src[0])
	case int16:
		return T(int16(binary.LittleEndian.Uint16(src)))
	case uint16:
		return T(binary.LittleEndian.Uint16(src))
	case int32:
		return T(int32(binary.LittleEndian.Uint32(src)))
	case uint32:
		return T(binary.LittleEndian.Uint32(src))
	case float32:
		return T(math.Float32frombits(binary.LittleEndian.Uint32(src)))
	case float64:
		return T(math.Float64frombits(binary.LittleEndian.Uint64(src)))
	default:
		panic("coord: unsupported coordinate type")
	}
}

// Array is a fixed-stride typed view over a byte slice, used for both an
// RT's boxes region (flat groups of four per node) and a KT's coords region
// (flat pairs per point). It never allocates; Get/Set decode and encode
// in place.
type Array[T Numeric] struct {
	buf    []byte
	stride int
}

// NewArray wraps buf (whose length must be a multiple of the element width
// for T) as a typed coordinate array.
func NewArray[T Numeric](buf []byte) Array[T] {
	return Array[T]{buf: buf, stride: TagFor[T]().BytesPerElement()}
}

// Len reports the number of T elements the array holds.
func (a Array[T]) Len() int {
	if a.stride == 0 {
		return 0
	}
	return len(a.buf) / a.stride
}

// Get returns the i-th element.
func (a Array[T]) Get(i int) T {
	off := i * a.stride
	return Decode[T](a.buf[off : off+a.stride])
}

// Set writes v as the i-th element.
func (a Array[T]) Set(i int, v T) {
	off := i * a.stride
	Encode[T](a.buf[off:off+a.stride], v)
}
