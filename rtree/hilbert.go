package rtree

import (
	"github.com/xDarkicex/geoidx/internal/coord"
	"github.com/xDarkicex/geoidx/internal/indexview"
)

// HilbertSort orders leaves by the position of their centroid on a 16-bit
// Hilbert space-filling curve scaled to the tree's overall extent, which
// tends to cluster spatially nearby boxes into the same parent node.
type HilbertSort[T coord.Numeric] struct{}

const hilbertMax = float64((1 << 16) - 1)

func (HilbertSort[T]) Sort(p SortParams[T], boxes coord.Array[T], indices indexview.View) {
	n := p.NumItems
	if n <= 1 {
		return
	}

	minX, minY := coord.ToFloat64(p.MinX), coord.ToFloat64(p.MinY)
	width := coord.ToFloat64(p.MaxX) - minX
	height := coord.ToFloat64(p.MaxY) - minY

	values := make([]float64, n)
	for i := 0; i < n; i++ {
		bx0, by0 := coord.ToFloat64(boxes.Get(i*4)), coord.ToFloat64(boxes.Get(i*4+1))
		bx1, by1 := coord.ToFloat64(boxes.Get(i*4+2)), coord.ToFloat64(boxes.Get(i*4+3))

		var hx, hy uint32
		if width != 0 {
			hx = uint32(hilbertMax * (((bx0+bx1)/2 - minX) / width))
		}
		if height != 0 {
			hy = uint32(hilbertMax * (((by0+by1)/2 - minY) / height))
		}
		values[i] = float64(hilbertIndex(hx, hy))
	}

	swap := func(i, j int) {
		for k := 0; k < 4; k++ {
			vi, vj := boxes.Get(i*4+k), boxes.Get(j*4+k)
			boxes.Set(i*4+k, vj)
			boxes.Set(j*4+k, vi)
		}
		indices.Swap(i, j)
	}

	blockQuicksort(values, 0, n-1, p.NodeSize, swap)
}

// hilbertIndex maps a point on a [0, 65535]^2 grid to its position on the
// 16-bit Hilbert curve.
//
// Fast Hilbert curve algorithm by http://threadlocalmutex.com/, ported from
// the public-domain C++ at https://github.com/rawrunprotected/hilbert_curves.
func hilbertIndex(x, y uint32) uint32 {
	a1 := x ^ y
	b1 := 0xFFFF ^ a1
	c1 := 0xFFFF ^ (x | y)
	d1 := x & (y ^ 0xFFFF)

	a2 := a1 | (b1 >> 1)
	b2 := (a1 >> 1) ^ a1
	c2 := ((c1 >> 1) ^ (b1 & (d1 >> 1))) ^ c1
	d2 := ((a1 & (c1 >> 1)) ^ (d1 >> 1)) ^ d1

	a1, b1, c1, d1 = a2, b2, c2, d2
	a2 = (a1 & (a1 >> 2)) ^ (b1 & (b1 >> 2))
	b2 = (a1 & (b1 >> 2)) ^ (b1 & ((a1 ^ b1) >> 2))
	c2 ^= (a1 & (c1 >> 2)) ^ (b1 & (d1 >> 2))
	d2 ^= (b1 & (c1 >> 2)) ^ ((a1 ^ b1) & (d1 >> 2))

	a1, b1, c1, d1 = a2, b2, c2, d2
	a2 = (a1 & (a1 >> 4)) ^ (b1 & (b1 >> 4))
	b2 = (a1 & (b1 >> 4)) ^ (b1 & ((a1 ^ b1) >> 4))
	c2 ^= (a1 & (c1 >> 4)) ^ (b1 & (d1 >> 4))
	d2 ^= (b1 & (c1 >> 4)) ^ ((a1 ^ b1) & (d1 >> 4))

	a1, b1, c1, d1 = a2, b2, c2, d2
	c2 ^= (a1 & (c1 >> 8)) ^ (b1 & (d1 >> 8))
	d2 ^= (b1 & (c1 >> 8)) ^ ((a1 ^ b1) & (d1 >> 8))

	a1 = c2 ^ (c2 >> 1)
	b1 = d2 ^ (d2 >> 1)

	i0 := x ^ y
	i1 := b1 | (0xFFFF ^ (i0 | a1))

	i0 = (i0 | (i0 << 8)) & 0x00FF00FF
	i0 = (i0 | (i0 << 4)) & 0x0F0F0F0F
	i0 = (i0 | (i0 << 2)) & 0x33333333
	i0 = (i0 | (i0 << 1)) & 0x55555555

	i1 = (i1 | (i1 << 8)) & 0x00FF00FF
	i1 = (i1 | (i1 << 4)) & 0x0F0F0F0F
	i1 = (i1 | (i1 << 2)) & 0x33333333
	i1 = (i1 | (i1 << 1)) & 0x55555555

	return (i1 << 1) | i0
}
