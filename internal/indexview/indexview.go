// Package indexview implements the tagged index-width view described by the
// buffer layout: the permutation array backing an index's indices region is
// stored as 16-bit values below a count threshold and 32-bit values at or
// above it, for both RT (threshold on node count) and KT (threshold on item
// count). Callers never see the width switch directly; they read and write
// through View with plain ints and get a panic if a value can't fit.
package indexview

import "encoding/binary"

// Width16Below is the count below which the index-width view uses 16-bit
// elements, for an RT's num_nodes.
const Width16Below = 16384

// ItemWidth16Below is the count below which the index-width view uses
// 16-bit elements, for a KT's num_items.
const ItemWidth16Below = 65536

// Width returns 2 or 4, the bytes-per-element an indices region with the
// given element count and threshold must use.
func Width(count, threshold int) int {
	if count < threshold {
		return 2
	}
	return 4
}

// View is a tagged, fixed-width read/write projection over a byte slice
// holding an indices region. It never allocates; Get and Set operate
// directly on the backing bytes.
type View struct {
	buf   []byte
	width int
}

// New wraps buf (must be exactly n*width bytes) as a tagged index view.
func New(buf []byte, width int) View {
	if width != 2 && width != 4 {
		panic("indexview: width must be 2 or 4")
	}
	return View{buf: buf, width: width}
}

// Width reports the element width of this view, in bytes.
func (v View) Width() int { return v.width }

// Len reports the number of elements the view covers.
func (v View) Len() int {
	if v.width == 0 {
		return 0
	}
	return len(v.buf) / v.width
}

// Get returns the i-th element.
func (v View) Get(i int) uint32 {
	off := i * v.width
	if v.width == 2 {
		return uint32(binary.LittleEndian.Uint16(v.buf[off : off+2]))
	}
	return binary.LittleEndian.Uint32(v.buf[off : off+4])
}

// Set writes val as the i-th element. Panics if val doesn't fit the view's
// element width — this is the write-time fit validation called for by the
// buffer layout design (a value that doesn't fit would silently corrupt the
// packed buffer rather than fail loudly).
func (v View) Set(i int, val uint32) {
	off := i * v.width
	if v.width == 2 {
		if val > 0xFFFF {
			panic("indexview: value does not fit in 16-bit index slot")
		}
		binary.LittleEndian.PutUint16(v.buf[off:off+2], uint16(val))
		return
	}
	binary.LittleEndian.PutUint32(v.buf[off:off+4], val)
}

// Swap exchanges the i-th and j-th elements.
func (v View) Swap(i, j int) {
	a, b := v.Get(i), v.Get(j)
	v.Set(i, b)
	v.Set(j, a)
}
