// Package kdtree implements a static, packed, flat-buffer 2-D k-d tree
// over points, bulk-loaded from a fixed item count and laid out
// ABI-compatibly with the JavaScript kdbush format: an 8-byte header, a
// region of per-point indices, alignment padding, then an interleaved
// coordinate region.
package kdtree

import (
	"github.com/xDarkicex/geoidx/internal/coord"
	"github.com/xDarkicex/geoidx/internal/indexview"
	"github.com/xDarkicex/geoidx/internal/obs"
)

// KT is an immutable, already-built k-d tree. As with rtree.RT, the same
// type serves both a tree just produced by Builder.Finish and a tree
// recovered from an external buffer via Parse.
type KT[T coord.Numeric] struct {
	buf     []byte
	meta    Metadata
	ids     indexview.View
	coords  coord.Array[T]
	metrics *obs.Metrics
}

// Parse validates buf's header against coordinate type T and wraps it
// without copying.
func Parse[T coord.Numeric](buf []byte) (*KT[T], error) {
	meta, err := parseHeader[T](buf)
	if err != nil {
		return nil, err
	}
	indicesBuf := buf[headerLen : headerLen+meta.IndicesLen]
	coordsBuf := buf[headerLen+meta.IndicesLen+meta.Padding:]
	return &KT[T]{
		buf:    buf,
		meta:   meta,
		ids:    indexview.New(indicesBuf, meta.IndexWidth),
		coords: coord.NewArray[T](coordsBuf),
	}, nil
}

// WithMetrics attaches a Prometheus collector that Range and Within record
// query observations against.
func (t *KT[T]) WithMetrics(m *obs.Metrics) *KT[T] {
	t.metrics = m
	return t
}

// NumItems is the number of points the tree was built over.
func (t *KT[T]) NumItems() uint32 { return t.meta.NumItems }

// NodeSize is the leaf-scan threshold used during tree descent.
func (t *KT[T]) NodeSize() uint16 { return t.meta.NodeSize }

// Bytes returns the tree's underlying packed buffer.
func (t *KT[T]) Bytes() []byte { return t.buf }

// pointAt returns the coordinates the tree stores at internal position i
// (not an original item index — callers normally only see item indices
// via Range/Within's results, not internal positions).
func (t *KT[T]) pointAt(i int) (x, y T) {
	return t.coords.Get(i * 2), t.coords.Get(i*2 + 1)
}
