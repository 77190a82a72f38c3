// Package rtree implements a static, packed, flat-buffer R-tree over
// axis-aligned bounding boxes, bulk-loaded from a fixed item count and
// laid out ABI-compatibly with the JavaScript flatbush format: an 8-byte
// header, a region of node_size-grouped boxes (leaves first, then each
// parent level), and a matching region of per-node indices.
package rtree

import (
	"github.com/xDarkicex/geoidx/geoerr"
	"github.com/xDarkicex/geoidx/internal/coord"
	"github.com/xDarkicex/geoidx/internal/indexview"
	"github.com/xDarkicex/geoidx/internal/obs"
)

// RT is an immutable, already-built R-tree. The same type serves both a
// tree just produced by Builder.Finish (buf is privately owned, and every
// invariant is already known to hold) and a tree recovered from an
// external buffer via Parse (buf is validated up front, by parseHeader,
// before an RT is ever handed back) — Go's garbage collector removes the
// owned-vs-borrowed distinction the original's lifetime-tracked views
// existed to express, so one type covers both roles here.
type RT[T coord.Numeric] struct {
	buf     []byte
	meta    Metadata
	boxes   coord.Array[T]
	indices indexview.View
	metrics *obs.Metrics
}

// WithMetrics attaches a Prometheus collector that Search and Neighbors
// record query observations against. A nil metrics collector (the
// default) keeps that instrumentation a no-op.
func (t *RT[T]) WithMetrics(m *obs.Metrics) *RT[T] {
	t.metrics = m
	return t
}

// Parse validates buf's header against coordinate type T and wraps it
// without copying. buf must not be modified afterward; callers reading
// from a memory-mapped file should keep the mapping (see internal/bufsrc)
// alive for at least as long as the returned RT is in use.
func Parse[T coord.Numeric](buf []byte) (*RT[T], error) {
	meta, err := parseHeader[T](buf)
	if err != nil {
		return nil, err
	}
	boxesBuf := buf[headerLen : headerLen+meta.BoxesLen]
	indicesBuf := buf[headerLen+meta.BoxesLen:]
	return &RT[T]{
		buf:     buf,
		meta:    meta,
		boxes:   coord.NewArray[T](boxesBuf),
		indices: indexview.New(indicesBuf, meta.IndexWidth),
	}, nil
}

// NumItems is the number of leaf boxes the tree was built over.
func (t *RT[T]) NumItems() uint32 { return t.meta.NumItems }

// NodeSize is the branching factor used at every interior level.
func (t *RT[T]) NodeSize() uint16 { return t.meta.NodeSize }

// NumNodes is the total node count across all levels, leaves included.
func (t *RT[T]) NumNodes() int { return t.meta.NumNodes }

// LevelBounds exposes the per-level exclusive-end table in box-array
// positions (4 elements per box); LevelBounds()[0] is the leaf level's end.
func (t *RT[T]) LevelBounds() []int { return t.meta.LevelBounds }

// Bytes returns the tree's underlying packed buffer, suitable for writing
// to a file and later recovering with Parse.
func (t *RT[T]) Bytes() []byte { return t.buf }

// BoxesAtLevel returns the [minX, minY, maxX, maxY, minX, minY, ...] box
// quadruples belonging to level l, where level 0 is the leaves and the
// last level is the root. Returns an error if l is out of range.
func (t *RT[T]) BoxesAtLevel(l int) ([]T, error) {
	start, end, err := t.levelRange(l)
	if err != nil {
		return nil, err
	}
	out := make([]T, end-start)
	for i := start; i < end; i++ {
		out[i-start] = t.boxes.Get(i)
	}
	return out, nil
}

// Root returns the box-array position of the single top-level node (the
// last box in the array), or ok=false for an empty tree.
func (t *RT[T]) Root() (pos int, ok bool) {
	if t.meta.NumNodes == 0 {
		return 0, false
	}
	top := t.meta.LevelBounds[len(t.meta.LevelBounds)-1]
	return top - 4, true
}

// RootNode returns a navigable handle to the tree's top-level node, or
// ok=false for an empty tree.
func (t *RT[T]) RootNode() (node Node[T], ok bool) {
	pos, ok := t.Root()
	if !ok {
		return Node[T]{}, false
	}
	return Node[T]{tree: t, pos: pos}, true
}

func (t *RT[T]) levelRange(l int) (start, end int, err error) {
	if l < 0 || l >= len(t.meta.LevelBounds) {
		return 0, 0, &geoerr.LevelOutOfRange{Level: l, NumLevels: len(t.meta.LevelBounds)}
	}
	end = t.meta.LevelBounds[l]
	if l == 0 {
		start = 0
	} else {
		start = t.meta.LevelBounds[l-1]
	}
	return start, end, nil
}

func (t *RT[T]) box(pos int) (minX, minY, maxX, maxY T) {
	return t.boxes.Get(pos), t.boxes.Get(pos + 1), t.boxes.Get(pos + 2), t.boxes.Get(pos + 3)
}

// isLeafPos reports whether box-array position pos falls in the leaf
// level (position < LevelBounds[0]).
func (t *RT[T]) isLeafPos(pos int) bool {
	return pos < t.meta.LevelBounds[0]
}
