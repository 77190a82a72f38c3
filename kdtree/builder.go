package kdtree

import (
	"time"

	"github.com/xDarkicex/geoidx/geoerr"
	"github.com/xDarkicex/geoidx/internal/coord"
	"github.com/xDarkicex/geoidx/internal/indexview"
	"github.com/xDarkicex/geoidx/internal/obs"
)

// DefaultNodeSize is the node_size a Builder uses when none is given.
const DefaultNodeSize = 64

// Point is a convenience value type for the two scalars Add accepts.
type Point[T coord.Numeric] struct {
	X, Y T
}

// Builder accumulates points for a single bulk KT construction. As with
// rtree.Builder, it must be given exactly num_items points via Add before
// Finish is called; any other call pattern is a construction-contract
// violation and panics.
type Builder[T coord.Numeric] struct {
	numItems uint32
	nodeSize uint16
	added    uint32
	finished bool

	xs, ys []T

	metrics *obs.Metrics
	logger  obs.Logger
}

// New allocates a builder for exactly numItems points, with the given
// node_size. Panics if node_size is outside [2, 65535].
func New[T coord.Numeric](numItems uint32, nodeSize uint16) *Builder[T] {
	if nodeSize < 2 {
		geoerr.ConstructionViolation("node_size %d below minimum of 2", nodeSize)
	}
	return &Builder[T]{
		numItems: numItems,
		nodeSize: nodeSize,
		xs:       make([]T, numItems),
		ys:       make([]T, numItems),
	}
}

// NewDefault allocates a builder using DefaultNodeSize.
func NewDefault[T coord.Numeric](numItems uint32) *Builder[T] {
	return New[T](numItems, DefaultNodeSize)
}

// WithMetrics attaches a Prometheus collector that Finish will record
// build-duration observations against.
func (b *Builder[T]) WithMetrics(m *obs.Metrics) *Builder[T] {
	b.metrics = m
	return b
}

// WithLogger attaches a Logger that Finish reports its one lifecycle event
// to. Unset, Finish logs nothing.
func (b *Builder[T]) WithLogger(l obs.Logger) *Builder[T] {
	b.logger = l
	return b
}

// Add appends one point and returns its insertion index.
func (b *Builder[T]) Add(x, y T) uint32 {
	if b.finished {
		geoerr.ConstructionViolation("Add called after Finish")
	}
	if b.added >= b.numItems {
		geoerr.ConstructionViolation("Add called more than the declared num_items=%d times", b.numItems)
	}
	idx := b.added
	b.xs[idx], b.ys[idx] = x, y
	b.added++
	return idx
}

// AddPoint is a convenience wrapper over Add for callers holding a Point value.
func (b *Builder[T]) AddPoint(pt Point[T]) uint32 {
	return b.Add(pt.X, pt.Y)
}

// Finish consumes the builder, kd-sorting the (id, coordinate) pairs in
// place by alternating axes with Floyd–Rivest selection, and returns an
// immutable KT over a freshly allocated buffer.
func (b *Builder[T]) Finish() (*KT[T], error) {
	start := time.Now()

	if b.finished {
		geoerr.ConstructionViolation("Finish called twice")
	}
	if b.added != b.numItems {
		geoerr.ConstructionViolation("Add called %d times, want %d", b.added, b.numItems)
	}
	b.finished = true

	tag := coord.TagFor[T]()
	meta, err := ComputeMetadata(b.numItems, b.nodeSize, tag)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, meta.TotalLen)
	writeHeader(buf, tag, b.nodeSize, b.numItems)

	indicesBuf := buf[headerLen : headerLen+meta.IndicesLen]
	coordsBuf := buf[headerLen+meta.IndicesLen+meta.Padding:]

	ids := indexview.New(indicesBuf, meta.IndexWidth)
	coords := coord.NewArray[T](coordsBuf)

	for i := 0; i < int(b.numItems); i++ {
		ids.Set(i, uint32(i))
		coords.Set(i*2, b.xs[i])
		coords.Set(i*2+1, b.ys[i])
	}

	if b.numItems > 1 {
		sortKD(points[T]{ids: ids, coord: coords}, 0, int(b.numItems)-1, int(b.nodeSize), 0)
	}

	b.metrics.ObserveBuild(time.Since(start).Seconds())
	if b.logger != nil {
		b.logger.Infof("kdtree: built %d points (node_size=%d) in %s",
			b.numItems, b.nodeSize, time.Since(start))
	}

	return &KT[T]{buf: buf, meta: meta, ids: ids, coords: coords}, nil
}
