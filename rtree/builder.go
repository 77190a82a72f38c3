package rtree

import (
	"time"

	"github.com/xDarkicex/geoidx/geoerr"
	"github.com/xDarkicex/geoidx/internal/coord"
	"github.com/xDarkicex/geoidx/internal/indexview"
	"github.com/xDarkicex/geoidx/internal/obs"
)

// DefaultNodeSize is the node_size a Builder uses when none is given.
const DefaultNodeSize = 16

// Box is a convenience value type for the four scalars Add accepts,
// matching the original's "rectangle-like input shape" overload.
type Box[T coord.Numeric] struct {
	MinX, MinY, MaxX, MaxY T
}

// Builder accumulates leaf boxes for a single bulk RT construction. It must
// be given exactly num_items boxes via Add before Finish is called; any
// other call pattern is a construction-contract violation and panics,
// per this module's error design — there is no recoverable way to hand
// back a correctly-shaped tree from a builder that was used incorrectly.
type Builder[T coord.Numeric] struct {
	numItems uint32
	nodeSize uint16
	added    uint32
	finished bool

	boxes []T // leaf boxes only, length numItems*4, insertion order

	minX, minY, maxX, maxY T

	metrics *obs.Metrics
	logger  obs.Logger
}

// New allocates a builder for exactly numItems boxes, with the given
// node_size. Panics if node_size is outside [2, 65535].
func New[T coord.Numeric](numItems uint32, nodeSize uint16) *Builder[T] {
	if nodeSize < 2 {
		geoerr.ConstructionViolation("node_size %d below minimum of 2", nodeSize)
	}
	return &Builder[T]{
		numItems: numItems,
		nodeSize: nodeSize,
		boxes:    make([]T, numItems*4),
		minX:     coord.MaxValue[T](),
		minY:     coord.MaxValue[T](),
		maxX:     coord.MinValue[T](),
		maxY:     coord.MinValue[T](),
	}
}

// NewDefault allocates a builder using DefaultNodeSize.
func NewDefault[T coord.Numeric](numItems uint32) *Builder[T] {
	return New[T](numItems, DefaultNodeSize)
}

// WithMetrics attaches a Prometheus collector that Finish will record
// build-duration observations against. A nil metrics collector (the
// default) makes Finish's instrumentation a no-op.
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

// Add appends one leaf box and returns its insertion index, stable across
// whatever reordering Finish's sort strategy performs.
func (b *Builder[T]) Add(minX, minY, maxX, maxY T) uint32 {
	if b.finished {
		geoerr.ConstructionViolation("Add called after Finish")
	}
	if b.added >= b.numItems {
		geoerr.ConstructionViolation("Add called more than the declared num_items=%d times", b.numItems)
	}

	idx := b.added
	off := int(idx) * 4
	b.boxes[off], b.boxes[off+1], b.boxes[off+2], b.boxes[off+3] = minX, minY, maxX, maxY

	if minX < b.minX {
		b.minX = minX
	}
	if minY < b.minY {
		b.minY = minY
	}
	if maxX > b.maxX {
		b.maxX = maxX
	}
	if maxY > b.maxY {
		b.maxY = maxY
	}

	b.added++
	return idx
}

// AddBox is a convenience wrapper over Add for callers holding a Box value.
func (b *Builder[T]) AddBox(box Box[T]) uint32 {
	return b.Add(box.MinX, box.MinY, box.MaxX, box.MaxY)
}

// Finish consumes the builder and runs the given sort strategy — skipped
// when all leaves fit in one node, since grouping a single node is a
// no-op — followed by bottom-up parent construction, producing an
// immutable RT over a freshly allocated buffer.
func (b *Builder[T]) Finish(strategy Sort[T]) (*RT[T], error) {
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

	boxesBuf := buf[headerLen : headerLen+meta.BoxesLen]
	indicesBuf := buf[headerLen+meta.BoxesLen:]

	boxes := coord.NewArray[T](boxesBuf)
	indices := indexview.New(indicesBuf, meta.IndexWidth)

	for i := 0; i < len(b.boxes); i++ {
		boxes.Set(i, b.boxes[i])
	}
	for i := 0; i < int(b.numItems); i++ {
		indices.Set(i, uint32(i))
	}

	// A tree with one leaf has no parent level at all — the leaf is its own
	// root. A tree whose leaves all fit in a single node (num_items <=
	// node_size) skips the sort strategy entirely, since a node_size-aligned
	// partial sort over one node produces no grouping benefit; it still goes
	// through the general bottom-up parent construction below, which
	// collapses to writing exactly one root box over every leaf.
	if b.numItems > 1 {
		if b.numItems > uint32(b.nodeSize) {
			params := SortParams[T]{
				NumItems: int(b.numItems),
				NodeSize: int(b.nodeSize),
				MinX:     b.minX, MinY: b.minY, MaxX: b.maxX, MaxY: b.maxY,
			}
			strategy.Sort(params, boxes, indices)
		}
		buildParents(meta, boxes, indices)
	}

	b.metrics.ObserveBuild(time.Since(start).Seconds())
	if b.logger != nil {
		b.logger.Infof("rtree: built %d items into %d nodes (node_size=%d) in %s",
			b.numItems, meta.NumNodes, b.nodeSize, time.Since(start))
	}

	return &RT[T]{buf: buf, meta: meta, boxes: boxes, indices: indices}, nil
}

// buildParents walks the already-sorted leaf level and constructs each
// parent level bottom-up: every run of up to node_size consecutive boxes is
// unioned into one parent box appended at the next free slot in the boxes
// array, and the parent's indices slot records the box-array element
// offset (a multiple of 4) of that run's first child — leaf-level indices
// instead hold the plain original item number, so the two levels use
// different units for the same array, exactly as the packed layout intends.
func buildParents[T coord.Numeric](meta Metadata, boxes coord.Array[T], indices indexview.View) {
	pos := 0
	for i := 0; i < len(meta.LevelBounds)-1; i++ {
		levelEnd := meta.LevelBounds[i]
		parentPos := levelEnd

		for pos < levelEnd {
			nodeIndex := pos

			minX, minY := boxes.Get(pos), boxes.Get(pos+1)
			maxX, maxY := boxes.Get(pos+2), boxes.Get(pos+3)
			pos += 4

			for c := 1; c < int(meta.NodeSize) && pos < levelEnd; c++ {
				if x := boxes.Get(pos); x < minX {
					minX = x
				}
				if y := boxes.Get(pos + 1); y < minY {
					minY = y
				}
				if x := boxes.Get(pos + 2); x > maxX {
					maxX = x
				}
				if y := boxes.Get(pos + 3); y > maxY {
					maxY = y
				}
				pos += 4
			}

			boxes.Set(parentPos, minX)
			boxes.Set(parentPos+1, minY)
			boxes.Set(parentPos+2, maxX)
			boxes.Set(parentPos+3, maxY)
			indices.Set(parentPos/4, uint32(nodeIndex))
			parentPos += 4
		}
	}
}
