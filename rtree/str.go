package rtree

import (
	"math"

	"github.com/xDarkicex/geoidx/internal/coord"
	"github.com/xDarkicex/geoidx/internal/indexview"
)

// STRSort implements sort-tile-recursive bulk loading: leaves are sorted by
// x-centroid, sliced into vertical strips of roughly sqrt(leaf-node-count)
// width, then each strip is independently sorted by y-centroid. Strips are
// disjoint in both the box and index arrays, so the per-strip y-sort is
// embarrassingly parallel; this implementation runs it sequentially, which
// produces identical output to a parallel run since each strip only
// touches its own slice.
type STRSort[T coord.Numeric] struct{}

func (STRSort[T]) Sort(p SortParams[T], boxes coord.Array[T], indices indexview.View) {
	n := p.NumItems
	if n <= 1 {
		return
	}

	swap := func(i, j int) {
		for k := 0; k < 4; k++ {
			vi, vj := boxes.Get(i*4+k), boxes.Get(j*4+k)
			boxes.Set(i*4+k, vj)
			boxes.Set(j*4+k, vi)
		}
		indices.Swap(i, j)
	}

	xCenters := make([]float64, n)
	for i := 0; i < n; i++ {
		minX := coord.ToFloat64(boxes.Get(i * 4))
		maxX := coord.ToFloat64(boxes.Get(i*4 + 2))
		xCenters[i] = (minX + maxX) / 2
	}
	blockQuicksort(xCenters, 0, n-1, p.NodeSize, swap)

	numLeafNodes := math.Ceil(float64(n) / float64(p.NodeSize))
	numVerticalSlices := int(math.Ceil(math.Sqrt(numLeafNodes)))
	if numVerticalSlices < 1 {
		numVerticalSlices = 1
	}
	itemsPerSlice := numVerticalSlices * p.NodeSize

	yCenters := make([]float64, n)
	for i := 0; i < n; i++ {
		minY := coord.ToFloat64(boxes.Get(i*4 + 1))
		maxY := coord.ToFloat64(boxes.Get(i*4 + 3))
		yCenters[i] = (minY + maxY) / 2
	}

	for s := 0; s < numVerticalSlices; s++ {
		start := s * itemsPerSlice
		if start >= n {
			break
		}
		end := start + itemsPerSlice
		if end > n {
			end = n
		}
		blockQuicksort(yCenters, start, end-1, p.NodeSize, swap)
	}
}
