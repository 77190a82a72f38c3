package rtree

import (
	"github.com/xDarkicex/geoidx/internal/coord"
	"github.com/xDarkicex/geoidx/internal/indexview"
)

// SortParams carries what a Sort strategy needs beyond the raw boxes and
// indices slices: the leaf count and node_size that drive the
// block-terminated quicksort's granularity, and the overall extent used to
// scale Hilbert coordinates.
type SortParams[T coord.Numeric] struct {
	NumItems               int
	NodeSize               int
	MinX, MinY, MaxX, MaxY T
}

// Sort reorders the leaf-level boxes and indices arrays in lock-step.
// Implementations need only group items into node_size-aligned clusters,
// not fully order them — the bottom-up parent construction pass that
// follows only needs each node_size-sized run of leaves to be spatially
// coherent.
type Sort[T coord.Numeric] interface {
	Sort(params SortParams[T], boxes coord.Array[T], indices indexview.View)
}

// blockQuicksort is the partial quicksort shared by HilbertSort and
// STRSort: recursion terminates as soon as left and right fall within the
// same node_size-aligned block, since items inside one block don't need a
// total order. swap is invoked for every element swap so the caller can
// keep payload arrays (boxes, indices) in lock-step with the key array.
func blockQuicksort(keys []float64, left, right, nodeSize int, swap func(i, j int)) {
	if left >= right {
		return
	}
	if left/nodeSize >= right/nodeSize {
		return
	}

	pivot := median3(keys[left], keys[(left+right)/2], keys[right])
	i, j := left, right
	for i <= j {
		for keys[i] < pivot {
			i++
		}
		for keys[j] > pivot {
			j--
		}
		if i <= j {
			keys[i], keys[j] = keys[j], keys[i]
			swap(i, j)
			i++
			j--
		}
	}

	blockQuicksort(keys, left, j, nodeSize, swap)
	blockQuicksort(keys, i, right, nodeSize, swap)
}

func median3(a, b, c float64) float64 {
	if a > b {
		if b > c {
			return b
		}
		if a > c {
			return c
		}
		return a
	}
	if a > c {
		return a
	}
	if b > c {
		return c
	}
	return b
}
