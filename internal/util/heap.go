// Package util holds small shared data structures used by the tree search
// paths.
package util

import "container/heap"

// TaggedID packs the best-first k-NN queue's payload: the low bit is 0 for
// an interior node (value holds a box-array offset) and 1 for a leaf item
// (value holds the original insertion index). This mirrors a tagged-union
// heap entry without needing a sum type, keeping the heap homogeneous.
type TaggedID uint64

// NewInteriorID tags a box-array offset as an interior node reference.
func NewInteriorID(boxOffset int) TaggedID {
	return TaggedID(boxOffset) << 1
}

// NewLeafID tags an original insertion index as a leaf reference.
func NewLeafID(itemIndex uint32) TaggedID {
	return TaggedID(itemIndex)<<1 | 1
}

// IsLeaf reports whether id refers to a leaf item rather than an interior
// node.
func (id TaggedID) IsLeaf() bool { return id&1 == 1 }

// BoxOffset returns the box-array offset for an interior-node id. Only
// meaningful when !IsLeaf().
func (id TaggedID) BoxOffset() int { return int(id >> 1) }

// ItemIndex returns the original insertion index for a leaf id. Only
// meaningful when IsLeaf().
func (id TaggedID) ItemIndex() uint32 { return uint32(id >> 1) }

// Candidate is one entry in the best-first search priority queue.
type Candidate struct {
	ID       TaggedID
	Distance float64
}

// MinHeap is a min-heap of Candidate ordered by ascending Distance, used to
// drive the best-first k-NN traversal over a mixed queue of interior nodes
// and leaf items.
type MinHeap struct {
	items []Candidate
}

// NewMinHeap returns an empty min-heap with room for capacity candidates
// before its first reallocation.
func NewMinHeap(capacity int) *MinHeap {
	return &MinHeap{items: make([]Candidate, 0, capacity)}
}

func (h *MinHeap) Len() int            { return len(h.items) }
func (h *MinHeap) Less(i, j int) bool  { return h.items[i].Distance < h.items[j].Distance }
func (h *MinHeap) Swap(i, j int)       { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *MinHeap) Push(x interface{})  { h.items = append(h.items, x.(Candidate)) }
func (h *MinHeap) Pop() interface{} {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

// PushCandidate adds a candidate to the heap.
func (h *MinHeap) PushCandidate(c Candidate) { heap.Push(h, c) }

// PopCandidate removes and returns the minimum-distance candidate. The
// second return is false when the heap is empty.
func (h *MinHeap) PopCandidate() (Candidate, bool) {
	if h.Len() == 0 {
		return Candidate{}, false
	}
	return heap.Pop(h).(Candidate), true
}

// Peek returns the minimum-distance candidate without removing it.
func (h *MinHeap) Peek() (Candidate, bool) {
	if h.Len() == 0 {
		return Candidate{}, false
	}
	return h.items[0], true
}
