package rtree

import "github.com/xDarkicex/geoidx/internal/coord"

// Node is a lightweight handle onto one box-array position: either a leaf
// (holding one original item's box) or an interior node (holding the
// tight union of its children's boxes). Children of an interior node are
// found by following its stored index and fanning out node_size-many
// consecutive positions at the level below, bounded by that level's end.
type Node[T coord.Numeric] struct {
	tree *RT[T]
	pos  int
}

// MinX, MinY, MaxX, MaxY return this node's bounding box.
func (n Node[T]) MinX() T { return n.tree.boxes.Get(n.pos) }
func (n Node[T]) MinY() T { return n.tree.boxes.Get(n.pos + 1) }
func (n Node[T]) MaxX() T { return n.tree.boxes.Get(n.pos + 2) }
func (n Node[T]) MaxY() T { return n.tree.boxes.Get(n.pos + 3) }

// IsLeaf reports whether this node is an original item rather than an
// interior grouping node.
func (n Node[T]) IsLeaf() bool { return n.tree.isLeafPos(n.pos) }

// ItemIndex returns the original insertion index for a leaf node. It
// panics if called on an interior node.
func (n Node[T]) ItemIndex() uint32 {
	if !n.IsLeaf() {
		panic("rtree: ItemIndex called on an interior node")
	}
	return n.tree.indices.Get(n.pos / 4)
}

// Children returns the handles for every child of an interior node. It
// panics if called on a leaf.
func (n Node[T]) Children() []Node[T] {
	if n.IsLeaf() {
		panic("rtree: Children called on a leaf node")
	}

	firstChildPos := int(n.tree.indices.Get(n.pos / 4))
	levelEnd := n.tree.levelEndContaining(firstChildPos)

	nodeSize := int(n.tree.meta.NodeSize)
	out := make([]Node[T], 0, nodeSize)
	pos := firstChildPos
	for c := 0; c < nodeSize && pos < levelEnd; c++ {
		out = append(out, Node[T]{tree: n.tree, pos: pos})
		pos += 4
	}
	return out
}
