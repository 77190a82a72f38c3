package rtree

import "github.com/xDarkicex/geoidx/internal/coord"

// IntersectionPair is one candidate pair of original item indices from two
// separate trees whose leaf boxes overlap, produced by Intersection.
type IntersectionPair struct {
	LeftItemIndex  uint32
	RightItemIndex uint32
}

// Intersection walks left and right together, descending into both trees'
// roots and only recursing into child pairs whose boxes overlap. The
// result is a superset of true geometry intersections — both trees only
// ever expose bounding boxes, so a box-level overlap doesn't guarantee the
// original shapes it stands in for actually intersect. Callers that need
// exact results must refine each pair against the real geometry behind
// LeftItemIndex/RightItemIndex themselves.
func Intersection[T coord.Numeric](left, right *RT[T]) []IntersectionPair {
	var out []IntersectionPair
	if left.meta.NumNodes == 0 || right.meta.NumNodes == 0 {
		return out
	}

	leftRoot, ok := left.Root()
	if !ok {
		return out
	}
	rightRoot, ok := right.Root()
	if !ok {
		return out
	}

	type framePair struct{ leftPos, rightPos int }
	stack := []framePair{{leftPos: leftRoot, rightPos: rightRoot}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		lx0, ly0, lx1, ly1 := left.box(f.leftPos)
		rx0, ry0, rx1, ry1 := right.box(f.rightPos)
		if lx0 > rx1 || ly0 > ry1 || lx1 < rx0 || ly1 < ry0 {
			continue
		}

		leftIsLeaf := left.isLeafPos(f.leftPos)
		rightIsLeaf := right.isLeafPos(f.rightPos)

		switch {
		case leftIsLeaf && rightIsLeaf:
			out = append(out, IntersectionPair{
				LeftItemIndex:  left.indices.Get(f.leftPos / 4),
				RightItemIndex: right.indices.Get(f.rightPos / 4),
			})
		case leftIsLeaf:
			for _, rc := range right.childPositions(f.rightPos) {
				stack = append(stack, framePair{leftPos: f.leftPos, rightPos: rc})
			}
		case rightIsLeaf:
			for _, lc := range left.childPositions(f.leftPos) {
				stack = append(stack, framePair{leftPos: lc, rightPos: f.rightPos})
			}
		default:
			leftChildren := left.childPositions(f.leftPos)
			rightChildren := right.childPositions(f.rightPos)
			for _, lc := range leftChildren {
				for _, rc := range rightChildren {
					stack = append(stack, framePair{leftPos: lc, rightPos: rc})
				}
			}
		}
	}

	return out
}

// childPositions returns the box-array positions of every child of the
// interior node at pos.
func (t *RT[T]) childPositions(pos int) []int {
	childStart := int(t.indices.Get(pos / 4))
	childLevelEnd := t.levelEndContaining(childStart)
	nodeSize := int(t.meta.NodeSize)

	out := make([]int, 0, nodeSize)
	p := childStart
	for c := 0; c < nodeSize && p < childLevelEnd; c++ {
		out = append(out, p)
		p += 4
	}
	return out
}
