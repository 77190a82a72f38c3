package rtree

import (
	"math"
	"time"

	"github.com/xDarkicex/geoidx/distance"
	"github.com/xDarkicex/geoidx/internal/coord"
	"github.com/xDarkicex/geoidx/internal/util"
)

// ItemDistance pairs an original item index with its distance from the
// query point, as returned by NeighborsWithDistance.
type ItemDistance struct {
	ItemIndex uint32
	Distance  float64
}

// Neighbors returns up to k original item indices nearest to (x, y) under
// metric, in increasing distance order, using best-first traversal of the
// tree's interior boxes so that subtrees farther than the current k-th
// best candidate are never descended into. k <= 0 imposes no cap: every
// item within maxDistance is returned, in distance order. A maxDistance
// <= 0 means no distance cap either.
func (t *RT[T]) Neighbors(x, y T, k int, metric distance.Metric[T], maxDistance float64) []uint32 {
	withDist := t.NeighborsWithDistance(x, y, k, metric, maxDistance)
	out := make([]uint32, len(withDist))
	for i, d := range withDist {
		out[i] = d.ItemIndex
	}
	return out
}

// NeighborsWithDistance is Neighbors, also reporting each result's distance.
func (t *RT[T]) NeighborsWithDistance(x, y T, k int, metric distance.Metric[T], maxDistance float64) []ItemDistance {
	return t.neighbors(x, y, k, metric, maxDistance, nil)
}

// NeighborsGeometry is the geometry-aware variant of NeighborsWithDistance.
// Interior-node pruning always uses the conservative bbox lower bound, the
// same as Neighbors. Once traversal reaches a leaf item, geometryAt is
// consulted for that item's original geometry; when it returns one, the
// leaf's distance is refined from the bbox lower bound to the exact
// metric.GeometryToGeometry(queryGeom, itemGeom) distance, and that refined
// value becomes both the leaf's heap key and its reported
// ItemDistance.Distance — so results reflect true geometric distance, not
// bbox proximity. An item index geometryAt can't resolve (ok=false, e.g.
// the caller's geometry collection doesn't cover every indexed item) falls
// back to the bbox distance. geometryAt may be nil, in which case this
// behaves exactly like NeighborsWithDistance against queryGeom's
// representative point.
func (t *RT[T]) NeighborsGeometry(queryGeom distance.Geometry[T], k int, metric distance.Metric[T], maxDistance float64, geometryAt func(itemIndex uint32) (distance.Geometry[T], bool)) []ItemDistance {
	x, y := queryGeom.RepresentativePoint()

	var refine func(itemIndex uint32, bboxDist float64) float64
	if geometryAt != nil {
		refine = func(itemIndex uint32, bboxDist float64) float64 {
			itemGeom, ok := geometryAt(itemIndex)
			if !ok {
				return bboxDist
			}
			return coord.ToFloat64(metric.GeometryToGeometry(queryGeom, itemGeom))
		}
	}

	return t.neighbors(x, y, k, metric, maxDistance, refine)
}

func (t *RT[T]) neighbors(x, y T, k int, metric distance.Metric[T], maxDistance float64, refine func(itemIndex uint32, bboxDist float64) float64) []ItemDistance {
	start := time.Now()
	results := t.neighborsUninstrumented(x, y, k, metric, maxDistance, refine)
	t.metrics.ObserveQuery("neighbors", time.Since(start).Seconds(), len(results))
	return results
}

// neighborsUninstrumented drives best-first k-NN traversal with a tagged
// min-heap mixing interior nodes and leaf items. k <= 0 means no result
// cap is applied; the loop then runs until the heap is exhausted or every
// remaining candidate exceeds limit, returning every in-range item in
// distance order.
func (t *RT[T]) neighborsUninstrumented(x, y T, k int, metric distance.Metric[T], maxDistance float64, refine func(itemIndex uint32, bboxDist float64) float64) []ItemDistance {
	var results []ItemDistance
	if t.meta.NumNodes == 0 {
		return results
	}

	rootPos, ok := t.Root()
	if !ok {
		return results
	}

	limit := maxDistance
	if limit <= 0 {
		limit = math.Inf(1)
	}

	heap := util.NewMinHeap(64)
	rootID, rootDist := t.candidateAt(rootPos, x, y, metric, refine)
	heap.PushCandidate(util.Candidate{ID: rootID, Distance: rootDist})

	for {
		cand, ok := heap.PopCandidate()
		if !ok {
			break
		}
		if cand.Distance > limit {
			break
		}

		if cand.ID.IsLeaf() {
			results = append(results, ItemDistance{ItemIndex: cand.ID.ItemIndex(), Distance: cand.Distance})
			if k > 0 && len(results) >= k {
				break
			}
			continue
		}

		pos := cand.ID.BoxOffset()
		childStart := int(t.indices.Get(pos / 4))
		childLevelEnd := t.levelEndContaining(childStart)
		nodeSize := int(t.meta.NodeSize)

		p := childStart
		for c := 0; c < nodeSize && p < childLevelEnd; c++ {
			id, d := t.candidateAt(p, x, y, metric, refine)
			if d <= limit {
				heap.PushCandidate(util.Candidate{ID: id, Distance: d})
			}
			p += 4
		}
	}

	return results
}

// candidateAt computes the tagged heap id and distance for the node at
// box-array position pos. Interior nodes always use the bbox lower bound.
// A leaf item uses the bbox lower bound too, unless refine replaces it
// with an exact geometry distance; this can never break best-first
// admissibility, since a leaf's geometry lies within its own bbox, so a
// refined distance is never smaller than the lower bound an ancestor
// interior node already pruned against.
func (t *RT[T]) candidateAt(pos int, x, y T, metric distance.Metric[T], refine func(itemIndex uint32, bboxDist float64) float64) (util.TaggedID, float64) {
	bboxDist := t.bboxDistance(pos, x, y, metric)
	if !t.isLeafPos(pos) {
		return util.NewInteriorID(pos), bboxDist
	}
	itemIndex := t.indices.Get(pos / 4)
	d := bboxDist
	if refine != nil {
		d = refine(itemIndex, bboxDist)
	}
	return util.NewLeafID(itemIndex), d
}

// bboxDistance is the lower-bound distance from (x,y) to the box at pos.
// Both leaf boxes (an item's own bounding box) and interior boxes (the
// tight union of their children) use the same bbox lower bound — a leaf
// is exact only when its box has zero area, which DistanceToBBox already
// handles correctly since a degenerate box's lower bound equals the exact
// point-to-point distance.
func (t *RT[T]) bboxDistance(pos int, x, y T, metric distance.Metric[T]) float64 {
	minX, minY, maxX, maxY := t.box(pos)
	return coord.ToFloat64(metric.DistanceToBBox(x, y, minX, minY, maxX, maxY))
}
