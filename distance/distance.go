// Package distance supplies the pluggable distance metrics the R-tree
// nearest-neighbor search is parameterized over: a planar Euclidean metric,
// a great-circle Haversine metric, and an iterative Vincenty metric on a
// reference ellipsoid. Every metric supplies both a point-to-point distance
// and a point-to-bbox lower bound; the lower bound is what makes best-first
// k-NN traversal correct, so it must never exceed the true distance from the
// query point to any point inside the box.
package distance

import (
	"math"

	"github.com/xDarkicex/geoidx/internal/coord"
)

// Metric is the interface every distance implementation satisfies. T is the
// coordinate type the surrounding index was built over.
type Metric[T coord.Numeric] interface {
	// Distance returns the distance between (ax,ay) and (bx,by).
	Distance(ax, ay, bx, by T) T

	// DistanceToBBox returns a lower bound on the distance from (x,y) to any
	// point inside the box [minX,maxX]x[minY,maxY]. Used to prune interior
	// nodes during best-first traversal; must never overestimate.
	DistanceToBBox(x, y, minX, minY, maxX, maxY T) T

	// MaxDistance returns the sentinel for an uncapped distance: the largest
	// value T can represent.
	MaxDistance() T

	// GeometryToGeometry refines a leaf candidate's distance from the bbox
	// lower bound to the true distance between the query geometry and
	// an indexed item's actual geometry, both reduced to a representative
	// point. Used only by the geometry-aware neighbor search; ordinary
	// point/bbox search never calls it.
	GeometryToGeometry(query, item Geometry[T]) T
}

// Geometry is the minimal shape contract the geometry-to-geometry
// refinement hook needs. This module carries no higher-level geometry
// types of its own — a caller with real polygons, lines, or other shapes
// wires its own type satisfying this interface, reducing each shape to
// whatever point the metric should measure distance against.
type Geometry[T coord.Numeric] interface {
	RepresentativePoint() (x, y T)
}

// Point is the simplest Geometry: itself.
type Point[T coord.Numeric] struct {
	X, Y T
}

func (p Point[T]) RepresentativePoint() (x, y T) { return p.X, p.Y }

// axisDist is the 1-D distance from value k to the range [lo,hi]: zero if k
// falls inside the range, otherwise the gap to the nearer edge.
func axisDist[T coord.Numeric](k, lo, hi T) T {
	if k < lo {
		return lo - k
	}
	if k <= hi {
		var zero T
		return zero
	}
	return k - hi
}

// clampToBBox returns the point on [minX,maxX]x[minY,maxY] closest to
// (x,y) — the identity when (x,y) is already inside.
func clampToBBox[T coord.Numeric](x, y, minX, minY, maxX, maxY T) (cx, cy T) {
	cx = x
	if x < minX {
		cx = minX
	} else if x > maxX {
		cx = maxX
	}
	cy = y
	if y < minY {
		cy = minY
	} else if y > maxY {
		cy = maxY
	}
	return cx, cy
}

func sqrtWithSentinel[T coord.Numeric](sumOfSquares float64) T {
	d := math.Sqrt(sumOfSquares)
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return coord.MaxValue[T]()
	}
	return coord.FromFloat64[T](d)
}
