package distance

import "github.com/xDarkicex/geoidx/internal/coord"

// Euclidean is the standard planar straight-line metric. For longitude and
// latitude coordinates the resulting distance is in degrees, not meters —
// use Haversine or Spheroid for geographic distances.
type Euclidean[T coord.Numeric] struct{}

// NewEuclidean returns a Euclidean metric instance. It carries no state, so
// the zero value works equally well; the constructor exists for symmetry
// with the other metrics.
func NewEuclidean[T coord.Numeric]() Euclidean[T] {
	return Euclidean[T]{}
}

func (Euclidean[T]) Distance(ax, ay, bx, by T) T {
	dx := coord.ToFloat64(ax) - coord.ToFloat64(bx)
	dy := coord.ToFloat64(ay) - coord.ToFloat64(by)
	return sqrtWithSentinel[T](dx*dx + dy*dy)
}

func (Euclidean[T]) DistanceToBBox(x, y, minX, minY, maxX, maxY T) T {
	dx := coord.ToFloat64(axisDist(x, minX, maxX))
	dy := coord.ToFloat64(axisDist(y, minY, maxY))
	return sqrtWithSentinel[T](dx*dx + dy*dy)
}

func (Euclidean[T]) MaxDistance() T {
	return coord.MaxValue[T]()
}

func (e Euclidean[T]) GeometryToGeometry(query, item Geometry[T]) T {
	qx, qy := query.RepresentativePoint()
	ix, iy := item.RepresentativePoint()
	return e.Distance(qx, qy, ix, iy)
}
