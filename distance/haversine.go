package distance

import (
	"math"

	"github.com/xDarkicex/geoidx/internal/coord"
)

// Haversine computes the great-circle distance between two (longitude,
// latitude) points in degrees, returning meters on a sphere of the
// configured radius. It is more accurate than Euclidean for geographic
// coordinates but treats the Earth as a perfect sphere; use Spheroid for a
// closer oblate-ellipsoid approximation.
type Haversine[T coord.Numeric] struct {
	earthRadius float64
}

// NewHaversine returns a Haversine metric, defaulting to the WGS84
// equatorial radius unless overridden with WithEarthRadius.
func NewHaversine[T coord.Numeric](opts ...Option) (*Haversine[T], error) {
	cfg, err := apply(opts)
	if err != nil {
		return nil, err
	}
	return &Haversine[T]{earthRadius: cfg.earthRadius}, nil
}

func (h *Haversine[T]) Distance(lon1, lat1, lon2, lat2 T) T {
	lat1r := coord.ToFloat64(lat1) * math.Pi / 180.0
	lat2r := coord.ToFloat64(lat2) * math.Pi / 180.0
	dLat := (coord.ToFloat64(lat2) - coord.ToFloat64(lat1)) * math.Pi / 180.0
	dLon := (coord.ToFloat64(lon2) - coord.ToFloat64(lon1)) * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2.0 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	d := h.earthRadius * c
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return coord.MaxValue[T]()
	}
	return coord.FromFloat64[T](d)
}

func (h *Haversine[T]) DistanceToBBox(lon, lat, minLon, minLat, maxLon, maxLat T) T {
	cLon, cLat := clampToBBox(lon, lat, minLon, minLat, maxLon, maxLat)
	return h.Distance(lon, lat, cLon, cLat)
}

func (h *Haversine[T]) MaxDistance() T {
	return coord.MaxValue[T]()
}

func (h *Haversine[T]) GeometryToGeometry(query, item Geometry[T]) T {
	qx, qy := query.RepresentativePoint()
	ix, iy := item.RepresentativePoint()
	return h.Distance(qx, qy, ix, iy)
}
