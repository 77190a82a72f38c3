package distance

import (
	"math"

	"github.com/xDarkicex/geoidx/internal/coord"
)

// Spheroid computes the Vincenty inverse-geodesic distance between two
// (longitude, latitude) points, in degrees, on a reference ellipsoid,
// returning meters. It is the most accurate of the three metrics but the
// most expensive, iterating toward convergence rather than closed-form.
type Spheroid[T coord.Numeric] struct {
	semiMajorAxis float64
	semiMinorAxis float64
}

// NewSpheroid returns a Spheroid metric, defaulting to the WGS84 ellipsoid
// unless overridden with WithEllipsoid or WithGRS80.
func NewSpheroid[T coord.Numeric](opts ...Option) (*Spheroid[T], error) {
	cfg, err := apply(opts)
	if err != nil {
		return nil, err
	}
	return &Spheroid[T]{semiMajorAxis: cfg.semiMajor, semiMinorAxis: cfg.semiMinor}, nil
}

const (
	vincentyMaxIterations = 100
	vincentyTolerance     = 1e-12
)

func (s *Spheroid[T]) Distance(lon1, lat1, lon2, lat2 T) T {
	lat1r := coord.ToFloat64(lat1) * math.Pi / 180.0
	lat2r := coord.ToFloat64(lat2) * math.Pi / 180.0
	dLon := (coord.ToFloat64(lon2) - coord.ToFloat64(lon1)) * math.Pi / 180.0

	a := s.semiMajorAxis
	b := s.semiMinorAxis
	f := (a - b) / a

	u1 := math.Atan((1 - f) * math.Tan(lat1r))
	u2 := math.Atan((1 - f) * math.Tan(lat2r))

	sinU1, cosU1 := math.Sin(u1), math.Cos(u1)
	sinU2, cosU2 := math.Sin(u2), math.Cos(u2)

	lambda := dLon
	var sinSigma, cosSigma, sigma, cosSqAlpha, cos2SigmaM float64

	converged := false
	for iter := 0; iter < vincentyMaxIterations; iter++ {
		sinLambda, cosLambda := math.Sin(lambda), math.Cos(lambda)

		sinSigma = math.Sqrt(math.Pow(cosU2*sinLambda, 2) +
			math.Pow(cosU1*sinU2-sinU1*cosU2*cosLambda, 2))

		if sinSigma == 0 {
			// Coincident points.
			var zero T
			return zero
		}

		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)

		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha

		if cosSqAlpha == 0 {
			cos2SigmaM = 0 // equatorial line
		} else {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		}

		c := f / 16.0 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
		lambdaPrev := lambda
		lambda = dLon + (1-c)*f*sinAlpha*(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

		if math.Abs(lambda-lambdaPrev) < vincentyTolerance {
			converged = true
			break
		}
	}
	_ = converged // non-convergence within the iteration cap is treated as converged at the last estimate

	uSq := cosSqAlpha * (a*a - b*b) / (b * b)
	bigA := 1 + uSq/16384.0*(4096+uSq*(-768+uSq*(320-175*uSq)))
	bigB := uSq / 1024.0 * (256 + uSq*(-128+uSq*(74-47*uSq)))

	deltaSigma := bigB * sinSigma * (cos2SigmaM + bigB/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
		bigB/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))

	d := b * bigA * (sigma - deltaSigma)
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return coord.MaxValue[T]()
	}
	return coord.FromFloat64[T](d)
}

func (s *Spheroid[T]) DistanceToBBox(lon, lat, minLon, minLat, maxLon, maxLat T) T {
	cLon, cLat := clampToBBox(lon, lat, minLon, minLat, maxLon, maxLat)
	return s.Distance(lon, lat, cLon, cLat)
}

func (s *Spheroid[T]) MaxDistance() T {
	return coord.MaxValue[T]()
}

func (s *Spheroid[T]) GeometryToGeometry(query, item Geometry[T]) T {
	qx, qy := query.RepresentativePoint()
	ix, iy := item.RepresentativePoint()
	return s.Distance(qx, qy, ix, iy)
}
