package distance

import "fmt"

// Option configures a Haversine or Spheroid metric at construction time,
// following the functional-options idiom used throughout this module for
// genuinely optional parameters.
type Option func(*config) error

type config struct {
	earthRadius float64
	semiMajor   float64
	semiMinor   float64
}

func defaultConfig() config {
	return config{
		earthRadius: 6378137.0,      // WGS84 equatorial radius, meters
		semiMajor:   6378137.0,      // WGS84 semi-major axis
		semiMinor:   6356752.314245, // WGS84 semi-minor axis
	}
}

// WithEarthRadius sets the sphere radius (meters) used by Haversine. Has no
// effect on Spheroid.
func WithEarthRadius(meters float64) Option {
	return func(c *config) error {
		if meters <= 0 {
			return fmt.Errorf("distance: earth radius must be positive, got %f", meters)
		}
		c.earthRadius = meters
		return nil
	}
}

// WithEllipsoid sets the semi-major/semi-minor axes (meters) used by
// Spheroid. Has no effect on Haversine.
func WithEllipsoid(semiMajor, semiMinor float64) Option {
	return func(c *config) error {
		if semiMajor <= 0 || semiMinor <= 0 {
			return fmt.Errorf("distance: ellipsoid axes must be positive, got a=%f b=%f", semiMajor, semiMinor)
		}
		if semiMinor > semiMajor {
			return fmt.Errorf("distance: semi-minor axis must not exceed semi-major axis")
		}
		c.semiMajor = semiMajor
		c.semiMinor = semiMinor
		return nil
	}
}

// Ellipsoid names a reference ellipsoid's semi-major/semi-minor axes, in
// meters, for use with WithEllipsoid.
type Ellipsoid struct {
	SemiMajor, SemiMinor float64
}

// WGS84 is the default ellipsoid Spheroid uses when no Option overrides it.
var WGS84 = Ellipsoid{SemiMajor: 6378137.0, SemiMinor: 6356752.314245}

// GRS80 is the ellipsoid preset used by most national geodetic surveys,
// distinct from WGS84 by a sub-millimeter difference in flattening.
var GRS80 = Ellipsoid{SemiMajor: 6378137.0, SemiMinor: 6356752.314140}

// WithGRS80 selects the GRS80 ellipsoid preset for Spheroid, instead of the
// WGS84 default.
func WithGRS80() Option {
	return WithEllipsoid(GRS80.SemiMajor, GRS80.SemiMinor)
}

func apply(opts []Option) (config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return config{}, err
		}
	}
	return cfg, nil
}
