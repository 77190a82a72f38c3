package coord

import "math"

// NudgeBoxF32 casts an f64 bounding box down to float32 the way a plain
// conversion would, then corrects any edge that rounding moved inward by one
// float32 ULP in the outward direction. A bare float32(x) conversion rounds
// to nearest, which can narrow a min upward or a max downward; this ensures
// the returned box always contains every point the original f64 box did.
func NudgeBoxF32(minX, minY, maxX, maxY float64) (float32, float32, float32, float32) {
	return nudgeMin(minX), nudgeMin(minY), nudgeMax(maxX), nudgeMax(maxY)
}

func nudgeMin(v float64) float32 {
	cast := float32(v)
	if float64(cast) > v {
		cast = math.Nextafter32(cast, float32(math.Inf(-1)))
	}
	return cast
}

func nudgeMax(v float64) float32 {
	cast := float32(v)
	if float64(cast) < v {
		cast = math.Nextafter32(cast, float32(math.Inf(1)))
	}
	return cast
}
