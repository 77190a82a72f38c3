package kdtree

import (
	"math"

	"github.com/xDarkicex/geoidx/internal/coord"
)

// sortKD recursively kd-sorts p's [left, right] range, alternating the
// split axis at each level, stopping once a range is small enough to be
// scanned linearly by search (the same threshold search uses to switch
// from tree descent to a linear leaf scan).
func sortKD[T coord.Numeric](p points[T], left, right, nodeSize, axis int) {
	if right-left <= nodeSize {
		return
	}
	m := (left + right) / 2
	selectKD(p, m, left, right, axis)
	sortKD(p, left, m-1, nodeSize, 1-axis)
	sortKD(p, m+1, right, nodeSize, 1-axis)
}

// selectKD is the Floyd–Rivest selection algorithm: it partitions
// p.axis(·, axis) over [left, right] so that position k holds the value
// that would occupy it in a fully sorted order, with every smaller value
// to its left and every larger value to its right — without fully
// sorting the range. On large ranges it first narrows [left, right] to a
// small interval known to contain the k-th element, via a logarithmic
// sampling estimate, before falling back to Hoare partitioning.
func selectKD[T coord.Numeric](p points[T], k, left, right, axis int) {
	for right > left {
		if right-left > 600 {
			n := float64(right - left + 1)
			m := float64(k - left + 1)
			z := math.Log(n)
			s := 0.5 * math.Exp(2*z/3)
			sd := 0.5 * math.Sqrt(z*s*(n-s)/n)
			if m-n/2 < 0 {
				sd = -sd
			}
			newLeft := int(math.Max(float64(left), math.Floor(float64(k)-m*s/n+sd)))
			newRight := int(math.Min(float64(right), math.Floor(float64(k)+(n-m)*s/n+sd)))
			selectKD(p, k, newLeft, newRight, axis)
		}

		t := p.axis(k, axis)
		i, j := left, right

		p.swap(left, k)
		if coord.ToFloat64(p.axis(right, axis)) > coord.ToFloat64(t) {
			p.swap(left, right)
		}

		for i < j {
			p.swap(i, j)
			i++
			j--
			for coord.ToFloat64(p.axis(i, axis)) < coord.ToFloat64(t) {
				i++
			}
			for coord.ToFloat64(p.axis(j, axis)) > coord.ToFloat64(t) {
				j--
			}
		}

		if p.axis(left, axis) == t {
			p.swap(left, j)
		} else {
			j++
			p.swap(j, right)
		}

		if j <= k {
			left = j + 1
		}
		if k <= j {
			right = j - 1
		}
	}
}
