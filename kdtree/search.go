package kdtree

import (
	"time"

	"github.com/xDarkicex/geoidx/internal/coord"
)

type rangeFrame struct{ left, right, axis int }

// Range returns the original item indices whose point lies within
// [minX,maxX]x[minY,maxY], inclusive, using an explicit stack sized to the
// tree's depth rather than recursion.
func (t *KT[T]) Range(minX, minY, maxX, maxY T) []uint32 {
	start := time.Now()
	out := t.rangeQuery(minX, minY, maxX, maxY)
	t.metrics.ObserveQuery("range", time.Since(start).Seconds(), len(out))
	return out
}

func (t *KT[T]) rangeQuery(minX, minY, maxX, maxY T) []uint32 {
	var out []uint32
	if t.meta.NumItems == 0 {
		return out
	}

	nodeSize := int(t.meta.NodeSize)
	stack := []rangeFrame{{left: 0, right: int(t.meta.NumItems) - 1, axis: 0}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.right-f.left <= nodeSize {
			for i := f.left; i <= f.right; i++ {
				x, y := t.pointAt(i)
				if x >= minX && x <= maxX && y >= minY && y <= maxY {
					out = append(out, t.ids.Get(i))
				}
			}
			continue
		}

		m := (f.left + f.right) / 2
		mx, my := t.pointAt(m)
		if mx >= minX && mx <= maxX && my >= minY && my <= maxY {
			out = append(out, t.ids.Get(m))
		}

		var descendLeft, descendRight bool
		if f.axis == 0 {
			descendLeft = minX <= mx
			descendRight = maxX >= mx
		} else {
			descendLeft = minY <= my
			descendRight = maxY >= my
		}

		nextAxis := 1 - f.axis
		if descendLeft {
			stack = append(stack, rangeFrame{left: f.left, right: m - 1, axis: nextAxis})
		}
		if descendRight {
			stack = append(stack, rangeFrame{left: m + 1, right: f.right, axis: nextAxis})
		}
	}

	return out
}

// Within returns the original item indices whose point lies within
// Euclidean distance r of (qx, qy). No ordering guarantee on results.
func (t *KT[T]) Within(qx, qy T, r float64) []uint32 {
	start := time.Now()
	out := t.withinQuery(qx, qy, r)
	t.metrics.ObserveQuery("within", time.Since(start).Seconds(), len(out))
	return out
}

func (t *KT[T]) withinQuery(qx, qy T, r float64) []uint32 {
	var out []uint32
	if t.meta.NumItems == 0 {
		return out
	}

	r2 := r * r
	fqx, fqy := coord.ToFloat64(qx), coord.ToFloat64(qy)
	nodeSize := int(t.meta.NodeSize)

	stack := []rangeFrame{{left: 0, right: int(t.meta.NumItems) - 1, axis: 0}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.right-f.left <= nodeSize {
			for i := f.left; i <= f.right; i++ {
				x, y := t.pointAt(i)
				dx := coord.ToFloat64(x) - fqx
				dy := coord.ToFloat64(y) - fqy
				if dx*dx+dy*dy <= r2 {
					out = append(out, t.ids.Get(i))
				}
			}
			continue
		}

		m := (f.left + f.right) / 2
		mx, my := t.pointAt(m)
		dx := coord.ToFloat64(mx) - fqx
		dy := coord.ToFloat64(my) - fqy
		if dx*dx+dy*dy <= r2 {
			out = append(out, t.ids.Get(m))
		}

		var descendLeft, descendRight bool
		if f.axis == 0 {
			descendLeft = fqx-r <= coord.ToFloat64(mx)
			descendRight = fqx+r >= coord.ToFloat64(mx)
		} else {
			descendLeft = fqy-r <= coord.ToFloat64(my)
			descendRight = fqy+r >= coord.ToFloat64(my)
		}

		nextAxis := 1 - f.axis
		if descendLeft {
			stack = append(stack, rangeFrame{left: f.left, right: m - 1, axis: nextAxis})
		}
		if descendRight {
			stack = append(stack, rangeFrame{left: m + 1, right: f.right, axis: nextAxis})
		}
	}

	return out
}
