package kdtree

import "github.com/xDarkicex/geoidx/internal/coord"

// points is an interleaved (x,y) view over the coords region, paired with
// the ids view over the indices region; select and sortKD permute both in
// lock-step so point i's id always still names the same original item.
type points[T coord.Numeric] struct {
	ids   idsView
	coord coord.Array[T]
}

// idsView is the minimal subset of indexview.View that select/sortKD need;
// both the live indexview.View and a plain test double satisfy it.
type idsView interface {
	Get(i int) uint32
	Set(i int, v uint32)
}

func (p points[T]) X(i int) T { return p.coord.Get(i * 2) }
func (p points[T]) Y(i int) T { return p.coord.Get(i*2 + 1) }

func (p points[T]) axis(i, axis int) T {
	if axis == 0 {
		return p.X(i)
	}
	return p.Y(i)
}

func (p points[T]) swap(i, j int) {
	xi, yi := p.X(i), p.Y(i)
	xj, yj := p.X(j), p.Y(j)
	p.coord.Set(i*2, xj)
	p.coord.Set(i*2+1, yj)
	p.coord.Set(j*2, xi)
	p.coord.Set(j*2+1, yi)

	idi, idj := p.ids.Get(i), p.ids.Get(j)
	p.ids.Set(i, idj)
	p.ids.Set(j, idi)
}
