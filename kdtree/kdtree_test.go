package kdtree

import (
	"sort"
	"testing"
)

// fixturePoints is the 100-point (x,y) set used by S7, ported verbatim from
// the reference kd-tree's own test fixture (the same numbers, read in
// (x,y) pairs, that its expected kd-sorted ids/coords regress against).
func fixturePoints() [][2]float64 {
	raw := [][2]int{
		{54, 1}, {97, 21}, {65, 35}, {33, 54}, {95, 39}, {54, 3}, {53, 54}, {84, 72}, {33, 34}, {43, 15},
		{52, 83}, {81, 23}, {1, 61}, {38, 74}, {11, 91}, {24, 56}, {90, 31}, {25, 57}, {46, 61}, {29, 69},
		{49, 60}, {4, 98}, {71, 15}, {60, 25}, {38, 84}, {52, 38}, {94, 51}, {13, 25}, {77, 73}, {88, 87},
		{6, 27}, {58, 22}, {53, 28}, {27, 91}, {96, 98}, {93, 14}, {22, 93}, {45, 94}, {18, 28}, {35, 15},
		{19, 81}, {20, 81}, {67, 53}, {43, 3}, {47, 66}, {48, 34}, {46, 12}, {32, 38}, {43, 12}, {39, 94},
		{88, 62}, {66, 14}, {84, 30}, {72, 81}, {41, 92}, {26, 4}, {6, 76}, {47, 21}, {57, 70}, {71, 82},
		{50, 68}, {96, 18}, {40, 31}, {78, 53}, {71, 90}, {32, 14}, {55, 6}, {32, 88}, {62, 32}, {21, 67},
		{73, 81}, {44, 64}, {29, 50}, {70, 5}, {6, 22}, {68, 3}, {11, 23}, {20, 42}, {21, 73}, {63, 86},
		{9, 40}, {99, 2}, {99, 76}, {56, 77}, {83, 6}, {21, 72}, {78, 30}, {75, 53}, {41, 11}, {95, 20},
		{30, 38}, {96, 82}, {65, 48}, {33, 18}, {87, 28}, {10, 10}, {40, 34}, {10, 20}, {47, 29}, {46, 78},
	}
	out := make([][2]float64, len(raw))
	for i, p := range raw {
		out[i] = [2]float64{float64(p[0]), float64(p[1])}
	}
	return out
}

func buildFixtureKT(t *testing.T) *KT[float64] {
	t.Helper()
	points := fixturePoints()
	b := New[float64](uint32(len(points)), 10)
	for _, p := range points {
		b.Add(p[0], p[1])
	}
	tree, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	return tree
}

func sortedCopy(s []uint32) []uint32 {
	out := append([]uint32(nil), s...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func equalAsSets(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	as, bs := sortedCopy(a), sortedCopy(b)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// S7 — KT range query over the 100-point fixture.
func TestRangeFixture(t *testing.T) {
	tree := buildFixtureKT(t)
	got := tree.Range(20, 30, 50, 70)
	want := []uint32{60, 20, 45, 3, 17, 71, 44, 19, 18, 15, 69, 90, 62, 96, 47, 8, 77, 72}
	if !equalAsSets(got, want) {
		t.Errorf("Range(20,30,50,70) = %v, want (as set) %v", got, want)
	}
}

// S7 — KT within-radius query over the 100-point fixture.
func TestWithinFixture(t *testing.T) {
	tree := buildFixtureKT(t)
	got := tree.Within(50, 50, 20)
	want := []uint32{60, 6, 25, 92, 42, 20, 45, 3, 71, 44, 18, 96}
	if !equalAsSets(got, want) {
		t.Errorf("Within(50,50,20) = %v, want (as set) %v", got, want)
	}
}

// Range exactness: every in-rect point is returned and nothing else is.
func TestRangeExactness(t *testing.T) {
	tree := buildFixtureKT(t)
	points := fixturePoints()
	minX, minY, maxX, maxY := 20.0, 30.0, 50.0, 70.0

	got := asSet(tree.Range(minX, minY, maxX, maxY))
	for i, p := range points {
		inRect := p[0] >= minX && p[0] <= maxX && p[1] >= minY && p[1] <= maxY
		if inRect != got[uint32(i)] {
			t.Errorf("point %d (%v) in-rect=%v, in-result=%v", i, p, inRect, got[uint32(i)])
		}
	}
}

// Within exactness: every point inside the radius is returned and nothing
// else is.
func TestWithinExactness(t *testing.T) {
	tree := buildFixtureKT(t)
	points := fixturePoints()
	qx, qy, r := 50.0, 50.0, 20.0
	r2 := r * r

	got := asSet(tree.Within(qx, qy, r))
	for i, p := range points {
		dx, dy := p[0]-qx, p[1]-qy
		within := dx*dx+dy*dy <= r2
		if within != got[uint32(i)] {
			t.Errorf("point %d (%v) within=%v, in-result=%v", i, p, within, got[uint32(i)])
		}
	}
}

func asSet(ids []uint32) map[uint32]bool {
	m := make(map[uint32]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

// Round trip: serializing a KT and re-parsing via Parse yields the same
// query results.
func TestRoundTripParse(t *testing.T) {
	tree := buildFixtureKT(t)
	parsed, err := Parse[float64](tree.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := sortedCopy(tree.Range(20, 30, 50, 70))
	got := sortedCopy(parsed.Range(20, 30, 50, 70))
	if len(want) != len(got) {
		t.Fatalf("round-trip Range mismatch: got %v, want %v", got, want)
	}
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("round-trip Range mismatch: got %v, want %v", got, want)
		}
	}
}

// A single-point tree is its own range/within result set.
func TestSinglePointKT(t *testing.T) {
	b := New[float64](1, 10)
	b.Add(5, 5)
	tree, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	got := tree.Range(0, 0, 10, 10)
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("Range = %v, want [0]", got)
	}
}
