package wordcloud

import (
	"image"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_NoRoom(t *testing.T) {
	tbl := NewTable(NewGrid(10, 10))
	rng := rand.New(rand.NewSource(1))

	_, ok := FindSlot(tbl, 10, 10, Rect{W: 11, H: 1}, rng, nil)
	assert.False(t, ok)
	_, ok = FindSlot(tbl, 10, 10, Rect{W: 1, H: 11}, rng, nil)
	assert.False(t, ok)

	g := NewGrid(10, 10)
	for x := 0; x < 10; x++ {
		g.Set(x, 5)
	}
	// A 6 pixel high rect always crosses row 5.
	_, ok = FindSlot(NewTable(g), 10, 10, Rect{W: 1, H: 6}, rng, nil)
	assert.False(t, ok)
}

func TestSearch_FullCanvasRect(t *testing.T) {
	tbl := NewTable(NewGrid(8, 4))
	pt, ok := FindSlot(tbl, 8, 4, Rect{W: 8, H: 4}, rand.New(rand.NewSource(1)), nil)
	require.True(t, ok)
	assert.Equal(t, image.Pt(0, 0), pt)
}

func TestSearch_SingleFreePosition(t *testing.T) {
	g := NewGrid(6, 6)
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			if x < 2 || x > 3 || y < 3 || y > 4 {
				g.Set(x, y)
			}
		}
	}
	for seed := int64(0); seed < 10; seed++ {
		pt, ok := FindSlot(NewTable(g), 6, 6, Rect{W: 2, H: 2}, rand.New(rand.NewSource(seed)), nil)
		require.True(t, ok)
		assert.Equal(t, image.Pt(2, 3), pt)
	}
}

func TestSearch_ReturnsEmptySlots(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	g := randomGrid(rng, 40, 30, 0.02)
	tbl := NewTable(g)
	r := Rect{W: 4, H: 3}

	for i := 0; i < 50; i++ {
		pt, ok := FindSlot(tbl, 40, 30, r, rng, nil)
		if !ok {
			continue
		}
		assert.True(t, tbl.IsEmpty(pt.X, pt.Y, r.W, r.H))

		pt, ok = FindSlotParallel(tbl, 40, 30, r, rng, nil, 4)
		require.True(t, ok)
		assert.True(t, tbl.IsEmpty(pt.X, pt.Y, r.W, r.H))
	}
}

func TestSearch_Deterministic(t *testing.T) {
	g := randomGrid(rand.New(rand.NewSource(5)), 50, 40, 0.05)
	tbl := NewTable(g)
	r := Rect{W: 5, H: 2}

	a, okA := FindSlot(tbl, 50, 40, r, rand.New(rand.NewSource(42)), nil)
	b, okB := FindSlot(tbl, 50, 40, r, rand.New(rand.NewSource(42)), nil)
	assert.Equal(t, okA, okB)
	assert.Equal(t, a, b)

	a, okA = FindSlotParallel(tbl, 50, 40, r, rand.New(rand.NewSource(42)), nil, 3)
	b, okB = FindSlotParallel(tbl, 50, 40, r, rand.New(rand.NewSource(42)), nil, 3)
	assert.Equal(t, okA, okB)
	assert.Equal(t, a, b)
}

func TestSearch_SkipListIsEquivalent(t *testing.T) {
	// A diamond shaped free area.
	g := NewGrid(30, 30)
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			if math.Abs(float64(x-15))+math.Abs(float64(y-15)) > 12 {
				g.Set(x, y)
			}
		}
	}
	skip := computeSpans(g)
	tbl := NewTable(g)

	for _, r := range []Rect{{W: 1, H: 1}, {W: 5, H: 3}, {W: 3, H: 8}, {W: 20, H: 20}} {
		for seed := int64(0); seed < 20; seed++ {
			a, okA := FindSlot(tbl, 30, 30, r, rand.New(rand.NewSource(seed)), nil)
			b, okB := FindSlot(tbl, 30, 30, r, rand.New(rand.NewSource(seed)), skip)
			require.Equal(t, okA, okB)
			require.Equal(t, a, b, "rect %v seed %d", r, seed)
		}
	}
}

func TestSearch_FullyFreeRowSpan(t *testing.T) {
	g := NewGrid(12, 3)
	skip := computeSpans(g)
	for _, s := range skip {
		assert.Equal(t, Span{First: 0, Last: 11}, s)
	}

	g.Set(0, 1)
	g.Set(11, 1)
	for x := 0; x < 12; x++ {
		g.Set(x, 2)
	}
	skip = computeSpans(g)
	assert.Equal(t, Span{First: 1, Last: 10}, skip[1])
	assert.Greater(t, skip[2].First, skip[2].Last)
}

func TestSearch_Uniform(t *testing.T) {
	// 4x3 free positions for a 2x2 rect on a 5x4 canvas.
	tbl := NewTable(NewGrid(5, 4))
	r := Rect{W: 2, H: 2}
	const n = 12000
	expected := float64(n) / 12

	check := func(t *testing.T, find func(rng Rand) (image.Point, bool)) {
		rng := rand.New(rand.NewSource(11))
		hist := make(map[image.Point]int)
		for i := 0; i < n; i++ {
			pt, ok := find(rng)
			require.True(t, ok)
			hist[pt]++
		}
		require.Len(t, hist, 12)

		// Chi-square with 11 degrees of freedom, p = 0.001.
		var chi2 float64
		for _, c := range hist {
			d := float64(c) - expected
			chi2 += d * d / expected
		}
		assert.Less(t, chi2, 31.26)
	}

	t.Run("sequential", func(t *testing.T) {
		check(t, func(rng Rand) (image.Point, bool) { return FindSlot(tbl, 5, 4, r, rng, nil) })
	})
	t.Run("parallel", func(t *testing.T) {
		check(t, func(rng Rand) (image.Point, bool) { return FindSlotParallel(tbl, 5, 4, r, rng, nil, 2) })
	})
}
