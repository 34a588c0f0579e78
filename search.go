package wordcloud

import (
	"image"

	"golang.org/x/sync/errgroup"
)

// Rand is the source of randomness consumed by the layout and the color functions.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Rect is the size in pixels of the box a word requires, margin included.
type Rect struct {
	W, H int
}

// Rotate swaps the rectangle axes.
func (r Rect) Rotate() Rect {
	return Rect{W: r.H, H: r.W}
}

// Span holds the first and last free column of a canvas row.
// A row without free columns has First > Last.
type Span struct {
	First, Last int
}

// xRange returns the column range to scan on row y for a rectangle of width w.
func xRange(width, w, y int, skip []Span) (int, int) {
	x0, x1 := 0, width-w
	if skip != nil {
		s := skip[y]
		if s.First > x0 {
			x0 = s.First
		}
		if last := s.Last - w + 1; last < x1 {
			x1 = last
		}
	}
	return x0, x1
}

// FindSlot returns the top-left position of a free rect chosen uniformly at random
// among all the free positions of the canvas. It performs a single row-major scan
// and selects the position with reservoir sampling, so the candidates are never stored.
//
// The optional skip list narrows the scanned columns of every row to the columns
// which are not masked out. It does not change the outcome for a given random source.
func FindSlot(t *Table, width, height int, r Rect, rng Rand, skip []Span) (image.Point, bool) {
	var (
		pt    image.Point
		found int
	)
	if r.W > width || r.H > height || r.W <= 0 || r.H <= 0 {
		return pt, false
	}
	for y := 0; y <= height-r.H; y++ {
		x0, x1 := xRange(width, r.W, y, skip)
		for x := x0; x <= x1; x++ {
			if t.IsEmpty(x, y, r.W, r.H) {
				found++
				if rng.Intn(found) == 0 {
					pt = image.Point{X: x, Y: y}
				}
			}
		}
	}
	return pt, found > 0
}

// FindSlotParallel is the concurrent counterpart of FindSlot.
// The rows are split into partitions which are counted concurrently; a single
// index is then drawn uniformly over the total count and resolved inside the
// partition holding it. The chosen position is uniformly distributed and
// reproducible for a seeded source, but the source is consumed differently
// than by FindSlot, so both functions return different positions for the same seed.
func FindSlotParallel(t *Table, width, height int, r Rect, rng Rand, skip []Span, workers int) (image.Point, bool) {
	if r.W > width || r.H > height || r.W <= 0 || r.H <= 0 {
		return image.Point{}, false
	}
	rows := height - r.H + 1
	if workers <= 1 || rows < workers {
		return FindSlot(t, width, height, r, rng, skip)
	}

	chunk := (rows + workers - 1) / workers
	counts := make([]int, workers)

	var g errgroup.Group
	for i := range workers {
		y0, y1 := i*chunk, min((i+1)*chunk, rows)
		g.Go(func() error {
			for y := y0; y < y1; y++ {
				x0, x1 := xRange(width, r.W, y, skip)
				for x := x0; x <= x1; x++ {
					if t.IsEmpty(x, y, r.W, r.H) {
						counts[i]++
					}
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	var total int
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return image.Point{}, false
	}

	n := rng.Intn(total)
	for i, c := range counts {
		if n >= c {
			n -= c
			continue
		}
		y0, y1 := i*chunk, min((i+1)*chunk, rows)
		for y := y0; y < y1; y++ {
			x0, x1 := xRange(width, r.W, y, skip)
			for x := x0; x <= x1; x++ {
				if t.IsEmpty(x, y, r.W, r.H) {
					if n == 0 {
						return image.Point{X: x, Y: y}, true
					}
					n--
				}
			}
		}
	}
	// unreachable: the counted positions cannot vanish between the two passes.
	return image.Point{}, false
}
