package wordcloud

import (
	"fmt"
	"image"
)

// Grid is the binary occupancy raster of the canvas.
// A cell value of 0 means the pixel is free, 1 means it is claimed
// by a placed word or forbidden by the mask.
type Grid struct {
	Width  int
	Height int
	Cells  []uint8
}

// NewGrid returns an empty grid of the provided size.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Cells:  make([]uint8, width*height),
	}
}

// At returns the cell value at (x, y).
func (g *Grid) At(x, y int) uint8 {
	return g.Cells[x+y*g.Width]
}

// Set marks the cell at (x, y) as occupied.
func (g *Grid) Set(x, y int) {
	g.Cells[x+y*g.Width] = 1
}

// Occupied returns the number of occupied cells.
func (g *Grid) Occupied() int {
	var n int
	for _, c := range g.Cells {
		n += int(c)
	}
	return n
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]uint8, len(g.Cells))
	copy(cells, g.Cells)
	return &Grid{Width: g.Width, Height: g.Height, Cells: cells}
}

// Stamp marks every pixel of the coverage mask whose alpha value reaches
// threshold as occupied. The mask is positioned with its top-left corner at pt.
// Stamping outside of the grid is a programming error and it panics.
func (g *Grid) Stamp(mask *image.Alpha, pt image.Point, threshold uint8) {
	b := mask.Bounds()
	if pt.X < 0 || pt.Y < 0 || pt.X+b.Dx() > g.Width || pt.Y+b.Dy() > g.Height {
		panic(fmt.Sprintf("wordcloud: stamp %v at %v outside of the %dx%d grid", b.Size(), pt, g.Width, g.Height))
	}
	for y := 0; y < b.Dy(); y++ {
		row := mask.Pix[mask.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < b.Dx(); x++ {
			if row[x] >= threshold {
				g.Cells[pt.X+x+(pt.Y+y)*g.Width] = 1
			}
		}
	}
}

// Table is a summed-area table computed over an occupancy grid.
// It has a leading zero row and column, so that the entry at (x+1, y+1)
// holds the number of occupied cells in the grid rectangle [0, x]×[0, y].
type Table struct {
	width  int
	height int
	sums   []uint32
}

// NewTable builds the summed-area table of the grid.
func NewTable(g *Grid) *Table {
	t := &Table{
		width:  g.Width,
		height: g.Height,
		sums:   make([]uint32, (g.Width+1)*(g.Height+1)),
	}
	t.Rebuild(g)
	return t
}

// get returns the table entry, with (0, 0) being the zero border.
func (t *Table) get(x, y int) uint32 {
	return t.sums[x+y*(t.width+1)]
}

// Rebuild recomputes the whole table from the grid.
func (t *Table) Rebuild(g *Grid) {
	t.RebuildFrom(g, 0)
}

// RebuildFrom recomputes the table rows starting at the grid row start.
// The rows above start are reused as they are, which is valid as long as
// the grid was only modified at or below start.
func (t *Table) RebuildFrom(g *Grid, start int) {
	if g.Width != t.width || g.Height != t.height {
		panic(fmt.Sprintf("wordcloud: table %dx%d rebuilt from a %dx%d grid", t.width, t.height, g.Width, g.Height))
	}
	if start < 0 {
		start = 0
	}
	stride := t.width + 1
	for y := start; y < t.height; y++ {
		var rowSum uint32
		prev := t.sums[y*stride : (y+1)*stride]
		curr := t.sums[(y+1)*stride : (y+2)*stride]
		cells := g.Cells[y*t.width : (y+1)*t.width]
		for x := 0; x < t.width; x++ {
			rowSum += uint32(cells[x])
			curr[x+1] = prev[x+1] + rowSum
		}
	}
}

// Sum returns the number of occupied cells in the w×h rectangle with its top-left corner at (x, y).
func (t *Table) Sum(x, y, w, h int) uint32 {
	return t.get(x, y) + t.get(x+w, y+h) - t.get(x+w, y) - t.get(x, y+h)
}

// IsEmpty reports whether the w×h rectangle with its top-left corner at (x, y) is fully unoccupied.
func (t *Table) IsEmpty(x, y, w, h int) bool {
	return t.Sum(x, y, w, h) == 0
}
