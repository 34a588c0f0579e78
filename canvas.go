package wordcloud

import (
	"image"

	"github.com/disintegration/imaging"
)

// DefaultMaskThreshold is the luminance from which a mask pixel counts as blank background.
const DefaultMaskThreshold = 250

// Canvas is the drawing area of a word cloud, together with its forbidden region.
type Canvas struct {
	Width  int
	Height int
	// Shape is the drawable silhouette of a mask canvas (255 inside the shape), nil otherwise.
	Shape *image.Gray

	grid *Grid
	skip []Span
}

// NewCanvas returns an empty rectangular canvas.
func NewCanvas(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, configErrorf("canvas size", "%dx%d", width, height)
	}
	return &Canvas{
		Width:  width,
		Height: height,
		grid:   NewGrid(width, height),
	}, nil
}

// MaskOptions controls how a silhouette image is converted into a canvas.
type MaskOptions struct {
	// Width and Height resize the mask. Zero keeps the mask size on that axis,
	// or preserves the aspect ratio when only one of them is set.
	Width, Height int
	// Threshold is the luminance from which an opaque pixel is considered blank.
	// Zero means DefaultMaskThreshold.
	Threshold uint8
	// Invert makes the shape forbidden and the blank background drawable.
	Invert bool
}

// NewMaskCanvas creates a canvas shaped after the mask image. The blank background
// of the mask (white or transparent pixels) is forbidden, the shape is drawable.
func NewMaskCanvas(mask image.Image, opts MaskOptions) (*Canvas, error) {
	b := mask.Bounds()
	if b.Empty() {
		return nil, configErrorf("mask", "empty image")
	}
	if opts.Width < 0 || opts.Height < 0 {
		return nil, configErrorf("canvas size", "%dx%d", opts.Width, opts.Height)
	}
	if opts.Threshold == 0 {
		opts.Threshold = DefaultMaskThreshold
	}

	img := imgToNRGBA(mask)
	if (opts.Width != 0 && opts.Width != b.Dx()) || (opts.Height != 0 && opts.Height != b.Dy()) {
		img = imaging.Resize(img, opts.Width, opts.Height, imaging.NearestNeighbor)
	}
	gray := imaging.Grayscale(img)

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	grid := NewGrid(w, h)
	shape := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := gray.PixOffset(x, y)
			blank := img.Pix[img.PixOffset(x, y)+3] < 128 || gray.Pix[i] >= opts.Threshold
			if blank != opts.Invert {
				grid.Set(x, y)
			} else {
				shape.Pix[shape.PixOffset(x, y)] = 0xff
			}
		}
	}

	c := &Canvas{
		Width:  w,
		Height: h,
		Shape:  shape,
		grid:   grid,
	}
	c.skip = computeSpans(grid)
	return c, nil
}

// Block marks the rectangles as forbidden, clipped to the canvas bounds.
func (c *Canvas) Block(rects ...image.Rectangle) {
	bounds := image.Rect(0, 0, c.Width, c.Height)
	for _, r := range rects {
		r = r.Intersect(bounds)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				c.grid.Set(x, y)
			}
		}
	}
	if len(rects) > 0 {
		c.skip = computeSpans(c.grid)
	}
}

// Grid returns a copy of the canvas occupancy, including the forbidden region.
func (c *Canvas) Grid() *Grid {
	return c.grid.Clone()
}

// Spans returns the per row free column bounds, or nil for a plain canvas.
func (c *Canvas) Spans() []Span {
	return c.skip
}

// MaskedFraction returns the share of the canvas area which is forbidden.
func (c *Canvas) MaskedFraction() float64 {
	return float64(c.grid.Occupied()) / float64(c.Width*c.Height)
}

// computeSpans returns, for every row, the first and last free column.
// A row without any free cell gets {width, -1}; a row without any
// occupied cell gets the full {0, width-1} range.
func computeSpans(g *Grid) []Span {
	spans := make([]Span, g.Height)
	for y := 0; y < g.Height; y++ {
		s := Span{First: g.Width, Last: -1}
		for x := 0; x < g.Width; x++ {
			if g.At(x, y) == 0 {
				s.First = x
				break
			}
		}
		for x := g.Width - 1; x >= s.First; x-- {
			if g.At(x, y) == 0 {
				s.Last = x
				break
			}
		}
		spans[y] = s
	}
	return spans
}
