package wordcloud

import (
	"image"

	"github.com/charmbracelet/log"
)

// coverageThreshold is the glyph alpha from which a pixel is considered occupied (~0.05 coverage).
const coverageThreshold = 13

// LayoutOptions controls the placement of the words.
type LayoutOptions struct {
	// MinFontSize stops the layout once the font size would drop below it.
	MinFontSize float64
	// MaxFontSize caps the font size of the first word. Zero means no cap.
	MaxFontSize float64
	// FontStep is the font size decrement applied when a word does not fit.
	FontStep float64
	// Margin is the padding in pixels around every word.
	Margin int
	// RotateProb is the probability of a word to be placed vertically.
	RotateProb float64
	// RelativeScaling is the degree to which the word weight drives the font size,
	// 0 keeping a constant size and 1 making the size proportional to the weight.
	RelativeScaling float64
	// Repeat signals that the word list has been extended with repeated words,
	// in which case the relative scaling is not applied.
	Repeat bool
	// Workers enables the concurrent slot search when greater than 1.
	Workers int
}

// DefaultLayoutOptions returns the layout defaults.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		MinFontSize:     4,
		FontStep:        1,
		Margin:          2,
		RotateProb:      0.1,
		RelativeScaling: 0.5,
	}
}

// Validate checks the options.
func (o LayoutOptions) Validate() error {
	switch {
	case o.MinFontSize < 0:
		return configErrorf("min font size", "%v is negative", o.MinFontSize)
	case o.MaxFontSize < 0:
		return configErrorf("max font size", "%v is negative", o.MaxFontSize)
	case o.MaxFontSize > 0 && o.MaxFontSize < o.MinFontSize:
		return configErrorf("max font size", "%v is lower than the min font size %v", o.MaxFontSize, o.MinFontSize)
	case o.FontStep <= 0:
		return configErrorf("font step", "%v should be positive", o.FontStep)
	case o.Margin < 0:
		return configErrorf("margin", "%d is negative", o.Margin)
	case o.RotateProb < 0 || o.RotateProb > 1:
		return configErrorf("rotate probability", "%v is outside of [0, 1]", o.RotateProb)
	case o.RelativeScaling < 0 || o.RelativeScaling > 1:
		return configErrorf("relative scaling", "%v is outside of [0, 1]", o.RelativeScaling)
	}
	return nil
}

// PlacedWord is a word with its final position on the canvas.
type PlacedWord struct {
	Text     string
	Weight   float64
	FontSize float64
	// Position is the top-left corner of the glyph box.
	Position image.Point
	Rotated  bool
	// Glyph is the upright glyph geometry at FontSize.
	Glyph *Glyph
}

// Mask returns the glyph coverage in its placed orientation.
func (w PlacedWord) Mask() *image.Alpha {
	if w.Rotated {
		return rotateAlpha90(w.Glyph.Mask)
	}
	return w.Glyph.Mask
}

// Bounds returns the box covered by the glyph on the canvas.
func (w PlacedWord) Bounds() image.Rectangle {
	size := image.Pt(w.Glyph.Width(), w.Glyph.Height())
	if w.Rotated {
		size = image.Pt(size.Y, size.X)
	}
	return image.Rectangle{Min: w.Position, Max: w.Position.Add(size)}
}

// Layout is the result of a placement run.
type Layout struct {
	Width  int
	Height int
	Words  []PlacedWord
	// Shape is the silhouette of a mask canvas, if any.
	Shape *image.Gray
}

// Layouter places weighted words onto a canvas.
type Layouter struct {
	opts   LayoutOptions
	font   FontProvider
	Logger *log.Logger
}

// NewLayouter validates the options and returns a layouter using the font provider.
func NewLayouter(font FontProvider, opts LayoutOptions) (*Layouter, error) {
	if font == nil {
		return nil, configErrorf("font", "missing font provider")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Layouter{
		opts:   opts,
		font:   font,
		Logger: log.Default(),
	}, nil
}

// placeState is the state of the per word placement state machine.
type placeState int

const (
	tryPlace placeState = iota
	shrinkFont
	toggleRotation
	giveUp
)

// placement is the outcome of placing a single word.
type placement int

const (
	placed placement = iota
	// stopped means the current and every remaining word cannot be placed.
	stopped
)

// layoutRun holds the state carried across the word loop.
type layoutRun struct {
	*Layouter
	canvas   *Canvas
	grid     *Grid
	table    *Table
	rng      Rand
	fontSize float64
}

// Layout places the words in order, heaviest first. The placement ends early,
// without error, as soon as a word cannot be fitted anymore: the remaining words
// are lighter, so they would only get smaller, while the free space keeps shrinking.
//
// The canvas is not modified. For the same words, canvas and seeded random source
// the layout is reproducible.
func (l *Layouter) Layout(words []WeightedWord, canvas *Canvas, rng Rand) (*Layout, error) {
	grid := canvas.Grid()
	run := &layoutRun{
		Layouter: l,
		canvas:   canvas,
		grid:     grid,
		table:    NewTable(grid),
		rng:      rng,
		fontSize: l.initialFontSize(canvas),
	}
	result := &Layout{
		Width:  canvas.Width,
		Height: canvas.Height,
		Words:  make([]PlacedWord, 0, len(words)),
		Shape:  canvas.Shape,
	}

	prevWeight := 1.0
	for i, word := range words {
		if l.opts.RelativeScaling != 0 && !l.opts.Repeat && i > 0 && prevWeight > 0 {
			rs := l.opts.RelativeScaling
			run.fontSize *= rs*(word.Weight/prevWeight) + (1 - rs)
		}
		if run.fontSize < l.opts.MinFontSize || run.fontSize <= 0 {
			l.Logger.Debug("font size below minimum, layout stopped", "word", word.Text, "size", run.fontSize)
			break
		}

		pw, outcome, err := run.place(word)
		if err != nil {
			return nil, err
		}
		if outcome == stopped {
			l.Logger.Debug("no room left, layout stopped", "word", word.Text, "placed", len(result.Words))
			break
		}
		result.Words = append(result.Words, pw)
		prevWeight = word.Weight
	}
	return result, nil
}

// initialFontSize derives the first font size from the canvas height, reduced by the masked share.
func (l *Layouter) initialFontSize(c *Canvas) float64 {
	size := float64(c.Height) * 0.95
	if c.Shape != nil {
		size *= 1 - c.MaskedFraction()
	}
	if l.opts.MaxFontSize > 0 {
		size = min(size, l.opts.MaxFontSize)
	}
	return size
}

// place runs the placement state machine of a single word: it shrinks the
// font until the minimum size, then tries the other orientation once from the
// initial size, then gives up.
func (r *layoutRun) place(word WeightedWord) (PlacedWord, placement, error) {
	var (
		initialSize = r.fontSize
		rotated     = r.opts.RotateProb > 0 && r.rng.Float64() < r.opts.RotateProb
		toggled     bool
		glyph       *Glyph
		pos         image.Point
		state       = tryPlace
	)

	for {
		switch state {
		case tryPlace:
			var err error
			glyph, err = r.font.Glyph(word.Text, r.fontSize)
			if err != nil {
				return PlacedWord{}, stopped, err
			}
			box := Rect{W: glyph.Width() + r.opts.Margin, H: glyph.Height() + r.opts.Margin}
			if rotated {
				box = box.Rotate()
			}
			if box.W > r.canvas.Width || box.H > r.canvas.Height {
				if !r.canShrink() {
					return PlacedWord{}, stopped, nil
				}
				state = shrinkFont
				continue
			}

			var ok bool
			if r.opts.Workers > 1 {
				pos, ok = FindSlotParallel(r.table, r.canvas.Width, r.canvas.Height, box, r.rng, r.canvas.skip, r.opts.Workers)
			} else {
				pos, ok = FindSlot(r.table, r.canvas.Width, r.canvas.Height, box, r.rng, r.canvas.skip)
			}
			if ok {
				return r.commit(word, glyph, pos, rotated), placed, nil
			}
			state = shrinkFont
		case shrinkFont:
			if r.canShrink() {
				r.fontSize -= r.opts.FontStep
				state = tryPlace
			} else {
				state = toggleRotation
			}
		case toggleRotation:
			if toggled {
				state = giveUp
				continue
			}
			toggled = true
			rotated = !rotated
			r.fontSize = initialSize
			state = tryPlace
		case giveUp:
			return PlacedWord{}, stopped, nil
		}
	}
}

// canShrink reports whether the next smaller font size is still usable.
func (r *layoutRun) canShrink() bool {
	next := r.fontSize - r.opts.FontStep
	return next >= r.opts.MinFontSize && next > 0
}

// commit stamps the glyph at the slot found for its padded box and refreshes
// the summed-area table from the first modified row.
func (r *layoutRun) commit(word WeightedWord, glyph *Glyph, slot image.Point, rotated bool) PlacedWord {
	half := r.opts.Margin / 2
	pw := PlacedWord{
		Text:     word.Text,
		Weight:   word.Weight,
		FontSize: r.fontSize,
		Position: slot.Add(image.Pt(half, half)),
		Rotated:  rotated,
		Glyph:    glyph,
	}
	r.grid.Stamp(pw.Mask(), pw.Position, coverageThreshold)
	r.table.RebuildFrom(r.grid, pw.Position.Y)

	r.Logger.Debug("word placed", "word", pw.Text, "size", pw.FontSize, "x", pw.Position.X, "y", pw.Position.Y, "rotated", rotated)
	return pw
}
