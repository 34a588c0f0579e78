package wordcloud

import (
	"image"
	"image/draw"
	"math"
	"math/rand"
	"testing"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boxFont rasterizes every word as a fully covered box, half a font size wide per rune.
type boxFont struct {
	err error
}

func (f boxFont) Glyph(text string, size float64) (*Glyph, error) {
	if f.err != nil {
		return nil, f.err
	}
	w := max(int(math.Ceil(float64(utf8.RuneCountInString(text))*size/2)), 1)
	h := max(int(math.Ceil(size)), 1)
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	draw.Draw(mask, mask.Bounds(), image.Opaque, image.Point{}, draw.Src)
	return &Glyph{
		Text:    text,
		Size:    size,
		Bounds:  image.Rect(0, -h, w, 0),
		Advance: float64(w),
		Mask:    mask,
	}, nil
}

func (f boxFont) Metrics(size float64) (Metrics, error) {
	return Metrics{Ascent: size, Height: size}, nil
}

func newTestLayouter(t *testing.T, opts LayoutOptions) *Layouter {
	t.Helper()
	l, err := NewLayouter(boxFont{}, opts)
	require.NoError(t, err)
	return l
}

func assertNoOverlap(t *testing.T, layout *Layout, canvas *Canvas) {
	t.Helper()
	occupied := canvas.Grid()
	for _, w := range layout.Words {
		b := w.Bounds()
		require.True(t, b.In(image.Rect(0, 0, layout.Width, layout.Height)), "%q out of the canvas: %v", w.Text, b)
		mask := w.Mask()
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				if mask.AlphaAt(x, y).A < coverageThreshold {
					continue
				}
				require.Zero(t, occupied.At(b.Min.X+x, b.Min.Y+y), "%q overlaps at %d,%d", w.Text, b.Min.X+x, b.Min.Y+y)
			}
		}
		occupied.Stamp(mask, b.Min, coverageThreshold)
	}
}

func TestLayout_PlacesWordsWithoutOverlap(t *testing.T) {
	words := []WeightedWord{
		{"alpha", 1}, {"beta", 0.8}, {"gamma", 0.6}, {"delta", 0.5},
		{"epsilon", 0.4}, {"zeta", 0.3}, {"eta", 0.2}, {"theta", 0.1},
	}
	canvas, err := NewCanvas(200, 100)
	require.NoError(t, err)

	opts := DefaultLayoutOptions()
	opts.RotateProb = 0.5
	layout, err := newTestLayouter(t, opts).Layout(words, canvas, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	require.NotEmpty(t, layout.Words)
	assert.Equal(t, 200, layout.Width)
	assert.Equal(t, 100, layout.Height)
	for i, w := range layout.Words {
		assert.Equal(t, words[i].Text, w.Text)
		assert.GreaterOrEqual(t, w.FontSize, opts.MinFontSize)
		if i > 0 {
			assert.LessOrEqual(t, w.FontSize, layout.Words[i-1].FontSize)
		}
	}
	assertNoOverlap(t, layout, canvas)
}

func TestLayout_Idempotent(t *testing.T) {
	words := []WeightedWord{{"one", 1}, {"two", 0.7}, {"three", 0.5}, {"four", 0.2}}
	canvas, err := NewCanvas(120, 80)
	require.NoError(t, err)
	l := newTestLayouter(t, DefaultLayoutOptions())

	a, err := l.Layout(words, canvas, rand.New(rand.NewSource(99)))
	require.NoError(t, err)
	b, err := l.Layout(words, canvas, rand.New(rand.NewSource(99)))
	require.NoError(t, err)

	require.Equal(t, len(a.Words), len(b.Words))
	for i := range a.Words {
		assert.Equal(t, a.Words[i].Text, b.Words[i].Text)
		assert.Equal(t, a.Words[i].Position, b.Words[i].Position)
		assert.Equal(t, a.Words[i].FontSize, b.Words[i].FontSize)
		assert.Equal(t, a.Words[i].Rotated, b.Words[i].Rotated)
	}
	// The canvas is not consumed by a layout.
	assert.Zero(t, canvas.Grid().Occupied())
}

func TestLayout_StopsWhenWordCannotFit(t *testing.T) {
	opts := DefaultLayoutOptions()
	opts.MinFontSize = 10
	opts.RotateProb = 0
	opts.RelativeScaling = 0
	opts.MaxFontSize = 10

	// 30 runes at 10px need 150px, the canvas is 100px wide and high.
	words := []WeightedWord{{"ok", 1}, {"abcdefghijklmnopqrstuvwxyzabcd", 1}, {"no", 1}}
	canvas, err := NewCanvas(100, 100)
	require.NoError(t, err)

	layout, err := newTestLayouter(t, opts).Layout(words, canvas, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, layout.Words, 1)
	assert.Equal(t, "ok", layout.Words[0].Text)
}

func TestLayout_ZeroMinFontSizeStopsWithoutError(t *testing.T) {
	opts := DefaultLayoutOptions()
	opts.MinFontSize = 0
	opts.FontStep = 1
	l, err := NewLayouter(DefaultFont(), opts)
	require.NoError(t, err)

	canvas, err := NewCanvas(40, 20)
	require.NoError(t, err)
	canvas.Block(image.Rect(0, 0, 40, 20))

	layout, err := l.Layout([]WeightedWord{{"word", 1}, {"other", 0.5}}, canvas, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Empty(t, layout.Words)
}

func TestLayout_RotationFallback(t *testing.T) {
	opts := DefaultLayoutOptions()
	opts.MinFontSize = 10
	opts.MaxFontSize = 10
	opts.RotateProb = 0
	opts.Margin = 0

	// 12 runes at 10px need a 60x10 box, only a 12px wide strip is left free.
	canvas, err := NewCanvas(64, 64)
	require.NoError(t, err)
	canvas.Block(image.Rect(12, 0, 64, 64))

	layout, err := newTestLayouter(t, opts).Layout([]WeightedWord{{"verticalword", 1}}, canvas, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, layout.Words, 1)
	assert.True(t, layout.Words[0].Rotated)
	assert.Equal(t, 10.0, layout.Words[0].FontSize)
	assert.Equal(t, image.Pt(10, 60), layout.Words[0].Bounds().Size())
	assert.Less(t, layout.Words[0].Bounds().Max.X, 13)
}

func TestLayout_ShrinksFont(t *testing.T) {
	opts := DefaultLayoutOptions()
	opts.RotateProb = 0
	opts.Margin = 0
	opts.MinFontSize = 4

	canvas, err := NewCanvas(100, 100)
	require.NoError(t, err)

	// The initial size is 95px, a 10 rune word fits at 20px.
	layout, err := newTestLayouter(t, opts).Layout([]WeightedWord{{"shrinkable", 1}}, canvas, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, layout.Words, 1)
	assert.Equal(t, 20.0, layout.Words[0].FontSize)
}

func TestLayout_RelativeScaling(t *testing.T) {
	opts := DefaultLayoutOptions()
	opts.RotateProb = 0
	opts.MaxFontSize = 40
	opts.RelativeScaling = 1

	canvas, err := NewCanvas(400, 400)
	require.NoError(t, err)

	words := []WeightedWord{{"big", 1}, {"half", 0.5}}
	layout, err := newTestLayouter(t, opts).Layout(words, canvas, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	require.Len(t, layout.Words, 2)
	assert.Equal(t, 40.0, layout.Words[0].FontSize)
	assert.Equal(t, 20.0, layout.Words[1].FontSize)

	// Repeated word lists keep the font size.
	opts.Repeat = true
	layout, err = newTestLayouter(t, opts).Layout(words, canvas, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	require.Len(t, layout.Words, 2)
	assert.Equal(t, 40.0, layout.Words[1].FontSize)
}

func TestLayout_ParallelSearch(t *testing.T) {
	words := []WeightedWord{{"one", 1}, {"two", 0.9}, {"three", 0.8}, {"four", 0.7}, {"five", 0.6}}
	canvas, err := NewCanvas(160, 90)
	require.NoError(t, err)

	opts := DefaultLayoutOptions()
	opts.Workers = 4
	layout, err := newTestLayouter(t, opts).Layout(words, canvas, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	assert.NotEmpty(t, layout.Words)
	assertNoOverlap(t, layout, canvas)
}

func TestLayout_EmptyInput(t *testing.T) {
	canvas, err := NewCanvas(50, 50)
	require.NoError(t, err)
	layout, err := newTestLayouter(t, DefaultLayoutOptions()).Layout(nil, canvas, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Empty(t, layout.Words)
}

func TestLayout_FontErrorIsReturned(t *testing.T) {
	boom := errors.New("boom")
	l, err := NewLayouter(boxFont{err: boom}, DefaultLayoutOptions())
	require.NoError(t, err)

	canvas, err := NewCanvas(50, 50)
	require.NoError(t, err)
	_, err = l.Layout([]WeightedWord{{"word", 1}}, canvas, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, boom)
}

func TestLayout_InvalidOptions(t *testing.T) {
	cases := map[string]func(o *LayoutOptions){
		"negative min font size": func(o *LayoutOptions) { o.MinFontSize = -1 },
		"zero font step":         func(o *LayoutOptions) { o.FontStep = 0 },
		"rotate probability":     func(o *LayoutOptions) { o.RotateProb = 1.5 },
		"relative scaling":       func(o *LayoutOptions) { o.RelativeScaling = -0.1 },
		"max below min":          func(o *LayoutOptions) { o.MaxFontSize = 2 },
		"negative margin":        func(o *LayoutOptions) { o.Margin = -2 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			opts := DefaultLayoutOptions()
			mutate(&opts)
			_, err := NewLayouter(boxFont{}, opts)
			assert.True(t, IsConfigError(err))
		})
	}

	_, err := NewLayouter(nil, DefaultLayoutOptions())
	assert.True(t, IsConfigError(err))
}

func TestLayout_MaskCanvas(t *testing.T) {
	// White background with a black disc in the middle.
	mask := image.NewGray(image.Rect(0, 0, 120, 120))
	for y := 0; y < 120; y++ {
		for x := 0; x < 120; x++ {
			dx, dy := float64(x-60), float64(y-60)
			if dx*dx+dy*dy > 50*50 {
				mask.Pix[y*mask.Stride+x] = 0xff
			}
		}
	}
	canvas, err := NewMaskCanvas(mask, MaskOptions{})
	require.NoError(t, err)

	words := []WeightedWord{{"inside", 1}, {"the", 0.8}, {"disc", 0.6}, {"only", 0.4}}
	layout, err := newTestLayouter(t, DefaultLayoutOptions()).Layout(words, canvas, rand.New(rand.NewSource(8)))
	require.NoError(t, err)
	require.NotEmpty(t, layout.Words)
	assert.NotNil(t, layout.Shape)
	assertNoOverlap(t, layout, canvas)
}
