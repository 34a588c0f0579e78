package wordcloud

import (
	"image"
	"os"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Glyph is the rasterized geometry of a word at a given font size.
type Glyph struct {
	Text string
	Size float64
	// Bounds is the ink box of the word relative to the pen origin on the baseline.
	Bounds image.Rectangle
	// Advance is the horizontal pen advance of the whole word, in pixels.
	Advance float64
	// Advances holds the pen advance of every rune, kerning with the previous rune included.
	Advances []float64
	// Mask is the coverage of the word, anchored at (0, 0).
	Mask *image.Alpha
}

// Width returns the glyph box width in pixels.
func (g *Glyph) Width() int { return g.Mask.Bounds().Dx() }

// Height returns the glyph box height in pixels.
func (g *Glyph) Height() int { return g.Mask.Bounds().Dy() }

// Metrics holds the vertical font metrics at a given size, in pixels.
type Metrics struct {
	Ascent  float64
	Descent float64
	Height  float64
	LineGap float64
}

// FontProvider rasterizes words. Implementations must be safe for concurrent use.
type FontProvider interface {
	Glyph(text string, size float64) (*Glyph, error)
	Metrics(size float64) (Metrics, error)
}

// OpenTypeFont is a FontProvider backed by a TrueType or OpenType font.
type OpenTypeFont struct {
	font *opentype.Font
}

// NewOpenTypeFont parses the font data.
func NewOpenTypeFont(data []byte) (*OpenTypeFont, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse font")
	}
	return &OpenTypeFont{font: f}, nil
}

// LoadFont reads and parses a font file.
func LoadFont(path string) (*OpenTypeFont, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read the font file %q", path)
	}
	return NewOpenTypeFont(data)
}

// DefaultFont returns the Go Regular font.
func DefaultFont() *OpenTypeFont {
	f, err := NewOpenTypeFont(goregular.TTF)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *OpenTypeFont) face(size float64) (font.Face, error) {
	if size <= 0 {
		return nil, errors.Errorf("invalid font size %v", size)
	}
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create font face")
	}
	return face, nil
}

// Metrics returns the vertical metrics of the font at the provided pixel size.
func (f *OpenTypeFont) Metrics(size float64) (Metrics, error) {
	face, err := f.face(size)
	if err != nil {
		return Metrics{}, err
	}
	defer face.Close()

	m := face.Metrics()
	return Metrics{
		Ascent:  fixedToFloat64(m.Ascent),
		Descent: fixedToFloat64(m.Descent),
		Height:  fixedToFloat64(m.Height),
		LineGap: fixedToFloat64(m.Height - m.Ascent - m.Descent),
	}, nil
}

// Glyph lays out the text on a single line and rasterizes its coverage.
func (f *OpenTypeFont) Glyph(text string, size float64) (*Glyph, error) {
	face, err := f.face(size)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	advances := make([]float64, 0, utf8.RuneCountInString(text))
	prev := rune(-1)
	for _, r := range text {
		adv, _ := face.GlyphAdvance(r)
		if prev >= 0 {
			adv += face.Kern(prev, r)
		}
		advances = append(advances, fixedToFloat64(adv))
		prev = r
	}

	bounds, advance := font.BoundString(face, text)
	rect := image.Rect(
		bounds.Min.X.Floor(), bounds.Min.Y.Floor(),
		bounds.Max.X.Ceil(), bounds.Max.Y.Ceil(),
	)
	// Whitespace only words have no ink, but still need a box.
	if rect.Empty() {
		rect = image.Rect(0, -max(int(size), 1), max(advance.Ceil(), 1), 0)
	}

	mask := image.NewAlpha(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	d := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(-rect.Min.X, -rect.Min.Y),
	}
	d.DrawString(text)

	return &Glyph{
		Text:     text,
		Size:     size,
		Bounds:   rect,
		Advance:  fixedToFloat64(advance),
		Advances: advances,
		Mask:     mask,
	}, nil
}

// fixedToFloat64 converts fixed.Int26_6 to float64.
func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}
