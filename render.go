package wordcloud

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/esimov/wordcloud/imop"
	"github.com/esimov/wordcloud/utils"
)

// RenderOptions controls how a layout is turned into an image.
type RenderOptions struct {
	// Scale multiplies the canvas size of the output image. The words are
	// rasterized again at the scaled font size instead of being resampled.
	Scale float64
	// Background is the fill color. Nil means transparent.
	Background color.Color
	// Color assigns the word colors. Nil means RandomColor.
	Color ColorFunc
	// ContourWidth is the stroke width of the mask outline, 0 to disable it.
	ContourWidth int
	// ContourColor is the outline color.
	ContourColor color.Color
	// BackgroundImage is resized to fill the output and composited under the words.
	BackgroundImage image.Image
	// BlendMode mixes the words with the background, see the imop package.
	BlendMode string
}

// DefaultRenderOptions returns the render defaults.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Scale:        1,
		Background:   color.Black,
		ContourColor: color.Black,
	}
}

// Renderer rasterizes layouts.
type Renderer struct {
	font  FontProvider
	opts  RenderOptions
	blend *imop.Blend
}

// NewRenderer validates the options and returns a renderer using the font provider.
func NewRenderer(font FontProvider, opts RenderOptions) (*Renderer, error) {
	if font == nil {
		return nil, configErrorf("font", "missing font provider")
	}
	if opts.Scale <= 0 {
		return nil, configErrorf("scale", "%v should be positive", opts.Scale)
	}
	if opts.ContourWidth < 0 {
		return nil, configErrorf("contour width", "%d is negative", opts.ContourWidth)
	}
	if opts.Color == nil {
		opts.Color = RandomColor
	}
	if opts.ContourColor == nil {
		opts.ContourColor = color.Black
	}

	r := &Renderer{font: font, opts: opts}
	if opts.BlendMode != "" {
		r.blend = imop.NewBlend()
		if err := r.blend.Set(opts.BlendMode); err != nil {
			return nil, configErrorf("blend mode", "%q is not supported", opts.BlendMode)
		}
	}
	return r, nil
}

// Render draws the placed words, each one in its own color, then the mask
// outline, and composites the result over the background.
func (r *Renderer) Render(layout *Layout, rng Rand) (*image.NRGBA, error) {
	scale := r.opts.Scale
	width := utils.Max(int(math.Round(float64(layout.Width)*scale)), 1)
	height := utils.Max(int(math.Round(float64(layout.Height)*scale)), 1)
	bounds := image.Rect(0, 0, width, height)

	layer := image.NewNRGBA(bounds)
	for i, word := range layout.Words {
		mask, box, err := r.wordMask(word)
		if err != nil {
			return nil, err
		}
		col := r.opts.Color(word, i, rng)
		box = box.Intersect(bounds)
		draw.DrawMask(layer, box, image.NewUniform(col), image.Point{}, mask, box.Min.Sub(boxOrigin(word, scale)), draw.Over)
	}

	if r.opts.ContourWidth > 0 && layout.Shape != nil {
		shape := layout.Shape
		if scale != 1 {
			shape = nrgbaToGray(imaging.Resize(shape, width, height, imaging.NearestNeighbor))
		}
		stroke := utils.Max(int(math.Round(float64(r.opts.ContourWidth)*scale)), 1)
		contour := Contour(shape, stroke, r.opts.ContourColor)
		draw.Draw(layer, bounds, contour, image.Point{}, draw.Over)
	}

	backdrop := r.backdrop(bounds)
	bmp := imop.NewBitmap(bounds)
	imop.InitOp().Draw(bmp, layer, backdrop, r.blend)
	return bmp.Img, nil
}

// wordMask returns the coverage of the word at the output scale and the box it occupies.
func (r *Renderer) wordMask(word PlacedWord) (*image.Alpha, image.Rectangle, error) {
	scale := r.opts.Scale
	if scale == 1 {
		return word.Mask(), word.Bounds(), nil
	}
	glyph, err := r.font.Glyph(word.Text, word.FontSize*scale)
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	pw := word
	pw.Glyph = glyph
	pw.Position = boxOrigin(word, scale)

	// The scaled glyph can exceed the scaled box by a rounding pixel.
	box := word.Bounds()
	limit := image.Rect(
		int(math.Floor(float64(box.Min.X)*scale)), int(math.Floor(float64(box.Min.Y)*scale)),
		int(math.Ceil(float64(box.Max.X)*scale)), int(math.Ceil(float64(box.Max.Y)*scale)),
	)
	return pw.Mask(), pw.Bounds().Intersect(limit), nil
}

// boxOrigin returns the top-left corner of the word at the output scale.
func boxOrigin(word PlacedWord, scale float64) image.Point {
	return image.Pt(
		int(math.Round(float64(word.Position.X)*scale)),
		int(math.Round(float64(word.Position.Y)*scale)),
	)
}

// backdrop returns the layer the words are composited on.
func (r *Renderer) backdrop(bounds image.Rectangle) *image.NRGBA {
	if r.opts.BackgroundImage != nil {
		return imaging.Fill(r.opts.BackgroundImage, bounds.Dx(), bounds.Dy(), imaging.Center, imaging.Lanczos)
	}
	dst := image.NewNRGBA(bounds)
	if r.opts.Background != nil {
		draw.Draw(dst, bounds, image.NewUniform(r.opts.Background), image.Point{}, draw.Src)
	}
	return dst
}
