package imop

import (
	"image"

	"github.com/esimov/wordcloud/utils"
	"github.com/pkg/errors"
)

const (
	Clear   = "clear"
	Copy    = "copy"
	Dst     = "dst"
	SrcOver = "src_over"
	DstOver = "dst_over"
	SrcIn   = "src_in"
	DstIn   = "dst_in"
	SrcOut  = "src_out"
	DstOut  = "dst_out"
	SrcAtop = "src_atop"
	DstAtop = "dst_atop"
	Xor     = "xor"
)

// Bitmap is the destination of a composition.
type Bitmap struct {
	Img *image.NRGBA
}

// NewBitmap allocates a transparent bitmap.
func NewBitmap(rect image.Rectangle) *Bitmap {
	return &Bitmap{
		Img: image.NewNRGBA(rect),
	}
}

// Composite holds the currently active composition operation.
type Composite struct {
	current string
	ops     []string
}

// InitOp returns a Composite using the source-over operator.
func InitOp() *Composite {
	return &Composite{
		current: SrcOver,
		ops: []string{
			Clear,
			Copy,
			Dst,
			SrcOver,
			DstOver,
			SrcIn,
			DstIn,
			SrcOut,
			DstOut,
			SrcAtop,
			DstAtop,
			Xor,
		},
	}
}

// Set changes the composition operation.
func (op *Composite) Set(cop string) error {
	if !utils.Contains(op.ops, cop) {
		return errors.Errorf("unsupported composite operation: %q", cop)
	}
	op.current = cop
	return nil
}

// Get returns the active composition operation.
func (op *Composite) Get() string {
	return op.current
}

// factors returns the Porter-Duff coefficients of the source and the backdrop.
func (op *Composite) factors(as, ab float64) (fa, fb float64) {
	switch op.current {
	case Clear:
		return 0, 0
	case Copy:
		return 1, 0
	case Dst:
		return 0, 1
	case DstOver:
		return 1 - ab, 1
	case SrcIn:
		return ab, 0
	case DstIn:
		return 0, as
	case SrcOut:
		return 1 - ab, 0
	case DstOut:
		return 0, 1 - as
	case SrcAtop:
		return ab, 1 - as
	case DstAtop:
		return 1 - ab, as
	case Xor:
		return 1 - ab, 1 - as
	}
	return 1, 1 - as
}

// Draw composites the source over the backdrop into the bitmap. Both images
// are read from their origin over the bitmap size. When blend is not nil the
// source colors are first mixed with the backdrop using the blend mode.
func (op *Composite) Draw(bitmap *Bitmap, src, backdrop *image.NRGBA, blend *Blend) {
	if bitmap == nil {
		return
	}
	dst := bitmap.Img
	dx, dy := dst.Bounds().Dx(), dst.Bounds().Dy()

	var s, b [3]float64
	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			si := src.PixOffset(src.Rect.Min.X+x, src.Rect.Min.Y+y)
			bi := backdrop.PixOffset(backdrop.Rect.Min.X+x, backdrop.Rect.Min.Y+y)
			di := dst.PixOffset(dst.Rect.Min.X+x, dst.Rect.Min.Y+y)

			as := float64(src.Pix[si+3]) / 255
			ab := float64(backdrop.Pix[bi+3]) / 255
			for c := 0; c < 3; c++ {
				s[c] = float64(src.Pix[si+c]) / 255
				b[c] = float64(backdrop.Pix[bi+c]) / 255
				if blend != nil {
					s[c] = (1-ab)*s[c] + ab*blend.mix(b[c], s[c])
				}
			}

			fa, fb := op.factors(as, ab)
			ao := fa*as + fb*ab
			if ao <= 0 {
				dst.Pix[di+0], dst.Pix[di+1], dst.Pix[di+2], dst.Pix[di+3] = 0, 0, 0, 0
				continue
			}
			for c := 0; c < 3; c++ {
				co := fa*as*s[c] + fb*ab*b[c]
				dst.Pix[di+c] = toUint8(co / ao)
			}
			dst.Pix[di+3] = toUint8(ao)
		}
	}
}

func toUint8(v float64) uint8 {
	return uint8(utils.Clamp(v, 0, 1)*255 + 0.5)
}
