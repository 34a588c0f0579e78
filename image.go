package wordcloud

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/esimov/wordcloud/utils"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"

	_ "image/gif"
)

// SupportedExtensions lists the output image formats.
var SupportedExtensions = []string{".png", ".jpg", ".jpeg", ".bmp"}

// decodeImg decodes an image file to type image.Image.
func decodeImg(src string) (image.Image, error) {
	ctype, err := utils.DetectContentType(src)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open the image file %q", src)
	}
	if !strings.Contains(ctype, "image") {
		return nil, errors.Errorf("%q should be an image file", src)
	}

	file, err := os.Open(src)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open the image file %q", src)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, errors.Wrapf(err, "could not decode the image file %q", src)
	}
	return img, nil
}

// encodeImg encodes an image to a destination of type io.Writer.
// The format is deduced from the file extension; anything else is encoded as PNG.
func encodeImg(w io.Writer, img image.Image) error {
	ext := ".png"
	if f, ok := w.(*os.File); ok && filepath.Ext(f.Name()) != "" {
		ext = strings.ToLower(filepath.Ext(f.Name()))
	}

	switch ext {
	case ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	case ".bmp":
		return bmp.Encode(w, img)
	}
	return errors.Errorf("unsupported image format: %s", ext)
}

// rotateAlpha90 rotates the coverage mask by 90 degree counter clockwise.
func rotateAlpha90(src *image.Alpha) *image.Alpha {
	b := src.Bounds()
	dst := image.NewAlpha(image.Rect(0, 0, b.Dy(), b.Dx()))
	for dstY := 0; dstY < b.Dx(); dstY++ {
		for dstX := 0; dstX < b.Dy(); dstX++ {
			srcX := b.Max.X - dstY - 1
			srcY := b.Min.Y + dstX
			dst.Pix[dstY*dst.Stride+dstX] = src.Pix[src.PixOffset(srcX, srcY)]
		}
	}
	return dst
}

// nrgbaToGray keeps the luminance of a grayscale *image.NRGBA.
func nrgbaToGray(src *image.NRGBA) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.Pix[y*dst.Stride+x] = src.Pix[src.PixOffset(b.Min.X+x, b.Min.Y+y)]
		}
	}
	return dst
}

// imgToNRGBA converts any image type to *image.NRGBA with min-point at (0, 0).
func imgToNRGBA(img image.Image) *image.NRGBA {
	srcBounds := img.Bounds()
	if srcBounds.Min.X == 0 && srcBounds.Min.Y == 0 {
		if src0, ok := img.(*image.NRGBA); ok {
			return src0
		}
	}
	srcMinX := srcBounds.Min.X
	srcMinY := srcBounds.Min.Y

	dstBounds := srcBounds.Sub(srcBounds.Min)
	dstW := dstBounds.Dx()
	dstH := dstBounds.Dy()
	dst := image.NewNRGBA(dstBounds)

	switch src := img.(type) {
	case *image.NRGBA:
		rowSize := srcBounds.Dx() * 4
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			si := src.PixOffset(srcMinX, srcMinY+dstY)
			copy(dst.Pix[di:di+rowSize], src.Pix[si:si+rowSize])
		}
	case *image.YCbCr:
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			for dstX := 0; dstX < dstW; dstX++ {
				srcX := srcMinX + dstX
				srcY := srcMinY + dstY
				siy := src.YOffset(srcX, srcY)
				sic := src.COffset(srcX, srcY)
				r, g, b := color.YCbCrToRGB(src.Y[siy], src.Cb[sic], src.Cr[sic])
				dst.Pix[di+0] = r
				dst.Pix[di+1] = g
				dst.Pix[di+2] = b
				dst.Pix[di+3] = 0xff
				di += 4
			}
		}
	default:
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			for dstX := 0; dstX < dstW; dstX++ {
				c := color.NRGBAModel.Convert(img.At(srcMinX+dstX, srcMinY+dstY)).(color.NRGBA)
				dst.Pix[di+0] = c.R
				dst.Pix[di+1] = c.G
				dst.Pix[di+2] = c.B
				dst.Pix[di+3] = c.A
				di += 4
			}
		}
	}

	return dst
}
