package wordcloud

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func discShape(size, radius int) *image.Gray {
	shape := image.NewGray(image.Rect(0, 0, size, size))
	c := size / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x-c)*(x-c)+(y-c)*(y-c) <= radius*radius {
				shape.Pix[y*shape.Stride+x] = 0xff
			}
		}
	}
	return shape
}

func TestContour_OutlinesTheShape(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	img := Contour(discShape(40, 12), 1, red)

	assert.Equal(t, red, img.NRGBAAt(20+12, 20))
	assert.Equal(t, red, img.NRGBAAt(20, 20-12))
	// Away from the edge nothing is drawn.
	assert.Zero(t, img.NRGBAAt(20, 20).A)
	assert.Zero(t, img.NRGBAAt(1, 1).A)
}

func TestContour_WidthThickensTheOutline(t *testing.T) {
	shape := discShape(60, 18)
	count := func(img *image.NRGBA) int {
		var n int
		for i := 3; i < len(img.Pix); i += 4 {
			if img.Pix[i] != 0 {
				n++
			}
		}
		return n
	}

	thin := count(Contour(shape, 1, color.Black))
	thick := count(Contour(shape, 6, color.Black))
	assert.Greater(t, thin, 0)
	assert.Greater(t, thick, thin)
}

func TestContour_FullCanvasHasNoOutline(t *testing.T) {
	shape := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range shape.Pix {
		shape.Pix[i] = 0xff
	}
	img := Contour(shape, 3, color.Black)
	for i := 3; i < len(img.Pix); i += 4 {
		assert.Zero(t, img.Pix[i])
	}
}

func TestContour_ZeroWidth(t *testing.T) {
	img := Contour(discShape(20, 5), 0, color.Black)
	assert.Equal(t, image.Rect(0, 0, 20, 20), img.Bounds())
	for i := 3; i < len(img.Pix); i += 4 {
		assert.Zero(t, img.Pix[i])
	}
}
