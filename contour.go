package wordcloud

import (
	"image"
	"image/color"
	"math"
)

type kernel [3][3]int32

var (
	kernelX = kernel{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}

	kernelY = kernel{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// Contour draws the outline of the silhouette with the given stroke width.
// The outline is obtained by running a Sobel filter over the shape,
// then thickened with a stack blur when the width is larger than one pixel.
func Contour(shape *image.Gray, width int, col color.Color) *image.NRGBA {
	b := shape.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if width <= 0 {
		return dst
	}

	edges := sobel(shape)
	if width > 1 {
		stackblur(edges, width/2)
	}

	c := color.NRGBAModel.Convert(col).(color.NRGBA)
	for i, v := range edges.Pix {
		if v == 0 {
			continue
		}
		di := i * 4
		dst.Pix[di+0] = c.R
		dst.Pix[di+1] = c.G
		dst.Pix[di+2] = c.B
		dst.Pix[di+3] = c.A
	}
	return dst
}

// sobel detects the edges of a single channel image.
// See https://en.wikipedia.org/wiki/Sobel_operator
func sobel(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dx, dy := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, dx, dy))

	// Pixels outside of the image are replicated from the closest edge,
	// so the border of a full canvas does not produce an outline.
	at := func(x, y int) int32 {
		x = min(max(x, 0), dx-1)
		y = min(max(y, 0), dy-1)
		return int32(src.Pix[src.PixOffset(b.Min.X+x, b.Min.Y+y)])
	}

	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			var sumX, sumY int32
			for ky := 0; ky < 3; ky++ {
				for kx := 0; kx < 3; kx++ {
					px := at(x+kx-1, y+ky-1)
					sumX += px * kernelX[ky][kx]
					sumY += px * kernelY[ky][kx]
				}
			}
			magnitude := math.Sqrt(float64(sumX*sumX) + float64(sumY*sumY))
			dst.Pix[y*dst.Stride+x] = uint8(min(magnitude, 255))
		}
	}
	return dst
}

type blurstack struct {
	v    uint64
	next *blurstack
}

// stackblur blurs a single channel image in place, first horizontally then vertically.
// Based on the Stack Blur algorithm of Mario Klingemann.
func stackblur(img *image.Gray, radius int) {
	radius = min(max(radius, 1), len(mulTable)-1)
	width, height := img.Bounds().Dx(), img.Bounds().Dy()

	div := radius + radius + 1
	radiusPlus1 := radius + 1
	sumFactor := uint64(radiusPlus1 * (radiusPlus1 + 1) / 2)

	stackStart := &blurstack{}
	stack := stackStart
	var stackEnd *blurstack
	for i := 1; i < div; i++ {
		stack.next = &blurstack{}
		stack = stack.next
		if i == radiusPlus1 {
			stackEnd = stack
		}
	}
	stack.next = stackStart

	mulSum := mulTable[radius]
	shgSum := shgTable[radius]

	// pass blurs a line of n pixels, where idx maps the line position to a Pix offset.
	pass := func(n int, idx func(i int) int) {
		var sum, inSum, outSum uint64

		pv := uint64(img.Pix[idx(0)])
		outSum = uint64(radiusPlus1) * pv
		sum = sumFactor * pv

		stack := stackStart
		for i := 0; i < radiusPlus1; i++ {
			stack.v = pv
			stack = stack.next
		}
		for i := 1; i < radiusPlus1; i++ {
			pv = uint64(img.Pix[idx(min(i, n-1))])
			stack.v = pv
			sum += pv * uint64(radiusPlus1-i)
			inSum += pv
			stack = stack.next
		}

		stackIn, stackOut := stackStart, stackEnd
		for i := 0; i < n; i++ {
			img.Pix[idx(i)] = uint8((sum * mulSum) >> shgSum)

			sum -= outSum
			outSum -= stackIn.v

			stackIn.v = uint64(img.Pix[idx(min(i+radiusPlus1, n-1))])
			inSum += stackIn.v
			sum += inSum
			stackIn = stackIn.next

			pv = stackOut.v
			outSum += pv
			inSum -= pv
			stackOut = stackOut.next
		}
	}

	for y := 0; y < height; y++ {
		row := y * img.Stride
		pass(width, func(i int) int { return row + i })
	}
	for x := 0; x < width; x++ {
		pass(height, func(i int) int { return i*img.Stride + x })
	}
}

var mulTable = [...]uint64{
	512, 512, 456, 512, 328, 456, 335, 512, 405, 328, 271, 456, 388, 335, 292, 512,
	454, 405, 364, 328, 298, 271, 496, 456, 420, 388, 360, 335, 312, 292, 273, 512,
	482, 454, 428, 405, 383, 364, 345, 328, 312, 298, 284, 271, 259, 496, 475, 456,
	437, 420, 404, 388, 374, 360, 347, 335, 323, 312, 302, 292, 282, 273, 265, 512,
	497, 482, 468, 454, 441, 428, 417, 405, 394, 383, 373, 364, 354, 345, 337, 328,
	320, 312, 305, 298, 291, 284, 278, 271, 265, 259, 507, 496, 485, 475, 465, 456,
	446, 437, 428, 420, 412, 404, 396, 388, 381, 374, 367, 360, 354, 347, 341, 335,
	329, 323, 318, 312, 307, 302, 297, 292, 287, 282, 278, 273, 269, 265, 261, 512,
	505, 497, 489, 482, 475, 468, 461, 454, 447, 441, 435, 428, 422, 417, 411, 405,
	399, 394, 389, 383, 378, 373, 368, 364, 359, 354, 350, 345, 341, 337, 332, 328,
	324, 320, 316, 312, 309, 305, 301, 298, 294, 291, 287, 284, 281, 278, 274, 271,
	268, 265, 262, 259, 257, 507, 501, 496, 491, 485, 480, 475, 470, 465, 460, 456,
	451, 446, 442, 437, 433, 428, 424, 420, 416, 412, 408, 404, 400, 396, 392, 388,
	385, 381, 377, 374, 370, 367, 363, 360, 357, 354, 350, 347, 344, 341, 338, 335,
	332, 329, 326, 323, 320, 318, 315, 312, 310, 307, 304, 302, 299, 297, 294, 292,
	289, 287, 285, 282, 280, 278, 275, 273, 271, 269, 267, 265, 263, 261, 259,
}

var shgTable = [...]uint64{
	9, 11, 12, 13, 13, 14, 14, 15, 15, 15, 15, 16, 16, 16, 16, 17,
	17, 17, 17, 17, 17, 17, 18, 18, 18, 18, 18, 18, 18, 18, 18, 19,
	19, 19, 19, 19, 19, 19, 19, 19, 19, 19, 19, 19, 19, 20, 20, 20,
	20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 21,
	21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21,
	21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 22, 22, 22, 22, 22, 22,
	22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22,
	22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 23,
	23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23,
	23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23,
	23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23,
	23, 23, 23, 23, 23, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24,
	24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24,
	24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24,
	24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24,
	24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24,
}
