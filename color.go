package wordcloud

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorFunc returns the color of a placed word. It is called once per word,
// in placement order, after the layout has been completed.
type ColorFunc func(word PlacedWord, index int, rng Rand) color.Color

// RandomColor picks a random hue at 80% saturation and 50% lightness.
func RandomColor(_ PlacedWord, _ int, rng Rand) color.Color {
	return colorful.Hsl(float64(rng.Intn(256))*360/256, 0.8, 0.5).Clamped()
}

// SingleColor returns a ColorFunc using the hue and saturation of c
// with a random lightness, so that the words remain distinguishable.
func SingleColor(c color.Color) ColorFunc {
	base, ok := colorful.MakeColor(c)
	if !ok {
		base = colorful.Color{}
	}
	h, s, _ := base.Hsv()
	return func(_ PlacedWord, _ int, rng Rand) color.Color {
		v := 0.2 + 0.8*rng.Float64()
		return colorful.Hsv(h, s, v).Clamped()
	}
}

// PaletteColor cycles through the palette by word rank.
func PaletteColor(palette ...color.Color) ColorFunc {
	return func(_ PlacedWord, index int, _ Rand) color.Color {
		if len(palette) == 0 {
			return color.White
		}
		return palette[index%len(palette)]
	}
}

// WeightColor blends between the light and heavy colors by word weight.
func WeightColor(light, heavy color.Color) ColorFunc {
	l, _ := colorful.MakeColor(light)
	h, _ := colorful.MakeColor(heavy)
	return func(word PlacedWord, _ int, _ Rand) color.Color {
		return l.BlendLab(h, word.Weight).Clamped()
	}
}
