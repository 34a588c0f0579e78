package main

import (
	"slices"

	"github.com/esimov/wordcloud"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// bindFlags registers the processor options on the flag set.
func bindFlags(fs *pflag.FlagSet, p *wordcloud.Processor) {
	fs.IntVar(&p.Width, "width", p.Width, "Canvas width (with a mask, 0 keeps the mask width)")
	fs.IntVar(&p.Height, "height", p.Height, "Canvas height (with a mask, 0 keeps the mask height)")
	fs.Float64Var(&p.Scale, "scale", p.Scale, "Output image scale relative to the canvas")

	fs.StringVar(&p.Pattern, "pattern", p.Pattern, "Regular expression matching a single word")
	fs.StringSliceVar(&p.Stopwords, "stopwords", p.Stopwords, "Words to exclude (default: built-in English list)")
	fs.BoolVar(&p.NoStopwords, "no-stopwords", p.NoStopwords, "Keep every word")
	fs.IntVar(&p.MinWordLength, "min-word-length", p.MinWordLength, "Minimum number of letters of a word")
	fs.BoolVar(&p.IncludeNumbers, "include-numbers", p.IncludeNumbers, "Keep the words made only of digits")
	fs.IntVar(&p.MaxWords, "max-words", p.MaxWords, "Maximum number of scanned words (0 is unlimited)")
	fs.BoolVar(&p.Repeat, "repeat", p.Repeat, "Repeat the words until the maximum number is reached")

	fs.Float64Var(&p.MinFontSize, "min-font-size", p.MinFontSize, "Smallest font size")
	fs.Float64Var(&p.MaxFontSize, "max-font-size", p.MaxFontSize, "Largest font size (0 derives it from the canvas height)")
	fs.Float64Var(&p.FontStep, "font-step", p.FontStep, "Font size decrement when a word does not fit")
	fs.IntVar(&p.Margin, "margin", p.Margin, "Padding around the words")
	fs.Float64Var(&p.RotateProb, "rotate-prob", p.RotateProb, "Probability of a vertical word")
	fs.Float64Var(&p.RelativeScaling, "relative-scaling", p.RelativeScaling, "Influence of the word frequency on the font size")
	fs.IntVar(&p.SearchWorkers, "search-workers", p.SearchWorkers, "Concurrent slot search workers (0 or 1 is sequential)")
	fs.Int64Var(&p.Seed, "seed", p.Seed, "Random seed (0 is time based)")
	fs.StringVar(&p.FontPath, "font", p.FontPath, "TrueType or OpenType font file (default: Go Regular)")

	fs.StringVar(&p.MaskPath, "mask", p.MaskPath, "Mask image file or URL shaping the word cloud")
	fs.IntVar(&p.MaskThreshold, "mask-threshold", p.MaskThreshold, "Luminance (1-255) from which a mask pixel is blank")
	fs.BoolVar(&p.InvertMask, "invert-mask", p.InvertMask, "Draw the words around the mask shape")
	fs.StringVar(&p.CascadePath, "cascade", p.CascadePath, "Pigo cascade file used to keep words off the faces of the mask")

	fs.StringVar(&p.Background, "background", p.Background, "Background color (empty is transparent)")
	fs.StringVar(&p.ColorMode, "color-mode", p.ColorMode, "Word colors: random, single, palette or weight")
	fs.StringSliceVar(&p.Colors, "colors", p.Colors, "Hex colors used by the color mode")
	fs.IntVar(&p.ContourWidth, "contour-width", p.ContourWidth, "Mask outline width")
	fs.StringVar(&p.ContourColor, "contour-color", p.ContourColor, "Mask outline color")
	fs.StringVar(&p.BackgroundImage, "background-image", p.BackgroundImage, "Image file or URL placed under the words")
	fs.StringVar(&p.BlendMode, "blend-mode", p.BlendMode, "Blend mode of the words over the background image")
}

// flagValue is a flag explicitly set on the command line.
type flagValue struct {
	name  string
	value string
	slice []string
}

// applyConfig loads the config file into the processor. The flags set
// on the command line take precedence over the values of the file.
func applyConfig(cmd *cobra.Command, path string, p *wordcloud.Processor) error {
	if path == "" {
		return nil
	}

	var changed []flagValue
	cmd.Flags().Visit(func(f *pflag.Flag) {
		fv := flagValue{name: f.Name, value: f.Value.String()}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			fv.slice = slices.Clone(sv.GetSlice())
		}
		changed = append(changed, fv)
	})

	keys, err := wordcloud.LoadConfig(path, p)
	if err != nil {
		return err
	}
	loggerFromContext(cmd.Context()).Debug("config loaded", "path", path, "keys", len(keys))

	for _, fv := range changed {
		f := cmd.Flags().Lookup(fv.name)
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			if err := sv.Replace(fv.slice); err != nil {
				return errors.Wrapf(err, "could not restore the --%s flag", fv.name)
			}
			continue
		}
		if err := f.Value.Set(fv.value); err != nil {
			return errors.Wrapf(err, "could not restore the --%s flag", fv.name)
		}
	}
	return nil
}
