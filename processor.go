package wordcloud

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/esimov/wordcloud/imop"
	"github.com/esimov/wordcloud/utils"
	"github.com/pkg/errors"
)

// Color modes supported by the processor.
const (
	ColorRandom  = "random"
	ColorSingle  = "single"
	ColorPalette = "palette"
	ColorWeight  = "weight"
)

// Processor options
type Processor struct {
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	Scale  float64 `toml:"scale"`

	Pattern        string   `toml:"pattern"`
	Stopwords      []string `toml:"stopwords"`
	NoStopwords    bool     `toml:"no-stopwords"`
	MinWordLength  int      `toml:"min-word-length"`
	IncludeNumbers bool     `toml:"include-numbers"`
	MaxWords       int      `toml:"max-words"`
	Repeat         bool     `toml:"repeat"`

	MinFontSize     float64 `toml:"min-font-size"`
	MaxFontSize     float64 `toml:"max-font-size"`
	FontStep        float64 `toml:"font-step"`
	Margin          int     `toml:"margin"`
	RotateProb      float64 `toml:"rotate-prob"`
	RelativeScaling float64 `toml:"relative-scaling"`
	SearchWorkers   int     `toml:"search-workers"`
	Seed            int64   `toml:"seed"`
	FontPath        string  `toml:"font"`

	MaskPath      string `toml:"mask"`
	MaskThreshold int    `toml:"mask-threshold"`
	InvertMask    bool   `toml:"invert-mask"`
	CascadePath   string `toml:"cascade"`

	Background      string   `toml:"background"`
	ColorMode       string   `toml:"color-mode"`
	Colors          []string `toml:"colors"`
	ContourWidth    int      `toml:"contour-width"`
	ContourColor    string   `toml:"contour-color"`
	BackgroundImage string   `toml:"background-image"`
	BlendMode       string   `toml:"blend-mode"`

	Logger  *log.Logger    `toml:"-"`
	Spinner *utils.Spinner `toml:"-"`
}

// DefaultProcessor returns a processor generating a 400x200 word cloud.
func DefaultProcessor() *Processor {
	layout := DefaultLayoutOptions()
	return &Processor{
		Width:           400,
		Height:          200,
		Scale:           1,
		Pattern:         DefaultPattern,
		MaxWords:        DefaultMaxWords,
		MinFontSize:     layout.MinFontSize,
		FontStep:        layout.FontStep,
		Margin:          layout.Margin,
		RotateProb:      layout.RotateProb,
		RelativeScaling: layout.RelativeScaling,
		MaskThreshold:   DefaultMaskThreshold,
		Background:      "#000000",
		ColorMode:       ColorRandom,
		ContourColor:    "#000000",
	}
}

// Validate checks every option and returns the first configuration error.
func (p *Processor) Validate() error {
	if p.MaskPath == "" && (p.Width <= 0 || p.Height <= 0) {
		return configErrorf("canvas size", "%dx%d", p.Width, p.Height)
	}
	if p.Width < 0 || p.Height < 0 {
		return configErrorf("canvas size", "%dx%d", p.Width, p.Height)
	}
	if p.Scale <= 0 {
		return configErrorf("scale", "%v should be positive", p.Scale)
	}
	// Zero would turn every opaque mask pixel blank.
	if p.MaskThreshold < 1 || p.MaskThreshold > 255 {
		return configErrorf("mask threshold", "%d is outside of [1, 255]", p.MaskThreshold)
	}
	if p.ContourWidth < 0 {
		return configErrorf("contour width", "%d is negative", p.ContourWidth)
	}
	if p.SearchWorkers < 0 {
		return configErrorf("search workers", "%d is negative", p.SearchWorkers)
	}
	if _, err := NewTokenizer(p.tokenizerOptions()); err != nil {
		return err
	}
	if err := p.layoutOptions().Validate(); err != nil {
		return err
	}
	if _, err := p.colorFunc(); err != nil {
		return err
	}
	for field, hex := range map[string]string{"background": p.Background, "contour color": p.ContourColor} {
		if _, err := parseColor(field, hex); err != nil {
			return err
		}
	}
	if p.BlendMode != "" && !utils.Contains(imop.BlendModes, p.BlendMode) {
		return configErrorf("blend mode", "%q is not supported", p.BlendMode)
	}
	return nil
}

func (p *Processor) logger() *log.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return log.Default()
}

func (p *Processor) tokenizerOptions() TokenizerOptions {
	opts := TokenizerOptions{
		Pattern:        p.Pattern,
		Stopwords:      p.Stopwords,
		MinWordLength:  p.MinWordLength,
		IncludeNumbers: p.IncludeNumbers,
		MaxWords:       p.MaxWords,
		Repeat:         p.Repeat,
	}
	if len(opts.Stopwords) == 0 {
		opts.Stopwords = DefaultStopwords
	}
	if p.NoStopwords {
		opts.Stopwords = nil
	}
	return opts
}

func (p *Processor) layoutOptions() LayoutOptions {
	return LayoutOptions{
		MinFontSize:     p.MinFontSize,
		MaxFontSize:     p.MaxFontSize,
		FontStep:        p.FontStep,
		Margin:          p.Margin,
		RotateProb:      p.RotateProb,
		RelativeScaling: p.RelativeScaling,
		Repeat:          p.Repeat,
		Workers:         p.SearchWorkers,
	}
}

// parseColor converts a hex color. An empty string means transparent and returns nil.
func parseColor(field, hex string) (color.Color, error) {
	if hex == "" {
		return nil, nil
	}
	c, err := utils.HexToRGBA(hex)
	if err != nil {
		return nil, configErrorf(field, "%v", err)
	}
	return c, nil
}

// colorFunc builds the word coloring function out of the color mode and the color list.
func (p *Processor) colorFunc() (ColorFunc, error) {
	colors := make([]color.Color, 0, len(p.Colors))
	for _, hex := range p.Colors {
		c, err := parseColor("colors", hex)
		if err != nil {
			return nil, err
		}
		if c != nil {
			colors = append(colors, c)
		}
	}

	switch p.ColorMode {
	case "", ColorRandom:
		return RandomColor, nil
	case ColorSingle:
		if len(colors) < 1 {
			return nil, configErrorf("colors", "the %s color mode needs one color", p.ColorMode)
		}
		return SingleColor(colors[0]), nil
	case ColorPalette:
		if len(colors) < 1 {
			return nil, configErrorf("colors", "the %s color mode needs at least one color", p.ColorMode)
		}
		return PaletteColor(colors...), nil
	case ColorWeight:
		if len(colors) < 2 {
			return nil, configErrorf("colors", "the %s color mode needs two colors", p.ColorMode)
		}
		return WeightColor(colors[0], colors[1]), nil
	}
	return nil, configErrorf("color mode", "%q is not supported", p.ColorMode)
}

// rng returns the random source of a single run. A zero seed is replaced by the current time.
func (p *Processor) rng() *rand.Rand {
	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// font loads the configured font, or the Go Regular font if none has been set.
func (p *Processor) font() (FontProvider, error) {
	if p.FontPath == "" {
		return DefaultFont(), nil
	}
	return LoadFont(p.FontPath)
}

// loadImage decodes a local or remote image.
func loadImage(path string) (image.Image, error) {
	if utils.IsValidUrl(path) {
		f, err := utils.DownloadFile(path, "image")
		if f != nil {
			defer os.Remove(f.Name())
			defer f.Close()
		}
		if err != nil {
			return nil, err
		}
		path = f.Name()
	}
	return decodeImg(path)
}

// Canvas builds the canvas, shaped after the mask image if one has been set.
// The faces found in the mask are blocked when a cascade file is provided.
func (p *Processor) Canvas() (*Canvas, error) {
	if p.MaskPath == "" {
		return NewCanvas(p.Width, p.Height)
	}

	mask, err := loadImage(p.MaskPath)
	if err != nil {
		return nil, err
	}
	canvas, err := NewMaskCanvas(mask, MaskOptions{
		Width:     p.Width,
		Height:    p.Height,
		Threshold: uint8(p.MaskThreshold),
		Invert:    p.InvertMask,
	})
	if err != nil {
		return nil, err
	}

	if p.CascadePath != "" {
		fd, err := LoadFaceDetector(p.CascadePath)
		if err != nil {
			return nil, err
		}
		faces := fd.Detect(mask)
		b := mask.Bounds()
		for i, r := range faces {
			faces[i] = image.Rect(
				r.Min.X*canvas.Width/b.Dx(), r.Min.Y*canvas.Height/b.Dy(),
				r.Max.X*canvas.Width/b.Dx(), r.Max.Y*canvas.Height/b.Dy(),
			)
		}
		canvas.Block(faces...)
		p.logger().Debug("faces protected", "count", len(faces))
	}
	return canvas, nil
}

// Frequencies returns the normalized word list of the text.
func (p *Processor) Frequencies(text string) ([]WeightedWord, error) {
	t, err := NewTokenizer(p.tokenizerOptions())
	if err != nil {
		return nil, err
	}
	return t.Frequencies(text), nil
}

// Layout places the words of the text on the canvas.
func (p *Processor) Layout(text string, font FontProvider, rng Rand) (*Layout, error) {
	words, err := p.Frequencies(text)
	if err != nil {
		return nil, err
	}
	canvas, err := p.Canvas()
	if err != nil {
		return nil, err
	}
	l, err := NewLayouter(font, p.layoutOptions())
	if err != nil {
		return nil, err
	}
	l.Logger = p.logger()

	layout, err := l.Layout(words, canvas, rng)
	if err != nil {
		return nil, err
	}
	p.logger().Debug("layout completed", "words", len(words), "placed", len(layout.Words))
	return layout, nil
}

// Generate turns the text into a word cloud image.
func (p *Processor) Generate(text string) (*image.NRGBA, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	font, err := p.font()
	if err != nil {
		return nil, err
	}
	rng := p.rng()

	layout, err := p.Layout(text, font, rng)
	if err != nil {
		return nil, err
	}

	opts, err := p.renderOptions()
	if err != nil {
		return nil, err
	}
	r, err := NewRenderer(font, opts)
	if err != nil {
		return nil, err
	}
	return r.Render(layout, rng)
}

func (p *Processor) renderOptions() (RenderOptions, error) {
	opts := RenderOptions{
		Scale:        p.Scale,
		ContourWidth: p.ContourWidth,
		BlendMode:    p.BlendMode,
	}
	var err error
	if opts.Color, err = p.colorFunc(); err != nil {
		return opts, err
	}
	if opts.Background, err = parseColor("background", p.Background); err != nil {
		return opts, err
	}
	if opts.ContourColor, err = parseColor("contour color", p.ContourColor); err != nil {
		return opts, err
	}
	if p.BackgroundImage != "" {
		if opts.BackgroundImage, err = loadImage(p.BackgroundImage); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// Process reads the text from an io.Reader and encodes the word cloud into an io.Writer.
// The output format is deduced from the writer file name, PNG otherwise.
func (p *Processor) Process(r io.Reader, w io.Writer) error {
	text, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "could not read the source text")
	}
	img, err := p.Generate(string(text))
	if err != nil {
		return err
	}
	return encodeImg(w, img)
}

// WriteFrequencies prints the words with their weights as tab separated values.
func WriteFrequencies(w io.Writer, words []WeightedWord) error {
	for _, word := range words {
		if _, err := fmt.Fprintf(w, "%s\t%.4f\n", word.Text, word.Weight); err != nil {
			return errors.Wrap(err, "could not write the word list")
		}
	}
	return nil
}
