// Package imop implements the Porter-Duff composition operations and the
// separable blend modes used for mixing the word layer with a background image.
// The image/draw core package only provides the source and source-over-destination
// operators, this package covers the rest of them.
package imop

import (
	"github.com/esimov/wordcloud/utils"
	"github.com/pkg/errors"
)

const (
	Normal   = "normal"
	Darken   = "darken"
	Lighten  = "lighten"
	Multiply = "multiply"
	Screen   = "screen"
	Overlay  = "overlay"
)

// BlendModes lists the supported blend modes.
var BlendModes = []string{Normal, Darken, Lighten, Multiply, Screen, Overlay}

// Blend holds the currently active blend mode.
type Blend struct {
	OpType string
}

// NewBlend initializes a new Blend using the normal mode.
func NewBlend() *Blend {
	return &Blend{}
}

// Set activates one of the supported blend modes.
func (o *Blend) Set(opType string) error {
	if !utils.Contains(BlendModes, opType) {
		return errors.Errorf("unsupported blend mode: %q", opType)
	}
	o.OpType = opType
	return nil
}

// Get returns the currently active blend mode.
func (o *Blend) Get() string {
	if len(o.OpType) > 0 {
		return o.OpType
	}
	return Normal
}

// mix applies the blend function on a single normalized channel,
// where cb is the backdrop and cs the source value.
func (o *Blend) mix(cb, cs float64) float64 {
	switch o.Get() {
	case Darken:
		return utils.Min(cb, cs)
	case Lighten:
		return utils.Max(cb, cs)
	case Multiply:
		return cb * cs
	case Screen:
		return screen(cb, cs)
	case Overlay:
		if cb <= 0.5 {
			return 2 * cb * cs
		}
		return screen(cs, 2*cb-1)
	}
	return cs
}

func screen(cb, cs float64) float64 {
	return cb + cs - cb*cs
}
