package wordcloud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFont_Glyph(t *testing.T) {
	assert := assert.New(t)
	f := DefaultFont()

	g, err := f.Glyph("Hello", 32)
	require.NoError(t, err)

	assert.Equal("Hello", g.Text)
	assert.Equal(32.0, g.Size)
	assert.Len(g.Advances, 5)
	assert.Equal(g.Bounds.Dx(), g.Width())
	assert.Equal(g.Bounds.Dy(), g.Height())
	assert.Greater(g.Width(), 0)
	assert.Greater(g.Height(), 0)
	assert.Less(g.Height(), 64)

	// Some pixels are covered, some are not.
	var covered, blank int
	for _, a := range g.Mask.Pix {
		if a >= coverageThreshold {
			covered++
		} else {
			blank++
		}
	}
	assert.Greater(covered, 0)
	assert.Greater(blank, 0)
}

func TestFont_GlyphGrowsWithSize(t *testing.T) {
	f := DefaultFont()

	small, err := f.Glyph("word", 12)
	require.NoError(t, err)
	large, err := f.Glyph("word", 48)
	require.NoError(t, err)

	assert.Greater(t, large.Width(), small.Width())
	assert.Greater(t, large.Height(), small.Height())
	assert.Greater(t, large.Advance, small.Advance)
}

func TestFont_WhitespaceHasABox(t *testing.T) {
	g, err := DefaultFont().Glyph(" ", 20)
	require.NoError(t, err)
	assert.Greater(t, g.Width(), 0)
	assert.Greater(t, g.Height(), 0)
}

func TestFont_Metrics(t *testing.T) {
	m, err := DefaultFont().Metrics(20)
	require.NoError(t, err)
	assert.Greater(t, m.Ascent, 0.0)
	assert.Greater(t, m.Height, m.Ascent)
}

func TestFont_InvalidData(t *testing.T) {
	_, err := NewOpenTypeFont([]byte("not a font"))
	assert.Error(t, err)

	_, err = LoadFont("testdata/missing.ttf")
	assert.Error(t, err)
}
