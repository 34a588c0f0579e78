package wordcloud

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFaceDetector_InvalidCascade(t *testing.T) {
	_, err := NewFaceDetector([]byte("not a cascade"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "facefinder")
	assert.NoError(t, os.WriteFile(path, []byte{0x01, 0x02}, 0644))
	_, err = LoadFaceDetector(path)
	assert.Error(t, err)
}

func TestFaceDetector_MissingFile(t *testing.T) {
	_, err := LoadFaceDetector(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestProcessor_CanvasMissingCascade(t *testing.T) {
	dir := t.TempDir()
	mask := filepath.Join(dir, "mask.png")
	f, err := os.Create(mask)
	assert.NoError(t, err)
	assert.NoError(t, encodeImg(f, squareMask(20, 4)))
	assert.NoError(t, f.Close())

	p := testProcessor()
	p.MaskPath = mask
	c, err := p.Canvas()
	assert.NoError(t, err)
	assert.Equal(t, 160, c.Width)
	assert.NotNil(t, c.Shape)

	p.CascadePath = filepath.Join(dir, "missing")
	_, err = p.Canvas()
	assert.Error(t, err)
}
