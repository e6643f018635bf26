package imageprocessor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeDownscalesAndReencodes(t *testing.T) {
	p := NewProcessor(80, 100)

	out, err := p.Normalize(bytes.NewReader(pngOf(t, 400, 200)))
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestNormalizeKeepsSmallImages(t *testing.T) {
	p := NewProcessor(0, 0)

	out, err := p.Normalize(bytes.NewReader(pngOf(t, 30, 60)))
	require.NoError(t, err)

	w, h, err := Dimensions(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 30, w)
	assert.Equal(t, 60, h)
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	_, err := NewProcessor(85, 1600).Normalize(strings.NewReader("definitely not an image"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}
