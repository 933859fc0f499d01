package atmosphere

import (
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToneMap(t *testing.T) {
	assert.Equal(t, 0.0, toneMap(-1, 1, 2.2))
	assert.Equal(t, 1.0, toneMap(10, 1, 2.2))
	assert.Equal(t, 0.5, toneMap(1, 0.5, 1))
	assert.InDelta(t, 0.7297, toneMap(0.5, 1, 2.2), 1e-4)
	assert.Equal(t, 1.0, sliceScale(NewTexture2D("black", 2, 2), 0))
}

func TestSavePNGSequence16(t *testing.T) {
	tex := rampTexture(4, 3, 12)
	prefix := filepath.Join(t.TempDir(), "pngs", "ramp")
	require.NoError(t, SavePNGSequence16(tex, prefix, 1))

	files, err := filepath.Glob(prefix + "_*.png")
	require.NoError(t, err)
	assert.Len(t, files, 12)

	f, err := os.Open(prefix + "_00.png")
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 3, img.Bounds().Dy())
	// slice 0 peaks at x=3 on every row; y=2 (top row in the image) carries the highest green
	r, g, _, a := img.At(3, 0).RGBA()
	assert.Equal(t, uint32(0xFFFF), r)
	assert.Equal(t, uint32(0xFFFF)*2/3, g)
	assert.Equal(t, uint32(0xFFFF), a)
}

func TestSaveAnimatedGIF(t *testing.T) {
	tex := rampTexture(8, 8, 5)
	path := filepath.Join(t.TempDir(), "gifs", "ramp.gif")
	require.NoError(t, SaveAnimatedGIF(tex, path, 7, 2.2))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	g, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Len(t, g.Image, 5)
	assert.Equal(t, []int{7, 7, 7, 7, 7}, g.Delay)
	assert.Equal(t, 8, g.Config.Width)
}
