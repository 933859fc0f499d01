package atmosphere

import (
	"path/filepath"
	"testing"

	"github.com/mrjoshuak/go-openexr/exr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEXRAtlasLayout(t *testing.T) {
	tex := rampTexture(3, 2, 4)
	img := tex.EXRImage()
	assert.Equal(t, 12, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())

	// texel (1, 0, 2) lands in slice 2's column block, on the bottom row
	r, g, b, a := img.RGBA(2*3+1, 1)
	assert.Equal(t, []float32{1, 0, 2, 3}, []float32{r, g, b, a})
}

func TestSaveEXR(t *testing.T) {
	tex := rampTexture(4, 3, 2)
	path := filepath.Join(t.TempDir(), "exr", "ramp.exr")
	require.NoError(t, tex.SaveEXR(path))

	img, err := exr.DecodeFile(path)
	require.NoError(t, err)
	require.Equal(t, 8, img.Bounds().Dx())
	require.Equal(t, 3, img.Bounds().Dy())
	for z := 0; z < tex.Depth; z++ {
		for y := 0; y < tex.Height; y++ {
			for x := 0; x < tex.Width; x++ {
				r, g, b, _ := img.RGBA(z*tex.Width+x, tex.Height-1-y)
				want, _ := tex.Load(x, y, z)
				assert.InDelta(t, want.R, float64(r), 1e-3)
				assert.InDelta(t, want.G, float64(g), 1e-3)
				assert.InDelta(t, want.B, float64(b), 1e-3)
			}
		}
	}
}
