package atmosphere

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rampTexture(w, h, d int) *Texture {
	t := NewTexture3D("ramp", w, h, d)
	for z := 0; z < d; z++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				t.Store(x, y, z, RGB{Real(x), Real(y), Real(z)}, Real(x+y+z))
			}
		}
	}
	return t
}

func TestTextureLayout(t *testing.T) {
	tex := NewTexture3D("t", 3, 2, 4)
	assert.Equal(t, 3*2*4*Channels, len(tex.Pix))
	assert.Equal(t, 24, tex.Texels())
	assert.True(t, tex.Is3D())
	assert.False(t, NewTexture2D("t2", 3, 2).Is3D())

	tex.Store(2, 1, 3, RGB{1, 2, 3}, 4)
	base := 3*tex.StrideZ + 1*tex.StrideY + 2*Channels
	assert.Equal(t, []float32{1, 2, 3, 4}, tex.Pix[base:base+4])
	rgb, a := tex.Load(2, 1, 3)
	assert.Equal(t, RGB{1, 2, 3}, rgb)
	assert.Equal(t, 4.0, a)

	assert.Equal(t, 0.0, tex.SliceMax(2))
	assert.Panics(t, func() { NewTexture2D("bad", 0, 1) })
}

func TestSampleAtTexelCentersIsExact(t *testing.T) {
	tex := rampTexture(5, 4, 3)
	for z := 0; z < 3; z++ {
		for y := 0; y < 4; y++ {
			for x := 0; x < 5; x++ {
				rgb, a := tex.Sample3D(TexelCenter(x, 5), TexelCenter(y, 4), TexelCenter(z, 3))
				assert.InDelta(t, Real(x), rgb.R, 1e-6)
				assert.InDelta(t, Real(y), rgb.G, 1e-6)
				assert.InDelta(t, Real(z), rgb.B, 1e-6)
				assert.InDelta(t, Real(x+y+z), a, 1e-5)
			}
		}
	}
}

func TestBilinearInterpolation(t *testing.T) {
	tex := rampTexture(4, 4, 1)
	// halfway between texels 1 and 2 on x, a quarter of the way from 0 to 1 on y
	u := (TexelCenter(1, 4) + TexelCenter(2, 4)) / 2
	v := TexelCenter(0, 4) + 0.25/4
	rgb, _ := tex.Sample2D(u, v)
	assert.InDelta(t, 1.5, rgb.R, 1e-6)
	assert.InDelta(t, 0.25, rgb.G, 1e-6)
}

func TestSamplingClampsToEdge(t *testing.T) {
	tex := rampTexture(4, 4, 2)
	rgb, _ := tex.Sample2D(0, 0)
	assert.Equal(t, RGB{}, rgb)
	rgb, _ = tex.Sample2D(-3, 7)
	assert.Equal(t, RGB{0, 3, 0}, rgb)
	rgb, _ = tex.Sample3D(1, 1, 1)
	assert.Equal(t, RGB{3, 3, 1}, rgb)
	rgb, _ = tex.Sample3D(0.5, 0.5, -1)
	assert.InDelta(t, 0, rgb.B, 1e-9)
}

func TestHalfPrecisionStorage(t *testing.T) {
	tex := NewTexture2D("h", 1, 1)
	tex.Half = true
	tex.Store(0, 0, 0, RGB{1.0 / 3, 0.5, 70000}, 1)
	rgb, a := tex.Load(0, 0, 0)
	assert.InDelta(t, 1.0/3, rgb.R, 1e-3)
	assert.NotEqual(t, float32(1.0/3), tex.Pix[ChR])
	assert.Equal(t, 0.5, rgb.G)
	assert.Equal(t, 1.0, a)
	// out of half range
	assert.True(t, rgb.B > 65504)
}

func TestSliceMax(t *testing.T) {
	tex := rampTexture(3, 2, 2)
	require.Equal(t, 2.0, tex.SliceMax(0))
	require.Equal(t, 2.0, tex.SliceMax(1))
	tex.Store(1, 1, 1, RGB{0, 9, 0}, 0)
	assert.Equal(t, 9.0, tex.SliceMax(1))
}
