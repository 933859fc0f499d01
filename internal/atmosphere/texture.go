package atmosphere

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/mrjoshuak/go-openexr/half"
)

// Texture is a 2D or 3D grid of RGBA float texels (Depth == 1 for 2D).
// Pix is flat: ((z*Height)+y)*Width*4 + x*4 + c.
// A texture has exactly one writer (its pass) and is read-only once the pass returns.
type Texture struct {
	Label                string
	Width, Height, Depth int
	Pix                  []float32
	// Half rounds every stored value through IEEE half precision (GPU Rgba16Float).
	Half bool

	StrideY int // y * StrideY + z * StrideZ + x*4 + c
	StrideZ int
}

// NewTexture2D allocates a zero-initialized 2D texture.
func NewTexture2D(label string, w, h int) *Texture {
	return NewTexture3D(label, w, h, 1)
}

// NewTexture3D allocates a zero-initialized 3D texture.
func NewTexture3D(label string, w, h, d int) *Texture {
	if w <= 0 || h <= 0 || d <= 0 {
		panic(fmt.Sprintf("texture %q resolution must be positive, got (%d, %d, %d)", label, w, h, d))
	}
	strideY := w * Channels
	strideZ := h * strideY
	t := &Texture{
		Label:   label,
		Width:   w,
		Height:  h,
		Depth:   d,
		Pix:     make([]float32, strideZ*d),
		StrideY: strideY,
		StrideZ: strideZ,
	}
	DebugLog("Created texture %s resolution=(%d, %d, %d)", label, w, h, d)
	return t
}

// Is3D reports whether the texture has more than one depth slice.
func (t *Texture) Is3D() bool { return t.Depth > 1 }

// Texels is the number of texels (not floats).
func (t *Texture) Texels() int { return t.Width * t.Height * t.Depth }

// Flat buffer index helper (c ∈ {ChR,ChG,ChB,ChA}).
func (t *Texture) idx(x, y, z, c int) int {
	return z*t.StrideZ + y*t.StrideY + x*Channels + c
}

func (t *Texture) quantize(v Real) float32 {
	f := float32(v)
	if t.Half {
		return half.FromFloat32(f).Float32()
	}
	return f
}

// Store writes one texel. Each texel must be written by a single invocation.
func (t *Texture) Store(x, y, z int, rgb RGB, a Real) {
	base := t.idx(x, y, z, ChR)
	t.Pix[base+ChR] = t.quantize(rgb.R)
	t.Pix[base+ChG] = t.quantize(rgb.G)
	t.Pix[base+ChB] = t.quantize(rgb.B)
	t.Pix[base+ChA] = t.quantize(a)
}

// Load reads one texel.
func (t *Texture) Load(x, y, z int) (RGB, Real) {
	base := t.idx(x, y, z, ChR)
	return RGB{Real(t.Pix[base+ChR]), Real(t.Pix[base+ChG]), Real(t.Pix[base+ChB])}, Real(t.Pix[base+ChA])
}

// TexelCenter returns the normalized coordinate of texel i along an axis of n texels.
func TexelCenter(i, n int) Real { return (Real(i) + 0.5) / Real(n) }

// axisTaps converts a normalized coordinate into the two texels and the blend weight used by
// linear filtering with texel centers at (i+0.5)/n and clamp-to-edge addressing.
func axisTaps(u float32, n int) (i0, i1 int, f float32) {
	x := u*float32(n) - 0.5
	fl := math32.Floor(x)
	f = x - fl
	i0 = int(fl)
	i1 = i0 + 1
	if i0 < 0 {
		i0 = 0
	}
	if i1 < 0 {
		i1 = 0
	}
	if i0 > n-1 {
		i0 = n - 1
	}
	if i1 > n-1 {
		i1 = n - 1
	}
	if math32.IsNaN(f) {
		f = 0
	}
	return i0, i1, f
}

func lerp4(a, b [4]float32, f float32) [4]float32 {
	return [4]float32{
		a[0] + (b[0]-a[0])*f,
		a[1] + (b[1]-a[1])*f,
		a[2] + (b[2]-a[2])*f,
		a[3] + (b[3]-a[3])*f,
	}
}

func (t *Texture) fetch(x, y, z int) [4]float32 {
	base := t.idx(x, y, z, ChR)
	return [4]float32{t.Pix[base], t.Pix[base+1], t.Pix[base+2], t.Pix[base+3]}
}

func (t *Texture) bilinear(u, v float32, z int) [4]float32 {
	x0, x1, fx := axisTaps(u, t.Width)
	y0, y1, fy := axisTaps(v, t.Height)
	top := lerp4(t.fetch(x0, y0, z), t.fetch(x1, y0, z), fx)
	bottom := lerp4(t.fetch(x0, y1, z), t.fetch(x1, y1, z), fx)
	return lerp4(top, bottom, fy)
}

// Sample2D filters slice 0 bilinearly at (u, v) in [0,1]², the way a GPU linear sampler with
// clamp-to-edge addressing does.
func (t *Texture) Sample2D(u, v Real) (RGB, Real) {
	p := t.bilinear(float32(u), float32(v), 0)
	return RGB{Real(p[0]), Real(p[1]), Real(p[2])}, Real(p[3])
}

// Sample3D filters trilinearly at (u, v, w) in [0,1]³.
func (t *Texture) Sample3D(u, v, w Real) (RGB, Real) {
	z0, z1, fz := axisTaps(float32(w), t.Depth)
	a := t.bilinear(float32(u), float32(v), z0)
	b := t.bilinear(float32(u), float32(v), z1)
	p := lerp4(a, b, fz)
	return RGB{Real(p[0]), Real(p[1]), Real(p[2])}, Real(p[3])
}

// SliceMax returns the largest RGB channel value in depth slice z.
func (t *Texture) SliceMax(z int) Real {
	m := float32(0)
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			base := t.idx(x, y, z, ChR)
			m = math32.Max(m, math32.Max(t.Pix[base+ChR], math32.Max(t.Pix[base+ChG], t.Pix[base+ChB])))
		}
	}
	return Real(m)
}
