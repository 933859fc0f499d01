package atmosphere

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
)

// toneMap maps a non-negative value to [0,1] with a per-slice scale and display gamma.
func toneMap(v, scale, gamma Real) Real {
	if !(v > 0) {
		return 0
	}
	n := v * scale // ideally in [0,1]
	if n > 1 {
		n = 1
	}
	if gamma != 1 {
		n = math.Pow(n, 1.0/gamma)
	}
	return n
}

// sliceScale normalizes slice z by its peak channel value.
func sliceScale(t *Texture, z int) Real {
	m := t.SliceMax(z)
	if !(m > 0) || !isFinite(m) {
		return 1 // avoid div-by-zero; the slice will be black
	}
	return 1 / m
}

// SavePNGSequence16 writes one 16-bit PNG per depth slice, prefix_<z>.png (a 2D texture gives one file).
// RGB is normalized per slice and gamma encoded; alpha is opaque. Row 0 of the texture is at the bottom.
func SavePNGSequence16(t *Texture, prefix string, gamma Real) error {
	if err := os.MkdirAll(filepath.Dir(prefix), 0o755); err != nil {
		return err
	}
	toU16 := func(v, scale Real) uint16 {
		x := math.Round(toneMap(v, scale, gamma) * 65535.0)
		if x < 0 {
			return 0
		}
		if x > 65535 {
			return 65535
		}
		return uint16(x)
	}

	// Zero-padding width based on number of slices.
	width := 1
	if t.Depth > 1 {
		width = int(math.Log10(Real(t.Depth-1))) + 1
	}

	for z := 0; z < t.Depth; z++ {
		scale := sliceScale(t, z)

		// flip Y so up is up
		img := image.NewNRGBA64(image.Rect(0, 0, t.Width, t.Height))
		const pxBytes = 8 // 4 channels * 2 bytes/channel
		for j := 0; j < t.Height; j++ {
			rowOff := (t.Height - 1 - j) * img.Stride
			for i := 0; i < t.Width; i++ {
				base := t.idx(i, j, z, ChR)
				r := toU16(Real(t.Pix[base+ChR]), scale)
				g := toU16(Real(t.Pix[base+ChG]), scale)
				b := toU16(Real(t.Pix[base+ChB]), scale)
				a := uint16(0xFFFF)

				p := rowOff + i*pxBytes
				// NRGBA64 stores big-endian uint16 per channel: R,G, B, A.
				img.Pix[p+0] = uint8(r >> 8)
				img.Pix[p+1] = uint8(r)
				img.Pix[p+2] = uint8(g >> 8)
				img.Pix[p+3] = uint8(g)
				img.Pix[p+4] = uint8(b >> 8)
				img.Pix[p+5] = uint8(b)
				img.Pix[p+6] = uint8(a >> 8)
				img.Pix[p+7] = uint8(a)
			}
		}

		full := fmt.Sprintf("%s_%0*d.png", prefix, width, z)
		f, err := os.Create(full)
		if err != nil {
			return err
		}
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(f, img); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	DebugLog("Saved %d PNG slice(s) of %s with prefix %s", t.Depth, t.Label, prefix)
	return nil
}
