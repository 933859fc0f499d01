package atmosphere

import (
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"math"
	"os"
	"path/filepath"
)

// SaveAnimatedGIF writes a GIF with one frame per depth slice (near to far for the aerial-view LUT).
// delay is in 100ths of a second. Each frame is normalized on its own and gamma encoded.
func SaveAnimatedGIF(t *Texture, path string, delay int, gamma Real) error {
	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, t.Depth),
		Delay:     make([]int, 0, t.Depth),
		LoopCount: 0,
	}
	rgba := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
	toByte := func(v, scale Real) uint8 {
		return uint8(math.Round(toneMap(v, scale, gamma) * 255))
	}

	for z := 0; z < t.Depth; z++ {
		if z%max(1, t.Depth/10) == 0 {
			DebugLog("[GIF] %s %.2f%%", t.Label, Real(z+1)*100/Real(t.Depth))
		}
		scale := sliceScale(t, z)

		// flip Y so up is up
		for j := 0; j < t.Height; j++ {
			rowOff := (t.Height - 1 - j) * rgba.Stride
			for i := 0; i < t.Width; i++ {
				base := t.idx(i, j, z, ChR)
				p := rowOff + i*4
				rgba.Pix[p+0] = toByte(Real(t.Pix[base+ChR]), scale)
				rgba.Pix[p+1] = toByte(Real(t.Pix[base+ChG]), scale)
				rgba.Pix[p+2] = toByte(Real(t.Pix[base+ChB]), scale)
				rgba.Pix[p+3] = 255
			}
		}

		pimg := image.NewPaletted(rgba.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pimg, pimg.Bounds(), rgba, image.Point{})

		out.Image = append(out.Image, pimg)
		out.Delay = append(out.Delay, delay)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, out)
}
