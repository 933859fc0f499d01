package atmosphere

import (
	"image"
	"os"
	"path/filepath"

	"github.com/mrjoshuak/go-openexr/exr"
)

// EXRImage lays the texture out as a float RGBA image. 3D textures become a horizontal atlas:
// slice z occupies columns [z*Width, (z+1)*Width). Rows are flipped so row 0 is at the bottom.
func (t *Texture) EXRImage() *exr.RGBAImage {
	img := exr.NewRGBAImage(image.Rect(0, 0, t.Width*t.Depth, t.Height))
	for z := 0; z < t.Depth; z++ {
		for y := 0; y < t.Height; y++ {
			for x := 0; x < t.Width; x++ {
				base := t.idx(x, y, z, ChR)
				img.SetRGBA(z*t.Width+x, t.Height-1-y,
					t.Pix[base+ChR], t.Pix[base+ChG], t.Pix[base+ChB], t.Pix[base+ChA])
			}
		}
	}
	return img
}

// SaveEXR writes the texture as a half-float (ZIP compressed) OpenEXR file.
func (t *Texture) SaveEXR(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := exr.EncodeFile(path, t.EXRImage()); err != nil {
		return err
	}
	DebugLog("Saved EXR %s (%dx%d) to %s", t.Label, t.Width*t.Depth, t.Height, path)
	return nil
}
