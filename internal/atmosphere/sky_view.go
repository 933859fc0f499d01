package atmosphere

import (
	"context"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// skyFrame is the tangent frame at the camera used by the sky-view LUT:
// z is the local up, x points to the horizontal projection of the primary light.
type skyFrame struct {
	up, x, y mgl64.Vec3
}

func newSkyFrame(up mgl64.Vec3, lights []DirectionalLight) skyFrame {
	ref := mgl64.Vec3{1, 0, 0}
	if len(lights) > 0 {
		ref = lights[0].Direction
	}
	h := ref.Sub(up.Mul(up.Dot(ref)))
	if h.Len() < 1e-6 {
		// light at the zenith: any horizontal axis works
		h = mgl64.Vec3{1, 0, 0}
		if math.Abs(up[0]) > 0.9 {
			h = mgl64.Vec3{0, 0, 1}
		}
		h = h.Sub(up.Mul(up.Dot(h)))
	}
	x := h.Normalize()
	return skyFrame{up: up, x: x, y: up.Cross(x)}
}

// local expresses a world direction in the frame (x, y, up).
func (f skyFrame) local(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.Dot(f.x), v.Dot(f.y), v.Dot(f.up)}
}

// zenithAzimuth returns the zenith cosine of a world direction and the cosine of its azimuth
// measured from the primary light.
func (f skyFrame) zenithAzimuth(dir mgl64.Vec3) (viewZenithCos, lightViewCos Real) {
	l := f.local(dir)
	viewZenithCos = clampCos(l[2])
	hl := math.Hypot(l[0], l[1])
	if hl < eps {
		return viewZenithCos, 1
	}
	return viewZenithCos, clampCos(l[0] / hl)
}

// ComputeSkyViewLUT fills the sky-view texture for the camera altitude: u covers the azimuth
// relative to the primary light, v the view zenith angle (horizon at v = 0.5).
func ComputeSkyViewLUT(ctx context.Context, atm Atmosphere, settings Settings, cam Camera, lights []DirectionalLight, transmittance, multiscattering *Texture) (*Texture, error) {
	start := time.Now()
	sz := settings.SkyViewLUTSize
	lut := NewTexture2D("sky_view_lut", sz.Width, sz.Height)
	lut.Half = settings.HalfPrecision

	camPos := planetPosition(atm, cam.Position, settings.SceneUnitsToKm)
	r := camPos.Len()
	frame := newSkyFrame(camPos.Mul(1/r), lights)
	// the pass works in the local frame with the camera at (0, 0, r)
	local := make([]DirectionalLight, len(lights))
	for i, l := range lights {
		local[i] = DirectionalLight{Direction: frame.local(l.Direction), Illuminance: l.Illuminance}
	}
	in := &scatterInputs{atm: atm, transmittance: transmittance, multiscattering: multiscattering, lights: local}
	origin := mgl64.Vec3{0, 0, r}

	err := dispatch2D(ctx, workerCount(settings), sz.Width, sz.Height, func(x, y int) {
		viewZenithCos, lightViewCos := SkyViewUVToZenithAzimuth(atm, r, TexelCenter(x, sz.Width), TexelCenter(y, sz.Height))
		sinZenith := safeSqrt(1 - viewZenithCos*viewZenithCos)
		sinAzimuth := safeSqrt(1 - lightViewCos*lightViewCos)
		dir := mgl64.Vec3{sinZenith * lightViewCos, sinZenith * sinAzimuth, viewZenithCos}
		tMax := distanceToNearestBoundary(atm, r, viewZenithCos)
		L, T := in.rayMarch(origin, dir, tMax, settings.SkyViewLUTSamples)
		lut.Store(x, y, 0, L, T.Mean())
	})
	if err != nil {
		return nil, err
	}
	logPass(lut.Label, Computed, lut.Texels(), time.Since(start))
	return lut, nil
}
