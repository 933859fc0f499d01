package atmosphere

import (
	"context"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// aerialVoxel is the state of a froxel column after its slice has been integrated.
type aerialVoxel struct {
	L            RGB // in-scattered radiance between the camera and the far edge of the slice
	T            RGB // transmittance over the same segment
	OpticalDepth RGB
}

// marchAerialColumn integrates one froxel column front to back: slices are uniform in view depth
// up to maxDistance, each split into samples sub-steps. cosView is dot(dir, forward) and turns
// view depth into distance along the ray. Once the ray enters the ground, later slices repeat
// the last value.
func (in *scatterInputs) marchAerialColumn(origin, dir mgl64.Vec3, cosView Real, settings Settings) []aerialVoxel {
	depth := settings.AerialViewLUTSize.Depth
	samples := settings.AerialViewLUTSamples
	out := make([]aerialVoxel, depth)
	if cosView < eps {
		cosView = eps
	}
	sliceDepth := settings.AerialViewLUTMaxDistance / Real(depth)
	step := sliceDepth / Real(samples) / cosView * settings.SceneUnitsToKm // km per sub-step

	var L, opticalDepth RGB
	T := Gray(1)
	underground := false
	for slice := 0; slice < depth; slice++ {
		for j := 0; j < samples && !underground; j++ {
			t := (AerialSliceDepth(Real(slice), depth, settings.AerialViewLUTMaxDistance)/cosView)*settings.SceneUnitsToKm +
				(Real(j)+0.5)*step
			pos := origin.Add(dir.Mul(t))
			altitude := pos.Len() - in.atm.BottomRadius
			if altitude < 0 {
				underground = true
				break
			}
			s := SampleAtmosphere(in.atm, altitude)
			opticalDepth = opticalDepth.Add(s.Extinction.Scale(step))
			T = opticalDepth.Transmittance()
			L = L.Add(in.inscattering(pos, dir, s).Mul(T).Scale(step))
		}
		out[slice] = aerialVoxel{L: L.clampRadiance(), T: T.clamp01(), OpticalDepth: opticalDepth}
	}
	return out
}

// ComputeAerialViewLUT fills the camera-aligned froxel volume (x, y over the screen, z over view
// depth). Each column is one invocation; its slices are integrated sequentially. Voxels store
// the in-scattered radiance and the mean transmittance.
func ComputeAerialViewLUT(ctx context.Context, atm Atmosphere, settings Settings, cam Camera, lights []DirectionalLight, transmittance, multiscattering *Texture) (*Texture, error) {
	start := time.Now()
	sz := settings.AerialViewLUTSize
	lut := NewTexture3D("aerial_view_lut", sz.Width, sz.Height, sz.Depth)
	lut.Half = settings.HalfPrecision

	in := &scatterInputs{atm: atm, transmittance: transmittance, multiscattering: multiscattering, lights: lights}
	origin := planetPosition(atm, cam.Position, settings.SceneUnitsToKm)
	forward := cam.Forward()

	err := dispatch2D(ctx, workerCount(settings), sz.Width, sz.Height, func(x, y int) {
		ndcX := 2*TexelCenter(x, sz.Width) - 1
		ndcY := 2*TexelCenter(y, sz.Height) - 1
		dir := cam.RayDirection(ndcX, ndcY)
		cosView := math.Max(dir.Dot(forward), 0)
		for z, v := range in.marchAerialColumn(origin, dir, cosView, settings) {
			lut.Store(x, y, z, v.L, v.T.Mean())
		}
	})
	if err != nil {
		return nil, err
	}
	logPass(lut.Label, Computed, lut.Texels(), time.Since(start))
	return lut, nil
}
