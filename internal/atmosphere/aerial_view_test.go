package atmosphere

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCamera(t *testing.T) Camera {
	t.Helper()
	cam, err := NewPerspectiveCamera(
		mgl64.Vec3{0, 200, 0}, mgl64.Vec3{0, 200, -1000}, mgl64.Vec3{0, 1, 0},
		60, 16.0/9.0, 0.1, AerialViewLUTMaxDistance)
	require.NoError(t, err)
	return cam
}

func testLights(t *testing.T) []DirectionalLight {
	t.Helper()
	sun, err := NewSunLight(20, 10, Gray(1))
	require.NoError(t, err)
	return []DirectionalLight{sun}
}

func TestAerialColumnMonotoneOpticalDepth(t *testing.T) {
	atm := EarthAtmosphere()
	s := smallSettings()
	s.AerialViewLUTSize.Depth = 24
	tlut, err := ComputeTransmittanceLUT(context.Background(), atm, s)
	require.NoError(t, err)
	in := &scatterInputs{atm: atm, transmittance: tlut, lights: testLights(t)}
	origin := planetPosition(atm, mgl64.Vec3{0, 200, 0}, s.SceneUnitsToKm)

	for _, dir := range []mgl64.Vec3{
		{0, 0, -1},
		mgl64.Vec3{0.3, 0.2, -1}.Normalize(),
		mgl64.Vec3{-0.5, 0.9, -0.2}.Normalize(),
		mgl64.Vec3{0.1, -0.02, -1}.Normalize(),
	} {
		voxels := in.marchAerialColumn(origin, dir, 0.8, s)
		require.Len(t, voxels, 24)
		for k := 1; k < len(voxels); k++ {
			prev, cur := voxels[k-1], voxels[k]
			assert.GreaterOrEqual(t, cur.OpticalDepth.R, prev.OpticalDepth.R, "dir %v slice %d", dir, k)
			assert.GreaterOrEqual(t, cur.OpticalDepth.G, prev.OpticalDepth.G, "dir %v slice %d", dir, k)
			assert.GreaterOrEqual(t, cur.OpticalDepth.B, prev.OpticalDepth.B, "dir %v slice %d", dir, k)
			assert.LessOrEqual(t, cur.T.G, prev.T.G, "dir %v slice %d", dir, k)
			assert.GreaterOrEqual(t, cur.L.B, prev.L.B, "dir %v slice %d", dir, k)
		}
		assert.Greater(t, voxels[0].OpticalDepth.B, 0.0)
	}
}

func TestAerialColumnStopsAtGround(t *testing.T) {
	atm := EarthAtmosphere()
	s := smallSettings()
	tlut, err := ComputeTransmittanceLUT(context.Background(), atm, s)
	require.NoError(t, err)
	in := &scatterInputs{atm: atm, transmittance: tlut, lights: testLights(t)}
	origin := planetPosition(atm, mgl64.Vec3{0, 10, 0}, s.SceneUnitsToKm)

	voxels := in.marchAerialColumn(origin, mgl64.Vec3{0, -1, 0}, 1, s)
	last := voxels[len(voxels)-1]
	for _, v := range voxels {
		assert.True(t, v.L.IsFinite())
		assert.Equal(t, last.OpticalDepth, v.OpticalDepth)
	}
}

func TestAerialViewLUTSingleScatteringOnly(t *testing.T) {
	atm := EarthAtmosphere()
	s := smallSettings()
	s.MultiscatteringLUTDirs = 0
	ctx := context.Background()
	tlut, err := ComputeTransmittanceLUT(ctx, atm, s)
	require.NoError(t, err)
	ms, err := ComputeMultiscatteringLUT(ctx, atm, s, tlut)
	require.NoError(t, err)

	lut, err := ComputeAerialViewLUT(ctx, atm, s, testCamera(t), testLights(t), tlut, ms)
	require.NoError(t, err)
	require.True(t, lut.Is3D())
	require.Equal(t, s.AerialViewLUTSize.Depth, lut.Depth)
	for z := 0; z < lut.Depth; z++ {
		for y := 0; y < lut.Height; y++ {
			for x := 0; x < lut.Width; x++ {
				L, T := lut.Load(x, y, z)
				require.True(t, L.IsFinite() && isFinite(T), "voxel (%d, %d, %d)", x, y, z)
				require.True(t, L.NonNegative(), "voxel (%d, %d, %d) = %+v", x, y, z, L)
				require.True(t, T >= 0 && T <= 1, "voxel (%d, %d, %d) T=%v", x, y, z, T)
			}
		}
	}
	assert.Greater(t, lut.SliceMax(lut.Depth-1), 0.0)
}

func TestAerialViewMultiscatteringAddsLight(t *testing.T) {
	atm := EarthAtmosphere()
	s := smallSettings()
	ctx := context.Background()
	cam, lights := testCamera(t), testLights(t)
	tlut, err := ComputeTransmittanceLUT(ctx, atm, s)
	require.NoError(t, err)
	ms, err := ComputeMultiscatteringLUT(ctx, atm, s, tlut)
	require.NoError(t, err)

	with, err := ComputeAerialViewLUT(ctx, atm, s, cam, lights, tlut, ms)
	require.NoError(t, err)
	without, err := ComputeAerialViewLUT(ctx, atm, s, cam, lights, tlut, nil)
	require.NoError(t, err)
	for i := range with.Pix {
		if i%Channels == ChA {
			assert.Equal(t, without.Pix[i], with.Pix[i])
			continue
		}
		assert.GreaterOrEqual(t, with.Pix[i], without.Pix[i])
	}
}
