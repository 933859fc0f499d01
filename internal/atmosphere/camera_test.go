package atmosphere

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertComponentsInDelta compares vectors and matrices per component with an absolute tolerance.
func assertComponentsInDelta(t *testing.T, want, got []Real, delta Real) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v", i, got)
	}
}

func TestPerspectiveCamera(t *testing.T) {
	cam := testCamera(t)
	assertComponentsInDelta(t, []Real{0, 200, 0}, cam.Position[:], 1e-9)
	fwd := cam.Forward()
	assertComponentsInDelta(t, []Real{0, 0, -1}, fwd[:], 1e-9)

	center := cam.RayDirection(0, 0)
	assertComponentsInDelta(t, []Real{0, 0, -1}, center[:], 1e-9)
	assert.InDelta(t, 1, center.Len(), 1e-12)

	right := cam.RayDirection(1, 0)
	assert.Greater(t, right[0], 0.0)
	top := cam.RayDirection(0, 1)
	assert.Greater(t, top[1], 0.0)
	// half the vertical field of view at the top edge
	assert.InDelta(t, 0.5, top[1], 1e-9) // sin(30°)
}

func TestCameraErrors(t *testing.T) {
	eye, target, up := mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 1, -1}, mgl64.Vec3{0, 1, 0}
	_, err := NewPerspectiveCamera(eye, target, up, 0, 1, 0.1, 10)
	assert.Error(t, err)
	_, err = NewPerspectiveCamera(eye, target, up, 60, 0, 0.1, 10)
	assert.Error(t, err)
	_, err = NewPerspectiveCamera(eye, target, up, 60, 1, 1, 0.5)
	assert.Error(t, err)
	_, err = NewPerspectiveCamera(eye, eye, up, 60, 1, 0.1, 10)
	assert.Error(t, err)
	_, err = NewPerspectiveCamera(eye, target, mgl64.Vec3{0, 0, -1}, 60, 1, 0.1, 10)
	assert.Error(t, err)
	_, err = NewCameraFromMatrices(mgl64.Mat4{}, mgl64.Ident4())
	assert.Error(t, err)
}

func TestCameraFromMatricesMatchesLookAt(t *testing.T) {
	cam := testCamera(t)
	again, err := NewCameraFromMatrices(cam.View, cam.Projection)
	require.NoError(t, err)
	assertComponentsInDelta(t, cam.Position[:], again.Position[:], 1e-9)
	assertComponentsInDelta(t, cam.InvViewProj[:], again.InvViewProj[:], 1e-9)
}

func TestPlanetPosition(t *testing.T) {
	atm := EarthAtmosphere()
	p := planetPosition(atm, mgl64.Vec3{0, 1000, 0}, 1e-3)
	assert.InDelta(t, atm.BottomRadius+1, p.Len(), 1e-9)
	// below the ground and above the top are pulled back inside the shell
	assert.InDelta(t, atm.BottomRadius+groundBump, planetPosition(atm, mgl64.Vec3{0, -50, 0}, 1e-3).Len(), 1e-9)
	assert.InDelta(t, atm.TopRadius-groundBump, planetPosition(atm, mgl64.Vec3{0, 1e6, 0}, 1e-3).Len(), 1e-9)
}

func TestDirectionalLight(t *testing.T) {
	l, err := NewDirectionalLight(mgl64.Vec3{0, 3, 4}, Gray(2))
	require.NoError(t, err)
	assert.InDelta(t, 1, l.Direction.Len(), 1e-12)
	assert.InDelta(t, 0.6, l.Direction[1], 1e-12)

	_, err = NewDirectionalLight(mgl64.Vec3{}, Gray(1))
	assert.Error(t, err)
	_, err = NewDirectionalLight(mgl64.Vec3{0, 1, 0}, RGB{1, -1, 1})
	assert.Error(t, err)

	sun, err := NewSunLight(90, 0, Gray(1))
	require.NoError(t, err)
	// cos(90°) is not exactly zero in floating point
	assertComponentsInDelta(t, []Real{0, 1, 0}, sun.Direction[:], 1e-12)
	horizon, err := NewSunLight(0, 0, Gray(1))
	require.NoError(t, err)
	assertComponentsInDelta(t, []Real{0, 0, -1}, horizon.Direction[:], 1e-12)
}
