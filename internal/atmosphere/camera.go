package atmosphere

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera holds the view and projection transforms and their inverses (OpenGL clip conventions).
// Position is in scene units; the scene is y-up with the ground plane at y = 0 above the planet center.
type Camera struct {
	Position      mgl64.Vec3
	View          mgl64.Mat4
	Projection    mgl64.Mat4
	InvView       mgl64.Mat4
	InvProjection mgl64.Mat4
	InvViewProj   mgl64.Mat4
	Near, Far     Real
}

// NewPerspectiveCamera builds a look-at camera with a vertical field of view in degrees.
func NewPerspectiveCamera(eye, target, up mgl64.Vec3, fovYDeg, aspect, near, far Real) (Camera, error) {
	if !(fovYDeg > 0 && fovYDeg < 180) {
		return Camera{}, fmt.Errorf("fovY must be in (0, 180) degrees, got %.6g", fovYDeg)
	}
	if !(aspect > 0) || !isFinite(aspect) {
		return Camera{}, fmt.Errorf("aspect must be finite and > 0, got %.6g", aspect)
	}
	if !(near > 0) || !(far > near) || !isFinite(far) {
		return Camera{}, fmt.Errorf("need 0 < near < far, got near=%.6g far=%.6g", near, far)
	}
	if eye.Sub(target).Len() < eps {
		return Camera{}, errors.New("camera eye and target must differ")
	}
	if up.Len() < eps || eye.Sub(target).Normalize().Cross(up.Normalize()).Len() < eps {
		return Camera{}, errors.New("camera up vector must be non-zero and not parallel to the view direction")
	}
	view := mgl64.LookAtV(eye, target, up)
	proj := mgl64.Perspective(mgl64.DegToRad(fovYDeg), aspect, near, far)
	cam, err := NewCameraFromMatrices(view, proj)
	if err != nil {
		return Camera{}, err
	}
	cam.Near, cam.Far = near, far
	return cam, nil
}

// NewCameraFromMatrices derives the inverses and the eye position from view and projection matrices.
func NewCameraFromMatrices(view, proj mgl64.Mat4) (Camera, error) {
	if d := view.Det(); math.Abs(d) < eps || !isFinite(d) {
		return Camera{}, fmt.Errorf("view matrix is singular (det=%.6g)", d)
	}
	if d := proj.Det(); math.Abs(d) < eps*eps || !isFinite(d) {
		return Camera{}, fmt.Errorf("projection matrix is singular (det=%.6g)", d)
	}
	invView := view.Inv()
	invProj := proj.Inv()
	cam := Camera{
		Position:      invView.Col(3).Vec3(),
		View:          view,
		Projection:    proj,
		InvView:       invView,
		InvProjection: invProj,
		InvViewProj:   proj.Mul4(view).Inv(),
	}
	DebugLog("Created camera at %v", cam.Position)
	return cam, nil
}

// Forward is the unit view direction (view space -z) in world space.
func (c Camera) Forward() mgl64.Vec3 {
	return c.InvView.Col(2).Vec3().Mul(-1).Normalize()
}

// RayDirection returns the unit world-space direction through a point in normalized device
// coordinates, obtained by unprojecting it onto the near plane.
func (c Camera) RayDirection(ndcX, ndcY Real) mgl64.Vec3 {
	p := c.InvViewProj.Mul4x1(mgl64.Vec4{ndcX, ndcY, -1, 1})
	w := p[3]
	if math.Abs(w) < eps {
		w = eps
	}
	d := p.Vec3().Mul(1 / w).Sub(c.Position)
	if d.Len() < eps {
		return c.Forward()
	}
	return d.Normalize()
}

// planetPosition converts a scene position into km relative to the planet center,
// kept strictly inside the atmosphere shell.
func planetPosition(atm Atmosphere, scenePos mgl64.Vec3, unitsToKm Real) mgl64.Vec3 {
	p := mgl64.Vec3{
		scenePos[0] * unitsToKm,
		atm.BottomRadius + scenePos[1]*unitsToKm,
		scenePos[2] * unitsToKm,
	}
	r := p.Len()
	if r < eps {
		return mgl64.Vec3{0, atm.BottomRadius + groundBump, 0}
	}
	clamped := clamp(r, atm.BottomRadius+groundBump, atm.TopRadius-groundBump)
	if clamped != r {
		p = p.Mul(clamped / r)
	}
	return p
}
