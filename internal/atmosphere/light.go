package atmosphere

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DirectionalLight is a light at infinity (a sun).
type DirectionalLight struct {
	Direction   mgl64.Vec3 // unit, pointing from the scene towards the light
	Illuminance RGB
}

// NewDirectionalLight validates the illuminance and normalizes the direction.
func NewDirectionalLight(dir mgl64.Vec3, illuminance RGB) (DirectionalLight, error) {
	l := dir.Len()
	if !(l > eps) || !isFinite(l) {
		return DirectionalLight{}, errors.New("light direction must be non-zero and finite")
	}
	if !illuminance.IsFinite() || !illuminance.NonNegative() {
		return DirectionalLight{}, fmt.Errorf("illuminance must be finite and >= 0, got %+v", illuminance)
	}
	L := DirectionalLight{Direction: dir.Mul(1 / l), Illuminance: illuminance}
	DebugLog("Created light %+v", L)
	return L, nil
}

// NewSunLight builds a light from an elevation above the horizon and an azimuth, both in degrees.
// The scene is y-up; azimuth 0 points towards -z.
func NewSunLight(elevationDeg, azimuthDeg Real, illuminance RGB) (DirectionalLight, error) {
	el := mgl64.DegToRad(elevationDeg)
	az := mgl64.DegToRad(azimuthDeg)
	dir := mgl64.Vec3{
		math.Cos(el) * math.Sin(az),
		math.Sin(el),
		-math.Cos(el) * math.Cos(az),
	}
	return NewDirectionalLight(dir, illuminance)
}
