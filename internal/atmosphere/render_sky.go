package atmosphere

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// LUTs is the output of one frame. Textures are read-only once returned.
type LUTs struct {
	Transmittance   *Texture
	Multiscattering *Texture
	SkyView         *Texture
	AerialView      *Texture

	// inputs the tables were computed for, needed to decode them
	Frame Frame
}

// Textures returns the four LUTs in pass order.
func (l *LUTs) Textures() []*Texture {
	return []*Texture{l.Transmittance, l.Multiscattering, l.SkyView, l.AerialView}
}

// Transmittance between the camera and the atmosphere boundary along dir (world space).
func (l *LUTs) TransmittanceAlong(dir mgl64.Vec3) RGB {
	atm := l.Frame.Atmosphere
	p := planetPosition(atm, l.Frame.Camera.Position, l.Frame.Settings.SceneUnitsToKm)
	r := p.Len()
	mu := clampCos(p.Mul(1 / r).Dot(dir.Normalize()))
	return SampleTransmittanceLUT(atm, l.Transmittance, r, mu)
}

// SkyRadiance is the radiance of the sky seen from the camera along dir (world space),
// read from the sky-view LUT. The planet shows as the below-horizon half.
func (l *LUTs) SkyRadiance(dir mgl64.Vec3) RGB {
	atm := l.Frame.Atmosphere
	p := planetPosition(atm, l.Frame.Camera.Position, l.Frame.Settings.SceneUnitsToKm)
	r := p.Len()
	frame := newSkyFrame(p.Mul(1/r), l.Frame.Lights)
	viewZenithCos, lightViewCos := frame.zenithAzimuth(dir.Normalize())
	u, v := ZenithAzimuthToSkyViewUV(atm, r, viewZenithCos, lightViewCos)
	L, _ := l.SkyView.Sample2D(u, v)
	return L
}

// SunDisk returns the radiance added for a direction inside the angular radius (radians)
// of one of the lights: illuminance spread over the disk, attenuated along the path.
func (l *LUTs) SunDisk(dir mgl64.Vec3, angularRadius Real) RGB {
	if !(angularRadius > 0) {
		return RGB{}
	}
	cosRadius := math.Cos(angularRadius)
	solidAngle := 2 * math.Pi * (1 - cosRadius)
	d := dir.Normalize()
	var L RGB
	for _, light := range l.Frame.Lights {
		if d.Dot(light.Direction) >= cosRadius {
			L = L.Add(light.Illuminance.Scale(1 / solidAngle).Mul(l.TransmittanceAlong(d)))
		}
	}
	return L.clampRadiance()
}

// AerialPerspective returns the in-scattered radiance and mean transmittance between the camera
// and a point at screen coordinates (u, v) in [0,1]² and view depth in scene units.
func (l *LUTs) AerialPerspective(u, v, viewDepth Real) (inscatter RGB, T Real) {
	s := l.Frame.Settings
	depth := s.AerialViewLUTSize.Depth
	// slice z holds the far edge (z+1)*maxDistance/depth at texel center (z+0.5)/depth
	w := viewDepth/s.AerialViewLUTMaxDistance - 0.5/Real(depth)
	if first := TexelCenter(0, depth); w < first {
		// closer than the first slice: fade it linearly towards the camera
		f := clamp(viewDepth/AerialSliceDepth(1, depth, s.AerialViewLUTMaxDistance), 0, 1)
		L, t := l.AerialView.Sample3D(u, v, first)
		return L.Scale(f), 1 - f*(1-t)
	}
	return l.AerialView.Sample3D(u, v, w)
}

// Composite applies aerial perspective to a surface color.
func Composite(color, inscatter RGB, T Real) RGB {
	return color.Scale(clamp(T, 0, 1)).Add(inscatter).clampRadiance()
}
