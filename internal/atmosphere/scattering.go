package atmosphere

import "github.com/go-gl/mathgl/mgl64"

// scatterInputs are the read-only textures and parameters shared by the in-scattering passes.
type scatterInputs struct {
	atm             Atmosphere
	transmittance   *Texture
	multiscattering *Texture // nil or all zeros disables the multiple scattering term
	lights          []DirectionalLight
}

// multiscatteringAt reads psi_ms for (r, mu_light) from the LUT.
func (in *scatterInputs) multiscatteringAt(r, muLight Real) RGB {
	if in.multiscattering == nil {
		return RGB{}
	}
	u, v := RMuToMultiscatteringUV(in.atm, r, muLight)
	psi, _ := in.multiscattering.Sample2D(u, v)
	return psi
}

// inscattering is the radiance scattered towards -viewDir per unit length at pos (km, planet
// centered): single Rayleigh + Mie scattering of every light, attenuated by the transmittance to
// the light and zeroed in the planet shadow, plus the multiple scattering approximation.
func (in *scatterInputs) inscattering(pos, viewDir mgl64.Vec3, s Sample) RGB {
	r := pos.Len()
	if r < eps {
		return RGB{}
	}
	up := pos.Mul(1 / r)
	scattering := s.Scattering()
	var L RGB
	for _, light := range in.lights {
		muLight := clampCos(up.Dot(light.Direction))
		cosTheta := clampCos(viewDir.Dot(light.Direction))

		toLight := sunTransmittance(in.atm, in.transmittance, r, muLight)
		single := s.RayleighScattering.Scale(RayleighPhase(cosTheta)).
			Add(s.MieScattering.Scale(HenyeyGreensteinPhase(cosTheta, in.atm.MieAsymmetry))).
			Mul(toLight)
		multiple := in.multiscatteringAt(r, muLight).Mul(scattering)

		L = L.Add(single.Add(multiple).Mul(light.Illuminance))
	}
	return L
}

// rayMarch accumulates in-scattered radiance and transmittance front to back along a ray
// from origin (km, planet centered) for tMax km with samples quadrature points.
// It returns the radiance and the throughput at the end of the ray.
func (in *scatterInputs) rayMarch(origin, dir mgl64.Vec3, tMax Real, samples int) (L, T RGB) {
	T = Gray(1)
	if tMax <= 0 || samples < 1 {
		return L, T
	}
	var opticalDepth RGB
	for i := 0; i < samples; i++ {
		t, dt := quadraturePoint(tMax, i, samples)
		pos := origin.Add(dir.Mul(t))
		s := SampleAtmosphere(in.atm, pos.Len()-in.atm.BottomRadius)
		opticalDepth = opticalDepth.Add(s.Extinction.Scale(dt))
		T = opticalDepth.Transmittance()
		L = L.Add(in.inscattering(pos, dir, s).Mul(T).Scale(dt))
	}
	return L.clampRadiance(), T.clamp01()
}
