package atmosphere

import "math"

// Sample holds the local optical coefficients at one altitude (km^-1).
type Sample struct {
	RayleighScattering RGB
	MieScattering      RGB
	MieAbsorption      RGB
	OzoneAbsorption    RGB
	// Extinction = RayleighScattering + MieScattering + MieAbsorption + OzoneAbsorption.
	Extinction RGB
}

// Scattering is the total (Rayleigh + Mie) scattering coefficient.
func (s Sample) Scattering() RGB { return s.RayleighScattering.Add(s.MieScattering) }

// SampleAtmosphere evaluates the medium at altitude km above the ground.
// Any altitude is accepted; far outside the shell the densities simply decay towards zero.
func SampleAtmosphere(atm Atmosphere, altitude Real) Sample {
	rayleighDensity := math.Exp(atm.RayleighDensityExpScale * altitude)
	mieDensity := math.Exp(atm.MieDensityExpScale * altitude)
	ozoneDensity := ozoneTent(atm, altitude)

	s := Sample{
		RayleighScattering: atm.RayleighScattering.Scale(rayleighDensity),
		MieScattering:      Gray(atm.MieScattering * mieDensity),
		MieAbsorption:      Gray(atm.MieAbsorption * mieDensity),
		OzoneAbsorption:    atm.OzoneAbsorption.Scale(ozoneDensity),
	}
	s.Extinction = s.RayleighScattering.Add(s.MieScattering).Add(s.MieAbsorption).Add(s.OzoneAbsorption)
	return s
}

// ozoneTent is 1 at the layer center and falls linearly to 0 at center ± half width.
func ozoneTent(atm Atmosphere, altitude Real) Real {
	return math.Max(0, 1-math.Abs(altitude-atm.OzoneLayerCenterAltitude)/atm.OzoneLayerHalfWidth)
}
