package atmosphere

import (
	"fmt"
	"math"
)

// Atmosphere is the physical description of a planet's atmosphere.
// Lengths are in km, coefficients in km^-1. It is a comparable value type:
// two equal values always produce the same LUTs.
type Atmosphere struct {
	// Radius of the planet.
	BottomRadius Real `json:"bottomRadius" yaml:"bottomRadius" toml:"bottomRadius"`
	// Radius at which the atmosphere ends (from the planet center).
	TopRadius Real `json:"topRadius" yaml:"topRadius" toml:"topRadius"`
	// Lambertian reflectance of the ground, only used by multiscattering.
	GroundAlbedo RGB `json:"groundAlbedo" yaml:"groundAlbedo" toml:"groundAlbedo"`

	RayleighDensityExpScale Real `json:"rayleighDensityExpScale" yaml:"rayleighDensityExpScale" toml:"rayleighDensityExpScale"`
	RayleighScattering      RGB  `json:"rayleighScattering" yaml:"rayleighScattering" toml:"rayleighScattering"`

	MieDensityExpScale Real `json:"mieDensityExpScale" yaml:"mieDensityExpScale" toml:"mieDensityExpScale"`
	MieScattering      Real `json:"mieScattering" yaml:"mieScattering" toml:"mieScattering"`
	MieAbsorption      Real `json:"mieAbsorption" yaml:"mieAbsorption" toml:"mieAbsorption"`
	MieAsymmetry       Real `json:"mieAsymmetry" yaml:"mieAsymmetry" toml:"mieAsymmetry"` // (-1, 1)

	OzoneLayerCenterAltitude Real `json:"ozoneLayerCenterAltitude" yaml:"ozoneLayerCenterAltitude" toml:"ozoneLayerCenterAltitude"`
	OzoneLayerHalfWidth      Real `json:"ozoneLayerHalfWidth" yaml:"ozoneLayerHalfWidth" toml:"ozoneLayerHalfWidth"`
	OzoneAbsorption          RGB  `json:"ozoneAbsorption" yaml:"ozoneAbsorption" toml:"ozoneAbsorption"`
}

// EarthAtmosphere returns the reference Earth-like atmosphere.
func EarthAtmosphere() Atmosphere {
	return Atmosphere{
		BottomRadius:             6360,
		TopRadius:                6460,
		GroundAlbedo:             Gray(0.3),
		RayleighDensityExpScale:  -1.0 / 8.0,
		RayleighScattering:       RGB{0.005802, 0.013558, 0.033100},
		MieDensityExpScale:       -1.0 / 1.2,
		MieScattering:            0.03996,
		MieAbsorption:            0.000444,
		MieAsymmetry:             0.8,
		OzoneLayerCenterAltitude: 25,
		OzoneLayerHalfWidth:      15,
		OzoneAbsorption:          RGB{0.000650, 0.001881, 0.000085},
	}
}

// Thickness is the height of the atmosphere shell.
func (a Atmosphere) Thickness() Real { return a.TopRadius - a.BottomRadius }

// Validate checks the physical invariants of the model.
func (a Atmosphere) Validate() error {
	if !(a.BottomRadius > 0) || !isFinite(a.BottomRadius) {
		return fmt.Errorf("bottomRadius must be > 0, got %.6g", a.BottomRadius)
	}
	if !(a.TopRadius > a.BottomRadius) || !isFinite(a.TopRadius) {
		return fmt.Errorf("topRadius must be > bottomRadius (%.6g), got %.6g", a.BottomRadius, a.TopRadius)
	}
	if !(a.MieAsymmetry > -1 && a.MieAsymmetry < 1) {
		return fmt.Errorf("mieAsymmetry must be in (-1, 1), got %.6g", a.MieAsymmetry)
	}
	if !(a.OzoneLayerHalfWidth > 0) {
		return fmt.Errorf("ozoneLayerHalfWidth must be > 0, got %.6g", a.OzoneLayerHalfWidth)
	}
	type coef struct {
		n string
		v RGB
	}
	for _, c := range []coef{
		{"groundAlbedo", a.GroundAlbedo},
		{"rayleighScattering", a.RayleighScattering},
		{"mieScattering", Gray(a.MieScattering)},
		{"mieAbsorption", Gray(a.MieAbsorption)},
		{"ozoneAbsorption", a.OzoneAbsorption},
	} {
		if !c.v.IsFinite() || !c.v.NonNegative() {
			return fmt.Errorf("%s must be finite and >= 0 per channel, got %+v", c.n, c.v)
		}
	}
	if !isFinite(a.RayleighDensityExpScale) || !isFinite(a.MieDensityExpScale) || !isFinite(a.OzoneLayerCenterAltitude) {
		return fmt.Errorf("density profile parameters must be finite")
	}
	if a.GroundAlbedo.Max() > 1 {
		return fmt.Errorf("groundAlbedo must be <= 1 per channel, got %+v", a.GroundAlbedo)
	}
	return nil
}

// Size2 is the extent of a 2D LUT.
type Size2 struct {
	Width  int `json:"width" yaml:"width" toml:"width"`
	Height int `json:"height" yaml:"height" toml:"height"`
}

// Size3 is the extent of a 3D LUT.
type Size3 struct {
	Width  int `json:"width" yaml:"width" toml:"width"`
	Height int `json:"height" yaml:"height" toml:"height"`
	Depth  int `json:"depth" yaml:"depth" toml:"depth"`
}

// Settings holds LUT resolutions, sample counts and unit conversion. Comparable value type.
type Settings struct {
	TransmittanceLUTSize      Size2 `json:"transmittanceLutSize" yaml:"transmittanceLutSize" toml:"transmittanceLutSize"`
	TransmittanceLUTSamples   int   `json:"transmittanceLutSamples" yaml:"transmittanceLutSamples" toml:"transmittanceLutSamples"`
	MultiscatteringLUTSize    Size2 `json:"multiscatteringLutSize" yaml:"multiscatteringLutSize" toml:"multiscatteringLutSize"`
	MultiscatteringLUTDirs    int   `json:"multiscatteringLutDirs" yaml:"multiscatteringLutDirs" toml:"multiscatteringLutDirs"` // 0 disables multiscattering
	MultiscatteringLUTSamples int   `json:"multiscatteringLutSamples" yaml:"multiscatteringLutSamples" toml:"multiscatteringLutSamples"`
	SkyViewLUTSize            Size2 `json:"skyViewLutSize" yaml:"skyViewLutSize" toml:"skyViewLutSize"`
	SkyViewLUTSamples         int   `json:"skyViewLutSamples" yaml:"skyViewLutSamples" toml:"skyViewLutSamples"`
	AerialViewLUTSize         Size3 `json:"aerialViewLutSize" yaml:"aerialViewLutSize" toml:"aerialViewLutSize"`
	AerialViewLUTSamples      int   `json:"aerialViewLutSamples" yaml:"aerialViewLutSamples" toml:"aerialViewLutSamples"`
	// Farthest view-space depth covered by the aerial-view LUT, in scene units.
	AerialViewLUTMaxDistance Real `json:"aerialViewLutMaxDistance" yaml:"aerialViewLutMaxDistance" toml:"aerialViewLutMaxDistance"`
	// Multiplier converting scene units to km.
	SceneUnitsToKm Real `json:"sceneUnitsToKm" yaml:"sceneUnitsToKm" toml:"sceneUnitsToKm"`
	// Integrate transmittance to max(top, bottom) distance instead of the nearer boundary.
	TransmittanceFarBoundary bool `json:"transmittanceFarBoundary,omitempty" yaml:"transmittanceFarBoundary,omitempty" toml:"transmittanceFarBoundary,omitempty"`
	// Store texels as IEEE half floats, like the Rgba16Float GPU textures.
	HalfPrecision bool `json:"halfPrecision,omitempty" yaml:"halfPrecision,omitempty" toml:"halfPrecision,omitempty"`
	// Parallelism of every dispatch; 0 uses runtime.NumCPU().
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty" toml:"workers,omitempty"`
}

// DefaultSettings returns the reference LUT sizes and sample counts.
func DefaultSettings() Settings {
	return Settings{
		TransmittanceLUTSize:      Size2{TransmittanceLUTWidth, TransmittanceLUTHeight},
		TransmittanceLUTSamples:   TransmittanceLUTSamples,
		MultiscatteringLUTSize:    Size2{MultiscatteringLUTWidth, MultiscatteringLUTHeight},
		MultiscatteringLUTDirs:    MultiscatteringLUTDirs,
		MultiscatteringLUTSamples: MultiscatteringLUTSamples,
		SkyViewLUTSize:            Size2{SkyViewLUTWidth, SkyViewLUTHeight},
		SkyViewLUTSamples:         SkyViewLUTSamples,
		AerialViewLUTSize:         Size3{AerialViewLUTWidth, AerialViewLUTHeight, AerialViewLUTDepth},
		AerialViewLUTSamples:      AerialViewLUTSamples,
		AerialViewLUTMaxDistance:  AerialViewLUTMaxDistance,
		SceneUnitsToKm:            SceneUnitsToKm,
	}
}

// SettingsForViewport returns the default settings with the sky-view LUT sized to a tenth of the viewport.
func SettingsForViewport(width, height int) Settings {
	s := DefaultSettings()
	if width <= 0 || height <= 0 {
		return s
	}
	s.SkyViewLUTSize = Size2{
		Width:  imax(1, width/SkyViewFromViewportDivisor),
		Height: imax(1, height/SkyViewFromViewportDivisor),
	}
	return s
}

// Validate checks resolutions and sample counts. MultiscatteringLUTDirs may be 0.
func (s Settings) Validate() error {
	sizes := []struct {
		n    string
		w, h int
		d    int
	}{
		{"transmittanceLutSize", s.TransmittanceLUTSize.Width, s.TransmittanceLUTSize.Height, 1},
		{"multiscatteringLutSize", s.MultiscatteringLUTSize.Width, s.MultiscatteringLUTSize.Height, 1},
		{"skyViewLutSize", s.SkyViewLUTSize.Width, s.SkyViewLUTSize.Height, 1},
		{"aerialViewLutSize", s.AerialViewLUTSize.Width, s.AerialViewLUTSize.Height, s.AerialViewLUTSize.Depth},
	}
	for _, sz := range sizes {
		if sz.w < 1 || sz.h < 1 || sz.d < 1 {
			return fmt.Errorf("%s must be >= 1 on every axis, got (%d, %d, %d)", sz.n, sz.w, sz.h, sz.d)
		}
	}
	counts := []struct {
		n string
		v int
	}{
		{"transmittanceLutSamples", s.TransmittanceLUTSamples},
		{"multiscatteringLutSamples", s.MultiscatteringLUTSamples},
		{"skyViewLutSamples", s.SkyViewLUTSamples},
		{"aerialViewLutSamples", s.AerialViewLUTSamples},
	}
	for _, c := range counts {
		if c.v < 1 {
			return fmt.Errorf("%s must be >= 1, got %d", c.n, c.v)
		}
	}
	if s.MultiscatteringLUTDirs < 0 {
		return fmt.Errorf("multiscatteringLutDirs must be >= 0, got %d", s.MultiscatteringLUTDirs)
	}
	if !(s.AerialViewLUTMaxDistance > 0) || math.IsInf(s.AerialViewLUTMaxDistance, 0) {
		return fmt.Errorf("aerialViewLutMaxDistance must be finite and > 0, got %.6g", s.AerialViewLUTMaxDistance)
	}
	if !(s.SceneUnitsToKm > 0) || math.IsInf(s.SceneUnitsToKm, 0) {
		return fmt.Errorf("sceneUnitsToKm must be finite and > 0, got %.6g", s.SceneUnitsToKm)
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", s.Workers)
	}
	return nil
}
