package atmosphere

import "math"

type Real = float64

// RGB is a per-channel spectral quantity: a coefficient, a radiance or a transmittance.
type RGB struct {
	R Real `json:"r" yaml:"r" toml:"r"`
	G Real `json:"g" yaml:"g" toml:"g"`
	B Real `json:"b" yaml:"b" toml:"b"`
}

// Gray returns an RGB with all channels equal to v.
func Gray(v Real) RGB { return RGB{v, v, v} }

func (a RGB) Add(b RGB) RGB    { return RGB{a.R + b.R, a.G + b.G, a.B + b.B} }
func (a RGB) Sub(b RGB) RGB    { return RGB{a.R - b.R, a.G - b.G, a.B - b.B} }
func (a RGB) Mul(b RGB) RGB    { return RGB{a.R * b.R, a.G * b.G, a.B * b.B} }
func (a RGB) Scale(s Real) RGB { return RGB{a.R * s, a.G * s, a.B * s} }

// Transmittance returns exp(-a) per channel; a is an optical depth.
func (a RGB) Transmittance() RGB {
	return RGB{math.Exp(-a.R), math.Exp(-a.G), math.Exp(-a.B)}
}

// Mean is the unweighted average of the three channels.
func (a RGB) Mean() Real { return (a.R + a.G + a.B) / 3 }

// Max returns the largest channel.
func (a RGB) Max() Real { return math.Max(a.R, math.Max(a.G, a.B)) }

// Min returns the smallest channel.
func (a RGB) Min() Real { return math.Min(a.R, math.Min(a.G, a.B)) }

// DivSafe divides per channel with the denominator floored at eps.
func (a RGB) DivSafe(b RGB) RGB {
	return RGB{safeDiv(a.R, b.R), safeDiv(a.G, b.G), safeDiv(a.B, b.B)}
}

// IsFinite reports whether every channel is finite.
func (a RGB) IsFinite() bool { return isFinite(a.R) && isFinite(a.G) && isFinite(a.B) }

// NonNegative reports whether every channel is >= 0.
func (a RGB) NonNegative() bool { return a.R >= 0 && a.G >= 0 && a.B >= 0 }

// clamp01 clamps each channel to [0,1].
func (a RGB) clamp01() RGB {
	return RGB{clamp(a.R, 0, 1), clamp(a.G, 0, 1), clamp(a.B, 0, 1)}
}

// clampRadiance maps NaN to 0, negative values to 0 and caps at MaxRadiance.
func (a RGB) clampRadiance() RGB {
	f := func(x Real) Real { return clamp(clampFinite(x, MaxRadiance), 0, MaxRadiance) }
	return RGB{f(a.R), f(a.G), f(a.B)}
}
