package atmosphere

import (
	"math"
)

func isFinite(x Real) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clamp(x, lo, hi Real) Real {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clampCos(mu Real) Real { return clamp(mu, -1, 1) }

// safeDiv floors the magnitude of the denominator at eps, keeping its sign.
func safeDiv(a, b Real) Real {
	if math.Abs(b) < eps {
		if b < 0 {
			return a / -eps
		}
		return a / eps
	}
	return a / b
}

// safeSqrt returns 0 for tiny negative arguments produced by rounding.
func safeSqrt(x Real) Real {
	if x <= 0 {
		return 0
	}
	return math.Sqrt(x)
}

// clampFinite maps NaN to 0 and caps the value to [-limit, limit].
func clampFinite(x, limit Real) Real {
	if math.IsNaN(x) {
		return 0
	}
	return clamp(x, -limit, limit)
}

// fract returns the fractional part of x in [0, 1).
func fract(x Real) Real { return x - math.Floor(x) }
