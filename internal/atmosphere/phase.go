package atmosphere

import "math"

const (
	fourPi = 4 * math.Pi
	// isotropicPhase is the phase function of a medium scattering equally in every direction.
	isotropicPhase = 1 / fourPi
)

// RayleighPhase for the cosine between the view and light directions.
func RayleighPhase(cosTheta Real) Real {
	return 3 / (16 * math.Pi) * (1 + cosTheta*cosTheta)
}

// HenyeyGreensteinPhase with asymmetry g in (-1, 1).
func HenyeyGreensteinPhase(cosTheta, g Real) Real {
	g2 := g * g
	denom := 1 + g2 - 2*g*cosTheta
	if denom < eps {
		denom = eps
	}
	return (1 - g2) / (fourPi * denom * math.Sqrt(denom))
}
