package atmosphere

import (
	"context"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// goldenRatioConjugate drives the Fibonacci lattice azimuths.
var goldenRatioConjugate = (math.Sqrt(5) - 1) / 2

// FibonacciSphere returns n quasi-uniform unit directions covering the full sphere.
// The lattice point (i+0.5)/n, fract(i/phi) is mapped with the Lambert cylindrical
// equal-area projection, so each direction stands for the same solid angle 4pi/n.
func FibonacciSphere(n int) []mgl64.Vec3 {
	dirs := make([]mgl64.Vec3, n)
	for i := range dirs {
		z := 1 - 2*(Real(i)+0.5)/Real(n)
		rho := safeSqrt(1 - z*z)
		phi := 2 * math.Pi * fract(Real(i)*goldenRatioConjugate)
		dirs[i] = mgl64.Vec3{rho * math.Cos(phi), rho * math.Sin(phi), z}
	}
	return dirs
}

// secondOrder integrates, along one direction from (0, 0, r), the second order radiance L2 and
// the transfer factor f_ms for a unit light towards sunDir. Sunlight scatters isotropically
// into the direction, so L2 carries the 1/4pi phase; f_ms does not.
// The local frame has z up, so the view zenith cosine is dir.z.
func secondOrder(atm Atmosphere, transmittance *Texture, r Real, sunDir, dir mgl64.Vec3, samples int) (L2, fms RGB) {
	origin := mgl64.Vec3{0, 0, r}
	mu := dir[2]
	tMax := distanceToNearestBoundary(atm, r, mu)
	T := Gray(1)
	if tMax > 0 {
		for i := 0; i < samples; i++ {
			t, dt := quadraturePoint(tMax, i, samples)
			pos := origin.Add(dir.Mul(t))
			rr := pos.Len()
			muSun := clampCos(pos.Mul(1 / rr).Dot(sunDir))
			s := SampleAtmosphere(atm, rr-atm.BottomRadius)
			stepT := s.Extinction.Scale(dt).Transmittance()
			scattering := s.Scattering()

			// analytic integral of a constant source over the segment: (S - S*stepT) / extinction
			absorbed := Gray(1).Sub(stepT)
			toSun := sunTransmittance(atm, transmittance, rr, muSun)
			L2 = L2.Add(T.Mul(scattering.Mul(toSun).Mul(absorbed).DivSafe(s.Extinction)).Scale(isotropicPhase))
			fms = fms.Add(T.Mul(scattering.Mul(absorbed).DivSafe(s.Extinction)))
			T = T.Mul(stepT)
		}
	}
	if RayIntersectsGround(atm, r, mu) {
		ground := origin.Add(dir.Mul(tMax))
		rg := ground.Len()
		normal := ground.Mul(1 / rg)
		cosSun := normal.Dot(sunDir)
		toSun := sunTransmittance(atm, transmittance, math.Max(rg, atm.BottomRadius), clampCos(cosSun))
		L2 = L2.Add(T.Mul(toSun).Mul(atm.GroundAlbedo).Scale(math.Max(0, cosSun) / math.Pi))
	}
	return L2, fms
}

// MultipleScattering evaluates psi_ms = L2 / (1 - f_ms) at radius r for a sun with zenith
// cosine muSun, averaging over dirs full-sphere directions with an isotropic phase.
func MultipleScattering(atm Atmosphere, transmittance *Texture, r, muSun Real, dirs []mgl64.Vec3, samples int) RGB {
	if len(dirs) == 0 {
		return RGB{}
	}
	muSun = clampCos(muSun)
	sunDir := mgl64.Vec3{0, safeSqrt(1 - muSun*muSun), muSun}
	var L2, fms RGB
	for _, dir := range dirs {
		l, f := secondOrder(atm, transmittance, r, sunDir, dir, samples)
		L2 = L2.Add(l)
		fms = fms.Add(f)
	}
	// uniform sphere estimate of the integral over 4pi with the isotropic phase
	w := fourPi * isotropicPhase / Real(len(dirs))
	L2 = L2.Scale(w)
	fms = fms.Scale(w)
	psi := L2.DivSafe(Gray(1).Sub(fms))
	return psi.clampRadiance()
}

// ComputeMultiscatteringLUT fills the multiscattering texture, reading the transmittance LUT.
// MultiscatteringLUTDirs == 0 leaves every texel at zero.
func ComputeMultiscatteringLUT(ctx context.Context, atm Atmosphere, settings Settings, transmittance *Texture) (*Texture, error) {
	start := time.Now()
	sz := settings.MultiscatteringLUTSize
	lut := NewTexture2D("multiscattering_lut", sz.Width, sz.Height)
	lut.Half = settings.HalfPrecision
	if settings.MultiscatteringLUTDirs == 0 {
		logPass(lut.Label, Skipped, lut.Texels(), time.Since(start))
		return lut, nil
	}

	dirs := FibonacciSphere(settings.MultiscatteringLUTDirs)
	err := dispatch2D(ctx, workerCount(settings), sz.Width, sz.Height, func(x, y int) {
		r, muSun := MultiscatteringUVToRMu(atm, TexelCenter(x, sz.Width), TexelCenter(y, sz.Height))
		psi := MultipleScattering(atm, transmittance, r, muSun, dirs, settings.MultiscatteringLUTSamples)
		lut.Store(x, y, 0, psi, 1)
	})
	if err != nil {
		return nil, err
	}
	logPass(lut.Label, Computed, lut.Texels(), time.Since(start))
	return lut, nil
}
