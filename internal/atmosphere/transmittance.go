package atmosphere

import (
	"context"
	"math"
	"time"
)

// radiusAt is the distance from the planet center after travelling t along a ray starting
// at radius r with zenith cosine mu.
func radiusAt(r, mu, t Real) Real {
	return safeSqrt(t*t + 2*r*mu*t + r*r)
}

// quadraturePoint returns the i-th of n sample distances over [0, tMax] and the length of the
// segment ending there: t_i = tMax*(i+SampleBias)/n, dt_i = t_i - t_{i-1} with t_{-1} = 0.
func quadraturePoint(tMax Real, i, n int) (t, dt Real) {
	t = tMax * (Real(i) + SampleBias) / Real(n)
	prev := 0.0
	if i > 0 {
		prev = tMax * (Real(i-1) + SampleBias) / Real(n)
	}
	return t, t - prev
}

// transmittanceIntegrationLength picks the end of the path integrated for (r, mu).
// Nearer boundary by default; farBoundary reproduces the reference max(top, bottom) choice.
func transmittanceIntegrationLength(atm Atmosphere, r, mu Real, farBoundary bool) Real {
	if farBoundary {
		return math.Max(0, math.Max(
			DistanceToTopAtmosphereBoundary(atm, r, mu),
			DistanceToBottomAtmosphereBoundary(atm, r, mu),
		))
	}
	return distanceToNearestBoundary(atm, r, mu)
}

// OpticalDepthToBoundary integrates extinction from radius r along mu with samples quadrature points.
func OpticalDepthToBoundary(atm Atmosphere, r, mu Real, samples int, farBoundary bool) RGB {
	tMax := transmittanceIntegrationLength(atm, r, mu, farBoundary)
	var opticalDepth RGB
	if tMax <= 0 || samples < 1 {
		return opticalDepth
	}
	for i := 0; i < samples; i++ {
		t, dt := quadraturePoint(tMax, i, samples)
		altitude := radiusAt(r, mu, t) - atm.BottomRadius
		s := SampleAtmosphere(atm, altitude)
		opticalDepth = opticalDepth.Add(s.Extinction.Scale(dt))
	}
	return opticalDepth
}

// TransmittanceToBoundary is exp(-optical depth) for the path from (r, mu) to the atmosphere boundary.
func TransmittanceToBoundary(atm Atmosphere, r, mu Real, samples int, farBoundary bool) RGB {
	return OpticalDepthToBoundary(atm, r, mu, samples, farBoundary).Transmittance().clamp01()
}

// ComputeTransmittanceLUT fills a new transmittance texture. Every texel is independent.
func ComputeTransmittanceLUT(ctx context.Context, atm Atmosphere, settings Settings) (*Texture, error) {
	start := time.Now()
	sz := settings.TransmittanceLUTSize
	lut := NewTexture2D("transmittance_lut", sz.Width, sz.Height)
	lut.Half = settings.HalfPrecision

	err := dispatch2D(ctx, workerCount(settings), sz.Width, sz.Height, func(x, y int) {
		u, v := TexelCenter(x, sz.Width), TexelCenter(y, sz.Height)
		r, mu := TransmittanceUVToRMu(atm, u, v)
		T := TransmittanceToBoundary(atm, r, mu, settings.TransmittanceLUTSamples, settings.TransmittanceFarBoundary)
		lut.Store(x, y, 0, T, 1)
	})
	if err != nil {
		return nil, err
	}
	logPass(lut.Label, Computed, lut.Texels(), time.Since(start))
	return lut, nil
}

// SampleTransmittanceLUT reads the transmittance from (r, mu) to the boundary through the LUT encoding.
func SampleTransmittanceLUT(atm Atmosphere, lut *Texture, r, mu Real) RGB {
	u, v := RMuToTransmittanceUV(atm, r, mu)
	T, _ := lut.Sample2D(u, v)
	return T
}

// sunTransmittance is the LUT transmittance towards a light, zero when the planet blocks it.
func sunTransmittance(atm Atmosphere, lut *Texture, r, muLight Real) RGB {
	if RayIntersectsGround(atm, r, muLight) {
		return RGB{}
	}
	return SampleTransmittanceLUT(atm, lut, r, muLight)
}
