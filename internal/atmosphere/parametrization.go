package atmosphere

import "math"

// DistanceToTopAtmosphereBoundary returns the distance from a point at radius r along a ray with
// zenith cosine mu to the outer sphere, or NoIntersection when the ray misses it (only possible above it).
func DistanceToTopAtmosphereBoundary(atm Atmosphere, r, mu Real) Real {
	disc := r*r*(mu*mu-1) + atm.TopRadius*atm.TopRadius
	if disc < 0 {
		return NoIntersection
	}
	t := -r*mu + math.Sqrt(disc)
	if t < 0 {
		return NoIntersection
	}
	return t
}

// DistanceToBottomAtmosphereBoundary returns the distance to the planet surface,
// or NoIntersection when the ray escapes without touching the ground.
func DistanceToBottomAtmosphereBoundary(atm Atmosphere, r, mu Real) Real {
	if !RayIntersectsGround(atm, r, mu) {
		return NoIntersection
	}
	disc := r*r*(mu*mu-1) + atm.BottomRadius*atm.BottomRadius
	return math.Max(0, -r*mu-safeSqrt(disc))
}

// RayIntersectsGround reports whether the ray from radius r with zenith cosine mu hits the planet.
func RayIntersectsGround(atm Atmosphere, r, mu Real) bool {
	return mu < 0 && r*r*(mu*mu-1)+atm.BottomRadius*atm.BottomRadius >= 0
}

// distanceToNearestBoundary is the length of the ray segment inside the atmosphere:
// the ground distance when the ray hits the planet, otherwise the top distance.
func distanceToNearestBoundary(atm Atmosphere, r, mu Real) Real {
	if d := DistanceToBottomAtmosphereBoundary(atm, r, mu); d >= 0 {
		return d
	}
	return math.Max(0, DistanceToTopAtmosphereBoundary(atm, r, mu))
}

// horizonDistance is H, the distance to the top boundary of a tangent ray from the ground.
func horizonDistance(atm Atmosphere) Real {
	return math.Sqrt(atm.TopRadius*atm.TopRadius - atm.BottomRadius*atm.BottomRadius)
}

// RMuToTransmittanceUV encodes (r, mu) into transmittance LUT coordinates.
//
// v = rho/H where rho is the distance to the horizon. u maps the distance to the boundary the
// ray ends on: ground-hitting rays go to [0, 0.5) (straight down at 0), other rays to [0.5, 1]
// (straight up at 1). Both halves meet at the horizon, where texels are densest.
// Zero-length paths (r = bottom looking down, r = top looking up) collapse onto u = 0 and u = 1.
func RMuToTransmittanceUV(atm Atmosphere, r, mu Real) (u, v Real) {
	H := horizonDistance(atm)
	rho := safeSqrt(r*r - atm.BottomRadius*atm.BottomRadius)
	v = clamp(rho/H, 0, 1)
	if RayIntersectsGround(atm, r, mu) {
		d := DistanceToBottomAtmosphereBoundary(atm, r, mu)
		dMin := r - atm.BottomRadius
		dMax := rho
		x := 0.0
		if dMax > dMin {
			x = (d - dMin) / (dMax - dMin)
		}
		return 0.5 * clamp(x, 0, 1), v
	}
	d := math.Max(0, DistanceToTopAtmosphereBoundary(atm, r, mu))
	dMin := atm.TopRadius - r
	dMax := rho + H
	x := 0.0
	if dMax > dMin {
		x = (d - dMin) / (dMax - dMin)
	}
	return 1 - 0.5*clamp(x, 0, 1), v
}

// TransmittanceUVToRMu is the inverse of RMuToTransmittanceUV.
func TransmittanceUVToRMu(atm Atmosphere, u, v Real) (r, mu Real) {
	H := horizonDistance(atm)
	rho := H * clamp(v, 0, 1)
	r = math.Sqrt(rho*rho + atm.BottomRadius*atm.BottomRadius)
	u = clamp(u, 0, 1)
	if u < 0.5 {
		dMin := r - atm.BottomRadius
		dMax := rho
		d := dMin + 2*u*(dMax-dMin)
		if d <= 0 {
			return r, -1
		}
		// ground hit at distance d: bottom² = r² + 2·r·mu·d + d²
		return r, clampCos(-(rho*rho + d*d) / (2 * r * d))
	}
	dMin := atm.TopRadius - r
	dMax := rho + H
	d := dMin + 2*(1-u)*(dMax-dMin)
	if d <= 0 {
		return r, 1
	}
	// top hit at distance d: top² = r² + 2·r·mu·d + d²
	return r, clampCos((H*H - rho*rho - d*d) / (2 * r * d))
}

// MultiscatteringUVToRMu is linear in both axes: u -> mu in [-1,1], v -> r in [bottom, top].
func MultiscatteringUVToRMu(atm Atmosphere, u, v Real) (r, mu Real) {
	mu = clampCos(2*u - 1)
	r = atm.BottomRadius + clamp(v, 0, 1)*atm.Thickness()
	return
}

// RMuToMultiscatteringUV is the inverse of MultiscatteringUVToRMu.
func RMuToMultiscatteringUV(atm Atmosphere, r, mu Real) (u, v Real) {
	u = clamp(0.5*mu+0.5, 0, 1)
	v = clamp((r-atm.BottomRadius)/atm.Thickness(), 0, 1)
	return
}

// horizonAngles returns the zenith angle of the horizon seen from radius r and beta = pi - that angle.
func horizonAngles(atm Atmosphere, r Real) (zenithHorizon, beta Real) {
	cosBeta := clamp(safeSqrt(r*r-atm.BottomRadius*atm.BottomRadius)/r, 0, 1)
	beta = math.Acos(cosBeta)
	return math.Pi - beta, beta
}

// SkyViewUVToZenithAzimuth decodes sky-view LUT coordinates at radius r into the view zenith cosine
// and the cosine of the azimuth between view and light. v in [0, 0.5) is above the horizon,
// [0.5, 1] below it; both halves are squared towards the horizon. u is squared towards the light.
func SkyViewUVToZenithAzimuth(atm Atmosphere, r, u, v Real) (viewZenithCos, lightViewCos Real) {
	zenithHorizon, beta := horizonAngles(atm, r)
	v = clamp(v, 0, 1)
	var viewZenith Real
	if v < 0.5 {
		c := 1 - 2*v
		c *= c
		viewZenith = zenithHorizon * (1 - c)
	} else {
		c := 2*v - 1
		c *= c
		viewZenith = zenithHorizon + beta*c
	}
	u = clamp(u, 0, 1)
	return math.Cos(viewZenith), clampCos(-(2*u*u - 1))
}

// ZenithAzimuthToSkyViewUV is the inverse of SkyViewUVToZenithAzimuth.
func ZenithAzimuthToSkyViewUV(atm Atmosphere, r, viewZenithCos, lightViewCos Real) (u, v Real) {
	zenithHorizon, beta := horizonAngles(atm, r)
	viewZenith := math.Acos(clampCos(viewZenithCos))
	if viewZenith < zenithHorizon {
		c := viewZenith / zenithHorizon
		c = 1 - math.Sqrt(clamp(1-c, 0, 1))
		v = 0.5 * c
	} else {
		c := 0.0
		if beta > 0 {
			c = (viewZenith - zenithHorizon) / beta
		}
		v = 0.5 + 0.5*math.Sqrt(clamp(c, 0, 1))
	}
	u = math.Sqrt(clamp(0.5-0.5*clampCos(lightViewCos), 0, 1))
	return u, clamp(v, 0, 1)
}

// AerialSliceDepth returns the view-space depth (scene units) at the far edge of a fractional slice
// position in [0, depth]: slices are uniform in view depth up to maxDistance.
func AerialSliceDepth(slice Real, depth int, maxDistance Real) Real {
	return clamp(slice/Real(depth), 0, 1) * maxDistance
}
