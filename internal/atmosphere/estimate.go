package atmosphere

import "log/slog"

// PassCost is the amount of work and memory one LUT pass needs.
type PassCost struct {
	Label   string
	Texels  int
	Samples int64 // medium evaluations along all marched rays
	Bytes   int64 // texel storage
}

// EstimateCost returns the per-pass cost of one full frame in pipeline order.
// A pass disabled by the settings reports zero samples.
func EstimateCost(s Settings, lights int) []PassCost {
	if lights < 1 {
		lights = 1
	}
	cost := func(label string, texels int, perTexel int64) PassCost {
		return PassCost{
			Label:   label,
			Texels:  texels,
			Samples: int64(texels) * perTexel,
			Bytes:   int64(texels) * Channels * 4,
		}
	}
	t, ms, sky, av := s.TransmittanceLUTSize, s.MultiscatteringLUTSize, s.SkyViewLUTSize, s.AerialViewLUTSize
	return []PassCost{
		cost("transmittance_lut", t.Width*t.Height, int64(s.TransmittanceLUTSamples)),
		cost("multiscattering_lut", ms.Width*ms.Height, int64(s.MultiscatteringLUTDirs)*int64(s.MultiscatteringLUTSamples)),
		cost("sky_view_lut", sky.Width*sky.Height, int64(s.SkyViewLUTSamples)*int64(lights)),
		// columns march every slice, so per voxel it is just the sub-steps
		cost("aerial_view_lut", av.Width*av.Height*av.Depth, int64(s.AerialViewLUTSamples)*int64(lights)),
	}
}

func logEstimate(s Settings, lights int) {
	var samples, bytes int64
	for _, c := range EstimateCost(s, lights) {
		samples += c.Samples
		bytes += c.Bytes
		DebugLog("Estimate %s: texels=%d samples=%d bytes=%d", c.Label, c.Texels, c.Samples, c.Bytes)
	}
	Logger().Info("frame estimate", slog.Int64("samples", samples), slog.Int64("bytes", bytes), slog.Int("lights", lights))
}
