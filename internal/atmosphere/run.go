package atmosphere

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"
)

func Run(cfgPath string) error {
	return RunContext(context.Background(), cfgPath)
}

// RunContext loads the config, renders one frame of LUTs and writes the requested outputs.
func RunContext(ctx context.Context, cfgPath string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	frame, err := cfg.Frame()
	if err != nil {
		return err
	}

	var opts []Option
	if cfg.CacheDir != "" {
		opts = append(opts, WithCacheDir(cfg.CacheDir))
	}
	r := NewRenderer(opts...)

	logEstimate(frame.Settings, len(frame.Lights))
	start := time.Now()
	luts, err := r.Render(ctx, frame)
	if err != nil {
		return err
	}
	DebugLog("LUTs: %d texels, time: %s", totalTexels(luts), time.Since(start))

	if Debug {
		passStats()
	}
	return saveOutputs(luts, cfg)
}

func totalTexels(luts *LUTs) int {
	n := 0
	for _, t := range luts.Textures() {
		n += t.Texels()
	}
	return n
}

func saveOutputs(luts *LUTs, cfg *Config) error {
	for _, t := range luts.Textures() {
		base := filepath.Join(cfg.OutDir, t.Label)
		if PNG {
			if err := SavePNGSequence16(t, filepath.Join(cfg.OutDir, "pngs", t.Label), cfg.Gamma); err != nil {
				return err
			}
		}
		if EXR {
			if err := t.SaveEXR(base + ".exr"); err != nil {
				return err
			}
		}
		if RAW {
			if err := t.SaveRawLUT(base + ".lut.zst"); err != nil {
				return err
			}
		}
		if PNG || EXR || RAW {
			Logger().Info("saved LUT", slog.String("lut", t.Label), slog.String("dir", cfg.OutDir))
		}
	}
	if GIF {
		path := filepath.Join(cfg.OutDir, "gifs", luts.AerialView.Label+".gif")
		if err := SaveAnimatedGIF(luts.AerialView, path, cfg.GIFDelay, cfg.Gamma); err != nil {
			return err
		}
		DebugLog("Saved animated GIF: %s", path)
	}
	if SPIRV {
		if err := SaveTransmittanceSPIRV(filepath.Join(cfg.OutDir, "transmittance.spv")); err != nil {
			return err
		}
	}
	return nil
}
