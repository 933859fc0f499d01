package atmosphere

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Frame is everything one Render call depends on.
type Frame struct {
	Atmosphere Atmosphere
	Settings   Settings
	Camera     Camera
	Lights     []DirectionalLight
}

// Validate checks the model, the settings and the lights.
func (f Frame) Validate() error {
	if err := f.Atmosphere.Validate(); err != nil {
		return fmt.Errorf("atmosphere: %w", err)
	}
	if err := f.Settings.Validate(); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	for i, l := range f.Lights {
		if _, err := NewDirectionalLight(l.Direction, l.Illuminance); err != nil {
			return fmt.Errorf("light %d: %w", i, err)
		}
	}
	return nil
}

func (f Frame) sameView(o Frame) bool {
	return f.Atmosphere == o.Atmosphere && f.Settings == o.Settings &&
		f.Camera == o.Camera && slices.Equal(f.Lights, o.Lights)
}

// Renderer owns the LUTs across frames and recomputes only the stages whose inputs changed:
// transmittance and multiscattering depend on the model and the settings, sky view and aerial
// view additionally on the camera and the lights.
type Renderer struct {
	mu       sync.Mutex
	cacheDir string

	static *LUTs // Transmittance + Multiscattering, Frame.Atmosphere/Settings valid
	frame  *LUTs // last complete frame
}

type Option func(*Renderer)

// WithCacheDir persists the transmittance and multiscattering LUTs under dir, keyed by a hash
// of the model and the settings, and reloads them instead of recomputing.
func WithCacheDir(dir string) Option {
	return func(r *Renderer) { r.cacheDir = dir }
}

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Render runs Transmittance -> Multiscattering -> {SkyView, AerialView}, each stage starting after
// the previous one has fully completed. Cached stages are skipped. If ctx is cancelled the frame
// is abandoned and the previously published LUTs stay in place.
func (r *Renderer) Render(ctx context.Context, f Frame) (*LUTs, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	f.Lights = slices.Clone(f.Lights)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frame != nil && r.frame.Frame.sameView(f) {
		for _, t := range r.frame.Textures() {
			logPass(t.Label, Cached, t.Texels(), 0)
		}
		return r.frame, nil
	}

	static, err := r.staticLUTs(ctx, f)
	if err != nil {
		return nil, err
	}

	out := &LUTs{
		Transmittance:   static.Transmittance,
		Multiscattering: static.Multiscattering,
		Frame:           f,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := ComputeSkyViewLUT(gctx, f.Atmosphere, f.Settings, f.Camera, f.Lights, out.Transmittance, out.Multiscattering)
		out.SkyView = t
		return err
	})
	g.Go(func() error {
		t, err := ComputeAerialViewLUT(gctx, f.Atmosphere, f.Settings, f.Camera, f.Lights, out.Transmittance, out.Multiscattering)
		out.AerialView = t
		return err
	})
	if err := g.Wait(); err != nil {
		logPass("frame", Cancelled, 0, 0)
		return nil, err
	}
	r.frame = out
	return out, nil
}

// staticLUTs returns the transmittance and multiscattering LUTs for f, from memory, from the
// cache directory, or computed. Called with r.mu held.
func (r *Renderer) staticLUTs(ctx context.Context, f Frame) (*LUTs, error) {
	if r.static != nil && r.static.Frame.Atmosphere == f.Atmosphere && r.static.Frame.Settings == f.Settings {
		logPass(r.static.Transmittance.Label, Cached, r.static.Transmittance.Texels(), 0)
		logPass(r.static.Multiscattering.Label, Cached, r.static.Multiscattering.Texels(), 0)
		return r.static, nil
	}
	static := &LUTs{Frame: Frame{Atmosphere: f.Atmosphere, Settings: f.Settings}}
	if r.cacheDir != "" {
		if ok := r.loadStatic(static); ok {
			r.static = static
			return static, nil
		}
	}

	var err error
	if static.Transmittance, err = ComputeTransmittanceLUT(ctx, f.Atmosphere, f.Settings); err != nil {
		return nil, err
	}
	if static.Multiscattering, err = ComputeMultiscatteringLUT(ctx, f.Atmosphere, f.Settings, static.Transmittance); err != nil {
		return nil, err
	}
	Logger().Info("recomputed static LUTs",
		slog.Int("transmittance_texels", static.Transmittance.Texels()),
		slog.Int("multiscattering_texels", static.Multiscattering.Texels()),
	)
	if r.cacheDir != "" {
		r.saveStatic(static)
	}
	r.static = static
	return static, nil
}

// cacheKey hashes the inputs of the static LUTs.
func cacheKey(atm Atmosphere, settings Settings) string {
	settings.Workers = 0
	h := fnv.New64a()
	fmt.Fprintf(h, "%#v|%#v", atm, settings)
	return fmt.Sprintf("%016x", h.Sum64())
}

func (r *Renderer) cachePaths(static *LUTs) (string, string) {
	key := cacheKey(static.Frame.Atmosphere, static.Frame.Settings)
	return filepath.Join(r.cacheDir, key+"_transmittance.lut.zst"),
		filepath.Join(r.cacheDir, key+"_multiscattering.lut.zst")
}

func (r *Renderer) loadStatic(static *LUTs) bool {
	start := time.Now()
	tPath, msPath := r.cachePaths(static)
	t, err := LoadRawLUT(tPath, "transmittance_lut")
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			Logger().Warn("unreadable LUT cache entry", slog.String("path", tPath), slog.String("error", err.Error()))
		}
		return false
	}
	ms, err := LoadRawLUT(msPath, "multiscattering_lut")
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			Logger().Warn("unreadable LUT cache entry", slog.String("path", msPath), slog.String("error", err.Error()))
		}
		return false
	}
	s := static.Frame.Settings
	if t.Width != s.TransmittanceLUTSize.Width || t.Height != s.TransmittanceLUTSize.Height ||
		ms.Width != s.MultiscatteringLUTSize.Width || ms.Height != s.MultiscatteringLUTSize.Height {
		Logger().Warn("LUT cache entry has unexpected size", slog.String("path", tPath))
		return false
	}
	static.Transmittance, static.Multiscattering = t, ms
	logPass(t.Label, Loaded, t.Texels(), time.Since(start))
	logPass(ms.Label, Loaded, ms.Texels(), time.Since(start))
	return true
}

func (r *Renderer) saveStatic(static *LUTs) {
	tPath, msPath := r.cachePaths(static)
	for _, e := range []struct {
		path string
		t    *Texture
	}{{tPath, static.Transmittance}, {msPath, static.Multiscattering}} {
		if err := e.t.SaveRawLUT(e.path); err != nil {
			Logger().Warn("cannot write LUT cache entry", slog.String("path", e.path), slog.String("error", err.Error()))
		}
	}
}
