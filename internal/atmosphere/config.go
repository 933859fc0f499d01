package atmosphere

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type Vec3Cfg struct {
	X Real `json:"x" yaml:"x" toml:"x"`
	Y Real `json:"y" yaml:"y" toml:"y"`
	Z Real `json:"z" yaml:"z" toml:"z"`
}

func (v Vec3Cfg) Vec3() mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }

// CameraCfg describes a perspective look-at camera in scene units.
type CameraCfg struct {
	Eye     Vec3Cfg `json:"eye" yaml:"eye" toml:"eye"`
	Target  Vec3Cfg `json:"target" yaml:"target" toml:"target"`
	Up      Vec3Cfg `json:"up" yaml:"up" toml:"up"`
	FovYDeg Real    `json:"fovYDeg" yaml:"fovYDeg" toml:"fovYDeg"`
	Near    Real    `json:"near" yaml:"near" toml:"near"`
	Far     Real    `json:"far" yaml:"far" toml:"far"`
}

// LightCfg is a directional light: either an explicit direction towards the light, or
// elevation/azimuth in degrees when the direction is zero.
type LightCfg struct {
	Direction    Vec3Cfg `json:"direction,omitempty" yaml:"direction,omitempty" toml:"direction,omitempty"`
	ElevationDeg Real    `json:"elevationDeg,omitempty" yaml:"elevationDeg,omitempty" toml:"elevationDeg,omitempty"`
	AzimuthDeg   Real    `json:"azimuthDeg,omitempty" yaml:"azimuthDeg,omitempty" toml:"azimuthDeg,omitempty"`
	Illuminance  RGB     `json:"illuminance" yaml:"illuminance" toml:"illuminance"`
}

// Build validates and constructs the runtime light.
func (lc LightCfg) Build() (DirectionalLight, error) {
	if lc.Direction == (Vec3Cfg{}) {
		return NewSunLight(lc.ElevationDeg, lc.AzimuthDeg, lc.Illuminance)
	}
	return NewDirectionalLight(lc.Direction.Vec3(), lc.Illuminance)
}

type Config struct {
	Atmosphere     Atmosphere `json:"atmosphere" yaml:"atmosphere" toml:"atmosphere"`
	Settings       Settings   `json:"settings" yaml:"settings" toml:"settings"`
	ViewportWidth  int        `json:"viewportWidth,omitempty" yaml:"viewportWidth,omitempty" toml:"viewportWidth,omitempty"`
	ViewportHeight int        `json:"viewportHeight,omitempty" yaml:"viewportHeight,omitempty" toml:"viewportHeight,omitempty"`
	Camera         CameraCfg  `json:"camera" yaml:"camera" toml:"camera"`
	Lights         []LightCfg `json:"lights" yaml:"lights" toml:"lights"`
	OutDir         string     `json:"outDir,omitempty" yaml:"outDir,omitempty" toml:"outDir,omitempty"`
	CacheDir       string     `json:"cacheDir,omitempty" yaml:"cacheDir,omitempty" toml:"cacheDir,omitempty"`
	GIFDelay       int        `json:"gifDelay,omitempty" yaml:"gifDelay,omitempty" toml:"gifDelay,omitempty"`
	Gamma          Real       `json:"gamma,omitempty" yaml:"gamma,omitempty" toml:"gamma,omitempty"`
}

// defaultConfig is decoded over, so any field missing from the file keeps these values.
func defaultConfig() Config {
	return Config{
		Atmosphere: EarthAtmosphere(),
		Settings:   DefaultSettings(),
		Camera: CameraCfg{
			Eye:     Vec3Cfg{0, 200, 0},
			Target:  Vec3Cfg{0, 200, -1000},
			Up:      Vec3Cfg{0, 1, 0},
			FovYDeg: 60,
			Near:    0.1,
			Far:     AerialViewLUTMaxDistance,
		},
	}
}

func decodeConfig(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		return toml.Unmarshal(data, cfg)
	}
	return fmt.Errorf("unsupported config format %q (want .json, .yaml or .toml)", filepath.Ext(path))
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := defaultConfig()
	if err := decodeConfig(path, data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	// Defaults / validation
	if cfg.ViewportWidth > 0 && cfg.ViewportHeight > 0 && cfg.Settings.SkyViewLUTSize == DefaultSettings().SkyViewLUTSize {
		cfg.Settings.SkyViewLUTSize = SettingsForViewport(cfg.ViewportWidth, cfg.ViewportHeight).SkyViewLUTSize
	}
	if cfg.OutDir == "" {
		cfg.OutDir = OutDir
	}
	if cfg.GIFDelay <= 0 {
		cfg.GIFDelay = GIFDelay
	}
	if cfg.Gamma <= 0 {
		cfg.Gamma = Gamma
	}
	if len(cfg.Lights) == 0 {
		return nil, fmt.Errorf("config has no lights")
	}
	if err := cfg.Atmosphere.Validate(); err != nil {
		return nil, fmt.Errorf("atmosphere: %w", err)
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	DebugLog("Loaded config from %s: transmittance=%v multiscattering=%v skyView=%v aerialView=%v lights=%d",
		path, cfg.Settings.TransmittanceLUTSize, cfg.Settings.MultiscatteringLUTSize,
		cfg.Settings.SkyViewLUTSize, cfg.Settings.AerialViewLUTSize, len(cfg.Lights))
	return &cfg, nil
}

// Frame builds the runtime inputs described by the config.
func (cfg *Config) Frame() (Frame, error) {
	aspect := Real(16) / 9
	if cfg.ViewportWidth > 0 && cfg.ViewportHeight > 0 {
		aspect = Real(cfg.ViewportWidth) / Real(cfg.ViewportHeight)
	}
	cc := cfg.Camera
	cam, err := NewPerspectiveCamera(cc.Eye.Vec3(), cc.Target.Vec3(), cc.Up.Vec3(), cc.FovYDeg, aspect, cc.Near, cc.Far)
	if err != nil {
		return Frame{}, fmt.Errorf("camera: %w", err)
	}
	lights := make([]DirectionalLight, 0, len(cfg.Lights))
	for i, lc := range cfg.Lights {
		l, err := lc.Build()
		if err != nil {
			return Frame{}, fmt.Errorf("light %d: %w", i, err)
		}
		lights = append(lights, l)
	}
	return Frame{Atmosphere: cfg.Atmosphere, Settings: cfg.Settings, Camera: cam, Lights: lights}, nil
}
