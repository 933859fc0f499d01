package atmosphere

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tinyScene = `
settings:
  transmittanceLutSize: {width: 32, height: 16}
  transmittanceLutSamples: 10
  multiscatteringLutSize: {width: 8, height: 8}
  multiscatteringLutDirs: 8
  multiscatteringLutSamples: 6
  skyViewLutSize: {width: 12, height: 8}
  skyViewLutSamples: 8
  aerialViewLutSize: {width: 6, height: 6, depth: 4}
  aerialViewLutSamples: 4
lights:
  - elevationDeg: 30
    azimuthDeg: 0
    illuminance: {r: 1, g: 1, b: 1}
`

func withOutputs(t *testing.T, png, exr, raw, gif bool) {
	t.Helper()
	old := [4]bool{PNG, EXR, RAW, GIF}
	PNG, EXR, RAW, GIF = png, exr, raw, gif
	t.Cleanup(func() { PNG, EXR, RAW, GIF = old[0], old[1], old[2], old[3] })
}

func TestRunWritesRequestedOutputs(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	cfgPath := filepath.Join(dir, "tiny.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(tinyScene+"outDir: "+out+"\n"), 0o644))
	withOutputs(t, true, true, true, true)

	require.NoError(t, Run(cfgPath))

	for _, label := range []string{"transmittance_lut", "multiscattering_lut", "sky_view_lut", "aerial_view_lut"} {
		assert.FileExists(t, filepath.Join(out, label+".exr"))
		assert.FileExists(t, filepath.Join(out, label+".lut.zst"))
	}
	assert.FileExists(t, filepath.Join(out, "pngs", "sky_view_lut_0.png"))
	assert.FileExists(t, filepath.Join(out, "pngs", "aerial_view_lut_3.png"))
	assert.FileExists(t, filepath.Join(out, "gifs", "aerial_view_lut.gif"))

	tlut, err := LoadRawLUT(filepath.Join(out, "transmittance_lut.lut.zst"), "transmittance_lut")
	require.NoError(t, err)
	assert.Equal(t, 32, tlut.Width)
	assert.Equal(t, 16, tlut.Height)
}

func TestRunWithoutOutputsWritesNothing(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	cfgPath := filepath.Join(dir, "tiny.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(tinyScene+"outDir: "+out+"\n"), 0o644))
	withOutputs(t, false, false, false, false)

	require.NoError(t, Run(cfgPath))
	assert.NoDirExists(t, out)
}

func TestRunContextCancelled(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "tiny.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(tinyScene), 0o644))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, RunContext(ctx, cfgPath), context.Canceled)
	assert.Error(t, Run(filepath.Join(dir, "missing.yaml")))
}
