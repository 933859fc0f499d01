package atmosphere

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/gogpu/naga"
)

// transmittanceShaderWGSL is the GPU version of the transmittance pass, for hosts that run the
// LUTs on a device. Bindings: 0 = Params (uniform), 1 = array<vec4<f32>> texels.
//
//go:embed shaders/transmittance.wgsl
var transmittanceShaderWGSL string

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// TransmittanceParamsSize is the byte size of the uniform block (5 x vec4<f32>).
const TransmittanceParamsSize = 5 * 16

// GetTransmittanceShaderSource returns the WGSL source of the transmittance kernel.
func GetTransmittanceShaderSource() string {
	return transmittanceShaderWGSL
}

// CompileTransmittanceShader compiles the WGSL kernel to SPIR-V words.
func CompileTransmittanceShader() ([]uint32, error) {
	spirvBytes, err := naga.Compile(transmittanceShaderWGSL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile transmittance shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("SPIR-V size %d is not a multiple of 4", len(spirvBytes))
	}
	// SPIR-V is little-endian 32-bit words
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	if len(code) == 0 || code[0] != spirvMagic {
		return nil, fmt.Errorf("compiled shader is not SPIR-V")
	}
	return code, nil
}

// PackTransmittanceParams lays out the uniform block read by the WGSL kernel.
func PackTransmittanceParams(atm Atmosphere, settings Settings) []byte {
	far := 0.0
	if settings.TransmittanceFarBoundary {
		far = 1
	}
	values := [TransmittanceParamsSize / 4]Real{
		atm.BottomRadius, atm.TopRadius, atm.RayleighDensityExpScale, atm.MieDensityExpScale,
		atm.RayleighScattering.R, atm.RayleighScattering.G, atm.RayleighScattering.B, atm.MieScattering,
		atm.OzoneAbsorption.R, atm.OzoneAbsorption.G, atm.OzoneAbsorption.B, atm.MieAbsorption,
		atm.OzoneLayerCenterAltitude, atm.OzoneLayerHalfWidth, Real(settings.TransmittanceLUTSamples), far,
		Real(settings.TransmittanceLUTSize.Width), Real(settings.TransmittanceLUTSize.Height), 0, 0,
	}
	buf := make([]byte, TransmittanceParamsSize)
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(float32(v)))
	}
	return buf
}

// SaveTransmittanceSPIRV compiles the kernel and writes the SPIR-V binary to path.
func SaveTransmittanceSPIRV(path string) error {
	code, err := CompileTransmittanceShader()
	if err != nil {
		return err
	}
	buf := make([]byte, 4*len(code))
	for i, w := range code {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return err
	}
	DebugLog("Saved transmittance SPIR-V (%d words) to %s", len(code), path)
	return nil
}
