package atmosphere

var (
	Debug = false // set to true for verbose debug output and per-pass statistics
	PNG   = false // set to true to save 16-bit PNG slices of every LUT
	GIF   = false // set to true to save an animated GIF of the aerial-view depth slices
	EXR   = false // set to true to save half-float EXR files of every LUT
	RAW   = false // set to true to save zstd-compressed raw float32 LUT files
	SPIRV = false // set to true to compile the WGSL transmittance kernel and save the SPIR-V next to the LUTs
	// Workers overrides Settings.Workers when > 0 (set from the WORKERS env var)
	Workers = 0
)
