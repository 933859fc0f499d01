package atmosphere

// Channel indices for readability.
const (
	ChR      = 0
	ChG      = 1
	ChB      = 2
	ChA      = 3
	Channels = 4 // texels are stored as RGBA

	TransmittanceLUTWidth      = 256
	TransmittanceLUTHeight     = 128
	TransmittanceLUTSamples    = 40
	MultiscatteringLUTWidth    = 32
	MultiscatteringLUTHeight   = 32
	MultiscatteringLUTDirs     = 64
	MultiscatteringLUTSamples  = 20
	SkyViewLUTWidth            = 192
	SkyViewLUTHeight           = 108
	SkyViewLUTSamples          = 30
	AerialViewLUTWidth         = 32
	AerialViewLUTHeight        = 32
	AerialViewLUTDepth         = 32
	AerialViewLUTSamples       = 30
	AerialViewLUTMaxDistance   = 3.2e4 // scene units
	SceneUnitsToKm             = 1e-3  // scene units are metres by default
	SkyViewFromViewportDivisor = 10
	WorkgroupSize              = 16    // tile edge for 2D dispatches, same as the GPU workgroup
	SampleBias                 = 0.3   // offset of each quadrature point inside its segment
	MaxRadiance                = 6.0e4 // finite cap applied before values leave the core (~ half-float max)
	GIFDelay                   = 8     // 100ths of a second per frame
	Gamma                      = 2.2
	OutDir                     = "out"

	// hot-loop constants
	eps         = 1e-9
	groundBump  = 1e-3 // km kept between a sample and the planet surface
	finiteLimit = 1e30
)

// NoIntersection is returned by the boundary distance helpers when the ray never reaches that boundary.
const NoIntersection Real = -1
