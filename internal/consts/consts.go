package consts

// Source
const (
	InputVoltage   = 1.0  // V, real part
	InputImpedance = 50.0 // Ω, real part
)

// Resonant probe circuits (series, parallel, probe)
const (
	SeriesFrequency     = 40e6     // Hz
	ProbeFrequency      = 10e6     // Hz
	Inductance          = 0.6e-6   // H
	InductorResistance  = 0.1      // Ω
	CouplingCapacitance = 1.19e-12 // F
	TuningCapacitance   = 25.2e-12 // F
	QuasiStaticTime     = 1e-3     // s
)

// Sensing ladder
const (
	LadderFrequency   = 1.0  // Hz
	LadderResistance  = 1.0  // Ω
	LadderCapacitance = 1e-6 // F

	LadderSamplingRate = 1000
)

// Sweeps
const (
	SamplingRate           = 100
	BruteForceSamplingRate = 3000
	BruteForceMinimum      = 1e-14
	BruteForceMaximum      = 1e-3
)

const ExportFile = "data.txt"

// Saved runs
const (
	StoreKind = "memory"
	DBPath    = "lrc.db"
)
