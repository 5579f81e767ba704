package circuit

import (
	"github.com/edp1096/lrc-sweep/internal/consts"
	"github.com/edp1096/lrc-sweep/pkg/device"
)

// base carries the descriptive half of a topology. Variants embed it and
// add Reduce and Solve.
type base struct {
	name       string
	title      string
	components []device.Device
	fields     []Field
	dense      [2]Field
	defaults   Config
	rate       int
	diagram    string
}

func (b *base) Name() string                { return b.name }
func (b *base) Title() string               { return b.title }
func (b *base) Components() []device.Device { return b.components }
func (b *base) Fields() []Field             { return b.fields }
func (b *base) DenseFields() (Field, Field) { return b.dense[0], b.dense[1] }
func (b *base) Defaults() Config            { return b.defaults.Clone() }
func (b *base) SamplingRate() int           { return b.rate }
func (b *base) TimeDependent() bool         { return false }
func (b *base) Diagram() string             { return b.diagram }

func (b *base) Impedances(cfg Config) []complex128 {
	omega := cfg.Omega()
	z := make([]complex128, len(b.components))
	for i, c := range b.components {
		z[i] = c.Impedance(omega, cfg)
	}
	return z
}

func resonantDefaults(frequency float64, extra map[Field]float64) Config {
	cfg := Config{
		InputVoltage:   complex(consts.InputVoltage, 0),
		InputImpedance: complex(consts.InputImpedance, 0),
	}
	cfg.Set(Frequency, frequency)
	cfg.Set(Inductance, consts.Inductance)
	cfg.Set(InductorResistance, consts.InductorResistance)
	for f, v := range extra {
		cfg.Set(f, v)
	}
	return cfg
}

func newInductor(n1, n2 string) *device.Inductor {
	return device.NewInductor("L", "Inductor", string(Inductance), string(InductorResistance), []string{n1, n2})
}

func newCoupling(n1, n2 string) *device.Capacitor {
	return device.NewCapacitor("Cc", "Coupling", string(CouplingCapacitance), []string{n1, n2})
}

func newTuning(n1, n2 string) *device.Capacitor {
	return device.NewCapacitor("Ct", "Tuning", string(TuningCapacitance), []string{n1, n2})
}
