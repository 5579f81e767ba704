package circuit

import (
	"github.com/edp1096/lrc-sweep/internal/consts"
	"github.com/edp1096/lrc-sweep/pkg/device"
	"github.com/edp1096/lrc-sweep/pkg/phasor"
)

// Probe is the LRCC probe: a tuned tank (inductor across the tuning
// capacitor) fed through the coupling capacitor.
type Probe struct{ base }

func NewProbe() *Probe {
	return &Probe{base{
		name:  "probe",
		title: "Probe LRCC",
		components: []device.Device{
			newInductor("2", "0"),
			newTuning("2", "0"),
			newCoupling(InputNode, "2"),
		},
		fields: []Field{Frequency, Inductance, InductorResistance, TuningCapacitance, CouplingCapacitance},
		dense:  [2]Field{TuningCapacitance, CouplingCapacitance},
		defaults: resonantDefaults(consts.ProbeFrequency, map[Field]float64{
			TuningCapacitance:   consts.TuningCapacitance,
			CouplingCapacitance: consts.CouplingCapacitance,
		}),
		rate:    consts.SamplingRate,
		diagram: probeDiagram,
	}}
}

func (p *Probe) Reduce(z []complex128, cfg Config) Reduction {
	tank := phasor.Parallel(z[0], z[1])
	total := phasor.Add(tank, z[2])
	return closeWithSource(cfg.InputVoltage, cfg.InputImpedance, total, []complex128{tank, total})
}

func (p *Probe) Solve(red Reduction, z []complex128) []Quantity {
	i := red.Current
	coupling := Quantity{Voltage: phasor.Multiply(i, z[2]), Current: i}

	v := phasor.Multiply(i, red.Stages[0])
	return []Quantity{
		{Voltage: v, Current: phasor.Divide(v, z[0])},
		{Voltage: v, Current: phasor.Divide(v, z[1])},
		coupling,
	}
}
