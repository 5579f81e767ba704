package circuit

import (
	"github.com/edp1096/lrc-sweep/internal/consts"
	"github.com/edp1096/lrc-sweep/pkg/device"
	"github.com/edp1096/lrc-sweep/pkg/phasor"
)

// Parallel is an inductor across the tuning capacitor.
type Parallel struct{ base }

func NewParallel() *Parallel {
	return &Parallel{base{
		name:  "parallel",
		title: "Parallel LRC",
		components: []device.Device{
			newInductor(InputNode, "0"),
			newTuning(InputNode, "0"),
		},
		fields:   []Field{Frequency, Inductance, InductorResistance, TuningCapacitance},
		dense:    [2]Field{TuningCapacitance, Inductance},
		defaults: resonantDefaults(consts.SeriesFrequency, map[Field]float64{TuningCapacitance: consts.TuningCapacitance}),
		rate:     consts.SamplingRate,
		diagram:  parallelDiagram,
	}}
}

func (p *Parallel) Reduce(z []complex128, cfg Config) Reduction {
	tank := phasor.Parallel(z[0], z[1])
	return closeWithSource(cfg.InputVoltage, cfg.InputImpedance, tank, []complex128{tank})
}

func (p *Parallel) Solve(red Reduction, z []complex128) []Quantity {
	v := phasor.Multiply(red.Current, red.Stages[0])
	return []Quantity{
		{Voltage: v, Current: phasor.Divide(v, z[0])},
		{Voltage: v, Current: phasor.Divide(v, z[1])},
	}
}
