package circuit

import (
	"github.com/edp1096/lrc-sweep/internal/consts"
	"github.com/edp1096/lrc-sweep/pkg/device"
	"github.com/edp1096/lrc-sweep/pkg/phasor"
)

// Series is an inductor in series with the coupling capacitor.
type Series struct{ base }

func NewSeries() *Series {
	return &Series{base{
		name:  "series",
		title: "Series LRC",
		components: []device.Device{
			newInductor(InputNode, "2"),
			newCoupling("2", "0"),
		},
		fields:   []Field{Frequency, Inductance, InductorResistance, CouplingCapacitance},
		dense:    [2]Field{Inductance, CouplingCapacitance},
		defaults: resonantDefaults(consts.SeriesFrequency, map[Field]float64{CouplingCapacitance: consts.CouplingCapacitance}),
		rate:     consts.SamplingRate,
		diagram:  seriesDiagram,
	}}
}

func (s *Series) Reduce(z []complex128, cfg Config) Reduction {
	total := phasor.Add(z[0], z[1])
	return closeWithSource(cfg.InputVoltage, cfg.InputImpedance, total, []complex128{total})
}

func (s *Series) Solve(red Reduction, z []complex128) []Quantity {
	i := red.Current
	return []Quantity{
		{Voltage: phasor.Multiply(i, z[0]), Current: i},
		{Voltage: phasor.Multiply(i, z[1]), Current: i},
	}
}

// closeWithSource adds the source impedance to the reduced network and
// derives the total current.
func closeWithSource(v, zs, network complex128, stages []complex128) Reduction {
	effective := phasor.Add(network, zs)
	return Reduction{
		Voltage:   v,
		Source:    zs,
		Current:   phasor.Divide(v, effective),
		Impedance: network,
		Effective: effective,
		Stages:    stages,
	}
}
