package circuit

import (
	"math"

	"github.com/edp1096/lrc-sweep/internal/consts"
	"github.com/edp1096/lrc-sweep/pkg/device"
	"github.com/edp1096/lrc-sweep/pkg/phasor"
)

// QuasiStatic is the experimental real-valued drive of the series circuit:
// V(t) = Re(Vin)·cos(ωt), with reactances scaled by 1/tan(ωt). It has not
// been validated against measurement.
type QuasiStatic struct{ Series }

func NewQuasiStatic() *QuasiStatic {
	s := NewSeries()
	s.name = "quasistatic"
	s.title = "Series LRC, quasi-static real drive (experimental)"
	s.fields = []Field{Time, Frequency, Inductance, InductorResistance, CouplingCapacitance}
	s.dense = [2]Field{Time, Frequency}
	s.defaults.Set(Time, consts.QuasiStaticTime)
	return &QuasiStatic{*s}
}

func (q *QuasiStatic) TimeDependent() bool { return true }

func (q *QuasiStatic) Impedances(cfg Config) []complex128 {
	omega, t := cfg.Omega(), cfg.Get(Time)
	z := make([]complex128, len(q.components))
	for i, c := range q.components {
		if qs, ok := c.(device.QuasiStatic); ok {
			z[i] = complex(qs.QuasiStaticImpedance(omega, t, cfg), 0)
		}
	}
	return z
}

func (q *QuasiStatic) Reduce(z []complex128, cfg Config) Reduction {
	v := real(cfg.InputVoltage) * math.Cos(cfg.Omega()*cfg.Get(Time))
	total := phasor.Add(z[0], z[1])
	return closeWithSource(complex(v, 0), complex(real(cfg.InputImpedance), 0), total, []complex128{total})
}
