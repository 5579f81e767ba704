package circuit

import (
	"github.com/edp1096/lrc-sweep/internal/consts"
	"github.com/edp1096/lrc-sweep/pkg/device"
	"github.com/edp1096/lrc-sweep/pkg/phasor"
)

// Ladder component positions.
const (
	ladderROp = iota
	ladderCRb
	ladderRSr
	ladderREx
	ladderCXe
	ladderRW
)

// Ladder is the six-element spin-exchange optical pumping sensing network:
//
//	((((R_w ∥ C_Xe) ⊕ R_ex) ∥ R_sr) ∥ C_Rb) ⊕ R_op
type Ladder struct{ base }

func NewLadder() *Ladder {
	cfg := Config{InputVoltage: complex(consts.InputVoltage, 0)}
	cfg.Set(Frequency, consts.LadderFrequency)
	for _, f := range []Field{ROp, RSr, REx, RW} {
		cfg.Set(f, consts.LadderResistance)
	}
	cfg.Set(CRb, consts.LadderCapacitance)
	cfg.Set(CXe, consts.LadderCapacitance)

	return &Ladder{base{
		name:  "ladder",
		title: "SEOP sensing ladder",
		components: []device.Device{
			device.NewResistor("R_op", "R_op", string(ROp), []string{InputNode, "2"}),
			device.NewCapacitor("C_Rb", "C_Rb", string(CRb), []string{"2", "0"}),
			device.NewResistor("R_sr", "R_sr", string(RSr), []string{"2", "0"}),
			device.NewResistor("R_ex", "R_ex", string(REx), []string{"2", "3"}),
			device.NewCapacitor("C_Xe", "C_Xe", string(CXe), []string{"3", "0"}),
			device.NewResistor("R_w", "R_w", string(RW), []string{"3", "0"}),
		},
		fields:   []Field{Frequency, ROp, CRb, RSr, REx, CXe, RW},
		dense:    [2]Field{CRb, CXe},
		defaults: cfg,
		rate:     consts.LadderSamplingRate,
		diagram:  ladderDiagram,
	}}
}

func (l *Ladder) Reduce(z []complex128, cfg Config) Reduction {
	p1 := phasor.Parallel(z[ladderRW], z[ladderCXe])
	s1 := phasor.Add(p1, z[ladderREx])
	p2 := phasor.Parallel(s1, z[ladderRSr])
	p3 := phasor.Parallel(p2, z[ladderCRb])
	s2 := phasor.Add(p3, z[ladderROp])
	return closeWithSource(cfg.InputVoltage, cfg.InputImpedance, s2, []complex128{p1, s1, p2, p3, s2})
}

func (l *Ladder) Solve(red Reduction, z []complex128) []Quantity {
	i := red.Current
	out := make([]Quantity, 6)
	out[ladderROp] = Quantity{Voltage: phasor.Multiply(i, z[ladderROp]), Current: i}

	// Node below R_op
	vb := phasor.Multiply(i, red.Stages[3])
	iRb := phasor.Divide(vb, z[ladderCRb])
	iSr := phasor.Divide(vb, z[ladderRSr])
	out[ladderCRb] = Quantity{Voltage: vb, Current: iRb}
	out[ladderRSr] = Quantity{Voltage: vb, Current: iSr}

	iEx := phasor.Subtract(phasor.Subtract(i, iRb), iSr)
	vEx := phasor.Multiply(iEx, z[ladderREx])
	out[ladderREx] = Quantity{Voltage: vEx, Current: iEx}

	// Node below R_ex
	vc := phasor.Subtract(vb, vEx)
	iXe := phasor.Divide(vc, z[ladderCXe])
	out[ladderCXe] = Quantity{Voltage: vc, Current: iXe}
	out[ladderRW] = Quantity{Voltage: vc, Current: phasor.Subtract(iEx, iXe)}

	return out
}
