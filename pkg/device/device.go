package device

import (
	"fmt"
	"math"

	"github.com/edp1096/lrc-sweep/pkg/matrix"
	"github.com/edp1096/lrc-sweep/pkg/phasor"
)

type Kind int

const (
	ResistorKind Kind = iota
	InductorKind
	CapacitorKind
)

func (k Kind) String() string {
	switch k {
	case ResistorKind:
		return "R"
	case InductorKind:
		return "L"
	case CapacitorKind:
		return "C"
	}
	return "?"
}

// Values resolves a configuration field to its current value.
type Values interface {
	Value(field string) float64
}

type Device interface {
	GetName() string
	GetType() string
	GetLabel() string
	GetField() string
	GetParamTitle() string
	GetNodeNames() []string
	Kind() Kind
	Impedance(omega float64, values Values) complex128
}

// QuasiStatic is implemented by devices that support the experimental
// real-valued drive, where reactances scale with 1/tan(ωt).
type QuasiStatic interface {
	QuasiStaticImpedance(omega, t float64, values Values) float64
}

type BaseDevice struct {
	Name       string
	Label      string   // Column/menu label, e.g. "Inductor"
	Field      string   // Configuration field holding the defining parameter
	ParamTitle string   // e.g. "Inductance [H]"
	NodeNames  []string // Two terminals, "0" is ground
}

func (d *BaseDevice) GetName() string        { return d.Name }
func (d *BaseDevice) GetLabel() string       { return d.Label }
func (d *BaseDevice) GetField() string       { return d.Field }
func (d *BaseDevice) GetParamTitle() string  { return d.ParamTitle }
func (d *BaseDevice) GetNodeNames() []string { return d.NodeNames }

// Impedance is the phasor impedance of a single element at angular frequency omega.
// seriesR only applies to inductors.
func Impedance(kind Kind, omega, value, seriesR float64) complex128 {
	switch kind {
	case ResistorKind:
		return complex(value, 0)
	case InductorKind:
		return complex(seriesR, omega*value)
	case CapacitorKind:
		return complex(0, -1/(omega*value))
	}
	return complex(math.NaN(), math.NaN())
}

// StampAC stamps the admittance 1/z between nodes n1 and n2 (0 = ground).
// A zero impedance has no admittance and must be stamped as a branch.
func StampAC(m matrix.DeviceMatrix, n1, n2 int, z complex128) error {
	if z == 0 {
		return fmt.Errorf("zero impedance between nodes %d and %d", n1, n2)
	}
	return m.AddAdmittance(n1, n2, phasor.Divide(1, z))
}
