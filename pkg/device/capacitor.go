package device

import "math"

type Capacitor struct{ BaseDevice }

func NewCapacitor(name, label, field string, nodeNames []string) *Capacitor {
	return &Capacitor{
		BaseDevice: BaseDevice{
			Name:       name,
			Label:      label,
			Field:      field,
			ParamTitle: label + " capacitance [F]",
			NodeNames:  nodeNames,
		},
	}
}

func (c *Capacitor) GetType() string { return "C" }
func (c *Capacitor) Kind() Kind      { return CapacitorKind }

// Impedance is -j/(ωC). ω = 0 or C = 0 is not guarded.
func (c *Capacitor) Impedance(omega float64, values Values) complex128 {
	return Impedance(CapacitorKind, omega, values.Value(c.Field), 0)
}

func (c *Capacitor) QuasiStaticImpedance(omega, t float64, values Values) float64 {
	return -1 / (omega * values.Value(c.Field) * math.Tan(omega*t))
}
