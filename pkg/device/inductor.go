package device

import "math"

// Inductor carries its parasitic winding resistance in series with the reactance.
type Inductor struct {
	BaseDevice
	ResistanceField string
}

func NewInductor(name, label, field, resistanceField string, nodeNames []string) *Inductor {
	return &Inductor{
		BaseDevice: BaseDevice{
			Name:       name,
			Label:      label,
			Field:      field,
			ParamTitle: "Inductance [H]",
			NodeNames:  nodeNames,
		},
		ResistanceField: resistanceField,
	}
}

func (l *Inductor) GetType() string { return "L" }
func (l *Inductor) Kind() Kind      { return InductorKind }

func (l *Inductor) resistance(values Values) float64 {
	if l.ResistanceField == "" {
		return 0
	}
	return values.Value(l.ResistanceField)
}

func (l *Inductor) Impedance(omega float64, values Values) complex128 {
	return Impedance(InductorKind, omega, values.Value(l.Field), l.resistance(values))
}

func (l *Inductor) QuasiStaticImpedance(omega, t float64, values Values) float64 {
	return l.resistance(values) + omega*values.Value(l.Field)/math.Tan(omega*t)
}
