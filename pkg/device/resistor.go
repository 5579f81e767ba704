package device

type Resistor struct{ BaseDevice }

func NewResistor(name, label, field string, nodeNames []string) *Resistor {
	return &Resistor{
		BaseDevice: BaseDevice{
			Name:       name,
			Label:      label,
			Field:      field,
			ParamTitle: label + " [Ω]",
			NodeNames:  nodeNames,
		},
	}
}

func (r *Resistor) GetType() string { return "R" }
func (r *Resistor) Kind() Kind      { return ResistorKind }

func (r *Resistor) Impedance(_ float64, values Values) complex128 {
	return Impedance(ResistorKind, 0, values.Value(r.Field), 0)
}

func (r *Resistor) QuasiStaticImpedance(_, _ float64, values Values) float64 {
	return values.Value(r.Field)
}
