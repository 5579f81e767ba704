package circuit

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/edp1096/lrc-sweep/pkg/device"
)

var (
	ErrUnknownField    = errors.New("unknown field")
	ErrUnknownTopology = errors.New("unknown topology")
)

// InputNode is the network node the source drives in every netlist.
const InputNode = "1"

type Field string

const (
	Frequency           Field = "frequency"
	Time                Field = "time"
	Inductance          Field = "inductance"
	InductorResistance  Field = "inductor_resistance"
	CouplingCapacitance Field = "coupling_capacitance"
	TuningCapacitance   Field = "tuning_capacitance"
	ROp                 Field = "r_op"
	CRb                 Field = "c_rb"
	RSr                 Field = "r_sr"
	REx                 Field = "r_ex"
	CXe                 Field = "c_xe"
	RW                  Field = "r_w"
)

type fieldInfo struct {
	title string
	unit  string
}

var fieldInfos = map[Field]fieldInfo{
	Frequency:           {"Frequency", "Hz"},
	Time:                {"Time", "s"},
	Inductance:          {"Inductance", "H"},
	InductorResistance:  {"Inductor resistance", "Ω"},
	CouplingCapacitance: {"Coupling capacitance", "F"},
	TuningCapacitance:   {"Tuning capacitance", "F"},
	ROp:                 {"Optical resistance (R_op)", "Ω"},
	CRb:                 {"Rubidium capacitance (C_Rb)", "F"},
	RSr:                 {"Spin relaxation resistance (R_sr)", "Ω"},
	REx:                 {"Spin exchange resistance (R_ex)", "Ω"},
	CXe:                 {"Xenon capacitance (C_Xe)", "F"},
	RW:                  {"Wall resistance (R_w)", "Ω"},
}

func (f Field) Title() string { return fieldInfos[f].title }
func (f Field) Unit() string  { return fieldInfos[f].unit }

// Label is the title with its unit, e.g. "Frequency [Hz]".
func (f Field) Label() string {
	return fmt.Sprintf("%s [%s]", f.Title(), f.Unit())
}

func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := fieldInfos[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
	return f, nil
}

// Config holds the source and every parameter of a topology, frequency
// and time included. The zero value is usable.
type Config struct {
	InputVoltage   complex128
	InputImpedance complex128
	Params         map[Field]float64
}

func (c Config) Get(f Field) float64 {
	return c.Params[f]
}

func (c Config) Has(f Field) bool {
	_, ok := c.Params[f]
	return ok
}

func (c *Config) Set(f Field, v float64) {
	if c.Params == nil {
		c.Params = make(map[Field]float64)
	}
	c.Params[f] = v
}

func (c Config) Clone() Config {
	out := c
	out.Params = make(map[Field]float64, len(c.Params))
	for k, v := range c.Params {
		out.Params[k] = v
	}
	return out
}

// Value satisfies device.Values.
func (c Config) Value(field string) float64 {
	return c.Params[Field(field)]
}

func (c Config) Omega() float64 {
	return 2 * math.Pi * c.Get(Frequency)
}

type Quantity struct {
	Voltage   complex128
	Current   complex128
	Impedance complex128
}

type ElementResult struct {
	Name      string
	Parameter float64
	Quantity
}

// Record is one reduce+solve snapshot. Total.Impedance excludes the source.
type Record struct {
	Frequency float64
	Time      float64
	Total     Quantity
	Elements  []ElementResult
}

// Reduction is the collapsed network. Stages holds the intermediate
// combinations in the order they were built; Solve walks them backwards.
type Reduction struct {
	Voltage   complex128 // Source voltage actually applied
	Source    complex128 // Source impedance actually applied
	Current   complex128
	Impedance complex128 // Network only
	Effective complex128 // Network plus source impedance
	Stages    []complex128
}

type Topology interface {
	Name() string
	Title() string
	Components() []device.Device
	Fields() []Field
	DenseFields() (Field, Field)
	Defaults() Config
	SamplingRate() int
	TimeDependent() bool
	Diagram() string

	Impedances(cfg Config) []complex128
	Reduce(z []complex128, cfg Config) Reduction
	Solve(red Reduction, z []complex128) []Quantity
}

// Calculate runs impedances, reduce and solve for one configuration.
// cfg is never modified.
func Calculate(t Topology, cfg Config) Record {
	z := t.Impedances(cfg)
	red := t.Reduce(z, cfg)
	solved := t.Solve(red, z)

	comps := t.Components()
	rec := Record{
		Frequency: cfg.Get(Frequency),
		Time:      cfg.Get(Time),
		Total: Quantity{
			Voltage:   red.Voltage,
			Current:   red.Current,
			Impedance: red.Impedance,
		},
		Elements: make([]ElementResult, len(comps)),
	}
	for i, c := range comps {
		q := solved[i]
		q.Impedance = z[i]
		rec.Elements[i] = ElementResult{
			Name:      c.GetName(),
			Parameter: cfg.Get(Field(c.GetField())),
			Quantity:  q,
		}
	}
	return rec
}

// ComponentIndex returns the position of the named component in t.
func ComponentIndex(t Topology, name string) (int, error) {
	for i, c := range t.Components() {
		if strings.EqualFold(c.GetName(), name) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("topology %s has no component %q", t.Name(), name)
}

// HasField reports whether f is a sweepable field of t.
func HasField(t Topology, f Field) bool {
	for _, tf := range t.Fields() {
		if tf == f {
			return true
		}
	}
	return false
}

var registry = map[string]func() Topology{
	"series":      func() Topology { return NewSeries() },
	"parallel":    func() Topology { return NewParallel() },
	"probe":       func() Topology { return NewProbe() },
	"ladder":      func() Topology { return NewLadder() },
	"quasistatic": func() Topology { return NewQuasiStatic() },
}

var names = []string{"series", "parallel", "probe", "ladder", "quasistatic"}

func New(name string) (Topology, error) {
	ctor, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTopology, name)
	}
	return ctor(), nil
}

func Names() []string {
	return append([]string(nil), names...)
}

// FieldValue reads back the value f had when rec was calculated. Fields
// that are not the defining parameter of a component are not recorded.
func FieldValue(t Topology, rec Record, f Field) (float64, bool) {
	switch f {
	case Frequency:
		return rec.Frequency, true
	case Time:
		return rec.Time, true
	}
	for i, c := range t.Components() {
		if Field(c.GetField()) == f && i < len(rec.Elements) {
			return rec.Elements[i].Parameter, true
		}
	}
	return 0, false
}
