package netlist

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"strconv"
	"strings"

	"github.com/edp1096/lrc-sweep/pkg/circuit"
	"github.com/edp1096/lrc-sweep/pkg/device"
	"github.com/edp1096/lrc-sweep/pkg/phasor"
)

// Deck is a small-signal SPICE netlist: passive elements, one AC source
// and a single .ac card.
type Deck struct {
	Title    string
	Elements []Element
	Nodes    map[string]int // Node name and index, in order of appearance
	AC       ACParam
}

type ACParam struct {
	Sweep  string // DEC, OCT, LIN
	Points int
	FStart float64
	FStop  float64
}

type Element struct {
	Type   string // R, L, C, V
	Name   string
	Nodes  []string
	Value  float64           // Magnitude for an AC source
	Params map[string]string // "type" and "phase" for sources
}

const sourceNode = "in"

func newDeck(title string) *Deck {
	return &Deck{Title: title, Nodes: make(map[string]int)}
}

func (d *Deck) add(e Element) {
	d.Elements = append(d.Elements, e)
	for _, node := range e.Nodes {
		if _, exists := d.Nodes[node]; !exists {
			d.Nodes[node] = len(d.Nodes)
		}
	}
}

// spiceName makes sure the element name starts with its type letter.
func spiceName(kind, name string) string {
	if strings.HasPrefix(strings.ToUpper(name), kind) {
		return name
	}
	return kind + name
}

// FromTopology describes t at cfg as an AC deck at cfg's frequency. The
// source impedance becomes a series resistor plus an inductor or capacitor
// for its reactance.
func FromTopology(t circuit.Topology, cfg circuit.Config) (*Deck, error) {
	if t.TimeDependent() {
		return nil, fmt.Errorf("%s has no small-signal netlist", t.Name())
	}
	d := newDeck(t.Title())
	f := cfg.Get(circuit.Frequency)
	omega := cfg.Omega()
	v := cfg.InputVoltage

	var chain []Element
	zs := cfg.InputImpedance
	if rs := real(zs); rs != 0 {
		chain = append(chain, Element{Type: "R", Name: "Rs", Value: rs})
	}
	switch xs := imag(zs); {
	case xs > 0:
		chain = append(chain, Element{Type: "L", Name: "Ls", Value: xs / omega})
	case xs < 0:
		chain = append(chain, Element{Type: "C", Name: "Cs", Value: -1 / (omega * xs)})
	}

	top := circuit.InputNode
	if len(chain) > 0 {
		top = sourceNode
	}
	d.add(Element{
		Type:   "V",
		Name:   "Vin",
		Nodes:  []string{top, "0"},
		Value:  phasor.Magnitude(v),
		Params: map[string]string{"type": "ac", "phase": strconv.FormatFloat(phasor.Phase(v), 'g', -1, 64)},
	})
	for i, e := range chain {
		to := circuit.InputNode
		if i < len(chain)-1 {
			to = fmt.Sprintf("%s%d", sourceNode, i+1)
		}
		e.Nodes = []string{top, to}
		d.add(e)
		top = to
	}

	for _, c := range t.Components() {
		kind := c.Kind().String()
		nodes := c.GetNodeNames()
		value := cfg.Get(circuit.Field(c.GetField()))

		l, ok := c.(*device.Inductor)
		if !ok || l.ResistanceField == "" || cfg.Get(circuit.Field(l.ResistanceField)) == 0 {
			d.add(Element{Type: kind, Name: spiceName(kind, c.GetName()), Nodes: nodes, Value: value})
			continue
		}
		// Winding resistance as its own resistor after the inductance
		inner := c.GetName() + "_r"
		d.add(Element{Type: kind, Name: spiceName(kind, c.GetName()), Nodes: []string{nodes[0], inner}, Value: value})
		d.add(Element{Type: "R", Name: spiceName("R", c.GetName()), Nodes: []string{inner, nodes[1]},
			Value: cfg.Get(circuit.Field(l.ResistanceField))})
	}

	d.AC = ACParam{Sweep: "LIN", Points: 1, FStart: f, FStop: f}
	return d, nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Write renders d as SPICE text.
func (d *Deck) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "* %s\n", d.Title)
	for _, e := range d.Elements {
		fmt.Fprintf(bw, "%s %s", e.Name, strings.Join(e.Nodes, " "))
		if e.Type == "V" && e.Params["type"] == "ac" {
			fmt.Fprintf(bw, " AC %s %s\n", formatValue(e.Value), e.Params["phase"])
			continue
		}
		if e.Type == "V" {
			fmt.Fprintf(bw, " DC %s\n", formatValue(e.Value))
			continue
		}
		fmt.Fprintf(bw, " %s\n", formatValue(e.Value))
	}
	if d.AC.Points > 0 {
		fmt.Fprintf(bw, ".ac %s %d %s %s\n", strings.ToLower(d.AC.Sweep), d.AC.Points,
			formatValue(d.AC.FStart), formatValue(d.AC.FStop))
	}
	fmt.Fprintln(bw, ".end")
	return bw.Flush()
}

// Impedance of a passive element at angular frequency omega.
func Impedance(e Element, omega float64) (complex128, error) {
	switch e.Type {
	case "R":
		return device.Impedance(device.ResistorKind, omega, e.Value, 0), nil
	case "L":
		return device.Impedance(device.InductorKind, omega, e.Value, 0), nil
	case "C":
		return device.Impedance(device.CapacitorKind, omega, e.Value, 0), nil
	}
	return 0, fmt.Errorf("%s is not a passive element", e.Name)
}

func phasorFromPolar(magnitude, degrees float64) complex128 {
	return cmplx.Rect(magnitude, degrees*math.Pi/180)
}

// Check parses text and confirms it carries the same elements, source and
// .ac card as d.
func (d *Deck) Check(text string) error {
	got, err := Parse(text)
	if err != nil {
		return err
	}
	if len(got.Elements) != len(d.Elements) {
		return fmt.Errorf("deck has %d elements, want %d", len(got.Elements), len(d.Elements))
	}
	if got.AC != d.AC {
		return fmt.Errorf(".ac card %+v, want %+v", got.AC, d.AC)
	}
	_, vGot, err := got.Source()
	if err != nil {
		return err
	}
	_, vWant, err := d.Source()
	if err != nil {
		return err
	}
	if !near(vGot, vWant, 1e-9) {
		return fmt.Errorf("source %v, want %v", vGot, vWant)
	}

	omega := 2 * math.Pi * d.AC.FStart
	for i, e := range d.Elements {
		g := got.Elements[i]
		if !strings.EqualFold(g.Name, e.Name) || strings.Join(g.Nodes, " ") != strings.Join(e.Nodes, " ") {
			return fmt.Errorf("element %d is %s %v, want %s %v", i, g.Name, g.Nodes, e.Name, e.Nodes)
		}
		if e.Type == "V" {
			continue
		}
		zGot, err := Impedance(g, omega)
		if err != nil {
			return err
		}
		zWant, err := Impedance(e, omega)
		if err != nil {
			return err
		}
		if !near(zGot, zWant, 1e-9) {
			return fmt.Errorf("%s impedance %v, want %v", e.Name, zGot, zWant)
		}
	}
	return nil
}

func near(a, b complex128, tol float64) bool {
	return cmplx.Abs(a-b) <= tol*math.Max(cmplx.Abs(b), 1)
}
