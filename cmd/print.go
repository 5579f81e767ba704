package main

import (
	"fmt"
	"io"

	"github.com/edp1096/lrc-sweep/pkg/analysis"
	"github.com/edp1096/lrc-sweep/pkg/circuit"
	"github.com/edp1096/lrc-sweep/pkg/phasor"
	"github.com/edp1096/lrc-sweep/pkg/util"
)

func printValues(w io.Writer, s *analysis.Session) {
	t := s.Topology
	cfg := s.Committed()
	fmt.Fprintf(w, "%s\n", t.Title())
	fmt.Fprintf(w, "  %-36s %s\n", "Input voltage [V]", util.FormatComplex(cfg.InputVoltage))
	fmt.Fprintf(w, "  %-36s %s\n", "Input impedance [Ω]", util.FormatComplex(cfg.InputImpedance))
	fmt.Fprintf(w, "  %-36s %d\n", "Sampling rate", s.SamplingRate())
	for _, f := range t.Fields() {
		fmt.Fprintf(w, "  %-36s %s\n", f.Label(), util.FormatSI(cfg.Get(f), f.Unit()))
	}
}

func printRecord(w io.Writer, t circuit.Topology, rec circuit.Record) {
	if t.TimeDependent() {
		fmt.Fprintf(w, "t = %s, ", util.FormatSI(rec.Time, "s"))
	}
	fmt.Fprintf(w, "f = %s\n", util.FormatSI(rec.Frequency, "Hz"))
	printQuantity(w, "Total", "", rec.Total)
	for i, c := range t.Components() {
		el := rec.Elements[i]
		f := circuit.Field(c.GetField())
		printQuantity(w, el.Name, util.FormatSI(el.Parameter, f.Unit()), el.Quantity)
	}
}

func printQuantity(w io.Writer, name, param string, q circuit.Quantity) {
	if param != "" {
		fmt.Fprintf(w, "  %-5s %s\n", name, param)
		name = ""
	}
	fmt.Fprintf(w, "  %-5s V %s  %s\n", name, util.FormatComplex(q.Voltage), polar(q.Voltage))
	fmt.Fprintf(w, "  %-5s I %s  %s\n", "", util.FormatComplex(q.Current), polar(q.Current))
	fmt.Fprintf(w, "  %-5s Z %s  %s\n", "", util.FormatComplex(q.Impedance), polar(q.Impedance))
}

// printPeak reports the record with the largest voltage across the peak
// component and suggests range changes when it sits on a bound.
func printPeak(w io.Writer, t circuit.Topology, peak analysis.Peak, sweeps []analysis.Sweep) {
	c := t.Components()[analysis.PeakComponent(t)]
	fmt.Fprintf(w, "Maximum %s voltage: %s (record %d)\n",
		c.GetLabel(), util.FormatSI(peak.Magnitude, "V"), peak.Index)
	for _, s := range sweeps {
		if v, ok := circuit.FieldValue(t, peak.Record, s.Field); ok {
			fmt.Fprintf(w, "  %-36s %s\n", s.Field.Label(), util.FormatSI(v, s.Field.Unit()))
		}
	}
	phase := phasor.Phase(peak.Record.Elements[analysis.PeakComponent(t)].Voltage)
	fmt.Fprintf(w, "  %-36s %s\n", "Phase [deg]", util.FormatPhase(phase))
	for _, hint := range analysis.EdgeHints(t, peak, sweeps) {
		fmt.Fprintln(w, hint)
	}
}

func polar(z complex128) string {
	return fmt.Sprintf("%s <%s deg", util.FormatMagnitude(phasor.Magnitude(z)), util.FormatPhase(phasor.Phase(z)))
}
