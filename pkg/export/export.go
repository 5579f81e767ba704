package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/edp1096/lrc-sweep/pkg/circuit"
	"github.com/edp1096/lrc-sweep/pkg/phasor"
)

var totalTitles = []string{
	"Total voltage (real) [V]",
	"Total voltage (imaginary) [V]",
	"Total current (real) [A]",
	"Total current (imaginary) [A]",
	"Total impedance (real) [Ω]",
	"Total impedance (imaginary) [Ω]",
}

// Titles is the header row for t.
func Titles(t circuit.Topology) []string {
	var titles []string
	if t.TimeDependent() {
		titles = append(titles, circuit.Time.Label())
	}
	titles = append(titles, circuit.Frequency.Label())
	titles = append(titles, totalTitles...)
	for _, c := range t.Components() {
		l := c.GetLabel()
		titles = append(titles,
			c.GetParamTitle(),
			l+" voltage (real) [V]",
			l+" voltage (imaginary) [V]",
			l+" current (real) [A]",
			l+" current (imaginary) [A]",
			l+" impedance (real) [Ω]",
			l+" impedance (imaginary) [Ω]",
		)
	}
	return titles
}

// Columns is one data row, aligned with Titles.
func Columns(t circuit.Topology, rec circuit.Record) []float64 {
	var cols []float64
	if t.TimeDependent() {
		cols = append(cols, rec.Time)
	}
	cols = append(cols, rec.Frequency)
	cols = appendQuantity(cols, rec.Total)
	for _, e := range rec.Elements {
		cols = append(cols, e.Parameter)
		cols = appendQuantity(cols, e.Quantity)
	}
	return cols
}

func appendQuantity(cols []float64, q circuit.Quantity) []float64 {
	return append(cols,
		real(q.Voltage), imag(q.Voltage),
		real(q.Current), imag(q.Current),
		real(q.Impedance), imag(q.Impedance),
	)
}

// Write emits the header and one tab-separated row per record.
func Write(w io.Writer, t circuit.Topology, records []circuit.Record) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write(Titles(t)); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	row := make([]string, 0, len(Titles(t)))
	for i, rec := range records {
		row = row[:0]
		for _, v := range Columns(t, rec) {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteFile(path string, t circuit.Topology, records []circuit.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, t, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// AxisTitles extends Titles with a voltage magnitude per component, the
// quantity peak searches and plots usually want.
func AxisTitles(t circuit.Topology) []string {
	titles := Titles(t)
	for _, c := range t.Components() {
		titles = append(titles, c.GetLabel()+" voltage magnitude [V]")
	}
	return titles
}

func AxisValues(t circuit.Topology, rec circuit.Record) []float64 {
	vals := Columns(t, rec)
	for _, e := range rec.Elements {
		vals = append(vals, phasor.Magnitude(e.Voltage))
	}
	return vals
}

// Column resolves an axis by title. The unit suffix and case are optional,
// so "frequency" matches "Frequency [Hz]".
func Column(t circuit.Topology, name string) (int, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, title := range AxisTitles(t) {
		lt := strings.ToLower(title)
		if lt == want || strings.TrimSpace(strings.SplitN(lt, " [", 2)[0]) == want {
			return i, nil
		}
	}
	return -1, fmt.Errorf("no column %q for %s", name, t.Name())
}
