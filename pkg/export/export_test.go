package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/edp1096/lrc-sweep/pkg/analysis"
	"github.com/edp1096/lrc-sweep/pkg/circuit"
)

func sweep(t *testing.T, name string, field circuit.Field, rng analysis.Range) (circuit.Topology, []circuit.Record) {
	t.Helper()
	topo, err := circuit.New(name)
	if err != nil {
		t.Fatal(err)
	}
	s := analysis.NewSession(topo)
	if err := s.SetSamplingRate(4); err != nil {
		t.Fatal(err)
	}
	c := analysis.NewCluster(field, rng)
	if err := c.Setup(s); err != nil {
		t.Fatal(err)
	}
	if err := c.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}
	return topo, s.Log.Records()
}

func TestSeriesHeader(t *testing.T) {
	topo, _ := circuit.New("series")
	want := []string{
		"Frequency [Hz]",
		"Total voltage (real) [V]", "Total voltage (imaginary) [V]",
		"Total current (real) [A]", "Total current (imaginary) [A]",
		"Total impedance (real) [Ω]", "Total impedance (imaginary) [Ω]",
		"Inductance [H]",
		"Inductor voltage (real) [V]", "Inductor voltage (imaginary) [V]",
		"Inductor current (real) [A]", "Inductor current (imaginary) [A]",
		"Inductor impedance (real) [Ω]", "Inductor impedance (imaginary) [Ω]",
		"Coupling capacitance [F]",
		"Coupling voltage (real) [V]", "Coupling voltage (imaginary) [V]",
		"Coupling current (real) [A]", "Coupling current (imaginary) [A]",
		"Coupling impedance (real) [Ω]", "Coupling impedance (imaginary) [Ω]",
	}
	got := Titles(topo)
	if strings.Join(got, "\t") != strings.Join(want, "\t") {
		t.Fatalf("titles:\n%q\nwant:\n%q", got, want)
	}
}

func TestRowsMatchHeader(t *testing.T) {
	cases := []struct {
		name  string
		field circuit.Field
		rng   analysis.Range
	}{
		{"series", circuit.Frequency, analysis.Range{Min: 1e6, Max: 2e6}},
		{"parallel", circuit.TuningCapacitance, analysis.Range{Min: 1e-12, Max: 2e-12}},
		{"probe", circuit.CouplingCapacitance, analysis.Range{Min: 1e-12, Max: 2e-12}},
		{"ladder", circuit.Frequency, analysis.Range{Min: 1, Max: 1e3}},
		{"quasistatic", circuit.Time, analysis.Range{Min: 1e-9, Max: 1e-8}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			topo, records := sweep(t, tc.name, tc.field, tc.rng)

			var buf bytes.Buffer
			if err := Write(&buf, topo, records); err != nil {
				t.Fatal(err)
			}
			if strings.Contains(buf.String(), "\t\n") {
				t.Fatal("trailing tab")
			}

			r := csv.NewReader(&buf)
			r.Comma = '\t'
			rows, err := r.ReadAll()
			if err != nil {
				t.Fatal(err)
			}
			if len(rows) != len(records)+1 {
				t.Fatalf("rows = %d, want %d", len(rows), len(records)+1)
			}
			width := len(rows[0])
			if want := 7 + 7*len(topo.Components()); topo.TimeDependent() && width != want+1 || !topo.TimeDependent() && width != want {
				t.Fatalf("header width = %d", width)
			}
			for i, row := range rows[1:] {
				if len(row) != width {
					t.Fatalf("row %d has %d columns, want %d", i, len(row), width)
				}
			}
			if topo.TimeDependent() && rows[0][0] != "Time [s]" {
				t.Fatalf("first column = %q", rows[0][0])
			}
		})
	}
}

func TestValuesRoundTrip(t *testing.T) {
	topo, records := sweep(t, "probe", circuit.Frequency, analysis.Range{Min: 9e6, Max: 11e6})

	var buf bytes.Buffer
	if err := Write(&buf, topo, records); err != nil {
		t.Fatal(err)
	}
	r := csv.NewReader(&buf)
	r.Comma = '\t'
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	for i, rec := range records {
		want := Columns(topo, rec)
		for j, cell := range rows[i+1] {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				t.Fatalf("row %d col %d: %v", i, j, err)
			}
			if v != want[j] {
				t.Fatalf("row %d col %d = %g, want %g", i, j, v, want[j])
			}
		}
	}
}

func TestWriteFile(t *testing.T) {
	topo, records := sweep(t, "series", circuit.Frequency, analysis.Range{Min: 1e6, Max: 2e6})
	path := filepath.Join(t.TempDir(), "data.txt")
	if err := WriteFile(path, topo, records); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(string(data), "\n"); lines != len(records)+1 {
		t.Fatalf("lines = %d", lines)
	}
}

func TestColumn(t *testing.T) {
	topo, _ := circuit.New("probe")
	tests := []struct {
		name string
		want string
	}{
		{"Frequency [Hz]", "Frequency [Hz]"},
		{"frequency", "Frequency [Hz]"},
		{"tuning capacitance", "Tuning capacitance [F]"},
		{"Inductor voltage magnitude", "Inductor voltage magnitude [V]"},
	}
	titles := AxisTitles(topo)
	for _, tt := range tests {
		i, err := Column(topo, tt.name)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if titles[i] != tt.want {
			t.Fatalf("%s resolved to %q", tt.name, titles[i])
		}
	}
	if _, err := Column(topo, "R_w voltage"); err == nil {
		t.Fatal("expected unknown column")
	}
	rec := circuit.Calculate(topo, topo.Defaults())
	if len(AxisValues(topo, rec)) != len(titles) {
		t.Fatal("axis values and titles differ in length")
	}
}
