package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/edp1096/lrc-sweep/pkg/circuit"
	"github.com/edp1096/lrc-sweep/pkg/phasor"
)

type Peak struct {
	Index     int
	Magnitude float64
	Record    circuit.Record
}

// PeakTracker is a Sink that keeps only the record with the largest
// voltage magnitude across one component.
type PeakTracker struct {
	component int
	count     int
	peak      Peak
	found     bool
}

func NewPeakTracker(component int) *PeakTracker {
	return &PeakTracker{component: component}
}

func (p *PeakTracker) Append(rec circuit.Record) {
	defer func() { p.count++ }()
	if p.component < 0 || p.component >= len(rec.Elements) {
		return
	}
	mag := phasor.Magnitude(rec.Elements[p.component].Voltage)
	if math.IsNaN(mag) {
		return
	}
	if !p.found || mag > p.peak.Magnitude {
		p.peak = Peak{Index: p.count, Magnitude: mag, Record: rec}
		p.found = true
	}
}

func (p *PeakTracker) Len() int { return p.count }

func (p *PeakTracker) Peak() (Peak, bool) {
	return p.peak, p.found
}

// FindPeak scans records for the largest voltage magnitude across the
// component at index component. The first maximum wins.
func FindPeak(records []circuit.Record, component int) (Peak, bool) {
	p := NewPeakTracker(component)
	for _, rec := range records {
		p.Append(rec)
	}
	return p.Peak()
}

// EdgeHints suggests widening a range when the peak sits within one step
// of its bound, and a finer grid when it touches several bounds.
func EdgeHints(t circuit.Topology, peak Peak, sweeps []Sweep) []string {
	var hints []string
	for _, s := range sweeps {
		v, ok := circuit.FieldValue(t, peak.Record, s.Field)
		if !ok {
			continue
		}
		tol := math.Abs(s.Step)
		name := s.Field.Title()
		if math.Abs(v-s.Min) <= tol {
			hints = append(hints, fmt.Sprintf("Try a lower %s.", lower(name)))
		}
		if math.Abs(v-s.Max) <= tol {
			hints = append(hints, fmt.Sprintf("Try a higher %s.", lower(name)))
		}
	}
	if len(hints) >= 2 {
		hints = append(hints, "Try increasing the sampling rate or changing the range of values.")
	}
	return hints
}

func lower(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
