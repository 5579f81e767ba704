package nodal

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/edp1096/lrc-sweep/pkg/circuit"
)

type Mismatch struct {
	Element  string
	Quantity string
	Reduced  complex128
	Nodal    complex128
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s %s: reduced %v, nodal %v", m.Element, m.Quantity, m.Reduced, m.Nodal)
}

// agree compares relative to the larger of a, b and floor. floor keeps
// values that should be exactly zero from failing on rounding noise.
func agree(a, b complex128, tol, floor float64) bool {
	if cmplx.IsNaN(a) || cmplx.IsNaN(b) {
		return cmplx.IsNaN(a) && cmplx.IsNaN(b)
	}
	scale := math.Max(floor, math.Max(cmplx.Abs(a), cmplx.Abs(b)))
	if scale == 0 {
		return true
	}
	return cmplx.Abs(a-b) <= tol*scale
}

// Verify solves t at cfg both by reduction and nodally and lists every
// voltage or current that differs by more than tol, relative.
func Verify(t circuit.Topology, cfg circuit.Config, tol float64) ([]Mismatch, error) {
	rec := circuit.Calculate(t, cfg)
	sol, err := Solve(t, cfg)
	if err != nil {
		return nil, fmt.Errorf("nodal solve of %s: %w", t.Name(), err)
	}

	vFloor, iFloor := cmplx.Abs(rec.Total.Voltage), cmplx.Abs(rec.Total.Current)

	var out []Mismatch
	if !agree(rec.Total.Current, sol.Current, tol, 0) {
		out = append(out, Mismatch{"total", "current", rec.Total.Current, sol.Current})
	}
	for i, e := range rec.Elements {
		n := sol.Elements[i]
		if !agree(e.Voltage, n.Voltage, tol, vFloor) {
			out = append(out, Mismatch{e.Name, "voltage", e.Voltage, n.Voltage})
		}
		if !agree(e.Current, n.Current, tol, iFloor) {
			out = append(out, Mismatch{e.Name, "current", e.Current, n.Current})
		}
	}
	return out, nil
}
