package device

import (
	"math"
	"testing"
)

type mapValues map[string]float64

func (v mapValues) Value(field string) float64 { return v[field] }

func TestImpedanceModel(t *testing.T) {
	omega := 2 * math.Pi * 40e6
	values := mapValues{"r": 50, "l": 0.6e-6, "rl": 0.1, "c": 1.19e-12}

	tests := []struct {
		name string
		dev  Device
		want complex128
	}{
		{"resistor", NewResistor("R1", "Resistor", "r", []string{"1", "0"}), complex(50, 0)},
		{"inductor", NewInductor("L1", "Inductor", "l", "rl", []string{"1", "0"}), complex(0.1, omega*0.6e-6)},
		{"capacitor", NewCapacitor("C1", "Coupling", "c", []string{"1", "0"}), complex(0, -1/(omega*1.19e-12))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.dev.Impedance(omega, values)
			if got != tt.want {
				t.Fatalf("impedance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInductorWithoutResistance(t *testing.T) {
	l := NewInductor("L1", "Inductor", "l", "", []string{"1", "2"})
	got := l.Impedance(10, mapValues{"l": 2})
	if got != complex(0, 20) {
		t.Fatalf("impedance = %v, want (0+20i)", got)
	}
}

func TestCapacitorZeroFrequency(t *testing.T) {
	c := NewCapacitor("C1", "Tuning", "c", []string{"1", "0"})
	got := c.Impedance(0, mapValues{"c": 1e-12})
	if !math.IsInf(imag(got), -1) {
		t.Fatalf("impedance at dc = %v, want -Inf reactance", got)
	}
}

func TestQuasiStaticImpedance(t *testing.T) {
	omega, tm := 2*math.Pi*40e6, 1e-3
	values := mapValues{"l": 0.6e-6, "rl": 0.1, "c": 1.19e-12}

	var l QuasiStatic = NewInductor("L1", "Inductor", "l", "rl", nil)
	want := 0.1 + omega*0.6e-6/math.Tan(omega*tm)
	if got := l.QuasiStaticImpedance(omega, tm, values); math.Abs(got-want) > 1e-12*math.Abs(want) {
		t.Fatalf("inductor = %g, want %g", got, want)
	}

	var c QuasiStatic = NewCapacitor("C1", "Coupling", "c", nil)
	want = -1 / (omega * 1.19e-12 * math.Tan(omega*tm))
	if got := c.QuasiStaticImpedance(omega, tm, values); math.Abs(got-want) > 1e-12*math.Abs(want) {
		t.Fatalf("capacitor = %g, want %g", got, want)
	}
}

func TestKindString(t *testing.T) {
	for kind, want := range map[Kind]string{ResistorKind: "R", InductorKind: "L", CapacitorKind: "C", Kind(9): "?"} {
		if got := kind.String(); got != want {
			t.Fatalf("%d.String() = %q, want %q", kind, got, want)
		}
	}
}
