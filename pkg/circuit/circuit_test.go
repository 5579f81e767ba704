package circuit

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"
)

func close6(a, b complex128) bool {
	scale := math.Max(cmplx.Abs(a), cmplx.Abs(b))
	if scale == 0 {
		return true
	}
	return cmplx.Abs(a-b) <= 1e-6*scale
}

func TestSeriesScenario(t *testing.T) {
	topo := NewSeries()
	cfg := topo.Defaults()

	omega := 2 * math.Pi * 40e6
	zL := complex(0.1, omega*0.6e-6)
	zC := complex(0, -1/(omega*1.19e-12))
	total := zL + zC
	current := complex(1, 0) / (total + 50)

	rec := Calculate(topo, cfg)

	if rec.Frequency != 40e6 {
		t.Fatalf("frequency = %g, want 40e6", rec.Frequency)
	}
	checks := []struct {
		name      string
		got, want complex128
	}{
		{"total impedance", rec.Total.Impedance, total},
		{"total current", rec.Total.Current, current},
		{"total voltage", rec.Total.Voltage, 1},
		{"inductor voltage", rec.Elements[0].Voltage, current * zL},
		{"inductor current", rec.Elements[0].Current, current},
		{"inductor impedance", rec.Elements[0].Impedance, zL},
		{"coupling voltage", rec.Elements[1].Voltage, current * zC},
		{"coupling current", rec.Elements[1].Current, current},
		{"coupling impedance", rec.Elements[1].Impedance, zC},
	}
	for _, c := range checks {
		if !close6(c.got, c.want) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if rec.Elements[0].Parameter != 0.6e-6 || rec.Elements[1].Parameter != 1.19e-12 {
		t.Fatalf("parameters = %g, %g", rec.Elements[0].Parameter, rec.Elements[1].Parameter)
	}
}

func TestSeriesResonance(t *testing.T) {
	topo := NewSeries()
	cfg := topo.Defaults()
	l, c := 0.6e-6, 1.19e-12
	f0 := 1 / (2 * math.Pi * math.Sqrt(l*c))
	cfg.Set(Frequency, f0)

	rec := Calculate(topo, cfg)
	xl := 2 * math.Pi * f0 * l
	if got := imag(rec.Total.Impedance); math.Abs(got) > 1e-9*xl {
		t.Fatalf("reactance at resonance = %g, want ~0 (X_L = %g)", got, xl)
	}
	if math.Abs(f0-1.8835e8) > 1e5 {
		t.Fatalf("resonant frequency = %g", f0)
	}
}

func TestParallelCurrentDivider(t *testing.T) {
	topo := NewParallel()
	rec := Calculate(topo, topo.Defaults())

	l, ct := rec.Elements[0], rec.Elements[1]
	if l.Voltage != ct.Voltage {
		t.Fatalf("branch voltages differ: %v vs %v", l.Voltage, ct.Voltage)
	}
	if !close6(l.Current+ct.Current, rec.Total.Current) {
		t.Fatalf("branch currents %v + %v != total %v", l.Current, ct.Current, rec.Total.Current)
	}
	if !close6(rec.Total.Voltage-rec.Total.Current*50, l.Voltage) {
		t.Fatalf("tank voltage %v does not match source drop", l.Voltage)
	}
}

func TestProbeKirchhoff(t *testing.T) {
	topo := NewProbe()
	cfg := topo.Defaults()
	rec := Calculate(topo, cfg)

	l, ct, cc := rec.Elements[0], rec.Elements[1], rec.Elements[2]
	if !close6(l.Current+ct.Current, cc.Current) {
		t.Fatalf("tank currents %v + %v != feed %v", l.Current, ct.Current, cc.Current)
	}
	src := cfg.InputVoltage - rec.Total.Current*cfg.InputImpedance
	if !close6(cc.Voltage+l.Voltage, src) {
		t.Fatalf("loop voltage %v != %v", cc.Voltage+l.Voltage, src)
	}
}

func TestLadderKirchhoff(t *testing.T) {
	topo := NewLadder()
	cfg := topo.Defaults()
	cfg.Set(Frequency, 1e5)
	cfg.Set(ROp, 2)
	cfg.Set(RW, 5)
	cfg.Set(CXe, 2e-7)
	rec := Calculate(topo, cfg)
	e := rec.Elements

	// Series closure and each element obeys V = I·Z
	if !close6(e[ladderROp].Voltage+e[ladderCRb].Voltage, cfg.InputVoltage) {
		t.Fatalf("R_op + C_Rb voltage = %v, want source", e[ladderROp].Voltage+e[ladderCRb].Voltage)
	}
	for _, el := range e {
		if !close6(el.Current*el.Impedance, el.Voltage) {
			t.Errorf("%s: I·Z = %v, V = %v", el.Name, el.Current*el.Impedance, el.Voltage)
		}
	}
	sum := e[ladderCRb].Current + e[ladderRSr].Current + e[ladderCXe].Current + e[ladderRW].Current
	if !close6(sum, rec.Total.Current) {
		t.Fatalf("shunt currents sum to %v, want %v", sum, rec.Total.Current)
	}
	if !close6(e[ladderREx].Voltage+e[ladderRW].Voltage, e[ladderRSr].Voltage) {
		t.Fatalf("R_ex + R_w voltage %v != node voltage %v", e[ladderREx].Voltage+e[ladderRW].Voltage, e[ladderRSr].Voltage)
	}
}

func TestLadderCombinationOrder(t *testing.T) {
	topo := NewLadder()
	cfg := topo.Defaults()
	z := topo.Impedances(cfg)

	par := func(a, b complex128) complex128 { return a * b / (a + b) }
	want := par(par(par(z[ladderRW], z[ladderCXe])+z[ladderREx], z[ladderRSr]), z[ladderCRb]) + z[ladderROp]

	red := topo.Reduce(z, cfg)
	if !close6(red.Impedance, want) {
		t.Fatalf("network impedance = %v, want %v", red.Impedance, want)
	}
	if len(red.Stages) != 5 {
		t.Fatalf("stages = %d, want 5", len(red.Stages))
	}
	// Zero source impedance leaves effective equal to network
	if red.Effective != red.Impedance {
		t.Fatalf("effective %v != network %v", red.Effective, red.Impedance)
	}
}

func TestQuasiStaticIsReal(t *testing.T) {
	topo := NewQuasiStatic()
	if !topo.TimeDependent() {
		t.Fatal("quasistatic must be time dependent")
	}
	cfg := topo.Defaults()
	rec := Calculate(topo, cfg)

	omega := cfg.Omega()
	wantV := math.Cos(omega * 1e-3)
	if math.Abs(real(rec.Total.Voltage)-wantV) > 1e-12 {
		t.Fatalf("drive = %g, want %g", real(rec.Total.Voltage), wantV)
	}
	for _, q := range []Quantity{rec.Total, rec.Elements[0].Quantity, rec.Elements[1].Quantity} {
		if imag(q.Voltage) != 0 || imag(q.Current) != 0 || imag(q.Impedance) != 0 {
			t.Fatalf("quantity %+v has an imaginary part", q)
		}
	}
	if rec.Time != 1e-3 {
		t.Fatalf("time = %g", rec.Time)
	}
}

func TestCalculateLeavesConfigAlone(t *testing.T) {
	for _, name := range Names() {
		topo, err := New(name)
		if err != nil {
			t.Fatal(err)
		}
		cfg := topo.Defaults()
		before := cfg.Clone()
		rec := Calculate(topo, cfg)
		if len(rec.Elements) != len(topo.Components()) {
			t.Fatalf("%s: %d elements, want %d", name, len(rec.Elements), len(topo.Components()))
		}
		for f, v := range before.Params {
			if cfg.Get(f) != v {
				t.Fatalf("%s: %s changed from %g to %g", name, f, v, cfg.Get(f))
			}
		}
	}
}

func TestDefaultsAreIndependent(t *testing.T) {
	topo := NewProbe()
	a := topo.Defaults()
	a.Set(Frequency, 1)
	if b := topo.Defaults(); b.Get(Frequency) != 10e6 {
		t.Fatalf("defaults leaked a change: %g", b.Get(Frequency))
	}
}

func TestLookups(t *testing.T) {
	if _, err := New("bridge"); !errors.Is(err, ErrUnknownTopology) {
		t.Fatalf("New(bridge) err = %v", err)
	}
	if _, err := ParseField("gain"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("ParseField(gain) err = %v", err)
	}
	f, err := ParseField(" Coupling_Capacitance ")
	if err != nil || f != CouplingCapacitance {
		t.Fatalf("ParseField = %q, %v", f, err)
	}
	if got := f.Label(); got != "Coupling capacitance [F]" {
		t.Fatalf("label = %q", got)
	}

	topo := NewProbe()
	if i, err := ComponentIndex(topo, "l"); err != nil || i != 0 {
		t.Fatalf("ComponentIndex(L) = %d, %v", i, err)
	}
	if _, err := ComponentIndex(topo, "R_w"); err == nil {
		t.Fatal("expected missing component error")
	}
	if !HasField(topo, TuningCapacitance) || HasField(topo, ROp) {
		t.Fatal("HasField mismatch")
	}
}
