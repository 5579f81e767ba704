package nodal

import (
	"math/cmplx"
	"testing"

	"github.com/edp1096/lrc-sweep/pkg/circuit"
)

func TestVerifyDefaults(t *testing.T) {
	for _, name := range circuit.Names() {
		t.Run(name, func(t *testing.T) {
			topo, err := circuit.New(name)
			if err != nil {
				t.Fatal(err)
			}
			mismatches, err := Verify(topo, topo.Defaults(), 1e-9)
			if err != nil {
				t.Fatal(err)
			}
			for _, m := range mismatches {
				t.Error(m)
			}
		})
	}
}

func TestVerifyOffDefaults(t *testing.T) {
	tests := []struct {
		topology string
		set      map[circuit.Field]float64
	}{
		{"series", map[circuit.Field]float64{circuit.Frequency: 188e6}},
		{"parallel", map[circuit.Field]float64{circuit.Frequency: 1e6, circuit.InductorResistance: 3}},
		{"probe", map[circuit.Field]float64{circuit.Frequency: 40e6, circuit.CouplingCapacitance: 5e-12}},
		{"ladder", map[circuit.Field]float64{circuit.Frequency: 1e5, circuit.ROp: 2, circuit.REx: 3, circuit.CXe: 2e-7}},
		{"ladder", map[circuit.Field]float64{circuit.RW: 0}},
		{"series", map[circuit.Field]float64{circuit.InductorResistance: 0}},
	}
	for _, tt := range tests {
		topo, err := circuit.New(tt.topology)
		if err != nil {
			t.Fatal(err)
		}
		cfg := topo.Defaults()
		for f, v := range tt.set {
			cfg.Set(f, v)
		}
		mismatches, err := Verify(topo, cfg, 1e-9)
		if err != nil {
			t.Fatalf("%s %v: %v", tt.topology, tt.set, err)
		}
		for _, m := range mismatches {
			t.Errorf("%s %v: %s", tt.topology, tt.set, m)
		}
	}
}

func TestSourceCurrentMatchesOhm(t *testing.T) {
	topo := circuit.NewSeries()
	cfg := topo.Defaults()
	sol, err := Solve(topo, cfg)
	if err != nil {
		t.Fatal(err)
	}
	rec := circuit.Calculate(topo, cfg)
	want := cfg.InputVoltage / (rec.Total.Impedance + cfg.InputImpedance)
	if cmplx.Abs(sol.Current-want) > 1e-9*cmplx.Abs(want) {
		t.Fatalf("source current = %v, want %v", sol.Current, want)
	}
	if v := sol.Nodes[circuit.InputNode]; cmplx.Abs(v-(cfg.InputVoltage-want*cfg.InputImpedance)) > 1e-9 {
		t.Fatalf("input node voltage = %v", v)
	}
}

func TestNodeAndBranchNumbering(t *testing.T) {
	topo := circuit.NewLadder()
	cfg := topo.Defaults()
	cfg.Set(circuit.RW, 0)

	n := New(topo, cfg)
	n.AssignNodeBranchMaps()

	// Zero source impedance drives node 1 directly
	if _, ok := n.nodeMap[sourceNode]; ok {
		t.Fatal("source node allocated for a zero source impedance")
	}
	if len(n.nodeMap) != 3 {
		t.Fatalf("nodes = %v", n.nodeMap)
	}
	if n.branchMap[sourceBranch] != 4 || n.branchMap["R_w"] != 5 {
		t.Fatalf("branches = %v", n.branchMap)
	}
}

func TestLadderWithSourceImpedance(t *testing.T) {
	topo, err := circuit.New("ladder")
	if err != nil {
		t.Fatal(err)
	}
	cfg := topo.Defaults()
	cfg.InputImpedance = complex(50, 10)
	cfg.Set(circuit.Frequency, 1e4)
	mismatches, err := Verify(topo, cfg, 1e-9)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range mismatches {
		t.Error(m)
	}
}

func TestTotalCurrentWithHugeNetworkImpedance(t *testing.T) {
	topo, err := circuit.New("quasistatic")
	if err != nil {
		t.Fatal(err)
	}
	cfg := topo.Defaults()
	rec := circuit.Calculate(topo, cfg)
	if z := cmplx.Abs(rec.Total.Impedance); z < 1e12 {
		t.Fatalf("network impedance = %g, want a near-open circuit", z)
	}
	sol, err := Solve(topo, cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := rec.Total.Current
	if cmplx.Abs(sol.Current-want) > 1e-9*cmplx.Abs(want) {
		t.Fatalf("total current = %v, want %v", sol.Current, want)
	}
}
