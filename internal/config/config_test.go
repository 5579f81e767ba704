package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/edp1096/lrc-sweep/internal/consts"
	"github.com/edp1096/lrc-sweep/pkg/circuit"
	"github.com/edp1096/lrc-sweep/pkg/util"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lrc.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Topology != "series" || cfg.Store != consts.StoreKind || cfg.Output != consts.ExportFile {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := writeConfig(t, `{
		"topology": "probe",
		"sampling_rate": 40,
		"input_voltage": [2, 0.5],
		"input_impedance": "75",
		"frequency": "12M",
		"params": {"Tuning_Capacitance": "30pF", "inductance": 1e-6},
		"store": "sqlite",
		"db_path": "runs.db"
	}`)
	file, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if file.Topology != "probe" || file.Store != "sqlite" || file.DBPath != "runs.db" {
		t.Fatalf("unexpected file: %+v", file)
	}
	if file.Output != consts.ExportFile {
		t.Fatalf("output = %q, want default", file.Output)
	}

	top, err := circuit.New(file.Topology)
	if err != nil {
		t.Fatalf("topology: %v", err)
	}
	if got := file.Rate(top); got != 40 {
		t.Fatalf("rate = %d, want 40", got)
	}
	cfg, err := file.Apply(top)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.InputVoltage != complex(2, 0.5) || cfg.InputImpedance != complex(75, 0) {
		t.Fatalf("source = %v / %v", cfg.InputVoltage, cfg.InputImpedance)
	}
	tests := []struct {
		field circuit.Field
		want  float64
	}{
		{circuit.Frequency, 12e6},
		{circuit.TuningCapacitance, 30e-12},
		{circuit.Inductance, 1e-6},
		{circuit.CouplingCapacitance, consts.CouplingCapacitance},
	}
	for _, tt := range tests {
		got := cfg.Get(tt.field)
		if diff := got - tt.want; diff > tt.want*1e-12 || diff < -tt.want*1e-12 {
			t.Fatalf("%s = %g, want %g", tt.field, got, tt.want)
		}
	}
}

func TestRateFallsBackToTopology(t *testing.T) {
	top, _ := circuit.New("ladder")
	if got := Default().Rate(top); got != consts.LadderSamplingRate {
		t.Fatalf("rate = %d, want %d", got, consts.LadderSamplingRate)
	}
}

func TestApplyRejectsForeignField(t *testing.T) {
	path := writeConfig(t, `{"params": {"r_w": 3}}`)
	file, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	top, _ := circuit.New("series")
	if _, err := file.Apply(top); !errors.Is(err, circuit.ErrUnknownField) {
		t.Fatalf("apply err = %v, want ErrUnknownField", err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{`},
		{"unknown field", `{"params": {"resistance": 1}}`},
		{"bad value", `{"frequency": "fast"}`},
		{"bad pair", `{"input_voltage": [1, 2, 3]}`},
		{"bad rate", `{"sampling_rate": 0}`},
		{"fractional rate", `{"sampling_rate": 2.7}`},
		{"text rate", `{"sampling_rate": "many"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected missing file error")
	}
}

func TestFractionalSamplingRateIsInputError(t *testing.T) {
	_, err := Load(writeConfig(t, `{"sampling_rate": 2.7}`))
	var inputErr *util.InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("err = %v, want *util.InputError", err)
	}

	cfg, err := Load(writeConfig(t, `{"sampling_rate": 3.0}`))
	if err != nil || cfg.SamplingRate != 3 {
		t.Fatalf("rate = %d, err = %v", cfg.SamplingRate, err)
	}
}
