package main

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/edp1096/lrc-sweep/internal/storage"
	"github.com/edp1096/lrc-sweep/pkg/circuit"
)

func countLines(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		n++
	}
	return n
}

func TestRunUsage(t *testing.T) {
	ctx := context.Background()
	if err := run(ctx, nil); err == nil {
		t.Fatal("expected missing command error")
	}
	if err := run(ctx, []string{"transient"}); err == nil {
		t.Fatal("expected unknown command error")
	}
}

func TestFixedAndShowEveryTopology(t *testing.T) {
	ctx := context.Background()
	for _, name := range circuit.Names() {
		for _, cmd := range []string{"fixed", "show", "diagram", "verify"} {
			if err := run(ctx, []string{cmd, "--topology", name}); err != nil {
				t.Fatalf("%s %s: %v", cmd, name, err)
			}
		}
	}
}

func TestFixedRejectsBadOverrides(t *testing.T) {
	ctx := context.Background()
	tests := [][]string{
		{"fixed", "--topology", "bridge"},
		{"fixed", "--set", "inductance"},
		{"fixed", "--set", "r_w=1"},
		{"fixed", "--set", "inductance=lots"},
		{"fixed", "--vin", "1,x"},
	}
	for _, args := range tests {
		if err := run(ctx, args); err == nil {
			t.Fatalf("%v: expected error", args)
		}
	}
}

func TestClusterSaveExportPlot(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	data := filepath.Join(dir, "data.txt")
	db := filepath.Join(dir, "runs.db")

	args := []string{
		"cluster",
		"--field", "frequency", "--min", "1M", "--max", "100M",
		"--rate", "10",
		"--out", data,
		"--save", "--store", "sqlite", "--db-path", db,
	}
	if err := run(ctx, args); err != nil {
		t.Fatalf("cluster: %v", err)
	}
	if got := countLines(t, data); got != 12 {
		t.Fatalf("exported lines = %d, want header + 11", got)
	}

	store := storage.NewSQLiteStore(db)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init store: %v", err)
	}
	summaries, err := store.ListRuns(ctx)
	_ = store.Close()
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Records != 11 || summaries[0].Mode != "cluster" {
		t.Fatalf("unexpected runs: %+v", summaries)
	}
	id := summaries[0].ID

	if err := run(ctx, []string{"runs", "--store", "sqlite", "--db-path", db}); err != nil {
		t.Fatalf("runs: %v", err)
	}

	exported := filepath.Join(dir, "again.txt")
	if err := run(ctx, []string{"export", "--run", id, "--out", exported, "--store", "sqlite", "--db-path", db}); err != nil {
		t.Fatalf("export: %v", err)
	}
	want, _ := os.ReadFile(data)
	got, _ := os.ReadFile(exported)
	if !bytes.Equal(got, want) {
		t.Fatal("re-exported run differs from the first export")
	}

	image := filepath.Join(dir, "scatter.png")
	if err := run(ctx, []string{"plot", "--run", id, "--image", image, "--store", "sqlite", "--db-path", db}); err != nil {
		t.Fatalf("plot: %v", err)
	}
	if _, err := os.Stat(image); err != nil {
		t.Fatalf("expected image: %v", err)
	}

	if err := run(ctx, []string{"export", "--run", "missing", "--store", "sqlite", "--db-path", db}); err == nil {
		t.Fatal("expected missing run error")
	}
}

func TestNetlistDeck(t *testing.T) {
	deck := filepath.Join(t.TempDir(), "series.cir")
	if err := run(context.Background(), []string{"netlist", "--deck", deck, "--set", "frequency=10M"}); err != nil {
		t.Fatalf("netlist: %v", err)
	}
	data, err := os.ReadFile(deck)
	if err != nil {
		t.Fatalf("read deck: %v", err)
	}
	if !strings.Contains(string(data), ".ac lin 1 1e+07 1e+07") {
		t.Fatalf("deck missing .ac card:\n%s", data)
	}
	if err := run(context.Background(), []string{"netlist", "--topology", "quasistatic"}); err == nil {
		t.Fatal("expected error for the quasi-static topology")
	}
}

func TestDenseHeatmap(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	data := filepath.Join(dir, "dense.txt")
	db := filepath.Join(dir, "runs.db")
	args := []string{
		"dense", "--topology", "probe", "--rate", "4",
		"--outer-min", "10p", "--outer-max", "40p",
		"--inner-min", "1p", "--inner-max", "2p",
		"--out", data,
		"--save", "--store", "sqlite", "--db-path", db,
	}
	if err := run(ctx, args); err != nil {
		t.Fatalf("dense: %v", err)
	}
	if got := countLines(t, data); got != 26 {
		t.Fatalf("exported lines = %d, want header + 25", got)
	}

	store := storage.NewSQLiteStore(db)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init store: %v", err)
	}
	summaries, err := store.ListRuns(ctx)
	_ = store.Close()
	if err != nil || len(summaries) != 1 {
		t.Fatalf("list runs: %v %+v", err, summaries)
	}

	image := filepath.Join(dir, "heat.svg")
	plotArgs := []string{
		"plot", "--run", summaries[0].ID, "--store", "sqlite", "--db-path", db,
		"--x", "tuning capacitance", "--y", "coupling capacitance",
		"--z", "inductor voltage magnitude", "--image", image,
	}
	if err := run(ctx, plotArgs); err != nil {
		t.Fatalf("plot: %v", err)
	}
	if _, err := os.Stat(image); err != nil {
		t.Fatalf("expected image: %v", err)
	}
}

func TestSweepNotPerformedWritesNothing(t *testing.T) {
	data := filepath.Join(t.TempDir(), "data.txt")
	if err := run(context.Background(), []string{"cluster", "--out", data}); err != nil {
		t.Fatalf("cluster: %v", err)
	}
	if _, err := os.Stat(data); !os.IsNotExist(err) {
		t.Fatalf("expected no export, stat err = %v", err)
	}
}

func TestBruteSmallRate(t *testing.T) {
	if err := run(context.Background(), []string{"brute", "--brute-rate", "6"}); err != nil {
		t.Fatalf("brute: %v", err)
	}
}

func TestAlgebra(t *testing.T) {
	ctx := context.Background()
	if err := run(ctx, []string{"algebra", "--op", "parallel", "--z1", "3,4", "--z2", "1,-2"}); err != nil {
		t.Fatalf("algebra: %v", err)
	}
	if err := run(ctx, []string{"algebra", "--op", "modulo"}); err == nil {
		t.Fatal("expected unknown operation error")
	}
}

func TestInteractiveRepromptsAndCancels(t *testing.T) {
	o := newFlagSet("interactive")
	if err := o.parse(nil); err != nil {
		t.Fatalf("parse: %v", err)
	}
	a, err := o.app()
	if err != nil {
		t.Fatalf("app: %v", err)
	}
	defer a.close()
	var out bytes.Buffer
	a.out = &out

	input := strings.Join([]string{
		"x",      // not a menu number
		"2", "2", // change frequency
		"abc", "50M",
		"3", "2", "1", // cluster over frequency
		"",                                      // cancel the minimum
		"3", "5", "3", "4", "1", "-2", "5", "0", // algebra: parallel
		"0",
	}, "\n") + "\n"

	if err := newPrompter(strings.NewReader(input), &out, false).loop(context.Background(), a); err != nil {
		t.Fatalf("loop: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		`invalid input "x"`,
		`invalid input "abc"`,
		"Cancelled.",
		"(2.00e+00)+i(-1.50e+00)",
		"Farewell!",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
	if got := a.session.Committed().Get(circuit.Frequency); got != 50e6 {
		t.Fatalf("committed frequency = %g, want 50e6", got)
	}
	if a.last != nil {
		t.Fatalf("cancelled sweep left %d records", len(a.last))
	}
}

func TestInteractiveEndOfInputQuits(t *testing.T) {
	o := newFlagSet("interactive")
	if err := o.parse([]string{"--topology", "ladder"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	a, err := o.app()
	if err != nil {
		t.Fatalf("app: %v", err)
	}
	var out bytes.Buffer
	a.out = &out
	if err := newPrompter(strings.NewReader("2\n"), &out, true).loop(context.Background(), a); err != nil {
		t.Fatalf("loop: %v", err)
	}
}
