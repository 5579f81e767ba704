package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/edp1096/lrc-sweep/internal/consts"
	"github.com/edp1096/lrc-sweep/pkg/analysis"
	"github.com/edp1096/lrc-sweep/pkg/circuit"
	"github.com/edp1096/lrc-sweep/pkg/export"
	"github.com/edp1096/lrc-sweep/pkg/netlist"
	"github.com/edp1096/lrc-sweep/pkg/nodal"
	"github.com/edp1096/lrc-sweep/pkg/phasor"
	"github.com/edp1096/lrc-sweep/pkg/util"
)

// sweeper is an analysis that can report what it swept.
type sweeper interface {
	analysis.Analysis
	Sweeps() []analysis.Sweep
}

func runShow(ctx context.Context, args []string) error {
	o := newFlagSet("show")
	if err := o.parse(args); err != nil {
		return err
	}
	a, err := o.app()
	if err != nil {
		return err
	}
	defer a.close()

	printValues(a.out, a.session)
	fmt.Fprintln(a.out)
	return a.fixed(ctx)
}

func runFixed(ctx context.Context, args []string) error {
	o := newFlagSet("fixed")
	if err := o.parse(args); err != nil {
		return err
	}
	a, err := o.app()
	if err != nil {
		return err
	}
	defer a.close()

	return a.fixed(ctx)
}

func (a *app) fixed(ctx context.Context) error {
	s := a.session
	s.Reset()
	f := analysis.NewFixed()
	f.Trace = a.trace
	if err := f.Setup(s); err != nil {
		return err
	}
	if err := f.Execute(ctx); err != nil {
		return err
	}
	records := s.Log.Records()
	printRecord(a.out, s.Topology, records[0])
	return a.persist(ctx, "fixed", records)
}

func runCluster(ctx context.Context, args []string) error {
	o := newFlagSet("cluster")
	field := o.fs.String("field", string(circuit.Frequency), "field to sweep")
	minText := o.fs.String("min", "", "minimum value, SI prefixes allowed")
	maxText := o.fs.String("max", "", "maximum value, SI prefixes allowed")
	if err := o.parse(args); err != nil {
		return err
	}
	a, err := o.app()
	if err != nil {
		return err
	}
	defer a.close()

	f, err := circuit.ParseField(*field)
	if err != nil {
		return err
	}
	rng, err := parseRange(f, *minText, *maxText)
	if err != nil {
		return err
	}
	return a.sweep(ctx, "cluster", analysis.NewCluster(f, rng))
}

func runDense(ctx context.Context, args []string) error {
	o := newFlagSet("dense")
	outerName := o.fs.String("outer", "", "outer field (default: the topology's first dense field)")
	innerName := o.fs.String("inner", "", "inner field (default: the topology's second dense field)")
	outerMin := o.fs.String("outer-min", "", "outer minimum")
	outerMax := o.fs.String("outer-max", "", "outer maximum")
	innerMin := o.fs.String("inner-min", "", "inner minimum")
	innerMax := o.fs.String("inner-max", "", "inner maximum")
	if err := o.parse(args); err != nil {
		return err
	}
	a, err := o.app()
	if err != nil {
		return err
	}
	defer a.close()

	outer, inner := a.session.Topology.DenseFields()
	if *outerName != "" {
		if outer, err = circuit.ParseField(*outerName); err != nil {
			return err
		}
	}
	if *innerName != "" {
		if inner, err = circuit.ParseField(*innerName); err != nil {
			return err
		}
	}
	outerRange, err := parseRange(outer, *outerMin, *outerMax)
	if err != nil {
		return err
	}
	innerRange, err := parseRange(inner, *innerMin, *innerMax)
	if err != nil {
		return err
	}
	return a.sweep(ctx, "dense", analysis.NewDense(outer, outerRange, inner, innerRange))
}

func parseRange(f circuit.Field, minText, maxText string) (analysis.Range, error) {
	lo, err := parseBound(minText, f)
	if err != nil {
		return analysis.Range{}, err
	}
	hi, err := parseBound(maxText, f)
	if err != nil {
		return analysis.Range{}, err
	}
	return analysis.Range{Min: lo, Max: hi}, nil
}

// sweep runs a cluster or dense analysis from a clean session, then reports
// the peak, exports the records and saves the run when asked to.
func (a *app) sweep(ctx context.Context, mode string, sw sweeper) error {
	s := a.session
	defer s.Reset()
	s.Reset()
	a.last = nil

	if err := a.execute(ctx, sw); err != nil {
		if isNotPerformed(err) {
			fmt.Fprintln(a.out, "Sweep not performed.")
			return nil
		}
		return err
	}

	records := s.Log.Records()
	a.last = records
	fmt.Fprintf(a.out, "%d records\n", len(records))
	if peak, ok := analysis.FindPeak(records, analysis.PeakComponent(s.Topology)); ok {
		printPeak(a.out, s.Topology, peak, sw.Sweeps())
	}
	if err := export.WriteFile(a.file.Output, s.Topology, records); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Data exported to %s.\n", a.file.Output)
	return a.persist(ctx, mode, records)
}

func (a *app) execute(ctx context.Context, an analysis.Analysis) error {
	switch v := an.(type) {
	case *analysis.Cluster:
		v.Trace = a.trace
	case *analysis.Dense:
		v.Trace = a.trace
	case *analysis.BruteForce:
		v.Trace = a.trace
	}
	if err := an.Setup(a.session); err != nil {
		return err
	}
	return an.Execute(ctx)
}

func runBrute(ctx context.Context, args []string) error {
	o := newFlagSet("brute")
	points := o.fs.Int("brute-rate", consts.BruteForceSamplingRate, "sampling rate of both dense fields")
	if err := o.parse(args); err != nil {
		return err
	}
	a, err := o.app()
	if err != nil {
		return err
	}
	defer a.close()

	return a.brute(ctx, *points)
}

func (a *app) brute(ctx context.Context, rate int) error {
	s := a.session
	defer s.Reset()
	s.Reset()

	b := analysis.NewBruteForce()
	b.Rate = rate
	outer, inner := s.Topology.DenseFields()
	fmt.Fprintf(a.out, "Brute force over %s and %s: %d calculations.\n",
		outer.Title(), inner.Title(), (rate+1)*(rate+1))
	if err := a.execute(ctx, b); err != nil {
		return err
	}

	peak, ok := b.Tracker.Peak()
	if !ok {
		fmt.Fprintln(a.out, "No finite result.")
		return nil
	}
	printPeak(a.out, s.Topology, peak, b.Sweeps())
	return a.persist(ctx, "brute", []circuit.Record{peak.Record})
}

func runAlgebra(_ context.Context, args []string) error {
	o := newFlagSet("algebra")
	op := o.fs.String("op", phasor.OpAdd, "operation: add|subtract|multiply|divide|parallel")
	z1Text := o.fs.String("z1", "0", "first operand as re[,im]")
	z2Text := o.fs.String("z2", "0", "second operand as re[,im]")
	if err := o.parse(args); err != nil {
		return err
	}

	z1, err := parseComplex(*z1Text, "")
	if err != nil {
		return err
	}
	z2, err := parseComplex(*z2Text, "")
	if err != nil {
		return err
	}
	z, err := phasor.Apply(*op, z1, z2)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n%s\n", util.FormatComplex(z), util.FormatMagnitudePhase("z", z))
	return nil
}

func runDiagram(_ context.Context, args []string) error {
	o := newFlagSet("diagram")
	if err := o.parse(args); err != nil {
		return err
	}
	a, err := o.app()
	if err != nil {
		return err
	}
	defer a.close()

	t := a.session.Topology
	fmt.Fprintf(a.out, "%s\n%s\n", t.Title(), t.Diagram())
	return nil
}

var errMismatch = errors.New("nodal solution disagrees with reduction")

func runVerify(_ context.Context, args []string) error {
	o := newFlagSet("verify")
	tol := o.fs.Float64("tol", 1e-9, "relative tolerance")
	if err := o.parse(args); err != nil {
		return err
	}
	a, err := o.app()
	if err != nil {
		return err
	}
	defer a.close()

	t := a.session.Topology
	cfg := a.session.Committed()
	if a.trace != nil {
		n := nodal.New(t, cfg)
		n.Trace = a.trace
		if _, err := n.Solve(); err != nil {
			return err
		}
	}
	mismatches, err := nodal.Verify(t, cfg, *tol)
	if err != nil {
		return err
	}
	if len(mismatches) == 0 {
		fmt.Fprintf(a.out, "%s: reduction and nodal solution agree within %g\n", t.Name(), *tol)
		return nil
	}
	for _, m := range mismatches {
		fmt.Fprintln(a.out, m)
	}
	return fmt.Errorf("%w: %d values", errMismatch, len(mismatches))
}

// runNetlist writes the committed circuit as a SPICE deck for an external
// simulator.
func runNetlist(_ context.Context, args []string) error {
	o := newFlagSet("netlist")
	deckPath := o.fs.String("deck", "", "write the deck to this file instead of stdout")
	if err := o.parse(args); err != nil {
		return err
	}
	a, err := o.app()
	if err != nil {
		return err
	}
	defer a.close()

	d, err := netlist.FromTopology(a.session.Topology, a.session.Committed())
	if err != nil {
		return err
	}
	if *deckPath == "" {
		return d.Write(a.out)
	}
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return err
	}
	if err := d.Check(buf.String()); err != nil {
		return fmt.Errorf("deck does not read back: %w", err)
	}
	if err := os.WriteFile(*deckPath, buf.Bytes(), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d elements written to %s\n", len(d.Elements), *deckPath)
	return nil
}
