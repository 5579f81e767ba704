package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/edp1096/lrc-sweep/internal/storage"
	"github.com/edp1096/lrc-sweep/pkg/circuit"
	"github.com/edp1096/lrc-sweep/pkg/export"
	"github.com/edp1096/lrc-sweep/pkg/plot"
)

func runRuns(ctx context.Context, args []string) error {
	o := newFlagSet("runs")
	limit := o.fs.Int("limit", 20, "max runs to list")
	if err := o.parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}
	a, err := o.app()
	if err != nil {
		return err
	}
	defer a.close()

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	summaries, err := store.ListRuns(ctx)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Fprintln(a.out, "no runs found")
		return nil
	}
	if len(summaries) > *limit {
		summaries = summaries[len(summaries)-*limit:]
	}
	for _, s := range summaries {
		fmt.Fprintf(a.out, "%s  %s  %-11s %-7s %d records\n",
			s.ID, s.CreatedAt.Format(time.RFC3339), s.Topology, s.Mode, s.Records)
	}
	return nil
}

func (a *app) loadRun(ctx context.Context, id string) (storage.Run, circuit.Topology, error) {
	if id == "" {
		return storage.Run{}, nil, errors.New("run id is required")
	}
	store, err := a.openStore(ctx)
	if err != nil {
		return storage.Run{}, nil, err
	}
	run, ok, err := store.GetRun(ctx, id)
	if err != nil {
		return storage.Run{}, nil, err
	}
	if !ok {
		return storage.Run{}, nil, fmt.Errorf("run not found: %s", id)
	}
	t, err := circuit.New(run.Topology)
	if err != nil {
		return storage.Run{}, nil, err
	}
	return run, t, nil
}

func runExport(ctx context.Context, args []string) error {
	o := newFlagSet("export")
	runID := o.fs.String("run", "", "stored run id")
	if err := o.parse(args); err != nil {
		return err
	}
	a, err := o.app()
	if err != nil {
		return err
	}
	defer a.close()

	run, t, err := a.loadRun(ctx, *runID)
	if err != nil {
		return err
	}
	if err := export.WriteFile(a.file.Output, t, run.Records); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "exported %d records of run %s to %s\n", len(run.Records), run.ID, a.file.Output)
	return nil
}

func runPlot(ctx context.Context, args []string) error {
	o := newFlagSet("plot")
	runID := o.fs.String("run", "", "stored run id")
	x := o.fs.String("x", "frequency", "x-axis column")
	y := o.fs.String("y", "inductor voltage magnitude", "y-axis column")
	z := o.fs.String("z", "", "z-axis column; draws a heat map when set")
	image := o.fs.String("image", "plot.png", "output image, format from extension")
	columns := o.fs.Bool("columns", false, "list the available columns and exit")
	if err := o.parse(args); err != nil {
		return err
	}
	a, err := o.app()
	if err != nil {
		return err
	}
	defer a.close()

	if *columns {
		fmt.Fprintln(a.out, strings.Join(export.AxisTitles(a.session.Topology), "\n"))
		return nil
	}
	run, t, err := a.loadRun(ctx, *runID)
	if err != nil {
		return err
	}
	return a.plot(t, run.Records, *x, *y, *z, *image)
}

func (a *app) plot(t circuit.Topology, records []circuit.Record, x, y, z, image string) error {
	var err error
	if z == "" {
		err = plot.Scatter(t, records, x, y, image)
	} else {
		err = plot.Heatmap(t, records, x, y, z, image)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "plot written to %s\n", image)
	return nil
}
