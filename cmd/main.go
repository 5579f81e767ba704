package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/edp1096/lrc-sweep/internal/config"
	"github.com/edp1096/lrc-sweep/internal/storage"
	"github.com/edp1096/lrc-sweep/pkg/analysis"
	"github.com/edp1096/lrc-sweep/pkg/circuit"
	"github.com/edp1096/lrc-sweep/pkg/util"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "show":
		return runShow(ctx, args[1:])
	case "fixed":
		return runFixed(ctx, args[1:])
	case "cluster":
		return runCluster(ctx, args[1:])
	case "dense":
		return runDense(ctx, args[1:])
	case "brute":
		return runBrute(ctx, args[1:])
	case "algebra":
		return runAlgebra(ctx, args[1:])
	case "diagram":
		return runDiagram(ctx, args[1:])
	case "verify":
		return runVerify(ctx, args[1:])
	case "netlist":
		return runNetlist(ctx, args[1:])
	case "plot":
		return runPlot(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	case "interactive":
		return runInteractive(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: lrc <show|fixed|cluster|dense|brute|algebra|diagram|verify|netlist|plot|runs|export|interactive> [flags]", msg)
}

// setList collects repeated --set field=value flags.
type setList []string

func (s *setList) String() string { return strings.Join(*s, ",") }

func (s *setList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// options are the flags every command shares. Flags given on the command
// line override the config file.
type options struct {
	fs         *flag.FlagSet
	configPath *string
	topology   *string
	rate       *int
	storeKind  *string
	dbPath     *string
	output     *string
	vin        *string
	zin        *string
	trace      *bool
	save       *bool
	sets       setList
}

func newFlagSet(name string) *options {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	o := &options{fs: fs}
	o.configPath = fs.String("config", "", "path to JSON config file")
	o.topology = fs.String("topology", "series", "circuit: "+strings.Join(circuit.Names(), "|"))
	o.rate = fs.Int("rate", 0, "sampling rate (0 keeps the topology default)")
	o.storeKind = fs.String("store", "memory", "store backend: memory|sqlite")
	o.dbPath = fs.String("db-path", "lrc.db", "sqlite database path")
	o.output = fs.String("out", "", "export file path")
	o.vin = fs.String("vin", "", "source voltage as re[,im]")
	o.zin = fs.String("zin", "", "source impedance as re[,im]")
	o.trace = fs.Bool("trace", false, "trace calculations to stderr")
	o.save = fs.Bool("save", false, "save the run to the store")
	fs.Var(&o.sets, "set", "field=value override, repeatable")
	return o
}

func (o *options) parse(args []string) error {
	return o.fs.Parse(args)
}

// app carries what every command needs once the flags are resolved.
type app struct {
	session *analysis.Session
	file    config.File
	trace   *log.Logger
	save    bool
	out     io.Writer
	// last holds the records of the latest sweep for plotting.
	last []circuit.Record

	store     storage.Store
	storeOpen bool
}

func (o *options) app() (*app, error) {
	setFlags := make(map[string]bool)
	o.fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	file, err := config.Load(*o.configPath)
	if err != nil {
		return nil, err
	}
	if setFlags["topology"] {
		file.Topology = *o.topology
	}
	if setFlags["rate"] {
		file.SamplingRate = *o.rate
	}
	if setFlags["store"] {
		file.Store = *o.storeKind
	}
	if setFlags["db-path"] {
		file.DBPath = *o.dbPath
	}
	if setFlags["out"] {
		file.Output = *o.output
	}
	if *o.vin != "" {
		z, err := parseComplex(*o.vin, "V")
		if err != nil {
			return nil, fmt.Errorf("vin: %w", err)
		}
		file.InputVoltage = &z
	}
	if *o.zin != "" {
		z, err := parseComplex(*o.zin, "Ω")
		if err != nil {
			return nil, fmt.Errorf("zin: %w", err)
		}
		file.InputImpedance = &z
	}

	t, err := circuit.New(file.Topology)
	if err != nil {
		return nil, err
	}
	for _, kv := range o.sets {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("set %q: want field=value", kv)
		}
		f, err := circuit.ParseField(name)
		if err != nil {
			return nil, err
		}
		v, err := util.ParseValue(value, f.Unit())
		if err != nil {
			return nil, err
		}
		if file.Params == nil {
			file.Params = make(map[circuit.Field]float64)
		}
		file.Params[f] = v
	}

	a := &app{file: file, save: *o.save, out: os.Stdout}
	if *o.trace {
		a.trace = log.New(os.Stderr, "trace: ", log.Lmicroseconds)
	}
	if err := a.load(t); err != nil {
		return nil, err
	}
	return a, nil
}

// load starts a fresh session on t with the file's values committed.
func (a *app) load(t circuit.Topology) error {
	cfg, err := a.file.Apply(t)
	if err != nil {
		return err
	}
	s := analysis.NewSession(t)
	for f, v := range cfg.Params {
		if !circuit.HasField(t, f) {
			continue
		}
		if err := s.Commit(f, v); err != nil {
			return err
		}
	}
	s.CommitSource(cfg.InputVoltage, cfg.InputImpedance)
	if err := s.SetSamplingRate(a.file.Rate(t)); err != nil {
		return err
	}
	a.session = s
	return nil
}

func (a *app) openStore(ctx context.Context) (storage.Store, error) {
	if a.storeOpen {
		return a.store, nil
	}
	store, err := storage.NewStore(a.file.Store, a.file.DBPath)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		_ = storage.CloseIfSupported(store)
		return nil, err
	}
	a.store, a.storeOpen = store, true
	return store, nil
}

func (a *app) close() {
	if a.storeOpen {
		_ = storage.CloseIfSupported(a.store)
		a.storeOpen = false
	}
}

func (a *app) persist(ctx context.Context, mode string, records []circuit.Record) error {
	if !a.save {
		return nil
	}
	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	s := a.session
	run := storage.NewRun(s.Topology.Name(), mode, s.SamplingRate(), s.Committed(), records)
	if err := store.SaveRun(ctx, run); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "saved run %s (%d records)\n", run.ID, len(run.Records))
	return nil
}

// parseComplex accepts "re" or "re,im".
func parseComplex(text, unit string) (complex128, error) {
	reText, imText, hasIm := strings.Cut(text, ",")
	re, err := util.ParseValue(reText, unit)
	if err != nil {
		return 0, err
	}
	if !hasIm {
		return complex(re, 0), nil
	}
	im, err := util.ParseValue(imText, unit)
	if err != nil {
		return 0, err
	}
	return complex(re, im), nil
}

func parseBound(text string, f circuit.Field) (float64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}
	return util.ParseValue(text, f.Unit())
}

func isNotPerformed(err error) bool {
	return errors.Is(err, analysis.ErrSweepNotPerformed)
}
