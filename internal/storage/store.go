package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/edp1096/lrc-sweep/pkg/circuit"
)

type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	ListRuns(ctx context.Context) ([]RunSummary, error)
}

// Run is one completed analysis together with the committed values it ran
// against.
type Run struct {
	ID           string
	Topology     string
	Mode         string
	CreatedAt    time.Time
	SamplingRate int
	Config       circuit.Config
	Records      []circuit.Record
}

type RunSummary struct {
	ID        string
	Topology  string
	Mode      string
	CreatedAt time.Time
	Records   int
}

func NewRun(topology, mode string, rate int, cfg circuit.Config, records []circuit.Record) Run {
	return Run{
		ID:           uuid.NewString(),
		Topology:     topology,
		Mode:         mode,
		CreatedAt:    time.Now().UTC(),
		SamplingRate: rate,
		Config:       cfg.Clone(),
		Records:      records,
	}
}

func (r Run) Summary() RunSummary {
	return RunSummary{
		ID:        r.ID,
		Topology:  r.Topology,
		Mode:      r.Mode,
		CreatedAt: r.CreatedAt,
		Records:   len(r.Records),
	}
}
