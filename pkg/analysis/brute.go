package analysis

import (
	"context"

	"github.com/edp1096/lrc-sweep/internal/consts"
	"github.com/edp1096/lrc-sweep/pkg/circuit"
)

// BruteForce is a dense sweep over the topology's two dense fields with a
// wide fixed range and a high sampling rate. Records stream into a
// PeakTracker and are not kept.
type BruteForce struct {
	Dense
	Tracker *PeakTracker
}

func NewBruteForce() *BruteForce {
	rng := Range{Min: consts.BruteForceMinimum, Max: consts.BruteForceMaximum}
	b := &BruteForce{}
	b.ranges = [2]Range{rng, rng}
	b.Rate = consts.BruteForceSamplingRate
	return b
}

func (b *BruteForce) Setup(s *Session) error {
	if s != nil {
		outer, inner := s.Topology.DenseFields()
		b.fields = [2]circuit.Field{outer, inner}
		b.Tracker = NewPeakTracker(PeakComponent(s.Topology))
		b.Sink = b.Tracker
	}
	return b.Dense.Setup(s)
}

func (b *BruteForce) Execute(ctx context.Context) error {
	return b.Dense.Execute(ctx)
}

// PeakComponent is the inductor when the topology has one, else the first
// component.
func PeakComponent(t circuit.Topology) int {
	if i, err := circuit.ComponentIndex(t, "L"); err == nil {
		return i
	}
	return 0
}
