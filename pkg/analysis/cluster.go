package analysis

import (
	"context"
	"fmt"

	"github.com/edp1096/lrc-sweep/pkg/circuit"
)

// Cluster sweeps one field from Min to Max in samplingRate equal steps,
// producing samplingRate+1 records.
type Cluster struct {
	BaseAnalysis
	field circuit.Field
	rng   Range
	rate  int
	step  float64
}

func NewCluster(field circuit.Field, rng Range) *Cluster {
	return &Cluster{field: field, rng: rng}
}

func (c *Cluster) Setup(s *Session) error {
	if err := c.bind(s); err != nil {
		return err
	}
	if err := checkField(s.Topology, c.field); err != nil {
		return err
	}
	c.rate = s.SamplingRate()
	if err := checkRate(c.rate); err != nil {
		return err
	}
	c.step = Step(c.rng.Min, c.rng.Max, c.rate)
	return nil
}

func (c *Cluster) Execute(ctx context.Context) error {
	if c.Session == nil {
		return fmt.Errorf("session not set")
	}
	if notPerformed(c.rng) {
		return ErrSweepNotPerformed
	}

	cfg := &c.Session.Working
	c.tracef("cluster(): %s from %g to %g, step %g", c.field, c.rng.Min, c.rng.Max, c.step)

	value := c.rng.Min
	for i := 0; i <= c.rate; i++ {
		if err := interrupted(ctx, i); err != nil {
			return err
		}
		cfg.Set(c.field, value)
		c.calculate()
		value += c.step
	}
	return nil
}

func (c *Cluster) Sweeps() []Sweep {
	return []Sweep{{Field: c.field, Range: c.rng, Step: c.step}}
}
