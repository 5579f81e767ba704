package analysis

import (
	"context"
	"fmt"

	"github.com/edp1096/lrc-sweep/pkg/circuit"
)

// Dense is the nested sweep over two fields. The outer field advances once
// per full pass of the inner field, and the inner field returns to its
// minimum after every pass: (rate+1)² records.
type Dense struct {
	BaseAnalysis
	fields [2]circuit.Field
	ranges [2]Range
	steps  [2]float64
	rate   int
	// Rate overrides the session's sampling rate when positive.
	Rate int
}

func NewDense(outer circuit.Field, outerRange Range, inner circuit.Field, innerRange Range) *Dense {
	return &Dense{
		fields: [2]circuit.Field{outer, inner},
		ranges: [2]Range{outerRange, innerRange},
	}
}

func (d *Dense) Setup(s *Session) error {
	if err := d.bind(s); err != nil {
		return err
	}
	if d.fields[0] == d.fields[1] {
		return fmt.Errorf("dense sweep needs two different fields, got %s twice", d.fields[0])
	}
	for _, f := range d.fields {
		if err := checkField(s.Topology, f); err != nil {
			return err
		}
	}

	d.rate = s.SamplingRate()
	if d.Rate > 0 {
		d.rate = d.Rate
	}
	if err := checkRate(d.rate); err != nil {
		return err
	}
	for i, r := range d.ranges {
		d.steps[i] = Step(r.Min, r.Max, d.rate)
	}
	return nil
}

func (d *Dense) Execute(ctx context.Context) error {
	if d.Session == nil {
		return fmt.Errorf("session not set")
	}
	if notPerformed(d.ranges[0], d.ranges[1]) {
		return ErrSweepNotPerformed
	}

	cfg := &d.Session.Working
	outer, inner := d.fields[0], d.fields[1]
	d.tracef("dense(): %s step %g, %s step %g, %d records", outer, d.steps[0], inner, d.steps[1], (d.rate+1)*(d.rate+1))

	done := 0
	outerValue := d.ranges[0].Min
	for i := 0; i <= d.rate; i++ {
		cfg.Set(outer, outerValue)
		innerValue := d.ranges[1].Min
		for j := 0; j <= d.rate; j++ {
			if err := interrupted(ctx, done); err != nil {
				return err
			}
			cfg.Set(inner, innerValue)
			d.calculate()
			done++
			innerValue += d.steps[1]
		}
		outerValue += d.steps[0]
	}
	return nil
}

func (d *Dense) Sweeps() []Sweep {
	return []Sweep{
		{Field: d.fields[0], Range: d.ranges[0], Step: d.steps[0]},
		{Field: d.fields[1], Range: d.ranges[1], Step: d.steps[1]},
	}
}
