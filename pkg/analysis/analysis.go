package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/exp/constraints"

	"github.com/edp1096/lrc-sweep/pkg/circuit"
	"github.com/edp1096/lrc-sweep/pkg/util"
)

var (
	// ErrSweepNotPerformed is returned when the bounds of a sweep sum to zero.
	ErrSweepNotPerformed = errors.New("sweep not performed")
	// ErrCancelled marks an explicit cancel at a prompt.
	ErrCancelled = errors.New("cancelled")
)

type InputError = util.InputError

type Analysis interface {
	Setup(s *Session) error
	Execute(ctx context.Context) error
}

type BaseAnalysis struct {
	Session *Session
	Sink    Sink
	Trace   *log.Logger
}

func (a *BaseAnalysis) bind(s *Session) error {
	if s == nil {
		return fmt.Errorf("session not set")
	}
	a.Session = s
	if a.Sink == nil {
		a.Sink = s.Log
	}
	return nil
}

func (a *BaseAnalysis) tracef(format string, args ...any) {
	if a.Trace != nil {
		a.Trace.Printf(format, args...)
	}
}

// calculate runs one reduce+solve on the working configuration and
// appends the whole record.
func (a *BaseAnalysis) calculate() {
	s := a.Session
	rec := circuit.Calculate(s.Topology, s.Working)
	a.tracef("calculate(): f=%s I=%s Z=%s", util.FormatFrequency(rec.Frequency),
		util.FormatComplex(rec.Total.Current), util.FormatComplex(rec.Total.Impedance))
	a.Sink.Append(rec)
}

// Range is the closed interval a field is swept over.
type Range struct {
	Min, Max float64
}

// notPerformed reports bounds that sum to zero, the marker for "do not
// sweep". Symmetric ranges such as -1..1 match too.
func notPerformed(ranges ...Range) bool {
	sum := 0.0
	for _, r := range ranges {
		sum += r.Min + r.Max
	}
	return sum == 0
}

func Step[T constraints.Float](min, max T, n int) T {
	return (max - min) / T(n)
}

// Sweep describes one swept dimension after it ran.
type Sweep struct {
	Field circuit.Field
	Range
	Step float64
}

func checkRate(n int) error {
	if n <= 0 {
		return &InputError{Input: fmt.Sprint(n), Reason: "sampling rate must be positive"}
	}
	return nil
}

func checkField(t circuit.Topology, f circuit.Field) error {
	if !circuit.HasField(t, f) {
		return fmt.Errorf("%w: %s is not a field of %s", circuit.ErrUnknownField, f, t.Name())
	}
	return nil
}

func interrupted(ctx context.Context, done int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("sweep stopped after %d records: %w", done, err)
	}
	return nil
}
