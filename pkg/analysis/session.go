package analysis

import (
	"github.com/edp1096/lrc-sweep/pkg/circuit"
)

// Sink receives records as a sweep produces them.
type Sink interface {
	Append(rec circuit.Record)
}

// Log keeps records in calculation order.
type Log struct {
	records []circuit.Record
}

func (l *Log) Append(rec circuit.Record) { l.records = append(l.records, rec) }
func (l *Log) Len() int                  { return len(l.records) }
func (l *Log) Records() []circuit.Record { return l.records }
func (l *Log) Reset()                    { l.records = nil }

// Session holds the state of one interactive or scripted run: the last
// committed values, the working copy sweeps mutate, and the result log.
type Session struct {
	Topology     circuit.Topology
	Working      circuit.Config
	Log          *Log
	committed    circuit.Config
	samplingRate int
}

func NewSession(t circuit.Topology) *Session {
	cfg := t.Defaults()
	return &Session{
		Topology:     t,
		Working:      cfg.Clone(),
		Log:          &Log{},
		committed:    cfg,
		samplingRate: t.SamplingRate(),
	}
}

func (s *Session) Committed() circuit.Config { return s.committed.Clone() }
func (s *Session) SamplingRate() int         { return s.samplingRate }

// Commit sets f in both the committed and working configuration.
func (s *Session) Commit(f circuit.Field, v float64) error {
	if err := checkField(s.Topology, f); err != nil {
		return err
	}
	s.committed.Set(f, v)
	s.Working.Set(f, v)
	return nil
}

func (s *Session) CommitSource(voltage, impedance complex128) {
	s.committed.InputVoltage, s.Working.InputVoltage = voltage, voltage
	s.committed.InputImpedance, s.Working.InputImpedance = impedance, impedance
}

func (s *Session) SetSamplingRate(n int) error {
	if err := checkRate(n); err != nil {
		return err
	}
	s.samplingRate = n
	return nil
}

// Reset clears the log and restores the working configuration to the
// committed values. Both halves always run together.
func (s *Session) Reset() {
	s.resetLists()
	s.resetVariables()
}

func (s *Session) resetLists() {
	s.Log.Reset()
}

func (s *Session) resetVariables() {
	s.Working = s.committed.Clone()
}
