package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/edp1096/lrc-sweep/pkg/circuit"
)

const CurrentSchemaVersion = 1

var ErrVersionMismatch = errors.New("record version mismatch")

// number is a float64 that survives JSON even when it is Inf or NaN, which
// sweeps through resonance routinely produce.
type number float64

func (n number) MarshalJSON() ([]byte, error) {
	v := float64(n)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func (n *number) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*n = number(v)
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*n = number(v)
	return nil
}

// phasor is stored as [re, im].
type phasor [2]number

func toPhasor(z complex128) phasor { return phasor{number(real(z)), number(imag(z))} }

func (p phasor) complex() complex128 { return complex(float64(p[0]), float64(p[1])) }

type quantityPayload struct {
	Voltage   phasor `json:"v"`
	Current   phasor `json:"i"`
	Impedance phasor `json:"z"`
}

type elementPayload struct {
	Name      string          `json:"name"`
	Parameter number          `json:"parameter"`
	Quantity  quantityPayload `json:"quantity"`
}

type recordPayload struct {
	Frequency number           `json:"frequency"`
	Time      number           `json:"time"`
	Total     quantityPayload  `json:"total"`
	Elements  []elementPayload `json:"elements"`
}

type runPayload struct {
	SchemaVersion  int               `json:"schema_version"`
	ID             string            `json:"id"`
	Topology       string            `json:"topology"`
	Mode           string            `json:"mode"`
	CreatedAt      time.Time         `json:"created_at"`
	SamplingRate   int               `json:"sampling_rate"`
	InputVoltage   phasor            `json:"input_voltage"`
	InputImpedance phasor            `json:"input_impedance"`
	Params         map[string]number `json:"params"`
	Records        []recordPayload   `json:"records"`
}

func toQuantityPayload(q circuit.Quantity) quantityPayload {
	return quantityPayload{
		Voltage:   toPhasor(q.Voltage),
		Current:   toPhasor(q.Current),
		Impedance: toPhasor(q.Impedance),
	}
}

func (q quantityPayload) quantity() circuit.Quantity {
	return circuit.Quantity{
		Voltage:   q.Voltage.complex(),
		Current:   q.Current.complex(),
		Impedance: q.Impedance.complex(),
	}
}

func EncodeRun(run Run) ([]byte, error) {
	p := runPayload{
		SchemaVersion:  CurrentSchemaVersion,
		ID:             run.ID,
		Topology:       run.Topology,
		Mode:           run.Mode,
		CreatedAt:      run.CreatedAt,
		SamplingRate:   run.SamplingRate,
		InputVoltage:   toPhasor(run.Config.InputVoltage),
		InputImpedance: toPhasor(run.Config.InputImpedance),
		Params:         make(map[string]number, len(run.Config.Params)),
		Records:        make([]recordPayload, 0, len(run.Records)),
	}
	for f, v := range run.Config.Params {
		p.Params[string(f)] = number(v)
	}
	for _, rec := range run.Records {
		rp := recordPayload{
			Frequency: number(rec.Frequency),
			Time:      number(rec.Time),
			Total:     toQuantityPayload(rec.Total),
			Elements:  make([]elementPayload, 0, len(rec.Elements)),
		}
		for _, el := range rec.Elements {
			rp.Elements = append(rp.Elements, elementPayload{
				Name:      el.Name,
				Parameter: number(el.Parameter),
				Quantity:  toQuantityPayload(el.Quantity),
			})
		}
		p.Records = append(p.Records, rp)
	}
	return json.Marshal(p)
}

func DecodeRun(data []byte) (Run, error) {
	var p runPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return Run{}, err
	}
	if p.SchemaVersion != CurrentSchemaVersion {
		return Run{}, fmt.Errorf("%w: schema=%d", ErrVersionMismatch, p.SchemaVersion)
	}

	run := Run{
		ID:           p.ID,
		Topology:     p.Topology,
		Mode:         p.Mode,
		CreatedAt:    p.CreatedAt,
		SamplingRate: p.SamplingRate,
		Config: circuit.Config{
			InputVoltage:   p.InputVoltage.complex(),
			InputImpedance: p.InputImpedance.complex(),
			Params:         make(map[circuit.Field]float64, len(p.Params)),
		},
		Records: make([]circuit.Record, 0, len(p.Records)),
	}
	for k, v := range p.Params {
		run.Config.Params[circuit.Field(k)] = float64(v)
	}
	for _, rp := range p.Records {
		rec := circuit.Record{
			Frequency: float64(rp.Frequency),
			Time:      float64(rp.Time),
			Total:     rp.Total.quantity(),
			Elements:  make([]circuit.ElementResult, 0, len(rp.Elements)),
		}
		for _, ep := range rp.Elements {
			rec.Elements = append(rec.Elements, circuit.ElementResult{
				Name:      ep.Name,
				Parameter: float64(ep.Parameter),
				Quantity:  ep.Quantity.quantity(),
			})
		}
		run.Records = append(run.Records, rec)
	}
	return run, nil
}
