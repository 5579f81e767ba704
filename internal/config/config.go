package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/edp1096/lrc-sweep/internal/consts"
	"github.com/edp1096/lrc-sweep/pkg/circuit"
	"github.com/edp1096/lrc-sweep/pkg/util"
)

// File is the on-disk configuration. Zero values mean "keep the default".
type File struct {
	Topology       string
	SamplingRate   int
	InputVoltage   *complex128
	InputImpedance *complex128
	Params         map[circuit.Field]float64
	Store          string
	DBPath         string
	Output         string
}

func Default() File {
	return File{
		Topology: "series",
		Store:    consts.StoreKind,
		DBPath:   consts.DBPath,
		Output:   consts.ExportFile,
	}
}

// Load overlays the JSON file at path on Default. An empty path returns
// the defaults.
func Load(path string) (File, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return File{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.overlay(raw); err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *File) overlay(raw map[string]any) error {
	if v, ok := asString(raw["topology"]); ok {
		c.Topology = v
	}
	if v, ok := raw["sampling_rate"]; ok {
		n, err := asCount(v)
		if err != nil {
			return fmt.Errorf("sampling_rate: %w", err)
		}
		c.SamplingRate = n
	}
	if v, ok := asString(raw["store"]); ok {
		c.Store = v
	}
	if v, ok := asString(raw["db_path"]); ok {
		c.DBPath = v
	}
	if v, ok := asString(raw["output"]); ok {
		c.Output = v
	}

	if raw["input_voltage"] != nil {
		z, err := asComplex(raw["input_voltage"], "V")
		if err != nil {
			return fmt.Errorf("input_voltage: %w", err)
		}
		c.InputVoltage = &z
	}
	if raw["input_impedance"] != nil {
		z, err := asComplex(raw["input_impedance"], "Ω")
		if err != nil {
			return fmt.Errorf("input_impedance: %w", err)
		}
		c.InputImpedance = &z
	}

	for _, key := range []string{"frequency", "time"} {
		if raw[key] == nil {
			continue
		}
		if err := c.setParam(key, raw[key]); err != nil {
			return err
		}
	}
	if params, ok := raw["params"].(map[string]any); ok {
		for key, v := range params {
			if err := c.setParam(key, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *File) setParam(key string, v any) error {
	f, err := circuit.ParseField(key)
	if err != nil {
		return err
	}
	val, err := asValue(v, f.Unit())
	if err != nil {
		return fmt.Errorf("%s: %w", f, err)
	}
	if c.Params == nil {
		c.Params = make(map[circuit.Field]float64)
	}
	c.Params[f] = val
	return nil
}

// Apply returns t's defaults with the file's overrides on top. A parameter
// t does not have is an error.
func (c File) Apply(t circuit.Topology) (circuit.Config, error) {
	cfg := t.Defaults()
	if c.InputVoltage != nil {
		cfg.InputVoltage = *c.InputVoltage
	}
	if c.InputImpedance != nil {
		cfg.InputImpedance = *c.InputImpedance
	}

	keys := make([]string, 0, len(c.Params))
	for f := range c.Params {
		keys = append(keys, string(f))
	}
	sort.Strings(keys)
	for _, k := range keys {
		f := circuit.Field(k)
		if !circuit.HasField(t, f) {
			return circuit.Config{}, fmt.Errorf("%w: %s has no %s", circuit.ErrUnknownField, t.Name(), f)
		}
		cfg.Set(f, c.Params[f])
	}
	return cfg, nil
}

// Rate is the configured sampling rate, or t's own when none is set.
func (c File) Rate(t circuit.Topology) int {
	if c.SamplingRate > 0 {
		return c.SamplingRate
	}
	return t.SamplingRate()
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// asCount accepts a positive whole JSON number. 2.7 is an error, not 2.
func asCount(v any) (int, error) {
	x, ok := v.(float64)
	if !ok || x != math.Trunc(x) || x > math.MaxInt32 {
		return 0, &util.InputError{Input: fmt.Sprint(v), Reason: "expected a whole number"}
	}
	if x <= 0 {
		return 0, &util.InputError{Input: fmt.Sprint(v), Reason: "must be positive"}
	}
	return int(x), nil
}

// asValue accepts a JSON number or an SI string such as "1.19p".
func asValue(v any, unit string) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case string:
		return util.ParseValue(x, unit)
	default:
		return 0, fmt.Errorf("unsupported value %v", v)
	}
}

// asComplex accepts a real value or a [re, im] pair.
func asComplex(v any, unit string) (complex128, error) {
	pair, ok := v.([]any)
	if !ok {
		re, err := asValue(v, unit)
		return complex(re, 0), err
	}
	if len(pair) != 2 {
		return 0, fmt.Errorf("want [re, im], got %d values", len(pair))
	}
	re, err := asValue(pair[0], unit)
	if err != nil {
		return 0, err
	}
	im, err := asValue(pair[1], unit)
	if err != nil {
		return 0, err
	}
	return complex(re, im), nil
}
