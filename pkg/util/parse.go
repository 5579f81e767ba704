package util

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// InputError reports a malformed entry. Callers re-prompt on it.
type InputError struct {
	Input  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Input, e.Reason)
}

// ParseValue accepts plain and scientific notation ("0.6e-6") as well as
// SI prefixes with an optional unit ("40M", "1.19pF", "25.2 pF", "0.6uH").
// A unit other than the expected one is rejected.
func ParseValue(text, unit string) (float64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, &InputError{Input: text, Reason: "empty"}
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}

	// humanize only knows the micro sign
	s = strings.Replace(s, "u", "µ", 1)
	v, got, err := humanize.ParseSI(s)
	if err != nil {
		return 0, &InputError{Input: text, Reason: "not a number"}
	}
	got = strings.TrimSpace(got)
	if got != "" && !strings.EqualFold(got, unit) {
		return 0, &InputError{Input: text, Reason: fmt.Sprintf("unexpected unit %q", got)}
	}
	return v, nil
}

// ParseInt parses a positive count such as a sampling rate.
func ParseInt(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, &InputError{Input: text, Reason: "not an integer"}
	}
	if n <= 0 {
		return 0, &InputError{Input: text, Reason: "must be positive"}
	}
	return n, nil
}
