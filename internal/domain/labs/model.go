package labs

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownLab = errors.New("unknown lab")

// LabName identifies one of the clinical markers recognised in lab reports.
type LabName string

const (
	Glucose      LabName = "Glucose"
	Testosterone LabName = "Testosterone"
	Estradiol    LabName = "Estradiol"
	TSH          LabName = "TSH"
	FreeT3       LabName = "Free T3"
	FreeT4       LabName = "Free T4"
)

var allLabs = []LabName{Glucose, Testosterone, Estradiol, TSH, FreeT3, FreeT4}

// AllLabs returns every recognised lab in display order.
func AllLabs() []LabName {
	out := make([]LabName, len(allLabs))
	copy(out, allLabs)
	return out
}

// IsKnown reports whether n is one of the recognised labs.
func (n LabName) IsKnown() bool {
	for _, l := range allLabs {
		if l == n {
			return true
		}
	}
	return false
}

// Result maps a lab to the value found for it. Labs that were not found are
// absent, never zero.
type Result map[LabName]float64

// Entry is a single lab/value pair.
type Entry struct {
	Lab   LabName `json:"lab"`
	Value float64 `json:"value"`
}

// Sorted returns the present labs in display order.
func (r Result) Sorted() []Entry {
	var out []Entry
	for _, l := range allLabs {
		if v, ok := r[l]; ok {
			out = append(out, Entry{Lab: l, Value: v})
		}
	}
	return out
}

// Validate rejects lab names outside the recognised set.
func (r Result) Validate() error {
	for name := range r {
		if !name.IsKnown() {
			return fmt.Errorf("%w: %s", ErrUnknownLab, name)
		}
	}
	return nil
}

// Summary serializes the result into the text blob stored with a patient
// record. An empty result serializes to "{}".
func (r Result) Summary() string {
	if len(r) == 0 {
		return "{}"
	}
	b, err := json.Marshal(map[LabName]float64(r))
	if err != nil {
		return "{}"
	}
	return string(b)
}

// ParseSummary decodes a blob produced by Summary. Unknown lab names are
// rejected.
func ParseSummary(s string) (Result, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Result{}, nil
	}
	var raw map[LabName]float64
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("decode lab summary: %w", err)
	}
	out := Result(raw)
	if out == nil {
		out = Result{}
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// FormatValue renders a lab value without trailing zeros ("110", "2.35").
func FormatValue(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}
