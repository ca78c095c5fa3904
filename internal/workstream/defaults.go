package workstream

import "fmt"

// MaxThreadsPerBatch caps the number of threads in a single batch.
const MaxThreadsPerBatch = 8

// Estimate is the coarse size of a workstream.
type Estimate string

const (
	EstimateShort  Estimate = "short"
	EstimateMedium Estimate = "medium"
	EstimateLong   Estimate = "long"
)

// Range is an inclusive integer range.
type Range struct {
	Min int `json:"min" yaml:"min" toml:"min"`
	Max int `json:"max" yaml:"max" toml:"max"`
}

func (r Range) String() string {
	if r.Min == r.Max {
		return fmt.Sprintf("%d", r.Min)
	}
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// SessionEstimate is how many working sessions an estimate maps to and how
// long each session runs, in minutes.
type SessionEstimate struct {
	Sessions Range `json:"sessions" yaml:"sessions" toml:"sessions"`
	Minutes  Range `json:"minutes" yaml:"minutes" toml:"minutes"`
}

func (e SessionEstimate) String() string {
	return fmt.Sprintf("%s sessions, %s min each", e.Sessions, e.Minutes)
}

// Structure is the advisory shape used when a workstream is created. It is
// not enforced afterwards.
type Structure struct {
	Stages     int `json:"stages" yaml:"stages" toml:"stages"`
	Supertasks int `json:"supertasks" yaml:"supertasks" toml:"supertasks"` // threads per stage
	Subtasks   int `json:"subtasks" yaml:"subtasks" toml:"subtasks"`       // tasks per thread
}

// DefaultSessionEstimates maps each estimate to its session budget.
var DefaultSessionEstimates = map[Estimate]SessionEstimate{
	EstimateShort:  {Sessions: Range{Min: 1, Max: 2}, Minutes: Range{Min: 30, Max: 60}},
	EstimateMedium: {Sessions: Range{Min: 3, Max: 5}, Minutes: Range{Min: 45, Max: 90}},
	EstimateLong:   {Sessions: Range{Min: 6, Max: 10}, Minutes: Range{Min: 60, Max: 120}},
}

// DefaultStructure maps each estimate to its creation template.
var DefaultStructure = map[Estimate]Structure{
	EstimateShort:  {Stages: 1, Supertasks: 2, Subtasks: 3},
	EstimateMedium: {Stages: 2, Supertasks: 3, Subtasks: 4},
	EstimateLong:   {Stages: 3, Supertasks: 4, Subtasks: 5},
}

// ParseEstimate validates an estimate string. Empty input yields "".
func ParseEstimate(s string) (Estimate, error) {
	if s == "" {
		return "", nil
	}
	e := Estimate(s)
	if _, ok := DefaultSessionEstimates[e]; !ok {
		return "", fmt.Errorf("%w: %q (must be short, medium or long)", ErrInvalidEstimate, s)
	}
	return e, nil
}

// Sessions returns the session budget for the estimate and whether it is known.
func (e Estimate) Sessions() (SessionEstimate, bool) {
	se, ok := DefaultSessionEstimates[e]
	return se, ok
}
