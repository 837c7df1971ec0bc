package workload

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/procsim/sim"
)

// GeneratorSpec describes a synthetic process population.
// Loaded from YAML via LoadGeneratorSpec(path).
type GeneratorSpec struct {
	Seed     int64              `yaml:"seed"`
	Count    int                `yaml:"count"`
	Arrival  ArrivalSpec        `yaml:"arrival"`
	Burst    DistSpec           `yaml:"burst"`
	Priority PriorityRange      `yaml:"priority"`
	TypeMix  map[string]float64 `yaml:"type_mix,omitempty"` // type name → relative weight; empty = uniform
}

// ArrivalSpec configures the inter-arrival time process.
type ArrivalSpec struct {
	Process string   `yaml:"process"` // poisson, gamma, weibull
	Rate    float64  `yaml:"rate"`    // arrivals per time unit
	CV      *float64 `yaml:"cv,omitempty"`
}

// DistSpec parameterizes a burst length distribution.
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params"`
}

// PriorityRange bounds the uniformly drawn priority values, inclusive.
type PriorityRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

var validArrivalProcesses = map[string]bool{"poisson": true, "gamma": true, "weibull": true}

// LoadGeneratorSpec reads and parses a YAML generator specification file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadGeneratorSpec(path string) (*GeneratorSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading generator spec: %w", err)
	}
	var spec GeneratorSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing generator spec: %w", err)
	}
	return &spec, nil
}

// Validate checks that all fields in the spec are valid.
func (s *GeneratorSpec) Validate() error {
	if s.Count <= 0 {
		return fmt.Errorf("count must be positive, got %d", s.Count)
	}
	if !validArrivalProcesses[s.Arrival.Process] {
		return fmt.Errorf("unknown arrival process %q; valid: poisson, gamma, weibull", s.Arrival.Process)
	}
	if s.Arrival.Rate <= 0 {
		return fmt.Errorf("arrival rate must be positive, got %f", s.Arrival.Rate)
	}
	if s.Arrival.CV != nil && *s.Arrival.CV <= 0 {
		return fmt.Errorf("arrival cv must be positive, got %f", *s.Arrival.CV)
	}
	if _, err := NewBurstSampler(s.Burst); err != nil {
		return fmt.Errorf("burst distribution: %w", err)
	}
	if s.Priority.Max < s.Priority.Min {
		return fmt.Errorf("priority range [%d, %d] is empty", s.Priority.Min, s.Priority.Max)
	}
	total := 0.0
	for name, w := range s.TypeMix {
		if _, err := sim.ParseProcessType(name); err != nil {
			return fmt.Errorf("type_mix: %w", err)
		}
		if w < 0 {
			return fmt.Errorf("type_mix weight for %q must be non-negative, got %f", name, w)
		}
		total += w
	}
	if len(s.TypeMix) > 0 && total == 0 {
		return fmt.Errorf("type_mix weights sum to zero")
	}
	return nil
}

// typePicker draws process types according to relative weights.
type typePicker struct {
	types []sim.ProcessType
	cdf   []float64
}

func newTypePicker(mix map[string]float64) *typePicker {
	weights := make(map[sim.ProcessType]float64)
	if len(mix) == 0 {
		for t := sim.TypeRealTime; t <= sim.TypeBatch; t++ {
			weights[t] = 1
		}
	}
	for name, w := range mix {
		t, _ := sim.ParseProcessType(name)
		weights[t] += w
	}
	tp := &typePicker{}
	total := 0.0
	for t, w := range weights {
		if w > 0 {
			tp.types = append(tp.types, t)
			total += w
		}
	}
	// Map iteration is random; fix the order for determinism.
	sort.Slice(tp.types, func(i, j int) bool { return tp.types[i] < tp.types[j] })
	cumulative := 0.0
	for _, t := range tp.types {
		cumulative += weights[t] / total
		tp.cdf = append(tp.cdf, cumulative)
	}
	tp.cdf[len(tp.cdf)-1] = 1.0
	return tp
}

func (tp *typePicker) pick(u float64) sim.ProcessType {
	idx := sort.SearchFloat64s(tp.cdf, u)
	if idx >= len(tp.types) {
		idx = len(tp.types) - 1
	}
	return tp.types[idx]
}
