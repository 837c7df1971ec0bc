package workload

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
)

// BurstSampler generates CPU burst lengths.
type BurstSampler interface {
	// Sample returns a positive burst length (>= 1).
	Sample(rng *rand.Rand) int64
}

func atLeastOne(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 1
	}
	r := int64(math.Round(v))
	if r < 1 {
		return 1
	}
	return r
}

// GaussianSampler produces clamped Gaussian bursts.
type GaussianSampler struct {
	mean, stdDev float64
	min, max     int64
}

func (s *GaussianSampler) Sample(rng *rand.Rand) int64 {
	if s.min == s.max {
		return atLeastOne(float64(s.min))
	}
	val := rng.NormFloat64()*s.stdDev + s.mean
	return atLeastOne(math.Min(float64(s.max), math.Max(float64(s.min), val)))
}

// ExponentialSampler produces exponentially-distributed bursts: many short jobs, a few long ones.
type ExponentialSampler struct {
	mean float64
}

func (s *ExponentialSampler) Sample(rng *rand.Rand) int64 {
	return atLeastOne(rng.ExpFloat64() * s.mean)
}

// UniformSampler produces bursts uniformly distributed over [min, max].
type UniformSampler struct {
	min, max int64
}

func (s *UniformSampler) Sample(rng *rand.Rand) int64 {
	if s.max <= s.min {
		return atLeastOne(float64(s.min))
	}
	return atLeastOne(float64(s.min + rng.Int63n(s.max-s.min+1)))
}

// ConstantSampler always returns the same burst.
type ConstantSampler struct {
	value int64
}

func (s *ConstantSampler) Sample(_ *rand.Rand) int64 {
	return atLeastOne(float64(s.value))
}

// EmpiricalSampler samples from an empirical burst histogram using inverse CDF.
type EmpiricalSampler struct {
	values []int64   // sorted burst values
	cdf    []float64 // cumulative probabilities, last entry exactly 1
}

// NewEmpiricalSampler creates a sampler from a burst → probability map.
// Probabilities are normalized; non-positive entries are skipped.
func NewEmpiricalSampler(pdf map[int64]float64) *EmpiricalSampler {
	keys := make([]int64, 0, len(pdf))
	total := 0.0
	for k, p := range pdf {
		if p > 0 {
			keys = append(keys, k)
			total += p
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	s := &EmpiricalSampler{values: keys, cdf: make([]float64, len(keys))}
	cumulative := 0.0
	for i, k := range keys {
		cumulative += pdf[k] / total
		s.cdf[i] = cumulative
	}
	if len(s.cdf) > 0 {
		s.cdf[len(s.cdf)-1] = 1.0
	}
	return s
}

func (s *EmpiricalSampler) Sample(rng *rand.Rand) int64 {
	switch len(s.values) {
	case 0:
		return 1
	case 1:
		return atLeastOne(float64(s.values[0]))
	}
	idx := sort.SearchFloat64s(s.cdf, rng.Float64())
	if idx >= len(s.values) {
		idx = len(s.values) - 1
	}
	return atLeastOne(float64(s.values[idx]))
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("distribution requires parameter %q", k)
		}
	}
	return nil
}

// NewBurstSampler creates a BurstSampler from a DistSpec.
func NewBurstSampler(spec DistSpec) (BurstSampler, error) {
	switch spec.Type {
	case "gaussian":
		if err := requireParam(spec.Params, "mean", "std_dev", "min", "max"); err != nil {
			return nil, err
		}
		return &GaussianSampler{
			mean:   spec.Params["mean"],
			stdDev: spec.Params["std_dev"],
			min:    int64(spec.Params["min"]),
			max:    int64(spec.Params["max"]),
		}, nil

	case "exponential":
		if err := requireParam(spec.Params, "mean"); err != nil {
			return nil, err
		}
		if spec.Params["mean"] <= 0 {
			return nil, fmt.Errorf("exponential mean must be positive, got %f", spec.Params["mean"])
		}
		return &ExponentialSampler{mean: spec.Params["mean"]}, nil

	case "uniform":
		if err := requireParam(spec.Params, "min", "max"); err != nil {
			return nil, err
		}
		lo, hi := int64(spec.Params["min"]), int64(spec.Params["max"])
		if lo < 1 || hi < lo {
			return nil, fmt.Errorf("uniform range [%d, %d] must satisfy 1 <= min <= max", lo, hi)
		}
		return &UniformSampler{min: lo, max: hi}, nil

	case "constant":
		if err := requireParam(spec.Params, "value"); err != nil {
			return nil, err
		}
		return &ConstantSampler{value: int64(spec.Params["value"])}, nil

	case "empirical":
		// Keys are burst lengths, values their probabilities.
		pdf := make(map[int64]float64, len(spec.Params))
		for k, v := range spec.Params {
			burst, err := strconv.ParseInt(k, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("empirical key %q is not an integer: %w", k, err)
			}
			pdf[burst] = v
		}
		s := NewEmpiricalSampler(pdf)
		if len(s.values) == 0 {
			return nil, fmt.Errorf("empirical distribution has no valid bins")
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown distribution type %q", spec.Type)
	}
}
