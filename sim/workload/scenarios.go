package workload

import (
	"fmt"
	"sort"
)

// Built-in scenario presets for common scheduling workloads.
// Each returns a valid GeneratorSpec ready for use with Generate.

// ScenarioBursty creates a spec with Gamma-distributed bursty arrivals of short jobs.
func ScenarioBursty(seed int64, count int) *GeneratorSpec {
	cv := 3.5
	return &GeneratorSpec{
		Seed: seed, Count: count,
		Arrival:  ArrivalSpec{Process: "gamma", Rate: 0.2, CV: &cv},
		Burst:    DistSpec{Type: "exponential", Params: map[string]float64{"mean": 4}},
		Priority: PriorityRange{Min: 0, Max: 4},
	}
}

// ScenarioMixedTypes creates a spec where every process type appears, weighted towards batch.
func ScenarioMixedTypes(seed int64, count int) *GeneratorSpec {
	return &GeneratorSpec{
		Seed: seed, Count: count,
		Arrival:  ArrivalSpec{Process: "poisson", Rate: 0.15},
		Burst:    DistSpec{Type: "gaussian", Params: map[string]float64{"mean": 6, "std_dev": 3, "min": 1, "max": 20}},
		Priority: PriorityRange{Min: 0, Max: 9},
		TypeMix:  map[string]float64{"real-time": 1, "system": 2, "interactive": 3, "batch": 4},
	}
}

// ScenarioCPUBound creates a spec of long batch jobs arriving slowly, the case where
// feedback queues demote nearly everything.
func ScenarioCPUBound(seed int64, count int) *GeneratorSpec {
	return &GeneratorSpec{
		Seed: seed, Count: count,
		Arrival:  ArrivalSpec{Process: "poisson", Rate: 0.05},
		Burst:    DistSpec{Type: "uniform", Params: map[string]float64{"min": 15, "max": 40}},
		Priority: PriorityRange{Min: 0, Max: 2},
		TypeMix:  map[string]float64{"batch": 1},
	}
}

// ScenarioInteractiveHeavy creates a spec of many short interactive jobs with a few long
// batch jobs mixed in.
func ScenarioInteractiveHeavy(seed int64, count int) *GeneratorSpec {
	return &GeneratorSpec{
		Seed: seed, Count: count,
		Arrival: ArrivalSpec{Process: "poisson", Rate: 0.4},
		Burst: DistSpec{Type: "empirical", Params: map[string]float64{
			"1": 30, "2": 30, "3": 20, "25": 5,
		}},
		Priority: PriorityRange{Min: 1, Max: 5},
		TypeMix:  map[string]float64{"interactive": 9, "batch": 1},
	}
}

var scenarios = map[string]func(seed int64, count int) *GeneratorSpec{
	"bursty":            ScenarioBursty,
	"mixed-types":       ScenarioMixedTypes,
	"cpu-bound":         ScenarioCPUBound,
	"interactive-heavy": ScenarioInteractiveHeavy,
}

// ScenarioNames returns the registered scenario names in sorted order.
func ScenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Scenario looks up a preset by name.
func Scenario(name string, seed int64, count int) (*GeneratorSpec, error) {
	build, ok := scenarios[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q; valid: %v", name, ScenarioNames())
	}
	return build(seed, count), nil
}
