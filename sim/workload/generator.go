package workload

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/procsim/sim"
)

// Generate creates a process set from a GeneratorSpec.
// Deterministic given the same spec (including its seed).
// Returns processes in arrival order with IDs 1..Count; the first arrives at 0.
func Generate(spec *GeneratorSpec) ([]sim.ProcessSpec, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator spec: %w", err)
	}

	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(spec.Seed))
	arrivalRNG := rng.ForSubsystem(sim.SubsystemArrivals)
	burstRNG := rng.ForSubsystem(sim.SubsystemBursts)
	attrRNG := rng.ForSubsystem(sim.SubsystemAttributes)

	arrivals := NewArrivalSampler(spec.Arrival)
	bursts, err := NewBurstSampler(spec.Burst)
	if err != nil {
		return nil, fmt.Errorf("burst distribution: %w", err)
	}
	types := newTypePicker(spec.TypeMix)
	priorities := spec.Priority.Max - spec.Priority.Min + 1

	out := make([]sim.ProcessSpec, 0, spec.Count)
	now := int64(0)
	for i := 0; i < spec.Count; i++ {
		if i > 0 {
			now += arrivals.SampleIAT(arrivalRNG)
		}
		id := i + 1
		out = append(out, sim.ProcessSpec{
			ID:          id,
			Name:        fmt.Sprintf("P%d", id),
			ArrivalTime: now,
			BurstTime:   bursts.Sample(burstRNG),
			Priority:    spec.Priority.Min + attrRNG.Intn(priorities),
			Type:        types.pick(attrRNG.Float64()).String(),
		})
	}
	logrus.Debugf("Generated %d processes over %d time units (seed %d)", len(out), now, spec.Seed)
	return out, nil
}
