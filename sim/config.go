package sim

import (
	"fmt"
)

// PolicyConfig groups policy selection and policy-specific parameters.
// Parameters irrelevant to the selected policy are ignored.
type PolicyConfig struct {
	Name          string  // one of PolicyNames; empty = fcfs
	Quantum       int64   // rr: time slice
	Preemptive    bool    // priority: preempt on arrival of a smaller priority value
	MLQQuantum    int64   // mlq: time slice of the round-robin levels
	MLFQQuanta    []int64 // mlfq: per-level time slices, top level first
	BoostInterval int64   // mlfq: priority boost period (0 disables)
}

// DefaultPolicyConfig returns the parameters used when only a policy name is given.
func DefaultPolicyConfig(name string) PolicyConfig {
	return PolicyConfig{
		Name:          name,
		Quantum:       DefaultQuantum,
		MLQQuantum:    DefaultQuantum,
		MLFQQuanta:    append([]int64(nil), DefaultMLFQQuanta...),
		BoostInterval: DefaultBoostInterval,
	}
}

// Validate checks the policy name and the parameters of the selected policy.
func (c PolicyConfig) Validate() error {
	if !IsValidPolicy(c.Name) {
		return fmt.Errorf("unknown policy %q; valid: %v", c.Name, PolicyNames)
	}
	switch c.Name {
	case PolicyRR:
		if c.Quantum <= 0 {
			return fmt.Errorf("rr quantum must be positive, got %d", c.Quantum)
		}
	case PolicyMLQ:
		if c.MLQQuantum <= 0 {
			return fmt.Errorf("mlq quantum must be positive, got %d", c.MLQQuantum)
		}
	case PolicyMLFQ:
		if len(c.MLFQQuanta) > MLFQLevels {
			return fmt.Errorf("mlfq takes at most %d quanta, got %d", MLFQLevels, len(c.MLFQQuanta))
		}
		for i, q := range c.MLFQQuanta {
			if q <= 0 {
				return fmt.Errorf("mlfq quantum[%d] must be positive, got %d", i, q)
			}
		}
		if c.BoostInterval < 0 {
			return fmt.Errorf("mlfq boost interval must be non-negative, got %d", c.BoostInterval)
		}
	}
	return nil
}

// SimConfig holds everything a Simulator needs besides the processes.
type SimConfig struct {
	Policy            PolicyConfig
	ContextSwitchCost int64 // charged to the clock whenever the dispatched process changes
	Horizon           int64 // simulated-time ceiling; 0 = unbounded
}

// Validate checks every field of the configuration.
func (c SimConfig) Validate() error {
	if err := c.Policy.Validate(); err != nil {
		return err
	}
	if c.ContextSwitchCost < 0 {
		return fmt.Errorf("context switch cost must be non-negative, got %d", c.ContextSwitchCost)
	}
	if c.Horizon < 0 {
		return fmt.Errorf("horizon must be non-negative, got %d", c.Horizon)
	}
	return nil
}
