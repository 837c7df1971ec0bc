package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// PolicyBundle holds scheduling configuration, loadable from a YAML file.
// Nil pointer fields mean "not set in YAML": they do not override the SimConfig they are applied to.
// String fields use empty string for "not set".
type PolicyBundle struct {
	Policy            string     `yaml:"policy"`
	Quantum           *int64     `yaml:"quantum"`
	Preemptive        *bool      `yaml:"preemptive"`
	ContextSwitchCost *int64     `yaml:"context_switch_cost"`
	Horizon           *int64     `yaml:"horizon"`
	MLQ               MLQConfig  `yaml:"mlq"`
	MLFQ              MLFQConfig `yaml:"mlfq"`
}

// MLQConfig holds multi-level queue parameters.
type MLQConfig struct {
	Quantum *int64 `yaml:"quantum"`
}

// MLFQConfig holds multi-level feedback queue parameters.
type MLFQConfig struct {
	Quanta        []int64 `yaml:"quanta"`
	BoostInterval *int64  `yaml:"boost_interval"`
}

// LoadPolicyBundle reads and parses a YAML policy configuration file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadPolicyBundle(path string) (*PolicyBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy config: %w", err)
	}
	var bundle PolicyBundle
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&bundle); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing policy config: %w", err)
	}
	return &bundle, nil
}

// Validate checks the policy name and parameter ranges in the bundle.
func (b *PolicyBundle) Validate() error {
	if !IsValidPolicy(b.Policy) {
		return fmt.Errorf("unknown policy %q", b.Policy)
	}
	if b.Quantum != nil && *b.Quantum <= 0 {
		return fmt.Errorf("quantum must be positive, got %d", *b.Quantum)
	}
	if b.ContextSwitchCost != nil && *b.ContextSwitchCost < 0 {
		return fmt.Errorf("context_switch_cost must be non-negative, got %d", *b.ContextSwitchCost)
	}
	if b.Horizon != nil && *b.Horizon < 0 {
		return fmt.Errorf("horizon must be non-negative, got %d", *b.Horizon)
	}
	if b.MLQ.Quantum != nil && *b.MLQ.Quantum <= 0 {
		return fmt.Errorf("mlq.quantum must be positive, got %d", *b.MLQ.Quantum)
	}
	if len(b.MLFQ.Quanta) > MLFQLevels {
		return fmt.Errorf("mlfq.quanta takes at most %d values, got %d", MLFQLevels, len(b.MLFQ.Quanta))
	}
	for i, q := range b.MLFQ.Quanta {
		if q <= 0 {
			return fmt.Errorf("mlfq.quanta[%d] must be positive, got %d", i, q)
		}
	}
	if b.MLFQ.BoostInterval != nil && *b.MLFQ.BoostInterval < 0 {
		return fmt.Errorf("mlfq.boost_interval must be non-negative, got %d", *b.MLFQ.BoostInterval)
	}
	return nil
}

// ApplyTo overwrites the fields of cfg that the bundle sets.
func (b *PolicyBundle) ApplyTo(cfg *SimConfig) {
	if b.Policy != "" {
		cfg.Policy.Name = b.Policy
	}
	if b.Quantum != nil {
		cfg.Policy.Quantum = *b.Quantum
	}
	if b.Preemptive != nil {
		cfg.Policy.Preemptive = *b.Preemptive
	}
	if b.ContextSwitchCost != nil {
		cfg.ContextSwitchCost = *b.ContextSwitchCost
	}
	if b.Horizon != nil {
		cfg.Horizon = *b.Horizon
	}
	if b.MLQ.Quantum != nil {
		cfg.Policy.MLQQuantum = *b.MLQ.Quantum
	}
	if len(b.MLFQ.Quanta) > 0 {
		cfg.Policy.MLFQQuanta = append([]int64(nil), b.MLFQ.Quanta...)
	}
	if b.MLFQ.BoostInterval != nil {
		cfg.Policy.BoostInterval = *b.MLFQ.BoostInterval
	}
}
