package sim

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inference-sim/procsim/sim/trace"
)

// batchSpec builds a batch-type process descriptor with priority 0.
func batchSpec(id int, arrival, burst int64) ProcessSpec {
	return ProcessSpec{ID: id, ArrivalTime: arrival, BurstTime: burst, Type: "batch"}
}

// typedSpec builds a process descriptor of the given type.
func typedSpec(id int, typ string, arrival, burst int64) ProcessSpec {
	return ProcessSpec{ID: id, ArrivalTime: arrival, BurstTime: burst, Type: typ}
}

// prioSpec builds a batch-type process descriptor with the given priority.
func prioSpec(id int, arrival, burst int64, priority int) ProcessSpec {
	return ProcessSpec{ID: id, ArrivalTime: arrival, BurstTime: burst, Priority: priority, Type: "batch"}
}

// simCfg returns a config for policy with default parameters and the given switch cost.
func simCfg(policy string, ctxSwitch int64) SimConfig {
	return SimConfig{Policy: DefaultPolicyConfig(policy), ContextSwitchCost: ctxSwitch}
}

// mustSimulate runs specs to completion and fails the test on any error.
func mustSimulate(t *testing.T, cfg SimConfig, specs ...ProcessSpec) *Result {
	t.Helper()
	res, err := Simulate(cfg, specs)
	require.NoError(t, err)
	return res
}

// runs renders the run segments of a trace as "id@start-end" for compact comparison.
func runs(st *trace.SimulationTrace) []string {
	out := make([]string, 0, len(st.Segments))
	for _, s := range st.Dispatches() {
		out = append(out, fmt.Sprintf("%d@%d-%d", s.ProcessID, s.Start, s.End))
	}
	return out
}

// finishedAt maps process ID to completion time.
func finishedAt(res *Result) map[int]int64 {
	out := make(map[int]int64)
	for _, p := range res.Metrics.Finished {
		out[p.ID] = p.FinishedAt
	}
	return out
}

// mixedWorkload covers every process type, idle gaps and simultaneous arrivals.
func mixedWorkload() []ProcessSpec {
	return []ProcessSpec{
		{ID: 1, Name: "init", ArrivalTime: 0, BurstTime: 7, Priority: 3, Type: "system"},
		{ID: 2, Name: "editor", ArrivalTime: 1, BurstTime: 4, Priority: 2, Type: "interactive"},
		{ID: 3, Name: "audio", ArrivalTime: 2, BurstTime: 2, Priority: 0, Type: "real-time"},
		{ID: 4, Name: "backup", ArrivalTime: 2, BurstTime: 12, Priority: 5, Type: "batch"},
		{ID: 5, Name: "shell", ArrivalTime: 9, BurstTime: 3, Priority: 1, Type: "interactive"},
		{ID: 6, Name: "index", ArrivalTime: 40, BurstTime: 9, Priority: 4, Type: "batch"},
		{ID: 7, Name: "cron", ArrivalTime: 41, BurstTime: 1, Priority: 2, Type: "system"},
	}
}

// allPolicyConfigs returns one config per registered policy, both priority modes included.
func allPolicyConfigs(ctxSwitch int64) map[string]SimConfig {
	cfgs := make(map[string]SimConfig)
	for _, name := range PolicyNames {
		cfgs[name] = simCfg(name, ctxSwitch)
	}
	preemptive := simCfg(PolicyPriority, ctxSwitch)
	preemptive.Policy.Preemptive = true
	cfgs["priority-preemptive"] = preemptive
	return cfgs
}
