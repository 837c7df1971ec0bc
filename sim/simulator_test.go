package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/procsim/sim/trace"
)

func TestSimulator_FCFS_OrderPreserving(t *testing.T) {
	// GIVEN A(0,5) and B(1,3) with no switch overhead
	res := mustSimulate(t, simCfg(PolicyFCFS, 0), batchSpec(1, 0, 5), batchSpec(2, 1, 3))

	// THEN A runs [0,5) then B [5,8) and B waits 4
	assert.Equal(t, []string{"1@0-5", "2@5-8"}, runs(res.Trace))
	byID := res.Metrics.FinishedByID()
	require.Len(t, byID, 2)
	assert.Equal(t, int64(0), byID[0].WaitingTime)
	assert.Equal(t, int64(4), byID[1].WaitingTime)
	assert.Equal(t, int64(7), byID[1].TurnaroundTime)
	assert.Equal(t, int64(4), byID[1].ResponseTime)
}

func TestSimulator_RoundRobin_QuantumTwo(t *testing.T) {
	// GIVEN A(0,5) and B(0,3) under RR with quantum 2 and no switch overhead
	cfg := simCfg(PolicyRR, 0)
	cfg.Policy.Quantum = 2

	// WHEN simulated
	res := mustSimulate(t, cfg, batchSpec(1, 0, 5), batchSpec(2, 0, 3))

	// THEN slices alternate in FIFO order and B finishes at 7, A at 8
	assert.Equal(t, []string{"1@0-2", "2@2-4", "1@4-6", "2@6-7", "1@7-8"}, runs(res.Trace))
	assert.Equal(t, map[int]int64{1: 8, 2: 7}, finishedAt(res))
}

func TestSimulator_RoundRobin_ArrivalQueuesAheadOfRequeue(t *testing.T) {
	// GIVEN A(0,4) and B arriving at 1 under RR with quantum 2
	cfg := simCfg(PolicyRR, 0)
	cfg.Policy.Quantum = 2
	res := mustSimulate(t, cfg, batchSpec(1, 0, 4), batchSpec(2, 1, 2))

	// THEN B, which arrived during A's slice, runs before A's second slice
	assert.Equal(t, []string{"1@0-2", "2@2-4", "1@4-6"}, runs(res.Trace))
}

func TestSimulator_SRT_PreemptsOnShorterArrival(t *testing.T) {
	// GIVEN A(0,8) running and B(3,2) arriving with remaining 2 < 5
	res := mustSimulate(t, simCfg(PolicySRT, 0), batchSpec(1, 0, 8), batchSpec(2, 3, 2))

	// THEN B preempts A at 3 and completes at 5; A resumes and finishes at 10
	assert.Equal(t, []string{"1@0-3", "2@3-5", "1@5-10"}, runs(res.Trace))
	assert.Equal(t, map[int]int64{1: 10, 2: 5}, finishedAt(res))
}

func TestSimulator_SRT_EqualRemainingPrefersLowerID(t *testing.T) {
	// GIVEN runner with ID 2 and an arrival with ID 1 whose burst equals the runner's remaining time
	res := mustSimulate(t, simCfg(PolicySRT, 0), batchSpec(2, 0, 5), batchSpec(1, 2, 3))

	// THEN the lower ID wins the tie and preempts
	assert.Equal(t, []string{"2@0-2", "1@2-5", "2@5-8"}, runs(res.Trace))
}

func TestSimulator_SRT_LongerArrivalDoesNotPreempt(t *testing.T) {
	res := mustSimulate(t, simCfg(PolicySRT, 0), batchSpec(1, 0, 4), batchSpec(2, 1, 6))
	assert.Equal(t, []string{"1@0-4", "2@4-10"}, runs(res.Trace))
}

func TestSimulator_SJF_ShortestBurstFirst(t *testing.T) {
	// GIVEN A(0,6) running and B(1,4), C(1,2) arriving behind it
	res := mustSimulate(t, simCfg(PolicySJF, 0), batchSpec(1, 0, 6), batchSpec(2, 1, 4), batchSpec(3, 1, 2))

	// THEN A is not preempted and the shorter job goes next
	assert.Equal(t, []string{"1@0-6", "3@6-8", "2@8-12"}, runs(res.Trace))
}

func TestSimulator_Priority_Modes(t *testing.T) {
	tests := []struct {
		name       string
		preemptive bool
		want       []string
	}{
		{name: "non-preemptive defers the arrival", preemptive: false, want: []string{"1@0-5", "2@5-7"}},
		{name: "preemptive interrupts the runner", preemptive: true, want: []string{"1@0-2", "2@2-4", "1@4-7"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// GIVEN A(0,5,prio 3) running and B(2,2,prio 1) arriving
			cfg := simCfg(PolicyPriority, 0)
			cfg.Policy.Preemptive = tc.preemptive

			// WHEN simulated
			res := mustSimulate(t, cfg, prioSpec(1, 0, 5, 3), prioSpec(2, 2, 2, 1))

			// THEN both finish and the timeline follows the mode
			assert.Equal(t, tc.want, runs(res.Trace))
			assert.Len(t, res.Metrics.Finished, 2)
		})
	}
}

func TestSimulator_Priority_EqualValueNeverPreempts(t *testing.T) {
	cfg := simCfg(PolicyPriority, 0)
	cfg.Policy.Preemptive = true
	res := mustSimulate(t, cfg, prioSpec(1, 0, 4, 2), prioSpec(2, 1, 1, 2))
	assert.Equal(t, []string{"1@0-4", "2@4-5"}, runs(res.Trace))
}

func TestSimulator_MLQ_HigherLevelArrivalPreemptsBatch(t *testing.T) {
	// GIVEN a batch process running and a real-time process arriving at 2
	res := mustSimulate(t, simCfg(PolicyMLQ, 0),
		typedSpec(1, "batch", 0, 10),
		typedSpec(2, "real-time", 2, 3))

	// THEN batch stops at 2, real-time runs to completion, batch resumes
	assert.Equal(t, []string{"1@0-2", "2@2-5", "1@5-13"}, runs(res.Trace))
	for _, s := range res.Trace.Dispatches() {
		if s.ProcessID == 1 {
			assert.Equal(t, 3, s.Level)
		} else {
			assert.Equal(t, 0, s.Level)
		}
	}
}

func TestSimulator_MLQ_RoundRobinWithinLevel(t *testing.T) {
	// GIVEN two interactive processes and the default quantum of 4
	res := mustSimulate(t, simCfg(PolicyMLQ, 0),
		typedSpec(1, "interactive", 0, 6),
		typedSpec(2, "interactive", 0, 3))

	// THEN the level is served in slices of 4
	assert.Equal(t, []string{"1@0-4", "2@4-7", "1@7-9"}, runs(res.Trace))
}

func TestSimulator_MLQ_PreemptedProcessKeepsSliceAndFront(t *testing.T) {
	// GIVEN two interactive processes and a system process arriving mid-slice
	res := mustSimulate(t, simCfg(PolicyMLQ, 0),
		typedSpec(1, "interactive", 0, 6),
		typedSpec(2, "interactive", 0, 4),
		typedSpec(3, "system", 1, 2))

	// THEN process 1 resumes ahead of process 2 with the 3 units left in its slice
	assert.Equal(t, []string{"1@0-1", "3@1-3", "1@3-6", "2@6-10", "1@10-12"}, runs(res.Trace))
}

func TestSimulator_ArrivalDuringContextSwitch_ForcesReselection(t *testing.T) {
	preemptivePriority := simCfg(PolicyPriority, 2)
	preemptivePriority.Policy.Preemptive = true
	tests := []struct {
		name     string
		cfg      SimConfig
		specs    []ProcessSpec
		want     []string
		switches int
	}{
		{
			name:     "mlq real-time arrives while switching to batch",
			cfg:      simCfg(PolicyMLQ, 2),
			specs:    []ProcessSpec{typedSpec(1, "batch", 0, 3), typedSpec(2, "batch", 1, 10), typedSpec(3, "real-time", 4, 1)},
			want:     []string{"1@0-3", "3@7-8", "2@10-20"},
			switches: 3,
		},
		{
			name:     "srt shorter job arrives while switching",
			cfg:      simCfg(PolicySRT, 2),
			specs:    []ProcessSpec{batchSpec(1, 0, 2), batchSpec(2, 0, 10), batchSpec(3, 3, 1)},
			want:     []string{"1@0-2", "3@6-7", "2@9-19"},
			switches: 3,
		},
		{
			name:     "preemptive priority arrives while switching",
			cfg:      preemptivePriority,
			specs:    []ProcessSpec{prioSpec(1, 0, 2, 1), prioSpec(2, 0, 10, 5), prioSpec(3, 3, 1, 0)},
			want:     []string{"1@0-2", "3@6-7", "2@9-19"},
			switches: 3,
		},
		{
			name:     "non-preemptive priority keeps its choice",
			cfg:      simCfg(PolicyPriority, 2),
			specs:    []ProcessSpec{prioSpec(1, 0, 2, 1), prioSpec(2, 0, 10, 5), prioSpec(3, 3, 1, 0)},
			want:     []string{"1@0-2", "2@4-14", "3@16-17"},
			switches: 2,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// GIVEN a process that outranks the incoming one arriving during the switch
			// WHEN simulated with a switch cost of 2
			res := mustSimulate(t, tc.cfg, tc.specs...)

			// THEN the outranking process runs before the one the switch was started for
			assert.Equal(t, tc.want, runs(res.Trace))
			assert.Equal(t, tc.switches, res.Metrics.ContextSwitches)
			assert.Equal(t, int64(2*tc.switches), res.Metrics.ContextSwitchTime)
		})
	}
}

func TestSimulator_AbandonedSwitch_DoesNotCountAsFirstRun(t *testing.T) {
	// GIVEN a batch process whose first switch is abandoned for a real-time arrival
	res := mustSimulate(t, simCfg(PolicyMLQ, 2),
		typedSpec(1, "batch", 0, 3),
		typedSpec(2, "batch", 1, 10),
		typedSpec(3, "real-time", 4, 1))

	// THEN its response time is measured from the run that actually executed
	for _, p := range res.Metrics.Finished {
		if p.ID == 2 {
			assert.Equal(t, int64(10), p.StartedAt)
			assert.Equal(t, int64(9), p.ResponseTime)
		}
	}
	assert.Equal(t, map[int]int64{1: 3, 2: 20, 3: 8}, finishedAt(res))
}

func TestSimulator_MLFQ_RunsBelowTopLevelNeverCrossABoostTick(t *testing.T) {
	// GIVEN one-unit upper slices, a switch cost of 2 and a boost every 20 units
	cfg := simCfg(PolicyMLFQ, 2)
	cfg.Policy.MLFQQuanta = []int64{1, 1, 100}
	cfg.Policy.BoostInterval = 20

	// WHEN two long processes and a short one share the CPU
	res := mustSimulate(t, cfg, batchSpec(1, 0, 60), batchSpec(2, 11, 60), batchSpec(3, 0, 14))

	// THEN no run below level 0 starts at or spans a boost tick
	for _, seg := range res.Trace.Dispatches() {
		if seg.Level == 0 {
			continue
		}
		for tick := int64(20); tick < seg.End; tick += 20 {
			assert.False(t, seg.Start <= tick && tick < seg.End,
				"level %d run of process %d over [%d,%d) covers boost tick %d", seg.Level, seg.ProcessID, seg.Start, seg.End, tick)
		}
	}
	// THEN boosts keep happening while both long processes are alive
	assert.GreaterOrEqual(t, len(res.Trace.Boosts), 5)
	assert.Equal(t, int64(134), res.Metrics.BusyTime)
}

func TestSimulator_MLFQ_DemotionAndBoost(t *testing.T) {
	// GIVEN two long processes under MLFQ with quanta 4/8/16 and boost every 20
	res := mustSimulate(t, simCfg(PolicyMLFQ, 0), batchSpec(1, 0, 60), batchSpec(2, 0, 60))

	// THEN both are demoted after their level-0 slice, the level-1 run is cut at the boost
	// tick, and the boost at 20 moves both back to level 0
	segs := res.Trace.Dispatches()
	require.GreaterOrEqual(t, len(segs), 5)
	assert.Equal(t, trace.Segment{Kind: trace.KindRun, Start: 0, End: 4, ProcessID: 1, Name: "P1", Level: 0}, segs[0])
	assert.Equal(t, trace.Segment{Kind: trace.KindRun, Start: 4, End: 8, ProcessID: 2, Name: "P2", Level: 0}, segs[1])
	assert.Equal(t, trace.Segment{Kind: trace.KindRun, Start: 8, End: 16, ProcessID: 1, Name: "P1", Level: 1}, segs[2])
	assert.Equal(t, trace.Segment{Kind: trace.KindRun, Start: 16, End: 20, ProcessID: 2, Name: "P2", Level: 1}, segs[3])
	assert.Equal(t, trace.Segment{Kind: trace.KindRun, Start: 20, End: 24, ProcessID: 2, Name: "P2", Level: 0}, segs[4])
	require.NotEmpty(t, res.Trace.Boosts)
	assert.Equal(t, trace.BoostRecord{Clock: 20, Promoted: 2}, res.Trace.Boosts[0])
	assert.Len(t, res.Metrics.Finished, 2)
}

func TestSimulator_MLFQ_BoostPreventsStarvation(t *testing.T) {
	// GIVEN a long process and a steady stream of short processes that keep level 0 busy
	specs := []ProcessSpec{batchSpec(1, 0, 30)}
	for k := 1; k <= 15; k++ {
		specs = append(specs, typedSpec(k+1, "interactive", int64(3*k), 3))
	}

	// WHEN simulated with a boost every 20
	res := mustSimulate(t, simCfg(PolicyMLFQ, 0), specs...)

	// THEN the long process is served again at level 0 before the stream ends
	lastArrival := int64(45)
	served := false
	for _, s := range res.Trace.Dispatches() {
		if s.ProcessID == 1 && s.Level == 0 && s.Start >= 20 && s.Start < lastArrival {
			served = true
		}
	}
	assert.True(t, served, "long process never ran at level 0 after the first boost: %v", runs(res.Trace))
	assert.NotEmpty(t, res.Trace.Boosts)
	assert.Len(t, res.Metrics.Finished, len(specs))
}

func TestSimulator_MLFQ_BoostDisabled(t *testing.T) {
	cfg := simCfg(PolicyMLFQ, 0)
	cfg.Policy.BoostInterval = 0
	res := mustSimulate(t, cfg, batchSpec(1, 0, 60), batchSpec(2, 0, 60))
	assert.Empty(t, res.Trace.Boosts)
	assert.Len(t, res.Metrics.Finished, 2)
}

func TestSimulator_ContextSwitch_ChargedOnIdentityChange(t *testing.T) {
	// GIVEN A(0,5), B(1,3) under FCFS with switch cost 2
	res := mustSimulate(t, simCfg(PolicyFCFS, 2), batchSpec(1, 0, 5), batchSpec(2, 1, 3))

	// THEN the first dispatch is free and the switch to B costs 2
	assert.Equal(t, []string{"1@0-5", "2@7-10"}, runs(res.Trace))
	assert.Equal(t, 1, res.Metrics.ContextSwitches)
	assert.Equal(t, int64(2), res.Metrics.ContextSwitchTime)
	assert.Equal(t, int64(8), res.Metrics.BusyTime)
	assert.Equal(t, int64(10), res.Metrics.TotalTime())
	assert.Equal(t, int64(6), res.Metrics.FinishedByID()[1].WaitingTime)
	assert.InDelta(t, 80.0, res.Summary.Utilization, 1e-9)
}

func TestSimulator_ContextSwitch_NotChargedForSameProcess(t *testing.T) {
	// GIVEN a single process sliced by RR
	cfg := simCfg(PolicyRR, 2)
	cfg.Policy.Quantum = 2
	res := mustSimulate(t, cfg, batchSpec(1, 0, 6))

	// THEN consecutive slices of the same process cost nothing
	assert.Equal(t, 0, res.Metrics.ContextSwitches)
	assert.Equal(t, int64(6), res.Metrics.TotalTime())
}

func TestSimulator_IdleGap_FastForwards(t *testing.T) {
	// GIVEN A(0,2) and B arriving at 5 with switch cost 2
	res := mustSimulate(t, simCfg(PolicyFCFS, 2), batchSpec(1, 0, 2), batchSpec(2, 5, 1))

	// THEN the CPU idles [2,5), switches [5,7) and runs B [7,8)
	assert.Equal(t, int64(3), res.Metrics.IdleTime)
	assert.Equal(t, int64(2), res.Metrics.ContextSwitchTime)
	assert.Equal(t, []string{"1@0-2", "2@7-8"}, runs(res.Trace))
	kinds := make([]trace.SegmentKind, 0, len(res.Trace.Segments))
	for _, s := range res.Trace.Segments {
		kinds = append(kinds, s.Kind)
	}
	assert.Equal(t, []trace.SegmentKind{trace.KindRun, trace.KindIdle, trace.KindContextSwitch, trace.KindRun}, kinds)
}

func TestSimulator_FirstArrivalAfterZero_StartsIdle(t *testing.T) {
	res := mustSimulate(t, simCfg(PolicyFCFS, 2), batchSpec(1, 4, 3))
	assert.Equal(t, int64(4), res.Metrics.IdleTime)
	assert.Equal(t, 0, res.Metrics.ContextSwitches)
	assert.Equal(t, int64(0), res.Metrics.Finished[0].ResponseTime)
}

func TestSimulator_AllPolicies_TimeAndProcessIdentities(t *testing.T) {
	for name, cfg := range allPolicyConfigs(2) {
		t.Run(name, func(t *testing.T) {
			// GIVEN the mixed workload
			s, err := NewSimulator(cfg, mixedWorkload())
			require.NoError(t, err)

			// WHEN simulated
			require.NoError(t, s.Run())

			// THEN the time buckets add up to the clock and cover every completion
			m := s.Metrics
			assert.Equal(t, s.Clock, m.BusyTime+m.IdleTime+m.ContextSwitchTime)
			assert.Equal(t, s.Trace.End(), s.Clock)
			require.Len(t, m.Finished, len(mixedWorkload()))
			var bursts int64
			for _, p := range m.Finished {
				bursts += p.BurstTime
				assert.GreaterOrEqual(t, s.Clock, p.FinishedAt)
				assert.Equal(t, StateTerminated, p.State)
				assert.Zero(t, p.RemainingTime)
				assert.Equal(t, p.FinishedAt-p.ArrivalTime, p.TurnaroundTime)
				assert.Equal(t, p.TurnaroundTime-p.BurstTime, p.WaitingTime)
				assert.Equal(t, p.StartedAt-p.ArrivalTime, p.ResponseTime)
				assert.GreaterOrEqual(t, p.WaitingTime, int64(0))
				assert.GreaterOrEqual(t, p.ResponseTime, int64(0))
			}
			assert.Equal(t, bursts, m.BusyTime)

			// THEN run segments never overlap and never start before arrival
			var prevEnd int64
			arrivals := make(map[int]int64)
			for _, spec := range mixedWorkload() {
				arrivals[spec.ID] = spec.ArrivalTime
			}
			for _, seg := range s.Trace.Segments {
				assert.GreaterOrEqual(t, seg.Start, prevEnd)
				prevEnd = seg.End
				if seg.Kind == trace.KindRun {
					assert.GreaterOrEqual(t, seg.Start, arrivals[seg.ProcessID])
				}
			}
		})
	}
}

func TestSimulator_AllPolicies_Deterministic(t *testing.T) {
	for name, cfg := range allPolicyConfigs(1) {
		t.Run(name, func(t *testing.T) {
			// GIVEN the same input twice
			first := mustSimulate(t, cfg, mixedWorkload()...)
			second := mustSimulate(t, cfg, mixedWorkload()...)

			// THEN timelines and summaries are identical
			assert.Equal(t, first.Trace, second.Trace)
			assert.Equal(t, first.Summary, second.Summary)
		})
	}
}

func TestSimulator_EmptyInput_CompletesWithZeroMetrics(t *testing.T) {
	for name, cfg := range allPolicyConfigs(2) {
		t.Run(name, func(t *testing.T) {
			res := mustSimulate(t, cfg)
			assert.Empty(t, res.Metrics.Finished)
			assert.Zero(t, res.Summary.TotalTime)
			assert.Zero(t, res.Summary.AvgWaiting)
			assert.Zero(t, res.Summary.Utilization)
			assert.Zero(t, res.Summary.Throughput)
		})
	}
}

func TestNewSimulator_RejectsInvalidProcesses(t *testing.T) {
	tests := []struct {
		name  string
		specs []ProcessSpec
		field string
		id    int
	}{
		{name: "zero burst", specs: []ProcessSpec{batchSpec(1, 0, 0)}, field: "burst", id: 1},
		{name: "negative arrival", specs: []ProcessSpec{batchSpec(2, -1, 3)}, field: "arrival", id: 2},
		{name: "unknown type", specs: []ProcessSpec{typedSpec(3, "daemon", 0, 3)}, field: "type", id: 3},
		{name: "duplicate id", specs: []ProcessSpec{batchSpec(4, 0, 3), batchSpec(4, 1, 2)}, field: "id", id: 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// WHEN constructing a simulator with the invalid descriptor
			_, err := NewSimulator(simCfg(PolicyFCFS, 0), tc.specs)

			// THEN an InvalidProcessError names the offending process and field
			var invalid *InvalidProcessError
			require.True(t, errors.As(err, &invalid), "got %v", err)
			assert.Equal(t, tc.field, invalid.Field)
			assert.Equal(t, tc.id, invalid.ProcessID)
		})
	}
}

func TestNewSimulator_RejectsInvalidConfig(t *testing.T) {
	_, err := NewSimulator(SimConfig{Policy: PolicyConfig{Name: "lottery"}}, nil)
	assert.Error(t, err)

	cfg := simCfg(PolicyFCFS, -1)
	_, err = NewSimulator(cfg, nil)
	assert.Error(t, err)
}

func TestSimulator_Horizon_Exceeded(t *testing.T) {
	// GIVEN a workload that needs 101 time units and a horizon of 50
	cfg := simCfg(PolicyFCFS, 0)
	cfg.Horizon = 50

	// WHEN simulated
	_, err := Simulate(cfg, []ProcessSpec{batchSpec(1, 0, 100), batchSpec(2, 0, 1)})

	// THEN a HorizonExceededError reports the unfinished process
	var horizon *HorizonExceededError
	require.True(t, errors.As(err, &horizon), "got %v", err)
	assert.Equal(t, int64(50), horizon.Horizon)
	assert.Equal(t, 1, horizon.Unfinished)
}

func TestSimulator_Horizon_IdleJumpPastCeiling(t *testing.T) {
	cfg := simCfg(PolicyFCFS, 0)
	cfg.Horizon = 10
	_, err := Simulate(cfg, []ProcessSpec{batchSpec(1, 0, 2), batchSpec(2, 30, 1)})
	var horizon *HorizonExceededError
	require.True(t, errors.As(err, &horizon), "got %v", err)
	assert.Equal(t, int64(30), horizon.Clock)
}

func TestSimulator_Horizon_NotReachedIsNoError(t *testing.T) {
	cfg := simCfg(PolicyFCFS, 0)
	cfg.Horizon = 100
	res := mustSimulate(t, cfg, batchSpec(1, 0, 5))
	assert.Len(t, res.Metrics.Finished, 1)
}
