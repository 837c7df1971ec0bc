// Package sim provides the discrete-event engine of the CPU scheduling simulator.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - process.go: Process lifecycle (new → ready → running → terminated) and derived timings
//   - policy.go: the Policy contract, the Dispatch decision and the policy factory
//   - simulator.go: the run loop that admits arrivals, applies dispatches and idles the CPU
//
// # Architecture
//
// A process lives in exactly one place at a time: the ArrivalQueue before it arrives,
// the active policy's ready structures while it waits, the run loop while it executes,
// and Metrics.Finished once it terminates.
//
// Each scheduling algorithm is its own Policy implementation:
//   - policy_basic.go: FCFS, SJF, SRT and Priority (preemptive and non-preemptive)
//   - policy_rr.go: Round Robin
//   - policy_mlq.go: multi-level queue with one fixed level per process type
//   - policy_mlfq.go: multi-level feedback queue with demotion and periodic boosts
//
// Sub-packages:
//   - sim/trace/: execution timeline (run, context-switch and idle segments)
//   - sim/workload/: loading process sets from text and YAML files
//
// The package does no formatted printing. Rendering lives in cmd/.
package sim
