package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/procsim/sim/trace"
)

// Event defines the interface for every span of simulated time the run loop applies.
// Each event has a Timestamp (the clock when it begins) and an Execute method
// that advances the clock and the time buckets.
type Event interface {
	Timestamp() int64
	Execute(*Simulator)
}

// IdleEvent represents the CPU waiting, with nothing ready, until the next arrival.
type IdleEvent struct {
	time  int64
	Until int64
}

// Timestamp returns the time the CPU went idle.
func (e *IdleEvent) Timestamp() int64 {
	return e.time
}

// Execute fast-forwards the clock to the next arrival and books the gap as idle time.
func (e *IdleEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< Idle: %d -> %d", e.time, e.Until)
	sim.Metrics.IdleTime += e.Until - e.time
	sim.Clock = e.Until
	sim.Trace.RecordSegment(trace.Segment{Kind: trace.KindIdle, Start: e.time, End: e.Until})
}

// ContextSwitchEvent represents the fixed overhead of switching to a different process.
type ContextSwitchEvent struct {
	time int64
	From *Process // nil never happens: the first dispatch is free
	To   *Process
	Cost int64
}

// Timestamp returns the time the switch begins.
func (e *ContextSwitchEvent) Timestamp() int64 {
	return e.time
}

// Execute charges the switch cost to the clock, not to any process.
func (e *ContextSwitchEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< ContextSwitch: %d -> %d at %d", e.From.ID, e.To.ID, e.time)
	sim.Metrics.ContextSwitchTime += e.Cost
	sim.Metrics.ContextSwitches++
	sim.Clock = e.time + e.Cost
	sim.Trace.RecordSegment(trace.Segment{
		Kind:      trace.KindContextSwitch,
		Start:     e.time,
		End:       sim.Clock,
		ProcessID: e.To.ID,
		Name:      e.To.Name,
	})
}

// RunEvent represents a dispatched process executing on the CPU.
type RunEvent struct {
	time     int64
	Dispatch Dispatch
}

// Timestamp returns the time the run begins.
func (e *RunEvent) Timestamp() int64 {
	return e.time
}

// Execute marks the process running, records its first dispatch and advances the clock.
// Remaining time is charged afterwards by the policy's Complete.
func (e *RunEvent) Execute(sim *Simulator) {
	p := e.Dispatch.Process
	logrus.Debugf("<< Run: process %d level %d for %d at %d", p.ID, e.Dispatch.Level, e.Dispatch.RunFor, e.time)
	p.State = StateRunning
	p.markStarted(e.time)
	sim.Metrics.BusyTime += e.Dispatch.RunFor
	sim.Clock = e.time + e.Dispatch.RunFor
}
