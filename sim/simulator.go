// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/procsim/sim/trace"
)

// Simulator is the core object that holds simulation time, the process population and the run loop.
type Simulator struct {
	Clock             int64
	Horizon           int64 // 0 = unbounded
	ContextSwitchCost int64
	// Policy owns every arrived, unfinished process that is not currently running.
	Policy Policy
	// Arrivals owns every process that has not arrived yet.
	Arrivals *ArrivalQueue
	// Processes is the full population in input order. Ownership lives elsewhere;
	// this slice is only used for counting and reporting.
	Processes []*Process
	Metrics   *Metrics
	Trace     *trace.SimulationTrace

	previous *Process // last dispatched process
}

// NewSimulator validates cfg and specs and builds a simulator ready to Run.
// Any invalid process fails the whole construction with *InvalidProcessError.
func NewSimulator(cfg SimConfig, specs []ProcessSpec) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	procs := make([]*Process, 0, len(specs))
	seen := make(map[int]bool, len(specs))
	for _, spec := range specs {
		if seen[spec.ID] {
			return nil, &InvalidProcessError{ProcessID: spec.ID, Field: "id", Value: fmt.Sprint(spec.ID), Reason: "is duplicated"}
		}
		seen[spec.ID] = true
		p, err := NewProcess(spec)
		if err != nil {
			return nil, err
		}
		procs = append(procs, p)
	}
	policy := NewPolicy(cfg.Policy)
	return &Simulator{
		Clock:             0,
		Horizon:           cfg.Horizon,
		ContextSwitchCost: cfg.ContextSwitchCost,
		Policy:            policy,
		Arrivals:          NewArrivalQueue(procs),
		Processes:         procs,
		Metrics:           NewMetrics(),
		Trace:             trace.NewSimulationTrace(policy.Name()),
	}, nil
}

// Run drives the simulation until every process has terminated.
func (sim *Simulator) Run() error {
	logrus.Infof("[tick %07d] Starting %s simulation with %d processes", sim.Clock, sim.Policy.Name(), len(sim.Processes))
	for len(sim.Metrics.Finished) < len(sim.Processes) {
		if err := sim.checkHorizon(sim.Clock); err != nil {
			return err
		}
		sim.admitDue()
		if !sim.Policy.Pending() {
			next, ok := sim.Arrivals.Next()
			if !ok {
				return &SchedulerInvariantError{
					Policy: sim.Policy.Name(),
					Op:     "Run",
					Detail: fmt.Sprintf("%d processes unfinished with nothing ready or arriving", len(sim.Processes)-len(sim.Metrics.Finished)),
				}
			}
			if err := sim.checkHorizon(next); err != nil {
				return err
			}
			sim.apply(&IdleEvent{time: sim.Clock, Until: next})
			continue
		}
		d, err := sim.Policy.Select(DispatchContext{
			Now:               sim.Clock,
			Previous:          sim.previous,
			ContextSwitchCost: sim.ContextSwitchCost,
			Upcoming:          sim.Arrivals,
		})
		if err != nil {
			return fmt.Errorf("selecting at clock %d: %w", sim.Clock, err)
		}
		if err := sim.execute(d); err != nil {
			return err
		}
	}
	logrus.Infof("[tick %07d] Simulation ended", sim.Clock)
	return nil
}

// admitDue moves every process whose arrival time has been reached into the policy.
func (sim *Simulator) admitDue() {
	for _, p := range sim.Arrivals.PopDue(sim.Clock) {
		logrus.Debugf("<< Arrival: process %d at %d ticks", p.ID, sim.Clock)
		sim.Policy.Admit(p, sim.Clock)
	}
}

func (sim *Simulator) checkHorizon(at int64) error {
	if sim.Horizon > 0 && at > sim.Horizon {
		return &HorizonExceededError{Horizon: sim.Horizon, Clock: at, Unfinished: len(sim.Processes) - len(sim.Metrics.Finished)}
	}
	return nil
}

// execute applies a dispatch decision: optional context switch, the run itself, admission of
// processes that arrived meanwhile, then hands the process back to the policy.
func (sim *Simulator) execute(d Dispatch) error {
	if d.Process == nil || d.RunFor < 0 || (d.RunFor == 0 && !d.ContextSwitch) {
		return &SchedulerInvariantError{Policy: sim.Policy.Name(), Op: "Select", Detail: fmt.Sprintf("unusable dispatch %+v", d)}
	}
	if d.Boosted > 0 {
		logrus.Infof("[tick %07d] Priority boost: %d processes moved to level 0", sim.Clock, d.Boosted)
		sim.Trace.RecordBoost(trace.BoostRecord{Clock: sim.Clock, Promoted: d.Boosted})
	}
	if d.ContextSwitch {
		sim.apply(&ContextSwitchEvent{time: sim.Clock, From: sim.previous, To: d.Process, Cost: sim.ContextSwitchCost})
	}
	if sim.Clock != d.Start {
		return &SchedulerInvariantError{Policy: sim.Policy.Name(), Op: "Select", Detail: fmt.Sprintf("dispatch starts at %d but clock is %d", d.Start, sim.Clock)}
	}
	sim.previous = d.Process
	if d.RunFor == 0 {
		// An arrival or boost tick during the switch changed the decision; select again.
		logrus.Debugf("[tick %07d] Dispatch of process %d abandoned after its context switch", sim.Clock, d.Process.ID)
		sim.admitDue()
		if _, err := sim.Policy.Complete(d.Process, 0, sim.Clock); err != nil {
			return fmt.Errorf("returning process %d at clock %d: %w", d.Process.ID, sim.Clock, err)
		}
		return nil
	}
	sim.apply(&RunEvent{time: sim.Clock, Dispatch: d})

	// Arrivals during the run queue up ahead of the returning process.
	sim.admitDue()
	done, err := sim.Policy.Complete(d.Process, d.RunFor, sim.Clock)
	if err != nil {
		return fmt.Errorf("completing run of process %d at clock %d: %w", d.Process.ID, sim.Clock, err)
	}
	sim.Trace.RecordSegment(trace.Segment{
		Kind:      trace.KindRun,
		Start:     d.Start,
		End:       d.End(),
		ProcessID: d.Process.ID,
		Name:      d.Process.Name,
		Level:     d.Level,
		Completed: done,
	})
	if done {
		sim.finish(d.Process)
	}
	return nil
}

func (sim *Simulator) finish(p *Process) {
	p.markFinished(sim.Clock)
	sim.Metrics.Finished = append(sim.Metrics.Finished, p)
	logrus.Infof("Finished process: ID: %d at time: %d", p.ID, sim.Clock)
}

func (sim *Simulator) apply(ev Event) {
	logrus.Tracef("[tick %07d] Executing %T", ev.Timestamp(), ev)
	ev.Execute(sim)
}

// Result bundles everything a finished run produces for renderers.
type Result struct {
	Trace   *trace.SimulationTrace
	Metrics *Metrics
	Summary Summary
}

// Simulate builds a simulator, runs it to completion and summarizes the outcome.
func Simulate(cfg SimConfig, specs []ProcessSpec) (*Result, error) {
	s, err := NewSimulator(cfg, specs)
	if err != nil {
		return nil, err
	}
	if err := s.Run(); err != nil {
		return nil, err
	}
	return &Result{
		Trace:   s.Trace,
		Metrics: s.Metrics,
		Summary: s.Metrics.Summarize(s.Policy.Name()),
	}, nil
}
