package sim

import (
	"fmt"
)

// Dispatch is a policy's answer to "what runs next, and for how long".
type Dispatch struct {
	Process       *Process
	Level         int   // ready-structure level the process was taken from (0 for single-queue policies)
	Start         int64 // clock at which the process begins executing, after any context switch
	RunFor        int64 // time units to run before the next decision point; 0 means switch, then select again
	ContextSwitch bool  // true when the running identity changed since the previous dispatch
	Boosted       int   // processes promoted to the top level while making this decision
}

// End returns the clock at which the dispatched run stops.
func (d Dispatch) End() int64 {
	return d.Start + d.RunFor
}

// DispatchContext is the read-only view of the system a policy sees when selecting.
type DispatchContext struct {
	Now               int64
	Previous          *Process // last dispatched process; nil before the first dispatch
	ContextSwitchCost int64
	Upcoming          *ArrivalQueue // processes that have not arrived yet
}

// StartFor returns when p would begin executing if dispatched now, and whether
// dispatching it costs a context switch.
func (c DispatchContext) StartFor(p *Process) (int64, bool) {
	if c.Previous != nil && c.Previous.ID != p.ID {
		return c.Now + c.ContextSwitchCost, true
	}
	return c.Now, false
}

// nextArrival returns the first arrival strictly after after accepted by match.
func (c DispatchContext) nextArrival(after int64, match func(*Process) bool) (int64, bool) {
	if c.Upcoming == nil {
		return 0, false
	}
	return c.Upcoming.NextMatching(after, match)
}

// dispatch assembles a Dispatch for p taken from level, capping runFor so that the run stops
// at the first upcoming arrival accepted by preempts. A nil preempts means no arrival can
// interrupt the run.
//
// An accepted arrival in (Now, start] lands while the context switch is in progress. The
// dispatch then has a zero RunFor: the switch is paid and the policy selects again.
func (c DispatchContext) dispatch(p *Process, level int, runFor int64, preempts func(*Process) bool) Dispatch {
	start, switched := c.StartFor(p)
	if preempts != nil {
		if at, ok := c.nextArrival(c.Now, preempts); ok {
			switch {
			case at <= start:
				runFor = 0
			case at-start < runFor:
				runFor = at - start
			}
		}
	}
	return Dispatch{Process: p, Level: level, Start: start, RunFor: runFor, ContextSwitch: switched}
}

// Policy is the contract every scheduling algorithm implements.
//
// The run loop calls Admit for each arrival, checks Pending before every Select,
// and hands the dispatched process back through Complete once its run ends.
// Between Select and Complete the process belongs to the run loop, not the policy.
type Policy interface {
	// Name returns the policy's registered name.
	Name() string
	// Admit moves a newly arrived process into the policy's ready structures.
	Admit(p *Process, now int64)
	// Pending reports whether any process is ready to run.
	Pending() bool
	// Select removes the next process from the ready structures and decides its run.
	// Selecting with nothing pending returns a *SchedulerInvariantError.
	Select(ctx DispatchContext) (Dispatch, error)
	// Complete charges ran units to p and either terminates it (true) or requeues it.
	// A zero ran returns a process whose dispatch ended with its context switch.
	Complete(p *Process, ran int64, now int64) (bool, error)
}

// consume charges ran units of CPU time to p, refusing to drive remaining time below zero.
func consume(policy string, p *Process, ran int64) error {
	if ran < 0 || ran > p.RemainingTime {
		return &SchedulerInvariantError{
			Policy: policy,
			Op:     "Complete",
			Detail: fmt.Sprintf("process %d ran %d units with %d remaining", p.ID, ran, p.RemainingTime),
		}
	}
	p.RemainingTime -= ran
	return nil
}

func emptySelect(policy string) error {
	return &SchedulerInvariantError{Policy: policy, Op: "Select", Detail: "no ready process"}
}

// Registered policy names.
const (
	PolicyFCFS     = "fcfs"
	PolicySJF      = "sjf"
	PolicySRT      = "srt"
	PolicyRR       = "rr"
	PolicyPriority = "priority"
	PolicyMLQ      = "mlq"
	PolicyMLFQ     = "mlfq"
)

// PolicyNames lists registered policies in menu order.
var PolicyNames = []string{PolicyFCFS, PolicySJF, PolicySRT, PolicyRR, PolicyPriority, PolicyMLQ, PolicyMLFQ}

// ValidPolicies is the set of recognized policy names. Empty defaults to fcfs.
var ValidPolicies = map[string]bool{
	"":             true,
	PolicyFCFS:     true,
	PolicySJF:      true,
	PolicySRT:      true,
	PolicyRR:       true,
	PolicyPriority: true,
	PolicyMLQ:      true,
	PolicyMLFQ:     true,
}

// IsValidPolicy returns true if name is a recognized policy.
func IsValidPolicy(name string) bool {
	return ValidPolicies[name]
}

// NewPolicy creates a Policy from cfg.
// Empty name defaults to FCFS (for CLI flag default compatibility).
// Panics on unrecognized names; call cfg.Validate first.
func NewPolicy(cfg PolicyConfig) Policy {
	if !IsValidPolicy(cfg.Name) {
		panic(fmt.Sprintf("unknown policy %q", cfg.Name))
	}
	switch cfg.Name {
	case "", PolicyFCFS:
		return &FCFSPolicy{}
	case PolicySJF:
		return NewSJFPolicy()
	case PolicySRT:
		return NewSRTPolicy()
	case PolicyRR:
		return &RoundRobinPolicy{Quantum: cfg.Quantum}
	case PolicyPriority:
		return NewPriorityPolicy(cfg.Preemptive)
	case PolicyMLQ:
		return &MLQPolicy{Quantum: cfg.MLQQuantum}
	case PolicyMLFQ:
		return NewMLFQPolicy(cfg.MLFQQuanta, cfg.BoostInterval)
	default:
		panic(fmt.Sprintf("unhandled policy %q", cfg.Name))
	}
}
