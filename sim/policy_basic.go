package sim

import (
	"fmt"
)

// FCFSPolicy runs processes to completion in arrival order.
// Arrivals are admitted in (arrival, ID) order, so FIFO order is the tie-break too.
type FCFSPolicy struct {
	ready ReadyQueue
}

func (f *FCFSPolicy) Name() string { return PolicyFCFS }

func (f *FCFSPolicy) Admit(p *Process, _ int64) {
	f.ready.Enqueue(p)
}

func (f *FCFSPolicy) Pending() bool { return f.ready.Len() > 0 }

func (f *FCFSPolicy) Select(ctx DispatchContext) (Dispatch, error) {
	p := f.ready.Dequeue()
	if p == nil {
		return Dispatch{}, emptySelect(f.Name())
	}
	return ctx.dispatch(p, 0, p.RemainingTime, nil), nil
}

// Complete terminates p. FCFS dispatches always run to completion, so a shorter run is
// reported as an invariant violation.
func (f *FCFSPolicy) Complete(p *Process, ran int64, _ int64) (bool, error) {
	if ran < p.RemainingTime {
		return false, &SchedulerInvariantError{
			Policy: f.Name(),
			Op:     "Complete",
			Detail: fmt.Sprintf("process %d ran %d units but needs %d to finish", p.ID, ran, p.RemainingTime),
		}
	}
	if err := consume(f.Name(), p, ran); err != nil {
		return false, err
	}
	return true, nil
}

// orderedPolicy is the shared shape of policies that pick the minimum of an OrderedSet.
// preempts, when set, reports whether an upcoming arrival q interrupts running process p
// that started at start.
type orderedPolicy struct {
	name     string
	ready    *OrderedSet
	preempts func(p, q *Process, start int64) bool
}

func (o *orderedPolicy) Name() string { return o.name }

func (o *orderedPolicy) Admit(p *Process, _ int64) {
	o.ready.Insert(p)
}

func (o *orderedPolicy) Pending() bool { return o.ready.Len() > 0 }

func (o *orderedPolicy) Select(ctx DispatchContext) (Dispatch, error) {
	p := o.ready.PopMin()
	if p == nil {
		return Dispatch{}, emptySelect(o.name)
	}
	if o.preempts == nil {
		return ctx.dispatch(p, 0, p.RemainingTime, nil), nil
	}
	start, _ := ctx.StartFor(p)
	return ctx.dispatch(p, 0, p.RemainingTime, func(q *Process) bool {
		return o.preempts(p, q, start)
	}), nil
}

func (o *orderedPolicy) Complete(p *Process, ran int64, _ int64) (bool, error) {
	if err := consume(o.name, p, ran); err != nil {
		return false, err
	}
	if p.RemainingTime == 0 {
		return true, nil
	}
	// Re-inserted after mutation so the tree sees the new key.
	o.ready.Insert(p)
	return false, nil
}

// NewSJFPolicy returns non-preemptive Shortest Job First: smallest burst time, then ID.
func NewSJFPolicy() Policy {
	return &orderedPolicy{name: PolicySJF, ready: NewOrderedSet(byBurst)}
}

// NewSRTPolicy returns Shortest Remaining Time, the preemptive form of SJF.
//
// Runs are cut at the first arrival that would win a per-unit re-evaluation: one whose
// burst is below the runner's remaining time at that instant, or equal with a lower ID.
// This yields the same schedule as stepping the clock one unit at a time.
func NewSRTPolicy() Policy {
	return &orderedPolicy{
		name:  PolicySRT,
		ready: NewOrderedSet(byRemaining),
		preempts: func(p, q *Process, start int64) bool {
			left := p.RemainingTime - max(0, q.ArrivalTime-start)
			return q.BurstTime < left || (q.BurstTime == left && q.ID < p.ID)
		},
	}
}

// NewPriorityPolicy returns priority scheduling: smallest priority value, then arrival, then ID.
//
// Preemptive mode interrupts the runner as soon as a process with a strictly smaller
// priority value arrives; an equal value never preempts because the runner arrived first.
// Non-preemptive mode runs every dispatch to completion. A higher-priority process that
// arrives meanwhile stays in the ready set and is considered at the next decision point.
func NewPriorityPolicy(preemptive bool) Policy {
	o := &orderedPolicy{name: PolicyPriority, ready: NewOrderedSet(byPriority)}
	if preemptive {
		o.preempts = func(p, q *Process, _ int64) bool {
			return q.Priority < p.Priority
		}
	}
	return o
}
