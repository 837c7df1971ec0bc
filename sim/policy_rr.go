package sim

// DefaultQuantum is the time slice used by Round Robin and the MLQ round-robin levels
// when none is configured.
const DefaultQuantum int64 = 4

// RoundRobinPolicy serves a single FIFO queue in slices of at most Quantum units.
// An unfinished process goes to the tail, behind anything that arrived during its slice.
type RoundRobinPolicy struct {
	Quantum int64
	ready   ReadyQueue
}

func (r *RoundRobinPolicy) Name() string { return PolicyRR }

func (r *RoundRobinPolicy) Admit(p *Process, _ int64) {
	r.ready.Enqueue(p)
}

func (r *RoundRobinPolicy) Pending() bool { return r.ready.Len() > 0 }

func (r *RoundRobinPolicy) quantum() int64 {
	if r.Quantum <= 0 {
		return DefaultQuantum
	}
	return r.Quantum
}

func (r *RoundRobinPolicy) Select(ctx DispatchContext) (Dispatch, error) {
	p := r.ready.Dequeue()
	if p == nil {
		return Dispatch{}, emptySelect(r.Name())
	}
	return ctx.dispatch(p, 0, min(r.quantum(), p.RemainingTime), nil), nil
}

func (r *RoundRobinPolicy) Complete(p *Process, ran int64, _ int64) (bool, error) {
	if err := consume(r.Name(), p, ran); err != nil {
		return false, err
	}
	if p.RemainingTime == 0 {
		return true, nil
	}
	r.ready.Enqueue(p)
	return false, nil
}
