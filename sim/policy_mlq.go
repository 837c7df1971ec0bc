package sim

// MLQPolicy is a multi-level queue with one fixed level per process type.
//
// Levels 0-2 (real-time, system, interactive) are served round robin with Quantum.
// The lowest level (batch) is FCFS. Every level is preemptible: a run stops as soon as
// a process arrives into a strictly higher level. A preempted process resumes first in its
// level with the rest of its slice; a process whose slice ran out goes to the tail.
// Processes never move between levels.
type MLQPolicy struct {
	Quantum int64
	levels  LevelQueues
}

func (m *MLQPolicy) Name() string { return PolicyMLQ }

func (m *MLQPolicy) queues() LevelQueues {
	if m.levels == nil {
		m.levels = NewLevelQueues(NumProcessTypes)
	}
	return m.levels
}

func (m *MLQPolicy) quantum() int64 {
	if m.Quantum <= 0 {
		return DefaultQuantum
	}
	return m.Quantum
}

// roundRobin reports whether level is served in time slices.
func (m *MLQPolicy) roundRobin(level int) bool {
	return level < NumProcessTypes-1
}

func (m *MLQPolicy) Admit(p *Process, _ int64) {
	p.Level = p.Type.QueueLevel()
	p.QuantumUsed = 0
	p.QuantumExhausted = false
	m.queues()[p.Level].Enqueue(p)
}

func (m *MLQPolicy) Pending() bool { return m.queues().Len() > 0 }

func (m *MLQPolicy) Select(ctx DispatchContext) (Dispatch, error) {
	level := m.queues().Highest()
	if level < 0 {
		return Dispatch{}, emptySelect(m.Name())
	}
	p := m.levels[level].Dequeue()
	runFor := p.RemainingTime
	if m.roundRobin(level) {
		runFor = min(runFor, m.quantum()-p.QuantumUsed)
	}
	d := ctx.dispatch(p, level, runFor, func(q *Process) bool {
		return q.Type.QueueLevel() < level
	})
	return d, nil
}

func (m *MLQPolicy) Complete(p *Process, ran int64, _ int64) (bool, error) {
	if err := consume(m.Name(), p, ran); err != nil {
		return false, err
	}
	if p.RemainingTime == 0 {
		return true, nil
	}
	q := m.levels[p.Level]
	if !m.roundRobin(p.Level) {
		q.PrependFront(p)
		return false, nil
	}
	p.QuantumUsed += ran
	if p.QuantumUsed >= m.quantum() {
		p.QuantumUsed = 0
		p.QuantumExhausted = true
		q.Enqueue(p)
		return false, nil
	}
	p.QuantumExhausted = false
	q.PrependFront(p)
	return false, nil
}
