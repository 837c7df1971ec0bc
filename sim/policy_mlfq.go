package sim

// MLFQ defaults.
const (
	DefaultBoostInterval int64 = 20
	MLFQLevels                 = 3
)

// DefaultMLFQQuanta are the per-level time slices, top level first.
var DefaultMLFQQuanta = []int64{4, 8, 16}

// MLFQPolicy is a multi-level feedback queue with three levels.
//
// Every arrival enters level 0. A process that uses up its level's quantum is demoted one
// level (the bottom level keeps it, at the tail). Arrivals preempt processes running below
// level 0; the preempted process resumes first in its level with the rest of its slice.
// Every BoostInterval time units all processes in levels 1-2, including one that was
// running below level 0, move back to level 0 with a fresh slice.
type MLFQPolicy struct {
	Quanta        []int64
	BoostInterval int64 // <= 0 disables boosting

	levels    LevelQueues
	nextBoost int64
}

// NewMLFQPolicy creates an MLFQ. Missing or non-positive quanta fall back to DefaultMLFQQuanta.
func NewMLFQPolicy(quanta []int64, boostInterval int64) *MLFQPolicy {
	q := make([]int64, MLFQLevels)
	for i := range q {
		q[i] = DefaultMLFQQuanta[i]
		if i < len(quanta) && quanta[i] > 0 {
			q[i] = quanta[i]
		}
	}
	return &MLFQPolicy{
		Quanta:        q,
		BoostInterval: boostInterval,
		levels:        NewLevelQueues(MLFQLevels),
		nextBoost:     boostInterval,
	}
}

func (m *MLFQPolicy) Name() string { return PolicyMLFQ }

func (m *MLFQPolicy) Admit(p *Process, _ int64) {
	p.Level = 0
	p.QuantumUsed = 0
	p.QuantumExhausted = false
	m.levels[0].Enqueue(p)
}

func (m *MLFQPolicy) Pending() bool { return m.levels.Len() > 0 }

// boostDue applies every boost whose tick is at or before now and returns how many
// processes were promoted. Boost ticks are the multiples of BoostInterval.
func (m *MLFQPolicy) boostDue(now int64) int {
	if m.BoostInterval <= 0 || now < m.nextBoost {
		return 0
	}
	m.nextBoost = (now/m.BoostInterval + 1) * m.BoostInterval
	promoted := 0
	for level := 1; level < len(m.levels); level++ {
		for _, p := range m.levels[level].Drain() {
			p.Level = 0
			p.QuantumUsed = 0
			p.QuantumExhausted = false
			m.levels[0].Enqueue(p)
			promoted++
		}
	}
	return promoted
}

func (m *MLFQPolicy) Select(ctx DispatchContext) (Dispatch, error) {
	boosted := m.boostDue(ctx.Now)
	level := m.levels.Highest()
	if level < 0 {
		return Dispatch{}, emptySelect(m.Name())
	}
	p := m.levels[level].Dequeue()
	runFor := min(p.RemainingTime, m.Quanta[level]-p.QuantumUsed)

	var d Dispatch
	if level == 0 {
		// Nothing outranks level 0 and a boost cannot move it.
		d = ctx.dispatch(p, level, runFor, nil)
	} else {
		d = ctx.dispatch(p, level, runFor, func(*Process) bool { return true })
		if m.BoostInterval > 0 {
			switch {
			case m.nextBoost <= d.Start:
				// The boost tick passes during the context switch; it is applied at reselection.
				d.RunFor = 0
			case m.nextBoost-d.Start < d.RunFor:
				d.RunFor = m.nextBoost - d.Start
			}
		}
	}
	d.Boosted = boosted
	return d, nil
}

func (m *MLFQPolicy) Complete(p *Process, ran int64, _ int64) (bool, error) {
	if err := consume(m.Name(), p, ran); err != nil {
		return false, err
	}
	if p.RemainingTime == 0 {
		return true, nil
	}
	p.QuantumUsed += ran
	if p.QuantumUsed >= m.Quanta[p.Level] {
		p.QuantumExhausted = true
		p.QuantumUsed = 0
		if p.Level < len(m.levels)-1 {
			p.Level++
		}
		m.levels[p.Level].Enqueue(p)
		return false, nil
	}
	p.QuantumExhausted = false
	m.levels[p.Level].PrependFront(p)
	return false, nil
}
