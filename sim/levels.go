package sim

// LevelQueues is an array of FIFO ready queues indexed by level, 0 being the highest priority.
type LevelQueues []*ReadyQueue

// NewLevelQueues creates n empty levels.
func NewLevelQueues(n int) LevelQueues {
	lq := make(LevelQueues, n)
	for i := range lq {
		lq[i] = &ReadyQueue{}
	}
	return lq
}

// Highest returns the highest-priority non-empty level, or -1 if every level is empty.
func (lq LevelQueues) Highest() int {
	for i, q := range lq {
		if q.Len() > 0 {
			return i
		}
	}
	return -1
}

// Len returns the number of processes across all levels.
func (lq LevelQueues) Len() int {
	n := 0
	for _, q := range lq {
		n += q.Len()
	}
	return n
}
