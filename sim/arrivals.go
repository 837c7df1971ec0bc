package sim

import (
	"github.com/emirpasic/gods/trees/redblacktree"
)

// ArrivalQueue owns every process that has not arrived yet, ordered by arrival time then ID.
// A process leaves it exactly once, when the run loop admits it into the active policy,
// so it can never be referenced from a future-arrivals structure and a ready structure
// at the same time.
type ArrivalQueue struct {
	rbt *redblacktree.Tree
}

// NewArrivalQueue builds a queue holding procs.
func NewArrivalQueue(procs []*Process) *ArrivalQueue {
	aq := &ArrivalQueue{rbt: redblacktree.NewWith(func(a, b any) int {
		pa, pb := a.(*Process), b.(*Process)
		switch {
		case byArrival(pa, pb):
			return -1
		case byArrival(pb, pa):
			return 1
		default:
			return 0
		}
	})}
	for _, p := range procs {
		aq.Push(p)
	}
	return aq
}

// Push adds a not-yet-arrived process.
func (aq *ArrivalQueue) Push(p *Process) {
	p.State = StateNew
	aq.rbt.Put(p, struct{}{})
}

// Len returns the number of pending arrivals.
func (aq *ArrivalQueue) Len() int {
	return aq.rbt.Size()
}

// Next returns the earliest arrival time, or false if nothing is pending.
func (aq *ArrivalQueue) Next() (int64, bool) {
	node := aq.rbt.Left()
	if node == nil {
		return 0, false
	}
	return node.Key.(*Process).ArrivalTime, true
}

// PopDue removes and returns, in (arrival, ID) order, every process arriving at or before now.
func (aq *ArrivalQueue) PopDue(now int64) []*Process {
	var due []*Process
	for {
		node := aq.rbt.Left()
		if node == nil {
			return due
		}
		p := node.Key.(*Process)
		if p.ArrivalTime > now {
			return due
		}
		aq.rbt.Remove(p)
		due = append(due, p)
	}
}

// NextMatching returns the earliest arrival strictly after `after` for which match returns true.
func (aq *ArrivalQueue) NextMatching(after int64, match func(*Process) bool) (int64, bool) {
	it := aq.rbt.Iterator()
	for it.Next() {
		p := it.Key().(*Process)
		if p.ArrivalTime <= after {
			continue
		}
		if match == nil || match(p) {
			return p.ArrivalTime, true
		}
	}
	return 0, false
}
