package sim

import (
	"github.com/emirpasic/gods/trees/redblacktree"
)

// ProcessLess orders two processes for an OrderedSet. It MUST be a strict total order,
// so implementations end with an ID comparison.
type ProcessLess func(a, b *Process) bool

// OrderedSet keeps ready processes sorted by a policy-specific key in a red-black tree.
// Keys are the processes themselves: a process MUST be removed before any field the
// ordering reads (remaining time, priority) is mutated, and re-inserted afterwards.
type OrderedSet struct {
	rbt *redblacktree.Tree
}

// NewOrderedSet creates an empty set ordered by less.
func NewOrderedSet(less ProcessLess) *OrderedSet {
	cmp := func(a, b any) int {
		pa, pb := a.(*Process), b.(*Process)
		switch {
		case less(pa, pb):
			return -1
		case less(pb, pa):
			return 1
		default:
			return 0
		}
	}
	return &OrderedSet{rbt: redblacktree.NewWith(cmp)}
}

// Insert adds p to the set and marks it ready.
func (s *OrderedSet) Insert(p *Process) {
	if p == nil {
		panic("Insert: process must not be nil")
	}
	p.State = StateReady
	s.rbt.Put(p, struct{}{})
}

// Len returns the number of processes in the set.
func (s *OrderedSet) Len() int {
	return s.rbt.Size()
}

// Min returns the smallest process without removing it, or nil if the set is empty.
func (s *OrderedSet) Min() *Process {
	node := s.rbt.Left()
	if node == nil {
		return nil
	}
	return node.Key.(*Process)
}

// PopMin removes and returns the smallest process, or nil if the set is empty.
func (s *OrderedSet) PopMin() *Process {
	p := s.Min()
	if p != nil {
		s.rbt.Remove(p)
	}
	return p
}

// Items returns the processes in ascending order.
func (s *OrderedSet) Items() []*Process {
	keys := s.rbt.Keys()
	out := make([]*Process, len(keys))
	for i, k := range keys {
		out[i] = k.(*Process)
	}
	return out
}

// byArrival orders by arrival time, then ID.
func byArrival(a, b *Process) bool {
	if a.ArrivalTime != b.ArrivalTime {
		return a.ArrivalTime < b.ArrivalTime
	}
	return a.ID < b.ID
}

// byBurst orders by burst time, then ID.
func byBurst(a, b *Process) bool {
	if a.BurstTime != b.BurstTime {
		return a.BurstTime < b.BurstTime
	}
	return a.ID < b.ID
}

// byRemaining orders by remaining time, then ID.
func byRemaining(a, b *Process) bool {
	if a.RemainingTime != b.RemainingTime {
		return a.RemainingTime < b.RemainingTime
	}
	return a.ID < b.ID
}

// byPriority orders by priority value (lower first), then arrival time, then ID.
func byPriority(a, b *Process) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return byArrival(a, b)
}
