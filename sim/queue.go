// Implements the ReadyQueue, a FIFO of processes waiting for the CPU.
// Processes are enqueued on admission and on requeue after a time slice.

package sim

import (
	"fmt"
	"strings"
)

// ReadyQueue represents a FIFO queue of processes waiting to be dispatched.
// FCFS and Round Robin use one directly; multi-level policies hold one per level.
type ReadyQueue struct {
	queue []*Process // FIFO queue of processes
}

// Enqueue adds a process to the back of the ready queue.
func (rq *ReadyQueue) Enqueue(p *Process) {
	if p == nil {
		panic("Enqueue: process must not be nil")
	}
	p.State = StateReady
	rq.queue = append(rq.queue, p)
}

func (rq *ReadyQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, p := range rq.queue {
		sb.WriteString(fmt.Sprint(p.ID))
		if i < len(rq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of processes in the queue.
func (rq *ReadyQueue) Len() int {
	return len(rq.queue)
}

// Peek returns the process at the front of the queue without removing it.
// Returns nil if the queue is empty.
func (rq *ReadyQueue) Peek() *Process {
	if len(rq.queue) == 0 {
		return nil
	}
	return rq.queue[0]
}

// PrependFront inserts a process at the front of the queue.
// Used for preemption: a process interrupted before its slice ended
// is placed back at the head of its queue so it resumes first.
func (rq *ReadyQueue) PrependFront(p *Process) {
	if p == nil {
		panic("PrependFront: process must not be nil")
	}
	p.State = StateReady
	rq.queue = append([]*Process{p}, rq.queue...)
}

// Items returns the queue contents for iteration.
// The returned slice is the queue's internal storage; callers MUST NOT append to or reslice it.
func (rq *ReadyQueue) Items() []*Process {
	return rq.queue
}

// Dequeue removes and returns the process at the front of the queue, or nil if empty.
func (rq *ReadyQueue) Dequeue() *Process {
	if len(rq.queue) == 0 {
		return nil
	}
	p := rq.queue[0]
	rq.queue[0] = nil
	rq.queue = rq.queue[1:]
	return p
}

// Drain removes and returns every queued process in FIFO order.
func (rq *ReadyQueue) Drain() []*Process {
	out := rq.queue
	rq.queue = nil
	return out
}
