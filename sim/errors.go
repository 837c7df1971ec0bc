package sim

import "fmt"

// InvalidProcessError reports a process descriptor rejected at admission.
type InvalidProcessError struct {
	ProcessID int
	Field     string
	Value     string
	Reason    string
}

func (e *InvalidProcessError) Error() string {
	return fmt.Sprintf("invalid process %d: %s=%q %s", e.ProcessID, e.Field, e.Value, e.Reason)
}

// SchedulerInvariantError signals a programming bug inside a policy or the run loop,
// e.g. selecting from empty ready structures. It is never caused by user input.
type SchedulerInvariantError struct {
	Policy string
	Op     string
	Detail string
}

func (e *SchedulerInvariantError) Error() string {
	return fmt.Sprintf("scheduler invariant violated in %s.%s: %s", e.Policy, e.Op, e.Detail)
}

// HorizonExceededError is returned when the simulated clock passes the configured ceiling
// before every process terminated.
type HorizonExceededError struct {
	Horizon    int64
	Clock      int64
	Unfinished int
}

func (e *HorizonExceededError) Error() string {
	return fmt.Sprintf("simulation horizon %d exceeded at clock %d with %d unfinished processes", e.Horizon, e.Clock, e.Unfinished)
}
