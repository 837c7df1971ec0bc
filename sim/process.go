// Defines the Process struct that models a single schedulable unit in the simulation.
// Tracks arrival, burst and remaining time, plus the lifecycle timestamps used by metrics.

package sim

import (
	"fmt"
	"strings"
)

// Unset marks a lifecycle timestamp that has not been recorded yet.
const Unset int64 = -1

// ProcessState represents the lifecycle state of a process.
type ProcessState string

const (
	StateNew        ProcessState = "new"
	StateReady      ProcessState = "ready"
	StateRunning    ProcessState = "running"
	StateTerminated ProcessState = "terminated"
)

// ProcessType classifies a process. Each type maps to a fixed multi-level queue level.
type ProcessType int

const (
	TypeRealTime ProcessType = iota
	TypeSystem
	TypeInteractive
	TypeBatch
)

// NumProcessTypes is the number of process types, and so the number of MLQ levels.
const NumProcessTypes = 4

// QueueLevel returns the fixed multi-level queue level of the type (0 = highest).
func (t ProcessType) QueueLevel() int {
	return int(t)
}

func (t ProcessType) String() string {
	switch t {
	case TypeRealTime:
		return "real-time"
	case TypeSystem:
		return "system"
	case TypeInteractive:
		return "interactive"
	case TypeBatch:
		return "batch"
	default:
		return fmt.Sprintf("ProcessType(%d)", int(t))
	}
}

// Valid reports whether t is one of the known process types.
func (t ProcessType) Valid() bool {
	return t >= TypeRealTime && t <= TypeBatch
}

// ParseProcessType converts a type name into a ProcessType.
// Matching is case-insensitive; "real-time", "real_time" and "realtime" are all accepted.
func ParseProcessType(s string) (ProcessType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "real-time", "real_time", "realtime":
		return TypeRealTime, nil
	case "system":
		return TypeSystem, nil
	case "interactive":
		return TypeInteractive, nil
	case "batch":
		return TypeBatch, nil
	default:
		return 0, fmt.Errorf("unknown process type %q", s)
	}
}

// ProcessSpec is the validated-by-loader description of a process handed to the simulator.
type ProcessSpec struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"name"`
	ArrivalTime int64  `yaml:"arrival"`
	BurstTime   int64  `yaml:"burst"`
	Priority    int    `yaml:"priority"`
	Type        string `yaml:"type"`
}

// Process models a single process's lifecycle in the simulation.
type Process struct {
	ID   int    // Unique, stable identifier
	Name string // Display name
	Type ProcessType

	ArrivalTime   int64 // Time at which the process becomes ready
	BurstTime     int64 // Total CPU time required
	RemainingTime int64 // BurstTime minus CPU time consumed so far
	Priority      int   // Lower value = higher priority

	State ProcessState

	StartedAt      int64 // First dispatch time
	FinishedAt     int64 // Completion time
	ResponseTime   int64 // StartedAt - ArrivalTime
	TurnaroundTime int64 // FinishedAt - ArrivalTime
	WaitingTime    int64 // TurnaroundTime - BurstTime

	// Multi-level queue bookkeeping. Level is the queue the process currently belongs to;
	// QuantumUsed counts time consumed from the current slice at that level.
	Level            int
	QuantumUsed      int64
	QuantumExhausted bool
}

// NewProcess validates spec and builds a process in the New state.
func NewProcess(spec ProcessSpec) (*Process, error) {
	if spec.ArrivalTime < 0 {
		return nil, &InvalidProcessError{ProcessID: spec.ID, Field: "arrival", Value: fmt.Sprint(spec.ArrivalTime), Reason: "must be non-negative"}
	}
	if spec.BurstTime <= 0 {
		return nil, &InvalidProcessError{ProcessID: spec.ID, Field: "burst", Value: fmt.Sprint(spec.BurstTime), Reason: "must be positive"}
	}
	typ, err := ParseProcessType(spec.Type)
	if err != nil {
		return nil, &InvalidProcessError{ProcessID: spec.ID, Field: "type", Value: spec.Type, Reason: "unrecognized type"}
	}
	name := spec.Name
	if name == "" {
		name = fmt.Sprintf("P%d", spec.ID)
	}
	return &Process{
		ID:             spec.ID,
		Name:           name,
		Type:           typ,
		ArrivalTime:    spec.ArrivalTime,
		BurstTime:      spec.BurstTime,
		RemainingTime:  spec.BurstTime,
		Priority:       spec.Priority,
		State:          StateNew,
		StartedAt:      Unset,
		FinishedAt:     Unset,
		ResponseTime:   Unset,
		TurnaroundTime: Unset,
		WaitingTime:    Unset,
		Level:          typ.QueueLevel(),
	}, nil
}

// markStarted records the first dispatch. Later dispatches leave StartedAt untouched.
func (p *Process) markStarted(now int64) {
	if p.StartedAt != Unset {
		return
	}
	p.StartedAt = now
	p.ResponseTime = now - p.ArrivalTime
}

// markFinished terminates the process and derives its timing figures.
func (p *Process) markFinished(now int64) {
	p.State = StateTerminated
	p.FinishedAt = now
	p.TurnaroundTime = now - p.ArrivalTime
	p.WaitingTime = p.TurnaroundTime - p.BurstTime
}

// Finished reports whether the process has terminated.
func (p *Process) Finished() bool {
	return p.State == StateTerminated
}

// This method returns a human-readable string representation of a Process.
func (p Process) String() string {
	return fmt.Sprintf("Process: (ID: %d, Name: %s, State: %s, Remaining: %d, Arrival: %d)", p.ID, p.Name, p.State, p.RemainingTime, p.ArrivalTime)
}
