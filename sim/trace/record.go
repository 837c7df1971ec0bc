// Package trace provides timeline recording for scheduling runs.
// This package has no dependencies on sim/; it stores pure data types that a renderer
// (Gantt chart, CSV export) consumes.
package trace

// SegmentKind classifies a span of simulated time.
type SegmentKind string

const (
	// KindRun is a process executing on the CPU.
	KindRun SegmentKind = "run"
	// KindContextSwitch is switching overhead charged before a dispatch.
	KindContextSwitch SegmentKind = "context-switch"
	// KindIdle is the CPU waiting for the next arrival.
	KindIdle SegmentKind = "idle"
)

// Segment captures one contiguous span [Start, End) of the timeline.
// ProcessID and Name refer to the dispatched process for run and context-switch
// segments; idle segments carry ProcessID 0.
type Segment struct {
	Kind      SegmentKind
	Start     int64
	End       int64
	ProcessID int
	Name      string
	Level     int  // ready-structure level the process was dispatched from
	Completed bool // the process terminated at End
}

// Duration returns the length of the segment.
func (s Segment) Duration() int64 {
	return s.End - s.Start
}

// BoostRecord captures a periodic priority boost.
type BoostRecord struct {
	Clock    int64
	Promoted int // number of processes moved back to the top level
}
