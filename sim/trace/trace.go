package trace

// SimulationTrace collects the timeline of a single scheduling run.
type SimulationTrace struct {
	Policy   string
	Segments []Segment
	Boosts   []BoostRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(policy string) *SimulationTrace {
	return &SimulationTrace{
		Policy:   policy,
		Segments: make([]Segment, 0),
		Boosts:   make([]BoostRecord, 0),
	}
}

// RecordSegment appends a timeline segment. Zero-length segments are dropped.
func (st *SimulationTrace) RecordSegment(seg Segment) {
	if seg.End <= seg.Start {
		return
	}
	st.Segments = append(st.Segments, seg)
}

// RecordBoost appends a priority-boost record.
func (st *SimulationTrace) RecordBoost(record BoostRecord) {
	st.Boosts = append(st.Boosts, record)
}

// Dispatches returns only the run segments, in timeline order.
func (st *SimulationTrace) Dispatches() []Segment {
	out := make([]Segment, 0, len(st.Segments))
	for _, s := range st.Segments {
		if s.Kind == KindRun {
			out = append(out, s)
		}
	}
	return out
}

// End returns the end of the last recorded segment, or 0 for an empty trace.
func (st *SimulationTrace) End() int64 {
	if len(st.Segments) == 0 {
		return 0
	}
	return st.Segments[len(st.Segments)-1].End
}
