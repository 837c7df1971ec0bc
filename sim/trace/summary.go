package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	Dispatches        int
	ContextSwitches   int
	IdleSegments      int
	Boosts            int
	Preemptions       int           // run segments that ended without completing the process
	SlicesPerProcess  map[int]int   // process ID → number of run segments
	LevelDistribution map[int]int64 // level → CPU time served from that level
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		SlicesPerProcess:  make(map[int]int),
		LevelDistribution: make(map[int]int64),
	}
	if st == nil {
		return summary
	}

	for _, s := range st.Segments {
		switch s.Kind {
		case KindRun:
			summary.Dispatches++
			summary.SlicesPerProcess[s.ProcessID]++
			summary.LevelDistribution[s.Level] += s.Duration()
			if !s.Completed {
				summary.Preemptions++
			}
		case KindContextSwitch:
			summary.ContextSwitches++
		case KindIdle:
			summary.IdleSegments++
		}
	}
	summary.Boosts = len(st.Boosts)

	return summary
}

// Coalesce merges adjacent segments that continue one another: same kind, same process,
// same level, and touching in time. A process re-dispatched without a context switch
// (e.g. an SRT run cut at an arrival that did not win) renders as one bar.
func Coalesce(segments []Segment) []Segment {
	out := make([]Segment, 0, len(segments))
	for _, s := range segments {
		if n := len(out); n > 0 {
			last := &out[n-1]
			if last.Kind == s.Kind && last.ProcessID == s.ProcessID && last.Level == s.Level && last.End == s.Start {
				last.End = s.End
				last.Completed = s.Completed
				continue
			}
		}
		out = append(out, s)
	}
	return out
}
