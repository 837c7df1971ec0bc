// Tracks simulation-wide time buckets and per-process outcomes, and derives the
// aggregate figures reported at the end of a run.

package sim

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
)

// Metrics aggregates statistics about the simulation for final reporting.
// BusyTime + IdleTime + ContextSwitchTime always equals the final clock.
type Metrics struct {
	BusyTime          int64 // Time spent executing processes
	IdleTime          int64 // Time with nothing ready
	ContextSwitchTime int64 // Time spent switching between processes
	ContextSwitches   int   // Number of switches charged

	Finished []*Process // Terminated processes in completion order
}

// NewMetrics returns an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// TotalTime returns the simulated time covered by the three buckets.
func (m *Metrics) TotalTime() int64 {
	return m.BusyTime + m.IdleTime + m.ContextSwitchTime
}

// Utilization returns busy time as a percentage of total time, or 0 when no time has passed.
func (m *Metrics) Utilization() float64 {
	total := m.TotalTime()
	if total == 0 {
		return 0
	}
	return float64(m.BusyTime) / float64(total) * 100
}

// FinishedByID returns the terminated processes sorted by ID.
func (m *Metrics) FinishedByID() []*Process {
	out := append([]*Process(nil), m.Finished...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ProcessResult is the per-process row of a run's results.
type ProcessResult struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	Priority       int    `json:"priority"`
	ArrivalTime    int64  `json:"arrival_time"`
	BurstTime      int64  `json:"burst_time"`
	StartedAt      int64  `json:"started_at"`
	FinishedAt     int64  `json:"finished_at"`
	ResponseTime   int64  `json:"response_time"`
	WaitingTime    int64  `json:"waiting_time"`
	TurnaroundTime int64  `json:"turnaround_time"`
}

// TypeSummary holds averages over the processes of one type.
type TypeSummary struct {
	Count         int     `json:"count"`
	AvgWaiting    float64 `json:"avg_waiting_time"`
	AvgTurnaround float64 `json:"avg_turnaround_time"`
	AvgResponse   float64 `json:"avg_response_time"`
}

// Summary is the complete, serializable outcome of one run.
type Summary struct {
	Policy            string                 `json:"policy"`
	Processes         int                    `json:"processes"`
	AvgWaiting        float64                `json:"avg_waiting_time"`
	AvgTurnaround     float64                `json:"avg_turnaround_time"`
	AvgResponse       float64                `json:"avg_response_time"`
	P90Turnaround     float64                `json:"p90_turnaround_time"`
	MaxWaiting        int64                  `json:"max_waiting_time"`
	BusyTime          int64                  `json:"busy_time"`
	IdleTime          int64                  `json:"idle_time"`
	ContextSwitchTime int64                  `json:"context_switch_time"`
	ContextSwitches   int                    `json:"context_switches"`
	TotalTime         int64                  `json:"total_time"`
	MaxFinishedAt     int64                  `json:"max_finished_at"`
	Utilization       float64                `json:"cpu_utilization"` // percent
	Throughput        float64                `json:"throughput"`      // processes per time unit
	PerType           map[string]TypeSummary `json:"per_type,omitempty"`
	Details           []ProcessResult        `json:"details"`
}

// Summarize derives the run's aggregate figures. An empty run yields all-zero averages.
func (m *Metrics) Summarize(policy string) Summary {
	done := m.FinishedByID()
	s := Summary{
		Policy:            policy,
		Processes:         len(done),
		BusyTime:          m.BusyTime,
		IdleTime:          m.IdleTime,
		ContextSwitchTime: m.ContextSwitchTime,
		ContextSwitches:   m.ContextSwitches,
		TotalTime:         m.TotalTime(),
		Utilization:       m.Utilization(),
		Details:           make([]ProcessResult, 0, len(done)),
	}

	waits := make([]int64, 0, len(done))
	tats := make([]int64, 0, len(done))
	resps := make([]int64, 0, len(done))
	byType := map[string][]*Process{}
	for _, p := range done {
		waits = append(waits, p.WaitingTime)
		tats = append(tats, p.TurnaroundTime)
		resps = append(resps, p.ResponseTime)
		s.MaxWaiting = max(s.MaxWaiting, p.WaitingTime)
		s.MaxFinishedAt = max(s.MaxFinishedAt, p.FinishedAt)
		byType[p.Type.String()] = append(byType[p.Type.String()], p)
		s.Details = append(s.Details, ProcessResult{
			ID:             p.ID,
			Name:           p.Name,
			Type:           p.Type.String(),
			Priority:       p.Priority,
			ArrivalTime:    p.ArrivalTime,
			BurstTime:      p.BurstTime,
			StartedAt:      p.StartedAt,
			FinishedAt:     p.FinishedAt,
			ResponseTime:   p.ResponseTime,
			WaitingTime:    p.WaitingTime,
			TurnaroundTime: p.TurnaroundTime,
		})
	}
	s.AvgWaiting = CalculateMean(waits)
	s.AvgTurnaround = CalculateMean(tats)
	s.AvgResponse = CalculateMean(resps)
	s.P90Turnaround = CalculatePercentile(tats, 90)
	if s.TotalTime > 0 {
		s.Throughput = float64(len(done)) / float64(s.TotalTime)
	}

	if len(byType) > 0 {
		s.PerType = make(map[string]TypeSummary, len(byType))
		for name, procs := range byType {
			var w, t, r []int64
			for _, p := range procs {
				w = append(w, p.WaitingTime)
				t = append(t, p.TurnaroundTime)
				r = append(r, p.ResponseTime)
			}
			s.PerType[name] = TypeSummary{
				Count:         len(procs),
				AvgWaiting:    CalculateMean(w),
				AvgTurnaround: CalculateMean(t),
				AvgResponse:   CalculateMean(r),
			}
		}
	}
	return s
}

// SaveResults writes the summary as indented JSON to outputFilePath.
func (s Summary) SaveResults(outputFilePath string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}
	if err := os.WriteFile(outputFilePath, data, 0644); err != nil {
		return fmt.Errorf("writing results to %s: %w", outputFilePath, err)
	}
	logrus.Infof("Saved %s results to %s", s.Policy, outputFilePath)
	return nil
}
