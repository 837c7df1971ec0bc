// Package testutil provides shared test infrastructure for the scheduling simulator.
// It holds the golden dataset types and assertion helpers used by sim/ tests.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one hand-checked run: a policy, its parameters, the processes and the
// outcome it must produce.
type GoldenTestCase struct {
	Name              string          `json:"name"`
	Policy            string          `json:"policy"`
	Quantum           int64           `json:"quantum,omitempty"`
	Preemptive        bool            `json:"preemptive,omitempty"`
	ContextSwitchCost int64           `json:"context_switch_cost"`
	Processes         []GoldenProcess `json:"processes"`
	Metrics           GoldenMetrics   `json:"metrics"`
}

// GoldenProcess mirrors the process descriptor fields a golden case needs.
type GoldenProcess struct {
	ID       int    `json:"id"`
	Arrival  int64  `json:"arrival"`
	Burst    int64  `json:"burst"`
	Priority int    `json:"priority"`
	Type     string `json:"type"`
}

// GoldenMetrics represents the expected metrics from a golden test case.
type GoldenMetrics struct {
	// Exact match metrics (integers)
	FinishedAt        map[int]int64 `json:"finished_at"`
	TotalTime         int64         `json:"total_time"`
	BusyTime          int64         `json:"busy_time"`
	IdleTime          int64         `json:"idle_time"`
	ContextSwitchTime int64         `json:"context_switch_time"`
	ContextSwitches   int           `json:"context_switches"`

	// Averages and ratios
	AvgWaiting    float64 `json:"avg_waiting_time"`
	AvgTurnaround float64 `json:"avg_turnaround_time"`
	AvgResponse   float64 `json:"avg_response_time"`
	Utilization   float64 `json:"cpu_utilization"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	if len(dataset.Tests) == 0 {
		t.Fatal("Golden dataset has no test cases")
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
