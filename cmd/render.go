package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/procsim/sim"
	"github.com/inference-sim/procsim/sim/trace"
)

func outputTitle(w io.Writer, title string) {
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)*2))
	_, _ = fmt.Fprintln(w, strings.Repeat(" ", len(title)/2), title)
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)*2))
}

// renderRun prints everything a single run produced: the schedule table, the Gantt chart,
// per-type averages and the timeline counters.
func renderRun(w io.Writer, result *sim.Result, width int) {
	outputTitle(w, strings.ToUpper(result.Summary.Policy))
	ts := trace.Summarize(result.Trace)
	renderSchedule(w, result, ts)
	renderGantt(w, result.Trace.Segments, width)
	renderPerType(w, result.Summary)
	renderTimeline(w, result.Summary, ts)
}

func renderSchedule(w io.Writer, result *sim.Result, ts *trace.TraceSummary) {
	_, _ = fmt.Fprintln(w, "Schedule table")
	rows := make([][]string, 0, len(result.Metrics.Finished))
	for _, p := range result.Metrics.FinishedByID() {
		rows = append(rows, []string{
			strconv.Itoa(p.ID),
			p.Name,
			p.Type.String(),
			strconv.Itoa(p.Priority),
			fmt.Sprint(p.ArrivalTime),
			fmt.Sprint(p.BurstTime),
			fmt.Sprint(p.StartedAt),
			fmt.Sprint(p.FinishedAt),
			fmt.Sprint(p.ResponseTime),
			fmt.Sprint(p.WaitingTime),
			fmt.Sprint(p.TurnaroundTime),
			strconv.Itoa(ts.SlicesPerProcess[p.ID]),
			string(p.State),
		})
	}
	s := result.Summary
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Name", "Type", "Priority", "Arrival", "Burst", "Start", "Exit", "Response", "Wait", "Turnaround", "Slices", "State"})
	table.AppendBulk(rows)
	table.SetFooter([]string{"", "", "", "", "", "", "", "",
		fmt.Sprintf("Average\n%.2f", s.AvgResponse),
		fmt.Sprintf("Average\n%.2f", s.AvgWaiting),
		fmt.Sprintf("Average\n%.2f", s.AvgTurnaround),
		"",
		fmt.Sprintf("Throughput\n%.3f/t", s.Throughput)})
	table.Render()
}

// ganttLabel names a coalesced segment in the chart.
func ganttLabel(s trace.Segment) string {
	switch s.Kind {
	case trace.KindContextSwitch:
		return "CS"
	case trace.KindIdle:
		return "idle"
	default:
		if s.Name != "" {
			return s.Name
		}
		return strconv.Itoa(s.ProcessID)
	}
}

// renderGantt draws one cell per coalesced segment with start times aligned under the
// cell boundaries. Labels wider than width columns are truncated on a rune boundary.
func renderGantt(w io.Writer, segments []trace.Segment, width int) {
	if width < 2 {
		width = 2
	}
	_, _ = fmt.Fprintln(w, "Gantt schedule")
	gantt := trace.Coalesce(segments)
	if len(gantt) == 0 {
		_, _ = fmt.Fprintf(w, "(empty)\n\n")
		return
	}
	var bars, times strings.Builder
	bars.WriteString("|")
	for _, s := range gantt {
		label := runewidth.Truncate(ganttLabel(s), width, "")
		lw := runewidth.StringWidth(label)
		left := (width - lw) / 2
		right := width - lw - left
		bars.WriteString(strings.Repeat(" ", left) + label + strings.Repeat(" ", right) + "|")
		times.WriteString(fmt.Sprintf("%-*d", width+1, s.Start))
	}
	times.WriteString(strconv.FormatInt(gantt[len(gantt)-1].End, 10))
	_, _ = fmt.Fprintln(w, bars.String())
	_, _ = fmt.Fprintln(w, times.String())
	_, _ = fmt.Fprintln(w)
}

func renderPerType(w io.Writer, s sim.Summary) {
	if len(s.PerType) == 0 {
		return
	}
	names := make([]string, 0, len(s.PerType))
	for name := range s.PerType {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, _ := sim.ParseProcessType(names[i])
		b, _ := sim.ParseProcessType(names[j])
		return a < b
	})

	_, _ = fmt.Fprintln(w, "Per-type averages")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Type", "Count", "Avg Response", "Avg Wait", "Avg Turnaround"})
	for _, name := range names {
		ts := s.PerType[name]
		table.Append([]string{
			name,
			strconv.Itoa(ts.Count),
			fmt.Sprintf("%.2f", ts.AvgResponse),
			fmt.Sprintf("%.2f", ts.AvgWaiting),
			fmt.Sprintf("%.2f", ts.AvgTurnaround),
		})
	}
	table.Render()
}

func renderTimeline(w io.Writer, s sim.Summary, ts *trace.TraceSummary) {
	_, _ = fmt.Fprintf(w, "Total time: %d (busy %d, idle %d, switching %d)\n", s.TotalTime, s.BusyTime, s.IdleTime, s.ContextSwitchTime)
	_, _ = fmt.Fprintf(w, "CPU utilization: %.2f%%\n", s.Utilization)
	_, _ = fmt.Fprintf(w, "Dispatches: %d  Preemptions: %d  Context switches: %d  Boosts: %d\n",
		ts.Dispatches, ts.Preemptions, s.ContextSwitches, ts.Boosts)
	if len(ts.LevelDistribution) > 1 {
		levels := make([]int, 0, len(ts.LevelDistribution))
		for l := range ts.LevelDistribution {
			levels = append(levels, l)
		}
		sort.Ints(levels)
		parts := make([]string, 0, len(levels))
		for _, l := range levels {
			parts = append(parts, fmt.Sprintf("L%d=%d", l, ts.LevelDistribution[l]))
		}
		_, _ = fmt.Fprintf(w, "CPU time by level: %s\n", strings.Join(parts, " "))
	}
}

// comparisonRow is one policy's line in the compare table.
type comparisonRow struct {
	Label   string
	Summary sim.Summary
}

func renderComparison(w io.Writer, rows []comparisonRow) {
	_, _ = fmt.Fprintln(w, "Policy comparison")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Policy", "Avg Response", "Avg Wait", "Avg Turnaround", "P90 Turnaround", "Max Wait", "Switches", "Utilization", "Throughput", "Makespan"})
	for _, r := range rows {
		s := r.Summary
		table.Append([]string{
			r.Label,
			fmt.Sprintf("%.2f", s.AvgResponse),
			fmt.Sprintf("%.2f", s.AvgWaiting),
			fmt.Sprintf("%.2f", s.AvgTurnaround),
			fmt.Sprintf("%.2f", s.P90Turnaround),
			fmt.Sprint(s.MaxWaiting),
			strconv.Itoa(s.ContextSwitches),
			fmt.Sprintf("%.2f%%", s.Utilization),
			fmt.Sprintf("%.3f", s.Throughput),
			fmt.Sprint(s.TotalTime),
		})
	}
	table.Render()
}

func writeTimelineCSV(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating timeline file: %w", err)
	}
	if err := trace.WriteCSV(f, result.Trace); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing timeline file: %w", err)
	}
	logrus.Infof("Wrote %d timeline segments to %s", len(result.Trace.Segments), path)
	return nil
}
