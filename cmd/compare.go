package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/procsim/sim"
)

var compareMetricsDir string

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run every policy over one process population and tabulate the results",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		if err := runComparison(cmd, os.Stdout); err != nil {
			logrus.Fatalf("Comparison failed: %v", err)
		}
	},
}

type labeledConfig struct {
	Label  string
	Config sim.SimConfig
}

// comparisonConfigs expands base into one config per policy. Priority appears twice,
// once per preemption mode.
func comparisonConfigs(base sim.SimConfig) []labeledConfig {
	var out []labeledConfig
	add := func(label string, mutate func(*sim.PolicyConfig)) {
		cfg := base
		cfg.Policy.MLFQQuanta = append([]int64(nil), base.Policy.MLFQQuanta...)
		mutate(&cfg.Policy)
		out = append(out, labeledConfig{Label: label, Config: cfg})
	}
	for _, name := range sim.PolicyNames {
		if name == sim.PolicyPriority {
			add("priority", func(p *sim.PolicyConfig) { p.Name = name; p.Preemptive = false })
			add("priority-preemptive", func(p *sim.PolicyConfig) { p.Name = name; p.Preemptive = true })
			continue
		}
		add(name, func(p *sim.PolicyConfig) { p.Name = name })
	}
	return out
}

func runComparison(cmd *cobra.Command, out io.Writer) error {
	base, err := buildSimConfig(cmd)
	if err != nil {
		return err
	}
	specs, err := loadWorkload(cmd)
	if err != nil {
		return err
	}
	if compareMetricsDir != "" {
		if err := os.MkdirAll(compareMetricsDir, 0o755); err != nil {
			return fmt.Errorf("creating metrics directory: %w", err)
		}
	}

	var rows []comparisonRow
	for _, c := range comparisonConfigs(base) {
		result, err := sim.Simulate(c.Config, specs)
		if err != nil {
			return fmt.Errorf("%s: %w", c.Label, err)
		}
		logrus.Infof("%s: avg wait %.2f, avg turnaround %.2f", c.Label, result.Summary.AvgWaiting, result.Summary.AvgTurnaround)
		rows = append(rows, comparisonRow{Label: c.Label, Summary: result.Summary})
		if compareMetricsDir != "" {
			path := filepath.Join(compareMetricsDir, c.Label+".json")
			if err := result.Summary.SaveResults(path); err != nil {
				return err
			}
		}
	}
	renderComparison(out, rows)
	return nil
}

func init() {
	addWorkloadFlags(compareCmd)
	addSchedulerFlags(compareCmd)
	compareCmd.Flags().StringVar(&compareMetricsDir, "metrics-dir", "", "Write one summary JSON per policy into this directory")

	rootCmd.AddCommand(compareCmd)
}
