package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/procsim/sim"
	"github.com/inference-sim/procsim/sim/workload"
)

var outputPath string

// --- procsim generate ---

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic process file from a generator spec or built-in scenario",
	Long:  "Sample a process population and write it as a YAML process file. Output goes to stdout unless --out is set.",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		if workloadPath != "" {
			logrus.Fatalf("generate takes --generator or --scenario, not --workload")
		}
		specs, err := loadWorkload(cmd)
		if err != nil {
			logrus.Fatalf("Generation failed: %v", err)
		}
		if err := writeProcesses(specs); err != nil {
			logrus.Fatalf("Writing processes failed: %v", err)
		}
	},
}

// --- procsim convert ---

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a text or CSV process file to YAML",
	Long:  "Load a process file in any supported format and write it back as a YAML process file.",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		specs, err := workload.LoadProcesses(workloadPath)
		if err != nil {
			logrus.Fatalf("Conversion failed: %v", err)
		}
		if _, err := sim.NewSimulator(sim.SimConfig{}, specs); err != nil {
			logrus.Fatalf("Converted processes are invalid: %v", err)
		}
		if err := writeProcesses(specs); err != nil {
			logrus.Fatalf("Writing processes failed: %v", err)
		}
	},
}

// writeProcesses writes specs as YAML to --out, or to stdout when it is unset.
func writeProcesses(specs []sim.ProcessSpec) error {
	var w io.Writer = os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outputPath, err)
		}
		defer f.Close()
		w = f
	}
	if err := workload.WriteYAML(w, specs); err != nil {
		return err
	}
	if outputPath != "" {
		logrus.Infof("Wrote %d processes to %s", len(specs), outputPath)
	}
	return nil
}

func init() {
	addWorkloadFlags(generateCmd)
	generateCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	generateCmd.Flags().StringVar(&outputPath, "out", "", "Output path (default stdout)")

	convertCmd.Flags().StringVar(&workloadPath, "workload", "", "Path to process file (.txt, .csv, .yaml)")
	convertCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	convertCmd.Flags().StringVar(&outputPath, "out", "", "Output path (default stdout)")
	_ = convertCmd.MarkFlagRequired("workload")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(convertCmd)
}
