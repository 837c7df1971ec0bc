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

// defaultContextSwitchCost is the switch overhead charged when no flag or bundle sets one.
const defaultContextSwitchCost = 2

var (
	// CLI flags for the process population
	workloadPath  string // Process file (text, CSV or YAML)
	generatorPath string // Generator spec YAML
	scenarioName  string // Built-in generator scenario
	seed          int64  // Overrides the generator seed
	count         int    // Number of processes for --scenario

	// CLI flags for the scheduler
	policyName        string  // Scheduling policy
	quantum           int64   // Round-robin time slice
	preemptive        bool    // Preemptive priority scheduling
	contextSwitchCost int64   // Switch overhead in time units
	mlqQuantum        int64   // Time slice of the round-robin MLQ levels
	mlfqQuanta        []int64 // Per-level MLFQ time slices
	boostInterval     int64   // MLFQ priority boost period
	simulationHorizon int64   // Simulated-time ceiling (0 = unbounded)
	policyConfigPath  string  // YAML policy bundle

	// CLI flags for output
	logLevel        string // Log verbosity level
	timelineCSVPath string // Timeline CSV export
	metricsJSONPath string // Summary JSON export
	ganttWidth      int    // Column width of a Gantt cell
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "procsim",
	Short: "Discrete-event simulator for single-CPU process scheduling",
}

// runCmd simulates one policy over a process population
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scheduling simulation for one policy",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		if err := runSimulation(cmd, os.Stdout); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
	},
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// buildSimConfig layers the configuration: defaults, then the policy bundle, then any flag
// the user set explicitly.
func buildSimConfig(cmd *cobra.Command) (sim.SimConfig, error) {
	cfg := sim.SimConfig{
		Policy:            sim.DefaultPolicyConfig(sim.PolicyFCFS),
		ContextSwitchCost: defaultContextSwitchCost,
	}
	if policyConfigPath != "" {
		bundle, err := sim.LoadPolicyBundle(policyConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("loading policy config: %w", err)
		}
		if err := bundle.Validate(); err != nil {
			return cfg, fmt.Errorf("invalid policy config: %w", err)
		}
		bundle.ApplyTo(&cfg)
		logrus.Infof("Applied policy config %s", policyConfigPath)
	}

	flags := cmd.Flags()
	if flags.Changed("policy") {
		cfg.Policy.Name = policyName
	}
	if flags.Changed("quantum") {
		cfg.Policy.Quantum = quantum
	}
	if flags.Changed("preemptive") {
		cfg.Policy.Preemptive = preemptive
	}
	if flags.Changed("context-switch") {
		cfg.ContextSwitchCost = contextSwitchCost
	}
	if flags.Changed("mlq-quantum") {
		cfg.Policy.MLQQuantum = mlqQuantum
	}
	if flags.Changed("mlfq-quanta") {
		cfg.Policy.MLFQQuanta = append([]int64(nil), mlfqQuanta...)
	}
	if flags.Changed("boost-interval") {
		cfg.Policy.BoostInterval = boostInterval
	}
	if flags.Changed("horizon") {
		cfg.Horizon = simulationHorizon
	}
	return cfg, cfg.Validate()
}

// loadWorkload returns the process population named by exactly one of --workload,
// --generator or --scenario.
func loadWorkload(cmd *cobra.Command) ([]sim.ProcessSpec, error) {
	sources := 0
	for _, set := range []bool{workloadPath != "", generatorPath != "", scenarioName != ""} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return nil, fmt.Errorf("exactly one of --workload, --generator or --scenario is required")
	}
	if workloadPath != "" {
		return workload.LoadProcesses(workloadPath)
	}

	var spec *workload.GeneratorSpec
	var err error
	if generatorPath != "" {
		spec, err = workload.LoadGeneratorSpec(generatorPath)
	} else {
		spec, err = workload.Scenario(scenarioName, seed, count)
	}
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("seed") {
		spec.Seed = seed
	}
	logrus.Infof("Generating %d processes with seed %d", spec.Count, spec.Seed)
	return workload.Generate(spec)
}

func runSimulation(cmd *cobra.Command, out io.Writer) error {
	cfg, err := buildSimConfig(cmd)
	if err != nil {
		return err
	}
	specs, err := loadWorkload(cmd)
	if err != nil {
		return err
	}
	logrus.Infof("Running %s over %d processes (context switch %d)", cfg.Policy.Name, len(specs), cfg.ContextSwitchCost)

	result, err := sim.Simulate(cfg, specs)
	if err != nil {
		return err
	}
	renderRun(out, result, ganttWidth)

	if timelineCSVPath != "" {
		if err := writeTimelineCSV(timelineCSVPath, result); err != nil {
			return err
		}
	}
	if metricsJSONPath != "" {
		if err := result.Summary.SaveResults(metricsJSONPath); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addWorkloadFlags registers the population flags shared by several commands.
func addWorkloadFlags(c *cobra.Command) {
	c.Flags().StringVar(&workloadPath, "workload", "", "Path to process file (.txt, .csv, .yaml)")
	c.Flags().StringVar(&generatorPath, "generator", "", "Path to generator spec YAML")
	c.Flags().StringVar(&scenarioName, "scenario", "", fmt.Sprintf("Built-in generator scenario %v", workload.ScenarioNames()))
	c.Flags().Int64Var(&seed, "seed", 42, "Seed for process generation (overrides the generator spec)")
	c.Flags().IntVar(&count, "count", 20, "Number of processes for --scenario")
}

// addSchedulerFlags registers the scheduler flags shared by run and compare.
func addSchedulerFlags(c *cobra.Command) {
	c.Flags().Int64Var(&quantum, "quantum", sim.DefaultQuantum, "Round-robin time slice")
	c.Flags().Int64Var(&contextSwitchCost, "context-switch", defaultContextSwitchCost, "Context switch cost in time units")
	c.Flags().Int64Var(&mlqQuantum, "mlq-quantum", sim.DefaultQuantum, "Time slice of the round-robin MLQ levels")
	c.Flags().Int64SliceVar(&mlfqQuanta, "mlfq-quanta", sim.DefaultMLFQQuanta, "Comma-separated MLFQ time slices, top level first")
	c.Flags().Int64Var(&boostInterval, "boost-interval", sim.DefaultBoostInterval, "MLFQ priority boost period (0 disables)")
	c.Flags().Int64Var(&simulationHorizon, "horizon", 0, "Simulated-time ceiling (0 = unbounded)")
	c.Flags().StringVar(&policyConfigPath, "policy-config", "", "Path to YAML policy bundle; explicit flags override it")
	c.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	c.Flags().IntVar(&ganttWidth, "gantt-width", 8, "Column width of a Gantt chart cell")
}

func init() {
	addWorkloadFlags(runCmd)
	addSchedulerFlags(runCmd)
	runCmd.Flags().StringVar(&policyName, "policy", sim.PolicyFCFS, fmt.Sprintf("Scheduling policy %v", sim.PolicyNames))
	runCmd.Flags().BoolVar(&preemptive, "preemptive", false, "Preempt on arrival of a higher-priority process (priority policy)")
	runCmd.Flags().StringVar(&timelineCSVPath, "timeline-csv", "", "Write the dispatch timeline as CSV")
	runCmd.Flags().StringVar(&metricsJSONPath, "metrics-json", "", "Write the run summary as JSON")

	rootCmd.AddCommand(runCmd)
}
