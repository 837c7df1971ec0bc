package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/inference-sim/procsim/sim"
)

var policyDescriptions = map[string]string{
	sim.PolicyFCFS:     "First come, first served; non-preemptive",
	sim.PolicySJF:      "Shortest job first; non-preemptive",
	sim.PolicySRT:      "Shortest remaining time; preempts on a shorter arrival",
	sim.PolicyRR:       "Round robin with a fixed quantum",
	sim.PolicyPriority: "Lowest priority value first; --preemptive to preempt on arrival",
	sim.PolicyMLQ:      "Fixed queue per process type; round robin on the upper levels, FCFS at the bottom",
	sim.PolicyMLFQ:     "Feedback queues with demotion on quantum expiry and periodic boost",
}

func policyParameters(name string) string {
	cfg := sim.DefaultPolicyConfig(name)
	switch name {
	case sim.PolicyRR:
		return fmt.Sprintf("quantum=%d", cfg.Quantum)
	case sim.PolicyPriority:
		return "preemptive=false"
	case sim.PolicyMLQ:
		return fmt.Sprintf("mlq-quantum=%d", cfg.MLQQuantum)
	case sim.PolicyMLFQ:
		return fmt.Sprintf("mlfq-quanta=%v boost-interval=%d", cfg.MLFQQuanta, cfg.BoostInterval)
	default:
		return ""
	}
}

func renderPolicies(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Policy", "Description", "Defaults"})
	for i, name := range sim.PolicyNames {
		table.Append([]string{fmt.Sprint(i + 1), name, policyDescriptions[name], policyParameters(name)})
	}
	table.Render()
}

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List the available scheduling policies",
	Run: func(cmd *cobra.Command, args []string) {
		renderPolicies(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(policiesCmd)
}
