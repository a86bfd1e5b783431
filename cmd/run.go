package cmd

import (
	"github.com/encodeous/dvnode/core"
	"github.com/encodeous/dvnode/state"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Converge the network and replay its link changes",
	Long:  `This will start every node of the topology, wait for the network to converge, then apply each configured link change in order. All routing tables are printed after every step.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		skip, _ := cmd.Flags().GetBool("no-changes")
		return core.Bootstrap(topologyPath, logPath, verbose, core.RunOptions{
			Node:        state.Unreachable,
			SkipChanges: skip,
			MetricsAddr: metricsAddr,
		})
	},
	GroupID: "dv",
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolP("no-changes", "s", false, "stop after the initial convergence")
}
