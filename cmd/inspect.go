package cmd

import (
	"fmt"

	"github.com/encodeous/dvnode/core"
	"github.com/encodeous/dvnode/state"
	"github.com/spf13/cobra"
)

var inspectNode int

var inspectCmd = &cobra.Command{
	Use:     "inspect",
	Aliases: []string{"i"},
	Short:   "Prints the routing table of a single node",
	RunE: func(cmd *cobra.Command, args []string) error {
		if inspectNode < 0 {
			return fmt.Errorf("%w: --node must not be negative, got %d", state.ErrUnknownNode, inspectNode)
		}
		skip, _ := cmd.Flags().GetBool("no-changes")
		return core.Bootstrap(topologyPath, logPath, verbose, core.RunOptions{
			Node:        state.NodeId(inspectNode),
			SkipChanges: skip,
			MetricsAddr: metricsAddr,
		})
	},
	GroupID: "dv",
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().IntVarP(&inspectNode, "node", "n", 0, "node to inspect")
	inspectCmd.Flags().BoolP("no-changes", "s", false, "stop after the initial convergence")
}
