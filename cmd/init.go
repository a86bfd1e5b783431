package cmd

import (
	"fmt"
	"os"

	"github.com/encodeous/dvnode/state"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample topology",
	Long:  `Writes the triangle network 0-1 (1), 1-2 (1), 0-2 (4), which later raises 0-1 to 10, to the topology path.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(topologyPath); err == nil && !force {
			return fmt.Errorf("%s already exists, use --force to overwrite", topologyPath)
		}
		cfg := state.TriangleTopology()
		if nodes, _ := cmd.Flags().GetInt("nodes"); nodes > cfg.NumNodes {
			cfg.NumNodes = nodes
		}
		err := state.TopologyValidator(&cfg)
		if err != nil {
			return err
		}
		err = state.WriteTopology(topologyPath, &cfg)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", topologyPath)
		return nil
	},
	GroupID: "init",
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolP("force", "f", false, "overwrite an existing topology")
	initCmd.Flags().Int("nodes", state.DefaultNumNodes, "network size, extra nodes start unlinked")
}
