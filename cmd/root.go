package cmd

import (
	"os"

	"github.com/encodeous/dvnode/state"
	"github.com/spf13/cobra"
)

var (
	topologyPath = state.DefaultTopologyPath
	logPath      = ""
	verbose      = false
	metricsAddr  = ""
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dvnode",
	Short: "Distance vector routing node",
	Long: `dvnode runs a network of distance vector routers in memory.
Each node exchanges cost vectors with its neighbours, using poison reverse to suppress two node routing loops, until every node knows its shortest path to every other node.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(&cobra.Group{
		ID:    "init",
		Title: "Initialize a Network",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "dv",
		Title: "Routing Commands",
	})
	rootCmd.PersistentFlags().StringVarP(&topologyPath, "topology", "t", topologyPath, "network topology config")
	rootCmd.PersistentFlags().StringVarP(&logPath, "log-path", "l", logPath, "also write logs to this file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", verbose, "verbose output")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics", metricsAddr, "serve runtime metrics on this address, e.g. localhost:6060")
}
