package main

import (
	"fmt"
	"os"

	"github.com/aretw0/flowmap/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flowmap",
	Short: "flowmap draws workflow state machines as positioned diagrams",
	Long: `flowmap turns the transitions of a workflow into a node-link diagram,
lays it out left to right and remembers where you dragged the nodes.

Workflows are YAML or JSON files under <dir>/workflows. Layouts are kept in
memory, in <dir>/layouts or in Redis, depending on the configured store.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the config file (YAML or JSON)")
	rootCmd.PersistentFlags().String("dir", "", "Project directory holding workflows/ and layouts/ (overrides store.dir)")
	rootCmd.PersistentFlags().String("store", "", "Layout store: memory, file or redis (overrides store.type)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides log.level)")
}
