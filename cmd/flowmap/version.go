package main

import (
	"fmt"

	"github.com/aretw0/flowmap"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of flowmap",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "flowmap version %s\n", flowmap.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
