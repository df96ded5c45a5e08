package main

import (
	"fmt"

	"github.com/aretw0/flowmap/pkg/diagram"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <workflow>",
	Short: "Check that every transition points at a known state",
	Long:  `Builds the diagram and reports edges whose source or target state does not resolve.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		m, id, err := a.resolve(args[0])
		if err != nil {
			return err
		}

		transitions, err := m.Transitions(cmd.Context(), id)
		if err != nil {
			return err
		}

		g := diagram.Build(transitions, "")
		if err := diagram.Validate(g); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Workflow %s is valid: %d states, %d transitions ✅\n", id, len(g.Nodes), len(g.Edges))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
