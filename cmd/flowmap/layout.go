package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/aretw0/flowmap/pkg/diagram"
	"github.com/aretw0/flowmap/pkg/domain"
	"github.com/spf13/cobra"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Inspect and edit saved layouts",
	Long: `Reads and writes the positions map of a workflow in the configured store.
With the default memory store nothing survives the command; use --store file or redis.`,
}

var layoutShowCmd = &cobra.Command{
	Use:   "show <workflow>",
	Short: "Print the saved positions map",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		positions, err := a.manager.LoadLayout(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printPositions(cmd.OutOrStdout(), positions)
	},
}

var layoutResetCmd = &cobra.Command{
	Use:   "reset <workflow>",
	Short: "Delete the saved layout so the next diagram is computed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.manager.DeleteLayout(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Layout of %s reset\n", args[0])
		return nil
	},
}

var layoutSetCmd = &cobra.Command{
	Use:   "set <workflow> <state> <x> <y>",
	Short: "Pin one state to a position",
	Long: `Moves a single state and saves the layout. When no layout exists yet the
current diagram positions are saved along with it.`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		workflowID, stateID := args[0], args[1]
		x, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid x %q: %w", args[2], err)
		}
		y, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			return fmt.Errorf("invalid y %q: %w", args[3], err)
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		g, err := a.manager.Diagram(ctx, workflowID, "")
		if err != nil {
			return err
		}
		if _, ok := diagram.SelectNode(g, stateID); !ok {
			return fmt.Errorf("%w: state %s", domain.ErrElementNotFound, stateID)
		}

		positions := diagram.ExtractPositions(g.Nodes)
		positions[stateID] = domain.Position{X: x, Y: y}
		if err := a.manager.SaveLayout(ctx, workflowID, positions); err != nil {
			return err
		}
		return printPositions(cmd.OutOrStdout(), positions)
	},
}

var layoutComputeCmd = &cobra.Command{
	Use:   "compute <workflow>",
	Short: "Print the computed layout, ignoring saved positions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		save, _ := cmd.Flags().GetBool("save")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		transitions, err := a.manager.Transitions(ctx, args[0])
		if err != nil {
			return err
		}

		g := diagram.Build(transitions, "")
		positions := diagram.Layout(g.Nodes, g.Edges,
			diagram.WithHorizontalSpacing(a.cfg.Layout.HorizontalSpacing),
			diagram.WithVerticalSpacing(a.cfg.Layout.VerticalSpacing),
		)
		if save {
			if err := a.manager.SaveLayout(ctx, args[0], positions); err != nil {
				return err
			}
		}
		return printPositions(cmd.OutOrStdout(), positions)
	},
}

func printPositions(w io.Writer, positions domain.PositionsMap) error {
	data, err := json.MarshalIndent(positions, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func init() {
	rootCmd.AddCommand(layoutCmd)
	layoutCmd.AddCommand(layoutShowCmd, layoutResetCmd, layoutSetCmd, layoutComputeCmd)
	layoutComputeCmd.Flags().Bool("save", false, "Save the computed layout, replacing any saved one")
}
