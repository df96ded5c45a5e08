package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/flowmap/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <workflow>",
	Short: "Export the positioned diagram of a workflow",
	Long: `Builds the diagram of a workflow, applies its saved layout (or computes one)
and prints it as a Mermaid flowchart (graph LR) or as JSON.

<workflow> is either an id under <dir>/workflows or the path of a workflow file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		current, _ := cmd.Flags().GetString("current")
		format, _ := cmd.Flags().GetString("format")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		m, id, err := a.resolve(args[0])
		if err != nil {
			return err
		}

		g, err := m.Diagram(cmd.Context(), id, current)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch format {
		case "mermaid":
			fmt.Fprint(out, graph.GenerateMermaid(g, nil))
		case "json":
			data, err := json.MarshalIndent(g, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
		default:
			return fmt.Errorf("unknown format %q (supported: mermaid, json)", format)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("current", "", "Name of the current state to highlight")
	graphCmd.Flags().StringP("format", "f", "mermaid", "Output format: mermaid or json")
}
