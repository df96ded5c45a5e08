package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/flowmap/internal/presentation/tui"
	"github.com/aretw0/flowmap/pkg/adapters/file"
	"github.com/aretw0/flowmap/pkg/diagram"
	"github.com/aretw0/flowmap/pkg/domain"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [workflow]",
	Short: "Describe a workflow diagram in the terminal",
	Long: `Without arguments, lists the workflows and saved layouts.
With a workflow, renders its states, positions and transitions as styled markdown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		current, _ := cmd.Flags().GetString("current")
		plain, _ := cmd.Flags().GetBool("plain")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		if !plain {
			tui.PrintBanner(out)
		}

		var md string
		if len(args) == 0 {
			md, err = a.overviewMarkdown(cmd)
		} else {
			md, err = a.workflowMarkdown(cmd, args[0], current)
		}
		if err != nil {
			return err
		}

		if plain {
			_, err = io.WriteString(out, md)
			return err
		}
		rendered, err := tui.NewRenderer()(md)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, rendered)
		return err
	},
}

func (a *app) overviewMarkdown(cmd *cobra.Command) (string, error) {
	ctx := cmd.Context()
	workflows, err := file.NewTransitionSource(a.workflowsDir()).ListWorkflows(ctx)
	if err != nil {
		return "", err
	}
	saved, err := a.manager.ListLayouts(ctx)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Workflows in `%s`\n\n", a.workflowsDir())
	if len(workflows) == 0 {
		sb.WriteString("No workflow files found.\n")
	}
	for _, id := range workflows {
		fmt.Fprintf(&sb, "- %s\n", id)
	}
	fmt.Fprintf(&sb, "\n## Saved layouts (%s store)\n\n", a.cfg.Store.Type)
	if len(saved) == 0 {
		sb.WriteString("None.\n")
	}
	for _, id := range saved {
		fmt.Fprintf(&sb, "- %s\n", id)
	}
	return sb.String(), nil
}

func (a *app) workflowMarkdown(cmd *cobra.Command, arg, current string) (string, error) {
	m, id, err := a.resolve(arg)
	if err != nil {
		return "", err
	}

	ctx := cmd.Context()
	g, err := m.Diagram(ctx, id, current)
	if err != nil && !errors.Is(err, domain.ErrDanglingEdge) {
		return "", err
	}
	if err != nil {
		// Strict mode refuses the diagram; inspect still shows what was built.
		transitions, terr := m.Transitions(ctx, id)
		if terr != nil {
			return "", terr
		}
		g = diagram.Build(transitions, current)
	}

	return tui.SummaryMarkdown(id, g, diagram.ValidationErrors(diagram.Validate(g))), nil
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().String("current", "", "Name of the current state to highlight")
	inspectCmd.Flags().Bool("plain", false, "Print raw markdown without banner or styling")
}
