package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shahar-caura/aura/internal/router"
)

func newParseCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse <text...>",
		Short: "Show how a request is split and classified, without executing it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan := router.Plan(joinArgs(args))
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(plan)
			}

			if len(plan) == 0 {
				fmt.Fprintln(out, "No fragments.")
				return nil
			}

			fmt.Fprintf(out, "%-3s  %-14s  %-18s  %s\n", "#", "INTENT", "RULE", "COMMAND")
			for i, p := range plan {
				command := p.Command
				if p.Inferred {
					command += fmt.Sprintf("  (inferred from %q)", p.Text)
				}
				fmt.Fprintf(out, "%-3d  %-14s  %-18s  %s\n", i, p.Intent.Kind, p.Intent.Rule, command)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the plan as JSON")
	return cmd
}
