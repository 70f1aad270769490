package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shahar-caura/aura/internal/catalog"
)

func newAppsCmd(opts *rootOptions, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:               "apps [name]",
		Short:             "List launchable applications, or show which one a name resolves to",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeAppNames(opts, logger),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			cat := catalog.New(cfg.Catalog.DesktopDirs, cfg.Catalog.BinDirs, cfg.Catalog.Aliases, logger)
			if err := cat.Scan(); err != nil {
				return fmt.Errorf("scanning applications: %w", err)
			}
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				e, ok := cat.Match(args[0])
				if !ok {
					return fmt.Errorf("no application matches %q", args[0])
				}
				fmt.Fprintf(out, "%s\t%s\t%s\n", e.Name, e.Exec, e.Source)
				return nil
			}

			entries := cat.Entries()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No applications found.")
				return nil
			}
			fmt.Fprintf(out, "%-30s  %-40s  %s\n", "NAME", "EXEC", "SOURCE")
			for _, e := range entries {
				fmt.Fprintf(out, "%-30s  %-40s  %s\n", e.Name, e.Exec, e.Source)
			}
			return nil
		},
	}
}
