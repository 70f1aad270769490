package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shahar-caura/aura/internal/config"
)

const initHeader = `# AURA configuration
# Environment variables are resolved at load time: ${VAR_NAME}
# Secrets can live in .aura.env or ~/.config/aura/env.

`

func newInitCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default aura.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("checking %s: %w", path, err)
			}

			cfg := config.Default()
			// Leave bin_dirs empty so $PATH is read at load time.
			cfg.Catalog.BinDirs = nil

			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, append([]byte(initHeader), data...), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
