package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shahar-caura/aura/internal/config"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	config.LoadEnvFiles()

	root := newRootCmd(logger, level)
	if err := root.Execute(); err != nil {
		logger.Error("aura failed", "error", err)
		os.Exit(1)
	}
}

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	debug      bool
	level      *slog.LevelVar
}

func newRootCmd(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	opts := &rootOptions{level: level}

	root := &cobra.Command{
		Use:           "aura",
		Short:         "Route natural-language commands to desktop actions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "path to aura.yaml")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newServeCmd(opts, logger),
		newExecCmd(opts, logger),
		newParseCmd(),
		newAppsCmd(opts, logger),
		newInitCmd(opts),
		newCompletionCmd(),
		newVersionCmd(),
	)
	return root
}

// loadConfig reads the config file (defaults when it is absent) and applies
// its log level, unless --debug was given.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return nil, err
	}

	if o.level != nil {
		if o.debug {
			o.level.Set(slog.LevelDebug)
		} else {
			var lvl slog.Level
			if err := lvl.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
				return nil, fmt.Errorf("log level: %w", err)
			}
			o.level.Set(lvl)
		}
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the aura version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "aura", version)
		},
	}
}
