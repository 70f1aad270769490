package main

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shahar-caura/aura/internal/action"
	"github.com/shahar-caura/aura/internal/config"
	"github.com/shahar-caura/aura/internal/router"
)

func newExecCmd(opts *rootOptions, logger *slog.Logger) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "exec <text...>",
		Short: "Route one request on this machine and print the response",
		Example: `  aura exec open notepad and type hello
  aura exec --dry-run send a whatsapp message to Sam saying hi`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := joinArgs(args)
			ctx := router.WithRequestID(cmd.Context(), uuid.NewString())
			out := cmd.OutOrStdout()

			if dryRun {
				rec := action.NewRecorder()
				r := router.New(rec, config.TimingConfig{}, logger)
				resp := r.Route(ctx, message)

				fmt.Fprintln(out, resp.Text)
				for _, c := range rec.Calls() {
					fmt.Fprintf(out, "  %s\n", c)
				}
				return nil
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			a, err := wireApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			resp := a.router.Route(ctx, message)
			fmt.Fprintln(out, resp.Text)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "record desktop actions instead of performing them")
	return cmd
}
