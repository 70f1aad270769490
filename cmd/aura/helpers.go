package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shahar-caura/aura/internal/action"
	"github.com/shahar-caura/aura/internal/catalog"
	"github.com/shahar-caura/aura/internal/config"
	"github.com/shahar-caura/aura/internal/router"
	"github.com/shahar-caura/aura/internal/server"
)

// app is the fully wired runtime: catalogue, executor, router and the
// observers that watch it.
type app struct {
	cfg     *config.Config
	catalog *catalog.Catalog
	browser *action.Browser
	router  *router.Router
	hub     *server.SSEHub
	metrics *server.Metrics
}

func wireApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	cat := catalog.New(cfg.Catalog.DesktopDirs, cfg.Catalog.BinDirs, cfg.Catalog.Aliases, logger)
	if err := cat.Scan(); err != nil {
		return nil, fmt.Errorf("scanning applications: %w", err)
	}
	logger.Debug("application catalog loaded", "entries", len(cat.Entries()))

	a := &app{
		cfg:     cfg,
		catalog: cat,
		hub:     server.NewSSEHub(logger),
		metrics: server.NewMetrics(),
	}

	var player action.VideoPlayer
	if cfg.Browser.Enabled {
		a.browser = action.NewBrowser(cfg.Browser.Headless, cfg.Browser.Timeout.Duration, cfg.Browser.ExecPath, logger)
		player = a.browser
	}

	desktop := action.NewDesktop(desktopCommands(cfg.Desktop.Commands), cat, player, cfg.Desktop.Keys, logger)
	a.router = router.New(desktop, cfg.Timing, logger)
	a.router.SetObserver(router.Observers{a.hub, a.metrics})
	return a, nil
}

// Close releases the browser, if one was started.
func (a *app) Close() {
	if a.browser != nil {
		a.browser.Close()
	}
}

func desktopCommands(c config.CommandsConfig) action.Commands {
	return action.Commands{
		OpenApp:  c.OpenApp,
		CloseApp: c.CloseApp,
		Key:      c.Key,
		Hotkey:   c.Hotkey,
		Type:     c.Type,
		Scroll:   c.Scroll,
		OpenURL:  c.OpenURL,
	}
}

// joinArgs turns the positional arguments back into one utterance.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// --- Dynamic completions ---

func completeAppNames(opts *rootOptions, logger *slog.Logger) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		cfg, err := config.LoadOrDefault(opts.configPath)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		cat := catalog.New(cfg.Catalog.DesktopDirs, cfg.Catalog.BinDirs, cfg.Catalog.Aliases, logger)
		if err := cat.Scan(); err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		var names []string
		for _, e := range cat.Entries() {
			if strings.HasPrefix(strings.ToLower(e.Name), strings.ToLower(toComplete)) {
				names = append(names, e.Name)
			}
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}
