package action

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"strings"
	"text/template"
	"time"

	"github.com/shahar-caura/aura/internal/catalog"
)

// Commands holds one command-line template per primitive. Templates are
// split into fields before rendering, so a value containing spaces (typed
// text, an Exec line) stays a single argument.
type Commands struct {
	OpenApp  string
	CloseApp string
	Key      string
	Hotkey   string
	Type     string
	Scroll   string
	OpenURL  string
}

// AppResolver resolves a spoken application name to a catalogue entry.
type AppResolver interface {
	Match(name string) (catalog.Entry, bool)
}

type templateData struct {
	Name    string
	Exec    string
	Binary  string
	Key     string
	Presses int
	Chord   string
	Text    string
	DelayMS int64
	Clicks  int
	Button  int
	URL     string
}

// DefaultKeysyms maps the key names used by intents to X keysyms.
var DefaultKeysyms = map[string]string{
	"enter":      "Return",
	"space":      "space",
	"backspace":  "BackSpace",
	"delete":     "Delete",
	"tab":        "Tab",
	"escape":     "Escape",
	"esc":        "Escape",
	"up":         "Up",
	"down":       "Down",
	"left":       "Left",
	"right":      "Right",
	"ctrl":       "ctrl",
	"alt":        "alt",
	"shift":      "shift",
	"win":        "super",
	"volumeup":   "XF86AudioRaiseVolume",
	"volumedown": "XF86AudioLowerVolume",
	"volumemute": "XF86AudioMute",
	"playpause":  "XF86AudioPlay",
	"nexttrack":  "XF86AudioNext",
	"prevtrack":  "XF86AudioPrev",
}

// Desktop implements Executor by running templated automation commands.
type Desktop struct {
	Commands Commands
	Apps     AppResolver
	Player   VideoPlayer
	Keysyms  map[string]string
	Logger   *slog.Logger

	// commandContext is overridable for testing.
	commandContext func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewDesktop creates a Desktop executor. overrides extend DefaultKeysyms.
func NewDesktop(cmds Commands, apps AppResolver, player VideoPlayer, overrides map[string]string, logger *slog.Logger) *Desktop {
	keysyms := make(map[string]string, len(DefaultKeysyms)+len(overrides))
	for k, v := range DefaultKeysyms {
		keysyms[k] = v
	}
	for k, v := range overrides {
		keysyms[strings.ToLower(k)] = v
	}
	return &Desktop{
		Commands:       cmds,
		Apps:           apps,
		Player:         player,
		Keysyms:        keysyms,
		Logger:         logger,
		commandContext: exec.CommandContext,
	}
}

func (d *Desktop) OpenApp(ctx context.Context, name string) error {
	entry, ok := d.Apps.Match(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrAppNotFound, name)
	}

	args, err := renderArgs(d.Commands.OpenApp, templateData{Name: entry.Name, Exec: entry.Exec, Binary: entry.Binary()})
	if err != nil {
		return fmt.Errorf("open app: %w", err)
	}

	d.Logger.Info("launching application", "name", entry.Name, "cmd", args)

	// The launched application must outlive the request that started it.
	cmd := d.commandContext(context.WithoutCancel(ctx), args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCommandFailed, args[0], err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func (d *Desktop) CloseApp(ctx context.Context, name string) error {
	entry, ok := d.Apps.Match(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrAppNotFound, name)
	}
	return d.run(ctx, "close app", d.Commands.CloseApp, templateData{Name: entry.Name, Exec: entry.Exec, Binary: entry.Binary()})
}

func (d *Desktop) TypeText(ctx context.Context, text string, interval time.Duration) error {
	if text == "" {
		return nil
	}
	return d.run(ctx, "type", d.Commands.Type, templateData{Text: text, DelayMS: interval.Milliseconds()})
}

func (d *Desktop) PressKey(ctx context.Context, key string, presses int) error {
	if presses < 1 {
		presses = 1
	}
	return d.run(ctx, "key", d.Commands.Key, templateData{Key: d.keysym(key), Presses: presses})
}

func (d *Desktop) Hotkey(ctx context.Context, keys ...string) error {
	syms := make([]string, len(keys))
	for i, k := range keys {
		syms[i] = d.keysym(k)
	}
	return d.run(ctx, "hotkey", d.Commands.Hotkey, templateData{Chord: strings.Join(syms, "+")})
}

// Scroll scrolls by amount; positive is up. Every 100 units is one wheel click.
func (d *Desktop) Scroll(ctx context.Context, amount int) error {
	button := 4
	if amount < 0 {
		button = 5
		amount = -amount
	}
	clicks := max(1, amount/100)
	return d.run(ctx, "scroll", d.Commands.Scroll, templateData{Clicks: clicks, Button: button})
}

func (d *Desktop) OpenURL(ctx context.Context, u string) error {
	// The browser is a long-lived process; see OpenApp.
	args, err := renderArgs(d.Commands.OpenURL, templateData{URL: u})
	if err != nil {
		return fmt.Errorf("open url: %w", err)
	}
	d.Logger.Info("opening url", "url", u)
	cmd := d.commandContext(context.WithoutCancel(ctx), args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCommandFailed, args[0], err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func (d *Desktop) WebSearch(ctx context.Context, query string) error {
	return d.OpenURL(ctx, GoogleSearchURL(query))
}

// PlayVideo hands the query to the configured player, or opens the results
// page when no player is available.
func (d *Desktop) PlayVideo(ctx context.Context, query string) error {
	if d.Player != nil {
		return d.Player.Play(ctx, query)
	}
	return d.OpenURL(ctx, YouTubeResultsURL(query))
}

func (d *Desktop) keysym(key string) string {
	if sym, ok := d.Keysyms[strings.ToLower(key)]; ok {
		return sym
	}
	return key
}

func (d *Desktop) run(ctx context.Context, op, tmpl string, data templateData) error {
	args, err := renderArgs(tmpl, data)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	d.Logger.Debug("running automation command", "op", op, "cmd", args)

	cmd := d.commandContext(ctx, args[0], args[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s: %v: %s", ErrCommandFailed, op, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// GoogleSearchURL returns the Google results page for query.
func GoogleSearchURL(query string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape(query)
}

// YouTubeResultsURL returns the YouTube results page for query.
func YouTubeResultsURL(query string) string {
	return "https://www.youtube.com/results?search_query=" + url.QueryEscape(query)
}

func renderArgs(tmplStr string, data templateData) ([]string, error) {
	fields := strings.Fields(tmplStr)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty command template")
	}

	args := make([]string, 0, len(fields))
	for _, field := range fields {
		tmpl, err := template.New("arg").Option("missingkey=error").Parse(field)
		if err != nil {
			return nil, fmt.Errorf("parsing template %q: %w", field, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("executing template %q: %w", field, err)
		}
		args = append(args, buf.String())
	}
	return args, nil
}
