package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration with YAML (un)marshaling from strings like "1.5s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// Config is the top-level aura configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Timing  TimingConfig  `yaml:"timing"`
	Desktop DesktopConfig `yaml:"desktop"`
	Catalog CatalogConfig `yaml:"catalog"`
	Browser BrowserConfig `yaml:"browser"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// TimingConfig holds the fixed waits that let the desktop catch up with
// issued input. None of them are cancellable once started.
type TimingConfig struct {
	Settle      Duration       `yaml:"settle"`
	AppFocus    Duration       `yaml:"app_focus"`
	SearchFocus Duration       `yaml:"search_focus"`
	WhatsApp    WhatsAppTiming `yaml:"whatsapp"`
}

type WhatsAppTiming struct {
	AppOpen        Duration `yaml:"app_open"`
	Search         Duration `yaml:"search"`
	Results        Duration `yaml:"results"`
	Select         Duration `yaml:"select"`
	Chat           Duration `yaml:"chat"`
	Message        Duration `yaml:"message"`
	TypingInterval Duration `yaml:"typing_interval"`
}

// DesktopConfig holds the automation command templates. Each template is
// split on whitespace before its fields are rendered.
type DesktopConfig struct {
	Commands CommandsConfig    `yaml:"commands"`
	Keys     map[string]string `yaml:"keys"`
}

type CommandsConfig struct {
	OpenApp  string `yaml:"open_app"`
	CloseApp string `yaml:"close_app"`
	Key      string `yaml:"key"`
	Hotkey   string `yaml:"hotkey"`
	Type     string `yaml:"type"`
	Scroll   string `yaml:"scroll"`
	OpenURL  string `yaml:"open_url"`
}

type CatalogConfig struct {
	DesktopDirs []string          `yaml:"desktop_dirs"`
	BinDirs     []string          `yaml:"bin_dirs"`
	Aliases     map[string]string `yaml:"aliases"`
	Watch       bool              `yaml:"watch"`
}

type BrowserConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Headless bool     `yaml:"headless"`
	Timeout  Duration `yaml:"timeout"`
	ExecPath string   `yaml:"exec_path"`
}

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "aura.yaml"

const (
	defaultAddr      = "127.0.0.1:8001"
	defaultStaticDir = "static"
	defaultLogLevel  = "info"
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads, expands env vars, parses, and validates an aura config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not
// exist. Any other error is returned.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultAddr
	}
	if cfg.Server.StaticDir == "" {
		cfg.Server.StaticDir = defaultStaticDir
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}

	t := &cfg.Timing
	setDuration(&t.Settle, time.Second)
	setDuration(&t.AppFocus, 1500*time.Millisecond)
	setDuration(&t.SearchFocus, 500*time.Millisecond)
	w := &t.WhatsApp
	setDuration(&w.AppOpen, 4*time.Second)
	setDuration(&w.Search, time.Second)
	setDuration(&w.Results, 2*time.Second)
	setDuration(&w.Select, 500*time.Millisecond)
	setDuration(&w.Chat, time.Second)
	setDuration(&w.Message, 500*time.Millisecond)
	setDuration(&w.TypingInterval, 50*time.Millisecond)

	c := &cfg.Desktop.Commands
	setString(&c.OpenApp, "sh -c {{.Exec}}")
	setString(&c.CloseApp, "pkill -f {{.Binary}}")
	setString(&c.Key, "xdotool key --repeat {{.Presses}} {{.Key}}")
	setString(&c.Hotkey, "xdotool key {{.Chord}}")
	setString(&c.Type, "xdotool type --delay {{.DelayMS}} {{.Text}}")
	setString(&c.Scroll, "xdotool click --repeat {{.Clicks}} {{.Button}}")
	setString(&c.OpenURL, "xdg-open {{.URL}}")

	if cfg.Catalog.DesktopDirs == nil {
		cfg.Catalog.DesktopDirs = []string{"/usr/share/applications", "~/.local/share/applications"}
	}
	if cfg.Catalog.BinDirs == nil {
		cfg.Catalog.BinDirs = filepath.SplitList(os.Getenv("PATH"))
	}
	cfg.Catalog.DesktopDirs = expandHome(cfg.Catalog.DesktopDirs)
	cfg.Catalog.BinDirs = expandHome(cfg.Catalog.BinDirs)

	setDuration(&cfg.Browser.Timeout, 20*time.Second)
}

func setDuration(d *Duration, def time.Duration) {
	if d.Duration == 0 {
		d.Duration = def
	}
}

func setString(s *string, def string) {
	if *s == "" {
		*s = def
	}
}

func expandHome(dirs []string) []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return dirs
	}
	out := make([]string, len(dirs))
	for i, d := range dirs {
		if d == "~" {
			d = home
		} else if strings.HasPrefix(d, "~/") {
			d = filepath.Join(home, d[2:])
		}
		out[i] = d
	}
	return out
}

func validate(cfg *Config) error {
	var errs []error

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", cfg.Log.Level))
	}

	durations := map[string]Duration{
		"timing.settle":                   cfg.Timing.Settle,
		"timing.app_focus":                cfg.Timing.AppFocus,
		"timing.search_focus":             cfg.Timing.SearchFocus,
		"timing.whatsapp.app_open":        cfg.Timing.WhatsApp.AppOpen,
		"timing.whatsapp.search":          cfg.Timing.WhatsApp.Search,
		"timing.whatsapp.results":         cfg.Timing.WhatsApp.Results,
		"timing.whatsapp.select":          cfg.Timing.WhatsApp.Select,
		"timing.whatsapp.chat":            cfg.Timing.WhatsApp.Chat,
		"timing.whatsapp.message":         cfg.Timing.WhatsApp.Message,
		"timing.whatsapp.typing_interval": cfg.Timing.WhatsApp.TypingInterval,
		"browser.timeout":                 cfg.Browser.Timeout,
	}
	for _, name := range slices.Sorted(maps.Keys(durations)) {
		if durations[name].Duration < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", name))
		}
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}

	return errors.Join(errs...)
}
