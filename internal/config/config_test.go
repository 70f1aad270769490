package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
server:
  addr: 0.0.0.0:9000
  static_dir: ui
log:
  level: debug
timing:
  settle: 250ms
  whatsapp:
    app_open: 6s
desktop:
  commands:
    type: "ydotool type {{.Text}}"
  keys:
    menu: Menu
catalog:
  desktop_dirs: [/opt/apps]
  bin_dirs: [/opt/bin]
  aliases:
    browser: firefox
  watch: true
browser:
  enabled: true
  headless: true
  timeout: 5s
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "aura.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	assert.Equal(t, "ui", cfg.Server.StaticDir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 250*time.Millisecond, cfg.Timing.Settle.Duration)
	assert.Equal(t, 6*time.Second, cfg.Timing.WhatsApp.AppOpen.Duration)
	assert.Equal(t, "ydotool type {{.Text}}", cfg.Desktop.Commands.Type)
	assert.Equal(t, "Menu", cfg.Desktop.Keys["menu"])
	assert.Equal(t, []string{"/opt/apps"}, cfg.Catalog.DesktopDirs)
	assert.Equal(t, []string{"/opt/bin"}, cfg.Catalog.BinDirs)
	assert.Equal(t, "firefox", cfg.Catalog.Aliases["browser"])
	assert.True(t, cfg.Catalog.Watch)
	assert.True(t, cfg.Browser.Enabled)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 5*time.Second, cfg.Browser.Timeout.Duration)
}

func TestLoad_PartialConfigKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, 1500*time.Millisecond, cfg.Timing.AppFocus.Duration)
	assert.Equal(t, time.Second, cfg.Timing.WhatsApp.Search.Duration)
	assert.Equal(t, 50*time.Millisecond, cfg.Timing.WhatsApp.TypingInterval.Duration)
	assert.Equal(t, "xdotool key {{.Chord}}", cfg.Desktop.Commands.Hotkey)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "127.0.0.1:8001", cfg.Server.Addr)
	assert.Equal(t, "static", cfg.Server.StaticDir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, time.Second, cfg.Timing.Settle.Duration)
	assert.Equal(t, 500*time.Millisecond, cfg.Timing.SearchFocus.Duration)

	w := cfg.Timing.WhatsApp
	assert.Equal(t, 4*time.Second, w.AppOpen.Duration)
	assert.Equal(t, time.Second, w.Search.Duration)
	assert.Equal(t, 2*time.Second, w.Results.Duration)
	assert.Equal(t, 500*time.Millisecond, w.Select.Duration)
	assert.Equal(t, time.Second, w.Chat.Duration)
	assert.Equal(t, 500*time.Millisecond, w.Message.Duration)

	assert.Equal(t, "sh -c {{.Exec}}", cfg.Desktop.Commands.OpenApp)
	assert.Equal(t, "xdg-open {{.URL}}", cfg.Desktop.Commands.OpenURL)
	assert.Contains(t, cfg.Catalog.DesktopDirs, "/usr/share/applications")
	assert.False(t, cfg.Browser.Enabled)
	assert.Equal(t, 20*time.Second, cfg.Browser.Timeout.Duration)
}

func TestDefault_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Default()
	assert.Contains(t, cfg.Catalog.DesktopDirs, filepath.Join(home, ".local/share/applications"))
}

func TestDefault_BinDirsFromPath(t *testing.T) {
	t.Setenv("PATH", "/a/bin"+string(os.PathListSeparator)+"/b/bin")

	cfg := Default()
	assert.Equal(t, []string{"/a/bin", "/b/bin"}, cfg.Catalog.BinDirs)
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("AURA_ADDR", "127.0.0.1:7777")

	cfg, err := Load(writeConfig(t, "server:\n  addr: ${AURA_ADDR}\n"))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7777", cfg.Server.Addr)
}

func TestLoad_InvalidDuration(t *testing.T) {
	_, err := Load(writeConfig(t, "timing:\n  settle: not-a-duration\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestLoad_ValidationAggregatesErrors(t *testing.T) {
	yaml := `
log:
  level: loud
timing:
  settle: -1s
  whatsapp:
    chat: -2s
`
	_, err := Load(writeConfig(t, yaml))
	require.Error(t, err)

	assert.Contains(t, err.Error(), "log.level")
	assert.Contains(t, err.Error(), "timing.settle must not be negative")
	assert.Contains(t, err.Error(), "timing.whatsapp.chat must not be negative")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "aura.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:8001", cfg.Server.Addr)
	})

	t.Run("invalid file", func(t *testing.T) {
		_, err := LoadOrDefault(writeConfig(t, "log:\n  level: loud\n"))
		require.Error(t, err)
	})
}

func TestMarshal_RoundTrip(t *testing.T) {
	data, err := Marshal(Default())
	require.NoError(t, err)
	assert.Contains(t, string(data), "settle: 1s")
	assert.Contains(t, string(data), "app_focus: 1.5s")

	path := writeConfig(t, string(data))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Timing, cfg.Timing)
	assert.Equal(t, Default().Desktop.Commands, cfg.Desktop.Commands)
}
