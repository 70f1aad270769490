package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shahar-caura/aura/internal/config"
	"github.com/shahar-caura/aura/internal/intent"
	"github.com/shahar-caura/aura/internal/router"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	root := newRootCmd(logger, new(slog.LevelVar))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// writeConfig writes an aura.yaml whose catalogue reads only from temp dirs.
func writeConfig(t *testing.T, desktopDir, binDir string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aura.yaml")
	data := "catalog:\n  desktop_dirs: [" + desktopDir + "]\n  bin_dirs: [" + binDir + "]\n  aliases:\n    editor: gedit\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestParseCmd_JSON(t *testing.T) {
	out, err := execute(t, "parse", "--json", "open notepad and close it")
	require.NoError(t, err)

	var plan []router.Planned
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	require.Len(t, plan, 2)
	assert.Equal(t, "open notepad", plan[0].Text)
	assert.Equal(t, intent.KindOpenApp, plan[0].Intent.Kind)
	assert.Equal(t, "notepad", plan[0].Intent.App)
	assert.False(t, plan[0].Inferred)
}

func TestParseCmd_Table(t *testing.T) {
	out, err := execute(t, "parse", "open", "notepad,", "time")
	require.NoError(t, err)
	assert.Contains(t, out, "INTENT")
	assert.Contains(t, out, string(intent.KindOpenApp))
	assert.Contains(t, out, string(intent.KindQueryTime))
}

func TestParseCmd_RequiresText(t *testing.T) {
	_, err := execute(t, "parse")
	assert.Error(t, err)
}

func TestExecCmd_DryRun(t *testing.T) {
	out, err := execute(t, "exec", "--dry-run", "open notepad")
	require.NoError(t, err)
	assert.Contains(t, out, "Opening notepad.")
	assert.Contains(t, out, "OpenApp(notepad)")
}

func TestExecCmd_DryRunFallback(t *testing.T) {
	out, err := execute(t, "exec", "--dry-run", "xyzzy")
	require.NoError(t, err)
	assert.Contains(t, out, router.Fallback)
}

func TestInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aura.yaml")

	out, err := execute(t, "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Server.Addr, cfg.Server.Addr)
	assert.Equal(t, config.Default().Timing.Settle, cfg.Timing.Settle)

	_, err = execute(t, "init", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "init", "--config", path, "--force")
	assert.NoError(t, err)
}

func TestAppsCmd(t *testing.T) {
	desktopDir := t.TempDir()
	binDir := t.TempDir()
	entry := "[Desktop Entry]\nType=Application\nName=gedit\nExec=gedit %U\n"
	require.NoError(t, os.WriteFile(filepath.Join(desktopDir, "org.gnome.gedit.desktop"), []byte(entry), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "htop"), []byte("#!/bin/sh\n"), 0o755))
	cfgPath := writeConfig(t, desktopDir, binDir)

	t.Run("list", func(t *testing.T) {
		out, err := execute(t, "apps", "--config", cfgPath)
		require.NoError(t, err)
		assert.Contains(t, out, "gedit")
		assert.Contains(t, out, "htop")
	})

	t.Run("match alias", func(t *testing.T) {
		out, err := execute(t, "apps", "--config", cfgPath, "editor")
		require.NoError(t, err)
		assert.Contains(t, out, "gedit\tgedit")
	})

	t.Run("no match", func(t *testing.T) {
		_, err := execute(t, "apps", "--config", cfgPath, "zzzzqqq")
		assert.Error(t, err)
	})
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "aura "+version+"\n", out)
}

func TestCompletionCmd(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := execute(t, "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, out, "aura")
		})
	}

	_, err := execute(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestLoadConfig_LogLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aura.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o644))

	level := new(slog.LevelVar)
	opts := &rootOptions{configPath: path, level: level}
	_, err := opts.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level.Level())

	opts.debug = true
	_, err = opts.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level.Level())
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	opts := &rootOptions{configPath: filepath.Join(t.TempDir(), "missing.yaml"), level: new(slog.LevelVar)}
	cfg, err := opts.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.Default().Server.Addr, cfg.Server.Addr)
}
