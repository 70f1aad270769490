package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvFile_Basic(t *testing.T) {
	m, err := ParseEnvFile([]byte("KEY=value\nOTHER=stuff\n"))
	require.NoError(t, err)
	assert.Equal(t, "value", m["KEY"])
	assert.Equal(t, "stuff", m["OTHER"])
}

func TestParseEnvFile_CommentsAndBlanks(t *testing.T) {
	m, err := ParseEnvFile([]byte("# comment\n\nKEY=value\n\nOTHER=stuff\n"))
	require.NoError(t, err)
	assert.Len(t, m, 2)
}

func TestParseEnvFile_QuotedAndExport(t *testing.T) {
	m, err := ParseEnvFile([]byte("export GREETING=\"hello world\"\nURL=https://example.com?foo=bar\n"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", m["GREETING"])
	assert.Equal(t, "https://example.com?foo=bar", m["URL"])
}

func TestLoadEnvFiles_ProjectOverridesGlobal(t *testing.T) {
	dir := t.TempDir()
	global := filepath.Join(dir, "global.env")
	project := filepath.Join(dir, "project.env")
	require.NoError(t, os.WriteFile(global, []byte("AURA_T_GLOBAL=from_global\nAURA_T_SHARED=from_global\n"), 0o644))
	require.NoError(t, os.WriteFile(project, []byte("AURA_T_PROJECT=from_project\nAURA_T_SHARED=from_project\n"), 0o644))

	for _, k := range []string{"AURA_T_GLOBAL", "AURA_T_PROJECT", "AURA_T_SHARED"} {
		_ = os.Unsetenv(k)
		t.Cleanup(func() { _ = os.Unsetenv(k) })
	}

	loadEnvFiles(global, project)

	assert.Equal(t, "from_global", os.Getenv("AURA_T_GLOBAL"))
	assert.Equal(t, "from_project", os.Getenv("AURA_T_PROJECT"))
	assert.Equal(t, "from_project", os.Getenv("AURA_T_SHARED"), "project should override global")
}

func TestLoadEnvFiles_ActualEnvWins(t *testing.T) {
	project := filepath.Join(t.TempDir(), ".aura.env")
	require.NoError(t, os.WriteFile(project, []byte("AURA_T_VAR=from_file\n"), 0o644))
	t.Setenv("AURA_T_VAR", "from_actual_env")

	loadEnvFiles(project)

	assert.Equal(t, "from_actual_env", os.Getenv("AURA_T_VAR"), "actual env should win over file")
}

func TestMergeEnvFile_MissingFile(t *testing.T) {
	merged := make(map[string]string)
	mergeEnvFile(merged, "/nonexistent/path/.aura.env")
	assert.Empty(t, merged)
}

func TestGlobalEnvPath_ReturnsPath(t *testing.T) {
	p := GlobalEnvPath()
	assert.Contains(t, p, "aura")
	assert.True(t, filepath.IsAbs(p))
}
