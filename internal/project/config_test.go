package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[check]
declarations = ["decls/platform.toml"]
scripts = ["scripts/*.us"]
max_diagnostics = 20
globals = ["int PLATFORM_ID"]

[cache]
enabled = false

[index]
path = "out/index.db"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	root, err := filepath.Abs(dir)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, 20, cfg.Check.MaxDiagnostics)
	assert.Zero(t, cfg.Check.Jobs)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, []string{filepath.Join(root, "decls", "platform.toml")}, cfg.DeclarationPaths())
	assert.Equal(t, filepath.Join(root, "out", "index.db"), cfg.IndexPath())
	assert.Equal(t, []string{"int PLATFORM_ID"}, cfg.Check.Globals)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, t.TempDir(), "[check]\n"))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Check.MaxDiagnostics)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, filepath.Join(cfg.Root, ".uscheck", "index.db"), cfg.IndexPath())
	assert.Empty(t, cfg.CacheDir())
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
		msg     string
	}{
		{name: "missing check", content: "[cache]\nenabled = true\n", want: ErrCheckSectionMissing},
		{name: "negative jobs", content: "[check]\njobs = -1\n", want: ErrNegativeLimit},
		{name: "unknown key", content: "[check]\nscript = [\"a.us\"]\n", msg: "unknown keys: check.script"},
		{name: "empty cache dir", content: "[check]\n[cache]\ndir = \"\"\n", msg: "[cache].dir is empty"},
		{name: "bad toml", content: "[check\n", msg: "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), tt.content))
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[check]\njobs = 2\n")
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, found, err := Discover(nested)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, cfg.Check.Jobs)

	path, ok, err := FindConfig(nested)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(cfg.Root, ConfigName), path)

	// каталог с именем uscheck.toml не считается файлом проекта
	other := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(other, ConfigName), 0o755))
	_, found, err = Discover(other)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestScriptFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scripts"), 0o755))
	for _, name := range []string{"b.us", "a.us", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "scripts", name), nil, 0o600))
	}
	cfg := Default(dir)
	cfg.Check.Scripts = []string{"scripts/*.us", "scripts/a.us", "missing/*.us"}

	files, err := cfg.ScriptFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "scripts", "a.us"),
		filepath.Join(dir, "scripts", "b.us"),
	}, files)
}

func TestCombine(t *testing.T) {
	var content, declA, declB Digest
	content[0], declA[0], declB[0] = 1, 2, 3
	assert.Equal(t, Combine(content, declA, declB), Combine(content, declA, declB))
	assert.NotEqual(t, Combine(content, declA, declB), Combine(content, declB, declA))
	assert.Len(t, Combine(content).String(), 64)
}
