package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ConfigFileName), []byte(content), 0o644))
}

func TestLoader_Load_Defaults(t *testing.T) {
	loader := NewLoaderWithGlobalDir(t.TempDir(), t.TempDir())
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, domain.NewDefaultConfig(), cfg)
}

func TestLoader_Load_DataConfigOnly(t *testing.T) {
	dataDir := t.TempDir()
	writeConfig(t, dataDir, `
[store]
type = "sqlite"

[log]
level = "debug"

[compass]
steps = ["inform", "review"]
platform = "mobile"
due_window_days = 5
classification_min_age_hours = 24
timezone = "Europe/Berlin"

[calendar]
enabled = false
default_duration = "1h"
`)

	cfg, err := NewLoaderWithGlobalDir(dataDir, t.TempDir()).Load()
	require.NoError(t, err)

	assert.Equal(t, domain.StoreTypeSQLite, cfg.Store.Type)
	assert.Equal(t, domain.DefaultGitNamespace, cfg.Store.Namespace, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"inform", "review"}, cfg.Compass.Steps)
	assert.False(t, cfg.IsDesktop())
	assert.Equal(t, 5, cfg.Compass.DueWindowDays)
	assert.Equal(t, 24, cfg.Compass.ClassificationMinAgeHours)
	assert.Equal(t, "Europe/Berlin", cfg.Compass.Timezone)
	assert.False(t, cfg.Calendar.Enabled)
	assert.Equal(t, "1h", cfg.Calendar.DefaultDuration)
	assert.Empty(t, cfg.Warnings)
}

func TestLoader_Load_DataOverridesGlobal(t *testing.T) {
	dataDir := t.TempDir()
	globalDir := t.TempDir()

	writeConfig(t, globalDir, `
[log]
level = "warn"

[compass]
due_window_days = 7

[calendar]
enabled = false
`)
	writeConfig(t, dataDir, `
[log]
level = "error"
`)

	cfg, err := NewLoaderWithGlobalDir(dataDir, globalDir).Load()
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level, "data dir wins")
	assert.Equal(t, 7, cfg.Compass.DueWindowDays, "global applies where data dir is silent")
	assert.False(t, cfg.Calendar.Enabled, "an explicit false survives the merge")
}

func TestLoader_Load_Warnings(t *testing.T) {
	dataDir := t.TempDir()
	writeConfig(t, dataDir, `
color = "red"

[store]
type = "postgres"
encrypt = true

[compass]
due_window_days = "soon"

[unknown]
key = 1
`)

	cfg, err := NewLoaderWithGlobalDir(dataDir, "").Load()
	require.NoError(t, err)

	assert.Equal(t, domain.StoreTypeJSON, cfg.Store.Type, "invalid values are ignored")
	assert.Equal(t, domain.DefaultDueWindowDays, cfg.Compass.DueWindowDays)
	assert.Equal(t, []string{
		"invalid value for [compass] due_window_days: soon",
		"invalid value for [store] type: postgres",
		"unknown key in [store]: encrypt",
		"unknown section: color",
		"unknown section: unknown",
	}, cfg.Warnings)
}

func TestLoader_Load_InvalidTOML(t *testing.T) {
	dataDir := t.TempDir()
	writeConfig(t, dataDir, "[log\nlevel = ")

	_, err := NewLoaderWithGlobalDir(dataDir, "").Load()
	assert.Error(t, err)
}

func TestLoader_LoadGlobal(t *testing.T) {
	globalDir := t.TempDir()

	_, err := NewLoaderWithGlobalDir(t.TempDir(), globalDir).LoadGlobal()
	assert.ErrorIs(t, err, os.ErrNotExist)

	writeConfig(t, globalDir, "[store]\ntype = \"git\"\nnamespace = \"work\"\n")
	cfg, err := NewLoaderWithGlobalDir(t.TempDir(), globalDir).LoadGlobal()
	require.NoError(t, err)
	assert.Equal(t, domain.StoreTypeGit, cfg.Store.Type)
	assert.Equal(t, "work", cfg.Store.Namespace)

	_, err = NewLoaderWithGlobalDir(t.TempDir(), "").LoadGlobal()
	assert.ErrorIs(t, err, os.ErrNotExist)
}
