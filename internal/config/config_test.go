package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jindracerny/gpx-plot-on-map/internal/presentation/render"
)

// isolate points HOME at an empty temp dir and moves the working directory
// to another, so config resolution cannot pick up real user files.
func isolate(t *testing.T) (home, cwd string) {
	t.Helper()
	home = t.TempDir()
	cwd = t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(cwd)
	return home, cwd
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "./activities", cfg.Paths.InputDir)
	assert.Equal(t, "heatmap.html", cfg.Paths.OutputFile)
	assert.Equal(t, render.ModeHeatmap, cfg.Map.Mode)
	assert.Equal(t, "Activity Map", cfg.Map.Title)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 500, cfg.Watch.DebounceMs)
}

func TestLoadWithoutFile(t *testing.T) {
	home, _ := isolate(t)

	cfg, resolved, exists, err := Load("")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, filepath.Join(home, ".gpx-plot-on-map", "config.toml"), resolved)

	wantInput, err := filepath.Abs("activities")
	require.NoError(t, err)
	assert.Equal(t, wantInput, cfg.Paths.InputDir)
	assert.Equal(t, filepath.Join(home, ".gpx-plot-on-map", "cache"), cfg.Paths.CacheDir)
	assert.Equal(t, filepath.Join(home, ".gpx-plot-on-map", "logs", "app.log"), cfg.Paths.LogFile)
	assert.Equal(t, render.ModeHeatmap, cfg.Map.Mode)
}

func TestLoadFromFile(t *testing.T) {
	home, cwd := isolate(t)

	path := filepath.Join(cwd, "settings.toml")
	content := `
[paths]
input_dir = "/data/rides"
cache_dir = "~/custom-cache"

[map]
mode = "routes"
title = "Summer Rides"

[logging]
level = "debug"

[watch]
debounce_ms = 250
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, resolved, exists, err := Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, path, resolved)

	assert.Equal(t, "/data/rides", cfg.Paths.InputDir)
	assert.Equal(t, filepath.Join(home, "custom-cache"), cfg.Paths.CacheDir)
	assert.Equal(t, render.ModeRoutes, cfg.Map.Mode)
	assert.Equal(t, "Summer Rides", cfg.Map.Title)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 250, cfg.Watch.DebounceMs)

	// Keys absent from the file keep their defaults.
	wantOutput, err := filepath.Abs("heatmap.html")
	require.NoError(t, err)
	assert.Equal(t, wantOutput, cfg.Paths.OutputFile)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	_, cwd := isolate(t)

	path := filepath.Join(cwd, "partial.toml")
	require.NoError(t, os.WriteFile(path, []byte("[map]\nmode = \"routes\"\n"), 0o644))

	cfg, _, exists, err := Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, render.ModeRoutes, cfg.Map.Mode)
	assert.Equal(t, "Activity Map", cfg.Map.Title)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 500, cfg.Watch.DebounceMs)
}

func TestLoadExplicitMissingFileUsesDefaults(t *testing.T) {
	_, cwd := isolate(t)

	path := filepath.Join(cwd, "does-not-exist.toml")
	cfg, resolved, exists, err := Load(path)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, path, resolved)
	assert.Equal(t, render.ModeHeatmap, cfg.Map.Mode)
}

func TestLoadProjectLocalFile(t *testing.T) {
	isolate(t)

	require.NoError(t, os.WriteFile("gpx-plot-on-map.toml", []byte("[map]\nmode = \"routes\"\n"), 0o644))

	cfg, resolved, exists, err := Load("")
	require.NoError(t, err)
	assert.True(t, exists)

	wantPath, err := filepath.Abs("gpx-plot-on-map.toml")
	require.NoError(t, err)
	assert.Equal(t, wantPath, resolved)
	assert.Equal(t, render.ModeRoutes, cfg.Map.Mode)
}

func TestLoadInvalidTOML(t *testing.T) {
	_, cwd := isolate(t)

	path := filepath.Join(cwd, "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[paths\ninput_dir ="), 0o644))

	_, _, _, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadInvalidMode(t *testing.T) {
	_, cwd := isolate(t)

	path := filepath.Join(cwd, "badmode.toml")
	require.NoError(t, os.WriteFile(path, []byte("[map]\nmode = \"satellite\"\n"), 0o644))

	_, _, _, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "map.mode")
	assert.Contains(t, err.Error(), "satellite")
}

func TestLoadInvalidLogLevel(t *testing.T) {
	_, cwd := isolate(t)

	path := filepath.Join(cwd, "badlevel.toml")
	require.NoError(t, os.WriteFile(path, []byte("[logging]\nlevel = \"verbose\"\n"), 0o644))

	_, _, _, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
}

func TestLoadNegativeDebounceFallsBackToDefault(t *testing.T) {
	_, cwd := isolate(t)

	path := filepath.Join(cwd, "debounce.toml")
	require.NoError(t, os.WriteFile(path, []byte("[watch]\ndebounce_ms = -100\n"), 0o644))

	cfg, _, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Watch.DebounceMs)
}

func TestExpandPath(t *testing.T) {
	home, _ := isolate(t)

	expanded, err := ExpandPath("~/maps/output.html")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "maps", "output.html"), expanded)

	expanded, err = ExpandPath("~")
	require.NoError(t, err)
	assert.Equal(t, home, expanded)

	expanded, err = ExpandPath("")
	require.NoError(t, err)
	assert.Equal(t, "", expanded)

	expanded, err = ExpandPath("relative/dir")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(expanded))
}

func TestCreateSample(t *testing.T) {
	_, cwd := isolate(t)

	path := filepath.Join(cwd, "nested", "config.toml")
	require.NoError(t, CreateSample(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[paths]")
	assert.Contains(t, string(data), "[watch]")

	// The sample must parse and carry the repository defaults.
	cfg, _, exists, err := Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, render.ModeHeatmap, cfg.Map.Mode)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 500, cfg.Watch.DebounceMs)
}

func TestDefaultConfigPath(t *testing.T) {
	home, _ := isolate(t)

	path, err := DefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".gpx-plot-on-map", "config.toml"), path)
}
