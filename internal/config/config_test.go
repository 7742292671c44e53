package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "tilde expands to home", input: "~/music", expected: filepath.Join(home, "music")},
		{name: "absolute path unchanged", input: "/srv/music", expected: "/srv/music"},
		{name: "relative path unchanged", input: "music", expected: "music"},
		{name: "empty string unchanged", input: "", expected: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandPath(tt.input))
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()
	require.Len(t, paths, 2)
	assert.Equal(t, "config.toml", paths[1])
	assert.Equal(t, "config.toml", filepath.Base(paths[0]))
	assert.Equal(t, "nexus", filepath.Base(filepath.Dir(paths[0])))
}

func TestDefaults(t *testing.T) {
	cfg, err := LoadFiles()
	require.NoError(t, err)

	assert.Equal(t, DefaultVolume, cfg.StartVolume())
	assert.Equal(t, DefaultBars, cfg.BarCount())
	assert.Equal(t, DefaultFPS, cfg.FrameRate())
	assert.Equal(t, slog.LevelInfo, cfg.Level())
	assert.Empty(t, cfg.Theme)
}

func TestLoadFilesLaterWins(t *testing.T) {
	dir := t.TempDir()
	base := writeConfig(t, dir, "base.toml", `
music_dir = "/srv/music"
theme = "Ocean"
volume = 0.5

[visualizer]
bars = 16
`)
	override := writeConfig(t, dir, "override.toml", `
volume = 0.25
log_level = "debug"

[visualizer]
fps = 120
`)

	cfg, err := LoadFiles(base, filepath.Join(dir, "missing.toml"), override)
	require.NoError(t, err)

	assert.Equal(t, "/srv/music", cfg.StartDir())
	assert.Equal(t, "ocean", cfg.Theme)
	assert.Equal(t, 0.25, cfg.StartVolume())
	assert.Equal(t, 16, cfg.BarCount())
	assert.Equal(t, 60, cfg.FrameRate(), "fps is clamped")
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestClamping(t *testing.T) {
	vol := 3.0
	cfg := &Config{Volume: &vol, Visualizer: VisualizerConfig{Bars: 1, FPS: 2}}

	assert.Equal(t, 1.0, cfg.StartVolume())
	assert.Equal(t, 4, cfg.BarCount())
	assert.Equal(t, 5, cfg.FrameRate())

	zero := 0.0
	cfg.Volume = &zero
	assert.Equal(t, 0.0, cfg.StartVolume(), "an explicit zero volume is kept")
}

func TestLoadMissingExtraFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoadInvalidTOML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "bad.toml", "volume = [")
	_, err := LoadFiles(path)
	require.Error(t, err)
}
