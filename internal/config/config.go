package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "nexus"

const (
	DefaultVolume = 0.8
	DefaultBars   = 32
	DefaultFPS    = 30

	minBars, maxBars = 4, 64
	minFPS, maxFPS   = 5, 60
)

// Config holds the user settings merged from the config files and flags.
type Config struct {
	MusicDir string   `koanf:"music_dir"` // start directory of the file browser
	Theme    string   `koanf:"theme"`
	Volume   *float64 `koanf:"volume"`    // 0.0-1.0, default 0.8
	LogLevel string   `koanf:"log_level"` // debug, info, warn, error

	Visualizer VisualizerConfig `koanf:"visualizer"`
}

// VisualizerConfig holds frequency bar settings.
type VisualizerConfig struct {
	Bars int `koanf:"bars"` // 4-64, default 32
	FPS  int `koanf:"fps"`  // 5-60, default 30
}

// Load reads the standard config files and then extra, if given. Missing
// standard files are skipped; a missing extra file is an error.
func Load(extra string) (*Config, error) {
	paths := getConfigPaths()
	if extra != "" {
		if _, err := os.Stat(extra); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		paths = append(paths, extra)
	}
	return LoadFiles(paths...)
}

// LoadFiles merges the given TOML files in order (last wins), skipping
// those that do not exist.
func LoadFiles(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.MusicDir != "" {
		cfg.MusicDir = expandPath(cfg.MusicDir)
	}
	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/nexus/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// StartVolume returns the configured volume clamped to [0,1].
func (c *Config) StartVolume() float64 {
	if c.Volume == nil {
		return DefaultVolume
	}
	return max(0, min(*c.Volume, 1))
}

// BarCount returns the number of visualizer bars.
func (c *Config) BarCount() int {
	if c.Visualizer.Bars == 0 {
		return DefaultBars
	}
	return max(minBars, min(c.Visualizer.Bars, maxBars))
}

// FrameRate returns the visualizer frame rate.
func (c *Config) FrameRate() int {
	if c.Visualizer.FPS == 0 {
		return DefaultFPS
	}
	return max(minFPS, min(c.Visualizer.FPS, maxFPS))
}

// StartDir returns the browser's start directory, the working directory
// when unset.
func (c *Config) StartDir() string {
	if c.MusicDir != "" {
		return c.MusicDir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// Level returns the log level, info when unset or unknown.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
