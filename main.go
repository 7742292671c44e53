package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kamesh14151/nexus/internal/config"
	"github.com/kamesh14151/nexus/internal/logging"
	"github.com/kamesh14151/nexus/internal/media"
	"github.com/kamesh14151/nexus/internal/player"
	"github.com/kamesh14151/nexus/internal/prefs"
	"github.com/kamesh14151/nexus/internal/theme"
	"github.com/kamesh14151/nexus/internal/ui"
)

type params struct {
	configPath string
	theme      string
	volume     float64
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var p params
	cmd := &cobra.Command{
		Use:   "nexus [paths...]",
		Short: "Terminal music player with a spectrum visualizer",
		Long: "Play local audio files (" + media.SupportedExtsList() + ").\n" +
			"Files, directories and .m3u/.m3u8/.pls playlists given as arguments are added to the playlist.",
		Version:       appVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var volume *float64
			if cmd.Flags().Changed("volume") {
				volume = &p.volume
			}
			return run(p.configPath, p.theme, volume, args)
		},
	}
	cmd.Flags().StringVarP(&p.configPath, "config", "c", "", "additional config file (TOML)")
	cmd.Flags().StringVarP(&p.theme, "theme", "t", "", "color theme: "+strings.Join(theme.Names(), ", "))
	cmd.Flags().Float64VarP(&p.volume, "volume", "v", config.DefaultVolume, "start volume, 0.0 to 1.0")
	return cmd
}

func run(configPath, themeFlag string, volume *float64, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if volume != nil {
		cfg.Volume = volume
	}

	logger, closeLog := logging.Setup(cfg.Level())
	defer closeLog()

	files, err := media.ExpandPaths(args)
	if err != nil {
		return err
	}

	var store prefs.Store
	if mgr, err := prefs.Open(); err != nil {
		logger.Warn("preferences unavailable", "error", err)
	} else {
		store = mgr
		defer mgr.Close()
	}

	palette := theme.Resolve(themeFlag, savedTheme(store, logger), cfg.Theme)

	p := player.New()
	defer p.Close()

	logger.Info("starting", "files", len(files), "theme", palette.Name, "volume", cfg.StartVolume())

	model := ui.New(ui.Options{
		Output:   p,
		Tap:      p.Tap(),
		Prefs:    store,
		Theme:    palette,
		Volume:   cfg.StartVolume(),
		Bars:     cfg.BarCount(),
		FPS:      cfg.FrameRate(),
		MusicDir: cfg.StartDir(),
		Initial:  files,
		Logger:   logger,
	})

	prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := prog.Run(); err != nil {
		return err
	}
	return nil
}

func savedTheme(store prefs.Store, logger *slog.Logger) string {
	if store == nil {
		return ""
	}
	name, err := store.Theme()
	if err != nil {
		logger.Warn("reading saved theme failed", "error", err)
		return ""
	}
	return name
}

func appVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi.Main.Version == "" {
		return "unknown"
	}
	return bi.Main.Version
}
