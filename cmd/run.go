package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nhle/ghnotify/internal/app"
	"github.com/nhle/ghnotify/internal/credential"
	"github.com/nhle/ghnotify/internal/engine"
	"github.com/nhle/ghnotify/internal/github"
	"github.com/nhle/ghnotify/internal/model"
)

func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start the notification watcher",
		RunE:  runWatcher,
	}
	addRunFlags(runCmd)
	return runCmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", model.DefaultConfigPath(), "path to the config file")
	cmd.Flags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
}

func runWatcher(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")

	logger, closeLog, err := newFileLogger(logLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	settings, err := model.LoadSettings(configPath)
	if err != nil {
		return err
	}

	settings.Token = os.Getenv("GITHUB_TOKEN")
	if settings.Token == "" {
		token, err := credential.Get(credential.TokenKey)
		if err != nil {
			logger.Warn().Err(err).Msg("reading token from keyring failed")
		}
		settings.Token = token
	}

	store := engine.New(engine.Options{
		Settings: settings,
		NewFetcher: func(token string) engine.Fetcher {
			return github.NewClient(token)
		},
		Persist: func(cfg model.Settings) error {
			return model.SaveSettings(configPath, cfg)
		},
		SaveToken: func(token string) error {
			return credential.Set(credential.TokenKey, token)
		},
		Logger: logger,
	})
	defer store.Stop()

	// Pick up external edits to the config file while running. Watching
	// requires the file to exist; skip quietly on first runs.
	if _, statErr := os.Stat(configPath); statErr == nil {
		err := model.WatchSettings(configPath, store.ApplySettings, func(err error) {
			logger.Warn().Err(err).Msg("config reload failed")
		})
		if err != nil {
			logger.Warn().Err(err).Msg("config watch unavailable")
		}
	}

	program := tea.NewProgram(app.New(store), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}

	return nil
}

// newFileLogger builds a zerolog logger writing to
// ~/.config/ghnotify/ghnotify.log. Stdout belongs to the TUI.
func newFileLogger(level string) (zerolog.Logger, func(), error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("resolving home directory: %w", err)
	}

	dir := filepath.Join(home, ".config", "ghnotify")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("creating log directory: %w", err)
	}

	path := filepath.Join(dir, "ghnotify.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("opening log file %s: %w", path, err)
	}

	logger := zerolog.New(f).Level(lvl).With().Timestamp().Logger()
	return logger, func() { _ = f.Close() }, nil
}
