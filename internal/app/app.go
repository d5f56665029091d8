package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/five82/stayer/internal/actions"
	"github.com/five82/stayer/internal/api"
	"github.com/five82/stayer/internal/config"
	"github.com/five82/stayer/internal/logging"
	"github.com/five82/stayer/internal/prefs"
	"github.com/five82/stayer/internal/state"
	"github.com/five82/stayer/internal/ui"
)

// Options configure the stayer application.
type Options struct {
	ConfigPath string // empty uses ~/.config/stayer/config.toml
	EnvFile    string // optional .env file loaded before the config
	PollEvery  time.Duration
	Verbose    bool // forces debug logging
}

// Run boots the stayer TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	if err := config.LoadEnvFile(opts.EnvFile); err != nil {
		return err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.PollEvery > 0 {
		cfg.RefreshInterval = opts.PollEvery
	}

	logger, closeLog, err := openLogger(cfg, opts.Verbose)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	userPrefs := prefs.Load(cfg.PrefsFile)
	city := cfg.DefaultCity
	if state.IsKnownCity(userPrefs.City) {
		city = userPrefs.City
	}

	session, err := prefs.OpenTokenStore(cfg.SessionFile)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}

	client, err := api.NewClient(cfg.APIURL, session, cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	store := state.NewStore(city)
	if opt, ok := state.ParseSortOption(userPrefs.Sorting); ok {
		store.SetSorting(opt)
	}

	policy, err := actions.ParseClearPolicy(cfg.ErrorPolicy)
	if err != nil {
		return err
	}
	dispatcher, err := actions.New(client, store, session, actions.Options{
		ErrorTimeout: cfg.ErrorTimeout,
		ClearPolicy:  policy,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("init dispatcher: %w", err)
	}
	defer dispatcher.Close()

	logger.Info("stayer starting",
		"api", cfg.APIURL,
		"city", city,
		"sorting", store.Snapshot().Sorting.Label(),
		"refresh", cfg.RefreshInterval,
		"error_policy", policy,
	)

	if cfg.RefreshInterval > 0 {
		StartPoller(ctx, dispatcher, cfg.RefreshInterval, logger)
	}

	err = ui.Run(ui.Options{
		Context:    ctx,
		Dispatcher: dispatcher,
		Store:      store,
		ThemeName:  userPrefs.Theme,
		PrefsPath:  cfg.PrefsFile,
		LogPath:    cfg.LogFile,
		Logger:     logger,
	})
	logger.Info("stayer stopped", "error", err)
	return err
}

// openLogger writes to the configured log file; the terminal belongs to the UI.
func openLogger(cfg config.Config, verbose bool) (*slog.Logger, func(), error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	file, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := logging.New(logging.Options{
		Writer: file,
		Level:  level,
		JSON:   cfg.LogJSON,
	})
	return logger, func() { _ = file.Close() }, nil
}
