package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/config"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/fetch"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/logging"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/store"
	"go.uber.org/zap"
)

// app holds the components shared by the subcommands.
type app struct {
	configPath string
	cfg        *config.AppConfig
	logger     *zap.Logger
	store      store.Store
	repo       *store.Repository
	dash       *sheetwatch.Dashboard

	closers []io.Closer
}

func loadApp() (*app, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	logger, logCloser, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, err
	}
	a := &app{configPath: path, cfg: cfg, logger: logger, closers: []io.Closer{logCloser}}

	target := cfg.Store.Path
	if cfg.Store.Driver == store.DriverMySQL {
		target = cfg.Store.DSN
	}
	st, err := store.Open(cfg.Store.Driver, target)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.store = st
	a.closers = append(a.closers, st)

	a.repo = store.NewRepository(st, defaultMemory(cfg), store.WithLogger(logger.Named("store")))

	fetcher := fetch.New(
		fetch.WithLogger(logger.Named("fetch")),
		fetch.WithBaseURL(cfg.Sheet.BaseURL),
		fetch.WithTimeout(cfg.Poll.Timeout.Duration),
		fetch.WithLimiter(fetch.NewLimiter(cfg.Poll.RatePerMinute)),
	)

	params := cfg.ExtractParams()
	a.dash = sheetwatch.New(a.repo, fetcher, sheetwatch.Options{
		Logger:        logger,
		ExtractParams: &params,
	})

	logger.Debug("loaded config",
		zap.String("path", path),
		zap.String("store", cfg.Store.Driver))
	return a, nil
}

// defaultMemory seeds an empty store from the configured sheet and tabs.
func defaultMemory(cfg *config.AppConfig) *models.AppMemory {
	id, _ := fetch.ExtractSheetID(cfg.Sheet.URL)
	return models.DefaultMemory(cfg.Sheet.URL, id, cfg.SheetConfigs())
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	_ = a.logger.Sync()
	return errors.Join(errs...)
}

// withApp runs fn with a loaded app and closes it afterwards.
func withApp(ctx context.Context, fn func(ctx context.Context, a *app) error) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
