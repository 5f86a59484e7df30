package main

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/credential"
	"github.com/nhle/todo-client/internal/engine"
	"github.com/nhle/todo-client/internal/logging"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/service"
	"github.com/nhle/todo-client/internal/store"
	"github.com/nhle/todo-client/internal/theme"
)

// env is everything a subcommand may need, wired from configuration.
type env struct {
	cfg        *model.AppConfig
	configPath string
	logger     *zap.Logger
	cache      store.Store
	auth       *service.Auth
	todos      *service.Todos
	notes      *service.Notes

	closers []func() error
}

// openEnv wires the real backend client, keyring and cache.
func openEnv(cfg *model.AppConfig) (*env, error) {
	theme.Apply(cfg.Display.Theme)

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	cache, err := store.NewSQLiteStore(cfg.Cache.Path)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	creds, err := credential.Open(model.ConfigDir())
	if err != nil {
		_ = cache.Close()
		_ = closeLog()
		return nil, err
	}

	client := api.NewClient(cfg.API.BaseURL,
		api.WithTimeout(time.Duration(cfg.API.TimeoutSec)*time.Second),
		api.WithMaxRetries(cfg.API.MaxRetries),
		api.WithLogger(logger),
	)

	e := newEnv(cfg, logger, client, creds, cache)
	e.closers = append(e.closers, cache.Close, logger.Sync, closeLog)
	logger.Debug("environment ready",
		zap.String("base_url", cfg.API.BaseURL),
		zap.String("cache", cfg.Cache.Path),
	)
	return e, nil
}

// backend is the full client surface used by the services.
type backend interface {
	service.TodoBackend
	service.NoteBackend
	service.AuthBackend
}

func newEnv(cfg *model.AppConfig, logger *zap.Logger, b backend, tokens service.TokenStore, cache store.Store) *env {
	view := engine.DefaultView()
	view.Sort = engine.ParseSortKey(cfg.Display.DefaultSort)

	return &env{
		cfg:    cfg,
		logger: logger,
		cache:  cache,
		auth:   service.NewAuth(b, tokens, cache, logger),
		todos:  service.NewTodos(b, cache, logger, view),
		notes:  service.NewNotes(b, cache, logger),
	}
}

// Close releases the cache and flushes the log.
func (e *env) Close() error {
	var errs []error
	for _, c := range e.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
