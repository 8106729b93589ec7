package cli

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"multab/internal/app"
	"multab/internal/config"
	"multab/internal/infra/file"
	"multab/internal/infra/memory"
	"multab/internal/infra/sqlite"
	"multab/internal/worker"
)

// env is what every subcommand needs: config, logger and an open store.
type env struct {
	cfg     config.Config
	log     *logrus.Logger
	dataDir string
	store   app.Store
	close   func() error
}

func loadConfig(opts *options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", opts.configPath, err)
	}
	if opts.store != "" {
		cfg.Store.Driver = opts.store
	}
	if opts.dataDir != "" {
		cfg.Store.Dir = opts.dataDir
	}
	return cfg, nil
}

func newLogger(cfg config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if cfg.Log.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.WithError(err).Warn("invalid log level, using warn")
		level = logrus.WarnLevel
	}
	log.SetLevel(level)
	return log
}

func dataDir(cfg config.Config) (string, error) {
	if cfg.Store.Dir != "" {
		return cfg.Store.Dir, nil
	}
	return file.DefaultDir()
}

func setup(ctx context.Context, opts *options) (*env, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, log: newLogger(cfg), close: func() error { return nil }}

	if cfg.Store.Driver != config.DriverMemory {
		if e.dataDir, err = dataDir(cfg); err != nil {
			return nil, err
		}
	}

	switch cfg.Store.Driver {
	case config.DriverFile:
		store, err := file.NewStore(e.dataDir)
		if err != nil {
			return nil, err
		}
		e.store = store
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath(e.dataDir))
		if err != nil {
			return nil, err
		}
		e.store, e.close = store, store.Close
	case config.DriverMemory:
		e.store = memory.NewStore()
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	e.log.WithFields(logrus.Fields{
		"driver": cfg.Store.Driver,
		"dir":    e.dataDir,
	}).Debug("store opened")
	return e, nil
}

func (e *env) repository() *app.Repository {
	return app.NewRepository(e.store, e.log)
}

func (e *env) runtime() *app.Runtime {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	saver := worker.NewSaver(config.Duration(e.cfg.Save.Timeout, 0))
	return app.NewRuntime(app.New(rnd), e.repository(), saver, e.log)
}

// dispatch loads the current user, applies one action and waits for every
// resulting write, then returns the error slot.
func (e *env) dispatch(ctx context.Context, ev app.Event) error {
	rt := e.runtime()
	rt.Start()
	if err := rt.Settle(ctx); err != nil {
		return err
	}
	if err := rt.Send(ev); err != nil {
		return err
	}
	if err := rt.Close(ctx); err != nil {
		return err
	}
	return rt.App().Err()
}
