package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/flowmap/internal/config"
	"github.com/aretw0/flowmap/internal/logging"
	"github.com/aretw0/flowmap/pkg/adapters/file"
	"github.com/aretw0/flowmap/pkg/adapters/memory"
	"github.com/aretw0/flowmap/pkg/adapters/redis"
	"github.com/aretw0/flowmap/pkg/diagram"
	"github.com/aretw0/flowmap/pkg/domain"
	"github.com/aretw0/flowmap/pkg/layouts"
	"github.com/aretw0/flowmap/pkg/observability"
	"github.com/aretw0/flowmap/pkg/persistence/middleware"
	"github.com/aretw0/flowmap/pkg/ports"
	"github.com/spf13/cobra"
)

// app holds everything a command needs, assembled from config and flags.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	source  ports.TransitionSource
	store   ports.LayoutStore
	locker  ports.DistributedLocker
	manager *layouts.Manager
	closers []func() error
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		cfg.Store.Dir = dir
	}
	if store, _ := cmd.Flags().GetString("store"); store != "" {
		cfg.Store.Type = store
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	return cfg, cfg.Validate()
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		logger:  logging.New(level),
		metrics: observability.NewMetrics(),
	}

	if err := a.wireStores(cmd.Context()); err != nil {
		_ = a.Close()
		return nil, err
	}

	a.manager = a.newManager(a.source)
	return a, nil
}

func (a *app) workflowsDir() string {
	return filepath.Join(a.cfg.Store.Dir, "workflows")
}

func (a *app) wireStores(ctx context.Context) error {
	files := file.NewTransitionSource(a.workflowsDir())

	switch a.cfg.Store.Type {
	case config.StoreMemory:
		seeded, err := seedMemory(ctx, files)
		if err != nil {
			return err
		}
		a.source = seeded
		a.store = memory.NewLayoutStore()

	case config.StoreFile:
		a.source = files
		a.store = file.NewLayoutStore(filepath.Join(a.cfg.Store.Dir, "layouts"))

	case config.StoreRedis:
		ttl, err := a.cfg.Store.Redis.TTLDuration()
		if err != nil {
			return err
		}
		rc := a.cfg.Store.Redis
		store := redis.New(rc.Addr, rc.Password, rc.DB,
			redis.WithPrefix(rc.Prefix),
			redis.WithTTL(ttl),
		)
		a.closers = append(a.closers, store.Close)
		a.source = files
		a.store = store
		a.locker = redis.NewLocker(store.Client(), rc.Prefix)

	default:
		return fmt.Errorf("unknown store type %q", a.cfg.Store.Type)
	}

	a.store = middleware.Chain(a.store,
		middleware.NewLoggingMiddleware(a.logger),
		middleware.NewGridMiddleware(a.cfg.Layout.SnapGrid),
	)

	a.logger.Debug("stores wired", "type", a.cfg.Store.Type, "dir", a.cfg.Store.Dir)
	return nil
}

// seedMemory copies every workflow file into an in-memory store.
func seedMemory(ctx context.Context, files *file.TransitionSource) (*memory.TransitionStore, error) {
	store := memory.NewTransitionStore()

	ids, err := files.ListWorkflows(ctx)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		transitions, err := files.ListTransitions(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := store.SaveTransitions(ctx, id, transitions); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func (a *app) newManager(source ports.TransitionSource) *layouts.Manager {
	opts := []layouts.Option{
		layouts.WithLogger(a.logger),
		layouts.WithMetrics(a.metrics),
		layouts.WithMode(diagram.ParseMode(a.cfg.Layout.Mode)),
		layouts.WithLayoutOptions(
			diagram.WithHorizontalSpacing(a.cfg.Layout.HorizontalSpacing),
			diagram.WithVerticalSpacing(a.cfg.Layout.VerticalSpacing),
		),
		layouts.WithStrict(a.cfg.Validation.Strict),
	}
	if a.locker != nil {
		opts = append(opts, layouts.WithLocker(a.locker))
	}
	return layouts.NewManager(source, a.store, opts...)
}

// resolve maps a command argument to a manager and workflow id.
// The argument is either a workflow id known to the configured source or
// the path of a workflow file, whose base name becomes the id.
func (a *app) resolve(arg string) (*layouts.Manager, string, error) {
	switch filepath.Ext(arg) {
	case ".yaml", ".yml", ".json":
		transitions, err := file.ReadWorkflowFile(arg)
		if err != nil {
			return nil, "", err
		}
		id := trimExt(filepath.Base(arg))
		source := memory.NewTransitionStore(domain.Workflow{ID: id, Transitions: transitions})
		return a.newManager(source), id, nil
	}
	return a.manager, arg, nil
}

// Close waits for background saves and releases connections.
func (a *app) Close() error {
	if a.manager != nil {
		a.manager.Wait()
	}
	var firstErr error
	for _, c := range a.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
