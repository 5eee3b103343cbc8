package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/mathpad"
	"github.com/aretw0/mathpad/internal/adapters/file"
	"github.com/aretw0/mathpad/internal/config"
	loamAdapter "github.com/aretw0/mathpad/pkg/adapters/loam"
	luaAdapter "github.com/aretw0/mathpad/pkg/adapters/lua"
	"github.com/aretw0/mathpad/pkg/adapters/memory"
	"github.com/aretw0/mathpad/pkg/adapters/process"
	redisAdapter "github.com/aretw0/mathpad/pkg/adapters/redis"
	"github.com/aretw0/mathpad/pkg/observability"
	"github.com/aretw0/mathpad/pkg/persistence/middleware"
	"github.com/aretw0/mathpad/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// Runtime bundles an engine with the resources created for it.
type Runtime struct {
	Engine   *mathpad.Engine
	Registry *prometheus.Registry
	Logger   *slog.Logger

	closers []func() error
}

// Close releases connections opened for the runtime.
func (rt *Runtime) Close() error {
	var errs []error
	for _, c := range rt.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// NewRuntime initializes a mathpad engine with standard CLI conventions.
func NewRuntime(cfg config.Config, logger *slog.Logger, debug bool) (*Runtime, error) {
	rt := &Runtime{
		Registry: prometheus.NewRegistry(),
		Logger:   logger,
	}

	// 1. Logger & Hooks
	engineOpts := []mathpad.Option{mathpad.WithLogger(logger)}
	metrics, err := observability.NewMetrics(rt.Registry)
	if err != nil {
		return nil, fmt.Errorf("error registering metrics: %w", err)
	}
	engineOpts = append(engineOpts, mathpad.WithLifecycleHooks(metrics.Hooks()))
	if debug {
		engineOpts = append(engineOpts, mathpad.WithLifecycleHooks(observability.LoggingHooks(logger)))
	}

	// 2. Persistence
	storeOpts, closer, err := storeOptions(cfg)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		rt.closers = append(rt.closers, closer)
	}
	engineOpts = append(engineOpts, storeOpts...)

	// 3. Evaluator & Palette
	evaluator, err := newEvaluator(cfg.Evaluator, logger)
	if err != nil {
		rt.Close()
		return nil, err
	}
	engineOpts = append(engineOpts, mathpad.WithEvaluator(evaluator))
	if cfg.Snippets.Dir != "" {
		palette, err := loamAdapter.Open(cfg.Snippets.Dir)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("error opening snippets: %w", err)
		}
		engineOpts = append(engineOpts, mathpad.WithPalette(palette))
	}

	// 4. Initialize
	engine, err := mathpad.New(engineOpts...)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	rt.Engine = engine
	return rt, nil
}

func newEvaluator(cfg config.EvaluatorConfig, logger *slog.Logger) (ports.Evaluator, error) {
	switch cfg.Driver {
	case config.EvaluatorProcess:
		e, err := process.New(cfg.Command, cfg.Args,
			process.WithTimeout(cfg.Timeout),
			process.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
		}
		return e, nil
	case config.EvaluatorLua, "":
		return luaAdapter.New(
			luaAdapter.WithTimeout(cfg.Timeout),
			luaAdapter.WithLogger(logger),
		), nil
	default:
		return nil, fmt.Errorf("%w: unknown evaluator driver %q", config.ErrInvalidConfig, cfg.Driver)
	}
}

// storeOptions picks the document store (and lock) for the configured driver.
func storeOptions(cfg config.Config) ([]mathpad.Option, func() error, error) {
	var (
		store  ports.DocumentStore
		opts   []mathpad.Option
		closer func() error
	)
	switch cfg.Store.Driver {
	case config.DriverMemory:
		store = memory.NewStore()
	case config.DriverFile:
		store = file.New(cfg.Store.Dir)
	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store = redisAdapter.NewFromClient(client,
			redisAdapter.WithPrefix(cfg.Redis.Prefix+"session:"),
			redisAdapter.WithTTL(cfg.Redis.TTL),
		)
		if cfg.Redis.Lock {
			opts = append(opts, mathpad.WithLocker(redisAdapter.NewLocker(client, cfg.Redis.Prefix)))
		}
		closer = client.Close
	default:
		return nil, nil, fmt.Errorf("%w: unknown store driver %q", config.ErrInvalidConfig, cfg.Store.Driver)
	}

	if cfg.Store.Key != "" {
		mw, err := encryption(cfg.Store)
		if err != nil {
			if closer != nil {
				closer()
			}
			return nil, nil, err
		}
		store = middleware.Chain(store, mw)
	}
	return append(opts, mathpad.WithStore(store)), closer, nil
}

func encryption(cfg config.StoreConfig) (middleware.Middleware, error) {
	active, err := middleware.DecodeKey(cfg.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: store.key: %v", config.ErrInvalidConfig, err)
	}
	encCfg := middleware.EncryptionConfig{ActiveKey: active}
	for i, k := range cfg.FallbackKeys {
		key, err := middleware.DecodeKey(k)
		if err != nil {
			return nil, fmt.Errorf("%w: store.fallback_keys[%d]: %v", config.ErrInvalidConfig, i, err)
		}
		encCfg.FallbackKeys = append(encCfg.FallbackKeys, key)
	}
	return middleware.NewEncryptionMiddleware(encCfg)
}
