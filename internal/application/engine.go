package application

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/formul8/orchestra/infrastructure/gateway"
	"github.com/formul8/orchestra/infrastructure/metrics"
	"github.com/formul8/orchestra/infrastructure/storage"
	"github.com/formul8/orchestra/internal/agents"
	"github.com/formul8/orchestra/internal/baseline"
	"github.com/formul8/orchestra/internal/benchmark"
	"github.com/formul8/orchestra/internal/orchestrator"
	"github.com/formul8/orchestra/internal/ports"
)

// Engine holds the fully wired service components. Construct it once
// at startup with NewEngine and share it across handlers.
type Engine struct {
	Config       Config
	Logger       zerolog.Logger
	Store        ports.DocumentStore
	Gateway      ports.CompletionGateway
	Agents       ports.AgentRegistry
	Orchestrator *orchestrator.Orchestrator
	Benchmarks   *benchmark.Registry
	Runner       *benchmark.Runner
	Analytics    *benchmark.Analytics
	Baseline     *baseline.Manager

	closers []func() error
}

// NewEngine wires storage, the LLM gateway with its middleware chain,
// the specialist agents, and the orchestration, benchmark, and baseline
// services from the given configuration.
func NewEngine(ctx context.Context, cfg Config, logger zerolog.Logger) (*Engine, error) {
	eng := &Engine{Config: cfg, Logger: logger}

	store, err := eng.buildStore(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	eng.Store = store

	collector := metrics.NewPrometheusMetrics()

	gw, err := buildGateway(cfg.Gateway, collector)
	if err != nil {
		return nil, err
	}
	eng.Gateway = gw

	agentCfg := agents.Config{
		MaxTokens:   cfg.Agents.MaxTokens,
		Temperature: cfg.Agents.Temperature,
	}
	eng.Agents = agents.NewRegistry(agents.BuiltinPersonas(), gw, agentCfg, logger)

	router := orchestrator.NewRouter(orchestrator.DefaultTriggerRules, cfg.Router.MaxAgents)
	eng.Orchestrator = orchestrator.New(router, eng.Agents, gw, collector, logger)

	eng.Benchmarks = benchmark.NewRegistry(store, logger)
	validators := benchmark.NewValidatorSet(gw, nil)
	eng.Runner = benchmark.NewRunner(eng.Benchmarks, eng.Agents, validators, store, collector, benchmark.RunnerConfig{
		TestPassThreshold: cfg.Benchmark.TestPassThreshold,
		ResultRetention:   cfg.Benchmark.ResultRetention,
	}, logger)
	eng.Analytics = benchmark.NewAnalytics(eng.Benchmarks, store, logger)

	eng.Baseline = baseline.NewManager(store, eng.Agents, gw, logger)

	if err := eng.seedCatalogs(ctx, cfg); err != nil {
		return nil, err
	}
	return eng, nil
}

// Close releases backend connections held by the engine.
func (e *Engine) Close() error {
	var firstErr error
	for _, closeFn := range e.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (e *Engine) buildStore(ctx context.Context, cfg StorageConfig) (ports.DocumentStore, error) {
	switch cfg.Backend {
	case "redis":
		client, err := storage.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, 5, e.Logger)
		if err != nil {
			return nil, fmt.Errorf("connecting document store: %w", err)
		}
		e.closers = append(e.closers, client.Close)
		return storage.NewRedisStore(client), nil
	case "memory":
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// buildGateway assembles the provider gateway with its middleware
// chain. Order matters: retry wraps the rate limiter so retried
// attempts are themselves throttled, and the per-call timeout sits
// closest to the provider.
func buildGateway(cfg GatewayConfig, collector ports.MetricsCollector) (*gateway.Gateway, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	middleware := []gateway.Middleware{
		gateway.TracingMiddleware("orchestra-gateway"),
		gateway.MetricsMiddleware(collector),
		gateway.RetryMiddleware(cfg.MaxRetries, 500*time.Millisecond, 10*time.Second),
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		middleware = append(middleware, gateway.RateLimitMiddleware(rate.Limit(cfg.RequestsPerSecond), burst))
	}
	middleware = append(middleware, gateway.TimeoutMiddleware(timeout))

	gw, err := gateway.New(cfg.Provider, gateway.Config{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		BaseURL:    cfg.BaseURL,
		Timeout:    timeout,
		Middleware: middleware,
	})
	if err != nil {
		return nil, fmt.Errorf("building %s gateway: %w", cfg.Provider, err)
	}
	return gw, nil
}

// seedCatalogs loads benchmark definitions and baseline questions from
// the configured YAML files. Seeding is idempotent: catalogs replace
// documents keyed by their IDs.
func (e *Engine) seedCatalogs(ctx context.Context, cfg Config) error {
	if cfg.Benchmark.CatalogPath != "" {
		n, err := e.Benchmarks.LoadCatalog(ctx, cfg.Benchmark.CatalogPath)
		if err != nil {
			return fmt.Errorf("loading benchmark catalog: %w", err)
		}
		e.Logger.Info().Int("benchmarks", n).Str("path", cfg.Benchmark.CatalogPath).Msg("benchmark catalog loaded")
	}
	if cfg.Baseline.QuestionFile != "" {
		n, err := e.Baseline.LoadQuestionFile(ctx, cfg.Baseline.QuestionFile)
		if err != nil {
			return fmt.Errorf("loading baseline questions: %w", err)
		}
		e.Logger.Info().Int("questions", n).Str("path", cfg.Baseline.QuestionFile).Msg("baseline questions loaded")
	}
	return nil
}
