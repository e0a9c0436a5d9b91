// Package application loads service configuration and wires the
// domain components into a runnable engine.
package application

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the top-level service configuration, loaded from YAML with
// environment-variable overrides for deployment-specific values and
// secrets.
type Config struct {
	// Server controls the HTTP listener and logging.
	Server ServerConfig `yaml:"server"`
	// Gateway selects and tunes the LLM provider shared by all agents.
	Gateway GatewayConfig `yaml:"gateway" validate:"required"`
	// Agents tunes completion parameters for the specialist agents.
	Agents AgentConfig `yaml:"agents"`
	// Router bounds how many agents a single query may fan out to.
	Router RouterConfig `yaml:"router"`
	// Benchmark tunes scoring thresholds and result retention.
	Benchmark BenchmarkConfig `yaml:"benchmark"`
	// Baseline points at the seed question catalog.
	Baseline BaselineConfig `yaml:"baseline"`
	// Storage selects the document store backend.
	Storage StorageConfig `yaml:"storage"`
}

// ServerConfig controls the HTTP listener and log output.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr" validate:"required"`
	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
	// ConsoleLog switches to human-readable console output.
	ConsoleLog bool `yaml:"console_log"`
}

// GatewayConfig selects the LLM provider and its resilience settings.
type GatewayConfig struct {
	// Provider names a registered provider: openai, anthropic, or google.
	Provider string `yaml:"provider" validate:"required,oneof=openai anthropic google"`
	// Model overrides the provider's default model when non-empty.
	Model string `yaml:"model"`
	// APIKey authenticates requests. Normally supplied via environment.
	APIKey string `yaml:"api_key"`
	// BaseURL overrides the provider endpoint, for proxies and tests.
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`
	// TimeoutSeconds bounds each completion request.
	TimeoutSeconds int `yaml:"timeout_seconds" validate:"omitempty,min=1,max=600"`
	// MaxRetries caps retry attempts for transient provider errors.
	MaxRetries int `yaml:"max_retries" validate:"omitempty,min=0,max=10"`
	// RequestsPerSecond throttles outbound traffic; zero disables.
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"omitempty,min=0"`
	// Burst is the rate-limiter burst size when throttling is enabled.
	Burst int `yaml:"burst" validate:"omitempty,min=1"`
}

// AgentConfig tunes the specialist agents' completion parameters.
type AgentConfig struct {
	// MaxTokens bounds each agent response; zero keeps the default.
	MaxTokens int `yaml:"max_tokens" validate:"omitempty,min=1,max=100000"`
	// Temperature controls sampling randomness; zero keeps the default.
	Temperature float64 `yaml:"temperature" validate:"omitempty,min=0,max=2"`
}

// RouterConfig bounds query fan-out.
type RouterConfig struct {
	// MaxAgents caps agents per query; zero means unlimited.
	MaxAgents int `yaml:"max_agents" validate:"omitempty,min=1,max=16"`
}

// BenchmarkConfig tunes benchmark execution.
type BenchmarkConfig struct {
	// TestPassThreshold is the per-test pass score; zero keeps the
	// default of 70.
	TestPassThreshold float64 `yaml:"test_pass_threshold" validate:"omitempty,min=0,max=100"`
	// ResultRetention caps stored results per benchmark, oldest evicted
	// first; zero keeps the default of 50.
	ResultRetention int `yaml:"result_retention" validate:"omitempty,min=1,max=10000"`
	// CatalogPath seeds benchmark definitions from a YAML file when set.
	CatalogPath string `yaml:"catalog_path"`
}

// BaselineConfig seeds the baseline question catalog.
type BaselineConfig struct {
	// QuestionFile seeds baseline questions from a YAML file when set.
	QuestionFile string `yaml:"question_file"`
}

// StorageConfig selects the document store backend.
type StorageConfig struct {
	// Backend is either memory or redis.
	Backend string `yaml:"backend" validate:"required,oneof=memory redis"`
	// RedisAddr is the host:port of the Redis server.
	RedisAddr string `yaml:"redis_addr" validate:"required_if=Backend redis"`
	// RedisPassword authenticates to Redis; empty for open instances.
	RedisPassword string `yaml:"redis_password"`
}

// DefaultConfig returns a configuration suitable for local development:
// in-memory storage, OpenAI provider, default thresholds.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:     ":8080",
			LogLevel: "info",
		},
		Gateway: GatewayConfig{
			Provider:       "openai",
			TimeoutSeconds: 60,
			MaxRetries:     3,
		},
		Storage: StorageConfig{
			Backend: "memory",
		},
	}
}

// LoadConfig reads YAML configuration from path, overlays environment
// variables, and validates the result. An empty path skips the file and
// builds the configuration from defaults plus environment.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	overlayEnv(&cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// overlayEnv applies environment overrides on top of file values.
// Provider API keys are read from their conventional variables so
// secrets never need to live in the config file.
func overlayEnv(cfg *Config) {
	setString(&cfg.Server.Addr, "ORCHESTRA_ADDR")
	setString(&cfg.Server.LogLevel, "ORCHESTRA_LOG_LEVEL")
	setString(&cfg.Gateway.Provider, "ORCHESTRA_PROVIDER")
	setString(&cfg.Gateway.Model, "ORCHESTRA_MODEL")
	setString(&cfg.Gateway.BaseURL, "ORCHESTRA_BASE_URL")
	setString(&cfg.Storage.Backend, "ORCHESTRA_STORAGE_BACKEND")
	setString(&cfg.Storage.RedisAddr, "REDIS_ADDR")
	setString(&cfg.Storage.RedisPassword, "REDIS_PASSWORD")
	setString(&cfg.Benchmark.CatalogPath, "ORCHESTRA_BENCHMARK_CATALOG")
	setString(&cfg.Baseline.QuestionFile, "ORCHESTRA_BASELINE_QUESTIONS")
	setInt(&cfg.Router.MaxAgents, "ORCHESTRA_MAX_AGENTS")
	setFloat(&cfg.Benchmark.TestPassThreshold, "ORCHESTRA_TEST_PASS_THRESHOLD")
	setInt(&cfg.Benchmark.ResultRetention, "ORCHESTRA_RESULT_RETENTION")

	if cfg.Gateway.APIKey == "" {
		switch cfg.Gateway.Provider {
		case "openai":
			cfg.Gateway.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic":
			cfg.Gateway.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case "google":
			cfg.Gateway.APIKey = os.Getenv("GOOGLE_API_KEY")
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
