package application

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "openai", cfg.Gateway.Provider)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, 60, cfg.Gateway.TimeoutSeconds)
}

func TestLoadConfigFromFile(t *testing.T) {
	content := `server:
  addr: ":9090"
  log_level: debug
gateway:
  provider: anthropic
  model: claude-3-5-sonnet-20241022
  timeout_seconds: 30
router:
  max_agents: 4
benchmark:
  test_pass_threshold: 75
  result_retention: 25
storage:
  backend: redis
  redis_addr: "localhost:6379"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "anthropic", cfg.Gateway.Provider)
	assert.Equal(t, 30, cfg.Gateway.TimeoutSeconds)
	assert.Equal(t, 4, cfg.Router.MaxAgents)
	assert.Equal(t, 75.0, cfg.Benchmark.TestPassThreshold)
	assert.Equal(t, 25, cfg.Benchmark.ResultRetention)
	assert.Equal(t, "redis", cfg.Storage.Backend)
	assert.Equal(t, "localhost:6379", cfg.Storage.RedisAddr)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("ORCHESTRA_ADDR", ":7070")
	t.Setenv("ORCHESTRA_PROVIDER", "google")
	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("ORCHESTRA_MAX_AGENTS", "3")
	t.Setenv("ORCHESTRA_TEST_PASS_THRESHOLD", "65")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "google", cfg.Gateway.Provider)
	assert.Equal(t, "test-key", cfg.Gateway.APIKey)
	assert.Equal(t, 3, cfg.Router.MaxAgents)
	assert.Equal(t, 65.0, cfg.Benchmark.TestPassThreshold)
}

func TestLoadConfigProviderKeyFromEnv(t *testing.T) {
	t.Setenv("ORCHESTRA_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "anthropic-key")
	t.Setenv("OPENAI_API_KEY", "openai-key")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "anthropic-key", cfg.Gateway.APIKey, "key follows the selected provider")
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "unknown provider",
			content: `gateway:
  provider: bard
`,
		},
		{
			name: "unknown storage backend",
			content: `storage:
  backend: cassandra
`,
		},
		{
			name: "redis backend requires an address",
			content: `storage:
  backend: redis
`,
		},
		{
			name: "out-of-range threshold",
			content: `benchmark:
  test_pass_threshold: 150
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := LoadConfig(path)
			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
