package benchmark

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formul8/orchestra/infrastructure/storage"
	"github.com/formul8/orchestra/internal/domain"
	"github.com/formul8/orchestra/internal/ports"
	"github.com/formul8/orchestra/internal/testutils"
)

func testDefinition(id string) domain.BenchmarkDefinition {
	return domain.BenchmarkDefinition{
		ID:               id,
		Name:             "Extraction basics",
		Category:         "science",
		ApplicableAgents: []string{domain.ApplicableToAll},
		TestCases: []domain.TestCase{
			{
				ID:                     "tc-solvent",
				Query:                  "Which solvent removes chlorophyll?",
				Matcher:                domain.MatchContains,
				ExpectedOutput:         "ethanol",
				ExpectedConfidence:     domain.ConfidenceRange{Min: 60, Max: 95},
				ExpectedResponseTimeMs: 30000,
				Weight:                 1,
			},
		},
		PassingScore: 70,
		Schedule:     domain.ScheduleManual,
		Active:       true,
	}
}

type runnerFixture struct {
	store    ports.DocumentStore
	registry *Registry
	agents   *testutils.MockAgentRegistry
	agent    *testutils.MockAgent
	runner   *Runner
}

func newRunnerFixture(t *testing.T, cfg RunnerConfig) *runnerFixture {
	t.Helper()

	store := storage.NewMemoryStore()
	registry := NewRegistry(store, zerolog.Nop())
	agent := testutils.NewMockAgent(domain.AgentScience)
	agent.SetOpinion(domain.AgentOpinion{
		ResponseText: "Cold ethanol washes remove chlorophyll; use caution with heat.",
		Confidence:   80,
	})
	agents := testutils.NewMockAgentRegistry(agent)
	validators := NewValidatorSet(testutils.NewMockGateway("mock-model"), nil)

	return &runnerFixture{
		store:    store,
		registry: registry,
		agents:   agents,
		agent:    agent,
		runner:   NewRunner(registry, agents, validators, store, nil, cfg, zerolog.Nop()),
	}
}

func TestRunnerRunScoresAndPersists(t *testing.T) {
	fx := newRunnerFixture(t, RunnerConfig{})
	ctx := context.Background()
	require.NoError(t, fx.registry.Create(ctx, testDefinition("bench-1")))

	result, err := fx.runner.Run(ctx, "bench-1", domain.AgentScience)
	require.NoError(t, err)

	assert.Equal(t, "bench-1", result.BenchmarkID)
	assert.Equal(t, domain.AgentScience, result.AgentID)
	assert.NotEmpty(t, result.ID)
	require.Len(t, result.PerTestResults, 1)

	tr := result.PerTestResults[0]
	assert.Equal(t, "tc-solvent", tr.TestCaseID)
	assert.Equal(t, 100.0, tr.SubScores.Accuracy)
	assert.Equal(t, 100.0, tr.SubScores.Safety, "caution language in the response")
	assert.True(t, tr.Passed)
	assert.Empty(t, tr.Errors)

	assert.True(t, result.Passed)
	assert.Greater(t, result.OverallScore, 70.0)

	stored, err := fx.runner.Results(ctx, "bench-1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, result.ID, stored[0].ID)
}

func TestRunnerRunUnknownIDs(t *testing.T) {
	fx := newRunnerFixture(t, RunnerConfig{})
	ctx := context.Background()
	require.NoError(t, fx.registry.Create(ctx, testDefinition("bench-1")))

	_, err := fx.runner.Run(ctx, "missing", domain.AgentScience)
	assert.ErrorIs(t, err, domain.ErrBenchmarkNotFound)

	_, err = fx.runner.Run(ctx, "bench-1", domain.AgentMarketing)
	assert.ErrorIs(t, err, domain.ErrAgentNotFound)
}

func TestRunnerRunRecordsValidationErrors(t *testing.T) {
	fx := newRunnerFixture(t, RunnerConfig{})
	ctx := context.Background()

	def := testDefinition("bench-regex")
	def.TestCases[0].Matcher = domain.MatchRegex
	def.TestCases[0].ExpectedOutput = `([` // malformed on purpose
	require.NoError(t, fx.registry.Create(ctx, def))

	result, err := fx.runner.Run(ctx, "bench-regex", domain.AgentScience)
	require.NoError(t, err, "per-test failures never abort the run")

	require.Len(t, result.PerTestResults, 1)
	tr := result.PerTestResults[0]
	assert.NotEmpty(t, tr.Errors)
	assert.Zero(t, tr.Score)
	assert.False(t, tr.Passed)
}

func TestRunnerRunFailedAnswerScoresZero(t *testing.T) {
	fx := newRunnerFixture(t, RunnerConfig{})
	ctx := context.Background()
	require.NoError(t, fx.registry.Create(ctx, testDefinition("bench-1")))

	// A gateway failure degrades into an error-text opinion; grading that
	// text would award heuristic safety/compliance points and a perfect
	// response time.
	fx.agent.SetOpinion(domain.AgentOpinion{
		ResponseText: "Error generating response: provider down",
		Confidence:   0,
		Failed:       true,
	})

	result, err := fx.runner.Run(ctx, "bench-1", domain.AgentScience)
	require.NoError(t, err, "invocation failures never abort the run")

	require.Len(t, result.PerTestResults, 1)
	tr := result.PerTestResults[0]
	assert.Zero(t, tr.Score)
	assert.False(t, tr.Passed)
	assert.Equal(t, domain.SubScores{}, tr.SubScores)
	require.NotEmpty(t, tr.Errors)
	assert.Contains(t, tr.Errors[0], "provider down")

	assert.Zero(t, result.OverallScore)
	assert.False(t, result.Passed)
}

func TestRunnerRetentionEvictsOldest(t *testing.T) {
	fx := newRunnerFixture(t, RunnerConfig{ResultRetention: 3})
	ctx := context.Background()
	require.NoError(t, fx.registry.Create(ctx, testDefinition("bench-1")))

	var ids []string
	for range 5 {
		result, err := fx.runner.Run(ctx, "bench-1", domain.AgentScience)
		require.NoError(t, err)
		ids = append(ids, result.ID)
	}

	stored, err := fx.runner.Results(ctx, "bench-1")
	require.NoError(t, err)
	require.Len(t, stored, 3, "retention caps the history")

	// Oldest evicted first: the survivors are the three most recent.
	assert.Equal(t, ids[2], stored[0].ID)
	assert.Equal(t, ids[4], stored[2].ID)
}

func TestRunnerRunAllFiltersDefinitions(t *testing.T) {
	fx := newRunnerFixture(t, RunnerConfig{})
	ctx := context.Background()

	applicable := testDefinition("bench-applicable")
	require.NoError(t, fx.registry.Create(ctx, applicable))

	inactive := testDefinition("bench-inactive")
	inactive.Active = false
	require.NoError(t, fx.registry.Create(ctx, inactive))

	other := testDefinition("bench-other-agent")
	other.ApplicableAgents = []string{string(domain.AgentMarketing)}
	require.NoError(t, fx.registry.Create(ctx, other))

	results, err := fx.runner.RunAll(ctx, domain.AgentScience)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "bench-applicable", results[0].BenchmarkID)
}

func TestRunnerResultsCorruptedHistoryReadsEmpty(t *testing.T) {
	fx := newRunnerFixture(t, RunnerConfig{})
	ctx := context.Background()
	require.NoError(t, fx.registry.Create(ctx, testDefinition("bench-1")))

	// Poison the result list with a document of the wrong shape.
	require.NoError(t, fx.store.AppendToList(ctx, collResults, "bench-1", "not a result", 0))

	results, err := fx.runner.Results(ctx, "bench-1")
	assert.NoError(t, err)
	assert.Empty(t, results)
}
