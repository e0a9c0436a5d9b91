package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formul8/orchestra/infrastructure/storage"
	"github.com/formul8/orchestra/internal/application"
	"github.com/formul8/orchestra/internal/baseline"
	"github.com/formul8/orchestra/internal/benchmark"
	"github.com/formul8/orchestra/internal/domain"
	"github.com/formul8/orchestra/internal/orchestrator"
	"github.com/formul8/orchestra/internal/testutils"
)

// newTestContainer wires a full engine over in-memory storage and mock
// gateway/agents, mounted in a go-restful container.
func newTestContainer(t *testing.T) (*restful.Container, *application.Engine) {
	t.Helper()

	logger := zerolog.Nop()
	store := storage.NewMemoryStore()
	gateway := testutils.NewMockGateway("mock-model")

	agent := testutils.NewMockAgent(domain.AgentScience)
	agent.SetOpinion(domain.AgentOpinion{
		ResponseText: "Cold ethanol washes remove chlorophyll; use caution with heat.",
		Confidence:   80,
	})
	agents := testutils.NewMockAgentRegistry(agent, testutils.NewMockAgent(domain.AgentCompliance))

	registry := benchmark.NewRegistry(store, logger)
	validators := benchmark.NewValidatorSet(gateway, nil)
	engine := &application.Engine{
		Logger:       logger,
		Store:        store,
		Gateway:      gateway,
		Agents:       agents,
		Orchestrator: orchestrator.New(orchestrator.NewRouter(nil, 0), agents, gateway, nil, logger),
		Benchmarks:   registry,
		Runner:       benchmark.NewRunner(registry, agents, validators, store, nil, benchmark.RunnerConfig{}, logger),
		Analytics:    benchmark.NewAnalytics(registry, store, logger),
		Baseline:     baseline.NewManager(store, agents, gateway, logger),
	}

	container := restful.NewContainer()
	container.Filter(RecoverPanic(logger))
	RegisterRoutes(container, NewHandler(engine, logger))
	return container, engine
}

func doJSON(t *testing.T, container *restful.Container, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	container.ServeHTTP(rec, req)
	return rec
}

func seedBenchmark(t *testing.T, container *restful.Container) {
	t.Helper()
	def := domain.BenchmarkDefinition{
		ID:               "bench-1",
		Name:             "Extraction basics",
		ApplicableAgents: []string{domain.ApplicableToAll},
		TestCases: []domain.TestCase{{
			ID:             "tc-1",
			Query:          "Which solvent removes chlorophyll?",
			Matcher:        domain.MatchContains,
			ExpectedOutput: "ethanol",
			Weight:         1,
		}},
		PassingScore: 70,
		Active:       true,
	}
	rec := doJSON(t, container, http.MethodPost, "/api/v1/benchmarks", def)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestHealthEndpoint(t *testing.T) {
	container, _ := newTestContainer(t)

	rec := doJSON(t, container, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestQueryEndpoint(t *testing.T) {
	container, _ := newTestContainer(t)

	rec := doJSON(t, container, http.MethodPost, "/api/v1/query", domain.Query{
		Text:         "Which solvent removes chlorophyll?",
		PrimaryAgent: domain.AgentScience,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result domain.OrchestrationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, []domain.AgentID{domain.AgentScience}, result.InvolvedAgents)
	require.Len(t, result.Opinions, 1)

	// Validation failures.
	rec = doJSON(t, container, http.MethodPost, "/api/v1/query", domain.Query{PrimaryAgent: domain.AgentScience})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, container, http.MethodPost, "/api/v1/query", domain.Query{Text: "q", PrimaryAgent: "astrology"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBenchmarkCRUDEndpoints(t *testing.T) {
	container, _ := newTestContainer(t)
	seedBenchmark(t, container)

	rec := doJSON(t, container, http.MethodGet, "/api/v1/benchmarks/bench-1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, container, http.MethodGet, "/api/v1/benchmarks/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, container, http.MethodGet, "/api/v1/benchmarks", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bench-1")

	rec = doJSON(t, container, http.MethodDelete, "/api/v1/benchmarks/bench-1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, container, http.MethodGet, "/api/v1/benchmarks/bench-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBenchmarkRunEndpoint(t *testing.T) {
	container, _ := newTestContainer(t)
	seedBenchmark(t, container)

	rec := doJSON(t, container, http.MethodPost, "/api/v1/benchmarks/bench-1/run?agent=science", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result domain.BenchmarkResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Passed)

	rec = doJSON(t, container, http.MethodPost, "/api/v1/benchmarks/bench-1/run?agent=astrology", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, container, http.MethodGet, "/api/v1/benchmarks/bench-1/results", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnalyticsEndpointNoData(t *testing.T) {
	container, _ := newTestContainer(t)
	seedBenchmark(t, container)

	rec := doJSON(t, container, http.MethodGet, "/api/v1/benchmarks/bench-1/analytics?agent=science", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code, "insufficient history renders as 204")
}

func TestAnalyticsEndpointWithHistory(t *testing.T) {
	container, _ := newTestContainer(t)
	seedBenchmark(t, container)

	for range 2 {
		rec := doJSON(t, container, http.MethodPost, "/api/v1/benchmarks/bench-1/run?agent=science", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, container, http.MethodGet, "/api/v1/benchmarks/bench-1/analytics?agent=science&timeframe=week", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var analytics domain.Analytics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analytics))
	assert.Len(t, analytics.ScoreTrend, 2)
	assert.Equal(t, 100.0, analytics.PassRate)
}

func TestBaselineEndpoints(t *testing.T) {
	container, _ := newTestContainer(t)

	questions := QuestionsRequest{Questions: []domain.BaselineQuestion{{
		ID:             "q-1",
		AgentID:        domain.AgentScience,
		Question:       "Which solvent removes chlorophyll?",
		ExpectedAnswer: "cold ethanol",
		Keywords:       []string{"ethanol"},
	}}}

	rec := doJSON(t, container, http.MethodPut, "/api/v1/baseline/science/questions", questions)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, container, http.MethodGet, "/api/v1/baseline/science/questions", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "q-1")

	rec = doJSON(t, container, http.MethodPost, "/api/v1/baseline/science/run", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var results []domain.BaselineResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, []string{"ethanol"}, results[0].KeywordsMatched)

	rec = doJSON(t, container, http.MethodGet, "/api/v1/baseline/astrology/questions", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
