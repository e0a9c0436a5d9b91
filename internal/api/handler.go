package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"

	"github.com/formul8/orchestra/internal/application"
	"github.com/formul8/orchestra/internal/domain"
)

// Handler serves the HTTP API over the wired engine.
type Handler struct {
	engine *application.Engine
	logger zerolog.Logger
}

// NewHandler creates a Handler over the engine.
func NewHandler(engine *application.Engine, logger zerolog.Logger) *Handler {
	return &Handler{engine: engine, logger: logger}
}

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// QuestionsRequest carries a replacement question set for one agent.
type QuestionsRequest struct {
	Questions []domain.BaselineQuestion `json:"questions"`
}

// writeServiceError maps service errors onto HTTP statuses: not-found
// conditions become 404, definition validation failures become 400, and
// everything else is a 500.
func (h *Handler) writeServiceError(resp *restful.Response, err error) {
	switch {
	case errors.Is(err, domain.ErrBenchmarkNotFound),
		errors.Is(err, domain.ErrTestCaseNotFound),
		errors.Is(err, domain.ErrAgentNotFound),
		errors.Is(err, domain.ErrQuestionNotFound):
		WriteError(resp, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrInvalidDefinition):
		WriteError(resp, http.StatusBadRequest, err)
	default:
		h.logger.Error().Err(err).Msg("request failed")
		WriteError(resp, http.StatusInternalServerError, err)
	}
}

// agentParam parses and validates the agent path or query parameter.
func agentParam(value string) (domain.AgentID, error) {
	id := domain.AgentID(strings.TrimSpace(value))
	if !id.Valid() {
		return "", domain.ErrAgentNotFound
	}
	return id, nil
}

// Health reports service liveness.
func (h *Handler) Health(_ *restful.Request, resp *restful.Response) {
	_ = resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{Status: "ok"})
}

// Query routes a question through the specialist agents and synthesis
// passes, returning the full orchestration result.
func (h *Handler) Query(req *restful.Request, resp *restful.Response) {
	var query domain.Query
	if err := req.ReadEntity(&query); err != nil {
		WriteError(resp, http.StatusBadRequest, err)
		return
	}
	if query.Text == "" {
		WriteError(resp, http.StatusBadRequest, errors.New("text is required"))
		return
	}
	if _, err := agentParam(string(query.PrimaryAgent)); err != nil {
		h.writeServiceError(resp, err)
		return
	}

	h.logger.Info().
		Str("primary_agent", string(query.PrimaryAgent)).
		Int("text_length", len(query.Text)).
		Msg("orchestration started")

	result, err := h.engine.Orchestrator.Run(req.Request.Context(), query)
	if err != nil {
		h.writeServiceError(resp, err)
		return
	}

	h.logger.Info().
		Str("session_id", result.ID).
		Int("agents", len(result.InvolvedAgents)).
		Str("risk", string(result.RiskLevel)).
		Msg("orchestration complete")

	_ = resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// ListBenchmarks returns all stored benchmark definitions.
func (h *Handler) ListBenchmarks(req *restful.Request, resp *restful.Response) {
	defs, err := h.engine.Benchmarks.List(req.Request.Context())
	if err != nil {
		h.writeServiceError(resp, err)
		return
	}
	_ = resp.WriteHeaderAndEntity(http.StatusOK, defs)
}

// CreateBenchmark stores a new benchmark definition.
func (h *Handler) CreateBenchmark(req *restful.Request, resp *restful.Response) {
	var def domain.BenchmarkDefinition
	if err := req.ReadEntity(&def); err != nil {
		WriteError(resp, http.StatusBadRequest, err)
		return
	}
	if err := h.engine.Benchmarks.Create(req.Request.Context(), def); err != nil {
		h.writeServiceError(resp, err)
		return
	}
	_ = resp.WriteHeaderAndEntity(http.StatusCreated, def)
}

// GetBenchmark returns one benchmark definition by id.
func (h *Handler) GetBenchmark(req *restful.Request, resp *restful.Response) {
	def, err := h.engine.Benchmarks.Get(req.Request.Context(), req.PathParameter("benchmark_id"))
	if err != nil {
		h.writeServiceError(resp, err)
		return
	}
	_ = resp.WriteHeaderAndEntity(http.StatusOK, def)
}

// UpdateBenchmark replaces a benchmark definition.
func (h *Handler) UpdateBenchmark(req *restful.Request, resp *restful.Response) {
	var def domain.BenchmarkDefinition
	if err := req.ReadEntity(&def); err != nil {
		WriteError(resp, http.StatusBadRequest, err)
		return
	}
	def.ID = req.PathParameter("benchmark_id")
	if err := h.engine.Benchmarks.Update(req.Request.Context(), def); err != nil {
		h.writeServiceError(resp, err)
		return
	}
	_ = resp.WriteHeaderAndEntity(http.StatusOK, def)
}

// DeleteBenchmark removes a benchmark definition and its results.
func (h *Handler) DeleteBenchmark(req *restful.Request, resp *restful.Response) {
	if err := h.engine.Benchmarks.Delete(req.Request.Context(), req.PathParameter("benchmark_id")); err != nil {
		h.writeServiceError(resp, err)
		return
	}
	resp.WriteHeader(http.StatusNoContent)
}

// AddTestCase appends a test case to a benchmark definition.
func (h *Handler) AddTestCase(req *restful.Request, resp *restful.Response) {
	var tc domain.TestCase
	if err := req.ReadEntity(&tc); err != nil {
		WriteError(resp, http.StatusBadRequest, err)
		return
	}
	if err := h.engine.Benchmarks.AddTestCase(req.Request.Context(), req.PathParameter("benchmark_id"), tc); err != nil {
		h.writeServiceError(resp, err)
		return
	}
	_ = resp.WriteHeaderAndEntity(http.StatusCreated, tc)
}

// UpdateTestCase replaces a test case within a benchmark definition.
func (h *Handler) UpdateTestCase(req *restful.Request, resp *restful.Response) {
	var tc domain.TestCase
	if err := req.ReadEntity(&tc); err != nil {
		WriteError(resp, http.StatusBadRequest, err)
		return
	}
	tc.ID = req.PathParameter("test_id")
	if err := h.engine.Benchmarks.UpdateTestCase(req.Request.Context(), req.PathParameter("benchmark_id"), tc); err != nil {
		h.writeServiceError(resp, err)
		return
	}
	_ = resp.WriteHeaderAndEntity(http.StatusOK, tc)
}

// RemoveTestCase deletes a test case from a benchmark definition.
func (h *Handler) RemoveTestCase(req *restful.Request, resp *restful.Response) {
	err := h.engine.Benchmarks.RemoveTestCase(
		req.Request.Context(),
		req.PathParameter("benchmark_id"),
		req.PathParameter("test_id"),
	)
	if err != nil {
		h.writeServiceError(resp, err)
		return
	}
	resp.WriteHeader(http.StatusNoContent)
}

// RunBenchmark executes one benchmark against one agent.
func (h *Handler) RunBenchmark(req *restful.Request, resp *restful.Response) {
	agentID, err := agentParam(req.QueryParameter("agent"))
	if err != nil {
		h.writeServiceError(resp, err)
		return
	}

	benchmarkID := req.PathParameter("benchmark_id")
	h.logger.Info().
		Str("benchmark_id", benchmarkID).
		Str("agent", string(agentID)).
		Msg("benchmark run started")

	result, err := h.engine.Runner.Run(req.Request.Context(), benchmarkID, agentID)
	if err != nil {
		h.writeServiceError(resp, err)
		return
	}
	_ = resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// RunAllBenchmarks executes every active, applicable benchmark against
// one agent.
func (h *Handler) RunAllBenchmarks(req *restful.Request, resp *restful.Response) {
	agentID, err := agentParam(req.QueryParameter("agent"))
	if err != nil {
		h.writeServiceError(resp, err)
		return
	}

	results, err := h.engine.Runner.RunAll(req.Request.Context(), agentID)
	if err != nil {
		h.writeServiceError(resp, err)
		return
	}
	_ = resp.WriteHeaderAndEntity(http.StatusOK, results)
}

// BenchmarkResults returns the retained result history for a benchmark.
func (h *Handler) BenchmarkResults(req *restful.Request, resp *restful.Response) {
	results, err := h.engine.Runner.Results(req.Request.Context(), req.PathParameter("benchmark_id"))
	if err != nil {
		h.writeServiceError(resp, err)
		return
	}
	_ = resp.WriteHeaderAndEntity(http.StatusOK, results)
}

// BenchmarkAnalytics returns trend and regression analytics for one
// benchmark and agent over the requested timeframe. A 204 indicates
// insufficient history.
func (h *Handler) BenchmarkAnalytics(req *restful.Request, resp *restful.Response) {
	agentID, err := agentParam(req.QueryParameter("agent"))
	if err != nil {
		h.writeServiceError(resp, err)
		return
	}
	timeframe := domain.Timeframe(req.QueryParameter("timeframe"))
	if timeframe == "" {
		timeframe = domain.TimeframeWeek
	}

	analytics, err := h.engine.Analytics.Get(req.Request.Context(), req.PathParameter("benchmark_id"), agentID, timeframe)
	if err != nil {
		h.writeServiceError(resp, err)
		return
	}
	if analytics == nil {
		resp.WriteHeader(http.StatusNoContent)
		return
	}
	_ = resp.WriteHeaderAndEntity(http.StatusOK, analytics)
}

// BaselineQuestions returns the stored question set for an agent.
func (h *Handler) BaselineQuestions(req *restful.Request, resp *restful.Response) {
	agentID, err := agentParam(req.PathParameter("agent_id"))
	if err != nil {
		h.writeServiceError(resp, err)
		return
	}
	questions, err := h.engine.Baseline.Questions(req.Request.Context(), agentID)
	if err != nil {
		h.writeServiceError(resp, err)
		return
	}
	_ = resp.WriteHeaderAndEntity(http.StatusOK, questions)
}

// PutBaselineQuestions replaces the question set for an agent.
func (h *Handler) PutBaselineQuestions(req *restful.Request, resp *restful.Response) {
	agentID, err := agentParam(req.PathParameter("agent_id"))
	if err != nil {
		h.writeServiceError(resp, err)
		return
	}
	var body QuestionsRequest
	if err := req.ReadEntity(&body); err != nil {
		WriteError(resp, http.StatusBadRequest, err)
		return
	}
	if err := h.engine.Baseline.PutQuestions(req.Request.Context(), agentID, body.Questions); err != nil {
		h.writeServiceError(resp, err)
		return
	}
	_ = resp.WriteHeaderAndEntity(http.StatusOK, body.Questions)
}

// RunBaseline executes baseline questions for an agent. The optional
// question query parameter restricts the run to a single question.
func (h *Handler) RunBaseline(req *restful.Request, resp *restful.Response) {
	agentID, err := agentParam(req.PathParameter("agent_id"))
	if err != nil {
		h.writeServiceError(resp, err)
		return
	}

	results, err := h.engine.Baseline.Run(req.Request.Context(), agentID, req.QueryParameter("question"))
	if err != nil {
		h.writeServiceError(resp, err)
		return
	}
	_ = resp.WriteHeaderAndEntity(http.StatusOK, results)
}

// BaselineResults returns the retained baseline history for an agent.
func (h *Handler) BaselineResults(req *restful.Request, resp *restful.Response) {
	agentID, err := agentParam(req.PathParameter("agent_id"))
	if err != nil {
		h.writeServiceError(resp, err)
		return
	}
	results, err := h.engine.Baseline.Results(req.Request.Context(), agentID)
	if err != nil {
		h.writeServiceError(resp, err)
		return
	}
	_ = resp.WriteHeaderAndEntity(http.StatusOK, results)
}
