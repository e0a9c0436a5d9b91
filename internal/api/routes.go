package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"

	"github.com/formul8/orchestra/internal/domain"
)

// RegisterRoutes mounts the API under /api/v1 on the container.
func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	ws.
		Route(ws.GET("/health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/query").
			To(handler.Query).
			Doc("Route a question through the specialist agents").
			Metadata(restfulspec.KeyOpenAPITags, []string{"orchestration"}).
			Reads(domain.Query{}).
			Writes(domain.OrchestrationResult{}).
			Returns(200, "OK", domain.OrchestrationResult{}).
			Returns(400, "Bad Request", ErrorResponse{}).
			Returns(404, "Unknown Agent", ErrorResponse{}))

	ws.
		Route(ws.GET("/benchmarks").
			To(handler.ListBenchmarks).
			Doc("List benchmark definitions").
			Metadata(restfulspec.KeyOpenAPITags, []string{"benchmarks"}).
			Writes([]domain.BenchmarkDefinition{}).
			Returns(200, "OK", []domain.BenchmarkDefinition{}))

	ws.
		Route(ws.POST("/benchmarks").
			To(handler.CreateBenchmark).
			Doc("Create a benchmark definition").
			Metadata(restfulspec.KeyOpenAPITags, []string{"benchmarks"}).
			Reads(domain.BenchmarkDefinition{}).
			Returns(201, "Created", domain.BenchmarkDefinition{}).
			Returns(400, "Invalid Definition", ErrorResponse{}))

	ws.
		Route(ws.GET("/benchmarks/{benchmark_id}").
			To(handler.GetBenchmark).
			Doc("Get a benchmark definition").
			Metadata(restfulspec.KeyOpenAPITags, []string{"benchmarks"}).
			Param(ws.PathParameter("benchmark_id", "Benchmark identifier").DataType("string")).
			Writes(domain.BenchmarkDefinition{}).
			Returns(200, "OK", domain.BenchmarkDefinition{}).
			Returns(404, "Not Found", ErrorResponse{}))

	ws.
		Route(ws.PUT("/benchmarks/{benchmark_id}").
			To(handler.UpdateBenchmark).
			Doc("Replace a benchmark definition").
			Metadata(restfulspec.KeyOpenAPITags, []string{"benchmarks"}).
			Param(ws.PathParameter("benchmark_id", "Benchmark identifier").DataType("string")).
			Reads(domain.BenchmarkDefinition{}).
			Returns(200, "OK", domain.BenchmarkDefinition{}).
			Returns(400, "Invalid Definition", ErrorResponse{}).
			Returns(404, "Not Found", ErrorResponse{}))

	ws.
		Route(ws.DELETE("/benchmarks/{benchmark_id}").
			To(handler.DeleteBenchmark).
			Doc("Delete a benchmark definition and its results").
			Metadata(restfulspec.KeyOpenAPITags, []string{"benchmarks"}).
			Param(ws.PathParameter("benchmark_id", "Benchmark identifier").DataType("string")).
			Returns(204, "Deleted", nil).
			Returns(404, "Not Found", ErrorResponse{}))

	ws.
		Route(ws.POST("/benchmarks/{benchmark_id}/tests").
			To(handler.AddTestCase).
			Doc("Add a test case").
			Metadata(restfulspec.KeyOpenAPITags, []string{"benchmarks"}).
			Param(ws.PathParameter("benchmark_id", "Benchmark identifier").DataType("string")).
			Reads(domain.TestCase{}).
			Returns(201, "Created", domain.TestCase{}).
			Returns(404, "Not Found", ErrorResponse{}))

	ws.
		Route(ws.PUT("/benchmarks/{benchmark_id}/tests/{test_id}").
			To(handler.UpdateTestCase).
			Doc("Replace a test case").
			Metadata(restfulspec.KeyOpenAPITags, []string{"benchmarks"}).
			Param(ws.PathParameter("benchmark_id", "Benchmark identifier").DataType("string")).
			Param(ws.PathParameter("test_id", "Test case identifier").DataType("string")).
			Reads(domain.TestCase{}).
			Returns(200, "OK", domain.TestCase{}).
			Returns(404, "Not Found", ErrorResponse{}))

	ws.
		Route(ws.DELETE("/benchmarks/{benchmark_id}/tests/{test_id}").
			To(handler.RemoveTestCase).
			Doc("Remove a test case").
			Metadata(restfulspec.KeyOpenAPITags, []string{"benchmarks"}).
			Param(ws.PathParameter("benchmark_id", "Benchmark identifier").DataType("string")).
			Param(ws.PathParameter("test_id", "Test case identifier").DataType("string")).
			Returns(204, "Deleted", nil).
			Returns(404, "Not Found", ErrorResponse{}))

	ws.
		Route(ws.POST("/benchmarks/{benchmark_id}/run").
			To(handler.RunBenchmark).
			Doc("Run one benchmark against an agent").
			Metadata(restfulspec.KeyOpenAPITags, []string{"benchmarks"}).
			Param(ws.PathParameter("benchmark_id", "Benchmark identifier").DataType("string")).
			Param(ws.QueryParameter("agent", "Agent identifier").DataType("string").Required(true)).
			Writes(domain.BenchmarkResult{}).
			Returns(200, "OK", domain.BenchmarkResult{}).
			Returns(404, "Not Found", ErrorResponse{}))

	ws.
		Route(ws.POST("/benchmarks/run-all").
			To(handler.RunAllBenchmarks).
			Doc("Run all active, applicable benchmarks against an agent").
			Metadata(restfulspec.KeyOpenAPITags, []string{"benchmarks"}).
			Param(ws.QueryParameter("agent", "Agent identifier").DataType("string").Required(true)).
			Writes([]domain.BenchmarkResult{}).
			Returns(200, "OK", []domain.BenchmarkResult{}).
			Returns(404, "Unknown Agent", ErrorResponse{}))

	ws.
		Route(ws.GET("/benchmarks/{benchmark_id}/results").
			To(handler.BenchmarkResults).
			Doc("Get retained results for a benchmark").
			Metadata(restfulspec.KeyOpenAPITags, []string{"benchmarks"}).
			Param(ws.PathParameter("benchmark_id", "Benchmark identifier").DataType("string")).
			Writes([]domain.BenchmarkResult{}).
			Returns(200, "OK", []domain.BenchmarkResult{}))

	ws.
		Route(ws.GET("/benchmarks/{benchmark_id}/analytics").
			To(handler.BenchmarkAnalytics).
			Doc("Get trend and regression analytics for a benchmark and agent").
			Metadata(restfulspec.KeyOpenAPITags, []string{"analytics"}).
			Param(ws.PathParameter("benchmark_id", "Benchmark identifier").DataType("string")).
			Param(ws.QueryParameter("agent", "Agent identifier").DataType("string").Required(true)).
			Param(ws.QueryParameter("timeframe", "Look-back window: day, week, month, quarter (default: week)").DataType("string").Required(false)).
			Writes(domain.Analytics{}).
			Returns(200, "OK", domain.Analytics{}).
			Returns(204, "Insufficient History", nil).
			Returns(404, "Not Found", ErrorResponse{}))

	ws.
		Route(ws.GET("/baseline/{agent_id}/questions").
			To(handler.BaselineQuestions).
			Doc("Get baseline questions for an agent").
			Metadata(restfulspec.KeyOpenAPITags, []string{"baseline"}).
			Param(ws.PathParameter("agent_id", "Agent identifier").DataType("string")).
			Writes([]domain.BaselineQuestion{}).
			Returns(200, "OK", []domain.BaselineQuestion{}).
			Returns(404, "Unknown Agent", ErrorResponse{}))

	ws.
		Route(ws.PUT("/baseline/{agent_id}/questions").
			To(handler.PutBaselineQuestions).
			Doc("Replace baseline questions for an agent").
			Metadata(restfulspec.KeyOpenAPITags, []string{"baseline"}).
			Param(ws.PathParameter("agent_id", "Agent identifier").DataType("string")).
			Reads(QuestionsRequest{}).
			Returns(200, "OK", []domain.BaselineQuestion{}).
			Returns(404, "Unknown Agent", ErrorResponse{}))

	ws.
		Route(ws.POST("/baseline/{agent_id}/run").
			To(handler.RunBaseline).
			Doc("Run baseline questions for an agent").
			Metadata(restfulspec.KeyOpenAPITags, []string{"baseline"}).
			Param(ws.PathParameter("agent_id", "Agent identifier").DataType("string")).
			Param(ws.QueryParameter("question", "Restrict to one question id").DataType("string").Required(false)).
			Writes([]domain.BaselineResult{}).
			Returns(200, "OK", []domain.BaselineResult{}).
			Returns(404, "Not Found", ErrorResponse{}))

	ws.
		Route(ws.GET("/baseline/{agent_id}/results").
			To(handler.BaselineResults).
			Doc("Get retained baseline results for an agent").
			Metadata(restfulspec.KeyOpenAPITags, []string{"baseline"}).
			Param(ws.PathParameter("agent_id", "Agent identifier").DataType("string")).
			Writes([]domain.BaselineResult{}).
			Returns(200, "OK", []domain.BaselineResult{}).
			Returns(404, "Unknown Agent", ErrorResponse{}))

	container.Add(ws)
}
