package domain

import "time"

// MatcherType selects the validation strategy applied to a test case's
// response before scoring.
type MatcherType string

// Supported output matcher types.
const (
	// MatchExact requires the response to equal the expected output after
	// normalization.
	MatchExact MatcherType = "exact_match"

	// MatchContains requires the expected output to appear as a substring
	// of the response.
	MatchContains MatcherType = "contains"

	// MatchRegex requires the response to match the expected output
	// interpreted as a regular expression.
	MatchRegex MatcherType = "regex"

	// MatchFuzzy scores the response by Levenshtein similarity to the
	// expected output.
	MatchFuzzy MatcherType = "fuzzy"

	// MatchSemantic delegates to an LLM judge comparing the response to
	// the expected meaning.
	MatchSemantic MatcherType = "semantic"

	// MatchCustom executes a caller-supplied scoring function.
	MatchCustom MatcherType = "custom"
)

// Valid reports whether the MatcherType is one of the supported strategies.
func (m MatcherType) Valid() bool {
	switch m {
	case MatchExact, MatchContains, MatchRegex, MatchFuzzy, MatchSemantic, MatchCustom:
		return true
	}
	return false
}

// ScoringWeights are the linear weights applied to the score breakdown
// when computing an overall benchmark score. The weights need not sum to
// one; this is a deliberate flexibility so operators can over- or
// under-weight the total.
type ScoringWeights struct {
	Accuracy     float64 `json:"accuracy" yaml:"accuracy" validate:"min=0,max=10"`
	ResponseTime float64 `json:"response_time" yaml:"response_time" validate:"min=0,max=10"`
	Confidence   float64 `json:"confidence" yaml:"confidence" validate:"min=0,max=10"`
	Safety       float64 `json:"safety" yaml:"safety" validate:"min=0,max=10"`
	Compliance   float64 `json:"compliance" yaml:"compliance" validate:"min=0,max=10"`
}

// DefaultScoringWeights returns the standard weight blend used when a
// definition does not specify its own.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		Accuracy:     0.4,
		ResponseTime: 0.2,
		Confidence:   0.2,
		Safety:       0.1,
		Compliance:   0.1,
	}
}

// ConfidenceRange is the inclusive [Min,Max] band a test case expects the
// agent's self-reported confidence to fall within.
type ConfidenceRange struct {
	Min float64 `json:"min" yaml:"min" validate:"min=0,max=100"`
	Max float64 `json:"max" yaml:"max" validate:"min=0,max=100"`
}

// Contains reports whether the confidence value falls inside the band.
func (r ConfidenceRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// TestCase is one benchmark probe: an input query plus the expectations
// used to validate and score the agent's response. IDs are unique within
// the parent definition.
type TestCase struct {
	// ID uniquely identifies this case within its parent definition.
	ID string `json:"id" yaml:"id" validate:"required,min=1,max=100"`

	// Query is the input sent to the agent under test.
	Query string `json:"query" yaml:"query" validate:"required,min=1"`

	// Matcher selects the validation strategy for this case.
	Matcher MatcherType `json:"matcher" yaml:"matcher" validate:"required,oneof=exact_match contains regex fuzzy semantic custom"`

	// ExpectedOutput is the reference the matcher validates against: a
	// literal for exact/contains/fuzzy, a pattern for regex, or a
	// description of the expected meaning for semantic judging.
	ExpectedOutput string `json:"expected_output" yaml:"expected_output"`

	// ExpectedConfidence is the band the agent's confidence should land in.
	ExpectedConfidence ConfidenceRange `json:"expected_confidence" yaml:"expected_confidence"`

	// ExpectedResponseTimeMs bounds acceptable latency for full marks.
	ExpectedResponseTimeMs int64 `json:"expected_response_time_ms" yaml:"expected_response_time_ms" validate:"min=0"`

	// Weight scales this case's contribution to the run, 1-10.
	Weight float64 `json:"weight" yaml:"weight" validate:"min=1,max=10"`
}

// BenchmarkSchedule describes when a definition should be executed
// automatically. Scheduling execution is an operator concern; the core
// only stores the declaration.
type BenchmarkSchedule string

// Recognized schedule declarations.
const (
	ScheduleManual  BenchmarkSchedule = "manual"
	ScheduleDaily   BenchmarkSchedule = "daily"
	ScheduleWeekly  BenchmarkSchedule = "weekly"
	ScheduleMonthly BenchmarkSchedule = "monthly"
)

// ApplicableToAll is the sentinel applicable-agents entry meaning the
// definition applies to every agent domain.
const ApplicableToAll = "all"

// BenchmarkDefinition is a catalog entry describing a named suite of test
// cases, its scoring weights, and its pass threshold. Definitions are
// mutable through the registry; deleting one cascades deletion of its
// stored results.
type BenchmarkDefinition struct {
	// ID uniquely identifies the definition in the catalog.
	ID string `json:"id" yaml:"id" validate:"required,min=1,max=100"`

	// Name is the human-readable suite title.
	Name string `json:"name" yaml:"name" validate:"required,min=1,max=255"`

	// Category groups related suites (e.g. "safety", "regulatory").
	Category string `json:"category" yaml:"category" validate:"max=100"`

	// ApplicableAgents lists the agent domains this suite targets, or the
	// single entry "all" to target every domain.
	ApplicableAgents []string `json:"applicable_agents" yaml:"applicable_agents" validate:"required,min=1"`

	// TestCases are the probes executed by a run, in definition order.
	TestCases []TestCase `json:"test_cases" yaml:"test_cases" validate:"required,min=1,dive"`

	// Weights are the linear blend applied to the run's breakdown.
	Weights ScoringWeights `json:"scoring_weights" yaml:"scoring_weights"`

	// PassingScore is the overall-score threshold for a passing run.
	// Distinct from the fixed per-test pass threshold.
	PassingScore float64 `json:"passing_score" yaml:"passing_score" validate:"min=0,max=100"`

	// Schedule declares when the suite should run automatically.
	Schedule BenchmarkSchedule `json:"schedule" yaml:"schedule"`

	// Active definitions are included in run-all sweeps.
	Active bool `json:"active" yaml:"active"`
}

// AppliesTo reports whether the definition targets the given agent,
// either explicitly or via the "all" sentinel.
func (d *BenchmarkDefinition) AppliesTo(agent AgentID) bool {
	for _, a := range d.ApplicableAgents {
		if a == ApplicableToAll || a == string(agent) {
			return true
		}
	}
	return false
}

// FindTestCase returns the test case with the given id, or nil.
func (d *BenchmarkDefinition) FindTestCase(id string) *TestCase {
	for i := range d.TestCases {
		if d.TestCases[i].ID == id {
			return &d.TestCases[i]
		}
	}
	return nil
}

// SubScores are the accuracy/safety/compliance components of one test
// result, each in [0,100].
type SubScores struct {
	Accuracy   float64 `json:"accuracy"`
	Safety     float64 `json:"safety"`
	Compliance float64 `json:"compliance"`
}

// TestResult records one test case's outcome within a benchmark run. A
// case that errored still yields a TestResult with score zero and the
// error text recorded; runs never short-circuit.
type TestResult struct {
	// TestCaseID links back to the definition's test case.
	TestCaseID string `json:"test_case_id"`

	// ResponseText is the agent's raw answer, or the error message.
	ResponseText string `json:"response_text"`

	// Confidence is the agent's self-reported confidence for this answer.
	Confidence float64 `json:"confidence"`

	// ResponseTimeMs is the measured wall-clock latency of the invocation.
	ResponseTimeMs int64 `json:"response_time_ms"`

	// Score is the weighted per-test blend in [0,100].
	Score float64 `json:"score"`

	// Passed is true when Score meets the fixed per-test threshold.
	Passed bool `json:"passed"`

	// SubScores carries the accuracy/safety/compliance components.
	SubScores SubScores `json:"subscores"`

	// Errors lists any failures encountered while executing this case.
	Errors []string `json:"errors,omitempty"`
}

// ScoreBreakdown is the per-dimension mean across a run's test results.
// An empty run yields an all-zero breakdown by convention.
type ScoreBreakdown struct {
	Accuracy     float64 `json:"accuracy"`
	ResponseTime float64 `json:"response_time"`
	Confidence   float64 `json:"confidence"`
	Safety       float64 `json:"safety"`
	Compliance   float64 `json:"compliance"`
}

// BenchmarkResult is the append-only record of one benchmark run for one
// agent. Results are never mutated; retention keeps only the most recent
// runs per benchmark, evicting oldest first.
type BenchmarkResult struct {
	// ID uniquely identifies this run (a UUID).
	ID string `json:"id"`

	// BenchmarkID links to the definition that was executed.
	BenchmarkID string `json:"benchmark_id"`

	// AgentID is the agent configuration under test.
	AgentID AgentID `json:"agent_id"`

	// PerTestResults holds one entry per test case, in definition order.
	PerTestResults []TestResult `json:"per_test_results"`

	// OverallScore is the weighted sum of the breakdown dimensions,
	// clamped to [0,100].
	OverallScore float64 `json:"overall_score"`

	// Breakdown is the per-dimension mean across PerTestResults.
	Breakdown ScoreBreakdown `json:"breakdown"`

	// Passed is true when OverallScore meets the definition's
	// PassingScore.
	Passed bool `json:"passed"`

	// ExecutionTimeMs is the total wall-clock duration of the run.
	ExecutionTimeMs int64 `json:"execution_time_ms"`

	// RunAt timestamps the run so trend analysis needs no external
	// ordering.
	RunAt time.Time `json:"run_at"`
}
