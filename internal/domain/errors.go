package domain

import "errors"

// Not-found conditions are the one error category that propagates to the
// caller as a hard failure; there is no sensible partial result for a
// missing resource. Per-item failures (a test case, a question, an agent
// opinion) are recovered locally and recorded inline instead.
var (
	// ErrBenchmarkNotFound indicates an unknown benchmark definition id.
	ErrBenchmarkNotFound = errors.New("benchmark not found")

	// ErrTestCaseNotFound indicates an unknown test case id within a
	// definition.
	ErrTestCaseNotFound = errors.New("test case not found")

	// ErrAgentNotFound indicates an agent id outside the closed
	// enumeration or without a registered implementation.
	ErrAgentNotFound = errors.New("agent not found")

	// ErrQuestionNotFound indicates an unknown baseline question id.
	ErrQuestionNotFound = errors.New("baseline question not found")

	// ErrInvalidDefinition indicates a benchmark definition that failed
	// structural validation.
	ErrInvalidDefinition = errors.New("invalid benchmark definition")
)
