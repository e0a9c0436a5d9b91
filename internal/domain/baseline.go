package domain

import "time"

// BaselineQuestion is one entry in an agent's fixed health-check question
// set: a question, its expected answer, and the keywords a good answer
// should mention.
type BaselineQuestion struct {
	// ID uniquely identifies the question within the agent's set.
	ID string `json:"id" yaml:"id" validate:"required,min=1,max=100"`

	// AgentID is the domain the question targets.
	AgentID AgentID `json:"agent_id" yaml:"agent_id" validate:"required"`

	// Question is the prompt sent to the agent.
	Question string `json:"question" yaml:"question" validate:"required,min=1"`

	// ExpectedAnswer is the reference answer the accuracy judge compares
	// against.
	ExpectedAnswer string `json:"expected_answer" yaml:"expected_answer" validate:"required,min=1"`

	// Keywords are terms whose verbatim presence in the response is
	// recorded as coverage.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Category groups related questions for reporting.
	Category string `json:"category" yaml:"category"`
}

// BaselineResult records one baseline question's outcome: the agent's raw
// answer plus two independently judged scores and the keyword coverage.
// A failed question still yields a zero-scored result with the error
// embedded in AgentResponse.
type BaselineResult struct {
	// ID uniquely identifies this result (a UUID).
	ID string `json:"id"`

	// QuestionID links back to the baseline question.
	QuestionID string `json:"question_id"`

	// AgentID is the domain that answered.
	AgentID AgentID `json:"agent_id"`

	// AgentResponse is the raw answer text, or the error message.
	AgentResponse string `json:"agent_response"`

	// AccuracyScore is the judge's 0-100 comparison of the response to
	// the expected answer and keyword coverage.
	AccuracyScore float64 `json:"accuracy_score"`

	// ConfidenceScore is the judge's 0-100 reading of hedging language
	// and specificity in the response text itself, independent of the
	// agent's self-reported confidence.
	ConfidenceScore float64 `json:"confidence_score"`

	// KeywordsMatched is the subset of the question's keywords present
	// case-insensitively in the response.
	KeywordsMatched []string `json:"keywords_matched"`

	// RunAt timestamps the evaluation.
	RunAt time.Time `json:"run_at"`
}
