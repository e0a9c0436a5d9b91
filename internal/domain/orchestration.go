package domain

import "time"

// RiskLevel classifies the overall risk attached to an orchestration
// result, derived from concern density and low-confidence opinions.
type RiskLevel string

// Risk classifications attached to an OrchestrationResult.
const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Valid reports whether the RiskLevel is one of the known classifications.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// OrchestrationResult is the complete outcome of one multi-agent session.
// It is created once per query and never mutated afterwards; ownership
// transfers to the caller. Even when every gateway call fails, the result
// carries placeholder synthesis text and one opinion per involved agent
// rather than an error.
type OrchestrationResult struct {
	// ID uniquely identifies this session (a UUID).
	ID string `json:"id"`

	// Query is the immutable input that started the session.
	Query Query `json:"query"`

	// InvolvedAgents lists the agents selected by the router, in the
	// order they were invoked.
	InvolvedAgents []AgentID `json:"involved_agents"`

	// Opinions holds one AgentOpinion per involved agent, in invocation
	// order. Opinion i was produced with opinions [0,i) as prior context.
	Opinions []AgentOpinion `json:"opinions"`

	// ConsensusText is the synthesized reconciliation of all opinions,
	// or a placeholder when synthesis failed.
	ConsensusText string `json:"consensus_text"`

	// FinalRecommendationText is the synthesized actionable answer, or a
	// placeholder when synthesis failed.
	FinalRecommendationText string `json:"final_recommendation_text"`

	// RiskLevel is the LOW/MEDIUM/HIGH classification for this result.
	RiskLevel RiskLevel `json:"risk_level"`

	// CreatedAt records when the session completed.
	CreatedAt time.Time `json:"created_at"`
}
