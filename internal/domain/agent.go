// Package domain contains pure, dependency-free domain models and types
// for the multi-agent orchestration and benchmark scoring core.
package domain

// AgentID identifies one of the closed set of specialized advisory domains.
// Agents are a fixed enumeration rather than free-form strings so that
// routing tables, persona configs, and benchmark applicability lists can be
// validated at construction time.
type AgentID string

// The specialized agent domains supported by the platform.
const (
	// AgentCompliance covers regulatory and legal guidance.
	AgentCompliance AgentID = "compliance"

	// AgentFormulation covers product chemistry and formulation design.
	AgentFormulation AgentID = "formulation"

	// AgentScience covers research literature and scientific evidence.
	AgentScience AgentID = "science"

	// AgentOperations covers facility, equipment, and process guidance.
	AgentOperations AgentID = "operations"

	// AgentMarketing covers brand, messaging, and market positioning.
	AgentMarketing AgentID = "marketing"

	// AgentSourcing covers supplier and procurement guidance.
	AgentSourcing AgentID = "sourcing"

	// AgentPatent covers intellectual property and freedom-to-operate.
	AgentPatent AgentID = "patent"

	// AgentCustomerSuccess covers customer support and success workflows.
	AgentCustomerSuccess AgentID = "customer-success"
)

// AllAgents returns the complete set of known agent domains in a stable
// order. The slice is freshly allocated on every call so callers may
// mutate it freely.
func AllAgents() []AgentID {
	return []AgentID{
		AgentCompliance,
		AgentFormulation,
		AgentScience,
		AgentOperations,
		AgentMarketing,
		AgentSourcing,
		AgentPatent,
		AgentCustomerSuccess,
	}
}

// Valid reports whether the AgentID is a member of the closed enumeration.
func (a AgentID) Valid() bool {
	for _, known := range AllAgents() {
		if a == known {
			return true
		}
	}
	return false
}

// String returns the string form of the agent identifier.
func (a AgentID) String() string { return string(a) }

// Query is the immutable input to an orchestration session.
type Query struct {
	// Text is the raw user question.
	Text string `json:"text"`

	// PrimaryAgent is the domain the caller declared as the lead expert.
	// The router always includes it in the involved-agent set.
	PrimaryAgent AgentID `json:"primary_agent"`
}

// AgentOpinion is the structured output of one specialized agent
// invocation. It is immutable once produced and appended in invocation
// order to the session's opinion list; that order is the context fed to
// later agents.
type AgentOpinion struct {
	// AgentID identifies the domain that produced this opinion.
	AgentID AgentID `json:"agent_id"`

	// ResponseText is the raw generated answer. On gateway failure it
	// carries the error message instead of advice.
	ResponseText string `json:"response_text"`

	// Confidence is the agent's self-assessed certainty, clamped to
	// [0,100]. A failed invocation reports 0.
	Confidence float64 `json:"confidence"`

	// Failed marks an opinion produced by a failed invocation (gateway
	// error, empty completion, unresolvable agent) rather than a real
	// answer. ResponseText then carries the error message, and scoring
	// layers must treat the opinion as worthless instead of grading the
	// error text.
	Failed bool `json:"failed,omitempty"`

	// Concerns lists risk fragments extracted from the response text,
	// capped at three in first-match order.
	Concerns []string `json:"concerns"`

	// Recommendations lists suggested-action fragments extracted from the
	// response text, capped at three in first-match order.
	Recommendations []string `json:"recommendations"`

	// CrossReferences names other agent domains the response mentioned.
	CrossReferences []AgentID `json:"cross_references"`

	// NeedsFollowUp is set when the response signals that additional
	// input or research is required.
	NeedsFollowUp bool `json:"needs_follow_up"`
}
