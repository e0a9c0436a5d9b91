package ports

import (
	"context"

	"github.com/formul8/orchestra/internal/domain"
)

// SpecializedAgent is one domain-scoped advisory role. Implementations
// build a persona prompt, call the completion gateway once, and extract
// structured signals from the free-text response.
//
// Failure semantics: Answer never returns an error for gateway failures.
// A failed invocation yields a well-formed AgentOpinion with confidence
// zero, empty concern and recommendation lists, and the error message
// embedded in ResponseText, so an orchestration session continues to the
// next agent instead of aborting.
type SpecializedAgent interface {
	// ID returns the agent's domain identifier.
	ID() domain.AgentID

	// Answer produces the agent's opinion on the query. priorOpinions
	// are earlier experts' outputs from the same session, in invocation
	// order; when non-empty they are appended to the prompt so the model
	// can react to them. This sequential dependency is why agents within
	// one session are never invoked in parallel.
	Answer(ctx context.Context, query string, priorOpinions []domain.AgentOpinion) domain.AgentOpinion
}

// AgentRegistry resolves agent ids to implementations. The set of agents
// is a closed enumeration; Lookup fails for ids outside it.
type AgentRegistry interface {
	// Lookup returns the agent registered for the id, or
	// domain.ErrAgentNotFound.
	Lookup(id domain.AgentID) (SpecializedAgent, error)

	// IDs returns the registered agent ids in a stable order.
	IDs() []domain.AgentID
}
