package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/formul8/orchestra/internal/domain"
	"github.com/formul8/orchestra/internal/ports"
)

var _ ports.SpecializedAgent = (*MockAgent)(nil)
var _ ports.AgentRegistry = (*MockAgentRegistry)(nil)

// MockAgent implements the SpecializedAgent interface with a scripted
// opinion. Answers are recorded for assertion, and an optional delay
// simulates response latency.
type MockAgent struct {
	mu      sync.Mutex
	id      domain.AgentID
	opinion domain.AgentOpinion
	delay   time.Duration
	queries []string
	priors  [][]domain.AgentOpinion
}

// NewMockAgent creates a MockAgent returning a fixed confident opinion.
func NewMockAgent(id domain.AgentID) *MockAgent {
	return &MockAgent{
		id: id,
		opinion: domain.AgentOpinion{
			AgentID:      id,
			ResponseText: "Mock opinion from " + string(id) + ".",
			Confidence:   80,
		},
	}
}

// SetOpinion replaces the scripted opinion. The AgentID field is forced
// to the mock's own id.
func (m *MockAgent) SetOpinion(op domain.AgentOpinion) {
	m.mu.Lock()
	defer m.mu.Unlock()
	op.AgentID = m.id
	m.opinion = op
}

// SetDelay makes each Answer call sleep, for response-time scoring
// tests.
func (m *MockAgent) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// ID returns the mock agent's identifier.
func (m *MockAgent) ID() domain.AgentID { return m.id }

// Answer returns the scripted opinion after the configured delay. The
// query and the prior-opinion context are recorded per call.
func (m *MockAgent) Answer(_ context.Context, query string, priorOpinions []domain.AgentOpinion) domain.AgentOpinion {
	m.mu.Lock()
	opinion := m.opinion
	delay := m.delay
	m.queries = append(m.queries, query)
	prior := make([]domain.AgentOpinion, len(priorOpinions))
	copy(prior, priorOpinions)
	m.priors = append(m.priors, prior)
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	return opinion
}

// Queries returns a copy of all queries answered so far.
func (m *MockAgent) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	queries := make([]string, len(m.queries))
	copy(queries, m.queries)
	return queries
}

// Priors returns the prior-opinion slice each Answer call received, in
// call order.
func (m *MockAgent) Priors() [][]domain.AgentOpinion {
	m.mu.Lock()
	defer m.mu.Unlock()
	priors := make([][]domain.AgentOpinion, len(m.priors))
	copy(priors, m.priors)
	return priors
}

// MockAgentRegistry implements the AgentRegistry interface over a fixed
// set of mock agents.
type MockAgentRegistry struct {
	agents map[domain.AgentID]ports.SpecializedAgent
}

// NewMockAgentRegistry creates a registry holding the given agents.
func NewMockAgentRegistry(agents ...ports.SpecializedAgent) *MockAgentRegistry {
	reg := &MockAgentRegistry{agents: make(map[domain.AgentID]ports.SpecializedAgent, len(agents))}
	for _, a := range agents {
		reg.agents[a.ID()] = a
	}
	return reg
}

// Lookup returns the agent for id, or ErrAgentNotFound.
func (r *MockAgentRegistry) Lookup(id domain.AgentID) (ports.SpecializedAgent, error) {
	agent, ok := r.agents[id]
	if !ok {
		return nil, domain.ErrAgentNotFound
	}
	return agent, nil
}

// IDs returns the registered agent ids in unspecified order.
func (r *MockAgentRegistry) IDs() []domain.AgentID {
	ids := make([]domain.AgentID, 0, len(r.agents))
	for id := range r.agents {
		ids = append(ids, id)
	}
	return ids
}
