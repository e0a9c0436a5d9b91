package agents

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/formul8/orchestra/internal/domain"
	"github.com/formul8/orchestra/internal/ports"
)

var _ ports.AgentRegistry = (*Registry)(nil)

// Registry holds the closed set of constructed agents. It is built once
// at startup and read-only afterwards, so no locking is needed.
type Registry struct {
	agents map[domain.AgentID]ports.SpecializedAgent
}

// NewRegistry constructs one Agent per persona in the table.
func NewRegistry(personas map[domain.AgentID]Persona, gateway ports.CompletionGateway, cfg Config, logger zerolog.Logger) *Registry {
	agents := make(map[domain.AgentID]ports.SpecializedAgent, len(personas))
	for id, persona := range personas {
		agents[id] = New(persona, gateway, cfg, logger)
	}
	return &Registry{agents: agents}
}

// Lookup returns the agent registered for the id.
func (r *Registry) Lookup(id domain.AgentID) (ports.SpecializedAgent, error) {
	agent, ok := r.agents[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAgentNotFound, id)
	}
	return agent, nil
}

// IDs returns the registered agent ids sorted for stable iteration.
func (r *Registry) IDs() []domain.AgentID {
	ids := make([]domain.AgentID, 0, len(r.agents))
	for id := range r.agents {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
