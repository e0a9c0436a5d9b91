// Package orchestrator coordinates multi-agent query answering: routing
// a query to the participating agents, invoking them sequentially so each
// sees earlier opinions, and synthesizing consensus, recommendation, and
// risk from the collected responses.
package orchestrator

import (
	"strings"

	"github.com/formul8/orchestra/internal/domain"
)

// TriggerRule maps a keyword group to the additional agents its presence
// pulls into a session. All matching rules union; a query can trigger
// several groups simultaneously.
type TriggerRule struct {
	// Keywords are matched case-insensitively as substrings of the query.
	Keywords []string

	// Agents are added to the involved set when any keyword matches.
	Agents []domain.AgentID
}

// DefaultTriggerRules is the built-in keyword-trigger table. Order
// matters only for the insertion order of the resulting agent set, which
// fixes the invocation sequence.
var DefaultTriggerRules = []TriggerRule{
	{
		Keywords: []string{"dmso", "permeability", "transdermal"},
		Agents: []domain.AgentID{
			domain.AgentFormulation, domain.AgentScience,
			domain.AgentCompliance, domain.AgentOperations,
		},
	},
	{
		Keywords: []string{"topical", "skin", "dermal"},
		Agents: []domain.AgentID{
			domain.AgentFormulation, domain.AgentScience, domain.AgentCompliance,
		},
	},
	{
		Keywords: []string{"regulatory", "legal", "license", "licensing"},
		Agents:   []domain.AgentID{domain.AgentCompliance},
	},
	{
		Keywords: []string{"terpene", "cannabinoid", "potency"},
		Agents:   []domain.AgentID{domain.AgentFormulation, domain.AgentScience},
	},
	{
		Keywords: []string{"equipment", "facility", "yield", "throughput"},
		Agents:   []domain.AgentID{domain.AgentOperations, domain.AgentSourcing},
	},
	{
		Keywords: []string{"brand", "campaign", "advertis", "market positioning"},
		Agents:   []domain.AgentID{domain.AgentMarketing, domain.AgentCompliance},
	},
	{
		Keywords: []string{"patent", "trademark", "intellectual property"},
		Agents:   []domain.AgentID{domain.AgentPatent},
	},
	{
		Keywords: []string{"supplier", "procurement", "vendor"},
		Agents:   []domain.AgentID{domain.AgentSourcing},
	},
}

// Router decides which agents participate in answering a query using the
// keyword-trigger table. Routing is deterministic for a given query text
// and rule table.
type Router struct {
	rules []TriggerRule

	// maxAgents caps the involved set when positive; the primary agent
	// is always kept and truncation follows insertion order. Zero means
	// unbounded fan-out, which is the reference behavior.
	maxAgents int
}

// NewRouter creates a Router over the given rule table. A nil table
// selects DefaultTriggerRules.
func NewRouter(rules []TriggerRule, maxAgents int) *Router {
	if rules == nil {
		rules = DefaultTriggerRules
	}
	return &Router{rules: rules, maxAgents: maxAgents}
}

// Route returns the full involved-agent set for the query, in insertion
// order: the primary agent first, then trigger-rule agents in table
// order. Matching rules union rather than override, so adding trigger
// keywords to a query never removes agents selected by other keywords.
func (r *Router) Route(query string, primary domain.AgentID) []domain.AgentID {
	lower := strings.ToLower(query)

	ordered := []domain.AgentID{primary}
	seen := map[domain.AgentID]bool{primary: true}

	for _, rule := range r.rules {
		if !matchesAny(lower, rule.Keywords) {
			continue
		}
		for _, agent := range rule.Agents {
			if !seen[agent] {
				seen[agent] = true
				ordered = append(ordered, agent)
			}
		}
	}

	if r.maxAgents > 0 && len(ordered) > r.maxAgents {
		ordered = ordered[:r.maxAgents]
	}
	return ordered
}

func matchesAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
