package agents

import "github.com/formul8/orchestra/internal/domain"

// Persona is the static prompt configuration for one agent domain.
// Adding a new domain means adding an AgentID variant plus a persona
// entry here; no string matching elsewhere.
type Persona struct {
	// ID is the agent domain this persona belongs to.
	ID domain.AgentID `yaml:"id"`

	// Name is the human-readable role title.
	Name string `yaml:"name"`

	// Expertise describes the role's knowledge area, used verbatim in
	// the system prompt.
	Expertise string `yaml:"expertise"`
}

// builtinPersonas are the default persona descriptions for every agent
// domain. Operators can override them via configuration.
var builtinPersonas = map[domain.AgentID]Persona{
	domain.AgentCompliance: {
		ID:   domain.AgentCompliance,
		Name: "Compliance Expert",
		Expertise: "cannabis regulatory compliance, state and federal licensing " +
			"requirements, packaging and labeling rules, testing mandates, and " +
			"safety protocols for processing facilities",
	},
	domain.AgentFormulation: {
		ID:   domain.AgentFormulation,
		Name: "Formulation Scientist",
		Expertise: "cannabis product formulation, cannabinoid and terpene " +
			"chemistry, excipient selection, emulsification, stability, and " +
			"delivery systems including topicals and transdermals",
	},
	domain.AgentScience: {
		ID:   domain.AgentScience,
		Name: "Research Scientist",
		Expertise: "cannabis research literature, pharmacology, analytical " +
			"chemistry, study design, and evidence quality assessment",
	},
	domain.AgentOperations: {
		ID:   domain.AgentOperations,
		Name: "Operations Specialist",
		Expertise: "cannabis facility operations, extraction and processing " +
			"equipment, workflow design, yield optimization, and quality systems",
	},
	domain.AgentMarketing: {
		ID:   domain.AgentMarketing,
		Name: "Marketing Strategist",
		Expertise: "cannabis brand strategy, compliant marketing channels, " +
			"audience segmentation, and product positioning",
	},
	domain.AgentSourcing: {
		ID:   domain.AgentSourcing,
		Name: "Sourcing Advisor",
		Expertise: "cannabis supply chain, supplier qualification, equipment " +
			"and ingredient procurement, and cost negotiation",
	},
	domain.AgentPatent: {
		ID:   domain.AgentPatent,
		Name: "Patent Analyst",
		Expertise: "cannabis intellectual property, patent landscaping, " +
			"freedom-to-operate analysis, and trademark strategy",
	},
	domain.AgentCustomerSuccess: {
		ID:   domain.AgentCustomerSuccess,
		Name: "Customer Success Manager",
		Expertise: "cannabis customer support workflows, onboarding, retention, " +
			"and escalation handling",
	},
}

// BuiltinPersonas returns a copy of the default persona table.
func BuiltinPersonas() map[domain.AgentID]Persona {
	out := make(map[domain.AgentID]Persona, len(builtinPersonas))
	for id, p := range builtinPersonas {
		out[id] = p
	}
	return out
}
