package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/formul8/orchestra/internal/domain"
	"github.com/formul8/orchestra/internal/ports"
)

// Synthesis parameters.
const (
	// LowConfidenceThreshold selects which opinions feed the risk
	// assessment: those whose confidence falls below it.
	LowConfidenceThreshold = 70

	// synthesisMaxTokens bounds each synthesis completion.
	synthesisMaxTokens = 1024
)

// Placeholder texts used when a synthesis call fails. The session always
// returns a complete OrchestrationResult.
const (
	noConsensusPlaceholder      = "No consensus generated"
	noRecommendationPlaceholder = "No recommendation generated"
)

// Orchestrator runs multi-agent sessions: it owns the router, the agent
// registry, and the gateway used for synthesis passes. It is safe for
// concurrent use; each Run owns its session state exclusively.
type Orchestrator struct {
	router   *Router
	registry ports.AgentRegistry
	gateway  ports.CompletionGateway
	metrics  ports.MetricsCollector
	logger   zerolog.Logger
}

// New creates an Orchestrator. metrics may be nil to disable recording.
func New(router *Router, registry ports.AgentRegistry, gateway ports.CompletionGateway, metrics ports.MetricsCollector, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		router:   router,
		registry: registry,
		gateway:  gateway,
		metrics:  metrics,
		logger:   logger.With().Str("component", "orchestrator").Logger(),
	}
}

// Run executes one complete session for the query: route, invoke agents
// sequentially (each seeing all prior opinions), then synthesize
// consensus, recommendation, and risk concurrently. It returns an error
// only when the primary agent id is unknown; every other failure
// degrades into the result.
func (o *Orchestrator) Run(ctx context.Context, query domain.Query) (*domain.OrchestrationResult, error) {
	if _, err := o.registry.Lookup(query.PrimaryAgent); err != nil {
		return nil, err
	}

	start := time.Now()
	involved := o.router.Route(query.Text, query.PrimaryAgent)
	o.logger.Info().
		Str("primary", string(query.PrimaryAgent)).
		Int("involved", len(involved)).
		Msg("session started")

	// Agents run strictly sequentially: each invocation's prior-opinion
	// context is every earlier opinion, in order.
	opinions := make([]domain.AgentOpinion, 0, len(involved))
	for _, id := range involved {
		agent, err := o.registry.Lookup(id)
		if err != nil {
			// A trigger rule referenced an unregistered domain; record a
			// failed opinion so the result stays one-per-involved-agent.
			opinions = append(opinions, domain.AgentOpinion{
				AgentID:         id,
				ResponseText:    fmt.Sprintf("Error generating response: %v", err),
				Failed:          true,
				Concerns:        []string{},
				Recommendations: []string{},
				CrossReferences: []domain.AgentID{},
				NeedsFollowUp:   true,
			})
			continue
		}
		opinions = append(opinions, agent.Answer(ctx, query.Text, opinions))
	}

	// The three synthesis passes depend only on the completed opinion
	// list and run concurrently.
	var (
		consensus      string
		recommendation string
		risk           domain.RiskLevel
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		consensus = o.synthesizeConsensus(gctx, query, opinions)
		return nil
	})
	g.Go(func() error {
		recommendation = o.synthesizeRecommendation(gctx, query, opinions)
		return nil
	})
	g.Go(func() error {
		risk = o.assessRisk(gctx, opinions)
		return nil
	})
	// Synthesis closures never return errors; Wait only joins them.
	_ = g.Wait()

	result := &domain.OrchestrationResult{
		ID:                      uuid.NewString(),
		Query:                   query,
		InvolvedAgents:          involved,
		Opinions:                opinions,
		ConsensusText:           consensus,
		FinalRecommendationText: recommendation,
		RiskLevel:               risk,
		CreatedAt:               time.Now().UTC(),
	}

	if o.metrics != nil {
		o.metrics.RecordLatency("orchestration_session", time.Since(start),
			map[string]string{"primary_agent": string(query.PrimaryAgent)})
		o.metrics.RecordHistogram("orchestration_agents_involved", float64(len(involved)), nil)
	}
	o.logger.Info().
		Dur("elapsed", time.Since(start)).
		Str("risk", string(risk)).
		Msg("session completed")

	return result, nil
}

// synthesizeConsensus asks the gateway to reconcile all opinions into a
// unified summary, surfacing agreement and noting conflicts.
func (o *Orchestrator) synthesizeConsensus(ctx context.Context, query domain.Query, opinions []domain.AgentOpinion) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\nExpert opinions:\n", query.Text)
	for _, op := range opinions {
		fmt.Fprintf(&b, "\n%s (confidence %.0f): %s\n", op.AgentID, op.Confidence, op.ResponseText)
	}

	text, err := o.synthesize(ctx, "consensus",
		"You synthesize expert panel discussions. Surface points of agreement, "+
			"note conflicts between experts explicitly, and produce a unified summary.",
		b.String())
	if err != nil {
		return noConsensusPlaceholder
	}
	return text
}

// synthesizeRecommendation asks the gateway for an actionable next-steps
// answer, fed the consensus inputs plus the union of all concerns and
// recommendations.
func (o *Orchestrator) synthesizeRecommendation(ctx context.Context, query domain.Query, opinions []domain.AgentOpinion) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", query.Text)

	b.WriteString("\nAll concerns raised:\n")
	for _, c := range collectConcerns(opinions) {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	b.WriteString("\nAll recommendations raised:\n")
	for _, op := range opinions {
		for _, rec := range op.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
	}
	b.WriteString("\nExpert responses:\n")
	for _, op := range opinions {
		fmt.Fprintf(&b, "\n%s: %s\n", op.AgentID, op.ResponseText)
	}

	text, err := o.synthesize(ctx, "recommendation",
		"You produce final recommendations from expert panel input. Give an "+
			"actionable next-steps answer and include an explicit risk level "+
			"token: LOW, MEDIUM, or HIGH.",
		b.String())
	if err != nil {
		return noRecommendationPlaceholder
	}
	return text
}

// assessRisk classifies the session LOW/MEDIUM/HIGH from the concern
// list and the low-confidence opinions. Failure degrades to MEDIUM, the
// conservative middle ground.
func (o *Orchestrator) assessRisk(ctx context.Context, opinions []domain.AgentOpinion) domain.RiskLevel {
	var b strings.Builder
	b.WriteString("Concerns raised by the expert panel:\n")
	concerns := collectConcerns(opinions)
	if len(concerns) == 0 {
		b.WriteString("(none)\n")
	}
	for _, c := range concerns {
		fmt.Fprintf(&b, "- %s\n", c)
	}

	b.WriteString("\nLow-confidence expert opinions:\n")
	for _, op := range opinions {
		if op.Confidence < LowConfidenceThreshold {
			fmt.Fprintf(&b, "\n%s (confidence %.0f): %s\n", op.AgentID, op.Confidence, op.ResponseText)
		}
	}

	text, err := o.synthesize(ctx, "risk",
		"You are a risk assessor. Classify the overall risk as exactly one of "+
			"LOW, MEDIUM, or HIGH, then add brief mitigation notes.",
		b.String())
	if err != nil {
		return domain.RiskMedium
	}
	return parseRiskLevel(text)
}

func (o *Orchestrator) synthesize(ctx context.Context, pass, system, user string) (string, error) {
	completion, err := o.gateway.Complete(ctx, ports.CompletionRequest{
		SystemPrompt: system,
		UserPrompt:   user,
		MaxTokens:    synthesisMaxTokens,
		Temperature:  0.2,
	})
	if err != nil || strings.TrimSpace(completion.Text) == "" {
		if err == nil {
			err = ports.ErrInvalidResponse
		}
		o.logger.Warn().Err(err).Str("pass", pass).Msg("synthesis failed")
		if o.metrics != nil {
			o.metrics.RecordCounter("synthesis_failures", 1, map[string]string{"pass": pass})
		}
		return "", err
	}
	return completion.Text, nil
}

// parseRiskLevel extracts the risk token from synthesis output. HIGH
// wins over MEDIUM over LOW when several appear; an output with no token
// reads as MEDIUM.
func parseRiskLevel(text string) domain.RiskLevel {
	upper := strings.ToUpper(text)
	switch {
	case strings.Contains(upper, string(domain.RiskHigh)):
		return domain.RiskHigh
	case strings.Contains(upper, string(domain.RiskMedium)):
		return domain.RiskMedium
	case strings.Contains(upper, string(domain.RiskLow)):
		return domain.RiskLow
	}
	return domain.RiskMedium
}

// collectConcerns unions every opinion's concerns in invocation order,
// dropping duplicates.
func collectConcerns(opinions []domain.AgentOpinion) []string {
	var all []string
	seen := map[string]bool{}
	for _, op := range opinions {
		for _, c := range op.Concerns {
			if !seen[c] {
				seen[c] = true
				all = append(all, c)
			}
		}
	}
	return all
}
