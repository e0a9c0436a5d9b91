package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/formul8/orchestra/internal/domain"
	"github.com/formul8/orchestra/internal/ports"
)

// Default sampling parameters for agent completions.
const (
	DefaultAgentMaxTokens   = 1024
	DefaultAgentTemperature = 0.3
)

var _ ports.SpecializedAgent = (*Agent)(nil)

// Agent is the gateway-backed implementation of one specialized advisory
// role. It is stateless between calls and safe for concurrent use,
// though within one orchestration session invocations are sequential so
// later agents see earlier opinions.
type Agent struct {
	persona     Persona
	gateway     ports.CompletionGateway
	extractor   *Extractor
	maxTokens   int
	temperature float64
	logger      zerolog.Logger
}

// Config carries the tunable parameters for agent construction.
type Config struct {
	// MaxTokens bounds each completion. Zero selects
	// DefaultAgentMaxTokens.
	MaxTokens int

	// Temperature controls sampling randomness. Zero selects
	// DefaultAgentTemperature; pass a negative value for a literal zero.
	Temperature float64
}

// New creates an Agent for the persona backed by the given gateway.
func New(persona Persona, gateway ports.CompletionGateway, cfg Config, logger zerolog.Logger) *Agent {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultAgentMaxTokens
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = DefaultAgentTemperature
	} else if temperature < 0 {
		temperature = 0
	}

	return &Agent{
		persona:     persona,
		gateway:     gateway,
		extractor:   NewExtractor(persona.ID),
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger.With().Str("agent", string(persona.ID)).Logger(),
	}
}

// ID returns the agent's domain identifier.
func (a *Agent) ID() domain.AgentID { return a.persona.ID }

// Answer produces the agent's opinion on the query, feeding prior
// opinions into the prompt so the model can react to earlier experts.
// Gateway failures never surface as errors; they yield a zero-confidence
// opinion carrying the error message.
func (a *Agent) Answer(ctx context.Context, query string, priorOpinions []domain.AgentOpinion) domain.AgentOpinion {
	completion, err := a.gateway.Complete(ctx, ports.CompletionRequest{
		SystemPrompt: a.systemPrompt(),
		UserPrompt:   a.userPrompt(query, priorOpinions),
		MaxTokens:    a.maxTokens,
		Temperature:  a.temperature,
	})
	if err != nil || strings.TrimSpace(completion.Text) == "" {
		if err == nil {
			err = ports.ErrInvalidResponse
		}
		a.logger.Warn().Err(err).Msg("agent completion failed")
		return a.failedOpinion(err)
	}

	signals := a.extractor.Extract(completion.Text)
	a.logger.Debug().
		Float64("confidence", signals.Confidence).
		Int("concerns", len(signals.Concerns)).
		Int("recommendations", len(signals.Recommendations)).
		Msg("agent answered")

	return domain.AgentOpinion{
		AgentID:         a.persona.ID,
		ResponseText:    completion.Text,
		Confidence:      signals.Confidence,
		Concerns:        signals.Concerns,
		Recommendations: signals.Recommendations,
		CrossReferences: signals.CrossReferences,
		NeedsFollowUp:   signals.NeedsFollowUp,
	}
}

// systemPrompt frames the model as this agent's persona.
func (a *Agent) systemPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the %s for a cannabis industry advisory platform. ", a.persona.Name)
	fmt.Fprintf(&b, "Your expertise covers %s. ", a.persona.Expertise)
	b.WriteString("Answer the user's question from your domain perspective. ")
	b.WriteString("State concerns as 'Concerns: ...' and recommendations as 'Recommendations: ...'. ")
	b.WriteString("Include an explicit 'Confidence: <0-100>' assessment of your answer.")
	return b.String()
}

// userPrompt appends prior experts' responses verbatim so the model can
// agree with, refine, or dispute them.
func (a *Agent) userPrompt(query string, priorOpinions []domain.AgentOpinion) string {
	if len(priorOpinions) == 0 {
		return query
	}

	var b strings.Builder
	b.WriteString(query)
	b.WriteString("\n\nEarlier expert opinions on this question:\n")
	for _, op := range priorOpinions {
		fmt.Fprintf(&b, "\n%s: %s\n", op.AgentID, op.ResponseText)
	}
	b.WriteString("\nConsider these opinions in your answer; note where you agree or disagree.")
	return b.String()
}

// failedOpinion is the degraded, well-formed result for a gateway
// failure: confidence zero and the error embedded in the response text.
func (a *Agent) failedOpinion(err error) domain.AgentOpinion {
	return domain.AgentOpinion{
		AgentID:         a.persona.ID,
		ResponseText:    fmt.Sprintf("Error generating response: %v", err),
		Confidence:      0,
		Failed:          true,
		Concerns:        []string{},
		Recommendations: []string{},
		CrossReferences: []domain.AgentID{},
		NeedsFollowUp:   true,
	}
}
