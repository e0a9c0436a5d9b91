// Package baseline implements the lightweight agent health check: a
// fixed question set per agent, one agent call per question, and two
// independent LLM-judged scores plus keyword coverage per answer. It is
// deliberately simpler than the benchmark subsystem.
package baseline

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/formul8/orchestra/internal/domain"
	"github.com/formul8/orchestra/internal/ports"
)

// Storage collections used by the baseline subsystem.
const (
	collQuestions = "baseline_questions"
	collResults   = "baseline_results"
)

// resultRetention caps stored baseline results per agent.
const resultRetention = 200

// Manager loads fixed question sets, runs them against agents, and
// records judged results.
type Manager struct {
	store   ports.DocumentStore
	agents  ports.AgentRegistry
	gateway ports.CompletionGateway
	logger  zerolog.Logger
}

// NewManager creates a Manager.
func NewManager(store ports.DocumentStore, agents ports.AgentRegistry, gateway ports.CompletionGateway, logger zerolog.Logger) *Manager {
	return &Manager{
		store:   store,
		agents:  agents,
		gateway: gateway,
		logger:  logger.With().Str("component", "baseline_manager").Logger(),
	}
}

// Questions returns the agent's stored question set. Corrupted or
// missing data reads as an empty set so dashboards render a zero state.
func (m *Manager) Questions(ctx context.Context, agentID domain.AgentID) ([]domain.BaselineQuestion, error) {
	if !agentID.Valid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrAgentNotFound, agentID)
	}
	var questions []domain.BaselineQuestion
	if err := m.store.Get(ctx, collQuestions, string(agentID), &questions); err != nil {
		m.logger.Warn().Err(err).Str("agent", string(agentID)).Msg("no readable question set")
		return nil, nil
	}
	return questions, nil
}

// PutQuestions replaces the agent's question set.
func (m *Manager) PutQuestions(ctx context.Context, agentID domain.AgentID, questions []domain.BaselineQuestion) error {
	if !agentID.Valid() {
		return fmt.Errorf("%w: %s", domain.ErrAgentNotFound, agentID)
	}
	return m.store.Put(ctx, collQuestions, string(agentID), questions)
}

// Run executes the agent's question set, or a single question when
// questionID is non-empty. Unknown agent and question ids are hard
// errors; a per-question failure yields a zero-scored result with the
// error embedded in AgentResponse rather than aborting the run.
func (m *Manager) Run(ctx context.Context, agentID domain.AgentID, questionID string) ([]domain.BaselineResult, error) {
	agent, err := m.agents.Lookup(agentID)
	if err != nil {
		return nil, err
	}

	questions, err := m.Questions(ctx, agentID)
	if err != nil {
		return nil, err
	}

	if questionID != "" {
		found := false
		for _, q := range questions {
			if q.ID == questionID {
				questions = []domain.BaselineQuestion{q}
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s for agent %s", domain.ErrQuestionNotFound, questionID, agentID)
		}
	}

	results := make([]domain.BaselineResult, 0, len(questions))
	for _, q := range questions {
		result := m.runQuestion(ctx, agent, q)
		if err := m.store.AppendToList(ctx, collResults, string(agentID), result, resultRetention); err != nil {
			m.logger.Error().Err(err).Str("question", q.ID).Msg("failed to persist baseline result")
		}
		results = append(results, result)
	}

	m.logger.Info().Str("agent", string(agentID)).Int("questions", len(results)).Msg("baseline run completed")
	return results, nil
}

// Results returns the agent's stored baseline results, oldest first.
func (m *Manager) Results(ctx context.Context, agentID domain.AgentID) ([]domain.BaselineResult, error) {
	if !agentID.Valid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrAgentNotFound, agentID)
	}
	var results []domain.BaselineResult
	if err := m.store.GetList(ctx, collResults, string(agentID), &results); err != nil {
		m.logger.Warn().Err(err).Str("agent", string(agentID)).Msg("unreadable baseline history")
		return nil, nil
	}
	return results, nil
}

// runQuestion answers one question and judges the answer. The two judge
// calls are independent: one scores accuracy against the expected
// answer, the other scores confidence from the response text alone.
func (m *Manager) runQuestion(ctx context.Context, agent ports.SpecializedAgent, q domain.BaselineQuestion) domain.BaselineResult {
	result := domain.BaselineResult{
		ID:              uuid.NewString(),
		QuestionID:      q.ID,
		AgentID:         q.AgentID,
		KeywordsMatched: []string{},
		RunAt:           time.Now().UTC(),
	}

	opinion := agent.Answer(ctx, q.Question, nil)
	result.AgentResponse = opinion.ResponseText
	if opinion.Failed {
		// Agent-level failure: record the zero-scored result as-is.
		return result
	}

	result.KeywordsMatched = MatchKeywords(opinion.ResponseText, q.Keywords)

	accuracy, err := m.judgeAccuracy(ctx, q, opinion.ResponseText)
	if err != nil {
		m.logger.Warn().Err(err).Str("question", q.ID).Msg("accuracy judge failed")
		accuracy = 0
	}
	result.AccuracyScore = accuracy

	confidence, err := m.judgeConfidence(ctx, opinion.ResponseText)
	if err != nil {
		m.logger.Warn().Err(err).Str("question", q.ID).Msg("confidence judge failed")
		confidence = 0
	}
	result.ConfidenceScore = confidence

	return result
}

// judgeAccuracy asks the gateway strictly for a 0-100 accuracy score
// comparing the response to the expected answer and keyword coverage.
func (m *Manager) judgeAccuracy(ctx context.Context, q domain.BaselineQuestion, response string) (float64, error) {
	user := fmt.Sprintf(
		"Question: %s\n\nExpected answer: %s\n\nKey terms a good answer mentions: %s\n\nActual answer: %s",
		q.Question, q.ExpectedAnswer, strings.Join(q.Keywords, ", "), response)

	return m.judgeScore(ctx,
		"You grade answers for factual accuracy against an expected answer, "+
			"considering coverage of the key terms. Reply with only an integer "+
			"from 0 to 100.",
		user)
}

// judgeConfidence asks the gateway strictly for a 0-100 certainty score
// derived from hedging language and specificity in the response text
// itself, independent of the agent's self-reported confidence.
func (m *Manager) judgeConfidence(ctx context.Context, response string) (float64, error) {
	return m.judgeScore(ctx,
		"You assess how confident a written answer sounds. Penalize hedging "+
			"language and vagueness; reward specificity. Reply with only an "+
			"integer from 0 to 100.",
		"Answer to assess:\n\n"+response)
}

var scorePattern = regexp.MustCompile(`\d{1,3}`)

func (m *Manager) judgeScore(ctx context.Context, system, user string) (float64, error) {
	completion, err := m.gateway.Complete(ctx, ports.CompletionRequest{
		SystemPrompt: system,
		UserPrompt:   user,
		MaxTokens:    16,
		Temperature:  0,
	})
	if err != nil {
		return 0, err
	}

	match := scorePattern.FindString(completion.Text)
	if match == "" {
		return 0, fmt.Errorf("%w: judge returned no score: %q", ports.ErrInvalidResponse, completion.Text)
	}
	score, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, err
	}
	return domain.ClampScore(score), nil
}

// MatchKeywords returns the subset of keywords present in the response
// as case-insensitive substrings, in keyword order. Extraction is pure:
// re-running it on the same response is idempotent.
func MatchKeywords(response string, keywords []string) []string {
	lower := strings.ToLower(response)
	matched := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}
