// Package agents implements the specialized advisory agents: persona
// prompt construction, the completion gateway call, and the heuristic
// extraction of structured signals from free-text responses.
package agents

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/formul8/orchestra/internal/domain"
)

// Extraction caps and defaults for free-text signal mining.
const (
	// MaxExtractedItems caps concerns and recommendations per response.
	MaxExtractedItems = 3

	// DefaultConfidence is reported when the response carries no explicit
	// confidence token and no hedging/certainty language.
	DefaultConfidence = 60
)

// Signals are the structured values mined from one free-text agent
// response. Extraction is deterministic: the same text always yields the
// same signals.
type Signals struct {
	// Confidence is the extracted or inferred certainty, 0-100.
	Confidence float64

	// Concerns are risk fragments following concern/risk trigger words,
	// capped at MaxExtractedItems in first-match order.
	Concerns []string

	// Recommendations are action fragments following recommend/suggest/
	// should trigger words, capped at MaxExtractedItems.
	Recommendations []string

	// CrossReferences are other agent domains mentioned in the text.
	CrossReferences []domain.AgentID

	// NeedsFollowUp is set when the text signals that more input or
	// research is required.
	NeedsFollowUp bool
}

// Free-text parsing is inherently fragile, so all patterns live here
// behind one constructor; a future structured-output mode (the model
// returning JSON directly) can replace the Extractor without touching
// orchestration logic.
var (
	concernPattern        = regexp.MustCompile(`(?i)(?:concerns?|risks?):\s*([^.\n]+)`)
	recommendationPattern = regexp.MustCompile(`(?i)(?:recommendations?|recommends?|suggests?|suggestions?|should):\s*([^.\n]+)`)
	confidencePattern     = regexp.MustCompile(`(?i)confidence:\s*(\d{1,3})`)
)

// followUpPhrases flag a response as needing further input when any of
// them appears, case-insensitively.
var followUpPhrases = []string{
	"need more information",
	"further research",
	"consult with",
	"recommend testing",
	"need input from",
	"require additional",
}

// Extractor mines Signals from raw response text. It is stateless and
// safe for concurrent use.
type Extractor struct {
	// self is excluded from cross-reference detection.
	self domain.AgentID

	// known is the set of agent ids scanned for cross-references.
	known []domain.AgentID
}

// NewExtractor creates an Extractor for the given agent. Cross-reference
// detection scans for every known agent except self.
func NewExtractor(self domain.AgentID) *Extractor {
	return &Extractor{self: self, known: domain.AllAgents()}
}

// Extract derives structured signals from the response text.
// Re-running extraction on the same text is idempotent.
func (e *Extractor) Extract(text string) Signals {
	lower := strings.ToLower(text)

	return Signals{
		Confidence:      extractConfidence(text, lower),
		Concerns:        extractFragments(concernPattern, text),
		Recommendations: extractFragments(recommendationPattern, text),
		CrossReferences: e.extractCrossReferences(lower),
		NeedsFollowUp:   containsAny(lower, followUpPhrases),
	}
}

// extractFragments returns up to MaxExtractedItems trimmed capture groups
// in first-match order.
func extractFragments(pattern *regexp.Regexp, text string) []string {
	matches := pattern.FindAllStringSubmatch(text, MaxExtractedItems)
	fragments := make([]string, 0, len(matches))
	for _, m := range matches {
		if fragment := strings.TrimSpace(m[1]); fragment != "" {
			fragments = append(fragments, fragment)
		}
	}
	return fragments
}

// extractConfidence prefers an explicit "confidence: N" token, falling
// back to a heuristic ladder over hedging and certainty language.
func extractConfidence(text, lower string) float64 {
	if m := confidencePattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			return domain.ClampScore(float64(v))
		}
	}

	switch {
	case strings.Contains(lower, "uncertain") || strings.Contains(lower, "unclear"):
		return 40
	case strings.Contains(lower, "likely") || strings.Contains(lower, "probably"):
		return 70
	case strings.Contains(lower, "definitely") || strings.Contains(lower, "certainly"):
		return 90
	}
	return DefaultConfidence
}

// extractCrossReferences returns every other known agent whose id appears
// as a substring of the lower-cased text, in enumeration order.
func (e *Extractor) extractCrossReferences(lower string) []domain.AgentID {
	var refs []domain.AgentID
	for _, id := range e.known {
		if id == e.self {
			continue
		}
		// "customer-success" also matches its spoken form.
		name := strings.ReplaceAll(string(id), "-", " ")
		if strings.Contains(lower, string(id)) || strings.Contains(lower, name) {
			refs = append(refs, id)
		}
	}
	return refs
}

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
