package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcherTypeValid(t *testing.T) {
	for _, m := range []MatcherType{MatchExact, MatchContains, MatchRegex, MatchFuzzy, MatchSemantic, MatchCustom} {
		assert.True(t, m.Valid(), "matcher %q should be valid", m)
	}
	assert.False(t, MatcherType("approximate").Valid())
	assert.False(t, MatcherType("").Valid())
}

func TestConfidenceRangeContains(t *testing.T) {
	r := ConfidenceRange{Min: 60, Max: 90}

	assert.True(t, r.Contains(60))
	assert.True(t, r.Contains(75))
	assert.True(t, r.Contains(90))
	assert.False(t, r.Contains(59.9))
	assert.False(t, r.Contains(90.1))
}

func TestBenchmarkDefinitionAppliesTo(t *testing.T) {
	tests := []struct {
		name       string
		applicable []string
		agent      AgentID
		want       bool
	}{
		{name: "explicit match", applicable: []string{"compliance", "science"}, agent: AgentScience, want: true},
		{name: "explicit miss", applicable: []string{"compliance"}, agent: AgentMarketing, want: false},
		{name: "all sentinel matches any agent", applicable: []string{ApplicableToAll}, agent: AgentPatent, want: true},
		{name: "empty list matches nothing", applicable: nil, agent: AgentCompliance, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := BenchmarkDefinition{ApplicableAgents: tt.applicable}
			assert.Equal(t, tt.want, def.AppliesTo(tt.agent))
		})
	}
}

func TestBenchmarkDefinitionFindTestCase(t *testing.T) {
	def := BenchmarkDefinition{
		TestCases: []TestCase{{ID: "tc-1"}, {ID: "tc-2"}},
	}

	found := def.FindTestCase("tc-2")
	require.NotNil(t, found)
	assert.Equal(t, "tc-2", found.ID)

	assert.Nil(t, def.FindTestCase("tc-missing"))
}

func TestDefaultScoringWeights(t *testing.T) {
	w := DefaultScoringWeights()

	assert.Equal(t, 0.4, w.Accuracy)
	assert.Equal(t, 0.2, w.ResponseTime)
	assert.Equal(t, 0.2, w.Confidence)
	assert.Equal(t, 0.1, w.Safety)
	assert.Equal(t, 0.1, w.Compliance)
}

func TestAgentIDValid(t *testing.T) {
	for _, id := range AllAgents() {
		assert.True(t, id.Valid(), "agent %q should be valid", id)
	}
	assert.False(t, AgentID("astrology").Valid())
	assert.False(t, AgentID("").Valid())
}

func TestTimeframeWindow(t *testing.T) {
	assert.Equal(t, TimeframeWeek.Window(), Timeframe("unknown").Window(),
		"unknown timeframe should default to a week")
	assert.Less(t, TimeframeDay.Window(), TimeframeWeek.Window())
	assert.Less(t, TimeframeWeek.Window(), TimeframeMonth.Window())
	assert.Less(t, TimeframeMonth.Window(), TimeframeQuarter.Window())
}
