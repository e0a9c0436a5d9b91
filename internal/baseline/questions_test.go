package baseline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formul8/orchestra/infrastructure/storage"
	"github.com/formul8/orchestra/internal/domain"
	"github.com/formul8/orchestra/internal/testutils"
)

func writeQuestionFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadQuestionFileGroupsByAgent(t *testing.T) {
	manager := NewManager(
		storage.NewMemoryStore(),
		testutils.NewMockAgentRegistry(),
		testutils.NewMockGateway("mock-model"),
		zerolog.Nop(),
	)
	ctx := context.Background()

	path := writeQuestionFile(t, `questions:
  - id: q-1
    agent_id: compliance
    question: "What is the federal THC limit?"
    expected_answer: "0.3 percent delta-9 THC dry weight"
    keywords: ["0.3", "dry weight"]
  - id: q-2
    agent_id: science
    question: "At what temperature does THCA decarboxylate?"
    expected_answer: "around 110 celsius"
  - id: q-3
    agent_id: compliance
    question: "Who issues cultivation licenses?"
    expected_answer: "the state cannabis control board"
`)

	n, err := manager.LoadQuestionFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	compliance, err := manager.Questions(ctx, domain.AgentCompliance)
	require.NoError(t, err)
	assert.Len(t, compliance, 2)

	science, err := manager.Questions(ctx, domain.AgentScience)
	require.NoError(t, err)
	assert.Len(t, science, 1)
}

func TestLoadQuestionFileRejectsInvalid(t *testing.T) {
	manager := NewManager(
		storage.NewMemoryStore(),
		testutils.NewMockAgentRegistry(),
		testutils.NewMockGateway("mock-model"),
		zerolog.Nop(),
	)
	ctx := context.Background()

	// Unknown agent domain.
	path := writeQuestionFile(t, `questions:
  - id: q-1
    agent_id: astrology
    question: "Will it pass testing?"
    expected_answer: "yes"
`)
	_, err := manager.LoadQuestionFile(ctx, path)
	assert.ErrorIs(t, err, domain.ErrAgentNotFound)

	// Missing required field.
	path = writeQuestionFile(t, `questions:
  - id: q-1
    agent_id: compliance
    question: "What is the limit?"
`)
	_, err = manager.LoadQuestionFile(ctx, path)
	assert.ErrorContains(t, err, "q-1")

	_, err = manager.LoadQuestionFile(ctx, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
