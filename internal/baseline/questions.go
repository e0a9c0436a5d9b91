package baseline

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/formul8/orchestra/internal/domain"
)

var validate = validator.New()

// LoadQuestionFile seeds question sets from a YAML file grouping
// questions under their target agents. Existing sets for the agents in
// the file are replaced.
func (m *Manager) LoadQuestionFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading question file %s: %w", path, err)
	}

	var file struct {
		Questions []domain.BaselineQuestion `yaml:"questions"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return 0, fmt.Errorf("parsing question file %s: %w", path, err)
	}

	byAgent := map[domain.AgentID][]domain.BaselineQuestion{}
	for _, q := range file.Questions {
		if err := validate.Struct(q); err != nil {
			return 0, fmt.Errorf("question %q: %w", q.ID, err)
		}
		if !q.AgentID.Valid() {
			return 0, fmt.Errorf("question %q: %w: %s", q.ID, domain.ErrAgentNotFound, q.AgentID)
		}
		byAgent[q.AgentID] = append(byAgent[q.AgentID], q)
	}

	for agentID, questions := range byAgent {
		if err := m.PutQuestions(ctx, agentID, questions); err != nil {
			return 0, fmt.Errorf("storing questions for %s: %w", agentID, err)
		}
	}
	return len(file.Questions), nil
}
