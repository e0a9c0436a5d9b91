// Package benchmark implements the benchmark catalog, the runner that
// scores agents against test suites, and the analytics that track
// quality over time.
package benchmark

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/formul8/orchestra/internal/domain"
	"github.com/formul8/orchestra/internal/ports"
)

// Storage collections used by the benchmark subsystem.
const (
	collDefinitions = "benchmark_definitions"
	collResults     = "benchmark_results"
)

// Registry is the catalog of benchmark definitions, persisted through
// the document store. Definitions are mutable; deleting one cascades
// deletion of its stored results.
type Registry struct {
	store    ports.DocumentStore
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewRegistry creates a Registry over the given store.
func NewRegistry(store ports.DocumentStore, logger zerolog.Logger) *Registry {
	return &Registry{
		store:    store,
		validate: validator.New(),
		logger:   logger.With().Str("component", "benchmark_registry").Logger(),
	}
}

// Create validates and stores a new definition. Missing weights fall
// back to the default blend; a missing schedule reads as manual.
func (r *Registry) Create(ctx context.Context, def domain.BenchmarkDefinition) error {
	normalizeDefinition(&def)
	if err := r.validateDefinition(&def); err != nil {
		return err
	}
	if err := r.store.Put(ctx, collDefinitions, def.ID, def); err != nil {
		return fmt.Errorf("storing definition %s: %w", def.ID, err)
	}
	r.logger.Info().Str("benchmark", def.ID).Int("test_cases", len(def.TestCases)).Msg("definition created")
	return nil
}

// Get loads a definition by id, returning domain.ErrBenchmarkNotFound
// for unknown ids.
func (r *Registry) Get(ctx context.Context, id string) (*domain.BenchmarkDefinition, error) {
	var def domain.BenchmarkDefinition
	err := r.store.Get(ctx, collDefinitions, id, &def)
	if errors.Is(err, ports.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrBenchmarkNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading definition %s: %w", id, err)
	}
	return &def, nil
}

// Update replaces an existing definition after validation.
func (r *Registry) Update(ctx context.Context, def domain.BenchmarkDefinition) error {
	if _, err := r.Get(ctx, def.ID); err != nil {
		return err
	}
	normalizeDefinition(&def)
	if err := r.validateDefinition(&def); err != nil {
		return err
	}
	return r.store.Put(ctx, collDefinitions, def.ID, def)
}

// Delete removes a definition and cascades deletion of its results.
func (r *Registry) Delete(ctx context.Context, id string) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	if err := r.store.Delete(ctx, collDefinitions, id); err != nil {
		return fmt.Errorf("deleting definition %s: %w", id, err)
	}
	if err := r.store.Delete(ctx, collResults, id); err != nil {
		return fmt.Errorf("deleting results for %s: %w", id, err)
	}
	r.logger.Info().Str("benchmark", id).Msg("definition and results deleted")
	return nil
}

// List returns every stored definition. Corrupted entries are skipped so
// a single bad document does not blank the whole catalog.
func (r *Registry) List(ctx context.Context) ([]domain.BenchmarkDefinition, error) {
	keys, err := r.store.ListKeys(ctx, collDefinitions)
	if err != nil {
		return nil, fmt.Errorf("listing definitions: %w", err)
	}

	defs := make([]domain.BenchmarkDefinition, 0, len(keys))
	for _, key := range keys {
		var def domain.BenchmarkDefinition
		if err := r.store.Get(ctx, collDefinitions, key, &def); err != nil {
			r.logger.Warn().Err(err).Str("benchmark", key).Msg("skipping unreadable definition")
			continue
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// AddTestCase appends a test case to a definition, enforcing id
// uniqueness within the parent.
func (r *Registry) AddTestCase(ctx context.Context, benchmarkID string, tc domain.TestCase) error {
	def, err := r.Get(ctx, benchmarkID)
	if err != nil {
		return err
	}
	if def.FindTestCase(tc.ID) != nil {
		return fmt.Errorf("%w: duplicate test case id %q", domain.ErrInvalidDefinition, tc.ID)
	}
	def.TestCases = append(def.TestCases, tc)
	return r.Update(ctx, *def)
}

// UpdateTestCase replaces a test case in place.
func (r *Registry) UpdateTestCase(ctx context.Context, benchmarkID string, tc domain.TestCase) error {
	def, err := r.Get(ctx, benchmarkID)
	if err != nil {
		return err
	}
	for i := range def.TestCases {
		if def.TestCases[i].ID == tc.ID {
			def.TestCases[i] = tc
			return r.Update(ctx, *def)
		}
	}
	return fmt.Errorf("%w: %s in benchmark %s", domain.ErrTestCaseNotFound, tc.ID, benchmarkID)
}

// RemoveTestCase deletes a test case from a definition.
func (r *Registry) RemoveTestCase(ctx context.Context, benchmarkID, testCaseID string) error {
	def, err := r.Get(ctx, benchmarkID)
	if err != nil {
		return err
	}
	for i := range def.TestCases {
		if def.TestCases[i].ID == testCaseID {
			def.TestCases = append(def.TestCases[:i], def.TestCases[i+1:]...)
			return r.Update(ctx, *def)
		}
	}
	return fmt.Errorf("%w: %s in benchmark %s", domain.ErrTestCaseNotFound, testCaseID, benchmarkID)
}

// LoadCatalog seeds the registry from a YAML file holding a list of
// definitions. Existing ids are overwritten; this is how operator-managed
// suites ship with a deployment.
func (r *Registry) LoadCatalog(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var catalog struct {
		Benchmarks []domain.BenchmarkDefinition `yaml:"benchmarks"`
	}
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return 0, fmt.Errorf("parsing catalog %s: %w", path, err)
	}

	for _, def := range catalog.Benchmarks {
		if err := r.Create(ctx, def); err != nil {
			return 0, fmt.Errorf("catalog entry %s: %w", def.ID, err)
		}
	}
	return len(catalog.Benchmarks), nil
}

// validateDefinition combines struct-tag validation with the invariants
// tags cannot express: unique test case ids, known matcher types, sane
// confidence bands, and known applicable-agent entries.
func (r *Registry) validateDefinition(def *domain.BenchmarkDefinition) error {
	if err := r.validate.Struct(def); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidDefinition, err)
	}

	seen := make(map[string]bool, len(def.TestCases))
	for _, tc := range def.TestCases {
		if seen[tc.ID] {
			return fmt.Errorf("%w: duplicate test case id %q", domain.ErrInvalidDefinition, tc.ID)
		}
		seen[tc.ID] = true

		if !tc.Matcher.Valid() {
			return fmt.Errorf("%w: unknown matcher %q in test case %q", domain.ErrInvalidDefinition, tc.Matcher, tc.ID)
		}
		if tc.ExpectedConfidence.Min > tc.ExpectedConfidence.Max {
			return fmt.Errorf("%w: inverted confidence range in test case %q", domain.ErrInvalidDefinition, tc.ID)
		}
	}

	for _, a := range def.ApplicableAgents {
		if a != domain.ApplicableToAll && !domain.AgentID(a).Valid() {
			return fmt.Errorf("%w: unknown applicable agent %q", domain.ErrInvalidDefinition, a)
		}
	}
	return nil
}

// normalizeDefinition fills defaults for omitted fields.
func normalizeDefinition(def *domain.BenchmarkDefinition) {
	if def.Weights == (domain.ScoringWeights{}) {
		def.Weights = domain.DefaultScoringWeights()
	}
	if def.Schedule == "" {
		def.Schedule = domain.ScheduleManual
	}
	for i := range def.TestCases {
		if def.TestCases[i].Weight == 0 {
			def.TestCases[i].Weight = 1
		}
	}
}
