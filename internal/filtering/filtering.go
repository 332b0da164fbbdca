package filtering

import (
	"context"
	"fmt"
	"maps"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/catalog"
	"github.com/spigell/skillmatch/internal/matching"
	"github.com/spigell/skillmatch/internal/requirements"
)

// Filter represents a single filtering step applied to catalog jobs.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, jobs *catalog.Jobs) (*catalog.Jobs, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger *zap.Logger
	Engine *matching.Engine
	// Skills are the candidate skills every job is scored against.
	Skills requirements.List
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains configuration settings consumed by the filters.
type Config struct {
	Locations     []string
	Levels        []string
	Sizes         []string
	Industries    []string
	MaxExperience float64
	Matching      *MatchingConfig
}

// MatchingConfig stores the scoring settings of the skill_match step.
type MatchingConfig struct {
	Threshold float64
	MinScore  float64
	Workers   int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// resultCollector is implemented by steps that score jobs.
type resultCollector interface {
	Results() map[int]*matching.Result
}

// Default returns the standard pipeline in execution order. Cheap facet
// filters run first so that fewer jobs reach scoring.
func Default() []Filter {
	return []Filter{
		NewLocation(),
		NewRoleLevel(),
		NewSize(),
		NewIndustry(),
		NewExperience(),
		NewSkillMatch(),
	}
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially. It returns the jobs left
// and the match results of every scored job keyed by catalog index,
// including jobs later dropped for a low score.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, jobs *catalog.Jobs) (*catalog.Jobs, map[int]*matching.Result, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	results := make(map[int]*matching.Result)
	for _, step := range steps {
		if !step.IsEnabled() {
			deps.Logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, deps, jobs)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		deps.Logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		jobs = next

		if collector, ok := step.(resultCollector); ok {
			maps.Copy(results, collector.Results())
		}
	}

	return jobs, results, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
