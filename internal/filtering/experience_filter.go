package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/catalog"
)

type experienceFilter struct {
	disabled bool
	reason   string
	maxYears float64
}

// NewExperience creates a filter that removes jobs asking for more years of
// experience than configured. Jobs whose experience does not start with a
// plain number, like "5+ years", are kept.
func NewExperience() Filter {
	return &experienceFilter{}
}

func (f *experienceFilter) Name() string { return "experience" }

func (f *experienceFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *experienceFilter) IsEnabled() bool { return !f.disabled }

func (f *experienceFilter) Validate(cfg *Config) error {
	if cfg == nil {
		f.Disable("no configuration")
		return nil
	}
	if cfg.MaxExperience < 0 {
		return fmt.Errorf("max experience must not be negative, got %v", cfg.MaxExperience)
	}
	f.maxYears = cfg.MaxExperience
	return nil
}

func (f *experienceFilter) Apply(_ context.Context, deps Deps, jobs *catalog.Jobs) (*catalog.Jobs, Step, error) {
	initial := jobs.Len()

	excluded := jobs.Keep(func(job *catalog.Job) bool {
		years, ok := job.ExperienceYears()
		return !ok || years <= f.maxYears
	})
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Debug("excluding jobs by required experience",
			zap.Float64("max_years", f.maxYears),
			zap.Ints("excluded_jobs", excluded),
			zap.Int("jobs_left", jobs.Len()),
		)
	}

	return jobs, Step{Initial: initial, Dropped: len(excluded), Left: jobs.Len()}, nil
}

func (f *experienceFilter) Status() Status {
	details := map[string]string{
		"max_years": strconv.FormatFloat(f.maxYears, 'f', -1, 64),
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
