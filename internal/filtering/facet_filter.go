package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/catalog"
)

const noValuesReason = "no values configured"

// facetFilter keeps jobs whose column value is one of the configured values.
type facetFilter struct {
	name     string
	field    string
	selector func(*Config) []string

	disabled bool
	reason   string
	allowed  []string
}

// NewLocation creates a filter that keeps jobs in the configured locations.
func NewLocation() Filter {
	return &facetFilter{name: "location", field: catalog.JobLocationField, selector: func(c *Config) []string { return c.Locations }}
}

// NewRoleLevel creates a filter that keeps jobs of the configured role levels.
func NewRoleLevel() Filter {
	return &facetFilter{name: "role_level", field: catalog.JobRoleLevelField, selector: func(c *Config) []string { return c.Levels }}
}

// NewSize creates a filter that keeps jobs at companies of the configured sizes.
func NewSize() Filter {
	return &facetFilter{name: "size", field: catalog.JobSizeField, selector: func(c *Config) []string { return c.Sizes }}
}

// NewIndustry creates a filter that keeps jobs in the configured industries.
func NewIndustry() Filter {
	return &facetFilter{name: "industry", field: catalog.JobIndustryField, selector: func(c *Config) []string { return c.Industries }}
}

func (f *facetFilter) Name() string { return f.name }

func (f *facetFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *facetFilter) IsEnabled() bool { return !f.disabled }

func (f *facetFilter) Validate(cfg *Config) error {
	f.allowed = nil
	if cfg != nil {
		for _, value := range f.selector(cfg) {
			if value = strings.TrimSpace(value); value != "" {
				f.allowed = append(f.allowed, value)
			}
		}
	}
	if len(f.allowed) == 0 {
		f.Disable(noValuesReason)
	}
	return nil
}

func (f *facetFilter) Apply(_ context.Context, deps Deps, jobs *catalog.Jobs) (*catalog.Jobs, Step, error) {
	initial := jobs.Len()
	if len(f.allowed) == 0 {
		return jobs, Step{Initial: initial, Dropped: 0, Left: jobs.Len()}, nil
	}

	excluded := jobs.ExcludeNotIn(f.field, f.allowed)
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Debug("excluding jobs by "+f.name,
			zap.Strings("allowed", f.allowed),
			zap.Ints("excluded_jobs", excluded),
			zap.Int("jobs_left", jobs.Len()),
		)
	}

	return jobs, Step{Initial: initial, Dropped: len(excluded), Left: jobs.Len()}, nil
}

func (f *facetFilter) Status() Status {
	details := map[string]string{}
	if len(f.allowed) > 0 {
		details["allowed"] = strings.Join(f.allowed, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
