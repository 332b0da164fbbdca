package filtering

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/skillmatch/internal/catalog"
	"github.com/spigell/skillmatch/internal/matching"
)

type skillMatchFilter struct {
	disabled bool
	reason   string
	config   *MatchingConfig
	workers  int
	results  map[int]*matching.Result
}

// NewSkillMatch creates the step that scores every job against the
// candidate skills and drops jobs below the minimum score.
func NewSkillMatch() Filter {
	return &skillMatchFilter{}
}

func (f *skillMatchFilter) Name() string { return "skill_match" }

func (f *skillMatchFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *skillMatchFilter) IsEnabled() bool { return !f.disabled }

func (f *skillMatchFilter) Validate(cfg *Config) error {
	f.config = nil
	if cfg == nil || cfg.Matching == nil {
		return errors.New("matching configuration is required")
	}

	m := cfg.Matching
	if math.IsNaN(m.Threshold) || m.Threshold < 0 || m.Threshold > 1 {
		return fmt.Errorf("%w: threshold must be within [0, 1], got %v", matching.ErrInvalidArgument, m.Threshold)
	}
	if m.MinScore < 0 || m.MinScore > 100 {
		return fmt.Errorf("minimum score must be within [0, 100], got %v", m.MinScore)
	}

	f.config = m
	f.workers = m.Workers
	if f.workers <= 0 {
		f.workers = runtime.NumCPU()
	}
	return nil
}

func (f *skillMatchFilter) Apply(ctx context.Context, deps Deps, jobs *catalog.Jobs) (*catalog.Jobs, Step, error) {
	initial := jobs.Len()
	if deps.Engine == nil {
		return jobs, Step{}, errors.New("match engine is required")
	}
	if f.config == nil {
		return jobs, Step{}, errors.New("filter is not validated")
	}

	scored, err := f.score(ctx, deps, jobs)
	if err != nil {
		return jobs, Step{}, err
	}

	f.results = make(map[int]*matching.Result, len(scored))
	for i, job := range jobs.Items {
		f.results[job.Index] = scored[i]
	}

	excluded := jobs.Keep(func(job *catalog.Job) bool {
		return f.results[job.Index].Score >= f.config.MinScore
	})
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Debug("excluding jobs below minimum score",
			zap.Float64("min_score", f.config.MinScore),
			zap.Ints("excluded_jobs", excluded),
			zap.Int("jobs_left", jobs.Len()),
		)
	}

	return jobs, Step{Initial: initial, Dropped: len(excluded), Left: jobs.Len()}, nil
}

// score matches jobs concurrently. Results are stored by position so the
// output order never depends on completion order.
func (f *skillMatchFilter) score(ctx context.Context, deps Deps, jobs *catalog.Jobs) ([]*matching.Result, error) {
	scored := make([]*matching.Result, jobs.Len())

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)

	for i, job := range jobs.Items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result, err := deps.Engine.Match(job.Requirements(), deps.Skills, f.config.Threshold)
			if err != nil {
				return fmt.Errorf("scoring job %d: %w", job.Index, err)
			}

			if deps.Logger != nil {
				deps.Logger.Debug("job scored",
					zap.Int("job_index", job.Index),
					zap.String("title", job.Title),
					zap.Float64("score", result.Score),
				)
			}

			scored[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scored, nil
}

// Results returns the match result of every job scored by the last Apply.
func (f *skillMatchFilter) Results() map[int]*matching.Result {
	if f.results == nil {
		return map[int]*matching.Result{}
	}
	return f.results
}

func (f *skillMatchFilter) Status() Status {
	details := map[string]string{}
	if f.config != nil {
		details["threshold"] = strconv.FormatFloat(f.config.Threshold, 'f', 2, 64)
		details["min_score"] = strconv.FormatFloat(f.config.MinScore, 'f', 1, 64)
		details["workers"] = strconv.Itoa(f.workers)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
