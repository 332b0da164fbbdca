// Package ranking orders scored jobs and summarises a matching run.
package ranking

import (
	"cmp"
	"slices"

	"github.com/spigell/skillmatch/internal/catalog"
	"github.com/spigell/skillmatch/internal/matching"
)

// JobMatch pairs a catalog job with its match result.
type JobMatch struct {
	Job    *catalog.Job     `json:"job"`
	Result *matching.Result `json:"result"`
}

// Rank returns the jobs that have a result ordered by score, highest first.
// Equal scores keep catalog order.
func Rank(jobs *catalog.Jobs, results map[int]*matching.Result) []JobMatch {
	ranked := make([]JobMatch, 0, jobs.Len())
	for _, job := range jobs.Items {
		result, ok := results[job.Index]
		if !ok || result == nil {
			continue
		}
		ranked = append(ranked, JobMatch{Job: job, Result: result})
	}

	slices.SortStableFunc(ranked, func(a, b JobMatch) int {
		if c := cmp.Compare(b.Result.Score, a.Result.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Job.Index, b.Job.Index)
	})
	return ranked
}

// Top returns at most limit matches. A non-positive limit returns all of them.
func Top(matches []JobMatch, limit int) []JobMatch {
	if limit <= 0 || len(matches) <= limit {
		return matches
	}
	return matches[:limit]
}
