package ranking

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spigell/skillmatch/internal/matching"
	"github.com/spigell/skillmatch/internal/requirements"
)

const (
	// StrongMatchScore separates strong from potential matches.
	StrongMatchScore = 50.0

	histogramBuckets = 20
	topSkillsLimit   = 10
)

// Bucket counts scores in [From, To). The last bucket also holds 100.
type Bucket struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Count int     `json:"count"`
}

// Count is a value with the number of times it was seen.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Report summarises a matching run.
type Report struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Catalog     string    `json:"catalog,omitempty"`

	CandidateSkills requirements.List `json:"candidate_skills"`
	TotalJobs       int               `json:"total_jobs"`
	ScoredJobs      int               `json:"scored_jobs"`

	StrongMatches    int `json:"strong_matches"`
	PotentialMatches int `json:"potential_matches"`

	Histogram []Bucket   `json:"histogram"`
	TopSkills []Count    `json:"top_skills"`
	Locations []Count    `json:"locations"`
	Matches   []JobMatch `json:"matches"`
}

// Input carries what a report is built from.
type Input struct {
	Catalog         string
	TotalJobs       int
	CandidateSkills requirements.List
	// Scores holds every scored job, including the ones dropped for a low score.
	Scores map[int]*matching.Result
	// Ranked are the jobs that passed all filters, best first.
	Ranked []JobMatch
	Limit  int
}

// NewReport builds a report. Strong and potential counts cover every ranked
// job; skills and locations cover only the shown top matches.
func NewReport(in Input) *Report {
	shown := Top(in.Ranked, in.Limit)

	report := &Report{
		RunID:           uuid.NewString(),
		GeneratedAt:     time.Now().UTC(),
		Catalog:         in.Catalog,
		CandidateSkills: in.CandidateSkills,
		TotalJobs:       in.TotalJobs,
		ScoredJobs:      len(in.Scores),
		Histogram:       histogram(in.Scores),
		TopSkills:       topSkills(shown, topSkillsLimit),
		Locations:       locations(shown),
		Matches:         shown,
	}

	for _, match := range in.Ranked {
		if match.Result.Score >= StrongMatchScore {
			report.StrongMatches++
		} else {
			report.PotentialMatches++
		}
	}

	return report
}

func histogram(scores map[int]*matching.Result) []Bucket {
	const width = 100.0 / histogramBuckets

	buckets := make([]Bucket, histogramBuckets)
	for i := range buckets {
		buckets[i].From = float64(i) * width
		buckets[i].To = float64(i+1) * width
	}

	for _, result := range scores {
		if result == nil {
			continue
		}
		i := min(int(result.Score/width), histogramBuckets-1)
		buckets[max(i, 0)].Count++
	}
	return buckets
}

// topSkills counts requirements case-insensitively and reports them in the
// casing seen first. Ties keep first-seen order.
func topSkills(matches []JobMatch, limit int) []Count {
	var counts []Count
	index := map[string]int{}

	for _, match := range matches {
		for _, skill := range match.Job.Requirements() {
			key := requirements.Normalize(skill)
			if i, ok := index[key]; ok {
				counts[i].Count++
				continue
			}
			index[key] = len(counts)
			counts = append(counts, Count{Value: skill, Count: 1})
		}
	}

	return mostCommon(counts, limit)
}

func locations(matches []JobMatch) []Count {
	var counts []Count
	index := map[string]int{}

	for _, match := range matches {
		location := match.Job.Location
		if i, ok := index[location]; ok {
			counts[i].Count++
			continue
		}
		index[location] = len(counts)
		counts = append(counts, Count{Value: location, Count: 1})
	}

	return mostCommon(counts, 0)
}

func mostCommon(counts []Count, limit int) []Count {
	slices.SortStableFunc(counts, func(a, b Count) int {
		return b.Count - a.Count
	})
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	if counts == nil {
		return []Count{}
	}
	return counts
}

// ReportByLocation groups the shown matches by job location.
func (r *Report) ReportByLocation() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, match := range r.Matches {
		job := match.Job
		report[job.Location] = append(report[job.Location], map[string]string{
			"title":   job.Title,
			"company": job.Company,
			"score":   fmt.Sprintf("%.1f%%", match.Result.Score),
			"level":   job.RoleLevel,
			"salary":  job.Salary,
			"missing": strings.Join(match.Result.Missing, ", "),
		})
	}
	return report
}

// DumpToTmpFile writes the report as indented JSON into a new temp file
// named after the run ID.
func (r *Report) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "skillmatch_"+r.RunID+"_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	return file.Name(), nil
}
