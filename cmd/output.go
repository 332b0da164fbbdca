package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spigell/skillmatch/internal/matching"
	"github.com/spigell/skillmatch/internal/ranking"
	"github.com/spigell/skillmatch/internal/requirements"
)

const barWidth = 40

func printSummary(out io.Writer, report *ranking.Report) {
	fmt.Fprintf(out, "Run %s\n", report.RunID)
	fmt.Fprintf(out, "Your skills: %s\n\n", report.CandidateSkills)
	fmt.Fprintf(out, "Total jobs available:     %d\n", report.TotalJobs)
	fmt.Fprintf(out, "Jobs scored:              %d\n", report.ScoredJobs)
	fmt.Fprintf(out, "Strong matches (>=%.0f%%):   %d\n", ranking.StrongMatchScore, report.StrongMatches)
	fmt.Fprintf(out, "Potential matches (<%.0f%%): %d\n\n", ranking.StrongMatchScore, report.PotentialMatches)

	printHistogram(out, report.Histogram)

	if len(report.Matches) > 0 {
		printCounts(out, "Jobs by location", report.Locations)
	}
}

func printHistogram(out io.Writer, buckets []ranking.Bucket) {
	peak := 0
	for _, b := range buckets {
		peak = max(peak, b.Count)
	}
	if peak == 0 {
		return
	}

	fmt.Fprintln(out, "Match score distribution")
	for _, b := range buckets {
		if b.Count == 0 {
			continue
		}
		bar := strings.Repeat("#", max(1, b.Count*barWidth/peak))
		fmt.Fprintf(out, "  %3.0f-%3.0f%% %-*s %d\n", b.From, b.To, barWidth, bar, b.Count)
	}
	fmt.Fprintln(out)
}

func printCounts(out io.Writer, title string, counts []ranking.Count) {
	fmt.Fprintln(out, title)
	for _, c := range counts {
		fmt.Fprintf(out, "  %-30s %d\n", c.Value, c.Count)
	}
	fmt.Fprintln(out)
}

func printMatches(out io.Writer, matches []ranking.JobMatch) {
	fmt.Fprintf(out, "Found %d matching jobs\n", len(matches))
	for _, m := range matches {
		job := m.Job
		fmt.Fprintf(out, "\n%.1f%% Match - %s at %s\n", m.Result.Score, job.Title, job.Company)
		fmt.Fprintf(out, "  Location:    %s\n", job.Location)
		fmt.Fprintf(out, "  Role level:  %s\n", job.RoleLevel)
		fmt.Fprintf(out, "  Experience:  %s\n", job.Experience)
		if job.Salary != "" {
			fmt.Fprintf(out, "  Salary:      %s\n", job.Salary)
		}
		fmt.Fprintf(out, "  Size:        %s\n", job.Size)
		fmt.Fprintf(out, "  Industry:    %s\n", job.Industry)
		printSkillLists(out, m.Result)
	}
}

func printSkillLists(out io.Writer, result *matching.Result) {
	fmt.Fprintf(out, "  Matched:     %s\n", orNone(result.Matched))
	if result.Missing.Len() > 0 {
		fmt.Fprintf(out, "  To develop:  %s\n", result.Missing)
	}
}

// printComparison renders a single job comparison with the rule that
// confirmed every matched requirement.
func printComparison(out io.Writer, engine *matching.Engine, result *matching.Result, skills requirements.List, threshold float64) {
	filled := int(result.Score / 100 * barWidth)
	fmt.Fprintf(out, "Match score: %.1f%%\n[%s%s]\n\n", result.Score,
		strings.Repeat("#", filled), strings.Repeat(".", barWidth-filled))

	if result.Matched.Len() > 0 {
		fmt.Fprintln(out, "Matched skills")
		for _, requirement := range result.Matched {
			rule, skill := explain(engine, requirement, skills, threshold)
			fmt.Fprintf(out, "  %-30s %-10s %s\n", requirement, rule, skill)
		}
		fmt.Fprintln(out)
	}

	if result.Missing.Len() > 0 {
		fmt.Fprintln(out, "Skills to develop")
		for _, requirement := range result.Missing {
			fmt.Fprintf(out, "  %s\n", requirement)
		}
	}
}

func explain(engine *matching.Engine, requirement string, skills requirements.List, threshold float64) (matching.Rule, string) {
	for _, skill := range skills {
		if rule, ok := engine.Explain(requirement, skill, threshold); ok {
			return rule, skill
		}
	}
	return "", ""
}

func orNone(list requirements.List) string {
	if list.Len() == 0 {
		return "none"
	}
	return list.String()
}
