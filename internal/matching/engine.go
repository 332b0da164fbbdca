// Package matching scores a candidate's skills against a job's requirements
// using exact comparison, domain variations and fuzzy string similarity.
package matching

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spigell/skillmatch/internal/requirements"
)

// ErrInvalidArgument is returned when Match is called with inputs that
// violate its contract.
var ErrInvalidArgument = errors.New("invalid argument")

// Rule names which check confirmed a requirement.
type Rule string

const (
	RuleExact     Rule = "exact"
	RuleVariation Rule = "variation"
	RuleFuzzy     Rule = "fuzzy"
)

// Result is the outcome of matching one candidate against one job.
type Result struct {
	// Score is the share of distinct job requirements confirmed, in [0,100].
	Score   float64           `json:"score"`
	Matched requirements.List `json:"matched"`
	Missing requirements.List `json:"missing"`
}

// Engine matches skill lists. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	variations *VariationTable
}

// NewEngine returns an Engine backed by the provided variation table, or the
// embedded default when table is nil.
func NewEngine(table *VariationTable) *Engine {
	if table == nil {
		table = DefaultVariations()
	}
	return &Engine{variations: table}
}

// Variations returns the table the engine compares against.
func (e *Engine) Variations() *VariationTable {
	return e.variations
}

// Match scores candidate against job. threshold is the minimum fuzzy
// similarity ratio in [0,1]. A job requirement counts as matched as soon as
// any candidate skill satisfies one of the rules; there is no best-match
// selection. Output strings keep the job side's original text.
func (e *Engine) Match(job, candidate requirements.List, threshold float64) (*Result, error) {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: threshold %v is outside [0,1]", ErrInvalidArgument, threshold)
	}

	jobTerms := terms(job)
	candidateTerms := terms(candidate)
	if len(jobTerms) == 0 || len(candidateTerms) == 0 {
		return &Result{Score: 0, Matched: requirements.List{}, Missing: requirements.List{}}, nil
	}

	matched := make([]bool, len(jobTerms))
	count := 0

	for _, c := range candidateTerms {
		for idx, j := range jobTerms {
			if matched[idx] {
				continue
			}
			if _, ok := e.compare(c.normalized, j.normalized, threshold); ok {
				matched[idx] = true
				count++
			}
		}
	}

	result := &Result{
		Score:   float64(count) / float64(len(jobTerms)) * 100,
		Matched: make(requirements.List, 0, count),
		Missing: make(requirements.List, 0, len(jobTerms)-count),
	}
	for idx, j := range jobTerms {
		if matched[idx] {
			result.Matched = append(result.Matched, j.original)
		} else {
			result.Missing = append(result.Missing, j.original)
		}
	}

	return result, nil
}

// Explain reports the rule that matches candidate against requirement, if
// any, with the same precedence Match uses.
func (e *Engine) Explain(requirement, candidate string, threshold float64) (Rule, bool) {
	return e.compare(normalize(candidate), normalize(requirement), threshold)
}

func (e *Engine) compare(candidate, requirement string, threshold float64) (Rule, bool) {
	switch {
	case candidate == requirement:
		return RuleExact, true
	case e.variations.Equivalent(candidate, requirement):
		return RuleVariation, true
	case Ratio(candidate, requirement) >= threshold:
		return RuleFuzzy, true
	default:
		return "", false
	}
}

type term struct {
	original   string
	normalized string
}

// terms drops blank entries and collapses duplicates to their first
// occurrence.
func terms(list requirements.List) []term {
	out := make([]term, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, item := range list {
		n := normalize(item)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, term{original: strings.TrimSpace(item), normalized: n})
	}
	return out
}
