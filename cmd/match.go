package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/catalog"
	"github.com/spigell/skillmatch/internal/filtering"
	"github.com/spigell/skillmatch/internal/ranking"
)

const (
	PromptShowMatches      = "Show matches"
	PromptReportByLocation = "Report by location"
	PromptTopSkills        = "Top required skills"
	PromptDumpReport       = "Dump report to file"
	PromptExit             = "Exit"

	ignoredViaFlag = "ignored via --ignore-filters"
)

var errExit = errors.New("exit requested")

var matchPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowMatches, PromptReportByLocation, PromptTopSkills, PromptDumpReport, PromptExit},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank the jobs of the catalog against the skills of a resume",
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return bindFlags(cmd, map[string]string{
			"catalog":        "catalog",
			"variations":     "variations",
			"threshold":      "matching.threshold",
			"min-score":      "matching.min-score",
			"limit":          "matching.limit",
			"workers":        "matching.workers",
			"location":       "filters.locations",
			"level":          "filters.levels",
			"size":           "filters.sizes",
			"industry":       "filters.industries",
			"max-experience": "filters.max-experience",
		})
	},
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	flags := matchCmd.Flags()
	flags.StringP("resume", "r", "", "resume file (.pdf, .txt or .md)")
	flags.StringP("skills", "s", "", "comma separated skills to use instead of extracting them from the resume")
	flags.StringP("catalog", "c", "", "job catalog (.xlsx or .csv)")
	flags.String("variations", "", "yaml file with skill variations (default is the built-in table)")
	flags.Float64P("threshold", "t", 0.8, "minimum similarity for a fuzzy skill match, 0..1")
	flags.Float64P("min-score", "m", 30, "minimum match score in percent for a job to be listed")
	flags.IntP("limit", "n", 10, "number of top matches to show")
	flags.Int("workers", 0, "number of jobs scored in parallel (default is the number of CPUs)")
	flags.StringSlice("location", nil, "keep only jobs in these locations")
	flags.StringSlice("level", nil, "keep only jobs of these role levels")
	flags.StringSlice("size", nil, "keep only jobs at companies of these sizes")
	flags.StringSlice("industry", nil, "keep only jobs in these industries")
	flags.Float64("max-experience", 20, "maximum years of experience required")
	flags.Bool("ignore-filters", false, "ignore location, level, size, industry and experience filters")
	flags.BoolP("yes", "y", false, "print the matches and exit without asking")
}

// match is the main command for the cli.
func match(cmd *cobra.Command) {
	ctx := cmd.Context()
	logger, config := setup()

	logger.Info("starting the skillmatch", zap.String("version", version))

	skills, err := candidateSkills(cmd, newExtractors(ctx, config.AI, logger), logger)
	if exitOnError(logger, "getting candidate skills", err) {
		return
	}

	cat, err := catalog.Open(config.Catalog)
	if err != nil {
		logger.Fatal("loading the catalog", zap.Error(err))
	}
	logger.Info("catalog loaded", zap.String("source", cat.Source()), zap.Int("jobs", cat.Len()))

	engine, err := newEngine(config, logger)
	if err != nil {
		logger.Fatal("building the match engine", zap.Error(err))
	}

	steps := filtering.Default()
	if ignore, _ := cmd.Flags().GetBool("ignore-filters"); ignore {
		for _, name := range []string{"location", "role_level", "size", "industry", "experience"} {
			filtering.DisableByName(steps, name, ignoredViaFlag)
		}
	}

	deps := filtering.Deps{Logger: logger, Engine: engine, Skills: skills}
	jobs, scores, err := filtering.Run(ctx, config.filterConfig(), deps, steps, cat.Jobs())
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if logger.Core().Enabled(zap.DebugLevel) {
		if filename, err := jobs.DumpToTmpFile(); err != nil {
			logger.Warn("dumping filtered jobs", zap.Error(err))
		} else {
			logger.Debug("filtered jobs dumped", zap.String("filename", filename), zap.Int("jobs", jobs.Len()))
		}
	}

	for _, status := range filtering.Describe(steps) {
		logger.Debug("filter status",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	report := ranking.NewReport(ranking.Input{
		Catalog:         cat.Source(),
		TotalJobs:       cat.Len(),
		CandidateSkills: skills,
		Scores:          scores,
		Ranked:          ranking.Rank(jobs, scores),
		Limit:           config.Matching.Limit,
	})
	logger = withRun(logger, report.RunID, cat.Source())

	out := cmd.OutOrStdout()
	printSummary(out, report)

	if len(report.Matches) == 0 {
		logger.Info("exiting", zap.String("reason", "no matching jobs found, try adjusting the filters or matching criteria"))
		return
	}

	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		printMatches(out, report.Matches)
		return
	}

	for {
		_, action, err := matchPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, out, logger, report); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, out io.Writer, logger *zap.Logger, report *ranking.Report) error {
	switch action {
	case PromptShowMatches:
		printMatches(out, report.Matches)
		return nil
	case PromptReportByLocation:
		pretty, _ := json.MarshalIndent(report.ReportByLocation(), "", "  ")
		fmt.Fprintln(out, string(pretty))
		return nil
	case PromptTopSkills:
		printCounts(out, "Top required skills", report.TopSkills)
		return nil
	case PromptDumpReport:
		filename, err := report.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump report to file: %w", err)
		}
		logger.Info("dumping report to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}
