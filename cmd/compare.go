package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/document"
	"github.com/spigell/skillmatch/internal/requirements"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare a resume with a single job description",
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return bindFlags(cmd, map[string]string{
			"variations": "variations",
			"threshold":  "matching.threshold",
		})
	},
	Run: func(cmd *cobra.Command, _ []string) {
		compare(cmd)
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	flags := compareCmd.Flags()
	flags.StringP("resume", "r", "", "resume file (.pdf, .txt or .md)")
	flags.StringP("skills", "s", "", "comma separated skills to use instead of extracting them from the resume")
	flags.String("job-file", "", "file with the job description")
	flags.String("job-text", "", "job description text")
	flags.String("requirements", "", "comma separated job requirements to use instead of extracting them")
	flags.String("variations", "", "yaml file with skill variations (default is the built-in table)")
	flags.Float64P("threshold", "t", 0.8, "minimum similarity for a fuzzy skill match, 0..1")

	compareCmd.MarkFlagsMutuallyExclusive("job-file", "job-text")
}

func compare(cmd *cobra.Command) {
	logger, config := setup()
	ex := newExtractors(cmd.Context(), config.AI, logger)

	jobReqs, err := jobRequirements(cmd, ex, logger)
	if exitOnError(logger, "getting job requirements", err) {
		return
	}

	skills, err := candidateSkills(cmd, ex, logger)
	if exitOnError(logger, "getting candidate skills", err) {
		return
	}

	engine, err := newEngine(config, logger)
	if err != nil {
		logger.Fatal("building the match engine", zap.Error(err))
	}

	threshold := config.Matching.Threshold
	result, err := engine.Match(jobReqs, skills, threshold)
	if err != nil {
		logger.Fatal("matching", zap.Error(err))
	}

	logger.Info("job compared",
		zap.Float64("score", result.Score),
		zap.Int("matched", result.Matched.Len()),
		zap.Int("missing", result.Missing.Len()),
	)

	printComparison(cmd.OutOrStdout(), engine, result, skills, threshold)
}

// jobRequirements returns the requirements given with --requirements or
// extracted from the job description.
func jobRequirements(cmd *cobra.Command, ex *extractors, logger *zap.Logger) (requirements.List, error) {
	if text := strings.TrimSpace(flagString(cmd, "requirements")); text != "" {
		return nonEmpty(flagList(text), "job requirements")
	}

	description := strings.TrimSpace(flagString(cmd, "job-text"))
	if path := strings.TrimSpace(flagString(cmd, "job-file")); path != "" {
		text, err := document.ExtractText(path)
		if err != nil {
			return nil, fmt.Errorf("reading job description: %w", err)
		}
		description = text
	}
	if description == "" {
		return nil, errors.New("one of --job-file, --job-text or --requirements is required")
	}

	extractor, err := ex.get()
	if err != nil {
		return nil, err
	}

	list, err := extractor.JobRequirements(cmd.Context(), description)
	if err != nil {
		return nil, fmt.Errorf("extracting job requirements: %w", err)
	}

	logger.Info("extracted job requirements", zap.Int("count", list.Len()))
	return nonEmpty(list, "job description")
}
