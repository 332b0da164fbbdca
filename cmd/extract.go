package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/document"
	"github.com/spigell/skillmatch/internal/requirements"
)

const (
	kindResume = "resume"
	kindJob    = "job"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Print the skills extracted from a resume or a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		extract(cmd)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("file", "f", "", "document to extract from (.pdf, .txt or .md)")
	extractCmd.Flags().StringP("kind", "k", kindResume, "document kind: resume or job")
	extractCmd.MarkFlagRequired("file")
}

func extract(cmd *cobra.Command) {
	logger, config := setup()

	path := flagString(cmd, "file")
	kind := flagString(cmd, "kind")
	if kind != kindResume && kind != kindJob {
		logger.Fatal("invalid document kind", zap.String("kind", kind), zap.Strings("allowed", []string{kindResume, kindJob}))
	}

	content, err := document.Extract(path)
	if err != nil {
		logger.Fatal("reading document", zap.Error(err))
	}
	logger.Debug("document read", zap.String("path", content.Path), zap.Int("pages", content.PageCount))

	extractor, err := newExtractors(cmd.Context(), config.AI, logger).get()
	if err != nil {
		logger.Fatal("building skill extractor", zap.Error(err))
	}

	var list requirements.List
	if kind == kindJob {
		list, err = extractor.JobRequirements(cmd.Context(), content.Text)
	} else {
		list, err = extractor.ResumeSkills(cmd.Context(), content.Text)
	}
	if exitOnError(logger, "extracting skills", err) {
		return
	}
	if _, err := nonEmpty(list, kind); exitOnError(logger, "extracting skills", err) {
		return
	}

	fmt.Fprintf(cmd.OutOrStdout(), "SKILLS: %s\n", list)
}
