package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/ai/gemini"
	"github.com/spigell/skillmatch/internal/document"
	"github.com/spigell/skillmatch/internal/logger"
	"github.com/spigell/skillmatch/internal/matching"
	"github.com/spigell/skillmatch/internal/requirements"
	"github.com/spigell/skillmatch/internal/secrets"
)

const providerGemini = "gemini"

// errNoSkills stops a command cleanly when nothing could be extracted.
var errNoSkills = errors.New("no skills extracted")

// setup builds the logger and the validated config shared by every command.
func setup() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return logger, config
}

func withRun(l *zap.Logger, runID, catalog string) *zap.Logger {
	return logger.WithFields(l, logger.RunFields(runID, catalog)...)
}

func newEngine(config *Config, logger *zap.Logger) (*matching.Engine, error) {
	path := strings.TrimSpace(config.Variations)
	if path == "" {
		return matching.NewEngine(nil), nil
	}

	table, err := matching.LoadVariations(path)
	if err != nil {
		return nil, fmt.Errorf("loading variations: %w", err)
	}

	logger.Info("using custom variations",
		zap.String("path", path),
		zap.Int("version", table.Version()),
		zap.Strings("keys", table.Keys()),
	)
	return matching.NewEngine(table), nil
}

func newExtractor(ctx context.Context, cfg *AIConfig, l *zap.Logger) (ai.SkillExtractor, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != providerGemini {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set GEMINI_API_KEY, GEMINI_API_KEY_FILE or ai.gemini.api-key-file)", err)
	}

	aiLogger := logger.WithFields(l, logger.CommonFields(providerGemini, cfg.Gemini.Model)...)
	aiLogger.Debug("gemini api key resolved", zap.String("api_key", secrets.Mask(apiKey)))

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.attempts(),
		aiLogger.With(zap.Int("ai_max_retries", cfg.Gemini.MaxRetries)),
	)
	if err != nil {
		return nil, err
	}

	return gemini.NewExtractor(generator, aiLogger, cfg.Gemini.MaxLogLength), nil
}

// extractors builds the skill extractor on first use, so commands given
// explicit skill lists never need an API key.
type extractors struct {
	ctx       context.Context
	config    *AIConfig
	logger    *zap.Logger
	extractor ai.SkillExtractor
	build     func(context.Context, *AIConfig, *zap.Logger) (ai.SkillExtractor, error)
}

func newExtractors(ctx context.Context, config *AIConfig, logger *zap.Logger) *extractors {
	return &extractors{ctx: ctx, config: config, logger: logger, build: newExtractor}
}

func (e *extractors) get() (ai.SkillExtractor, error) {
	if e.extractor != nil {
		return e.extractor, nil
	}

	extractor, err := e.build(e.ctx, e.config, e.logger)
	if err != nil {
		return nil, fmt.Errorf("building skill extractor: %w", err)
	}
	e.extractor = extractor
	return extractor, nil
}

// candidateSkills returns the skills given with --skills or, when absent,
// the skills extracted from the --resume document.
func candidateSkills(cmd *cobra.Command, ex *extractors, logger *zap.Logger) (requirements.List, error) {
	if text := strings.TrimSpace(flagString(cmd, "skills")); text != "" {
		skills := flagList(text)
		logger.Info("using skills from flag", zap.Int("count", skills.Len()))
		return nonEmpty(skills, "resume")
	}

	path := strings.TrimSpace(flagString(cmd, "resume"))
	if path == "" {
		return nil, errors.New("either --resume or --skills is required")
	}

	text, err := document.ExtractText(path)
	if err != nil {
		return nil, fmt.Errorf("reading resume: %w", err)
	}

	extractor, err := ex.get()
	if err != nil {
		return nil, err
	}

	skills, err := extractor.ResumeSkills(cmd.Context(), text)
	if err != nil {
		return nil, fmt.Errorf("extracting resume skills: %w", err)
	}

	logger.Info("extracted resume skills", zap.String("path", path), zap.Int("count", skills.Len()))
	return nonEmpty(skills, "resume")
}

// flagList reads a list typed on the command line. Labeled text goes through
// the parser; plain comma separated text keeps one-letter skills such as R.
func flagList(text string) requirements.List {
	if strings.Contains(strings.ToLower(text), requirements.Label) {
		return requirements.Parse(text)
	}
	return requirements.SplitComma(text)
}

func nonEmpty(list requirements.List, source string) (requirements.List, error) {
	if list.Len() == 0 {
		return nil, fmt.Errorf("%w from %s", errNoSkills, source)
	}
	return list, nil
}

func flagString(cmd *cobra.Command, name string) string {
	f := cmd.Flags().Lookup(name)
	if f == nil {
		return ""
	}
	return f.Value.String()
}

// exitOnError stops the command. Empty extractions are a clean exit, other
// errors are fatal.
func exitOnError(logger *zap.Logger, msg string, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errNoSkills) {
		logger.Warn("exiting", zap.String("reason", err.Error()))
		return true
	}
	if errors.Is(err, ai.ErrUpstreamFailure) {
		logger.Fatal(msg, zap.Error(err), zap.String("hint", "the text generation service is unavailable, try again later"))
	}
	logger.Fatal(msg, zap.Error(err))
	return true
}
