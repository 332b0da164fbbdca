package gemini

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/requirements"
	"github.com/spigell/skillmatch/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string, maxOutputTokens int32) (string, error)
}

//go:embed resume_prompt.md
var resumePromptTemplate string

//go:embed job_prompt.md
var jobPromptTemplate string

const (
	defaultMaxLogLength = 200

	resumeMaxOutputTokens = 500
	jobMaxOutputTokens    = 300

	textPlaceholder = "{{TEXT}}"
)

type documentKind struct {
	name      string
	template  string
	maxTokens int32
}

var (
	resumeKind = documentKind{name: "resume", template: resumePromptTemplate, maxTokens: resumeMaxOutputTokens}
	jobKind    = documentKind{name: "job", template: jobPromptTemplate, maxTokens: jobMaxOutputTokens}
)

// Extractor asks Gemini for a "SKILLS:" line and parses the reply.
type Extractor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.SkillExtractor = (*Extractor)(nil)

func NewExtractor(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// ResumeSkills extracts the candidate skills listed in a resume.
func (e *Extractor) ResumeSkills(ctx context.Context, resumeText string) (requirements.List, error) {
	return e.extract(ctx, resumeKind, resumeText)
}

// JobRequirements extracts the technical requirements of a job description.
func (e *Extractor) JobRequirements(ctx context.Context, description string) (requirements.List, error) {
	return e.extract(ctx, jobKind, description)
}

func (e *Extractor) extract(ctx context.Context, kind documentKind, text string) (requirements.List, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New(kind.name + " text must not be empty")
	}

	prompt := buildPrompt(kind.template, text)

	e.logger.Debug("gemini generate content request",
		zap.String("document", kind.name),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, prompt, kind.maxTokens)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini generate content response",
		zap.String("document", kind.name),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	list := requirements.Parse(raw)
	if list.Len() == 0 {
		e.logger.Warn("no skills found in model response",
			zap.String("document", kind.name),
			zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
		)
	}

	return list, nil
}

func buildPrompt(template, text string) string {
	if strings.TrimSpace(template) == "" {
		template = "Extract the technical skills and answer with one line \"SKILLS: a, b, c\".\n\n" + textPlaceholder
	}
	return strings.ReplaceAll(template, textPlaceholder, strings.TrimSpace(text))
}
