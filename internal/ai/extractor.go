// Package ai describes the text-generation collaborators used to pull skill
// lists out of resumes and job descriptions.
package ai

import (
	"context"
	"errors"

	"github.com/spigell/skillmatch/internal/requirements"
)

// ErrUpstreamFailure wraps every error coming from the text-generation
// service (network, auth, quota, missing response). A blank completion is
// not a failure: it yields an empty list.
var ErrUpstreamFailure = errors.New("text generation service failed")

// SkillExtractor turns document text into requirement lists. An empty list
// means nothing could be extracted and is not an error.
type SkillExtractor interface {
	ResumeSkills(ctx context.Context, resumeText string) (requirements.List, error)
	JobRequirements(ctx context.Context, description string) (requirements.List, error)
}
