package ai

import (
	"context"

	"github.com/sphynx-hq/sphynx/internal/candidate"
)

// Assessment is the scoring result for one candidate.
type Assessment struct {
	// Score is a suitability number between 0 and 100.
	Score       int
	Explanation string
	Raw         string
}

// Scorer rates how well a candidate profile matches the requirement.
type Scorer interface {
	Evaluate(ctx context.Context, requirement string, profile *candidate.Profile) (*Assessment, error)
}
