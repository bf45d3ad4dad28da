// Package scoring provides a deterministic fallback scorer used when no
// AI provider is configured. It weighs public activity signals into the
// same 0-100 range the AI scorer produces.
package scoring

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/sphynx-hq/sphynx/internal/ai"
	"github.com/sphynx-hq/sphynx/internal/candidate"
)

// Caps keep a single runaway signal from dominating the score.
const (
	maxRepos         = 50
	maxFollowers     = 1000
	maxContributions = 1000
	maxPinned        = 6

	repoWeight      = 20.0
	followerWeight  = 15.0
	contribWeight   = 25.0
	languageWeight  = 20.0
	presenceWeight  = 5.0
	pinnedWeight    = 10.0
	languageDivisor = 10.0
)

type Heuristic struct{}

func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

func (h *Heuristic) Evaluate(_ context.Context, _ string, profile *candidate.Profile) (*ai.Assessment, error) {
	if profile == nil {
		return nil, fmt.Errorf("profile is required")
	}

	var score float64
	var explanation []string

	repos := min(profile.PublicRepos, maxRepos)
	repoScore := float64(repos) / maxRepos * repoWeight
	score += repoScore
	explanation = append(explanation, fmt.Sprintf("%d public repos (+%.0f)", profile.PublicRepos, repoScore))

	followers := min(profile.Followers, maxFollowers)
	followerScore := float64(followers) / maxFollowers * followerWeight
	score += followerScore
	explanation = append(explanation, fmt.Sprintf("%d followers (+%.0f)", profile.Followers, followerScore))

	contributions := min(profile.Contributions, maxContributions)
	contribScore := float64(contributions) / maxContributions * contribWeight
	score += contribScore
	explanation = append(explanation, fmt.Sprintf("%d contributions (+%.0f)", profile.Contributions, contribScore))

	langScore := math.Min(float64(len(profile.Languages))/languageDivisor*languageWeight, languageWeight)
	score += langScore
	explanation = append(explanation, fmt.Sprintf("%d languages (+%.0f)", len(profile.Languages), langScore))

	if profile.Bio != "" {
		score += presenceWeight
		explanation = append(explanation, "has bio (+5)")
	}
	if profile.Location != "" {
		score += presenceWeight
		explanation = append(explanation, "has location (+5)")
	}

	pinned := min(len(profile.PinnedRepos), maxPinned)
	pinnedScore := float64(pinned) / maxPinned * pinnedWeight
	score += pinnedScore
	explanation = append(explanation, fmt.Sprintf("%d pinned repos (+%.0f)", len(profile.PinnedRepos), pinnedScore))

	final := int(math.Round(math.Min(score, 100)))

	return &ai.Assessment{
		Score:       final,
		Explanation: strings.Join(explanation, " | "),
	}, nil
}
