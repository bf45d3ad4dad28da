package github

import (
	"context"

	"go.uber.org/zap"

	"github.com/sphynx-hq/sphynx/internal/candidate"
)

// Enrich builds the full profile for one candidate ref. The base
// profile fetch is mandatory: its failure fails the candidate. Every
// other fetch degrades its field to an empty value so a candidate with
// no pinned repos or no visible activity stays scorable.
func (c *Client) Enrich(ctx context.Context, ref *candidate.Ref) (*candidate.Profile, error) {
	profile, err := c.GetProfile(ctx, ref.Login)
	if err != nil {
		return nil, err
	}

	languages, err := c.GetLanguages(ctx, ref.Login)
	if err != nil {
		c.logger.Debug("language fetch failed, keeping empty mapping",
			zap.String("login", ref.Login),
			zap.Error(err),
		)
		languages = map[string]int{}
	}
	profile.Languages = languages

	activity, err := c.GetActivity(ctx, ref.Login)
	if err != nil {
		c.logger.Debug("activity scrape failed, keeping defaults",
			zap.String("login", ref.Login),
			zap.Error(err),
		)
		activity = &Activity{PinnedRepos: []string{}}
	}
	profile.Contributions = activity.Contributions
	profile.ContributionStreak = activity.Streak
	profile.PinnedRepos = activity.PinnedRepos

	return profile, nil
}
