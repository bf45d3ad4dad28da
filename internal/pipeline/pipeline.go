// Package pipeline runs one search end to end: requirement text in,
// ranked candidates out. It is transport-agnostic; the CLI and the HTTP
// server both call Search.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sphynx-hq/sphynx/internal/ai"
	"github.com/sphynx-hq/sphynx/internal/candidate"
	"github.com/sphynx-hq/sphynx/internal/github"
	"github.com/sphynx-hq/sphynx/internal/history"
	"github.com/sphynx-hq/sphynx/internal/query"
)

// ErrEmptyRequirement is returned when the requirement is blank.
var ErrEmptyRequirement = errors.New("requirement must not be empty")

const (
	defaultMaxCandidates = 10
	defaultMaxWorkers    = 4
)

// Directory is the slice of the GitHub client the pipeline needs.
type Directory interface {
	SearchUsers(ctx context.Context, params *github.SearchParams, limit int) ([]*candidate.Ref, error)
	Enrich(ctx context.Context, ref *candidate.Ref) (*candidate.Profile, error)
}

type Config struct {
	// MaxCandidates caps how many search results are enriched and scored.
	MaxCandidates int
	// MaxWorkers bounds the enrichment/scoring worker pool.
	MaxWorkers int
}

type Pipeline struct {
	directory Directory
	scorer    ai.Scorer
	history   *history.Store
	logger    *zap.Logger
	cfg       Config
}

// New wires the pipeline. The history store may be nil; searches then
// simply are not persisted.
func New(directory Directory, scorer ai.Scorer, store *history.Store, logger *zap.Logger, cfg Config) *Pipeline {
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = defaultMaxCandidates
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = defaultMaxWorkers
	}

	return &Pipeline{
		directory: directory,
		scorer:    scorer,
		history:   store,
		logger:    logger,
		cfg:       cfg,
	}
}

// Search interprets the requirement, collects candidate refs, enriches
// and scores them through a bounded worker pool, and returns the list
// sorted by score descending with search order preserved on ties.
func (p *Pipeline) Search(ctx context.Context, requirement string) (*candidate.Candidates, error) {
	requirement = strings.TrimSpace(requirement)
	if requirement == "" {
		return nil, ErrEmptyRequirement
	}

	params := query.Interpret(requirement)
	p.logger.Info("interpreted requirement",
		zap.Strings("keywords", params.Keywords),
		zap.String("location", params.Location),
		zap.String("language", params.Language),
	)

	refs, err := p.directory.SearchUsers(ctx, params, p.cfg.MaxCandidates)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}

	refs = dedupeRefs(refs)
	p.logger.Info("collected candidate refs", zap.Int("count", len(refs)))

	results := p.enrichAndScore(ctx, requirement, refs)
	results.SortByScore()

	if p.history != nil {
		record := &history.Record{
			Requirement: requirement,
			Candidates:  results.Items,
		}
		if err := p.history.Append(record); err != nil {
			// Persistence is a side effect; a failed append must not
			// discard results the caller already paid for.
			p.logger.Warn("failed to persist search record", zap.Error(err))
		}
	}

	return results, nil
}

// enrichAndScore fans the candidates out over the worker pool. Workers
// share no mutable state: each writes only its own slot, and the
// assembler waits for all of them before compacting.
func (p *Pipeline) enrichAndScore(ctx context.Context, requirement string, refs []*candidate.Ref) *candidate.Candidates {
	slots := make([]*candidate.Scored, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.MaxWorkers)

	for i, ref := range refs {
		g.Go(func() error {
			profile, err := p.directory.Enrich(gctx, ref)
			if err != nil {
				p.logger.Warn("dropping candidate: base profile fetch failed",
					zap.String("login", ref.Login),
					zap.Error(err),
				)
				return nil
			}
			if profile.Login == "" {
				p.logger.Warn("dropping candidate: profile without login",
					zap.String("ref", ref.Login),
				)
				return nil
			}

			slots[i] = p.score(gctx, requirement, profile)
			return nil
		})
	}

	// Workers never return errors; Wait is a pure barrier here.
	_ = g.Wait()

	items := make([]*candidate.Scored, 0, len(slots))
	for _, scored := range slots {
		if scored != nil {
			items = append(items, scored)
		}
	}

	return &candidate.Candidates{Items: items}
}

// score never drops a candidate: a failed scoring call yields the
// sentinel score 0 with an explanation of the failure, so an analyst
// still sees the raw profile in the output.
func (p *Pipeline) score(ctx context.Context, requirement string, profile *candidate.Profile) *candidate.Scored {
	assessment, err := p.scorer.Evaluate(ctx, requirement, profile)
	if err != nil {
		p.logger.Warn("scoring failed, keeping candidate with sentinel score",
			zap.String("login", profile.Login),
			zap.Error(err),
		)
		return &candidate.Scored{
			Profile:     *profile,
			Score:       0,
			Explanation: fmt.Sprintf("scoring failed: %s", err),
		}
	}

	return &candidate.Scored{
		Profile:     *profile,
		Score:       assessment.Score,
		Explanation: assessment.Explanation,
	}
}

// dedupeRefs removes duplicate logins keeping the first occurrence.
// Paginated search can return the same user twice near page borders.
func dedupeRefs(refs []*candidate.Ref) []*candidate.Ref {
	seen := make(map[string]bool, len(refs))
	out := make([]*candidate.Ref, 0, len(refs))
	for _, ref := range refs {
		if ref.Login == "" || seen[ref.Login] {
			continue
		}
		seen[ref.Login] = true
		out = append(out, ref)
	}
	return out
}
