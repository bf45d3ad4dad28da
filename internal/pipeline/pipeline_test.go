package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sphynx-hq/sphynx/internal/ai"
	"github.com/sphynx-hq/sphynx/internal/candidate"
	"github.com/sphynx-hq/sphynx/internal/github"
	"github.com/sphynx-hq/sphynx/internal/history"
)

type fakeDirectory struct {
	refs       []*candidate.Ref
	searchErr  error
	enrichErr  map[string]error
	lastParams *github.SearchParams
	lastLimit  int
}

func (f *fakeDirectory) SearchUsers(_ context.Context, params *github.SearchParams, limit int) ([]*candidate.Ref, error) {
	f.lastParams = params
	f.lastLimit = limit
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.refs, nil
}

func (f *fakeDirectory) Enrich(_ context.Context, ref *candidate.Ref) (*candidate.Profile, error) {
	if err, ok := f.enrichErr[ref.Login]; ok {
		return nil, err
	}
	return &candidate.Profile{
		Login:       ref.Login,
		Name:        strings.ToUpper(ref.Login),
		ProfileURL:  ref.ProfileURL,
		PinnedRepos: []string{},
		Languages:   map[string]int{},
	}, nil
}

type fakeScorer struct {
	scores map[string]int
	errFor map[string]error
}

func (f *fakeScorer) Evaluate(_ context.Context, _ string, profile *candidate.Profile) (*ai.Assessment, error) {
	if err, ok := f.errFor[profile.Login]; ok {
		return nil, err
	}
	return &ai.Assessment{
		Score:       f.scores[profile.Login],
		Explanation: fmt.Sprintf("scored %s", profile.Login),
	}, nil
}

func refs(logins ...string) []*candidate.Ref {
	out := make([]*candidate.Ref, 0, len(logins))
	for _, login := range logins {
		out = append(out, &candidate.Ref{Login: login, ProfileURL: "https://github.com/" + login})
	}
	return out
}

func TestSearchSortsByScoreDescending(t *testing.T) {
	directory := &fakeDirectory{refs: refs("low", "high", "mid")}
	scorer := &fakeScorer{scores: map[string]int{"low": 10, "high": 95, "mid": 50}}

	p := New(directory, scorer, nil, zap.NewNop(), Config{})
	result, err := p.Search(context.Background(), "Go developer")
	require.NoError(t, err)

	assert.Equal(t, []string{"high", "mid", "low"}, result.Logins())
}

func TestSearchTiesKeepSearchOrder(t *testing.T) {
	directory := &fakeDirectory{refs: refs("first", "second", "third")}
	scorer := &fakeScorer{scores: map[string]int{"first": 50, "second": 50, "third": 50}}

	p := New(directory, scorer, nil, zap.NewNop(), Config{})
	result, err := p.Search(context.Background(), "Go developer")
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second", "third"}, result.Logins())
}

func TestSearchEmptyRequirement(t *testing.T) {
	p := New(&fakeDirectory{}, &fakeScorer{}, nil, zap.NewNop(), Config{})

	_, err := p.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyRequirement)
}

func TestSearchEmptyResultIsNotAnError(t *testing.T) {
	p := New(&fakeDirectory{refs: nil}, &fakeScorer{}, nil, zap.NewNop(), Config{})

	result, err := p.Search(context.Background(), "obscure skill nobody has")
	require.NoError(t, err)
	assert.Zero(t, result.Len())
}

func TestSearchPropagatesSearchErrors(t *testing.T) {
	directory := &fakeDirectory{searchErr: fmt.Errorf("wrapped: %w", github.ErrRateLimit)}
	p := New(directory, &fakeScorer{}, nil, zap.NewNop(), Config{})

	_, err := p.Search(context.Background(), "Go developer")
	assert.ErrorIs(t, err, github.ErrRateLimit)
}

func TestSearchDropsCandidatesFailingEnrichment(t *testing.T) {
	directory := &fakeDirectory{
		refs:      refs("good", "broken"),
		enrichErr: map[string]error{"broken": errors.New("profile fetch failed")},
	}
	scorer := &fakeScorer{scores: map[string]int{"good": 70}}

	p := New(directory, scorer, nil, zap.NewNop(), Config{})
	result, err := p.Search(context.Background(), "Go developer")
	require.NoError(t, err)

	assert.Equal(t, []string{"good"}, result.Logins())
}

func TestSearchKeepsCandidatesFailingScoring(t *testing.T) {
	directory := &fakeDirectory{refs: refs("fine", "unscorable")}
	scorer := &fakeScorer{
		scores: map[string]int{"fine": 60},
		errFor: map[string]error{"unscorable": errors.New("model timed out")},
	}

	p := New(directory, scorer, nil, zap.NewNop(), Config{})
	result, err := p.Search(context.Background(), "Go developer")
	require.NoError(t, err)

	require.Equal(t, 2, result.Len())
	failed := result.FindByLogin("unscorable")
	require.NotNil(t, failed)
	assert.Zero(t, failed.Score)
	assert.NotEmpty(t, failed.Explanation)
	assert.Contains(t, failed.Explanation, "scoring failed")
}

func TestSearchDeduplicatesRefs(t *testing.T) {
	directory := &fakeDirectory{refs: refs("dup", "dup", "other")}
	scorer := &fakeScorer{scores: map[string]int{"dup": 40, "other": 30}}

	p := New(directory, scorer, nil, zap.NewNop(), Config{})
	result, err := p.Search(context.Background(), "Go developer")
	require.NoError(t, err)

	assert.Equal(t, []string{"dup", "other"}, result.Logins())
}

func TestSearchPersistsRecord(t *testing.T) {
	store := history.NewStore(filepath.Join(t.TempDir(), "searches.json"))
	directory := &fakeDirectory{refs: refs("octocat")}
	scorer := &fakeScorer{scores: map[string]int{"octocat": 88}}

	p := New(directory, scorer, store, zap.NewNop(), Config{})
	_, err := p.Search(context.Background(), "Go developer from Berlin")
	require.NoError(t, err)

	records, err := store.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Go developer from Berlin", records[0].Requirement)
	require.Len(t, records[0].Candidates, 1)
	assert.Equal(t, 88, records[0].Candidates[0].Score)
}

func TestSearchPassesInterpretedParams(t *testing.T) {
	directory := &fakeDirectory{refs: nil}
	p := New(directory, &fakeScorer{}, nil, zap.NewNop(), Config{MaxCandidates: 25})

	_, err := p.Search(context.Background(), "AI engineer from Berlin")
	require.NoError(t, err)

	require.NotNil(t, directory.lastParams)
	assert.Equal(t, "Berlin", directory.lastParams.Location)
	assert.Equal(t, 25, directory.lastLimit)
}
