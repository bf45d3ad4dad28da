package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sphynx-hq/sphynx/internal/ai"
	"github.com/sphynx-hq/sphynx/internal/ai/gemini"
	"github.com/sphynx-hq/sphynx/internal/github"
	"github.com/sphynx-hq/sphynx/internal/history"
	"github.com/sphynx-hq/sphynx/internal/pipeline"
	"github.com/sphynx-hq/sphynx/internal/scoring"
	"github.com/sphynx-hq/sphynx/internal/secrets"
)

// resolveGithubToken loads the directory token. The token is optional:
// unauthenticated requests work against a much tighter rate limit.
func resolveGithubToken(config *Config) (string, error) {
	tokenFile := strings.TrimSpace(config.GithubTokenFile)
	if tokenFile == "" {
		tokenFile = strings.TrimSpace(viper.GetString("github-token-file"))
	}

	if tokenFile == "" {
		return "", errors.New("github token file is not configured")
	}

	return secrets.Load(secrets.Source{
		Name: "github token",
		File: tokenFile,
	})
}

func newDirectory(config *Config, logger *zap.Logger) *github.Client {
	token, err := resolveGithubToken(config)
	if err != nil {
		logger.Warn("running without a github token",
			zap.Error(err),
			zap.String("hint", "set GITHUB_TOKEN_FILE environment variable or the 'github-token-file' key in the configuration file"),
		)
	}

	gh := github.New(logger, token)

	if config.UserAgent != "" {
		gh.UserAgent = config.UserAgent
	}

	return gh
}

// newScorer picks the scoring backend. When the AI provider is disabled
// or cannot be built, the deterministic heuristic keeps searches usable.
func newScorer(ctx context.Context, config *AIConfig, logger *zap.Logger) ai.Scorer {
	scorer, err := newAIScorer(ctx, config, logger)
	if err != nil {
		logger.Warn("falling back to the heuristic scorer", zap.Error(err))
		return scoring.NewHeuristic()
	}

	return scorer
}

func newAIScorer(ctx context.Context, config *AIConfig, logger *zap.Logger) (ai.Scorer, error) {
	if config == nil || !config.Enabled {
		return nil, errors.New("ai scoring is disabled")
	}

	provider := strings.TrimSpace(strings.ToLower(config.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", config.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, config.Gemini.Model)
	if err != nil {
		return nil, err
	}

	scorerLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	return gemini.NewScorer(generator, scorerLogger, config.Gemini.MaxLogLength), nil
}

func newHistoryStore(path string) *history.Store {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	return history.NewStore(path)
}

func newPipeline(config *Config, gh *github.Client, scorer ai.Scorer, store *history.Store, logger *zap.Logger, limit int) *pipeline.Pipeline {
	maxCandidates := config.Search.MaxCandidates
	if limit > 0 {
		maxCandidates = limit
	}

	return pipeline.New(gh, scorer, store, logger, pipeline.Config{
		MaxCandidates: maxCandidates,
		MaxWorkers:    config.Search.MaxWorkers,
	})
}
