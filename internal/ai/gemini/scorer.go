package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/sphynx-hq/sphynx/internal/ai"
	"github.com/sphynx-hq/sphynx/internal/candidate"
	"github.com/sphynx-hq/sphynx/internal/logger"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

// Scorer asks Gemini to rate a candidate profile against the requirement.
type Scorer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewScorer(generator contentGenerator, log *zap.Logger, maxLogLength int) *Scorer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Scorer{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

func (s *Scorer) Evaluate(ctx context.Context, requirement string, profile *candidate.Profile) (*ai.Assessment, error) {
	if strings.TrimSpace(requirement) == "" {
		return nil, fmt.Errorf("requirement is required")
	}
	if profile == nil {
		return nil, fmt.Errorf("profile is required")
	}

	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal profile payload: %w", err)
	}

	prompt := buildPrompt(requirement, string(profileJSON))

	s.logger.Debug("gemini generate content request",
		zap.String("login", profile.Login),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("gemini generate content response",
		zap.String("login", profile.Login),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, s.maxLogLen)),
	)

	assessment, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	assessment.Raw = raw
	return assessment, nil
}

func buildPrompt(requirement, profileJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Requirement:\n{{REQUIREMENT}}\n\nProfile:\n{{PROFILE_JSON}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{REQUIREMENT}}", requirement)
	prompt = strings.ReplaceAll(prompt, "{{PROFILE_JSON}}", profileJSON)
	return prompt
}

var integerPattern = regexp.MustCompile(`-?\d+`)

// parseResponse accepts the strict JSON shape first, then falls back to
// pulling the first in-range integer out of prose. Models embed the
// score in text often enough that the fallback earns its keep.
func parseResponse(raw string) (*ai.Assessment, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err == nil {
		if score, ok := coerceScore(data["score"]); ok {
			explanation := coerceString(data["explanation"])
			if explanation == "" {
				explanation = "no explanation provided"
			}
			return &ai.Assessment{Score: score, Explanation: explanation}, nil
		}
	}

	for _, match := range integerPattern.FindAllString(raw, -1) {
		if score, ok := scoreInRange(match); ok {
			return &ai.Assessment{
				Score:       score,
				Explanation: strings.TrimSpace(raw),
			}, nil
		}
	}

	return nil, fmt.Errorf("no valid score found in response")
}

func coerceScore(v any) (int, bool) {
	switch val := v.(type) {
	case float64:
		return scoreInRange(strconv.FormatFloat(val, 'f', -1, 64))
	case string:
		return scoreInRange(val)
	default:
		return 0, false
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	default:
		if v == nil {
			return ""
		}
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

func scoreInRange(text string) (int, bool) {
	// A fractional score like 87.5 still yields its integer part.
	if idx := strings.IndexByte(text, '.'); idx != -1 {
		text = text[:idx]
	}
	score, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || score < 0 || score > 100 {
		return 0, false
	}
	return score, true
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
