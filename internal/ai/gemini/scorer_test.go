package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/sphynx-hq/sphynx/internal/candidate"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestScorerEvaluate(t *testing.T) {
	stub := &stubGenerator{response: `{"score": 85, "explanation": "Strong Go background"}`}
	scorer := NewScorer(stub, zap.NewNop(), 0)

	profile := &candidate.Profile{Login: "octocat", Name: "The Octocat"}

	assessment, err := scorer.Evaluate(context.Background(), "Go developer", profile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assessment.Score != 85 {
		t.Fatalf("expected score 85, got %d", assessment.Score)
	}
	if assessment.Explanation != "Strong Go background" {
		t.Fatalf("unexpected explanation: %q", assessment.Explanation)
	}
	if assessment.Raw == "" {
		t.Fatalf("expected raw response to be preserved")
	}

	if !strings.Contains(stub.lastPrompt, "Go developer") {
		t.Fatalf("expected requirement in prompt")
	}
	if !strings.Contains(stub.lastPrompt, "octocat") {
		t.Fatalf("expected profile payload in prompt")
	}
}

func TestScorerEvaluatePropagatesGeneratorError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("quota exceeded")}
	scorer := NewScorer(stub, zap.NewNop(), 0)

	_, err := scorer.Evaluate(context.Background(), "Go developer", &candidate.Profile{Login: "octocat"})
	if err == nil {
		t.Fatal("expected error from generator")
	}
}

func TestParseResponseHandlesCodeBlock(t *testing.T) {
	raw := "```json\n{\"score\": \"72\", \"explanation\": \"Looks good\"}\n```"
	assessment, err := parseResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assessment.Score != 72 {
		t.Fatalf("expected score 72, got %d", assessment.Score)
	}
	if assessment.Explanation != "Looks good" {
		t.Fatalf("unexpected explanation: %q", assessment.Explanation)
	}
}

func TestParseResponseExtractsScoreFromProse(t *testing.T) {
	raw := "I would rate this candidate 64 out of 100 because the language match is partial."
	assessment, err := parseResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assessment.Score != 64 {
		t.Fatalf("expected score 64, got %d", assessment.Score)
	}
	if assessment.Explanation == "" {
		t.Fatalf("expected prose kept as explanation")
	}
}

func TestParseResponseSkipsOutOfRangeIntegers(t *testing.T) {
	raw := "On a scale up to 1000 this is a 450. Final score: 88."
	assessment, err := parseResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assessment.Score != 88 {
		t.Fatalf("expected first in-range integer 88, got %d", assessment.Score)
	}
}

func TestParseResponseFractionalScore(t *testing.T) {
	raw := `{"score": 87.5, "explanation": "solid"}`
	assessment, err := parseResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assessment.Score != 87 {
		t.Fatalf("expected score 87, got %d", assessment.Score)
	}
}

func TestParseResponseRejectsUnscorableText(t *testing.T) {
	if _, err := parseResponse("I cannot evaluate this candidate."); err == nil {
		t.Fatal("expected error for text without a score")
	}
}
