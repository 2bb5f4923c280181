package services

import (
	"context"
	"fmt"
	"strings"
)

// PersonalityTraits is the OCEAN input for prediction, each trait scored
// 1-10 by the candidate's self-assessment.
type PersonalityTraits struct {
	Gender            string
	Age               int
	Openness          int
	Conscientiousness int
	Extraversion      int
	Agreeableness     int
	Neuroticism       int
}

// PersonalityPredictor maps OCEAN traits to a dominant Big Five label. It is
// a stateless collaborator injected at startup, never a lazily created
// global.
type PersonalityPredictor interface {
	Predict(ctx context.Context, traits PersonalityTraits) (string, error)
}

var personalityLabels = map[string]bool{
	"openness":          true,
	"conscientiousness": true,
	"extraversion":      true,
	"agreeableness":     true,
	"neuroticism":       true,
}

type geminiPersonalityPredictor struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewGeminiPersonalityPredictor(gemini GeminiService, maxRetries int) PersonalityPredictor {
	return &geminiPersonalityPredictor{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

// Predict implements PersonalityPredictor.
func (p *geminiPersonalityPredictor) Predict(ctx context.Context, traits PersonalityTraits) (string, error) {
	prompt := p.promptBuilder.BuildPersonalityPrompt(traits)

	response, err := p.gemini.GenerateTextWithRetry(ctx, prompt, 0.1, p.maxRetries)
	if err != nil {
		return "", fmt.Errorf("failed to predict personality: %w", err)
	}

	label := strings.ToLower(strings.TrimSpace(response))
	label = strings.Trim(label, ".\"' ")
	if !personalityLabels[label] {
		return "", fmt.Errorf("unexpected personality label %q", label)
	}

	return label, nil
}
