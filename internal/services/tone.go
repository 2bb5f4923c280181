package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"smarthire/internal/models"
)

// Tone dimension names as returned by the analyzer.
const (
	ToneAnalytical = "Analytical"
	ToneConfident  = "Confident"
	ToneTentative  = "Tentative"
	ToneJoy        = "Joy"
	ToneFear       = "Fear"
)

// ToneAnalyzer scores a transcript across named tone dimensions. Providers
// may omit dimensions or return values outside [0,100]; NormalizeTones
// repairs both at this boundary so the pipeline never sees raw output.
type ToneAnalyzer interface {
	Score(ctx context.Context, text string) (map[string]float64, error)
}

// NormalizeTones converts raw named scores into the five stored dimensions:
// missing names default to 0, every value is clamped to [0,100] and rounded
// to two decimals.
func NormalizeTones(raw map[string]float64) models.ToneScores {
	return models.ToneScores{
		Analytical: clampScore(raw[ToneAnalytical]),
		Confident:  clampScore(raw[ToneConfident]),
		Tentative:  clampScore(raw[ToneTentative]),
		Joy:        clampScore(raw[ToneJoy]),
		Fear:       clampScore(raw[ToneFear]),
	}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return round2(v)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type geminiToneAnalyzer struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewGeminiToneAnalyzer(gemini GeminiService, maxRetries int) ToneAnalyzer {
	return &geminiToneAnalyzer{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

// Score implements ToneAnalyzer.
func (a *geminiToneAnalyzer) Score(ctx context.Context, text string) (map[string]float64, error) {
	prompt := a.promptBuilder.BuildToneAnalysisPrompt(text)

	response, err := a.gemini.GenerateTextWithRetry(ctx, prompt, 0.2, a.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to score tone: %w", err)
	}

	scores := map[string]float64{}
	jsonStr := extractJSON(response)
	if err := json.Unmarshal([]byte(jsonStr), &scores); err != nil {
		return nil, fmt.Errorf("failed to parse tone response: %w\nResponse: %s", err, response)
	}

	return scores, nil
}

// extractJSON strips markdown fences and isolates the first JSON object or
// array in an LLM response.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	} else if startArr != -1 && endArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}
