package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildToneAnalysisPrompt creates the prompt for scoring an interview answer
// across the five tone dimensions.
func (pb *PromptBuilder) BuildToneAnalysisPrompt(transcript string) string {
	return fmt.Sprintf(`You are a speech tone analyst reviewing the transcript of a recorded job-interview answer.

TRANSCRIPT:
%s

Score the overall tone of the answer on each of the following dimensions, where 0 means the tone is absent and 100 means it dominates the answer:
- Analytical: reasoning, structure, evidence of analytical thinking
- Confident: certainty, assertiveness, self-assurance
- Tentative: hedging, hesitation, qualifiers
- Joy: enthusiasm, positivity, energy
- Fear: anxiety, stress, apprehension

Return your response in the following JSON format:
{
  "Analytical": <0-100>,
  "Confident": <0-100>,
  "Tentative": <0-100>,
  "Joy": <0-100>,
  "Fear": <0-100>
}

Score only from the words in the transcript. Return ONLY the JSON object.`, transcript)
}

// BuildPersonalityPrompt creates the prompt that maps OCEAN trait scores to
// a dominant Big Five personality label.
func (pb *PromptBuilder) BuildPersonalityPrompt(traits PersonalityTraits) string {
	return fmt.Sprintf(`You are an organizational psychologist. A job candidate completed a Big Five self-assessment with each trait rated 1-10.

CANDIDATE:
- Gender: %s
- Age: %d
- Openness: %d
- Conscientiousness: %d
- Extraversion: %d
- Agreeableness: %d
- Neuroticism: %d

Name the candidate's dominant personality trait. Answer with exactly one of: openness, conscientiousness, extraversion, agreeableness, neuroticism.

Return ONLY the single lowercase word, no punctuation and no explanation.`,
		traits.Gender, traits.Age,
		traits.Openness, traits.Conscientiousness, traits.Extraversion,
		traits.Agreeableness, traits.Neuroticism)
}

// FormatSearchContext flattens transcript search hits for display or
// downstream prompting.
func FormatSearchContext(results []SearchResult) string {
	if len(results) == 0 {
		return "No relevant answers found."
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Answer %d (Score: %.2f) ---\n%s",
			i+1, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}
