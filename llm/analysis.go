// Shared content-analysis pipeline, composed into every concrete provider.
//
// Free functions rather than an embedded base type: each provider calls
// analyzeWith from its AnalyzeContent method and validateResponseText from
// its ValidateResponse method, keeping provider-specific error mapping
// decoupled from the generic pipeline.
//
// Parsing is tolerant by policy: analysis feeds recommendation heuristics,
// not correctness-critical logic, so malformed model output degrades to a
// fixed default analysis instead of failing the call.

package llm

import (
	"context"
	"fmt"
	"strings"

	ijson "github.com/edustack/coursegen/internal/json"
)

const analysisMaxTokens = 1024

// analysisSchemaHint is embedded in every analysis system prompt so the
// model knows the exact document shape to produce.
const analysisSchemaHint = `Respond with a single JSON object and no other text, using exactly this shape:
{
  "key_topics": ["topic", ...],
  "difficulty": "beginner" | "intermediate" | "advanced",
  "learning_objectives": ["objective", ...],
  "concepts": ["concept", ...],
  "estimated_reading_time": <minutes>,
  "content_type": "theoretical" | "practical" | "mixed"
}`

// buildAnalysisPrompt returns the system and user prompts for an analysis
// call, specialized per analysis type.
func buildAnalysisPrompt(content string, analysisType AnalysisType) (system, user string) {
	var focus string
	switch analysisType {
	case AnalysisAssessmentGeneration:
		focus = "Identify the topics and concepts most suitable for assessment questions."
	case AnalysisRoadmapCreation:
		focus = "Identify the prerequisite structure and ordering of topics for a learning path."
	case AnalysisDifficulty:
		focus = "Judge the difficulty level of the material for a typical learner."
	default:
		focus = "Summarize the educational characteristics of the material."
	}

	system = "You are an expert curriculum analyst for an online learning platform. " +
		focus + "\n\n" + analysisSchemaHint
	user = "Analyze the following educational content:\n\n" + content
	return system, user
}

// analyzeWith implements AnalyzeContent on top of a provider's
// GenerateText. Generation failures propagate; parse failures never do.
func analyzeWith(ctx context.Context, p Provider, content string, analysisType AnalysisType) (ContentAnalysis, error) {
	system, user := buildAnalysisPrompt(content, analysisType)

	result, err := p.GenerateText(ctx, user, GenerateOptions{
		MaxTokens:      analysisMaxTokens,
		SystemPrompt:   system,
		ResponseFormat: FormatJSON,
	})
	if err != nil {
		return ContentAnalysis{}, fmt.Errorf("content analysis failed: %w", err)
	}

	return parseContentAnalysis(result.Content), nil
}

// parseContentAnalysis decodes model output into a ContentAnalysis,
// substituting the default analysis for unusable output and normalizing
// individual fields so the result is always fully populated.
func parseContentAnalysis(text string) ContentAnalysis {
	analysis, err := ijson.Unmarshal[ContentAnalysis](text)
	if err != nil || len(analysis.KeyTopics) == 0 {
		return defaultContentAnalysis()
	}

	switch analysis.Difficulty {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
	default:
		analysis.Difficulty = DifficultyIntermediate
	}
	switch analysis.ContentType {
	case ContentTheoretical, ContentPractical, ContentMixed:
	default:
		analysis.ContentType = ContentMixed
	}
	if analysis.EstimatedReadingTime <= 0 {
		analysis.EstimatedReadingTime = 5
	}
	if analysis.LearningObjectives == nil {
		analysis.LearningObjectives = []string{}
	}
	if analysis.Concepts == nil {
		analysis.Concepts = []string{}
	}
	return analysis
}

// defaultContentAnalysis is the fixed fallback returned when model output
// cannot be parsed.
func defaultContentAnalysis() ContentAnalysis {
	return ContentAnalysis{
		KeyTopics:            []string{"General Concepts"},
		Difficulty:           DifficultyIntermediate,
		LearningObjectives:   []string{},
		Concepts:             []string{},
		EstimatedReadingTime: 5,
		ContentType:          ContentMixed,
	}
}

// validateResponseText implements ValidateResponse for every provider.
func validateResponseText(text string) ValidationResult {
	if strings.TrimSpace(text) == "" {
		return ValidationResult{Issues: []string{"empty response"}}
	}
	doc, err := ijson.Extract(text)
	if err != nil {
		return ValidationResult{Issues: []string{err.Error()}}
	}
	return ValidationResult{Valid: true, JSON: doc}
}
