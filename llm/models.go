// Shared data models for generation calls: options, results, usage,
// analysis schema and the tagged validation result.

package llm

// ResponseFormatType defines how the model should format its response.
type ResponseFormatType string

const (
	FormatText ResponseFormatType = "text"
	FormatJSON ResponseFormatType = "json"
)

// GenerateOptions configures a single generation call.
// Constructed per call; zero values fall back to provider defaults.
type GenerateOptions struct {
	MaxTokens      int
	Temperature    float32
	Model          string // overrides the provider's configured model
	SystemPrompt   string
	ResponseFormat ResponseFormatType
}

// DefaultMaxTokens is the completion budget applied when a call does not
// set one. Also used for admission-control estimates.
const DefaultMaxTokens = 2048

// maxTokensOrDefault applies the default completion budget.
func (o GenerateOptions) maxTokensOrDefault() int {
	if o.MaxTokens <= 0 {
		return DefaultMaxTokens
	}
	return o.MaxTokens
}

// FinishReason reports why the model stopped generating.
type FinishReason string

const (
	FinishStop          FinishReason = "stop"
	FinishLength        FinishReason = "length"
	FinishContentFilter FinishReason = "content_filter"
	FinishError         FinishReason = "error"
)

// TokenUsage contains token usage statistics as reported by the backend.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// GenerationResult represents a successful generation call.
// Usage is nil when the backend did not report token counts.
type GenerationResult struct {
	Content      string
	Usage        *TokenUsage
	Model        string
	FinishReason FinishReason
}

// AnalysisType selects the content-analysis prompt variant.
type AnalysisType string

const (
	AnalysisAssessmentGeneration AnalysisType = "assessment_generation"
	AnalysisRoadmapCreation      AnalysisType = "roadmap_creation"
	AnalysisDifficulty           AnalysisType = "difficulty_assessment"
	AnalysisGeneric              AnalysisType = "generic"
)

// Difficulty levels used across analyses and generated artifacts.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// ContentAnalysis is the fixed-schema result of analyzing educational
// content. All fields are always populated: parsing defaults missing or
// invalid fields rather than leaving them absent, so downstream consumers
// never branch on "missing".
type ContentAnalysis struct {
	KeyTopics            []string `json:"key_topics"`
	Difficulty           string   `json:"difficulty"`
	LearningObjectives   []string `json:"learning_objectives"`
	Concepts             []string `json:"concepts"`
	EstimatedReadingTime int      `json:"estimated_reading_time"`
	ContentType          string   `json:"content_type"`
}

// Content type classifications for ContentAnalysis.
const (
	ContentTheoretical = "theoretical"
	ContentPractical   = "practical"
	ContentMixed       = "mixed"
)

// ValidationResult is the tagged outcome of inspecting raw model output.
// When Valid is true, JSON holds the extracted JSON document; otherwise
// Issues describes what was wrong. Callers handle both branches explicitly.
type ValidationResult struct {
	Valid  bool
	JSON   string
	Issues []string
}
