// Local fallback provider: deterministic, always available.
//
// Used by the orchestrator when the remote provider is unavailable or a
// failure is classified as fallback-eligible. Every call succeeds and
// produces structurally valid output with zero network access.

package llm

import (
	"context"
	"fmt"
	"strings"
)

// LocalProviderName identifies the fallback provider in errors and records.
const LocalProviderName = "local"

// LocalProvider implements Provider with deterministic local generation.
type LocalProvider struct{}

// NewLocalProvider creates the guaranteed-available fallback provider.
func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

// Name returns the provider name.
func (p *LocalProvider) Name() string {
	return LocalProviderName
}

// Model returns the current model.
func (p *LocalProvider) Model() string {
	return "deterministic-v1"
}

// GenerateText produces a deterministic response derived from the prompt.
// It never fails and performs no I/O.
func (p *LocalProvider) GenerateText(_ context.Context, prompt string, opts GenerateOptions) (GenerationResult, error) {
	var content string
	if opts.ResponseFormat == FormatJSON {
		content = "{}"
	} else {
		content = fmt.Sprintf(
			"The generation service is currently operating in offline mode. "+
				"Request received: %s. Please retry later for a model-generated response.",
			promptSummary(prompt))
	}

	promptTokens := estimateTokens(prompt)
	completionTokens := estimateTokens(content)
	return GenerationResult{
		Content: content,
		Usage: &TokenUsage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
		Model:        p.Model(),
		FinishReason: FinishStop,
	}, nil
}

// AnalyzeContent runs the shared pipeline over the local generator. Its
// output never parses as an analysis document, so this always yields the
// fully populated default analysis.
func (p *LocalProvider) AnalyzeContent(ctx context.Context, content string, analysisType AnalysisType) (ContentAnalysis, error) {
	return analyzeWith(ctx, p, content, analysisType)
}

// ValidateResponse checks raw model output for usable JSON.
func (p *LocalProvider) ValidateResponse(text string) ValidationResult {
	return validateResponseText(text)
}

// promptSummary returns the first line of the prompt, truncated.
func promptSummary(prompt string) string {
	line := prompt
	if idx := strings.IndexByte(line, '\n'); idx != -1 {
		line = line[:idx]
	}
	if len(line) > 80 {
		line = line[:80] + "..."
	}
	return strings.TrimSpace(line)
}

// estimateTokens is the cheap model-agnostic heuristic of one token per
// four characters, rounded up.
func estimateTokens(s string) int {
	return (len(s) + 3) / 4
}

// EstimateTokens estimates the token cost of a prompt for admission
// control. Never used for billing.
func EstimateTokens(prompt string, maxTokens int) int {
	return estimateTokens(prompt) + maxTokens
}

// Verify LocalProvider implements Provider
var _ Provider = (*LocalProvider)(nil)
