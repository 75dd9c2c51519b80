// DeepSeek Provider implementation using go-openai library.
//
// Information Hiding:
// - Uses OpenAI-compatible API with a different base URL
// - Supports deepseek-chat and deepseek-reasoner models

package llm

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const deepseekBaseURL = "https://api.deepseek.com/v1"

// DeepSeekProvider implements the Provider interface for DeepSeek.
// The wire protocol is OpenAI-compatible, so it wraps the shared
// OpenAI-compatible provider with DeepSeek's endpoint.
type DeepSeekProvider struct {
	inner *OpenAIProvider
}

// NewDeepSeekProvider creates a new DeepSeek provider.
func NewDeepSeekProvider(apiKey, model string, maxRetries int, timeout time.Duration) *DeepSeekProvider {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = deepseekBaseURL
	return &DeepSeekProvider{
		inner: newOpenAICompatible(openai.NewClientWithConfig(config), model, maxRetries, timeout),
	}
}

// Name returns the provider name.
func (p *DeepSeekProvider) Name() string {
	return "deepseek"
}

// Model returns the current model.
func (p *DeepSeekProvider) Model() string {
	return p.inner.Model()
}

// GenerateText executes one generation call with internal retry.
func (p *DeepSeekProvider) GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (GenerationResult, error) {
	result, err := p.inner.GenerateText(ctx, prompt, opts)
	if err != nil {
		if gerr, ok := err.(*GenerationError); ok {
			// Reclassify under this provider's name.
			return GenerationResult{}, newError(p.Name(), gerr.Code, gerr.Message, gerr.RetryAfter, gerr.Err)
		}
		return GenerationResult{}, err
	}
	return result, nil
}

// AnalyzeContent analyzes educational content via the shared pipeline.
func (p *DeepSeekProvider) AnalyzeContent(ctx context.Context, content string, analysisType AnalysisType) (ContentAnalysis, error) {
	return analyzeWith(ctx, p, content, analysisType)
}

// ValidateResponse checks raw model output for usable JSON.
func (p *DeepSeekProvider) ValidateResponse(text string) ValidationResult {
	return validateResponseText(text)
}

// Verify DeepSeekProvider implements Provider
var _ Provider = (*DeepSeekProvider)(nil)
