// OpenAI Provider implementation using go-openai library.
//
// Information Hiding:
// - API endpoint and authentication
// - Request/response format for OpenAI Chat Completions API
// - Error classification and retry via shared helpers

package llm

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements the Provider interface for OpenAI.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
	maxRetries  int
	timeout     time.Duration
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(apiKey, model string, maxRetries int, timeout time.Duration) *OpenAIProvider {
	return newOpenAICompatible(openai.NewClient(apiKey), model, maxRetries, timeout)
}

func newOpenAICompatible(client *openai.Client, model string, maxRetries int, timeout time.Duration) *OpenAIProvider {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAIProvider{
		client:      client,
		model:       model,
		temperature: 0.7,
		maxRetries:  maxRetries,
		timeout:     timeout,
	}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Model returns the current model.
func (p *OpenAIProvider) Model() string {
	return p.model
}

// GenerateText executes one generation call with internal retry.
func (p *OpenAIProvider) GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (GenerationResult, error) {
	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    buildOpenAIMessages(prompt, opts.SystemPrompt),
		MaxTokens:   opts.maxTokensOrDefault(),
		Temperature: p.temperature,
	}
	if opts.Model != "" {
		req.Model = opts.Model
	}
	if opts.Temperature > 0 {
		req.Temperature = opts.Temperature
	}
	if opts.ResponseFormat == FormatJSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	return withRetries(ctx, p.maxRetries, func(ctx context.Context) (GenerationResult, *GenerationError) {
		attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		resp, err := p.client.CreateChatCompletion(attemptCtx, req)
		if err != nil {
			return GenerationResult{}, Classify(p.Name(), err)
		}
		if len(resp.Choices) == 0 {
			return GenerationResult{}, newError(p.Name(), ErrUnknown, "empty choices in response", 0, nil)
		}

		choice := resp.Choices[0]
		if choice.FinishReason == openai.FinishReasonContentFilter {
			return GenerationResult{}, newError(p.Name(), ErrContentFilter, "response blocked by content policy", 0, nil)
		}

		return GenerationResult{
			Content: choice.Message.Content,
			Usage: &TokenUsage{
				PromptTokens:     resp.Usage.PromptTokens,
				CompletionTokens: resp.Usage.CompletionTokens,
				TotalTokens:      resp.Usage.TotalTokens,
			},
			Model:        resp.Model,
			FinishReason: mapOpenAIFinishReason(choice.FinishReason),
		}, nil
	})
}

// AnalyzeContent analyzes educational content via the shared pipeline.
func (p *OpenAIProvider) AnalyzeContent(ctx context.Context, content string, analysisType AnalysisType) (ContentAnalysis, error) {
	return analyzeWith(ctx, p, content, analysisType)
}

// ValidateResponse checks raw model output for usable JSON.
func (p *OpenAIProvider) ValidateResponse(text string) ValidationResult {
	return validateResponseText(text)
}

// buildOpenAIMessages assembles the optional system message and the user
// prompt in OpenAI chat format.
func buildOpenAIMessages(prompt, systemPrompt string) []openai.ChatCompletionMessage {
	var messages []openai.ChatCompletionMessage
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	return append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})
}

func mapOpenAIFinishReason(reason openai.FinishReason) FinishReason {
	switch reason {
	case openai.FinishReasonStop:
		return FinishStop
	case openai.FinishReasonLength:
		return FinishLength
	case openai.FinishReasonContentFilter:
		return FinishContentFilter
	default:
		return FinishStop
	}
}

// Verify OpenAIProvider implements Provider
var _ Provider = (*OpenAIProvider)(nil)
