// Anthropic Provider implementation using official anthropic-sdk-go.
//
// Information Hiding:
// - API endpoint and authentication
// - Request/response format for Anthropic Messages API
// - JSON output emulation (Anthropic has no response_format parameter)

package llm

import (
	"context"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider implements the Provider interface for Anthropic Claude.
type AnthropicProvider struct {
	client      anthropic.Client
	model       string
	temperature float64
	maxRetries  int
	timeout     time.Duration
}

// NewAnthropicProvider creates a new Anthropic provider.
func NewAnthropicProvider(apiKey, model string, maxRetries int, timeout time.Duration) *AnthropicProvider {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AnthropicProvider{
		// The SDK retries internally by default; disable so the shared
		// retry policy is the single source of backoff behavior.
		client:      anthropic.NewClient(option.WithAPIKey(apiKey), option.WithMaxRetries(0)),
		model:       model,
		temperature: 0.7,
		maxRetries:  maxRetries,
		timeout:     timeout,
	}
}

// Name returns the provider name.
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// Model returns the current model.
func (p *AnthropicProvider) Model() string {
	return p.model
}

// GenerateText executes one generation call with internal retry.
func (p *AnthropicProvider) GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (GenerationResult, error) {
	model := p.model
	if opts.Model != "" {
		model = opts.Model
	}
	temperature := p.temperature
	if opts.Temperature > 0 {
		temperature = float64(opts.Temperature)
	}

	systemPrompt := opts.SystemPrompt
	if opts.ResponseFormat == FormatJSON {
		// No native response_format; instruct instead.
		if systemPrompt != "" {
			systemPrompt += "\n\n"
		}
		systemPrompt += "Respond with a single valid JSON document and no other text."
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(opts.maxTokensOrDefault()),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(temperature),
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	return withRetries(ctx, p.maxRetries, func(ctx context.Context) (GenerationResult, *GenerationError) {
		attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		message, err := p.client.Messages.New(attemptCtx, params)
		if err != nil {
			return GenerationResult{}, Classify(p.Name(), err)
		}

		if message.StopReason == anthropic.StopReasonRefusal {
			return GenerationResult{}, newError(p.Name(), ErrContentFilter, "response refused by content policy", 0, nil)
		}

		content := ""
		for _, block := range message.Content {
			switch variant := block.AsAny().(type) {
			case anthropic.TextBlock:
				content += variant.Text
			}
		}

		var usage *TokenUsage
		if message.Usage.InputTokens > 0 || message.Usage.OutputTokens > 0 {
			usage = &TokenUsage{
				PromptTokens:     int(message.Usage.InputTokens),
				CompletionTokens: int(message.Usage.OutputTokens),
				TotalTokens:      int(message.Usage.InputTokens + message.Usage.OutputTokens),
			}
		}

		return GenerationResult{
			Content:      content,
			Usage:        usage,
			Model:        string(message.Model),
			FinishReason: mapAnthropicStopReason(message.StopReason),
		}, nil
	})
}

// AnalyzeContent analyzes educational content via the shared pipeline.
func (p *AnthropicProvider) AnalyzeContent(ctx context.Context, content string, analysisType AnalysisType) (ContentAnalysis, error) {
	return analyzeWith(ctx, p, content, analysisType)
}

// ValidateResponse checks raw model output for usable JSON.
func (p *AnthropicProvider) ValidateResponse(text string) ValidationResult {
	return validateResponseText(text)
}

func mapAnthropicStopReason(reason anthropic.StopReason) FinishReason {
	switch reason {
	case anthropic.StopReasonEndTurn, anthropic.StopReasonStopSequence:
		return FinishStop
	case anthropic.StopReasonMaxTokens:
		return FinishLength
	case anthropic.StopReasonRefusal:
		return FinishContentFilter
	default:
		return FinishStop
	}
}

// Verify AnthropicProvider implements Provider
var _ Provider = (*AnthropicProvider)(nil)
