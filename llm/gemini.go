// Google Gemini Provider implementation using official google.golang.org/genai SDK.
//
// Information Hiding:
// - API authentication and client creation
// - Request/response format for Gemini API
// - System instruction handling via config

package llm

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// GeminiProvider implements the Provider interface for Google Gemini.
type GeminiProvider struct {
	client      *genai.Client
	model       string
	temperature float32
	maxRetries  int
	timeout     time.Duration
	initErr     error // client initialization error, reported on first use
}

// NewGeminiProvider creates a new Gemini provider.
// If client initialization fails, the error is stored and returned on first use.
func NewGeminiProvider(apiKey, model string, maxRetries int, timeout time.Duration) *GeminiProvider {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	p := &GeminiProvider{
		model:       model,
		temperature: 0.7,
		maxRetries:  maxRetries,
		timeout:     timeout,
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		p.initErr = fmt.Errorf("failed to initialize Gemini client: %w", err)
		return p
	}
	p.client = client
	return p
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Model returns the current model.
func (p *GeminiProvider) Model() string {
	return p.model
}

// GenerateText executes one generation call with internal retry.
func (p *GeminiProvider) GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (GenerationResult, error) {
	if p.initErr != nil {
		return GenerationResult{}, newError(p.Name(), ErrInvalidAPIKey, "client initialization failed", 0, p.initErr)
	}

	model := p.model
	if opts.Model != "" {
		model = opts.Model
	}
	temperature := p.temperature
	if opts.Temperature > 0 {
		temperature = opts.Temperature
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		MaxOutputTokens: int32(opts.maxTokensOrDefault()),
	}
	if opts.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(opts.SystemPrompt, genai.RoleUser)
	}
	if opts.ResponseFormat == FormatJSON {
		config.ResponseMIMEType = "application/json"
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	return withRetries(ctx, p.maxRetries, func(ctx context.Context) (GenerationResult, *GenerationError) {
		attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		response, err := p.client.Models.GenerateContent(attemptCtx, model, contents, config)
		if err != nil {
			return GenerationResult{}, Classify(p.Name(), err)
		}

		finish := FinishStop
		if len(response.Candidates) > 0 {
			switch response.Candidates[0].FinishReason {
			case genai.FinishReasonSafety, genai.FinishReasonProhibitedContent:
				return GenerationResult{}, newError(p.Name(), ErrContentFilter, "response blocked by safety policy", 0, nil)
			case genai.FinishReasonMaxTokens:
				finish = FinishLength
			}
		}

		content := response.Text()
		if content == "" {
			return GenerationResult{}, newError(p.Name(), ErrUnknown, "empty response from Gemini", 0, nil)
		}

		var usage *TokenUsage
		if response.UsageMetadata != nil {
			usage = &TokenUsage{
				PromptTokens:     int(response.UsageMetadata.PromptTokenCount),
				CompletionTokens: int(response.UsageMetadata.CandidatesTokenCount),
				TotalTokens:      int(response.UsageMetadata.TotalTokenCount),
			}
		}

		return GenerationResult{
			Content:      content,
			Usage:        usage,
			Model:        model,
			FinishReason: finish,
		}, nil
	})
}

// AnalyzeContent analyzes educational content via the shared pipeline.
func (p *GeminiProvider) AnalyzeContent(ctx context.Context, content string, analysisType AnalysisType) (ContentAnalysis, error) {
	return analyzeWith(ctx, p, content, analysisType)
}

// ValidateResponse checks raw model output for usable JSON.
func (p *GeminiProvider) ValidateResponse(text string) ValidationResult {
	return validateResponseText(text)
}

// Verify GeminiProvider implements Provider
var _ Provider = (*GeminiProvider)(nil)
