// Package llm provides LLM provider abstractions for content generation.
//
// Provider - the abstract interface for generation backends.
// Each provider implementation hides:
// - API client initialization and authentication
// - Request/response format conversion
// - Provider-specific error classification
// - Retry logic with backoff

package llm

import (
	"context"
)

// Provider defines the abstract interface for generation backends.
// Implementations hide backend-specific details while exposing a
// consistent interface for text generation and content analysis.
type Provider interface {
	// Name returns the provider name (for logging/debugging).
	Name() string

	// Model returns the current model being used.
	Model() string

	// GenerateText executes one generation call. Failures are returned as
	// *GenerationError with the transport-level signal mapped onto the
	// error taxonomy; retryable failures are retried internally with
	// backoff before surfacing.
	GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (GenerationResult, error)

	// AnalyzeContent builds a type-specific analysis prompt, delegates to
	// GenerateText and parses the response tolerantly. Malformed model
	// output yields a fully populated default analysis, never an error;
	// only the underlying generation call can fail.
	AnalyzeContent(ctx context.Context, content string, analysisType AnalysisType) (ContentAnalysis, error)

	// ValidateResponse checks whether raw model output carries usable JSON.
	// Call sites branch on the returned result explicitly instead of
	// recovering from parse errors ad hoc.
	ValidateResponse(text string) ValidationResult
}
