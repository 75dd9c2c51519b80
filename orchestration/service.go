// AIService coordinates the full generation pipeline: admission control
// through the rate limiter, the provider call, artifact validation, and
// deterministic local fallback.
//
// Structured generation never fails: GenerateAssessment,
// GeneratePersonalizedRoadmap and AnalyzeContent always return a usable
// artifact, substituting locally generated output when the remote
// provider cannot serve. Only GenerateText surfaces errors, because its
// callers can show a degraded-but-honest message to the user.

package orchestration

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	ijson "github.com/edustack/coursegen/internal/json"
	"github.com/edustack/coursegen/llm"
	"github.com/edustack/coursegen/ratelimit"
	"github.com/edustack/coursegen/storage"
)

// AIService is the generation orchestrator. Construct with NewAIService;
// the zero value is not usable.
type AIService struct {
	mu       sync.RWMutex
	provider llm.Provider
	limiter  *ratelimit.Limiter
	fallback *llm.LocalProvider
	store    *storage.GenerationStore
}

// NewAIService creates an orchestrator over the given provider and
// limiter. Both are supplied by the caller; the service creates only its
// own local fallback provider.
func NewAIService(provider llm.Provider, limiter *ratelimit.Limiter) *AIService {
	return &AIService{
		provider: provider,
		limiter:  limiter,
		fallback: llm.NewLocalProvider(),
	}
}

// WithStore attaches a persistence store for generation records. Saving
// is best-effort: storage failures never affect generation results.
func (s *AIService) WithStore(store *storage.GenerationStore) *AIService {
	s.store = store
	return s
}

// SwitchProvider replaces the active provider. In-flight calls finish on
// the provider they started with.
func (s *AIService) SwitchProvider(p llm.Provider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = p
}

// Provider returns the active provider.
func (s *AIService) Provider() llm.Provider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provider
}

// LimiterStats reports current rate limiter usage.
func (s *AIService) LimiterStats() ratelimit.Stats {
	return s.limiter.Stats()
}

// GenerateText runs one rate-limited text generation. A limiter denial
// returns a RATE_LIMIT GenerationError carrying the retry hint without
// touching the provider. Fallback-eligible provider failures are served
// by the local provider instead of an error; everything else propagates.
func (s *AIService) GenerateText(ctx context.Context, prompt string, opts llm.GenerateOptions) (llm.GenerationResult, error) {
	provider := s.Provider()

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = llm.DefaultMaxTokens
	}
	estimate := llm.EstimateTokens(prompt, maxTokens)

	decision := s.limiter.Check(estimate)
	if !decision.Allowed {
		return llm.GenerationResult{}, &llm.GenerationError{
			Code:       llm.ErrRateLimit,
			Provider:   provider.Name(),
			Message:    "request rejected by local rate limiter",
			RetryAfter: decision.RetryAfter,
		}
	}

	result, err := provider.GenerateText(ctx, prompt, opts)
	if err != nil {
		if llm.FallbackEligible(err) {
			return s.fallback.GenerateText(ctx, prompt, opts)
		}
		return llm.GenerationResult{}, err
	}

	// Admission used the estimate; accounting uses the real cost when
	// the backend reports it.
	actual := estimate
	if result.Usage != nil && result.Usage.TotalTokens > 0 {
		actual = result.Usage.TotalTokens
	}
	s.limiter.Record(actual)

	return result, nil
}

// GenerateAssessment produces a schema-valid assessment for the given
// input. It never fails: any rate limit denial, provider failure, parse
// failure or validation failure yields the deterministic local
// assessment instead.
func (s *AIService) GenerateAssessment(ctx context.Context, input AssessmentInput) GeneratedAssessment {
	provider := s.Provider()
	system, user := buildAssessmentPrompt(input)

	result, err := s.GenerateText(ctx, user, llm.GenerateOptions{
		SystemPrompt:   system,
		ResponseFormat: llm.FormatJSON,
	})

	var assessment GeneratedAssessment
	remote := err == nil
	if remote {
		if perr := ijson.UnmarshalInto(result.Content, &assessment); perr != nil {
			remote = false
		} else if verr := ValidateAssessment(&assessment, input); verr != nil {
			remote = false
		}
	}
	if !remote {
		assessment = localAssessment(input)
		s.record(ctx, storage.KindAssessment, provider, llm.GenerationResult{}, assessment, true)
		return assessment
	}

	assessment.Metadata.GeneratedBy = fmt.Sprintf("%s/%s", provider.Name(), result.Model)
	s.record(ctx, storage.KindAssessment, provider, result, assessment, false)
	return assessment
}

// GeneratePersonalizedRoadmap produces a schema-valid learning roadmap
// for the given input. Never fails; see GenerateAssessment.
func (s *AIService) GeneratePersonalizedRoadmap(ctx context.Context, input RoadmapInput) GeneratedRoadmap {
	provider := s.Provider()
	system, user := buildRoadmapPrompt(input)

	result, err := s.GenerateText(ctx, user, llm.GenerateOptions{
		SystemPrompt:   system,
		ResponseFormat: llm.FormatJSON,
	})

	var roadmap GeneratedRoadmap
	remote := err == nil
	if remote {
		if perr := ijson.UnmarshalInto(result.Content, &roadmap); perr != nil {
			remote = false
		} else if verr := ValidateRoadmap(&roadmap); verr != nil {
			remote = false
		}
	}
	if !remote {
		roadmap = localRoadmap(input)
		s.record(ctx, storage.KindRoadmap, provider, llm.GenerationResult{}, roadmap, true)
		return roadmap
	}

	roadmap.GeneratedBy = fmt.Sprintf("%s/%s", provider.Name(), result.Model)
	s.record(ctx, storage.KindRoadmap, provider, result, roadmap, false)
	return roadmap
}

// AnalyzeContent runs a rate-limited content analysis. Denials and
// provider failures degrade to the fixed default analysis via the local
// provider, so the result is always fully populated.
func (s *AIService) AnalyzeContent(ctx context.Context, content string, analysisType llm.AnalysisType) llm.ContentAnalysis {
	provider := s.Provider()

	estimate := llm.EstimateTokens(content, llm.DefaultMaxTokens)
	decision := s.limiter.Check(estimate)
	if !decision.Allowed {
		analysis, _ := s.fallback.AnalyzeContent(ctx, content, analysisType)
		return analysis
	}

	analysis, err := provider.AnalyzeContent(ctx, content, analysisType)
	if err != nil {
		analysis, _ = s.fallback.AnalyzeContent(ctx, content, analysisType)
		return analysis
	}
	s.limiter.Record(estimate)
	return analysis
}

// record saves a generation record when a store is attached. Failures
// are dropped: persistence is an audit trail, not part of the result.
func (s *AIService) record(ctx context.Context, kind storage.GenerationKind, provider llm.Provider, result llm.GenerationResult, artifact any, fallback bool) {
	if s.store == nil {
		return
	}

	doc, err := json.Marshal(artifact)
	if err != nil {
		return
	}

	rec := storage.GenerationRecord{
		Kind:     kind,
		Provider: provider.Name(),
		Model:    result.Model,
		Artifact: string(doc),
		Fallback: fallback,
	}
	if fallback {
		rec.Provider = llm.LocalProviderName
		rec.Model = s.fallback.Model()
	}
	if result.Usage != nil {
		rec.PromptTokens = result.Usage.PromptTokens
		rec.CompletionTokens = result.Usage.CompletionTokens
		rec.TotalTokens = result.Usage.TotalTokens
	}
	_, _ = s.store.Save(ctx, rec)
}
