package orchestration

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/edustack/coursegen/llm"
	"github.com/edustack/coursegen/ratelimit"
	"github.com/edustack/coursegen/storage"
)

// stubProvider is a scriptable Provider for orchestration tests.
type stubProvider struct {
	name        string
	model       string
	calls       int
	result      llm.GenerationResult
	err         error
	analysis    llm.ContentAnalysis
	analysisErr error
}

func (s *stubProvider) Name() string  { return s.name }
func (s *stubProvider) Model() string { return s.model }

func (s *stubProvider) GenerateText(_ context.Context, _ string, _ llm.GenerateOptions) (llm.GenerationResult, error) {
	s.calls++
	if s.err != nil {
		return llm.GenerationResult{}, s.err
	}
	return s.result, nil
}

func (s *stubProvider) AnalyzeContent(_ context.Context, _ string, _ llm.AnalysisType) (llm.ContentAnalysis, error) {
	s.calls++
	if s.analysisErr != nil {
		return llm.ContentAnalysis{}, s.analysisErr
	}
	return s.analysis, nil
}

func (s *stubProvider) ValidateResponse(text string) llm.ValidationResult {
	return llm.ValidationResult{Valid: true, JSON: text}
}

var _ llm.Provider = (*stubProvider)(nil)

func newStub() *stubProvider {
	return &stubProvider{name: "stub", model: "stub-model"}
}

func openLimiter() *ratelimit.Limiter {
	return ratelimit.New(ratelimit.Config{RequestsPerMinute: 100, TokensPerMinute: 1_000_000})
}

func rateLimitError() *llm.GenerationError {
	return &llm.GenerationError{Code: llm.ErrRateLimit, Provider: "stub", Message: "throttled"}
}

func TestGenerateTextDenialShortCircuitsProvider(t *testing.T) {
	stub := newStub()
	limiter := ratelimit.New(ratelimit.Config{RequestsPerMinute: 1, TokensPerMinute: 1_000_000, BurstLimit: 10})
	limiter.Record(10) // exhaust the single slot

	service := NewAIService(stub, limiter)
	_, err := service.GenerateText(context.Background(), "hello", llm.GenerateOptions{})
	if err == nil {
		t.Fatal("expected rate limit error")
	}

	var gerr *llm.GenerationError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected GenerationError, got %T", err)
	}
	if gerr.Code != llm.ErrRateLimit {
		t.Errorf("expected RATE_LIMIT, got %s", gerr.Code)
	}
	if gerr.RetryAfter <= 0 {
		t.Errorf("expected positive RetryAfter hint, got %v", gerr.RetryAfter)
	}
	if stub.calls != 0 {
		t.Errorf("expected zero provider calls on denial, got %d", stub.calls)
	}
}

func TestGenerateTextRecordsActualUsage(t *testing.T) {
	stub := newStub()
	stub.result = llm.GenerationResult{
		Content:      "answer",
		Model:        "stub-model",
		FinishReason: llm.FinishStop,
		Usage:        &llm.TokenUsage{PromptTokens: 40, CompletionTokens: 83, TotalTokens: 123},
	}
	limiter := openLimiter()
	service := NewAIService(stub, limiter)

	result, err := service.GenerateText(context.Background(), "hello", llm.GenerateOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Content != "answer" {
		t.Errorf("unexpected content %q", result.Content)
	}

	stats := limiter.Stats()
	if stats.TokensInLastMinute != 123 {
		t.Errorf("expected actual usage recorded (123), got %d", stats.TokensInLastMinute)
	}
	if stats.RequestsInLastMinute != 1 {
		t.Errorf("expected 1 request recorded, got %d", stats.RequestsInLastMinute)
	}
}

func TestGenerateTextRecordsEstimateWithoutUsage(t *testing.T) {
	stub := newStub()
	stub.result = llm.GenerationResult{Content: "answer", FinishReason: llm.FinishStop}
	limiter := openLimiter()
	service := NewAIService(stub, limiter)

	prompt := strings.Repeat("x", 400) // 100 estimated prompt tokens
	_, err := service.GenerateText(context.Background(), prompt, llm.GenerateOptions{MaxTokens: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := limiter.Stats().TokensInLastMinute; got != 150 {
		t.Errorf("expected estimate (150) recorded when backend reports no usage, got %d", got)
	}
}

func TestGenerateTextFallsBackOnEligibleError(t *testing.T) {
	stub := newStub()
	stub.err = rateLimitError()
	limiter := openLimiter()
	service := NewAIService(stub, limiter)

	result, err := service.GenerateText(context.Background(), "hello", llm.GenerateOptions{
		ResponseFormat: llm.FormatJSON,
	})
	if err != nil {
		t.Fatalf("expected fallback instead of error, got %v", err)
	}
	if result.Content != "{}" {
		t.Errorf("expected local fallback JSON, got %q", result.Content)
	}
	if stub.calls != 1 {
		t.Errorf("expected 1 provider attempt, got %d", stub.calls)
	}
	if got := limiter.Stats().RequestsInLastMinute; got != 0 {
		t.Errorf("fallback consumed no remote budget, expected 0 recorded, got %d", got)
	}
}

func TestGenerateTextPropagatesIneligibleError(t *testing.T) {
	stub := newStub()
	stub.err = &llm.GenerationError{Code: llm.ErrContentFilter, Provider: "stub", Message: "refused"}
	service := NewAIService(stub, openLimiter())

	_, err := service.GenerateText(context.Background(), "hello", llm.GenerateOptions{})
	if err == nil {
		t.Fatal("expected content filter error to propagate")
	}
	if llm.CodeOf(err) != llm.ErrContentFilter {
		t.Errorf("expected CONTENT_FILTER, got %s", llm.CodeOf(err))
	}
}

func TestGenerateAssessmentFallsBackOnPersistentRateLimit(t *testing.T) {
	stub := newStub()
	stub.err = rateLimitError() // remote rejects every attempt
	service := NewAIService(stub, openLimiter())

	input := AssessmentInput{
		QuestionCount: 10,
		QuestionTypes: []QuestionType{QuestionMultipleChoice, QuestionTrueFalse},
	}
	a := service.GenerateAssessment(context.Background(), input)

	if len(a.Questions) != 10 {
		t.Fatalf("expected 10 questions from fallback, got %d", len(a.Questions))
	}
	if err := ValidateAssessment(&a, input); err != nil {
		t.Errorf("fallback artifact failed validation: %v", err)
	}
	if a.Metadata.TotalPoints != len(a.Questions)*10 {
		t.Errorf("expected total_points == questions * 10, got %d", a.Metadata.TotalPoints)
	}
	if a.Metadata.GeneratedBy != localGeneratedBy {
		t.Errorf("expected local fallback attribution, got %q", a.Metadata.GeneratedBy)
	}
}

func TestGenerateAssessmentRemoteSuccess(t *testing.T) {
	remote := GeneratedAssessment{
		Title: "Go Basics Quiz",
		Questions: []Question{
			{
				Type:          QuestionTrueFalse,
				QuestionText:  "Goroutines are OS threads.",
				CorrectAnswer: "false",
				Points:        20,
			},
		},
	}
	doc, err := json.Marshal(remote)
	if err != nil {
		t.Fatal(err)
	}

	stub := newStub()
	stub.result = llm.GenerationResult{
		Content:      "```json\n" + string(doc) + "\n```",
		Model:        "stub-model",
		FinishReason: llm.FinishStop,
	}
	service := NewAIService(stub, openLimiter())

	a := service.GenerateAssessment(context.Background(), AssessmentInput{})
	if a.Title != "Go Basics Quiz" {
		t.Errorf("expected remote artifact, got title %q", a.Title)
	}
	if a.Metadata.GeneratedBy != "stub/stub-model" {
		t.Errorf("expected provider attribution, got %q", a.Metadata.GeneratedBy)
	}
	if a.Metadata.TotalPoints != 20 {
		t.Errorf("expected metadata recomputed from questions, got %d", a.Metadata.TotalPoints)
	}
}

func TestGenerateAssessmentInvalidRemoteFallsBack(t *testing.T) {
	// Parses as JSON but fails validation: question missing correct_answer.
	stub := newStub()
	stub.result = llm.GenerationResult{
		Content: `{"title": "Bad", "questions": [{"type": "true_false", "question_text": "?"}]}`,
		Model:   "stub-model",
	}
	service := NewAIService(stub, openLimiter())

	a := service.GenerateAssessment(context.Background(), AssessmentInput{QuestionCount: 3})
	if a.Metadata.GeneratedBy != localGeneratedBy {
		t.Errorf("expected fallback for invalid remote artifact, got %q", a.Metadata.GeneratedBy)
	}
	if len(a.Questions) != 3 {
		t.Errorf("expected 3 fallback questions, got %d", len(a.Questions))
	}
}

func TestGeneratePersonalizedRoadmapRemoteSuccess(t *testing.T) {
	remote := GeneratedRoadmap{
		Title: "Backend Path",
		LearningPath: []RoadmapItem{
			{ContentID: "go-101", ContentType: "course", Title: "Intro", EstimatedTime: 120},
		},
	}
	doc, err := json.Marshal(remote)
	if err != nil {
		t.Fatal(err)
	}

	stub := newStub()
	stub.result = llm.GenerationResult{Content: string(doc), Model: "stub-model"}
	service := NewAIService(stub, openLimiter())

	r := service.GeneratePersonalizedRoadmap(context.Background(), RoadmapInput{})
	if r.Title != "Backend Path" {
		t.Errorf("expected remote artifact, got title %q", r.Title)
	}
	if r.GeneratedBy != "stub/stub-model" {
		t.Errorf("expected provider attribution, got %q", r.GeneratedBy)
	}
	if r.TotalEstimatedTime != 120 {
		t.Errorf("expected total recomputed, got %d", r.TotalEstimatedTime)
	}
}

func TestGeneratePersonalizedRoadmapFallsBack(t *testing.T) {
	stub := newStub()
	stub.err = rateLimitError()
	service := NewAIService(stub, openLimiter())

	input := RoadmapInput{
		AvailableCourses: []Course{{ID: "go-101", Title: "Intro to Go"}},
	}
	r := service.GeneratePersonalizedRoadmap(context.Background(), input)
	if r.GeneratedBy != localGeneratedBy {
		t.Errorf("expected local fallback, got %q", r.GeneratedBy)
	}
	if len(r.LearningPath) != 1 || r.LearningPath[0].ContentID != "go-101" {
		t.Errorf("expected catalog-derived path, got %+v", r.LearningPath)
	}
}

func TestAnalyzeContentFallsBackToDefaults(t *testing.T) {
	stub := newStub()
	stub.analysisErr = rateLimitError()
	service := NewAIService(stub, openLimiter())

	analysis := service.AnalyzeContent(context.Background(), "Some text.", llm.AnalysisGeneric)
	if len(analysis.KeyTopics) == 0 || analysis.KeyTopics[0] != "General Concepts" {
		t.Errorf("expected default analysis, got %+v", analysis)
	}
	if analysis.Difficulty != llm.DifficultyIntermediate {
		t.Errorf("expected intermediate default, got %q", analysis.Difficulty)
	}
}

func TestAnalyzeContentDenialSkipsProvider(t *testing.T) {
	stub := newStub()
	limiter := ratelimit.New(ratelimit.Config{RequestsPerMinute: 1, TokensPerMinute: 1_000_000, BurstLimit: 10})
	limiter.Record(10)

	service := NewAIService(stub, limiter)
	analysis := service.AnalyzeContent(context.Background(), "Some text.", llm.AnalysisGeneric)
	if stub.calls != 0 {
		t.Errorf("expected zero provider calls on denial, got %d", stub.calls)
	}
	if len(analysis.KeyTopics) == 0 {
		t.Error("expected populated default analysis on denial")
	}
}

func TestSwitchProvider(t *testing.T) {
	first := newStub()
	second := &stubProvider{name: "second", model: "m2"}
	service := NewAIService(first, openLimiter())

	if service.Provider().Name() != "stub" {
		t.Fatalf("unexpected initial provider %q", service.Provider().Name())
	}
	service.SwitchProvider(second)
	if service.Provider().Name() != "second" {
		t.Errorf("expected provider switched, got %q", service.Provider().Name())
	}
}

func TestServiceRecordsGenerations(t *testing.T) {
	store, err := storage.NewInMemory()
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	stub := newStub()
	stub.err = rateLimitError()
	service := NewAIService(stub, openLimiter()).WithStore(store)

	service.GenerateAssessment(context.Background(), AssessmentInput{QuestionCount: 2})

	records, err := store.ListRecent(context.Background(), storage.KindAssessment, 10)
	if err != nil {
		t.Fatalf("failed to list records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if !rec.Fallback {
		t.Error("expected record marked as fallback")
	}
	if rec.Provider != llm.LocalProviderName {
		t.Errorf("expected local provider in record, got %q", rec.Provider)
	}

	var a GeneratedAssessment
	if err := json.Unmarshal([]byte(rec.Artifact), &a); err != nil {
		t.Fatalf("stored artifact is not valid JSON: %v", err)
	}
	if len(a.Questions) != 2 {
		t.Errorf("expected stored artifact with 2 questions, got %d", len(a.Questions))
	}
}
