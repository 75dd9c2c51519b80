package llm

import (
	"context"
	"strings"
	"testing"
)

func TestLocalProviderGenerateTextJSON(t *testing.T) {
	p := NewLocalProvider()

	result, err := p.GenerateText(context.Background(), "generate something", GenerateOptions{
		ResponseFormat: FormatJSON,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Content != "{}" {
		t.Errorf("expected empty JSON object, got %q", result.Content)
	}
	if result.FinishReason != FinishStop {
		t.Errorf("expected stop, got %q", result.FinishReason)
	}
	if result.Usage == nil || result.Usage.TotalTokens != result.Usage.PromptTokens+result.Usage.CompletionTokens {
		t.Errorf("inconsistent usage: %+v", result.Usage)
	}
}

func TestLocalProviderGenerateTextPlain(t *testing.T) {
	p := NewLocalProvider()

	result, err := p.GenerateText(context.Background(), "Summarize chapter 3\nwith details", GenerateOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Content, "offline mode") {
		t.Errorf("expected offline notice, got %q", result.Content)
	}
	if !strings.Contains(result.Content, "Summarize chapter 3") {
		t.Errorf("expected prompt summary in response, got %q", result.Content)
	}
	if strings.Contains(result.Content, "with details") {
		t.Errorf("expected only the first prompt line in the summary, got %q", result.Content)
	}
}

func TestLocalProviderAnalyzeContentYieldsDefaults(t *testing.T) {
	p := NewLocalProvider()

	analysis, err := p.AnalyzeContent(context.Background(), "Some course text.", AnalysisGeneric)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := defaultContentAnalysis()
	if analysis.KeyTopics[0] != want.KeyTopics[0] || analysis.Difficulty != want.Difficulty {
		t.Errorf("expected the default analysis, got %+v", analysis)
	}
}

func TestPromptSummaryTruncates(t *testing.T) {
	long := strings.Repeat("a", 200)
	got := promptSummary(long)
	if len(got) != 83 {
		t.Errorf("expected 80 chars plus ellipsis, got %d: %q", len(got), got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
}

func TestEstimateTokens(t *testing.T) {
	cases := []struct {
		s    string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{strings.Repeat("x", 400), 100},
	}
	for _, tc := range cases {
		if got := estimateTokens(tc.s); got != tc.want {
			t.Errorf("estimateTokens(%d chars): expected %d, got %d", len(tc.s), tc.want, got)
		}
	}

	if got := EstimateTokens("abcd", 100); got != 101 {
		t.Errorf("expected prompt estimate plus budget = 101, got %d", got)
	}
}
