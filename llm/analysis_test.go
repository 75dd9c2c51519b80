package llm

import (
	"strings"
	"testing"
)

func TestParseContentAnalysisValid(t *testing.T) {
	text := `{
		"key_topics": ["Recursion", "Stack Frames"],
		"difficulty": "advanced",
		"learning_objectives": ["Trace recursive calls"],
		"concepts": ["base case"],
		"estimated_reading_time": 12,
		"content_type": "theoretical"
	}`

	analysis := parseContentAnalysis(text)
	if len(analysis.KeyTopics) != 2 || analysis.KeyTopics[0] != "Recursion" {
		t.Errorf("unexpected key topics: %v", analysis.KeyTopics)
	}
	if analysis.Difficulty != DifficultyAdvanced {
		t.Errorf("expected advanced, got %q", analysis.Difficulty)
	}
	if analysis.EstimatedReadingTime != 12 {
		t.Errorf("expected 12 minutes, got %d", analysis.EstimatedReadingTime)
	}
}

func TestParseContentAnalysisFencedJSON(t *testing.T) {
	text := "```json\n{\"key_topics\": [\"Graphs\"], \"difficulty\": \"beginner\"}\n```"

	analysis := parseContentAnalysis(text)
	if len(analysis.KeyTopics) != 1 || analysis.KeyTopics[0] != "Graphs" {
		t.Errorf("expected fenced JSON to parse, got %v", analysis.KeyTopics)
	}
	if analysis.Difficulty != DifficultyBeginner {
		t.Errorf("expected beginner, got %q", analysis.Difficulty)
	}
}

func TestParseContentAnalysisDefaultsOnGarbage(t *testing.T) {
	for _, text := range []string{
		"I could not analyze this content.",
		"",
		`{"key_topics": []}`, // parses but carries no signal
	} {
		analysis := parseContentAnalysis(text)
		want := defaultContentAnalysis()
		if analysis.KeyTopics[0] != want.KeyTopics[0] {
			t.Errorf("%q: expected default topics, got %v", text, analysis.KeyTopics)
		}
		if analysis.Difficulty != DifficultyIntermediate {
			t.Errorf("%q: expected intermediate, got %q", text, analysis.Difficulty)
		}
		if analysis.ContentType != ContentMixed {
			t.Errorf("%q: expected mixed, got %q", text, analysis.ContentType)
		}
		if analysis.EstimatedReadingTime != 5 {
			t.Errorf("%q: expected 5 minutes, got %d", text, analysis.EstimatedReadingTime)
		}
	}
}

func TestParseContentAnalysisNormalizesFields(t *testing.T) {
	text := `{
		"key_topics": ["Sorting"],
		"difficulty": "impossible",
		"estimated_reading_time": -3,
		"content_type": "interpretive dance"
	}`

	analysis := parseContentAnalysis(text)
	if analysis.Difficulty != DifficultyIntermediate {
		t.Errorf("expected invalid difficulty normalized to intermediate, got %q", analysis.Difficulty)
	}
	if analysis.ContentType != ContentMixed {
		t.Errorf("expected invalid content type normalized to mixed, got %q", analysis.ContentType)
	}
	if analysis.EstimatedReadingTime != 5 {
		t.Errorf("expected non-positive reading time defaulted to 5, got %d", analysis.EstimatedReadingTime)
	}
	if analysis.LearningObjectives == nil || analysis.Concepts == nil {
		t.Error("expected nil slices replaced with empty slices")
	}
}

func TestBuildAnalysisPrompt(t *testing.T) {
	system, user := buildAnalysisPrompt("What is a pointer?", AnalysisAssessmentGeneration)
	if !strings.Contains(system, "key_topics") {
		t.Error("expected system prompt to embed the schema hint")
	}
	if !strings.Contains(system, "assessment") {
		t.Error("expected system prompt to reflect the analysis type")
	}
	if !strings.Contains(user, "What is a pointer?") {
		t.Error("expected user prompt to carry the content")
	}
}

func TestValidateResponseText(t *testing.T) {
	r := validateResponseText(`{"a": 1}`)
	if !r.Valid {
		t.Fatalf("expected valid, got issues %v", r.Issues)
	}
	if r.JSON != `{"a": 1}` {
		t.Errorf("unexpected extracted JSON: %q", r.JSON)
	}

	r = validateResponseText("Here you go:\n```json\n{\"a\": 1}\n```")
	if !r.Valid {
		t.Fatalf("expected fenced JSON to validate, got issues %v", r.Issues)
	}

	r = validateResponseText("no json here")
	if r.Valid {
		t.Error("expected invalid result for prose")
	}
	if len(r.Issues) == 0 {
		t.Error("expected issues describing the failure")
	}

	r = validateResponseText("   ")
	if r.Valid || len(r.Issues) == 0 {
		t.Error("expected invalid result with issues for empty response")
	}
}
