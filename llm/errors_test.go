package llm

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

func TestClassifyOpenAIStatusCodes(t *testing.T) {
	cases := []struct {
		status   int
		wantCode ErrorCode
	}{
		{429, ErrRateLimit},
		{401, ErrInvalidAPIKey},
		{403, ErrInvalidAPIKey},
		{503, ErrModelUnavailable},
		{502, ErrModelUnavailable},
		{500, ErrNetwork},
		{400, ErrUnknown},
	}

	for _, tc := range cases {
		err := &openai.APIError{HTTPStatusCode: tc.status, Message: "api error"}
		gerr := Classify("openai", err)
		if gerr.Code != tc.wantCode {
			t.Errorf("status %d: expected %s, got %s", tc.status, tc.wantCode, gerr.Code)
		}
		if gerr.Provider != "openai" {
			t.Errorf("status %d: expected provider openai, got %q", tc.status, gerr.Provider)
		}
		if !errors.Is(gerr, err) {
			t.Errorf("status %d: classified error should wrap the original", tc.status)
		}
	}
}

func TestClassifyOpenAIContentPolicy(t *testing.T) {
	err := &openai.APIError{
		HTTPStatusCode: 400,
		Code:           "content_policy_violation",
		Message:        "rejected",
	}
	if gerr := Classify("openai", err); gerr.Code != ErrContentFilter {
		t.Errorf("expected CONTENT_FILTER, got %s", gerr.Code)
	}
}

func TestClassifyGenai(t *testing.T) {
	gerr := Classify("gemini", genai.APIError{Code: 429, Message: "quota"})
	if gerr.Code != ErrRateLimit {
		t.Errorf("expected RATE_LIMIT, got %s", gerr.Code)
	}
}

func TestClassifyTransportErrors(t *testing.T) {
	if gerr := Classify("openai", context.DeadlineExceeded); gerr.Code != ErrNetwork {
		t.Errorf("deadline: expected NETWORK_ERROR, got %s", gerr.Code)
	}

	uerr := &url.Error{Op: "Post", URL: "https://api.example.com", Err: errors.New("connection refused")}
	if gerr := Classify("openai", uerr); gerr.Code != ErrNetwork {
		t.Errorf("url error: expected NETWORK_ERROR, got %s", gerr.Code)
	}
}

func TestClassifyUnknown(t *testing.T) {
	gerr := Classify("openai", errors.New("something odd"))
	if gerr.Code != ErrUnknown {
		t.Errorf("expected UNKNOWN, got %s", gerr.Code)
	}
}

func TestClassifyPassesThroughClassifiedErrors(t *testing.T) {
	original := newError("anthropic", ErrRateLimit, "throttled", 7*time.Second, nil)
	gerr := Classify("openai", original)
	if gerr != original {
		t.Error("expected already-classified error to pass through unchanged")
	}
	if gerr.RetryAfter != 7*time.Second {
		t.Errorf("expected RetryAfter preserved, got %v", gerr.RetryAfter)
	}
}

func TestErrorTraits(t *testing.T) {
	cases := []struct {
		code             ErrorCode
		retryable        bool
		fallbackEligible bool
	}{
		{ErrRateLimit, true, true},
		{ErrInvalidAPIKey, false, true},
		{ErrModelUnavailable, true, true},
		{ErrContentFilter, false, false},
		{ErrNetwork, true, true},
		{ErrUnknown, false, false},
	}

	for _, tc := range cases {
		gerr := newError("test", tc.code, "msg", 0, nil)
		if gerr.Retryable() != tc.retryable {
			t.Errorf("%s: expected retryable=%v", tc.code, tc.retryable)
		}
		if gerr.FallbackEligible() != tc.fallbackEligible {
			t.Errorf("%s: expected fallbackEligible=%v", tc.code, tc.fallbackEligible)
		}
	}
}

func TestFallbackEligibleHelper(t *testing.T) {
	if !FallbackEligible(newError("test", ErrRateLimit, "msg", 0, nil)) {
		t.Error("expected rate limit error to be fallback eligible")
	}
	if FallbackEligible(newError("test", ErrContentFilter, "msg", 0, nil)) {
		t.Error("expected content filter error to not be fallback eligible")
	}
	if FallbackEligible(errors.New("plain")) {
		t.Error("expected plain error to not be fallback eligible")
	}
	if FallbackEligible(nil) {
		t.Error("expected nil to not be fallback eligible")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(newError("test", ErrModelUnavailable, "msg", 0, nil)); got != ErrModelUnavailable {
		t.Errorf("expected MODEL_UNAVAILABLE, got %s", got)
	}
	if got := CodeOf(errors.New("plain")); got != ErrUnknown {
		t.Errorf("expected UNKNOWN for unclassified error, got %s", got)
	}
}

func TestRetryAfterFrom(t *testing.T) {
	header := http.Header{}
	header.Set("retry-after", "12")
	resp := &http.Response{Header: header}
	if got := retryAfterFrom(resp); got != 12*time.Second {
		t.Errorf("expected 12s, got %v", got)
	}

	if got := retryAfterFrom(nil); got != 0 {
		t.Errorf("expected 0 for nil response, got %v", got)
	}
	if got := retryAfterFrom(&http.Response{Header: http.Header{}}); got != 0 {
		t.Errorf("expected 0 for missing header, got %v", got)
	}

	header = http.Header{}
	header.Set("retry-after", "Wed, 21 Oct 2026 07:28:00 GMT")
	if got := retryAfterFrom(&http.Response{Header: header}); got != 0 {
		t.Errorf("expected 0 for http-date form, got %v", got)
	}
}

func TestGenerationErrorMessage(t *testing.T) {
	gerr := newError("openai", ErrRateLimit, "too many requests", 0, errors.New("429"))
	msg := gerr.Error()
	for _, want := range []string{"openai", "RATE_LIMIT", "too many requests"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected error message to contain %q, got %q", want, msg)
		}
	}
}
