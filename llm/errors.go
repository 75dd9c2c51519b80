// Typed error taxonomy for generation failures.
//
// Transport-level signals (HTTP status codes, network errors, SDK error
// types) are mapped onto the taxonomy exactly once, at the provider
// boundary. Everything above the providers reasons only in terms of
// ErrorCode, Retryable and FallbackEligible.

package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// ErrorCode identifies a generation failure category.
type ErrorCode string

const (
	ErrRateLimit        ErrorCode = "RATE_LIMIT"
	ErrInvalidAPIKey    ErrorCode = "INVALID_API_KEY"
	ErrModelUnavailable ErrorCode = "MODEL_UNAVAILABLE"
	ErrContentFilter    ErrorCode = "CONTENT_FILTER"
	ErrNetwork          ErrorCode = "NETWORK_ERROR"
	ErrUnknown          ErrorCode = "UNKNOWN"
)

// codeTraits fixes retry and fallback eligibility per error code.
var codeTraits = map[ErrorCode]struct {
	retryable        bool
	fallbackEligible bool
}{
	ErrRateLimit:        {retryable: true, fallbackEligible: true},
	ErrInvalidAPIKey:    {retryable: false, fallbackEligible: true},
	ErrModelUnavailable: {retryable: true, fallbackEligible: true},
	ErrContentFilter:    {retryable: false, fallbackEligible: false},
	ErrNetwork:          {retryable: true, fallbackEligible: true},
	ErrUnknown:          {retryable: false, fallbackEligible: false},
}

// GenerationError is the typed failure produced at the provider boundary.
// Created once per failure and never mutated.
type GenerationError struct {
	Code       ErrorCode
	Provider   string
	Message    string
	RetryAfter time.Duration // 0 when the backend gave no hint
	Err        error         // underlying transport error, may be nil
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Provider, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Code, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Retryable reports whether retrying the same call may succeed.
func (e *GenerationError) Retryable() bool {
	return codeTraits[e.Code].retryable
}

// FallbackEligible reports whether the orchestrator may substitute a
// locally generated artifact for this failure.
func (e *GenerationError) FallbackEligible() bool {
	return codeTraits[e.Code].fallbackEligible
}

// FallbackEligible reports whether err is a fallback-eligible GenerationError.
func FallbackEligible(err error) bool {
	var gerr *GenerationError
	return errors.As(err, &gerr) && gerr.FallbackEligible()
}

// CodeOf extracts the error code from err, or ErrUnknown if err is not a
// GenerationError.
func CodeOf(err error) ErrorCode {
	var gerr *GenerationError
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	return ErrUnknown
}

// Classify maps a transport-level error from any backend SDK onto the
// taxonomy. Already-classified errors pass through unchanged.
func Classify(provider string, err error) *GenerationError {
	var gerr *GenerationError
	if errors.As(err, &gerr) {
		return gerr
	}

	// OpenAI-compatible backends (go-openai).
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if isContentPolicy(fmt.Sprint(apiErr.Code)) || isContentPolicy(apiErr.Message) {
			return newError(provider, ErrContentFilter, apiErr.Message, 0, err)
		}
		return classifyStatus(provider, apiErr.HTTPStatusCode, apiErr.Message, 0, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(provider, reqErr.HTTPStatusCode, reqErr.Error(), 0, err)
	}

	// Anthropic SDK exposes the raw response, so a retry-after header
	// survives classification.
	var antErr *anthropic.Error
	if errors.As(err, &antErr) {
		retryAfter := retryAfterFrom(antErr.Response)
		return classifyStatus(provider, antErr.StatusCode, "anthropic api error", retryAfter, err)
	}

	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return classifyStatus(provider, genaiErr.Code, genaiErr.Message, 0, err)
	}

	// Transport failures below HTTP: DNS, connection refused, timeouts.
	var netErr net.Error
	var urlErr *url.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) || errors.As(err, &urlErr) {
		return newError(provider, ErrNetwork, "network failure", 0, err)
	}

	return newError(provider, ErrUnknown, "unclassified failure", 0, err)
}

// classifyStatus maps an HTTP status code onto the taxonomy.
func classifyStatus(provider string, status int, msg string, retryAfter time.Duration, err error) *GenerationError {
	switch {
	case status == http.StatusTooManyRequests:
		return newError(provider, ErrRateLimit, msg, retryAfter, err)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return newError(provider, ErrInvalidAPIKey, msg, 0, err)
	case status == http.StatusServiceUnavailable || status == http.StatusBadGateway:
		return newError(provider, ErrModelUnavailable, msg, retryAfter, err)
	case status >= 500:
		return newError(provider, ErrNetwork, msg, 0, err)
	default:
		return newError(provider, ErrUnknown, msg, 0, err)
	}
}

func newError(provider string, code ErrorCode, msg string, retryAfter time.Duration, err error) *GenerationError {
	if msg == "" {
		msg = "generation failed"
	}
	return &GenerationError{
		Code:       code,
		Provider:   provider,
		Message:    msg,
		RetryAfter: retryAfter,
		Err:        err,
	}
}

// retryAfterFrom reads a retry-after header (whole seconds form) from an
// HTTP response, if present.
func retryAfterFrom(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	raw := resp.Header.Get("retry-after")
	if raw == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// isContentPolicy detects backend content-policy rejections from error
// codes or messages.
func isContentPolicy(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "content_filter") ||
		strings.Contains(s, "content_policy") ||
		strings.Contains(s, "content management policy")
}
