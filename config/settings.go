// Package config provides application settings loaded from environment variables.
//
// Settings are created via New() which handles:
// - Environment variable parsing with validation
// - Default value application
// - Provider-specific configuration lookup

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Settings holds all application configuration.
type Settings struct {
	AI        AIConfig
	RateLimit RateLimitConfig
}

// AIConfig holds generation provider configuration.
type AIConfig struct {
	Provider    string
	Model       string
	MaxTokens   int
	Temperature float64
	MaxRetries  int
	Timeout     time.Duration
}

// RateLimitConfig holds admission-control configuration.
// BurstLimit zero means derive from RequestsPerMinute.
type RateLimitConfig struct {
	RequestsPerMinute int
	TokensPerMinute   int
	BurstLimit        int
}

// providerInfo holds configuration for a specific generation provider.
type providerInfo struct {
	modelEnv     string
	defaultModel string
	apiKeyEnv    string
}

// Supported providers and their configuration. The local provider needs
// no API key and no model override.
var providers = map[string]providerInfo{
	"openai":    {"OPENAI_MODEL", "gpt-4o", "OPENAI_API_KEY"},
	"anthropic": {"ANTHROPIC_MODEL", "claude-sonnet-4-20250514", "ANTHROPIC_API_KEY"},
	"deepseek":  {"DEEPSEEK_MODEL", "deepseek-chat", "DEEPSEEK_API_KEY"},
	"gemini":    {"GEMINI_MODEL", "gemini-2.5-flash", "GEMINI_API_KEY"},
	"local":     {"", "deterministic-v1", ""},
}

// Provider aliases map to canonical names.
var providerAliases = map[string]string{
	"claude":  "anthropic",
	"google":  "gemini",
	"gpt":     "openai",
	"offline": "local",
}

// New creates settings for the specified provider, loading values from environment variables.
// Returns an error if the provider is unknown or environment variables contain invalid values.
func New(provider string) (Settings, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return Settings{}, err
	}

	maxTokens, err := getEnvInt("AI_MAX_TOKENS", 2048)
	if err != nil {
		return Settings{}, err
	}

	temperature, err := getEnvFloat64("AI_TEMPERATURE", 0.7)
	if err != nil {
		return Settings{}, err
	}

	maxRetries, err := getEnvInt("AI_MAX_RETRIES", 3)
	if err != nil {
		return Settings{}, err
	}

	timeoutSeconds, err := getEnvInt("AI_TIMEOUT_SECONDS", 30)
	if err != nil {
		return Settings{}, err
	}

	requestsPerMinute, err := getEnvInt("AI_REQUESTS_PER_MINUTE", 60)
	if err != nil {
		return Settings{}, err
	}

	tokensPerMinute, err := getEnvInt("AI_TOKENS_PER_MINUTE", 90000)
	if err != nil {
		return Settings{}, err
	}

	burstLimit, err := getEnvInt("AI_BURST_LIMIT", 0)
	if err != nil {
		return Settings{}, err
	}

	// Get model from environment or use default
	model := info.defaultModel
	if info.modelEnv != "" {
		if val := os.Getenv(info.modelEnv); val != "" {
			model = val
		}
	}

	return Settings{
		AI: AIConfig{
			Provider:    provider,
			Model:       model,
			MaxTokens:   maxTokens,
			Temperature: temperature,
			MaxRetries:  maxRetries,
			Timeout:     time.Duration(timeoutSeconds) * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: requestsPerMinute,
			TokensPerMinute:   tokensPerMinute,
			BurstLimit:        burstLimit,
		},
	}, nil
}

// MustNew creates settings for the specified provider.
// Panics if the provider is unknown or environment variables are invalid.
// Use this only when configuration errors should be fatal.
func MustNew(provider string) Settings {
	settings, err := New(provider)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return settings
}

// normalizeProvider converts provider aliases to canonical names.
func normalizeProvider(provider string) string {
	provider = strings.ToLower(provider)
	if canonical, ok := providerAliases[provider]; ok {
		return canonical
	}
	return provider
}

// getProviderInfo returns configuration for a provider.
func getProviderInfo(provider string) (providerInfo, error) {
	info, ok := providers[provider]
	if !ok {
		return providerInfo{}, fmt.Errorf("unknown provider: %q", provider)
	}
	return info, nil
}

// APIKeyFor returns the API key for a provider from environment variables.
// The local provider needs no key and always returns an empty string.
func APIKeyFor(provider string) (string, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return "", err
	}
	if info.apiKeyEnv == "" {
		return "", nil
	}

	key := os.Getenv(info.apiKeyEnv)
	if key == "" {
		return "", fmt.Errorf("%s environment variable not set", info.apiKeyEnv)
	}
	return key, nil
}

// ModelFor returns the model for a provider, checking environment first.
func ModelFor(provider string) (string, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return "", err
	}

	if info.modelEnv != "" {
		if val := os.Getenv(info.modelEnv); val != "" {
			return val, nil
		}
	}
	return info.defaultModel, nil
}

// SupportedProviders returns the list of supported provider names.
func SupportedProviders() []string {
	result := make([]string, 0, len(providers))
	for name := range providers {
		result = append(result, name)
	}
	return result
}

// Environment variable helpers with proper error handling

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return i, nil
}

func getEnvFloat64(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return f, nil
}
