// Command execution for CLI commands.
//
// Information Hiding:
// - Service composition (provider, limiter, store) hidden
// - Input decoding hidden
// - Output formatting hidden

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/edustack/coursegen/config"
	"github.com/edustack/coursegen/llm"
	"github.com/edustack/coursegen/orchestration"
	"github.com/edustack/coursegen/ratelimit"
	"github.com/edustack/coursegen/storage"
)

// Options holds CLI execution options.
type Options struct {
	Provider string
	Model    string
	DBPath   string
	Verbose  bool
}

// DefaultOptions returns default CLI options.
func DefaultOptions() Options {
	return Options{
		Provider: "local",
	}
}

// newService composes the orchestrator from configuration: provider,
// rate limiter and optional record store, all constructed explicitly
// here at the edge. The returned cleanup is never nil.
func newService(opts Options) (*orchestration.AIService, func(), error) {
	providerName := opts.Provider
	if providerName == "" {
		providerName = os.Getenv("AI_PROVIDER")
	}
	if providerName == "" {
		providerName = "local"
	}

	settings, err := config.New(providerName)
	if err != nil {
		return nil, nil, err
	}

	providerType, err := llm.ParseProviderType(settings.AI.Provider)
	if err != nil {
		return nil, nil, err
	}

	builder := llm.NewProviderBuilder(providerType).
		MaxRetries(settings.AI.MaxRetries).
		Timeout(settings.AI.Timeout)
	if opts.Model != "" {
		builder = builder.Model(opts.Model)
	} else {
		builder = builder.Model(settings.AI.Model)
	}

	provider, err := builder.FromEnv()
	if err != nil {
		return nil, nil, err
	}

	limiter := ratelimit.New(ratelimit.Config{
		RequestsPerMinute: settings.RateLimit.RequestsPerMinute,
		TokensPerMinute:   settings.RateLimit.TokensPerMinute,
		BurstLimit:        settings.RateLimit.BurstLimit,
	})

	service := orchestration.NewAIService(provider, limiter)
	cleanup := func() {}

	if opts.DBPath != "" {
		store, err := storage.Open(opts.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open record store: %w", err)
		}
		service = service.WithStore(store)
		cleanup = func() { store.Close() }
	}

	return service, cleanup, nil
}

// Assess generates an assessment from a JSON input document and prints
// the artifact to stdout.
func Assess(ctx context.Context, inputPath string, opts Options) error {
	var input orchestration.AssessmentInput
	if err := decodeInput(inputPath, &input); err != nil {
		return err
	}

	service, cleanup, err := newService(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	assessment := service.GenerateAssessment(ctx, input)
	if opts.Verbose {
		fmt.Fprintf(os.Stderr, "generated by %s: %d questions, %d points\n",
			assessment.Metadata.GeneratedBy,
			assessment.Metadata.QuestionCount,
			assessment.Metadata.TotalPoints)
	}
	return printJSON(assessment)
}

// Roadmap generates a personalized roadmap from a JSON input document
// and prints the artifact to stdout.
func Roadmap(ctx context.Context, inputPath string, opts Options) error {
	var input orchestration.RoadmapInput
	if err := decodeInput(inputPath, &input); err != nil {
		return err
	}

	service, cleanup, err := newService(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	roadmap := service.GeneratePersonalizedRoadmap(ctx, input)
	if opts.Verbose {
		fmt.Fprintf(os.Stderr, "generated by %s: %d steps, %d minutes\n",
			roadmap.GeneratedBy, len(roadmap.LearningPath), roadmap.TotalEstimatedTime)
	}
	return printJSON(roadmap)
}

// Analyze runs content analysis over a text document and prints the
// analysis to stdout.
func Analyze(ctx context.Context, contentPath, analysisType string, opts Options) error {
	content, err := readInput(contentPath)
	if err != nil {
		return err
	}

	service, cleanup, err := newService(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	analysis := service.AnalyzeContent(ctx, string(content), llm.AnalysisType(analysisType))
	return printJSON(analysis)
}

// Limits prints the configured rate limit budgets and current window
// consumption.
func Limits(opts Options) error {
	providerName := opts.Provider
	if providerName == "" {
		providerName = "local"
	}
	settings, err := config.New(providerName)
	if err != nil {
		return err
	}

	service, cleanup, err := newService(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	stats := service.LimiterStats()
	fmt.Printf("provider:             %s\n", service.Provider().Name())
	fmt.Printf("requests per minute:  %d\n", settings.RateLimit.RequestsPerMinute)
	fmt.Printf("tokens per minute:    %d\n", settings.RateLimit.TokensPerMinute)
	fmt.Printf("requests used:        %d\n", stats.RequestsInLastMinute)
	fmt.Printf("tokens used:          %d\n", stats.TokensInLastMinute)
	fmt.Printf("requests remaining:   %d\n", stats.RequestsRemaining)
	fmt.Printf("tokens remaining:     %d\n", stats.TokensRemaining)
	return nil
}

// decodeInput reads a JSON document from a file, or stdin when path is
// "-" or empty.
func decodeInput(path string, v any) error {
	data, err := readInput(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode input: %w", err)
	}
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
