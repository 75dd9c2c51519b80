// Package main provides the coursegen CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/edustack/coursegen/cli"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	provider string
	model    string
	dbPath   string
	verbose  bool
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "coursegen",
		Short: "Rate-limited AI generation for course content",
		Long: `Generate assessments, learning roadmaps and content analyses from
course material using a remote model provider.

Generation is rate limited and never fails outright: when the provider
is unavailable or rejects the request, a deterministic local generator
produces a schema-valid artifact instead.`,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "", "generation provider (openai, anthropic, deepseek, gemini, local)")
	rootCmd.PersistentFlags().StringVarP(&model, "model", "m", "", "model override for the selected provider")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite path for generation records (disabled when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show generation details on stderr")

	// Add commands
	rootCmd.AddCommand(assessCmd())
	rootCmd.AddCommand(roadmapCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(limitsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func options() cli.Options {
	return cli.Options{
		Provider: provider,
		Model:    model,
		DBPath:   dbPath,
		Verbose:  verbose,
	}
}

func assessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assess [input.json]",
		Short: "Generate an assessment from course material",
		Long: `Generate an assessment from a JSON input document describing the
content blocks, learning objectives, difficulty and question mix.
Reads stdin when the path is omitted or "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Assess(context.Background(), pathArg(args), options())
		},
	}
}

func roadmapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roadmap [input.json]",
		Short: "Generate a personalized learning roadmap",
		Long: `Generate a learning roadmap from a JSON input document describing the
student profile and the available course catalog.
Reads stdin when the path is omitted or "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Roadmap(context.Background(), pathArg(args), options())
		},
	}
}

func analyzeCmd() *cobra.Command {
	var analysisType string

	cmd := &cobra.Command{
		Use:   "analyze [content.txt]",
		Short: "Analyze educational content",
		Long: `Analyze a text document and report key topics, difficulty, learning
objectives, concepts, reading time and content type.
Reads stdin when the path is omitted or "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Analyze(context.Background(), pathArg(args), analysisType, options())
		},
	}

	cmd.Flags().StringVarP(&analysisType, "type", "t", "generic", "analysis type (assessment_generation, roadmap_creation, difficulty_assessment, generic)")

	return cmd
}

func limitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "limits",
		Short: "Show rate limit budgets and current usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Limits(options())
		},
	}
}

func pathArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
