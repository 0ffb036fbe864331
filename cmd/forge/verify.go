package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"screenforge/internal/llm"
	"screenforge/internal/qa"
	"screenforge/internal/schema"
)

func newVerifyCmd() *cobra.Command {
	var quick bool
	var model string

	cmd := &cobra.Command{
		Use:   "verify ORIGINAL RENDERED",
		Short: "Compare a rendered screenshot against the original frame",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd.Context(), args[0], args[1], quick, model)
		},
	}

	cmd.Flags().BoolVar(&quick, "quick", false, "Structural score only, no issue enumeration")
	cmd.Flags().StringVar(&model, "model", "", "Model override for issue enumeration")

	return cmd
}

func runVerify(ctx context.Context, originalPath, renderedPath string, quick bool, model string) error {
	original, err := os.ReadFile(originalPath)
	if err != nil {
		return fmt.Errorf("read original: %w", err)
	}
	rendered, err := os.ReadFile(renderedPath)
	if err != nil {
		return fmt.Errorf("read rendered: %w", err)
	}

	var report schema.VerificationReport
	if quick {
		report, err = qa.New(nil).QuickVerify(original, rendered)
		if err != nil {
			return err
		}
	} else {
		_ = godotenv.Load()
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is not set (use --quick for a score-only check)")
		}
		if model == "" {
			model = os.Getenv("ASSEMBLE_MODEL")
		}
		if model == "" {
			model = "gemini-2.5-pro"
		}

		client, err := llm.NewGeminiClient(ctx, apiKey, model)
		if err != nil {
			return fmt.Errorf("llm client: %w", err)
		}
		defer client.Close()

		wrapped := llm.Wrap(client, llm.Retry(3, 300*time.Millisecond))
		report, err = qa.New(wrapped).Verify(ctx, original, rendered,
			mimeForPath(originalPath, "image/png"), mimeForPath(renderedPath, "image/png"))
		if err != nil {
			return err
		}
	}

	printReport(report)
	return nil
}

func printReport(report schema.VerificationReport) {
	switch report.Verdict {
	case schema.VerdictPass:
		color.Green("✓ %s (SSIM %.4f)", report.Verdict, report.SSIMScore)
	case schema.VerdictNeedsFixes:
		color.Yellow("⚠ %s (SSIM %.4f)", report.Verdict, report.SSIMScore)
	default:
		color.Red("✗ %s (SSIM %.4f)", report.Verdict, report.SSIMScore)
	}

	for _, issue := range report.Issues {
		fmt.Printf("  [%s] %s at %s: %s\n", issue.Severity, issue.Type, issue.Location, issue.Description)
	}
	for _, fix := range report.AutoFixSuggestions {
		fmt.Printf("  fix %s { %s: %s }\n", fix.Selector, fix.Property, fix.SuggestedValue)
	}
}
