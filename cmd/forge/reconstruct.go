package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"screenforge/internal/llm"
	"screenforge/internal/pipeline"
	"screenforge/internal/preset"
	"screenforge/internal/util/jsonutil"
)

type reconstructOptions struct {
	framePath   string
	stylePreset string
	styleText   string
	dbContext   string
	outPath     string
	scanPath    string
	model       string
	skipSurvey  bool
	quiet       bool
}

func newReconstructCmd() *cobra.Command {
	opts := &reconstructOptions{}

	cmd := &cobra.Command{
		Use:   "reconstruct VIDEO",
		Short: "Scan a screen recording and assemble an HTML reconstruction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconstruct(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.framePath, "frame", "", "Reference frame image for pre-measurement")
	cmd.Flags().StringVar(&opts.stylePreset, "preset", "",
		fmt.Sprintf("Style preset name (one of: %s)", presetList()))
	cmd.Flags().StringVar(&opts.styleText, "style", "", "Free-form style directive (overrides --preset)")
	cmd.Flags().StringVar(&opts.dbContext, "db-context", "", "File with backend schema context for realistic sample data")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "out.html", "Output path for the assembled document")
	cmd.Flags().StringVar(&opts.scanPath, "scan-out", "scan.json", "Output path for the structured scan")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model override (defaults to SCAN_MODEL or gemini-2.5-pro)")
	cmd.Flags().BoolVar(&opts.skipSurvey, "skip-survey", false, "Skip the layout pre-measurement pass")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress streaming progress output")

	return cmd
}

func runReconstruct(ctx context.Context, videoPath string, opts *reconstructOptions) error {
	_ = godotenv.Load()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is not set")
	}
	model := opts.model
	if model == "" {
		model = os.Getenv("SCAN_MODEL")
	}
	if model == "" {
		model = "gemini-2.5-pro"
	}

	video, err := os.ReadFile(videoPath)
	if err != nil {
		return fmt.Errorf("read video: %w", err)
	}

	req := pipeline.Request{
		Video:      video,
		MIMEType:   mimeForPath(videoPath, "video/mp4"),
		SkipSurvey: opts.skipSurvey,
		SkipVerify: true,
	}
	if opts.framePath != "" {
		frame, err := os.ReadFile(opts.framePath)
		if err != nil {
			return fmt.Errorf("read frame: %w", err)
		}
		req.ReferenceFrame = frame
		req.ReferenceMIME = mimeForPath(opts.framePath, "image/png")
	}
	if opts.dbContext != "" {
		dbCtx, err := os.ReadFile(opts.dbContext)
		if err != nil {
			return fmt.Errorf("read db context: %w", err)
		}
		req.DatabaseContext = string(dbCtx)
	}
	req.StyleDirective = opts.styleText
	if req.StyleDirective == "" && opts.stylePreset != "" {
		directive, ok := preset.Builtin().Directive(opts.stylePreset)
		if !ok {
			return fmt.Errorf("unknown preset %q (available: %s)", opts.stylePreset, presetList())
		}
		req.StyleDirective = directive
	}

	client, err := llm.NewGeminiClient(ctx, apiKey, model)
	if err != nil {
		return fmt.Errorf("llm client: %w", err)
	}
	defer client.Close()

	wrapped := llm.Wrap(client,
		llm.Retry(3, 300*time.Millisecond),
	)

	pipe := pipeline.New(wrapped, pipeline.Config{})

	spin := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	spin.Suffix = " Scanning recording..."
	if !opts.quiet {
		spin.Start()
	}
	defer spin.Stop()

	completion, err := consumeRun(pipe.Run(ctx, req), func(status string) {
		spin.Suffix = status
	})
	spin.Stop()
	if err != nil {
		return err
	}

	if completion.ResponseKind != "" {
		color.Yellow("The model responded instead of producing code:")
		fmt.Println(completion.ResponseMessage)
		return nil
	}

	if err := os.WriteFile(opts.outPath, []byte(completion.Code), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if completion.ScanData != nil {
		scanJSON, err := jsonutil.MarshalNoEscape(completion.ScanData)
		if err == nil {
			if err := os.WriteFile(opts.scanPath, scanJSON, 0o644); err != nil {
				return fmt.Errorf("write scan: %w", err)
			}
		}
	}

	printSummary(completion, opts.outPath)
	return nil
}

// consumeRun drains a run's event stream, pushing progress text through
// update, and returns the terminal completion. A terminal error event ends
// the run with its Error field as the message.
func consumeRun(events <-chan pipeline.Event, update func(status string)) (*pipeline.Completion, error) {
	var completion *pipeline.Completion
	for ev := range events {
		switch ev.Type {
		case pipeline.EventStatus:
			if ev.Phase == pipeline.PhaseAssembling {
				update(" Assembling document...")
			} else if ev.Message != "" {
				update(" " + ev.Message)
			}
		case pipeline.EventChunk:
			update(fmt.Sprintf(" Assembling document... %d bytes", ev.TotalLength))
		case pipeline.EventComplete:
			completion = ev.Completion
		case pipeline.EventError:
			return nil, errors.New(ev.Error)
		}
	}
	if completion == nil {
		return nil, errors.New("pipeline ended without a result")
	}
	return completion, nil
}

func printSummary(c *pipeline.Completion, outPath string) {
	color.Green("✓ Reconstruction written to %s (%d bytes)", outPath, len(c.Code))

	if v := c.Validation; v != nil {
		line := fmt.Sprintf("  menu items %d/%d", v.MenuItemsFound, v.MenuItemsExpected)
		if v.MetricsExpected > 0 {
			line += fmt.Sprintf(", metrics %d", v.MetricsExpected)
		}
		if v.ChartsExpected > 0 {
			line += fmt.Sprintf(", charts %d", v.ChartsExpected)
		}
		if v.TablesExpected > 0 {
			line += fmt.Sprintf(", tables %d", v.TablesExpected)
		}
		fmt.Println(line)
	}
	if c.ValidationWarning != "" {
		color.Yellow("  ⚠ %s", c.ValidationWarning)
	}
	if u := c.TokenUsage; u != nil && u.TotalTokens > 0 {
		fmt.Printf("  tokens: %d prompt, %d output\n", u.PromptTokens, u.OutputTokens)
	}
	if c.DurationMillis > 0 {
		fmt.Printf("  took %s\n", (time.Duration(c.DurationMillis) * time.Millisecond).Round(100*time.Millisecond))
	}
}

func mimeForPath(path string, fallback string) string {
	types := map[string]string{
		".mp4":  "video/mp4",
		".webm": "video/webm",
		".mov":  "video/quicktime",
		".png":  "image/png",
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
	}
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return fallback
	}
	if mt, ok := types[strings.ToLower(path[idx:])]; ok {
		return mt
	}
	return fallback
}

func presetList() string {
	return strings.Join(preset.Builtin().Names(), ", ")
}
