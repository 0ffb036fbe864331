package surveyor

import (
	"context"
	"errors"
	"testing"

	"screenforge/internal/llm"
	"screenforge/internal/schema"
	"screenforge/internal/tester"
)

const paletteJSON = `{
  "theme": "dark",
  "colors": {"background": "#0f172a", "primary": "#3b82f6"},
  "typography": {"fontFamily": "Roboto, sans-serif", "baseSize": 13},
  "confidence": 0.8
}`

const gridJSON = `{
  "imageDimensions": {"width": 1920, "height": 1080},
  "grid": {"columns": 4, "columnWidth": 420, "gutter": 24},
  "spacing": {"unit": 8, "cardPadding": 20},
  "confidence": 0.6,
  "warnings": ["gutter estimated from two cards only"]
}`

func TestMeasureParallelMergesHalves(t *testing.T) {
	s := New(&llm.Fake{GenerateFn: func(ctx context.Context, req llm.Request) (*llm.Result, error) {
		tester.Eq(t, llm.PhaseFrom(ctx), "survey")
		if req.Prompt == gridPrompt {
			return &llm.Result{Text: gridJSON, Usage: llm.Usage{TotalTokens: 10}}, nil
		}
		return &llm.Result{Text: paletteJSON, Usage: llm.Usage{TotalTokens: 7}}, nil
	}})

	m, usage, err := s.Measure(context.Background(), []byte("png"), "image/png")
	tester.NoErr(t, err)
	tester.Eq(t, m.Theme, schema.ThemeDark)
	tester.Eq(t, m.Colors.Background, "#0f172a")
	tester.Eq(t, m.Grid.Columns, 4)
	tester.Eq(t, m.ImageDimensions.Width, 1920)
	// Merged confidence is the weaker half.
	tester.Eq(t, m.Confidence, 0.6)
	tester.Eq(t, usage.TotalTokens, int32(17))
	tester.Eq(t, len(m.Warnings), 1)
	// Unmeasured fields were defaulted for the dark theme.
	tester.Eq(t, m.Colors.Surface, "#1e293b")
}

func TestMeasureFallsBackToSequential(t *testing.T) {
	calls := 0
	s := New(&llm.Fake{GenerateFn: func(ctx context.Context, req llm.Request) (*llm.Result, error) {
		calls++
		if req.Prompt != combinedPrompt {
			return nil, errors.New("sub-measurement unavailable")
		}
		return &llm.Result{Text: paletteJSON}, nil
	}})

	m, _, err := s.Measure(context.Background(), []byte("png"), "image/png")
	tester.NoErr(t, err)
	tester.Eq(t, m.Theme, schema.ThemeDark)
	tester.True(t, calls >= 2, "expected parallel attempt before sequential fallback")
}

func TestMeasureSequentialCallFailureYieldsDefaults(t *testing.T) {
	s := New(&llm.Fake{GenerateFn: func(context.Context, llm.Request) (*llm.Result, error) {
		return nil, errors.New("model unavailable")
	}})
	s.Sequential = true

	m, _, err := s.Measure(context.Background(), []byte("png"), "image/png")
	tester.NoErr(t, err, "surveyor failures must degrade, not error")
	tester.Eq(t, m.Theme, schema.ThemeLight)
	tester.Eq(t, m.Confidence, 0.3)
	tester.True(t, len(m.Warnings) > 0)
}

func TestMeasureSequentialGarbageYieldsDefaults(t *testing.T) {
	s := New(&llm.Fake{GenerateFn: func(context.Context, llm.Request) (*llm.Result, error) {
		return &llm.Result{Text: "the layout looks like a dashboard"}, nil
	}})
	s.Sequential = true

	m, _, err := s.Measure(context.Background(), []byte("png"), "image/png")
	tester.NoErr(t, err)
	tester.Eq(t, m.Grid.Columns, 12)
	tester.True(t, len(m.Warnings) > 0)
}
