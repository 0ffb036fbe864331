package qa

import (
	"context"
	"errors"
	"image/color"
	"testing"

	"screenforge/internal/llm"
	"screenforge/internal/schema"
	"screenforge/internal/tester"
)

func TestVerifyMergesModelIssues(t *testing.T) {
	img := encodePNG(t, checker(64, 64, color.White, color.Gray{Y: 220}))
	q := New(&llm.Fake{GenerateFn: func(ctx context.Context, req llm.Request) (*llm.Result, error) {
		tester.Eq(t, llm.PhaseFrom(ctx), "qa")
		tester.Eq(t, len(req.Media), 2)
		return &llm.Result{Text: `{
			"overallAccuracy": 0.91,
			"issues": [{"type": "color", "location": "sidebar",
			            "description": "background too dark", "severity": "low"}],
			"autoFixSuggestions": [{"selector": ".sidebar", "property": "background",
			                        "suggestedValue": "#1e293b"}]
		}`}, nil
	}})

	report, err := q.Verify(context.Background(), img, img, "image/png", "image/png")
	tester.NoErr(t, err)
	tester.Eq(t, report.Verdict, schema.VerdictPass)
	tester.Eq(t, report.OverallAccuracy, 0.91)
	tester.Eq(t, len(report.Issues), 1)
	tester.Eq(t, report.Issues[0].Location, "sidebar")
	tester.Eq(t, len(report.AutoFixSuggestions), 1)
}

func TestVerifyModelFailureKeepsScore(t *testing.T) {
	img := encodePNG(t, checker(64, 64, color.White, color.Gray{Y: 220}))
	q := New(&llm.Fake{GenerateFn: func(context.Context, llm.Request) (*llm.Result, error) {
		return nil, errors.New("model unavailable")
	}})

	report, err := q.Verify(context.Background(), img, img, "image/png", "image/png")
	tester.NoErr(t, err, "model failure must degrade to score-only report")
	tester.Eq(t, report.Verdict, schema.VerdictPass)
	tester.Eq(t, len(report.Issues), 0)
}

func TestVerifyGarbageModelOutputKeepsScore(t *testing.T) {
	img := encodePNG(t, checker(64, 64, color.White, color.Gray{Y: 220}))
	q := New(&llm.Fake{GenerateFn: func(context.Context, llm.Request) (*llm.Result, error) {
		return &llm.Result{Text: "they look pretty similar to me"}, nil
	}})

	report, err := q.Verify(context.Background(), img, img, "image/png", "image/png")
	tester.NoErr(t, err)
	tester.Eq(t, report.SSIMScore, report.OverallAccuracy)
}
