// Package qa is the post-generation verification stage. It scores a rendering
// of the assembled document against the original reference frame. QA is
// advisory: it must never abort an otherwise-successful pipeline run, so all
// model-output parsing in here degrades instead of failing.
package qa

import (
	"context"
	"log"

	"screenforge/internal/llm"
	"screenforge/internal/schema"
	"screenforge/internal/util/jsonutil"
)

type Tester struct {
	Client      llm.Client
	Temperature float32
}

func New(client llm.Client) *Tester {
	return &Tester{Client: client, Temperature: 0.1}
}

// QuickVerify returns only the SSIM score and verdict, for low-latency checks.
func (t *Tester) QuickVerify(original, rendered []byte) (schema.VerificationReport, error) {
	score, err := ssim(original, rendered)
	if err != nil {
		return schema.VerificationReport{}, err
	}
	return schema.VerificationReport{
		SSIMScore:          score,
		OverallAccuracy:    score,
		Verdict:            schema.ClassifyScore(score),
		Issues:             []schema.Issue{},
		AutoFixSuggestions: []schema.AutoFix{},
	}, nil
}

// Verify computes the SSIM verdict and additionally asks the vision model to
// enumerate localized issues with CSS auto-fix suggestions. Model failures
// leave the numeric report intact.
func (t *Tester) Verify(ctx context.Context, original, rendered []byte, originalMIME, renderedMIME string) (schema.VerificationReport, error) {
	report, err := t.QuickVerify(original, rendered)
	if err != nil {
		return schema.VerificationReport{}, err
	}

	ctx = llm.WithPhase(ctx, "qa")
	res, err := t.Client.Generate(ctx, llm.Request{
		Prompt: issuePrompt,
		Media: []llm.Media{
			{MIMEType: originalMIME, Data: original},
			{MIMEType: renderedMIME, Data: rendered},
		},
		Temperature:  t.Temperature,
		ResponseMIME: "application/json",
	})
	if err != nil {
		log.Printf("qa: issue enumeration failed, returning score-only report: %v", err)
		return report, nil
	}

	var detail struct {
		OverallAccuracy    float64          `json:"overallAccuracy"`
		Issues             []schema.Issue   `json:"issues"`
		AutoFixSuggestions []schema.AutoFix `json:"autoFixSuggestions"`
	}
	if !jsonutil.DecodeObject(res.Text, &detail) {
		log.Printf("qa: issue output was not parseable JSON, returning score-only report")
		return report, nil
	}
	if detail.OverallAccuracy > 0 && detail.OverallAccuracy <= 1 {
		report.OverallAccuracy = detail.OverallAccuracy
	}
	if detail.Issues != nil {
		report.Issues = detail.Issues
	}
	if detail.AutoFixSuggestions != nil {
		report.AutoFixSuggestions = detail.AutoFixSuggestions
	}
	return report, nil
}

const issuePrompt = `You are a visual QA reviewer. The first image is the original UI; the second
is a reconstruction. List concrete, localized differences.

Return STRICT JSON ONLY:
{
  "overallAccuracy": 0.0,
  "issues": [{"type": "layout|color|typography|content|spacing",
              "location": "string", "description": "string",
              "severity": "low|medium|high",
              "expected": "string", "actual": "string"}],
  "autoFixSuggestions": [{"selector": ".css-selector", "property": "string",
                          "suggestedValue": "string"}]
}

Only report differences you can point at. An empty issues array is a valid
answer for a faithful reconstruction.`
