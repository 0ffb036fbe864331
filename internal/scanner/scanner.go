// Package scanner runs the unified extraction pass: one multimodal call that
// turns a screen recording into ScanData. Content extraction has no safe
// default, so parse failures here are hard failures.
package scanner

import (
	"context"
	"fmt"

	"screenforge/internal/llm"
	"screenforge/internal/schema"
	"screenforge/internal/util/jsonutil"
)

// ParseError reports that the model output contained no recoverable ScanData.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("scanner: no valid scan JSON in %d bytes of model output", len(e.Raw))
}

type Scanner struct {
	Client      llm.Client
	Temperature float32
}

func New(client llm.Client) *Scanner {
	return &Scanner{Client: client, Temperature: 0.1}
}

// Scan extracts a ScanData record from a recording. The returned usage covers
// this single call; the orchestrator aggregates usage across stages.
func (s *Scanner) Scan(ctx context.Context, videoBytes []byte, mimeType string) (schema.ScanData, llm.Usage, error) {
	ctx = llm.WithPhase(ctx, "scan")
	res, err := s.Client.Generate(ctx, llm.Request{
		Prompt:       scanPrompt,
		Media:        []llm.Media{{MIMEType: mimeType, Data: videoBytes}},
		Temperature:  s.Temperature,
		ResponseMIME: "application/json",
	})
	if err != nil {
		return schema.ScanData{}, llm.Usage{}, fmt.Errorf("scanner: %w", err)
	}

	var scan schema.ScanData
	if !jsonutil.DecodeObject(res.Text, &scan) {
		return schema.ScanData{}, res.Usage, &ParseError{Raw: res.Text}
	}
	if err := scan.Normalize(); err != nil {
		return schema.ScanData{}, res.Usage, fmt.Errorf("scanner: %w", err)
	}
	return scan, res.Usage, nil
}
