package llm

import (
	"context"
	"strings"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client.
// It only covers the API call itself; retries, logging and hooks are
// applied via Middleware.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

func (g *GeminiClient) contents(req Request) []*genai.Content {
	parts := make([]*genai.Part, 0, len(req.Media)+1)
	for _, m := range req.Media {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: m.MIMEType, Data: m.Data},
		})
	}
	parts = append(parts, &genai.Part{Text: req.Prompt})
	return []*genai.Content{{Parts: parts}}
}

func (g *GeminiClient) config(req Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if req.ResponseMIME != "" {
		cfg.ResponseMIMEType = req.ResponseMIME
	}
	return cfg
}

func (g *GeminiClient) Generate(ctx context.Context, req Request) (*Result, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model, g.contents(req), g.config(req))
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrEmptyResponse
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return nil, ErrEmptyResponse
	}
	return &Result{Text: sb.String(), Usage: usageFrom(resp)}, nil
}

// GenerateStream forwards each partial text fragment to onChunk and returns
// the accumulated result. onChunk may be nil.
func (g *GeminiClient) GenerateStream(ctx context.Context, req Request, onChunk func(chunk string)) (*Result, error) {
	var sb strings.Builder
	var usage Usage
	for resp, err := range g.cli.Models.GenerateContentStream(ctx, g.model, g.contents(req), g.config(req)) {
		if err != nil {
			return nil, err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			continue
		}
		for _, p := range resp.Candidates[0].Content.Parts {
			if p.Text == "" {
				continue
			}
			sb.WriteString(p.Text)
			if onChunk != nil {
				onChunk(p.Text)
			}
		}
		if u := usageFrom(resp); u.TotalTokens > 0 {
			usage = u
		}
	}
	if sb.Len() == 0 {
		return nil, ErrEmptyResponse
	}
	return &Result{Text: sb.String(), Usage: usage}, nil
}

func usageFrom(resp *genai.GenerateContentResponse) Usage {
	if resp == nil || resp.UsageMetadata == nil {
		return Usage{}
	}
	return Usage{
		PromptTokens: resp.UsageMetadata.PromptTokenCount,
		OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
		TotalTokens:  resp.UsageMetadata.TotalTokenCount,
	}
}
