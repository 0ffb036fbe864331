package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyResponse signals the model returned no usable candidates.
var ErrEmptyResponse = errors.New("llm: empty response from model")

// PermanentError marks failures that retrying cannot fix (bad request,
// unsupported media, safety block). Middleware stops retrying on these.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return fmt.Sprintf("permanent: %v", e.Err) }
func (e *PermanentError) Unwrap() error { return e.Err }

// Media is an inline attachment for a multimodal request.
type Media struct {
	MIMEType string
	Data     []byte
}

// Request is a single extraction or generation call. Extraction phases set
// ResponseMIME to application/json and a low temperature; assembly leaves
// ResponseMIME empty and streams.
type Request struct {
	Prompt       string
	Media        []Media
	Temperature  float32
	ResponseMIME string
}

type Usage struct {
	PromptTokens int32 `json:"promptTokens"`
	OutputTokens int32 `json:"outputTokens"`
	TotalTokens  int32 `json:"totalTokens"`
}

func (u Usage) Add(o Usage) Usage {
	return Usage{
		PromptTokens: u.PromptTokens + o.PromptTokens,
		OutputTokens: u.OutputTokens + o.OutputTokens,
		TotalTokens:  u.TotalTokens + o.TotalTokens,
	}
}

type Result struct {
	Text  string
	Usage Usage
}

// Client abstracts the multimodal model. Cross-cutting concerns (retry,
// logging, hooks) are applied via Middleware, not baked into implementations.
type Client interface {
	Name() string
	Generate(ctx context.Context, req Request) (*Result, error)
	GenerateStream(ctx context.Context, req Request, onChunk func(chunk string)) (*Result, error)
	Close() error
}
