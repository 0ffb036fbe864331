package llm

import (
	"context"
	"errors"
	"log"
	"time"
)

// Middleware decorates a Client to inject cross-cutting concerns.
type Middleware func(Client) Client

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner Client, mws ...Middleware) Client {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// -------- Retry with exponential backoff --------

// Retry retries up to maxAttempts with exponential backoff starting at
// baseDelay. Permanent errors and context cancellation stop it immediately.
func Retry(maxAttempts int, baseDelay time.Duration) Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 300 * time.Millisecond
	}
	return func(next Client) Client {
		return &retrying{next: next, max: maxAttempts, base: baseDelay}
	}
}

type retrying struct {
	next Client
	max  int
	base time.Duration
}

func (r *retrying) Name() string { return r.next.Name() }
func (r *retrying) Close() error { return r.next.Close() }

func (r *retrying) Generate(ctx context.Context, req Request) (*Result, error) {
	return r.attempt(ctx, func() (*Result, error) { return r.next.Generate(ctx, req) })
}

func (r *retrying) GenerateStream(ctx context.Context, req Request, onChunk func(chunk string)) (*Result, error) {
	// A partially consumed stream must not be replayed on top of chunks the
	// caller already saw; retries only cover attempts that produced nothing.
	emitted := false
	wrapped := func(chunk string) {
		emitted = true
		if onChunk != nil {
			onChunk(chunk)
		}
	}
	var last error
	for i := 0; i < r.max; i++ {
		resp, err := r.next.GenerateStream(ctx, req, wrapped)
		if err == nil {
			return resp, nil
		}
		var pErr *PermanentError
		if errors.As(err, &pErr) || emitted {
			return nil, err
		}
		last = err
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		time.Sleep(r.base * time.Duration(1<<i))
	}
	return nil, last
}

func (r *retrying) attempt(ctx context.Context, call func() (*Result, error)) (*Result, error) {
	var last error
	for i := 0; i < r.max; i++ {
		resp, err := call()
		if err == nil {
			return resp, nil
		}
		var pErr *PermanentError
		if errors.As(err, &pErr) {
			return nil, err
		}
		last = err
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		time.Sleep(r.base * time.Duration(1<<i))
	}
	return nil, last
}

// -------- Logging --------

// WithLogging logs request size and errors. Pass nil for log.Default().
func WithLogging(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next Client) Client {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next Client
	log  *log.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }

func (l *logging) Generate(ctx context.Context, req Request) (*Result, error) {
	l.log.Printf("LLM request (%s): prompt=%dB media=%d", PhaseFrom(ctx), len(req.Prompt), len(req.Media))
	res, err := l.next.Generate(ctx, req)
	if err != nil {
		l.log.Printf("LLM error (%s): %v", PhaseFrom(ctx), err)
	}
	return res, err
}

func (l *logging) GenerateStream(ctx context.Context, req Request, onChunk func(chunk string)) (*Result, error) {
	l.log.Printf("LLM stream request (%s): prompt=%dB media=%d", PhaseFrom(ctx), len(req.Prompt), len(req.Media))
	res, err := l.next.GenerateStream(ctx, req, onChunk)
	if err != nil {
		l.log.Printf("LLM stream error (%s): %v", PhaseFrom(ctx), err)
	}
	return res, err
}
