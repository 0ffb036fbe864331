package llm

import "context"

// Fake is a scriptable Client for tests.
type Fake struct {
	NameStr    string
	GenerateFn func(ctx context.Context, req Request) (*Result, error)
	StreamFn   func(ctx context.Context, req Request, onChunk func(chunk string)) (*Result, error)
}

func (f *Fake) Name() string {
	if f.NameStr == "" {
		return "fake"
	}
	return f.NameStr
}

func (f *Fake) Close() error { return nil }

func (f *Fake) Generate(ctx context.Context, req Request) (*Result, error) {
	if f.GenerateFn != nil {
		return f.GenerateFn(ctx, req)
	}
	return &Result{Text: "{}"}, nil
}

func (f *Fake) GenerateStream(ctx context.Context, req Request, onChunk func(chunk string)) (*Result, error) {
	if f.StreamFn != nil {
		return f.StreamFn(ctx, req, onChunk)
	}
	res, err := f.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if onChunk != nil {
		onChunk(res.Text)
	}
	return res, nil
}
