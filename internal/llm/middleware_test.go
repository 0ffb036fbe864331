package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"screenforge/internal/tester"
)

func TestWrapOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next Client) Client {
			return &Fake{GenerateFn: func(ctx context.Context, req Request) (*Result, error) {
				order = append(order, name)
				return next.Generate(ctx, req)
			}}
		}
	}
	inner := &Fake{GenerateFn: func(context.Context, Request) (*Result, error) {
		order = append(order, "inner")
		return &Result{Text: "ok"}, nil
	}}

	_, err := Wrap(inner, tag("outer"), tag("mid")).Generate(context.Background(), Request{})
	tester.NoErr(t, err)
	tester.Eq(t, order, []string{"outer", "mid", "inner"})
}

func TestRetryRecoversTransientError(t *testing.T) {
	calls := 0
	inner := &Fake{GenerateFn: func(context.Context, Request) (*Result, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("transient")
		}
		return &Result{Text: "ok"}, nil
	}}

	res, err := Wrap(inner, Retry(3, time.Millisecond)).Generate(context.Background(), Request{})
	tester.NoErr(t, err)
	tester.Eq(t, res.Text, "ok")
	tester.Eq(t, calls, 3)
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	inner := &Fake{GenerateFn: func(context.Context, Request) (*Result, error) {
		calls++
		return nil, errors.New("still down")
	}}

	_, err := Wrap(inner, Retry(2, time.Millisecond)).Generate(context.Background(), Request{})
	tester.Err(t, err)
	tester.Eq(t, calls, 2)
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	inner := &Fake{GenerateFn: func(context.Context, Request) (*Result, error) {
		calls++
		return nil, &PermanentError{Err: errors.New("bad request")}
	}}

	_, err := Wrap(inner, Retry(3, time.Millisecond)).Generate(context.Background(), Request{})
	tester.Err(t, err)
	tester.Eq(t, calls, 1)
}

func TestRetryStreamNotReplayedAfterChunks(t *testing.T) {
	// Once the caller has seen chunks, a retry would duplicate them.
	calls := 0
	inner := &Fake{StreamFn: func(ctx context.Context, req Request, onChunk func(string)) (*Result, error) {
		calls++
		onChunk("<html>")
		return nil, errors.New("connection dropped mid-stream")
	}}

	var got []string
	_, err := Wrap(inner, Retry(3, time.Millisecond)).GenerateStream(context.Background(), Request{}, func(c string) {
		got = append(got, c)
	})
	tester.Err(t, err)
	tester.Eq(t, calls, 1)
	tester.Eq(t, got, []string{"<html>"})
}

func TestRetryStreamRetriesWhenNothingEmitted(t *testing.T) {
	calls := 0
	inner := &Fake{StreamFn: func(ctx context.Context, req Request, onChunk func(string)) (*Result, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("before first byte")
		}
		onChunk("ok")
		return &Result{Text: "ok"}, nil
	}}

	res, err := Wrap(inner, Retry(3, time.Millisecond)).GenerateStream(context.Background(), Request{}, nil)
	tester.NoErr(t, err)
	tester.Eq(t, res.Text, "ok")
	tester.Eq(t, calls, 2)
}

func TestPhaseRoundTrip(t *testing.T) {
	ctx := WithPhase(context.Background(), "scan")
	tester.Eq(t, PhaseFrom(ctx), "scan")
	tester.Eq(t, PhaseFrom(context.Background()), "unknown")
}
