// Package artifact persists per-run outputs (scan JSON, assembled document,
// verification report) for transparency and debugging. The pipeline never
// writes here itself; its caller does, after consuming the complete event.
package artifact

import "context"

// Store saves named artifacts under a run ID.
type Store interface {
	Put(ctx context.Context, runID, name string, content []byte) error
}

// Noop discards artifacts. Used when no store is configured.
type Noop struct{}

func (Noop) Put(context.Context, string, string, []byte) error { return nil }
