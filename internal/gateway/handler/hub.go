package handler

import (
	"sync"

	"screenforge/internal/pipeline"
)

// Hub fans a live run's events out to watch subscribers. The NDJSON response
// stream is the authoritative consumer; watchers are best-effort mirrors, so
// slow subscribers lose events instead of stalling the run.
type Hub struct {
	mu   sync.Mutex
	runs map[string]*hubRun
}

type hubRun struct {
	subs map[chan pipeline.Event]struct{}
	done bool
}

func NewHub() *Hub {
	return &Hub{runs: make(map[string]*hubRun)}
}

func (h *Hub) Open(runID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs[runID] = &hubRun{subs: make(map[chan pipeline.Event]struct{})}
}

func (h *Hub) Publish(runID string, ev pipeline.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.runs[runID]
	if !ok {
		return
	}
	for ch := range r.subs {
		select {
		case ch <- ev:
		default: // watcher too slow; drop
		}
	}
}

func (h *Hub) Close(runID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.runs[runID]
	if !ok {
		return
	}
	r.done = true
	for ch := range r.subs {
		close(ch)
	}
	delete(h.runs, runID)
}

// Subscribe attaches a watcher to a live run. The returned cancel must be
// called unless the channel was closed by the run ending.
func (h *Hub) Subscribe(runID string) (<-chan pipeline.Event, func(), bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.runs[runID]
	if !ok || r.done {
		return nil, nil, false
	}
	ch := make(chan pipeline.Event, 64)
	r.subs[ch] = struct{}{}
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if r, ok := h.runs[runID]; ok {
			if _, live := r.subs[ch]; live {
				delete(r.subs, ch)
				close(ch)
			}
		}
	}
	return ch, cancel, true
}
