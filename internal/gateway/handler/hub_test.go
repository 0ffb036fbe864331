package handler

import (
	"testing"

	"screenforge/internal/pipeline"
	"screenforge/internal/tester"
)

func TestHubFanOut(t *testing.T) {
	h := NewHub()
	h.Open("run1")

	events, cancel, ok := h.Subscribe("run1")
	tester.True(t, ok)
	defer cancel()

	h.Publish("run1", pipeline.Event{Type: pipeline.EventStatus, Message: "scanning"})
	ev := <-events
	tester.Eq(t, ev.Message, "scanning")
}

func TestHubCloseEndsSubscribers(t *testing.T) {
	h := NewHub()
	h.Open("run1")
	events, _, ok := h.Subscribe("run1")
	tester.True(t, ok)

	h.Close("run1")
	_, open := <-events
	tester.False(t, open, "channel must close when the run ends")

	// Finished runs reject new subscribers.
	_, _, ok = h.Subscribe("run1")
	tester.False(t, ok)
}

func TestHubUnknownRun(t *testing.T) {
	h := NewHub()
	_, _, ok := h.Subscribe("ghost")
	tester.False(t, ok)
	// Publishing to an unknown run is a no-op, not a panic.
	h.Publish("ghost", pipeline.Event{Type: pipeline.EventStatus})
}

func TestHubSlowSubscriberDropsEvents(t *testing.T) {
	h := NewHub()
	h.Open("run1")
	events, cancel, _ := h.Subscribe("run1")
	defer cancel()

	// Overfill the subscriber buffer; extra events are dropped, never blocked on.
	for i := 0; i < 200; i++ {
		h.Publish("run1", pipeline.Event{Type: pipeline.EventChunk, ChunkIndex: i})
	}
	tester.Eq(t, len(events), 64)
}
