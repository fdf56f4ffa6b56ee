package ws

import (
	"testing"
	"time"
)

func TestEventBuffer_Since(t *testing.T) {
	eb := NewEventBuffer(4, time.Hour)

	for i := uint64(1); i <= 6; i++ {
		eb.Append("s", &Event{ID: i, Time: time.Now()})
	}

	if got := eb.OldestID("s"); got != 3 {
		t.Errorf("expected oldest 3 after trimming, got %d", got)
	}

	events := eb.Since("s", 4)
	if len(events) != 2 || events[0].ID != 5 || events[1].ID != 6 {
		t.Errorf("unexpected events %+v", events)
	}

	if eb.Since("s", 6) != nil {
		t.Error("expected nothing after the newest id")
	}

	if eb.Since("other", 0) != nil {
		t.Error("expected nil for unknown session")
	}
}

func TestEventBuffer_EvictsByAge(t *testing.T) {
	eb := NewEventBuffer(10, time.Minute)

	eb.Append("s", &Event{ID: 1, Time: time.Now().Add(-time.Hour)})
	eb.Append("s", &Event{ID: 2, Time: time.Now()})

	if got := eb.OldestID("s"); got != 2 {
		t.Errorf("expected stale event evicted, oldest is %d", got)
	}
}

func TestEventSequence(t *testing.T) {
	seq := NewEventSequence()

	seq.Next("a")
	if got := seq.Next("a"); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}

	if got := seq.Next("b"); got != 1 {
		t.Errorf("expected independent counter, got %d", got)
	}

	seq.Forget("a")
	if got := seq.Next("a"); got != 1 {
		t.Errorf("expected reset counter, got %d", got)
	}
}
