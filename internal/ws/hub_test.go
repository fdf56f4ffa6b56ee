package ws

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testHub(t *testing.T) *Hub {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	h := NewHub(log)

	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	t.Cleanup(func() {
		cancel()
		<-h.done
	})

	return h
}

func fakeClient(h *Hub, sessionID string) *Client {
	return &Client{
		hub:         h,
		send:        make(chan []byte, clientSendBuffer),
		log:         h.log,
		SessionID:   sessionID,
		connectedAt: time.Now(),
	}
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, got %d", n, h.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()

	select {
	case msg := <-c.send:
		var evt Event
		if err := json.Unmarshal(msg, &evt); err != nil {
			t.Fatalf("decode event: %v", err)
		}

		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	return Event{}
}

func TestHub_BroadcastEventTargetsSession(t *testing.T) {
	h := testHub(t)

	a := fakeClient(h, "a")
	b := fakeClient(h, "b")
	h.Register(a)
	h.Register(b)
	waitForClients(t, h, 2)

	h.BroadcastEvent(EventGraph, "a", json.RawMessage(`{"nodes":{}}`))

	evt := receive(t, a)
	if evt.Type != EventGraph || evt.ID != 1 {
		t.Errorf("unexpected event %+v", evt)
	}

	select {
	case msg := <-b.send:
		t.Errorf("session b received foreign event %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_BroadcastAll(t *testing.T) {
	h := testHub(t)

	a := fakeClient(h, "a")
	b := fakeClient(h, "b")
	h.Register(a)
	h.Register(b)
	waitForClients(t, h, 2)

	h.BroadcastAll("graph.created", json.RawMessage(`{"id":"abc"}`))

	for _, c := range []*Client{a, b} {
		if evt := receive(t, c); evt.Type != "graph.created" {
			t.Errorf("unexpected event type %s", evt.Type)
		}
	}
}

func TestHub_PerSessionLimit(t *testing.T) {
	h := testHub(t)

	for range maxClientsPerSession + 1 {
		h.Register(fakeClient(h, "same"))
	}

	waitForClients(t, h, maxClientsPerSession)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	h := testHub(t)

	c := fakeClient(h, "a")
	h.Register(c)
	waitForClients(t, h, 1)

	h.Unregister(c)
	waitForClients(t, h, 0)

	if _, ok := <-c.send; ok {
		t.Error("expected send channel to be closed")
	}
}

func TestHub_DropsOversizedPayload(t *testing.T) {
	h := testHub(t)

	c := fakeClient(h, "a")
	h.Register(c)
	waitForClients(t, h, 1)

	big := `"` + strings.Repeat("x", maxBroadcastPayload) + `"`
	h.BroadcastEvent(EventGraph, "a", json.RawMessage(big))

	select {
	case <-c.send:
		t.Error("oversized payload was delivered")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_ReplayEvents(t *testing.T) {
	h := testHub(t)

	for range 3 {
		h.BroadcastEvent(EventGraph, "s", json.RawMessage(`{}`))
	}

	c := fakeClient(h, "s")
	if !h.ReplayEvents(c, 1) {
		t.Fatal("expected replay to succeed")
	}

	if got := len(c.send); got != 2 {
		t.Errorf("expected 2 replayed events, got %d", got)
	}

	h.ForgetSession("s")

	if h.buffer.OldestID("s") != 0 {
		t.Error("expected buffer to be cleared")
	}

	h.BroadcastEvent(EventGraph, "s", json.RawMessage(`{}`))
	if h.buffer.OldestID("s") != 1 {
		t.Error("expected sequence to restart after forget")
	}
}

func TestHub_ReplayTooOld(t *testing.T) {
	h := testHub(t)

	for range defaultBufferMaxLen + 4 {
		h.BroadcastEvent(EventGraph, "s", json.RawMessage(`{}`))
	}

	if h.ReplayEvents(fakeClient(h, "s"), 1) {
		t.Error("expected replay of evicted events to fail")
	}
}
