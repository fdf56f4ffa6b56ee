// Package ws pushes console graph updates to browsers over WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphconsole/internal/metrics"
)

// Hub channel buffer sizes and connection caps.
const (
	broadcastBuffer      = 256
	registerBuffer       = 64
	maxClients           = 1000
	maxClientsPerSession = 8
)

// maxBroadcastPayload is the largest snapshot event pushed to clients (1 MiB).
const maxBroadcastPayload = 1 << 20

// sessionBroadcast is sent through the broadcast channel to the Run goroutine.
// An empty sessionID targets every client.
type sessionBroadcast struct {
	sessionID string
	msg       []byte
}

// Hub manages active WebSocket clients and broadcasts messages.
// All client map mutations happen exclusively in the Run goroutine.
type Hub struct {
	clients      map[*Client]bool
	sessionCount map[string]int
	register     chan *Client
	unregister   chan *Client
	broadcast    chan sessionBroadcast
	shutdown     chan struct{} // signals Run to begin graceful drain
	done         chan struct{} // closed when Run has finished draining
	count        atomic.Int64
	log          *logrus.Logger
	seq          *EventSequence
	buffer       *EventBuffer
}

// NewHub creates a new Hub instance.
func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients:      make(map[*Client]bool),
		sessionCount: make(map[string]int),
		register:     make(chan *Client, registerBuffer),
		unregister:   make(chan *Client, registerBuffer),
		broadcast:    make(chan sessionBroadcast, broadcastBuffer),
		shutdown:     make(chan struct{}),
		done:         make(chan struct{}),
		log:          log,
		seq:          NewEventSequence(),
		buffer:       NewEventBuffer(defaultBufferMaxLen, defaultBufferMaxAge),
	}
}

// drainTimeout is how long the hub waits for clients to flush after shutdown.
const drainTimeout = 3 * time.Second

// Run starts the hub event loop. It should be run as a goroutine.
// It exits when Shutdown is called or the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.drainClients()

			return
		case <-h.shutdown:
			h.drainClients()

			return

		case client := <-h.register:
			h.add(client)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.remove(client)
			}
			h.syncCount()
			h.log.WithField("total", len(h.clients)).Debug("client unregistered")

		case b := <-h.broadcast:
			for client := range h.clients {
				if b.sessionID != "" && client.SessionID != b.sessionID {
					continue
				}
				select {
				case client.send <- b.msg:
				default:
					h.remove(client)
				}
			}
			h.syncCount()
		}
	}
}

func (h *Hub) add(client *Client) {
	if len(h.clients) >= maxClients {
		h.log.Warn("global connection limit reached, dropping client")
		client.closeSend()

		return
	}

	if h.sessionCount[client.SessionID] >= maxClientsPerSession {
		h.log.WithField("session_id", client.SessionID).Warn("per-session connection limit reached, dropping client")
		client.closeSend()

		return
	}

	h.clients[client] = true
	h.sessionCount[client.SessionID]++
	h.syncCount()
	h.log.WithField("total", len(h.clients)).Debug("client registered")
}

func (h *Hub) remove(client *Client) {
	delete(h.clients, client)
	client.closeSend()

	h.sessionCount[client.SessionID]--
	if h.sessionCount[client.SessionID] <= 0 {
		delete(h.sessionCount, client.SessionID)
	}
}

func (h *Hub) syncCount() {
	h.count.Store(int64(len(h.clients)))
	metrics.WSConnections.Set(float64(len(h.clients)))
}

func (h *Hub) enqueue(sessionID string, msg []byte) {
	if len(msg) > maxBroadcastPayload {
		h.log.WithFields(logrus.Fields{
			"session_id":   sessionID,
			"payload_size": len(msg),
			"max_size":     maxBroadcastPayload,
		}).Warn("dropping oversized broadcast payload")
		return
	}
	select {
	case h.broadcast <- sessionBroadcast{sessionID: sessionID, msg: msg}:
	default:
		h.log.Warn("broadcast channel full, dropping message")
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	default:
		h.log.Warn("register channel full, dropping client")
		c.closeSend()
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	default:
		// Run loop already exited; client cleanup happened in Run shutdown.
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// BroadcastEvent assigns a sequence ID, stores in the buffer, and broadcasts
// a typed event to all clients of the given session.
func (h *Hub) BroadcastEvent(eventType, sessionID string, data json.RawMessage) {
	evt := Event{
		Type:      eventType,
		ID:        h.seq.Next(sessionID),
		SessionID: sessionID,
		Data:      data,
		Time:      time.Now(),
	}

	msg, err := json.Marshal(evt)
	if err != nil {
		h.log.WithError(err).Error("failed to marshal event")
		return
	}

	h.buffer.Append(sessionID, &evt)
	h.enqueue(sessionID, msg)
}

// BroadcastAll sends an unbuffered event to every connected client.
func (h *Hub) BroadcastAll(eventType string, data json.RawMessage) {
	msg, err := json.Marshal(Event{Type: eventType, Data: data, Time: time.Now()})
	if err != nil {
		h.log.WithError(err).Error("failed to marshal event")
		return
	}

	h.enqueue("", msg)
}

// ForgetSession drops the replay state of an expired session.
func (h *Hub) ForgetSession(sessionID string) {
	h.buffer.Forget(sessionID)
	h.seq.Forget(sessionID)
}

// Shutdown initiates a graceful WebSocket drain: sends a shutdown frame to
// every connected client, waits for their write pumps to flush, then closes
// all connections. It blocks until drain is complete or the timeout expires.
func (h *Hub) Shutdown() {
	close(h.shutdown)
	<-h.done
}

// drainClients sends a close frame to every client and waits for buffers to flush.
func (h *Hub) drainClients() {
	if len(h.clients) == 0 {
		return
	}

	h.log.WithField("clients", len(h.clients)).Info("draining WebSocket clients")

	shutdownMsg := []byte(`{"type":"` + EventShutdown + `","message":"server shutting down"}`)
	for client := range h.clients {
		select {
		case client.send <- shutdownMsg:
		default:
		}
	}

	deadline := time.After(drainTimeout)
	ticker := time.NewTicker(50 * time.Millisecond) //nolint:mnd // poll interval
	defer ticker.Stop()

drain:
	for !h.drained() {
		select {
		case <-deadline:
			h.log.Warn("WebSocket drain timeout, closing remaining clients")

			break drain
		case <-ticker.C:
		}
	}

	for client := range h.clients {
		client.closeSend()
		delete(h.clients, client)
	}

	h.sessionCount = make(map[string]int)
	h.syncCount()
}

func (h *Hub) drained() bool {
	for client := range h.clients {
		if len(client.send) > 0 {
			return false
		}
	}

	return true
}

// ReplayEvents sends buffered events since lastEventID to the client.
// Returns false if the requested ID is too old (not in buffer).
func (h *Hub) ReplayEvents(client *Client, lastEventID uint64) bool {
	oldest := h.buffer.OldestID(client.SessionID)
	if oldest > 0 && lastEventID > 0 && lastEventID < oldest {
		return false
	}

	events := h.buffer.Since(client.SessionID, lastEventID)
	for _, evt := range events {
		msg, err := json.Marshal(evt)
		if err != nil {
			continue
		}
		select {
		case client.send <- msg:
		default:
			return true // channel full, stop replay
		}
	}
	return true
}
