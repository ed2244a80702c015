package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/collabsphere/collabsphere-api/internal/api/metrics"
	"github.com/collabsphere/collabsphere-api/internal/core/domain"
)

// Hub owns the registry of live websocket connections and serializes all
// registry mutations and broadcasts through a single run loop. It is
// constructed once and passed in as a dependency; there is no package-global
// hub.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu     sync.RWMutex
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	logger zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Broadcast fans a stored message out to every connected client, joined or
// not. Delivery is fire-and-forget per connection: best-effort causal order,
// no acknowledgment.
func (h *Hub) Broadcast(msg *domain.EnrichedMessage) {
	payload, err := marshalEnvelope(EventMessage, msg)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to encode broadcast")
		return
	}

	select {
	case h.broadcast <- payload:
	case <-h.ctx.Done():
	}
}

// Run is the hub event loop. Call it in its own goroutine; it exits when
// Shutdown is invoked.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()

			metrics.ConnectionsActive.Inc()
			h.logger.Info().Str("conn_id", client.id).Int("total", count).Msg("client connected")

			h.wg.Add(2)
			go func() {
				defer h.wg.Done()
				client.writePump()
			}()
			go func() {
				defer h.wg.Done()
				client.readPump()
			}()

		case client := <-h.unregister:
			h.removeClient(client)

		case payload := <-h.broadcast:
			h.fanOut(payload)
		}
	}
}

func (h *Hub) fanOut(payload []byte) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	var dropped []*Client
	for _, client := range targets {
		// buffer full means the client is too slow to keep up, drop it
		if !client.trySend(payload) {
			dropped = append(dropped, client)
		}
	}

	metrics.BroadcastsTotal.Inc()
	for _, client := range dropped {
		metrics.BroadcastDropsTotal.Inc()
		ev := h.logger.Warn().Str("conn_id", client.id)
		if userID, ok := client.joinedUser(); ok {
			ev = ev.Str("user_id", userID)
		}
		ev.Msg("dropping slow client")
		h.removeClient(client)
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}

	client.markClosed()
	metrics.ConnectionsActive.Dec()
	ev := h.logger.Info().Str("conn_id", client.id).Int("total", count)
	if userID, ok := client.joinedUser(); ok {
		ev = ev.Str("user_id", userID)
	}
	ev.Msg("client disconnected")
}

// ConnectionCount reports the number of live connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		if client.conn != nil {
			_ = client.conn.Close()
		}
	}
}

// Shutdown stops the run loop, closes all connections, and waits for client
// goroutines to finish or the timeout to elapse.
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.cancel()
	<-h.done

	finished := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-time.After(timeout):
		return context.DeadlineExceeded
	}
}
