// Package ws manages observer connections and ranking event fan-out.
package ws

import (
	"context"
	"sync"

	"github.com/okian/podium/internal/adapters/mq/queue"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/logger"
	"github.com/okian/podium/pkg/metrics"
)

// Event is the payload delivered to observers.
type Event = model.RankingEvent

// SnapshotFunc supplies the current ranking for late joiners.
type SnapshotFunc func(ctx context.Context) ([]types.RankedParticipant, error)

// Hub maintains the set of connected observers and fans ranking events out
// to them. Delivery is per-observer and non-blocking: a slow observer is
// unregistered rather than allowed to stall the rest.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool

	events     queue.Queue
	snapshot   SnapshotFunc
	bufferSize int

	logger logger.Logger
}

// Option applies a configuration option to the Hub.
type Option func(*Hub)

// WithObserverBuffer sets the per-observer outbound buffer size.
func WithObserverBuffer(size int) Option {
	return func(h *Hub) {
		if size > 0 {
			h.bufferSize = size
		}
	}
}

// WithLogger sets a custom logger for the hub.
func WithLogger(l logger.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHub creates a hub consuming events from q. The snapshot function is
// called on registration so late joiners never see empty or stale state.
func NewHub(q queue.Queue, snapshot SnapshotFunc, opts ...Option) *Hub {
	h := &Hub{
		clients:    make(map[*Client]bool),
		events:     q,
		snapshot:   snapshot,
		bufferSize: 256,
		logger:     logger.Get().Named("hub"),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Run consumes the event queue and fans out until ctx is canceled or the
// queue is closed. All observers are closed on the way out.
func (h *Hub) Run(ctx context.Context) {
	defer h.closeAll()

	incoming := h.events.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-incoming:
			if !ok {
				return
			}
			h.fanOut(ctx, event)
		}
	}
}

// Register admits a new observer and immediately queues the current ranking
// snapshot to it.
func (h *Hub) Register(ctx context.Context, c *Client) {
	rankings, err := h.snapshot(ctx)
	if err != nil {
		// The observer still joins; it will catch up on the next broadcast.
		h.logger.Warn(ctx, "snapshot for new observer failed", logger.Error(err))
	}

	h.mu.Lock()
	h.clients[c] = true
	total := len(h.clients)
	h.mu.Unlock()

	if err == nil {
		c.trySend(Event{Type: model.EventRankingUpdate, Rankings: rankings})
	}

	metrics.UpdateObserversConnected(total)
	h.logger.Info(ctx, "observer connected", logger.Int("total", total))
}

// Unregister removes an observer. Safe to call multiple times and after the
// observer already disconnected.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.UpdateObserversConnected(total)
}

// Count returns the number of connected observers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// fanOut delivers one event to every observer. A full send buffer marks the
// observer for removal; its failure never reaches the claim pipeline.
func (h *Hub) fanOut(ctx context.Context, event Event) {
	h.mu.Lock()

	var toRemove []*Client
	for c := range h.clients {
		select {
		case c.send <- event:
		default:
			toRemove = append(toRemove, c)
		}
	}
	for _, c := range toRemove {
		delete(h.clients, c)
		close(c.send)
		metrics.RecordObserverSendDropped()
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.RecordBroadcastSent()
	metrics.UpdateObserversConnected(total)
	if len(toRemove) > 0 {
		h.logger.Warn(ctx, "dropped slow observers",
			logger.Int("dropped", len(toRemove)),
			logger.Int("remaining", total),
		)
	}
}

// closeAll closes every observer connection during shutdown.
func (h *Hub) closeAll() {
	h.mu.Lock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()

	metrics.UpdateObserversConnected(0)
}
