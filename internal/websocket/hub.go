package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"

	"sycophancy-survey-be/internal/pkg/logger"
	"sycophancy-survey-be/pkg/events"
)

// redisChannel fans dashboard events out to sibling instances.
const redisChannel = "survey_dashboard_events"

// Hub fans survey lifecycle events out to connected admin dashboards.
// All dashboard connections receive every event; there is no per-client
// targeting.
type Hub struct {
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fanout, nil when single-instance.
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]struct{}),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()
			h.logger.Info("Hub", "Dashboard client registered", map[string]interface{}{"clients": h.clientCount()})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			h.logger.Info("Hub", "Dashboard client unregistered", map[string]interface{}{"clients": h.clientCount()})
		}
	}
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast pushes a survey event to every connected dashboard and
// mirrors it to Redis for sibling instances.
func (h *Hub) Broadcast(event events.Event) {
	data, err := json.Marshal(map[string]interface{}{
		"type":        event.EventType(),
		"data":        event.Payload(),
		"occurred_at": event.Timestamp(),
	})
	if err != nil {
		h.logger.Error("Hub", "Failed to serialize event", map[string]interface{}{"error": err.Error()})
		return
	}

	// With Redis attached, local delivery happens via the subscription so
	// each instance (this one included) delivers exactly once.
	if h.rdb != nil {
		h.rdb.Publish(context.Background(), redisChannel, data)
		return
	}
	h.deliver(data)
}

func (h *Hub) deliver(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			// Slow consumer; drop the connection rather than block the hub.
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		payload := []byte(msg.Payload)
		if !json.Valid(payload) {
			log.Printf("Redis msg parse error: invalid payload on %s", redisChannel)
			continue
		}
		h.deliver(payload)
	}
}
