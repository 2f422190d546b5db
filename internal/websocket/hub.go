package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"advertiser-chatbot-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const leadEventsChannel = "lead_events"

// leadNotice is the envelope published on the Redis channel. Origin lets an
// instance skip its own messages: local clients already got them directly.
type leadNotice struct {
	Origin string          `json:"origin"`
	Data   json.RawMessage `json:"data"`
}

// Hub fans captured-lead notices out to connected operator dashboards.
// Every connection receives every notice; there is no per-user targeting.
type Hub struct {
	// Identifies this instance on the Redis channel.
	id string

	clients map[*Client]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance fan-out
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		id:         uuid.NewString(),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("Hub", "Operator client registered", map[string]interface{}{
				"clients": len(h.clients),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends a lead notice to all connected operators and relays it to
// the other instances through Redis.
func (h *Hub) Broadcast(message []byte) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "lead_captured",
		"data": json.RawMessage(message),
	})

	h.broadcastLocal(data)

	if h.rdb != nil {
		envelope, _ := json.Marshal(leadNotice{Origin: h.id, Data: data})
		h.rdb.Publish(context.Background(), leadEventsChannel, envelope)
	}
}

func (h *Hub) broadcastLocal(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			// Slow consumer: drop the connection rather than block the hub.
			// Run closes the Send channel on unregister.
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, leadEventsChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.relayPeerNotice([]byte(msg.Payload))
	}
}

// relayPeerNotice forwards a notice from another instance to local clients.
// Notices this instance published are dropped: broadcastLocal already ran.
func (h *Hub) relayPeerNotice(payload []byte) {
	var notice leadNotice
	if err := json.Unmarshal(payload, &notice); err != nil || len(notice.Data) == 0 {
		return
	}
	if notice.Origin == h.id {
		return
	}
	h.broadcastLocal(notice.Data)
}
