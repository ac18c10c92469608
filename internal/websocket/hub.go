package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"studyforge-backend/internal/middleware"
	"studyforge-backend/internal/models"
)

const (
	MessageConnected   = "connected"
	MessageLeaderboard = "leaderboard_update"

	writeWait = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func channelName(competitionID string) string {
	return "competition_updates:" + competitionID
}

// client serializes writes; gorilla connections allow one concurrent writer.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub streams leaderboard updates to the participants of each competition.
// With Redis, updates travel over pub/sub so every instance sees them;
// without it they are broadcast in-process.
type Hub struct {
	mu          sync.RWMutex
	connections map[string][]*client
	redisClient *redis.Client
	auth        *middleware.JWTAuth
	cancelFuncs map[string]context.CancelFunc
}

func NewHub(redisClient *redis.Client, auth *middleware.JWTAuth) *Hub {
	return &Hub{
		connections: make(map[string][]*client),
		redisClient: redisClient,
		auth:        auth,
		cancelFuncs: make(map[string]context.CancelFunc),
	}
}

// HandleWebSocket serves GET /api/learning-competitions/{id}/ws?token=...
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	competitionID := chi.URLParam(r, "id")

	// Authenticate via token query param
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	participant, err := h.auth.Parse(tokenStr)
	if err != nil || participant.CompetitionID != competitionID {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn}
	h.registerConnection(competitionID, c)

	hello, _ := json.Marshal(models.WSMessage{
		Type:    MessageConnected,
		Payload: map[string]string{"competitionId": competitionID, "username": participant.Username},
	})
	c.write(hello)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregisterConnection(competitionID, c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (h *Hub) registerConnection(competitionID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[competitionID] = append(h.connections[competitionID], c)

	// First viewer of a competition opens its subscription.
	if len(h.connections[competitionID]) == 1 && h.redisClient != nil {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[competitionID] = cancel
		go h.subscribeToPubSub(ctx, competitionID)
	}

	log.Printf("WebSocket connected: competition %s (total: %d)", competitionID, len(h.connections[competitionID]))
}

func (h *Hub) unregisterConnection(competitionID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.conn.Close()

	conns := h.connections[competitionID]
	for i, existing := range conns {
		if existing == c {
			h.connections[competitionID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	if len(h.connections[competitionID]) == 0 {
		delete(h.connections, competitionID)
		if cancel, ok := h.cancelFuncs[competitionID]; ok {
			cancel()
			delete(h.cancelFuncs, competitionID)
		}
	}

	log.Printf("WebSocket disconnected: competition %s", competitionID)
}

func (h *Hub) subscribeToPubSub(ctx context.Context, competitionID string) {
	pubsub := h.redisClient.Subscribe(ctx, channelName(competitionID))
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(competitionID, []byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(competitionID string, data []byte) {
	h.mu.RLock()
	clients := append([]*client(nil), h.connections[competitionID]...)
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			log.Printf("WebSocket write failed for competition %s: %v", competitionID, err)
		}
	}
}

// PublishLeaderboard sends a standings change to every viewer of the competition.
func (h *Hub) PublishLeaderboard(ctx context.Context, update models.LeaderboardUpdate) error {
	data, err := json.Marshal(models.WSMessage{Type: MessageLeaderboard, Payload: update})
	if err != nil {
		return fmt.Errorf("failed to encode leaderboard update: %w", err)
	}

	if h.redisClient == nil {
		h.broadcast(update.CompetitionID, data)
		return nil
	}
	if err := h.redisClient.Publish(ctx, channelName(update.CompetitionID), data).Err(); err != nil {
		return fmt.Errorf("failed to publish leaderboard update: %w", err)
	}
	return nil
}

// Viewers is the number of open connections for a competition.
func (h *Hub) Viewers(competitionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[competitionID])
}

// Close drops every connection and subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, clients := range h.connections {
		for _, c := range clients {
			c.conn.Close()
		}
		delete(h.connections, id)
	}
	for id, cancel := range h.cancelFuncs {
		cancel()
		delete(h.cancelFuncs, id)
	}
}
