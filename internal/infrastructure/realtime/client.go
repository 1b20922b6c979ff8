package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/elevatecrm/backend/internal/infrastructure/config"
)

// clientMessage is the inbound frame format. Clients send pings for
// connection health and subscribe requests to narrow the event stream.
type clientMessage struct {
	Type       string   `json:"type"`
	EventTypes []string `json:"event_types"`
}

// controlMessage is the outbound format for protocol replies, as
// opposed to the Envelope carrying relayed domain events.
type controlMessage struct {
	Type       string    `json:"type"`
	EventTypes []string  `json:"event_types,omitempty"`
	Message    string    `json:"message,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Client is one WebSocket connection owned by an authenticated user
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	tenantID uuid.UUID
	userID   uuid.UUID
	cfg      config.RealtimeConfig
	log      *zap.Logger

	mu   sync.RWMutex
	subs map[string]struct{}
}

// NewClient wraps an upgraded connection. The caller must Register it
// with the hub and then start the pumps.
func NewClient(hub *Hub, conn *websocket.Conn, tenantID, userID uuid.UUID) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, hub.cfg.SendBufferSize),
		tenantID: tenantID,
		userID:   userID,
		cfg:      hub.cfg,
		log:      hub.log,
	}
}

// TenantID returns the tenant the client belongs to
func (c *Client) TenantID() uuid.UUID { return c.tenantID }

// UserID returns the authenticated user behind the connection
func (c *Client) UserID() uuid.UUID { return c.userID }

// wantsEvent reports whether the client should receive the event type.
// A client without a subscription receives everything.
func (c *Client) wantsEvent(eventType string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.subs) == 0 {
		return true
	}
	_, ok := c.subs[eventType]
	return ok
}

// subscribe replaces the client's event type filter
func (c *Client) subscribe(eventTypes []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = make(map[string]struct{}, len(eventTypes))
	for _, et := range eventTypes {
		c.subs[et] = struct{}{}
	}
}

// ReadPump consumes inbound frames until the connection dies. Clients
// speak a small JSON protocol: ping for health checks and subscribe to
// filter the event stream.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongTimeout))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("Realtime connection closed unexpectedly",
					zap.String("user_id", c.userID.String()),
					zap.Error(err))
			}
			return
		}
		// Any inbound frame counts as liveness.
		c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongTimeout))
		c.handleMessage(data)
	}
}

// handleMessage dispatches one inbound frame
func (c *Client) handleMessage(data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.reply(controlMessage{
			Type:      "error",
			Message:   "Failed to process message",
			Timestamp: time.Now().UTC(),
		})
		return
	}

	switch msg.Type {
	case "ping":
		c.reply(controlMessage{
			Type:      "pong",
			Timestamp: time.Now().UTC(),
		})

	case "subscribe":
		c.subscribe(msg.EventTypes)
		c.log.Info("Realtime subscription updated",
			zap.String("user_id", c.userID.String()),
			zap.Strings("event_types", msg.EventTypes))
		c.reply(controlMessage{
			Type:       "subscription_confirmed",
			EventTypes: msg.EventTypes,
			Timestamp:  time.Now().UTC(),
		})

	default:
		c.log.Warn("Unknown realtime message type",
			zap.String("user_id", c.userID.String()),
			zap.String("type", msg.Type))
	}
}

// reply queues a control message, dropping it if the client is stalled
func (c *Client) reply(msg controlMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error("Failed to encode realtime reply", zap.Error(err))
		return
	}
	select {
	case c.send <- data:
	default:
		c.log.Warn("Dropping realtime reply to stalled client",
			zap.String("user_id", c.userID.String()))
	}
}

// WritePump forwards hub messages to the socket and keeps the
// connection alive with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
