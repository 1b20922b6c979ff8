package realtime

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/elevatecrm/backend/internal/infrastructure/config"
)

// Hub tracks live WebSocket connections grouped by tenant. Messages are
// fanned out per tenant; a slow client gets dropped rather than block
// the others.
type Hub struct {
	mu      sync.RWMutex
	tenants map[uuid.UUID]map[*Client]struct{}
	cfg     config.RealtimeConfig
	log     *zap.Logger
}

// NewHub creates an empty connection hub
func NewHub(cfg config.RealtimeConfig, log *zap.Logger) *Hub {
	return &Hub{
		tenants: make(map[uuid.UUID]map[*Client]struct{}),
		cfg:     cfg,
		log:     log,
	}
}

// Register adds a client to its tenant's connection set. It returns
// false when the tenant is already at the connection cap.
func (h *Hub) Register(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.tenants[client.tenantID]
	if conns == nil {
		conns = make(map[*Client]struct{})
		h.tenants[client.tenantID] = conns
	}
	if h.cfg.MaxConnsPerTenant > 0 && len(conns) >= h.cfg.MaxConnsPerTenant {
		return false
	}
	conns[client] = struct{}{}
	return true
}

// Unregister removes a client and closes its send channel
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.tenants[client.tenantID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}
	delete(conns, client)
	if len(conns) == 0 {
		delete(h.tenants, client.tenantID)
	}
	close(client.send)
}

// Broadcast delivers a message to every connection of the tenant that
// subscribed to the event type. Clients whose send buffer is full are
// disconnected.
func (h *Hub) Broadcast(tenantID uuid.UUID, eventType string, message []byte) {
	h.mu.RLock()
	conns := h.tenants[tenantID]
	stalled := make([]*Client, 0)
	for client := range conns {
		if !client.wantsEvent(eventType) {
			continue
		}
		select {
		case client.send <- message:
		default:
			stalled = append(stalled, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stalled {
		h.log.Warn("Dropping stalled realtime client",
			zap.String("tenant_id", tenantID.String()),
			zap.String("user_id", client.userID.String()))
		h.Unregister(client)
	}
}

// ConnectionCount returns the number of live connections for a tenant
func (h *Hub) ConnectionCount(tenantID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.tenants[tenantID])
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for tenantID, conns := range h.tenants {
		for client := range conns {
			close(client.send)
		}
		delete(h.tenants, tenantID)
	}
}
