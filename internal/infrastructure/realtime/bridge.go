package realtime

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/elevatecrm/backend/internal/domain/shared"
)

// Envelope is the wire format for relayed events
type Envelope struct {
	EventID   uuid.UUID      `json:"event_id"`
	EventType string         `json:"event_type"`
	TenantID  uuid.UUID      `json:"tenant_id"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewEnvelope builds the wire envelope for a payload-bearing event
func NewEnvelope(event shared.EventPayloader) Envelope {
	return Envelope{
		EventID:   event.EventID(),
		EventType: event.EventType(),
		TenantID:  event.TenantID(),
		Data:      event.Payload(),
		Timestamp: event.OccurredAt(),
	}
}

// Publisher pushes envelopes onto the tenant's Redis channel so every
// server instance can relay them to its own connections.
type Publisher struct {
	client        *redis.Client
	channelPrefix string
}

// NewPublisher creates a Redis-backed envelope publisher
func NewPublisher(client *redis.Client, channelPrefix string) *Publisher {
	return &Publisher{client: client, channelPrefix: channelPrefix}
}

// Publish serializes the envelope and publishes it to the tenant channel
func (p *Publisher) Publish(ctx context.Context, envelope Envelope) error {
	data, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	channel := p.channelPrefix + envelope.TenantID.String()
	return p.client.Publish(ctx, channel, data).Err()
}

// Bridge subscribes to the tenant channels and forwards messages to the
// local hub. Each server instance runs one bridge.
type Bridge struct {
	client        *redis.Client
	hub           *Hub
	channelPrefix string
	log           *zap.Logger
}

// NewBridge creates the Redis-to-hub relay
func NewBridge(client *redis.Client, hub *Hub, channelPrefix string, log *zap.Logger) *Bridge {
	return &Bridge{
		client:        client,
		hub:           hub,
		channelPrefix: channelPrefix,
		log:           log,
	}
}

// Run consumes the pattern subscription until the context is cancelled
func (b *Bridge) Run(ctx context.Context) error {
	sub := b.client.PSubscribe(ctx, b.channelPrefix+"*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.deliver(msg)
		}
	}
}

func (b *Bridge) deliver(msg *redis.Message) {
	raw := strings.TrimPrefix(msg.Channel, b.channelPrefix)
	tenantID, err := uuid.Parse(raw)
	if err != nil {
		b.log.Warn("Ignoring realtime message on malformed channel",
			zap.String("channel", msg.Channel))
		return
	}

	// The event type drives per-client subscription filtering.
	var envelope Envelope
	if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
		b.log.Warn("Ignoring malformed realtime payload",
			zap.String("channel", msg.Channel), zap.Error(err))
		return
	}
	b.hub.Broadcast(tenantID, envelope.EventType, []byte(msg.Payload))
}
