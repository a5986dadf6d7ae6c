package websocket

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/citypulse/citypulse/internal/adapter/queue"
)

// relaySubject carries notification envelopes between instances.
const relaySubject = "notifications.push"

// Payload is opaque bytes (base64 on the wire) so any hub payload survives
// the trip, JSON or not.
type envelope struct {
	Group   string `json:"group"`
	Payload []byte `json:"payload"`
}

// Relay routes published payloads through a message queue so every running
// instance, this one included, forwards them into its local hub. Delivery
// stays at-most-once: the queue is plumbing, not a durable buffer.
type Relay struct {
	mq  queue.MessageQueue
	hub *Hub
	log *zap.Logger
}

func NewRelay(mq queue.MessageQueue, hub *Hub, log *zap.Logger) (*Relay, error) {
	r := &Relay{mq: mq, hub: hub, log: log}

	err := mq.Subscribe(relaySubject, func(data []byte) error {
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return fmt.Errorf("relay: bad envelope: %w", err)
		}
		hub.Publish(env.Group, env.Payload)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("relay: subscribe: %w", err)
	}

	return r, nil
}

// Publish sends the payload through the queue. On queue failure it falls back
// to the local hub so single-node delivery keeps working.
func (r *Relay) Publish(group string, payload []byte) {
	data, err := json.Marshal(envelope{Group: group, Payload: payload})
	if err != nil {
		r.log.Error("Failed to marshal relay envelope, delivering locally", zap.Error(err))
		r.hub.Publish(group, payload)
		return
	}

	if err := r.mq.Publish(relaySubject, data); err != nil {
		r.log.Warn("Queue publish failed, delivering locally", zap.Error(err))
		r.hub.Publish(group, payload)
	}
}
