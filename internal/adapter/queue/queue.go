package queue

import (
	"fmt"

	"go.uber.org/zap"
)

// MessageQueue is the broker abstraction behind the cross-instance
// notification relay. Implementations are fire-and-forget fan-out, every
// subscriber sees every message.
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Close() error
}

// New selects a broker implementation by driver name.
func New(driver, url string, log *zap.Logger) (MessageQueue, error) {
	switch driver {
	case "nats":
		return NewNATSQueue(url, log)
	case "rabbitmq":
		return NewRabbitMQQueue(url, log)
	default:
		return nil, fmt.Errorf("queue: unknown driver %q", driver)
	}
}
