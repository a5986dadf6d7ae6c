package mocks

import "sync"

// MockPublisher records every publish, keyed by group, in order.
type MockPublisher struct {
	mu        sync.Mutex
	Published map[string][][]byte

	PublishFunc func(group string, payload []byte)
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Published: make(map[string][][]byte)}
}

func (m *MockPublisher) Publish(group string, payload []byte) {
	if m.PublishFunc != nil {
		m.PublishFunc(group, payload)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published[group] = append(m.Published[group], payload)
}

// Payloads returns the recorded publishes for a group.
func (m *MockPublisher) Payloads(group string) [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.Published[group]...)
}
