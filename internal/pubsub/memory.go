package pubsub

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"peerpass/internal/domain"
)

// Memory is an in-process broker. Publish fans out to every live
// subscription of the topic; a subscriber whose buffer is full loses the
// message rather than blocking the publisher.
type Memory struct {
	log *zap.Logger

	mu     sync.RWMutex
	topics map[string]map[*memorySub]struct{}
}

// NewMemory returns an empty broker.
func NewMemory(log *zap.Logger) *Memory {
	if log == nil {
		log = zap.NewNop()
	}
	return &Memory{
		log:    log,
		topics: make(map[string]map[*memorySub]struct{}),
	}
}

type memorySub struct {
	broker *Memory
	topic  string
	ch     chan domain.Message
	once   sync.Once
}

func (s *memorySub) Messages() <-chan domain.Message { return s.ch }

func (s *memorySub) Cancel() {
	s.once.Do(func() {
		s.broker.mu.Lock()
		defer s.broker.mu.Unlock()
		if subs, ok := s.broker.topics[s.topic]; ok {
			delete(subs, s)
			if len(subs) == 0 {
				delete(s.broker.topics, s.topic)
			}
		}
		close(s.ch)
	})
}

// Subscribe registers a new subscription on topic.
func (m *Memory) Subscribe(_ context.Context, topic string) (domain.Subscription, error) {
	sub := &memorySub{
		broker: m,
		topic:  topic,
		ch:     make(chan domain.Message, subscriptionBuffer),
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.topics[topic] == nil {
		m.topics[topic] = make(map[*memorySub]struct{})
	}
	m.topics[topic][sub] = struct{}{}
	return sub, nil
}

// Publish delivers data to every subscription of topic, including any held
// by the publisher itself.
func (m *Memory) Publish(_ context.Context, topic string, data []byte) error {
	msg := domain.Message{Topic: topic, Data: append([]byte(nil), data...)}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for sub := range m.topics[topic] {
		select {
		case sub.ch <- msg:
		default:
			m.log.Debug("dropping message for slow subscriber", zap.String("topic", topic))
		}
	}
	return nil
}

// Discover is a no-op; an in-process broker already knows all its peers.
func (m *Memory) Discover(context.Context, string) error { return nil }

// Compile-time assertion that Memory implements domain.PubSub.
var _ domain.PubSub = (*Memory)(nil)
