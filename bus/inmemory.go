package bus

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type memoryMessage struct {
	topic   string
	data    []byte
	headers Headers
}

func (m *memoryMessage) Topic() string {
	return m.topic
}

func (m *memoryMessage) Data() []byte {
	return m.data
}

func (m *memoryMessage) Headers() Headers {
	return m.headers
}

type memorySubscription struct {
	id    string
	topic string
	ctx   context.Context
	cb    Handler
	once  bool
	bus   *memoryBus
}

func (s *memorySubscription) Close() error {
	s.bus.drop(s.topic, s.id)
	return nil
}

type memoryBus struct {
	mu     sync.Mutex
	topics map[string]map[string]*memorySubscription
	closed bool
}

var _ Bus = (*memoryBus)(nil)

// NewInMemory returns a Bus that delivers within the process. Each delivery
// runs on its own goroutine so a slow handler never blocks the publisher.
func NewInMemory() Bus {
	return &memoryBus{topics: make(map[string]map[string]*memorySubscription)}
}

func (b *memoryBus) subscribe(ctx context.Context, topic string, cb Handler, once bool) (Subscriber, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}
	sub := &memorySubscription{
		id:    uuid.New().String(),
		topic: topic,
		ctx:   ctx,
		cb:    cb,
		once:  once,
		bus:   b,
	}
	subs := b.topics[topic]
	if subs == nil {
		subs = make(map[string]*memorySubscription)
		b.topics[topic] = subs
	}
	subs[sub.id] = sub
	return sub, nil
}

func (b *memoryBus) Subscribe(ctx context.Context, topic string, cb Handler) (Subscriber, error) {
	return b.subscribe(ctx, topic, cb, false)
}

func (b *memoryBus) SubscribeOnce(ctx context.Context, topic string, cb Handler) (Subscriber, error) {
	return b.subscribe(ctx, topic, cb, true)
}

func (b *memoryBus) drop(topic, id string) {
	b.mu.Lock()
	if subs, ok := b.topics[topic]; ok {
		delete(subs, id)
		if len(subs) == 0 {
			delete(b.topics, topic)
		}
	}
	b.mu.Unlock()
}

func (b *memoryBus) Publish(_ context.Context, topic string, data []byte, opts ...PublishOption) error {
	msg := &memoryMessage{topic: topic, data: data, headers: headersFromOptions(opts)}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	targets := make([]*memorySubscription, 0, len(b.topics[topic]))
	for _, sub := range b.topics[topic] {
		targets = append(targets, sub)
		// Once-subscriptions detach before delivery so a racing second
		// publish cannot reach them.
		if sub.once {
			delete(b.topics[topic], sub.id)
		}
	}
	if len(b.topics[topic]) == 0 {
		delete(b.topics, topic)
	}
	b.mu.Unlock()

	for _, sub := range targets {
		go func(sub *memorySubscription) {
			select {
			case <-sub.ctx.Done():
			default:
				sub.cb(sub.ctx, msg)
			}
		}(sub)
	}
	return nil
}

func (b *memoryBus) Close() error {
	b.mu.Lock()
	b.closed = true
	b.topics = make(map[string]map[string]*memorySubscription)
	b.mu.Unlock()
	return nil
}
