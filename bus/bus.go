package bus

import (
	"context"

	"github.com/cockroachdb/errors"
)

// ErrClosed is returned by operations on a closed bus.
var ErrClosed = errors.New("bus: closed")

// Message is an event delivered to a subscriber.
type Message interface {
	Topic() string
	Data() []byte
	Headers() Headers
}

// Headers carries optional string metadata alongside an event.
type Headers map[string]string

func (h Headers) Get(key string) string {
	return h[key]
}

func (h Headers) Set(key string, value string) {
	h[key] = value
}

// Handler consumes a delivered message. Handlers run on bus goroutines,
// never on the publisher's.
type Handler func(ctx context.Context, msg Message)

// Subscriber detaches a subscription.
type Subscriber interface {
	Close() error
}

type PublishOption func(*publishOptions)

type publishOptions struct {
	Headers [][]string
}

func WithHeader(key, value string) PublishOption {
	return func(o *publishOptions) {
		o.Headers = append(o.Headers, []string{key, value})
	}
}

func headersFromOptions(opts []PublishOption) Headers {
	options := &publishOptions{}
	for _, opt := range opts {
		opt(options)
	}
	headers := make(Headers)
	for _, header := range options.Headers {
		if len(header) == 2 {
			headers[header[0]] = header[1]
		}
	}
	return headers
}

// Bus is a topic-based publish/subscribe transport. Topics are not
// buffered: a publish reaching a topic before anyone subscribed is lost.
type Bus interface {
	// Publish sends data to every current subscriber of topic.
	Publish(ctx context.Context, topic string, data []byte, opts ...PublishOption) error
	// Subscribe delivers every future publish on topic to cb.
	Subscribe(ctx context.Context, topic string, cb Handler) (Subscriber, error)
	// SubscribeOnce delivers only the first publish on topic after the
	// subscription; the subscription then detaches itself.
	SubscribeOnce(ctx context.Context, topic string, cb Handler) (Subscriber, error)
	// Close detaches all subscriptions.
	Close() error
}
