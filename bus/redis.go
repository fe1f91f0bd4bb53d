package bus

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

type redisEnvelope struct {
	InternalTopic   string  `msgpack:"topic"`
	InternalData    []byte  `msgpack:"data"`
	InternalHeaders Headers `msgpack:"headers"`
}

func (e *redisEnvelope) Topic() string {
	return e.InternalTopic
}

func (e *redisEnvelope) Data() []byte {
	return e.InternalData
}

func (e *redisEnvelope) Headers() Headers {
	return e.InternalHeaders
}

type redisSubscriber struct {
	pubsub *redis.PubSub
}

func (s *redisSubscriber) Close() error {
	return s.pubsub.Close()
}

type redisBus struct {
	rdb    *redis.Client
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
}

var _ Bus = (*redisBus)(nil)

// NewRedis returns a Bus over Redis pub/sub, letting a bust in one process
// reach refresh subscribers in another. The caller owns the redis.Client
// lifecycle; Close only stops this bus's subscription goroutines.
func NewRedis(ctx context.Context, logger *zap.Logger, rdb *redis.Client) Bus {
	ctx, cancel := context.WithCancel(ctx)
	return &redisBus{
		rdb:    rdb,
		ctx:    ctx,
		cancel: cancel,
		logger: logger.Named("bus"),
	}
}

func (b *redisBus) Publish(ctx context.Context, topic string, data []byte, opts ...PublishOption) error {
	env := redisEnvelope{
		InternalTopic:   topic,
		InternalData:    data,
		InternalHeaders: headersFromOptions(opts),
	}
	payload, err := msgpack.Marshal(&env)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}
	if err := b.rdb.Publish(ctx, topic, payload).Err(); err != nil {
		return errors.Wrapf(err, "publish to %q", topic)
	}
	return nil
}

func (b *redisBus) subscribe(ctx context.Context, topic string, cb Handler, once bool) (Subscriber, error) {
	pubsub := b.rdb.Subscribe(ctx, topic)

	go func() {
		ch := pubsub.Channel()
		for {
			select {
			case <-b.ctx.Done():
				return
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}
				var env redisEnvelope
				if err := msgpack.Unmarshal([]byte(m.Payload), &env); err != nil {
					b.logger.Warn("dropping undecodable event",
						zap.String("topic", topic), zap.Error(err))
					continue
				}
				if once {
					// Detach before the handler runs so nothing later on
					// the channel is delivered.
					_ = pubsub.Unsubscribe(ctx, topic)
					cb(ctx, &env)
					return
				}
				cb(ctx, &env)
			}
		}
	}()

	return &redisSubscriber{pubsub: pubsub}, nil
}

func (b *redisBus) Subscribe(ctx context.Context, topic string, cb Handler) (Subscriber, error) {
	return b.subscribe(ctx, topic, cb, false)
}

func (b *redisBus) SubscribeOnce(ctx context.Context, topic string, cb Handler) (Subscriber, error) {
	return b.subscribe(ctx, topic, cb, true)
}

func (b *redisBus) Close() error {
	b.cancel()
	return nil
}
