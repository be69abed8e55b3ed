// Package eventbus connects Watermill publishers and subscribers to NATS
// JetStream, with an in-memory variant for tests.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/nats-io/nkeys"

	"github.com/Black-And-White-Club/reelboard/pkg/observability/attr"
)

// EventBus is what modules publish to and routers consume from.
type EventBus interface {
	message.Publisher
	message.Subscriber
}

// Options configures the JetStream connection.
type Options struct {
	URL string
	// NKeySeed authenticates the connection when set.
	NKeySeed string
	// ConsumerName prefixes durable consumers so restarts resume where they left off.
	ConsumerName string
	// Streams are provisioned before publishing; each gets "<name>.>" as its subject filter.
	Streams []string
}

// JetStreamEventBus is the production EventBus.
type JetStreamEventBus struct {
	logger     *slog.Logger
	conn       *nc.Conn
	publisher  *wmnats.Publisher
	subscriber *wmnats.Subscriber
}

var _ EventBus = (*JetStreamEventBus)(nil)

// NewEventBus connects to NATS, provisions streams and builds the Watermill pub/sub pair.
func NewEventBus(ctx context.Context, opts Options, logger *slog.Logger) (*JetStreamEventBus, error) {
	if opts.URL == "" {
		return nil, errors.New("eventbus: NATS URL is required")
	}

	wmLogger := watermill.NewSlogLogger(logger)

	natsOptions := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Timeout(30 * time.Second),
		nc.ReconnectWait(1 * time.Second),
		nc.ErrorHandler(func(_ *nc.Conn, s *nc.Subscription, err error) {
			if s != nil {
				logger.Error("Error in subscription",
					attr.String("subject", s.Subject),
					attr.String("queue", s.Queue),
					attr.Error(err),
				)
				return
			}
			logger.Error("Error in connection", attr.Error(err))
		}),
	}

	if opts.NKeySeed != "" {
		nkeyOpt, err := nkeyOption(opts.NKeySeed)
		if err != nil {
			return nil, err
		}
		natsOptions = append(natsOptions, nkeyOpt)
	}

	conn, err := nc.Connect(opts.URL, natsOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	if err := ensureStreams(ctx, conn, opts.Streams); err != nil {
		conn.Close()
		return nil, err
	}

	publisher, err := wmnats.NewPublisher(
		wmnats.PublisherConfig{
			URL:         opts.URL,
			NatsOptions: natsOptions,
			Marshaler:   &wmnats.NATSMarshaler{},
			JetStream: wmnats.JetStreamConfig{
				Disabled:      false,
				AutoProvision: false,
			},
		},
		wmLogger,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create Watermill NATS publisher: %w", err)
	}

	subscriber, err := wmnats.NewSubscriber(
		wmnats.SubscriberConfig{
			URL:              opts.URL,
			QueueGroupPrefix: opts.ConsumerName,
			SubscribersCount: 1,
			AckWaitTimeout:   30 * time.Second,
			NatsOptions:      natsOptions,
			Unmarshaler:      &wmnats.NATSMarshaler{},
			JetStream: wmnats.JetStreamConfig{
				Disabled:      false,
				AutoProvision: false,
				DurablePrefix: opts.ConsumerName,
			},
		},
		wmLogger,
	)
	if err != nil {
		_ = publisher.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to create Watermill NATS subscriber: %w", err)
	}

	logger.InfoContext(ctx, "JetStream event bus connected",
		attr.String("url", opts.URL),
		attr.Any("streams", opts.Streams),
	)

	return &JetStreamEventBus{
		logger:     logger,
		conn:       conn,
		publisher:  publisher,
		subscriber: subscriber,
	}, nil
}

func nkeyOption(seed string) (nc.Option, error) {
	kp, err := nkeys.FromSeed([]byte(seed))
	if err != nil {
		return nil, fmt.Errorf("invalid NATS nkey seed: %w", err)
	}
	pub, err := kp.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("failed to derive nkey public key: %w", err)
	}
	return nc.Nkey(pub, func(nonce []byte) ([]byte, error) {
		return kp.Sign(nonce)
	}), nil
}

func ensureStreams(ctx context.Context, conn *nc.Conn, streams []string) error {
	if len(streams) == 0 {
		return nil
	}
	js, err := jetstream.New(conn)
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}
	for _, name := range streams {
		if !isValidStreamName(name) {
			return fmt.Errorf("invalid stream name: %s", name)
		}
		_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
			Name:     name,
			Subjects: []string{name + ".>"},
		})
		if err != nil {
			return fmt.Errorf("failed to provision stream %s: %w", name, err)
		}
	}
	return nil
}

// StreamForTopic returns the stream a topic belongs to ("leaderboard.published.v1" -> "leaderboard").
func StreamForTopic(topic string) string {
	name, _, _ := strings.Cut(topic, ".")
	return name
}

// isValidStreamName checks the NATS stream naming rules.
func isValidStreamName(name string) bool {
	if name == "" || name[0] == '-' || name[len(name)-1] == '-' {
		return false
	}
	for _, r := range name {
		if !isValidRune(r) {
			return false
		}
	}
	return true
}

func isValidRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
}

func (b *JetStreamEventBus) Publish(topic string, messages ...*message.Message) error {
	if err := b.publisher.Publish(topic, messages...); err != nil {
		return fmt.Errorf("eventbus.Publish %s: %w", topic, err)
	}
	return nil
}

func (b *JetStreamEventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.subscriber.Subscribe(ctx, topic)
}

// Close closes the publisher, subscriber and the provisioning connection.
func (b *JetStreamEventBus) Close() error {
	var errs []error
	if err := b.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close publisher: %w", err))
	}
	if err := b.subscriber.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close subscriber: %w", err))
	}
	b.conn.Close()
	return errors.Join(errs...)
}

// InMemoryEventBus routes messages through a Go channel pub/sub.
type InMemoryEventBus struct {
	*gochannel.GoChannel
}

var _ EventBus = (*InMemoryEventBus)(nil)

// NewInMemory returns an EventBus backed by watermill's gochannel.
func NewInMemory(logger *slog.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		GoChannel: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
			Persistent:          true,
		}, watermill.NewSlogLogger(logger)),
	}
}
