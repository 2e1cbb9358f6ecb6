package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher sends domain events keyed by aggregate id.
type Publisher interface {
	Publish(ctx context.Context, key string, event Event) error
	Close() error
}

type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	if logger == nil {
		logger = zap.NewNop()
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return &Producer{writer: writer, logger: logger.Named("kafka")}
}

func (p *Producer) Publish(ctx context.Context, key string, event Event) error {
	msg, err := newMessage(key, event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrapf(err, "failed to publish %s", event.EventType())
	}
	p.logger.Debug("event published", zap.String("type", event.EventType()), zap.String("key", key))
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

func newMessage(key string, event Event) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, errors.Wrapf(err, "failed to encode %s", event.EventType())
	}
	return kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType())},
		},
	}, nil
}

// NopPublisher drops events. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, key string, event Event) error { return nil }
func (NopPublisher) Close() error                                                  { return nil }
