package eventpublisher

import (
	"context"
	"encoding/json"
	"strconv"

	eventv1 "github.com/muhammadchandra19/token-exchange/internal/domain/event/v1"
	"github.com/muhammadchandra19/token-exchange/pkg/config"
	"github.com/muhammadchandra19/token-exchange/pkg/errors"
	"github.com/muhammadchandra19/token-exchange/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Header names set on every message.
const (
	HeaderEventType = "event_type"
	HeaderSeq       = "seq"
)

// Writer is the subset of *kafka.Writer the publisher uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes committed events to a Kafka topic. Events are keyed by
// asset, so the hash balancer keeps each asset's events in one partition and
// in sequence order.
type Publisher struct {
	writer Writer
	logger logger.Interface
}

var _ eventv1.Publisher = (*Publisher)(nil)

// NewPublisher creates a synchronous publisher that waits for all in-sync replicas.
func NewPublisher(cfg config.KafkaConfig, log logger.Interface) *Publisher {
	return NewPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, log)
}

// NewPublisherWithWriter creates a publisher on top of an existing writer.
func NewPublisherWithWriter(w Writer, log logger.Interface) *Publisher {
	return &Publisher{
		writer: w,
		logger: log,
	}
}

// Publish writes events as one batch. Delivery is at-least-once: a failed
// batch is retried in full by the caller.
func (p *Publisher) Publish(ctx context.Context, events []eventv1.Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(e)
		if err != nil {
			p.logger.ErrorContext(ctx, err,
				logger.Field{Key: "seq", Value: e.Seq},
				logger.Field{Key: "event_type", Value: e.Type},
			)
			return errors.NewTracer("event_marshal_error").Wrap(err)
		}

		msgs = append(msgs, kafka.Message{
			Key:   []byte(e.Key()),
			Value: value,
			Headers: []kafka.Header{
				{Key: HeaderEventType, Value: []byte(e.Type)},
				{Key: HeaderSeq, Value: []byte(strconv.FormatUint(e.Seq, 10))},
			},
			Time: e.Timestamp,
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.Field{Key: "first_seq", Value: events[0].Seq},
			logger.Field{Key: "count", Value: len(events)},
		)
		return errors.NewTracer("event_publish_error").Wrap(err)
	}

	p.logger.DebugContext(ctx, "events published",
		logger.Field{Key: "first_seq", Value: events[0].Seq},
		logger.Field{Key: "last_seq", Value: events[len(events)-1].Seq},
	)
	return nil
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
