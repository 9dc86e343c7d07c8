package events

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

const (
	writeTimeout = 5 * time.Second
	maxAttempts  = 3
)

// messageWriter is the part of kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to Kafka, routing each event type to a topic.
type KafkaPublisher struct {
	writer       messageWriter
	topicByEvent map[string]string
	logger       zerolog.Logger
}

// NewKafkaPublisher creates a publisher for the given brokers. Events without
// a topic mapping are written to a topic named after the event type.
func NewKafkaPublisher(brokers []string, topicByEvent map[string]string, logger zerolog.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}

	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			RequiredAcks: kafka.RequireAll,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: writeTimeout,
			MaxAttempts:  maxAttempts,
		},
		topicByEvent: topicByEvent,
		logger:       logger.With().Str("component", "kafka-publisher").Logger(),
	}, nil
}

// Publish writes one message keyed by partitionKey so events of a shop stay ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error {
	topic := eventType
	if mapped, ok := p.topicByEvent[eventType]; ok && mapped != "" {
		topic = mapped
	}

	err := p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(partitionKey),
		Value: payload,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s to %s: %w", eventType, topic, err)
	}

	p.logger.Debug().Str("event_type", eventType).Str("topic", topic).Msg("event published")
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
