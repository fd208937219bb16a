package ebsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/acksell/jassy/eventbridge/ebgen"
)

// KafkaConfig configures the Kafka event sink.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	Logger  zerolog.Logger
}

// KafkaSink mirrors generated events onto a Kafka topic, keyed by event
// source so all events of one service land in one partition.
type KafkaSink struct {
	writer *kafka.Writer
	topic  string
	log    zerolog.Logger
}

// NewKafkaSink creates a sink for the given brokers and topic. With no
// brokers configured the sink runs in log-only mode and drops messages.
func NewKafkaSink(cfg KafkaConfig) *KafkaSink {
	if len(cfg.Brokers) == 0 {
		cfg.Logger.Info().Msg("kafka disabled, using log-only mode")
		return &KafkaSink{
			topic: cfg.Topic,
			log:   cfg.Logger,
		}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}

	cfg.Logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Msg("kafka sink initialized")

	return &KafkaSink{
		writer: writer,
		topic:  cfg.Topic,
		log:    cfg.Logger,
	}
}

// Send writes one event to the topic.
func (s *KafkaSink) Send(ctx context.Context, event *ebgen.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if s.writer == nil {
		s.log.Debug().
			Str("topic", s.topic).
			RawJSON("event", payload).
			Msg("kafka disabled, dropping event")
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(event.Source),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "detail-type", Value: []byte(event.DetailType)},
		},
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write to kafka: %w", err)
	}
	return nil
}

// Close closes the underlying writer.
func (s *KafkaSink) Close() error {
	if s.writer == nil {
		return nil
	}
	return s.writer.Close()
}
