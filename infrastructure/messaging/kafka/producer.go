package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/product-analytics/domain/event"
	"github.com/product-analytics/infrastructure/config"
	"github.com/product-analytics/infrastructure/metrics"
	"github.com/segmentio/kafka-go"
)

// EventPublisher defines the interface for publishing events to a message broker
type EventPublisher interface {
	Publish(ctx context.Context, e *event.Event) error
	PublishBatch(ctx context.Context, events []*event.Event) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
	topic  string
}

func NewProducer(cfg config.KafkaConfig) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    1000,
		BatchBytes:   1048576,
		BatchTimeout: 5 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	return &Producer{
		writer: writer,
		topic:  cfg.Topic,
	}
}

// MessageKey partitions events by team and distinct id so one user's events
// stay ordered.
func MessageKey(e *event.Event) []byte {
	return []byte(strconv.FormatInt(e.TeamID, 10) + ":" + e.DistinctID)
}

func encode(e *event.Event) (kafka.Message, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	return kafka.Message{
		Key:   MessageKey(e),
		Value: data,
	}, nil
}

func (p *Producer) Publish(ctx context.Context, e *event.Event) error {
	return p.PublishBatch(ctx, []*event.Event{e})
}

func (p *Producer) PublishBatch(ctx context.Context, events []*event.Event) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		msg, err := encode(e)
		if err != nil {
			return err
		}
		messages = append(messages, msg)
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		metrics.EventsPublished.WithLabelValues("error").Add(float64(len(messages)))
		return fmt.Errorf("failed to write messages: %w", err)
	}

	metrics.EventsPublished.WithLabelValues("ok").Add(float64(len(messages)))
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

type TopicConfig struct {
	Name       string
	Partitions int
}

func EnsureTopicsWithConfig(cfg config.KafkaConfig, topics []TopicConfig) error {
	conn, err := kafka.Dial("tcp", cfg.Brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to kafka: %w", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("failed to get controller: %w", err)
	}

	controllerConn, err := kafka.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	if err != nil {
		return fmt.Errorf("failed to connect to controller: %w", err)
	}
	defer controllerConn.Close()

	topicConfigs := make([]kafka.TopicConfig, 0, len(topics))
	for _, topic := range topics {
		topicConfigs = append(topicConfigs, kafka.TopicConfig{
			Topic:             topic.Name,
			NumPartitions:     topic.Partitions,
			ReplicationFactor: cfg.ReplicationFactor,
		})
	}

	err = controllerConn.CreateTopics(topicConfigs...)
	if err != nil {
		if err.Error() != "Topic with this name already exists" {
			return fmt.Errorf("failed to create topics: %w", err)
		}
		slog.Info("Topics already exist, continuing...")
	}

	topicNames := make([]string, len(topics))
	for i, t := range topics {
		topicNames[i] = t.Name
	}
	slog.Info("Ensured topics exist", "topics", topicNames)
	return nil
}

// CaptureTopics lists the capture topic with its retry and dead letter topics.
func CaptureTopics(cfg config.KafkaConfig) []TopicConfig {
	return []TopicConfig{
		{Name: cfg.Topic, Partitions: cfg.Partitions},
		{Name: cfg.RetryTopic(), Partitions: max(1, cfg.Partitions/4)},
		{Name: cfg.DLQTopic(), Partitions: 1},
	}
}
