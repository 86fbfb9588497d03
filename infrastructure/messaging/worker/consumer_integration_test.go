//go:build integration

package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/product-analytics/domain/apperror"
	"github.com/product-analytics/domain/event"
	"github.com/product-analytics/infrastructure/config"
	kafkapkg "github.com/product-analytics/infrastructure/messaging/kafka"
	clickhousepkg "github.com/product-analytics/infrastructure/persistence/clickhouse"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	clickhousemodule "github.com/testcontainers/testcontainers-go/modules/clickhouse"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
)

type testInfrastructure struct {
	kafkaBroker       string
	kafkaCleanup      func()
	clickhouseCleanup func()
	clickhouseClient  *clickhousepkg.Client
}

func setupTestInfrastructure(t *testing.T) *testInfrastructure {
	ctx := context.Background()
	infra := &testInfrastructure{}

	kafkaContainer, err := kafkamodule.Run(ctx,
		"confluentinc/cp-kafka:7.6.1",
		kafkamodule.WithClusterID("test-cluster"),
	)
	require.NoError(t, err)

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err)
	infra.kafkaBroker = brokers[0]
	infra.kafkaCleanup = func() {
		testcontainers.CleanupContainer(t, kafkaContainer)
	}

	clickhouseContainer, err := clickhousemodule.Run(ctx,
		"clickhouse/clickhouse-server:24.3",
		clickhousemodule.WithUsername("default"),
		clickhousemodule.WithPassword("clickhouse123"),
		clickhousemodule.WithDatabase("test_db"),
	)
	require.NoError(t, err)
	infra.clickhouseCleanup = func() {
		testcontainers.CleanupContainer(t, clickhouseContainer)
	}

	host, err := clickhouseContainer.Host(ctx)
	require.NoError(t, err)

	port, err := clickhouseContainer.MappedPort(ctx, "9000")
	require.NoError(t, err)

	client, err := clickhousepkg.NewClient(config.ClickHouseConfig{
		Host:     host,
		Port:     port.Int(),
		Database: "test_db",
		Username: "default",
		Password: "clickhouse123",
	})
	require.NoError(t, err)
	require.NoError(t, client.InitSchema(ctx))
	infra.clickhouseClient = client

	return infra
}

func (i *testInfrastructure) cleanup() {
	if i.clickhouseClient != nil {
		i.clickhouseClient.Close()
	}
	if i.kafkaCleanup != nil {
		i.kafkaCleanup()
	}
	if i.clickhouseCleanup != nil {
		i.clickhouseCleanup()
	}
}

func (i *testInfrastructure) kafkaConfig(topic string) config.KafkaConfig {
	return config.KafkaConfig{
		Brokers:           []string{i.kafkaBroker},
		Topic:             topic,
		ConsumerGroup:     topic + "-group",
		Partitions:        1,
		ReplicationFactor: 1,
	}
}

type recordingResolver struct {
	mu  sync.Mutex
	ids map[int64][]string
}

func (r *recordingResolver) EnsureDistinctIDs(_ context.Context, teamID int64, distinctIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ids == nil {
		r.ids = make(map[int64][]string)
	}
	r.ids[teamID] = append(r.ids[teamID], distinctIDs...)
	return nil
}

func (r *recordingResolver) seen(teamID int64) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids[teamID]...)
}

func TestIntegration_EndToEnd_ProduceConsumeStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	infra := setupTestInfrastructure(t)
	defer infra.cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kafkaCfg := infra.kafkaConfig("integration-events")
	require.NoError(t, kafkapkg.EnsureTopicsWithConfig(kafkaCfg, kafkapkg.CaptureTopics(kafkaCfg)))

	producer := kafkapkg.NewProducer(kafkaCfg)
	defer producer.Close()

	repo := clickhousepkg.NewEventRepository(infra.clickhouseClient.Conn(), infra.clickhouseClient.Database())
	resolver := &recordingResolver{}
	worker := NewEventWorker(kafkaCfg, repo, resolver, config.WorkerConfig{
		Count:        1,
		BatchSize:    10,
		BatchTimeout: 100 * time.Millisecond,
	})
	worker.Start(ctx)
	defer worker.Stop()

	now := time.Now().UTC().Truncate(time.Millisecond)
	events := []*event.Event{
		{TeamID: 7, Event: "$pageview", DistinctID: "alice", Properties: map[string]any{"$current_url": "https://example.com/"}, Timestamp: now},
		{TeamID: 7, Event: "$autocapture", DistinctID: "bob", Elements: []event.Element{{TagName: "button", Text: "Buy", Order: 0}}, Timestamp: now},
	}
	for _, e := range events {
		e.GenerateID()
	}
	require.NoError(t, producer.PublishBatch(ctx, events))

	require.Eventually(t, func() bool {
		_, err := repo.Get(ctx, 7, events[1].ID)
		return err == nil
	}, 60*time.Second, 500*time.Millisecond)

	stored, err := repo.Get(ctx, 7, events[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", stored.DistinctID)
	require.Len(t, stored.Elements, 1)
	assert.Equal(t, "Buy", stored.Elements[0].Text)

	_, err = repo.Get(ctx, 8, events[1].ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	assert.Eventually(t, func() bool {
		return len(resolver.seen(7)) >= 2
	}, 10*time.Second, 100*time.Millisecond)
}

func TestIntegration_MalformedMessageGoesToDLQ(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	infra := setupTestInfrastructure(t)
	defer infra.cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kafkaCfg := infra.kafkaConfig("dlq-events")
	require.NoError(t, kafkapkg.EnsureTopicsWithConfig(kafkaCfg, kafkapkg.CaptureTopics(kafkaCfg)))

	repo := clickhousepkg.NewEventRepository(infra.clickhouseClient.Conn(), infra.clickhouseClient.Database())
	worker := NewEventWorker(kafkaCfg, repo, nil, config.WorkerConfig{
		Count:        1,
		BatchSize:    10,
		BatchTimeout: 100 * time.Millisecond,
	})
	worker.Start(ctx)
	defer worker.Stop()

	writer := &kafka.Writer{
		Addr:         kafka.TCP(infra.kafkaBroker),
		Topic:        kafkaCfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 5 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	defer writer.Close()
	require.NoError(t, writer.WriteMessages(ctx, kafka.Message{Key: []byte("x"), Value: []byte("{broken")}))

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   []string{infra.kafkaBroker},
		Topic:     kafkaCfg.DLQTopic(),
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	defer reader.Close()
	reader.SetOffset(kafka.FirstOffset)

	readCtx, readCancel := context.WithTimeout(ctx, 60*time.Second)
	defer readCancel()

	msg, err := reader.ReadMessage(readCtx)
	require.NoError(t, err)
	assert.Equal(t, "{broken", string(msg.Value))

	errType, ok := headerValue(msg.Headers, "error_type")
	require.True(t, ok)
	assert.Equal(t, "unmarshal_error", errType)
	topic, _ := headerValue(msg.Headers, "original_topic")
	assert.Equal(t, kafkaCfg.Topic, topic)
}

func TestIntegration_RetryWorkerStoresReplayedEvent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	infra := setupTestInfrastructure(t)
	defer infra.cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kafkaCfg := infra.kafkaConfig("retry-events")
	require.NoError(t, kafkapkg.EnsureTopicsWithConfig(kafkaCfg, kafkapkg.CaptureTopics(kafkaCfg)))

	repo := clickhousepkg.NewEventRepository(infra.clickhouseClient.Conn(), infra.clickhouseClient.Database())
	worker := NewRetryWorker(kafkaCfg, repo, nil, config.WorkerConfig{
		BatchSize:        10,
		BatchTimeout:     100 * time.Millisecond,
		RetryWorkerCount: 1,
		MaxRetryAttempts: 5,
	})
	worker.Start(ctx)
	defer worker.Stop()

	e := &event.Event{TeamID: 3, Event: "signed_up", DistinctID: "carol", Timestamp: time.Now().UTC()}
	e.GenerateID()
	payload := kafkapkg.MessageKey(e)
	require.NotEmpty(t, payload)

	writer := &kafka.Writer{
		Addr:         kafka.TCP(infra.kafkaBroker),
		Topic:        kafkaCfg.RetryTopic(),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 5 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	defer writer.Close()

	value := []byte(`{"id":"` + e.ID + `","team_id":3,"event":"signed_up","distinct_id":"carol","timestamp":"` + e.Timestamp.Format(time.RFC3339Nano) + `"}`)
	require.NoError(t, writer.WriteMessages(ctx, kafka.Message{
		Key:     payload,
		Value:   value,
		Headers: []kafka.Header{{Key: retryCountHeader, Value: []byte("1")}},
	}))

	require.Eventually(t, func() bool {
		_, err := repo.Get(ctx, 3, e.ID)
		return err == nil
	}, 60*time.Second, 500*time.Millisecond)
}
