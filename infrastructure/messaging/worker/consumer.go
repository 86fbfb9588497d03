package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
	"github.com/product-analytics/domain/event"
	"github.com/product-analytics/domain/person"
	"github.com/product-analytics/infrastructure/config"
	"github.com/product-analytics/infrastructure/metrics"
	kafkago "github.com/segmentio/kafka-go"
)

const (
	retryCountHeader  = "retry_count"
	fetchTimeout      = 100 * time.Millisecond
	shutdownTimeout   = 5 * time.Second
	retryWriteTimeout = 10 * time.Second
	dlqWriteTimeout   = 5 * time.Second
	resolveTimeout    = 10 * time.Second

	workerLabelMain  = "main"
	workerLabelRetry = "retry"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

func newReader(cfg kafkago.ReaderConfig) messageReader {
	return kafkago.NewReader(cfg)
}

func newTopicWriter(brokers []string, topic string, batchSize int, batchTimeout time.Duration) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		BatchSize:    batchSize,
		BatchTimeout: batchTimeout,
		RequiredAcks: kafkago.RequireOne,
	}
}

func decodeEvent(msg kafkago.Message) (*event.Event, error) {
	var e event.Event
	if err := json.Unmarshal(msg.Value, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// resolvePersons gives each distinct id in the stored batch a person. Failures
// are logged only; the events are already stored.
func resolvePersons(ctx context.Context, resolver person.Resolver, workerID int, batch []*event.Event) {
	if resolver == nil {
		return
	}
	resolveCtx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	for teamID, ids := range event.DistinctIDsByTeam(batch) {
		if err := resolver.EnsureDistinctIDs(resolveCtx, teamID, ids); err != nil {
			slog.Error("Failed to resolve persons for batch",
				"workerID", workerID,
				"teamID", teamID,
				"distinctIDs", len(ids),
				"error", err,
			)
		}
	}
}

type EventWorker struct {
	readerConfig kafkago.ReaderConfig
	newReader    func(kafkago.ReaderConfig) messageReader
	retryWriter  messageWriter
	dlqWriter    messageWriter
	repository   event.EventRepository
	resolver     person.Resolver
	batchSize    int
	batchTimeout time.Duration
	workerCount  int
	clock        clockwork.Clock
	wg           sync.WaitGroup
	stopCh       chan struct{}
	retryTopic   string
	dlqTopic     string
}

func NewEventWorker(cfg config.KafkaConfig, repository event.EventRepository, resolver person.Resolver, workerCfg config.WorkerConfig) *EventWorker {
	readerConfig := kafkago.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.ConsumerGroup,
		Topic:          cfg.Topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0,
	}

	return &EventWorker{
		readerConfig: readerConfig,
		newReader:    newReader,
		retryWriter:  newTopicWriter(cfg.Brokers, cfg.RetryTopic(), 500, 5*time.Millisecond),
		dlqWriter:    newTopicWriter(cfg.Brokers, cfg.DLQTopic(), 100, 10*time.Millisecond),
		repository:   repository,
		resolver:     resolver,
		batchSize:    workerCfg.BatchSize,
		batchTimeout: workerCfg.BatchTimeout,
		workerCount:  workerCfg.Count,
		clock:        clockwork.NewRealClock(),
		stopCh:       make(chan struct{}),
		retryTopic:   cfg.RetryTopic(),
		dlqTopic:     cfg.DLQTopic(),
	}
}

func (w *EventWorker) Start(ctx context.Context) {
	slog.Info("Starting event workers", "count", w.workerCount, "retryTopic", w.retryTopic, "dlqTopic", w.dlqTopic)

	for i := 0; i < w.workerCount; i++ {
		w.wg.Add(1)
		go w.run(ctx, i)
	}
}

func (w *EventWorker) Stop() {
	slog.Info("Stopping event workers")
	close(w.stopCh)
	w.wg.Wait()

	if err := w.retryWriter.Close(); err != nil {
		slog.Error("Failed to close retry writer", "error", err)
	}

	if err := w.dlqWriter.Close(); err != nil {
		slog.Error("Failed to close DLQ writer", "error", err)
	}

	slog.Info("All event workers stopped")
}

func (w *EventWorker) run(ctx context.Context, workerID int) {
	defer w.wg.Done()

	reader := w.newReader(w.readerConfig)
	defer reader.Close()

	slog.Info("Worker started", "workerID", workerID, "topic", w.readerConfig.Topic)

	batchLoop{
		label:        workerLabelMain,
		batchSize:    w.batchSize,
		batchTimeout: w.batchTimeout,
		stopCh:       w.stopCh,
		flush:        w.flush,
		deadLetter: func(ctx context.Context, msg kafkago.Message, err error) {
			w.sendToDLQ(ctx, msg, "unmarshal_error", err.Error())
		},
	}.run(ctx, reader, workerID)
}

func (w *EventWorker) flush(ctx context.Context, reader messageReader, workerID int, batch []*event.Event, messages []kafkago.Message) ([]*event.Event, []kafkago.Message) {
	if len(batch) == 0 {
		return batch, messages
	}

	slog.Debug("Flushing batch", "workerID", workerID, "size", len(batch))

	if err := w.repository.InsertBatch(ctx, batch); err != nil {
		slog.Error("Batch insert failed, sending to retry topic",
			"workerID", workerID,
			"error", err,
			"count", len(batch),
		)
		metrics.EventsConsumed.WithLabelValues(workerLabelMain, "retried").Add(float64(len(batch)))

		w.sendBatchToRetry(ctx, messages, "insert_failed", err.Error())

		if commitErr := reader.CommitMessages(ctx, messages...); commitErr != nil {
			slog.Error("Offset commit failed", "workerID", workerID, "error", commitErr)
		}
		return batch[:0], messages[:0]
	}

	metrics.EventsConsumed.WithLabelValues(workerLabelMain, "stored").Add(float64(len(batch)))
	resolvePersons(ctx, w.resolver, workerID, batch)

	if err := reader.CommitMessages(ctx, messages...); err != nil {
		slog.Error("Offset commit failed", "workerID", workerID, "error", err)
	}

	return batch[:0], messages[:0]
}

func (w *EventWorker) sendBatchToRetry(ctx context.Context, messages []kafkago.Message, errorType, errorMsg string) {
	failedAt := w.clock.Now().UTC().Format(time.RFC3339)

	retryMessages := make([]kafkago.Message, 0, len(messages))
	for _, msg := range messages {
		set := append([]kafkago.Header{header(retryCountHeader, "1")}, failureHeaders(errorType, errorMsg)...)
		set = append(set, originHeaders(w.readerConfig.Topic, msg)...)
		set = append(set, header(headerFailedAt, failedAt))
		retryMessages = append(retryMessages, rewrap(msg, set))
	}

	forward(ctx, w.retryWriter, retryWriteTimeout, w.retryTopic, retryMessages)
}

func (w *EventWorker) sendToDLQ(ctx context.Context, msg kafkago.Message, errorType, errorMsg string) {
	set := append(failureHeaders(errorType, errorMsg), originHeaders(w.readerConfig.Topic, msg)...)
	set = append(set, header(headerFailedAt, w.clock.Now().UTC().Format(time.RFC3339)))

	forward(ctx, w.dlqWriter, dlqWriteTimeout, w.dlqTopic, []kafkago.Message{rewrap(msg, set, retryCountHeader)})
}
