package worker

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/product-analytics/domain/event"
	"github.com/product-analytics/domain/person"
	"github.com/product-analytics/infrastructure/config"
	"github.com/product-analytics/infrastructure/metrics"
	kafkago "github.com/segmentio/kafka-go"
)

const (
	defaultRetryCount = 1
	baseRetryDelay    = 2 * time.Second
	maxRetryDelay     = 60 * time.Second
)

// RetryWorker replays events whose insert failed, backing off by retry
// count, and dead-letters them after the configured number of attempts.
type RetryWorker struct {
	readerConfig     kafkago.ReaderConfig
	newReader        func(kafkago.ReaderConfig) messageReader
	retryWriter      messageWriter
	dlqWriter        messageWriter
	repository       event.EventRepository
	resolver         person.Resolver
	batchSize        int
	batchTimeout     time.Duration
	workerCount      int
	maxRetryAttempts int
	clock            clockwork.Clock
	wg               sync.WaitGroup
	stopCh           chan struct{}
	retryTopic       string
	dlqTopic         string
}

func NewRetryWorker(cfg config.KafkaConfig, repository event.EventRepository, resolver person.Resolver, workerCfg config.WorkerConfig) *RetryWorker {
	retryTopic := cfg.RetryTopic()
	dlqTopic := cfg.DLQTopic()

	readerConfig := kafkago.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.ConsumerGroup + "-retry",
		Topic:          retryTopic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0,
	}

	return &RetryWorker{
		readerConfig:     readerConfig,
		newReader:        newReader,
		retryWriter:      newTopicWriter(cfg.Brokers, retryTopic, 500, 5*time.Millisecond),
		dlqWriter:        newTopicWriter(cfg.Brokers, dlqTopic, 100, 10*time.Millisecond),
		repository:       repository,
		resolver:         resolver,
		batchSize:        workerCfg.BatchSize,
		batchTimeout:     workerCfg.BatchTimeout,
		workerCount:      workerCfg.RetryWorkerCount,
		maxRetryAttempts: workerCfg.MaxRetryAttempts,
		clock:            clockwork.NewRealClock(),
		stopCh:           make(chan struct{}),
		retryTopic:       retryTopic,
		dlqTopic:         dlqTopic,
	}
}

func (w *RetryWorker) Start(ctx context.Context) {
	slog.Info("Starting retry workers", "count", w.workerCount, "retryTopic", w.retryTopic, "dlqTopic", w.dlqTopic)

	for i := 0; i < w.workerCount; i++ {
		w.wg.Add(1)
		go w.run(ctx, i)
	}
}

func (w *RetryWorker) Stop() {
	slog.Info("Stopping retry workers")
	close(w.stopCh)
	w.wg.Wait()

	if err := w.retryWriter.Close(); err != nil {
		slog.Error("Failed to close retry writer", "error", err)
	}

	if err := w.dlqWriter.Close(); err != nil {
		slog.Error("Failed to close DLQ writer", "error", err)
	}

	slog.Info("All retry workers stopped")
}

func (w *RetryWorker) run(ctx context.Context, workerID int) {
	defer w.wg.Done()

	reader := w.newReader(w.readerConfig)
	defer reader.Close()

	slog.Info("Retry worker started", "workerID", workerID, "topic", w.readerConfig.Topic)

	batchLoop{
		label:        workerLabelRetry,
		batchSize:    w.batchSize,
		batchTimeout: w.batchTimeout,
		stopCh:       w.stopCh,
		flush:        w.flush,
		deadLetter: func(ctx context.Context, msg kafkago.Message, err error) {
			w.sendBatchToDLQ(ctx, []kafkago.Message{msg}, "unmarshal_error", err.Error())
		},
	}.run(ctx, reader, workerID)
}

func (w *RetryWorker) flush(ctx context.Context, reader messageReader, workerID int, batch []*event.Event, messages []kafkago.Message) ([]*event.Event, []kafkago.Message) {
	if len(batch) == 0 {
		return batch, messages
	}

	maxRetryInBatch := 0
	for _, msg := range messages {
		if rc := w.getRetryCount(msg); rc > maxRetryInBatch {
			maxRetryInBatch = rc
		}
	}

	// 2s, 4s, 8s, 16s, 32s, then capped at 60s.
	if maxRetryInBatch > 0 {
		delay := w.calculateBackoff(maxRetryInBatch)
		slog.Debug("Applying retry backoff", "workerID", workerID, "retryCount", maxRetryInBatch, "delay", delay)
		select {
		case <-w.clock.After(delay):
		case <-ctx.Done():
			return batch, messages
		case <-w.stopCh:
			return batch, messages
		}
	}

	slog.Debug("Flushing retry batch", "workerID", workerID, "size", len(batch))

	if err := w.repository.InsertBatch(ctx, batch); err != nil {
		slog.Error("Retry batch insert failed",
			"workerID", workerID,
			"error", err,
			"count", len(batch),
		)

		var toRetry []kafkago.Message
		var toDLQ []kafkago.Message

		for _, msg := range messages {
			retryCount := w.getRetryCount(msg)
			if retryCount >= w.maxRetryAttempts {
				toDLQ = append(toDLQ, msg)
			} else {
				toRetry = append(toRetry, msg)
			}
		}

		metrics.EventsConsumed.WithLabelValues(workerLabelRetry, "retried").Add(float64(len(toRetry)))
		metrics.EventsConsumed.WithLabelValues(workerLabelRetry, "dead_lettered").Add(float64(len(toDLQ)))

		if len(toRetry) > 0 {
			w.sendBatchToRetry(ctx, toRetry, "insert_failed", err.Error())
		}

		if len(toDLQ) > 0 {
			w.sendBatchToDLQ(ctx, toDLQ, "max_retries_exhausted", err.Error())
		}

		if commitErr := reader.CommitMessages(ctx, messages...); commitErr != nil {
			slog.Error("Failed to commit after retry processing", "workerID", workerID, "error", commitErr)
		}

		return batch[:0], messages[:0]
	}

	metrics.EventsConsumed.WithLabelValues(workerLabelRetry, "stored").Add(float64(len(batch)))
	resolvePersons(ctx, w.resolver, workerID, batch)

	if err := reader.CommitMessages(ctx, messages...); err != nil {
		slog.Error("Offset commit failed in retry worker", "workerID", workerID, "error", err)
	}

	return batch[:0], messages[:0]
}

func (w *RetryWorker) calculateBackoff(retryCount int) time.Duration {
	delay := baseRetryDelay * time.Duration(1<<uint(retryCount-1))
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}

func (w *RetryWorker) getRetryCount(msg kafkago.Message) int {
	for _, h := range msg.Headers {
		if h.Key == retryCountHeader {
			count, err := strconv.Atoi(string(h.Value))
			if err != nil {
				slog.Warn("Invalid retry count header, using default", "value", string(h.Value))
				return defaultRetryCount
			}
			return count
		}
	}
	return defaultRetryCount
}

func (w *RetryWorker) sendBatchToRetry(ctx context.Context, messages []kafkago.Message, errorType, errorMsg string) {
	lastRetryAt := w.clock.Now().UTC().Format(time.RFC3339)

	retryMessages := make([]kafkago.Message, 0, len(messages))
	for _, msg := range messages {
		set := append([]kafkago.Header{header(retryCountHeader, strconv.Itoa(w.getRetryCount(msg)+1))}, failureHeaders(errorType, errorMsg)...)
		set = append(set, header(headerLastRetryAt, lastRetryAt))
		retryMessages = append(retryMessages, rewrap(msg, set))
	}

	forward(ctx, w.retryWriter, retryWriteTimeout, w.retryTopic, retryMessages)
}

func (w *RetryWorker) sendBatchToDLQ(ctx context.Context, messages []kafkago.Message, errorType, errorMsg string) {
	sentToDLQAt := w.clock.Now().UTC().Format(time.RFC3339)

	dlqMessages := make([]kafkago.Message, 0, len(messages))
	for _, msg := range messages {
		set := append([]kafkago.Header{header(headerFinalRetryCount, strconv.Itoa(w.getRetryCount(msg)))}, failureHeaders(errorType, errorMsg)...)
		set = append(set, header(headerSentToDLQAt, sentToDLQAt))
		dlqMessages = append(dlqMessages, rewrap(msg, set, retryCountHeader))
	}

	forward(ctx, w.dlqWriter, retryWriteTimeout, w.dlqTopic, dlqMessages)
}
