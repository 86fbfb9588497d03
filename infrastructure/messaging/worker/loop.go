package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/product-analytics/domain/event"
	"github.com/product-analytics/infrastructure/metrics"
	kafkago "github.com/segmentio/kafka-go"
)

type flushFunc func(ctx context.Context, reader messageReader, workerID int, batch []*event.Event, messages []kafkago.Message) ([]*event.Event, []kafkago.Message)

// batchLoop fetches messages into a batch and hands it to flush when it is
// full, when batchTimeout passes, or on shutdown. Messages that do not decode
// go to deadLetter and are committed on their own.
type batchLoop struct {
	label        string
	batchSize    int
	batchTimeout time.Duration
	stopCh       <-chan struct{}
	flush        flushFunc
	deadLetter   func(ctx context.Context, msg kafkago.Message, err error)
}

func (l batchLoop) run(ctx context.Context, reader messageReader, workerID int) {
	batch := make([]*event.Event, 0, l.batchSize)
	messages := make([]kafkago.Message, 0, l.batchSize)
	ticker := time.NewTicker(l.batchTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Context cancelled, flushing remaining batch", "worker", l.label, "workerID", workerID)
			l.drain(reader, workerID, batch, messages)
			return

		case <-l.stopCh:
			slog.Info("Stop signal received, flushing remaining batch", "worker", l.label, "workerID", workerID)
			l.drain(reader, workerID, batch, messages)
			return

		case <-ticker.C:
			batch, messages = l.flush(ctx, reader, workerID, batch, messages)

		default:
			fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
			msg, err := reader.FetchMessage(fetchCtx)
			cancel()

			if err != nil {
				if ctx.Err() != nil {
					l.drain(reader, workerID, batch, messages)
					return
				}
				continue
			}

			e, err := decodeEvent(msg)
			if err != nil {
				slog.Warn("Skipped malformed event, sending to DLQ",
					"worker", l.label,
					"workerID", workerID,
					"error", err,
					"partition", msg.Partition,
					"offset", msg.Offset,
				)
				metrics.EventsConsumed.WithLabelValues(l.label, "malformed").Inc()
				l.deadLetter(ctx, msg, err)
				if err := reader.CommitMessages(ctx, msg); err != nil {
					slog.Error("Offset commit failed", "worker", l.label, "workerID", workerID, "error", err)
				}
				continue
			}

			batch = append(batch, e)
			messages = append(messages, msg)

			if len(batch) >= l.batchSize {
				batch, messages = l.flush(ctx, reader, workerID, batch, messages)
				ticker.Reset(l.batchTimeout)
			}
		}
	}
}

// drain flushes what is left with a fresh context, since the run context
// may already be cancelled.
func (l batchLoop) drain(reader messageReader, workerID int, batch []*event.Event, messages []kafkago.Message) {
	if len(batch) == 0 {
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	l.flush(shutdownCtx, reader, workerID, batch, messages)
}
