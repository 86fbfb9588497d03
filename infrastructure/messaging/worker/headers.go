package worker

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

const (
	headerErrorType         = "error_type"
	headerErrorMessage      = "error_message"
	headerFailedAt          = "failed_at"
	headerLastRetryAt       = "last_retry_at"
	headerFinalRetryCount   = "final_retry_count"
	headerSentToDLQAt       = "sent_to_dlq_at"
	headerOriginalTopic     = "original_topic"
	headerOriginalPartition = "original_partition"
	headerOriginalOffset    = "original_offset"
)

func header(key, value string) kafkago.Header {
	return kafkago.Header{Key: key, Value: []byte(value)}
}

func failureHeaders(errorType, errorMsg string) []kafkago.Header {
	return []kafkago.Header{
		header(headerErrorType, errorType),
		header(headerErrorMessage, errorMsg),
	}
}

func originHeaders(topic string, msg kafkago.Message) []kafkago.Header {
	return []kafkago.Header{
		header(headerOriginalTopic, topic),
		header(headerOriginalPartition, strconv.Itoa(msg.Partition)),
		header(headerOriginalOffset, strconv.FormatInt(msg.Offset, 10)),
	}
}

// rewrap copies msg for another topic. The headers in set come first and
// replace any existing header with the same key; keys in drop are removed.
func rewrap(msg kafkago.Message, set []kafkago.Header, drop ...string) kafkago.Message {
	skip := make(map[string]bool, len(set)+len(drop))
	for _, h := range set {
		skip[h.Key] = true
	}
	for _, key := range drop {
		skip[key] = true
	}

	headers := make([]kafkago.Header, 0, len(set)+len(msg.Headers))
	headers = append(headers, set...)
	for _, h := range msg.Headers {
		if !skip[h.Key] {
			headers = append(headers, h)
		}
	}

	return kafkago.Message{
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	}
}

// forward writes msgs with its own timeout. Failures are logged; the caller
// commits the source offsets either way.
func forward(ctx context.Context, writer messageWriter, timeout time.Duration, destination string, msgs []kafkago.Message) {
	writeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := writer.WriteMessages(writeCtx, msgs...); err != nil {
		slog.Error("Failed to forward messages",
			"destination", destination,
			"count", len(msgs),
			"error", err,
		)
		return
	}
	slog.Debug("Forwarded messages", "destination", destination, "count", len(msgs))
}
