package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/ccp-platform/client-gateways/internal/domain"
)

var consumerTracer = otel.Tracer("messaging/consumer")

// OrderEventReader consumes order-submitted events, one handler call per
// message, committing after the handler succeeds.
type OrderEventReader struct {
	reader  *kafka.Reader
	groupID string
}

type ReaderOption func(*kafka.ReaderConfig)

func WithStartOffset(offset int64) ReaderOption {
	return func(cfg *kafka.ReaderConfig) {
		cfg.StartOffset = offset
	}
}

func NewOrderEventReader(brokers []string, groupID string, opts ...ReaderOption) *OrderEventReader {
	cfg := kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   OrderSubmittedTopic,
		GroupID: groupID,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &OrderEventReader{
		reader:  kafka.NewReader(cfg),
		groupID: groupID,
	}
}

// Consume blocks fetching events until the context is cancelled or the
// handler returns an error. Unparseable messages fail the consumer rather
// than being skipped; the stream only ever carries one schema.
func (r *OrderEventReader) Consume(ctx context.Context, handler func(ctx context.Context, event domain.OrderSubmittedEvent) error) error {
	for {
		msg, err := r.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}

		if err := r.processMessage(ctx, msg, handler); err != nil {
			return err
		}

		if err := r.reader.CommitMessages(ctx, msg); err != nil {
			return err
		}
	}
}

func (r *OrderEventReader) processMessage(ctx context.Context, msg kafka.Message, handler func(ctx context.Context, event domain.OrderSubmittedEvent) error) error {
	parentCtx := otel.GetTextMapPropagator().Extract(ctx, newHeaderCarrier(&msg))

	spanCtx, span := consumerTracer.Start(parentCtx, "process "+OrderSubmittedTopic,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingOperationName("process"),
			semconv.MessagingOperationTypeDeliver,
			semconv.MessagingDestinationName(OrderSubmittedTopic),
			semconv.MessagingKafkaConsumerGroup(r.groupID),
			semconv.MessagingKafkaMessageOffset(int(msg.Offset)),
			semconv.MessagingDestinationPartitionID(strconv.Itoa(msg.Partition)),
			semconv.MessagingKafkaMessageKey(string(msg.Key)),
		),
	)
	defer span.End()

	var event domain.OrderSubmittedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		err = fmt.Errorf("unmarshal order submitted event: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := handler(spanCtx, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (r *OrderEventReader) Close() error {
	return r.reader.Close()
}
