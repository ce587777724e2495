// Package messaging mirrors confirmed checkouts onto a Kafka stream. The
// gateways keep no state of their own, so the stream is the only place
// downstream analytics can observe submissions.
package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/ccp-platform/client-gateways/internal/domain"
)

// OrderSubmittedTopic carries one message per confirmed order submission,
// keyed by client identifier.
const OrderSubmittedTopic = "pedido.submitted"

var producerTracer = otel.Tracer("messaging/producer")

// OrderEventWriter publishes order-submitted events.
type OrderEventWriter struct {
	writer *kafka.Writer
}

func NewOrderEventWriter(brokers []string) *OrderEventWriter {
	return &OrderEventWriter{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  OrderSubmittedTopic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           100 * time.Millisecond,
		},
	}
}

// PublishSubmitted writes the event keyed by its client identifier, with the
// trace context propagated through message headers.
func (w *OrderEventWriter) PublishSubmitted(ctx context.Context, event domain.OrderSubmittedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.Cliente),
		Value: data,
	}

	ctx, span := producerTracer.Start(ctx, "send "+OrderSubmittedTopic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingOperationName("send"),
			semconv.MessagingOperationTypePublish,
			semconv.MessagingDestinationName(OrderSubmittedTopic),
			semconv.MessagingKafkaMessageKey(event.Cliente),
		),
	)
	defer span.End()

	otel.GetTextMapPropagator().Inject(ctx, newHeaderCarrier(&msg))

	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (w *OrderEventWriter) Close() error {
	return w.writer.Close()
}
