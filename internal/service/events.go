package service

import (
	"context"

	"go.uber.org/zap"
)

const (
	EventProjectCreated   = "ProjectCreated"
	EventInvoiceIssued    = "InvoiceIssued"
	EventPaymentSucceeded = "PaymentSucceeded"
)

type Event struct {
	Name     string
	EntityId string
	Fields   map[string]string
}

// EventSink receives domain events for notification/messaging consumers.
// Delivery is fire-and-forget: sinks must not fail the operation that
// emitted the event.
type EventSink interface {
	Publish(ctx context.Context, event Event)
}

// LogSink is the default sink; downstream consumers tail the log stream.
type LogSink struct {
	log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Publish(_ context.Context, event Event) {
	fields := make([]zap.Field, 0, len(event.Fields)+1)
	fields = append(fields, zap.String("entity_id", event.EntityId))
	for k, v := range event.Fields {
		fields = append(fields, zap.String(k, v))
	}
	s.log.Info("event: "+event.Name, fields...)
}

type noopSink struct{}

func (noopSink) Publish(context.Context, Event) {}
