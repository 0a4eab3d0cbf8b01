// Package events publishes a record of every successful resource write.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event types.
const (
	AppointmentBooked        = "appointment.booked"
	AppointmentStatusChanged = "appointment.status_changed"
	MedicationScheduled      = "medication.scheduled"
	MedicationUpdated        = "medication.updated"
	MedicationDeleted        = "medication.deleted"
	SeizureLogRecorded       = "seizure_log.recorded"
	SeizureLogUpdated        = "seizure_log.updated"
	SeizureLogDeleted        = "seizure_log.deleted"
)

// Event describes one write.
type Event struct {
	Type       string    `json:"type"`
	ID         string    `json:"id"`
	Patient    string    `json:"patient,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// MessageWriter is the part of kafka.Writer used by KafkaPublisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON messages keyed by entity id.
type KafkaPublisher struct {
	w MessageWriter
}

// NewKafkaPublisher returns a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{w: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
	}}
}

// NewKafkaPublisherWithWriter wraps an existing writer.
func NewKafkaPublisherWithWriter(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{w: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.w.WriteMessages(ctx, kafka.Message{Key: []byte(e.ID), Value: value, Time: e.OccurredAt}); err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
