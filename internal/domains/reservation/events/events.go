// Package events publishes reservation lifecycle changes to Kafka. Publishing is best effort:
// a broker failure is logged and never undoes a committed reservation.
package events

//go:generate go run go.uber.org/mock/mockgen -source=./events.go -destination=../mocks/events_mock.go -package=mocks

import (
	"context"
	"fmt"
	"salon/config"
	"salon/infras/kafka"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	TypeCreated   = "reservation.created"
	TypeUpdated   = "reservation.updated"
	TypeDeleted   = "reservation.deleted"
	TypeCompleted = "reservation.completed"
)

type Event struct {
	Type          string    `json:"type"`
	ReservationID string    `json:"reservation_id,omitempty"`
	RoomID        string    `json:"room_id,omitempty"`
	ProviderID    string    `json:"provider_id,omitempty"`
	ServiceID     string    `json:"service_id,omitempty"`
	ClientID      *string   `json:"client_id,omitempty"`
	Date          string    `json:"date,omitempty"`
	StartTime     string    `json:"start_time,omitempty"`
	Count         int       `json:"count,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Key partitions events by room so a room's history stays ordered.
func (e Event) Key() string {
	if e.RoomID != "" {
		return e.RoomID
	}

	return e.Type
}

type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
}

// New returns a Kafka publisher when events are enabled and a no-op one otherwise.
func New(cfg *config.Config, client kafka.Client) Publisher {
	if !cfg.Booking.Events.Enable {
		log.Info().Msg("reservation events disabled")

		return noop{}
	}

	return &kafkaPublisher{client: client, topic: cfg.Booking.Events.Topic}
}

func NewNoop() Publisher {
	return noop{}
}

type kafkaPublisher struct {
	client kafka.Client
	topic  string
}

func (p *kafkaPublisher) Publish(ctx context.Context, events ...Event) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]kafka.Message, len(events))
	for i, event := range events {
		messages[i] = kafka.Message{Key: event.Key(), Value: event}
	}

	if err := p.client.SendMessages(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("publish reservation events: %w", err)
	}

	return nil
}

type noop struct{}

func (noop) Publish(_ context.Context, _ ...Event) error {
	return nil
}
