// Package events publishes booking lifecycle events for downstream
// consumers (notification senders, analytics).
package events

import (
	"context"
	"time"

	"slotbook/pkg/kafka"
	"slotbook/pkg/logger"
	"slotbook/pkg/model"
)

const TypeBookingCreated = "booking.created"

// BookingCreated is the payload published when a slot is confirmed.
type BookingCreated struct {
	Type         string    `json:"type"`
	BookingID    string    `json:"booking_id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Observations string    `json:"observations,omitempty"`
	Date         time.Time `json:"date"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type Publisher interface {
	PublishBookingCreated(ctx context.Context, b *model.Booking) error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		log:      log,
	}
}

// PublishBookingCreated keys the event by user ID so one host's events
// stay ordered within a partition.
func (p *kafkaPublisher) PublishBookingCreated(ctx context.Context, b *model.Booking) error {
	payload := BookingCreated{
		Type:         TypeBookingCreated,
		BookingID:    b.ID,
		UserID:       b.UserID,
		Name:         b.Name,
		Email:        b.Email,
		Observations: b.Observations,
		Date:         b.Date,
		OccurredAt:   time.Now().UTC(),
	}

	msg, err := kafka.NewJSONMessage(b.UserID, payload)
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}

// noopPublisher stands in when no brokers are configured.
type noopPublisher struct{}

func NewNoopPublisher() Publisher { return noopPublisher{} }

func (noopPublisher) PublishBookingCreated(context.Context, *model.Booking) error { return nil }
