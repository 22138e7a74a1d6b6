package model

import "time"

// BookingRequest is the visitor-facing confirmation payload. The host
// is addressed by username in the URL, never in the body.
type BookingRequest struct {
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Observations string    `json:"observations,omitempty"`
	Date         time.Time `json:"date"`
}

// Booking is a confirmed reservation of one hourly slot. Records are
// immutable once created.
type Booking struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID       string    `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	Name         string    `json:"name" bson:"name" validate:"required,min=3,max=100"`
	Email        string    `json:"email" bson:"email" validate:"required,email"`
	Observations string    `json:"observations,omitempty" bson:"observations,omitempty" validate:"omitempty,max=500"`
	Date         time.Time `json:"date" bson:"date" validate:"required"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
