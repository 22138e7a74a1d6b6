package model

import "time"

// BookingLock is an advisory lock keyed by user and slot start time.
// It keeps two concurrent booking attempts for the same slot from both
// passing the availability check; a TTL index on expires_at reaps locks
// left behind by crashed requests.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
