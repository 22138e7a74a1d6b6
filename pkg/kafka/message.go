package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Message is the transport-neutral event envelope published to Kafka.
type Message struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// NewJSONMessage marshals a payload and stamps it with an event ID header.
func NewJSONMessage(key string, payload any) (Message, error) {
	value, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}

	return Message{
		Key:   key,
		Value: value,
		Headers: map[string]string{
			"event_id":     uuid.NewString(),
			"content_type": "application/json",
		},
		Timestamp: time.Now().UTC(),
	}, nil
}
