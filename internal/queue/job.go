// Package queue runs render jobs delivered over AMQP.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// Job statuses published on the updates exchange.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Job is a render request read from the queue.
type Job struct {
	ID            uuid.UUID `json:"id"`
	Text          string    `json:"text"`
	Template      string    `json:"template,omitempty"`
	CandidateName string    `json:"candidate_name,omitempty"`
}

// Update reports the progress of a job.
type Update struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Template  string    `json:"template,omitempty"`
	Pages     int       `json:"pages,omitempty"`
	Location  string    `json:"location,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RoutingKey is the key updates for a job are published with.
func RoutingKey(id string) string {
	return "generation." + id
}
