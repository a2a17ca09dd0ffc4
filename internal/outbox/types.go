package outbox

import (
	"time"

	"github.com/google/uuid"
)

const (
	KindAcceptance     = "acceptance"
	KindCompletionCode = "completion_code"
	KindPasswordReset  = "password_reset"
)

// Message is an outbound mail waiting for delivery. Messages survive
// restarts; delivery failures requeue until the retry bound. ExpiresAt
// is the validity of a carried code, not of the message itself.
type Message struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	To        string    `json:"to"`
	TaskTitle string    `json:"task_title,omitempty"`
	Code      string    `json:"code,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	Retries   int       `json:"retries"`
	Timestamp time.Time `json:"timestamp"`

	bucketKey []byte
}

func (m *Message) normalize() {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
}
