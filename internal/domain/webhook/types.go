package webhook

import "time"

// Payload is the body of one webhook delivery.
type Payload struct {
	Events []InboundEvent `json:"events"`
}

// InboundEvent is a single platform event. Immutable once received and
// consumed at most once; never persisted.
type InboundEvent struct {
	Type       string        `json:"type"`
	ReplyToken string        `json:"replyToken"`
	Message    *EventMessage `json:"message,omitempty"`
	Source     *EventSource  `json:"source,omitempty"`
}

// EventMessage carries the user-visible content of a message event.
type EventMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// EventSource identifies who sent the event.
type EventSource struct {
	UserID string `json:"userId"`
}

// Delivery outcomes recorded in the audit log.
const (
	OutcomeReplied     = "replied"
	OutcomeDropped     = "dropped"
	OutcomeReplyFailed = "reply_failed"
)

// DeliveryRecord is one processed event in the audit log. It captures
// transport outcomes only, never conversation content.
type DeliveryRecord struct {
	ID         string
	ReceivedAt time.Time
	EventType  string
	Command    string
	Outcome    string
}
