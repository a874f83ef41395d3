// Package session holds the per-conversation transcript: an append-only
// message log keyed by session, with post-hoc feedback attachment. Backends
// are pluggable; the in-memory store is the default and a Redis store covers
// deployments where transcripts must outlive the process.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/truongvq/tellerbot/internal/reply"
)

type Sender string

const (
	SenderBot   Sender = "bot"
	SenderUser  Sender = "user"
	SenderAgent Sender = "agent"
)

type Feedback string

const (
	FeedbackLike    Feedback = "like"
	FeedbackDislike Feedback = "dislike"
)

// Message is one transcript entry. ID is globally unique; Seq is monotonic
// within a session so ordering survives serialization. Messages are never
// mutated after append except to attach Feedback by ID.
type Message struct {
	ID       string         `json:"id"`
	Seq      int64          `json:"seq"`
	Sender   Sender         `json:"sender"`
	Type     reply.Type     `json:"type"`
	Text     string         `json:"text"`
	Payload  *reply.Payload `json:"payload,omitempty"`
	Feedback Feedback       `json:"feedback,omitempty"`
	At       time.Time      `json:"at"`
}

// NewMessage builds a transcript entry with a fresh ID.
func NewMessage(seq int64, sender Sender, typ reply.Type, text string, payload *reply.Payload) Message {
	return Message{
		ID:      uuid.NewString(),
		Seq:     seq,
		Sender:  sender,
		Type:    typ,
		Text:    text,
		Payload: payload,
		At:      time.Now(),
	}
}
