package session

import (
	"context"
	"errors"
	"sync"
)

// ErrMessageNotFound is returned when feedback targets an unknown message id.
var ErrMessageNotFound = errors.New("session: message not found")

// Store persists conversation transcripts keyed by session.
type Store interface {
	Append(ctx context.Context, key string, msg Message) error
	Messages(ctx context.Context, key string) ([]Message, error)
	SetFeedback(ctx context.Context, key, msgID string, fb Feedback) error
	Clear(ctx context.Context, key string) error
}

// MemoryStore keeps transcripts in process memory. This is the default
// backend and mirrors the lifetime of a browser session store: everything is
// gone when the process ends.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]Message)}
}

func (s *MemoryStore) Append(_ context.Context, key string, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[key] = append(s.sessions[key], msg)
	return nil
}

func (s *MemoryStore) Messages(_ context.Context, key string) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Message(nil), s.sessions[key]...), nil
}

func (s *MemoryStore) SetFeedback(_ context.Context, key, msgID string, fb Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.sessions[key]
	for i := range msgs {
		if msgs[i].ID == msgID {
			msgs[i].Feedback = fb
			return nil
		}
	}
	return ErrMessageNotFound
}

func (s *MemoryStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
	return nil
}
