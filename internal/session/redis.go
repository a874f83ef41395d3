package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each transcript as a Redis list of JSON-encoded messages.
// TTL is refreshed on every append so active conversations never expire
// underneath the user.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: "teller:session:", ttl: ttl}
}

func (s *RedisStore) key(session string) string { return s.prefix + session }

func (s *RedisStore) Append(ctx context.Context, key string, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	rkey := s.key(key)
	if err := s.client.RPush(ctx, rkey, data).Err(); err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	if s.ttl > 0 {
		s.client.Expire(ctx, rkey, s.ttl)
	}
	return nil
}

func (s *RedisStore) Messages(ctx context.Context, key string) ([]Message, error) {
	rows, err := s.client.LRange(ctx, s.key(key), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	msgs := make([]Message, 0, len(rows))
	for _, row := range rows {
		var msg Message
		if err := json.Unmarshal([]byte(row), &msg); err != nil {
			continue // skip malformed rows
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func (s *RedisStore) SetFeedback(ctx context.Context, key, msgID string, fb Feedback) error {
	rkey := s.key(key)
	rows, err := s.client.LRange(ctx, rkey, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}
	for i, row := range rows {
		var msg Message
		if err := json.Unmarshal([]byte(row), &msg); err != nil {
			continue
		}
		if msg.ID != msgID {
			continue
		}
		msg.Feedback = fb
		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("marshal message: %w", err)
		}
		if err := s.client.LSet(ctx, rkey, int64(i), data).Err(); err != nil {
			return fmt.Errorf("set feedback: %w", err)
		}
		return nil
	}
	return ErrMessageNotFound
}

func (s *RedisStore) Clear(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}
