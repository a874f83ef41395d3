package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truongvq/tellerbot/internal/reply"
)

// storeUnderTest runs the same contract against every backend.
func storeUnderTest(t *testing.T, store Store) {
	ctx := context.Background()

	m1 := NewMessage(1, SenderBot, reply.TypeText, "Chào bạn", nil)
	m2 := NewMessage(2, SenderUser, reply.TypeText, "Số dư", nil)
	require.NoError(t, store.Append(ctx, "s1", m1))
	require.NoError(t, store.Append(ctx, "s1", m2))
	require.NoError(t, store.Append(ctx, "s2", NewMessage(1, SenderBot, reply.TypeText, "other", nil)))

	msgs, err := store.Messages(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, m1.ID, msgs[0].ID)
	assert.Equal(t, int64(2), msgs[1].Seq)
	assert.Equal(t, SenderUser, msgs[1].Sender)

	// Feedback lands on the right message and nothing else.
	require.NoError(t, store.SetFeedback(ctx, "s1", m2.ID, FeedbackLike))
	msgs, err = store.Messages(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, msgs[0].Feedback)
	assert.Equal(t, FeedbackLike, msgs[1].Feedback)

	err = store.SetFeedback(ctx, "s1", "missing-id", FeedbackDislike)
	assert.ErrorIs(t, err, ErrMessageNotFound)

	require.NoError(t, store.Clear(ctx, "s1"))
	msgs, err = store.Messages(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	// Clearing one session leaves others alone.
	msgs, err = store.Messages(ctx, "s2")
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestMemoryStore(t *testing.T) {
	storeUnderTest(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	storeUnderTest(t, NewRedisStore(client, time.Hour))
}

func TestRedisStoreTTLRefresh(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	store := NewRedisStore(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "s1", NewMessage(1, SenderBot, reply.TypeText, "hi", nil)))
	assert.Greater(t, srv.TTL("teller:session:s1"), time.Duration(0))

	srv.FastForward(30 * time.Minute)
	require.NoError(t, store.Append(ctx, "s1", NewMessage(2, SenderUser, reply.TypeText, "hello", nil)))
	assert.Equal(t, time.Hour, srv.TTL("teller:session:s1"))
}

func TestRedisStoreSkipsMalformedRows(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	store := NewRedisStore(client, 0)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "s1", NewMessage(1, SenderBot, reply.TypeText, "ok", nil)))
	srv.Lpush("teller:session:s1", "{not json")

	msgs, err := store.Messages(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "ok", msgs[0].Text)
}
