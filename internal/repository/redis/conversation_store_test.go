package redis_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studycoach/internal/models"
	"github.com/vytor/studycoach/internal/repository"
	"github.com/vytor/studycoach/internal/repository/redis"
)

func TestNewClientUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	rdb, err := redis.NewClient(ctx, "127.0.0.1:1", "", 0)
	assert.Error(t, err)
	assert.Nil(t, rdb)
}

// newStore connects to REDIS_ADDR and skips the test when it is unset.
func newStore(t *testing.T) (context.Context, repository.ConversationStore) {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb, err := redis.NewClient(ctx, addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)

	prefix := fmt.Sprintf("studycoach-test:%s:", uuid.NewString())
	t.Cleanup(func() {
		keys, _ := rdb.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			rdb.Del(ctx, keys...)
		}
		_ = rdb.Close()
	})
	return ctx, redis.NewConversationStore(rdb, redis.Options{KeyPrefix: prefix})
}

func TestConversationStoreRoundTrip(t *testing.T) {
	ctx, store := newStore(t)

	empty, err := store.Load(ctx, "client-1")
	require.NoError(t, err)
	assert.Empty(t, empty.Conversations)

	require.NoError(t, store.Update(ctx, "client-1", func(b *models.ChatBucket) error {
		b.Add(&models.Conversation{ID: "c1", Title: "Chat 0"})
		return nil
	}))

	bucket, err := store.Load(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, []models.ConversationSummary{{ID: "c1", Title: "Chat 0"}}, bucket.Summaries())
}

func TestConversationStoreConcurrentUpdates(t *testing.T) {
	ctx, store := newStore(t)

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := store.Update(ctx, "client-1", func(b *models.ChatBucket) error {
				b.Add(&models.Conversation{ID: fmt.Sprintf("c%d", i)})
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	bucket, err := store.Load(ctx, "client-1")
	require.NoError(t, err)
	assert.Len(t, bucket.Conversations, writers, "no update may be lost")
}
