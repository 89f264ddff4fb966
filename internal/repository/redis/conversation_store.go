// Package redis stores chat buckets in Redis, one JSON document per client.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/vytor/studycoach/internal/logger"
	"github.com/vytor/studycoach/internal/models"
	"github.com/vytor/studycoach/internal/repository"
)

const (
	defaultKeyPrefix = "studycoach:chat:"
	maxUpdateRetries = 10
)

// ErrConflict is returned when an update keeps losing the optimistic-lock
// race to concurrent writers.
var ErrConflict = errors.New("chat bucket update conflicted with concurrent writers")

type conversationStore struct {
	rdb    goredis.UniversalClient
	prefix string
}

// Options configures the store.
type Options struct {
	// KeyPrefix namespaces bucket keys. Defaults to "studycoach:chat:".
	KeyPrefix string
}

// NewConversationStore creates a ConversationStore backed by rdb.
func NewConversationStore(rdb goredis.UniversalClient, opts Options) repository.ConversationStore {
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &conversationStore{rdb: rdb, prefix: prefix}
}

// NewClient opens a client and verifies the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return rdb, nil
}

func (s *conversationStore) key(clientID string) string {
	return s.prefix + clientID
}

func (s *conversationStore) Load(ctx context.Context, clientID string) (*models.ChatBucket, error) {
	log := logger.FromContext(ctx).WithPrefix("chat_store")
	log.Debug("loading chat bucket from redis: client_id=%s", clientID)

	data, err := s.rdb.Get(ctx, s.key(clientID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return models.NewChatBucket(clientID), nil
	}
	if err != nil {
		log.Error("failed to load chat bucket: %v", err)
		return nil, err
	}
	return decodeBucket(clientID, data)
}

// Update uses WATCH/MULTI: the transaction aborts if another writer touched
// the key between the read and the write, and the whole read-modify-write is
// retried.
func (s *conversationStore) Update(ctx context.Context, clientID string, fn func(*models.ChatBucket) error) error {
	log := logger.FromContext(ctx).WithPrefix("chat_store")
	key := s.key(clientID)

	txf := func(tx *goredis.Tx) error {
		bucket := models.NewChatBucket(clientID)
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, goredis.Nil):
		case err != nil:
			return err
		default:
			if bucket, err = decodeBucket(clientID, data); err != nil {
				return err
			}
		}

		if err := fn(bucket); err != nil {
			return err
		}

		encoded, err := json.Marshal(bucket)
		if err != nil {
			return fmt.Errorf("encode chat bucket: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, 0)
			return nil
		})
		return err
	}

	for attempt := 1; attempt <= maxUpdateRetries; attempt++ {
		err := s.rdb.Watch(ctx, txf, key)
		if errors.Is(err, goredis.TxFailedErr) {
			log.Debug("chat bucket changed concurrently, retrying: client_id=%s, attempt=%d", clientID, attempt)
			continue
		}
		if err != nil {
			return err
		}
		return nil
	}
	log.Warn("giving up on chat bucket update: client_id=%s", clientID)
	return ErrConflict
}

func decodeBucket(clientID string, data []byte) (*models.ChatBucket, error) {
	bucket := models.NewChatBucket(clientID)
	if err := json.Unmarshal(data, bucket); err != nil {
		return nil, fmt.Errorf("decode chat bucket for %s: %w", clientID, err)
	}
	bucket.ClientID = clientID
	if bucket.Conversations == nil {
		bucket.Conversations = make(map[string]*models.Conversation)
	}
	return bucket, nil
}
