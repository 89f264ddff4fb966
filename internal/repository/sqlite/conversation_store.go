package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vytor/studycoach/internal/logger"
	"github.com/vytor/studycoach/internal/models"
	"github.com/vytor/studycoach/internal/repository"
)

type conversationStore struct {
	db *sql.DB
}

// NewConversationStore creates a ConversationStore that keeps each client's
// bucket as one JSON document in the chat_buckets table.
func NewConversationStore(db *sql.DB) repository.ConversationStore {
	return &conversationStore{db: db}
}

func (s *conversationStore) Load(ctx context.Context, clientID string) (*models.ChatBucket, error) {
	log := logger.FromContext(ctx).WithPrefix("chat_store")
	log.Debug("loading chat bucket: client_id=%s", clientID)

	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM chat_buckets WHERE client_id = ?`, clientID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewChatBucket(clientID), nil
	}
	if err != nil {
		log.Error("failed to load chat bucket: %v", err)
		return nil, err
	}
	return decodeBucket(clientID, data)
}

func (s *conversationStore) Update(ctx context.Context, clientID string, fn func(*models.ChatBucket) error) error {
	log := logger.FromContext(ctx).WithPrefix("chat_store")
	log.Debug("updating chat bucket: client_id=%s", clientID)

	return tx(ctx, s.db, func(tx *sql.Tx) error {
		bucket := models.NewChatBucket(clientID)
		var data string
		err := tx.QueryRowContext(ctx, `SELECT data FROM chat_buckets WHERE client_id = ?`, clientID).Scan(&data)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			log.Error("failed to read chat bucket: %v", err)
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
		_, err = tx.ExecContext(ctx, `
INSERT INTO chat_buckets (client_id, data, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(client_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
`, clientID, string(encoded), time.Now().UTC())
		if err != nil {
			log.Error("failed to write chat bucket: %v", err)
		}
		return err
	})
}

func decodeBucket(clientID, data string) (*models.ChatBucket, error) {
	bucket := models.NewChatBucket(clientID)
	if err := json.Unmarshal([]byte(data), bucket); err != nil {
		return nil, fmt.Errorf("decode chat bucket for %s: %w", clientID, err)
	}
	bucket.ClientID = clientID
	if bucket.Conversations == nil {
		bucket.Conversations = make(map[string]*models.Conversation)
	}
	return bucket, nil
}
