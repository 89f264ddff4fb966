package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/studycoach/internal/models"
)

// MockConversationStore is a mock implementation of repository.ConversationStore.
// Update applies fn to a copy of the bucket registered with SetBucket and
// stores the copy only when fn succeeds.
type MockConversationStore struct {
	mock.Mock
	buckets map[string]*models.ChatBucket
}

// SetBucket seeds the bucket Update hands to its callback.
func (m *MockConversationStore) SetBucket(b *models.ChatBucket) {
	if m.buckets == nil {
		m.buckets = make(map[string]*models.ChatBucket)
	}
	m.buckets[b.ClientID] = b
}

// Bucket returns the bucket stored for clientID.
func (m *MockConversationStore) Bucket(clientID string) *models.ChatBucket {
	return m.buckets[clientID]
}

func (m *MockConversationStore) Load(ctx context.Context, clientID string) (*models.ChatBucket, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatBucket), args.Error(1)
}

func (m *MockConversationStore) Update(ctx context.Context, clientID string, fn func(*models.ChatBucket) error) error {
	args := m.Called(ctx, clientID)
	if err := args.Error(0); err != nil {
		return err
	}
	b := models.NewChatBucket(clientID)
	if stored, ok := m.buckets[clientID]; ok {
		data, err := json.Marshal(stored)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, b); err != nil {
			return err
		}
	}
	if err := fn(b); err != nil {
		return err
	}
	m.SetBucket(b)
	return nil
}
