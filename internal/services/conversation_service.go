package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vytor/studycoach/internal/errors"
	"github.com/vytor/studycoach/internal/logger"
	"github.com/vytor/studycoach/internal/models"
	"github.com/vytor/studycoach/internal/repository"
)

// AppendMessageInput describes a message to add to a conversation. The
// target is ChatID when set, else the first conversation titled Title, else a
// new conversation.
type AppendMessageInput struct {
	ChatID  string
	Title   string
	Role    string
	Content string
}

// ConversationService manages the chat conversations of each client
type ConversationService interface {
	NewSession(ctx context.Context, clientID, title string) (*models.ConversationSummary, error)
	History(ctx context.Context, clientID string) ([]models.ConversationSummary, error)
	Conversation(ctx context.Context, clientID, chatID string) (*models.Conversation, error)
	Rename(ctx context.Context, clientID, chatID, title string) error
	Delete(ctx context.Context, clientID, chatID string) error
	AppendMessage(ctx context.Context, clientID string, in AppendMessageInput) (*models.Conversation, error)
}

type conversationService struct {
	store repository.ConversationStore
}

// NewConversationService creates a new ConversationService
func NewConversationService(store repository.ConversationStore) ConversationService {
	return &conversationService{store: store}
}

func (s *conversationService) NewSession(ctx context.Context, clientID, title string) (*models.ConversationSummary, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating chat session: client_id=%s, title=%s", clientID, title)

	if clientID == "" {
		return nil, errors.NewValidationError("clientId", "cannot be empty")
	}

	var created *models.Conversation
	err := s.store.Update(ctx, clientID, func(b *models.ChatBucket) error {
		created = newConversation(b, title)
		return nil
	})
	if err != nil {
		log.Error("failed to create chat session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("chat session created: client_id=%s, chat_id=%s", clientID, created.ID)
	return &models.ConversationSummary{ID: created.ID, Title: created.Title}, nil
}

func (s *conversationService) History(ctx context.Context, clientID string) ([]models.ConversationSummary, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing chat history: client_id=%s", clientID)

	if clientID == "" {
		return nil, errors.NewValidationError("clientId", "cannot be empty")
	}
	bucket, err := s.store.Load(ctx, clientID)
	if err != nil {
		log.Error("failed to load chat bucket: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return bucket.Summaries(), nil
}

func (s *conversationService) Conversation(ctx context.Context, clientID, chatID string) (*models.Conversation, error) {
	log := logger.FromContext(ctx)
	log.Debug("loading conversation: client_id=%s, chat_id=%s", clientID, chatID)

	if clientID == "" {
		return nil, errors.NewValidationError("clientId", "cannot be empty")
	}
	bucket, err := s.store.Load(ctx, clientID)
	if err != nil {
		log.Error("failed to load chat bucket: %v", err)
		return nil, errors.NewInternalError(err)
	}
	c, ok := bucket.Conversations[chatID]
	if !ok {
		return nil, errors.NewNotFoundError("chat", chatID)
	}
	if c.Messages == nil {
		c.Messages = []models.Message{}
	}
	return c, nil
}

func (s *conversationService) Rename(ctx context.Context, clientID, chatID, title string) error {
	log := logger.FromContext(ctx)
	log.Debug("renaming chat: client_id=%s, chat_id=%s", clientID, chatID)

	title = strings.TrimSpace(title)
	if title == "" {
		return errors.NewValidationError("newTitle", "cannot be empty")
	}
	err := s.store.Update(ctx, clientID, func(b *models.ChatBucket) error {
		c, ok := b.Conversations[chatID]
		if !ok {
			return errors.NewNotFoundError("chat", chatID)
		}
		c.Title = title
		return nil
	})
	return storeError(log, "rename chat", err)
}

func (s *conversationService) Delete(ctx context.Context, clientID, chatID string) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting chat: client_id=%s, chat_id=%s", clientID, chatID)

	err := s.store.Update(ctx, clientID, func(b *models.ChatBucket) error {
		if !b.Remove(chatID) {
			return errors.NewNotFoundError("chat", chatID)
		}
		return nil
	})
	return storeError(log, "delete chat", err)
}

func (s *conversationService) AppendMessage(ctx context.Context, clientID string, in AppendMessageInput) (*models.Conversation, error) {
	log := logger.FromContext(ctx)
	log.Debug("appending message: client_id=%s, chat_id=%s, title=%s", clientID, in.ChatID, in.Title)

	if clientID == "" {
		return nil, errors.NewValidationError("clientId", "cannot be empty")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, errors.NewValidationError("message", "cannot be empty")
	}
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleAssistant {
		return nil, errors.NewValidationError("role", "must be user or assistant")
	}

	var target *models.Conversation
	err := s.store.Update(ctx, clientID, func(b *models.ChatBucket) error {
		target = nil
		switch {
		case in.ChatID != "":
			c, ok := b.Conversations[in.ChatID]
			if !ok {
				return errors.NewNotFoundError("chat", in.ChatID)
			}
			target = c
		case in.Title != "":
			target = b.FindByTitle(in.Title)
		}
		if target == nil {
			target = newConversation(b, in.Title)
		}
		target.Messages = append(target.Messages, models.Message{Role: role, Content: in.Content})
		return nil
	})
	if err := storeError(log, "append message", err); err != nil {
		return nil, err
	}
	return target, nil
}

// newConversation adds an empty conversation to b. Untitled conversations are
// named "Chat N", N being the number of conversations already in the bucket.
func newConversation(b *models.ChatBucket, title string) *models.Conversation {
	title = strings.TrimSpace(title)
	if title == "" {
		title = fmt.Sprintf("Chat %d", len(b.Conversations))
	}
	c := &models.Conversation{ID: uuid.NewString(), Title: title, Messages: []models.Message{}}
	b.Add(c)
	return c
}

// storeError passes application errors raised inside an update through and
// wraps everything else as internal.
func storeError(log *logger.Logger, op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	log.Error("failed to %s: %v", op, err)
	return errors.NewInternalError(err)
}
