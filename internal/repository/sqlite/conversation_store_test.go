package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/studycoach/internal/db"
	"github.com/vytor/studycoach/internal/models"
	"github.com/vytor/studycoach/internal/repository"
	"github.com/vytor/studycoach/internal/repository/sqlite"
	"github.com/vytor/studycoach/internal/testutil"
)

type ConversationStoreSuite struct {
	suite.Suite
	db    *db.DB
	store repository.ConversationStore
}

func (s *ConversationStoreSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.store = sqlite.NewConversationStore(s.db.DB)
}

func (s *ConversationStoreSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ConversationStoreSuite) TestLoadUnknownClientReturnsEmptyBucket() {
	bucket, err := s.store.Load(context.Background(), "client-1")
	s.Require().NoError(err)
	s.Assert().Equal("client-1", bucket.ClientID)
	s.Assert().Empty(bucket.Summaries())
}

func (s *ConversationStoreSuite) TestUpdatePersists() {
	ctx := context.Background()

	err := s.store.Update(ctx, "client-1", func(b *models.ChatBucket) error {
		b.Add(&models.Conversation{ID: "c1", Title: "Physics"})
		b.Add(&models.Conversation{ID: "c2", Title: "History"})
		return nil
	})
	s.Require().NoError(err)

	err = s.store.Update(ctx, "client-1", func(b *models.ChatBucket) error {
		c := b.Conversations["c1"]
		c.Messages = append(c.Messages, models.Message{Role: models.RoleUser, Content: "What is inertia?"})
		return nil
	})
	s.Require().NoError(err)

	bucket, err := s.store.Load(ctx, "client-1")
	s.Require().NoError(err)
	s.Assert().Equal([]models.ConversationSummary{{ID: "c1", Title: "Physics"}, {ID: "c2", Title: "History"}}, bucket.Summaries())
	s.Require().Len(bucket.Conversations["c1"].Messages, 1)
	s.Assert().Equal("What is inertia?", bucket.Conversations["c1"].Messages[0].Content)

	other, err := s.store.Load(ctx, "client-2")
	s.Require().NoError(err)
	s.Assert().Empty(other.Conversations, "buckets are isolated per client")
}

func (s *ConversationStoreSuite) TestFailedUpdateWritesNothing() {
	ctx := context.Background()
	boom := errors.New("boom")

	s.Require().NoError(s.store.Update(ctx, "client-1", func(b *models.ChatBucket) error {
		b.Add(&models.Conversation{ID: "c1", Title: "Keep"})
		return nil
	}))

	err := s.store.Update(ctx, "client-1", func(b *models.ChatBucket) error {
		b.Remove("c1")
		return boom
	})
	s.Assert().ErrorIs(err, boom)

	bucket, err := s.store.Load(ctx, "client-1")
	s.Require().NoError(err)
	s.Assert().Len(bucket.Conversations, 1)
}

func TestConversationStoreSuite(t *testing.T) {
	suite.Run(t, new(ConversationStoreSuite))
}
