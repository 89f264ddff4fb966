package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/studycoach/internal/db"
	apperrors "github.com/vytor/studycoach/internal/errors"
	"github.com/vytor/studycoach/internal/models"
	"github.com/vytor/studycoach/internal/repository/sqlite"
	"github.com/vytor/studycoach/internal/services"
	"github.com/vytor/studycoach/internal/srs"
	"github.com/vytor/studycoach/internal/testutil"
)

// CoachServiceSuite drives the coach services against an in-memory database
// with a clock the tests move forward.
type CoachServiceSuite struct {
	suite.Suite
	db      *db.DB
	now     time.Time
	goals   services.GoalService
	decks   services.DeckService
	cards   services.CardService
	reviews services.ReviewService
	ctx     context.Context
}

func (s *CoachServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.now = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	s.ctx = context.Background()

	cal := srs.NewCalendarWithClock(time.UTC, func() time.Time { return s.now })
	deckRepo := sqlite.NewDeckRepository(s.db.DB)
	cardRepo := sqlite.NewCardRepository(s.db.DB)
	s.goals = services.NewGoalService(sqlite.NewGoalRepository(s.db.DB), cal)
	s.decks = services.NewDeckService(deckRepo, cal)
	s.cards = services.NewCardService(deckRepo, cardRepo, cal)
	s.reviews = services.NewReviewService(deckRepo, cardRepo, sqlite.NewReviewRepository(s.db.DB), cal, 10)
}

func (s *CoachServiceSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *CoachServiceSuite) advanceDays(n int) {
	s.now = s.now.AddDate(0, 0, n)
}

func (s *CoachServiceSuite) newDeckWithCards(userID string, fronts ...string) (*models.Deck, []*models.Card) {
	deck, err := s.decks.CreateDeck(s.ctx, userID, "Spanish", "")
	s.Require().NoError(err)
	cards := make([]*models.Card, 0, len(fronts))
	for _, f := range fronts {
		c, err := s.cards.CreateCard(s.ctx, userID, deck.ID, f, "back of "+f)
		s.Require().NoError(err)
		cards = append(cards, c)
		s.now = s.now.Add(time.Second)
	}
	return deck, cards
}

func ids(queue []models.StudyCard) []string {
	out := make([]string, len(queue))
	for i, c := range queue {
		out[i] = c.ID
	}
	return out
}

func (s *CoachServiceSuite) TestGoals() {
	_, err := s.goals.CreateGoal(s.ctx, "u1", "  ", "", models.Date{})
	s.Assert().Equal(apperrors.ErrCodeValidation, apperrors.AsAppError(err).Code)

	goal, err := s.goals.CreateGoal(s.ctx, "u1", "Hold a conversation", "in Spanish", models.NewDate(2024, 9, 1))
	s.Require().NoError(err)
	s.Assert().NotEmpty(goal.ID)

	goals, err := s.goals.ListGoals(s.ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(goals, 1)
	s.Assert().Equal("2024-09-01", goals[0].TargetDate.String())

	others, err := s.goals.ListGoals(s.ctx, "u2")
	s.Require().NoError(err)
	s.Assert().Empty(others)
}

func (s *CoachServiceSuite) TestDeckOwnership() {
	deck, _ := s.newDeckWithCards("u1", "hola")

	_, err := s.decks.GetDeck(s.ctx, "u2", deck.ID)
	s.Assert().True(apperrors.IsNotFound(err))
	_, err = s.cards.ListCards(s.ctx, "u2", deck.ID)
	s.Assert().True(apperrors.IsNotFound(err))
	_, err = s.cards.CreateCard(s.ctx, "u2", deck.ID, "f", "b")
	s.Assert().True(apperrors.IsNotFound(err))
	s.Assert().True(apperrors.IsNotFound(s.decks.DeleteDeck(s.ctx, "u2", deck.ID)))

	got, err := s.decks.GetDeck(s.ctx, "u1", deck.ID)
	s.Require().NoError(err)
	s.Assert().Equal("Spanish", got.Title)
}

func (s *CoachServiceSuite) TestDeleteDeckRemovesCards() {
	deck, cards := s.newDeckWithCards("u1", "hola", "adios")
	_, err := s.reviews.SubmitReview(s.ctx, "u1", cards[0].ID, 4)
	s.Require().NoError(err)

	s.Require().NoError(s.decks.DeleteDeck(s.ctx, "u1", deck.ID))

	_, err = s.decks.GetDeck(s.ctx, "u1", deck.ID)
	s.Assert().True(apperrors.IsNotFound(err))
	_, err = s.reviews.SubmitReview(s.ctx, "u1", cards[1].ID, 4)
	s.Assert().True(apperrors.IsNotFound(err))
}

func (s *CoachServiceSuite) TestStudyQueueFollowsSchedule() {
	deck, cards := s.newDeckWithCards("u1", "uno", "dos", "tres")
	a, b, c := cards[0].ID, cards[1].ID, cards[2].ID

	queue, err := s.reviews.GetStudyQueue(s.ctx, "u1", deck.ID, 0)
	s.Require().NoError(err)
	s.Assert().Equal([]string{a, b, c}, ids(queue), "new cards are due in creation order")

	rec, err := s.reviews.SubmitReview(s.ctx, "u1", a, 5)
	s.Require().NoError(err)
	s.Assert().Equal(1, rec.IntervalDays)
	s.Assert().Equal("2024-03-11", rec.DueDate.String())

	queue, err = s.reviews.GetStudyQueue(s.ctx, "u1", deck.ID, 0)
	s.Require().NoError(err)
	s.Assert().Equal([]string{b, c}, ids(queue))

	queue, err = s.reviews.GetStudyQueue(s.ctx, "u1", deck.ID, 1)
	s.Require().NoError(err)
	s.Assert().Equal([]string{b}, ids(queue))

	s.advanceDays(1)
	queue, err = s.reviews.GetStudyQueue(s.ctx, "u1", deck.ID, 0)
	s.Require().NoError(err)
	s.Assert().Equal([]string{a, b, c}, ids(queue), "due date is inclusive")
	s.Require().NotNil(queue[0].LastReview)
	s.Assert().Equal(rec.ID, queue[0].LastReview.ID)
	s.Assert().Nil(queue[1].LastReview)

	rec, err = s.reviews.SubmitReview(s.ctx, "u1", a, 5)
	s.Require().NoError(err)
	s.Assert().Equal(6, rec.IntervalDays)
	s.Assert().InDelta(2.7, rec.Easiness, 1e-9)

	queue, err = s.reviews.GetStudyQueue(s.ctx, "u1", deck.ID, 0)
	s.Require().NoError(err)
	s.Assert().Equal([]string{b, c}, ids(queue), "latest record decides")

	other, err := s.decks.CreateDeck(s.ctx, "u2", "Other", "")
	s.Require().NoError(err)
	queue, err = s.reviews.GetStudyQueue(s.ctx, "u2", other.ID, 0)
	s.Require().NoError(err)
	s.Assert().NotNil(queue)
	s.Assert().Empty(queue)
}

func (s *CoachServiceSuite) TestStats() {
	deck, cards := s.newDeckWithCards("u1", "uno", "dos", "tres")

	stats, err := s.reviews.GetStats(s.ctx, "u1", deck.ID)
	s.Require().NoError(err)
	s.Assert().Equal(3, stats.TotalCards)
	s.Assert().Equal(3, stats.NewCards)
	s.Assert().Equal(3, stats.DueCards)
	s.Assert().Equal(0, stats.StreakDays)
	s.Assert().Zero(stats.AvgEasiness)

	_, err = s.reviews.SubmitReview(s.ctx, "u1", cards[0].ID, 5)
	s.Require().NoError(err)
	s.advanceDays(1)
	_, err = s.reviews.SubmitReview(s.ctx, "u1", cards[1].ID, 3)
	s.Require().NoError(err)
	_, err = s.reviews.SubmitReview(s.ctx, "u1", cards[1].ID, 4)
	s.Require().NoError(err)

	stats, err = s.reviews.GetStats(s.ctx, "u1", deck.ID)
	s.Require().NoError(err)
	s.Assert().Equal("2024-03-11", stats.Today.String())
	s.Assert().Equal(3, stats.TotalCards)
	s.Assert().Equal(1, stats.NewCards)
	// Card 0 is due today; card 1 graduated to six days; card 2 is new.
	s.Assert().Equal(2, stats.DueCards)
	s.Assert().Equal(2, stats.ReviewsToday)
	s.Assert().Equal(3, stats.TotalReviews)
	s.Assert().Equal(2, stats.StreakDays)
	// Latest easiness: 2.6 (rating 5 from 2.5) and 2.36 (rating 3 then 4).
	s.Assert().InDelta((2.6+2.36)/2, stats.AvgEasiness, 1e-9)

	s.advanceDays(2)
	stats, err = s.reviews.GetStats(s.ctx, "u1", deck.ID)
	s.Require().NoError(err)
	s.Assert().Equal(0, stats.StreakDays, "a day without reviews breaks the streak")
	s.Assert().Equal(0, stats.ReviewsToday)
}

func TestCoachServiceSuite(t *testing.T) {
	suite.Run(t, new(CoachServiceSuite))
}
