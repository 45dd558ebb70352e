package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	apperrors "github.com/vytor/studycards/internal/errors"
	"github.com/vytor/studycards/internal/models"
	"github.com/vytor/studycards/internal/services"
	"github.com/vytor/studycards/internal/srs"
	"github.com/vytor/studycards/internal/testutil"
)

type CardServiceSuite struct {
	suite.Suite
	svc *services.CardService
	ctx context.Context
	now time.Time
}

func (s *CardServiceSuite) SetupTest() {
	database := testutil.NewTestDB(s.T())
	scheduler, err := srs.NewScheduler(srs.Config{})
	s.Require().NoError(err)
	s.svc = services.NewCardService(database, scheduler)
	s.ctx = context.Background()
	s.now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
}

func TestCardServiceSuite(t *testing.T) {
	suite.Run(t, new(CardServiceSuite))
}

func (s *CardServiceSuite) createCard() models.Card {
	card, err := s.svc.CreateCard(s.ctx, services.CreateCardInput{
		LearnerID: 7,
		ContentID: "vocab:apfel",
		Domain:    "german",
	}, s.now)
	s.Require().NoError(err)
	return card
}

func (s *CardServiceSuite) assertAppError(err error, code string) {
	s.Require().Error(err)
	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal(code, appErr.Code)
}

func (s *CardServiceSuite) TestCreateCard() {
	card := s.createCard()

	s.NotZero(card.ID)
	s.Equal(models.New, card.State)
	s.True(card.Due.Equal(s.now), "new cards are due immediately")
	s.Zero(card.Reps)
}

func (s *CardServiceSuite) TestCreateCardValidation() {
	_, err := s.svc.CreateCard(s.ctx, services.CreateCardInput{ContentID: "x"}, s.now)
	s.assertAppError(err, apperrors.ErrCodeValidation)

	_, err = s.svc.CreateCard(s.ctx, services.CreateCardInput{LearnerID: 7}, s.now)
	s.assertAppError(err, apperrors.ErrCodeValidation)
}

func (s *CardServiceSuite) TestCreateCardConflict() {
	s.createCard()

	_, err := s.svc.CreateCard(s.ctx, services.CreateCardInput{
		LearnerID: 7,
		ContentID: "vocab:apfel",
	}, s.now)
	s.assertAppError(err, apperrors.ErrCodeConflict)
}

func (s *CardServiceSuite) TestGetCardNotFound() {
	_, err := s.svc.GetCard(s.ctx, 9999)
	s.assertAppError(err, apperrors.ErrCodeNotFound)
}

func (s *CardServiceSuite) TestPreviewReturnsAllOutcomesWithoutPersisting() {
	card := s.createCard()

	outcomes, err := s.svc.Preview(s.ctx, card.ID, s.now)
	s.Require().NoError(err)
	s.Require().Len(outcomes, 4)

	for _, r := range models.AllRatings {
		info, ok := outcomes[r]
		s.Require().True(ok)
		s.Equal(1, info.Card.Reps)
	}

	// Preview must not touch the stored card.
	stored, err := s.svc.GetCard(s.ctx, card.ID)
	s.Require().NoError(err)
	s.Equal(models.New, stored.State)
	s.Zero(stored.Reps)
}

func (s *CardServiceSuite) TestReviewCommitsCardAndLog() {
	card := s.createCard()

	updated, err := s.svc.Review(s.ctx, card.ID, models.Good, s.now)
	s.Require().NoError(err)
	s.Equal(models.Review, updated.State)
	s.Equal(1, updated.Reps)
	s.True(updated.Due.After(s.now))

	stored, err := s.svc.GetCard(s.ctx, card.ID)
	s.Require().NoError(err)
	s.Equal(updated.State, stored.State)
	s.InDelta(updated.Stability, stored.Stability, 1e-9)

	logs, err := s.svc.History(s.ctx, card.ID)
	s.Require().NoError(err)
	s.Require().Len(logs, 1)
	s.Equal(models.Good, logs[0].Rating)
	s.Equal(models.New, logs[0].StateBefore)
	s.Equal(models.Review, logs[0].StateAfter)
}

func (s *CardServiceSuite) TestReviewMatchesPreview() {
	card := s.createCard()

	preview, err := s.svc.Preview(s.ctx, card.ID, s.now)
	s.Require().NoError(err)

	updated, err := s.svc.Review(s.ctx, card.ID, models.Hard, s.now)
	s.Require().NoError(err)

	want := preview[models.Hard].Card
	s.Equal(want.State, updated.State)
	s.InDelta(want.Stability, updated.Stability, 1e-9)
	s.InDelta(want.Difficulty, updated.Difficulty, 1e-9)
	s.True(want.Due.Equal(updated.Due))
}

func (s *CardServiceSuite) TestReviewInvalidRating() {
	card := s.createCard()

	_, err := s.svc.Review(s.ctx, card.ID, models.Rating(0), s.now)
	s.assertAppError(err, apperrors.ErrCodeValidation)

	_, err = s.svc.Review(s.ctx, card.ID, models.Rating(5), s.now)
	s.assertAppError(err, apperrors.ErrCodeValidation)
}

func (s *CardServiceSuite) TestReviewUnknownCard() {
	_, err := s.svc.Review(s.ctx, 9999, models.Good, s.now)
	s.assertAppError(err, apperrors.ErrCodeNotFound)
}

func (s *CardServiceSuite) TestDueCards() {
	card := s.createCard()

	due, err := s.svc.DueCards(s.ctx, models.CardFilter{LearnerID: 7, AsOf: s.now})
	s.Require().NoError(err)
	s.Require().Len(due, 1)
	s.Equal(card.ID, due[0].ID)

	// After a Good review the card is scheduled into the future.
	_, err = s.svc.Review(s.ctx, card.ID, models.Good, s.now)
	s.Require().NoError(err)

	due, err = s.svc.DueCards(s.ctx, models.CardFilter{LearnerID: 7, AsOf: s.now})
	s.Require().NoError(err)
	s.Empty(due)
}

func (s *CardServiceSuite) TestRescheduleReplaysHistory() {
	card := s.createCard()

	at := s.now
	for _, r := range []models.Rating{models.Good, models.Good, models.Again} {
		updated, err := s.svc.Review(s.ctx, card.ID, r, at)
		s.Require().NoError(err)
		at = updated.Due.Add(time.Hour)
	}
	before, err := s.svc.GetCard(s.ctx, card.ID)
	s.Require().NoError(err)

	// Same parameters, so the replay must land on the same state.
	n, err := s.svc.Reschedule(s.ctx, 7)
	s.Require().NoError(err)
	s.Equal(1, n)

	after, err := s.svc.GetCard(s.ctx, card.ID)
	s.Require().NoError(err)
	s.Equal(before.State, after.State)
	s.InDelta(before.Stability, after.Stability, 1e-9)
	s.InDelta(before.Difficulty, after.Difficulty, 1e-9)
	s.Equal(before.Reps, after.Reps)
	s.Equal(before.Lapses, after.Lapses)
}

func (s *CardServiceSuite) TestRescheduleSkipsUnreviewedCards() {
	s.createCard()

	n, err := s.svc.Reschedule(s.ctx, 7)
	s.Require().NoError(err)
	s.Zero(n)
}
