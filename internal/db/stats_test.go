package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/studycards/internal/db"
	"github.com/vytor/studycards/internal/models"
	"github.com/vytor/studycards/internal/testutil"
)

type StatsSuite struct {
	suite.Suite
	db  *db.DB
	ctx context.Context
	now time.Time
}

func (s *StatsSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.ctx = context.Background()
	s.now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
}

func TestStatsSuite(t *testing.T) {
	suite.Run(t, new(StatsSuite))
}

func (s *StatsSuite) insertCardInState(contentID string, state models.State, due time.Time) models.Card {
	card := models.NewCard(7, contentID, s.now)
	card.State = state
	card.Due = due
	s.Require().NoError(s.db.InsertCard(s.ctx, &card))
	return card
}

func (s *StatsSuite) TestStateCounts() {
	s.insertCardInState("a", models.New, s.now)
	s.insertCardInState("b", models.Review, s.now)
	s.insertCardInState("c", models.Review, s.now)
	s.insertCardInState("d", models.Relearning, s.now)

	counts, err := s.db.StateCounts(s.ctx, 7)
	s.Require().NoError(err)
	s.Equal(1, counts[models.New])
	s.Equal(0, counts[models.Learning], "empty states are reported as zero")
	s.Equal(2, counts[models.Review])
	s.Equal(1, counts[models.Relearning])
}

func (s *StatsSuite) TestReviewStats() {
	card := s.insertCardInState("a", models.Review, s.now)
	other := models.NewCard(8, "a", s.now)
	s.Require().NoError(s.db.InsertCard(s.ctx, &other))

	commit := func(c models.Card, rating models.Rating, at time.Time) {
		log := models.ReviewLog{CardID: c.ID, Rating: rating, ReviewedAt: at}
		s.Require().NoError(s.db.CommitReview(s.ctx, c, &log))
	}
	commit(card, models.Good, s.now.Add(-time.Hour))
	commit(card, models.Again, s.now.Add(-2*time.Hour))
	commit(card, models.Easy, s.now.Add(-3*time.Hour))
	commit(card, models.Good, s.now.AddDate(0, 0, -40)) // outside the window
	commit(other, models.Again, s.now)                  // other learner

	stat, err := s.db.ReviewStats(s.ctx, 7, s.now.AddDate(0, 0, -30))
	s.Require().NoError(err)
	s.Equal(3, stat.TotalReviews)
	s.Equal(1, stat.AgainCount)
	s.InDelta(2.0/3.0, stat.SuccessRate, 1e-9)
}

func (s *StatsSuite) TestReviewStatsEmpty() {
	stat, err := s.db.ReviewStats(s.ctx, 7, s.now.AddDate(0, 0, -30))
	s.Require().NoError(err)
	s.Zero(stat.TotalReviews)
	s.Zero(stat.SuccessRate, "success rate stays zero when nothing was reviewed")
}

func (s *StatsSuite) TestUpcomingLoad() {
	s.insertCardInState("a", models.Review, s.now.Add(2*time.Hour))
	s.insertCardInState("b", models.Review, s.now.AddDate(0, 0, 2))
	s.insertCardInState("c", models.Review, s.now.AddDate(0, 0, 2).Add(time.Hour))
	// Due on day 10, outside the 7-day window.
	s.insertCardInState("d", models.Review, s.now.AddDate(0, 0, 10))

	load, err := s.db.UpcomingLoad(s.ctx, 7, s.now, 7)
	s.Require().NoError(err)
	s.Require().Len(load, 7)
	s.Equal("2025-03-01", load[0].Date)
	s.Equal(1, load[0].Due)
	s.Equal(0, load[1].Due)
	s.Equal(2, load[2].Due)
	s.Equal(0, load[6].Due)
}
