package services

import (
	"context"
	"time"

	"github.com/vytor/studycards/internal/db"
	apperrors "github.com/vytor/studycards/internal/errors"
	"github.com/vytor/studycards/internal/logger"
	"github.com/vytor/studycards/internal/models"
)

const upcomingLoadDays = 7

// StatsService assembles the per-learner dashboard summary.
type StatsService struct {
	db  *db.DB
	log *logger.Logger
}

func NewStatsService(database *db.DB) *StatsService {
	return &StatsService{
		db:  database,
		log: logger.Default().WithPrefix("stats"),
	}
}

// LearnerStats gathers state counts, the due count, the last-30-days review
// summary and the 7-day upcoming load, all as of time now.
func (s *StatsService) LearnerStats(ctx context.Context, learnerID int64, now time.Time) (models.LearnerStats, error) {
	if learnerID <= 0 {
		return models.LearnerStats{}, apperrors.NewValidationError("learner_id", "must be positive")
	}

	counts, err := s.db.StateCounts(ctx, learnerID)
	if err != nil {
		return models.LearnerStats{}, apperrors.NewInternalError(err)
	}
	dueNow, err := s.db.CountDue(ctx, learnerID, now)
	if err != nil {
		return models.LearnerStats{}, apperrors.NewInternalError(err)
	}
	last30, err := s.db.ReviewStats(ctx, learnerID, now.AddDate(0, 0, -30))
	if err != nil {
		return models.LearnerStats{}, apperrors.NewInternalError(err)
	}
	load, err := s.db.UpcomingLoad(ctx, learnerID, now, upcomingLoadDays)
	if err != nil {
		return models.LearnerStats{}, apperrors.NewInternalError(err)
	}

	return models.LearnerStats{
		LearnerID:    learnerID,
		StateCounts:  counts,
		DueNow:       dueNow,
		Last30Days:   last30,
		UpcomingLoad: load,
		GeneratedAt:  now,
	}, nil
}
