package services

import (
	"context"
	"errors"
	"time"

	"github.com/vytor/studycards/internal/db"
	apperrors "github.com/vytor/studycards/internal/errors"
	"github.com/vytor/studycards/internal/logger"
	"github.com/vytor/studycards/internal/models"
	"github.com/vytor/studycards/internal/srs"
)

// CardService owns card lifecycle and review flow: create, fetch, due
// queues, preview and commit. The scheduler does the math; the service
// glues it to storage and translates failures into API errors.
type CardService struct {
	db        *db.DB
	scheduler *srs.Scheduler
	log       *logger.Logger
}

func NewCardService(database *db.DB, scheduler *srs.Scheduler) *CardService {
	return &CardService{
		db:        database,
		scheduler: scheduler,
		log:       logger.Default().WithPrefix("cards"),
	}
}

// Scheduler exposes the configured scheduler for collaborators (reschedule
// jobs, stats).
func (s *CardService) Scheduler() *srs.Scheduler {
	return s.scheduler
}

// Ping reports whether the backing database answers.
func (s *CardService) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateCardInput is the request to start tracking one content item for a
// learner.
type CreateCardInput struct {
	LearnerID int64  `json:"learner_id"`
	ContentID string `json:"content_id"`
	Domain    string `json:"domain"`
	Task      string `json:"task"`
}

// CreateCard registers a new card in the New state, due immediately.
// A learner gets at most one card per content item.
func (s *CardService) CreateCard(ctx context.Context, in CreateCardInput, now time.Time) (models.Card, error) {
	if in.LearnerID <= 0 {
		return models.Card{}, apperrors.NewValidationError("learner_id", "must be positive")
	}
	if in.ContentID == "" {
		return models.Card{}, apperrors.NewValidationError("content_id", "cannot be empty")
	}

	card := models.NewCard(in.LearnerID, in.ContentID, now)
	card.Domain = in.Domain
	card.Task = in.Task

	if err := s.db.InsertCard(ctx, &card); err != nil {
		if errors.Is(err, db.ErrDuplicateCard) {
			return models.Card{}, apperrors.NewConflictError("card already exists for this learner and content")
		}
		return models.Card{}, apperrors.NewInternalError(err)
	}

	s.log.Info("created card %d for learner %d (%s)", card.ID, card.LearnerID, card.ContentID)
	return card, nil
}

// GetCard fetches a card by ID.
func (s *CardService) GetCard(ctx context.Context, id int64) (models.Card, error) {
	card, err := s.db.GetCard(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return models.Card{}, apperrors.NewNotFoundError("card", id)
		}
		return models.Card{}, apperrors.NewInternalError(err)
	}
	return card, nil
}

// DueCards returns the learner's study queue as of the filter time.
func (s *CardService) DueCards(ctx context.Context, filter models.CardFilter) ([]models.Card, error) {
	if filter.LearnerID <= 0 {
		return nil, apperrors.NewValidationError("learner_id", "must be positive")
	}
	cards, err := s.db.DueCards(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return cards, nil
}

// Preview computes all four rating outcomes for a card at time now without
// persisting anything.
func (s *CardService) Preview(ctx context.Context, cardID int64, now time.Time) (map[models.Rating]srs.SchedulingInfo, error) {
	card, err := s.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	return s.scheduler.Repeat(card, now), nil
}

// Review commits one rating: the card is rescheduled and the review is
// appended to its history, atomically.
func (s *CardService) Review(ctx context.Context, cardID int64, rating models.Rating, now time.Time) (models.Card, error) {
	card, err := s.GetCard(ctx, cardID)
	if err != nil {
		return models.Card{}, err
	}

	updated, log, err := s.scheduler.ReviewCard(card, rating, now)
	if err != nil {
		if errors.Is(err, srs.ErrInvalidRating) {
			return models.Card{}, apperrors.NewValidationError("rating", "must be 1 (Again) through 4 (Easy)")
		}
		return models.Card{}, apperrors.NewInternalError(err)
	}

	if err := s.db.CommitReview(ctx, updated, &log); err != nil {
		return models.Card{}, apperrors.NewInternalError(err)
	}

	s.log.Info("card %d reviewed %s: %s -> %s, due %s",
		card.ID, rating, log.StateBefore, log.StateAfter, updated.Due.Format(time.RFC3339))
	return updated, nil
}

// History returns a card's review log, oldest first.
func (s *CardService) History(ctx context.Context, cardID int64) ([]models.ReviewLog, error) {
	if _, err := s.GetCard(ctx, cardID); err != nil {
		return nil, err
	}
	logs, err := s.db.ReviewLogs(ctx, cardID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return logs, nil
}

// Reschedule replays every card of the learner against the current
// parameters and persists the rebuilt scheduling state. Used after the
// weight vector or retention target changes.
func (s *CardService) Reschedule(ctx context.Context, learnerID int64) (int, error) {
	cards, err := s.db.CardsForLearner(ctx, learnerID)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}

	updated := 0
	for _, card := range cards {
		logs, err := s.db.ReviewLogs(ctx, card.ID)
		if err != nil {
			return updated, apperrors.NewInternalError(err)
		}
		if len(logs) == 0 {
			continue
		}
		replayed, err := s.scheduler.Replay(card, logs)
		if err != nil {
			return updated, apperrors.NewInternalError(err)
		}
		if err := s.db.UpdateCard(ctx, replayed); err != nil {
			return updated, apperrors.NewInternalError(err)
		}
		updated++
	}

	s.log.Info("rescheduled %d/%d cards for learner %d", updated, len(cards), learnerID)
	return updated, nil
}
