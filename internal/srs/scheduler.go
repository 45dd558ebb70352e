// Package srs implements the spaced-repetition scheduling engine: an FSRS
// memory model (difficulty, stability), a forgetting-curve retrievability
// function and the four-state card state machine that together decide when a
// card should be reviewed next.
//
// The engine is pure: it never reads the clock, never touches storage and
// never mutates its inputs, so it is safe to call concurrently and to call
// speculatively for UI previews.
package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/vytor/studycards/internal/models"
)

// ErrInvalidRating is returned when a rating outside Again..Easy reaches the
// scheduler.
var ErrInvalidRating = errors.New("srs: invalid rating")

// ErrCardMismatch is returned by Replay when a log entry references a
// different card.
var ErrCardMismatch = errors.New("srs: review log does not belong to card")

// Config configures a Scheduler. Zero values select defaults.
type Config struct {
	Parameters     Parameters    // zero value: DefaultParameters()
	LearningStep   time.Duration // step for Learning-state cards; zero: 10 minutes
	RelearningStep time.Duration // step for Relearning-state cards; zero: 10 minutes
	FuzzSeed       int64         // non-zero enables seeded interval fuzzing
}

// SchedulingInfo is one previewed outcome: the card as it would be after
// committing a rating, and the log entry that commit would append.
type SchedulingInfo struct {
	Card models.Card      `json:"card"`
	Log  models.ReviewLog `json:"log"`
}

// Scheduler computes review outcomes. Immutable after construction and safe
// for concurrent use.
type Scheduler struct {
	params         Parameters
	model          memoryModel
	learningStep   time.Duration
	relearningStep time.Duration
	fuzzSeed       int64
	fuzzEnabled    bool
}

// NewScheduler validates the config and builds a scheduler.
func NewScheduler(cfg Config) (*Scheduler, error) {
	params := cfg.Parameters
	if params == (Parameters{}) {
		params = DefaultParameters()
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	learningStep := cfg.LearningStep
	if learningStep == 0 {
		learningStep = 10 * time.Minute
	}
	relearningStep := cfg.RelearningStep
	if relearningStep == 0 {
		relearningStep = 10 * time.Minute
	}
	if learningStep < 0 || relearningStep < 0 {
		return nil, fmt.Errorf("%w: negative learning step", ErrInvalidParameters)
	}
	return &Scheduler{
		params:         params,
		model:          newMemoryModel(params),
		learningStep:   learningStep,
		relearningStep: relearningStep,
		fuzzSeed:       cfg.FuzzSeed,
		fuzzEnabled:    cfg.FuzzSeed != 0,
	}, nil
}

// Parameters returns the parameter set the scheduler was built with.
func (s *Scheduler) Parameters() Parameters {
	return s.params
}

// transition is the authoritative state machine. No other code decides
// state changes.
//
//	New        × Again/Hard → Learning     × Good/Easy → Review
//	Learning   × Again/Hard → Learning     × Good/Easy → Review
//	Review     × Again      → Relearning   × Hard/Good/Easy → Review
//	Relearning × Again/Hard → Relearning   × Good/Easy → Review
func transition(state models.State, r models.Rating) models.State {
	switch state {
	case models.Review:
		if r == models.Again {
			return models.Relearning
		}
		return models.Review
	case models.Relearning:
		if r == models.Again || r == models.Hard {
			return models.Relearning
		}
		return models.Review
	default: // New, Learning
		if r == models.Again || r == models.Hard {
			return models.Learning
		}
		return models.Review
	}
}

// Repeat previews the outcome of every possible rating for a card at time
// now, without committing to any of them. The caller shows the four
// outcomes, the learner picks one, and the caller persists exactly that
// card/log pair. The input card is never mutated.
//
// Across the returned outcomes, due times are ordered
// Again <= Hard < Good < Easy (Again and Hard may share a short step).
func (s *Scheduler) Repeat(card models.Card, now time.Time) map[models.Rating]SchedulingInfo {
	elapsed := reviewElapsedDays(card, now)

	next := make(map[models.Rating]models.Card, len(models.AllRatings))
	intervals := make(map[models.Rating]int, len(models.AllRatings))
	for _, r := range models.AllRatings {
		c := s.updateCard(card, r, elapsed)
		next[r] = c
		if c.State == models.Review {
			intervals[r] = s.model.nextInterval(c.Stability, s.params.DesiredRetention, s.params.MaximumInterval)
		}
	}

	if s.fuzzEnabled {
		rng := fuzzRNG(s.fuzzSeed, card.ID, now)
		for _, r := range models.AllRatings {
			if days, ok := intervals[r]; ok {
				intervals[r] = fuzzInterval(days, s.params.MaximumInterval, rng)
			}
		}
	}
	pinIntervals(intervals)

	out := make(map[models.Rating]SchedulingInfo, len(models.AllRatings))
	for _, r := range models.AllRatings {
		c := next[r]
		if c.State == models.Review {
			days := intervals[r]
			c.ScheduledDays = days
			c.Due = now.Add(time.Duration(days) * 24 * time.Hour)
		} else {
			step := s.learningStep
			if c.State == models.Relearning {
				step = s.relearningStep
			}
			c.ScheduledDays = int(step / (24 * time.Hour))
			c.Due = now.Add(step)
		}
		reviewedAt := now
		c.LastReview = &reviewedAt

		out[r] = SchedulingInfo{
			Card: c,
			Log: models.ReviewLog{
				CardID:           card.ID,
				Rating:           r,
				StateBefore:      card.State,
				DifficultyBefore: card.Difficulty,
				StabilityBefore:  card.Stability,
				StateAfter:       c.State,
				DifficultyAfter:  c.Difficulty,
				StabilityAfter:   c.Stability,
				ElapsedDays:      c.ElapsedDays,
				ScheduledDays:    c.ScheduledDays,
				ReviewedAt:       now,
			},
		}
	}
	return out
}

// ReviewCard is the commit path: the outcome of one chosen rating. Preview
// and commit agree by construction since this selects from Repeat.
func (s *Scheduler) ReviewCard(card models.Card, rating models.Rating, now time.Time) (models.Card, models.ReviewLog, error) {
	if !rating.IsValid() {
		return models.Card{}, models.ReviewLog{}, fmt.Errorf("%w: %d", ErrInvalidRating, int(rating))
	}
	info := s.Repeat(card, now)[rating]
	return info.Card, info.Log, nil
}

// Retrievability is the predicted recall probability for the card at time
// now. Cards that were never reviewed have no memory trace yet; they report 0.
func (s *Scheduler) Retrievability(card models.Card, now time.Time) float64 {
	if card.State == models.New || card.LastReview == nil {
		return 0
	}
	return s.model.retrievability(reviewElapsedDays(card, now), card.Stability)
}

// Replay rebuilds a card's scheduling state from scratch by replaying its
// review history under the current parameters. Used after a parameter
// change to reschedule existing cards.
func (s *Scheduler) Replay(card models.Card, logs []models.ReviewLog) (models.Card, error) {
	replayed := models.NewCard(card.LearnerID, card.ContentID, card.CreatedAt)
	replayed.ID = card.ID
	replayed.Domain = card.Domain
	replayed.Task = card.Task
	for _, l := range logs {
		if l.CardID != card.ID {
			return models.Card{}, fmt.Errorf("%w: card %d, log for card %d", ErrCardMismatch, card.ID, l.CardID)
		}
		c, _, err := s.ReviewCard(replayed, l.Rating, l.ReviewedAt)
		if err != nil {
			return models.Card{}, err
		}
		replayed = c
	}
	return replayed, nil
}

// updateCard applies the memory-model update and state transition for one
// rating. Due and LastReview are filled in by Repeat once intervals are
// pinned across ratings.
func (s *Scheduler) updateCard(card models.Card, r models.Rating, elapsed float64) models.Card {
	c := card
	c.ElapsedDays = elapsed

	if card.State == models.New {
		// No prior exposure: nothing to forget, elapsed time is meaningless.
		c.ElapsedDays = 0
		c.Stability = s.model.initStability(r)
		c.Difficulty = s.model.initDifficulty(r)
	} else {
		stability := clampStability(card.Stability)
		difficulty := clampDifficulty(card.Difficulty)
		if elapsed < 1 {
			c.Stability = s.model.shortTermStability(stability, r)
		} else {
			retr := s.model.retrievability(elapsed, stability)
			if r == models.Again {
				c.Stability = s.model.lapseStability(difficulty, stability, retr)
			} else {
				c.Stability = s.model.recallStability(difficulty, stability, retr, r)
			}
		}
		c.Difficulty = s.model.nextDifficulty(difficulty, r)
	}

	if card.State == models.Review && r == models.Again {
		c.Lapses++
	}
	c.State = transition(card.State, r)
	c.Reps++
	return c
}

// pinIntervals forces strict ordering across the review-bound outcomes:
// Hard < Good < Easy. Without it, rounding can collapse neighboring
// intervals to the same day.
func pinIntervals(intervals map[models.Rating]int) {
	good, hasGood := intervals[models.Good]
	if !hasGood {
		return
	}
	if hard, ok := intervals[models.Hard]; ok {
		hard = min(hard, good)
		good = max(good, hard+1)
		intervals[models.Hard] = hard
		intervals[models.Good] = good
	}
	if easy, ok := intervals[models.Easy]; ok {
		intervals[models.Easy] = max(easy, good+1)
	}
}

// reviewElapsedDays computes days since the last review, clamped at zero so
// backdated or clock-skewed submissions normalize instead of failing.
func reviewElapsedDays(card models.Card, now time.Time) float64 {
	if card.State == models.New || card.LastReview == nil {
		return 0
	}
	d := now.Sub(*card.LastReview).Hours() / 24
	if !(d > 0) {
		return 0
	}
	return d
}
