package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/vytor/studycards/internal/models"
)

// ErrDuplicateCard is returned when a learner already has a card for the
// same content item.
var ErrDuplicateCard = errors.New("db: card already exists for learner and content")

var cardColumns = []string{
	"id", "learner_id", "content_id", "domain", "task",
	"state", "difficulty", "stability", "due", "last_review",
	"elapsed_days", "scheduled_days", "reps", "lapses", "created_at",
}

func scanCard(row interface{ Scan(...any) error }) (models.Card, error) {
	var c models.Card
	var lastReview sql.NullTime
	err := row.Scan(
		&c.ID, &c.LearnerID, &c.ContentID, &c.Domain, &c.Task,
		&c.State, &c.Difficulty, &c.Stability, &c.Due, &lastReview,
		&c.ElapsedDays, &c.ScheduledDays, &c.Reps, &c.Lapses, &c.CreatedAt,
	)
	if err != nil {
		return models.Card{}, err
	}
	if lastReview.Valid {
		t := lastReview.Time
		c.LastReview = &t
	}
	return c, nil
}

// InsertCard stores a new card and fills in its generated ID.
// Returns ErrDuplicateCard when the learner already tracks the content item.
func (db *DB) InsertCard(ctx context.Context, card *models.Card) error {
	res, err := db.ExecContext(ctx, `
		INSERT INTO cards (learner_id, content_id, domain, task, state,
			difficulty, stability, due, last_review, elapsed_days,
			scheduled_days, reps, lapses, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		card.LearnerID, card.ContentID, card.Domain, card.Task, card.State,
		card.Difficulty, card.Stability, card.Due, card.LastReview,
		card.ElapsedDays, card.ScheduledDays, card.Reps, card.Lapses, card.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicateCard
		}
		db.log.Error("failed to insert card: %v", err)
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	card.ID = id
	db.log.Debug("inserted card %d for learner %d (%s)", id, card.LearnerID, card.ContentID)
	return nil
}

// GetCard fetches a card by ID. Returns ErrNotFound when it does not exist.
func (db *DB) GetCard(ctx context.Context, id int64) (models.Card, error) {
	query, args, err := sq.Select(cardColumns...).From("cards").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Card{}, err
	}
	card, err := scanCard(db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Card{}, ErrNotFound
	}
	return card, err
}

// GetCardByContent fetches a learner's card for one content item.
func (db *DB) GetCardByContent(ctx context.Context, learnerID int64, contentID string) (models.Card, error) {
	query, args, err := sq.Select(cardColumns...).From("cards").
		Where(sq.Eq{"learner_id": learnerID, "content_id": contentID}).ToSql()
	if err != nil {
		return models.Card{}, err
	}
	card, err := scanCard(db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Card{}, ErrNotFound
	}
	return card, err
}

// DueCards returns the learner's cards with due <= filter.AsOf, oldest due
// first. Domain and Task narrow the selection when set.
func (db *DB) DueCards(ctx context.Context, filter models.CardFilter) ([]models.Card, error) {
	asOf := filter.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	builder := sq.Select(cardColumns...).From("cards").
		Where(sq.Eq{"learner_id": filter.LearnerID}).
		Where(sq.LtOrEq{"due": asOf}).
		OrderBy("due ASC", "id ASC")
	if filter.Domain != "" {
		builder = builder.Where(sq.Eq{"domain": filter.Domain})
	}
	if filter.Task != "" {
		builder = builder.Where(sq.Eq{"task": filter.Task})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		db.log.Error("failed to query due cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// CountDue returns how many of the learner's cards are due at asOf.
func (db *DB) CountDue(ctx context.Context, learnerID int64, asOf time.Time) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cards WHERE learner_id = ? AND due <= ?`,
		learnerID, asOf,
	).Scan(&count)
	return count, err
}

// CardsForLearner returns all of a learner's cards ordered by creation.
func (db *DB) CardsForLearner(ctx context.Context, learnerID int64) ([]models.Card, error) {
	query, args, err := sq.Select(cardColumns...).From("cards").
		Where(sq.Eq{"learner_id": learnerID}).
		OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// UpdateCard overwrites a card's scheduling state.
func (db *DB) UpdateCard(ctx context.Context, card models.Card) error {
	return db.updateCardExec(ctx, db.DB, card)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (db *DB) updateCardExec(ctx context.Context, ex execer, card models.Card) error {
	res, err := ex.ExecContext(ctx, `
		UPDATE cards SET state = ?, difficulty = ?, stability = ?, due = ?,
			last_review = ?, elapsed_days = ?, scheduled_days = ?,
			reps = ?, lapses = ?
		WHERE id = ?`,
		card.State, card.Difficulty, card.Stability, card.Due,
		card.LastReview, card.ElapsedDays, card.ScheduledDays,
		card.Reps, card.Lapses, card.ID,
	)
	if err != nil {
		db.log.Error("failed to update card %d: %v", card.ID, err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("update card %d: %w", card.ID, ErrNotFound)
	}
	return nil
}
