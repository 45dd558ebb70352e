package db

import (
	"context"
	"database/sql"

	"github.com/vytor/studycards/internal/models"
)

// CommitReview applies a review atomically: the card row is overwritten with
// its post-review state and the log is appended in the same transaction, so a
// card and its history never disagree.
func (db *DB) CommitReview(ctx context.Context, card models.Card, log *models.ReviewLog) error {
	return db.tx(ctx, func(tx *sql.Tx) error {
		if err := db.updateCardExec(ctx, tx, card); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO review_logs (card_id, rating, state_before,
				difficulty_before, stability_before, state_after,
				difficulty_after, stability_after, elapsed_days,
				scheduled_days, reviewed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			log.CardID, log.Rating, log.StateBefore,
			log.DifficultyBefore, log.StabilityBefore, log.StateAfter,
			log.DifficultyAfter, log.StabilityAfter, log.ElapsedDays,
			log.ScheduledDays, log.ReviewedAt,
		)
		if err != nil {
			db.log.Error("failed to insert review log for card %d: %v", log.CardID, err)
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		log.ID = id
		db.log.Debug("committed review for card %d (rating %s)", log.CardID, log.Rating)
		return nil
	})
}

// ReviewLogs returns a card's full review history, oldest first. Ties on
// reviewed_at break on insertion order so replay stays deterministic.
func (db *DB) ReviewLogs(ctx context.Context, cardID int64) ([]models.ReviewLog, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, card_id, rating, state_before, difficulty_before,
			stability_before, state_after, difficulty_after, stability_after,
			elapsed_days, scheduled_days, reviewed_at
		FROM review_logs
		WHERE card_id = ?
		ORDER BY reviewed_at ASC, id ASC`, cardID)
	if err != nil {
		db.log.Error("failed to query review logs for card %d: %v", cardID, err)
		return nil, err
	}
	defer rows.Close()

	var logs []models.ReviewLog
	for rows.Next() {
		var l models.ReviewLog
		if err := rows.Scan(
			&l.ID, &l.CardID, &l.Rating, &l.StateBefore, &l.DifficultyBefore,
			&l.StabilityBefore, &l.StateAfter, &l.DifficultyAfter, &l.StabilityAfter,
			&l.ElapsedDays, &l.ScheduledDays, &l.ReviewedAt,
		); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
