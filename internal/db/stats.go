package db

import (
	"context"
	"time"

	"github.com/vytor/studycards/internal/models"
)

// StateCounts returns how many of the learner's cards sit in each state.
// States with no cards are present with a zero count.
func (db *DB) StateCounts(ctx context.Context, learnerID int64) (map[models.State]int, error) {
	counts := map[models.State]int{
		models.New:        0,
		models.Learning:   0,
		models.Review:     0,
		models.Relearning: 0,
	}

	rows, err := db.QueryContext(ctx,
		`SELECT state, COUNT(*) FROM cards WHERE learner_id = ? GROUP BY state`,
		learnerID)
	if err != nil {
		db.log.Error("failed to query state counts: %v", err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var state models.State
		var count int
		if err := rows.Scan(&state, &count); err != nil {
			return nil, err
		}
		counts[state] = count
	}
	return counts, rows.Err()
}

// ReviewStats aggregates the learner's committed reviews since the given time.
func (db *DB) ReviewStats(ctx context.Context, learnerID int64, since time.Time) (models.ReviewStat, error) {
	var stat models.ReviewStat
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN rl.rating = ? THEN 1 ELSE 0 END), 0)
		FROM review_logs rl
		JOIN cards c ON c.id = rl.card_id
		WHERE c.learner_id = ? AND rl.reviewed_at >= ?`,
		models.Again, learnerID, since,
	).Scan(&stat.TotalReviews, &stat.AgainCount)
	if err != nil {
		db.log.Error("failed to query review stats: %v", err)
		return models.ReviewStat{}, err
	}
	if stat.TotalReviews > 0 {
		stat.SuccessRate = float64(stat.TotalReviews-stat.AgainCount) / float64(stat.TotalReviews)
	}
	return stat, nil
}

// UpcomingLoad buckets the learner's cards due in [from, from+days) by
// calendar day (UTC). Days with nothing due are present with a zero count so
// callers can chart the window directly.
func (db *DB) UpcomingLoad(ctx context.Context, learnerID int64, from time.Time, days int) ([]models.DailyLoad, error) {
	from = from.UTC()
	until := from.AddDate(0, 0, days)

	rows, err := db.QueryContext(ctx, `
		SELECT due FROM cards
		WHERE learner_id = ? AND due >= ? AND due < ?`,
		learnerID, from, until)
	if err != nil {
		db.log.Error("failed to query upcoming load: %v", err)
		return nil, err
	}
	defer rows.Close()

	byDay := make(map[string]int)
	for rows.Next() {
		var due time.Time
		if err := rows.Scan(&due); err != nil {
			return nil, err
		}
		byDay[due.UTC().Format("2006-01-02")]++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	load := make([]models.DailyLoad, 0, days)
	for i := 0; i < days; i++ {
		day := from.AddDate(0, 0, i).Format("2006-01-02")
		load = append(load, models.DailyLoad{Date: day, Due: byDay[day]})
	}
	return load, nil
}
