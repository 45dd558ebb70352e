package models

import "time"

// ReviewStat aggregates committed reviews over a time window.
type ReviewStat struct {
	TotalReviews int     `json:"total_reviews"`
	AgainCount   int     `json:"again_count"`
	SuccessRate  float64 `json:"success_rate"` // (total - again) / total, 0 when no reviews
}

// DailyLoad is the number of cards falling due on one day.
type DailyLoad struct {
	Date string `json:"date"` // YYYY-MM-DD
	Due  int    `json:"due"`
}

// LearnerStats is the per-learner dashboard summary.
type LearnerStats struct {
	LearnerID    int64         `json:"learner_id"`
	StateCounts  map[State]int `json:"state_counts"`
	DueNow       int           `json:"due_now"`
	Last30Days   ReviewStat    `json:"last_30_days"`
	UpcomingLoad []DailyLoad   `json:"upcoming_load"`
	GeneratedAt  time.Time     `json:"generated_at"`
}
