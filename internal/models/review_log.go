package models

import "time"

// ReviewLog is the append-only record of one committed review.
// It captures the card's memory state before and after the update so a
// learner's history can be audited or replayed later. Never mutated.
type ReviewLog struct {
	ID               int64     `json:"id"`
	CardID           int64     `json:"card_id"`
	Rating           Rating    `json:"rating"`
	StateBefore      State     `json:"state_before"`
	DifficultyBefore float64   `json:"difficulty_before"`
	StabilityBefore  float64   `json:"stability_before"`
	StateAfter       State     `json:"state_after"`
	DifficultyAfter  float64   `json:"difficulty_after"`
	StabilityAfter   float64   `json:"stability_after"`
	ElapsedDays      float64   `json:"elapsed_days"`
	ScheduledDays    int       `json:"scheduled_days"`
	ReviewedAt       time.Time `json:"reviewed_at"`
}
