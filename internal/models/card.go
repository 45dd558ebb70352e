package models

import "time"

// Card is the per-learner scheduling state for one content item.
// ContentID, Domain and Task identify what is being studied; the scheduler
// treats them as opaque pass-through fields.
type Card struct {
	ID            int64      `json:"id"`
	LearnerID     int64      `json:"learner_id"`
	ContentID     string     `json:"content_id"`
	Domain        string     `json:"domain,omitempty"`
	Task          string     `json:"task,omitempty"`
	State         State      `json:"state"`
	Difficulty    float64    `json:"difficulty"`
	Stability     float64    `json:"stability"`
	Due           time.Time  `json:"due"`
	LastReview    *time.Time `json:"last_review,omitempty"`
	ElapsedDays   float64    `json:"elapsed_days"`
	ScheduledDays int        `json:"scheduled_days"`
	Reps          int        `json:"reps"`
	Lapses        int        `json:"lapses"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NewCard creates a card in the New state, due immediately at now.
// The memory state (difficulty, stability) stays zero until the first review
// initializes it.
func NewCard(learnerID int64, contentID string, now time.Time) Card {
	return Card{
		LearnerID: learnerID,
		ContentID: contentID,
		State:     New,
		Due:       now,
		CreatedAt: now,
	}
}

// CardFilter selects due cards for a learner.
type CardFilter struct {
	LearnerID int64
	Domain    string
	Task      string
	AsOf      time.Time // cards with due <= AsOf; zero means "now" at query time
	Limit     int
}
