package worker

import (
	"context"
	"fmt"

	"github.com/vytor/studycards/internal/logger"
	"github.com/vytor/studycards/internal/services"
)

// RescheduleJob replays one learner's full review history against the
// current scheduler parameters and persists the rebuilt card state. Queued
// when parameters change so the request path never pays for the replay.
type RescheduleJob struct {
	Cards     *services.CardService
	LearnerID int64
}

func (j *RescheduleJob) Name() string {
	return fmt.Sprintf("reschedule-learner-%d", j.LearnerID)
}

func (j *RescheduleJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("reschedule")
	n, err := j.Cards.Reschedule(ctx, j.LearnerID)
	if err != nil {
		return fmt.Errorf("reschedule learner %d: %w", j.LearnerID, err)
	}
	log.Info("learner %d: %d cards rescheduled", j.LearnerID, n)
	return nil
}
