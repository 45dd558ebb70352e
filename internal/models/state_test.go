package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studycards/internal/models"
)

func TestState_Valid(t *testing.T) {
	for _, s := range []models.State{models.New, models.Learning, models.Review, models.Relearning} {
		assert.True(t, s.IsValid())
	}
	assert.False(t, models.State(4).IsValid())
	assert.False(t, models.State(-1).IsValid())
}

func TestState_JSONRoundTrip(t *testing.T) {
	for _, s := range []models.State{models.New, models.Learning, models.Review, models.Relearning} {
		data, err := json.Marshal(s)
		require.NoError(t, err)

		var back models.State
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, s, back)
	}
}

func TestState_UnmarshalInvalid(t *testing.T) {
	var s models.State
	assert.Error(t, json.Unmarshal([]byte(`"Suspended"`), &s))
}

func TestNewCard(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	card := models.NewCard(12, "vocab-7", now)

	assert.Equal(t, models.New, card.State)
	assert.Equal(t, int64(12), card.LearnerID)
	assert.Equal(t, "vocab-7", card.ContentID)
	assert.Equal(t, 0, card.Reps)
	assert.Equal(t, 0, card.Lapses)
	assert.True(t, card.Due.Equal(now), "new cards are due immediately")
	assert.Nil(t, card.LastReview)
	assert.Zero(t, card.Stability)
	assert.Zero(t, card.Difficulty)
}
