package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studycards/internal/models"
)

func TestRating_Valid(t *testing.T) {
	for _, r := range models.AllRatings {
		assert.True(t, r.IsValid())
	}
	for _, r := range []models.Rating{0, 5, -1} {
		assert.False(t, r.IsValid())
	}
}

func TestRating_String(t *testing.T) {
	assert.Equal(t, "Again", models.Again.String())
	assert.Equal(t, "Easy", models.Easy.String())
	assert.Equal(t, "Rating(9)", models.Rating(9).String())
}

func TestRating_JSONRoundTrip(t *testing.T) {
	for _, r := range models.AllRatings {
		data, err := json.Marshal(r)
		require.NoError(t, err)

		var back models.Rating
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, r, back)
	}
}

func TestRating_UnmarshalNumeric(t *testing.T) {
	var r models.Rating
	require.NoError(t, json.Unmarshal([]byte(`3`), &r))
	assert.Equal(t, models.Good, r)
}

func TestRating_UnmarshalInvalid(t *testing.T) {
	var r models.Rating
	assert.Error(t, json.Unmarshal([]byte(`"Perfect"`), &r))
	assert.Error(t, json.Unmarshal([]byte(`7`), &r))
	assert.Error(t, json.Unmarshal([]byte(`{}`), &r))
}

func TestRating_MarshalInvalid(t *testing.T) {
	_, err := json.Marshal(models.Rating(0))
	assert.Error(t, err, "out-of-range ratings must not serialize")
}

func TestRating_MapKey(t *testing.T) {
	m := map[models.Rating]int{models.Again: 1, models.Easy: 4}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Again":1,"Easy":4}`, string(data))
}
