package srs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studycards/internal/srs"
)

func TestDefaultParameters_Valid(t *testing.T) {
	p := srs.DefaultParameters()

	require.NoError(t, p.Validate())
	assert.Equal(t, 0.9, p.DesiredRetention)
	assert.Equal(t, 36500, p.MaximumInterval)
	assert.NotEmpty(t, p.Name)
}

func TestNewParameters_WrongArity(t *testing.T) {
	weights := srs.DefaultParameters().Weights

	_, err := srs.NewParameters("short", weights[:10], 0.9, 36500)
	require.Error(t, err)
	assert.ErrorIs(t, err, srs.ErrInvalidParameters)

	long := append(weights[:], 0.5)
	_, err = srs.NewParameters("long", long, 0.9, 36500)
	assert.ErrorIs(t, err, srs.ErrInvalidParameters)
}

func TestNewParameters_WeightOutOfBounds(t *testing.T) {
	weights := srs.DefaultParameters().Weights
	weights[0] = -1.0

	_, err := srs.NewParameters("bad", weights[:], 0.9, 36500)
	assert.ErrorIs(t, err, srs.ErrInvalidParameters)
}

func TestNewParameters_RetentionBounds(t *testing.T) {
	weights := srs.DefaultParameters().Weights

	tests := []struct {
		name      string
		retention float64
		wantErr   bool
	}{
		{"mid range", 0.85, false},
		{"zero", 0.0, true},
		{"one", 1.0, true},
		{"negative", -0.2, true},
		{"above one", 1.5, true},
		{"just inside low", 0.01, false},
		{"just inside high", 0.99, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := srs.NewParameters("t", weights[:], tt.retention, 36500)
			if tt.wantErr {
				assert.ErrorIs(t, err, srs.ErrInvalidParameters)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewParameters_MaximumInterval(t *testing.T) {
	weights := srs.DefaultParameters().Weights

	_, err := srs.NewParameters("t", weights[:], 0.9, 0)
	assert.ErrorIs(t, err, srs.ErrInvalidParameters)

	p, err := srs.NewParameters("t", weights[:], 0.9, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, p.MaximumInterval)
}

func TestNewScheduler_RejectsInvalidParameters(t *testing.T) {
	p := srs.DefaultParameters()
	p.DesiredRetention = 2.0

	_, err := srs.NewScheduler(srs.Config{Parameters: p})
	assert.ErrorIs(t, err, srs.ErrInvalidParameters,
		"parameter validation must fail at construction time, not at call time")
}
