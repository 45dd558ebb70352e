package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studycards/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 0.9, cfg.TargetRetention)
	assert.Equal(t, 36500, cfg.MaximumIntervalDays)
	assert.Equal(t, 10, cfg.LearningStepMinutes)
	assert.Zero(t, cfg.FuzzSeed)
	assert.Nil(t, cfg.Weights)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("TARGET_RETENTION", "0.85")
	t.Setenv("MAX_INTERVAL_DAYS", "365")
	t.Setenv("FUZZ_SEED", "424242")
	t.Setenv("SRS_WEIGHTS", "0.1, 0.2, 0.3")

	cfg := config.Load()

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 0.85, cfg.TargetRetention)
	assert.Equal(t, 365, cfg.MaximumIntervalDays)
	assert.Equal(t, int64(424242), cfg.FuzzSeed)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, cfg.Weights)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("MAX_INTERVAL_DAYS", "not-a-number")
	t.Setenv("TARGET_RETENTION", "ninety percent")
	t.Setenv("SRS_WEIGHTS", "0.1,oops")

	cfg := config.Load()

	assert.Equal(t, 36500, cfg.MaximumIntervalDays)
	assert.Equal(t, 0.9, cfg.TargetRetention)
	assert.Nil(t, cfg.Weights, "a malformed weight vector is dropped entirely")
}

func TestValidate(t *testing.T) {
	base := config.Load()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"valid", func(c *config.Config) {}, ""},
		{"empty addr", func(c *config.Config) { c.Addr = "" }, "ADDR"},
		{"empty db path", func(c *config.Config) { c.DBPath = "" }, "DB_PATH"},
		{"retention too high", func(c *config.Config) { c.TargetRetention = 1.0 }, "TARGET_RETENTION"},
		{"retention zero", func(c *config.Config) { c.TargetRetention = 0 }, "TARGET_RETENTION"},
		{"bad max interval", func(c *config.Config) { c.MaximumIntervalDays = 0 }, "MAX_INTERVAL_DAYS"},
		{"bad step", func(c *config.Config) { c.LearningStepMinutes = 0 }, "learning steps"},
		{"bad workers", func(c *config.Config) { c.RescheduleWorkerCount = 0 }, "RESCHEDULE_WORKER_COUNT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
