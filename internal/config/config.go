package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr     string
	DBPath   string
	LogLevel string

	// Scheduler tuning. Weights is empty for the stock FSRS v6 set; a
	// non-empty value must carry the full weight vector.
	TargetRetention       float64
	MaximumIntervalDays   int
	LearningStepMinutes   int
	RelearningStepMinutes int
	FuzzSeed              int64
	Weights               []float64

	RescheduleWorkerCount int
	RescheduleQueueSize   int
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                  envOr("ADDR", ":8080"),
		DBPath:                envOr("DB_PATH", "file:studycards.db"),
		LogLevel:              envOr("LOG_LEVEL", "INFO"),
		TargetRetention:       envFloatOr("TARGET_RETENTION", 0.9),
		MaximumIntervalDays:   envIntOr("MAX_INTERVAL_DAYS", 36500),
		LearningStepMinutes:   envIntOr("LEARNING_STEP_MINUTES", 10),
		RelearningStepMinutes: envIntOr("RELEARNING_STEP_MINUTES", 10),
		FuzzSeed:              envInt64Or("FUZZ_SEED", 0),
		Weights:               envWeights("SRS_WEIGHTS"),
		RescheduleWorkerCount: envIntOr("RESCHEDULE_WORKER_COUNT", 1),
		RescheduleQueueSize:   envIntOr("RESCHEDULE_QUEUE_SIZE", 16),
	}
}

// Validate checks the configuration for values the server cannot start with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if !(c.TargetRetention > 0 && c.TargetRetention < 1) {
		return fmt.Errorf("TARGET_RETENTION must be in (0, 1), got %g", c.TargetRetention)
	}
	if c.MaximumIntervalDays < 1 {
		return fmt.Errorf("MAX_INTERVAL_DAYS must be at least 1, got %d", c.MaximumIntervalDays)
	}
	if c.LearningStepMinutes < 1 || c.RelearningStepMinutes < 1 {
		return fmt.Errorf("learning steps must be at least 1 minute")
	}
	if c.RescheduleWorkerCount < 1 {
		return fmt.Errorf("RESCHEDULE_WORKER_COUNT must be at least 1, got %d", c.RescheduleWorkerCount)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envInt64Or(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid value for %s=%q, using default %g", key, v, def)
	}
	return def
}

// envWeights parses a comma-separated weight vector, e.g.
// "0.212,1.2931,...". Returns nil (use the model defaults) when unset or
// malformed; arity is validated later at scheduler construction.
func envWeights(key string) []float64 {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	weights := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			log.Printf("invalid value for %s: %q is not a number, ignoring override", key, p)
			return nil
		}
		weights = append(weights, f)
	}
	return weights
}
