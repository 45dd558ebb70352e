package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/studycards/internal/api"
	"github.com/vytor/studycards/internal/config"
	"github.com/vytor/studycards/internal/db"
	"github.com/vytor/studycards/internal/logger"
	"github.com/vytor/studycards/internal/services"
	"github.com/vytor/studycards/internal/srs"
	"github.com/vytor/studycards/internal/worker"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	logger.SetDefault(logger.New(logger.WithLevel(logger.ParseLevel(cfg.LogLevel))))
	log := logger.Default().WithPrefix("server")

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer database.Close()

	scheduler, err := buildScheduler(cfg)
	if err != nil {
		log.Error("failed to build scheduler: %v", err)
		os.Exit(1)
	}

	pool := worker.NewPool(cfg.RescheduleWorkerCount, cfg.RescheduleQueueSize)
	pool.Start(context.Background())
	defer pool.Stop()

	cards := services.NewCardService(database, scheduler)
	stats := services.NewStatsService(database)
	server := api.NewServer(cards, stats, pool)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      server.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("shutdown error: %v", err)
	}
	log.Info("goodbye")
}

// buildScheduler turns the environment configuration into scheduler
// parameters, falling back to the stock FSRS v6 weights when no override is
// set.
func buildScheduler(cfg config.Config) (*srs.Scheduler, error) {
	params := srs.DefaultParameters()
	params.DesiredRetention = cfg.TargetRetention
	params.MaximumInterval = cfg.MaximumIntervalDays
	if len(cfg.Weights) > 0 {
		p, err := srs.NewParameters("env-override", cfg.Weights, cfg.TargetRetention, cfg.MaximumIntervalDays)
		if err != nil {
			return nil, err
		}
		params = p
	}

	return srs.NewScheduler(srs.Config{
		Parameters:     params,
		LearningStep:   time.Duration(cfg.LearningStepMinutes) * time.Minute,
		RelearningStep: time.Duration(cfg.RelearningStepMinutes) * time.Minute,
		FuzzSeed:       cfg.FuzzSeed,
	})
}
