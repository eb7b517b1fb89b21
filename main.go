package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"ambassadors/internal/aggregation"
	"ambassadors/internal/config"
	"ambassadors/internal/notifier"
	"ambassadors/internal/repository"
	"ambassadors/internal/server"
	"ambassadors/internal/warning"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err) // Should not happen in development
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// Load configuration
	cfgPath := "configs/config.yml"
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, logger)
	activityRepo := repository.NewActivityRepository(db, logger)
	warningRepo := repository.NewWarningRepository(db, logger)
	ruleRepo := repository.NewRuleRepository(db, logger)

	// Initialize Telegram notifier for warning notifications
	notify, err := notifier.NewTelegram(cfg, logger)
	if err != nil {
		logger.Warn("Failed to initialize Telegram notifier, continuing without it", zap.Error(err))
		notify = nil
	}

	// Initialize the aggregation and warning engines
	aggregator := aggregation.NewAggregator(userRepo, activityRepo, ruleRepo, logger)
	engine := warning.NewEngine(userRepo, warningRepo, activityRepo, ruleRepo, notify, logger)

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Run the daily warning scheduler in a goroutine
	interval := time.Duration(cfg.Evaluation.IntervalHours) * time.Hour
	scheduler := warning.NewScheduler(engine, logger, interval, cfg.Evaluation.RunOnStart)
	go scheduler.Run(ctx)

	// Initialize and run the server
	srvLog := logrus.New()
	srv := server.NewServer(db, engine, aggregator, logger, srvLog)
	srv.Run(cfg.Server.Port)

	<-ctx.Done()
	logger.Info("Application stopped.")
}
