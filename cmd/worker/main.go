package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hibiken/asynq"

	"github.com/archetypehq/qrtrack/internal/config"
	"github.com/archetypehq/qrtrack/internal/database"
	"github.com/archetypehq/qrtrack/internal/mailer"
	"github.com/archetypehq/qrtrack/internal/notification"
	"github.com/archetypehq/qrtrack/internal/queue"
	"github.com/archetypehq/qrtrack/internal/queue/workers"
	"github.com/archetypehq/qrtrack/internal/report"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"critical": 6,
			"default":  3,
			"low":      1,
		},
	})

	queueClient := queue.NewClient(cfg.Redis)
	defer queueClient.Close()

	notifier := notification.NewDispatcher(db, nil, queueClient)
	mail := mailer.NewClient(cfg.Email)
	reports := report.NewService(db, notifier, cfg.Report.DashboardURL)

	registry := queue.NewHandlersRegistry()

	emailWorker := workers.NewEmailWorker(mail)
	registry.Register(queue.TypeEmailSend, asynq.HandlerFunc(emailWorker.ProcessTask))

	reportWorker := workers.NewReportWorker(reports)
	registry.Register(queue.TypeWeeklyReport, asynq.HandlerFunc(reportWorker.ProcessTask))

	// The scheduler enqueues the weekly report task; the watermark inside the
	// run makes a duplicate firing harmless.
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{Location: time.UTC})
	if _, err := scheduler.Register(cfg.Report.WeeklyCron, asynq.NewTask(queue.TypeWeeklyReport, nil)); err != nil {
		slog.Error("failed to register weekly report schedule", "error", err)
		os.Exit(1)
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			slog.Error("scheduler error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("starting worker", "concurrency", 10, "weekly_cron", cfg.Report.WeeklyCron)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
