package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	pg "pet-vaccinations/internal/adapters/storage/postgres"
	"pet-vaccinations/internal/domain/notifications"
	"pet-vaccinations/internal/jobs"
	"pet-vaccinations/internal/platform/config"
	"pet-vaccinations/internal/platform/httpclient"
	"pet-vaccinations/internal/platform/logger"
	"pet-vaccinations/internal/platform/metrics"
	platformredis "pet-vaccinations/internal/platform/redis"
	"pet-vaccinations/internal/platform/taskqueue"
	"pet-vaccinations/internal/router"
)

// @title Pet Vaccinations API
// @version 1.0
// @description API de mascotas y registros de vacunación con control de vencimientos.
// @BasePath /api/v1
func main() {
	cfg := config.FromEnv()

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
	for _, w := range cfg.Warnings {
		log.Warn("config", map[string]any{"warning": w})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("fatal", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log logger.Logger) error {
	m := metrics.New()

	opts := router.Options{
		Logger:           log,
		Metrics:          m,
		Location:         cfg.Location,
		ExpiringSoonDays: cfg.ExpiringSoonDays,
	}

	// Storage: Postgres si hay DSN.
	if cfg.DatabaseDSN != "" {
		db, err := pg.Open(cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := pg.Migrate(db); err != nil {
			return err
		}
		opts.DB = db
		log.Info("storage: postgres", nil)
	} else {
		log.Info("storage: in-memory", nil)
	}

	// Broker: Redis si hay URL.
	rc, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	if rc != nil {
		defer rc.Close()
		opts.Broker = taskqueue.NewRedisBroker(rc.Client)
		log.Info("task broker: redis", nil)
	} else {
		log.Info("task broker: in-memory", nil)
	}

	app := router.Build(opts)

	sinks := []notifications.Sink{notifications.NewLogSink(log)}
	if cfg.WebhookURL != "" {
		hc := httpclient.New(cfg.WebhookTimeout)
		hc.UserAgent = cfg.AppName
		sinks = append(sinks, notifications.NewWebhookSink(cfg.WebhookURL, hc, cfg.WebhookRPS))
	}
	if len(cfg.KafkaBrokers) > 0 {
		kc, err := notifications.NewKafkaClient(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return err
		}
		defer kc.Close()
		sinks = append(sinks, notifications.NewKafkaSink(kc, cfg.KafkaTopic))
	}

	worker := taskqueue.NewWorker(app.Broker, taskqueue.WorkerOptions{
		Concurrency: cfg.WorkerConcurrency,
		Logger:      log,
		Metrics:     m,
	})
	notifications.NewDispatcher(app.VaccinationRepo, app.Pets, sinks, notifications.DispatcherOptions{
		Logger:  log,
		Metrics: m,
	}).Register(worker)
	jobs.NewSweep(app.Vaccinations, log).Register(worker)

	scheduler := jobs.NewScheduler(app.Broker, cfg.SweepHour, cfg.SweepMinute, cfg.Location, log)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      app.Handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return worker.Run(gctx)
	})
	g.Go(func() error {
		scheduler.Start(gctx)
		<-gctx.Done()
		scheduler.Stop()
		return nil
	})
	g.Go(func() error {
		log.Info("starting server", map[string]any{"addr": cfg.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down", nil)
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}
