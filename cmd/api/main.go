package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/tutor-scheduler/internal/audit"
	"github.com/BruksfildServices01/tutor-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/tutor-scheduler/internal/db"
	"github.com/BruksfildServices01/tutor-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/tutor-scheduler/internal/infra/mailer"
	"github.com/BruksfildServices01/tutor-scheduler/internal/infra/payment"
	"github.com/BruksfildServices01/tutor-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/tutor-scheduler/internal/jobs"
	"github.com/BruksfildServices01/tutor-scheduler/internal/logger"
	"github.com/BruksfildServices01/tutor-scheduler/internal/metrics"
	"github.com/BruksfildServices01/tutor-scheduler/internal/notify"
	"github.com/BruksfildServices01/tutor-scheduler/internal/routes"
	"github.com/BruksfildServices01/tutor-scheduler/internal/timezone"
	"github.com/BruksfildServices01/tutor-scheduler/internal/validators"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	timezone.SetDefault(cfg.DefaultTimezone)

	if err := validators.RegisterBindings(); err != nil {
		zl.Fatal("register validators", zap.Error(err))
	}

	db, err := dbpkg.NewDB(cfg, zl)
	if err != nil {
		zl.Fatal("open database", zap.Error(err))
	}

	m := metrics.New()

	deps := routes.Deps{
		Logger:  zl,
		Metrics: m,
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = cache.NewRedis(cfg.Redis.URL)
		if err != nil {
			zl.Warn("redis unavailable, running without cache", zap.Error(err))
		} else {
			deps.Redis = redisClient
		}
	}

	deps.Gateway, err = payment.New(cfg.Payment)
	if err != nil {
		zl.Fatal("payment gateway", zap.Error(err))
	}

	if cfg.S3.Enabled() {
		deps.Store = storage.NewS3(cfg.S3)
	}

	var mail notify.Mailer = notify.LogMailer{Logger: zl}
	if cfg.SMTP.Enabled() {
		smtp, err := mailer.NewSMTP(cfg.SMTP)
		if err != nil {
			zl.Fatal("smtp mailer", zap.Error(err))
		}
		mail = smtp
	}

	deps.Audit = audit.NewDispatcher(audit.New(db), zl)
	deps.Notifier = notify.NewDispatcher(mail, zl)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	expirer := routes.RegisterRoutes(r, db, cfg, deps)

	scheduler, err := jobs.NewScheduler(zl)
	if err != nil {
		zl.Fatal("scheduler", zap.Error(err))
	}
	if err := scheduler.AddBookingExpiry(expirer, cfg.ExpiryInterval); err != nil {
		zl.Fatal("schedule booking expiry", zap.Error(err))
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server running", zap.String("addr", cfg.Addr()), zap.String("payment", deps.Gateway.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("server shutdown", zap.Error(err))
	}
	if err := scheduler.Shutdown(); err != nil {
		zl.Error("scheduler shutdown", zap.Error(err))
	}

	deps.Audit.Close()
	deps.Notifier.Close()

	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
