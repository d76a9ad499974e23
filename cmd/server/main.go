package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/SaladDann/SIGECOB/internal/config"
	"github.com/SaladDann/SIGECOB/internal/httpserver"
	"github.com/SaladDann/SIGECOB/internal/notify"
	"github.com/SaladDann/SIGECOB/internal/repo"
	"github.com/SaladDann/SIGECOB/internal/service"
	pkgdb "github.com/SaladDann/SIGECOB/pkg/db"
	"github.com/SaladDann/SIGECOB/pkg/idempotency"
	"github.com/SaladDann/SIGECOB/pkg/kafka"
	"github.com/SaladDann/SIGECOB/pkg/logging"
	"github.com/SaladDann/SIGECOB/pkg/metrics"
	"github.com/SaladDann/SIGECOB/pkg/middleware/csrf"
	loggingmw "github.com/SaladDann/SIGECOB/pkg/middleware/logging"
	"github.com/SaladDann/SIGECOB/pkg/tokens"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(initCtx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db open: %v", err)
	}
	gormRepo := repo.New(db)
	if err := gormRepo.Migrate(initCtx); err != nil {
		cancel()
		log.Fatalf("db migrate: %v", err)
	}
	cancel()

	producer := kafka.NewProducer(cfg.KafkaBrokers)
	if !producer.Enabled() {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	var idemStore *idempotency.Store
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		idemStore = idempotency.NewStore(rdb, cfg.ServiceName, idempotency.DefaultTTL)
	} else {
		logger.Warn("idempotency_disabled", "reason", "REDIS_ADDR is empty")
	}

	var notifier notify.Notifier = notify.LogNotifier{}
	if producer.Enabled() {
		notifier = &notify.KafkaNotifier{Publisher: producer}
	}

	dispatcher := notify.NewDispatcher(0)
	effects := &service.Effects{
		Dispatcher: dispatcher,
		Audit:      &notify.GormAuditSink{Repo: gormRepo},
		Notifier:   notifier,
		Events:     producer,
	}
	serverMetrics := metrics.NewServerMetrics(cfg.ServiceName, nil)

	users := &service.UserService{Repo: gormRepo, Effects: effects}
	if cfg.AdminEmail != "" {
		bootCtx, bootCancel := context.WithTimeout(logging.IntoContext(context.Background(), logger), 10*time.Second)
		if _, err := users.EnsureAdmin(bootCtx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Error("admin_bootstrap_error", "error", err)
		}
		bootCancel()
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.HTTPErrorHandler
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(serverMetrics.Middleware())
	e.Use(echomw.CORS())
	e.Use(echomw.Secure())
	e.Use(csrf.Middleware(csrf.Config{
		AuthCookie: tokens.AccessCookieName,
		Secure:     true,
		SkipPaths:  []string{"/api/v1/auth/login", "/api/v1/auth/register"},
	}))

	httpserver.Register(e, &httpserver.Deps{
		Auth: &httpserver.AuthHTTP{Svc: &service.AccountService{
			Repo:      gormRepo,
			Effects:   effects,
			JWTSecret: cfg.JWTAccessSecret,
			TokenTTL:  cfg.TokenTTL,
		}},
		Catalog: &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: gormRepo, Effects: effects}},
		Cart:    &httpserver.CartHTTP{Svc: &service.CartService{Repo: gormRepo}},
		Orders: &httpserver.OrderHTTP{Svc: &service.OrderService{
			Repo:    gormRepo,
			Effects: effects,
			Metrics: serverMetrics,
		}},
		Audit: &httpserver.AuditHTTP{Svc: &service.AuditService{Repo: gormRepo}},
		Users: &httpserver.UserHTTP{Svc: users},

		DB:          gormRepo,
		Metrics:     serverMetrics,
		Idempotency: idemStore,

		JWTSecret:         cfg.JWTAccessSecret,
		CheckoutRateLimit: cfg.CheckoutRateLimit,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr, "db_driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_shutdown_error", "error", err)
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		logger.Error("dispatcher_shutdown_error", "error", err)
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka_close_error", "error", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("server_stopped")
}
