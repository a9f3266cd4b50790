package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gopkg.in/telebot.v3"

	"quiz_backend/internal/app"
	domainTelegram "quiz_backend/internal/domain/telegram"
	"quiz_backend/internal/infra/config"
	idb "quiz_backend/internal/infra/database"
	"quiz_backend/internal/infra/httpapi"
	"quiz_backend/internal/infra/logger"
	"quiz_backend/internal/infra/scheduler"
	infraTelegram "quiz_backend/internal/infra/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s", cfg.LogLevel, cfg.Environment)

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully.")

	// Initialize Repositories
	userRepo := idb.NewPostgresUserRepository(db)
	resultRepo := idb.NewPostgresResultRepository(db)
	reportRepo := idb.NewPostgresReportRepository(db)
	resultDataRepo := idb.NewPostgresResultDataRepository(db)
	log.Info("Repositories initialized.")

	// Optional telegram notifier for report outcomes
	var notifier domainTelegram.Notifier
	if cfg.TelegramToken != "" {
		bot, err := telebot.NewBot(telebot.Settings{
			Token:  cfg.TelegramToken,
			Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		})
		if err != nil {
			log.Fatalf("FATAL: Could not create Telegram bot: %v", err)
		}
		notifier = infraTelegram.NewTelebotAdapter(bot, cfg.AdminTelegramID)
		log.Infof("Telegram notifier initialized for chat %d.", cfg.AdminTelegramID)
	} else {
		log.Info("Telegram notifier disabled (no TELEGRAM_TOKEN).")
	}

	// Initialize Services
	reportDataService := app.NewReportDataServiceImpl(resultDataRepo, log)
	statusUpdater := app.NewStatusUpdater(reportRepo, log)
	reportService := app.NewReportServiceImpl(
		userRepo, resultRepo, reportRepo, resultDataRepo,
		reportDataService, statusUpdater, notifier, log,
	)
	log.Info("Report services initialized.")

	// Initialize the snapshot ReportScheduler
	var reportScheduler *scheduler.ReportScheduler
	if cfg.SchedulerEnabled {
		reportScheduler = scheduler.NewReportScheduler(reportService, log, cfg.CronSpecSnapshot)
		if err := reportScheduler.Start(); err != nil {
			log.Fatalf("FATAL: Could not start report scheduler: %v", err)
		}
	} else {
		log.Info("Report scheduler disabled by configuration.")
	}

	// HTTP server
	if cfg.Environment == "production" || cfg.Environment == "staging" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpapi.NewRouter(reportService, db, log)
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		log.Infof("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	log.Info("Shutting down application...")
	if reportScheduler != nil {
		reportScheduler.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}
	log.Info("Application shut down gracefully.")
}
