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

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/flashid/volunteer-bot/internal/bot"
	"github.com/flashid/volunteer-bot/internal/config"
	"github.com/flashid/volunteer-bot/internal/repository"
	"github.com/flashid/volunteer-bot/internal/server"
	"github.com/flashid/volunteer-bot/internal/service"
	"github.com/flashid/volunteer-bot/internal/telegram"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := repository.NewDB(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal("connect store", zap.Error(err))
	}
	defer func() {
		if err := repository.Disconnect(context.Background(), db); err != nil {
			logger.Warn("store disconnect", zap.Error(err))
		}
	}()

	volunteerRepo := repository.NewVolunteerRepository(db)
	iconRepo := repository.NewIconRepository(db)

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("create bot api", zap.Error(err))
	}
	logger.Info("bot authorized", zap.String("account", api.Self.UserName))

	gateway := telegram.NewGateway(api, logger)
	images := service.NewSecurityImageService(iconRepo, logger)
	dispatcher := bot.NewDispatcher(volunteerRepo, gateway, images, cfg.SecurityImageBaseURL, logger)

	scheduler := service.NewSchedulerService(time.Local)
	if cfg.IconResetSchedule != "" {
		if _, err := scheduler.Schedule(cfg.IconResetSchedule, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := images.ResetPool(jobCtx); err != nil {
				logger.Error("icon pool reset", zap.Error(err))
			}
		}); err != nil {
			logger.Fatal("schedule icon reset", zap.Error(err))
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	srv := server.New(dispatcher, gateway, cfg.WebhookBaseURL, cfg.Environment, logger)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", httpServer.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}

	logger.Info("shutdown complete")
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
