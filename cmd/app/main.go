package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"helios_miniapp/internal/notify"
	"helios_miniapp/internal/repository"
	"helios_miniapp/internal/service"
	"helios_miniapp/pkg/logger"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier, closeNotifier := newWelcomeNotifier(ctx, cfg)
	defer closeNotifier()

	opts := service.LedgerOptions{AtomicCounters: cfg.Ledger.AtomicCounters}
	svc := service.NewService(
		service.NewUserService(repo, notifier, opts),
		service.NewTaskService(repo),
		service.NewRatingService(repo),
		service.NewAirdropService(repo, opts),
	)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: newRouter(cfg, svc),
	}

	go func() {
		zapLogger.Info("Starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server shutdown failed", zap.Error(err))
	}
}

// newWelcomeNotifier starts the Telegram notifier, or returns a no-op one when it is disabled or the bot
// cannot be reached.
func newWelcomeNotifier(ctx context.Context, cfg *Config) (service.WelcomeNotifier, func()) {
	zapLogger := logger.Logger()

	if !cfg.Notifier.Enabled || cfg.TelegramAuth.TelegramBotToken == "" {
		zapLogger.Info("Welcome notifier disabled")
		return notify.Nop{}, func() {}
	}

	bot, err := notify.NewBotSender(cfg.TelegramAuth.TelegramBotToken)
	if err != nil {
		zapLogger.Error("Failed to initialize telegram bot, welcome notifier disabled", zap.Error(err))
		return notify.Nop{}, func() {}
	}

	n := notify.NewNotifier(bot, cfg.Notifier)
	n.Start(ctx)
	return n, n.Close
}
