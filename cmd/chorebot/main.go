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

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Kerhoff/ChoreboT/internal/api"
	"github.com/Kerhoff/ChoreboT/internal/app"
	"github.com/Kerhoff/ChoreboT/internal/auth"
	"github.com/Kerhoff/ChoreboT/internal/config"
	"github.com/Kerhoff/ChoreboT/internal/handlers"
	"github.com/Kerhoff/ChoreboT/internal/service"
	"github.com/Kerhoff/ChoreboT/internal/telegram"
	"github.com/Kerhoff/ChoreboT/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel, cfg.LogFormat)
	l.Info("Starting ChoreboT...")

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, closeStorage, err := app.NewService(ctx, cfg, l)
	if err != nil {
		l.Fatalf("Failed to initialise storage: %v", err)
	}
	defer closeStorage()

	tokens, err := auth.NewJWTService(auth.JWTConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		TokenTTL: cfg.TokenTTL,
	})
	if err != nil {
		l.Fatalf("Failed to create token service: %v", err)
	}

	// Telegram bot and due digest
	var digest *service.DueDigest
	if cfg.TelegramEnabled() {
		bot, err := telegram.NewBot(cfg.TelegramToken, svc, l)
		if err != nil {
			l.Fatalf("Failed to create Telegram bot: %v", err)
		}

		bot.RegisterCommand("start", handlers.NewStartHandler(l))
		bot.RegisterCommand("help", handlers.NewHelpHandler())
		bot.RegisterCommand("jobs", handlers.NewJobsHandler(svc))
		bot.RegisterCommand("due", handlers.NewDueHandler(svc))
		bot.RegisterCommand("done", handlers.NewDoneHandler(svc, l))
		bot.RegisterCommand("leave", handlers.NewLeaveHandler(svc))
		bot.RegisterCommand("friends", handlers.NewFriendsHandler(svc))
		bot.RegisterCommand("invites", handlers.NewInvitesHandler(svc))
		bot.RegisterCommand("join", handlers.NewJoinHandler(svc))
		bot.RegisterCommand("token", handlers.NewTokenHandler(tokens, l))

		go func() {
			if err := bot.Start(ctx); err != nil {
				l.Errorf("Bot error: %v", err)
			}
		}()

		digest = service.NewDueDigest(svc, bot.SendMessage, service.WithSchedule(cfg.DueDigestSchedule))
		if err := digest.Start(); err != nil {
			l.Fatalf("Failed to start due digest: %v", err)
		}
	} else {
		l.Warn("TELEGRAM_TOKEN not set; bot and due digest disabled")
	}

	// Prometheus metrics
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:              ":" + cfg.PrometheusPort,
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		l.Infof("Metrics server listening on :%s", cfg.PrometheusPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Errorf("Metrics server error: %v", err)
		}
	}()

	// HTTP API
	apiServer := api.NewServer(svc, tokens, l)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		l.Infof("HTTP server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Errorf("HTTP server error: %v", err)
			stop()
		}
	}()

	l.Info("ChoreboT started successfully")

	<-ctx.Done()
	l.Info("Received shutdown signal...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if digest != nil {
		<-digest.Stop().Done()
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		l.Errorf("HTTP server shutdown error: %v", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		l.Errorf("Metrics server shutdown error: %v", err)
	}

	l.Info("ChoreboT stopped")
}
