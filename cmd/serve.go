package main

import (
	"context"
	goerrors "errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	analyticsapp "github.com/chapavet/marketplace/application/analytics"
	favoriteapp "github.com/chapavet/marketplace/application/favorite"
	livestockapp "github.com/chapavet/marketplace/application/livestock"
	messageapp "github.com/chapavet/marketplace/application/message"
	notificationapp "github.com/chapavet/marketplace/application/notification"
	orderapp "github.com/chapavet/marketplace/application/order"
	sessionapp "github.com/chapavet/marketplace/application/session"
	settingsapp "github.com/chapavet/marketplace/application/settings"
	userapp "github.com/chapavet/marketplace/application/user"
	vetchatapp "github.com/chapavet/marketplace/application/vetchat"
	"github.com/chapavet/marketplace/cmd/config"
	redisclient "github.com/chapavet/marketplace/cmd/redis"
	analyticsRepo "github.com/chapavet/marketplace/repository/analytics"
	favoriteRepo "github.com/chapavet/marketplace/repository/favorite"
	livestockRepo "github.com/chapavet/marketplace/repository/livestock"
	messageRepo "github.com/chapavet/marketplace/repository/message"
	notificationRepo "github.com/chapavet/marketplace/repository/notification"
	orderRepo "github.com/chapavet/marketplace/repository/order"
	redisRepo "github.com/chapavet/marketplace/repository/redis"
	sessionRepo "github.com/chapavet/marketplace/repository/session"
	settingsRepo "github.com/chapavet/marketplace/repository/settings"
	txRepo "github.com/chapavet/marketplace/repository/tx"
	userRepo "github.com/chapavet/marketplace/repository/user"
	"github.com/chapavet/marketplace/thirdparty/aigateway"
	"github.com/chapavet/marketplace/thirdparty/gemini"
	"github.com/chapavet/marketplace/thirdparty/rabbitmq"
	"github.com/chapavet/marketplace/transport"
	"github.com/chapavet/marketplace/utils/cache"
	"github.com/chapavet/marketplace/utils/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	cfg, cleanup, err := bootstrap("server")
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	db, err := connectDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := redisclient.New(cfg); err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		_ = redisclient.Close()
	}()

	// Initialize repositories
	UserRepo := userRepo.NewUserRepository(db)
	RedisRepo := redisRepo.NewRepository()
	SessionRepo := sessionRepo.NewSessionRepository(db)
	SettingsRepo := settingsRepo.NewSettingsRepository(db)
	LivestockRepo := livestockRepo.NewLivestockRepository(db)
	OrderRepo := orderRepo.NewOrderRepository(db)
	TxRepo := txRepo.NewTxRepository(db)
	FavoriteRepo := favoriteRepo.NewFavoriteRepository(db)
	MessageRepo := messageRepo.NewMessageRepository(db)
	NotificationRepo := notificationRepo.NewNotificationRepository(db)
	AnalyticsRepo := analyticsRepo.NewAnalyticsRepository(db)

	// RabbitMQ is optional: without it orders rely on the admin to cancel
	// stale ones and notifications are not queued.
	var publisher orderapp.Publisher
	rmq, err := rabbitmq.NewPublisher(cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password)
	if err != nil {
		logger.Warn("rabbitmq unavailable, running without publisher", zap.Error(err))
	} else {
		publisher = rmq
		defer func() {
			_ = rmq.Close()
		}()
	}

	streamer, err := newStreamer(parent, cfg)
	if err != nil {
		logger.Warn("chat provider unavailable", zap.Error(err))
	}

	catalog := cache.New()

	// Initialize application layers
	SettingsApp := settingsapp.NewSettingsApp(cfg, SettingsRepo, RedisRepo)
	rh := &transport.RestHandler{
		UserApp:         userapp.NewUserApp(cfg, UserRepo, RedisRepo, SessionRepo, SettingsApp),
		LivestockApp:    livestockapp.NewLivestockApp(cfg, LivestockRepo, UserRepo, catalog),
		OrderApp:        orderapp.NewOrderApp(cfg, TxRepo, OrderRepo, LivestockRepo, catalog, publisher),
		FavoriteApp:     favoriteapp.NewFavoriteApp(FavoriteRepo, LivestockRepo),
		MessageApp:      messageapp.NewMessageApp(MessageRepo, UserRepo, notifierFor(publisher)),
		NotificationApp: notificationapp.NewNotificationApp(NotificationRepo),
		AnalyticsApp:    analyticsapp.NewAnalyticsApp(AnalyticsRepo, LivestockRepo, OrderRepo, SessionRepo),
		SessionApp:      sessionapp.NewSessionApp(SessionRepo, RedisRepo),
		SettingsApp:     SettingsApp,
		VetChatApp:      vetchatapp.NewVetChatApp(cfg, streamer),
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      transport.NewTransport(rh, cfg.Internal.APIKey),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server running", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !goerrors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newStreamer picks the chat backend. A nil streamer makes the relay answer
// with a configuration error.
func newStreamer(ctx context.Context, cfg *config.Config) (vetchatapp.Streamer, error) {
	if cfg.ChatAPIKey() == "" {
		return nil, nil
	}
	if cfg.AI.Provider == config.ProviderGemini {
		c, err := gemini.NewClient(ctx, cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return aigateway.NewClient(cfg.AI.GatewayURL, cfg.AI.GatewayAPIKey, cfg.AI.Model, cfg.AI.Timeout), nil
}

// notifierFor narrows the publisher for the message app, keeping nil as nil.
func notifierFor(p orderapp.Publisher) messageapp.Notifier {
	if p == nil {
		return nil
	}
	return p
}
