package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/chapavet/marketplace/thirdparty/rabbitmq"
	"github.com/chapavet/marketplace/utils/logger"
	"github.com/spf13/cobra"
)

func newConsumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consume",
		Short: "Run the RabbitMQ worker for order expiry and notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsume(cmd.Context())
		},
	}
}

func runConsume(parent context.Context) error {
	cfg, cleanup, err := bootstrap("consumer")
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.Internal.APIKey == "" {
		return fmt.Errorf("INTERNAL_API_KEY is required")
	}

	consumer, err := rabbitmq.NewConsumer(
		cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password,
		cfg.Internal.BaseURL, cfg.Internal.APIKey,
	)
	if err != nil {
		return fmt.Errorf("connect rabbitmq: %w", err)
	}
	defer func() {
		_ = consumer.Close()
	}()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Consumer running")
	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info("Consumer stopped")
	return nil
}
